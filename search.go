package ecs

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/cql"
	"pkg.world.dev/world-engine/ecs/filter"
	"pkg.world.dev/world-engine/ecs/types"
)

// Search returns the entities whose attached component set matches f, in the order of entities. Destroyed
// entities and entities of other worlds never match.
func (w *World) Search(f filter.ComponentFilter, entities []*Entity) []*Entity {
	matches := make([]*Entity, 0, len(entities))
	for _, e := range entities {
		if !w.holds(e) {
			continue
		}
		if f.MatchesComponents(e.componentSet()) {
			matches = append(matches, e)
		}
	}
	return matches
}

// SearchCQL parses text as a component query and runs it like Search. Every component named in text must be
// registered.
func (w *World) SearchCQL(text string, entities []*Entity) ([]*Entity, error) {
	f, err := cql.Parse(text, w.resolveComponent)
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse cql query")
	}
	return w.Search(f, entities), nil
}

func (w *World) resolveComponent(name string) (types.Component, error) {
	info, err := w.Component(name)
	if err != nil {
		return nil, err
	}
	return info, nil
}
