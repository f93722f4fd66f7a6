package filter

import "pkg.world.dev/world-engine/ecs/types"

type all struct{}

// All matches every entity.
func All() ComponentFilter {
	return all{}
}

func (all) MatchesComponents(_ []types.Component) bool {
	return true
}

type not struct {
	filter ComponentFilter
}

func Not(filter ComponentFilter) ComponentFilter {
	return &not{filter: filter}
}

func (f *not) MatchesComponents(components []types.Component) bool {
	return !f.filter.MatchesComponents(components)
}

type and struct {
	filters []ComponentFilter
}

// And matches when every filter matches. An empty And matches everything.
func And(filters ...ComponentFilter) ComponentFilter {
	return &and{filters: filters}
}

func (f *and) MatchesComponents(components []types.Component) bool {
	for _, filter := range f.filters {
		if !filter.MatchesComponents(components) {
			return false
		}
	}
	return true
}

type or struct {
	filters []ComponentFilter
}

// Or matches when at least one filter matches. An empty Or matches nothing.
func Or(filters ...ComponentFilter) ComponentFilter {
	return &or{filters: filters}
}

func (f *or) MatchesComponents(components []types.Component) bool {
	for _, filter := range f.filters {
		if filter.MatchesComponents(components) {
			return true
		}
	}
	return false
}
