// Package filter selects entities by the set of component types attached to them. Filters only look at which
// types are present, never at component values.
package filter

import (
	"pkg.world.dev/world-engine/ecs/types"
)

// ComponentFilter is a filter that filters entities based on their components.
type ComponentFilter interface {
	// MatchesComponents returns true if an entity carrying exactly these components matches the filter.
	MatchesComponents(components []types.Component) bool
}

// MatchComponent returns true if the given slice of components contains the given component.
// Components are the same if they have the same Name.
func MatchComponent(components []types.Component, cType types.Component) bool {
	for _, c := range components {
		if cType.Name() == c.Name() {
			return true
		}
	}
	return false
}
