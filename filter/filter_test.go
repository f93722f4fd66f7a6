package filter_test

import (
	"testing"

	"pkg.world.dev/world-engine/ecs/assert"
	"pkg.world.dev/world-engine/ecs/filter"
	"pkg.world.dev/world-engine/ecs/types"
)

type named string

func (n named) Name() string { return string(n) }

var (
	collide = named("Collide")
	moveTo  = named("MoveTo")
	health  = named("Health")
)

func TestFilters(t *testing.T) {
	player := []types.Component{collide, moveTo}
	wall := []types.Component{collide}
	ghost := []types.Component{moveTo, health}

	testCases := []struct {
		name   string
		filter filter.ComponentFilter
		want   []bool // player, wall, ghost
	}{
		{"all", filter.All(), []bool{true, true, true}},
		{"contains collide", filter.Contains(collide), []bool{true, true, false}},
		{"contains collide and moveTo", filter.Contains(collide, moveTo), []bool{true, false, false}},
		{"exact collide", filter.Exact(collide), []bool{false, true, false}},
		{"exact is order independent", filter.Exact(moveTo, collide), []bool{true, false, false}},
		{"not contains collide", filter.Not(filter.Contains(collide)), []bool{false, false, true}},
		{
			"and",
			filter.And(filter.Contains(moveTo), filter.Not(filter.Contains(health))),
			[]bool{true, false, false},
		},
		{"or", filter.Or(filter.Exact(collide), filter.Contains(health)), []bool{false, true, true}},
		{"empty or", filter.Or(), []bool{false, false, false}},
		{"empty and", filter.And(), []bool{true, true, true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for i, components := range [][]types.Component{player, wall, ghost} {
				assert.Equal(t, tc.want[i], tc.filter.MatchesComponents(components), "entity %d", i)
			}
		})
	}
}
