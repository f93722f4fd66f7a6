package ecs_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pkg.world.dev/world-engine/ecs"
	"pkg.world.dev/world-engine/ecs/assert"
)

type tickRecord struct {
	System string
	Count  int
}

// registerPlayerAndWallSystems registers one system per query of the player/wall scenario, recording each call.
func registerPlayerAndWallSystems(t *testing.T, w *ecs.World, calls *[]tickRecord) {
	t.Helper()
	assert.NilError(t, ecs.RegisterNamedSystem(w, "collide", ecs.Read[Collide](),
		func(_ ecs.SystemContext, rows []Collide) error {
			*calls = append(*calls, tickRecord{"collide", len(rows)})
			return nil
		}))
	assert.NilError(t, ecs.RegisterNamedSystem(w, "move", ecs.Read[MoveTo](),
		func(_ ecs.SystemContext, rows []MoveTo) error {
			*calls = append(*calls, tickRecord{"move", len(rows)})
			return nil
		}))
	assert.NilError(t, ecs.RegisterNamedSystem(w, "collide_move",
		ecs.MustJoin(ecs.Read[Collide](), ecs.Write[MoveTo]()),
		func(_ ecs.SystemContext, rows []ecs.Pair[Collide, *MoveTo]) error {
			*calls = append(*calls, tickRecord{"collide_move", len(rows)})
			return nil
		}))
}

func TestTickRunsSystemsInRegistrationOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, w *ecs.World) {
		p, wall := playerAndWall(t, w)
		var calls []tickRecord
		registerPlayerAndWallSystems(t, w, &calls)

		assert.NilError(t, w.Tick(context.Background(), []*ecs.Entity{p, wall}))
		assert.DeepEqual(t, []tickRecord{{"collide", 2}, {"move", 1}, {"collide_move", 1}}, calls)
		assert.Equal(t, uint64(1), w.CurrentTick())
		assert.DeepEqual(t, []string{"collide", "move", "collide_move"}, w.Systems())
	})
}

func TestTickAfterDestroyShrinksResults(t *testing.T) {
	forEachBackend(t, func(t *testing.T, w *ecs.World) {
		p, wall := playerAndWall(t, w)
		var calls []tickRecord
		registerPlayerAndWallSystems(t, w, &calls)
		population := []*ecs.Entity{p, wall}

		assert.NilError(t, w.Tick(context.Background(), population))
		before := calls[0].Count

		assert.NilError(t, p.Destroy())
		calls = calls[:0]
		assert.NilError(t, w.Tick(context.Background(), population))
		assert.Equal(t, before-1, calls[0].Count)
		assert.Equal(t, 0, calls[1].Count)
		assert.Equal(t, 0, calls[2].Count)
	})
}

func TestSystemWithNoMatchesStillRuns(t *testing.T) {
	w := newTestWorld(t)
	invoked := 0
	assert.NilError(t, ecs.RegisterNamedSystem(w, "health", ecs.Read[Health](),
		func(_ ecs.SystemContext, rows []Health) error {
			invoked++
			assert.NotNil(t, rows)
			assert.Empty(t, rows)
			return nil
		}))

	assert.NilError(t, w.TickLive(context.Background()))
	_, _ = playerAndWall(t, w)
	assert.NilError(t, w.TickLive(context.Background()))
	assert.Equal(t, 2, invoked)
}

func TestSystemsSeeEachOthersWrites(t *testing.T) {
	w := newTestWorld(t)
	p, _ := playerAndWall(t, w)

	assert.NilError(t, ecs.RegisterNamedSystem(w, "push", ecs.Write[MoveTo](),
		func(_ ecs.SystemContext, rows []*MoveTo) error {
			for _, m := range rows {
				m.X++
			}
			return nil
		}))
	var seen []int
	assert.NilError(t, ecs.RegisterNamedSystem(w, "observe", ecs.Read[MoveTo](),
		func(_ ecs.SystemContext, rows []MoveTo) error {
			seen = append(seen, rows[0].X)
			return nil
		}))

	for i := 0; i < 3; i++ {
		assert.NilError(t, w.TickLive(context.Background()))
	}
	assert.DeepEqual(t, []int{2, 3, 4}, seen)
	got, _ := ecs.Get[MoveTo](p)
	assert.Equal(t, 4, got.X)
}

var errBoom = errors.New("boom")

func TestSystemErrorAbortsTick(t *testing.T) {
	w := newTestWorld(t)
	ran := false
	assert.NilError(t, ecs.RegisterNamedSystem(w, "fail", ecs.Read[Collide](),
		func(_ ecs.SystemContext, _ []Collide) error {
			return errBoom
		}))
	assert.NilError(t, ecs.RegisterNamedSystem(w, "after", ecs.Read[Collide](),
		func(_ ecs.SystemContext, _ []Collide) error {
			ran = true
			return nil
		}))

	err := w.TickLive(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "system fail generated an error")
	assert.False(t, ran)
	assert.Equal(t, uint64(0), w.CurrentTick())
}

func TestRegisterSystemRejectsDuplicates(t *testing.T) {
	w := newTestWorld(t)
	assert.NilError(t, ecs.RegisterSystem(w, ecs.Read[Collide](), countCollide))
	err := ecs.RegisterSystem(w, ecs.Read[Collide](), countCollide)
	assert.ErrorIs(t, err, ecs.ErrDuplicateSystem)
	assert.DeepEqual(t, []string{"ecs_test.countCollide"}, w.Systems())
}

func TestRegisterSystemRejectsIllFormedQuery(t *testing.T) {
	w := newTestWorld(t)
	q, _ := ecs.Join(ecs.Write[Collide](), ecs.Read[Collide]())
	err := ecs.RegisterNamedSystem(w, "bad", q, func(_ ecs.SystemContext, _ []ecs.Pair[*Collide, Collide]) error {
		return nil
	})
	assert.ErrorIs(t, err, ecs.ErrIllFormedQuery)
	assert.Empty(t, w.Systems())
}

func loggingSystem(sCtx ecs.SystemContext, rows []Collide) error {
	sCtx.Logger().Info().Int("rows", len(rows)).Uint64("tick", sCtx.CurrentTick()).Msg("collided")
	return nil
}

func TestSystemLoggerCarriesSystemName(t *testing.T) {
	w, buf := newBufferedWorld(t)
	_, _ = playerAndWall(t, w)
	assert.NilError(t, ecs.RegisterSystem(w, ecs.Read[Collide](), loggingSystem))

	assert.NilError(t, w.TickLive(context.Background()))

	var line string
	for _, l := range strings.Split(buf.String(), "\n") {
		if strings.Contains(l, `"message":"collided"`) {
			line = l
		}
	}
	assert.Contains(t, line, `"system":"ecs_test.loggingSystem"`)
	assert.Contains(t, line, `"rows":2`)
	assert.Contains(t, line, `"tick":0`)
}

func panicSystem(_ ecs.SystemContext, _ []Collide) error {
	panic("system exploded")
}

func TestTickPanicLogsCurrentSystem(t *testing.T) {
	w, buf := newBufferedWorld(t)
	assert.NilError(t, ecs.RegisterSystem(w, ecs.Read[Collide](), panicSystem))

	assert.Panics(t, func() {
		_ = w.TickLive(context.Background())
	})
	assert.Contains(t, buf.String(), "Tick: 0, Current running system: ecs_test.panicSystem")
}
