package ecs_test

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecs"
	"pkg.world.dev/world-engine/ecs/assert"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

func TestGetReturnsLastAttachedValue(t *testing.T) {
	forEachBackend(t, func(t *testing.T, w *ecs.World) {
		e := w.Create()
		defer e.Destroy()

		_, ok := ecs.Get[Health](e)
		assert.False(t, ok)

		e.Attach(ecs.With(Health{HP: 10})).Attach(ecs.With(Health{HP: 20}))
		assert.NilError(t, e.Err())

		got, ok := ecs.Get[Health](e)
		assert.True(t, ok)
		assert.Equal(t, 20, got.HP)
		assert.Len(t, e.Components(), 1)

		healths, err := ecs.Collect(w, ecs.Read[Health](), []*ecs.Entity{e})
		assert.NilError(t, err)
		assert.DeepEqual(t, []Health{{HP: 20}}, healths)

		assert.NilError(t, ecs.Remove[Health](e))
		_, ok = ecs.Get[Health](e)
		assert.False(t, ok)
		assert.Empty(t, e.Components())

		// Removing again is a no-op.
		assert.NilError(t, ecs.Remove[Health](e))
	})
}

func TestGetMutWritesThrough(t *testing.T) {
	forEachBackend(t, func(t *testing.T, w *ecs.World) {
		e, err := ecs.Create(w, ecs.With(Health{HP: 1}))
		assert.NilError(t, err)

		hp, ok := ecs.GetMut[Health](e)
		assert.True(t, ok)
		hp.HP = 99

		got, _ := ecs.Get[Health](e)
		assert.Equal(t, 99, got.HP)
	})
}

func TestGetMutPointerFollowsReattach(t *testing.T) {
	forEachBackend(t, func(t *testing.T, w *ecs.World) {
		e, err := ecs.Create(w, ecs.With(Health{HP: 1}))
		assert.NilError(t, err)

		hp, ok := ecs.GetMut[Health](e)
		assert.True(t, ok)

		e.Attach(ecs.With(Health{HP: 5}))
		assert.NilError(t, e.Err())
		assert.Equal(t, 5, hp.HP)

		hp.HP = 99
		got, ok := ecs.Get[Health](e)
		assert.True(t, ok)
		assert.Equal(t, 99, got.HP)
	})
}

func TestEntityIDsAreUniqueAndMonotonic(t *testing.T) {
	w := newTestWorld(t)
	first := w.Create()
	second := w.Create()
	assert.Equal(t, types.EntityID(0), first.ID())
	assert.Equal(t, types.EntityID(1), second.ID())

	// Destroyed ids are not handed out again.
	assert.NilError(t, second.Destroy())
	third := w.Create()
	assert.Equal(t, types.EntityID(2), third.ID())
}

func TestConcurrentCreateNeverReusesIDs(t *testing.T) {
	w := newTestWorld(t)
	const n = 200

	ids := make(chan types.EntityID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- w.Create().ID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[types.EntityID]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, w.Entities(), n)
}

func TestDestroyRemovesEveryComponentOnce(t *testing.T) {
	forEachBackend(t, func(t *testing.T, w *ecs.World) {
		p, wall := playerAndWall(t, w)

		assert.NilError(t, p.Destroy())
		assert.False(t, p.Alive())

		collide, ok := ecs.ComponentOf[Collide](w)
		assert.True(t, ok)
		assert.Equal(t, 1, collide.Len())
		moveTo, ok := ecs.ComponentOf[MoveTo](w)
		assert.True(t, ok)
		assert.Equal(t, 0, moveTo.Len())

		err := p.Destroy()
		assert.ErrorIs(t, err, ecs.ErrEntityDestroyed)
		assert.Equal(t, 1, collide.Len())

		_, ok = ecs.Get[Collide](p)
		assert.False(t, ok)
		_, ok = ecs.Get[Collide](wall)
		assert.True(t, ok)

		entities := w.Entities()
		assert.Len(t, entities, 1)
		assert.Equal(t, wall.ID(), entities[0].ID())
	})
}

func TestUseAfterDestroy(t *testing.T) {
	w := newTestWorld(t)
	e := w.Create()
	assert.NilError(t, e.Destroy())

	e.Attach(ecs.With(Health{HP: 1}))
	assert.ErrorIs(t, e.Err(), ecs.ErrEntityDestroyed)
	assert.ErrorIs(t, ecs.Remove[Health](e), ecs.ErrEntityDestroyed)

	_, ok := ecs.GetMut[Health](e)
	assert.False(t, ok)
}

func TestDeferredDestroyRunsOnErrorPath(t *testing.T) {
	w := newTestWorld(t)

	spawn := func() error {
		e := w.Create()
		defer e.Destroy()
		e.Attach(ecs.With(Health{HP: 5}))
		return ecs.ErrIllFormedQuery
	}
	assert.ErrorIs(t, spawn(), ecs.ErrIllFormedQuery)

	health, ok := ecs.ComponentOf[Health](w)
	assert.True(t, ok)
	assert.Equal(t, 0, health.Len())
	assert.Empty(t, w.Entities())
}

func TestDenseCapacityExhaustionIsReported(t *testing.T) {
	w := newTestWorld(t, ecs.WithDefaultBackend(storage.Dense), ecs.WithDenseCapacity(2))

	a, err := ecs.Create(w, ecs.With(Health{HP: 1}))
	assert.NilError(t, err)
	b, err := ecs.Create(w, ecs.With(Health{HP: 2}))
	assert.NilError(t, err)

	c, err := ecs.Create(w, ecs.With(Health{HP: 3}))
	assert.ErrorIs(t, err, ecs.ErrCapacityExhausted)
	assert.Nil(t, c)

	// Earlier entities are untouched.
	got, _ := ecs.Get[Health](a)
	assert.Equal(t, 1, got.HP)
	got, _ = ecs.Get[Health](b)
	assert.Equal(t, 2, got.HP)
	assert.Len(t, w.Entities(), 2)
}

func TestAttachErrorIsSticky(t *testing.T) {
	w := newTestWorld(t, ecs.WithDefaultBackend(storage.Dense), ecs.WithDenseCapacity(1))
	_ = w.Create()

	e := w.Create().
		Attach(ecs.With(Health{HP: 1})).
		Attach(ecs.With(Collide{}))
	assert.ErrorIs(t, e.Err(), ecs.ErrCapacityExhausted)
	assert.Empty(t, e.Components())

	_, registered := ecs.ComponentOf[Collide](w)
	assert.False(t, registered)
}

func TestCloseDestroysLiveEntities(t *testing.T) {
	w, err := ecs.NewWorld(ecs.WithLogger(zerolog.Nop()))
	assert.NilError(t, err)
	p, wall := playerAndWall(t, w)

	assert.NilError(t, w.Close())
	assert.False(t, p.Alive())
	assert.False(t, wall.Alive())

	collide, _ := ecs.ComponentOf[Collide](w)
	assert.Equal(t, 0, collide.Len())
}
