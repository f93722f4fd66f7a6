package storage

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/types"
)

var _ Store[struct{}] = (*DenseStore[struct{}])(nil)

// DenseStore is a fixed-capacity array indexed directly by entity id. Ids at or beyond the capacity are absent on
// read and rejected on write. Slots never move, so pointers from GetMut stay valid until the value is removed.
type DenseStore[T any] struct {
	values  []T
	present []bool
	count   int
}

func NewDense[T any](capacity int) (*DenseStore[T], error) {
	if capacity <= 0 {
		return nil, eris.Wrapf(ErrInvalidCapacity, "dense store capacity %d", capacity)
	}
	return &DenseStore[T]{
		values:  make([]T, capacity),
		present: make([]bool, capacity),
	}, nil
}

func (s *DenseStore[T]) inRange(id types.EntityID) bool {
	return id < types.EntityID(len(s.values))
}

func (s *DenseStore[T]) Insert(id types.EntityID, value T) error {
	if !s.inRange(id) {
		return eris.Wrapf(ErrCapacityExhausted, "entity %d does not fit in dense store of capacity %d", id, len(s.values))
	}
	if !s.present[id] {
		s.present[id] = true
		s.count++
	}
	s.values[id] = value
	return nil
}

func (s *DenseStore[T]) Get(id types.EntityID) (T, bool) {
	if !s.Has(id) {
		var zero T
		return zero, false
	}
	return s.values[id], true
}

func (s *DenseStore[T]) GetMut(id types.EntityID) (*T, bool) {
	if !s.Has(id) {
		return nil, false
	}
	return &s.values[id], true
}

func (s *DenseStore[T]) Lookup(id types.EntityID) (any, bool) {
	return s.Get(id)
}

func (s *DenseStore[T]) Remove(id types.EntityID) {
	if !s.Has(id) {
		return
	}
	var zero T
	s.values[id] = zero
	s.present[id] = false
	s.count--
}

func (s *DenseStore[T]) Has(id types.EntityID) bool {
	return s.inRange(id) && s.present[id]
}

func (s *DenseStore[T]) Len() int {
	return s.count
}

// Cap returns the fixed capacity of the store.
func (s *DenseStore[T]) Cap() int {
	return len(s.values)
}

func (s *DenseStore[T]) Backend() Backend {
	return Dense
}
