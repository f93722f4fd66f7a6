package storage

import "pkg.world.dev/world-engine/ecs/types"

var _ Store[struct{}] = (*HashMapStore[struct{}])(nil)

// HashMapStore keys values by entity id. It has no requirement on the shape of the id space.
type HashMapStore[T any] struct {
	values map[types.EntityID]*T
}

func NewHashMap[T any](capacity int) *HashMapStore[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &HashMapStore[T]{values: make(map[types.EntityID]*T, capacity)}
}

func (s *HashMapStore[T]) Insert(id types.EntityID, value T) error {
	if p, ok := s.values[id]; ok {
		*p = value
		return nil
	}
	v := value
	s.values[id] = &v
	return nil
}

func (s *HashMapStore[T]) Get(id types.EntityID) (T, bool) {
	p, ok := s.values[id]
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

func (s *HashMapStore[T]) GetMut(id types.EntityID) (*T, bool) {
	p, ok := s.values[id]
	return p, ok
}

func (s *HashMapStore[T]) Lookup(id types.EntityID) (any, bool) {
	return s.Get(id)
}

func (s *HashMapStore[T]) Remove(id types.EntityID) {
	delete(s.values, id)
}

func (s *HashMapStore[T]) Has(id types.EntityID) bool {
	_, ok := s.values[id]
	return ok
}

func (s *HashMapStore[T]) Len() int {
	return len(s.values)
}

func (s *HashMapStore[T]) Backend() Backend {
	return HashMap
}
