package storage

import "pkg.world.dev/world-engine/ecs/types"

var _ Store[struct{}] = (*SparseSetStore[struct{}])(nil)

const absent = -1

// SparseSetStore keeps a dense packed list of ids and values plus a sparse index from id to dense slot.
// Insert, Get and Remove are O(1); removal swaps the last dense slot into the hole. Values are boxed so a pointer
// from GetMut keeps following its entity across swap-removes.
type SparseSetStore[T any] struct {
	sparse []int
	ids    []types.EntityID
	values []*T
}

// NewSparseSet creates a sparse set pre-sized for capacity ids. It grows past that on demand.
func NewSparseSet[T any](capacity int) *SparseSetStore[T] {
	if capacity < 0 {
		capacity = 0
	}
	s := &SparseSetStore[T]{
		sparse: make([]int, capacity),
		ids:    make([]types.EntityID, 0, capacity),
		values: make([]*T, 0, capacity),
	}
	for i := range s.sparse {
		s.sparse[i] = absent
	}
	return s
}

func (s *SparseSetStore[T]) slot(id types.EntityID) (int, bool) {
	if id >= types.EntityID(len(s.sparse)) {
		return 0, false
	}
	idx := s.sparse[id]
	if idx == absent || idx >= len(s.ids) || s.ids[idx] != id {
		return 0, false
	}
	return idx, true
}

func (s *SparseSetStore[T]) grow(id types.EntityID) {
	need := int(id) + 1
	if need <= len(s.sparse) {
		return
	}
	newLen := max(need, 2*len(s.sparse))
	grown := make([]int, newLen)
	copy(grown, s.sparse)
	for i := len(s.sparse); i < newLen; i++ {
		grown[i] = absent
	}
	s.sparse = grown
}

func (s *SparseSetStore[T]) Insert(id types.EntityID, value T) error {
	if idx, ok := s.slot(id); ok {
		*s.values[idx] = value
		return nil
	}
	s.grow(id)
	v := value
	s.sparse[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.values = append(s.values, &v)
	return nil
}

func (s *SparseSetStore[T]) Get(id types.EntityID) (T, bool) {
	idx, ok := s.slot(id)
	if !ok {
		var zero T
		return zero, false
	}
	return *s.values[idx], true
}

func (s *SparseSetStore[T]) GetMut(id types.EntityID) (*T, bool) {
	idx, ok := s.slot(id)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *SparseSetStore[T]) Lookup(id types.EntityID) (any, bool) {
	return s.Get(id)
}

func (s *SparseSetStore[T]) Remove(id types.EntityID) {
	idx, ok := s.slot(id)
	if !ok {
		return
	}
	last := len(s.ids) - 1
	lastID := s.ids[last]

	s.ids[idx] = lastID
	s.values[idx] = s.values[last]
	s.sparse[lastID] = idx

	s.values[last] = nil
	s.ids = s.ids[:last]
	s.values = s.values[:last]
	s.sparse[id] = absent
}

func (s *SparseSetStore[T]) Has(id types.EntityID) bool {
	_, ok := s.slot(id)
	return ok
}

func (s *SparseSetStore[T]) Len() int {
	return len(s.ids)
}

// IDs returns the packed id list. The slice is owned by the store and is reordered by Remove.
func (s *SparseSetStore[T]) IDs() []types.EntityID {
	return s.ids
}

func (s *SparseSetStore[T]) Backend() Backend {
	return SparseSet
}
