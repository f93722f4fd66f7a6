// Package storage holds the per-component-type stores. Every backend satisfies the same Store contract; picking
// one is a performance/flexibility tradeoff, never a behavioral one.
package storage

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/types"
)

// ErasedStore is the type-erased view of a Store. The world uses it for lifecycle work (entity destruction,
// diagnostics) without knowing the concrete component type.
type ErasedStore interface {
	// Remove detaches the value held for id. Removing an absent id is a no-op.
	Remove(id types.EntityID)
	// Has reports whether a live value exists for id.
	Has(id types.EntityID) bool
	// Lookup returns the live value for id as an any.
	Lookup(id types.EntityID) (any, bool)
	// Len returns the number of live values.
	Len() int
	Backend() Backend
}

// Store maps entity ids to values of one component type.
//
// Pointers returned by GetMut stay bound to the entity they were looked up for: no backend hands out a pointer
// that can later alias another entity's value.
type Store[T any] interface {
	ErasedStore
	// Insert stores value for id, replacing any previous value (last write wins).
	Insert(id types.EntityID, value T) error
	// Get returns a copy of the value held for id.
	Get(id types.EntityID) (T, bool)
	// GetMut returns a pointer to the value held for id.
	GetMut(id types.EntityID) (*T, bool)
}

// New creates a store of type T with the given options. The List backend needs a ListHost, see WithListHost.
func New[T any](opts ...Option) (Store[T], error) {
	o := newOptions(opts...)
	switch o.backend {
	case Dense:
		s, err := NewDense[T](o.capacity)
		if err != nil {
			return nil, err
		}
		return s, nil
	case SparseSet:
		return NewSparseSet[T](o.capacity), nil
	case HashMap:
		return NewHashMap[T](o.capacity), nil
	case List:
		if o.host == nil {
			return nil, eris.Wrap(ErrNoListHost, "")
		}
		return NewList[T](o.tag, o.host), nil
	}
	return nil, eris.Wrapf(ErrUnknownBackend, "backend %d", o.backend)
}
