package storage

import (
	"strings"

	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/types"
)

// Backend selects the strategy a Store uses to hold its values.
type Backend int

const (
	// SparseSet packs values densely and keeps a sparse id -> slot index.
	SparseSet Backend = iota
	// Dense indexes a fixed-capacity array directly by entity id.
	Dense
	// HashMap keys values by entity id in a Go map.
	HashMap
	// List keeps no global data: values live in a tagged list on each entity.
	List
)

const DefaultCapacity = 2048

func (b Backend) String() string {
	switch b {
	case SparseSet:
		return "sparse"
	case Dense:
		return "dense"
	case HashMap:
		return "hashmap"
	case List:
		return "list"
	}
	return "unknown"
}

// ParseBackend is the inverse of Backend.String. Matching is case-insensitive.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sparse", "sparseset", "sparse-set":
		return SparseSet, nil
	case "dense", "array":
		return Dense, nil
	case "hashmap", "map":
		return HashMap, nil
	case "list":
		return List, nil
	}
	return 0, eris.Wrapf(ErrUnknownBackend, "%q", s)
}

type options struct {
	backend  Backend
	capacity int
	tag      types.ComponentID
	host     ListHost
}

// Option configures a store created with New.
type Option func(*options)

func newOptions(opts ...Option) options {
	o := options{
		backend:  SparseSet,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBackend selects the backend. The default is SparseSet.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithCapacity sets the fixed capacity of a Dense store, or the initial capacity of the growable backends.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithListHost wires a List store to the entities it reads from. tag identifies the component type inside each
// entity's list.
func WithListHost(tag types.ComponentID, host ListHost) Option {
	return func(o *options) {
		o.tag = tag
		o.host = host
	}
}

// Resolve returns the backend and capacity New would use for opts.
func Resolve(opts ...Option) (Backend, int) {
	o := newOptions(opts...)
	return o.backend, o.capacity
}
