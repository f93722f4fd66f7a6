package storage

import "github.com/rotisserie/eris"

var (
	// ErrCapacityExhausted is returned when a fixed-size backend cannot hold the requested id. The store is left
	// untouched.
	ErrCapacityExhausted = eris.New("store capacity exhausted")
	ErrInvalidCapacity   = eris.New("store capacity must be positive")
	ErrUnknownBackend    = eris.New("unknown store backend")
	ErrNoListHost        = eris.New("list backend requires a list host")
	// ErrNoSuchEntity is returned by the List backend when the host does not know the entity.
	ErrNoSuchEntity = eris.New("entity is not known to the list host")
)
