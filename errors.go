package ecs

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/storage"
)

var (
	// ErrIllFormedQuery is returned when a query names the same component type more than once.
	ErrIllFormedQuery = eris.New("ill-formed query: component type appears more than once")

	// ErrEntityDestroyed is returned when an entity is used after it was destroyed.
	ErrEntityDestroyed = eris.New("entity has been destroyed")

	ErrComponentNotRegistered     = eris.New("component not registered")
	ErrComponentAlreadyRegistered = eris.New("component already registered")

	// ErrComponentNameCollision is returned when two different Go types report the same component name.
	ErrComponentNameCollision = eris.New("component name is already used by another type")

	ErrDuplicateSystem = eris.New("system is already registered")

	// ErrCapacityExhausted is returned when a fixed-capacity store cannot hold an entity id.
	ErrCapacityExhausted = storage.ErrCapacityExhausted
)
