package ecs

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"pkg.world.dev/world-engine/ecs/log"
	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

// Entity is a handle on an id and the set of component types attached to it. Component values live in the
// world's stores, except for List backed components which live in the entity's own tagged list.
type Entity struct {
	w        *World
	id       types.EntityID
	attached []*ComponentInfo
	list     storage.TaggedList

	// err is the first attach failure. Once set, Attach does nothing.
	err error

	destroyOnce sync.Once
	destroyed   atomic.Bool
}

// Create allocates a fresh entity id and registers the entity as live. Ids are never reused.
func (w *World) Create() *Entity {
	e := &Entity{
		w:  w,
		id: types.EntityID(w.nextID.Add(1) - 1),
	}
	w.addLive(e)
	return e
}

// Create creates an entity and attaches components to it. If an attachment fails the entity is destroyed and the
// error returned.
func Create(w *World, attachments ...Attachment) (*Entity, error) {
	e := w.Create().Attach(attachments...)
	if err := e.Err(); err != nil {
		_ = e.Destroy()
		return nil, err
	}
	return e, nil
}

func (e *Entity) ID() types.EntityID {
	return e.id
}

// Err returns the first error raised by Attach, if any.
func (e *Entity) Err() error {
	return e.err
}

// Alive reports whether the entity has not been destroyed.
func (e *Entity) Alive() bool {
	return !e.destroyed.Load()
}

// holds reports whether e is a live entity of w. Ids are only meaningful inside the world that issued them.
func (w *World) holds(e *Entity) bool {
	return e != nil && e.w == w && e.Alive()
}

// Attachment is a component value waiting to be attached, see With.
type Attachment interface {
	attach(e *Entity) error
}

type attachment[T types.Component] struct {
	value T
}

// With wraps a component value so it can be passed to Attach or Create.
func With[T types.Component](value T) Attachment {
	return attachment[T]{value: value}
}

func (a attachment[T]) attach(e *Entity) error {
	info, store, err := storeFor[T](e.w)
	if err != nil {
		return err
	}
	if err := store.Insert(e.id, a.value); err != nil {
		return eris.Wrapf(err, "failed to attach %q to entity %d", info.name, e.id)
	}
	if !slices.Contains(e.attached, info) {
		e.attached = append(e.attached, info)
	}
	return nil
}

// Attach forwards each component value to its store and records its type on the entity. Attaching a type that is
// already attached replaces the value. Attach returns the entity so calls can be chained; the first failure is
// kept in Err and makes the remaining attachments no-ops.
func (e *Entity) Attach(attachments ...Attachment) *Entity {
	if e.err != nil {
		return e
	}
	if !e.Alive() {
		e.err = eris.Wrapf(ErrEntityDestroyed, "cannot attach to entity %d", e.id)
		return e
	}
	for _, a := range attachments {
		if err := a.attach(e); err != nil {
			e.err = err
			return e
		}
	}
	return e
}

// Get returns a copy of the T attached to e.
func Get[T types.Component](e *Entity) (T, bool) {
	var zero T
	if !e.Alive() {
		return zero, false
	}
	_, store, ok := lookupStore[T](e.w)
	if !ok {
		return zero, false
	}
	return store.Get(e.id)
}

// GetMut returns a pointer to the T attached to e. The pointer stays bound to e until T is removed from it.
func GetMut[T types.Component](e *Entity) (*T, bool) {
	if !e.Alive() {
		return nil, false
	}
	_, store, ok := lookupStore[T](e.w)
	if !ok {
		return nil, false
	}
	return store.GetMut(e.id)
}

// Remove detaches T from e. Removing a type that is not attached is a no-op.
func Remove[T types.Component](e *Entity) error {
	if !e.Alive() {
		return eris.Wrapf(ErrEntityDestroyed, "cannot remove from entity %d", e.id)
	}
	info, store, ok := lookupStore[T](e.w)
	if !ok {
		return nil
	}
	store.Remove(e.id)
	e.attached = slices.DeleteFunc(e.attached, func(c *ComponentInfo) bool {
		return c == info
	})
	return nil
}

// Components returns the component types attached to e, in the order they were first attached.
func (e *Entity) Components() []types.ComponentMetadata {
	out := make([]types.ComponentMetadata, 0, len(e.attached))
	for _, info := range e.attached {
		out = append(out, info)
	}
	return out
}

func (e *Entity) componentSet() []types.Component {
	out := make([]types.Component, 0, len(e.attached))
	for _, info := range e.attached {
		out = append(out, info)
	}
	return out
}

// Destroy removes every attached component from its store and unregisters the entity. It runs once; later calls
// return ErrEntityDestroyed. Deferring Destroy right after creating an entity also covers error paths.
func (e *Entity) Destroy() error {
	err := eris.Wrapf(ErrEntityDestroyed, "entity %d already destroyed", e.id)
	e.destroyOnce.Do(func() {
		err = nil
		e.w.destroy(e)
	})
	return err
}

func (w *World) destroy(e *Entity) {
	if w.logger.GetLevel() <= zerolog.DebugLevel {
		values := make([]any, len(e.attached))
		for i, info := range e.attached {
			values[i], _ = info.store.Lookup(e.id)
		}
		log.Entity(w.logger, zerolog.DebugLevel, e.id, e.Components(), values)
	}

	for _, info := range e.attached {
		info.store.Remove(e.id)
	}
	e.attached = nil
	e.list.Clear()
	e.destroyed.Store(true)
	w.removeLive(e.id)
}
