package ecs

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"

	"pkg.world.dev/world-engine/ecs/storage"
	"pkg.world.dev/world-engine/ecs/types"
)

var (
	_ types.ComponentMetadata = (*ComponentInfo)(nil)
	_ types.Component         = (*ComponentInfo)(nil)
)

// ComponentInfo describes a registered component type and owns its store.
type ComponentInfo struct {
	id     types.ComponentID
	name   string
	typ    reflect.Type
	schema []byte
	store  storage.ErasedStore
}

func (c *ComponentInfo) ID() types.ComponentID {
	return c.id
}

func (c *ComponentInfo) Name() string {
	return c.name
}

func (c *ComponentInfo) String() string {
	return c.name
}

func (c *ComponentInfo) Type() reflect.Type {
	return c.typ
}

// Schema returns the JSON schema of the component type.
func (c *ComponentInfo) Schema() []byte {
	return c.schema
}

func (c *ComponentInfo) Backend() storage.Backend {
	return c.store.Backend()
}

// Len returns the number of entities holding this component.
func (c *ComponentInfo) Len() int {
	return c.store.Len()
}

// RegisterComponent registers T with an explicitly configured store. Without opts the world's default backend and
// capacity are used, which is also what happens when a component type is first used without being registered.
// Registering a type that already has a store fails with ErrComponentAlreadyRegistered.
func RegisterComponent[T types.Component](w *World, opts ...storage.Option) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	typ := reflect.TypeOf((*T)(nil)).Elem()
	if info, ok := w.byType[typ]; ok {
		return eris.Wrapf(ErrComponentAlreadyRegistered, "component %q", info.name)
	}
	_, err := registerLocked[T](w, typ, opts)
	return err
}

// Component returns the registered component with the given name.
func (w *World) Component(name string) (*ComponentInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	info, ok := w.byName[name]
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotRegistered, "component %q is not registered", name)
	}
	return info, nil
}

// ComponentOf returns the registration of T, if T has been used or registered.
func ComponentOf[T types.Component](w *World) (*ComponentInfo, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	info, ok := w.byType[reflect.TypeOf((*T)(nil)).Elem()]
	return info, ok
}

// storeFor returns the store of T, creating it on first use.
func storeFor[T types.Component](w *World) (*ComponentInfo, storage.Store[T], error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	typ := reflect.TypeOf((*T)(nil)).Elem()
	info, ok := w.byType[typ]
	if !ok {
		var err error
		info, err = registerLocked[T](w, typ, nil)
		if err != nil {
			return nil, nil, err
		}
	}
	store, ok := info.store.(storage.Store[T])
	if !ok {
		return nil, nil, eris.Errorf("store of component %q does not hold %s", info.name, typ)
	}
	return info, store, nil
}

// lookupStore is storeFor without the lazy creation.
func lookupStore[T types.Component](w *World) (*ComponentInfo, storage.Store[T], bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	info, ok := w.byType[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, nil, false
	}
	store, ok := info.store.(storage.Store[T])
	return info, store, ok
}

func registerLocked[T types.Component](w *World, typ reflect.Type, opts []storage.Option) (*ComponentInfo, error) {
	var zero T
	name := zero.Name()

	schema, err := jsonschema.ReflectFromType(typ).MarshalJSON()
	if err != nil {
		return nil, eris.Wrapf(err, "component %q must be json serializable", name)
	}

	if existing, ok := w.byName[name]; ok {
		diff, err := jsondiff.CompareJSON(existing.schema, schema)
		if err != nil {
			return nil, eris.Wrap(err, "failed to compare component schema")
		}
		return nil, eris.Wrapf(ErrComponentNameCollision,
			"%q is used by %s and %s: %s", name, existing.typ, typ, diff.String())
	}

	id := types.ComponentID(len(w.components) + 1)
	backend, _ := storage.Resolve(append([]storage.Option{storage.WithBackend(w.backend)}, opts...)...)
	all := []storage.Option{storage.WithBackend(backend), storage.WithCapacity(w.cfg.capacityFor(backend))}
	all = append(all, opts...)
	if backend == storage.List {
		all = append(all, storage.WithListHost(id, entityLists{w: w}))
	}

	store, err := storage.New[T](all...)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to create store for component %q", name)
	}

	info := &ComponentInfo{
		id:     id,
		name:   name,
		typ:    typ,
		schema: schema,
		store:  store,
	}
	w.components = append(w.components, info)
	w.byName[name] = info
	w.byType[typ] = info

	w.logger.Debug().
		Int("component_id", int(id)).
		Str("component_name", name).
		Str("backend", backend.String()).
		Msg("Component registered")
	return info, nil
}
