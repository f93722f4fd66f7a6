package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/types"
)

// Slot is one component access inside a query.
type Slot struct {
	Type   reflect.Type
	Name   string
	Access types.Access
}

// Matcher produces the result of a bound query for one entity id. It reports false when the entity lacks a
// required component.
type Matcher[R any] func(id types.EntityID) (R, bool)

// Query describes which components to fetch and how. Queries hold no state; Bind resolves them against a world's
// stores. The zero Query is ill-formed.
type Query[R any] struct {
	slots []Slot
	bind  func(w *World) (Matcher[R], error)
}

// Slots returns the component accesses of the query, left to right.
func (q Query[R]) Slots() []Slot {
	return append([]Slot(nil), q.slots...)
}

// Bind resolves the query against w, creating missing stores on the way.
func (q Query[R]) Bind(w *World) (Matcher[R], error) {
	if q.bind == nil {
		return nil, eris.Wrap(ErrIllFormedQuery, "query has no slots")
	}
	return q.bind(w)
}

func slotOf[T types.Component](access types.Access) Slot {
	var zero T
	return Slot{
		Type:   reflect.TypeOf((*T)(nil)).Elem(),
		Name:   zero.Name(),
		Access: access,
	}
}

// Read queries a copy of T.
func Read[T types.Component]() Query[T] {
	return Query[T]{
		slots: []Slot{slotOf[T](types.ReadOnly)},
		bind: func(w *World) (Matcher[T], error) {
			_, store, err := storeFor[T](w)
			if err != nil {
				return nil, err
			}
			return store.Get, nil
		},
	}
}

// Write queries a pointer to the stored T. Writes through the pointer are visible to later reads.
func Write[T types.Component]() Query[*T] {
	return Query[*T]{
		slots: []Slot{slotOf[T](types.ReadWrite)},
		bind: func(w *World) (Matcher[*T], error) {
			_, store, err := storeFor[T](w)
			if err != nil {
				return nil, err
			}
			return store.GetMut, nil
		},
	}
}

type Pair[A, B any] struct {
	First  A
	Second B
}

type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Join matches entities for which both a and b match, trying a first. Larger joins nest:
// Join(a, MustJoin(b, c)). A component type may appear only once across the joined slots, whatever its access
// mode; otherwise Join fails with ErrIllFormedQuery.
func Join[A, B any](a Query[A], b Query[B]) (Query[Pair[A, B]], error) {
	if a.bind == nil || b.bind == nil {
		return Query[Pair[A, B]]{}, eris.Wrap(ErrIllFormedQuery, "cannot join an empty query")
	}
	slots := make([]Slot, 0, len(a.slots)+len(b.slots))
	slots = append(slots, a.slots...)
	slots = append(slots, b.slots...)
	if err := checkAliasing(slots); err != nil {
		return Query[Pair[A, B]]{}, err
	}

	return Query[Pair[A, B]]{
		slots: slots,
		bind: func(w *World) (Matcher[Pair[A, B]], error) {
			matchA, err := a.bind(w)
			if err != nil {
				return nil, err
			}
			matchB, err := b.bind(w)
			if err != nil {
				return nil, err
			}
			return func(id types.EntityID) (Pair[A, B], bool) {
				first, ok := matchA(id)
				if !ok {
					return Pair[A, B]{}, false
				}
				second, ok := matchB(id)
				if !ok {
					return Pair[A, B]{}, false
				}
				return Pair[A, B]{First: first, Second: second}, true
			}, nil
		},
	}, nil
}

// MustJoin is Join for queries built at package init. It panics on an ill-formed join.
func MustJoin[A, B any](a Query[A], b Query[B]) Query[Pair[A, B]] {
	q, err := Join(a, b)
	if err != nil {
		panic(eris.ToString(err, true))
	}
	return q
}

// Join3 is Join(a, Join(b, c)) with the nested pair flattened.
func Join3[A, B, C any](a Query[A], b Query[B], c Query[C]) (Query[Triple[A, B, C]], error) {
	inner, err := Join(b, c)
	if err != nil {
		return Query[Triple[A, B, C]]{}, err
	}
	outer, err := Join(a, inner)
	if err != nil {
		return Query[Triple[A, B, C]]{}, err
	}
	return mapQuery(outer, func(p Pair[A, Pair[B, C]]) Triple[A, B, C] {
		return Triple[A, B, C]{First: p.First, Second: p.Second.First, Third: p.Second.Second}
	}), nil
}

func mapQuery[R, S any](q Query[R], fn func(R) S) Query[S] {
	return Query[S]{
		slots: q.slots,
		bind: func(w *World) (Matcher[S], error) {
			match, err := q.bind(w)
			if err != nil {
				return nil, err
			}
			return func(id types.EntityID) (S, bool) {
				r, ok := match(id)
				if !ok {
					var zero S
					return zero, false
				}
				return fn(r), true
			}, nil
		},
	}
}

func checkAliasing(slots []Slot) error {
	seen := make(map[reflect.Type]types.Access, len(slots))
	for _, slot := range slots {
		if prev, ok := seen[slot.Type]; ok {
			return eris.Wrapf(ErrIllFormedQuery, "component %q requested as %s and %s", slot.Name, prev, slot.Access)
		}
		seen[slot.Type] = slot.Access
	}
	return nil
}

// Filter evaluates q for a single entity. It reports false when e lacks a required component, is destroyed or
// belongs to another world.
func Filter[R any](w *World, q Query[R], e *Entity) (R, bool, error) {
	var zero R
	match, err := q.Bind(w)
	if err != nil {
		return zero, false, err
	}
	if !w.holds(e) {
		return zero, false, nil
	}
	r, ok := match(e.id)
	return r, ok, nil
}

// Collect evaluates q for every entity and returns the matches in the order of entities. The query is bound once
// before any entity is looked at. Destroyed entities and entities of other worlds are skipped.
func Collect[R any](w *World, q Query[R], entities []*Entity) ([]R, error) {
	match, err := q.Bind(w)
	if err != nil {
		return nil, err
	}
	return collect(w, match, entities), nil
}

func collect[R any](w *World, match Matcher[R], entities []*Entity) []R {
	results := make([]R, 0, len(entities))
	for _, e := range entities {
		if !w.holds(e) {
			continue
		}
		if r, ok := match(e.id); ok {
			results = append(results, r)
		}
	}
	return results
}
