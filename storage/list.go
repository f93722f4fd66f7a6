package storage

import (
	"github.com/rotisserie/eris"

	"pkg.world.dev/world-engine/ecs/types"
)

var _ Store[struct{}] = (*ListStore[struct{}])(nil)

// Tagged is one runtime-tagged component value inside an entity's list.
type Tagged struct {
	Tag   types.ComponentID
	Value any
}

// TaggedList is the per-entity component list read by the List backend. The zero value is an empty list.
type TaggedList struct {
	items []Tagged
}

func (l *TaggedList) Append(tag types.ComponentID, value any) {
	l.items = append(l.items, Tagged{Tag: tag, Value: value})
}

// Find returns the newest value carrying tag.
func (l *TaggedList) Find(tag types.ComponentID) (any, bool) {
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.items[i].Tag == tag {
			return l.items[i].Value, true
		}
	}
	return nil, false
}

// Drop removes every value carrying tag and reports how many were removed.
func (l *TaggedList) Drop(tag types.ComponentID) int {
	kept := l.items[:0]
	for _, item := range l.items {
		if item.Tag != tag {
			kept = append(kept, item)
		}
	}
	dropped := len(l.items) - len(kept)
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = Tagged{}
	}
	l.items = kept
	return dropped
}

func (l *TaggedList) Len() int {
	return len(l.items)
}

func (l *TaggedList) Clear() {
	clear(l.items)
	l.items = l.items[:0]
}

// ListHost resolves an entity id to the tagged list carried by that entity.
type ListHost interface {
	TaggedList(id types.EntityID) (*TaggedList, bool)
}

// ListStore reads and writes values directly on each entity's TaggedList. Insert overwrites the entry already
// carrying the tag, so pointers from GetMut keep following the entity; otherwise it appends. Lookups scan newest
// first. Lookup cost is O(components on the entity).
type ListStore[T any] struct {
	tag   types.ComponentID
	host  ListHost
	count int
}

func NewList[T any](tag types.ComponentID, host ListHost) *ListStore[T] {
	return &ListStore[T]{tag: tag, host: host}
}

func (s *ListStore[T]) find(id types.EntityID) (*T, bool) {
	list, ok := s.host.TaggedList(id)
	if !ok {
		return nil, false
	}
	v, ok := list.Find(s.tag)
	if !ok {
		return nil, false
	}
	p, ok := v.(*T)
	return p, ok
}

func (s *ListStore[T]) Insert(id types.EntityID, value T) error {
	list, ok := s.host.TaggedList(id)
	if !ok {
		return eris.Wrapf(ErrNoSuchEntity, "entity %d", id)
	}
	if existing, ok := list.Find(s.tag); ok {
		if p, ok := existing.(*T); ok {
			*p = value
			return nil
		}
	} else {
		s.count++
	}
	v := value
	list.Append(s.tag, &v)
	return nil
}

func (s *ListStore[T]) Get(id types.EntityID) (T, bool) {
	p, ok := s.find(id)
	if !ok {
		var zero T
		return zero, false
	}
	return *p, true
}

func (s *ListStore[T]) GetMut(id types.EntityID) (*T, bool) {
	return s.find(id)
}

func (s *ListStore[T]) Lookup(id types.EntityID) (any, bool) {
	return s.Get(id)
}

func (s *ListStore[T]) Remove(id types.EntityID) {
	list, ok := s.host.TaggedList(id)
	if !ok {
		return
	}
	if list.Drop(s.tag) > 0 {
		s.count--
	}
}

func (s *ListStore[T]) Has(id types.EntityID) bool {
	_, ok := s.find(id)
	return ok
}

func (s *ListStore[T]) Len() int {
	return s.count
}

func (s *ListStore[T]) Backend() Backend {
	return List
}
