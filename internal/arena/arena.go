// Package arena provides a small id-keyed store for per-instance engine
// state. Interaction state (overlay lifecycle, trap context) lives in a
// store slot keyed by instance id rather than being attached to the element
// it belongs to, so elements stay plain data and live instances can be
// enumerated for introspection.
package arena

import "sort"

// ID identifies a slot in a Store. The zero ID is never allocated and can be
// used as a "not registered" sentinel.
type ID uint32

// Store maps instance ids to their state. It is confined to the goroutine
// that owns the enclosing document and performs no locking.
type Store[T any] struct {
	next  ID
	slots map[ID]T
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{slots: make(map[ID]T)}
}

// Put stores v in a fresh slot and returns its id.
func (s *Store[T]) Put(v T) ID {
	s.next++
	id := s.next
	s.slots[id] = v
	return id
}

// Get returns the value stored under id.
func (s *Store[T]) Get(id ID) (T, bool) {
	v, ok := s.slots[id]
	return v, ok
}

// Set replaces the value stored under id. It is a no-op for unknown ids.
func (s *Store[T]) Set(id ID, v T) {
	if _, ok := s.slots[id]; ok {
		s.slots[id] = v
	}
}

// Drop releases the slot. Dropping an unknown id is a no-op.
func (s *Store[T]) Drop(id ID) {
	delete(s.slots, id)
}

// Len returns the number of live slots.
func (s *Store[T]) Len() int {
	return len(s.slots)
}

// Each visits every live slot in ascending id order.
func (s *Store[T]) Each(fn func(ID, T)) {
	ids := make([]ID, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(id, s.slots[id])
	}
}
