package handler

import "reflect"

// Store is a request-scoped, type-indexed heterogeneous container.
// It holds at most one value per Go type, which lets handlers and filters
// pass structured, statically-typed data through the request pipeline
// without the router knowing handler-specific types.
//
// A Store is owned by a single request and must not be shared across
// requests, so no synchronization is needed.
type Store struct {
	values map[reflect.Type]any
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Set stores a value in the store, keyed by its type. Setting a value of
// a type that is already present overwrites the previous value.
func Set[T any](s *Store, value T) {
	if s.values == nil {
		s.values = make(map[reflect.Type]any)
	}
	s.values[reflect.TypeOf((*T)(nil)).Elem()] = value
}

// Get retrieves the value of type T from the store. The second return
// value reports whether a value of that type was set; absence is never
// an error.
func Get[T any](s *Store) (T, bool) {
	if s.values == nil {
		var zero T
		return zero, false
	}
	v, ok := s.values[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Remove deletes the value of type T from the store. Removing an absent
// type is a no-op.
func Remove[T any](s *Store) {
	if s.values == nil {
		return
	}
	delete(s.values, reflect.TypeOf((*T)(nil)).Elem())
}

// Len returns the number of distinct types currently stored.
func (s *Store) Len() int {
	return len(s.values)
}

// Reset clears all stored values so the Store can be reused.
func (s *Store) Reset() {
	clear(s.values)
}
