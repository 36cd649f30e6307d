package sim

import "sync"

// Synchronized guards a single value with a mutex.
// Load and Store copy the whole value, so a reader never observes a value
// that is half old and half new.
type Synchronized[T any] struct {
	mu    sync.Mutex
	value T
}

// NewSynchronized creates a guarded value.
func NewSynchronized[T any](value T) *Synchronized[T] {
	return &Synchronized[T]{value: value}
}

// Load returns a copy of the current value.
func (s *Synchronized[T]) Load() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Store replaces the value.
func (s *Synchronized[T]) Store(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}

// Access runs fn with exclusive access to the value.
// fn must not block and must not retain the pointer.
func (s *Synchronized[T]) Access(fn func(value *T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.value)
}
