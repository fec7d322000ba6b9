// Package theme holds the process-wide dark mode flag.
package theme

import "sync"

// Store is the shared theme setting. Toggle is the only way to change it.
type Store struct {
	mu   sync.RWMutex
	dark bool
}

// New creates a store starting in dark mode when dark is true.
func New(dark bool) *Store {
	return &Store{dark: dark}
}

// Dark reports whether dark mode is on.
func (s *Store) Dark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

// Toggle flips the flag and returns the new value.
func (s *Store) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dark = !s.dark
	return s.dark
}
