// Package store implements the editing core of Maquette: the closed
// action vocabulary, the pure reducer that folds actions into scene
// state, and the snapshot-based undo history. All mutation flows
// through Dispatch; readers only ever see whole immutable-by-convention
// State values.
package store

import "sync"

// Store is the single state container. It serializes dispatches so
// each action is folded completely before the next is accepted, which
// is the only locking discipline the pure reducer needs.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates a store holding a fresh initial state.
func NewStore() *Store {
	return &Store{state: NewState()}
}

// Dispatch folds one action into the current state and returns the
// resulting state. Invalid actions leave the state unchanged.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Apply(s.state, a)
	return s.state
}

// State returns the current state. Callers must treat the returned
// value and everything it references as read-only; all edits go
// through Dispatch.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset discards all state and history, returning to a fresh document.
func (s *Store) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NewState()
	return s.state
}
