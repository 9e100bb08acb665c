package memory

import (
	"context"
	"sync"

	"spice-theory/internal/app"
	"spice-theory/internal/domain"
)

// ProgressStore is an in-memory implementation of app.ProgressStore.
type ProgressStore struct {
	mu     sync.RWMutex
	states map[string]app.State
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		states: make(map[string]app.State),
	}
}

func (s *ProgressStore) Save(_ context.Context, profile string, state app.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[profile] = state
	return nil
}

func (s *ProgressStore) Load(_ context.Context, profile string) (app.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[profile]
	if !ok {
		return app.State{}, domain.ErrProgressNotFound
	}
	return state, nil
}

func (s *ProgressStore) Clear(_ context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, profile)
	return nil
}
