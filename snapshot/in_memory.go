package snapshot

import (
	"context"
	"sort"
	"sync"

	"github.com/hupe1980/teamwork/core"
)

// InMemoryStore is a volatile Store keeping trees in a process local map.
// It is safe for concurrent access. Trees are cloned on the way in and out
// so callers never share message slices with the store.
type InMemoryStore struct {
	mu    sync.RWMutex
	trees map[string]core.WorkflowState
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{trees: make(map[string]core.WorkflowState)}
}

// Save implements Store.
func (s *InMemoryStore) Save(_ context.Context, runID string, state core.WorkflowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[runID] = state.Clone()
	return nil
}

// Load implements Store.
func (s *InMemoryStore) Load(_ context.Context, runID string) (core.WorkflowState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.trees[runID]
	if !ok {
		return core.WorkflowState{}, ErrNotFound
	}
	return state.Clone(), nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trees, runID)
	return nil
}

// List implements Store. IDs are sorted.
func (s *InMemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.trees))
	for id := range s.trees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
