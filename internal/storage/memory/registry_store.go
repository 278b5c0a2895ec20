package memory

import (
	"context"
	"sync"
	"time"

	"sneaker-feed/internal/storage"
)

// RegistryStore is an in-memory implementation of storage.RegistryStore.
type RegistryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	saves   int
}

// NewRegistryStore creates a new in-memory registry store.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{
		entries: make(map[string]time.Time),
	}
}

// LoadAll returns a copy of the stored entries.
func (s *RegistryStore) LoadAll(_ context.Context) (map[string]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]time.Time, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

// SaveAll replaces the stored entries.
func (s *RegistryStore) SaveAll(_ context.Context, entries map[string]time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]time.Time, len(entries))
	for k, v := range entries {
		s.entries[k] = v
	}
	s.saves++
	return nil
}

// Saves returns how many times SaveAll was called.
func (s *RegistryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}

var _ storage.RegistryStore = (*RegistryStore)(nil)
