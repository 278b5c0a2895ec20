package memory

import (
	"context"
	"sync"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/storage"
)

// CatalogStore is an in-memory implementation of storage.CatalogStore.
type CatalogStore struct {
	mu        sync.RWMutex
	snapshots map[string][]domain.Item // keyed by location
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		snapshots: make(map[string][]domain.Item),
	}
}

// Save stores a copy of the catalog under a location derived from at.
func (s *CatalogStore) Save(_ context.Context, catalog *domain.Catalog, at time.Time) (string, error) {
	if catalog == nil {
		return "", storage.ErrInvalidInput
	}

	items := make([]domain.Item, 0, catalog.Len())
	for _, it := range catalog.Items() {
		items = append(items, *it)
	}

	location := at.UTC().Format(time.RFC3339Nano)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[location] = items
	return location, nil
}

// Load returns the snapshot saved at location.
func (s *CatalogStore) Load(_ context.Context, location string) (*domain.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.snapshots[location]
	if !ok {
		return nil, storage.ErrNotFound
	}

	catalog := domain.NewCatalog()
	for i := range items {
		item := items[i]
		if err := catalog.Add(&item); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

var _ storage.CatalogStore = (*CatalogStore)(nil)
