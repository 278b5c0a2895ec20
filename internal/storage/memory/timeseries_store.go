package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/storage"
)

type seriesKey struct {
	styleID string
	size    string
}

// TimeSeriesStore is an in-memory implementation of storage.TimeSeriesStore.
type TimeSeriesStore struct {
	mu   sync.RWMutex
	data map[seriesKey][]domain.TimeSeriesRecord
}

// NewTimeSeriesStore creates a new in-memory time series store.
func NewTimeSeriesStore() *TimeSeriesStore {
	return &TimeSeriesStore{
		data: make(map[seriesKey][]domain.TimeSeriesRecord),
	}
}

// Append adds one record per size.
func (s *TimeSeriesStore) Append(_ context.Context, at time.Time, styleID string, snapshots map[string]domain.MarketSnapshot) error {
	if styleID == "" {
		return storage.ErrInvalidInput
	}
	if _, ok := snapshots[""]; ok {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for size, snap := range snapshots {
		key := seriesKey{styleID, size}
		s.data[key] = append(s.data[key], domain.NewTimeSeriesRecord(at, snap))
	}
	return nil
}

// Get returns a copy of the series for (styleID, size).
func (s *TimeSeriesStore) Get(_ context.Context, styleID, size string) (domain.TimeSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.data[seriesKey{styleID, size}]
	if !ok {
		return nil, storage.ErrNotFound
	}

	prices := make([]domain.TimeSeriesRecord, len(records))
	copy(prices, records)
	return domain.TimeSeries{domain.VenueStockX: {Prices: prices}}, nil
}

// Sizes returns the stored sizes for a style, sorted.
func (s *TimeSeriesStore) Sizes(_ context.Context, styleID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sizes []string
	for k := range s.data {
		if k.styleID == styleID {
			sizes = append(sizes, k.size)
		}
	}
	sort.Strings(sizes)
	return sizes, nil
}

var _ storage.TimeSeriesStore = (*TimeSeriesStore)(nil)
