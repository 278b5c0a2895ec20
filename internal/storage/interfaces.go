package storage

import (
	"context"
	"time"

	"sneaker-feed/internal/domain"
)

// CatalogStore persists full-refresh catalog snapshots.
type CatalogStore interface {
	// Save writes a snapshot to a new timestamped location and returns that location.
	Save(ctx context.Context, catalog *domain.Catalog, at time.Time) (string, error)

	// Load reads the snapshot at location, preserving item order.
	// Returns ErrNotFound if nothing is stored there.
	Load(ctx context.Context, location string) (*domain.Catalog, error)
}

// RegistryStore persists the style id -> last successful refresh mapping.
type RegistryStore interface {
	// LoadAll returns every stored entry. A store that does not exist yet yields an empty map.
	LoadAll(ctx context.Context) (map[string]time.Time, error)

	// SaveAll replaces the stored mapping with entries.
	SaveAll(ctx context.Context, entries map[string]time.Time) error
}

// TimeSeriesStore is the append-only per (style, size) market history.
type TimeSeriesStore interface {
	// Append adds one record per size, taken at the given time, under domain.VenueStockX.
	// Existing records are never modified.
	Append(ctx context.Context, at time.Time, styleID string, snapshots map[string]domain.MarketSnapshot) error

	// Get returns the full series for (styleID, size). Returns ErrNotFound if none exists.
	Get(ctx context.Context, styleID, size string) (domain.TimeSeries, error)

	// Sizes returns the stored sizes for a style, sorted.
	Sizes(ctx context.Context, styleID string) ([]string, error)
}
