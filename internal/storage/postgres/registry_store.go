package postgres

import (
	"context"
	"fmt"
	"time"

	"sneaker-feed/internal/storage"
)

// RegistryStore is a PostgreSQL implementation of storage.RegistryStore.
// The whole mapping lives in the last_updated table.
type RegistryStore struct {
	pool *Pool
}

// NewRegistryStore creates a new PostgreSQL registry store.
func NewRegistryStore(pool *Pool) *RegistryStore {
	return &RegistryStore{pool: pool}
}

// LoadAll returns every recorded identifier. An empty table is an empty mapping.
func (s *RegistryStore) LoadAll(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.pool.Query(ctx, `SELECT style_id, updated_at FROM last_updated`)
	if err != nil {
		return nil, fmt.Errorf("query last_updated: %w: %w", storage.ErrRegistryIO, err)
	}
	defer rows.Close()

	entries := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			ts time.Time
		)
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("scan last_updated: %w: %w", storage.ErrRegistryIO, err)
		}
		entries[id] = ts.UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate last_updated: %w: %w", storage.ErrRegistryIO, err)
	}

	return entries, nil
}

// SaveAll replaces the table contents with entries in one transaction.
func (s *RegistryStore) SaveAll(ctx context.Context, entries map[string]time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %w", storage.ErrRegistryIO, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM last_updated`); err != nil {
		return fmt.Errorf("clear last_updated: %w: %w", storage.ErrRegistryIO, err)
	}

	for id, ts := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO last_updated (style_id, updated_at)
			VALUES ($1, $2)
		`, id, ts.UTC())
		if err != nil {
			return fmt.Errorf("insert last_updated %s: %w: %w", id, storage.ErrRegistryIO, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w: %w", storage.ErrRegistryIO, err)
	}

	return nil
}

var _ storage.RegistryStore = (*RegistryStore)(nil)
