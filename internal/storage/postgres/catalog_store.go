package postgres

import (
	"context"
	"fmt"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/storage"
)

// CatalogStore is a PostgreSQL implementation of storage.CatalogStore.
// Uses two tables:
//   - catalog_snapshots: one row per saved snapshot
//   - catalog_items: the items of each snapshot with their position
type CatalogStore struct {
	pool *Pool
}

// NewCatalogStore creates a new PostgreSQL catalog store.
func NewCatalogStore(pool *Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

// SnapshotID returns the snapshot id used for a catalog saved at t.
func SnapshotID(t time.Time) string {
	return "stockx.mapping." + t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Save writes the catalog as a new snapshot and returns its id.
func (s *CatalogStore) Save(ctx context.Context, catalog *domain.Catalog, at time.Time) (string, error) {
	if catalog == nil {
		return "", storage.ErrInvalidInput
	}

	id := SnapshotID(at)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w: %w", storage.ErrCatalogIO, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO catalog_snapshots (snapshot_id, created_at)
		VALUES ($1, $2)
	`, id, at.UTC())
	if err != nil {
		if isDuplicateKeyError(err) {
			return "", fmt.Errorf("snapshot %s already exists: %w", id, storage.ErrCatalogIO)
		}
		return "", fmt.Errorf("insert snapshot: %w: %w", storage.ErrCatalogIO, err)
	}

	query := `
		INSERT INTO catalog_items (
			snapshot_id, position, style_id, gender, url_key, color_way,
			name, title, retail_price, uuid, pid, release_date
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
	`

	for i, it := range catalog.Items() {
		_, err := tx.Exec(ctx, query,
			id, i, it.StyleID, it.Gender, it.URLKey, it.ColorWay,
			it.Name, it.Title, it.RetailPrice, it.UUID, it.PID, it.ReleaseDate,
		)
		if err != nil {
			return "", fmt.Errorf("insert catalog item %s: %w: %w", it.StyleID, storage.ErrCatalogIO, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit tx: %w: %w", storage.ErrCatalogIO, err)
	}

	return id, nil
}

// Load returns the snapshot with the given id, items in saved order.
func (s *CatalogStore) Load(ctx context.Context, location string) (*domain.Catalog, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM catalog_snapshots WHERE snapshot_id = $1)
	`, location).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w: %w", storage.ErrCatalogIO, err)
	}
	if !exists {
		return nil, fmt.Errorf("catalog %s: %w", location, storage.ErrNotFound)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT style_id, gender, url_key, color_way, name, title,
		       retail_price, uuid, pid, release_date
		FROM catalog_items
		WHERE snapshot_id = $1
		ORDER BY position ASC
	`, location)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w: %w", storage.ErrCatalogIO, err)
	}
	defer rows.Close()

	catalog := domain.NewCatalog()
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(
			&it.StyleID, &it.Gender, &it.URLKey, &it.ColorWay, &it.Name, &it.Title,
			&it.RetailPrice, &it.UUID, &it.PID, &it.ReleaseDate,
		); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w: %w", storage.ErrCatalogIO, err)
		}
		if err := catalog.Add(&it); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w: %w", storage.ErrCatalogIO, err)
	}

	return catalog, nil
}

// Latest returns the id of the most recently created snapshot.
func (s *CatalogStore) Latest(ctx context.Context) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
		SELECT snapshot_id FROM catalog_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&id)
	if err != nil {
		if isNotFoundError(err) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("query latest snapshot: %w: %w", storage.ErrCatalogIO, err)
	}
	return id, nil
}

var _ storage.CatalogStore = (*CatalogStore)(nil)
