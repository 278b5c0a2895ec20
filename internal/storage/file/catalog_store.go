package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/storage"
)

// catalogColumns is the snapshot header, in column order.
var catalogColumns = []string{
	"stockx_gender",
	"stockx_url_key",
	"stockx_color_way",
	"stockx_name",
	"stockx_title",
	"stockx_retail_price",
	"stockx_uuid",
	"stockx_pid",
	"style_id",
	"stockx_release_date",
}

// CatalogStore writes each snapshot to dir/stockx.mapping.<timestamp>.csv.
type CatalogStore struct {
	dir string
}

// NewCatalogStore creates a catalog store writing snapshots into dir.
func NewCatalogStore(dir string) *CatalogStore {
	if dir == "" {
		dir = "."
	}
	return &CatalogStore{dir: dir}
}

// SnapshotName returns the file name of a snapshot taken at t.
func SnapshotName(t time.Time) string {
	return "stockx.mapping." + t.UTC().Format(isoMillis) + ".csv"
}

// Save writes the catalog, one row per item in catalog order, and returns the file path.
func (s *CatalogStore) Save(_ context.Context, catalog *domain.Catalog, at time.Time) (string, error) {
	if catalog == nil {
		return "", storage.ErrInvalidInput
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(catalogColumns); err != nil {
		return "", fmt.Errorf("%w: encode header: %w", storage.ErrCatalogIO, err)
	}
	for _, it := range catalog.Items() {
		if err := w.Write(itemRow(it)); err != nil {
			return "", fmt.Errorf("%w: encode %s: %w", storage.ErrCatalogIO, it.StyleID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("%w: encode catalog: %w", storage.ErrCatalogIO, err)
	}

	path := filepath.Join(s.dir, SnapshotName(at))
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: %w", storage.ErrCatalogIO, err)
	}
	return path, nil
}

// Load reads a snapshot file. Columns are matched by header name, so extra or
// reordered columns (e.g. merged catalogs) are tolerated. Rows without a style id
// and repeated style ids after the first are skipped.
func (s *CatalogStore) Load(_ context.Context, location string) (*domain.Catalog, error) {
	f, err := os.Open(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog %s: %w", location, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: open %s: %w", storage.ErrCatalogIO, location, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return domain.NewCatalog(), nil
		}
		return nil, fmt.Errorf("%w: read header %s: %w", storage.ErrCatalogIO, location, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["style_id"]; !ok {
		return nil, fmt.Errorf("%w: %s has no style_id column", storage.ErrCatalogIO, location)
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	catalog := domain.NewCatalog()
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", storage.ErrCatalogIO, location, err)
		}

		item := &domain.Item{
			Gender:      field(row, "stockx_gender"),
			URLKey:      field(row, "stockx_url_key"),
			ColorWay:    field(row, "stockx_color_way"),
			Name:        field(row, "stockx_name"),
			Title:       field(row, "stockx_title"),
			RetailPrice: field(row, "stockx_retail_price"),
			UUID:        field(row, "stockx_uuid"),
			PID:         field(row, "stockx_pid"),
			StyleID:     field(row, "style_id"),
			ReleaseDate: field(row, "stockx_release_date"),
		}
		if item.StyleID == "" {
			continue
		}
		if err := catalog.Add(item); err != nil && !errors.Is(err, domain.ErrDuplicateItem) {
			return nil, err
		}
	}

	return catalog, nil
}

func itemRow(it *domain.Item) []string {
	return []string{
		it.Gender,
		it.URLKey,
		it.ColorWay,
		it.Name,
		it.Title,
		it.RetailPrice,
		it.UUID,
		it.PID,
		it.StyleID,
		it.ReleaseDate,
	}
}

var _ storage.CatalogStore = (*CatalogStore)(nil)
