package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/storage"
)

// DefaultDataDir is where time series files live unless configured otherwise.
const DefaultDataDir = "../data"

// TimeSeriesStore keeps one JSON file per (style, size): <dir>/<style>/<size>.json.
// Each Append reads the file, appends one record and writes the whole structure back.
// Not safe for two processes sharing one directory.
type TimeSeriesStore struct {
	dir string
}

// NewTimeSeriesStore creates a store rooted at dir.
func NewTimeSeriesStore(dir string) *TimeSeriesStore {
	if dir == "" {
		dir = DefaultDataDir
	}
	return &TimeSeriesStore{dir: dir}
}

// Locate returns the file holding the series for (styleID, size). Both parts
// are percent-escaped, so every (styleID, size) pair gets its own file.
func (s *TimeSeriesStore) Locate(styleID, size string) string {
	return filepath.Join(s.dir, encodeComponent(styleID), encodeComponent(size)+".json")
}

// Append adds one record per size under domain.VenueStockX.
// Sizes are written in sorted order so a failure leaves a predictable prefix persisted.
func (s *TimeSeriesStore) Append(_ context.Context, at time.Time, styleID string, snapshots map[string]domain.MarketSnapshot) error {
	if strings.TrimSpace(styleID) == "" {
		return storage.ErrInvalidInput
	}

	sizes := make([]string, 0, len(snapshots))
	for size := range snapshots {
		if strings.TrimSpace(size) == "" {
			return storage.ErrInvalidInput
		}
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)

	for _, size := range sizes {
		path := s.Locate(styleID, size)

		ts, err := readSeries(path)
		if err != nil {
			return err
		}
		ts.Append(domain.VenueStockX, domain.NewTimeSeriesRecord(at, snapshots[size]))

		data, err := json.Marshal(ts)
		if err != nil {
			return fmt.Errorf("marshal series %s: %w", path, err)
		}
		if err := writeFileAtomic(path, data); err != nil {
			return fmt.Errorf("write series %s: %w", path, err)
		}
	}
	return nil
}

// Get returns the series for (styleID, size).
func (s *TimeSeriesStore) Get(_ context.Context, styleID, size string) (domain.TimeSeries, error) {
	path := s.Locate(styleID, size)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	return readSeries(path)
}

// Sizes lists the sizes stored for a style, sorted.
func (s *TimeSeriesStore) Sizes(_ context.Context, styleID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, encodeComponent(styleID)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sizes for %s: %w", styleID, err)
	}

	var sizes []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		size, err := decodeComponent(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes, nil
}

// readSeries loads a series file; a missing file is an empty series.
func readSeries(path string) (domain.TimeSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.TimeSeries{}, nil
		}
		return nil, fmt.Errorf("read series %s: %w", path, err)
	}

	ts := domain.TimeSeries{}
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("decode series %s: %w", path, err)
	}
	return ts, nil
}

var _ storage.TimeSeriesStore = (*TimeSeriesStore)(nil)
