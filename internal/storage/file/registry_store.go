package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"sneaker-feed/internal/storage"
)

// DefaultRegistryFile is the registry path used when none is configured.
const DefaultRegistryFile = "last_updated_stockx.log"

// isoMillis matches the ISO-8601 layout the registry has always been written in.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// legacyLayout is accepted on load for registries written by older feeds.
const legacyLayout = "20060102-150405"

var registryHeader = []string{"style_id", "stockx_last_updated"}

// RegistryStore keeps the last-updated registry as a two column CSV file.
// SaveAll rewrites the file in full.
type RegistryStore struct {
	path string
}

// NewRegistryStore creates a registry backed by the CSV file at path.
func NewRegistryStore(path string) *RegistryStore {
	if path == "" {
		path = DefaultRegistryFile
	}
	return &RegistryStore{path: path}
}

// Path returns the backing file.
func (s *RegistryStore) Path() string {
	return s.path
}

// LoadAll reads the registry. A missing file yields an empty map.
// Duplicate rows keep the latest timestamp.
func (s *RegistryStore) LoadAll(_ context.Context) (map[string]time.Time, error) {
	entries := make(map[string]time.Time)

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("%w: open %s: %w", storage.ErrRegistryIO, s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", storage.ErrRegistryIO, s.path, err)
		}
		line++

		if line == 1 && len(row) > 0 && row[0] == registryHeader[0] {
			continue
		}
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		ts, err := parseRegistryTime(row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", storage.ErrRegistryIO, s.path, line, err)
		}

		id := strings.TrimSpace(row[0])
		if prev, ok := entries[id]; !ok || ts.After(prev) {
			entries[id] = ts
		}
	}

	return entries, nil
}

// SaveAll rewrites the registry file, rows sorted by style id.
func (s *RegistryStore) SaveAll(_ context.Context, entries map[string]time.Time) error {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(registryHeader); err != nil {
		return fmt.Errorf("%w: encode header: %w", storage.ErrRegistryIO, err)
	}
	for _, id := range ids {
		if err := w.Write([]string{id, entries[id].UTC().Format(isoMillis)}); err != nil {
			return fmt.Errorf("%w: encode %s: %w", storage.ErrRegistryIO, id, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: encode registry: %w", storage.ErrRegistryIO, err)
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrRegistryIO, err)
	}
	return nil
}

func parseRegistryTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(legacyLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q", s)
	}
	return t, nil
}

var _ storage.RegistryStore = (*RegistryStore)(nil)
