// Package file implements the storage interfaces on the local filesystem:
// CSV catalog snapshots, a CSV last-updated registry and JSON time series files.
package file

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// encodeComponent makes a style id or size usable as one path element.
// The mapping is reversible, so distinct ids never share a file.
func encodeComponent(s string) string {
	s = url.PathEscape(s)
	if s == "." || s == ".." {
		return strings.ReplaceAll(s, ".", "%2E")
	}
	return s
}

// decodeComponent reverses encodeComponent.
func decodeComponent(s string) (string, error) {
	return url.PathUnescape(s)
}

// writeFileAtomic writes data to a temp file in the target directory and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
