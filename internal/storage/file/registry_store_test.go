package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneaker-feed/internal/storage"
)

func TestRegistryStore_MissingFileIsEmpty(t *testing.T) {
	store := NewRegistryStore(filepath.Join(t.TempDir(), "missing.log"))

	entries, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRegistryStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_updated.log")
	store := NewRegistryStore(path)
	ctx := context.Background()

	t1 := time.Date(2019, 12, 21, 18, 58, 50, 487000000, time.UTC)
	t2 := time.Date(2020, 1, 5, 7, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveAll(ctx, map[string]time.Time{"B-2": t2, "A-1": t1}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"style_id,stockx_last_updated\nA-1,2019-12-21T18:58:50.487Z\nB-2,2020-01-05T07:00:00.000Z\n",
		string(raw))

	entries, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries["A-1"].Equal(t1))
	assert.True(t, entries["B-2"].Equal(t2))
}

func TestRegistryStore_SaveAllRewritesInFull(t *testing.T) {
	store := NewRegistryStore(filepath.Join(t.TempDir(), "reg.log"))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SaveAll(ctx, map[string]time.Time{"A-1": now, "B-2": now}))
	require.NoError(t, store.SaveAll(ctx, map[string]time.Time{"C-3": now}))

	entries, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Contains(t, entries, "C-3")
}

func TestRegistryStore_LegacyAndDuplicateRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reg.log")
	content := "A-1,20191221-185850\nA-1,2019-12-22T00:00:00.000Z\nB-2,2019-12-20T00:00:00Z\nB-2,20191201-000000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := NewRegistryStore(path).LoadAll(context.Background())
	require.NoError(t, err)

	assert.True(t, entries["A-1"].Equal(time.Date(2019, 12, 22, 0, 0, 0, 0, time.UTC)))
	assert.True(t, entries["B-2"].Equal(time.Date(2019, 12, 20, 0, 0, 0, 0, time.UTC)), "older duplicate must not roll back")
}

func TestRegistryStore_BadTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reg.log")
	require.NoError(t, os.WriteFile(path, []byte("style_id,stockx_last_updated\nA-1,yesterday\n"), 0o644))

	_, err := NewRegistryStore(path).LoadAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrRegistryIO)
}

func TestRegistryStore_SaveToUnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	store := NewRegistryStore(filepath.Join(blocker, "reg.log"))
	err := store.SaveAll(context.Background(), map[string]time.Time{"A-1": time.Now()})
	assert.ErrorIs(t, err, storage.ErrRegistryIO)
}
