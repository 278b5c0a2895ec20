package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStore_EmptyTable(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	entries, err := NewRegistryStore(pool).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRegistryStore_SaveAllReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRegistryStore(pool)

	first := map[string]time.Time{
		"555088-101": time.Date(2019, 12, 21, 18, 58, 50, 487000000, time.UTC),
		"575441-028": time.Date(2020, 1, 5, 7, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveAll(ctx, first))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, loaded)

	second := map[string]time.Time{
		"575441-028": time.Date(2020, 1, 6, 7, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveAll(ctx, second))

	loaded, err = store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
}
