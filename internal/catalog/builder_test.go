package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/marketplace/stub"
	"sneaker-feed/internal/storage"
	"sneaker-feed/internal/storage/memory"
)

var buildTime = time.Date(2020, 1, 5, 7, 0, 0, 0, time.UTC)

func newTestBuilder(client *stub.Client, store storage.CatalogStore) *Builder {
	return NewBuilder(Options{
		Searcher: client,
		Store:    store,
		Logger:   log.New(io.Discard, "", 0),
		Clock:    func() time.Time { return buildTime },
	})
}

func item(styleID string) *domain.Item {
	return &domain.Item{StyleID: styleID, URLKey: "key-" + styleID, Name: styleID}
}

func styleIDs(c *domain.Catalog) []string {
	var ids []string
	for _, it := range c.Items() {
		ids = append(ids, it.StyleID)
	}
	return ids
}

func TestBuild_DeduplicatesAcrossKeywords(t *testing.T) {
	client := stub.NewClient()
	client.AddResults("a", item("X-1"), item("A-2"))
	client.AddResults("b", item("B-1"), item("X-1"))
	store := memory.NewCatalogStore()

	result, err := newTestBuilder(client, store).Build(context.Background(), []string{"a", "b"}, 1)
	require.NoError(t, err)
	require.NoError(t, result.QueryErr)

	assert.Equal(t, []string{"X-1", "A-2", "B-1"}, styleIDs(result.Catalog))
	assert.Equal(t, 2, result.Keywords)
	assert.Equal(t, 1, result.Dropped)

	saved, err := store.Load(context.Background(), result.Location)
	require.NoError(t, err)
	assert.Equal(t, []string{"X-1", "A-2", "B-1"}, styleIDs(saved))
}

func TestBuild_LimitIsPagesTimesPageSize(t *testing.T) {
	client := stub.NewClient()
	for i := 0; i < 100; i++ {
		client.AddResults("kw", item(fmt.Sprintf("S-%03d", i)))
	}

	result, err := newTestBuilder(client, memory.NewCatalogStore()).Build(context.Background(), []string{"kw"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2*ResultsPerPage, result.Catalog.Len())
}

func TestBuild_SkipsEmptyKeywordsAndIdentifiers(t *testing.T) {
	client := stub.NewClient()
	client.AddResults("a", item(""), item("A-1"))

	result, err := newTestBuilder(client, memory.NewCatalogStore()).Build(context.Background(), []string{"", "a"}, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, client.Searched())
	assert.Equal(t, []string{"A-1"}, styleIDs(result.Catalog))
	assert.Equal(t, 1, result.Dropped)
}

func TestBuild_KeywordFailureKeepsAccumulated(t *testing.T) {
	client := stub.NewClient()
	client.AddResults("a", item("A-1"), item("A-2"))
	client.SearchErrs["b"] = errors.New("connection reset")
	client.AddResults("c", item("C-1"))
	store := memory.NewCatalogStore()

	result, err := newTestBuilder(client, store).Build(context.Background(), []string{"a", "b", "c"}, 1)
	require.NoError(t, err)

	var kwErr *KeywordQueryError
	require.True(t, errors.As(result.QueryErr, &kwErr))
	assert.Equal(t, "b", kwErr.Keyword)
	assert.Equal(t, []string{"a", "b"}, client.Searched())

	saved, err := store.Load(context.Background(), result.Location)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "A-2"}, styleIDs(saved))
}

type failingCatalogStore struct{}

func (failingCatalogStore) Save(context.Context, *domain.Catalog, time.Time) (string, error) {
	return "", storage.ErrCatalogIO
}

func (failingCatalogStore) Load(context.Context, string) (*domain.Catalog, error) {
	return nil, storage.ErrNotFound
}

func TestBuild_SaveFailure(t *testing.T) {
	client := stub.NewClient()
	client.AddResults("a", item("A-1"))

	result, err := newTestBuilder(client, failingCatalogStore{}).Build(context.Background(), []string{"a"}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrCatalogIO)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Catalog.Len())
}

func TestBuild_InvalidPages(t *testing.T) {
	_, err := newTestBuilder(stub.NewClient(), memory.NewCatalogStore()).Build(context.Background(), []string{"a"}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestLoadKeywords(t *testing.T) {
	kws, err := LoadKeywords("jordan 1, yeezy ,,dunk")
	require.NoError(t, err)
	assert.Equal(t, []string{"jordan 1", "yeezy", "dunk"}, kws)

	path := filepath.Join(t.TempDir(), "keywords.txt")
	require.NoError(t, os.WriteFile(path, []byte("jordan 1\n\nair max 90\n"), 0o644))

	kws, err = LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"jordan 1", "air max 90"}, kws)
}
