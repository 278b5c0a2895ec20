// Package catalog builds catalog snapshots from keyword searches.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/marketplace"
	"sneaker-feed/internal/observability"
	"sneaker-feed/internal/storage"
)

// ResultsPerPage is the number of search results counted as one page.
const ResultsPerPage = 40

// KeywordQueryError is a failed search for one keyword. It stops the
// remaining keywords but not the save of what was already collected.
type KeywordQueryError struct {
	Keyword string
	Err     error
}

func (e *KeywordQueryError) Error() string {
	return fmt.Sprintf("query keyword %q: %v", e.Keyword, e.Err)
}

func (e *KeywordQueryError) Unwrap() error {
	return e.Err
}

// Builder queries the marketplace and persists the resulting catalog.
type Builder struct {
	searcher marketplace.Searcher
	store    storage.CatalogStore
	logger   *log.Logger
	now      func() time.Time
}

// Options contains configuration for creating a Builder.
type Options struct {
	Searcher marketplace.Searcher
	Store    storage.CatalogStore
	Logger   *log.Logger
	Clock    func() time.Time // Default: time.Now
}

// NewBuilder creates a new catalog builder.
func NewBuilder(opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Builder{
		searcher: opts.Searcher,
		store:    opts.Store,
		logger:   logger,
		now:      now,
	}
}

// BuildResult describes a finished build.
type BuildResult struct {
	Catalog  *domain.Catalog
	Location string // Where the snapshot was saved
	Keywords int    // Keywords searched successfully
	Dropped  int    // Results dropped for an empty or repeated identifier
	QueryErr error  // First keyword failure, nil if every keyword was searched
}

// Build searches each keyword for pages*ResultsPerPage results, merges them
// in order with identifiers unique across the whole run, and saves the
// snapshot. A keyword failure ends the querying and is reported in
// BuildResult.QueryErr; the returned error is set only when the save fails.
func (b *Builder) Build(ctx context.Context, keywords []string, pages int) (*BuildResult, error) {
	if pages <= 0 {
		return nil, fmt.Errorf("pages must be positive, got %d: %w", pages, storage.ErrInvalidInput)
	}

	result := &BuildResult{Catalog: domain.NewCatalog()}
	seen := make(map[string]struct{})

	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.QueryErr = &KeywordQueryError{Keyword: kw, Err: err}
			break
		}

		added, dropped, err := b.queryKeyword(ctx, kw, pages, seen, result.Catalog)
		observability.RecordKeyword(err)
		if err != nil {
			b.logger.Printf("keyword %q failed, keeping %d items: %v", kw, result.Catalog.Len(), err)
			result.QueryErr = err
			break
		}
		result.Keywords++
		result.Dropped += dropped
		b.logger.Printf("keyword %q: %d new items", kw, added)
	}

	location, err := b.store.Save(context.WithoutCancel(ctx), result.Catalog, b.now())
	if err != nil {
		return result, fmt.Errorf("save catalog: %w", err)
	}
	result.Location = location
	observability.RecordCatalog(result.Catalog.Len())
	b.logger.Printf("saved %d items to %s", result.Catalog.Len(), location)

	return result, nil
}

// queryKeyword runs one search and adds unseen items to cat.
func (b *Builder) queryKeyword(ctx context.Context, kw string, pages int, seen map[string]struct{}, cat *domain.Catalog) (added, dropped int, err error) {
	items, err := b.searcher.Search(ctx, kw, pages*ResultsPerPage)
	if err != nil {
		return 0, 0, &KeywordQueryError{Keyword: kw, Err: err}
	}

	for _, item := range items {
		if item == nil || item.StyleID == "" {
			b.logger.Printf("keyword %q: dropping result without style id", kw)
			dropped++
			continue
		}
		if _, ok := seen[item.StyleID]; ok {
			dropped++
			continue
		}
		if err := cat.Add(item); err != nil {
			if errors.Is(err, domain.ErrDuplicateItem) {
				dropped++
				continue
			}
			return added, dropped, &KeywordQueryError{Keyword: kw, Err: err}
		}
		seen[item.StyleID] = struct{}{}
		added++
	}

	return added, dropped, nil
}
