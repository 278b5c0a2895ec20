// Package scheduler refreshes market snapshots for catalog items.
//
// A run walks the catalog in order and for each item:
//  1. skips it when the registry says it was refreshed too recently
//  2. stops the run once the item quota is used up
//  3. fetches product details, parses per-size snapshots and appends them
//  4. marks the item updated in the registry
//
// The registry is flushed when the run ends, however it ends.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/marketplace"
	"sneaker-feed/internal/observability"
	"sneaker-feed/internal/registry"
	"sneaker-feed/internal/storage"
)

// Scheduler runs one incremental update pass over a catalog.
type Scheduler struct {
	catalog    *domain.Catalog
	registry   *registry.Registry
	fetcher    marketplace.DetailsFetcher
	timeSeries storage.TimeSeriesStore
	maxItems   int
	logger     *log.Logger
	now        func() time.Time
}

// Options contains configuration for creating a Scheduler.
type Options struct {
	Catalog    *domain.Catalog
	Registry   *registry.Registry // Already loaded
	Fetcher    marketplace.DetailsFetcher
	TimeSeries storage.TimeSeriesStore
	MaxItems   int // Default: 0 - no quota
	Logger     *log.Logger
	Clock      func() time.Time // Default: time.Now
}

// New creates a new Scheduler.
func New(opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Scheduler{
		catalog:    opts.Catalog,
		registry:   opts.Registry,
		fetcher:    opts.Fetcher,
		timeSeries: opts.TimeSeries,
		maxItems:   opts.MaxItems,
		logger:     logger,
		now:        now,
	}
}

// RunResult contains the counts of one run.
type RunResult struct {
	Updated         int
	Skipped         int
	Failed          int
	VariantsDropped int
	QuotaReached    bool
	Duration        time.Duration
}

// Run performs the update pass. Per-item failures are logged and counted,
// never returned. The returned error is a context cancellation or a failed
// registry flush.
func (s *Scheduler) Run(ctx context.Context) (result *RunResult, err error) {
	if s.catalog == nil || s.registry == nil || s.fetcher == nil || s.timeSeries == nil {
		return nil, fmt.Errorf("scheduler: catalog, registry, fetcher and time series store are required: %w", storage.ErrInvalidInput)
	}

	start := s.now()
	result = &RunResult{}

	defer func() {
		result.Duration = s.now().Sub(start)
		if flushErr := s.registry.Flush(context.WithoutCancel(ctx)); flushErr != nil {
			s.logger.Printf("registry flush failed: %v", flushErr)
			err = errors.Join(err, flushErr)
			observability.RecordRegistryFlush(s.registry.Len(), flushErr)
		} else {
			observability.RecordRegistryFlush(s.registry.Len(), nil)
		}
		s.logger.Printf("run finished in %s: %d updated, %d skipped, %d failed, %d variants dropped",
			result.Duration, result.Updated, result.Skipped, result.Failed, result.VariantsDropped)
	}()

	consumed := 0
	for _, item := range s.catalog.Items() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("run interrupted: %w", ctxErr)
		}

		if !s.registry.ShouldUpdate(item.StyleID) {
			s.logger.Printf("skip %s: updated within %s", item.StyleID, s.registry.MinInterval())
			result.Skipped++
			observability.RecordItem(observability.OutcomeSkipped)
			continue
		}

		consumed++
		if s.maxItems > 0 && consumed > s.maxItems {
			s.logger.Printf("quota of %d items reached, stopping before %s", s.maxItems, item.StyleID)
			result.QuotaReached = true
			observability.RecordQuotaReached()
			break
		}

		dropped, itemErr := s.refresh(ctx, item)
		result.VariantsDropped += dropped
		if itemErr != nil {
			s.logger.Printf("failed %s: %v", item.StyleID, itemErr)
			result.Failed++
			observability.RecordItem(observability.OutcomeFailed)
			continue
		}

		s.registry.MarkUpdated(item.StyleID)
		result.Updated++
		observability.RecordItem(observability.OutcomeUpdated)
	}

	return result, nil
}

// refresh fetches, parses and persists one item. It returns the number of
// variants dropped during parsing.
func (s *Scheduler) refresh(ctx context.Context, item *domain.Item) (int, error) {
	fetchStart := time.Now()
	resp, err := s.fetcher.FetchDetails(ctx, item.URLKey)
	observability.RecordFetchLatency(time.Since(fetchStart).Seconds())
	if err != nil {
		return 0, &marketplace.FetchError{StyleID: item.StyleID, URLKey: item.URLKey, Err: err}
	}

	snapshots, parseErrs := marketplace.ParseProduct(resp)
	if snapshots == nil {
		return 0, &marketplace.FetchError{StyleID: item.StyleID, URLKey: item.URLKey, Err: errors.Join(parseErrs...)}
	}
	for _, perr := range parseErrs {
		s.logger.Printf("%s: dropping variant: %v", item.StyleID, perr)
	}
	observability.RecordVariantsDropped(len(parseErrs))

	if len(snapshots) == 0 {
		s.logger.Printf("%s: no usable variants", item.StyleID)
	}

	storeStart := time.Now()
	err = s.timeSeries.Append(ctx, s.now(), item.StyleID, snapshots)
	observability.RecordStoreOp("timeseries", "append", time.Since(storeStart).Seconds(), err)
	if err != nil {
		return len(parseErrs), fmt.Errorf("append time series for %s: %w", item.StyleID, err)
	}

	return len(parseErrs), nil
}
