// Command feed builds the market catalog and keeps its per-size market
// snapshots up to date.
//
// Modes:
//   - query: search keywords and save a new catalog snapshot
//   - update: refresh stale items of a catalog snapshot
//   - get: print one catalog item with its current market data
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sneaker-feed/internal/catalog"
	"sneaker-feed/internal/config"
	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/marketplace"
	"sneaker-feed/internal/observability"
	"sneaker-feed/internal/registry"
	"sneaker-feed/internal/scheduler"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one mode and returns the process exit code. Deferred cleanup
// (signal handler, store connections) runs before main exits.
func run(args []string) int {
	logger := log.New(os.Stdout, "[feed] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Printf("Load config: %v", err)
		return 1
	}

	// Parse flags
	flags := flag.NewFlagSet("feed", flag.ContinueOnError)
	mode := flags.String("mode", "", "Mode: query, update or get")
	kw := flags.String("kw", "", "query: keyword file, or keywords separated by comma")
	pages := flags.Int("pages", cfg.Pages, "query: result pages per keyword")
	startFrom := flags.String("start-from", "", "update/get: catalog snapshot to load (\"latest\" with -postgres-dsn)")
	lastUpdated := flags.String("last-updated", cfg.RegistryFile, "update: last-updated registry file")
	minInterval := flags.Duration("min-interval", cfg.MinInterval, "update: skip items refreshed more recently than this")
	minIntervalSeconds := flags.Int("min-interval-seconds", 0, "update: same as -min-interval, in seconds")
	limit := flags.Int("limit", cfg.MaxItems, "update: maximum items to fetch (0 = no limit)")
	styleID := flags.String("style-id", "", "get: style id to look up")
	dataDir := flags.String("data-dir", cfg.DataDir, "Time series data directory")
	catalogDir := flags.String("catalog-dir", cfg.CatalogDir, "Directory for new catalog snapshots")
	credentials := flags.String("credentials", cfg.CredentialsFile, "Marketplace credentials file")
	baseURL := flags.String("marketplace-url", cfg.MarketplaceURL, "Marketplace base URL")
	postgresDSN := flags.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string for catalog and registry")
	clickhouseDSN := flags.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string for market snapshots")
	useMemory := flags.Bool("use-memory", false, "Dry run: keep everything the run writes in memory")
	metricsAddr := flags.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *minIntervalSeconds > 0 {
		*minInterval = time.Duration(*minIntervalSeconds) * time.Second
	}

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Cancel on SIGINT/SIGTERM; the update run still flushes its registry.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := marketplace.NewHTTPClient(*baseURL,
		marketplace.WithTimeout(cfg.HTTPTimeout),
		marketplace.WithMaxRetries(cfg.HTTPRetries),
	)
	bcfg := backendConfig{
		dataDir:       *dataDir,
		catalogDir:    *catalogDir,
		registryFile:  *lastUpdated,
		postgresDSN:   *postgresDSN,
		clickhouseDSN: *clickhouseDSN,
		useMemory:     *useMemory,
	}

	start := time.Now()
	switch *mode {
	case "query":
		err = runQuery(ctx, logger, client, bcfg, *credentials, *kw, *pages, *startFrom)
	case "update":
		err = runUpdate(ctx, logger, client, bcfg, *credentials, *startFrom, *minInterval, *limit)
	case "get":
		err = runGet(ctx, logger, client, bcfg, *credentials, *styleID, *startFrom)
	default:
		flags.Usage()
		logger.Printf("Unknown mode: %q", *mode)
		return 2
	}
	observability.RecordRun(*mode, time.Since(start).Seconds(), err)

	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	return 0
}

// login opens a marketplace session with the first account in the credentials file.
func login(ctx context.Context, logger *log.Logger, client *marketplace.HTTPClient, credentialsFile string) (*marketplace.Session, error) {
	creds, err := marketplace.LoadCredentials(credentialsFile)
	if err != nil {
		return nil, err
	}
	session, err := client.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	logger.Printf("Logged in as %s", session.Username())
	return session, nil
}

// runQuery builds a fresh catalog snapshot from keyword searches.
func runQuery(ctx context.Context, logger *log.Logger, client *marketplace.HTTPClient, bcfg backendConfig, credentials, kw string, pages int, startFrom string) error {
	if kw == "" {
		return errors.New("-kw is mandatory in query mode")
	}
	if pages <= 0 {
		return errors.New("-pages is mandatory in query mode")
	}
	if startFrom != "" {
		return errors.New("-start-from should not be provided in query mode: each query is a full refresh")
	}

	keywords, err := catalog.LoadKeywords(kw)
	if err != nil {
		return err
	}

	b, err := openBackends(ctx, logger, bcfg)
	if err != nil {
		return err
	}
	defer b.Close()

	session, err := login(ctx, logger, client, credentials)
	if err != nil {
		return err
	}

	builder := catalog.NewBuilder(catalog.Options{
		Searcher: session,
		Store:    b.catalogSink,
		Logger:   log.New(os.Stdout, "[catalog] ", log.LstdFlags),
	})

	result, err := builder.Build(ctx, keywords, pages)
	if result != nil && result.QueryErr != nil {
		logger.Printf("Stopped querying early: %v", result.QueryErr)
	}
	if err != nil {
		return err
	}

	logger.Printf("Found %d unique items from %d keywords, saved to %s",
		result.Catalog.Len(), result.Keywords, result.Location)
	return nil
}

// runUpdate refreshes stale items of a catalog snapshot.
func runUpdate(ctx context.Context, logger *log.Logger, client *marketplace.HTTPClient, bcfg backendConfig, credentials, startFrom string, minInterval time.Duration, limit int) error {
	if startFrom == "" {
		return errors.New("-start-from is mandatory in update mode")
	}

	b, err := openBackends(ctx, logger, bcfg)
	if err != nil {
		return err
	}
	defer b.Close()

	location, err := b.resolveCatalog(ctx, startFrom)
	if err != nil {
		return err
	}
	cat, err := b.catalogSource.Load(ctx, location)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	observability.UpdateCatalogSize(cat.Len())
	logger.Printf("Loaded %d items from %s", cat.Len(), location)

	reg := registry.New(b.registry, minInterval)
	if err := reg.Load(ctx); err != nil {
		return err
	}

	session, err := login(ctx, logger, client, credentials)
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Options{
		Catalog:    cat,
		Registry:   reg,
		Fetcher:    session,
		TimeSeries: b.timeSeries,
		MaxItems:   limit,
		Logger:     log.New(os.Stdout, "[scheduler] ", log.LstdFlags),
	})

	result, err := sched.Run(ctx)
	if err != nil {
		return err
	}

	observability.MarkUpdateSuccess(time.Now().Unix())
	logger.Printf("Finished updating %d items (%d skipped, %d failed)", result.Updated, result.Skipped, result.Failed)
	return nil
}

// runGet prints one catalog item and its parsed market data.
func runGet(ctx context.Context, logger *log.Logger, client *marketplace.HTTPClient, bcfg backendConfig, credentials, styleID, startFrom string) error {
	if styleID == "" {
		return errors.New("-style-id is required in get mode")
	}
	if startFrom == "" {
		return errors.New("-start-from is required in get mode")
	}

	b, err := openBackends(ctx, logger, bcfg)
	if err != nil {
		return err
	}
	defer b.Close()

	location, err := b.resolveCatalog(ctx, startFrom)
	if err != nil {
		return err
	}
	cat, err := b.catalogSource.Load(ctx, location)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	item, ok := cat.Get(styleID)
	if !ok {
		return fmt.Errorf("cannot find product info for %s in %s", styleID, location)
	}

	session, err := login(ctx, logger, client, credentials)
	if err != nil {
		return err
	}
	resp, err := session.FetchDetails(ctx, item.URLKey)
	if err != nil {
		return &marketplace.FetchError{StyleID: item.StyleID, URLKey: item.URLKey, Err: err}
	}

	snapshots, parseErrs := marketplace.ParseProduct(resp)
	for _, perr := range parseErrs {
		logger.Printf("Dropped variant: %v", perr)
	}

	out := struct {
		Item   *domain.Item                     `json:"item"`
		Market map[string]domain.MarketSnapshot `json:"market"`
	}{Item: item, Market: snapshots}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
