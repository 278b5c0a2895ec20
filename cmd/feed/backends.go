package main

import (
	"context"
	"fmt"
	"log"

	"sneaker-feed/internal/storage"
	chstore "sneaker-feed/internal/storage/clickhouse"
	"sneaker-feed/internal/storage/file"
	"sneaker-feed/internal/storage/memory"
	"sneaker-feed/internal/storage/migrations"
	pgstore "sneaker-feed/internal/storage/postgres"
)

// backendConfig selects a store per concern. Postgres and ClickHouse win
// over the file stores when their DSN is set.
type backendConfig struct {
	dataDir       string
	catalogDir    string
	registryFile  string
	postgresDSN   string
	clickhouseDSN string
	useMemory     bool // dry run: nothing the run produces is persisted
}

// backends holds the stores a mode needs.
type backends struct {
	catalogSource storage.CatalogStore // where -start-from is read
	catalogSink   storage.CatalogStore // where new snapshots are saved
	registry      storage.RegistryStore
	timeSeries    storage.TimeSeriesStore
	closers       []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// latestCatalog is implemented by catalog stores that can name their newest snapshot.
type latestCatalog interface {
	Latest(ctx context.Context) (string, error)
}

func openBackends(ctx context.Context, logger *log.Logger, cfg backendConfig) (*backends, error) {
	b := &backends{}

	if cfg.postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.postgresDSN)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			b.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		logger.Println("Using PostgreSQL for catalog and registry")
		b.catalogSource = pgstore.NewCatalogStore(pool)
		b.registry = pgstore.NewRegistryStore(pool)
	} else {
		b.catalogSource = file.NewCatalogStore(cfg.catalogDir)
		b.registry = file.NewRegistryStore(cfg.registryFile)
	}
	b.catalogSink = b.catalogSource

	if cfg.clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.clickhouseDSN)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		b.closers = append(b.closers, func() { conn.Close() })
		logger.Println("Using ClickHouse for market snapshots")
		b.timeSeries = chstore.NewTimeSeriesStore(conn)
	} else {
		b.timeSeries = file.NewTimeSeriesStore(cfg.dataDir)
	}

	if cfg.useMemory {
		logger.Println("Using in-memory storage for everything the run writes")
		b.catalogSink = memory.NewCatalogStore()
		b.timeSeries = memory.NewTimeSeriesStore()

		// Seed from the real registry so staleness decisions still hold.
		entries, err := b.registry.LoadAll(ctx)
		if err != nil {
			b.Close()
			return nil, err
		}
		mem := memory.NewRegistryStore()
		if err := mem.SaveAll(ctx, entries); err != nil {
			b.Close()
			return nil, err
		}
		b.registry = mem
	}

	return b, nil
}

// resolveCatalog maps "latest" to the newest snapshot for stores that support it.
func (b *backends) resolveCatalog(ctx context.Context, location string) (string, error) {
	if location != "latest" {
		return location, nil
	}
	lc, ok := b.catalogSource.(latestCatalog)
	if !ok {
		return "", fmt.Errorf("-start-from latest needs -postgres-dsn")
	}
	return lc.Latest(ctx)
}
