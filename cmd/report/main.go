// Command report writes a latest-snapshot market summary for a catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"sneaker-feed/internal/config"
	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/reporting"
	"sneaker-feed/internal/storage"
	chstore "sneaker-feed/internal/storage/clickhouse"
	"sneaker-feed/internal/storage/file"
	pgstore "sneaker-feed/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Parse flags
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	startFrom := flag.String("start-from", "", "Catalog snapshot to summarize (\"latest\" with -postgres-dsn)")
	dataDir := flag.String("data-dir", cfg.DataDir, "Time series data directory")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string for the catalog")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string for market snapshots")
	flag.Parse()

	if *startFrom == "" {
		fmt.Fprintln(os.Stderr, "Error: --start-from is required")
		os.Exit(1)
	}

	ctx := context.Background()

	cat, location, err := loadCatalog(ctx, *startFrom, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	var series storage.TimeSeriesStore = file.NewTimeSeriesStore(*dataDir)
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		series = chstore.NewTimeSeriesStore(conn)
	}

	report, err := reporting.NewGenerator(cat, location, series).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutputs(*outputDir, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Summarized %d of %d items (%d sizes):\n", report.ItemsWithData, report.ItemCount, len(report.Rows))
	fmt.Printf("  - %s/MARKET_SUMMARY.md\n", *outputDir)
	fmt.Printf("  - %s/MARKET_SUMMARY.csv\n", *outputDir)
	fmt.Printf("  - %s/MARKET_SUMMARY.xlsx\n", *outputDir)
}

func loadCatalog(ctx context.Context, startFrom, postgresDSN string) (*domain.Catalog, string, error) {
	if postgresDSN == "" {
		cat, err := file.NewCatalogStore("").Load(ctx, startFrom)
		return cat, startFrom, err
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, "", err
	}
	defer pool.Close()

	store := pgstore.NewCatalogStore(pool)
	location := startFrom
	if location == "latest" {
		if location, err = store.Latest(ctx); err != nil {
			return nil, "", err
		}
	}
	cat, err := store.Load(ctx, location)
	return cat, location, err
}

func writeOutputs(dir string, report *reporting.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "MARKET_SUMMARY.md"), []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "MARKET_SUMMARY.csv"), []byte(reporting.RenderCSV(report.Rows)), 0o644); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "MARKET_SUMMARY.xlsx"))
	if err != nil {
		return err
	}
	if err := reporting.WriteXLSX(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
