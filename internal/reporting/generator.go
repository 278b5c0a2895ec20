// Package reporting summarizes stored market snapshots per catalog item.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/lookup"
	"sneaker-feed/internal/storage"
)

// ChangeWindow is how far back the ask price change is measured.
const ChangeWindow = 7 * 24 * time.Hour

// Generator produces reports from a catalog and its time series.
type Generator struct {
	catalog  *domain.Catalog
	location string
	series   storage.TimeSeriesStore
	venue    string
	now      func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator for the catalog saved at location.
func NewGenerator(catalog *domain.Catalog, location string, series storage.TimeSeriesStore) *Generator {
	return &Generator{
		catalog:  catalog,
		location: location,
		series:   series,
		venue:    domain.VenueStockX,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the summary. Items without stored data are listed in
// Report.Missing rather than failing the report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	report := &Report{
		GeneratedAt:     g.now(),
		CatalogLocation: g.location,
		ItemCount:       g.catalog.Len(),
	}

	for _, item := range g.catalog.Items() {
		sizes, err := g.series.Sizes(ctx, item.StyleID)
		if err != nil {
			return nil, fmt.Errorf("list sizes for %s: %w", item.StyleID, err)
		}
		if len(sizes) == 0 {
			report.Missing = append(report.Missing, item.StyleID)
			continue
		}
		report.ItemsWithData++

		for _, size := range sizes {
			row, ok, err := g.summarize(ctx, item, size)
			if err != nil {
				return nil, err
			}
			if ok {
				report.Rows = append(report.Rows, row)
			}
		}
	}

	return report, nil
}

func (g *Generator) summarize(ctx context.Context, item *domain.Item, size string) (SummaryRow, bool, error) {
	ts, err := g.series.Get(ctx, item.StyleID, size)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return SummaryRow{}, false, nil
		}
		return SummaryRow{}, false, fmt.Errorf("read series %s/%s: %w", item.StyleID, size, err)
	}

	records := ts.Records(g.venue)
	if len(records) == 0 {
		return SummaryRow{}, false, nil
	}
	last := records[len(records)-1]

	row := SummaryRow{
		StyleID:  item.StyleID,
		Name:     item.Name,
		Size:     size,
		LastTime: last.Time,
		Bid:      last.BidPrice,
		Ask:      last.AskPrice,
		Sales72h: last.Sale72Hours,
		Records:  len(records),
	}
	if last.BidPrice > 0 && last.AskPrice > 0 {
		row.Spread = last.AskPrice - last.BidPrice
	}
	row.AskChange, row.HasAskChange = lookup.AskChange(ChangeWindow, records)
	return row, true, nil
}
