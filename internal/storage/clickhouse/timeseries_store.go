package clickhouse

import (
	"context"
	"fmt"
	"sort"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/storage"
)

// TimeSeriesStore is a ClickHouse implementation of storage.TimeSeriesStore.
// Rows are only ever inserted; a series is read back ordered by time.
type TimeSeriesStore struct {
	conn  *Conn
	venue string
}

// NewTimeSeriesStore creates a new ClickHouse time series store.
func NewTimeSeriesStore(conn *Conn) *TimeSeriesStore {
	return &TimeSeriesStore{conn: conn, venue: domain.VenueStockX}
}

// Append inserts one row per size in a single batch.
func (s *TimeSeriesStore) Append(ctx context.Context, at time.Time, styleID string, snapshots map[string]domain.MarketSnapshot) error {
	if styleID == "" {
		return storage.ErrInvalidInput
	}
	if len(snapshots) == 0 {
		return nil
	}

	sizes := make([]string, 0, len(snapshots))
	for size := range snapshots {
		if size == "" {
			return storage.ErrInvalidInput
		}
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO market_snapshots (
			style_id, size, venue, time,
			bid_price, ask_price, annual_high, annual_low, volatility,
			sale_72_hours, number_asks, number_bids
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, size := range sizes {
		r := domain.NewTimeSeriesRecord(at, snapshots[size])
		err = batch.Append(
			styleID, size, s.venue, r.Time,
			r.BidPrice, r.AskPrice, r.AnnualHigh, r.AnnualLow, r.Volatility,
			r.Sale72Hours, r.NumberAsks, r.NumberBids,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// Get returns the series for (styleID, size) grouped by venue.
func (s *TimeSeriesStore) Get(ctx context.Context, styleID, size string) (domain.TimeSeries, error) {
	query := `
		SELECT venue, time,
		       bid_price, ask_price, annual_high, annual_low, volatility,
		       sale_72_hours, number_asks, number_bids
		FROM market_snapshots
		WHERE style_id = ? AND size = ?
		ORDER BY time ASC
	`

	rows, err := s.conn.Query(ctx, query, styleID, size)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	series := make(domain.TimeSeries)
	for rows.Next() {
		var (
			venue string
			r     domain.TimeSeriesRecord
		)
		if err := rows.Scan(
			&venue, &r.Time,
			&r.BidPrice, &r.AskPrice, &r.AnnualHigh, &r.AnnualLow, &r.Volatility,
			&r.Sale72Hours, &r.NumberAsks, &r.NumberBids,
		); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		r.Time = r.Time.UTC()
		series.Append(venue, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}

	if len(series) == 0 {
		return nil, storage.ErrNotFound
	}
	return series, nil
}

// Sizes returns the distinct sizes stored for a style, sorted.
func (s *TimeSeriesStore) Sizes(ctx context.Context, styleID string) ([]string, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT DISTINCT size
		FROM market_snapshots
		WHERE style_id = ?
		ORDER BY size ASC
	`, styleID)
	if err != nil {
		return nil, fmt.Errorf("query sizes: %w", err)
	}
	defer rows.Close()

	var sizes []string
	for rows.Next() {
		var size string
		if err := rows.Scan(&size); err != nil {
			return nil, fmt.Errorf("scan size: %w", err)
		}
		sizes = append(sizes, size)
	}
	return sizes, rows.Err()
}

var _ storage.TimeSeriesStore = (*TimeSeriesStore)(nil)
