package domain

import "time"

// VenueStockX is the source tag every record written by this feed is filed under.
const VenueStockX = "stockx"

// MarketSnapshot is the market state of one size of an item at fetch time.
type MarketSnapshot struct {
	BestAsk      float64 // lowest ask
	BestBid      float64 // highest bid
	AnnualHigh   float64 // 12 month high sale
	AnnualLow    float64 // 12 month low sale
	Volatility   float64 // marketplace volatility figure
	SalesLast72h int64   // sales in the trailing 72 hours
	NumberOfAsks int64   // outstanding asks
	NumberOfBids int64   // outstanding bids
}

// TimeSeriesRecord is one observation of a (style, size) pair.
// Once written it is never mutated.
type TimeSeriesRecord struct {
	Time        time.Time `json:"time"`
	BidPrice    float64   `json:"bid_price"`
	AskPrice    float64   `json:"ask_price"`
	AnnualHigh  float64   `json:"annual_high"`
	AnnualLow   float64   `json:"annual_low"`
	Volatility  float64   `json:"volatility"`
	Sale72Hours int64     `json:"sale_72_hours"`
	NumberAsks  int64     `json:"number_asks"`
	NumberBids  int64     `json:"number_bids"`
}

// NewTimeSeriesRecord builds a record from a snapshot taken at t.
func NewTimeSeriesRecord(t time.Time, s MarketSnapshot) TimeSeriesRecord {
	return TimeSeriesRecord{
		Time:        t.UTC(),
		BidPrice:    s.BestBid,
		AskPrice:    s.BestAsk,
		AnnualHigh:  s.AnnualHigh,
		AnnualLow:   s.AnnualLow,
		Volatility:  s.Volatility,
		Sale72Hours: s.SalesLast72h,
		NumberAsks:  s.NumberOfAsks,
		NumberBids:  s.NumberOfBids,
	}
}

// Snapshot converts the record back into market data.
func (r TimeSeriesRecord) Snapshot() MarketSnapshot {
	return MarketSnapshot{
		BestAsk:      r.AskPrice,
		BestBid:      r.BidPrice,
		AnnualHigh:   r.AnnualHigh,
		AnnualLow:    r.AnnualLow,
		Volatility:   r.Volatility,
		SalesLast72h: r.Sale72Hours,
		NumberOfAsks: r.NumberAsks,
		NumberOfBids: r.NumberBids,
	}
}

// VenueSeries is the per-venue section of a time series.
type VenueSeries struct {
	Prices []TimeSeriesRecord `json:"prices"`
}

// TimeSeries is the full history of one (style, size) pair, grouped by venue tag.
// Records within a venue are in append (chronological) order.
type TimeSeries map[string]*VenueSeries

// Records returns the records filed under venue, or nil.
func (ts TimeSeries) Records(venue string) []TimeSeriesRecord {
	v, ok := ts[venue]
	if !ok || v == nil {
		return nil
	}
	return v.Prices
}

// Append adds a record to the end of venue's list.
func (ts TimeSeries) Append(venue string, r TimeSeriesRecord) {
	v, ok := ts[venue]
	if !ok || v == nil {
		v = &VenueSeries{}
		ts[venue] = v
	}
	v.Prices = append(v.Prices, r)
}
