package reporting

import "time"

// Report is the latest-snapshot market summary of a catalog.
type Report struct {
	// Metadata
	GeneratedAt     time.Time
	CatalogLocation string

	// Coverage
	ItemCount     int      // items in the catalog
	ItemsWithData int      // items with at least one stored size
	Missing       []string // style ids with no stored data, catalog order

	// Rows sorted by catalog order, then size
	Rows []SummaryRow
}

// SummaryRow is the most recent observation of one (style, size) pair.
type SummaryRow struct {
	StyleID  string
	Name     string
	Size     string
	LastTime time.Time
	Bid      float64
	Ask      float64
	Spread   float64 // ask - bid, 0 when either side is empty
	Sales72h int64
	Records  int // observations stored for the pair

	AskChange    float64 // ask now minus ask one ChangeWindow earlier
	HasAskChange bool    // false when the series is shorter than ChangeWindow
}
