package domain

// Item represents one tradable product style listed on the marketplace.
// Corresponds to one row of a catalog snapshot.
type Item struct {
	StyleID     string // unique key within a snapshot, e.g. 575441-028
	Gender      string // marketplace gender bucket (men, women, child, ...)
	URLKey      string // product page key used to fetch details
	ColorWay    string // color way label
	Name        string // display name
	Title       string // full listing title
	RetailPrice string // retail price as reported (may be empty)
	UUID        string // platform product uuid
	PID         string // platform numeric product id
	ReleaseDate string // release date as reported (YYYY-MM-DD or empty)
}
