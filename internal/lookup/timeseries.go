// Package lookup finds observations in a market time series by time.
package lookup

import (
	"errors"
	"time"

	"sneaker-feed/internal/domain"
)

// ErrNoRecords is returned for an empty series.
var ErrNoRecords = errors.New("no market records available")

// RecordAt returns the latest record at or before target.
// Records must be in chronological order. ok is false when every record is
// after target, which is a valid case for a series that started later.
func RecordAt(target time.Time, records []domain.TimeSeriesRecord) (rec domain.TimeSeriesRecord, ok bool, err error) {
	if len(records) == 0 {
		return domain.TimeSeriesRecord{}, false, ErrNoRecords
	}

	for i := len(records) - 1; i >= 0; i-- {
		if !records[i].Time.After(target) {
			return records[i], true, nil
		}
	}

	return domain.TimeSeriesRecord{}, false, nil
}

// AskChange returns the change in ask price between the record at or before
// last.Time-window and the last record. ok is false when the series does not
// reach back that far or either ask is empty.
func AskChange(window time.Duration, records []domain.TimeSeriesRecord) (delta float64, ok bool) {
	if len(records) == 0 {
		return 0, false
	}
	last := records[len(records)-1]

	prev, found, err := RecordAt(last.Time.Add(-window), records)
	if err != nil || !found || prev.AskPrice == 0 || last.AskPrice == 0 {
		return 0, false
	}
	return last.AskPrice - prev.AskPrice, true
}
