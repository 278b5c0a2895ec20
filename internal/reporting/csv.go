package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"
)

// RenderCSV renders summary rows as a CSV string.
func RenderCSV(rows []SummaryRow) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Header
	w.Write([]string{"style_id", "name", "size", "last_time", "bid", "ask", "spread", "sales_72h", "records", "ask_change_7d"})

	// Rows
	for _, r := range rows {
		w.Write([]string{
			r.StyleID,
			r.Name,
			r.Size,
			r.LastTime.UTC().Format(time.RFC3339),
			strconv.FormatFloat(r.Bid, 'f', 2, 64),
			strconv.FormatFloat(r.Ask, 'f', 2, 64),
			strconv.FormatFloat(r.Spread, 'f', 2, 64),
			strconv.FormatInt(r.Sales72h, 10),
			strconv.Itoa(r.Records),
			askChange(r),
		})
	}

	w.Flush()
	return sb.String()
}

func askChange(r SummaryRow) string {
	if !r.HasAskChange {
		return ""
	}
	return strconv.FormatFloat(r.AskChange, 'f', 2, 64)
}
