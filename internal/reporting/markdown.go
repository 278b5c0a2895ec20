package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Market Summary\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Catalog: %s\n\n", r.CatalogLocation))

	// Coverage
	sb.WriteString("## Coverage\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Catalog Items | %d |\n", r.ItemCount))
	sb.WriteString(fmt.Sprintf("| Items With Data | %d |\n", r.ItemsWithData))
	sb.WriteString(fmt.Sprintf("| Sizes | %d |\n", len(r.Rows)))
	sb.WriteString("\n")

	// Latest snapshots
	sb.WriteString("## Latest Snapshots\n\n")
	if len(r.Rows) > 0 {
		sb.WriteString("| Style | Name | Size | Last Update | Bid | Ask | Spread | Sales 72h | Records | Ask 7d |\n")
		sb.WriteString("|-------|------|------|-------------|-----|-----|--------|-----------|---------|--------|\n")
		for _, row := range r.Rows {
			change := "-"
			if row.HasAskChange {
				change = fmt.Sprintf("%+.2f", row.AskChange)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2f | %.2f | %.2f | %d | %d | %s |\n",
				row.StyleID, escapePipes(row.Name), row.Size, row.LastTime.UTC().Format(time.RFC3339),
				row.Bid, row.Ask, row.Spread, row.Sales72h, row.Records, change))
		}
	} else {
		sb.WriteString("No market data available.\n")
	}
	sb.WriteString("\n")

	// Missing
	if len(r.Missing) > 0 {
		sb.WriteString("## Items Without Data\n\n")
		for _, id := range r.Missing {
			sb.WriteString(fmt.Sprintf("- %s\n", id))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
