package reporting

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/storage/memory"
)

var (
	t1      = time.Date(2020, 1, 5, 7, 0, 0, 0, time.UTC)
	t2      = t1.Add(24 * time.Hour)
	genTime = time.Date(2020, 1, 7, 0, 0, 0, 0, time.UTC)
)

func setupTestData(t *testing.T) (*domain.Catalog, *memory.TimeSeriesStore) {
	t.Helper()
	ctx := context.Background()

	catalog := domain.NewCatalog()
	for _, it := range []*domain.Item{
		{StyleID: "555088-101", Name: "Jordan 1 Retro High, Lost & Found"},
		{StyleID: "575441-028", Name: "Jordan 1 Bred Toe"},
		{StyleID: "NO-DATA", Name: "Never fetched"},
	} {
		if err := catalog.Add(it); err != nil {
			t.Fatalf("Add item failed: %v", err)
		}
	}

	series := memory.NewTimeSeriesStore()
	if err := series.Append(ctx, t1, "555088-101", map[string]domain.MarketSnapshot{
		"10.0": {BestAsk: 400, BestBid: 350, SalesLast72h: 5},
		"9.5":  {BestAsk: 390, BestBid: 0},
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := series.Append(ctx, t2, "555088-101", map[string]domain.MarketSnapshot{
		"10.0": {BestAsk: 420, BestBid: 360, SalesLast72h: 12},
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := series.Append(ctx, t1, "575441-028", map[string]domain.MarketSnapshot{
		"5.5Y": {BestAsk: 150, BestBid: 120, SalesLast72h: 3},
	}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	return catalog, series
}

func generate(t *testing.T) *Report {
	t.Helper()

	catalog, series := setupTestData(t)
	report, err := NewGenerator(catalog, "stockx.mapping.test.csv", series).
		WithClock(func() time.Time { return genTime }).
		Generate(context.Background())
	require.NoError(t, err)
	return report
}

func TestGenerate(t *testing.T) {
	report := generate(t)

	assert.Equal(t, genTime, report.GeneratedAt)
	assert.Equal(t, 3, report.ItemCount)
	assert.Equal(t, 2, report.ItemsWithData)
	assert.Equal(t, []string{"NO-DATA"}, report.Missing)
	require.Len(t, report.Rows, 3)

	latest := report.Rows[0]
	assert.Equal(t, "555088-101", latest.StyleID)
	assert.Equal(t, "10.0", latest.Size)
	assert.Equal(t, t2, latest.LastTime)
	assert.Equal(t, 420.0, latest.Ask)
	assert.Equal(t, 360.0, latest.Bid)
	assert.Equal(t, 60.0, latest.Spread)
	assert.Equal(t, int64(12), latest.Sales72h)
	assert.Equal(t, 2, latest.Records)

	noBid := report.Rows[1]
	assert.Equal(t, "9.5", noBid.Size)
	assert.Equal(t, 0.0, noBid.Spread)
	assert.Equal(t, 1, noBid.Records)

	assert.Equal(t, "575441-028", report.Rows[2].StyleID)
}

func TestGenerate_AskChange(t *testing.T) {
	ctx := context.Background()
	catalog := domain.NewCatalog()
	require.NoError(t, catalog.Add(&domain.Item{StyleID: "W-1"}))

	series := memory.NewTimeSeriesStore()
	for day, ask := range []float64{200, 210, 0, 230, 240, 250, 260, 270, 280, 290} {
		at := t1.Add(time.Duration(day) * 24 * time.Hour)
		require.NoError(t, series.Append(ctx, at, "W-1", map[string]domain.MarketSnapshot{"8.0": {BestAsk: ask}}))
	}

	report, err := NewGenerator(catalog, "loc", series).Generate(ctx)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	// day 9 against day 2, whose ask is empty
	assert.False(t, report.Rows[0].HasAskChange)

	require.NoError(t, series.Append(ctx, t1.Add(10*24*time.Hour), "W-1", map[string]domain.MarketSnapshot{"8.0": {BestAsk: 300}}))
	report, err = NewGenerator(catalog, "loc", series).Generate(ctx)
	require.NoError(t, err)

	// day 10 against day 3
	assert.True(t, report.Rows[0].HasAskChange)
	assert.Equal(t, 70.0, report.Rows[0].AskChange)
	assert.Contains(t, RenderCSV(report.Rows), ",70.00\n")
}

func TestRenderCSV(t *testing.T) {
	out := RenderCSV(generate(t).Rows)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "style_id,name,size,last_time,bid,ask,spread,sales_72h,records,ask_change_7d", lines[0])
	assert.Equal(t, `555088-101,"Jordan 1 Retro High, Lost & Found",10.0,2020-01-06T07:00:00Z,360.00,420.00,60.00,12,2,`, lines[1])
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(generate(t))

	assert.Contains(t, md, "# Market Summary")
	assert.Contains(t, md, "Catalog: stockx.mapping.test.csv")
	assert.Contains(t, md, "| Items With Data | 2 |")
	assert.Contains(t, md, "| 575441-028 | Jordan 1 Bred Toe | 5.5Y |")
	assert.Contains(t, md, "| 3 | 1 | - |")
	assert.Contains(t, md, "## Items Without Data\n\n- NO-DATA\n")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: genTime})

	assert.Contains(t, md, "No market data available.")
	assert.NotContains(t, md, "Items Without Data")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, generate(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Style", rows[0][0])
	assert.Equal(t, "Records", rows[0][8])
	assert.Equal(t, "555088-101", rows[1][0])
	assert.Equal(t, "10.0", rows[1][2])
	assert.Equal(t, "420", rows[1][5])
	assert.Equal(t, "2", rows[1][8])
}
