package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sneaker-feed/internal/domain"
	"sneaker-feed/internal/storage"
)

func TestTimeSeriesStore_AppendTwicePreservesFirst(t *testing.T) {
	store := NewTimeSeriesStore()
	ctx := context.Background()
	t1 := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	if err := store.Append(ctx, t1, "X-1", map[string]domain.MarketSnapshot{"10.0": {BestAsk: 200, BestBid: 150}}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, t2, "X-1", map[string]domain.MarketSnapshot{"10.0": {BestAsk: 210, BestBid: 160}}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	ts, err := store.Get(ctx, "X-1", "10.0")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	records := ts.Records(domain.VenueStockX)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if !records[0].Time.Equal(t1) || records[0].AskPrice != 200 {
		t.Errorf("First record changed: %+v", records[0])
	}
	if !records[1].Time.Equal(t2) || records[1].AskPrice != 210 {
		t.Errorf("Second record wrong: %+v", records[1])
	}
}

func TestTimeSeriesStore_GetNotFound(t *testing.T) {
	store := NewTimeSeriesStore()

	_, err := store.Get(context.Background(), "X-1", "10.0")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTimeSeriesStore_Sizes(t *testing.T) {
	store := NewTimeSeriesStore()
	ctx := context.Background()

	_ = store.Append(ctx, time.Now(), "X-1", map[string]domain.MarketSnapshot{
		"9.5":  {},
		"10.0": {},
		"5.0Y": {},
	})
	_ = store.Append(ctx, time.Now(), "Y-2", map[string]domain.MarketSnapshot{"8.0": {}})

	sizes, err := store.Sizes(ctx, "X-1")
	if err != nil {
		t.Fatalf("Sizes failed: %v", err)
	}
	want := []string{"10.0", "5.0Y", "9.5"}
	if len(sizes) != len(want) {
		t.Fatalf("Expected %v, got %v", want, sizes)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, sizes)
			break
		}
	}
}

func TestTimeSeriesStore_InvalidInput(t *testing.T) {
	store := NewTimeSeriesStore()

	err := store.Append(context.Background(), time.Now(), "", map[string]domain.MarketSnapshot{"10.0": {}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
