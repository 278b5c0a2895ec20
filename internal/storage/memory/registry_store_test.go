package memory

import (
	"context"
	"testing"
	"time"
)

func TestRegistryStore_EmptyLoad(t *testing.T) {
	store := NewRegistryStore()

	entries, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty map, got %d entries", len(entries))
	}
}

func TestRegistryStore_SaveAllReplaces(t *testing.T) {
	store := NewRegistryStore()
	ctx := context.Background()
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := store.SaveAll(ctx, map[string]time.Time{"a": now, "b": now}); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if err := store.SaveAll(ctx, map[string]time.Time{"c": now}); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	entries, _ := store.LoadAll(ctx)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after rewrite, got %d", len(entries))
	}
	if _, ok := entries["c"]; !ok {
		t.Error("Expected entry c")
	}
	if store.Saves() != 2 {
		t.Errorf("Expected 2 saves, got %d", store.Saves())
	}
}

func TestRegistryStore_LoadAllReturnsCopy(t *testing.T) {
	store := NewRegistryStore()
	ctx := context.Background()

	_ = store.SaveAll(ctx, map[string]time.Time{"a": time.Now()})

	entries, _ := store.LoadAll(ctx)
	delete(entries, "a")

	again, _ := store.LoadAll(ctx)
	if len(again) != 1 {
		t.Errorf("Mutating loaded map leaked into store")
	}
}
