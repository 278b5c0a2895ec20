// Package registry tracks when each catalog item was last refreshed and
// decides whether it is stale enough to be fetched again.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sneaker-feed/internal/storage"
)

// Registry is the in-memory last-updated mapping backed by a storage.RegistryStore.
// Entries only move forward in time.
type Registry struct {
	mu          sync.RWMutex
	store       storage.RegistryStore
	minInterval time.Duration
	entries     map[string]time.Time
	now         func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// New creates a registry. A zero minInterval disables the staleness gate.
func New(store storage.RegistryStore, minInterval time.Duration, opts ...Option) *Registry {
	r := &Registry{
		store:       store,
		minInterval: minInterval,
		entries:     make(map[string]time.Time),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load merges the stored mapping into memory. A store with nothing in it is not an error.
func (r *Registry) Load(ctx context.Context) error {
	loaded, err := r.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ts := range loaded {
		if prev, ok := r.entries[id]; !ok || ts.After(prev) {
			r.entries[id] = ts
		}
	}
	return nil
}

// ShouldUpdate reports whether styleID is due for a refresh: always when no
// threshold is set or nothing is recorded, otherwise once more than the minimum
// interval has elapsed since the recorded refresh.
func (r *Registry) ShouldUpdate(styleID string) bool {
	if r.minInterval <= 0 {
		return true
	}

	r.mu.RLock()
	last, ok := r.entries[styleID]
	r.mu.RUnlock()
	if !ok {
		return true
	}

	return r.now().Sub(last) > r.minInterval
}

// MarkUpdated records the current time for styleID and returns the stored value.
// A recorded time later than the clock is kept.
func (r *Registry) MarkUpdated(styleID string) time.Time {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[styleID]; ok && prev.After(now) {
		return prev
	}
	r.entries[styleID] = now
	return now
}

// LastUpdated returns the recorded refresh time for styleID.
func (r *Registry) LastUpdated(styleID string) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ts, ok := r.entries[styleID]
	return ts, ok
}

// Len returns the number of tracked items.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// MinInterval returns the configured staleness threshold.
func (r *Registry) MinInterval() time.Duration {
	return r.minInterval
}

// Flush writes the whole mapping to the backing store.
func (r *Registry) Flush(ctx context.Context) error {
	r.mu.RLock()
	snapshot := make(map[string]time.Time, len(r.entries))
	for id, ts := range r.entries {
		snapshot[id] = ts
	}
	r.mu.RUnlock()

	if err := r.store.SaveAll(ctx, snapshot); err != nil {
		return fmt.Errorf("flush registry: %w", err)
	}
	return nil
}
