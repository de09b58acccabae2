package store

// cache.go is a time-boxed read cache in front of a TableStore. The UI
// re-renders several times per interaction and each render would otherwise
// hit the network; a few seconds of staleness is acceptable there. Any write
// through the cache, and any explicit refresh, invalidates immediately.

import (
	"context"
	"sync"
	"time"
)

// DefaultReadTTL matches the interactive-session cadence the cache exists
// for: long enough to absorb rapid re-renders, short enough that a manual
// sheet edit shows up without hunting for the refresh button.
const DefaultReadTTL = 15 * time.Second

type cacheEntry struct {
	header  []string
	rows    [][]string
	fetched time.Time
}

// ReadCache decorates a TableStore with per-table read caching.
type ReadCache struct {
	inner TableStore
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewReadCache wraps inner with a TTL read cache. A non-positive ttl uses
// DefaultReadTTL.
func NewReadCache(inner TableStore, ttl time.Duration) *ReadCache {
	if ttl <= 0 {
		ttl = DefaultReadTTL
	}
	return &ReadCache{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// GetRows serves from cache within the TTL, otherwise fetches and caches.
// Returned slices are copies; callers may mutate them freely.
func (c *ReadCache) GetRows(ctx context.Context, table string) ([]string, [][]string, error) {
	c.mu.Lock()
	entry, ok := c.entries[table]
	if ok && c.now().Sub(entry.fetched) < c.ttl {
		header, rows := copyRow(entry.header), copyRows(entry.rows)
		c.mu.Unlock()
		return header, rows, nil
	}
	c.mu.Unlock()

	header, rows, err := c.inner.GetRows(ctx, table)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	c.entries[table] = cacheEntry{
		header:  copyRow(header),
		rows:    copyRows(rows),
		fetched: c.now(),
	}
	c.mu.Unlock()

	return header, rows, nil
}

// ReplaceRows writes through and drops the cached entry for the table.
func (c *ReadCache) ReplaceRows(ctx context.Context, table string, header []string, rows [][]string) error {
	if err := c.inner.ReplaceRows(ctx, table, header, rows); err != nil {
		return err
	}
	c.Invalidate(table)
	return nil
}

// Invalidate drops the cached entry for one table.
func (c *ReadCache) Invalidate(table string) {
	c.mu.Lock()
	delete(c.entries, table)
	c.mu.Unlock()
}

// InvalidateAll drops every cached entry.
func (c *ReadCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
