package tokenlist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is the cached catalogue record for one identifier.
type Entry struct {
	Symbol   string
	Decimals uint8
	LogoURI  string
}

// FetchFunc loads the full token catalogue keyed by identifier.
type FetchFunc func(ctx context.Context) (map[string]Entry, error)

// Cache is the single-slot, process-wide token catalogue cache. It refreshes
// lazily once the snapshot is older than the TTL; concurrent refreshes are
// allowed to race (idempotent overwrite, last writer wins). The clock is
// injected so staleness is testable.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	fetchedAt time.Time

	fetch  FetchFunc
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewCache creates an empty cache; the first GetOrRefresh populates it.
func NewCache(fetch FetchFunc, ttl time.Duration, now func() time.Time, logger *zap.Logger) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		fetch:  fetch,
		ttl:    ttl,
		now:    now,
		logger: logger.Named("TokenListCache"),
	}
}

// GetOrRefresh returns the cached catalogue, refreshing it first when absent
// or older than the TTL. A failed refresh falls back to the stale snapshot
// (possibly nil) rather than failing the caller.
func (c *Cache) GetOrRefresh(ctx context.Context) map[string]Entry {
	c.mu.RLock()
	entries, fetchedAt := c.entries, c.fetchedAt
	c.mu.RUnlock()

	if entries != nil && c.now().Sub(fetchedAt) < c.ttl {
		return entries
	}

	fresh, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("Token list refresh failed, serving stale snapshot",
			zap.Int("staleCount", len(entries)),
			zap.Error(err))
		return entries
	}

	c.mu.Lock()
	c.entries = fresh
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.logger.Info("Token list refreshed", zap.Int("count", len(fresh)))
	return fresh
}
