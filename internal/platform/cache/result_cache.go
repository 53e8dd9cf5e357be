package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stock_insight/internal/feature/analysis/domain/entity"
	"stock_insight/internal/feature/analysis/usecase"
	"stock_insight/internal/platform/metrics"
)

// DefaultResultTTL is used when NewResultCache receives a non-positive ttl.
const DefaultResultTTL = 15 * time.Minute

// resultEntry is a completed computation. An entry is Fresh while now-createdAt < ttl, Stale afterwards.
// Pending computations live in the singleflight group, not in the map.
type resultEntry struct {
	value     *entity.AnalysisResult
	createdAt time.Time
}

// ResultCache is an in-process memo of analysis results keyed by (symbol, range).
// Concurrent requests for the same key share one computation; different keys never wait on each other.
type ResultCache struct {
	ttl        time.Duration
	serveStale bool
	now        func() time.Time
	metrics    *metrics.Metrics

	mu      sync.Mutex
	entries map[entity.CacheKey]resultEntry
	gens    map[string]uint64 // per-symbol invalidation generation
	group   singleflight.Group
}

// ResultCacheがResultCacheインターフェースを実装していることをコンパイル時に検証します。
var _ usecase.ResultCache = (*ResultCache)(nil)

// ResultCacheOption customizes a ResultCache.
type ResultCacheOption func(*ResultCache)

// WithServeStale makes a lookup that finds a stale entry return it immediately
// while the refresh runs in the background.
func WithServeStale(enabled bool) ResultCacheOption {
	return func(c *ResultCache) { c.serveStale = enabled }
}

// WithClock replaces time.Now for freshness checks.
func WithClock(now func() time.Time) ResultCacheOption {
	return func(c *ResultCache) { c.now = now }
}

// WithMetrics enables hit/miss and compute duration instrumentation.
func WithMetrics(m *metrics.Metrics) ResultCacheOption {
	return func(c *ResultCache) { c.metrics = m }
}

// NewResultCache creates an empty cache. A non-positive ttl falls back to DefaultResultTTL.
func NewResultCache(ttl time.Duration, opts ...ResultCacheOption) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	c := &ResultCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[entity.CacheKey]resultEntry),
		gens:    make(map[string]uint64),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetOrCompute returns the fresh result for key, joins an in-flight computation for it,
// or runs fn. fn runs detached from ctx: cancelling one caller only stops delivery to that caller,
// other waiters still receive the result. A failed computation stores nothing.
func (c *ResultCache) GetOrCompute(ctx context.Context, key entity.CacheKey, fn usecase.ComputeFunc) (*entity.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if ok && c.fresh(e) {
		c.metrics.ObserveResultCache("hit")
		return e.value, nil
	}

	detached := context.WithoutCancel(ctx)
	// Only the caller that leads the flight runs this closure; everyone else joined it.
	outcome := "shared"
	ch := c.group.DoChan(key.String(), func() (any, error) {
		v, computed, err := c.compute(detached, key, fn)
		if computed {
			outcome = "miss"
		} else {
			outcome = "hit"
		}
		return v, err
	})

	if ok && c.serveStale {
		c.metrics.ObserveResultCache("stale")
		return e.value, nil
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		c.metrics.ObserveResultCache(outcome)
		return res.Val.(*entity.AnalysisResult), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// compute runs inside the singleflight group, so at most one call per key is active.
// computed reports whether fn ran.
func (c *ResultCache) compute(ctx context.Context, key entity.CacheKey, fn usecase.ComputeFunc) (v *entity.AnalysisResult, computed bool, err error) {
	// A caller that missed just before the previous flight stored its value would otherwise recompute.
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.fresh(e) {
		c.mu.Unlock()
		return e.value, false, nil
	}
	gen := c.gens[key.Symbol]
	c.mu.Unlock()

	start := time.Now()
	v, err = fn(ctx)
	c.metrics.ObserveCompute(time.Since(start))
	if err != nil {
		return nil, true, err
	}

	c.mu.Lock()
	// An InvalidateSymbol during fn wins: the result is delivered but not stored.
	if c.gens[key.Symbol] == gen {
		c.entries[key] = resultEntry{value: v, createdAt: c.now()}
	}
	c.mu.Unlock()
	return v, true, nil
}

// fresh must be called with a copied entry; it reads only the clock.
func (c *ResultCache) fresh(e resultEntry) bool {
	return c.now().Sub(e.createdAt) < c.ttl
}

// Sweep evicts stale entries and returns how many were removed.
// A computation in flight for an evicted key still stores its result when it finishes.
func (c *ResultCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if !c.fresh(e) {
			delete(c.entries, k)
			n++
		}
	}
	c.metrics.AddEvictions(n)
	return n
}

// InvalidateSymbol drops every cached range of symbol and returns how many were removed.
// Computations for symbol already in flight deliver their result to waiters but do not store it.
func (c *ResultCache) InvalidateSymbol(symbol string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[symbol]++
	n := 0
	for k := range c.entries {
		if k.Symbol == symbol {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, fresh or stale.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops all entries. It is the teardown counterpart of NewResultCache.
func (c *ResultCache) Close() {
	c.mu.Lock()
	c.entries = make(map[entity.CacheKey]resultEntry)
	c.mu.Unlock()
}
