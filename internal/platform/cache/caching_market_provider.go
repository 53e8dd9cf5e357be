// Package cache provides the in-process analysis result cache and a Redis cache for provider series.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_insight/internal/feature/analysis/domain/entity"
	"stock_insight/internal/feature/analysis/usecase"
	"stock_insight/internal/platform/metrics"
)

// CachingMarketProvider decorates a MarketDataProvider with Redis caching of raw series.
// It implements the decorator pattern, so the analysis usecase is unaware of the cache.
type CachingMarketProvider struct {
	inner     usecase.MarketDataProvider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
	metrics   *metrics.Metrics
}

var _ usecase.MarketDataProvider = (*CachingMarketProvider)(nil)

// NewCachingMarketProvider decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "series".
func NewCachingMarketProvider(rdb *redis.Client, ttl time.Duration, inner usecase.MarketDataProvider, namespace string) *CachingMarketProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "series"
	}
	return &CachingMarketProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// SetMetrics enables hit/miss instrumentation.
func (c *CachingMarketProvider) SetMetrics(m *metrics.Metrics) { c.metrics = m }

// GetTimeSeries returns the cached records for the exact range, or fetches and stores them.
// Redis errors never fail the call; the provider is used instead.
func (c *CachingMarketProvider) GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.RawRecord, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetTimeSeries(ctx, symbol, start, end)
	}

	key := c.cacheKey(symbol, start, end)

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out []entity.RawRecord
		if err := json.Unmarshal(b, &out); err == nil {
			c.metrics.ObserveSeriesCache("hit")
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		c.metrics.ObserveSeriesCache("miss")
	case err != nil && err != redis.Nil:
		slog.Warn("series cache read failed", "key", key, "error", err)
		c.metrics.ObserveSeriesCache("error")
	default:
		c.metrics.ObserveSeriesCache("miss")
	}

	// 2) Fallback to provider
	out, err := c.inner.GetTimeSeries(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		ttl := SeriesTTL(end, c.now(), c.ttl)
		if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
			slog.Warn("series cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// InvalidateSymbol deletes every cached range of symbol.
func (c *CachingMarketProvider) InvalidateSymbol(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(symbol)+"*")
}

// cacheKey generates a cache key for a specific range.
func (c *CachingMarketProvider) cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		c.namespace,
		safe(symbol),
		start.Format(entity.DateLayout),
		end.Format(entity.DateLayout),
	)
}

// cacheKeyPrefix generates a prefix covering all ranges of a symbol.
func (c *CachingMarketProvider) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMarketProvider) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
