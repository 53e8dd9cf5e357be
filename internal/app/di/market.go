// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"

	"stock_insight/internal/app/config"
	"stock_insight/internal/feature/analysis/usecase"
	"stock_insight/internal/platform/cache"
	"stock_insight/internal/platform/externalapi/twelvedata"
	infrahttp "stock_insight/internal/platform/http"
	"stock_insight/internal/platform/metrics"
	"stock_insight/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured TwelveDataMarket with HTTP client and rate limiter.
func NewMarket(cfg config.Config, m *metrics.Metrics) *twelvedata.TwelveDataMarket {
	httpClient := infrahttp.NewHTTPClient(cfg.TwelveData.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.Provider.RateLimit, cfg.Provider.RateInterval)
	return twelvedata.NewTwelveDataMarket(cfg.TwelveData, httpClient, limiter, m)
}

// NewSeriesProvider wraps market with the Redis series cache when Redis is available.
// The second return value is nil when no cache is in front of market.
func NewSeriesProvider(rdb *redis.Client, market usecase.MarketDataProvider, cfg config.Config, m *metrics.Metrics) (usecase.MarketDataProvider, *cache.CachingMarketProvider) {
	if rdb == nil {
		return market, nil
	}
	cp := cache.NewCachingMarketProvider(rdb, cfg.Cache.SeriesTTL, market, "series")
	cp.SetMetrics(m)
	return cp, cp
}
