// Package usecase implements the analysis engine: series normalization, indicators,
// trend classification and recommendation, fronted by a result cache.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stock_insight/internal/feature/analysis/domain"
	"stock_insight/internal/feature/analysis/domain/entity"
)

// MarketDataProvider fetches raw daily OHLCV records for a symbol and inclusive date range.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketDataProvider interface {
	GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]entity.RawRecord, error)
}

// CompanyNamer resolves the display name of a listed company.
type CompanyNamer interface {
	CompanyName(ctx context.Context, symbol string) (string, error)
}

// ComputeFunc produces an analysis result on a cache miss.
type ComputeFunc func(ctx context.Context) (*entity.AnalysisResult, error)

// ResultCache memoizes analysis results per key with at most one concurrent computation per key.
type ResultCache interface {
	GetOrCompute(ctx context.Context, key entity.CacheKey, fn ComputeFunc) (*entity.AnalysisResult, error)
}

// Config holds the tunables of the analysis pipeline.
type Config struct {
	Windows         []int         // moving-average windows to compute
	Trend           TrendConfig   // short/long window and slope lookback
	Thresholds      Thresholds    // volatility bucket thresholds
	ProviderTimeout time.Duration // bound on a single provider call
	RetryTimeout    time.Duration // bound on the single retry after a timeout; 0 disables the retry
	DefaultLookback int           // days before end_date used when start_date is omitted
}

// DefaultConfig returns 20/50/200-day windows, 20/50 trend, 20%/40% thresholds, 10s timeout and a 3s retry.
func DefaultConfig() Config {
	return Config{
		Windows:         []int{20, 50, 200},
		Trend:           DefaultTrendConfig(),
		Thresholds:      DefaultThresholds(),
		ProviderTimeout: 10 * time.Second,
		RetryTimeout:    3 * time.Second,
		DefaultLookback: 365,
	}
}

// AnalysisUsecase runs the analysis pipeline behind the result cache.
type AnalysisUsecase struct {
	market MarketDataProvider
	namer  CompanyNamer
	cache  ResultCache
	cfg    Config
	now    func() time.Time
}

// Option customizes an AnalysisUsecase.
type Option func(*AnalysisUsecase)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(u *AnalysisUsecase) { u.now = now }
}

// WithCompanyNamer fills AnalysisResult.CompanyName on a best-effort basis.
func WithCompanyNamer(n CompanyNamer) Option {
	return func(u *AnalysisUsecase) { u.namer = n }
}

// NewAnalysisUsecase creates the usecase. cache may be nil, in which case every call recomputes.
func NewAnalysisUsecase(market MarketDataProvider, cache ResultCache, cfg Config, opts ...Option) *AnalysisUsecase {
	u := &AnalysisUsecase{market: market, cache: cache, cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Analyze validates the request and returns the (possibly cached) analysis.
// Empty startDate/endDate default to a one-year lookback ending today.
// Validation failures return before the cache or provider is touched.
func (u *AnalysisUsecase) Analyze(ctx context.Context, rawSymbol, startDate, endDate string) (*entity.AnalysisResult, error) {
	symbol, err := entity.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	rng, err := u.parseRange(startDate, endDate, true)
	if err != nil {
		return nil, err
	}

	compute := func(ctx context.Context) (*entity.AnalysisResult, error) {
		return u.run(ctx, symbol, rng)
	}
	if u.cache == nil {
		return compute(ctx)
	}
	return u.cache.GetOrCompute(ctx, entity.NewCacheKey(symbol, rng), compute)
}

// Historical returns the normalized series for symbol over the requested range. Both dates are required.
func (u *AnalysisUsecase) Historical(ctx context.Context, rawSymbol, startDate, endDate string) (*entity.History, error) {
	symbol, err := entity.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	rng, err := u.parseRange(startDate, endDate, false)
	if err != nil {
		return nil, err
	}
	records, err := u.fetch(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	series, err := NormalizeSeries(records, rng)
	if err != nil {
		return nil, err
	}
	return &entity.History{Symbol: symbol, Range: rng, Series: series}, nil
}

// Evaluate runs the pure part of the pipeline on an already normalized, non-empty series.
func (u *AnalysisUsecase) Evaluate(symbol string, rng entity.DateRange, series entity.Series) *entity.AnalysisResult {
	set := ComputeIndicators(series, u.cfg.Windows)
	lastClose := series.Last().Close
	trend := ClassifyTrend(set, lastClose, u.cfg.Trend)
	rec := Recommend(trend, set, lastClose, u.cfg.Trend, u.cfg.Thresholds)
	sum := Summarize(series)

	return &entity.AnalysisResult{
		Symbol:         symbol,
		Range:          rng,
		Indicators:     set,
		Trend:          trend,
		Recommendation: rec,
		Summary:        sum,
		Insights:       Insights(sum, set, rec.Bucket),
		GeneratedAt:    u.now().UTC(),
	}
}

func (u *AnalysisUsecase) run(ctx context.Context, symbol string, rng entity.DateRange) (*entity.AnalysisResult, error) {
	records, err := u.fetch(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	series, err := NormalizeSeries(records, rng)
	if err != nil {
		return nil, err
	}
	res := u.Evaluate(symbol, rng, series)
	res.CompanyName = u.companyName(ctx, symbol)
	slog.Info("analysis computed",
		"symbol", symbol,
		"range", rng.String(),
		"points", len(series),
		"trend", res.Trend,
		"recommendation", res.Recommendation.Label,
	)
	return res, nil
}

// companyName never fails the analysis: a lookup error leaves the name empty.
func (u *AnalysisUsecase) companyName(ctx context.Context, symbol string) string {
	if u.namer == nil {
		return ""
	}
	timeout := u.cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ProviderTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name, err := u.namer.CompanyName(cctx, symbol)
	if err != nil {
		slog.Warn("company name lookup failed", "symbol", symbol, "error", err)
		return ""
	}
	return name
}

// fetch calls the provider once and, on timeout only, retries one more time with the shorter retry timeout.
// Rate limiting is never retried here.
func (u *AnalysisUsecase) fetch(ctx context.Context, symbol string, rng entity.DateRange) ([]entity.RawRecord, error) {
	records, err := u.fetchOnce(ctx, symbol, rng, u.cfg.ProviderTimeout)
	if err == nil || !errors.Is(err, domain.ErrProviderTimeout) || ctx.Err() != nil || u.cfg.RetryTimeout <= 0 {
		return records, err
	}
	slog.Warn("provider timed out, retrying once", "symbol", symbol, "range", rng.String(), "timeout", u.cfg.RetryTimeout)
	return u.fetchOnce(ctx, symbol, rng, u.cfg.RetryTimeout)
}

func (u *AnalysisUsecase) fetchOnce(ctx context.Context, symbol string, rng entity.DateRange, timeout time.Duration) ([]entity.RawRecord, error) {
	if timeout <= 0 {
		timeout = DefaultConfig().ProviderTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	records, err := u.market.GetTimeSeries(cctx, symbol, rng.Start, rng.End)
	if err != nil {
		if !errors.Is(err, domain.ErrProviderTimeout) && ctx.Err() == nil &&
			(errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded)) {
			return nil, fmt.Errorf("%w: %s %s after %s", domain.ErrProviderTimeout, symbol, rng, timeout)
		}
		return nil, err
	}
	return records, nil
}

func (u *AnalysisUsecase) parseRange(startDate, endDate string, withDefaults bool) (entity.DateRange, error) {
	today := u.now().UTC()

	var end time.Time
	if endDate == "" {
		if !withDefaults {
			return entity.DateRange{}, fmt.Errorf("%w: end_date is required", domain.ErrInvalidDateRange)
		}
		end = today
	} else {
		t, err := time.Parse(entity.DateLayout, endDate)
		if err != nil {
			return entity.DateRange{}, fmt.Errorf("%w: end_date must be YYYY-MM-DD, got %q", domain.ErrInvalidDateRange, endDate)
		}
		end = t
	}

	var start time.Time
	if startDate == "" {
		if !withDefaults {
			return entity.DateRange{}, fmt.Errorf("%w: start_date is required", domain.ErrInvalidDateRange)
		}
		lookback := u.cfg.DefaultLookback
		if lookback <= 0 {
			lookback = DefaultConfig().DefaultLookback
		}
		start = end.AddDate(0, 0, -lookback)
	} else {
		t, err := time.Parse(entity.DateLayout, startDate)
		if err != nil {
			return entity.DateRange{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD, got %q", domain.ErrInvalidDateRange, startDate)
		}
		start = t
	}

	return entity.NewDateRange(start, end, today)
}
