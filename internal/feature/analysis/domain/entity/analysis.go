package entity

import "time"

// DatedValue is one point of a derived time series.
type DatedValue struct {
	Date  time.Time
	Value float64
}

// IndicatorSet holds everything the calculator derives from a series.
// Windows the series cannot satisfy are listed in Unavailable instead of MovingAverages.
type IndicatorSet struct {
	MovingAverages map[int][]DatedValue
	Unavailable    map[int]error
	Returns        []float64
	Volatility     float64
	VolatilityErr  error // non-nil when Volatility could not be computed
}

// LastMovingAverage returns the latest value of the window-w average, if it was computed.
func (s IndicatorSet) LastMovingAverage(w int) (float64, bool) {
	ma, ok := s.MovingAverages[w]
	if !ok || len(ma) == 0 {
		return 0, false
	}
	return ma[len(ma)-1].Value, true
}

// Trend is the directional classification of a series.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendNeutral Trend = "Neutral"
)

// VolatilityBucket groups annualized volatility against the configured thresholds.
type VolatilityBucket string

const (
	VolatilityLow    VolatilityBucket = "Low"
	VolatilityMedium VolatilityBucket = "Medium"
	VolatilityHigh   VolatilityBucket = "High"
)

// RecommendationLabel is the action suggested to the user.
type RecommendationLabel string

const (
	LabelBuy   RecommendationLabel = "Buy"
	LabelHold  RecommendationLabel = "Hold"
	LabelSell  RecommendationLabel = "Sell"
	LabelWatch RecommendationLabel = "Watch"
)

// Recommendation is a label plus a human-readable rationale.
type Recommendation struct {
	Label     RecommendationLabel
	Bucket    VolatilityBucket
	Rationale string
}

// Summary captures period-level price and volume statistics.
type Summary struct {
	DaysAnalyzed     int
	StartPrice       float64
	CurrentPrice     float64
	PriceChange      float64
	PercentageChange float64
	PeriodHigh       float64
	PeriodLow        float64
	AverageVolume    int64
	LatestVolume     int64
}

// AnalysisResult is the immutable output of one pipeline run.
// Cached instances are shared between callers and must not be modified.
type AnalysisResult struct {
	Symbol         string
	CompanyName    string // empty when the profile lookup failed or is not configured
	Range          DateRange
	Indicators     IndicatorSet
	Trend          Trend
	Recommendation Recommendation
	Summary        Summary
	Insights       []string
	GeneratedAt    time.Time
}

// CacheKey identifies one analysis: exact symbol and normalized range, no overlap merging.
type CacheKey struct {
	Symbol string
	Start  string
	End    string
}

// NewCacheKey builds the key for symbol over r.
func NewCacheKey(symbol string, r DateRange) CacheKey {
	return CacheKey{Symbol: symbol, Start: r.Start.Format(DateLayout), End: r.End.Format(DateLayout)}
}

func (k CacheKey) String() string {
	return k.Symbol + ":" + k.Start + ":" + k.End
}
