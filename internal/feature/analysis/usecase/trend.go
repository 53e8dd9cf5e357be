package usecase

import "stock_insight/internal/feature/analysis/domain/entity"

// TrendConfig selects the averages and slope lookback used by ClassifyTrend.
type TrendConfig struct {
	ShortWindow   int // e.g. 20
	LongWindow    int // e.g. 50
	SlopeLookback int // k: periods between the two short-average values compared for slope
}

// DefaultTrendConfig returns the 20/50-day setup with a 5-period slope.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{ShortWindow: 20, LongWindow: 50, SlopeLookback: 5}
}

// ClassifyTrend labels the series Bullish, Bearish or Neutral.
//
// Bullish needs the last close strictly above both averages and a rising short average;
// Bearish needs it strictly below both and a falling short average. Any missing average,
// too short a short-average history, or a tie with an average yields Neutral.
func ClassifyTrend(set entity.IndicatorSet, lastClose float64, cfg TrendConfig) entity.Trend {
	short, ok := set.MovingAverages[cfg.ShortWindow]
	if !ok || len(short) == 0 {
		return entity.TrendNeutral
	}
	long, ok := set.LastMovingAverage(cfg.LongWindow)
	if !ok {
		return entity.TrendNeutral
	}

	k := cfg.SlopeLookback
	if k <= 0 {
		k = 1
	}
	if len(short) <= k {
		return entity.TrendNeutral
	}
	last := short[len(short)-1].Value
	slope := last - short[len(short)-1-k].Value

	switch {
	case lastClose > last && lastClose > long && slope > 0:
		return entity.TrendBullish
	case lastClose < last && lastClose < long && slope < 0:
		return entity.TrendBearish
	default:
		return entity.TrendNeutral
	}
}
