package usecase

import (
	"fmt"
	"math"

	"stock_insight/internal/feature/analysis/domain/entity"
)

// Summarize computes period statistics for a non-empty series.
func Summarize(s entity.Series) entity.Summary {
	first, last := s[0], s.Last()
	sum := entity.Summary{
		DaysAnalyzed: len(s),
		StartPrice:   first.Close,
		CurrentPrice: last.Close,
		PriceChange:  last.Close - first.Close,
		PeriodHigh:   math.Inf(-1),
		PeriodLow:    math.Inf(1),
		LatestVolume: last.Volume,
	}
	if first.Close != 0 {
		sum.PercentageChange = sum.PriceChange / first.Close * 100
	}

	var vol int64
	for _, p := range s {
		sum.PeriodHigh = math.Max(sum.PeriodHigh, p.High)
		sum.PeriodLow = math.Min(sum.PeriodLow, p.Low)
		vol += p.Volume
	}
	sum.AverageVolume = vol / int64(len(s))
	return sum
}

const (
	crossFast = 50
	crossSlow = 200
)

// Insights produces short human-readable observations for the dashboard.
func Insights(sum entity.Summary, set entity.IndicatorSet, bucket entity.VolatilityBucket) []string {
	out := make([]string, 0, 4)

	if sum.PercentageChange > 0 {
		out = append(out, fmt.Sprintf("Stock has gained %.2f%% over the analyzed period", sum.PercentageChange))
	} else {
		out = append(out, fmt.Sprintf("Stock has declined %.2f%% over the analyzed period", math.Abs(sum.PercentageChange)))
	}

	if set.VolatilityErr == nil {
		switch bucket {
		case entity.VolatilityLow:
			out = append(out, fmt.Sprintf("Low volatility (%.1f%% annualized) - relatively stable stock", set.Volatility*100))
		case entity.VolatilityMedium:
			out = append(out, fmt.Sprintf("Moderate volatility (%.1f%% annualized) - normal price fluctuations", set.Volatility*100))
		case entity.VolatilityHigh:
			out = append(out, fmt.Sprintf("High volatility (%.1f%% annualized) - significant price swings", set.Volatility*100))
		}
	}

	fast, okF := set.LastMovingAverage(crossFast)
	slow, okS := set.LastMovingAverage(crossSlow)
	if okF && okS {
		if fast > slow {
			out = append(out, "Golden Cross: 50-day MA above 200-day MA (bullish signal)")
		} else {
			out = append(out, "Death Cross: 50-day MA below 200-day MA (bearish signal)")
		}
	}

	if sum.PeriodHigh > 0 {
		fromHigh := (sum.PeriodHigh - sum.CurrentPrice) / sum.PeriodHigh * 100
		switch {
		case fromHigh < 5:
			out = append(out, fmt.Sprintf("Trading near period high (within %.1f%%)", fromHigh))
		case fromHigh > 20:
			out = append(out, fmt.Sprintf("Trading %.1f%% below period high - potential opportunity", fromHigh))
		}
	}
	return out
}
