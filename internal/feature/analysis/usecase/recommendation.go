package usecase

import (
	"fmt"

	"stock_insight/internal/feature/analysis/domain/entity"
)

// Thresholds split annualized volatility into buckets: Low below LowThreshold, High above HighThreshold.
type Thresholds struct {
	LowThreshold  float64 `yaml:"low_threshold"`
	HighThreshold float64 `yaml:"high_threshold"`
}

// DefaultThresholds are 20% and 40% annualized volatility.
func DefaultThresholds() Thresholds {
	return Thresholds{LowThreshold: 0.20, HighThreshold: 0.40}
}

// Bucket classifies v. Values equal to a threshold fall into Medium.
func (t Thresholds) Bucket(v float64) entity.VolatilityBucket {
	switch {
	case v < t.LowThreshold:
		return entity.VolatilityLow
	case v > t.HighThreshold:
		return entity.VolatilityHigh
	default:
		return entity.VolatilityMedium
	}
}

// recommendationTable is the (trend, bucket) lookup. Neutral maps to Hold for every bucket.
var recommendationTable = map[entity.Trend]map[entity.VolatilityBucket]entity.RecommendationLabel{
	entity.TrendBullish: {
		entity.VolatilityLow:    entity.LabelBuy,
		entity.VolatilityMedium: entity.LabelBuy,
		entity.VolatilityHigh:   entity.LabelWatch,
	},
	entity.TrendNeutral: {
		entity.VolatilityLow:    entity.LabelHold,
		entity.VolatilityMedium: entity.LabelHold,
		entity.VolatilityHigh:   entity.LabelHold,
	},
	entity.TrendBearish: {
		entity.VolatilityLow:    entity.LabelWatch,
		entity.VolatilityMedium: entity.LabelSell,
		entity.VolatilityHigh:   entity.LabelSell,
	},
}

// Recommend maps a trend and volatility to a label with rationale.
// When volatility is unavailable the Medium bucket is used.
func Recommend(trend entity.Trend, set entity.IndicatorSet, lastClose float64, tcfg TrendConfig, th Thresholds) entity.Recommendation {
	bucket := entity.VolatilityMedium
	if set.VolatilityErr == nil {
		bucket = th.Bucket(set.Volatility)
	}
	label, ok := recommendationTable[trend][bucket]
	if !ok {
		label = entity.LabelHold
	}
	return entity.Recommendation{
		Label:     label,
		Bucket:    bucket,
		Rationale: rationale(label, trend, bucket, set, lastClose, tcfg),
	}
}

func rationale(label entity.RecommendationLabel, trend entity.Trend, bucket entity.VolatilityBucket,
	set entity.IndicatorSet, lastClose float64, tcfg TrendConfig) string {
	vol := "unavailable"
	if set.VolatilityErr == nil {
		vol = fmt.Sprintf("%.1f%%", set.Volatility*100)
	}

	var position string
	short, okS := set.LastMovingAverage(tcfg.ShortWindow)
	long, okL := set.LastMovingAverage(tcfg.LongWindow)
	if okS && okL {
		position = fmt.Sprintf("last close %.2f vs %d-day MA %.2f and %d-day MA %.2f",
			lastClose, tcfg.ShortWindow, short, tcfg.LongWindow, long)
	} else {
		position = fmt.Sprintf("last close %.2f; not enough history for the %d/%d-day moving averages",
			lastClose, tcfg.ShortWindow, tcfg.LongWindow)
	}

	var advice string
	switch label {
	case entity.LabelBuy:
		advice = "uptrend with manageable volatility supports buying"
	case entity.LabelSell:
		advice = "downtrend without calm price action suggests reducing exposure"
	case entity.LabelWatch:
		if trend == entity.TrendBullish {
			advice = "uptrend but price swings are large; monitor before entering"
		} else {
			advice = "downtrend with low volatility; monitor for a reversal"
		}
	default:
		advice = "no clear direction; holding current position is suggested"
	}

	return fmt.Sprintf("%s trend, %s volatility (%s annualized); %s. %s: %s.",
		trend, bucket, vol, position, label, advice)
}
