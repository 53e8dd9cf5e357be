package usecase

import (
	"fmt"
	"math"

	"stock_insight/internal/feature/analysis/domain"
	"stock_insight/internal/feature/analysis/domain/entity"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// ComputeIndicators derives moving averages, daily returns and volatility from s.
// A window the series cannot satisfy is reported in Unavailable; the rest is still computed.
func ComputeIndicators(s entity.Series, windows []int) entity.IndicatorSet {
	set := entity.IndicatorSet{
		MovingAverages: make(map[int][]entity.DatedValue, len(windows)),
		Unavailable:    make(map[int]error),
	}
	for _, w := range windows {
		ma, err := MovingAverage(s, w)
		if err != nil {
			set.Unavailable[w] = err
			continue
		}
		set.MovingAverages[w] = ma
	}

	set.Returns = DailyReturns(s)
	set.Volatility, set.VolatilityErr = Volatility(s)
	return set
}

// MovingAverage returns the simple mean of the trailing w closes for every index with w points available.
// The output has len(s)-w+1 points, each dated at the last day of its window.
func MovingAverage(s entity.Series, w int) ([]entity.DatedValue, error) {
	if w <= 0 {
		return nil, fmt.Errorf("moving average window must be positive, got %d", w)
	}
	if len(s) < w {
		return nil, fmt.Errorf("%w: %d-day moving average needs %d points, have %d",
			domain.ErrInsufficientData, w, w, len(s))
	}

	out := make([]entity.DatedValue, 0, len(s)-w+1)
	for i := w - 1; i < len(s); i++ {
		// summing each window from scratch keeps every value independent of float drift
		sum := 0.0
		for j := i - w + 1; j <= i; j++ {
			sum += s[j].Close
		}
		out = append(out, entity.DatedValue{Date: s[i].Date, Value: sum / float64(w)})
	}
	return out, nil
}

// DailyReturns returns (close[i]-close[i-1])/close[i-1] for i >= 1.
// A zero previous close yields a zero return rather than Inf.
func DailyReturns(s entity.Series) []float64 {
	if len(s) < 2 {
		return []float64{}
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (s[i].Close-prev)/prev)
	}
	return out
}

// Volatility is the sample standard deviation of daily returns times sqrt(252).
// It needs at least two points. With exactly two there is a single return and no observed dispersion, so it is 0.
func Volatility(s entity.Series) (float64, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: volatility needs 2 points, have %d", domain.ErrInsufficientData, len(s))
	}
	returns := DailyReturns(s)
	n := len(returns)
	if n < 2 {
		return 0, nil
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)

	ss := 0.0
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	return math.Sqrt(ss/float64(n-1)) * math.Sqrt(TradingDaysPerYear), nil
}
