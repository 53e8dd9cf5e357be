package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stock_insight/internal/feature/analysis/domain/entity"
	"stock_insight/internal/feature/analysis/usecase"
)

// TestClassifyTrend はトレンド判定の境界条件を検証します。
func TestClassifyTrend(t *testing.T) {
	t.Parallel()

	cfg := usecase.TrendConfig{ShortWindow: 20, LongWindow: 50, SlopeLookback: 2}
	rising := dated(100, 101, 102, 103)  // last 103, 2 back 101
	falling := dated(103, 102, 101, 100) // last 100, 2 back 102

	tests := []struct {
		name      string
		short     []entity.DatedValue
		long      []entity.DatedValue
		lastClose float64
		want      entity.Trend
	}{
		{name: "above both and rising", short: rising, long: dated(95), lastClose: 110, want: entity.TrendBullish},
		{name: "below both and falling", short: falling, long: dated(105), lastClose: 90, want: entity.TrendBearish},
		{name: "above both but falling", short: falling, long: dated(95), lastClose: 110, want: entity.TrendNeutral},
		{name: "below both but rising", short: rising, long: dated(105), lastClose: 90, want: entity.TrendNeutral},
		{name: "between averages", short: rising, long: dated(120), lastClose: 110, want: entity.TrendNeutral},
		{name: "tie with short average", short: rising, long: dated(95), lastClose: 103, want: entity.TrendNeutral},
		{name: "tie with long average", short: falling, long: dated(90), lastClose: 90, want: entity.TrendNeutral},
		{name: "flat slope", short: dated(100, 100, 100), long: dated(95), lastClose: 110, want: entity.TrendNeutral},
		{name: "short history not longer than lookback", short: dated(100, 105), long: dated(95), lastClose: 110, want: entity.TrendNeutral},
		{name: "long average missing", short: rising, long: nil, lastClose: 110, want: entity.TrendNeutral},
		{name: "short average missing", short: nil, long: dated(95), lastClose: 110, want: entity.TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set := entity.IndicatorSet{MovingAverages: map[int][]entity.DatedValue{}}
			if tt.short != nil {
				set.MovingAverages[20] = tt.short
			}
			if tt.long != nil {
				set.MovingAverages[50] = tt.long
			}
			assert.Equal(t, tt.want, usecase.ClassifyTrend(set, tt.lastClose, cfg))
		})
	}
}

// TestClassifyTrend_FromSeries は実際の系列から計算した指標でトレンドを判定します。
func TestClassifyTrend_FromSeries(t *testing.T) {
	t.Parallel()

	cfg := usecase.DefaultTrendConfig()
	windows := []int{cfg.ShortWindow, cfg.LongWindow}

	up := seriesOf(linear(80, 100, 1)...)
	set := usecase.ComputeIndicators(up, windows)
	assert.Equal(t, entity.TrendBullish, usecase.ClassifyTrend(set, up.Last().Close, cfg))

	down := seriesOf(linear(80, 200, -1)...)
	set = usecase.ComputeIndicators(down, windows)
	assert.Equal(t, entity.TrendBearish, usecase.ClassifyTrend(set, down.Last().Close, cfg))
}
