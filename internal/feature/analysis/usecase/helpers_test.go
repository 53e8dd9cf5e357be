package usecase_test

import (
	"time"

	"stock_insight/internal/feature/analysis/domain/entity"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seriesOf はcloseの並びから1日刻みのSeriesを生成します。
func seriesOf(closes ...float64) entity.Series {
	s := make(entity.Series, len(closes))
	for i, c := range closes {
		s[i] = entity.PricePoint{
			Date:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return s
}

// linear はstartからstepずつ変化するn個のcloseを返します。
func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// dated は値の並びを日付付きの移動平均系列に変換します。
func dated(values ...float64) []entity.DatedValue {
	out := make([]entity.DatedValue, len(values))
	for i, v := range values {
		out[i] = entity.DatedValue{Date: day0.AddDate(0, 0, i), Value: v}
	}
	return out
}

func mustRange(start, end string) entity.DateRange {
	s, _ := time.Parse(entity.DateLayout, start)
	e, _ := time.Parse(entity.DateLayout, end)
	return entity.DateRange{Start: s, End: e}
}
