// Package entity defines the domain models for the analysis feature.
package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"stock_insight/internal/feature/analysis/domain"
)

// DateLayout is the ISO-8601 calendar date format used on the wire and in cache keys.
const DateLayout = "2006-01-02"

// symbolPattern accepts tickers such as "AAPL", "BRK.B", "BF-B" and "7203.T".
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]+([.\-][A-Z0-9]+)*$`)

const maxSymbolLen = 15

// NormalizeSymbol trims and uppercases raw and checks it against the ticker pattern.
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: symbol is empty", domain.ErrInvalidSymbol)
	}
	if len(s) > maxSymbolLen || !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSymbol, raw)
	}
	return s, nil
}

// DateRange is an inclusive span of calendar dates, normalized to UTC midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a validated range. today is the caller's current date; neither bound may pass it.
func NewDateRange(start, end, today time.Time) (DateRange, error) {
	r := DateRange{Start: truncateDay(start), End: truncateDay(end)}
	t := truncateDay(today)
	if r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("%w: start_date %s is after end_date %s",
			domain.ErrInvalidDateRange, r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	if r.End.After(t) {
		return DateRange{}, fmt.Errorf("%w: end_date %s is in the future",
			domain.ErrInvalidDateRange, r.End.Format(DateLayout))
	}
	return r, nil
}

// Contains reports whether the calendar date of t lies inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := truncateDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RawRecord is one untyped OHLCV row as delivered by the market data provider.
// Empty strings mean the provider omitted the field.
type RawRecord struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// PricePoint is one validated trading day.
type PricePoint struct {
	Date   time.Time // Trading day at UTC midnight
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is strictly ascending by Date with unique dates.
type Series []PricePoint

// Closes returns the closing prices in series order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// Last returns the most recent point. It must not be called on an empty series.
func (s Series) Last() PricePoint {
	return s[len(s)-1]
}

// History is a normalized series returned by the historical endpoint.
type History struct {
	Symbol string
	Range  DateRange
	Series Series
}
