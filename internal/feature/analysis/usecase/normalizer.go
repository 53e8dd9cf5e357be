package usecase

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock_insight/internal/feature/analysis/domain"
	"stock_insight/internal/feature/analysis/domain/entity"
)

// NormalizeSeries converts raw provider records into a validated, ascending series.
// Records dated outside r are dropped; a later record for the same date replaces an earlier one.
func NormalizeSeries(records []entity.RawRecord, r entity.DateRange) (entity.Series, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: provider returned no records for %s", domain.ErrDataUnavailable, r)
	}

	byDate := make(map[time.Time]entity.PricePoint, len(records))
	for i, rec := range records {
		p, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", domain.ErrMalformedRecord, i, err)
		}
		if !r.Contains(p.Date) {
			continue
		}
		byDate[p.Date] = p
	}
	if len(byDate) == 0 {
		return nil, fmt.Errorf("%w: no records inside %s", domain.ErrDataUnavailable, r)
	}

	out := make(entity.Series, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func parseRecord(rec entity.RawRecord) (entity.PricePoint, error) {
	date, err := parseDate(rec.Datetime)
	if err != nil {
		return entity.PricePoint{}, err
	}
	o, err := parsePrice("open", rec.Open)
	if err != nil {
		return entity.PricePoint{}, err
	}
	h, err := parsePrice("high", rec.High)
	if err != nil {
		return entity.PricePoint{}, err
	}
	l, err := parsePrice("low", rec.Low)
	if err != nil {
		return entity.PricePoint{}, err
	}
	c, err := parsePrice("close", rec.Close)
	if err != nil {
		return entity.PricePoint{}, err
	}
	v, err := parseVolume(rec.Volume)
	if err != nil {
		return entity.PricePoint{}, err
	}
	return entity.PricePoint{Date: date, Open: o, High: h, Low: l, Close: c, Volume: v}, nil
}

// parseDate accepts both daily ("2006-01-02") and intraday ("2006-01-02 15:04:05") stamps.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing datetime")
	}
	tm, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		tm, err = time.Parse(entity.DateLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse datetime %q: %w", s, err)
		}
	}
	return time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parsePrice(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing %s", field)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return f, nil
}

func parseVolume(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing volume")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// some feeds send volumes as "1234.0"
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, fmt.Errorf("parse volume %q: %w", s, err)
		}
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 {
			return 0, fmt.Errorf("invalid volume %q", s)
		}
		v = int64(f)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative volume %q", s)
	}
	return v, nil
}
