package cache

import (
	"time"
)

// ClosedRangeTTL is how long a series that ended before today stays cached; such history no longer changes.
const ClosedRangeTTL = 24 * time.Hour

// SeriesTTL returns the Redis TTL for a series ending on end.
// Ranges that include today still receive new bars, so they use the shorter base TTL.
func SeriesTTL(end, now time.Time, base time.Duration) time.Duration {
	n := now.UTC()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(today) {
		return ClosedRangeTTL
	}
	return base
}
