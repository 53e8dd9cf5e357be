// Package domain defines domain-level errors for the analysis feature.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors for the analysis pipeline.
// Upper layers match them with errors.Is and translate them through KindOf.
var (
	// ErrInvalidSymbol indicates that the ticker symbol is empty or does not match the accepted pattern.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInvalidDateRange indicates a malformed date, start after end, or a date in the future.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrDataUnavailable indicates that the provider has no records for the symbol and range.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrMalformedRecord indicates that a provider record violates the price record schema.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInsufficientData indicates that an indicator needs more points than the series holds.
	// It is scoped to a single indicator and never aborts a whole analysis.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrProviderRateLimited indicates that the provider throttled the request.
	ErrProviderRateLimited = errors.New("provider rate limited")

	// ErrProviderTimeout indicates that the provider did not answer within the configured timeout.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrInvalidRequest indicates a request body that could not be decoded.
	ErrInvalidRequest = errors.New("invalid request")
)

// RateLimitError carries the delay the provider asked callers to wait before retrying.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: retry after %s", ErrProviderRateLimited, e.RetryAfter)
	}
	return fmt.Sprintf("%s: %s (retry after %s)", ErrProviderRateLimited, e.Message, e.RetryAfter)
}

// Unwrap lets errors.Is(err, ErrProviderRateLimited) match.
func (e *RateLimitError) Unwrap() error { return ErrProviderRateLimited }

// ErrorKind is the machine-readable error category exposed at the API boundary.
type ErrorKind string

const (
	KindInvalidSymbol       ErrorKind = "InvalidSymbol"
	KindInvalidDateRange    ErrorKind = "InvalidDateRange"
	KindInvalidRequest      ErrorKind = "InvalidRequest"
	KindDataUnavailable     ErrorKind = "DataUnavailable"
	KindMalformedRecord     ErrorKind = "MalformedRecord"
	KindInsufficientData    ErrorKind = "InsufficientData"
	KindProviderRateLimited ErrorKind = "ProviderRateLimited"
	KindProviderTimeout     ErrorKind = "ProviderTimeout"
	KindInternal            ErrorKind = "Internal"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidSymbol, KindInvalidSymbol},
	{ErrInvalidDateRange, KindInvalidDateRange},
	{ErrInvalidRequest, KindInvalidRequest},
	{ErrDataUnavailable, KindDataUnavailable},
	{ErrMalformedRecord, KindMalformedRecord},
	{ErrInsufficientData, KindInsufficientData},
	{ErrProviderRateLimited, KindProviderRateLimited},
	{ErrProviderTimeout, KindProviderTimeout},
}

// KindOf returns the ErrorKind of err, or KindInternal when err wraps no domain error.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// RetryAfter extracts the provider-supplied delay from a rate limit error.
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}
