// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"time"
)

// DefaultBaseURL is the public Twelve Data REST endpoint.
const DefaultBaseURL = "https://api.twelvedata.com"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey  string        `yaml:"api_key"`  // API key for authentication
	BaseURL           string        `yaml:"base_url"` // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout           time.Duration `yaml:"timeout"`  // Transport-level ceiling; per-call deadlines come from the caller's context
	DefaultRetryAfter time.Duration `yaml:"default_retry_after"`
}

// DefaultConfig returns the public endpoint with a 30s transport ceiling and a 60s retry hint.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           30 * time.Second,
		DefaultRetryAfter: time.Minute,
	}
}
