// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

import "encoding/json"

// Envelope carries the fields Twelve Data sets on every error response.
type Envelope struct {
	Status  string      `json:"status"`
	Code    json.Number `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// TimeSeriesValue is one row of the time_series endpoint. All numbers arrive as strings.
type TimeSeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// TimeSeriesResponse represents the JSON response from the Twelve Data time_series endpoint.
type TimeSeriesResponse struct {
	Envelope
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Values []TimeSeriesValue `json:"values"`
}

// ProfileResponse represents the JSON response from the profile endpoint.
type ProfileResponse struct {
	Envelope
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Exchange    string `json:"exchange"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Employees   int64  `json:"employees"`
	Website     string `json:"website"`
	Description string `json:"description"`
	CEO         string `json:"CEO"`
	Country     string `json:"country"`
}

// QuoteResponse represents the JSON response from the quote endpoint.
type QuoteResponse struct {
	Envelope
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Currency      string `json:"currency"`
	Datetime      string `json:"datetime"`
	Open          string `json:"open"`
	High          string `json:"high"`
	Low           string `json:"low"`
	Close         string `json:"close"`
	Volume        string `json:"volume"`
	PreviousClose string `json:"previous_close"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
	AverageVolume string `json:"average_volume"`
	IsMarketOpen  bool   `json:"is_market_open"`
	FiftyTwoWeek  struct {
		Low  string `json:"low"`
		High string `json:"high"`
	} `json:"fifty_two_week"`
}
