// Package dto defines data transfer objects for the watchlist HTTP API.
package dto

// SymbolItem represents a watchlist symbol in the API response.
type SymbolItem struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}
