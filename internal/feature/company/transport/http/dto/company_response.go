// Package dto defines data transfer objects for the company HTTP API.
package dto

// OfficerItem is one key officer in the profile response.
type OfficerItem struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// CompanyResponse is the body of GET /api/company/:symbol.
type CompanyResponse struct {
	Symbol          string        `json:"symbol"`
	CompanyName     string        `json:"company_name"`
	BusinessSummary string        `json:"business_summary"`
	Industry        string        `json:"industry"`
	Sector          string        `json:"sector"`
	Country         string        `json:"country"`
	Website         string        `json:"website"`
	Employees       int64         `json:"employees"`
	KeyOfficers     []OfficerItem `json:"key_officers"`
}

// MarketResponse is the body of GET /api/market/:symbol.
type MarketResponse struct {
	Symbol           string  `json:"symbol"`
	CompanyName      string  `json:"company_name"`
	Exchange         string  `json:"exchange"`
	MarketOpen       bool    `json:"market_open"`
	CurrentPrice     float64 `json:"current_price"`
	PreviousClose    float64 `json:"previous_close"`
	PriceChange      float64 `json:"price_change"`
	PercentageChange float64 `json:"percentage_change"`
	DayHigh          float64 `json:"day_high"`
	DayLow           float64 `json:"day_low"`
	Volume           int64   `json:"volume"`
	AverageVolume    int64   `json:"average_volume"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	Currency         string  `json:"currency"`
}
