// Package entity defines the domain models for the company feature.
package entity

// Officer is a named key person of a company.
type Officer struct {
	Name  string
	Title string
}

// Profile is the descriptive company record copied from the provider.
type Profile struct {
	Symbol    string
	Name      string
	Summary   string
	Industry  string
	Sector    string
	Country   string
	Website   string
	Employees int64
	Officers  []Officer
}

// Quote is the current market snapshot of a symbol.
type Quote struct {
	Symbol           string
	Name             string
	Exchange         string
	Currency         string
	MarketOpen       bool
	Price            float64
	PreviousClose    float64
	Change           float64
	PercentChange    float64
	DayHigh          float64
	DayLow           float64
	Volume           int64
	AverageVolume    int64
	FiftyTwoWeekHigh float64
	FiftyTwoWeekLow  float64
}
