// Package dto defines data transfer objects for the analysis HTTP API.
package dto

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"stock_insight/internal/feature/analysis/domain"
	"stock_insight/internal/feature/analysis/domain/entity"
)

// RangeRequest is the body of the historical and analysis endpoints.
// The historical endpoint requires both dates; the analysis endpoint defaults missing ones.
type RangeRequest struct {
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// CandleResponse はロウソク足データのレスポンスDTOです。
type CandleResponse struct {
	Date   string  `json:"date"`   // 日付
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume int64   `json:"volume"` // 出来高
}

// HistoricalResponse is the body of POST /api/historical/:symbol.
type HistoricalResponse struct {
	Symbol         string           `json:"symbol"`
	StartDate      string           `json:"start_date"`
	EndDate        string           `json:"end_date"`
	RecordsCount   int              `json:"records_count"`
	HistoricalData []CandleResponse `json:"historical_data"`
}

// PointResponse is one moving-average value.
type PointResponse struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// GapResponse explains why an indicator is missing.
type GapResponse struct {
	Kind  domain.ErrorKind `json:"kind"`
	Error string           `json:"error"`
}

// IndicatorsResponse holds the computed indicators. Keys of the maps are window sizes.
type IndicatorsResponse struct {
	MovingAverages map[string][]PointResponse `json:"moving_averages"`
	Unavailable    map[string]GapResponse     `json:"unavailable"`
	Volatility     *float64                   `json:"volatility"`
	VolatilityGap  *GapResponse               `json:"volatility_unavailable,omitempty"`
	Returns        []float64                  `json:"returns"`
}

// RecommendationResponse is the label, bucket and rationale.
type RecommendationResponse struct {
	Label            string `json:"label"`
	VolatilityBucket string `json:"volatility_bucket"`
	Rationale        string `json:"rationale"`
}

// SummaryResponse carries the period statistics, rounded for display.
type SummaryResponse struct {
	DaysAnalyzed     int     `json:"days_analyzed"`
	StartPrice       float64 `json:"start_price"`
	CurrentPrice     float64 `json:"current_price"`
	PriceChange      float64 `json:"price_change"`
	PercentageChange float64 `json:"percentage_change"`
	PeriodHigh       float64 `json:"period_high"`
	PeriodLow        float64 `json:"period_low"`
	AverageVolume    int64   `json:"average_volume"`
	LatestVolume     int64   `json:"latest_volume"`
}

// AnalysisResponse is the body of POST /api/analysis/:symbol.
type AnalysisResponse struct {
	Symbol         string                 `json:"symbol"`
	CompanyName    string                 `json:"company_name"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	Indicators     IndicatorsResponse     `json:"indicators"`
	Trend          string                 `json:"trend"`
	Recommendation RecommendationResponse `json:"recommendation"`
	Summary        SummaryResponse        `json:"summary"`
	Insights       []string               `json:"insights"`
	GeneratedAt    string                 `json:"generated_at"`
}

// UnknownCompanyName is reported when the company name could not be resolved.
const UnknownCompanyName = "N/A"

// Round2 rounds a price to cents for display.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// NewHistoricalResponse formats a normalized series.
func NewHistoricalResponse(h *entity.History) HistoricalResponse {
	out := make([]CandleResponse, 0, len(h.Series))
	for _, p := range h.Series {
		out = append(out, CandleResponse{
			Date:   p.Date.Format(entity.DateLayout),
			Open:   Round2(p.Open),
			High:   Round2(p.High),
			Low:    Round2(p.Low),
			Close:  Round2(p.Close),
			Volume: p.Volume,
		})
	}
	return HistoricalResponse{
		Symbol:         h.Symbol,
		StartDate:      h.Range.Start.Format(entity.DateLayout),
		EndDate:        h.Range.End.Format(entity.DateLayout),
		RecordsCount:   len(out),
		HistoricalData: out,
	}
}

// NewAnalysisResponse formats a cached analysis result without modifying it.
func NewAnalysisResponse(r *entity.AnalysisResult) AnalysisResponse {
	ind := IndicatorsResponse{
		MovingAverages: make(map[string][]PointResponse, len(r.Indicators.MovingAverages)),
		Unavailable:    make(map[string]GapResponse, len(r.Indicators.Unavailable)),
		Returns:        r.Indicators.Returns,
	}
	if ind.Returns == nil {
		ind.Returns = []float64{}
	}
	for w, ma := range r.Indicators.MovingAverages {
		pts := make([]PointResponse, 0, len(ma))
		for _, v := range ma {
			pts = append(pts, PointResponse{Date: v.Date.Format(entity.DateLayout), Value: v.Value})
		}
		ind.MovingAverages[strconv.Itoa(w)] = pts
	}
	for w, err := range r.Indicators.Unavailable {
		ind.Unavailable[strconv.Itoa(w)] = GapResponse{Kind: domain.KindOf(err), Error: err.Error()}
	}
	if r.Indicators.VolatilityErr == nil {
		v := r.Indicators.Volatility
		ind.Volatility = &v
	} else {
		ind.VolatilityGap = &GapResponse{Kind: domain.KindOf(r.Indicators.VolatilityErr), Error: r.Indicators.VolatilityErr.Error()}
	}

	name := r.CompanyName
	if name == "" {
		name = UnknownCompanyName
	}

	s := r.Summary
	return AnalysisResponse{
		Symbol:      r.Symbol,
		CompanyName: name,
		StartDate:   r.Range.Start.Format(entity.DateLayout),
		EndDate:     r.Range.End.Format(entity.DateLayout),
		Indicators:  ind,
		Trend:       string(r.Trend),
		Recommendation: RecommendationResponse{
			Label:            string(r.Recommendation.Label),
			VolatilityBucket: string(r.Recommendation.Bucket),
			Rationale:        r.Recommendation.Rationale,
		},
		Summary: SummaryResponse{
			DaysAnalyzed:     s.DaysAnalyzed,
			StartPrice:       Round2(s.StartPrice),
			CurrentPrice:     Round2(s.CurrentPrice),
			PriceChange:      Round2(s.PriceChange),
			PercentageChange: Round2(s.PercentageChange),
			PeriodHigh:       Round2(s.PeriodHigh),
			PeriodLow:        Round2(s.PeriodLow),
			AverageVolume:    s.AverageVolume,
			LatestVolume:     s.LatestVolume,
		},
		Insights:    r.Insights,
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
	}
}
