// Package handler はcompanyフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insight/internal/feature/company/domain/entity"
	"stock_insight/internal/feature/company/transport/http/dto"
	"stock_insight/internal/platform/http/apierror"
)

// CompanyUsecase は企業情報と相場スナップショットのユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CompanyUsecase interface {
	Profile(ctx context.Context, symbol string) (*entity.Profile, error)
	Quote(ctx context.Context, symbol string) (*entity.Quote, error)
}

// CompanyHandler は企業情報に関するHTTPリクエストを処理します。
type CompanyHandler struct {
	uc CompanyUsecase
}

// NewCompanyHandler は新しい CompanyHandler を作成します。
func NewCompanyHandler(uc CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// GetCompany は企業プロフィールを返します。
//
// エンドポイント例:
// GET /api/company/AAPL
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	p, err := h.uc.Profile(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		apierror.Write(c, err)
		return
	}
	officers := make([]dto.OfficerItem, 0, len(p.Officers))
	for _, o := range p.Officers {
		officers = append(officers, dto.OfficerItem{Name: o.Name, Title: o.Title})
	}
	c.JSON(http.StatusOK, dto.CompanyResponse{
		Symbol:          p.Symbol,
		CompanyName:     p.Name,
		BusinessSummary: p.Summary,
		Industry:        p.Industry,
		Sector:          p.Sector,
		Country:         p.Country,
		Website:         p.Website,
		Employees:       p.Employees,
		KeyOfficers:     officers,
	})
}

// GetMarket は現在の相場スナップショットを返します。
//
// エンドポイント例:
// GET /api/market/AAPL
func (h *CompanyHandler) GetMarket(c *gin.Context) {
	q, err := h.uc.Quote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarketResponse{
		Symbol:           q.Symbol,
		CompanyName:      q.Name,
		Exchange:         q.Exchange,
		MarketOpen:       q.MarketOpen,
		CurrentPrice:     q.Price,
		PreviousClose:    q.PreviousClose,
		PriceChange:      q.Change,
		PercentageChange: q.PercentChange,
		DayHigh:          q.DayHigh,
		DayLow:           q.DayLow,
		Volume:           q.Volume,
		AverageVolume:    q.AverageVolume,
		FiftyTwoWeekHigh: q.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  q.FiftyTwoWeekLow,
		Currency:         q.Currency,
	})
}
