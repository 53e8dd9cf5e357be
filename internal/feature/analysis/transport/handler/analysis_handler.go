// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"stock_insight/internal/feature/analysis/domain"
	"stock_insight/internal/feature/analysis/domain/entity"
	"stock_insight/internal/feature/analysis/transport/http/dto"
	"stock_insight/internal/platform/http/apierror"
)

// AnalysisUsecase は分析パイプラインのユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	Analyze(ctx context.Context, symbol, startDate, endDate string) (*entity.AnalysisResult, error)
	Historical(ctx context.Context, symbol, startDate, endDate string) (*entity.History, error)
}

// AnalysisHandler は過去データと分析のHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler は指定されたusecaseでAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// GetHistorical は指定期間の正規化済みOHLCVデータを返します。
//
// エンドポイント例:
// POST /api/historical/AAPL {"start_date":"2024-01-01","end_date":"2024-12-31"}
func (h *AnalysisHandler) GetHistorical(c *gin.Context) {
	req, ok := bindRange(c)
	if !ok {
		return
	}
	hist, err := h.uc.Historical(c.Request.Context(), c.Param("symbol"), req.StartDate, req.EndDate)
	if err != nil {
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewHistoricalResponse(hist))
}

// GetAnalysis は指標・トレンド・推奨を含む分析結果を返します。ボディは省略可能です。
//
// エンドポイント例:
// POST /api/analysis/AAPL {"start_date":"2024-01-01","end_date":"2024-12-31"}
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	req, ok := bindRange(c)
	if !ok {
		return
	}
	res, err := h.uc.Analyze(c.Request.Context(), c.Param("symbol"), req.StartDate, req.EndDate)
	if err != nil {
		apierror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnalysisResponse(res))
}

// bindRange は空のボディを許容してリクエストをバインドします。失敗時はエラーレスポンスを書き込みます。
func bindRange(c *gin.Context) (dto.RangeRequest, bool) {
	var req dto.RangeRequest
	err := c.ShouldBindJSON(&req)
	if err == nil || errors.Is(err, io.EOF) {
		return req, true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		apierror.Write(c, fmt.Errorf("%w: dates must be in YYYY-MM-DD format", domain.ErrInvalidDateRange))
	} else {
		apierror.Write(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
	}
	return req, false
}
