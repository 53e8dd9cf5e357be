package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insight/internal/feature/analysis/domain/entity"
	"stock_insight/internal/platform/http/apierror"
)

// ResultInvalidator drops cached analysis results of a symbol.
type ResultInvalidator interface {
	InvalidateSymbol(symbol string) int
}

// SeriesInvalidator drops cached provider series of a symbol.
type SeriesInvalidator interface {
	InvalidateSymbol(ctx context.Context, symbol string) error
}

// CacheHandler exposes manual cache invalidation.
type CacheHandler struct {
	results ResultInvalidator
	series  SeriesInvalidator // nil when Redis is not configured
}

// NewCacheHandler creates a CacheHandler. series may be nil.
func NewCacheHandler(results ResultInvalidator, series SeriesInvalidator) *CacheHandler {
	return &CacheHandler{results: results, series: series}
}

// Invalidate handles DELETE /api/cache/:symbol.
func (h *CacheHandler) Invalidate(c *gin.Context) {
	symbol, err := entity.NormalizeSymbol(c.Param("symbol"))
	if err != nil {
		apierror.Write(c, err)
		return
	}
	n := h.results.InvalidateSymbol(symbol)
	if h.series != nil {
		if err := h.series.InvalidateSymbol(c.Request.Context(), symbol); err != nil {
			apierror.Write(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "results_removed": n})
}
