package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analysishandler "stock_insight/internal/feature/analysis/transport/handler"
	companyhandler "stock_insight/internal/feature/company/transport/handler"
	watchlisthandler "stock_insight/internal/feature/watchlist/transport/handler"
	"stock_insight/internal/platform/http/handler"
	"stock_insight/internal/platform/http/middleware"
)

// Handlers bundles everything NewRouter mounts.
type Handlers struct {
	Analysis *analysishandler.AnalysisHandler
	Cache    *analysishandler.CacheHandler
	Company  *companyhandler.CompanyHandler
	Symbols  *watchlisthandler.SymbolHandler // nil when no database is configured
	Metrics  http.Handler                    // nil disables /metrics
}

// NewRouter builds the gin engine. corsOrigins enables CORS for the dashboard when non-empty.
func NewRouter(h Handlers, corsOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())

	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  corsOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.HeaderRequestID},
			ExposeHeaders: []string{middleware.HeaderRequestID, "Retry-After"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 導通確認用
	r.GET("/", handler.Index)
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/api/health", handler.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")
	{
		api.GET("/company/:symbol", h.Company.GetCompany)
		api.GET("/market/:symbol", h.Company.GetMarket)
		api.POST("/historical/:symbol", h.Analysis.GetHistorical)
		api.POST("/analysis/:symbol", h.Analysis.GetAnalysis)
		if h.Symbols != nil {
			api.GET("/symbols", h.Symbols.List)
		}
		if h.Cache != nil {
			api.DELETE("/cache/:symbol", h.Cache.Invalidate)
		}
	}

	return r
}
