// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// endpoints はサービスが公開するAPIの一覧です。
var endpoints = gin.H{
	"company_info":    "GET /api/company/<symbol>",
	"market_data":     "GET /api/market/<symbol>",
	"historical_data": "POST /api/historical/<symbol>",
	"analysis":        "POST /api/analysis/<symbol>",
	"watchlist":       "GET /api/symbols",
	"cache":           "DELETE /api/cache/<symbol>",
}

// Health はサービスヘルスチェック用の /healthz と /api/health を処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Stock Market API is running",
			"endpoints": endpoints,
		})
	}
}

// Index はルートでAPIの概要を返します。
func Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Stock Market Analysis API",
		"version":   "1.0.0",
		"endpoints": endpoints,
	})
}
