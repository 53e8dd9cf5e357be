// Package apierror renders domain errors as the uniform JSON error body.
package apierror

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_insight/internal/feature/analysis/domain"
	"stock_insight/internal/platform/http/middleware"
)

// ErrorResponse is the error body shared by every endpoint.
type ErrorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind"`
}

// StatusOf maps an error kind to its HTTP status code.
func StatusOf(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidSymbol, domain.KindInvalidDateRange, domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindDataUnavailable:
		return http.StatusNotFound
	case domain.KindInsufficientData:
		return http.StatusUnprocessableEntity
	case domain.KindProviderRateLimited:
		return http.StatusTooManyRequests
	case domain.KindMalformedRecord:
		return http.StatusBadGateway
	case domain.KindProviderTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Write aborts the request with the status and body derived from err.
// Internal errors are logged with their detail and answered with a generic message.
func Write(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := StatusOf(kind)

	if d, ok := domain.RetryAfter(err); ok {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.Seconds()))))
	}

	msg := err.Error()
	if kind == domain.KindInternal {
		slog.Error("request failed", "path", c.FullPath(), "request_id", middleware.RequestIDFrom(c), "error", err)
		msg = "internal server error"
	} else {
		slog.Warn("request rejected", "path", c.FullPath(), "request_id", middleware.RequestIDFrom(c), "kind", kind, "error", err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Kind: kind})
}
