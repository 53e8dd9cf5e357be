package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_insight/internal/feature/analysis/transport/handler"
)

type fakeResults struct {
	got     string
	removed int
}

func (f *fakeResults) InvalidateSymbol(symbol string) int {
	f.got = symbol
	return f.removed
}

type fakeSeries struct {
	got string
	err error
}

func (f *fakeSeries) InvalidateSymbol(_ context.Context, symbol string) error {
	f.got = symbol
	return f.err
}

func serveInvalidate(h *handler.CacheHandler, path string) *httptest.ResponseRecorder {
	r := gin.New()
	r.DELETE("/api/cache/:symbol", h.Invalidate)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	return w
}

// TestCacheHandler_Invalidate は結果キャッシュと系列キャッシュの両方が削除されることをテストします。
func TestCacheHandler_Invalidate(t *testing.T) {
	t.Parallel()

	results := &fakeResults{removed: 3}
	series := &fakeSeries{}
	w := serveInvalidate(handler.NewCacheHandler(results, series), "/api/cache/aapl")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"AAPL","results_removed":3}`, w.Body.String())
	assert.Equal(t, "AAPL", results.got)
	assert.Equal(t, "AAPL", series.got)
}

// TestCacheHandler_Invalidate_NoSeries はRedis未設定時も結果キャッシュのみ削除できることをテストします。
func TestCacheHandler_Invalidate_NoSeries(t *testing.T) {
	t.Parallel()

	results := &fakeResults{}
	w := serveInvalidate(handler.NewCacheHandler(results, nil), "/api/cache/MSFT")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"symbol":"MSFT","results_removed":0}`, w.Body.String())
}

// TestCacheHandler_Invalidate_InvalidSymbol は不正なシンボルでキャッシュに触れないことをテストします。
func TestCacheHandler_Invalidate_InvalidSymbol(t *testing.T) {
	t.Parallel()

	results := &fakeResults{}
	w := serveInvalidate(handler.NewCacheHandler(results, nil), "/api/cache/A$B")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"InvalidSymbol"`)
	assert.Empty(t, results.got)
}

// TestCacheHandler_Invalidate_SeriesError はRedis削除の失敗が500になることをテストします。
func TestCacheHandler_Invalidate_SeriesError(t *testing.T) {
	t.Parallel()

	series := &fakeSeries{err: errors.New("redis down")}
	w := serveInvalidate(handler.NewCacheHandler(&fakeResults{}, series), "/api/cache/AAPL")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","kind":"Internal"}`, w.Body.String())
}
