package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_insight/internal/feature/analysis/domain"
	"stock_insight/internal/feature/company/domain/entity"
	"stock_insight/internal/feature/company/transport/handler"
)

// mockCompanyUsecase はCompanyUsecaseインターフェースのモック実装です。
type mockCompanyUsecase struct {
	profile *entity.Profile
	quote   *entity.Quote
	err     error
}

func (m *mockCompanyUsecase) Profile(context.Context, string) (*entity.Profile, error) {
	return m.profile, m.err
}

func (m *mockCompanyUsecase) Quote(context.Context, string) (*entity.Quote, error) {
	return m.quote, m.err
}

func newCompanyRouter(uc handler.CompanyUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewCompanyHandler(uc)
	r := gin.New()
	r.GET("/api/company/:symbol", h.GetCompany)
	r.GET("/api/market/:symbol", h.GetMarket)
	return r
}

// TestCompanyHandler_GetCompany はプロフィールのレスポンス形式をテストします。
func TestCompanyHandler_GetCompany(t *testing.T) {
	uc := &mockCompanyUsecase{profile: &entity.Profile{
		Symbol:    "AAPL",
		Name:      "Apple Inc.",
		Summary:   "Designs devices.",
		Industry:  "Consumer Electronics",
		Sector:    "Technology",
		Country:   "United States",
		Website:   "https://www.apple.com",
		Employees: 164000,
		Officers:  []entity.Officer{{Name: "Tim Cook", Title: "CEO"}},
	}}
	r := newCompanyRouter(uc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/company/AAPL", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"symbol":"AAPL",
		"company_name":"Apple Inc.",
		"business_summary":"Designs devices.",
		"industry":"Consumer Electronics",
		"sector":"Technology",
		"country":"United States",
		"website":"https://www.apple.com",
		"employees":164000,
		"key_officers":[{"name":"Tim Cook","title":"CEO"}]
	}`, w.Body.String())
}

// TestCompanyHandler_GetCompany_NoOfficers は役員がいない場合に空配列を返すことをテストします。
func TestCompanyHandler_GetCompany_NoOfficers(t *testing.T) {
	r := newCompanyRouter(&mockCompanyUsecase{profile: &entity.Profile{Symbol: "X"}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/company/X", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key_officers":[]`)
}

// TestCompanyHandler_GetMarket は相場スナップショットのレスポンスとエラー変換をテストします。
func TestCompanyHandler_GetMarket(t *testing.T) {
	tests := []struct {
		name       string
		uc         *mockCompanyUsecase
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			uc: &mockCompanyUsecase{quote: &entity.Quote{
				Symbol: "MSFT", Name: "Microsoft", Exchange: "NASDAQ", Currency: "USD", MarketOpen: true,
				Price: 410.5, PreviousClose: 400, Change: 10.5, PercentChange: 2.625,
				DayHigh: 412, DayLow: 401, Volume: 100, AverageVolume: 90,
				FiftyTwoWeekHigh: 450, FiftyTwoWeekLow: 300,
			}},
			wantStatus: http.StatusOK,
			wantBody: `{"symbol":"MSFT","company_name":"Microsoft","exchange":"NASDAQ","market_open":true,
				"current_price":410.5,"previous_close":400,"price_change":10.5,"percentage_change":2.625,
				"day_high":412,"day_low":401,"volume":100,"average_volume":90,
				"fifty_two_week_high":450,"fifty_two_week_low":300,"currency":"USD"}`,
		},
		{
			name:       "error: not found",
			uc:         &mockCompanyUsecase{err: domain.ErrDataUnavailable},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"data unavailable","kind":"DataUnavailable"}`,
		},
		{
			name:       "error: timeout",
			uc:         &mockCompanyUsecase{err: domain.ErrProviderTimeout},
			wantStatus: http.StatusGatewayTimeout,
			wantBody:   `{"error":"provider timeout","kind":"ProviderTimeout"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCompanyRouter(tt.uc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/market/MSFT", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
