package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock_insight/internal/feature/analysis/domain"
	analysisentity "stock_insight/internal/feature/analysis/domain/entity"
	analysisusecase "stock_insight/internal/feature/analysis/usecase"
	companyentity "stock_insight/internal/feature/company/domain/entity"
	companyusecase "stock_insight/internal/feature/company/usecase"
	"stock_insight/internal/platform/externalapi/twelvedata/dto"
	"stock_insight/internal/platform/metrics"
	"stock_insight/internal/shared/ratelimiter"
)

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketDataProvider実装です。
type TwelveDataMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
	metrics *metrics.Metrics
}

// TwelveDataMarketが各フィーチャーのプロバイダーインターフェースを実装していることをコンパイル時に検証します。
var (
	_ analysisusecase.MarketDataProvider = (*TwelveDataMarket)(nil)
	_ companyusecase.CompanyProvider     = (*TwelveDataMarket)(nil)
)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
// limiter と m は nil でも構いません。
func NewTwelveDataMarket(cfg Config, client *http.Client, limiter ratelimiter.Limiter, m *metrics.Metrics) *TwelveDataMarket {
	if cfg.DefaultRetryAfter <= 0 {
		cfg.DefaultRetryAfter = time.Minute
	}
	return &TwelveDataMarket{cfg: cfg, client: client, limiter: limiter, metrics: m}
}

// GetTimeSeries はTwelve Data APIから日足データを取得し、未加工のレコードとして返します。
// Twelve Data の end_date は排他的なので、終了日を含めるために1日後を指定します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol string, start, end time.Time) ([]analysisentity.RawRecord, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", "1day")
	q.Set("start_date", start.Format(analysisentity.DateLayout))
	q.Set("end_date", end.AddDate(0, 0, 1).Format(analysisentity.DateLayout))
	q.Set("order", "ASC")
	q.Set("outputsize", "5000")

	var body dto.TimeSeriesResponse
	if err := t.get(ctx, "time_series", q, &body); err != nil {
		return nil, err
	}

	out := make([]analysisentity.RawRecord, 0, len(body.Values))
	for _, v := range body.Values {
		out = append(out, analysisentity.RawRecord{
			Datetime: v.Datetime,
			Open:     v.Open,
			High:     v.High,
			Low:      v.Low,
			Close:    v.Close,
			Volume:   v.Volume,
		})
	}
	return out, nil
}

// GetProfile は企業プロフィールを取得します。
func (t *TwelveDataMarket) GetProfile(ctx context.Context, symbol string) (*companyentity.Profile, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var body dto.ProfileResponse
	if err := t.get(ctx, "profile", q, &body); err != nil {
		return nil, err
	}
	if body.Symbol == "" && body.Name == "" {
		return nil, fmt.Errorf("%w: no profile for %s", domain.ErrDataUnavailable, symbol)
	}

	p := &companyentity.Profile{
		Symbol:    body.Symbol,
		Name:      body.Name,
		Summary:   body.Description,
		Industry:  body.Industry,
		Sector:    body.Sector,
		Country:   body.Country,
		Website:   body.Website,
		Employees: body.Employees,
		Officers:  []companyentity.Officer{},
	}
	if body.CEO != "" {
		p.Officers = append(p.Officers, companyentity.Officer{Name: body.CEO, Title: "Chief Executive Officer"})
	}
	return p, nil
}

// CompanyName はプロフィールから企業名だけを取り出します。
func (t *TwelveDataMarket) CompanyName(ctx context.Context, symbol string) (string, error) {
	p, err := t.GetProfile(ctx, symbol)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// GetQuote は現在の相場スナップショットを取得します。
func (t *TwelveDataMarket) GetQuote(ctx context.Context, symbol string) (*companyentity.Quote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var body dto.QuoteResponse
	if err := t.get(ctx, "quote", q, &body); err != nil {
		return nil, err
	}
	if body.Symbol == "" {
		return nil, fmt.Errorf("%w: no quote for %s", domain.ErrDataUnavailable, symbol)
	}

	p := numberParser{}
	quote := &companyentity.Quote{
		Symbol:           body.Symbol,
		Name:             body.Name,
		Exchange:         body.Exchange,
		Currency:         body.Currency,
		MarketOpen:       body.IsMarketOpen,
		Price:            p.float("close", body.Close),
		PreviousClose:    p.float("previous_close", body.PreviousClose),
		Change:           p.float("change", body.Change),
		PercentChange:    p.float("percent_change", body.PercentChange),
		DayHigh:          p.float("high", body.High),
		DayLow:           p.float("low", body.Low),
		Volume:           p.int("volume", body.Volume),
		AverageVolume:    p.int("average_volume", body.AverageVolume),
		FiftyTwoWeekHigh: p.float("fifty_two_week.high", body.FiftyTwoWeek.High),
		FiftyTwoWeekLow:  p.float("fifty_two_week.low", body.FiftyTwoWeek.Low),
	}
	if p.err != nil {
		return nil, fmt.Errorf("%w: quote %s: %v", domain.ErrMalformedRecord, symbol, p.err)
	}
	return quote, nil
}

// get はレート制限を考慮してエンドポイントを呼び出し、エラーをドメインエラーに変換してからoutにデコードします。
func (t *TwelveDataMarket) get(ctx context.Context, endpoint string, q url.Values, out any) (err error) {
	start := time.Now()
	defer func() {
		t.metrics.ObserveProvider(endpoint, outcome(err), time.Since(start))
	}()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return t.transportError(ctx, err)
		}
	}

	q.Set("apikey", t.cfg.TwelveDataAPIKey)
	u := fmt.Sprintf("%s/%s?%s", strings.TrimRight(t.cfg.BaseURL, "/"), endpoint, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return t.transportError(ctx, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return t.transportError(ctx, err)
	}

	if res.StatusCode == http.StatusTooManyRequests {
		return &domain.RateLimitError{
			RetryAfter: t.retryAfter(res.Header.Get("Retry-After")),
			Message:    fmt.Sprintf("twelvedata http %d", res.StatusCode),
		}
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	// Twelve Data はエラー時もHTTP 200でエラー用のボディを返す
	var env dto.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("%w: twelvedata %s: %v", domain.ErrMalformedRecord, endpoint, err)
	}
	if env.Status == "error" {
		return t.apiError(res.Header, env)
	}

	// JSONレスポンスをDTOにデコード
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: twelvedata %s: %v", domain.ErrMalformedRecord, endpoint, err)
	}
	return nil
}

func (t *TwelveDataMarket) apiError(h http.Header, env dto.Envelope) error {
	code, _ := env.Code.Int64()
	switch code {
	case http.StatusTooManyRequests:
		return &domain.RateLimitError{RetryAfter: t.retryAfter(h.Get("Retry-After")), Message: env.Message}
	case http.StatusBadRequest, http.StatusNotFound:
		return fmt.Errorf("%w: twelvedata: %s", domain.ErrDataUnavailable, env.Message)
	default:
		return fmt.Errorf("twelvedata: %s", env.Message)
	}
}

// transportError は呼び出し元のキャンセルとタイムアウトを区別します。
func (t *TwelveDataMarket) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() == context.Canceled {
		return err
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: twelvedata: %v", domain.ErrProviderTimeout, err)
	}
	return err
}

func (t *TwelveDataMarket) retryAfter(header string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return t.cfg.DefaultRetryAfter
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch domain.KindOf(err) {
	case domain.KindProviderRateLimited:
		return "rate_limited"
	case domain.KindProviderTimeout:
		return "timeout"
	case domain.KindDataUnavailable:
		return "no_data"
	default:
		return "error"
	}
}

// numberParser は最初のパースエラーを保持しつつ任意項目の数値を読み取ります。空文字は0として扱います。
type numberParser struct {
	err error
}

func (p *numberParser) float(field, s string) float64 {
	if s == "" || p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return f
}

func (p *numberParser) int(field, s string) int64 {
	if s == "" || p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return v
}
