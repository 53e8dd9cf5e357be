// Package http provides the outbound HTTP client used for market data providers.
package http

import (
	"net"
	"net/http"
	"time"
)

// UserAgent is sent on every outbound provider request.
const UserAgent = "stock-insight/1.0"

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConnsPerHost: 呼び出し先はプロバイダー1ホストのみのため、ホスト単位の上限を引き上げる
//   - ResponseHeaderTimeout: ヘッダー受信までの上限（timeoutが正の場合のみ）
//   - Client.Timeout: リクエスト全体のタイムアウト（0以下なら無制限。呼び出し側のcontextで制御する）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	if timeout > 0 {
		t.ResponseHeaderTimeout = timeout
	} else {
		timeout = 0
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: t},
	}
}

// userAgentTransport sets User-Agent when the caller did not.
type userAgentTransport struct {
	base http.RoundTripper
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", UserAgent)
	return u.base.RoundTrip(r)
}
