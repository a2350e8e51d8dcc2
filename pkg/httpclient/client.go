package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-arch-news/pkg/retry"
)

const (
	// HTTPクライアント関連の定数
	DefaultHTTPTimeout = 5 * time.Second
	MaxBodySize        = int64(10 * 1024 * 1024) // 10MB: レスポンスボディの最大読み込みサイズ

	// エラーメッセージに含めるボディの最大長
	maxErrorBodyLength = 1024
)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースを定義します。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ----------------------------------------------------------------------
// エラー型
// ----------------------------------------------------------------------

// NonRetryableHTTPError はHTTP 4xx系のステータスコードエラーを示すカスタムエラー型です。
type NonRetryableHTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *NonRetryableHTTPError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("HTTPクライアントエラー (非リトライ対象): ステータスコード %d, ボディ: %s", e.StatusCode, truncateBody(e.Body))
	}
	return fmt.Sprintf("HTTPクライアントエラー (非リトライ対象): ステータスコード %d, ボディなし", e.StatusCode)
}

// HTTPStatusError は 4xx 以外の非2xxステータス (主に5xx) を示すエラー型です。
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("HTTPステータスコードエラー: %d, 詳細: %s", e.StatusCode, truncateBody(e.Body))
	}
	return fmt.Sprintf("HTTPステータスコードエラー: %d", e.StatusCode)
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyLength {
		return s[:maxErrorBodyLength] + "..."
	}
	return s
}

// ----------------------------------------------------------------------
// 設定とコンストラクタ
// ----------------------------------------------------------------------

// Client は1回 (設定によっては複数回) のHTTP GETを実行し、ボディをバイト配列で返します。
type Client struct {
	httpClient  Doer
	retryConfig retry.Config
	userAgent   string
}

// ClientOption はClientの設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithMaxRetries は初回を除く最大リトライ回数を設定します。
func WithMaxRetries(max uint64) ClientOption {
	return func(c *Client) {
		c.retryConfig.MaxRetries = max
	}
}

// WithUserAgent はリクエストに付与する User-Agent を設定します。
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New は新しいClientを生成します。timeout が 0 以下の場合は DefaultHTTPTimeout を使用します。
func New(timeout time.Duration, options ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryConfig: retry.DefaultConfig(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// UserAgent は設定済みの User-Agent を返します。
func (c *Client) UserAgent() string {
	return c.userAgent
}

// ----------------------------------------------------------------------
// 取得処理
// ----------------------------------------------------------------------

// FetchBytes は URL からコンテンツを取得し、生のバイト配列として返します。
// 2xx 以外のステータスはエラーになります。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	op := func() error {
		var fetchErr error
		body, fetchErr = c.doFetch(ctx, url)
		return fetchErr
	}

	err := retry.Do(
		ctx,
		c.retryConfig,
		fmt.Sprintf("URL(%s)のフェッチ", url),
		op,
		c.isHTTPRetryableError,
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// doFetch は実際の一度のHTTP GETリクエストを実行します。
func (c *Client) doFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return nil, err
	}

	return HandleLimitedResponse(resp, MaxBodySize)
}

// HandleLimitedResponse は、レスポンスボディを最大サイズに制限して読み込みます。
// 最大サイズを超えた場合はエラーを返します。
func HandleLimitedResponse(resp *http.Response, limit int64) ([]byte, error) {
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("レスポンスボディが最大サイズ (%dバイト) を超えました", limit)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	if int64(len(bodyBytes)) > limit {
		return nil, fmt.Errorf("レスポンスボディが最大サイズ (%dバイト) を超えました", limit)
	}
	return bodyBytes, nil
}

// checkResponseStatus はステータスコードを評価し、2xx 以外であればエラーを返します。
// 4xx は NonRetryableHTTPError、それ以外は HTTPStatusError になります。
// NOTE: レスポンスボディを読み込みますが、閉じるのは呼び出し元の責務です。
func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength+1))
	if readErr != nil {
		bodyBytes = nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode <= 499 {
		return &NonRetryableHTTPError{StatusCode: resp.StatusCode, Body: bodyBytes}
	}
	return &HTTPStatusError{StatusCode: resp.StatusCode, Body: bodyBytes}
}

// IsNonRetryableError は与えられたエラーが非リトライ対象のHTTPエラーであるかを判断します。
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var nonRetryable *NonRetryableHTTPError
	return errors.As(err, &nonRetryable)
}

// isHTTPRetryableError はエラーがHTTPリトライ対象かどうかを判定します。
// retry.ShouldRetryFunc のシグネチャを満たします。
func (c *Client) isHTTPRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// コンテキストが終了していれば、再試行しても同じ結果になる
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if IsNonRetryableError(err) {
		return false
	}

	// 5xx やネットワークエラーはリトライ対象
	return true
}
