// Package fetcher は、ニュース一覧ページの取得から記事リストの生成までを組み立てます。
// 通信・デコード・解析のどこで失敗しても、呼び出し元にはエラーではなく
// 「少ない (または空の) 結果」として返します。
package fetcher

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shouni/go-arch-news/pkg/extract"
	"github.com/shouni/go-arch-news/pkg/links"
	"github.com/shouni/go-arch-news/pkg/types"
)

// ----------------------------------------------------------------------
// 定数
// ----------------------------------------------------------------------

const (
	// DefaultSourceURL は取得対象のニュース一覧ページです。
	DefaultSourceURL = "https://archlinux.org/news/"
	// DefaultTimeout は1回の取得にかける時間の上限です。
	DefaultTimeout = 5 * time.Second
	// DefaultLimit はCLIが取得する記事数のデフォルトです。
	DefaultLimit = 10
	// SampleLimit はフォールバック時に取得を試みる記事数です。
	SampleLimit = 2

	userAgentPrefix = "archnews-fetcher/"
)

// Version はアプリケーションのバージョンです。ビルド時に -ldflags で上書きできます。
var Version = "0.1"

// UserAgent は取得時に送信する User-Agent を返します。
func UserAgent() string {
	return userAgentPrefix + Version
}

// SampleArticles は、Webから何も取得できなかった場合に返すサンプル記事です。
func SampleArticles() []types.Article {
	return []types.Article{
		{Title: "Article A"},
		{Title: "Article B"},
	}
}

// ----------------------------------------------------------------------
// 依存性の定義
// ----------------------------------------------------------------------

// Fetcher は、URLから生のバイト配列を取得する機能のインターフェースです。
// *httpclient.Client がこれを満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// NewsFetcher はニュース一覧ページから記事リストを取得します。
// 呼び出しごとに新しい抽出器を生成するため、複数のゴルーチンから同時に使用できます。
type NewsFetcher struct {
	client        Fetcher
	sourceURL     string
	logger        *zap.Logger
	extractOpts   []extract.Option
	sampleLimit   int
	sampleTimeout time.Duration
}

// Option は NewsFetcher の設定を行うための関数型です。
type Option func(*NewsFetcher)

// WithSourceURL は取得対象のURLを設定します。空文字列の場合は無視します。
func WithSourceURL(u string) Option {
	return func(f *NewsFetcher) {
		if u != "" {
			f.sourceURL = u
		}
	}
}

// WithLogger は呼び出しの記録に使うロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(f *NewsFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithExtractOptions はテーブル抽出器に渡す設定を追加します。
func WithExtractOptions(opts ...extract.Option) Option {
	return func(f *NewsFetcher) {
		f.extractOpts = append(f.extractOpts, opts...)
	}
}

// New は新しい NewsFetcher を生成します。
func New(client Fetcher, opts ...Option) (*NewsFetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("fetcher.New: Fetcher cannot be nil")
	}
	f := &NewsFetcher{
		client:        client,
		sourceURL:     DefaultSourceURL,
		logger:        zap.NewNop(),
		sampleLimit:   SampleLimit,
		sampleTimeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// SourceURL は取得対象のURLを返します。
func (f *NewsFetcher) SourceURL() string {
	return f.sourceURL
}

// ----------------------------------------------------------------------
// 取得処理
// ----------------------------------------------------------------------

// FetchArticles はニュース一覧ページを1回取得し、重複を除いた最大 limit 件の記事を返します。
// timeout が 0 以下の場合は DefaultTimeout を使用します。
// 通信エラー・タイムアウト・2xx以外のステータスはすべて空の結果になり、エラーは返しません。
func (f *NewsFetcher) FetchArticles(ctx context.Context, limit int, timeout time.Duration) []types.Article {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	start := time.Now()
	logger := f.logger.With(
		zap.String("url", f.sourceURL),
		zap.Int("limit", limit),
		zap.Duration("timeout", timeout),
	)
	logger.Debug("Calling FetchArticles")

	if limit <= 0 {
		return []types.Article{}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := f.client.FetchBytes(ctx, f.sourceURL)
	if err != nil {
		logger.Warn("ニュース一覧の取得に失敗しました", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return []types.Article{}
	}

	items := extract.Extract(DecodeHTML(raw), f.extractOpts...)
	articles := links.Dedupe(f.sourceURL, items, limit)

	logger.Info("ニュース一覧を取得しました",
		zap.Int("bytes", len(raw)),
		zap.Int("extracted", len(items)),
		zap.Int("articles", len(articles)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return articles
}

// SampleFallback は記事を SampleLimit 件だけ取得し、タイトルのみの記事リストとして返します。
// 取得できなかった場合は SampleArticles を返します。
func (f *NewsFetcher) SampleFallback(ctx context.Context) []types.Article {
	f.logger.Debug("Calling SampleFallback")

	fetched := f.FetchArticles(ctx, f.sampleLimit, f.sampleTimeout)
	if len(fetched) == 0 {
		return SampleArticles()
	}

	samples := make([]types.Article, 0, len(fetched))
	for _, title := range types.Titles(fetched) {
		samples = append(samples, types.Article{Title: title})
	}
	return samples
}
