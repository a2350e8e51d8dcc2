// Package feed は、ニュースのRSS/Atomフィードを取得し、一覧ページと同じ記事リストに変換します。
package feed

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/shouni/go-arch-news/pkg/extract"
	"github.com/shouni/go-arch-news/pkg/links"
	"github.com/shouni/go-arch-news/pkg/types"
)

// DefaultFeedURL はニュースのRSSフィードです。
const DefaultFeedURL = "https://archlinux.org/feeds/news/"

// Fetcher は Parser が依存するインターフェースです。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Parser はフィードの取得とパースを行います。
type Parser struct {
	client Fetcher
}

// NewParser は新しい Parser インスタンスを初期化し、依存関係を注入します。
func NewParser(client Fetcher) *Parser {
	return &Parser{client: client}
}

// FetchAndParse は指定されたURLからフィードを取得し、パースします。
func (p *Parser) FetchAndParse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	body, err := p.client.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得失敗 (URL: %s): %w", feedURL, err)
	}

	fp := gofeed.NewParser()
	feed, parseErr := fp.Parse(bytes.NewReader(body))
	if parseErr != nil {
		return nil, fmt.Errorf("RSSフィードのパース失敗 (URL: %s): %w", feedURL, parseErr)
	}
	return feed, nil
}

// FetchArticles はフィードを取得し、重複を除いた最大 limit 件の記事を返します。
// 一覧ページの取得と異なり、取得・パースの失敗はエラーとして返します。
func (p *Parser) FetchArticles(ctx context.Context, feedURL string, limit int) ([]types.Article, error) {
	feed, err := p.FetchAndParse(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return links.Dedupe(feedURL, NewFeedAdapter(feed).Links(), limit), nil
}

// ----------------------------------------------------------------------
// アダプター
// ----------------------------------------------------------------------

// FeedAdapter は gofeed.Feed を抽出結果と同じ extract.Link のリストに適合させます。
type FeedAdapter struct {
	*gofeed.Feed
}

// NewFeedAdapter は gofeed.Feed から新しいアダプターを作成します。
func NewFeedAdapter(feed *gofeed.Feed) *FeedAdapter {
	return &FeedAdapter{Feed: feed}
}

// Links はフィードのアイテムを出現順に extract.Link に変換します。
// タイトルまたはリンクが空のアイテムは読み飛ばします。
func (a *FeedAdapter) Links() []extract.Link {
	if a.Feed == nil || len(a.Items) == 0 {
		return []extract.Link{}
	}

	out := make([]extract.Link, 0, len(a.Items))
	for _, item := range a.Items {
		if item == nil {
			continue
		}
		title := extract.NormalizeText(item.Title)
		if title == "" || item.Link == "" {
			continue
		}
		out = append(out, extract.Link{Title: title, Href: item.Link})
	}
	return out
}
