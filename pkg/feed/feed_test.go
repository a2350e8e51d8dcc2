package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-arch-news/pkg/extract"
	"github.com/shouni/go-arch-news/pkg/types"
)

// MockFetcher はテスト対象の Parser.client が依存する Fetcher インターフェースのモックです。
type MockFetcher struct {
	FetchBytesFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return m.FetchBytesFunc(ctx, url)
}

const testURL = "https://archlinux.org/feeds/news/"

const validRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Arch Linux: Recent news updates</title>
    <link>https://archlinux.org/news/</link>
    <item>
      <title>Valkey to replace Redis</title>
      <link>https://archlinux.org/news/valkey-to-replace-redis/</link>
    </item>
    <item>
      <title>
        Manual   intervention
        required
      </title>
      <link>/news/manual-intervention/</link>
    </item>
    <item>
      <title>Valkey to replace Redis</title>
      <link>https://archlinux.org/news/valkey-to-replace-redis/</link>
    </item>
    <item>
      <title></title>
      <link>https://archlinux.org/news/untitled/</link>
    </item>
  </channel>
</rss>`

func TestFetchAndParse(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		body          string
		fetchErr      error
		expectedTitle string
		errorContains string
	}{
		{
			name:          "成功ケース_有効なRSS",
			body:          validRSS,
			expectedTitle: "Arch Linux: Recent news updates",
		},
		{
			name:          "エラーケース_フィード取得失敗",
			fetchErr:      errors.New("HTTPエラー: 500 Internal Server Error"),
			errorContains: "フィードの取得失敗",
		},
		{
			name:          "エラーケース_パース失敗",
			body:          `<invalid><tag>`,
			errorContains: "RSSフィードのパース失敗",
		},
		{
			name:          "エッジケース_空ボディ",
			body:          "",
			errorContains: "RSSフィードのパース失敗",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(&MockFetcher{
				FetchBytesFunc: func(ctx context.Context, url string) ([]byte, error) {
					assert.Equal(t, testURL, url)
					if tt.fetchErr != nil {
						return nil, tt.fetchErr
					}
					return []byte(tt.body), nil
				},
			})

			feed, err := p.FetchAndParse(ctx, testURL)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.Nil(t, feed)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, feed)
			assert.Equal(t, tt.expectedTitle, feed.Title)
		})
	}
}

func TestFetchArticles(t *testing.T) {
	ctx := context.Background()
	p := NewParser(&MockFetcher{
		FetchBytesFunc: func(ctx context.Context, url string) ([]byte, error) {
			return []byte(validRSS), nil
		},
	})

	t.Run("重複除去と相対リンクの解決", func(t *testing.T) {
		articles, err := p.FetchArticles(ctx, testURL, 10)
		require.NoError(t, err)
		assert.Equal(t, []types.Article{
			{Title: "Valkey to replace Redis", URL: "https://archlinux.org/news/valkey-to-replace-redis/"},
			{Title: "Manual intervention required", URL: "https://archlinux.org/news/manual-intervention/"},
		}, articles)
	})

	t.Run("件数制限", func(t *testing.T) {
		articles, err := p.FetchArticles(ctx, testURL, 1)
		require.NoError(t, err)
		assert.Len(t, articles, 1)
	})

	t.Run("取得失敗はエラー", func(t *testing.T) {
		ng := NewParser(&MockFetcher{
			FetchBytesFunc: func(ctx context.Context, url string) ([]byte, error) {
				return nil, errors.New("connection refused")
			},
		})
		articles, err := ng.FetchArticles(ctx, testURL, 10)
		assert.Error(t, err)
		assert.Nil(t, articles)
	})
}

func TestFeedAdapter_Links(t *testing.T) {
	tests := []struct {
		name     string
		feed     *gofeed.Feed
		expected []extract.Link
	}{
		{
			name: "正常ケース_空のタイトルとリンクは無視",
			feed: &gofeed.Feed{
				Items: []*gofeed.Item{
					{Title: "A", Link: "http://example.com/a"},
					{Title: "B", Link: ""},
					{Title: " ", Link: "http://example.com/c"},
					nil,
					{Title: "D\n  d", Link: "http://example.com/d"},
				},
			},
			expected: []extract.Link{
				{Title: "A", Href: "http://example.com/a"},
				{Title: "D d", Href: "http://example.com/d"},
			},
		},
		{
			name:     "エッジケース_アイテムが空",
			feed:     &gofeed.Feed{Items: []*gofeed.Item{}},
			expected: []extract.Link{},
		},
		{
			name:     "エッジケース_フィードがnil",
			feed:     nil,
			expected: []extract.Link{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewFeedAdapter(tt.feed).Links())
		})
	}
}
