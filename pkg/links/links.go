// Package links は、抽出した相対リンクの絶対URL化と、重複除去・件数制限を扱います。
package links

import (
	"fmt"
	"net/url"

	"github.com/shouni/go-arch-news/pkg/extract"
	"github.com/shouni/go-arch-news/pkg/types"
)

// Resolve は href を base に対して RFC 3986 の参照解決規則で絶対URLに変換します。
// 絶対URLの href はそのまま (正規化のみ) 返されます。ネットワークアクセスは行いません。
func Resolve(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("ベースURLのパースエラー (URL: %s): %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("hrefのパースエラー (href: %s): %w", href, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// Dedupe は各リンクを base で絶対URL化し、(タイトル, 絶対URL) が完全に一致する重複を
// 最初の出現だけ残して除去します。結果が limit 件に達した時点で打ち切ります。
// limit が 0 以下の場合は空のスライスを返します。
// 解決できない href を持つリンクは読み飛ばします。
func Dedupe(base string, items []extract.Link, limit int) []types.Article {
	if limit <= 0 {
		return []types.Article{}
	}

	results := make([]types.Article, 0, min(limit, len(items)))
	seen := make(map[types.Article]struct{}, len(items))

	for _, item := range items {
		abs, err := Resolve(base, item.Href)
		if err != nil {
			continue
		}

		article := types.Article{Title: item.Title, URL: abs}
		if _, dup := seen[article]; dup {
			continue
		}
		seen[article] = struct{}{}
		results = append(results, article)

		if len(results) >= limit {
			break
		}
	}
	return results
}
