package types

// Article は、ニュース一覧から取得した1件の記事を表します。
// Webから取得した記事は必ず絶対URLを持ち、サンプル記事は URL が空文字列になります。
// これは、取得経路・フォールバック経路のどちらからも同じ型で生成されます。
type Article struct {
	Title string // 空白を正規化済みの記事タイトル (空ではない)
	URL   string // 記事の絶対URL。サンプル記事の場合は空
}

// HasURL は、記事がURLを持っているかどうかを返します。
func (a Article) HasURL() bool {
	return a.URL != ""
}

// Titles は、記事リストからタイトルのみを順序を保って取り出します。
func Titles(articles []Article) []string {
	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		titles = append(titles, a.Title)
	}
	return titles
}
