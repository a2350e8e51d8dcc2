package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/go-arch-news/pkg/types"
)

const banner = `
    _             _     _   _
   / \   _ __ ___| |__ | \ | | _____      _____
  / _ \ | '__/ __| '_ \|  \| |/ _ \ \ /\ / / __|
 / ___ \| | | (__| | | | |\  |  __/\ V  V /\__ \
/_/   \_\_|  \___|_| |_|_| \_|\___| \_/\_/ |___/
            A r c h  L i n u x  N e w s
`

// runNews はバナーを表示し、ニュース一覧を取得して表示します。
// 取得できなかった場合はサンプル記事にフォールバックします。取得の失敗はエラーにしません。
func runNews(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, banner+"\n")

	ctx := cmd.Context()
	timeout := time.Duration(Flags.TimeoutSec) * time.Second

	articles := globalApp.news.FetchArticles(ctx, Flags.Limit, timeout)
	if len(articles) > 0 {
		fmt.Fprint(out, "Latest articles (fetched from web):\n\n")
		printArticles(out, articles)
		return nil
	}

	samples := globalApp.news.SampleFallback(ctx)
	if len(samples) > 0 {
		fmt.Fprint(out, "Sample articles:\n\n")
		printArticles(out, samples)
		return nil
	}

	fmt.Fprintln(out, "No articles available.")
	return nil
}

// printArticles は記事を1から始まる番号付きで表示します。URLが無い記事はタイトルのみ表示します。
func printArticles(w io.Writer, articles []types.Article) {
	for i, a := range articles {
		if a.HasURL() {
			fmt.Fprintf(w, "%d. %s — %s\n", i+1, a.Title, a.URL)
		} else {
			fmt.Fprintf(w, "%d. %s\n", i+1, a.Title)
		}
	}
}
