package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-arch-news/pkg/feed"
	"github.com/shouni/go-arch-news/pkg/types"
)

// フィードの全体処理のタイムアウト設定
// Flags.TimeoutSec はHTTPクライアントのタイムアウト秒数を表します。
const overallFeedTimeoutFactor = 2 // クライアントタイムアウトの2倍

// runFeedPipeline は、フィードの取得と記事リストへの変換を実行するメインロジックです。
func runFeedPipeline(ctx context.Context, url string, parser *feed.Parser, limit int, overallTimeout time.Duration) ([]types.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, overallTimeout)
	defer cancel()

	articles, err := parser.FetchArticles(ctx, url, limit)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得およびパースエラー (URL: %s): %w", url, err)
	}
	return articles, nil
}

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "RSSフィードからニュース一覧を取得して表示します",
		Long:  `ニュースのRSSフィード (--feed-url) を取得・解析し、一覧ページと同じ形式で記事のタイトルとURLを表示します。一覧ページと異なり、取得に失敗した場合はエラーになります。`,
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			overallTimeout := time.Duration(Flags.TimeoutSec) * overallFeedTimeoutFactor * time.Second
			if Flags.TimeoutSec == 0 {
				overallTimeout = overallFeedTimeoutFactor * defaultTimeoutSec * time.Second
			}

			globalApp.logger.Debug("フィードを取得します",
				zap.String("url", Flags.FeedURL),
				zap.Duration("overallTimeout", overallTimeout),
			)

			parser := feed.NewParser(globalApp.client)
			articles, err := runFeedPipeline(cmd.Context(), Flags.FeedURL, parser, Flags.Limit, overallTimeout)
			if err != nil {
				globalApp.logger.Warn("フィードの取得に失敗しました", zap.Error(err))
				return err
			}

			out := cmd.OutOrStdout()
			if len(articles) == 0 {
				fmt.Fprintln(out, "No articles available.")
				return nil
			}
			fmt.Fprint(out, "Latest articles (fetched from feed):\n\n")
			printArticles(out, articles)
			return nil
		},
	}
}
