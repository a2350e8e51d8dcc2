package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shouni/go-arch-news/pkg/config"
	"github.com/shouni/go-arch-news/pkg/extract"
	"github.com/shouni/go-arch-news/pkg/feed"
	"github.com/shouni/go-arch-news/pkg/fetcher"
	"github.com/shouni/go-arch-news/pkg/httpclient"
	"github.com/shouni/go-arch-news/pkg/log"
)

// --- グローバル定数 ---

const (
	appName           = "archnews"
	defaultTimeoutSec = 5 // 秒
	defaultMaxRetries = 0 // 初回のみ
	defaultLogLevel   = "warn"
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	URL           string // --url ニュース一覧ページ
	FeedURL       string // --feed-url RSSフィード
	Limit         int    // --limit 最大件数
	TimeoutSec    int    // --timeout タイムアウト
	MaxRetries    int    // --max-retries リトライ回数
	LogLevel      string // --log-level
	LogFile       string // --log-file
	Verbose       bool   // --verbose
	ImplicitTbody bool   // --implicit-tbody
	ConfigFile    string // --config
}

var Flags AppFlags

// app は PersistentPreRunE で組み立てられ、各サブコマンドから共有される依存関係です。
type app struct {
	logger    *zap.Logger
	logCloser io.Closer
	client    *httpclient.Client
	news      *fetcher.NewsFetcher
}

var globalApp *app

// newRootCmd はルートコマンドとサブコマンドを生成します。
// 生成のたびにフラグはデフォルト値に戻ります。
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               appName,
		Short:             "Arch Linux のニュース一覧を取得して表示します",
		Long:              `Arch Linux のニュース一覧ページ (table#article-list) から記事のタイトルとURLを取得し、番号付きで表示します。取得できなかった場合はサンプル記事を表示します。`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: initAppPreRunE,
		RunE:              runNews,
	}

	addAppPersistentFlags(rootCmd)
	rootCmd.AddCommand(newFeedCmd(), newVersionCmd())
	return rootCmd
}

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&Flags.URL, "url", "u", fetcher.DefaultSourceURL, "ニュース一覧ページのURL")
	pf.StringVar(&Flags.FeedURL, "feed-url", feed.DefaultFeedURL, "RSSフィードのURL (feed サブコマンドで使用)")
	pf.IntVarP(&Flags.Limit, "limit", "n", fetcher.DefaultLimit, "表示する記事の最大件数")
	pf.IntVar(&Flags.TimeoutSec, "timeout", defaultTimeoutSec, "HTTPリクエストのタイムアウト時間（秒）")
	pf.IntVar(&Flags.MaxRetries, "max-retries", defaultMaxRetries, "HTTPリクエストのリトライ最大回数")
	pf.StringVar(&Flags.LogLevel, "log-level", defaultLogLevel, "ログレベル (debug, info, warn, error)")
	pf.StringVar(&Flags.LogFile, "log-file", "", "ログの出力先ファイル (未指定の場合は標準エラー出力)")
	pf.BoolVarP(&Flags.Verbose, "verbose", "v", false, "詳細なログを出力します (--log-level debug と同じ)")
	pf.BoolVar(&Flags.ImplicitTbody, "implicit-tbody", false, "tbody を省略したテーブルの行も抽出対象にします")
	pf.StringVar(&Flags.ConfigFile, "config", "", "YAML設定ファイル (コマンドラインで指定したフラグが優先されます)")
}

// applyConfigFile は --config の設定ファイルを読み込み、
// コマンドラインで明示されていないフラグにだけ値を反映します。
func applyConfigFile(cmd *cobra.Command) error {
	if Flags.ConfigFile == "" {
		return nil
	}
	cfg, err := config.Load(Flags.ConfigFile)
	if err != nil {
		return err
	}

	unset := func(name string) bool {
		return !cmd.Flags().Changed(name)
	}
	if cfg.URL != "" && unset("url") {
		Flags.URL = cfg.URL
	}
	if cfg.FeedURL != "" && unset("feed-url") {
		Flags.FeedURL = cfg.FeedURL
	}
	if cfg.Limit > 0 && unset("limit") {
		Flags.Limit = cfg.Limit
	}
	if cfg.Timeout > 0 && unset("timeout") {
		Flags.TimeoutSec = cfg.Timeout
	}
	if cfg.MaxRetries != nil && unset("max-retries") {
		Flags.MaxRetries = *cfg.MaxRetries
	}
	if cfg.ImplicitTbody != nil && unset("implicit-tbody") {
		Flags.ImplicitTbody = *cfg.ImplicitTbody
	}
	if cfg.Log.Level != "" && unset("log-level") {
		Flags.LogLevel = cfg.Log.Level
	}
	if cfg.Log.File != "" && unset("log-file") {
		Flags.LogFile = cfg.Log.File
	}
	return nil
}

// initAppPreRunE は、フラグを検証し、共有の依存関係を初期化します。
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	if err := applyConfigFile(cmd); err != nil {
		return err
	}
	if Flags.TimeoutSec < 0 {
		return fmt.Errorf("--timeout には0以上の値を指定してください: %d", Flags.TimeoutSec)
	}
	if Flags.MaxRetries < 0 {
		return fmt.Errorf("--max-retries には0以上の値を指定してください: %d", Flags.MaxRetries)
	}

	sourceURL, err := ensureScheme(Flags.URL)
	if err != nil {
		return fmt.Errorf("--url の値が不正です: %w", err)
	}
	feedURL, err := ensureScheme(Flags.FeedURL)
	if err != nil {
		return fmt.Errorf("--feed-url の値が不正です: %w", err)
	}
	Flags.URL, Flags.FeedURL = sourceURL, feedURL

	logger, closer, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	timeout := time.Duration(Flags.TimeoutSec) * time.Second
	logger.Debug("HTTPクライアントを設定しました",
		zap.Duration("timeout", timeout),
		zap.Int("maxRetries", Flags.MaxRetries),
		zap.String("userAgent", fetcher.UserAgent()),
	)

	// 共有フェッチャーの初期化
	client := httpclient.New(
		timeout,
		httpclient.WithMaxRetries(uint64(Flags.MaxRetries)),
		httpclient.WithUserAgent(fetcher.UserAgent()),
	)
	news, err := fetcher.New(
		client,
		fetcher.WithSourceURL(Flags.URL),
		fetcher.WithLogger(logger),
		fetcher.WithExtractOptions(extract.WithImplicitTbody(Flags.ImplicitTbody)),
	)
	if err != nil {
		return fmt.Errorf("フェッチャーの初期化に失敗しました: %w", err)
	}

	globalApp = &app{logger: logger, logCloser: closer, client: client, news: news}
	return nil
}

// newLogger は --log-level / --log-file / --verbose からロガーを生成します。
func newLogger(stderr io.Writer) (*zap.Logger, io.Closer, error) {
	level, err := log.ParseLevel(Flags.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if Flags.Verbose {
		level = zapcore.DebugLevel
	}

	if Flags.LogFile != "" {
		plugin, closer := log.NewFilePlugin(Flags.LogFile, level)
		return log.NewLogger(plugin), closer, nil
	}
	plugin := log.NewConsolePlugin(stderr, level)
	return log.NewLogger(plugin), nil, nil
}

// closeApp はロガーをフラッシュし、ログファイルを閉じます。
func closeApp() {
	if globalApp == nil {
		return
	}
	_ = globalApp.logger.Sync()
	if globalApp.logCloser != nil {
		_ = globalApp.logCloser.Close()
	}
	globalApp = nil
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。
func Execute() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute はコマンドを実行し、成否にかかわらず共有の依存関係を後始末します。
func execute(rootCmd *cobra.Command) error {
	defer closeApp()
	return rootCmd.Execute()
}
