// Package log は zap のロガーを組み立てます。
// 出力先ごとの zapcore.Core を「プラグイン」と呼び、NewLogger に渡して使います。
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Plugin はロガーの出力先を表します。
type Plugin = zapcore.Core

// NewLogger はプラグインからロガーを生成します。
func NewLogger(plugin Plugin, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

// NewStderrPlugin は標準エラー出力に書き込むプラグインを生成します。
// 標準出力は記事一覧の出力に使うため、ログは混ぜません。
func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	return NewConsolePlugin(os.Stderr, enabler)
}

// NewConsolePlugin は任意の Writer にコンソール形式で書き込むプラグインを生成します。
func NewConsolePlugin(w io.Writer, enabler zapcore.LevelEnabler) Plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(w)), DefaultConsoleEncoder(), enabler)
}

// NewFilePlugin はローテーション付きのファイルに書き込むプラグインを生成します。
// 返される io.Closer はプログラム終了時に閉じてください。
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	writer := DefaultLumberjackLogger()
	writer.Filename = filePath
	return NewPlugin(zapcore.AddSync(writer), DefaultEncoder(), enabler), writer
}

// NewPlugin は任意の出力先とエンコーダからプラグインを生成します。
func NewPlugin(writer zapcore.WriteSyncer, encoder zapcore.Encoder, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(encoder, writer, enabler)
}

// ParseLevel はログレベル名 (debug, info, warn, error) を解釈します。大文字小文字は区別しません。
func ParseLevel(text string) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(text)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("不正なログレベルです (%s): %w", text, err)
	}
	return level, nil
}
