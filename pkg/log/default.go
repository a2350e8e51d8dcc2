package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// デフォルト設定

func DefaultEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return encoderConfig
}

// ファイル出力は JSON
func DefaultEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(DefaultEncoderConfig())
}

// 端末出力は人が読みやすいコンソール形式
func DefaultConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(DefaultEncoderConfig())
}

func DefaultOption() []zap.Option {
	// 呼び出し元は常に出力し、スタックトレースは DPanic 以上のみ
	var stackTraceLevel zap.LevelEnablerFunc = func(level zapcore.Level) bool {
		return level >= zapcore.DPanicLevel
	}
	return []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(stackTraceLevel),
	}
}

// 1. バックアップは自動削除しない
// 2. 10MBごとにローテーションして圧縮する (時間ではローテーションしない)
func DefaultLumberjackLogger() *lumberjack.Logger {
	return &lumberjack.Logger{
		MaxSize:   10,
		LocalTime: true,
		Compress:  true,
	}
}
