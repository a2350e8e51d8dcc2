package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxRetries はデフォルトの追加試行回数です。
	// ニュース一覧の取得は1回の試行で失敗を確定させるため 0 としています。
	DefaultMaxRetries = 0

	// バックオフの設定 (リトライを有効にした場合のみ使用)
	InitialBackoffInterval = 500 * time.Millisecond
	MaxBackoffInterval     = 5 * time.Second
)

// Operation はリトライ可能な処理を表す関数です。成功時は nil を返します。
type Operation func() error

// ShouldRetryFunc はエラーを受け取り、そのエラーがリトライ可能かどうかを判定する関数です。
type ShouldRetryFunc func(error) bool

// Config はリトライ動作を設定するための構造体です。
type Config struct {
	MaxRetries      uint64 // 初回を除く追加試行回数。0 の場合は1回だけ実行します。
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultConfig はデフォルト設定を返します。
func DefaultConfig() Config {
	return Config{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: InitialBackoffInterval,
		MaxInterval:     MaxBackoffInterval,
	}
}

// newBackOffPolicy は Config とコンテキストから backoff のポリシーを組み立てます。
func newBackOffPolicy(ctx context.Context, cfg Config) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval

	return backoff.WithContext(backoff.WithMaxRetries(b, cfg.MaxRetries), ctx)
}

// Do は指数バックオフを使用して操作を実行します。
// shouldRetryFn が false を返したエラー、または backoff.Permanent でラップされたエラーは、
// その時点で最終エラーとして返します。
func Do(ctx context.Context, cfg Config, operationName string, op Operation, shouldRetryFn ShouldRetryFunc) error {
	var lastErr error
	stopped := false

	retryableOp := func() error {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			lastErr = permanent.Err
			stopped = true
			return err
		}
		if shouldRetryFn == nil || !shouldRetryFn(err) {
			stopped = true
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(retryableOp, newBackOffPolicy(ctx, cfg))
	if err == nil {
		return nil
	}
	if lastErr == nil {
		lastErr = err
	}

	switch {
	case stopped:
		return fmt.Errorf("%sに失敗しました: %w", operationName, lastErr)
	case ctx.Err() != nil:
		return fmt.Errorf("%sに失敗しました: コンテキストタイムアウト/キャンセル: %w", operationName, errors.Join(ctx.Err(), lastErr))
	case cfg.MaxRetries == 0:
		return fmt.Errorf("%sに失敗しました: %w", operationName, lastErr)
	default:
		return fmt.Errorf("%sに失敗しました: 最大リトライ回数 (%d回) に到達。最終エラー: %w", operationName, cfg.MaxRetries, lastErr)
	}
}
