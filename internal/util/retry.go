package util

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// RetryConfig 读库重试策略
type RetryConfig struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

// WithRetry 对瞬时性失败做指数退避重试。
// gorm.ErrRecordNotFound 属于合法的空结果，不重试；context 取消直接返回
func WithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		wait := backoff(cfg.BaseBackoff, attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	return true
}

func backoff(base time.Duration, attempt int) time.Duration {
	wait := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Int63n(int64(base)))
	return wait + jitter
}
