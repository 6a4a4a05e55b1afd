package llm

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"time"
)

// backoff calculates the delay before the next retry attempt using the
// full-jitter algorithm: delay = random(0, min(max, initial * 2^attempt)).
func backoff(attempt int, initial, max time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}

	exp := math.Pow(2, float64(attempt-1))
	delay := time.Duration(float64(initial) * exp)
	if delay > max {
		delay = max
	}
	if delay <= 0 {
		return 0
	}

	// crypto/rand for uniform distribution without bias
	jitter, err := rand.Int(rand.Reader, big.NewInt(int64(delay)))
	if err != nil {
		return delay / 2
	}
	return time.Duration(jitter.Int64())
}

// sleep waits for d, respecting context cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// withRetry executes fn with full-jitter retries. onRetry is invoked
// before each retry attempt (for metrics); it may be nil.
func withRetry(ctx context.Context, cfg RetryConfig, onRetry func(), fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		if onRetry != nil {
			onRetry()
		}
		if err := sleep(ctx, backoff(attempt+1, cfg.InitialDelay, cfg.MaxDelay)); err != nil {
			return err
		}
	}

	return lastErr
}
