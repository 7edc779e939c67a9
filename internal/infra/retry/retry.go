package retry

// Bounded retry with exponential backoff and full jitter.
// Only errors that report themselves as temporary are retried; the browser
// layer uses this for page reconnects after an anti-bot interstitial.

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// Temporary is implemented by errors that may succeed on another attempt.
type Temporary interface {
	Temporary() bool
}

func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var t Temporary
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return false
}

func clamp(d, max time.Duration) time.Duration {
	if max > 0 && d > max {
		return max
	}
	return d
}

func FullJitterSleep(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if baseDelay <= 0 {
		return 0
	}
	maxForAttempt := baseDelay << attempt
	maxForAttempt = clamp(maxForAttempt, maxDelay)
	if maxForAttempt <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(maxForAttempt) + 1))
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. fn receives the zero-based attempt number.
func Do(ctx context.Context, opts Options, fn func(attempt int) error) error {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 300 * time.Millisecond
	}

	totalAttempts := 1 + opts.MaxRetries
	var lastErr error

	for attempt := 0; attempt < totalAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == totalAttempts-1 {
			return lastErr
		}

		t := time.NewTimer(FullJitterSleep(attempt, opts.BaseDelay, opts.MaxDelay))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return lastErr
}
