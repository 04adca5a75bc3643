// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (retry.go) implements the retry controller that wraps single fetch
// attempts. Failures classified as retryable (rate limiting, transient network
// errors) are retried with capped exponential backoff; fatal failures are
// returned immediately. The backoff wait is abandoned as soon as the caller's
// context is cancelled.
package ghapi

import (
	"context"
	"time"
)

// Default retry configuration. The specific numbers are tunable through
// engine configuration, not load-bearing.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
	DefaultCapDelay    = 30 * time.Second
)

// RetryPolicy controls how many times an attempt is retried and how long the
// waits between attempts grow.
type RetryPolicy struct {
	MaxAttempts int           // Total attempts including the first
	BaseDelay   time.Duration // Delay before the first retry
	CapDelay    time.Duration // Upper bound on a single backoff wait

	// sleep is the backoff wait primitive. Tests inject a recording fake;
	// nil means sleepContext.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns the policy used when the caller configures
// nothing.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		CapDelay:    DefaultCapDelay,
	}
}

// backoff returns the wait before retry attempt n (0-indexed):
// min(BaseDelay * 2^n, CapDelay).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if d > p.CapDelay || d <= 0 {
		return p.CapDelay
	}
	return d
}

// sleepContext blocks for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithRetry runs attempt until it succeeds, fails fatally, or MaxAttempts
// retryable failures have accumulated. On exhaustion the last error is
// returned verbatim; a failure is never downgraded to an empty success.
//
// The context is observed before every attempt and while a backoff wait is
// pending; cancellation during either returns a CancellationError.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, attempt func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	sleep := policy.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for n := 0; n < maxAttempts; n++ {
		if n > 0 {
			if err := sleep(ctx, policy.backoff(n-1)); err != nil {
				return zero, &CancellationError{Err: err}
			}
		}

		select {
		case <-ctx.Done():
			return zero, &CancellationError{Err: ctx.Err()}
		default:
		}

		result, err := attempt(ctx)
		if err == nil {
			return result, nil
		}

		if IsCancellation(err) || !IsRetryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, lastErr
}
