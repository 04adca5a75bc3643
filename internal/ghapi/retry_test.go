package ghapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPolicy returns a policy whose sleeps are captured instead of
// actually waiting.
func recordingPolicy(maxAttempts int, delays *[]time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   100 * time.Millisecond,
		CapDelay:    400 * time.Millisecond,
		sleep: func(ctx context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return ctx.Err()
		},
	}
}

// TestWithRetrySucceedsAfterRetryableFailures verifies that k retryable
// failures followed by a success end with the success, after exactly k+1
// calls, with the expected cumulative backoff.
func TestWithRetrySucceedsAfterRetryableFailures(t *testing.T) {
	const k = 2

	var delays []time.Duration
	calls := 0
	result, err := WithRetry(context.Background(), recordingPolicy(k+2, &delays), func(ctx context.Context) (string, error) {
		calls++
		if calls <= k {
			return "", &TransientNetworkError{Op: "test", Err: errors.New("connection reset")}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, k+1, calls)

	// Backoff before retry n is min(base * 2^n, cap).
	require.Len(t, delays, k)
	assert.Equal(t, 100*time.Millisecond, delays[0])
	assert.Equal(t, 200*time.Millisecond, delays[1])

	var total time.Duration
	for _, d := range delays {
		total += d
	}
	assert.GreaterOrEqual(t, total, 300*time.Millisecond)
}

// TestWithRetryExhaustion verifies the last retryable error is returned
// verbatim once attempts run out.
func TestWithRetryExhaustion(t *testing.T) {
	wantErr := &RateLimitError{Reset: time.Unix(1700000000, 0)}

	var delays []time.Duration
	calls := 0
	_, err := WithRetry(context.Background(), recordingPolicy(3, &delays), func(ctx context.Context) (int, error) {
		calls++
		return 0, wantErr
	})

	assert.Equal(t, 3, calls)
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, wantErr.Reset, rateErr.Reset)
}

// TestWithRetryFatalErrorNotRetried verifies fatal errors return on the
// first occurrence.
func TestWithRetryFatalErrorNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not found", err: &NotFoundError{Resource: "/repos/a/b"}},
		{name: "validation", err: &ValidationError{Field: "owner", Value: "", Reason: "empty"}},
		{name: "http 401", err: &HTTPError{StatusCode: 401, Message: "bad credentials"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var delays []time.Duration
			calls := 0
			_, err := WithRetry(context.Background(), recordingPolicy(5, &delays), func(ctx context.Context) (int, error) {
				calls++
				return 0, tt.err
			})

			assert.Equal(t, 1, calls)
			assert.Equal(t, tt.err, err)
			assert.Empty(t, delays)
		})
	}
}

// TestWithRetryBackoffCap verifies the per-attempt delay never exceeds the
// cap.
func TestWithRetryBackoffCap(t *testing.T) {
	var delays []time.Duration
	_, _ = WithRetry(context.Background(), recordingPolicy(6, &delays), func(ctx context.Context) (int, error) {
		return 0, &TransientNetworkError{Op: "test", Err: errors.New("timeout")}
	})

	require.Len(t, delays, 5)
	for _, d := range delays {
		assert.LessOrEqual(t, d, 400*time.Millisecond)
	}
	// 100ms, 200ms, then capped.
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		400 * time.Millisecond,
		400 * time.Millisecond,
	}, delays)
}

// TestWithRetryCancellationDuringBackoff verifies a pending backoff wait is
// abandoned as soon as the context is cancelled.
func TestWithRetryCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	policy := RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		CapDelay:    time.Millisecond,
		sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	_, err := WithRetry(ctx, policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, &TransientNetworkError{Op: "test", Err: errors.New("timeout")}
	})

	assert.Equal(t, 1, calls)
	var cancelErr *CancellationError
	assert.ErrorAs(t, err, &cancelErr)
}

// TestWithRetryCancelledBeforeFirstAttempt verifies a cancelled context
// short-circuits before any work happens.
func TestWithRetryCancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := WithRetry(ctx, DefaultRetryPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 0, nil
	})

	assert.Equal(t, 0, calls)
	assert.True(t, IsCancellation(err))
}

// TestIsRetryable pins down the classification table.
func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "rate limit", err: &RateLimitError{}, retryable: true},
		{name: "transient network", err: &TransientNetworkError{Op: "x", Err: errors.New("timeout")}, retryable: true},
		{name: "not found", err: &NotFoundError{Resource: "r"}, retryable: false},
		{name: "validation", err: &ValidationError{Field: "owner"}, retryable: false},
		{name: "cancellation", err: &CancellationError{Err: context.Canceled}, retryable: false},
		{name: "http error", err: &HTTPError{StatusCode: 422}, retryable: false},
		{name: "plain error", err: errors.New("boom"), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}
