package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanOutRunsEveryItem(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)

	failed := fanOut(context.Background(), 3, 20, func(ctx context.Context, i int) error {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
		return nil
	})

	assert.Equal(t, 0, failed)
	assert.Len(t, seen, 20)
}

func TestFanOutCountsFailures(t *testing.T) {
	failed := fanOut(context.Background(), 2, 10, func(ctx context.Context, i int) error {
		if i%3 == 0 {
			return errors.New("boom")
		}
		return nil
	})

	// Items 0, 3, 6, 9 fail.
	assert.Equal(t, 4, failed)
}

func TestFanOutRespectsWorkerBound(t *testing.T) {
	const workers = 3
	var inFlight, peak int64

	fanOut(context.Background(), workers, 30, func(ctx context.Context, i int) error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		atomic.AddInt64(&inFlight, -1)
		return nil
	})

	assert.LessOrEqual(t, peak, int64(workers))
}

// TestFanOutCancellationMarksUnstarted verifies items never started due to
// cancellation are counted as failed.
func TestFanOutCancellationMarksUnstarted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	failed := fanOut(ctx, 2, 15, func(ctx context.Context, i int) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	assert.Equal(t, 15, failed+int(ran))
	assert.Equal(t, 15, failed)
}

// TestFanOutRecoversPanic verifies a panicking worker counts as a failure
// without taking down the run.
func TestFanOutRecoversPanic(t *testing.T) {
	failed := fanOut(context.Background(), 2, 5, func(ctx context.Context, i int) error {
		if i == 2 {
			panic("bad item")
		}
		return nil
	})

	assert.Equal(t, 1, failed)
}

func TestFanOutZeroItems(t *testing.T) {
	var ran int64
	failed := fanOut(context.Background(), 4, 0, func(ctx context.Context, i int) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	assert.Equal(t, 0, failed)
	assert.Equal(t, int64(0), ran)
}
