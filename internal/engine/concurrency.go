// Package engine ties the API client, the aggregation pipeline, and the
// result cache into one analysis entry point per analytics kind.
//
// This file (concurrency.go) contains the bounded fan-out used for per-item
// detail fetches (commit files, branch comparisons, PR reviews). It uses a
// semaphore pattern to limit concurrent API calls, collects failures under a
// mutex, and recovers panics in workers so one bad item cannot take down the
// whole analysis.
package engine

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/pterm/pterm"
)

// fanOut runs work(i) for i in [0, n) with at most workers goroutines in
// flight. Cancellation stops new work from being spawned; items already
// running finish. The returned count is the number of items whose work
// failed (or was never started due to cancellation).
func fanOut(ctx context.Context, workers, n int, work func(ctx context.Context, i int) error) int {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	failed := 0

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

spawnLoop:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			mu.Lock()
			failed += n - i
			mu.Unlock()
			break spawnLoop
		default:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					pterm.Error.Printf("panic in detail worker %d: %v\n%s\n", i, r, debug.Stack())
				}
			}()

			if err := work(ctx, i); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	return failed
}
