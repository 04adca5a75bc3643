// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (fetcher.go) implements the paginated fetcher. It pulls one
// resource kind page by page, keeps the collected records in page order,
// updates the rate envelope after every page, and stops early on an item
// budget, a rate-limit threshold, or cancellation. Early stops return the
// partial set tagged as truncated rather than an error.
package ghapi

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// Fetch behavior defaults. Tunable through engine configuration.
const (
	DefaultPerPage            = MaxPerPage
	DefaultMaxItems           = 1000
	DefaultRateLimitThreshold = 10
	DefaultPageDelay          = 100 * time.Millisecond
)

// ProgressUpdate reports pagination progress. It is advisory only and never
// affects control flow.
type ProgressUpdate struct {
	Fetched        int // Items collected so far
	EstimatedTotal int // Best guess of the final item count, 0 when unknown
}

// ProgressFunc receives advisory progress updates. Implementations must be
// fast and must not block; updates may be dropped by slow consumers.
type ProgressFunc func(ProgressUpdate)

// FetchOptions bounds a paginated fetch.
type FetchOptions struct {
	PerPage            int           // Items per page, capped at MaxPerPage
	MaxItems           int           // Item budget; 0 means DefaultMaxItems
	RateLimitThreshold int64         // Halt pre-emptively when remaining drops below this
	PageDelay          time.Duration // Inter-page delay
	Progress           ProgressFunc  // Optional advisory progress sink
	Retry              RetryPolicy   // Per-page retry policy
}

// withDefaults fills in zero-valued options.
func (o FetchOptions) withDefaults() FetchOptions {
	if o.PerPage <= 0 || o.PerPage > MaxPerPage {
		o.PerPage = DefaultPerPage
	}
	if o.MaxItems <= 0 {
		o.MaxItems = DefaultMaxItems
	}
	if o.RateLimitThreshold <= 0 {
		o.RateLimitThreshold = DefaultRateLimitThreshold
	}
	if o.Retry.MaxAttempts == 0 {
		o.Retry = DefaultRetryPolicy()
	}
	return o
}

// FetchResult is the outcome of a paginated fetch. Truncated distinguishes a
// naturally complete dataset from one cut short by budget, rate limit, or
// cancellation.
type FetchResult[T any] struct {
	Records   []T
	Envelope  RateEnvelope
	Truncated bool
	Pages     int
}

// page is what one page request produces.
type page[T any] struct {
	items []T
	env   RateEnvelope
}

// pageFunc issues a single page request. Implementations wrap Client.get for
// one resource kind.
type pageFunc[T any] func(ctx context.Context, pageNum, perPage int) ([]T, RateEnvelope, error)

// fetchAllPages drives the pagination loop. Each page request goes through
// the retry controller; records are appended in page order.
//
// Stop conditions:
//   - short page (fewer than perPage items): complete
//   - MaxItems reached: truncated
//   - envelope remaining below RateLimitThreshold: truncated
//   - cancellation: truncated if at least one page was collected, otherwise
//     a CancellationError
func fetchAllPages[T any](ctx context.Context, opts FetchOptions, fetch pageFunc[T]) (FetchResult[T], error) {
	opts = opts.withDefaults()

	var result FetchResult[T]

	for pageNum := 1; ; pageNum++ {
		// Observe cancellation before starting a new page request.
		select {
		case <-ctx.Done():
			if result.Pages == 0 {
				return result, &CancellationError{Err: ctx.Err()}
			}
			result.Truncated = true
			return result, nil
		default:
		}

		pg, err := WithRetry(ctx, opts.Retry, func(ctx context.Context) (page[T], error) {
			items, env, err := fetch(ctx, pageNum, opts.PerPage)
			return page[T]{items: items, env: env}, err
		})
		if err != nil {
			if IsCancellation(err) && result.Pages > 0 {
				result.Truncated = true
				return result, nil
			}
			return result, err
		}

		result.Pages++
		result.Envelope = pg.env

		remaining := opts.MaxItems - len(result.Records)
		if len(pg.items) > remaining {
			result.Records = append(result.Records, pg.items[:remaining]...)
			result.Truncated = true
		} else {
			result.Records = append(result.Records, pg.items...)
		}

		if opts.Progress != nil {
			opts.Progress(ProgressUpdate{
				Fetched:        len(result.Records),
				EstimatedTotal: estimateTotal(len(result.Records), len(pg.items), opts),
			})
		}

		// Natural end of data.
		if len(pg.items) < opts.PerPage {
			return result, nil
		}
		// Budget exhausted.
		if len(result.Records) >= opts.MaxItems {
			result.Truncated = true
			return result, nil
		}
		// Quota guard: stop before the envelope runs dry.
		if pg.env.Known() && pg.env.Remaining < opts.RateLimitThreshold {
			result.Truncated = true
			return result, nil
		}

		if opts.PageDelay > 0 {
			if err := sleepContext(ctx, opts.PageDelay); err != nil {
				result.Truncated = true
				return result, nil
			}
		}
	}
}

// pageQuery builds the pagination query parameters shared by every listing
// endpoint.
func pageQuery(pageNum, perPage int) url.Values {
	return url.Values{
		"page":     {strconv.Itoa(pageNum)},
		"per_page": {strconv.Itoa(perPage)},
	}
}

// estimateTotal guesses the final item count for progress reporting. With a
// full page in hand the best available ceiling is the item budget; a short
// page means the fetched count is exact.
func estimateTotal(fetched, lastPage int, opts FetchOptions) int {
	if lastPage < opts.PerPage {
		return fetched
	}
	return opts.MaxItems
}
