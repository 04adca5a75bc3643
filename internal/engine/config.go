// Package engine ties the API client, the aggregation pipeline, and the
// result cache into one analysis entry point per analytics kind.
//
// This file (config.go) defines the engine configuration. Every numeric knob
// has a default; none of the specific values are load-bearing.
package engine

import (
	"time"

	"github.com/aryanjha256/gitflux-sub000/internal/ghapi"
)

// Config tunes fetching and analysis behavior for an Engine.
type Config struct {
	// Pagination bounds, applied per resource kind.
	PerPage            int
	MaxItems           int
	RateLimitThreshold int64
	PageDelay          time.Duration

	// Retry policy for every request.
	Retry ghapi.RetryPolicy

	// MaxWorkers bounds concurrent detail fetches (per-commit files,
	// per-branch comparisons, per-PR reviews).
	MaxWorkers int

	// DetailLimit caps how many per-item detail fetches one analysis may
	// issue; data beyond the cap is reported as truncated.
	DetailLimit int

	// CacheSize bounds the result cache entry count.
	CacheSize int

	// Progress receives advisory pagination updates. May be nil.
	Progress ghapi.ProgressFunc

	// Now is the clock used to resolve window presets and score recency.
	// Nil means time.Now; tests inject a fixed instant.
	Now func() time.Time
}

// Default engine tuning.
const (
	DefaultMaxWorkers  = 3
	DefaultDetailLimit = 50
)

// withDefaults fills in zero-valued configuration.
func (c Config) withDefaults() Config {
	if c.PerPage <= 0 {
		c.PerPage = ghapi.DefaultPerPage
	}
	if c.MaxItems <= 0 {
		c.MaxItems = ghapi.DefaultMaxItems
	}
	if c.RateLimitThreshold <= 0 {
		c.RateLimitThreshold = ghapi.DefaultRateLimitThreshold
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = ghapi.DefaultRetryPolicy()
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = DefaultMaxWorkers
	}
	if c.DetailLimit <= 0 {
		c.DetailLimit = DefaultDetailLimit
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// fetchOptions translates the engine configuration into per-fetch options.
func (c Config) fetchOptions() ghapi.FetchOptions {
	return ghapi.FetchOptions{
		PerPage:            c.PerPage,
		MaxItems:           c.MaxItems,
		RateLimitThreshold: c.RateLimitThreshold,
		PageDelay:          c.PageDelay,
		Progress:           c.Progress,
		Retry:              c.Retry,
	}
}
