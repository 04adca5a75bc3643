// Package state provides thread-safe run-status tracking for an analysis.
//
// A Status instance tracks API call counts and the most recent rate-limit
// envelope observed on the wire. It exists for observability only: the engine
// reads nothing back out of it to make control-flow decisions. Unlike a
// module-level singleton, a Status is constructed explicitly by the caller
// and handed to the API client, so its lifetime and concurrency discipline
// are visible at the call site.
package state

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// RateLimitInfo holds the most recent REST rate limit snapshot.
//
// Thread-safety: protected by Status.rateLimitMu when accessed through
// Status methods. Do not share directly across goroutines.
type RateLimitInfo struct {
	Limit     int64     // Maximum requests allowed per hour
	Remaining int64     // Requests remaining in current window
	Reset     time.Time // When the rate limit window resets
}

// Status tracks progress and API usage for one analysis run.
//
// Thread-safety: all methods are safe for concurrent use. Counters use
// atomic operations; the rate limit snapshot uses an RWMutex because it is
// a struct that needs consistent reads.
type Status struct {
	apiCalls          int64
	fetchesDone       int64
	startingRemaining int64

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// New returns an empty Status.
func New() *Status {
	return &Status{}
}

// IncrementAPICalls increments the API call count (thread-safe).
func (s *Status) IncrementAPICalls() {
	atomic.AddInt64(&s.apiCalls, 1)
}

// GetAPICalls returns the current API call count (thread-safe).
func (s *Status) GetAPICalls() int64 {
	return atomic.LoadInt64(&s.apiCalls)
}

// MarkFetchDone records one completed resource fetch.
func (s *Status) MarkFetchDone() {
	atomic.AddInt64(&s.fetchesDone, 1)
}

// UpdateRateLimit replaces the rate limit snapshot (thread-safe).
func (s *Status) UpdateRateLimit(limit, remaining int64, reset time.Time) {
	s.rateLimitMu.Lock()
	defer s.rateLimitMu.Unlock()
	s.rateLimit = RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		Reset:     reset,
	}
}

// GetRateLimit returns the current rate limit snapshot (thread-safe).
func (s *Status) GetRateLimit() RateLimitInfo {
	s.rateLimitMu.RLock()
	defer s.rateLimitMu.RUnlock()
	return s.rateLimit
}

// CaptureStartingCalls records the remaining quota at the start of the run so
// MarkDone can report how much the run actually consumed.
func (s *Status) CaptureStartingCalls() {
	rateLimit := s.GetRateLimit()
	if rateLimit.Limit > 0 {
		atomic.StoreInt64(&s.startingRemaining, rateLimit.Remaining)
	}
}

// PrintRateLimit prints the current rate limit status.
func (s *Status) PrintRateLimit() {
	rateLimit := s.GetRateLimit()
	if rateLimit.Limit == 0 {
		return
	}

	used := rateLimit.Limit - rateLimit.Remaining
	reset := "unknown"
	if !rateLimit.Reset.IsZero() {
		reset = rateLimit.Reset.Format("15:04:05")
	}

	pterm.Info.Printf("%d/%d calls used | %d remaining | resets at: %s\n",
		used, rateLimit.Limit, rateLimit.Remaining, reset)
}

// MarkDone prints a final summary of the run.
func (s *Status) MarkDone() {
	fetches := atomic.LoadInt64(&s.fetchesDone)

	// Prefer the rate-limit delta when available: it counts what the server
	// actually billed, including pages consumed by retries.
	rateLimit := s.GetRateLimit()
	starting := atomic.LoadInt64(&s.startingRemaining)
	calls := s.GetAPICalls()
	if rateLimit.Limit > 0 && starting > 0 {
		calls = starting - rateLimit.Remaining
	}

	status := fmt.Sprintf("Complete! %d fetches | API: %d calls", fetches, calls)
	pterm.Success.Printf("✓ %s\n", status)
}
