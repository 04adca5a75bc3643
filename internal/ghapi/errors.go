// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (errors.go) defines the error taxonomy for the client. Every error
// surfaced by the fetcher and retry controller is one of these kinds, never a
// raw transport error, so callers can decide between retrying, reporting, and
// silently accepting a user-initiated cancellation.
package ghapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ValidationError indicates malformed input (owner/repo identifiers).
// It is never retried and is surfaced before any network traffic happens.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NotFoundError indicates the repository or resource does not exist (HTTP 404).
// It is never retried.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Resource)
}

// RateLimitError indicates the remote quota is exhausted (HTTP 403/429 with a
// depleted rate envelope). Reset carries the instant the quota refreshes so
// callers can tell the user when to retry.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return "API rate limit exceeded"
	}
	return fmt.Sprintf("API rate limit exceeded, resets at %s", e.Reset.Format(time.RFC3339))
}

// TransientNetworkError indicates a timeout, connection reset, or 5xx server
// error. These are retried with backoff.
type TransientNetworkError struct {
	Op  string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("transient network error during %s: %v", e.Op, e.Err)
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }

// CancellationError indicates the caller aborted the operation. It is never
// retried and callers should not report it as a failure.
type CancellationError struct {
	Err error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("operation cancelled: %v", e.Err)
}

func (e *CancellationError) Unwrap() error { return e.Err }

// HTTPError covers remaining HTTP failures (auth problems, unprocessable
// requests, anything not mapped to a more specific kind). It is fatal.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether an error should be retried by the retry
// controller. Only rate limiting and transient transport failures qualify;
// everything else is fatal and returned to the caller on first occurrence.
func IsRetryable(err error) bool {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var netErr *TransientNetworkError
	return errors.As(err, &netErr)
}

// IsCancellation reports whether an error is a caller-initiated abort, either
// wrapped in a CancellationError or a bare context error.
func IsCancellation(err error) bool {
	var cancelErr *CancellationError
	if errors.As(err, &cancelErr) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// classifyTransportError maps a round-trip failure to the taxonomy. Context
// errors become CancellationError; timeouts and connection failures become
// TransientNetworkError.
func classifyTransportError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &CancellationError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransientNetworkError{Op: op, Err: err}
	}

	// Connection resets and refused connections arrive as *net.OpError.
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &TransientNetworkError{Op: op, Err: err}
	}

	return &TransientNetworkError{Op: op, Err: err}
}
