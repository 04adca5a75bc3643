// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (types.go) defines the rate envelope and the wire-level response
// structures decoded from the REST API. Wire types stay inside this package;
// they are mapped into explicit analytics records immediately after decoding
// so loosely-typed values never reach the aggregation pipeline.
package ghapi

import (
	"net/http"
	"strconv"
	"time"
)

// RateEnvelope is a snapshot of the remaining/limit/reset quota reported by
// the remote API after a request. Invariant: 0 <= Remaining <= Limit.
type RateEnvelope struct {
	Limit     int64     // Maximum requests allowed per window
	Remaining int64     // Requests remaining in the current window
	Reset     time.Time // When the window resets
}

// Known reports whether the envelope has been populated from a response.
func (e RateEnvelope) Known() bool {
	return e.Limit > 0
}

// parseRateEnvelope extracts the rate limit headers from a response. Values
// are clamped so the envelope invariant holds even if the server reports
// nonsense (e.g. remaining above limit after a limit downgrade).
func parseRateEnvelope(h http.Header) RateEnvelope {
	var env RateEnvelope

	if v, err := strconv.ParseInt(h.Get("X-RateLimit-Limit"), 10, 64); err == nil {
		env.Limit = v
	}
	if v, err := strconv.ParseInt(h.Get("X-RateLimit-Remaining"), 10, 64); err == nil {
		env.Remaining = v
	}
	if v, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil && v > 0 {
		env.Reset = time.Unix(v, 0)
	}

	if env.Remaining < 0 {
		env.Remaining = 0
	}
	if env.Remaining > env.Limit {
		env.Remaining = env.Limit
	}

	return env
}

// Repository is the metadata response for GET /repos/{owner}/{repo}.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Size          int    `json:"size"`
	Private       bool   `json:"private"`
	Visibility    string `json:"visibility"`
}

// commitResponse matches one item of GET /repos/{owner}/{repo}/commits.
// File-level detail is only populated by the per-commit detail endpoint.
type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"` // ISO 8601 timestamp
		} `json:"author"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"` // null for commits with no linked account
	Files []fileResponse `json:"files,omitempty"`
}

// fileResponse matches one changed-file entry of a commit detail response.
type fileResponse struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"` // added, modified, removed, renamed
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
}

// branchResponse matches one item of GET /repos/{owner}/{repo}/branches.
type branchResponse struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
	Protected bool `json:"protected"`
}

// compareResponse matches GET /repos/{owner}/{repo}/compare/{base}...{head}.
// Only the divergence counts are needed.
type compareResponse struct {
	AheadBy  int `json:"ahead_by"`
	BehindBy int `json:"behind_by"`
}

// pullResponse matches one item of GET /repos/{owner}/{repo}/pulls. The list
// endpoint omits additions/deletions; the detail endpoint fills them in on
// the same shape.
type pullResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"` // open or closed; merged derived from merged_at
	Draft  bool   `json:"draft"`
	User   *struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt          string `json:"created_at"`
	MergedAt           string `json:"merged_at"`
	ClosedAt           string `json:"closed_at"`
	Additions          int    `json:"additions"`
	Deletions          int    `json:"deletions"`
	RequestedReviewers []struct {
		Login string `json:"login"`
	} `json:"requested_reviewers"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

// reviewResponse matches one item of GET /repos/{owner}/{repo}/pulls/{n}/reviews.
type reviewResponse struct {
	User *struct {
		Login string `json:"login"`
	} `json:"user"`
	State       string `json:"state"` // APPROVED, CHANGES_REQUESTED, COMMENTED
	SubmittedAt string `json:"submitted_at"`
}

// apiErrorResponse matches the error body GitHub returns for 4xx responses.
type apiErrorResponse struct {
	Message string `json:"message"`
}
