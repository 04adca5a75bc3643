// Package analytics implements the pure aggregation pipeline.
//
// This file (window.go) defines the time window used to filter records
// before aggregation. A window is a closed-open interval [Since, Until);
// the enumerated presets resolve deterministically against the anchor time
// passed in, so the same (preset, anchor) pair always yields the same bounds.
package analytics

import "time"

// Preset names the canonical window choices.
type Preset string

const (
	Last30Days Preset = "30d"
	Last90Days Preset = "90d"
	Last3Mo    Preset = "3m"
	Last6Mo    Preset = "6m"
	LastYear   Preset = "1y"
	AllTime    Preset = "all"
)

// Window is a closed-open interval [Since, Until). A zero Since means
// unbounded past; a zero Until means "now" at resolution time.
type Window struct {
	Since time.Time
	Until time.Time
}

// ResolveWindow turns a preset into concrete bounds anchored at now.
// Unknown presets resolve to all-time.
func ResolveWindow(preset Preset, now time.Time) Window {
	switch preset {
	case Last30Days:
		return Window{Since: now.AddDate(0, 0, -30), Until: now}
	case Last90Days:
		return Window{Since: now.AddDate(0, 0, -90), Until: now}
	case Last3Mo:
		return Window{Since: now.AddDate(0, -3, 0), Until: now}
	case Last6Mo:
		return Window{Since: now.AddDate(0, -6, 0), Until: now}
	case LastYear:
		return Window{Since: now.AddDate(-1, 0, 0), Until: now}
	default:
		return Window{Until: now}
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Since.IsZero() && t.Before(w.Since) {
		return false
	}
	if !w.Until.IsZero() && !t.Before(w.Until) {
		return false
	}
	return true
}

// FilterCommits returns the commits whose timestamps fall inside w,
// preserving input order.
func FilterCommits(commits []Commit, w Window) []Commit {
	out := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if w.Contains(c.Timestamp) {
			out = append(out, c)
		}
	}
	return out
}

// FilterPulls returns the pull requests created inside w, preserving input
// order.
func FilterPulls(pulls []PullRequest, w Window) []PullRequest {
	out := make([]PullRequest, 0, len(pulls))
	for _, p := range pulls {
		if w.Contains(p.CreatedAt) {
			out = append(out, p)
		}
	}
	return out
}

// FilterReviews returns the reviews submitted inside w, preserving input
// order.
func FilterReviews(reviews []Review, w Window) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if w.Contains(r.SubmittedAt) {
			out = append(out, r)
		}
	}
	return out
}
