// Package analytics implements the pure aggregation pipeline.
//
// This file (branches.go) scores branch health on a 0-100 scale from
// recency, divergence from the default branch, and activity status.
package analytics

import (
	"math"
	"sort"
	"time"
)

// BranchStatus classifies a branch's lifecycle state.
type BranchStatus string

const (
	BranchActive BranchStatus = "active"
	BranchStale  BranchStatus = "stale"
	BranchMerged BranchStatus = "merged"
)

// Branch health tuning. The weights sum to 100; behindThreshold is the
// behind count at which the divergence penalty saturates.
const (
	recencyWeight    = 50.0
	divergenceWeight = 30.0
	activeBonus      = 20.0

	recencyFullDays = 7
	recencyZeroDays = 90
	activeWithin    = 30 * 24 * time.Hour

	// DefaultBehindThreshold is the behind count at which the divergence
	// penalty reaches its maximum.
	DefaultBehindThreshold = 50
)

// BranchHealth is the scored view of one branch.
type BranchHealth struct {
	Branch
	Status BranchStatus
	Score  int // 0-100
}

// ScoreBranches scores every branch. Results are ordered by score
// descending, name ascending on ties. now anchors recency so the scoring is
// deterministic; behindThreshold <= 0 falls back to the default.
func ScoreBranches(branches []Branch, behindThreshold int, now time.Time) []BranchHealth {
	if behindThreshold <= 0 {
		behindThreshold = DefaultBehindThreshold
	}

	scored := make([]BranchHealth, 0, len(branches))
	for _, b := range branches {
		status := branchStatus(b, now)
		scored = append(scored, BranchHealth{
			Branch: b,
			Status: status,
			Score:  healthScore(b, status, behindThreshold, now),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Name < scored[j].Name
	})

	return scored
}

// branchStatus derives the lifecycle state: merged when fully contained in
// the default branch, active when recently committed to, stale otherwise.
func branchStatus(b Branch, now time.Time) BranchStatus {
	if !b.IsDefault && b.Ahead == 0 {
		return BranchMerged
	}
	if !b.LastCommitTime.IsZero() && now.Sub(b.LastCommitTime) <= activeWithin {
		return BranchActive
	}
	return BranchStale
}

// healthScore combines recency decay, divergence penalty, and an activity
// bonus, clamped to [0, 100]. Holding recency and status fixed, the score is
// monotonically non-increasing in the behind count.
func healthScore(b Branch, status BranchStatus, behindThreshold int, now time.Time) int {
	// Recency: full credit within recencyFullDays, linear decay to zero at
	// recencyZeroDays.
	recency := 0.0
	if !b.LastCommitTime.IsZero() {
		ageDays := now.Sub(b.LastCommitTime).Hours() / 24
		switch {
		case ageDays <= recencyFullDays:
			recency = 1.0
		case ageDays >= recencyZeroDays:
			recency = 0.0
		default:
			recency = 1.0 - (ageDays-recencyFullDays)/(recencyZeroDays-recencyFullDays)
		}
	}

	// Divergence: penalty grows with behind count, saturating at the
	// threshold.
	divergence := float64(b.Behind) / float64(behindThreshold)
	if divergence > 1 {
		divergence = 1
	}

	score := recencyWeight*recency + divergenceWeight*(1-divergence)
	if status == BranchActive {
		score += activeBonus
	}

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
