// Package analytics implements the pure aggregation pipeline.
//
// This file (reviews.go) computes review analytics: response times,
// per-reviewer statistics, and the daily review pattern.
package analytics

import (
	"sort"
	"time"
)

// ReviewerStats summarizes one reviewer's activity.
type ReviewerStats struct {
	Reviewer          string
	Count             int
	ApprovalRate      float64 // approved / count
	ChangeRequestRate float64 // changes_requested / count
	MeanResponseHours float64 // review submission minus PR creation, over PRs seen
}

// ReviewDay is one day of the review-pattern series.
type ReviewDay struct {
	Date  time.Time
	Count int
}

// ReviewAnalytics summarizes a set of reviews against their pull requests.
type ReviewAnalytics struct {
	TotalReviews        int
	MeanReviewsPerPull  float64         // over the supplied PR set
	MeanHoursToFirst    float64         // earliest review minus PR creation, PRs with no review excluded
	MeanHoursToApproval float64         // first approval minus PR creation, PRs with no approval excluded
	Reviewers           []ReviewerStats // descending by count, reviewer ascending on ties
	DailyPattern        []ReviewDay     // ordered by date ascending
	Diversity           int             // reviewer-distribution diversity score, 0-100
}

// AnalyzeReviews computes review analytics. PRs with no review (or no
// approval) are excluded from the respective means rather than treated as
// zero responses.
func AnalyzeReviews(reviews []Review, pulls []PullRequest) ReviewAnalytics {
	result := ReviewAnalytics{TotalReviews: len(reviews)}
	if len(pulls) > 0 {
		result.MeanReviewsPerPull = float64(len(reviews)) / float64(len(pulls))
	}

	createdAt := make(map[int]time.Time, len(pulls))
	for _, p := range pulls {
		createdAt[p.Number] = p.CreatedAt
	}

	firstReview := make(map[int]time.Time)
	firstApproval := make(map[int]time.Time)

	type reviewerAgg struct {
		count            int
		approved         int
		changesRequested int
		responseHours    float64
		responded        int
	}
	reviewers := make(map[string]*reviewerAgg)
	daily := make(map[time.Time]int)

	for _, r := range reviews {
		day := r.SubmittedAt.UTC().Truncate(24 * time.Hour)
		daily[day]++

		if t, ok := firstReview[r.PullNumber]; !ok || r.SubmittedAt.Before(t) {
			firstReview[r.PullNumber] = r.SubmittedAt
		}
		if r.Outcome == ReviewApproved {
			if t, ok := firstApproval[r.PullNumber]; !ok || r.SubmittedAt.Before(t) {
				firstApproval[r.PullNumber] = r.SubmittedAt
			}
		}

		if r.Reviewer == "" {
			continue
		}
		agg := reviewers[r.Reviewer]
		if agg == nil {
			agg = &reviewerAgg{}
			reviewers[r.Reviewer] = agg
		}
		agg.count++
		switch r.Outcome {
		case ReviewApproved:
			agg.approved++
		case ReviewChangesRequested:
			agg.changesRequested++
		}
		if created, ok := createdAt[r.PullNumber]; ok && !r.SubmittedAt.Before(created) {
			agg.responseHours += r.SubmittedAt.Sub(created).Hours()
			agg.responded++
		}
	}

	result.MeanHoursToFirst = meanHoursSince(firstReview, createdAt)
	result.MeanHoursToApproval = meanHoursSince(firstApproval, createdAt)

	result.Reviewers = make([]ReviewerStats, 0, len(reviewers))
	counts := make([]int, 0, len(reviewers))
	for name, agg := range reviewers {
		stats := ReviewerStats{
			Reviewer:          name,
			Count:             agg.count,
			ApprovalRate:      float64(agg.approved) / float64(agg.count),
			ChangeRequestRate: float64(agg.changesRequested) / float64(agg.count),
		}
		if agg.responded > 0 {
			stats.MeanResponseHours = agg.responseHours / float64(agg.responded)
		}
		result.Reviewers = append(result.Reviewers, stats)
		counts = append(counts, agg.count)
	}
	sort.Slice(result.Reviewers, func(i, j int) bool {
		if result.Reviewers[i].Count != result.Reviewers[j].Count {
			return result.Reviewers[i].Count > result.Reviewers[j].Count
		}
		return result.Reviewers[i].Reviewer < result.Reviewers[j].Reviewer
	})
	result.Diversity = DiversityScore(counts)

	result.DailyPattern = make([]ReviewDay, 0, len(daily))
	for day, count := range daily {
		result.DailyPattern = append(result.DailyPattern, ReviewDay{Date: day, Count: count})
	}
	sort.Slice(result.DailyPattern, func(i, j int) bool {
		return result.DailyPattern[i].Date.Before(result.DailyPattern[j].Date)
	})

	return result
}

// meanHoursSince averages event-minus-creation in fractional hours over the
// PRs that have both timestamps. Events predating creation are skipped.
func meanHoursSince(events map[int]time.Time, createdAt map[int]time.Time) float64 {
	var hours float64
	n := 0
	for number, event := range events {
		created, ok := createdAt[number]
		if !ok || event.Before(created) {
			continue
		}
		hours += event.Sub(created).Hours()
		n++
	}
	if n == 0 {
		return 0
	}
	return hours / float64(n)
}
