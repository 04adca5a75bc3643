// Package analytics implements the pure aggregation pipeline.
//
// This file (heatmap.go) buckets commits by calendar day for activity
// heatmaps.
package analytics

import (
	"sort"
	"time"
)

// HeatmapBucket is one day of activity.
type HeatmapBucket struct {
	Date    time.Time // midnight UTC
	Weekday int       // 0 = Sunday .. 6 = Saturday
	Count   int
	Authors []string // distinct contributing authors, sorted
}

// Heatmap is the per-day activity grid with derived totals.
type Heatmap struct {
	Buckets      []HeatmapBucket // ordered by date ascending
	TotalCommits int
	PeakDay      time.Time // day with the highest count; earliest date wins ties
	PeakCount    int
	MeanPerDay   float64 // total / distinct days spanned (inclusive), day count floored at 1
}

// BuildHeatmap buckets commits by calendar day (UTC). Buckets exist only for
// days with activity; MeanPerDay divides by the full span between first and
// last active day so gaps still dilute the mean.
func BuildHeatmap(commits []Commit) Heatmap {
	type dayAgg struct {
		count   int
		authors map[string]struct{}
	}

	days := make(map[time.Time]*dayAgg)
	for _, c := range commits {
		day := c.Timestamp.UTC().Truncate(24 * time.Hour)
		agg := days[day]
		if agg == nil {
			agg = &dayAgg{authors: make(map[string]struct{})}
			days[day] = agg
		}
		agg.count++
		if c.Author != "" {
			agg.authors[c.Author] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(days))
	for day := range days {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	result := Heatmap{Buckets: make([]HeatmapBucket, 0, len(dates))}
	for _, day := range dates {
		agg := days[day]
		authors := make([]string, 0, len(agg.authors))
		for a := range agg.authors {
			authors = append(authors, a)
		}
		sort.Strings(authors)

		result.Buckets = append(result.Buckets, HeatmapBucket{
			Date:    day,
			Weekday: int(day.Weekday()),
			Count:   agg.count,
			Authors: authors,
		})
		result.TotalCommits += agg.count

		// Strict greater-than keeps the earliest date on a tie because
		// dates are visited in ascending order.
		if agg.count > result.PeakCount {
			result.PeakCount = agg.count
			result.PeakDay = day
		}
	}

	spanned := 1
	if len(dates) > 1 {
		first, last := dates[0], dates[len(dates)-1]
		spanned = int(last.Sub(first).Hours()/24) + 1
	}
	if spanned < 1 {
		spanned = 1
	}
	result.MeanPerDay = float64(result.TotalCommits) / float64(spanned)

	return result
}
