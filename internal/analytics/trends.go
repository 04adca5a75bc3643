// Package analytics implements the pure aggregation pipeline.
//
// This file (trends.go) builds per-contributor daily commit series with
// local trend tags.
package analytics

import (
	"sort"
	"time"
)

// Trend tags the local direction of a contributor's recent activity.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// TrendPoint is one day of one contributor's series.
type TrendPoint struct {
	Date  time.Time
	Count int
}

// ContributorTrend is the activity series for one author.
type ContributorTrend struct {
	Author       string
	Series       []TrendPoint // one point per active day in the dataset, zero-filled
	Trend        Trend        // direction of the most recent 3-point window
	TotalCommits int
}

// BuildContributorTrends groups commits by author. Every author's series
// spans the union of all dates present in the full dataset, with missing
// days filled with zero, so series are directly comparable across authors.
// Results are ordered by total commits descending, author ascending on ties.
func BuildContributorTrends(commits []Commit) []ContributorTrend {
	dateSet := make(map[time.Time]struct{})
	perAuthor := make(map[string]map[time.Time]int)

	for _, c := range commits {
		author := c.Author
		if author == "" {
			author = c.Login
		}
		if author == "" {
			continue
		}
		day := c.Timestamp.UTC().Truncate(24 * time.Hour)
		dateSet[day] = struct{}{}
		if perAuthor[author] == nil {
			perAuthor[author] = make(map[time.Time]int)
		}
		perAuthor[author][day]++
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	trends := make([]ContributorTrend, 0, len(perAuthor))
	for author, counts := range perAuthor {
		trend := ContributorTrend{Author: author, Series: make([]TrendPoint, 0, len(dates))}
		for _, d := range dates {
			count := counts[d]
			trend.Series = append(trend.Series, TrendPoint{Date: d, Count: count})
			trend.TotalCommits += count
		}
		trend.Trend = localTrend(trend.Series)
		trends = append(trends, trend)
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].TotalCommits != trends[j].TotalCommits {
			return trends[i].TotalCommits > trends[j].TotalCommits
		}
		return trends[i].Author < trends[j].Author
	})

	return trends
}

// localTrend compares the last point of the most recent 3-point window to
// its first point: increasing is up, decreasing is down, anything else is
// stable. Series shorter than 2 points are stable.
func localTrend(series []TrendPoint) Trend {
	if len(series) < 2 {
		return TrendStable
	}
	start := len(series) - 3
	if start < 0 {
		start = 0
	}
	window := series[start:]
	first, last := window[0].Count, window[len(window)-1].Count
	switch {
	case last > first:
		return TrendUp
	case last < first:
		return TrendDown
	default:
		return TrendStable
	}
}
