// Package analytics implements the pure aggregation pipeline.
//
// This file (pulls.go) computes pull-request analytics: state counts, merge
// rate, time-to-merge, size buckets, and top contributors.
package analytics

import "sort"

// Size bucket names, ordered smallest to largest.
var SizeBuckets = []string{"XS", "S", "M", "L", "XL"}

// CategorizePRSize buckets a pull request by total lines changed. Upper
// bounds are inclusive; the first matching bucket wins.
func CategorizePRSize(linesChanged int) string {
	switch {
	case linesChanged <= 10:
		return "XS"
	case linesChanged <= 50:
		return "S"
	case linesChanged <= 200:
		return "M"
	case linesChanged <= 500:
		return "L"
	default:
		return "XL"
	}
}

// ContributorCount pairs an author with a PR count.
type ContributorCount struct {
	Author string
	Count  int
}

// PullAnalytics summarizes a set of pull requests.
type PullAnalytics struct {
	Total            int
	CountsByState    map[PullState]int
	MergeRate        float64            // merged / total, 0 for an empty set
	MeanHoursToMerge float64            // over merged PRs only
	SizeHistogram    map[string]int     // bucket name -> count, every bucket present
	TopContributors  []ContributorCount // descending by count, author ascending on ties
}

// topContributorLimit bounds the top-contributors list.
const topContributorLimit = 5

// AnalyzePulls computes PR analytics. PRs without a merge timestamp are
// excluded from the time-to-merge mean rather than treated as zero.
func AnalyzePulls(pulls []PullRequest) PullAnalytics {
	result := PullAnalytics{
		Total:         len(pulls),
		CountsByState: make(map[PullState]int),
		SizeHistogram: make(map[string]int, len(SizeBuckets)),
	}
	for _, bucket := range SizeBuckets {
		result.SizeHistogram[bucket] = 0
	}

	byAuthor := make(map[string]int)
	merged := 0
	var mergeHours float64

	for _, p := range pulls {
		result.CountsByState[p.State]++
		result.SizeHistogram[CategorizePRSize(p.Additions+p.Deletions)]++
		if p.Author != "" {
			byAuthor[p.Author]++
		}
		if p.State == PullMerged && !p.MergedAt.IsZero() {
			merged++
			mergeHours += p.MergedAt.Sub(p.CreatedAt).Hours()
		}
	}

	if result.Total > 0 {
		result.MergeRate = float64(result.CountsByState[PullMerged]) / float64(result.Total)
	}
	if merged > 0 {
		result.MeanHoursToMerge = mergeHours / float64(merged)
	}

	contributors := make([]ContributorCount, 0, len(byAuthor))
	for author, count := range byAuthor {
		contributors = append(contributors, ContributorCount{Author: author, Count: count})
	}
	sort.Slice(contributors, func(i, j int) bool {
		if contributors[i].Count != contributors[j].Count {
			return contributors[i].Count > contributors[j].Count
		}
		return contributors[i].Author < contributors[j].Author
	})
	if len(contributors) > topContributorLimit {
		contributors = contributors[:topContributorLimit]
	}
	result.TopContributors = contributors

	return result
}
