// Package output renders analysis results for the terminal using pterm.
//
// This package is a presentation collaborator: it consumes the engine's
// result structures and never feeds back into its logic. Percentages are
// rounded to one decimal here, at presentation time; the stored values stay
// unrounded.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/aryanjha256/gitflux-sub000/internal/engine"
	"github.com/aryanjha256/gitflux-sub000/internal/ghapi"
)

// topFileDisplayLimit bounds the file ranking shown in the terminal.
const topFileDisplayLimit = 15

// PrintSectionHeader prints a prominent section header.
func PrintSectionHeader(title string) {
	pterm.Println()
	pterm.DefaultSection.Println(title)
}

// PrintRepoHeader prints the repository being analyzed.
func PrintRepoHeader(owner, repo string, window string) {
	pterm.Println()
	pterm.Info.Printf("📊 Analyzing %s/%s (window: %s)\n", owner, repo, window)
	pterm.Println()
}

// PrintPartialNotice warns that a result may be incomplete.
func PrintPartialNotice(src engine.Source) {
	if !src.Partial() {
		return
	}
	parts := []string{}
	if src.Truncated {
		parts = append(parts, "collection stopped before end of data")
	}
	if src.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d records skipped", src.Skipped))
	}
	pterm.Warning.Printf("⚠ Results may be incomplete: %s\n", strings.Join(parts, "; "))
}

// PrintRateEnvelope prints the quota left after an analysis.
func PrintRateEnvelope(env ghapi.RateEnvelope) {
	if !env.Known() {
		return
	}
	reset := "unknown"
	if !env.Reset.IsZero() {
		reset = env.Reset.Format("15:04:05")
	}
	pterm.Info.Printf("API quota: %d/%d remaining | resets at %s\n", env.Remaining, env.Limit, reset)
}

// PrintHeatmap prints the heatmap summary and a per-weekday distribution.
func PrintHeatmap(result engine.HeatmapResult) {
	PrintSectionHeader("Commit Activity")
	pterm.Info.Printf("Total commits: %d | Active days: %d | Mean/day: %.1f\n",
		result.TotalCommits, len(result.Buckets), result.MeanPerDay)
	if result.PeakCount > 0 {
		pterm.Info.Printf("Peak day: %s (%d commits)\n",
			result.PeakDay.Format("2006-01-02"), result.PeakCount)
	}

	byWeekday := make([]int, 7)
	for _, b := range result.Buckets {
		byWeekday[b.Weekday] += b.Count
	}
	labels := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, label := range labels {
		pterm.Info.Printf("   %s %s (%d)\n", label, strings.Repeat("▪", byWeekday[i]), byWeekday[i])
	}
	PrintPartialNotice(result.Source)
}

// PrintTrends prints the contributor trend summary.
func PrintTrends(result engine.TrendsResult) {
	PrintSectionHeader("Contributor Trends")
	for _, c := range result.Contributors {
		arrow := "→"
		switch c.Trend {
		case "up":
			arrow = "↑"
		case "down":
			arrow = "↓"
		}
		pterm.Info.Printf("   %s %s — %d commits\n", arrow, c.Author, c.TotalCommits)
	}
	PrintPartialNotice(result.Source)
}

// PrintFileChanges prints the top changed files and the category breakdown.
func PrintFileChanges(result engine.FileChangesResult) {
	PrintSectionHeader("File Changes")
	pterm.Info.Printf("Total changed lines: %d | Diversity: %d%%\n", result.TotalChanges, result.Diversity)

	files := result.Files
	if len(files) > topFileDisplayLimit {
		files = files[:topFileDisplayLimit]
	}
	for _, f := range files {
		marker := ""
		if f.Deleted {
			marker = " (deleted)"
		}
		pterm.Info.Printf("   %-50s %6d (%.1f%%) [%s]%s\n", f.Path, f.Changes, f.Percent, f.Category, marker)
	}

	pterm.Println()
	for _, c := range result.Categories {
		pterm.Info.Printf("   %-10s %6d (%.1f%%)\n", c.Category, c.Changes, c.Percent)
	}
	PrintPartialNotice(result.Source)
}

// PrintBranchHealth prints scored branches.
func PrintBranchHealth(result engine.BranchHealthResult) {
	PrintSectionHeader("Branch Health")
	pterm.Info.Printf("Default branch: %s\n", result.DefaultBranch)
	for _, b := range result.Branches {
		age := "never"
		if !b.LastCommitTime.IsZero() {
			age = fmt.Sprintf("%dd ago", int(time.Since(b.LastCommitTime).Hours()/24))
		}
		pterm.Info.Printf("   %3d  %-40s %-7s +%d/-%d, last commit %s\n",
			b.Score, b.Name, b.Status, b.Ahead, b.Behind, age)
	}
	PrintPartialNotice(result.Source)
}

// PrintPulls prints the PR analytics summary.
func PrintPulls(result engine.PullsResult) {
	PrintSectionHeader("Pull Requests")
	pterm.Info.Printf("Total: %d | Merge rate: %.1f%% | Mean time to merge: %.1fh\n",
		result.Total, result.MergeRate*100, result.MeanHoursToMerge)
	for _, bucket := range []string{"XS", "S", "M", "L", "XL"} {
		pterm.Info.Printf("   %-3s %d\n", bucket, result.SizeHistogram[bucket])
	}
	if len(result.TopContributors) > 0 {
		pterm.Println()
		for _, c := range result.TopContributors {
			pterm.Info.Printf("   %s — %d PRs\n", c.Author, c.Count)
		}
	}
	PrintPartialNotice(result.Source)
}

// PrintReviews prints the review analytics summary.
func PrintReviews(result engine.ReviewsResult) {
	PrintSectionHeader("Reviews")
	pterm.Info.Printf("Total: %d | Mean/PR: %.1f | First review: %.1fh | Approval: %.1fh | Diversity: %d%%\n",
		result.TotalReviews, result.MeanReviewsPerPull,
		result.MeanHoursToFirst, result.MeanHoursToApproval, result.Diversity)
	for _, r := range result.Reviewers {
		pterm.Info.Printf("   %-20s %4d reviews | approve %.0f%% | request changes %.0f%% | response %.1fh\n",
			r.Reviewer, r.Count, r.ApprovalRate*100, r.ChangeRequestRate*100, r.MeanResponseHours)
	}
	PrintPartialNotice(result.Source)
}
