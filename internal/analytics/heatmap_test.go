package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitAt(author, ts string) Commit {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return Commit{SHA: author + ts, Author: author, Timestamp: t}
}

func day(date string) time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// TestBuildHeatmapScenario covers the canonical three-commit dataset: two
// commits on one day, one on the next.
func TestBuildHeatmapScenario(t *testing.T) {
	commits := []Commit{
		commitAt("alice", "2024-01-01T09:00:00Z"),
		commitAt("bob", "2024-01-01T15:30:00Z"),
		commitAt("alice", "2024-01-02T11:00:00Z"),
	}

	hm := BuildHeatmap(commits)

	assert.Equal(t, 3, hm.TotalCommits)
	assert.Equal(t, day("2024-01-01"), hm.PeakDay)
	assert.Equal(t, 2, hm.PeakCount)

	require.Len(t, hm.Buckets, 2)
	assert.Equal(t, 2, hm.Buckets[0].Count)
	assert.Equal(t, []string{"alice", "bob"}, hm.Buckets[0].Authors)
	assert.Equal(t, 1, hm.Buckets[1].Count)
	assert.Equal(t, []string{"alice"}, hm.Buckets[1].Authors)

	// 2024-01-01 is a Monday.
	assert.Equal(t, 1, hm.Buckets[0].Weekday)

	assert.InDelta(t, 1.5, hm.MeanPerDay, 1e-9)
}

// TestBuildHeatmapBucketSumEqualsTotal verifies bucket counts always add up
// to the commit count regardless of how the input is shuffled.
func TestBuildHeatmapBucketSumEqualsTotal(t *testing.T) {
	commits := []Commit{
		commitAt("a", "2024-03-05T01:00:00Z"),
		commitAt("b", "2024-03-01T23:59:59Z"),
		commitAt("a", "2024-03-05T22:00:00Z"),
		commitAt("c", "2024-03-03T12:00:00Z"),
		commitAt("a", "2024-03-01T00:00:00Z"),
	}

	hm := BuildHeatmap(commits)

	sum := 0
	for _, b := range hm.Buckets {
		sum += b.Count
	}
	assert.Equal(t, len(commits), sum)
	assert.Equal(t, len(commits), hm.TotalCommits)

	// Buckets are ordered by date.
	for i := 1; i < len(hm.Buckets); i++ {
		assert.True(t, hm.Buckets[i-1].Date.Before(hm.Buckets[i].Date))
	}
}

// TestBuildHeatmapPeakTieEarliestWins verifies that when two days tie for the
// peak, the earlier date is reported.
func TestBuildHeatmapPeakTieEarliestWins(t *testing.T) {
	commits := []Commit{
		commitAt("a", "2024-06-10T10:00:00Z"),
		commitAt("b", "2024-06-10T11:00:00Z"),
		commitAt("a", "2024-06-12T10:00:00Z"),
		commitAt("b", "2024-06-12T11:00:00Z"),
	}

	hm := BuildHeatmap(commits)

	assert.Equal(t, 2, hm.PeakCount)
	assert.Equal(t, day("2024-06-10"), hm.PeakDay)
}

// TestBuildHeatmapMeanSpansGaps verifies inactive days between the first and
// last active day still dilute the mean.
func TestBuildHeatmapMeanSpansGaps(t *testing.T) {
	commits := []Commit{
		commitAt("a", "2024-01-01T10:00:00Z"),
		commitAt("a", "2024-01-10T10:00:00Z"),
	}

	hm := BuildHeatmap(commits)

	// 2 commits over a 10-day span.
	assert.InDelta(t, 0.2, hm.MeanPerDay, 1e-9)
}

func TestBuildHeatmapEmpty(t *testing.T) {
	hm := BuildHeatmap(nil)

	assert.Empty(t, hm.Buckets)
	assert.Equal(t, 0, hm.TotalCommits)
	assert.Equal(t, 0, hm.PeakCount)
	assert.True(t, hm.PeakDay.IsZero())
	assert.Equal(t, 0.0, hm.MeanPerDay)
}

// TestBuildHeatmapUTCBucketing verifies commits are bucketed by their UTC
// calendar day even when the source timestamp carries an offset.
func TestBuildHeatmapUTCBucketing(t *testing.T) {
	late, err := time.Parse(time.RFC3339, "2024-04-01T23:30:00-05:00") // 04:30 UTC next day
	require.NoError(t, err)

	hm := BuildHeatmap([]Commit{{SHA: "x", Author: "a", Timestamp: late}})

	require.Len(t, hm.Buckets, 1)
	assert.Equal(t, day("2024-04-02"), hm.Buckets[0].Date)
}
