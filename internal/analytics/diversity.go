// Package analytics implements the pure aggregation pipeline.
//
// This file (diversity.go) computes the normalized Shannon-entropy diversity
// score shared by the file-category and reviewer distributions.
package analytics

import "math"

// DiversityScore measures how evenly a distribution is spread, as an integer
// percentage. It is the Shannon entropy of the distribution normalized by
// log2(min(groups, 8)). Empty and single-group distributions score 0.
func DiversityScore(counts []int) int {
	total := 0
	groups := 0
	for _, c := range counts {
		if c > 0 {
			total += c
			groups++
		}
	}
	if groups < 2 || total == 0 {
		return 0
	}

	var entropy float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}

	denom := groups
	if denom > maxEntropyGroups {
		denom = maxEntropyGroups
	}
	normalized := entropy / math.Log2(float64(denom))
	if normalized > 1 {
		normalized = 1
	}

	return int(math.Round(normalized * 100))
}
