// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (reviews.go) fetches the reviews of one pull request. Reviews for
// a set of pull requests are fanned out by the engine's worker pool.
package ghapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aryanjha256/gitflux-sub000/internal/analytics"
)

// FetchReviews pulls the review list for one pull request. Reviews without a
// submission timestamp (pending reviews) are skipped and counted.
func (c *Client) FetchReviews(ctx context.Context, owner, repo string, pullNumber int, opts FetchOptions) (FetchResult[analytics.Review], int, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", owner, repo, pullNumber)
	skipped := 0

	result, err := fetchAllPages(ctx, opts, func(ctx context.Context, pageNum, perPage int) ([]analytics.Review, RateEnvelope, error) {
		query := pageQuery(pageNum, perPage)

		var wire []reviewResponse
		env, err := c.get(ctx, path, query, &wire)
		if err != nil {
			return nil, env, err
		}

		records := make([]analytics.Review, 0, len(wire))
		for _, item := range wire {
			record, ok := mapReview(pullNumber, item)
			if !ok {
				skipped++
				continue
			}
			records = append(records, record)
		}
		return records, env, nil
	})

	return result, skipped, err
}

// mapReview converts a wire review to a record.
func mapReview(pullNumber int, wire reviewResponse) (analytics.Review, bool) {
	submitted, err := time.Parse(time.RFC3339, wire.SubmittedAt)
	if err != nil {
		return analytics.Review{}, false
	}

	record := analytics.Review{
		PullNumber:  pullNumber,
		SubmittedAt: submitted,
	}
	if wire.User != nil {
		record.Reviewer = wire.User.Login
	}

	switch strings.ToUpper(wire.State) {
	case "APPROVED":
		record.Outcome = analytics.ReviewApproved
	case "CHANGES_REQUESTED":
		record.Outcome = analytics.ReviewChangesRequested
	default:
		record.Outcome = analytics.ReviewCommented
	}

	return record, true
}
