// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (pulls.go) fetches pull requests and maps them into records. The
// list endpoint omits line counts; FetchPullDetail fills them in from the
// per-PR endpoint when size analytics are requested.
package ghapi

import (
	"context"
	"fmt"
	"time"

	"github.com/aryanjha256/gitflux-sub000/internal/analytics"
)

// FetchPulls pulls the pull-request list (state=all) for owner/repo. The
// skipped count reports wire records that failed to map.
func (c *Client) FetchPulls(ctx context.Context, owner, repo string, opts FetchOptions) (FetchResult[analytics.PullRequest], int, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
	skipped := 0

	result, err := fetchAllPages(ctx, opts, func(ctx context.Context, pageNum, perPage int) ([]analytics.PullRequest, RateEnvelope, error) {
		query := pageQuery(pageNum, perPage)
		query.Set("state", "all")
		query.Set("sort", "created")
		query.Set("direction", "desc")

		var wire []pullResponse
		env, err := c.get(ctx, path, query, &wire)
		if err != nil {
			return nil, env, err
		}

		records := make([]analytics.PullRequest, 0, len(wire))
		for _, item := range wire {
			record, ok := mapPull(item)
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

// FetchPullDetail fetches one pull request with line counts populated.
func (c *Client) FetchPullDetail(ctx context.Context, owner, repo string, number int, retry RetryPolicy) (analytics.PullRequest, RateEnvelope, error) {
	type detailPage struct {
		pull analytics.PullRequest
		env  RateEnvelope
	}

	result, err := WithRetry(ctx, retry, func(ctx context.Context) (detailPage, error) {
		var wire pullResponse
		env, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number), nil, &wire)
		if err != nil {
			return detailPage{env: env}, err
		}
		record, ok := mapPull(wire)
		if !ok {
			return detailPage{env: env}, &HTTPError{StatusCode: 200, Message: fmt.Sprintf("pull request %d has no parsable created_at", number)}
		}
		return detailPage{pull: record, env: env}, nil
	})
	if err != nil {
		return analytics.PullRequest{}, result.env, err
	}
	return result.pull, result.env, nil
}

// mapPull converts a wire pull request to a record. The merged state is
// derived from merged_at since the wire state only distinguishes open and
// closed.
func mapPull(wire pullResponse) (analytics.PullRequest, bool) {
	if wire.Number == 0 {
		return analytics.PullRequest{}, false
	}
	created, err := time.Parse(time.RFC3339, wire.CreatedAt)
	if err != nil {
		return analytics.PullRequest{}, false
	}

	record := analytics.PullRequest{
		Number:    wire.Number,
		Title:     wire.Title,
		Draft:     wire.Draft,
		CreatedAt: created,
		Additions: wire.Additions,
		Deletions: wire.Deletions,
	}
	if wire.User != nil {
		record.Author = wire.User.Login
	}
	if t, err := time.Parse(time.RFC3339, wire.MergedAt); err == nil {
		record.MergedAt = t
	}
	if t, err := time.Parse(time.RFC3339, wire.ClosedAt); err == nil {
		record.ClosedAt = t
	}

	switch {
	case !record.MergedAt.IsZero():
		record.State = analytics.PullMerged
	case wire.State == "closed":
		record.State = analytics.PullClosed
	default:
		record.State = analytics.PullOpen
	}

	for _, r := range wire.RequestedReviewers {
		record.Reviewers = append(record.Reviewers, r.Login)
	}
	for _, l := range wire.Labels {
		record.Labels = append(record.Labels, l.Name)
	}

	return record, true
}
