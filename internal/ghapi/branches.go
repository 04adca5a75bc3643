// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (branches.go) fetches the branch list and the per-branch detail
// (head commit, divergence from the default branch) needed for health scoring.
package ghapi

import (
	"context"
	"fmt"

	"github.com/aryanjha256/gitflux-sub000/internal/analytics"
)

// FetchBranches pulls the branch list for owner/repo. The returned records
// carry only the name and head SHA; EnrichBranch fills in timestamps and
// ahead/behind counts.
func (c *Client) FetchBranches(ctx context.Context, owner, repo, defaultBranch string, opts FetchOptions) (FetchResult[analytics.Branch], error) {
	path := fmt.Sprintf("/repos/%s/%s/branches", owner, repo)

	return fetchAllPages(ctx, opts, func(ctx context.Context, pageNum, perPage int) ([]analytics.Branch, RateEnvelope, error) {
		query := pageQuery(pageNum, perPage)

		var wire []branchResponse
		env, err := c.get(ctx, path, query, &wire)
		if err != nil {
			return nil, env, err
		}

		records := make([]analytics.Branch, 0, len(wire))
		for _, item := range wire {
			if item.Name == "" {
				continue
			}
			records = append(records, analytics.Branch{
				Name:      item.Name,
				HeadSHA:   item.Commit.SHA,
				IsDefault: item.Name == defaultBranch,
			})
		}
		return records, env, nil
	})
}

// EnrichBranch fills in the head-commit timestamp/author and the ahead/behind
// divergence for one branch. The default branch skips the compare call; it is
// its own base.
func (c *Client) EnrichBranch(ctx context.Context, owner, repo, defaultBranch string, branch *analytics.Branch, retry RetryPolicy) (RateEnvelope, error) {
	head, env, err := c.FetchCommitDetail(ctx, owner, repo, branch.HeadSHA, retry)
	if err != nil {
		return env, err
	}
	branch.LastCommitTime = head.Timestamp
	branch.LastCommitBy = head.Author

	if branch.IsDefault {
		return env, nil
	}

	type comparePage struct {
		cmp compareResponse
		env RateEnvelope
	}
	result, err := WithRetry(ctx, retry, func(ctx context.Context) (comparePage, error) {
		var cmp compareResponse
		path := fmt.Sprintf("/repos/%s/%s/compare/%s...%s", owner, repo, defaultBranch, branch.Name)
		env, err := c.get(ctx, path, nil, &cmp)
		return comparePage{cmp: cmp, env: env}, err
	})
	if err != nil {
		return result.env, err
	}

	branch.Ahead = result.cmp.AheadBy
	branch.Behind = result.cmp.BehindBy
	return result.env, nil
}
