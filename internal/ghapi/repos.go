// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (repos.go) fetches repository metadata.
package ghapi

import (
	"context"
	"fmt"
)

// FetchRepository fetches the repository metadata (default branch, size,
// visibility) for owner/repo. A single retried request, no pagination.
func (c *Client) FetchRepository(ctx context.Context, owner, repo string, retry RetryPolicy) (Repository, RateEnvelope, error) {
	type repoPage struct {
		repo Repository
		env  RateEnvelope
	}

	result, err := WithRetry(ctx, retry, func(ctx context.Context) (repoPage, error) {
		var meta Repository
		env, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), nil, &meta)
		return repoPage{repo: meta, env: env}, err
	})
	if err != nil {
		return Repository{}, result.env, err
	}
	return result.repo, result.env, nil
}
