// Package ghapi provides the GitHub REST API client used by the analysis engine.
//
// This file (commits.go) fetches commit listings and per-commit detail, and
// maps the wire shapes into analytics records. Records whose timestamps fail
// to parse are dropped and counted so the caller can surface a partial-data
// warning.
package ghapi

import (
	"context"
	"fmt"
	"time"

	"github.com/aryanjha256/gitflux-sub000/internal/analytics"
)

// FetchCommits pulls the commit history for owner/repo constrained to the
// given window, page by page. The returned skipped count is the number of
// wire records that failed to map into commit records.
func (c *Client) FetchCommits(ctx context.Context, owner, repo string, window analytics.Window, opts FetchOptions) (FetchResult[analytics.Commit], int, error) {
	path := fmt.Sprintf("/repos/%s/%s/commits", owner, repo)
	skipped := 0

	result, err := fetchAllPages(ctx, opts, func(ctx context.Context, pageNum, perPage int) ([]analytics.Commit, RateEnvelope, error) {
		query := pageQuery(pageNum, perPage)
		if !window.Since.IsZero() {
			query.Set("since", window.Since.UTC().Format(time.RFC3339))
		}
		if !window.Until.IsZero() {
			query.Set("until", window.Until.UTC().Format(time.RFC3339))
		}

		var wire []commitResponse
		env, err := c.get(ctx, path, query, &wire)
		if err != nil {
			return nil, env, err
		}

		records := make([]analytics.Commit, 0, len(wire))
		for _, item := range wire {
			record, ok := mapCommit(item)
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

// FetchCommitDetail fetches one commit with its changed-file descriptors.
func (c *Client) FetchCommitDetail(ctx context.Context, owner, repo, sha string, retry RetryPolicy) (analytics.Commit, RateEnvelope, error) {
	type detailPage struct {
		commit analytics.Commit
		env    RateEnvelope
	}

	result, err := WithRetry(ctx, retry, func(ctx context.Context) (detailPage, error) {
		var wire commitResponse
		env, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/commits/%s", owner, repo, sha), nil, &wire)
		if err != nil {
			return detailPage{env: env}, err
		}
		record, ok := mapCommit(wire)
		if !ok {
			return detailPage{env: env}, &HTTPError{StatusCode: 200, Message: "commit " + sha + " has no parsable timestamp"}
		}
		return detailPage{commit: record, env: env}, nil
	})
	if err != nil {
		return analytics.Commit{}, result.env, err
	}
	return result.commit, result.env, nil
}

// mapCommit converts a wire commit to a record. Returns false when the
// record cannot be mapped (missing SHA or unparsable timestamp).
func mapCommit(wire commitResponse) (analytics.Commit, bool) {
	if wire.SHA == "" {
		return analytics.Commit{}, false
	}
	ts, err := time.Parse(time.RFC3339, wire.Commit.Author.Date)
	if err != nil {
		return analytics.Commit{}, false
	}

	record := analytics.Commit{
		SHA:       wire.SHA,
		Author:    wire.Commit.Author.Name,
		Timestamp: ts,
		Message:   wire.Commit.Message,
	}
	if wire.Author != nil {
		record.Login = wire.Author.Login
	}
	if record.Author == "" {
		record.Author = record.Login
	}

	for _, f := range wire.Files {
		record.Files = append(record.Files, analytics.ChangedFile{
			Path:      f.Filename,
			Status:    mapFileStatus(f.Status),
			Additions: f.Additions,
			Deletions: f.Deletions,
			Changes:   f.Changes,
		})
	}

	return record, true
}

// mapFileStatus normalizes the wire status vocabulary ("removed" vs
// "deleted", copied treated as added).
func mapFileStatus(status string) analytics.FileStatus {
	switch status {
	case "added", "copied":
		return analytics.FileAdded
	case "removed", "deleted":
		return analytics.FileDeleted
	case "renamed":
		return analytics.FileRenamed
	default:
		return analytics.FileModified
	}
}
