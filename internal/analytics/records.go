// Package analytics implements the pure aggregation pipeline. All functions
// in this package are deterministic: identical inputs produce identical
// outputs, independent of call order or cache state. Malformed individual
// records are skipped and counted, never raised as errors.
//
// This file (records.go) defines the raw record types produced by the API
// client. They are immutable value types; callers own the lifetime of every
// structure returned by this package.
package analytics

import "time"

// FileStatus describes what happened to a file in a commit.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
)

// ChangedFile is one changed-file descriptor within a commit.
type ChangedFile struct {
	Path      string
	Status    FileStatus
	Additions int
	Deletions int
	Changes   int
}

// Commit is a raw commit record.
type Commit struct {
	SHA       string
	Author    string // display name
	Login     string // account login, may be empty
	Timestamp time.Time
	Message   string
	Files     []ChangedFile // populated only when detail was fetched
}

// Branch is a raw branch record with divergence counts relative to the
// default branch.
type Branch struct {
	Name           string
	HeadSHA        string
	LastCommitTime time.Time
	LastCommitBy   string
	Ahead          int
	Behind         int
	IsDefault      bool
}

// PullState is the lifecycle state of a pull request.
type PullState string

const (
	PullOpen   PullState = "open"
	PullClosed PullState = "closed"
	PullMerged PullState = "merged"
)

// PullRequest is a raw pull-request record.
type PullRequest struct {
	Number    int
	Title     string
	State     PullState
	Draft     bool
	Author    string
	Reviewers []string
	CreatedAt time.Time
	MergedAt  time.Time // zero when not merged
	ClosedAt  time.Time // zero when still open
	Additions int
	Deletions int
	Labels    []string
}

// ReviewOutcome is the verdict of one review.
type ReviewOutcome string

const (
	ReviewApproved         ReviewOutcome = "approved"
	ReviewChangesRequested ReviewOutcome = "changes_requested"
	ReviewCommented        ReviewOutcome = "commented"
)

// Review is a raw review record tied to its pull request by number.
type Review struct {
	PullNumber  int
	Reviewer    string
	Outcome     ReviewOutcome
	SubmittedAt time.Time
}
