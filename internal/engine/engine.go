// Package engine ties the API client, the aggregation pipeline, and the
// result cache into one analysis entry point per analytics kind.
//
// Each entry point validates its input, pulls the raw records it needs
// through the paginated fetcher, filters them to the requested window, and
// hands them to the pure aggregation functions — memoized through the result
// cache so repeated calls over identical inputs recompute nothing. Every
// result carries Truncated and Skipped so callers can surface a partial-data
// notice instead of a hard failure.
package engine

import (
	"context"
	"strconv"
	"sync"

	"github.com/aryanjha256/gitflux-sub000/internal/analytics"
	"github.com/aryanjha256/gitflux-sub000/internal/cache"
	"github.com/aryanjha256/gitflux-sub000/internal/ghapi"
)

// Engine is the analysis facade. Safe for concurrent use; the result cache
// is the only shared mutable structure and is synchronized internally.
type Engine struct {
	client *ghapi.Client
	cache  *cache.Cache
	cfg    Config
}

// New builds an Engine around a client.
func New(client *ghapi.Client, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		client: client,
		cache:  cache.New(cfg.CacheSize),
		cfg:    cfg,
	}
}

// Source describes how complete the raw data behind a result is.
type Source struct {
	Truncated bool // pagination stopped before natural end-of-data
	Skipped   int  // records dropped because they failed to map
}

// Partial reports whether the result may be missing data.
func (s Source) Partial() bool {
	return s.Truncated || s.Skipped > 0
}

// HeatmapResult is a heatmap plus data-completeness info.
type HeatmapResult struct {
	analytics.Heatmap
	Source
}

// TrendsResult is the contributor trend set plus data-completeness info.
type TrendsResult struct {
	Contributors []analytics.ContributorTrend
	Source
}

// FileChangesResult is the file-change analysis plus data-completeness info.
type FileChangesResult struct {
	analytics.FileChangeAnalysis
	Source
}

// BranchHealthResult is the scored branch set plus data-completeness info.
type BranchHealthResult struct {
	Branches      []analytics.BranchHealth
	DefaultBranch string
	Source
}

// PullsResult is the PR analytics plus data-completeness info.
type PullsResult struct {
	analytics.PullAnalytics
	Source
}

// ReviewsResult is the review analytics plus data-completeness info.
type ReviewsResult struct {
	analytics.ReviewAnalytics
	Source
}

// Heatmap fetches commits for the window and builds the daily activity
// heatmap.
func (e *Engine) Heatmap(ctx context.Context, owner, repo string, preset analytics.Preset) (HeatmapResult, ghapi.RateEnvelope, error) {
	commits, window, src, env, err := e.fetchWindowedCommits(ctx, owner, repo, preset)
	if err != nil {
		return HeatmapResult{}, env, err
	}

	fp := cache.Fingerprint("heatmap", commitIDs(commits), window.Since, window.Until)
	heatmap := e.cache.GetOrCompute(fp, func() any {
		return analytics.BuildHeatmap(commits)
	}).(analytics.Heatmap)

	return HeatmapResult{Heatmap: heatmap, Source: src}, env, nil
}

// ContributorTrends fetches commits for the window and builds per-author
// daily series.
func (e *Engine) ContributorTrends(ctx context.Context, owner, repo string, preset analytics.Preset) (TrendsResult, ghapi.RateEnvelope, error) {
	commits, window, src, env, err := e.fetchWindowedCommits(ctx, owner, repo, preset)
	if err != nil {
		return TrendsResult{}, env, err
	}

	fp := cache.Fingerprint("trends", commitIDs(commits), window.Since, window.Until)
	trends := e.cache.GetOrCompute(fp, func() any {
		return analytics.BuildContributorTrends(commits)
	}).([]analytics.ContributorTrend)

	return TrendsResult{Contributors: trends, Source: src}, env, nil
}

// FileChanges fetches commits for the window, enriches up to DetailLimit of
// them with per-commit file detail, and ranks files by change volume.
func (e *Engine) FileChanges(ctx context.Context, owner, repo string, preset analytics.Preset) (FileChangesResult, ghapi.RateEnvelope, error) {
	commits, window, src, env, err := e.fetchWindowedCommits(ctx, owner, repo, preset)
	if err != nil {
		return FileChangesResult{}, env, err
	}

	detailed := commits
	if len(detailed) > e.cfg.DetailLimit {
		detailed = detailed[:e.cfg.DetailLimit]
		src.Truncated = true
	}

	envTracker := newEnvelopeTracker(env)
	failed := fanOut(ctx, e.cfg.MaxWorkers, len(detailed), func(ctx context.Context, i int) error {
		full, env, err := e.client.FetchCommitDetail(ctx, owner, repo, detailed[i].SHA, e.cfg.Retry)
		envTracker.observe(env)
		if err != nil {
			return err
		}
		detailed[i].Files = full.Files
		return nil
	})
	src.Skipped += failed
	env = envTracker.get()

	fp := cache.Fingerprint("files", commitIDs(detailed), window.Since, window.Until)
	result := e.cache.GetOrCompute(fp, func() any {
		return analytics.AnalyzeFileChanges(detailed)
	}).(analytics.FileChangeAnalysis)

	return FileChangesResult{FileChangeAnalysis: result, Source: src}, env, nil
}

// BranchHealth fetches the branch list, enriches each branch with its head
// commit and divergence from the default branch, and scores them.
func (e *Engine) BranchHealth(ctx context.Context, owner, repo string) (BranchHealthResult, ghapi.RateEnvelope, error) {
	if err := ghapi.ValidateOwnerRepo(owner, repo); err != nil {
		return BranchHealthResult{}, ghapi.RateEnvelope{}, err
	}

	meta, env, err := e.client.FetchRepository(ctx, owner, repo, e.cfg.Retry)
	if err != nil {
		return BranchHealthResult{}, env, err
	}

	fetched, err := e.client.FetchBranches(ctx, owner, repo, meta.DefaultBranch, e.cfg.fetchOptions())
	if err != nil {
		return BranchHealthResult{}, fetched.Envelope, err
	}

	src := Source{Truncated: fetched.Truncated}
	branches := fetched.Records
	if len(branches) > e.cfg.DetailLimit {
		branches = branches[:e.cfg.DetailLimit]
		src.Truncated = true
	}

	envTracker := newEnvelopeTracker(fetched.Envelope)
	failed := fanOut(ctx, e.cfg.MaxWorkers, len(branches), func(ctx context.Context, i int) error {
		env, err := e.client.EnrichBranch(ctx, owner, repo, meta.DefaultBranch, &branches[i], e.cfg.Retry)
		envTracker.observe(env)
		return err
	})
	src.Skipped += failed

	ids := make([]string, 0, len(branches))
	for _, b := range branches {
		ids = append(ids, b.Name+"@"+b.HeadSHA)
	}
	now := e.cfg.Now()
	fp := cache.Fingerprint("branches", ids, now.Truncate(cacheClockGranularity), now.Truncate(cacheClockGranularity))
	scored := e.cache.GetOrCompute(fp, func() any {
		return analytics.ScoreBranches(branches, analytics.DefaultBehindThreshold, now)
	}).([]analytics.BranchHealth)

	return BranchHealthResult{
		Branches:      scored,
		DefaultBranch: meta.DefaultBranch,
		Source:        src,
	}, envTracker.get(), nil
}

// PullRequests fetches pull requests created in the window and computes PR
// analytics. Line counts come from per-PR detail fetches, capped at
// DetailLimit.
func (e *Engine) PullRequests(ctx context.Context, owner, repo string, preset analytics.Preset) (PullsResult, ghapi.RateEnvelope, error) {
	pulls, window, src, env, err := e.fetchWindowedPulls(ctx, owner, repo, preset)
	if err != nil {
		return PullsResult{}, env, err
	}

	detailed := pulls
	if len(detailed) > e.cfg.DetailLimit {
		detailed = detailed[:e.cfg.DetailLimit]
		src.Truncated = true
	}

	envTracker := newEnvelopeTracker(env)
	failed := fanOut(ctx, e.cfg.MaxWorkers, len(detailed), func(ctx context.Context, i int) error {
		full, env, err := e.client.FetchPullDetail(ctx, owner, repo, detailed[i].Number, e.cfg.Retry)
		envTracker.observe(env)
		if err != nil {
			return err
		}
		detailed[i].Additions = full.Additions
		detailed[i].Deletions = full.Deletions
		return nil
	})
	src.Skipped += failed

	fp := cache.Fingerprint("pulls", pullIDs(detailed), window.Since, window.Until)
	result := e.cache.GetOrCompute(fp, func() any {
		return analytics.AnalyzePulls(detailed)
	}).(analytics.PullAnalytics)

	return PullsResult{PullAnalytics: result, Source: src}, envTracker.get(), nil
}

// Reviews fetches pull requests created in the window, fans out one review
// fetch per PR, and computes review analytics.
func (e *Engine) Reviews(ctx context.Context, owner, repo string, preset analytics.Preset) (ReviewsResult, ghapi.RateEnvelope, error) {
	pulls, window, src, env, err := e.fetchWindowedPulls(ctx, owner, repo, preset)
	if err != nil {
		return ReviewsResult{}, env, err
	}

	subjects := pulls
	if len(subjects) > e.cfg.DetailLimit {
		subjects = subjects[:e.cfg.DetailLimit]
		src.Truncated = true
	}

	var mu sync.Mutex
	var reviews []analytics.Review
	envTracker := newEnvelopeTracker(env)

	failed := fanOut(ctx, e.cfg.MaxWorkers, len(subjects), func(ctx context.Context, i int) error {
		fetched, skipped, err := e.client.FetchReviews(ctx, owner, repo, subjects[i].Number, e.cfg.fetchOptions())
		envTracker.observe(fetched.Envelope)
		if err != nil {
			return err
		}
		mu.Lock()
		reviews = append(reviews, fetched.Records...)
		src.Skipped += skipped
		if fetched.Truncated {
			src.Truncated = true
		}
		mu.Unlock()
		return nil
	})
	src.Skipped += failed

	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, strconv.Itoa(r.PullNumber)+":"+r.Reviewer+":"+r.SubmittedAt.UTC().Format("20060102T150405"))
	}
	fp := cache.Fingerprint("reviews", ids, window.Since, window.Until)
	result := e.cache.GetOrCompute(fp, func() any {
		return analytics.AnalyzeReviews(reviews, subjects)
	}).(analytics.ReviewAnalytics)

	return ReviewsResult{ReviewAnalytics: result, Source: src}, envTracker.get(), nil
}

// fetchWindowedCommits validates input, resolves the window, and pulls the
// commit history constrained to it.
func (e *Engine) fetchWindowedCommits(ctx context.Context, owner, repo string, preset analytics.Preset) ([]analytics.Commit, analytics.Window, Source, ghapi.RateEnvelope, error) {
	if err := ghapi.ValidateOwnerRepo(owner, repo); err != nil {
		return nil, analytics.Window{}, Source{}, ghapi.RateEnvelope{}, err
	}

	window := analytics.ResolveWindow(preset, e.cfg.Now())
	fetched, skipped, err := e.client.FetchCommits(ctx, owner, repo, window, e.cfg.fetchOptions())
	if err != nil {
		return nil, window, Source{}, fetched.Envelope, err
	}

	// The server already constrains by since/until; filtering again keeps
	// the window semantics exact regardless of provider quirks.
	commits := analytics.FilterCommits(fetched.Records, window)

	src := Source{Truncated: fetched.Truncated, Skipped: skipped}
	return commits, window, src, fetched.Envelope, nil
}

// fetchWindowedPulls validates input, resolves the window, and pulls the PR
// list filtered to PRs created inside it. The list endpoint cannot filter by
// time server-side; fetching newest-first and filtering client-side keeps
// the page budget useful.
func (e *Engine) fetchWindowedPulls(ctx context.Context, owner, repo string, preset analytics.Preset) ([]analytics.PullRequest, analytics.Window, Source, ghapi.RateEnvelope, error) {
	if err := ghapi.ValidateOwnerRepo(owner, repo); err != nil {
		return nil, analytics.Window{}, Source{}, ghapi.RateEnvelope{}, err
	}

	window := analytics.ResolveWindow(preset, e.cfg.Now())
	fetched, skipped, err := e.client.FetchPulls(ctx, owner, repo, e.cfg.fetchOptions())
	if err != nil {
		return nil, window, Source{}, fetched.Envelope, err
	}

	pulls := analytics.FilterPulls(fetched.Records, window)
	src := Source{Truncated: fetched.Truncated, Skipped: skipped}
	return pulls, window, src, fetched.Envelope, nil
}

// commitIDs extracts the stable identifiers used for cache fingerprints.
func commitIDs(commits []analytics.Commit) []string {
	ids := make([]string, 0, len(commits))
	for _, c := range commits {
		ids = append(ids, c.SHA)
	}
	return ids
}

// pullIDs extracts the stable identifiers used for cache fingerprints.
func pullIDs(pulls []analytics.PullRequest) []string {
	ids := make([]string, 0, len(pulls))
	for _, p := range pulls {
		ids = append(ids, strconv.Itoa(p.Number))
	}
	return ids
}
