// Package cmd provides the command-line interface for gitflux.
//
// This file (analyze.go) implements the analyze subcommand. Engine tunables
// resolve through viper from flags, GITFLUX_* environment variables, and an
// optional config file; the engine itself only ever sees an explicit Config.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aryanjha256/gitflux-sub000/internal/analytics"
	"github.com/aryanjha256/gitflux-sub000/internal/engine"
	"github.com/aryanjha256/gitflux-sub000/internal/ghapi"
	"github.com/aryanjha256/gitflux-sub000/internal/output"
	"github.com/aryanjha256/gitflux-sub000/internal/state"
)

var (
	owner    string
	repo     string
	window   string
	analyses []string
	verbose  bool
)

// allAnalyses lists every analysis kind in render order.
var allAnalyses = []string{"heatmap", "trends", "files", "branches", "pulls", "reviews"}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run an activity analysis for one repository",
	Long: `Analyze a repository's activity over a time window.

Examples:
  gitflux analyze --owner golang --repo go
  gitflux analyze -o golang -r go --window 90d --analysis heatmap,trends
  gitflux analyze -o myorg -r internal-tool --window all -v

Available windows: 30d, 90d, 3m, 6m, 1y, all
Available analyses: heatmap, trends, files, branches, pulls, reviews`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := engineConfig()

		status := state.New()
		client := ghapi.NewClient(ghapi.Config{
			BaseURL: viper.GetString("base-url"),
			Token:   resolveToken(),
			Status:  status,
		})
		eng := engine.New(client, cfg)

		// A long-running analysis should not hang forever if the API
		// becomes unresponsive.
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			fmt.Fprintln(os.Stderr, "\nReceived interrupt, finishing with partial data... (press Ctrl-C again to force quit)")
			cancel()
			<-sigChan
			fmt.Fprintln(os.Stderr, "\nForce quitting...")
			os.Exit(130)
		}()

		output.PrintRepoHeader(owner, repo, window)
		err := runAnalyses(ctx, eng, status)

		status.PrintRateLimit()
		status.MarkDone()
		return err
	},
}

// runAnalyses executes each requested analysis in order, rendering results
// as they complete. A cancellation mid-run is not reported as a failure.
func runAnalyses(ctx context.Context, eng *engine.Engine, status *state.Status) error {
	preset := analytics.Preset(window)
	requested := analyses
	if len(requested) == 0 {
		requested = allAnalyses
	}

	var lastEnv ghapi.RateEnvelope
	for _, kind := range requested {
		var env ghapi.RateEnvelope
		var err error

		switch kind {
		case "heatmap":
			var result engine.HeatmapResult
			if result, env, err = eng.Heatmap(ctx, owner, repo, preset); err == nil {
				output.PrintHeatmap(result)
			}
		case "trends":
			var result engine.TrendsResult
			if result, env, err = eng.ContributorTrends(ctx, owner, repo, preset); err == nil {
				output.PrintTrends(result)
			}
		case "files":
			var result engine.FileChangesResult
			if result, env, err = eng.FileChanges(ctx, owner, repo, preset); err == nil {
				output.PrintFileChanges(result)
			}
		case "branches":
			var result engine.BranchHealthResult
			if result, env, err = eng.BranchHealth(ctx, owner, repo); err == nil {
				output.PrintBranchHealth(result)
			}
		case "pulls":
			var result engine.PullsResult
			if result, env, err = eng.PullRequests(ctx, owner, repo, preset); err == nil {
				output.PrintPulls(result)
			}
		case "reviews":
			var result engine.ReviewsResult
			if result, env, err = eng.Reviews(ctx, owner, repo, preset); err == nil {
				output.PrintReviews(result)
			}
		default:
			return fmt.Errorf("unknown analysis kind: %s (available: %v)", kind, allAnalyses)
		}

		if err != nil {
			if ghapi.IsCancellation(err) {
				pterm.Warning.Println("⚠ Analysis cancelled, results above may be incomplete")
				return nil
			}
			return fmt.Errorf("%s analysis failed: %w", kind, err)
		}

		if env.Known() {
			lastEnv = env
			status.MarkFetchDone()
		}
	}

	output.PrintRateEnvelope(lastEnv)
	return nil
}

// engineConfig builds the engine configuration from viper.
func engineConfig() engine.Config {
	return engine.Config{
		PerPage:            viper.GetInt("per-page"),
		MaxItems:           viper.GetInt("max-items"),
		RateLimitThreshold: viper.GetInt64("rate-limit-threshold"),
		PageDelay:          viper.GetDuration("page-delay"),
		Retry: ghapi.RetryPolicy{
			MaxAttempts: viper.GetInt("max-attempts"),
			BaseDelay:   viper.GetDuration("retry-base-delay"),
			CapDelay:    viper.GetDuration("retry-cap-delay"),
		},
		MaxWorkers:  viper.GetInt("max-workers"),
		DetailLimit: viper.GetInt("detail-limit"),
		CacheSize:   viper.GetInt("cache-size"),
		Progress:    progressPrinter(),
	}
}

// progressPrinter returns an advisory progress sink when verbose mode is on.
func progressPrinter() ghapi.ProgressFunc {
	if !verbose {
		return nil
	}
	return func(u ghapi.ProgressUpdate) {
		if u.EstimatedTotal > 0 {
			pterm.Debug.Printf("fetched %d/~%d items\n", u.Fetched, u.EstimatedTotal)
		} else {
			pterm.Debug.Printf("fetched %d items\n", u.Fetched)
		}
	}
}

// resolveToken returns the credential supplied externally via config or
// environment. The engine treats it as opaque.
func resolveToken() string {
	if token := viper.GetString("token"); token != "" {
		return token
	}
	return os.Getenv("GITHUB_TOKEN")
}

// init registers the analyze command, its flags, and the viper bindings.
func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&owner, "owner", "o", "", "Repository owner (user or organization)")
	analyzeCmd.Flags().StringVarP(&repo, "repo", "r", "", "Repository name")
	analyzeCmd.Flags().StringVarP(&window, "window", "W", "90d", "Time window: 30d, 90d, 3m, 6m, 1y, all")
	analyzeCmd.Flags().StringSliceVarP(&analyses, "analysis", "a", nil, "Analyses to run (default: all)")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose progress output")
	_ = analyzeCmd.MarkFlagRequired("owner")
	_ = analyzeCmd.MarkFlagRequired("repo")

	analyzeCmd.Flags().String("base-url", ghapi.DefaultBaseURL, "API base URL (GitHub Enterprise Server supported)")
	analyzeCmd.Flags().String("token", "", "API token (default: GITHUB_TOKEN environment variable)")
	analyzeCmd.Flags().Int("per-page", ghapi.DefaultPerPage, "Items per page (max 100)")
	analyzeCmd.Flags().Int("max-items", ghapi.DefaultMaxItems, "Item budget per resource kind")
	analyzeCmd.Flags().Int64("rate-limit-threshold", ghapi.DefaultRateLimitThreshold, "Stop fetching when remaining quota drops below this")
	analyzeCmd.Flags().Duration("page-delay", ghapi.DefaultPageDelay, "Delay between page requests")
	analyzeCmd.Flags().Int("max-attempts", ghapi.DefaultMaxAttempts, "Attempts per request including the first")
	analyzeCmd.Flags().Duration("retry-base-delay", ghapi.DefaultBaseDelay, "Backoff delay before the first retry")
	analyzeCmd.Flags().Duration("retry-cap-delay", ghapi.DefaultCapDelay, "Upper bound on a single backoff delay")
	analyzeCmd.Flags().IntP("max-workers", "w", engine.DefaultMaxWorkers, "Maximum concurrent detail fetches")
	analyzeCmd.Flags().Int("detail-limit", engine.DefaultDetailLimit, "Cap on per-item detail fetches per analysis")
	analyzeCmd.Flags().Int("cache-size", 0, "Result cache entry bound (0 = default)")

	_ = viper.BindPFlags(analyzeCmd.Flags())
	viper.SetEnvPrefix("GITFLUX")
	viper.AutomaticEnv()

	viper.SetConfigName(".gitflux")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}
