// Package cmd provides the command-line interface for gitflux.
// It defines the Cobra command structure, flag handling, and command
// execution for analyzing remote repository activity.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current version of gitflux, set from main at startup.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gitflux",
	Short: "Analyze repository activity from the GitHub API",
	Long: `gitflux pulls commit, branch, pull-request, and review history from
the GitHub API and turns it into aggregated activity analytics: heatmaps,
contributor trends, file-change rankings, branch health, and PR/review
metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		// fallback message, analysis logic is in a subcommand
		fmt.Println("Use `gitflux analyze` to run an analysis.")
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
