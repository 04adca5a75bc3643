// gitflux analyzes a remote repository's activity by pulling commit, branch,
// pull-request, and review history from the GitHub API and turning it into
// aggregated statistics: activity heatmaps, contributor trends, file-change
// rankings, branch health scores, and PR/review analytics.
//
// Usage:
//
//	gitflux analyze --owner golang --repo go
//	gitflux analyze -o myorg -r service --window 90d -a heatmap,pulls
package main

import (
	"github.com/aryanjha256/gitflux-sub000/cmd"
)

// Version is the current version of gitflux.
// It can be overridden at build time using:
//
//	go build -ldflags="-X main.Version=v1.0.0"
var Version = "dev"

func main() {
	cmd.Version = Version
	cmd.Execute()
}
