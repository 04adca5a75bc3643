// Package analytics implements the pure aggregation pipeline.
//
// This file (files.go) ranks files by change volume and breaks changes down
// by category. Categories come from a static extension table; anything
// unmatched lands in Other.
package analytics

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// File categories.
const (
	CategoryCode     = "Code"
	CategoryMarkup   = "Markup"
	CategoryStyles   = "Styles"
	CategoryConfig   = "Config"
	CategoryDocs     = "Docs"
	CategoryTests    = "Tests"
	CategoryAssets   = "Assets"
	CategoryBuild    = "Build"
	CategoryOther    = "Other"
	maxEntropyGroups = 8 // normalization cap for the diversity score
)

// extensionCategories maps file extensions (lowercased, with dot) to
// categories.
var extensionCategories = map[string]string{
	".go":    CategoryCode,
	".js":    CategoryCode,
	".jsx":   CategoryCode,
	".ts":    CategoryCode,
	".tsx":   CategoryCode,
	".py":    CategoryCode,
	".rb":    CategoryCode,
	".java":  CategoryCode,
	".c":     CategoryCode,
	".cc":    CategoryCode,
	".cpp":   CategoryCode,
	".h":     CategoryCode,
	".rs":    CategoryCode,
	".kt":    CategoryCode,
	".swift": CategoryCode,
	".sh":    CategoryCode,
	".sql":   CategoryCode,

	".html": CategoryMarkup,
	".htm":  CategoryMarkup,
	".xml":  CategoryMarkup,
	".svg":  CategoryMarkup,

	".css":  CategoryStyles,
	".scss": CategoryStyles,
	".less": CategoryStyles,

	".json":   CategoryConfig,
	".yaml":   CategoryConfig,
	".yml":    CategoryConfig,
	".toml":   CategoryConfig,
	".ini":    CategoryConfig,
	".env":    CategoryConfig,
	".lock":   CategoryConfig,
	".config": CategoryConfig,

	".md":  CategoryDocs,
	".mdx": CategoryDocs,
	".rst": CategoryDocs,
	".txt": CategoryDocs,

	".png":  CategoryAssets,
	".jpg":  CategoryAssets,
	".jpeg": CategoryAssets,
	".gif":  CategoryAssets,
	".ico":  CategoryAssets,
	".webp": CategoryAssets,
	".woff": CategoryAssets,
	".ttf":  CategoryAssets,

	".dockerfile": CategoryBuild,
	".makefile":   CategoryBuild,
	".gradle":     CategoryBuild,
	".bazel":      CategoryBuild,
}

// CategorizeFile assigns a category from the file's extension. Test files
// are recognized by naming convention before the extension table applies.
func CategorizeFile(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if strings.Contains(base, "_test.") || strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return CategoryTests
	}
	if base == "dockerfile" || base == "makefile" {
		return CategoryBuild
	}
	if category, ok := extensionCategories[strings.ToLower(filepath.Ext(base))]; ok {
		return category
	}
	return CategoryOther
}

// FileChange is the aggregate for one file path.
type FileChange struct {
	Path        string
	Changes     int     // total changed lines across the commit set
	Percent     float64 // share of all changes, unrounded
	LastChanged time.Time
	Deleted     bool // the most recent commit touching the file removed it
	Category    string
}

// CategoryBreakdown is the aggregate for one category.
type CategoryBreakdown struct {
	Category string
	Changes  int
	Percent  float64 // unrounded
}

// FileChangeAnalysis ranks files by change volume.
type FileChangeAnalysis struct {
	Files        []FileChange        // descending by changes, path ascending on ties
	Categories   []CategoryBreakdown // descending by changes, category ascending on ties
	TotalChanges int
	Diversity    int // normalized Shannon entropy of the category distribution, 0-100
}

// AnalyzeFileChanges aggregates per-file change volume across the commit
// set. Commits without file detail contribute nothing. The deleted flag
// follows the latest commit touching each file.
func AnalyzeFileChanges(commits []Commit) FileChangeAnalysis {
	type fileAgg struct {
		changes     int
		lastChanged time.Time
		deleted     bool
	}

	files := make(map[string]*fileAgg)
	for _, c := range commits {
		for _, f := range c.Files {
			agg := files[f.Path]
			if agg == nil {
				agg = &fileAgg{}
				files[f.Path] = agg
			}
			agg.changes += f.Changes
			if !c.Timestamp.Before(agg.lastChanged) {
				agg.lastChanged = c.Timestamp
				agg.deleted = f.Status == FileDeleted
			}
		}
	}

	var result FileChangeAnalysis
	for _, agg := range files {
		result.TotalChanges += agg.changes
	}

	categoryTotals := make(map[string]int)
	result.Files = make([]FileChange, 0, len(files))
	for path, agg := range files {
		category := CategorizeFile(path)
		categoryTotals[category] += agg.changes

		entry := FileChange{
			Path:        path,
			Changes:     agg.changes,
			LastChanged: agg.lastChanged,
			Deleted:     agg.deleted,
			Category:    category,
		}
		if result.TotalChanges > 0 {
			entry.Percent = float64(agg.changes) / float64(result.TotalChanges) * 100
		}
		result.Files = append(result.Files, entry)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		if result.Files[i].Changes != result.Files[j].Changes {
			return result.Files[i].Changes > result.Files[j].Changes
		}
		return result.Files[i].Path < result.Files[j].Path
	})

	result.Categories = make([]CategoryBreakdown, 0, len(categoryTotals))
	for category, changes := range categoryTotals {
		entry := CategoryBreakdown{Category: category, Changes: changes}
		if result.TotalChanges > 0 {
			entry.Percent = float64(changes) / float64(result.TotalChanges) * 100
		}
		result.Categories = append(result.Categories, entry)
	}
	sort.Slice(result.Categories, func(i, j int) bool {
		if result.Categories[i].Changes != result.Categories[j].Changes {
			return result.Categories[i].Changes > result.Categories[j].Changes
		}
		return result.Categories[i].Category < result.Categories[j].Category
	})

	counts := make([]int, 0, len(categoryTotals))
	for _, changes := range categoryTotals {
		counts = append(counts, changes)
	}
	result.Diversity = DiversityScore(counts)

	return result
}
