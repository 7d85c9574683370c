package extract

import (
	"time"

	"backupphotos/internal/classify"
	"backupphotos/internal/cleanup"
	"backupphotos/internal/relocate"
)

// CategorySummary describes one category of a run.
type CategorySummary struct {
	Category   classify.Category `json:"category"`
	Label      string            `json:"label"`
	Enabled    bool              `json:"enabled"`
	Classified int               `json:"classified"`
	Counts     relocate.Counts   `json:"counts"`
}

// CleanupSummary counts the changes the wrapper sweep made.
type CleanupSummary struct {
	Ran          bool `json:"ran"`
	RemovedFiles int  `json:"removed_files"`
	RemovedDirs  int  `json:"removed_dirs"`
	Errors       int  `json:"errors"`
}

func summarizeCleanup(result cleanup.Result) CleanupSummary {
	return CleanupSummary{
		Ran:          true,
		RemovedFiles: len(result.RemovedFiles),
		RemovedDirs:  len(result.RemovedDirs),
		Errors:       len(result.Errors),
	}
}

// Summary is the outcome of a run.
type Summary struct {
	RunID           string            `json:"run_id"`
	DryRun          bool              `json:"dry_run"`
	ManifestPath    string            `json:"manifest_path"`
	ManifestEntries int               `json:"manifest_entries"`
	Rejected        int               `json:"rejected"`
	Ambiguous       int               `json:"ambiguous"`
	BackupFiles     int               `json:"backup_files"`
	Categories      []CategorySummary `json:"categories"`
	NotFound        int               `json:"not_found"`
	Failed          int               `json:"failed"`
	CSVFiles        []string          `json:"csv_files,omitempty"`
	Cleanup         CleanupSummary    `json:"cleanup"`
	Duration        time.Duration     `json:"duration"`
	// Report holds every per-entry record.
	Report relocate.Report `json:"report"`
}
