package preflight

import (
	"context"

	"backupphotos/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Files are renamed out of the backup, so it needs write access too.
	backup := CheckDirectoryAccess("Backup directory", cfg.Paths.BackupDir)
	results = append(results, backup)
	if backup.Passed {
		results = append(results, CheckManifest(cfg.Paths.BackupDir, cfg.Manifest.DBName))
	}

	results = append(results, CheckCreatableDirectory("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckCreatableDirectory("CSV directory", cfg.Paths.CSVDir))

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Paths.LogDir))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
