package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"backupphotos/internal/extract"
	"backupphotos/internal/preflight"
	"backupphotos/internal/relocate"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const statusLabelWidth = 20

func renderCheck(result preflight.Result, colorize bool) string {
	status, color := "OK", ansiGreen
	if !result.Passed {
		status, color = "ERROR", ansiRed
	}
	line := fmt.Sprintf("  %-*s [%s] %s", statusLabelWidth, result.Name+":", status, result.Detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func categoryTable(summary extract.Summary) string {
	rows := make([][]string, 0, len(summary.Categories))
	var total relocate.Counts
	classified := 0
	for _, cat := range summary.Categories {
		c := cat.Counts
		rows = append(rows, []string{
			cat.Label,
			yesNo(cat.Enabled),
			strconv.Itoa(cat.Classified),
			strconv.Itoa(c.Relocated),
			strconv.Itoa(c.LivePairs),
			strconv.Itoa(c.Skipped),
			strconv.Itoa(c.NotFound),
			strconv.Itoa(c.Failed),
		})
		classified += cat.Classified
		total.Relocated += c.Relocated
		total.LivePairs += c.LivePairs
		total.Skipped += c.Skipped
		total.NotFound += c.NotFound
		total.Failed += c.Failed
	}
	title := "Extraction summary"
	if summary.DryRun {
		title = "Extraction plan"
	}
	return renderTable(tableSpec{
		title:   title,
		headers: []string{"Category", "Enabled", "Classified", "Relocated", "Live pairs", "Skipped", "Not found", "Failed"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
		footer: []string{
			"Total", "",
			strconv.Itoa(classified),
			strconv.Itoa(total.Relocated),
			strconv.Itoa(total.LivePairs),
			strconv.Itoa(total.Skipped),
			strconv.Itoa(total.NotFound),
			strconv.Itoa(total.Failed),
		},
	})
}

func outcomeTable(outcomes []relocate.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		target := o.Path
		if target == "" {
			target = "(left in backup)"
		}
		rows = append(rows, []string{o.Entry.ID, o.Entry.RelativePath, o.Kind.String(), target})
	}
	return renderTable(tableSpec{
		headers: []string{"File ID", "Relative path", "Outcome", "Target"},
		rows:    rows,
	})
}

func writeSummary(w io.Writer, summary extract.Summary, colorize bool) {
	fmt.Fprintf(w, "Manifest: %s (%d entries, %d not selected)\n", summary.ManifestPath, summary.ManifestEntries, summary.Rejected)
	fmt.Fprintf(w, "Backup files indexed: %d\n", summary.BackupFiles)
	if summary.Ambiguous > 0 {
		line := fmt.Sprintf("%d entries matched more than one category; each was filed under the first", summary.Ambiguous)
		if colorize {
			line = ansiYellow + line + ansiReset
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, categoryTable(summary))

	if summary.Cleanup.Ran {
		fmt.Fprintf(w, "Cleanup: %d files removed, %d directories removed",
			summary.Cleanup.RemovedFiles, summary.Cleanup.RemovedDirs)
		if summary.Cleanup.Errors > 0 {
			fmt.Fprintf(w, ", %d errors", summary.Cleanup.Errors)
		}
		fmt.Fprintln(w)
	}
	if len(summary.CSVFiles) > 0 {
		fmt.Fprintf(w, "CSV written: %s\n", strings.Join(summary.CSVFiles, ", "))
	}
	if summary.NotFound > 0 || summary.Failed > 0 {
		line := fmt.Sprintf("%d files were not found in the backup, %d could not be relocated", summary.NotFound, summary.Failed)
		if colorize {
			line = ansiYellow + line + ansiReset
		}
		fmt.Fprintln(w, line)
	}
}
