// Package report exports run artifacts as CSV: the classified list of each
// category, the entries missing from the backup, and relocation failures.
// A file is only written when it has at least one row.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"backupphotos/internal/classify"
	"backupphotos/internal/relocate"
)

const (
	// NotFoundFile lists classified entries whose stored file is missing.
	NotFoundFile = "logNotFound.csv"
	// FailuresFile lists entries whose relocation failed.
	FailuresFile = "logFailures.csv"
)

var (
	listHeader     = []string{"fileID", "relativePath"}
	notFoundHeader = []string{"fileID", "relativePath", "type"}
	failureHeader  = []string{"fileID", "relativePath", "type", "destination", "path", "error"}
)

// Writer writes CSV artifacts into Dir.
type Writer struct {
	Dir string
}

// WriteLists writes one file per category that has entries and returns the
// paths written.
func (w Writer) WriteLists(result classify.Result) ([]string, error) {
	var written []string
	for _, category := range classify.Categories() {
		entries := result.Entries(category)
		if len(entries) == 0 {
			continue
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.ID, e.RelativePath})
		}
		path, err := w.write(category.ListName(), listHeader, rows)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteNotFound writes the not-found log. The path is empty when there was
// nothing to write.
func (w Writer) WriteNotFound(records []relocate.NotFoundRecord) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.ID, r.RelativePath, r.Category.LogType()})
	}
	return w.write(NotFoundFile, notFoundHeader, rows)
}

// WriteFailures writes the relocation failure log. The path is empty when
// there was nothing to write.
func (w Writer) WriteFailures(failures []relocate.Failure) (string, error) {
	if len(failures) == 0 {
		return "", nil
	}
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		rows = append(rows, []string{f.Entry.ID, f.Entry.RelativePath, f.Entry.Category.LogType(), f.Destination, f.Path, msg})
	}
	return w.write(FailuresFile, failureHeader, rows)
}

func (w Writer) write(name string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure csv directory: %w", err)
	}
	path := filepath.Join(w.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("write %s header: %w", name, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}
