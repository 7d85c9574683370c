package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"backupphotos/internal/extract"
)

func isTerminal(writer any) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barTracker struct {
	bar *progressbar.ProgressBar
}

func (b barTracker) Add(n int) { _ = b.bar.Add(n) }

func (b barTracker) Finish() { _ = b.bar.Finish() }

// progressFor returns a bar factory drawing on w, or nil when w is not a
// terminal or JSON output was requested.
func progressFor(w io.Writer, jsonOutput bool) extract.ProgressFunc {
	if jsonOutput || !isTerminal(w) {
		return nil
	}
	return func(label string, total int) extract.Tracker {
		return barTracker{bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(label),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
		)}
	}
}
