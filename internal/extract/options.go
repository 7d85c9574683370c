package extract

import (
	"context"
	"log/slog"
)

// ConfirmFunc asks the operator whether to continue. Returning false stops
// the run with ErrDeclined.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Tracker follows one long loop.
type Tracker interface {
	Add(n int)
	Finish()
}

// ProgressFunc starts a tracker for a loop of total items.
type ProgressFunc func(label string, total int) Tracker

// Options tune a run.
type Options struct {
	Logger *slog.Logger
	// Confirm is consulted between stages when prompts are enabled in the
	// configuration. A nil Confirm never prompts.
	Confirm ConfirmFunc
	// Progress is optional.
	Progress ProgressFunc
	// DryRun resolves every destination without writing anything.
	DryRun bool
}

type nopTracker struct{}

func (nopTracker) Add(int) {}
func (nopTracker) Finish() {}

func (o Options) track(label string, total int) Tracker {
	if o.Progress == nil || total == 0 {
		return nopTracker{}
	}
	if t := o.Progress(label, total); t != nil {
		return t
	}
	return nopTracker{}
}
