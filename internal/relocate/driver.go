package relocate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"backupphotos/internal/classify"
	"backupphotos/internal/fileutil"
	"backupphotos/internal/layout"
	"backupphotos/internal/logging"
	"backupphotos/internal/relpath"
	"backupphotos/internal/services"
)

// Locator finds the stored file for a manifest identifier. backup.Index
// satisfies it.
type Locator interface {
	Path(id string) (string, bool)
}

// Driver relocates classified entries.
type Driver struct {
	Resolver layout.Resolver
	Locator  Locator
	Policy   Policy
	Rules    classify.Rules
	Logger   *slog.Logger
	// DryRun resolves destinations and records outcomes without touching the
	// filesystem.
	DryRun bool
	// Progress, when set, is called after every entry.
	Progress func(done, total int)
}

// Run handles entries in order. Cancellation stops the loop between entries;
// the partial report is returned together with the context error.
func (d *Driver) Run(ctx context.Context, entries []classify.Entry) (Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(d.Logger, "relocate"))

	var report Report
	if d.Locator == nil {
		return report, services.Wrap(services.ErrConfiguration, "relocate", "run", "no source locator", nil)
	}

	claims := make(targetClaims)
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		d.handle(logger, &report, claims, entry)
		if d.Progress != nil {
			d.Progress(i+1, len(entries))
		}
	}
	return report, nil
}

// targetClaims maps every file path placed during a run to the entry that
// took it, so colliding entries fail in dry runs too.
type targetClaims map[string]string

func (c targetClaims) check(target string) error {
	if owner, taken := c[target]; taken {
		return fmt.Errorf("%w: %s (taken by %s)", fileutil.ErrTargetExists, target, owner)
	}
	return nil
}

func (d *Driver) handle(logger *slog.Logger, report *Report, claims targetClaims, entry classify.Entry) {
	entryLogger := logger.With(
		logging.String(logging.FieldEntryID, entry.ID),
		logging.String(logging.FieldRelativePath, entry.RelativePath),
		logging.String(logging.FieldCategory, entry.Category.Label()),
	)

	source, ok := d.Locator.Path(entry.ID)
	if !ok {
		entryLogger.Debug("stored file not found in backup")
		report.NotFound = append(report.NotFound, NotFoundRecord{
			ID:           entry.ID,
			RelativePath: entry.RelativePath,
			Category:     entry.Category,
		})
		return
	}

	destination, err := d.Resolver.Resolve(entry.RelativePath, entry.Category.Label(), d.Rules.Filters(entry.Category))
	if err != nil {
		d.fail(entryLogger, report, Failure{Entry: entry}, services.Wrap(services.ErrRelocation, "relocate", "resolve", "", err))
		return
	}

	outcome, err := d.place(claims, entry, source, destination)
	if err != nil {
		// Path is set when the file already left the backup before the failure.
		d.fail(entryLogger, report, Failure{Entry: entry, Destination: destination, Path: outcome.Path}, err)
		return
	}
	entryLogger.Debug("entry handled",
		logging.String("kind", outcome.Kind.String()),
		logging.String("destination", outcome.Destination),
	)
	report.Relocated = append(report.Relocated, outcome)
}

func (d *Driver) place(claims targetClaims, entry classify.Entry, source, destination string) (Outcome, error) {
	outcome := Outcome{Entry: entry, Source: source, Destination: destination}
	name := relpath.Base(entry.RelativePath)
	keepStandalone := d.Policy.KeepsStandalone(entry.Role())

	if entry.Category == classify.CameraRoll && entry.Paired {
		if d.Policy.SavePVT {
			wrapper := layout.WrapperDir(destination, entry.RelativePath)
			standalone := filepath.Join(destination, name)
			if keepStandalone {
				if err := claims.check(standalone); err != nil {
					return outcome, services.Wrap(services.ErrRelocation, "relocate", "copy", "", err)
				}
			}
			target, err := d.moveInto(claims, entry, source, wrapper, name)
			if err != nil {
				return outcome, err
			}
			outcome.Kind = KindLivePair
			outcome.Path = target
			if keepStandalone {
				if err := d.copy(claims, entry, target, standalone); err != nil {
					return outcome, err
				}
				outcome.StandaloneCopy = standalone
			}
			return outcome, nil
		}
		if !keepStandalone {
			outcome.Kind = KindSkippedPair
			return outcome, nil
		}
	}

	target, err := d.moveInto(claims, entry, source, destination, name)
	if err != nil {
		return outcome, err
	}
	outcome.Kind = KindRelocated
	outcome.Path = target
	return outcome, nil
}

func (d *Driver) moveInto(claims targetClaims, entry classify.Entry, source, dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if err := claims.check(target); err != nil {
		return "", services.Wrap(services.ErrRelocation, "relocate", "move", "", err)
	}
	if !d.DryRun {
		if _, err := fileutil.MoveInto(source, dir, name); err != nil {
			return "", services.Wrap(services.ErrRelocation, "relocate", "move", fmt.Sprintf("%s -> %s", source, target), err)
		}
	}
	claims[target] = entry.ID
	return target, nil
}

func (d *Driver) copy(claims targetClaims, entry classify.Entry, source, target string) error {
	if err := claims.check(target); err != nil {
		return services.Wrap(services.ErrRelocation, "relocate", "copy", "", err)
	}
	if !d.DryRun {
		if err := fileutil.CopyFileNew(source, target); err != nil {
			return services.Wrap(services.ErrRelocation, "relocate", "copy", fmt.Sprintf("%s -> %s", source, target), err)
		}
	}
	claims[target] = entry.ID
	return nil
}

func (d *Driver) fail(logger *slog.Logger, report *Report, failure Failure, err error) {
	attrs := []logging.Attr{
		logging.String("destination", failure.Destination),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check output directory permissions, free space and colliding names"),
	}
	if failure.Path != "" {
		attrs = append(attrs,
			logging.String("path", failure.Path),
			logging.String(logging.FieldImpact, "file left the backup and sits at path"),
		)
	}
	logging.WarnWithContext(logger, "relocation failed", "relocation_failed", attrs...)
	failure.Err = err
	failure.Message = err.Error()
	report.Failures = append(report.Failures, failure)
}
