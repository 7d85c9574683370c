package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"backupphotos/internal/backup"
	"backupphotos/internal/classify"
	"backupphotos/internal/cleanup"
	"backupphotos/internal/config"
	"backupphotos/internal/fileutil"
	"backupphotos/internal/layout"
	"backupphotos/internal/logging"
	"backupphotos/internal/manifest"
	"backupphotos/internal/preflight"
	"backupphotos/internal/relocate"
	"backupphotos/internal/report"
	"backupphotos/internal/services"
)

// LockFileName is created in the output root while a run holds it.
const LockFileName = ".backupphotos.lock"

var (
	// ErrLocked reports another run relocating into the same output tree.
	ErrLocked = errors.New("output directory is locked by another run")
	// ErrDeclined reports a run stopped at a confirmation prompt.
	ErrDeclined = errors.New("run declined at confirmation prompt")
)

type runner struct {
	cfg      *config.Config
	opts     Options
	logger   *slog.Logger
	resolver layout.Resolver
	rules    classify.Rules
	summary  Summary
}

// Run executes a full extraction for cfg.
func Run(ctx context.Context, cfg *config.Config, opts Options) (Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		return Summary{}, services.Wrap(services.ErrConfiguration, "extract", "run", "configuration required", nil)
	}
	start := time.Now()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	r := &runner{
		cfg:     cfg,
		opts:    opts,
		rules:   classify.RulesFromConfig(cfg),
		summary: Summary{RunID: runID, DryRun: opts.DryRun},
	}
	r.logger = logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "extract"))

	err := r.run(ctx)
	r.summary.Duration = time.Since(start)
	if err != nil {
		return r.summary, err
	}
	r.logger.Info("extraction finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("relocated", len(r.summary.Report.Relocated)),
		logging.Int("not_found", r.summary.NotFound),
		logging.Int("failed", r.summary.Failed),
		logging.Duration("duration", r.summary.Duration),
		logging.Bool("dry_run", opts.DryRun),
	)
	return r.summary, nil
}

func (r *runner) run(ctx context.Context) error {
	l, err := layout.Parse(r.cfg.Layout.Format)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "extract", "layout", "", err)
	}
	r.resolver = layout.Resolver{Root: r.cfg.Paths.OutputDir, Layout: l, ImportMarker: r.cfg.Layout.ImportMarker}

	if failed := preflight.Failed(preflight.RunAll(ctx, r.cfg)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, f := range failed {
			details = append(details, fmt.Sprintf("%s: %s", f.Name, f.Detail))
		}
		return services.Wrap(services.ErrConfiguration, "preflight", "", strings.Join(details, "; "), nil)
	}

	if !r.opts.DryRun {
		unlock, err := r.lock()
		if err != nil {
			return err
		}
		defer unlock()
	}

	index, err := r.loadManifest(ctx)
	if err != nil {
		return err
	}

	if err := r.confirm(ctx, fmt.Sprintf("Manifest holds %d entries. Filter them now?", index.Len())); err != nil {
		return err
	}
	result := r.classify(ctx, index)

	if !r.opts.DryRun {
		paths, err := report.Writer{Dir: r.cfg.Paths.CSVDir}.WriteLists(result)
		r.summary.CSVFiles = append(r.summary.CSVFiles, paths...)
		if err != nil {
			return services.Wrap(services.ErrTransient, "report", "lists", "", err)
		}
	}

	if err := r.confirm(ctx, fmt.Sprintf("%d entries classified. Relocate them now?", result.Total())); err != nil {
		return err
	}

	locator, err := backup.Walk(ctx, r.cfg.Paths.BackupDir)
	if err != nil {
		return err
	}
	r.summary.BackupFiles = locator.Len()

	if err := r.relocate(ctx, result, locator); err != nil {
		return err
	}

	if !r.opts.DryRun {
		if err := r.writeLogs(); err != nil {
			return err
		}
		if r.rules.Enabled(classify.SMSAttachment) {
			r.cleanup(ctx)
		}
	}
	return nil
}

func (r *runner) lock() (func(), error) {
	root := r.cfg.Paths.OutputDir
	if err := fileutil.EnsureDir(root); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "extract", "lock", "create output directory", err)
	}
	lockPath := filepath.Join(root, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release output lock",
				logging.String("lock", lockPath),
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.String(logging.FieldErrorHint, "remove the lock file if no run is active"),
				logging.String(logging.FieldImpact, "the next run may report the output as locked"),
			)
		}
	}, nil
}

func (r *runner) loadManifest(ctx context.Context) (*manifest.Index, error) {
	ctx = services.WithStage(ctx, "manifest")
	path, err := manifest.Locate(r.cfg.Paths.BackupDir, r.cfg.Manifest.DBName)
	if err != nil {
		return nil, err
	}
	index, err := manifest.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	r.summary.ManifestPath = path
	r.summary.ManifestEntries = index.Len()
	logging.WithContext(ctx, r.logger).Info("manifest loaded",
		logging.String("path", path),
		logging.Int("entries", index.Len()),
	)
	return index, nil
}

func (r *runner) confirm(ctx context.Context, prompt string) error {
	if r.opts.Confirm == nil || !r.cfg.Prompts.Confirm {
		return nil
	}
	ok, err := r.opts.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}

func (r *runner) classify(ctx context.Context, index *manifest.Index) classify.Result {
	logger := logging.WithContext(services.WithStage(ctx, "classify"), r.logger)
	result := classify.Classify(index, r.rules)
	r.summary.Rejected = result.Rejected
	r.summary.Ambiguous = len(result.Ambiguous)

	for _, amb := range result.Ambiguous {
		logging.WarnWithContext(logger, "entry matches more than one category", "ambiguous_category",
			logging.String(logging.FieldEntryID, amb.Entry.ID),
			logging.String(logging.FieldRelativePath, amb.Entry.RelativePath),
			logging.String("kept", amb.Kept.Label()),
			logging.String("also", amb.Also.Label()),
			logging.String("filter", amb.Matched),
			logging.Error(services.Wrap(services.ErrAmbiguous, "classify", "", amb.Entry.RelativePath, nil)),
			logging.String(logging.FieldErrorHint, "tighten the category filters"),
			logging.String(logging.FieldImpact, "entry filed under the first category only"),
		)
	}
	for _, category := range classify.Categories() {
		enabled := r.rules.Enabled(category)
		if enabled && len(r.rules.Filters(category)) == 0 {
			logging.WarnWithContext(logger, "category enabled without filters", "empty_filters",
				logging.String(logging.FieldCategory, category.Label()),
				logging.String(logging.FieldErrorHint, "add filters to the "+category.String()+" section"),
				logging.String(logging.FieldImpact, "no entries classified for this category"),
			)
		}
		r.summary.Categories = append(r.summary.Categories, CategorySummary{
			Category:   category,
			Label:      category.Label(),
			Enabled:    enabled,
			Classified: result.Len(category),
		})
		logger.Info("category classified",
			logging.String(logging.FieldCategory, category.Label()),
			logging.Bool("enabled", enabled),
			logging.Int("entries", result.Len(category)),
		)
	}
	return result
}

func (r *runner) relocate(ctx context.Context, result classify.Result, locator relocate.Locator) error {
	for i, category := range classify.Categories() {
		entries := result.Entries(category)
		if !r.rules.Enabled(category) || len(entries) == 0 {
			continue
		}
		catCtx := services.WithCategory(services.WithStage(ctx, "relocate"), category.Label())
		tracker := r.opts.track("Relocating "+category.Label(), len(entries))
		driver := &relocate.Driver{
			Resolver: r.resolver,
			Locator:  locator,
			Policy:   relocate.PolicyFromConfig(r.cfg),
			Rules:    r.rules,
			Logger:   r.logger,
			DryRun:   r.opts.DryRun,
			Progress: func(int, int) { tracker.Add(1) },
		}
		rep, err := driver.Run(catCtx, entries)
		tracker.Finish()
		r.summary.Report.Merge(rep)
		r.summary.Categories[i].Counts = r.summary.Report.Counts(category)
		r.summary.NotFound = len(r.summary.Report.NotFound)
		r.summary.Failed = len(r.summary.Report.Failures)
		if err != nil {
			return err
		}

		counts := r.summary.Categories[i].Counts
		logger := logging.WithContext(catCtx, r.logger)
		if counts.NotFound > 0 {
			logging.WarnWithContext(logger, "entries missing from the backup", "entries_not_found",
				logging.Int("count", counts.NotFound),
				logging.String(logging.FieldErrorHint, "see "+report.NotFoundFile),
				logging.String(logging.FieldImpact, "missing entries are not extracted"),
			)
		}
		logger.Info("category relocated",
			logging.Int("relocated", counts.Relocated),
			logging.Int("live_pairs", counts.LivePairs),
			logging.Int("skipped", counts.Skipped),
			logging.Int("not_found", counts.NotFound),
			logging.Int("failed", counts.Failed),
		)
	}
	return nil
}

func (r *runner) writeLogs() error {
	w := report.Writer{Dir: r.cfg.Paths.CSVDir}
	path, err := w.WriteNotFound(r.summary.Report.NotFound)
	if err != nil {
		return services.Wrap(services.ErrTransient, "report", "not found", "", err)
	}
	if path != "" {
		r.summary.CSVFiles = append(r.summary.CSVFiles, path)
	}
	path, err = w.WriteFailures(r.summary.Report.Failures)
	if err != nil {
		return services.Wrap(services.ErrTransient, "report", "failures", "", err)
	}
	if path != "" {
		r.summary.CSVFiles = append(r.summary.CSVFiles, path)
	}
	return nil
}

func (r *runner) cleanup(ctx context.Context) {
	roots := CleanupRoots(r.resolver, &r.summary.Report)
	ctx = services.WithCategory(services.WithStage(ctx, "cleanup"), classify.SMSAttachment.Label())
	result := cleanup.Sweep(ctx, roots, relocate.PolicyFromConfig(r.cfg), r.logger)
	r.summary.Cleanup = summarizeCleanup(result)
	logging.WithContext(ctx, r.logger).Info("cleanup finished",
		logging.Int("roots", len(roots)),
		logging.Int("removed_files", len(result.RemovedFiles)),
		logging.Int("removed_dirs", len(result.RemovedDirs)),
		logging.Int("errors", len(result.Errors)),
	)
}

// CleanupRoots returns the directories the wrapper sweep visits. Category
// scoped layouts sweep the whole message attachment subtree. Other layouts
// mix categories, so only the wrappers message attachments were moved into
// are swept; without a report there is nothing to sweep.
func CleanupRoots(resolver layout.Resolver, rep *relocate.Report) []string {
	if resolver.Layout.CategoryScoped() {
		root := resolver.Root
		if strings.TrimSpace(root) == "" {
			root = layout.DefaultRoot
		}
		return []string{filepath.Join(root, classify.SMSAttachment.Label())}
	}
	if rep == nil {
		return nil
	}
	return rep.WrapperDirs(classify.SMSAttachment)
}

// Cleanup runs the wrapper sweep on its own against an existing output tree.
// Only category scoped layouts can be swept without a run report.
func Cleanup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cleanup.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		return cleanup.Result{}, services.Wrap(services.ErrConfiguration, "cleanup", "", "configuration required", nil)
	}
	l, err := layout.Parse(cfg.Layout.Format)
	if err != nil {
		return cleanup.Result{}, services.Wrap(services.ErrConfiguration, "cleanup", "layout", "", err)
	}
	if !cfg.SMS.Enabled {
		return cleanup.Result{}, nil
	}
	if !l.CategoryScoped() {
		return cleanup.Result{}, services.Wrap(services.ErrConfiguration, "cleanup", "", fmt.Sprintf("layout %s mixes categories; cleanup only runs as part of a run", l), nil)
	}
	resolver := layout.Resolver{Root: cfg.Paths.OutputDir, Layout: l}
	ctx = services.WithRunID(ctx, uuid.NewString())
	return cleanup.Sweep(ctx, CleanupRoots(resolver, nil), relocate.PolicyFromConfig(cfg), logger), nil
}
