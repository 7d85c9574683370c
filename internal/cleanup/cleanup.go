// Package cleanup reconciles live photo wrapper directories in the message
// attachment output with the global keep-still/keep-video policy once every
// file has been relocated.
package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"backupphotos/internal/classify"
	"backupphotos/internal/layout"
	"backupphotos/internal/logging"
	"backupphotos/internal/relocate"
)

// HousekeepingFile is the platform metadata file that does not keep a
// directory alive.
const HousekeepingFile = ".DS_Store"

// Result contains the outcome of a sweep.
type Result struct {
	RemovedFiles []string
	RemovedDirs  []string
	Errors       []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// Changed reports whether the sweep modified the tree.
func (r Result) Changed() bool {
	return len(r.RemovedFiles)+len(r.RemovedDirs) > 0
}

type sweeper struct {
	policy relocate.Policy
	logger *slog.Logger
	root   string
	result *Result
}

// Sweep visits every wrapper directory under roots. Files whose type the
// policy discards are deleted. When wrappers are declined every contained
// file is deleted and the wrapper is removed. Wrappers left
// empty are removed, and a parent left holding nothing but HousekeepingFile
// is removed with it unless the parent is a sweep root. Missing roots are
// skipped. Running Sweep again on its own output changes nothing.
func Sweep(ctx context.Context, roots []string, policy relocate.Policy, logger *slog.Logger) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "cleanup"))
	result := Result{}

	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: root, Error: err})
			return result
		}
		s := sweeper{policy: policy, logger: logger, root: filepath.Clean(root), result: &result}
		wrappers, err := s.findWrappers()
		if err != nil {
			s.recordError(s.root, "scan cleanup root", err)
			continue
		}
		for _, wrapper := range wrappers {
			s.sweepWrapper(wrapper)
		}
	}
	return result
}

func (s *sweeper) findWrappers() ([]string, error) {
	var wrappers []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() && layout.IsWrapper(d.Name()) {
			wrappers = append(wrappers, path)
			return filepath.SkipDir
		}
		return nil
	})
	sort.Strings(wrappers)
	return wrappers, err
}

func (s *sweeper) sweepWrapper(wrapper string) {
	entries, err := os.ReadDir(wrapper)
	if err != nil {
		s.recordError(wrapper, "read wrapper", err)
		return
	}
	parent := filepath.Dir(wrapper)

	remaining := 0
	housekeeping := false
	for _, entry := range entries {
		if entry.Name() == HousekeepingFile {
			housekeeping = true
			continue
		}
		if !entry.Type().IsRegular() {
			remaining++
			continue
		}
		path := filepath.Join(wrapper, entry.Name())
		if !s.policy.SavePVT || !s.policy.KeepsStandalone(classify.RoleOf(entry.Name())) {
			s.removeFile(path)
			continue
		}
		remaining++
	}

	if remaining > 0 {
		return
	}
	if housekeeping {
		s.removeFile(filepath.Join(wrapper, HousekeepingFile))
	}
	if err := os.Remove(wrapper); err != nil {
		s.recordError(wrapper, "remove wrapper", err)
		return
	}
	s.result.RemovedDirs = append(s.result.RemovedDirs, wrapper)
	s.pruneParent(parent)
}

// pruneParent removes dir when only the housekeeping file is left in it.
// The sweep root and anything outside it are kept.
func (s *sweeper) pruneParent(dir string) {
	rel, err := filepath.Rel(s.root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.recordError(dir, "read parent", err)
		return
	}
	for _, entry := range entries {
		if entry.Name() != HousekeepingFile {
			return
		}
	}
	if len(entries) == 1 {
		s.removeFile(filepath.Join(dir, HousekeepingFile))
	}
	if err := os.Remove(dir); err != nil {
		s.recordError(dir, "remove empty parent", err)
		return
	}
	s.result.RemovedDirs = append(s.result.RemovedDirs, dir)
}

func (s *sweeper) removeFile(path string) {
	if err := os.Remove(path); err != nil {
		s.recordError(path, "remove file", err)
		return
	}
	s.result.RemovedFiles = append(s.result.RemovedFiles, path)
	s.logger.Debug("removed file", logging.String("path", path))
}

func (s *sweeper) recordError(path, action string, err error) {
	s.result.Errors = append(s.result.Errors, CleanupError{Path: path, Error: err})
	s.logger.Warn("cleanup step failed",
		logging.String("path", path),
		logging.String("action", action),
		logging.Error(err),
		logging.String(logging.FieldEventType, "cleanup_failed"),
		logging.String(logging.FieldErrorHint, "check output directory permissions"),
		logging.String(logging.FieldImpact, "wrapper directory left in the output tree"),
	)
}
