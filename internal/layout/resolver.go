package layout

import (
	"fmt"
	"path/filepath"
	"strings"

	"backupphotos/internal/relpath"
	"backupphotos/internal/services"
)

const (
	// DefaultRoot is the output root used when none is configured.
	DefaultRoot = "Photos"
	// WrapperExt marks directories that group a live photo's still and video.
	WrapperExt = ".pvt"
	// ImportsDir is the folder the smart layout uses for imported media.
	ImportsDir = "Imports"
)

// Resolver computes destination directories. The zero value resolves Raw
// paths under DefaultRoot.
type Resolver struct {
	Root         string
	Layout       Layout
	ImportMarker string
}

func (r Resolver) root() string {
	if strings.TrimSpace(r.Root) == "" {
		return DefaultRoot
	}
	return r.Root
}

// Resolve returns the destination directory for relativePath in the category
// labelled label. filters are the category's prefix filters in configured
// order; only the prefix-stripping layouts consult them.
func (r Resolver) Resolve(relativePath, label string, filters []string) (string, error) {
	dir := relpath.Dir(relativePath)
	if r.Layout.StripsPrefix() {
		dir = strippedDir(relativePath, filters)
	}
	ext := extFolder(relativePath)

	var parts []string
	switch r.Layout {
	case Raw:
		parts = []string{dir}
	case Type:
		parts = []string{label, dir}
	case Ext:
		parts = []string{ext, dir}
	case TypeExt:
		parts = []string{label, ext, dir}
	case Sim:
		parts = []string{dir}
	case TypeSim:
		parts = []string{label, dir}
	case ExtSim:
		parts = []string{ext, dir}
	case TypeExtSim:
		parts = []string{label, ext, dir}
	case Smart:
		parts = r.smartParts(dir, label)
	default:
		return "", services.Wrap(services.ErrConfiguration, "layout", "resolve", fmt.Sprintf("unsupported layout %s", r.Layout), nil)
	}
	return r.join(relativePath, parts)
}

// WrapperDir returns the live photo wrapper directory for relativePath inside destination.
func WrapperDir(destination, relativePath string) string {
	return filepath.Join(destination, relpath.BaseStem(relativePath)+WrapperExt)
}

// IsWrapper reports whether a directory name carries the wrapper extension.
func IsWrapper(name string) bool {
	return strings.EqualFold(relpath.Ext(filepath.ToSlash(name)), WrapperExt)
}

// StripFilter removes the first filter, in configured order, that prefixes
// relativePath. ok is false when no filter matches.
func StripFilter(relativePath string, filters []string) (stripped string, ok bool) {
	for _, filter := range filters {
		if strings.HasPrefix(relativePath, filter) {
			return strings.TrimPrefix(relativePath, filter), true
		}
	}
	return relativePath, false
}

func strippedDir(relativePath string, filters []string) string {
	stripped, _ := StripFilter(relativePath, filters)
	return relpath.Dir(stripped)
}

func extFolder(relativePath string) string {
	return strings.ToUpper(strings.TrimPrefix(relpath.Ext(relativePath), "."))
}

func (r Resolver) smartParts(dir, label string) []string {
	parts := []string{label}
	if r.ImportMarker != "" && strings.HasSuffix(dir, r.ImportMarker) {
		parts = append(parts, ImportsDir)
	}
	segments := relpath.Segments(dir)
	parent := segments[len(segments)-1]
	if IsWrapper(parent) && len(segments) > 1 {
		return append(parts, segments[len(segments)-2], parent)
	}
	return append(parts, parent)
}

// join assembles the destination and refuses results that climb out of the
// root through ".." segments in the manifest path.
func (r Resolver) join(relativePath string, parts []string) (string, error) {
	root := filepath.Clean(r.root())
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, root)
	for _, part := range parts {
		if part != "" {
			elems = append(elems, filepath.FromSlash(part))
		}
	}
	dest := filepath.Join(elems...)
	rel, err := filepath.Rel(root, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", services.Wrap(services.ErrValidation, "layout", "resolve", fmt.Sprintf("relative path %q escapes the output root", relativePath), err)
	}
	return dest, nil
}
