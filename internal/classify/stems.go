package classify

import (
	"golang.org/x/text/cases"

	"backupphotos/internal/relpath"
)

// Role is the part a file can play in a live photo pair.
type Role int

const (
	RoleNone Role = iota
	// RoleStill is the image half (.jpg, .jpeg).
	RoleStill
	// RoleMotion is the video half (.mov).
	RoleMotion
)

// FoldExt returns the case-folded extension of path including the dot.
func FoldExt(path string) string {
	return cases.Fold().String(relpath.Ext(path))
}

// RoleOf reports the live photo role implied by the extension of path.
func RoleOf(path string) Role {
	switch FoldExt(path) {
	case ".jpg", ".jpeg":
		return RoleStill
	case ".mov":
		return RoleMotion
	default:
		return RoleNone
	}
}

// StemSets holds the extension-less relative paths of camera roll stills and
// motion files.
type StemSets struct {
	Still  map[string]struct{}
	Motion map[string]struct{}
}

func newStemSets() StemSets {
	return StemSets{Still: make(map[string]struct{}), Motion: make(map[string]struct{})}
}

func (s StemSets) add(relativePath string) {
	switch RoleOf(relativePath) {
	case RoleStill:
		s.Still[relpath.Stem(relativePath)] = struct{}{}
	case RoleMotion:
		s.Motion[relpath.Stem(relativePath)] = struct{}{}
	}
}

// IsPaired reports whether relativePath has a live photo counterpart: a still
// whose stem is in the motion set, or a motion file whose stem is in the
// still set. Stems compare exactly; only the extension is case-insensitive.
func (s StemSets) IsPaired(relativePath string) bool {
	stem := relpath.Stem(relativePath)
	switch RoleOf(relativePath) {
	case RoleStill:
		_, ok := s.Motion[stem]
		return ok
	case RoleMotion:
		_, ok := s.Still[stem]
		return ok
	default:
		return false
	}
}
