// Package relpath manipulates manifest relative paths. Manifest paths always
// use forward slashes regardless of the host platform, so the helpers here
// never consult path/filepath.
package relpath

import "strings"

// Dir returns every segment but the last. A path without a separator has an
// empty directory.
func Dir(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// Base returns the last segment of p.
func Base(p string) string {
	return p[strings.LastIndexByte(p, '/')+1:]
}

// Ext returns the extension of the last segment including the leading dot.
// Leading dots of the segment do not start an extension, so ".DS_Store" has
// none.
func Ext(p string) string {
	base := Base(p)
	trimmed := strings.TrimLeft(base, ".")
	idx := strings.LastIndexByte(trimmed, '.')
	if idx < 0 {
		return ""
	}
	return trimmed[idx:]
}

// Stem returns p with its extension removed.
func Stem(p string) string {
	return p[:len(p)-len(Ext(p))]
}

// BaseStem returns the last segment of p without its extension.
func BaseStem(p string) string {
	return Stem(Base(p))
}

// Segments splits p on forward slashes.
func Segments(p string) []string {
	return strings.Split(p, "/")
}
