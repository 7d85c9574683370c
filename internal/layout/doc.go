// Package layout maps manifest relative paths onto destination directories.
//
// A Layout is a closed set of strategies selected by configuration; Resolver
// applies one uniformly to every category. Resolution is pure string work and
// never touches the filesystem, which keeps it safe to call from dry runs.
//
// Two policies are deliberate: prefix-stripping layouts use the first filter
// in configured order that prefixes the path, and a path that matches no
// filter keeps its full directory.
package layout
