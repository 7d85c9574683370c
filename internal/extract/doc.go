// Package extract runs the whole pipeline: preflight, manifest loading,
// classification, relocation and the wrapper cleanup, under a lock on the
// output tree.
//
// Run returns a Summary even when it stops early so callers can report what
// already happened. Per-entry problems (missing stored files, failed moves)
// are part of the summary and never make Run return an error; configuration
// problems, a held lock, a declined prompt and cancellation do.
package extract
