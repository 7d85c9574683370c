// Package preflight provides readiness checks for the filesystem paths a run
// depends on.
//
// These checks run in two contexts:
//   - extract.Run calls RunAll before touching the backup. If any check
//     fails the run stops before classification.
//   - The CLI "backupphotos config validate" command prints every result.
package preflight
