// Package services defines shared utilities consumed by the extraction stages
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and category labels
//     for logging.
//   - Structured error markers plus the Wrap helper that separate fatal
//     failures (configuration) from failures confined to one manifest entry
//     (not found, relocation).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
