// Package config loads, normalizes, and validates run configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and normalizes extension lists so the
// classifier can compare them directly. Validation failures carry the
// services.ErrConfiguration marker and abort a run before any classification.
package config
