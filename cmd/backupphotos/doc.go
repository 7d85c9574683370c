// Package main hosts the backupphotos CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration lazily, builds the structured
// logger, and hands off to internal/extract for the actual work. Commands
// render either human-readable tables or JSON (--json) and only draw
// progress bars and colour when attached to a terminal.
package main
