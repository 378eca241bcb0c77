// Package logging assembles structured slog loggers and formatting helpers used
// across ggnmatch.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus standardized field names so the
// engine, the remote client and the CLI tag lines the same way. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
