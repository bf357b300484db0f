// Package logging assembles the structured slog loggers used across
// watchnext.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers plus context-aware constructors so
// request code tags log lines with session and list identifiers the same way
// everywhere. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
