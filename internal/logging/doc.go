// Package logging assembles structured slog loggers and formatting helpers used
// across unify.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so batch code (scans, index writes) tags
// log lines with its run ID. The CLI logger writes readable lines to stderr and
// a JSON copy to the log directory, keeping stdout free for command output.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
