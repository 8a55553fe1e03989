// Package main hosts the unify CLI entrypoint and command graph.
//
// The Cobra command tree exposes identifier normalization, the persistent
// index (add, scan, list, remove, clear, lookup), manifest-based resolution
// through the in-memory catalog, configuration scaffolding, and preflight
// checks. Configuration and logging are resolved once per invocation in
// commandContext so subcommands only describe their own flags and output.
//
// Command results go to stdout; logs and diagnostics go to stderr so output
// can be piped into other tools.
package main
