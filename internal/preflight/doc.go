// Package preflight provides readiness checks for the filesystem paths and
// the index database that unify depends on.
//
// The CLI "unify check" command runs RunAll and renders one status line per
// Result. Individual checks are exported so other commands can reuse them.
package preflight
