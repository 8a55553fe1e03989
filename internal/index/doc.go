// Package index persists normalized identifiers in a SQLite database so that
// lookups survive between CLI invocations.
//
// Each row maps a UID to the original identifier that produced it, together
// with the tags extracted during normalization and the run that wrote it. The
// database records the normalizer profile it was built with; reopening it
// with different settings fails with ErrProfileMismatch until the index is
// cleared. Writers retry while SQLite reports the database as busy and
// coordinate across processes through the advisory Lock.
package index
