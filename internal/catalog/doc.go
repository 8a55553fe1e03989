// Package catalog provides an in-memory dictionary from UIDs to the original
// identifiers they were computed from.
//
// Callers register every known asset location with Add and later resolve any
// spelling of it (a UID, a relative path, a path with a different extension or
// separator style) with Lookup:
//
//	c := catalog.New(nil, nil)
//	c.Add("./songs/main_theme.ogg")
//	c.Lookup("songs/main-theme") // "./songs/main_theme.ogg", true
//
// Two originals that normalize to the same UID share one slot; the most recent
// Add wins and the replacement is logged. Use package index for a persistent,
// SQLite-backed equivalent.
package catalog
