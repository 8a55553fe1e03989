// Package unify turns resource identifiers into Unified IDs (UIDs).
//
// A UID is a location-independent lookup key: paths, URLs, URIs, virtual
// archive paths and bare IDs that name the same asset collapse to the same
// string regardless of separator style, case, whitespace, punctuation,
// extension, path depth, segment order, plurality or inline #tags.
//
//	unify.Normalize("C:\\data\\folder\\asset.jpg", nil)   // "asset-folder"
//	unify.Normalize("http://host/folder/asset.png?v=2", nil) // "asset-folder"
//	unify.Normalize("sounds/kid", nil)                    // "kid-sound"
//
// The transform is lossy on purpose: only the last two path segments survive,
// extensions are dropped and one trailing "s" is stripped from every token.
// It is a total function; malformed input produces a possibly empty UID,
// never an error.
//
// # Tags
//
// Inline tags such as "#win32" or "#xbox360=yes" are removed from the UID and,
// when a destination slice is supplied, appended to it in scan order:
//
//	var tags []string
//	unify.Normalize("splash #mobile/logo #win32=always.png", &tags)
//	// "logo-splash", tags == ["#mobile", "#win32=always"]
//
// # Concurrency
//
// Lookup tables are built once on first use and never mutated afterwards, so
// Normalize and Normalizer values are safe for concurrent use.
package unify
