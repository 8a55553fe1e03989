// Package scanner walks a directory tree and records every accepted file in
// the persistent index under a single run ID.
package scanner
