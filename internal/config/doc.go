// Package config loads, normalizes, and validates unify configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// UNIFY_DATA_DIR. The Config type also builds the identifier normalizer so
// the CLI, the index, and the scanner agree on one profile.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
