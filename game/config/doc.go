// Package config loads and caches game rule files.
//
// Rule files are JSON documents in a single directory, one file per ruleset;
// the filename minus extension is the config ID used when creating sessions.
// Files are parsed and validated on first load and cached afterwards, so a
// session create never re-reads disk for a known config.
//
// The default configuration is classic.json when present, otherwise the
// first valid file in the directory, otherwise the built-in classic rules.
package config
