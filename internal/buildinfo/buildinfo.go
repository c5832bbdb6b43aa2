// Package buildinfo exposes the version and commit confkeep was built from.
package buildinfo

// Version is set at link-time with -ldflags.
var Version = "v0.1.0"

// Commit is set at link-time with -ldflags.
// Default is "unknown" so tests and "go run ." still work.
var Commit = "unknown"
