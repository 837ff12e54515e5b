// SPDX-License-Identifier: MIT

// Package version carries build identity stamped in via ldflags.
package version

var (
	// Version is the current application version, set by the build
	// system (ldflags).
	Version = "v1.0.0"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)
