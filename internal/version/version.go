// Package version provides version information for the acelink CLI.
package version

import "fmt"

// Set via ldflags during build.
var (
	Version = "dev"
	Commit  = "none"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// String returns the version with the commit it was built from.
func String() string {
	return fmt.Sprintf("%s (commit %s)", Version, Commit)
}

// UserAgent identifies acelink in HTTP response headers.
func UserAgent() string {
	return "acelink/" + Version
}
