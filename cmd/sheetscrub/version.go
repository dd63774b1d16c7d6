package main

import (
	"fmt"
	"runtime"
)

// versionString returns the version string.
func versionString() string {
	return fmt.Sprintf("sheetscrub %s (%s, %s, %s)", version, commit[:min(7, len(commit))], date, runtime.Version())
}
