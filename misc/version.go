// Package misc keeps program identity in a single place.
package misc

import (
	"runtime/debug"
)

const appName = "unaligned"

// Set by linker when building release binaries.
var (
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns VCS revision either provided at link time or recorded
// by go build in the binary.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var rev, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if len(rev) == 0 {
		return "unknown"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return rev + dirty
}
