// Package version exposes the build metadata stamped into the strato binary.
package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Build is a snapshot of the binary's build metadata.
type Build struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"buildTime" yaml:"buildTime"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get collects the stamped variables and the runtime details into a Build.
func Get() Build {
	return Build{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// ShortCommit abbreviates the commit SHA to eight characters.
func (b Build) ShortCommit() string {
	if len(b.Commit) > 8 {
		return b.Commit[:8]
	}
	return b.Commit
}

func (b Build) String() string {
	return fmt.Sprintf("strato %s (commit %s, built %s, %s, %s)",
		b.Version, b.ShortCommit(), b.BuildTime, b.GoVersion, b.Platform)
}

// Info renders the one-line human-readable version string.
func Info() string {
	return Get().String()
}
