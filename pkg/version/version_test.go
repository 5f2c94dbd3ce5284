package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildString(t *testing.T) {
	b := Build{
		Version:   "1.2.3",
		Commit:    "0123456789abcdef",
		BuildTime: "2026-08-29T10:00:00Z",
		GoVersion: "go1.23.4",
		Platform:  "linux/amd64",
	}

	s := b.String()
	assert.Contains(t, s, "strato 1.2.3")
	assert.Contains(t, s, "commit 01234567")
	assert.NotContains(t, s, "0123456789abcdef")
	assert.Contains(t, s, "linux/amd64")
}

func TestShortCommit(t *testing.T) {
	assert.Equal(t, "01234567", Build{Commit: "0123456789abcdef"}.ShortCommit())
	assert.Equal(t, "unknown", Build{Commit: "unknown"}.ShortCommit())
	assert.Equal(t, "abc", Build{Commit: "abc"}.ShortCommit())
}

func TestGetReflectsRuntime(t *testing.T) {
	b := Get()
	assert.Equal(t, Version, b.Version)
	assert.Equal(t, runtime.Version(), b.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, b.Platform)
}
