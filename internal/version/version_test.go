package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShorten(t *testing.T) {
	assert.Equal(t, "0123456", shorten("0123456789abcdef"))
	assert.Equal(t, "abc", shorten("abc"))
	assert.Equal(t, "unknown", shorten("unknown"))
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "1.2.3", ShortCommit: "abcdef0", BuildTime: "2024-06-01", GoVersion: "go1.23.6"}
	assert.Equal(t, "AnglersLog v1.2.3 (commit: abcdef0, built: 2024-06-01, go: go1.23.6)", info.String())

	info.Dirty = true
	assert.True(t, strings.HasSuffix(info.String(), " dirty"))
}

func TestGet_UsesInjectedValues(t *testing.T) {
	old := GitCommit
	GitCommit = "feedfacecafebeef"
	defer func() { GitCommit = old }()

	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, "feedfacecafebeef", info.GitCommit)
	assert.Equal(t, "feedfac", info.ShortCommit)
	assert.NotEmpty(t, info.GoVersion)
}
