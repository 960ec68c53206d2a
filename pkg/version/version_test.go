package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/quantmind-br/ghfetch/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_String_Short_Full(t *testing.T) {
	// Preserve original values
	origV, origB, origC := version.Version, version.BuildTime, version.Commit
	defer func() { version.Version, version.BuildTime, version.Commit = origV, origB, origC }()

	version.Version = "1.2.3"
	version.BuildTime = "2026-01-05T00:00:00Z"
	version.Commit = "deadbeef"

	info := version.Get()
	require.Equal(t, "1.2.3", info.Version)
	require.Equal(t, "2026-01-05T00:00:00Z", info.BuildTime)
	require.Equal(t, "deadbeef", info.Commit)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
	require.NotEmpty(t, info.GoVersion)

	assert.Equal(t, "1.2.3", version.Short())

	s := info.String()
	assert.True(t, strings.HasPrefix(s, "ghfetch 1.2.3 "))
	assert.Contains(t, s, "commit: deadbeef")
	assert.Contains(t, s, "built: 2026-01-05T00:00:00Z")
	assert.Equal(t, s, version.Full())
}

func TestUserAgent(t *testing.T) {
	orig := version.Version
	defer func() { version.Version = orig }()

	version.Version = "0.4.0"
	assert.Equal(t, "ghfetch/0.4.0", version.UserAgent())
}
