package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/halvard/corechess/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	s, err := config.Load(context.Background(), filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.EqualValues(t, 1<<16, s.Engine.CacheSize)
	_, ok := s.Engine.MaxDepth.V()
	assert.False(t, ok, "MaxDepth must be unset by default")
}

func TestLoad_DecodesProvidedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corechess.toml")
	contents := `
[credentials]
username = "bot"
password = "secret"

[engine]
max_depth = 6
time_budget_multiplier = 0.8
quiescence_extension_cap = 4
cache_size = 4096

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	s, err := config.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "bot", s.Username)
	assert.Equal(t, "secret", s.Password)
	assert.Equal(t, "debug", s.LogLevel)
	assert.EqualValues(t, 4096, s.Engine.CacheSize)
	assert.InDelta(t, 0.8, s.Engine.TimeBudgetMultiplier, 1e-9)

	maxDepth, ok := s.Engine.MaxDepth.V()
	require.True(t, ok)
	assert.Equal(t, 6, maxDepth)

	quiCap, ok := s.Engine.QuiescenceExtensionCap.V()
	require.True(t, ok)
	assert.Equal(t, 4, quiCap)
}
