package meta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		config, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), config)
	})

	t.Run("file overrides only what it names", func(t *testing.T) {
		path := writeConfig(t, `
addr: ":9090"
advanced: true
search:
  depth: 3
arena:
  games: 2
`)
		config, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, ":9090", config.Addr)
		require.Equal(t, 3, config.Search.Depth)
		require.Equal(t, CANDIDATES, config.Search.Candidates, "unset fields keep their default")
		require.Equal(t, 2, config.Arena.Games)
		require.Equal(t, ARENA_CONCURRENCY, config.Arena.Concurrency)
		require.NotNil(t, config.Advanced)
		require.True(t, *config.Advanced)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search:\n  depth: 0\nmax_turns: -1\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "search depth")
		require.Contains(t, err.Error(), "max turns")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "search: [1, 2"))
		require.Error(t, err)
	})
}
