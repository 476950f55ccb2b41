package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, filepath.Join("/project", ".siunit"), p.Root)
	assert.Equal(t, filepath.Join("/project", ".siunit", "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join("/project", ".siunit", "units.txt"), p.Units)
	assert.Equal(t, filepath.Join("/project", ".siunit", "quantities.db"), p.Store)
	assert.Equal(t, filepath.Join("/project", ".siunit", "log"), p.LogDir)
	assert.Equal(t, filepath.Join("/project", ".siunit", "log", "watch.log"), p.WatchLog)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)

	// First call creates directories.
	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.LogDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is idempotent.
	require.NoError(t, p.EnsureDirs())
}

func TestMigrate_FreshInstall(t *testing.T) {
	p := NewPaths(t.TempDir())
	require.NoError(t, p.EnsureDirs())

	count, err := p.Migrate()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMigrate_OldLayout(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)
	require.NoError(t, p.EnsureDirs())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "siunit.yaml"), []byte("logging:\n  level: info\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "units.txt"), []byte("m;\n"), 0644))

	count, err := p.Migrate()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := os.ReadFile(p.Units)
	require.NoError(t, err)
	assert.Equal(t, "m;\n", string(data))
	_, err = os.Stat(filepath.Join(dir, "units.txt"))
	assert.True(t, os.IsNotExist(err))

	// Second run has nothing left to move.
	count, err = p.Migrate()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMigrate_KeepsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)
	require.NoError(t, p.EnsureDirs())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "units.txt"), []byte("old;\n"), 0644))
	require.NoError(t, os.WriteFile(p.Units, []byte("new;\n"), 0644))

	count, err := p.Migrate()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	data, err := os.ReadFile(p.Units)
	require.NoError(t, err)
	assert.Equal(t, "new;\n", string(data))
}
