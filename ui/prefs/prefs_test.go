package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p := Load()
	assert.Empty(t, p.String("lastDirectory"))
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p := Load()
	p.SetString("lastDirectory", "/photos/fall-line")
	require.NoError(t, p.Save())

	again := Load()
	assert.Equal(t, "/photos/fall-line", again.String("lastDirectory"))
}

func TestLoadCorruptFileYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "stylemark")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "preferences.json"), []byte("{oops"), 0o644))

	p := Load()
	assert.Empty(t, p.String("lastDirectory"))
}
