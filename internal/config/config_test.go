package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[highlight]
patterns = "cat|dog"
match_case = false

[display]
use_hex_paths = true
page_size = 4096
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cat|dog", cfg.Highlight.Patterns)
	assert.False(t, cfg.Highlight.MatchCase)
	assert.True(t, cfg.Display.UseHexPaths)
	assert.Equal(t, int64(4096), cfg.Display.PageSize)
	assert.True(t, cfg.Display.ShowLineNumbers, "unset keys keep defaults")
	assert.Equal(t, []string{"q", "ctrl+c"}, cfg.Keybindings.Quit)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\npage_size = 0\n"), 0o644))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "page_size")
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Highlight.Patterns = `\x41|b`

	require.NoError(t, SaveFile(path, cfg))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "featview", "config.toml"), GetConfigPath())
}
