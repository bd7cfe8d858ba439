package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/featview/internal/config"
)

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name      string
		flags     flags
		set       []string
		wantHex   bool
		wantPats  string
		wantMatch bool
	}{
		{
			name:      "nothing set keeps config",
			flags:     flags{Hex: true, Highlight: "cat", MatchCase: false},
			wantHex:   false,
			wantPats:  "from-file",
			wantMatch: true,
		},
		{
			name:      "all set override",
			flags:     flags{Hex: true, Highlight: "cat|dog", MatchCase: false},
			set:       []string{"hex", "highlight", "match-case"},
			wantHex:   true,
			wantPats:  "cat|dog",
			wantMatch: false,
		},
		{
			name:      "empty highlight clears patterns",
			flags:     flags{Highlight: ""},
			set:       []string{"highlight"},
			wantHex:   false,
			wantPats:  "",
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Highlight.Patterns = "from-file"

			isSet := func(name string) bool {
				for _, s := range tt.set {
					if s == name {
						return true
					}
				}
				return false
			}
			applyFlags(cfg, &tt.flags, isSet)

			assert.Equal(t, tt.wantHex, cfg.Display.UseHexPaths)
			assert.Equal(t, tt.wantPats, cfg.Highlight.Patterns)
			assert.Equal(t, tt.wantMatch, cfg.Highlight.MatchCase)
		})
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "featview", "config.toml")

	require.NoError(t, initConfig(path))
	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	assert.ErrorContains(t, initConfig(path), "already exists")
	assert.Error(t, initConfig(""))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
