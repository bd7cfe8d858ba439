package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig      `toml:"theme"`
	Highlight   HighlightConfig  `toml:"highlight"`
	Keybindings KeybindingConfig `toml:"keybindings"`
	Display     DisplayConfig    `toml:"display"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	Name            string `toml:"name"`
	LineNumbers     string `toml:"line_numbers"`
	Path            string `toml:"path"`
	Histogram       string `toml:"histogram"`
	StatusBar       string `toml:"status_bar"`
	StatusBarText   string `toml:"status_bar_text"`
	SelectedLine    string `toml:"selected_line"`
	UserMatch       string `toml:"user_match"`
	UserMatchText   string `toml:"user_match_text"`
	ContextSyntaxes string `toml:"context_syntax_style"`
}

// HighlightConfig holds the startup highlight settings
type HighlightConfig struct {
	// Patterns is a '|' separated list, escape codes allowed
	Patterns  string `toml:"patterns"`
	MatchCase bool   `toml:"match_case"`
}

// KeybindingConfig allows customizing keybindings
type KeybindingConfig struct {
	Quit       []string `toml:"quit"`
	ScrollUp   []string `toml:"scroll_up"`
	ScrollDown []string `toml:"scroll_down"`
	PageUp     []string `toml:"page_up"`
	PageDown   []string `toml:"page_down"`
	Top        []string `toml:"top"`
	Bottom     []string `toml:"bottom"`
	Highlight  []string `toml:"highlight"`
	MatchCase  []string `toml:"match_case"`
	ToggleHex  []string `toml:"toggle_hex"`
	Goto       []string `toml:"goto"`
	Navigable  []string `toml:"navigable_only"`
	Context    []string `toml:"toggle_context"`
	Export     []string `toml:"export"`
	ViewUp     []string `toml:"view_up"`
	ViewDown   []string `toml:"view_down"`
	Histograms []string `toml:"histograms_only"`
	TextFilter []string `toml:"text_filter"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowLineNumbers bool  `toml:"show_line_numbers"`
	UseHexPaths     bool  `toml:"use_hex_paths"`
	PageSize        int64 `toml:"page_size"`
	ShowContext     bool  `toml:"show_context"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:            "subtle",
			LineNumbers:     "240", // Dark gray
			Path:            "110", // Muted blue
			Histogram:       "244", // Medium gray
			StatusBar:       "236", // Darker gray background
			StatusBarText:   "252", // Light gray text
			SelectedLine:    "237",
			UserMatch:       "226", // Yellow
			UserMatchText:   "16",  // Black
			ContextSyntaxes: "monokai",
		},
		Highlight: HighlightConfig{
			Patterns:  "",
			MatchCase: true,
		},
		Keybindings: KeybindingConfig{
			Quit:       []string{"q", "ctrl+c"},
			ScrollUp:   []string{"k", "up"},
			ScrollDown: []string{"j", "down"},
			PageUp:     []string{"b", "pgup", "ctrl+u"},
			PageDown:   []string{"f", "pgdown", "ctrl+d", " "},
			Top:        []string{"g", "home"},
			Bottom:     []string{"G", "end"},
			Highlight:  []string{"/"},
			MatchCase:  []string{"c"},
			ToggleHex:  []string{"x"},
			Goto:       []string{":"},
			Navigable:  []string{"a"},
			Context:    []string{"v"},
			Export:     []string{"e"},
			ViewUp:     []string{"ctrl+y"},
			ViewDown:   []string{"ctrl+e"},
			Histograms: []string{"H"},
			TextFilter: []string{"&"},
		},
		Display: DisplayConfig{
			ShowLineNumbers: true,
			UseHexPaths:     false,
			PageSize:        65536,
			ShowContext:     false,
		},
	}
}

// Validate checks values that would break the viewer
func (c *Config) Validate() error {
	if c.Display.PageSize <= 0 {
		return fmt.Errorf("display.page_size must be positive, got %d", c.Display.PageSize)
	}
	return nil
}

// LoadFile loads config from path, falling back to defaults when the
// path is empty or the file does not exist
func LoadFile(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveFile saves config to path
func SaveFile(configPath string, cfg *Config) error {
	if configPath == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "featview", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "featview", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
