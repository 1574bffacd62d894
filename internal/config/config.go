package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/keytile/internal/grid"
)

// ValidationError reports a config value that failed validation together
// with its YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// GridConfig describes the selection grid dimensions.
type GridConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
	Gap     int `yaml:"gap"`
}

// Appearance configures overlay colors. Colors are "#RRGGBB" strings in
// YAML and parsed to X11 pixel values.
type Appearance struct {
	TileColor       string `yaml:"tile_color"`
	HighlightColor  string `yaml:"highlight_color"`
	BackgroundColor string `yaml:"background_color"`
	TextColor       string `yaml:"text_color"`
}

// Config is the effective keytile configuration.
type Config struct {
	Hotkey     string     `yaml:"hotkey"`
	Grid       GridConfig `yaml:"grid"`
	Appearance Appearance `yaml:"appearance"`
	LogLevel   string     `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Hotkey: "Mod4-t",
		Grid: GridConfig{
			Columns: 4,
			Rows:    2,
			Gap:     10,
		},
		Appearance: Appearance{
			TileColor:       "#305080",
			HighlightColor:  "#FFA000",
			BackgroundColor: "#202030",
			TextColor:       "#FFFFFF",
		},
		LogLevel: "info",
	}
}

// GridSettings converts the configured grid into the resolver's form.
func (c *Config) GridSettings() grid.Config {
	return grid.Config{
		Columns: c.Grid.Columns,
		Rows:    c.Grid.Rows,
		Gap:     c.Grid.Gap,
	}
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Hotkey) == "" {
		return &ValidationError{Path: "hotkey", Err: fmt.Errorf("hotkey is required")}
	}
	if c.Grid.Columns < 1 || c.Grid.Columns > grid.MaxColumns {
		return &ValidationError{Path: "grid.columns", Err: fmt.Errorf("must be between 1 and %d", grid.MaxColumns)}
	}
	if c.Grid.Rows < 1 || c.Grid.Rows > grid.MaxRows {
		return &ValidationError{Path: "grid.rows", Err: fmt.Errorf("must be between 1 and %d", grid.MaxRows)}
	}
	if c.Grid.Gap < 0 || c.Grid.Gap > 50 {
		return &ValidationError{Path: "grid.gap", Err: fmt.Errorf("must be between 0 and 50")}
	}

	for path, value := range map[string]string{
		"appearance.tile_color":       c.Appearance.TileColor,
		"appearance.highlight_color":  c.Appearance.HighlightColor,
		"appearance.background_color": c.Appearance.BackgroundColor,
		"appearance.text_color":       c.Appearance.TextColor,
	} {
		if _, err := ParseColor(value); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("must be one of: debug, info, warn, error")}
	}

	return nil
}

// ParseColor converts a "#RRGGBB" string to an X11 pixel value.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("color %q must be in #RRGGBB form", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be in #RRGGBB form", s)
	}
	return uint32(v), nil
}
