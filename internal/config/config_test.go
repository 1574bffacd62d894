package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Grid.Columns != 4 || cfg.Grid.Rows != 2 || cfg.Grid.Gap != 10 {
		t.Errorf("default grid = %+v, want 4x2 gap 10", cfg.Grid)
	}
	if cfg.Hotkey == "" {
		t.Error("default hotkey empty")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"empty hotkey", func(c *Config) { c.Hotkey = " " }, "hotkey"},
		{"columns too high", func(c *Config) { c.Grid.Columns = 9 }, "grid.columns"},
		{"zero rows", func(c *Config) { c.Grid.Rows = 0 }, "grid.rows"},
		{"negative gap", func(c *Config) { c.Grid.Gap = -1 }, "grid.gap"},
		{"gap too large", func(c *Config) { c.Grid.Gap = 51 }, "grid.gap"},
		{"bad color", func(c *Config) { c.Appearance.TileColor = "blue" }, "appearance.tile_color"},
		{"short color", func(c *Config) { c.Appearance.TextColor = "#FFF" }, "appearance.text_color"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type %T, want *ValidationError", err)
			}
			if verr.Path != tt.wantPath {
				t.Errorf("error path = %q, want %q", verr.Path, tt.wantPath)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#FFFFFF", 0xFFFFFF, false},
		{"#305080", 0x305080, false},
		{"#000000", 0, false},
		{"FFFFFF", 0, true},
		{"#GGGGGG", 0, true},
		{"#FFFF", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestLoadFromPath(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadFromPath: %v", err)
		}
		if cfg.Grid.Columns != 4 {
			t.Errorf("columns = %d, want default 4", cfg.Grid.Columns)
		}
	})

	t.Run("partial file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "grid:\n  columns: 6\n  rows: 3\n  gap: 5\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(path)
		if err != nil {
			t.Fatalf("LoadFromPath: %v", err)
		}
		if cfg.Grid.Columns != 6 || cfg.Grid.Rows != 3 || cfg.Grid.Gap != 5 {
			t.Errorf("grid = %+v, want 6x3 gap 5", cfg.Grid)
		}
		if cfg.Hotkey != DefaultConfig().Hotkey {
			t.Errorf("hotkey = %q, want default", cfg.Hotkey)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("grid:\n  columns: 100\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFromPath(path); err == nil {
			t.Error("LoadFromPath accepted columns=100")
		}
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("grid: ["), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFromPath(path); err == nil {
			t.Error("LoadFromPath accepted malformed yaml")
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Grid.Columns = 8
	cfg.Grid.Rows = 4

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Grid != cfg.Grid {
		t.Errorf("loaded grid = %+v, want %+v", loaded.Grid, cfg.Grid)
	}
}
