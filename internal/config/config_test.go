package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("unexpected default resolution %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected VSync enabled by default")
	}
	if cfg.World.ViewRadius <= 0 {
		t.Errorf("expected positive view radius, got %d", cfg.World.ViewRadius)
	}
	if cfg.World.DetailRadius > cfg.World.ViewRadius {
		t.Error("detail radius must not exceed view radius")
	}
	if cfg.World.Generator != "flat" {
		t.Errorf("expected flat generator by default, got %q", cfg.World.Generator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFromFileMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
graphics:
  width: 1920
world:
  view_radius: 12
  generator: flat
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	// Untouched fields keep defaults.
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected default height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.World.ViewRadius != 12 {
		t.Errorf("expected view radius 12, got %d", cfg.World.ViewRadius)
	}
	if cfg.World.Generator != "flat" {
		t.Errorf("expected generator flat, got %q", cfg.World.Generator)
	}
	if cfg.Engine.MaxTasksPerTick != 8 {
		t.Errorf("expected default task limit 8, got %d", cfg.Engine.MaxTasksPerTick)
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("graphics: [not a map"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"default", func(c *Config) {}, true},
		{"negative view radius", func(c *Config) { c.World.ViewRadius = -1 }, false},
		{"detail exceeds view", func(c *Config) { c.World.DetailRadius = c.World.ViewRadius + 1 }, false},
		{"inverted chunk range", func(c *Config) { c.World.MinChunkY = 5; c.World.MaxChunkY = 2 }, false},
		{"unknown generator", func(c *Config) { c.World.Generator = "mandelbrot" }, false},
		{"negative workers", func(c *Config) { c.Engine.Workers = -1 }, false},
		{"zero workers", func(c *Config) { c.Engine.Workers = 0 }, true},
		{"flat generator", func(c *Config) { c.World.Generator = "flat" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.World.Seed = 42
	cfg.World.Generator = "flat"
	cfg.Logging.Level = "debug"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}

	if loaded.World.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.World.Seed)
	}
	if loaded.World.Generator != "flat" {
		t.Errorf("expected generator flat, got %q", loaded.World.Generator)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", loaded.Logging.Level)
	}
}
