// Package config handles client configuration loading and management.
package config

import "fmt"

// Config holds all client settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	World    WorldConfig    `yaml:"world"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// WorldConfig holds terrain and streaming settings.
type WorldConfig struct {
	// ViewRadius is the horizontal chunk radius kept loaded around the
	// camera. DetailRadius chunks (<= ViewRadius) get per-tile meshes;
	// the rest use maximally merged geometry.
	ViewRadius   int `yaml:"view_radius"`
	DetailRadius int `yaml:"detail_radius"`

	// Generator selects the terrain source: "flat" or "perlin".
	Generator   string `yaml:"generator"`
	Seed        int64  `yaml:"seed"`
	GroundLevel int    `yaml:"ground_level"`

	// Vertical chunk range loaded per column, inclusive.
	MinChunkY int `yaml:"min_chunk_y"`
	MaxChunkY int `yaml:"max_chunk_y"`
}

// EngineConfig holds per-tick work limits for the chunk store.
type EngineConfig struct {
	MaxTasksPerTick    int `yaml:"max_tasks_per_tick"`
	MaxRemeshesPerTick int `yaml:"max_remeshes_per_tick"`
	// Workers is the number of background meshing goroutines; 0 meshes
	// inline on the main loop.
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		World: WorldConfig{
			ViewRadius:   8,
			DetailRadius: 3,
			Generator:    "flat",
			Seed:         1,
			GroundLevel:  8,
			MinChunkY:    0,
			MaxChunkY:    3,
		},
		Engine: EngineConfig{
			MaxTasksPerTick:    8,
			MaxRemeshesPerTick: 4,
			Workers:            1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks cross-field constraints that YAML or flags can break.
func (c *Config) Validate() error {
	if c.World.ViewRadius < 0 {
		return fmt.Errorf("world.view_radius must be >= 0, got %d", c.World.ViewRadius)
	}
	if c.World.DetailRadius < 0 || c.World.DetailRadius > c.World.ViewRadius {
		return fmt.Errorf("world.detail_radius must be in [0, view_radius], got %d", c.World.DetailRadius)
	}
	if c.World.MinChunkY > c.World.MaxChunkY {
		return fmt.Errorf("world.min_chunk_y %d exceeds max_chunk_y %d", c.World.MinChunkY, c.World.MaxChunkY)
	}
	switch c.World.Generator {
	case "flat", "perlin":
	default:
		return fmt.Errorf("world.generator must be flat or perlin, got %q", c.World.Generator)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0, got %d", c.Engine.Workers)
	}
	return nil
}
