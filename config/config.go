package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidConfig = errors.New("config: invalid value")

// Config holds the runtime settings shared by the viewer and scenectl.
// Command-line flags override these after Load.
type Config struct {
	Width    int    `env:"SCENESIM_WIDTH"     envDefault:"1280"`
	Height   int    `env:"SCENESIM_HEIGHT"    envDefault:"720"`
	TPS      int    `env:"SCENESIM_TPS"       envDefault:"60"`
	Seed     int64  `env:"SCENESIM_SEED"`
	Debug    bool   `env:"SCENESIM_DEBUG"`
	SceneDir string `env:"SCENESIM_SCENE_DIR" envDefault:"scenes"`
	Scene    string `env:"SCENESIM_SCENE"     envDefault:"playground.yaml"`
	// Watch reloads the scene when its file changes.
	Watch bool `env:"SCENESIM_WATCH" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("%w: tps %d", ErrInvalidConfig, c.TPS)
	}
	return nil
}
