package grove

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config configures a Director and the window opened by Run.
type Config struct {
	Title     string `env:"GROVE_TITLE"     envDefault:"grove"`
	Width     int    `env:"GROVE_WIDTH"     envDefault:"640"`
	Height    int    `env:"GROVE_HEIGHT"    envDefault:"480"`
	Resizable bool   `env:"GROVE_RESIZABLE"`

	// TPS is the fixed tick rate. Every tick advances the runtime by 1/TPS.
	TPS int `env:"GROVE_TPS" envDefault:"60"`
	// MaxDelta caps the seconds a single tick may advance. 0 disables the cap.
	MaxDelta float64 `env:"GROVE_MAX_DELTA" envDefault:"0.25"`

	// Debug enables tree checks, the frame-loop ownership check and
	// per-frame timing logs.
	Debug bool `env:"GROVE_DEBUG"`
	// ShowStats draws the stats overlay.
	ShowStats bool `env:"GROVE_SHOW_STATS"`
	// ScriptDir, when set, is a directory of action definitions that is
	// loaded on start and reloaded on change.
	ScriptDir string `env:"GROVE_SCRIPT_DIR"`
}

// DefaultConfig returns the configuration used when no environment
// variables are set.
func DefaultConfig() Config {
	return Config{
		Title:    "grove",
		Width:    640,
		Height:   480,
		TPS:      60,
		MaxDelta: 0.25,
	}
}

// LoadConfig reads the configuration from GROVE_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("grove: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("grove: invalid screen size %dx%d", c.Width, c.Height)
	case c.TPS <= 0:
		return fmt.Errorf("grove: invalid TPS %d", c.TPS)
	case c.MaxDelta < 0:
		return errors.New("grove: negative max delta")
	}
	return nil
}
