package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxConfigFileBytes is the upper bound accepted for a config file.
const MaxConfigFileBytes = 1 << 20

// SliceConfig describes one wedge of the wheel.
type SliceConfig struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"` // renderer color name, e.g. "red", "darkcyan"
}

// PinConfig describes the fixed pointer drawn above the wheel.
// The block is optional: absent means no pin element is created at all,
// not merely hidden.
type PinConfig struct {
	Symbol string `yaml:"symbol"` // glyph for the terminal renderer, e.g. "▼"
	Color  string `yaml:"color"`
}

// SpinButtonConfig describes a physical spin button wired to a GPIO pin
// (Raspberry Pi kiosk setups). Optional: absent means no trigger is
// created.
type SpinButtonConfig struct {
	GPIOPin    int  `yaml:"gpio_pin"`
	PullUp     bool `yaml:"pull_up"`     // button wired to ground, pin pulled up
	DebounceMs int  `yaml:"debounce_ms"` // contact debounce window
}

// SoundConfig enables the synthesized click played when the pointer
// crosses a slice edge. Optional: absent means no audio at all.
type SoundConfig struct {
	Volume float64 `yaml:"volume"` // 0.0-1.0
}

// WebConfig enables the web control panel. Optional.
type WebConfig struct {
	Port int `yaml:"port"`
}

// DefaultsConfig contains generic spin parameters.
type DefaultsConfig struct {
	FullRotations   int     `yaml:"full_rotations"`    // revolutions before deceleration
	SpinDurationS   float64 `yaml:"spin_duration_s"`   // decelerating spin length
	IndefiniteSpinS float64 `yaml:"indefinite_spin_s"` // undetermined spin phase length
	FrameRate       int     `yaml:"frame_rate"`        // renderer frames per second
	DebugLevel      int     `yaml:"debug_level"`       // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO        bool    `yaml:"mock_gpio"`         // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	Slices     []SliceConfig     `yaml:"slices"`
	Pin        *PinConfig        `yaml:"pin,omitempty"`         // optional
	SpinButton *SpinButtonConfig `yaml:"spin_button,omitempty"` // optional
	Sound      *SoundConfig      `yaml:"sound,omitempty"`       // optional
	Web        *WebConfig        `yaml:"web,omitempty"`         // optional
	Defaults   DefaultsConfig    `yaml:"defaults"`
}

// ValidateConfigPath checks that path points at a .yaml file inside a
// configs/ directory, rejecting traversal attempts.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Ext(abs) != ".yaml" {
		return fmt.Errorf("config file must have .yaml extension, got %q", path)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config file must live in a configs/ directory, got %q", path)
	}
	return nil
}

// Load reads a YAML file and returns the validated configuration.
func Load(path string) (*Config, error) {
	if err := ValidateConfigPath(path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxConfigFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// The wheel needs at least one slice; index math is undefined on an
	// empty wheel, so refuse it here rather than at spin time.
	if len(cfg.Slices) == 0 {
		return nil, fmt.Errorf("at least one slice is required")
	}
	for i, s := range cfg.Slices {
		if s.Label == "" {
			return nil, fmt.Errorf("slice %d: label is required", i)
		}
	}

	if cfg.Defaults.FullRotations < 0 {
		return nil, fmt.Errorf("full_rotations must be >= 0, got %d", cfg.Defaults.FullRotations)
	}
	if cfg.Defaults.FullRotations == 0 {
		cfg.Defaults.FullRotations = 13 // same default as the original control
	}
	if cfg.Defaults.SpinDurationS < 0 {
		return nil, fmt.Errorf("spin_duration_s must be >= 0, got %g", cfg.Defaults.SpinDurationS)
	}
	if cfg.Defaults.SpinDurationS == 0 {
		cfg.Defaults.SpinDurationS = 5
	}
	if cfg.Defaults.IndefiniteSpinS <= 0 {
		cfg.Defaults.IndefiniteSpinS = 3
	}
	if cfg.Defaults.FrameRate <= 0 {
		cfg.Defaults.FrameRate = 30
	}
	if cfg.Defaults.FrameRate > 120 {
		return nil, fmt.Errorf("frame_rate must be <= 120, got %d", cfg.Defaults.FrameRate)
	}
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}

	if cfg.SpinButton != nil {
		if cfg.SpinButton.GPIOPin <= 0 {
			return nil, fmt.Errorf("spin_button.gpio_pin is required")
		}
		if cfg.SpinButton.DebounceMs <= 0 {
			cfg.SpinButton.DebounceMs = 50
		}
	}

	if cfg.Sound != nil {
		if cfg.Sound.Volume < 0 || cfg.Sound.Volume > 1 {
			return nil, fmt.Errorf("sound.volume must be between 0 and 1, got %g", cfg.Sound.Volume)
		}
		if cfg.Sound.Volume == 0 {
			cfg.Sound.Volume = 1
		}
	}

	if cfg.Web != nil {
		if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
			return nil, fmt.Errorf("web.port must be 1-65535, got %d", cfg.Web.Port)
		}
	}

	return &cfg, nil
}

// SpinDuration returns the length of the decelerating spin.
func (c *Config) SpinDuration() time.Duration {
	return time.Duration(c.Defaults.SpinDurationS * float64(time.Second))
}

// IndefiniteSpinDelay returns the length of the undetermined spin phase
// before the wheel transitions into deceleration.
func (c *Config) IndefiniteSpinDelay() time.Duration {
	return time.Duration(c.Defaults.IndefiniteSpinS * float64(time.Second))
}

// FrameInterval returns the renderer tick interval.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Defaults.FrameRate)
}

// Debounce returns the spin button debounce window.
func (s *SpinButtonConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}
