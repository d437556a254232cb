// Package config loads and validates the editor configuration from a
// TOML file, with environment overrides layered on top of defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level editor configuration.
type Config struct {
	Theme    string         `toml:"theme"` // UI theme: dark, light, auto
	Timeline TimelineConfig `toml:"timeline"`
	Sync     SyncConfig     `toml:"sync"`
	Scroll   ScrollConfig   `toml:"scroll"`
}

// TimelineConfig holds the zoom and ruler tuning.
type TimelineConfig struct {
	ZoomMin     float64   `toml:"zoom_min"`     // pixels per second
	ZoomMax     float64   `toml:"zoom_max"`     // pixels per second
	DefaultZoom float64   `toml:"default_zoom"` // initial zoom
	ZoomSteps   []float64 `toml:"zoom_steps"`   // discrete wheel/keyboard ladder
}

// SyncConfig holds the media synchronizer tuning.
type SyncConfig struct {
	DriftThresholdMs int `toml:"drift_threshold_ms"` // max tolerated drift before a push
	PollIntervalMs   int `toml:"poll_interval_ms"`   // pull-sample cadence while playing
	MaxPushFailures  int `toml:"max_push_failures"`  // consecutive failures before a warning
}

// ScrollConfig holds scroll and auto-follow tuning.
type ScrollConfig struct {
	CooldownMs int     `toml:"cooldown_ms"` // auto-follow suppression after a manual scroll
	EdgeMargin float64 `toml:"edge_margin"` // pixels from viewport edge
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Theme: "dark",
		Timeline: TimelineConfig{
			ZoomMin:     10,
			ZoomMax:     2000,
			DefaultZoom: 100,
			ZoomSteps:   []float64{10, 20, 50, 100, 200, 500, 1000, 2000},
		},
		Sync: SyncConfig{
			DriftThresholdMs: 250,
			PollIntervalMs:   100,
			MaxPushFailures:  5,
		},
		Scroll: ScrollConfig{
			CooldownMs: 3000,
			EdgeMargin: 48,
		},
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if env := os.Getenv("OVERDUB_CONFIG"); env != "" {
		return env
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "overdub", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "overdub", "config.toml")
}

// Load reads the config at path (DefaultPath when empty) over the
// defaults, then applies environment overrides. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if theme := os.Getenv("OVERDUB_THEME"); theme != "" {
		cfg.Theme = theme
	}
	if ms := os.Getenv("OVERDUB_POLL_INTERVAL_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			cfg.Sync.PollIntervalMs = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, repairing recoverable problems
// (out-of-order bounds, zero cadences) and rejecting the rest.
func (c *Config) Validate() error {
	if c.Timeline.ZoomMin <= 0 {
		return fmt.Errorf("timeline.zoom_min must be positive, got %v", c.Timeline.ZoomMin)
	}
	if c.Timeline.ZoomMax < c.Timeline.ZoomMin {
		return fmt.Errorf("timeline.zoom_max %v below zoom_min %v", c.Timeline.ZoomMax, c.Timeline.ZoomMin)
	}
	if c.Timeline.DefaultZoom <= 0 {
		c.Timeline.DefaultZoom = Default().Timeline.DefaultZoom
	}
	if len(c.Timeline.ZoomSteps) == 0 {
		c.Timeline.ZoomSteps = Default().Timeline.ZoomSteps
	}
	if c.Sync.DriftThresholdMs <= 0 {
		c.Sync.DriftThresholdMs = Default().Sync.DriftThresholdMs
	}
	if c.Sync.PollIntervalMs <= 0 {
		c.Sync.PollIntervalMs = Default().Sync.PollIntervalMs
	}
	if c.Sync.MaxPushFailures <= 0 {
		c.Sync.MaxPushFailures = Default().Sync.MaxPushFailures
	}
	if c.Scroll.CooldownMs < 0 {
		return fmt.Errorf("scroll.cooldown_ms must not be negative, got %v", c.Scroll.CooldownMs)
	}
	if c.Scroll.EdgeMargin <= 0 {
		c.Scroll.EdgeMargin = Default().Scroll.EdgeMargin
	}
	switch c.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

// DriftThreshold returns the drift threshold as seconds.
func (c *SyncConfig) DriftThreshold() float64 {
	return float64(c.DriftThresholdMs) / 1000
}

// PollInterval returns the pull cadence as a duration.
func (c *SyncConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Cooldown returns the manual-scroll cooldown as a duration.
func (c *ScrollConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMs) * time.Millisecond
}
