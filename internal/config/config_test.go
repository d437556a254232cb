package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeline.DefaultZoom != 100 {
		t.Errorf("default_zoom = %v, want 100", cfg.Timeline.DefaultZoom)
	}
	if cfg.Sync.PollInterval() != 100*time.Millisecond {
		t.Errorf("poll interval = %v, want 100ms", cfg.Sync.PollInterval())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
theme = "light"

[timeline]
zoom_min = 5.0
zoom_max = 4000.0
default_zoom = 250.0

[sync]
drift_threshold_ms = 500
poll_interval_ms = 50

[scroll]
cooldown_ms = 1500
edge_margin = 32.0
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("theme = %q, want light", cfg.Theme)
	}
	if cfg.Timeline.ZoomMin != 5 || cfg.Timeline.ZoomMax != 4000 {
		t.Errorf("zoom bounds = %v..%v, want 5..4000", cfg.Timeline.ZoomMin, cfg.Timeline.ZoomMax)
	}
	if cfg.Sync.DriftThreshold() != 0.5 {
		t.Errorf("drift threshold = %v, want 0.5", cfg.Sync.DriftThreshold())
	}
	if cfg.Scroll.Cooldown() != 1500*time.Millisecond {
		t.Errorf("cooldown = %v, want 1.5s", cfg.Scroll.Cooldown())
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("theme = [what"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed toml")
	}
}

func TestValidateRejectsBadBounds(t *testing.T) {
	cfg := Default()
	cfg.Timeline.ZoomMin = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative zoom_min accepted")
	}

	cfg = Default()
	cfg.Timeline.ZoomMax = 5
	if err := cfg.Validate(); err == nil {
		t.Error("zoom_max below zoom_min accepted")
	}

	cfg = Default()
	cfg.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown theme accepted")
	}
}

func TestValidateRepairsZeroCadences(t *testing.T) {
	cfg := Default()
	cfg.Sync.PollIntervalMs = 0
	cfg.Sync.DriftThresholdMs = 0
	cfg.Scroll.EdgeMargin = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Sync.PollIntervalMs != 100 || cfg.Sync.DriftThresholdMs != 250 {
		t.Errorf("zero cadences not repaired: %+v", cfg.Sync)
	}
	if cfg.Scroll.EdgeMargin != 48 {
		t.Errorf("edge margin not repaired: %v", cfg.Scroll.EdgeMargin)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("OVERDUB_THEME", "light")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("theme = %q, want env override light", cfg.Theme)
	}
}

func TestDefaultPathEnv(t *testing.T) {
	t.Setenv("OVERDUB_CONFIG", "/tmp/custom.toml")
	if got := DefaultPath(); got != "/tmp/custom.toml" {
		t.Errorf("DefaultPath = %q, want env override", got)
	}
}
