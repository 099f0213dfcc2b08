package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/flowsynth/internal/augment"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Generator != "vortex" {
		t.Errorf("expected generator vortex, got %s", cfg.Generator)
	}
	if cfg.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	cfg := DefaultConfig()
	cfg.Generator = "gyre"
	cfg.Orientation = augment.Vertical
	cfg.Params = map[string]float64{"epsilon": 0.1}
	cfg.Cache.Enabled = false

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Generator != "gyre" || got.Orientation != augment.Vertical {
		t.Errorf("unexpected config %+v", got)
	}
	if got.Params["epsilon"] != 0.1 || got.Cache.Enabled {
		t.Errorf("params or cache did not round trip: %+v", got)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("vortex", "strong")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params["gamma"] != 5 {
		t.Errorf("expected gamma 5, got %f", cfg.Params["gamma"])
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("expected defaults merged in, got data dir %q", cfg.DataDir)
	}

	cfg.Params["gamma"] = 1
	if Presets["vortex"]["strong"].Params["gamma"] != 5 {
		t.Error("GetPreset must not alias the preset table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("vortex", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent generator")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("gyre")
	want := []string{"periodic", "steady", "strong"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent generator")
	}
}

func TestPresetsValidate(t *testing.T) {
	for gen, ps := range Presets {
		for name := range ps {
			if err := GetPreset(gen, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", gen, name, err)
			}
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDataDir:  "/tmp/runs",
		EnvCacheDir: "/tmp/cache",
		EnvCache:    "off",
		EnvLogLevel: "debug",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatal(err)
	}
	if cfg.DataDir != "/tmp/runs" || cfg.Cache.Dir != "/tmp/cache" || cfg.Cache.Enabled {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}

	env[EnvCache] = "maybe"
	if err := cfg.ApplyEnv(lookup); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no generator", func(c *Config) { c.Generator = "" }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"empty grid", func(c *Config) { c.Grid.Nx = 0 }},
		{"negative extent", func(c *Config) { c.Grid.Ly = -1 }},
		{"cache without dir", func(c *Config) { c.Cache.Dir = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGridFor(t *testing.T) {
	cfg := DefaultConfig()
	g := cfg.GridFor(2, 1)
	if g.Lx != 2 || g.Ly != 1 {
		t.Errorf("expected domain 2x1, got %vx%v", g.Lx, g.Ly)
	}
	cfg.Grid.Lx = 5
	if g = cfg.GridFor(2, 1); g.Lx != 5 {
		t.Errorf("explicit extent overridden: %v", g.Lx)
	}
}
