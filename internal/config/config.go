package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flowsynth/internal/augment"
	"github.com/san-kum/flowsynth/internal/cache"
	"github.com/san-kum/flowsynth/internal/grid"
)

const (
	DefaultSteps    = 50
	DefaultNx       = 64
	DefaultNy       = 64
	DefaultVeloMax  = 1.0
	DefaultDataDir  = "runs"
	DefaultCacheDir = ".flowsynth/cache"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvDataDir  = "FLOWSYNTH_DATA_DIR"
	EnvCacheDir = "FLOWSYNTH_CACHE_DIR"
	EnvCache    = "FLOWSYNTH_CACHE"
	EnvLogLevel = "FLOWSYNTH_LOG_LEVEL"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Config describes one generation run. A zero Grid.Lx or Grid.Ly selects the
// generator's default domain.
type Config struct {
	Generator   string              `yaml:"generator"`
	Steps       int                 `yaml:"steps"`
	Grid        grid.Grid           `yaml:"grid"`
	Params      map[string]float64  `yaml:"params,omitempty"`
	Solver      SolverConfig        `yaml:"solver"`
	Cache       cache.Options       `yaml:"cache"`
	Orientation augment.Orientation `yaml:"orientation"`
	DataDir     string              `yaml:"data_dir"`
	LogLevel    string              `yaml:"log_level"`
}

type SolverConfig struct {
	Integrator string  `yaml:"integrator"`
	Drag       float64 `yaml:"drag"`
	VeloMax    float64 `yaml:"velo_max"`
}

func DefaultConfig() *Config {
	return &Config{
		Generator: "vortex",
		Steps:     DefaultSteps,
		Grid:      grid.Grid{Nx: DefaultNx, Ny: DefaultNy},
		Solver: SolverConfig{
			Integrator: "rk4",
			VeloMax:    DefaultVeloMax,
		},
		Cache:       cache.Options{Enabled: true, Dir: DefaultCacheDir},
		Orientation: augment.Horizontal,
		DataDir:     DefaultDataDir,
		LogLevel:    "info",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are ignored; existing variables are not overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
// Pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		c.Cache.Dir = v
	}
	if v, ok := lookup(EnvCache); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "on", "true", "yes":
			c.Cache.Enabled = true
		case "0", "off", "false", "no":
			c.Cache.Enabled = false
		default:
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvCache, v)
		}
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Generator == "" {
		return fmt.Errorf("%w: generator is required", ErrInvalidConfig)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.Grid.Nx < 1 || c.Grid.Ny < 1 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Grid.Nx, c.Grid.Ny)
	}
	if c.Grid.Lx < 0 || c.Grid.Ly < 0 {
		return fmt.Errorf("%w: negative grid extent", ErrInvalidConfig)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("%w: cache enabled without a directory", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return l, nil
}

// GridFor returns the configured grid with zero extents replaced by the
// domain (lx, ly).
func (c *Config) GridFor(lx, ly float64) grid.Grid {
	g := c.Grid
	if g.Lx == 0 {
		g.Lx = lx
	}
	if g.Ly == 0 {
		g.Ly = ly
	}
	return g
}
