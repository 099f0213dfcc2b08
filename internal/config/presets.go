package config

import (
	"math"
	"sort"

	"github.com/san-kum/flowsynth/internal/grid"
)

var Presets = map[string]map[string]*Config{
	"simple": {
		"default": {
			Generator: "simple", Steps: 50, Grid: grid.Unit(64, 64),
		},
		"sharp": {
			Generator: "simple", Steps: 100, Grid: grid.Unit(128, 128),
			Params: map[string]float64{"width": 0.002},
		},
		"reverse": {
			Generator: "simple", Steps: 50, Grid: grid.Unit(64, 64),
			Params: map[string]float64{"startX": 0.2, "startY": 0.8, "endX": 0.8, "endY": 0.2},
		},
	},
	"vortex": {
		"default": {
			Generator: "vortex", Steps: 100, Grid: grid.Unit(64, 64),
		},
		"tight": {
			Generator: "vortex", Steps: 200, Grid: grid.Unit(128, 128),
			Params: map[string]float64{"coreRadius": 0.03, "orbitRadius": 0.2},
		},
		"strong": {
			Generator: "vortex", Steps: 100, Grid: grid.Unit(64, 64),
			Params: map[string]float64{"gamma": 5},
		},
	},
	"gyre": {
		"steady": {
			Generator: "gyre", Steps: 40, Grid: grid.New(128, 64, 2, 1),
			Params: map[string]float64{"epsilon": 0},
		},
		"periodic": {
			Generator: "gyre", Steps: 100, Grid: grid.New(128, 64, 2, 1),
		},
		"strong": {
			Generator: "gyre", Steps: 100, Grid: grid.New(128, 64, 2, 1),
			Params: map[string]float64{"A": 0.25, "epsilon": 0.5},
		},
	},
	"kolmogorov": {
		"laminar": {
			Generator: "kolmogorov", Steps: 50, Grid: grid.New(32, 32, 2*math.Pi, 2*math.Pi),
			Params:    map[string]float64{"kf": 1, "nu": 0.05},
			Solver:    SolverConfig{Integrator: "rk4", VeloMax: 0.1},
		},
		"turbulent": {
			Generator: "kolmogorov", Steps: 200, Grid: grid.New(64, 64, 2*math.Pi, 2*math.Pi),
			Params:    map[string]float64{"kf": 4, "nu": 1e-3, "dt": 1e-3},
			Solver:    SolverConfig{Integrator: "rk4", Drag: 0.1, VeloMax: 1},
		},
	},
}

// GetPreset returns a copy of the named preset merged over the defaults, or
// nil if it does not exist.
func GetPreset(generator, preset string) *Config {
	genPresets, ok := Presets[generator]
	if !ok {
		return nil
	}
	p, ok := genPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Generator = p.Generator
	cfg.Steps = p.Steps
	cfg.Grid = p.Grid
	if len(p.Params) > 0 {
		cfg.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			cfg.Params[k] = v
		}
	}
	if p.Solver.Integrator != "" {
		cfg.Solver = p.Solver
	}
	return cfg
}

func ListPresets(generator string) []string {
	genPresets, ok := Presets[generator]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(genPresets))
	for name := range genPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
