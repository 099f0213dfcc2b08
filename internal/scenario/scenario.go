// Package scenario runs scripted dataset recipes: each step generates a
// field, saves it as a run and derives further runs from it.
package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flowsynth/internal/config"
	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/generators"
	"github.com/san-kum/flowsynth/internal/metrics"
	"github.com/san-kum/flowsynth/internal/storage"
)

type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step generates one run per seed (or a single run when Seeds is empty) and
// applies Ops in order, saving every intermediate result. Zero-valued fields
// fall back to the preset, then to the base config.
type Step struct {
	Generator string             `yaml:"generator"`
	Preset    string             `yaml:"preset"`
	Steps     int                `yaml:"steps"`
	Nx        int                `yaml:"nx"`
	Ny        int                `yaml:"ny"`
	Lx        float64            `yaml:"lx"`
	Ly        float64            `yaml:"ly"`
	Params    map[string]float64 `yaml:"params"`
	Seeds     []int64            `yaml:"seeds"`
	Ops       []string           `yaml:"ops"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q: no steps", sc.Name)
	}
	return &sc, nil
}

// Result describes one saved run.
type Result struct {
	Step   int
	RunID  string
	Source string
	Op     string
	Shape  field.Shape
}

type Runner struct {
	Registry *generators.Registry
	Store    *storage.Store
	Base     *config.Config
	Logger   *slog.Logger
}

// Run executes the steps in order and stops at the first failure, returning
// the runs saved so far.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var results []Result
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		cfg, err := r.resolve(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		seeds := step.Seeds
		if len(seeds) == 0 {
			seeds = []int64{0}
		}
		for _, seed := range seeds {
			params := cfg.Params
			if len(step.Seeds) > 0 {
				params = merge(params, map[string]float64{"seed": float64(seed)})
			}
			logger.Info("scenario step", slog.Int("step", i+1), slog.String("generator", cfg.Generator), slog.Int64("seed", seed))
			out, err := r.runOne(ctx, i+1, cfg, params, step.Ops)
			results = append(results, out...)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return results, nil
}

func (r *Runner) resolve(step Step) (*config.Config, error) {
	cfg := *r.Base
	if step.Generator != "" {
		cfg.Generator = step.Generator
	}
	cfg.Params = merge(nil, r.Base.Params)
	if step.Generator != "" && step.Generator != r.Base.Generator {
		cfg.Params = nil
	}
	if step.Preset != "" {
		p := config.GetPreset(cfg.Generator, step.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", step.Preset, config.ListPresets(cfg.Generator))
		}
		cfg.Steps, cfg.Grid = p.Steps, p.Grid
		cfg.Params = merge(cfg.Params, p.Params)
	}
	if step.Steps > 0 {
		cfg.Steps = step.Steps
	}
	if step.Nx > 0 {
		cfg.Grid.Nx = step.Nx
	}
	if step.Ny > 0 {
		cfg.Grid.Ny = step.Ny
	}
	if step.Lx > 0 {
		cfg.Grid.Lx = step.Lx
	}
	if step.Ly > 0 {
		cfg.Grid.Ly = step.Ly
	}
	cfg.Params = merge(cfg.Params, step.Params)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *Runner) runOne(ctx context.Context, step int, cfg *config.Config, params map[string]float64, ops []string) ([]Result, error) {
	gen, err := r.Registry.Configure(cfg.Generator, params)
	if err != nil {
		return nil, err
	}
	g := cfg.GridFor(gen.Domain())
	pair, err := gen.Generate(ctx, cfg.Steps, g)
	if err != nil {
		return nil, err
	}
	genParams := gen.GetParams()
	meta := storage.RunMetadata{
		Generator: gen.Name(),
		Seed:      int64(genParams["seed"]),
		Grid:      g,
		Params:    genParams,
		Metrics:   metrics.Evaluate(pair, g, metrics.Default()...),
	}
	id, err := r.Store.Save(meta, pair)
	if err != nil {
		return nil, err
	}
	results := []Result{{Step: step, RunID: id, Shape: pair.Shape()}}

	for _, op := range ops {
		derived, dg, name, err := Apply(pair, g, op)
		if err != nil {
			return results, err
		}
		meta.Grid, meta.Source, meta.Op = dg, id, name
		meta.Metrics = metrics.Evaluate(derived, dg, metrics.Default()...)
		next, err := r.Store.Save(meta, derived)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Step: step, RunID: next, Source: id, Op: name, Shape: derived.Shape()})
		pair, g, id = derived, dg, next
	}
	return results, nil
}

func merge(base, over map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
