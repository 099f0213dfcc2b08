package generators

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/flowsynth/internal/cache"
	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

type Registry struct {
	generators map[string]func() Generator
}

// NewRegistry registers the built-in generators. solver and c back the
// kolmogorov generator and may be nil.
func NewRegistry(solver Solver, c *cache.Cache, logger *slog.Logger) *Registry {
	r := &Registry{generators: make(map[string]func() Generator)}

	r.generators["simple"] = func() Generator { return NewGaussianBlob() }
	r.generators["vortex"] = func() Generator { return NewMovingVortex() }
	r.generators["gyre"] = func() Generator { return NewDoubleGyre() }
	r.generators["kolmogorov"] = func() Generator { return NewKolmogorov(solver, c, logger) }

	return r
}

func (r *Registry) Register(name string, fn func() Generator) {
	r.generators[name] = fn
}

func (r *Registry) Get(name string) (Generator, error) {
	fn, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return fn(), nil
}

// Configure returns the named generator with params applied.
func (r *Registry) Configure(name string, params map[string]float64) (Generator, error) {
	gen, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := gen.SetParam(k, params[k]); err != nil {
			return nil, err
		}
	}
	return gen, nil
}

func (r *Registry) Generate(ctx context.Context, name string, n int, g grid.Grid, params map[string]float64) (*field.Pair, error) {
	gen, err := r.Configure(name, params)
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, n, g)
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
