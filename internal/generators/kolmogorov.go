package generators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/flowsynth/internal/cache"
	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// ErrNoSolver indicates a Kolmogorov generator constructed without a solver.
var ErrNoSolver = errors.New("generators: no kolmogorov solver configured")

// KolmogorovParams fully determines a forced-turbulence run. Every field takes
// part in the cache key.
type KolmogorovParams struct {
	Steps     int     `json:"n_timesteps"`
	Nx        int     `json:"nx"`
	Ny        int     `json:"ny"`
	Lx        float64 `json:"lx"`
	Ly        float64 `json:"ly"`
	Dt        float64 `json:"dt"`
	Nu        float64 `json:"nu"`
	Amplitude float64 `json:"forcing_amp"`
	KF        int     `json:"kf"`
	Seed      int64   `json:"seed"`
}

// Solver integrates Kolmogorov-forced flow. Implementations must return
// fields of shape (p.Steps, p.Nx, p.Ny).
type Solver interface {
	Solve(ctx context.Context, p KolmogorovParams) (*field.Pair, error)
}

// Kolmogorov delegates to a Solver and consults the cache before computing.
type Kolmogorov struct {
	KF        int
	Amplitude float64
	Nu        float64
	Dt        float64
	Seed      int64

	solver Solver
	cache  *cache.Cache
	logger *slog.Logger
}

// NewKolmogorov wires a solver and an optional cache (nil disables caching).
func NewKolmogorov(s Solver, c *cache.Cache, logger *slog.Logger) *Kolmogorov {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kolmogorov{KF: 4, Amplitude: 0.1, Nu: 1e-3, Dt: 1e-3, solver: s, cache: c, logger: logger}
}

func (k *Kolmogorov) Name() string               { return "kolmogorov" }
func (k *Kolmogorov) Domain() (float64, float64) { return 2 * math.Pi, 2 * math.Pi }

func (k *Kolmogorov) Params(n int, g grid.Grid) KolmogorovParams {
	return KolmogorovParams{
		Steps: n, Nx: g.Nx, Ny: g.Ny, Lx: g.Lx, Ly: g.Ly,
		Dt: k.Dt, Nu: k.Nu, Amplitude: k.Amplitude, KF: k.KF, Seed: k.Seed,
	}
}

// CacheKey is the key a run with these arguments is stored under.
func (k *Kolmogorov) CacheKey(n int, g grid.Grid) (string, error) {
	return cache.Key("kolmo", k.Params(n, g))
}

func (k *Kolmogorov) Generate(ctx context.Context, n int, g grid.Grid) (*field.Pair, error) {
	if err := checkArgs(n, g); err != nil {
		return nil, err
	}
	if k.KF < 1 {
		return nil, fmt.Errorf("%s: kf must be >= 1, got %d: %w", k.Name(), k.KF, field.ErrInvalidParameter)
	}
	for name, v := range map[string]float64{"dt": k.Dt, "nu": k.Nu} {
		if err := requirePositive(k.Name(), name, v); err != nil {
			return nil, err
		}
	}
	if k.solver == nil {
		return nil, ErrNoSolver
	}

	p := k.Params(n, g)
	want := field.Shape{T: n, Nx: g.Nx, Ny: g.Ny}

	key, err := cache.Key("kolmo", p)
	if err != nil {
		return nil, err
	}
	if k.cache.Enabled() {
		pair, ok, err := k.cache.Load(key)
		switch {
		case err != nil:
			k.logger.Warn("cache read failed, recomputing", slog.String("key", key), slog.Any("error", err))
		case ok && pair.Shape() == want:
			k.logger.Debug("cache hit", slog.String("key", key))
			return pair, nil
		case ok:
			k.logger.Warn("cached shape mismatch, recomputing", slog.String("key", key), slog.String("shape", pair.Shape().String()))
		}
	}

	pair, err := k.solver.Solve(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: solve: %w", k.Name(), err)
	}
	if pair.Scalar() || pair.U.Shape() != want || pair.V.Shape() != want {
		return nil, &field.ShapeError{Op: "kolmogorov solve", Want: want, Got: pair.U.Shape()}
	}

	if err := k.cache.Store(key, pair); err != nil {
		k.logger.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return pair, nil
}

func (k *Kolmogorov) GetParams() map[string]float64 {
	return map[string]float64{"kf": float64(k.KF), "amplitude": k.Amplitude, "nu": k.Nu, "dt": k.Dt, "seed": float64(k.Seed)}
}

func (k *Kolmogorov) SetParam(n string, v float64) error {
	switch n {
	case "kf":
		if v < 1 || v != math.Trunc(v) {
			return fmt.Errorf("%s: kf must be a positive integer, got %g: %w", k.Name(), v, field.ErrInvalidParameter)
		}
		k.KF = int(v)
	case "amplitude":
		k.Amplitude = v
	case "nu":
		if err := requirePositive(k.Name(), n, v); err != nil {
			return err
		}
		k.Nu = v
	case "dt":
		if err := requirePositive(k.Name(), n, v); err != nil {
			return err
		}
		k.Dt = v
	case "seed":
		k.Seed = int64(v)
	default:
		return unknownParam(k.Name(), n)
	}
	return nil
}
