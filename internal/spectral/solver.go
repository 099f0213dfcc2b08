package spectral

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/generators"
	"github.com/san-kum/flowsynth/internal/integrators"
)

// ErrUnstable indicates the vorticity diverged (NaN or Inf).
var ErrUnstable = errors.New("spectral: simulation unstable (state diverged)")

type Solver struct {
	// Integrator names the time stepper ("rk4" or "euler").
	Integrator string
	// Drag is the linear friction coefficient μ.
	Drag float64
	// VeloMax scales the noise initial condition to this peak speed; zero
	// starts from rest.
	VeloMax float64

	logger *slog.Logger
}

func New(logger *slog.Logger) *Solver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{Integrator: "rk4", VeloMax: 1.0, logger: logger}
}

var _ generators.Solver = (*Solver)(nil)

// Solve records Steps snapshots, taking one dt step between consecutive
// snapshots. Snapshot 0 is the initial condition.
func (s *Solver) Solve(ctx context.Context, p generators.KolmogorovParams) (*field.Pair, error) {
	if p.Steps < 0 || p.Nx < 1 || p.Ny < 1 {
		return nil, fmt.Errorf("spectral: %d steps on %dx%d: %w", p.Steps, p.Nx, p.Ny, field.ErrInvalidParameter)
	}
	if !(p.Lx > 0) || !(p.Ly > 0) || !(p.Dt > 0) || p.Nu < 0 {
		return nil, fmt.Errorf("spectral: lx=%g ly=%g dt=%g nu=%g: %w", p.Lx, p.Ly, p.Dt, p.Nu, field.ErrInvalidParameter)
	}
	stepper, err := integrators.Get(s.Integrator)
	if err != nil {
		return nil, err
	}

	op := newOperator(p.Nx, p.Ny, p.Lx, p.Ly, p.Nu, s.Drag, p.Amplitude, p.KF)
	w := s.initialVorticity(op, p)

	u, v := field.New(p.Steps, p.Nx, p.Ny), field.New(p.Steps, p.Nx, p.Ny)
	t := 0.0
	for it := 0; it < p.Steps; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		us, vs := op.velocity(op.spectrum(w))
		copy(u.Slice(it), us)
		copy(v.Slice(it), vs)

		if it < p.Steps-1 {
			w = stepper.Step(op, w, t, p.Dt)
			t += p.Dt
			if !w.IsValid() {
				return nil, fmt.Errorf("step %d (t=%.4f): %w", it+1, t, ErrUnstable)
			}
		}
	}

	s.logger.Debug("kolmogorov run complete",
		slog.Int("steps", p.Steps), slog.Int("nx", p.Nx), slog.Int("ny", p.Ny), slog.Float64("t_end", t))
	return &field.Pair{U: u, V: v}, nil
}

// initialVorticity draws white noise from the run seed, keeps wavelengths
// longer than ly/kf, and rescales so the peak speed equals VeloMax.
func (s *Solver) initialVorticity(op *operator, p generators.KolmogorovParams) integrators.State {
	w := make(integrators.State, p.Nx*p.Ny)
	if s.VeloMax <= 0 {
		return w
	}

	rng := rand.New(rand.NewSource(p.Seed))
	for i := range w {
		w[i] = rng.NormFloat64()
	}

	kf := p.KF
	if kf < 1 {
		kf = 1
	}
	kcut := 2 * math.Pi / (p.Ly / float64(kf))
	spec := op.spectrum(w)
	for i := range spec {
		for j := range spec[i] {
			if op.k2[i][j] == 0 || op.k2[i][j] > kcut*kcut {
				spec[i][j] = 0
			}
		}
	}
	w = op.physical(spec)

	u, v := op.velocity(op.spectrum(w))
	peak := 0.0
	for n := range u {
		peak = math.Max(peak, math.Hypot(u[n], v[n]))
	}
	if peak == 0 {
		return w
	}
	scale := s.VeloMax / peak
	for n := range w {
		w[n] *= scale
	}
	return w
}
