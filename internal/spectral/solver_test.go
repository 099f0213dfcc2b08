package spectral

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/generators"
	"github.com/san-kum/flowsynth/internal/grid"
)

func params() generators.KolmogorovParams {
	return generators.KolmogorovParams{
		Steps: 4, Nx: 16, Ny: 16, Lx: 2 * math.Pi, Ly: 2 * math.Pi,
		Dt: 1e-3, Nu: 1e-2, Amplitude: 0.1, KF: 4, Seed: 7,
	}
}

func TestSolveShapeAndFinite(t *testing.T) {
	p, err := New(nil).Solve(context.Background(), params())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	want := field.Shape{T: 4, Nx: 16, Ny: 16}
	if p.U.Shape() != want || p.V.Shape() != want {
		t.Fatalf("shapes %s/%s, want %s", p.U.Shape(), p.V.Shape(), want)
	}
	if !p.U.IsValid() || !p.V.IsValid() {
		t.Error("non-finite velocity")
	}
}

func TestSolveDeterministicPerSeed(t *testing.T) {
	s := New(nil)
	a, _ := s.Solve(context.Background(), params())
	b, _ := s.Solve(context.Background(), params())
	if !a.Equal(b) {
		t.Error("same seed produced different runs")
	}

	other := params()
	other.Seed = 8
	c, _ := s.Solve(context.Background(), other)
	if a.Equal(c) {
		t.Error("different seeds produced identical runs")
	}
}

func TestInitialPeakSpeed(t *testing.T) {
	s := New(nil)
	s.VeloMax = 2.5
	p, err := s.Solve(context.Background(), params())
	if err != nil {
		t.Fatal(err)
	}
	peak := 0.0
	for i, u := range p.U.Slice(0) {
		peak = math.Max(peak, math.Hypot(u, p.V.Slice(0)[i]))
	}
	if math.Abs(peak-2.5) > 1e-9 {
		t.Errorf("initial peak speed = %v, want 2.5", peak)
	}
}

// From rest the forced shear flow stays a single Fourier mode and has the
// closed form u = A sin(ky) (1 - exp(-νk²t)) / (νk²), v = 0.
func TestForcedShearFromRest(t *testing.T) {
	s := New(nil)
	s.VeloMax = 0
	p := generators.KolmogorovParams{
		Steps: 3, Nx: 4, Ny: 16, Lx: 2 * math.Pi, Ly: 2 * math.Pi,
		Dt: 0.01, Nu: 0.01, Amplitude: 1, KF: 2,
	}
	out, err := s.Solve(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}

	k := 2.0
	tEnd := 2 * p.Dt
	g := (1 - math.Exp(-p.Nu*k*k*tEnd)) / (p.Nu * k * k)
	ys := grid.New(p.Nx, p.Ny, p.Lx, p.Ly).YCoordsPeriodic()
	for i := 0; i < p.Nx; i++ {
		for j, y := range ys {
			want := p.Amplitude * math.Sin(k*y) * g
			if got := out.U.At(2, i, j); math.Abs(got-want) > 1e-8 {
				t.Fatalf("u(%d,%d) = %v, want %v", i, j, got, want)
			}
			if got := out.V.At(2, i, j); math.Abs(got) > 1e-8 {
				t.Fatalf("v(%d,%d) = %v, want 0", i, j, got)
			}
		}
	}

	for _, u := range out.U.Slice(0) {
		if math.Abs(u) > 1e-15 {
			t.Fatal("snapshot 0 should be the rest state")
		}
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(nil).Solve(ctx, params()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSolveInvalidParams(t *testing.T) {
	p := params()
	p.Dt = 0
	if _, err := New(nil).Solve(context.Background(), p); !errors.Is(err, field.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}

	s := New(nil)
	s.Integrator = "verlet"
	if _, err := s.Solve(context.Background(), params()); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestZeroSteps(t *testing.T) {
	p := params()
	p.Steps = 0
	out, err := New(nil).Solve(context.Background(), p)
	if err != nil || out.U.T != 0 {
		t.Errorf("zero steps: %v, %v", out, err)
	}
}

func TestKolmogorovGeneratorIntegration(t *testing.T) {
	k := generators.NewKolmogorov(New(nil), nil, nil)
	pair, err := k.Generate(context.Background(), 3, grid.New(8, 8, 2*math.Pi, 2*math.Pi))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if pair.Shape() != (field.Shape{T: 3, Nx: 8, Ny: 8}) {
		t.Errorf("shape = %s", pair.Shape())
	}
}

func TestWavenumbers(t *testing.T) {
	k := wavenumbers(4, 2*math.Pi)
	want := []float64{0, 1, -2, -1}
	for i := range want {
		if math.Abs(k[i]-want[i]) > 1e-12 {
			t.Errorf("k[%d] = %v, want %v", i, k[i], want[i])
		}
	}
}
