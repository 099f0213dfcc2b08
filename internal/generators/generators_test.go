package generators

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

func argmax(s []float64) int {
	best := 0
	for i, v := range s {
		if v > s[best] {
			best = i
		}
	}
	return best
}

func TestSimpleFlowPeakAtStart(t *testing.T) {
	f, err := SimpleFlow(1, 3, 3)
	if err != nil {
		t.Fatalf("SimpleFlow failed: %v", err)
	}
	if f.Shape() != (field.Shape{T: 1, Nx: 3, Ny: 3}) {
		t.Fatalf("shape = %s", f.Shape())
	}

	wantI, wantJ := grid.Unit(3, 3).Nearest(0.8, 0.2)
	idx := argmax(f.Slice(0))
	if idx/3 != wantI || idx%3 != wantJ {
		t.Errorf("peak at (%d,%d), want (%d,%d)", idx/3, idx%3, wantI, wantJ)
	}
}

func TestGaussianCenterStopsShort(t *testing.T) {
	b := NewGaussianBlob()
	cx, cy := b.Center(9, 10)
	if math.Abs(cx-0.26) > 1e-12 || math.Abs(cy-0.74) > 1e-12 {
		t.Errorf("center at last step = (%v,%v), want (0.26,0.74)", cx, cy)
	}
	cx, cy = b.Center(0, 10)
	if cx != 0.8 || cy != 0.2 {
		t.Errorf("center at t=0 = (%v,%v)", cx, cy)
	}
}

func TestShapes(t *testing.T) {
	ctx := context.Background()
	g := grid.New(7, 4, 1, 1)
	gens := []Generator{NewGaussianBlob(), NewMovingVortex(), NewDoubleGyre()}

	for _, gen := range gens {
		for _, n := range []int{0, 1, 5} {
			p, err := gen.Generate(ctx, n, g)
			if err != nil {
				t.Fatalf("%s n=%d: %v", gen.Name(), n, err)
			}
			want := field.Shape{T: n, Nx: 7, Ny: 4}
			if p.U.Shape() != want {
				t.Errorf("%s n=%d: u shape %s, want %s", gen.Name(), n, p.U.Shape(), want)
			}
			if !p.Scalar() && p.V.Shape() != want {
				t.Errorf("%s n=%d: v shape %s", gen.Name(), n, p.V.Shape())
			}
			if !p.U.IsValid() {
				t.Errorf("%s: non-finite samples", gen.Name())
			}
		}
	}
}

func TestDegenerateGrids(t *testing.T) {
	ctx := context.Background()
	for _, gen := range []Generator{NewGaussianBlob(), NewMovingVortex(), NewDoubleGyre()} {
		p, err := gen.Generate(ctx, 3, grid.New(1, 1, 1, 1))
		if err != nil {
			t.Errorf("%s: single-point grid failed: %v", gen.Name(), err)
			continue
		}
		if !p.U.IsValid() {
			t.Errorf("%s: single-point grid produced NaN", gen.Name())
		}

		if _, err := gen.Generate(ctx, 3, grid.New(0, 4, 1, 1)); !errors.Is(err, field.ErrDegenerateGrid) {
			t.Errorf("%s: expected ErrDegenerateGrid, got %v", gen.Name(), err)
		}
		if _, err := gen.Generate(ctx, -1, grid.Unit(2, 2)); !errors.Is(err, field.ErrInvalidParameter) {
			t.Errorf("%s: expected ErrInvalidParameter for n<0, got %v", gen.Name(), err)
		}
	}
}

func TestDeterminism(t *testing.T) {
	ctx := context.Background()
	g := grid.New(16, 8, 2, 1)
	for _, gen := range []Generator{NewGaussianBlob(), NewMovingVortex(), NewDoubleGyre()} {
		a, _ := gen.Generate(ctx, 6, g)
		b, _ := gen.Generate(ctx, 6, g)
		if !a.Equal(b) {
			t.Errorf("%s is not deterministic", gen.Name())
		}
	}
}

func TestVortexSingularityRegularized(t *testing.T) {
	m := NewMovingVortex()
	u, v := m.Velocity(0.3, 0.3, 0.3, 0.3)
	if u != 0 || v != 0 || math.IsNaN(u) || math.IsNaN(v) {
		t.Errorf("velocity at vortex centre = (%v,%v), want (0,0)", u, v)
	}
}

func TestVortexTangentialVelocity(t *testing.T) {
	m := NewMovingVortex()
	r := 0.05
	u, v := m.Velocity(0.5+r, 0.5, 0.5, 0.5)

	want := m.Gamma / (2 * math.Pi * r) * (1 - math.Exp(-r*r/(m.CoreRadius*m.CoreRadius)))
	if math.Abs(u) > 1e-15 {
		t.Errorf("radial component u = %v, want 0", u)
	}
	if math.Abs(v-want) > 1e-12 {
		t.Errorf("tangential v = %v, want %v", v, want)
	}
}

func TestVortexOrbit(t *testing.T) {
	m := NewMovingVortex()
	x0, y0 := m.Position(0)
	if math.Abs(x0-0.8) > 1e-12 || math.Abs(y0-0.5) > 1e-12 {
		t.Errorf("position(0) = (%v,%v)", x0, y0)
	}
	x0, y0 = m.Position(25)
	if math.Abs(x0-0.5) > 1e-12 || math.Abs(y0-0.8) > 1e-12 {
		t.Errorf("position(period/4) = (%v,%v)", x0, y0)
	}
}

func TestDoubleGyreSteadyAtZero(t *testing.T) {
	d := NewDoubleGyre()
	g := grid.New(9, 5, 2, 1)
	p, err := d.Generate(context.Background(), 1, g)
	if err != nil {
		t.Fatal(err)
	}

	for i, x := range g.XCoords() {
		for j, y := range g.YCoords() {
			u := -math.Pi * d.A * math.Sin(math.Pi*x) * math.Cos(math.Pi*y)
			v := math.Pi * d.A * math.Cos(math.Pi*x) * math.Sin(math.Pi*y)
			if math.Abs(p.U.At(0, i, j)-u) > 1e-15 || math.Abs(p.V.At(0, i, j)-v) > 1e-15 {
				t.Fatalf("(%d,%d): got (%v,%v), want steady (%v,%v)", i, j, p.U.At(0, i, j), p.V.At(0, i, j), u, v)
			}
		}
	}
}

func TestDoubleGyrePeriodic(t *testing.T) {
	d := NewDoubleGyre()
	p, _ := d.Generate(context.Background(), 21, grid.New(9, 5, 2, 1))
	for i := 0; i < 9; i++ {
		for j := 0; j < 5; j++ {
			if math.Abs(p.U.At(0, i, j)-p.U.At(20, i, j)) > 1e-12 {
				t.Fatalf("u not periodic at (%d,%d)", i, j)
			}
		}
	}
}

func TestSetParam(t *testing.T) {
	tests := []struct {
		gen   Generator
		name  string
		value float64
		ok    bool
	}{
		{NewGaussianBlob(), "width", 0.02, true},
		{NewGaussianBlob(), "width", 0, false},
		{NewMovingVortex(), "period", 50, true},
		{NewMovingVortex(), "period", -1, false},
		{NewDoubleGyre(), "epsilon", 0.5, true},
		{NewDoubleGyre(), "bogus", 1, false},
		{NewKolmogorov(nil, nil, nil), "kf", 2.5, false},
		{NewKolmogorov(nil, nil, nil), "kf", 3, true},
	}

	for _, tt := range tests {
		err := tt.gen.SetParam(tt.name, tt.value)
		if tt.ok && err != nil {
			t.Errorf("%s.%s=%v: unexpected error %v", tt.gen.Name(), tt.name, tt.value, err)
		}
		if !tt.ok && !errors.Is(err, field.ErrInvalidParameter) {
			t.Errorf("%s.%s=%v: expected ErrInvalidParameter, got %v", tt.gen.Name(), tt.name, tt.value, err)
		}
		if tt.ok && tt.gen.GetParams()[tt.name] != tt.value {
			t.Errorf("%s.%s not applied", tt.gen.Name(), tt.name)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(nil, nil, nil)
	names := r.List()
	want := []string{"gyre", "kolmogorov", "simple", "vortex"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	if _, err := r.Get("nonexistent"); err == nil {
		t.Error("expected error for unknown generator")
	}

	gen, err := r.Configure("gyre", map[string]float64{"A": 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if gen.GetParams()["A"] != 0.3 {
		t.Error("Configure did not apply params")
	}

	p, err := r.Generate(context.Background(), "simple", 2, grid.Unit(4, 4), nil)
	if err != nil || !p.Scalar() {
		t.Errorf("Generate(simple) = %v, %v", p, err)
	}
}

func BenchmarkDoubleGyre(b *testing.B) {
	d := NewDoubleGyre()
	g := grid.New(128, 64, 2, 1)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = d.Generate(ctx, 20, g)
	}
}

func BenchmarkMovingVortex(b *testing.B) {
	m := NewMovingVortex()
	g := grid.Unit(128, 128)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Generate(ctx, 20, g)
	}
}
