package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

func linearPair(g grid.Grid, t int, a, b float64) *field.Pair {
	xs, ys := g.XCoords(), g.YCoords()
	u, v := field.New(t, g.Nx, g.Ny), field.New(t, g.Nx, g.Ny)
	for s := 0; s < t; s++ {
		for i, x := range xs {
			for j, y := range ys {
				u.Set(s, i, j, a*x)
				v.Set(s, i, j, b*y)
			}
		}
	}
	return &field.Pair{U: u, V: v}
}

func TestKineticEnergy(t *testing.T) {
	u, v := field.New(2, 2, 2), field.New(2, 2, 2)
	for i := range u.Data {
		u.Data[i] = 3
		v.Data[i] = 4
	}
	m := NewKineticEnergy()
	m.Observe(&field.Pair{U: u, V: v}, 0, grid.Unit(2, 2))
	if got := m.Value(); math.Abs(got-12.5) > 1e-12 {
		t.Errorf("expected energy 12.5, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}

	m.Observe(&field.Pair{U: u}, 1, grid.Unit(2, 2))
	if got := m.Value(); math.Abs(got-4.5) > 1e-12 {
		t.Errorf("scalar energy: expected 4.5, got %f", got)
	}
}

func TestMaxSpeed(t *testing.T) {
	u, v := field.New(1, 1, 3), field.New(1, 1, 3)
	copy(u.Data, []float64{1, -3, 0})
	copy(v.Data, []float64{0, 4, -2})
	m := NewMaxSpeed()
	m.Observe(&field.Pair{U: u, V: v}, 0, grid.Unit(1, 3))
	if m.Value() != 5 {
		t.Errorf("expected max speed 5, got %f", m.Value())
	}
}

func TestDivergence(t *testing.T) {
	g := grid.Unit(5, 5)
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"solenoidal", 1, -1, 0},
		{"expanding", 1, 1, 2},
		{"half", 0.5, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := Evaluate(linearPair(g, 2, tt.a, tt.b), g, NewDivergence())
			if got := vals["divergence_rms"]; math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestDivergenceSkipsDegenerate(t *testing.T) {
	g := grid.Unit(2, 5)
	vals := Evaluate(linearPair(g, 1, 1, 1), g, NewDivergence())
	if vals["divergence_rms"] != 0 {
		t.Errorf("expected 0 for grid without interior, got %f", vals["divergence_rms"])
	}
}

func TestStability(t *testing.T) {
	u := field.New(4, 1, 2)
	u.Data[2] = math.NaN()
	u.Data[5] = math.Inf(1)
	vals := Evaluate(&field.Pair{U: u}, grid.Unit(1, 2), NewStability(10))
	if got := vals["stability"]; got != 0.5 {
		t.Errorf("expected stability 0.5, got %f", got)
	}
}

func TestEvaluateDefault(t *testing.T) {
	g := grid.Unit(4, 4)
	vals := Evaluate(linearPair(g, 3, 1, -1), g, Default()...)
	names := Names(vals)
	want := []string{"divergence_rms", "kinetic_energy", "max_speed", "stability"}
	if len(names) != len(want) {
		t.Fatalf("expected %d metrics, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("metric %d: expected %s, got %s", i, want[i], names[i])
		}
	}
	if vals["stability"] != 1 {
		t.Errorf("expected stable field, got %f", vals["stability"])
	}
	if math.Abs(vals["max_speed"]-math.Sqrt2) > 1e-12 {
		t.Errorf("expected max speed sqrt2, got %f", vals["max_speed"])
	}
}
