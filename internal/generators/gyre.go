package generators

import (
	"context"
	"math"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// DoubleGyre is the time-periodic double gyre on [0,2]×[0,1] (by default):
//
//	f(x,t) = ε sin(ωt) x² + (1 - 2ε sin(ωt)) x
//	u = -πA sin(πf) cos(πy)
//	v =  πA cos(πf) sin(πy) ∂f/∂x
type DoubleGyre struct {
	A       float64
	Epsilon float64
	Period  float64
}

func NewDoubleGyre() *DoubleGyre {
	return &DoubleGyre{A: 0.1, Epsilon: 0.25, Period: 20}
}

func (d *DoubleGyre) Name() string               { return "gyre" }
func (d *DoubleGyre) Domain() (float64, float64) { return 2, 1 }

// Velocity evaluates the gyre at (x, y) for time t.
func (d *DoubleGyre) Velocity(x, y, t float64) (float64, float64) {
	s := d.Epsilon * math.Sin(2*math.Pi/d.Period*t)
	f := s*x*x + (1-2*s)*x
	dfdx := 2*s*x + (1 - 2*s)
	u := -math.Pi * d.A * math.Sin(math.Pi*f) * math.Cos(math.Pi*y)
	v := math.Pi * d.A * math.Cos(math.Pi*f) * math.Sin(math.Pi*y) * dfdx
	return u, v
}

func (d *DoubleGyre) Generate(ctx context.Context, n int, g grid.Grid) (*field.Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkArgs(n, g); err != nil {
		return nil, err
	}
	if err := requirePositive(d.Name(), "period", d.Period); err != nil {
		return nil, err
	}

	xs, ys := g.XCoords(), g.YCoords()
	u, v := field.New(n, g.Nx, g.Ny), field.New(n, g.Nx, g.Ny)
	field.ParallelFor(n, 1, func(start, end int) {
		for t := start; t < end; t++ {
			us, vs := u.Slice(t), v.Slice(t)
			for i, x := range xs {
				for j, y := range ys {
					us[i*g.Ny+j], vs[i*g.Ny+j] = d.Velocity(x, y, float64(t))
				}
			}
		}
	})
	return &field.Pair{U: u, V: v}, nil
}

func (d *DoubleGyre) GetParams() map[string]float64 {
	return map[string]float64{"A": d.A, "epsilon": d.Epsilon, "period": d.Period}
}

func (d *DoubleGyre) SetParam(n string, v float64) error {
	switch n {
	case "A":
		d.A = v
	case "epsilon":
		d.Epsilon = v
	case "period":
		if err := requirePositive(d.Name(), n, v); err != nil {
			return err
		}
		d.Period = v
	default:
		return unknownParam(d.Name(), n)
	}
	return nil
}
