package generators

import (
	"context"
	"math"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// r2Floor regularizes the Lamb–Oseen kernel at the vortex centre.
const r2Floor = 1e-10

// MovingVortex is a Lamb–Oseen vortex whose centre orbits (CenterX, CenterY)
// once every Period steps.
type MovingVortex struct {
	Gamma            float64
	CoreRadius       float64
	CenterX, CenterY float64
	OrbitRadius      float64
	Period           float64
}

func NewMovingVortex() *MovingVortex {
	return &MovingVortex{Gamma: 1.0, CoreRadius: 0.1, CenterX: 0.5, CenterY: 0.5, OrbitRadius: 0.3, Period: 100}
}

func (m *MovingVortex) Name() string               { return "vortex" }
func (m *MovingVortex) Domain() (float64, float64) { return 1, 1 }

// Position returns the vortex centre at step t.
func (m *MovingVortex) Position(t int) (float64, float64) {
	theta := 2 * math.Pi * float64(t) / m.Period
	return m.CenterX + m.OrbitRadius*math.Cos(theta), m.CenterY + m.OrbitRadius*math.Sin(theta)
}

// Velocity evaluates the induced velocity at (x, y) for a vortex at (x0, y0).
func (m *MovingVortex) Velocity(x, y, x0, y0 float64) (float64, float64) {
	dx, dy := x-x0, y-y0
	r2 := dx*dx + dy*dy
	if r2 < r2Floor {
		r2 = r2Floor
	}
	k := m.Gamma / (2 * math.Pi) * (1 - math.Exp(-r2/(m.CoreRadius*m.CoreRadius))) / r2
	return -k * dy, k * dx
}

func (m *MovingVortex) Generate(ctx context.Context, n int, g grid.Grid) (*field.Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkArgs(n, g); err != nil {
		return nil, err
	}
	if err := requirePositive(m.Name(), "period", m.Period); err != nil {
		return nil, err
	}
	if err := requirePositive(m.Name(), "coreRadius", m.CoreRadius); err != nil {
		return nil, err
	}

	xs, ys := g.XCoords(), g.YCoords()
	u, v := field.New(n, g.Nx, g.Ny), field.New(n, g.Nx, g.Ny)
	field.ParallelFor(n, 1, func(start, end int) {
		for t := start; t < end; t++ {
			x0, y0 := m.Position(t)
			us, vs := u.Slice(t), v.Slice(t)
			for i, x := range xs {
				for j, y := range ys {
					us[i*g.Ny+j], vs[i*g.Ny+j] = m.Velocity(x, y, x0, y0)
				}
			}
		}
	})
	return &field.Pair{U: u, V: v}, nil
}

func (m *MovingVortex) GetParams() map[string]float64 {
	return map[string]float64{
		"gamma": m.Gamma, "coreRadius": m.CoreRadius, "centerX": m.CenterX,
		"centerY": m.CenterY, "orbitRadius": m.OrbitRadius, "period": m.Period,
	}
}

func (m *MovingVortex) SetParam(n string, v float64) error {
	switch n {
	case "gamma":
		m.Gamma = v
	case "coreRadius":
		if err := requirePositive(m.Name(), n, v); err != nil {
			return err
		}
		m.CoreRadius = v
	case "centerX":
		m.CenterX = v
	case "centerY":
		m.CenterY = v
	case "orbitRadius":
		m.OrbitRadius = v
	case "period":
		if err := requirePositive(m.Name(), n, v); err != nil {
			return err
		}
		m.Period = v
	default:
		return unknownParam(m.Name(), n)
	}
	return nil
}
