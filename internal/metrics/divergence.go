package metrics

import (
	"math"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// Divergence is the RMS of ∂u/∂x + ∂v/∂y over interior points, using central
// differences on the grid spacing. Scalar fields and grids without interior
// points contribute nothing.
type Divergence struct {
	name    string
	sumSq   float64
	samples int
}

func NewDivergence() *Divergence {
	return &Divergence{name: "divergence_rms"}
}

func (d *Divergence) Name() string { return d.name }

func (d *Divergence) Observe(p *field.Pair, t int, g grid.Grid) {
	if p.Scalar() || p.U.Nx < 3 || p.U.Ny < 3 {
		return
	}
	dx, dy := g.Dx(), g.Dy()
	if dx == 0 || dy == 0 {
		return
	}
	nx, ny := p.U.Nx, p.U.Ny
	u, v := p.U.Slice(t), p.V.Slice(t)
	for i := 1; i < nx-1; i++ {
		for j := 1; j < ny-1; j++ {
			dudx := (u[(i+1)*ny+j] - u[(i-1)*ny+j]) / (2 * dx)
			dvdy := (v[i*ny+j+1] - v[i*ny+j-1]) / (2 * dy)
			div := dudx + dvdy
			d.sumSq += div * div
			d.samples++
		}
	}
}

func (d *Divergence) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return math.Sqrt(d.sumSq / float64(d.samples))
}

func (d *Divergence) Reset() {
	d.sumSq = 0
	d.samples = 0
}
