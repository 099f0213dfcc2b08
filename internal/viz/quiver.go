package viz

import (
	"math"

	"github.com/san-kum/flowsynth/internal/field"
)

// Quiver renders QuiverCanvas as text.
func Quiver(p *field.Pair, t, w, h int) string {
	return QuiverCanvas(p, t, w, h).String()
}

// QuiverCanvas draws the velocity of slice t as line segments on a w×h
// Braille canvas. Arrows start at a sub-sampled set of grid points and are
// scaled so the fastest one spans one sampling interval. Scalar pairs render
// empty.
func QuiverCanvas(p *field.Pair, t, w, h int) *Canvas {
	c := NewCanvas(max(w, 0), max(h, 0))
	if p.Scalar() || t < 0 || t >= p.U.T || w < 1 || h < 1 {
		return c
	}
	nx, ny := p.U.Nx, p.U.Ny
	cw, ch := 2*w, 4*h

	const spacing = 8
	sx := max(1, nx*spacing/cw)
	sy := max(1, ny*spacing/ch)

	u, v := p.U.Slice(t), p.V.Slice(t)
	peak := 0.0
	for i := range u {
		peak = math.Max(peak, math.Hypot(u[i], v[i]))
	}
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return c
	}
	scale := spacing / peak

	toX := func(i int) float64 {
		if nx == 1 {
			return float64(cw-1) / 2
		}
		return float64(i) / float64(nx-1) * float64(cw-1)
	}
	toY := func(j int) float64 {
		if ny == 1 {
			return float64(ch-1) / 2
		}
		return float64(ch-1) - float64(j)/float64(ny-1)*float64(ch-1)
	}

	for i := 0; i < nx; i += sx {
		for j := 0; j < ny; j += sy {
			k := i*ny + j
			x0, y0 := toX(i), toY(j)
			x1, y1 := x0+u[k]*scale, y0-v[k]*scale
			c.DrawLine(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
		}
	}
	return c
}
