// Package grid describes the regular 2-D sampling shared by all generators.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/flowsynth/internal/field"
)

// Grid samples the rectangle [0,Lx]×[0,Ly] with Nx×Ny points.
type Grid struct {
	Nx int     `yaml:"nx" json:"nx"`
	Ny int     `yaml:"ny" json:"ny"`
	Lx float64 `yaml:"lx" json:"lx"`
	Ly float64 `yaml:"ly" json:"ly"`
}

func New(nx, ny int, lx, ly float64) Grid {
	return Grid{Nx: nx, Ny: ny, Lx: lx, Ly: ly}
}

// Unit is the [0,1]×[0,1] grid.
func Unit(nx, ny int) Grid { return New(nx, ny, 1, 1) }

func (g Grid) Validate() error {
	if g.Nx < 1 || g.Ny < 1 {
		return fmt.Errorf("grid %dx%d: %w", g.Nx, g.Ny, field.ErrDegenerateGrid)
	}
	if !(g.Lx > 0) || !(g.Ly > 0) || math.IsInf(g.Lx, 0) || math.IsInf(g.Ly, 0) {
		return fmt.Errorf("grid extents %gx%g must be positive: %w", g.Lx, g.Ly, field.ErrInvalidParameter)
	}
	return nil
}

// XCoords returns Nx points spanning [0, Lx] inclusive.
func (g Grid) XCoords() []float64 { return linspace(g.Nx, g.Lx) }

// YCoords returns Ny points spanning [0, Ly] inclusive.
func (g Grid) YCoords() []float64 { return linspace(g.Ny, g.Ly) }

// XCoordsPeriodic returns Nx points on [0, Lx) with spacing Lx/Nx.
func (g Grid) XCoordsPeriodic() []float64 { return periodic(g.Nx, g.Lx) }

// YCoordsPeriodic returns Ny points on [0, Ly) with spacing Ly/Ny.
func (g Grid) YCoordsPeriodic() []float64 { return periodic(g.Ny, g.Ly) }

// Dx is the spacing between adjacent x samples; zero for a single column.
func (g Grid) Dx() float64 { return spacing(g.Nx, g.Lx) }

func (g Grid) Dy() float64 { return spacing(g.Ny, g.Ly) }

// Nearest returns the grid index closest to the physical point (x, y),
// clamped to the grid.
func (g Grid) Nearest(x, y float64) (int, int) {
	return nearest(x, g.Nx, g.Lx), nearest(y, g.Ny, g.Ly)
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d over [0,%g]x[0,%g]", g.Nx, g.Ny, g.Lx, g.Ly)
}

func linspace(n int, l float64) []float64 {
	if n <= 0 {
		return []float64{}
	}
	pts := make([]float64, n)
	if n == 1 {
		return pts
	}
	floats.Span(pts, 0, l)
	return pts
}

func periodic(n int, l float64) []float64 {
	if n <= 0 {
		return []float64{}
	}
	pts := make([]float64, n)
	h := l / float64(n)
	for i := range pts {
		pts[i] = float64(i) * h
	}
	return pts
}

func spacing(n int, l float64) float64 {
	if n < 2 {
		return 0
	}
	return l / float64(n-1)
}

func nearest(v float64, n int, l float64) int {
	if n < 2 {
		return 0
	}
	i := int(math.Round(v / spacing(n, l)))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
