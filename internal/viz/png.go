package viz

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/flowsynth/internal/augment"
	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// sliceGrid adapts one time slice to plotter.GridXYZ.
type sliceGrid struct {
	f      *field.Field
	t      int
	xs, ys []float64
}

func (s sliceGrid) Dims() (c, r int)   { return s.f.Nx, s.f.Ny }
func (s sliceGrid) Z(c, r int) float64 { return s.f.At(s.t, c, r) }
func (s sliceGrid) X(c int) float64    { return s.xs[c] }
func (s sliceGrid) Y(r int) float64    { return s.ys[r] }

// SavePNG writes a heat map of slice t with sensors overlaid as crosses. The
// file format follows the extension of path.
func SavePNG(path string, f *field.Field, t int, g grid.Grid, sensors []augment.Coord, title string) error {
	if t < 0 || t >= f.T {
		return fmt.Errorf("viz: slice %d of %d: %w", t, f.T, field.ErrOutOfBounds)
	}
	if f.Nx < 2 || f.Ny < 2 {
		return fmt.Errorf("viz: heat map needs at least 2x2 points: %w", field.ErrDegenerateGrid)
	}
	if g.Nx != f.Nx || g.Ny != f.Ny {
		return fmt.Errorf("viz: grid %s does not match field %s: %w", g, f.Shape(), field.ErrShapeMismatch)
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(0)
	cm.SetMax(1)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	hm := plotter.NewHeatMap(sliceGrid{f: f, t: t, xs: g.XCoords(), ys: g.YCoords()}, cm.Palette(255))
	p.Add(hm)

	if len(sensors) > 0 {
		xs, ys := g.XCoords(), g.YCoords()
		pts := make(plotter.XYs, 0, len(sensors))
		for _, s := range sensors {
			if s.Row < 0 || s.Row >= f.Nx || s.Col < 0 || s.Col >= f.Ny {
				return fmt.Errorf("viz: sensor %s: %w", s, field.ErrOutOfBounds)
			}
			pts = append(pts, plotter.XY{X: xs[s.Row], Y: ys[s.Col]})
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Shape = draw.CrossGlyph{}
		scatter.GlyphStyle.Color = color.RGBA{A: 255}
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(scatter)
	}

	return p.Save(6*vg.Inch, 5*vg.Inch, path)
}
