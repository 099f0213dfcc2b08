package generators

import (
	"context"
	"math"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// GaussianBlob moves a Gaussian bump linearly from Start to End. The centre
// advances by t/n of the way per step, so the last step stops one step short
// of End.
type GaussianBlob struct {
	StartX, StartY float64
	EndX, EndY     float64
	Width          float64
}

func NewGaussianBlob() *GaussianBlob {
	return &GaussianBlob{StartX: 0.8, StartY: 0.2, EndX: 0.2, EndY: 0.8, Width: 0.01}
}

// SimpleFlow is the blob with default parameters on the unit square.
func SimpleFlow(n, nx, ny int) (*field.Field, error) {
	return NewGaussianBlob().Field(n, grid.Unit(nx, ny))
}

func (b *GaussianBlob) Name() string               { return "simple" }
func (b *GaussianBlob) Domain() (float64, float64) { return 1, 1 }

func (b *GaussianBlob) Center(t, n int) (float64, float64) {
	frac := float64(t) / float64(n)
	return b.StartX + (b.EndX-b.StartX)*frac, b.StartY + (b.EndY-b.StartY)*frac
}

func (b *GaussianBlob) Field(n int, g grid.Grid) (*field.Field, error) {
	if err := checkArgs(n, g); err != nil {
		return nil, err
	}
	if err := requirePositive(b.Name(), "width", b.Width); err != nil {
		return nil, err
	}

	xs, ys := g.XCoords(), g.YCoords()
	out := field.New(n, g.Nx, g.Ny)
	field.ParallelFor(n, 1, func(start, end int) {
		for t := start; t < end; t++ {
			cx, cy := b.Center(t, n)
			s := out.Slice(t)
			for i, x := range xs {
				dx2 := (x - cx) * (x - cx)
				for j, y := range ys {
					s[i*g.Ny+j] = math.Exp(-(dx2 + (y-cy)*(y-cy)) / b.Width)
				}
			}
		}
	})
	return out, nil
}

func (b *GaussianBlob) Generate(ctx context.Context, n int, g grid.Grid) (*field.Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := b.Field(n, g)
	if err != nil {
		return nil, err
	}
	return &field.Pair{U: f}, nil
}

func (b *GaussianBlob) GetParams() map[string]float64 {
	return map[string]float64{"startX": b.StartX, "startY": b.StartY, "endX": b.EndX, "endY": b.EndY, "width": b.Width}
}

func (b *GaussianBlob) SetParam(n string, v float64) error {
	switch n {
	case "startX":
		b.StartX = v
	case "startY":
		b.StartY = v
	case "endX":
		b.EndX = v
	case "endY":
		b.EndY = v
	case "width":
		if err := requirePositive(b.Name(), n, v); err != nil {
			return err
		}
		b.Width = v
	default:
		return unknownParam(b.Name(), n)
	}
	return nil
}
