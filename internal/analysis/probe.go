package analysis

import (
	"fmt"

	"github.com/san-kum/flowsynth/internal/augment"
	"github.com/san-kum/flowsynth/internal/field"
)

// Probe returns f[:, c.Row, c.Col].
func Probe(f *field.Field, c augment.Coord) ([]float64, error) {
	if c.Row < 0 || c.Row >= f.Nx || c.Col < 0 || c.Col >= f.Ny {
		return nil, fmt.Errorf("probe %s in %dx%d: %w", c, f.Nx, f.Ny, field.ErrOutOfBounds)
	}
	out := make([]float64, f.T)
	for t := range out {
		out[t] = f.At(t, c.Row, c.Col)
	}
	return out, nil
}

// ProbeAll probes every coordinate, in order.
func ProbeAll(f *field.Field, coords []augment.Coord) ([][]float64, error) {
	out := make([][]float64, len(coords))
	for i, c := range coords {
		s, err := Probe(f, c)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
