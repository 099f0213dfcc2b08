package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/flowsynth/internal/augment"
	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
	"github.com/san-kum/flowsynth/internal/transform"
)

// Apply runs one derivation on p sampled on g and returns the derived pair,
// the grid it lives on and the canonical op name recorded in run metadata.
//
//	reflect            mirror along y
//	reflect-x          mirror along x
//	rotate[:k]         k quarter turns, default 1
//	augment[:o]        combine u and v, o is horizontal (default) or vertical
func Apply(p *field.Pair, g grid.Grid, op string) (*field.Pair, grid.Grid, string, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(op), ":")
	switch name {
	case "reflect":
		return transform.ReflectPair(p), g, "reflect", nil

	case "reflect-x":
		out := &field.Pair{U: transform.ReflectX(p.U)}
		if !p.Scalar() {
			out.V = transform.ReflectX(p.V)
		}
		return out, g, "reflect-x", nil

	case "rotate":
		k := 1
		if arg != "" {
			var err error
			if k, err = strconv.Atoi(arg); err != nil {
				return nil, g, "", fmt.Errorf("op %q: %w", op, err)
			}
		}
		if ((k%4)+4)%2 == 1 {
			g = grid.New(g.Ny, g.Nx, g.Ly, g.Lx)
		}
		return transform.RotatePair(p, k), g, fmt.Sprintf("rotate%d", k), nil

	case "augment":
		o, err := augment.ParseOrientation(arg)
		if err != nil {
			return nil, g, "", err
		}
		combined, err := augment.CombinePair(p, o)
		if err != nil {
			return nil, g, "", err
		}
		return &field.Pair{U: combined}, AugmentedGrid(g, o), "augment:" + o.String(), nil
	}
	return nil, g, "", fmt.Errorf("unknown op: %q (want reflect, reflect-x, rotate[:k] or augment[:orientation])", op)
}

// AugmentedGrid is the grid of the combined state: g doubled along the
// concatenation axis.
func AugmentedGrid(g grid.Grid, o augment.Orientation) grid.Grid {
	if o == augment.Vertical {
		return grid.New(2*g.Nx, g.Ny, 2*g.Lx, g.Ly)
	}
	return grid.New(g.Nx, 2*g.Ny, g.Lx, 2*g.Ly)
}
