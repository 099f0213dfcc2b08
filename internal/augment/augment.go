// Package augment concatenates co-registered u and v fields into a single
// augmented state, splits it back, and maps sensor coordinates between the
// augmented frame and the original single-field frame.
package augment

import (
	"fmt"

	"github.com/san-kum/flowsynth/internal/field"
)

// Combine concatenates u and v along the axis chosen by o. The result has
// shape (T, Nx, 2Ny) for Horizontal and (T, 2Nx, Ny) for Vertical.
func Combine(u, v *field.Field, o Orientation) (*field.Field, error) {
	if u.Shape() != v.Shape() {
		return nil, &field.ShapeError{Op: "combine", Want: u.Shape(), Got: v.Shape()}
	}
	nx, ny := u.Nx, u.Ny
	var out *field.Field
	switch o {
	case Horizontal:
		out = field.New(u.T, nx, 2*ny)
		field.ParallelFor(u.T, 1, func(start, end int) {
			for t := start; t < end; t++ {
				us, vs, dst := u.Slice(t), v.Slice(t), out.Slice(t)
				for i := 0; i < nx; i++ {
					row := dst[i*2*ny : (i+1)*2*ny]
					copy(row[:ny], us[i*ny:(i+1)*ny])
					copy(row[ny:], vs[i*ny:(i+1)*ny])
				}
			}
		})
	case Vertical:
		out = field.New(u.T, 2*nx, ny)
		n := nx * ny
		field.ParallelFor(u.T, 1, func(start, end int) {
			for t := start; t < end; t++ {
				dst := out.Slice(t)
				copy(dst[:n], u.Slice(t))
				copy(dst[n:], v.Slice(t))
			}
		})
	default:
		return nil, fmt.Errorf("combine: invalid orientation %d", int(o))
	}
	return out, nil
}

// Split inverts Combine. nxC and nyC are the combined spatial dimensions and
// must match aug; the halved dimension must be even.
func Split(aug *field.Field, nxC, nyC int, o Orientation) (u, v *field.Field, err error) {
	if aug.Nx != nxC || aug.Ny != nyC {
		return nil, nil, &field.ShapeError{
			Op:   "split",
			Want: field.Shape{T: aug.T, Nx: nxC, Ny: nyC},
			Got:  aug.Shape(),
		}
	}
	switch o {
	case Horizontal:
		if nyC%2 != 0 {
			return nil, nil, fmt.Errorf("split: ny=%d: %w", nyC, field.ErrOddDimension)
		}
		half := nyC / 2
		u, v = field.New(aug.T, nxC, half), field.New(aug.T, nxC, half)
		field.ParallelFor(aug.T, 1, func(start, end int) {
			for t := start; t < end; t++ {
				src, us, vs := aug.Slice(t), u.Slice(t), v.Slice(t)
				for i := 0; i < nxC; i++ {
					row := src[i*nyC : (i+1)*nyC]
					copy(us[i*half:(i+1)*half], row[:half])
					copy(vs[i*half:(i+1)*half], row[half:])
				}
			}
		})
	case Vertical:
		if nxC%2 != 0 {
			return nil, nil, fmt.Errorf("split: nx=%d: %w", nxC, field.ErrOddDimension)
		}
		half := nxC / 2
		n := half * nyC
		u, v = field.New(aug.T, half, nyC), field.New(aug.T, half, nyC)
		field.ParallelFor(aug.T, 1, func(start, end int) {
			for t := start; t < end; t++ {
				src := aug.Slice(t)
				copy(u.Slice(t), src[:n])
				copy(v.Slice(t), src[n:])
			}
		})
	default:
		return nil, nil, fmt.Errorf("split: invalid orientation %d", int(o))
	}
	return u, v, nil
}

// CombinePair is Combine over a vector pair.
func CombinePair(p *field.Pair, o Orientation) (*field.Field, error) {
	if p.Scalar() {
		return nil, fmt.Errorf("combine: scalar field has no v component: %w", field.ErrShapeMismatch)
	}
	return Combine(p.U, p.V, o)
}
