// Package transform implements lossless geometric and algebraic operators on
// fields. Every operator allocates its result; inputs are never modified.
//
// Geometric operators act on sample positions only. Vector components are
// not rotated with the grid.
package transform

import (
	"github.com/san-kum/flowsynth/internal/field"
)

// ReflectY reverses the y axis of every time slice (reflection about the
// horizontal midline y = Ly/2).
func ReflectY(f *field.Field) *field.Field {
	out := field.New(f.T, f.Nx, f.Ny)
	field.ParallelFor(f.T, 1, func(start, end int) {
		for t := start; t < end; t++ {
			src, dst := f.Slice(t), out.Slice(t)
			for i := 0; i < f.Nx; i++ {
				row := i * f.Ny
				for j := 0; j < f.Ny; j++ {
					dst[row+j] = src[row+f.Ny-1-j]
				}
			}
		}
	})
	return out
}

// ReflectX reverses the x axis of every time slice.
func ReflectX(f *field.Field) *field.Field {
	out := field.New(f.T, f.Nx, f.Ny)
	field.ParallelFor(f.T, 1, func(start, end int) {
		for t := start; t < end; t++ {
			src, dst := f.Slice(t), out.Slice(t)
			for i := 0; i < f.Nx; i++ {
				copy(dst[i*f.Ny:(i+1)*f.Ny], src[(f.Nx-1-i)*f.Ny:(f.Nx-i)*f.Ny])
			}
		}
	})
	return out
}

// Rotate90 rotates every slice a quarter turn counter-clockwise. A field of
// shape (T, Nx, Ny) becomes (T, Ny, Nx) with out[t][i][j] = in[t][j][Ny-1-i].
func Rotate90(f *field.Field) *field.Field {
	out := field.New(f.T, f.Ny, f.Nx)
	field.ParallelFor(f.T, 1, func(start, end int) {
		for t := start; t < end; t++ {
			src, dst := f.Slice(t), out.Slice(t)
			for i := 0; i < f.Ny; i++ {
				for j := 0; j < f.Nx; j++ {
					dst[i*f.Nx+j] = src[j*f.Ny+f.Ny-1-i]
				}
			}
		}
	})
	return out
}

// Rotate applies k counter-clockwise quarter turns; negative k turns
// clockwise.
func Rotate(f *field.Field, k int) *field.Field {
	k = ((k % 4) + 4) % 4
	switch k {
	case 0:
		return f.Clone()
	case 2:
		return ReflectX(ReflectY(f))
	}
	out := Rotate90(f)
	for ; k > 1; k-- {
		out = Rotate90(out)
	}
	return out
}

func ReflectPair(p *field.Pair) *field.Pair {
	return mapPair(p, ReflectY)
}

func RotatePair(p *field.Pair, k int) *field.Pair {
	return mapPair(p, func(f *field.Field) *field.Field { return Rotate(f, k) })
}

func mapPair(p *field.Pair, fn func(*field.Field) *field.Field) *field.Pair {
	out := &field.Pair{U: fn(p.U)}
	if p.V != nil {
		out.V = fn(p.V)
	}
	return out
}
