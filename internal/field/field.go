package field

import (
	"fmt"
	"math"
)

type Shape struct {
	T, Nx, Ny int
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.T, s.Nx, s.Ny)
}

// Len is the number of samples a field of this shape holds.
func (s Shape) Len() int { return s.T * s.Nx * s.Ny }

// Field is a (time, x, y) array stored row-major: index (t*Nx+i)*Ny+j.
type Field struct {
	T, Nx, Ny int
	Data      []float64
}

// New allocates a zero field. Negative dimensions panic, as make does.
func New(t, nx, ny int) *Field {
	return &Field{T: t, Nx: nx, Ny: ny, Data: make([]float64, t*nx*ny)}
}

// FromSlices builds a field from nested [t][x][y] slices. Ragged input is
// rejected with ErrShapeMismatch.
func FromSlices(v [][][]float64) (*Field, error) {
	t := len(v)
	nx, ny := 0, 0
	if t > 0 {
		nx = len(v[0])
		if nx > 0 {
			ny = len(v[0][0])
		}
	}
	f := New(t, nx, ny)
	for k := range v {
		if len(v[k]) != nx {
			return nil, &ShapeError{Op: "from slices", Want: f.Shape(), Got: Shape{t, len(v[k]), ny}}
		}
		for i := range v[k] {
			if len(v[k][i]) != ny {
				return nil, &ShapeError{Op: "from slices", Want: f.Shape(), Got: Shape{t, nx, len(v[k][i])}}
			}
			copy(f.Data[f.index(k, i, 0):], v[k][i])
		}
	}
	return f, nil
}

func (f *Field) Shape() Shape { return Shape{f.T, f.Nx, f.Ny} }

func (f *Field) index(t, i, j int) int { return (t*f.Nx+i)*f.Ny + j }

func (f *Field) At(t, i, j int) float64 { return f.Data[f.index(t, i, j)] }

func (f *Field) Set(t, i, j int, v float64) { f.Data[f.index(t, i, j)] = v }

// Slice returns the Nx*Ny samples of time step t. The result aliases f.
func (f *Field) Slice(t int) []float64 {
	n := f.Nx * f.Ny
	return f.Data[t*n : (t+1)*n : (t+1)*n]
}

// ToSlices returns a nested [t][x][y] copy.
func (f *Field) ToSlices() [][][]float64 {
	out := make([][][]float64, f.T)
	for t := range out {
		out[t] = make([][]float64, f.Nx)
		for i := range out[t] {
			out[t][i] = make([]float64, f.Ny)
			copy(out[t][i], f.Data[f.index(t, i, 0):f.index(t, i, 0)+f.Ny])
		}
	}
	return out
}

func (f *Field) Clone() *Field {
	c := &Field{T: f.T, Nx: f.Nx, Ny: f.Ny, Data: make([]float64, len(f.Data))}
	copy(c.Data, f.Data)
	return c
}

// Equal reports exact, sample-by-sample equality including shape.
func (f *Field) Equal(o *Field) bool {
	if f.Shape() != o.Shape() {
		return false
	}
	for i, v := range f.Data {
		if v != o.Data[i] {
			return false
		}
	}
	return true
}

func (f *Field) ApproxEqual(o *Field, tol float64) bool {
	if f.Shape() != o.Shape() {
		return false
	}
	for i, v := range f.Data {
		if math.Abs(v-o.Data[i]) > tol {
			return false
		}
	}
	return true
}

func (f *Field) IsValid() bool {
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Pair holds the u and v components of a vector field. V is nil for scalar
// fields carried through code paths that accept pairs.
type Pair struct {
	U, V *Field
}

// NewPair checks that u and v are co-registered.
func NewPair(u, v *Field) (*Pair, error) {
	if u.Shape() != v.Shape() {
		return nil, &ShapeError{Op: "pair", Want: u.Shape(), Got: v.Shape()}
	}
	return &Pair{U: u, V: v}, nil
}

func (p *Pair) Scalar() bool { return p.V == nil }

func (p *Pair) Shape() Shape { return p.U.Shape() }

func (p *Pair) Equal(o *Pair) bool {
	if p.Scalar() != o.Scalar() || !p.U.Equal(o.U) {
		return false
	}
	return p.Scalar() || p.V.Equal(o.V)
}

// Magnitude returns sqrt(u²+v²); for a scalar pair it returns |u|.
func (p *Pair) Magnitude() *Field {
	out := New(p.U.T, p.U.Nx, p.U.Ny)
	for i, u := range p.U.Data {
		if p.V == nil {
			out.Data[i] = math.Abs(u)
			continue
		}
		out.Data[i] = math.Hypot(u, p.V.Data[i])
	}
	return out
}

// ComplexField is the complex encoding of a vector field.
type ComplexField struct {
	T, Nx, Ny int
	Data      []complex128
}

func NewComplex(t, nx, ny int) *ComplexField {
	return &ComplexField{T: t, Nx: nx, Ny: ny, Data: make([]complex128, t*nx*ny)}
}

func (c *ComplexField) Shape() Shape { return Shape{c.T, c.Nx, c.Ny} }

func (c *ComplexField) At(t, i, j int) complex128 { return c.Data[(t*c.Nx+i)*c.Ny+j] }

func (c *ComplexField) parts(fn func(complex128) float64) *Field {
	out := New(c.T, c.Nx, c.Ny)
	for i, z := range c.Data {
		out.Data[i] = fn(z)
	}
	return out
}

func (c *ComplexField) Real() *Field { return c.parts(func(z complex128) float64 { return real(z) }) }
func (c *ComplexField) Imag() *Field { return c.parts(func(z complex128) float64 { return imag(z) }) }

func (c *ComplexField) Abs() *Field {
	return c.parts(func(z complex128) float64 { return math.Hypot(real(z), imag(z)) })
}

func (c *ComplexField) Phase() *Field {
	return c.parts(func(z complex128) float64 { return math.Atan2(imag(z), real(z)) })
}
