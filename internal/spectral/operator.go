package spectral

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/flowsynth/internal/integrators"
)

// operator holds the wavenumbers and forcing for one grid and implements
// integrators.System over the flattened vorticity.
type operator struct {
	nx, ny  int
	kx, ky  []float64
	k2      [][]float64
	dealias [][]bool
	forcing []float64
	nu, mu  float64
}

func newOperator(nx, ny int, lx, ly, nu, mu, amp float64, kf int) *operator {
	op := &operator{
		nx: nx, ny: ny,
		kx: wavenumbers(nx, lx), ky: wavenumbers(ny, ly),
		nu: nu, mu: mu,
	}

	op.k2 = make([][]float64, nx)
	op.dealias = make([][]bool, nx)
	for i := 0; i < nx; i++ {
		op.k2[i] = make([]float64, ny)
		op.dealias[i] = make([]bool, ny)
		for j := 0; j < ny; j++ {
			op.k2[i][j] = op.kx[i]*op.kx[i] + op.ky[j]*op.ky[j]
			op.dealias[i][j] = 3*absInt(freq(i, nx)) <= nx && 3*absInt(freq(j, ny)) <= ny
		}
	}

	k := 2 * math.Pi * float64(kf) / ly
	op.forcing = make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		f := -amp * k * math.Cos(k*float64(j)*ly/float64(ny))
		for i := 0; i < nx; i++ {
			op.forcing[i*ny+j] = f
		}
	}
	return op
}

// freq maps an FFT bin to its signed integer frequency.
func freq(i, n int) int {
	if i < (n+1)/2 {
		return i
	}
	return i - n
}

func wavenumbers(n int, l float64) []float64 {
	k := make([]float64, n)
	for i := range k {
		k[i] = 2 * math.Pi * float64(freq(i, n)) / l
	}
	return k
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (op *operator) toGrid(x []float64) [][]float64 {
	g := make([][]float64, op.nx)
	for i := range g {
		g[i] = x[i*op.ny : (i+1)*op.ny]
	}
	return g
}

func (op *operator) spectrum(x []float64) [][]complex128 {
	return fft.FFT2Real(op.toGrid(x))
}

// physical inverts a spectrum, keeping the real part.
func (op *operator) physical(s [][]complex128) []float64 {
	g := fft.IFFT2(s)
	out := make([]float64, op.nx*op.ny)
	for i := range g {
		for j := range g[i] {
			out[i*op.ny+j] = real(g[i][j])
		}
	}
	return out
}

// apply returns the inverse transform of fn(i, j) * s[i][j].
func (op *operator) apply(s [][]complex128, fn func(i, j int) complex128) []float64 {
	out := make([][]complex128, op.nx)
	for i := range out {
		out[i] = make([]complex128, op.ny)
		for j := range out[i] {
			out[i][j] = fn(i, j) * s[i][j]
		}
	}
	return op.physical(out)
}

func (op *operator) invK2(i, j int) float64 {
	if op.k2[i][j] == 0 {
		return 0
	}
	return 1 / op.k2[i][j]
}

// velocity recovers (u, v) from the vorticity spectrum.
func (op *operator) velocity(w [][]complex128) ([]float64, []float64) {
	u := op.apply(w, func(i, j int) complex128 { return complex(0, op.ky[j]*op.invK2(i, j)) })
	v := op.apply(w, func(i, j int) complex128 { return complex(0, -op.kx[i]*op.invK2(i, j)) })
	return u, v
}

func (op *operator) Derive(x integrators.State, _ float64) integrators.State {
	w := op.spectrum(x)
	u, v := op.velocity(w)
	wx := op.apply(w, func(i, _ int) complex128 { return complex(0, op.kx[i]) })
	wy := op.apply(w, func(_, j int) complex128 { return complex(0, op.ky[j]) })

	adv := make([]float64, len(x))
	for n := range adv {
		adv[n] = -(u[n]*wx[n] + v[n]*wy[n])
	}
	a := op.spectrum(adv)

	rhs := make([][]complex128, op.nx)
	for i := range rhs {
		rhs[i] = make([]complex128, op.ny)
		for j := range rhs[i] {
			if op.dealias[i][j] {
				rhs[i][j] = a[i][j]
			}
			rhs[i][j] -= complex(op.nu*op.k2[i][j]+op.mu, 0) * w[i][j]
		}
	}

	dx := op.physical(rhs)
	for n := range dx {
		dx[n] += op.forcing[n]
	}
	return dx
}
