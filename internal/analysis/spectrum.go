package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X_k| for k = 0..n/2 of the discrete Fourier
// transform of data. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	x := fft.FFTReal(data)
	ps := make([]float64, len(data)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(x[i])
	}
	return ps
}

// DominantFrequency returns the index of the largest non-zero spectral bin,
// or 0 if the spectrum has no such bin.
func DominantFrequency(ps []float64) int {
	best := 0
	for k := 1; k < len(ps); k++ {
		if best == 0 || ps[k] > ps[best] {
			best = k
		}
	}
	return best
}
