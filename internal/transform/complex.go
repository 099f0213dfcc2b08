package transform

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/flowsynth/internal/field"
)

// ToComplexCartesian packs (u, v) as u + iv.
func ToComplexCartesian(u, v *field.Field) (*field.ComplexField, error) {
	if _, err := field.NewPair(u, v); err != nil {
		return nil, err
	}
	out := field.NewComplex(u.T, u.Nx, u.Ny)
	for i := range u.Data {
		out.Data[i] = complex(u.Data[i], v.Data[i])
	}
	return out, nil
}

// ToComplexPolar packs (u, v) as r·e^{iθ} with r = |(u,v)| and θ = atan2(v, u).
// It agrees with ToComplexCartesian up to rounding.
func ToComplexPolar(u, v *field.Field) (*field.ComplexField, error) {
	if _, err := field.NewPair(u, v); err != nil {
		return nil, err
	}
	out := field.NewComplex(u.T, u.Nx, u.Ny)
	for i := range u.Data {
		r := math.Sqrt(u.Data[i]*u.Data[i] + v.Data[i]*v.Data[i])
		theta := math.Atan2(v.Data[i], u.Data[i])
		out.Data[i] = complex(r, 0) * cmplx.Exp(complex(0, theta))
	}
	return out, nil
}

// FromComplex unpacks a complex encoding back into (u, v).
func FromComplex(c *field.ComplexField) *field.Pair {
	return &field.Pair{U: c.Real(), V: c.Imag()}
}
