package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// KineticEnergy is the time-averaged mean of (u²+v²)/2. Scalar fields are
// treated as u with v = 0.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(p *field.Pair, t int, _ grid.Grid) {
	u := p.U.Slice(t)
	if len(u) == 0 {
		return
	}
	e := floats.Dot(u, u)
	if !p.Scalar() {
		v := p.V.Slice(t)
		e += floats.Dot(v, v)
	}
	k.total += 0.5 * e / float64(len(u))
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// MaxSpeed is the largest |(u, v)| seen in any slice.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(p *field.Pair, t int, _ grid.Grid) {
	u := p.U.Slice(t)
	var v []float64
	if !p.Scalar() {
		v = p.V.Slice(t)
	}
	for i, ui := range u {
		s := math.Abs(ui)
		if v != nil {
			s = math.Hypot(ui, v[i])
		}
		m.max = math.Max(m.max, s)
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
