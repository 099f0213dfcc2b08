package metrics

import (
	"math"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// Stability is the fraction of slices whose values are all finite and below
// threshold in magnitude.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(p *field.Pair, t int, _ grid.Grid) {
	s.samples++
	comps := [][]float64{p.U.Slice(t)}
	if !p.Scalar() {
		comps = append(comps, p.V.Slice(t))
	}
	for _, c := range comps {
		for _, val := range c {
			if math.IsNaN(val) || math.Abs(val) > s.threshold {
				s.violations++
				return
			}
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
