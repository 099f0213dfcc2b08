package metrics

import (
	"sort"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

// Metric accumulates a diagnostic over the time slices of a field.
type Metric interface {
	Name() string
	Observe(p *field.Pair, t int, g grid.Grid)
	Value() float64
	Reset()
}

// Default returns the metrics recorded with every saved run.
func Default() []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewMaxSpeed(),
		NewDivergence(),
		NewStability(1e6),
	}
}

// Evaluate feeds every time slice of p to each metric and returns the final
// values keyed by name. Metrics are reset first.
func Evaluate(p *field.Pair, g grid.Grid, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for t := 0; t < p.U.T; t++ {
			m.Observe(p, t, g)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the keys of values in sorted order.
func Names(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
