package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/flowsynth/internal/field"
)

type Summary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Stats summarises all values of f. An empty field yields the zero Summary.
func Stats(f *field.Field) Summary {
	if len(f.Data) == 0 {
		return Summary{}
	}
	mean, std := stat.PopMeanStdDev(f.Data, nil)
	return Summary{
		Min:  floats.Min(f.Data),
		Max:  floats.Max(f.Data),
		Mean: mean,
		Std:  std,
	}
}
