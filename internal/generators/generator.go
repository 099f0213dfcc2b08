package generators

import (
	"context"
	"fmt"

	"github.com/san-kum/flowsynth/internal/field"
	"github.com/san-kum/flowsynth/internal/grid"
)

type Generator interface {
	Name() string
	// Domain is the default physical extent (lx, ly) of the generator.
	Domain() (float64, float64)
	Generate(ctx context.Context, n int, g grid.Grid) (*field.Pair, error)
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

func checkArgs(n int, g grid.Grid) error {
	if n < 0 {
		return fmt.Errorf("n_timesteps %d: %w", n, field.ErrInvalidParameter)
	}
	return g.Validate()
}

func unknownParam(gen, name string) error {
	return fmt.Errorf("%s: unknown parameter %q: %w", gen, name, field.ErrInvalidParameter)
}

func requirePositive(gen, name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%s: %s must be positive, got %g: %w", gen, name, v, field.ErrInvalidParameter)
	}
	return nil
}
