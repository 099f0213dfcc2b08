// Package integrators advances flat state vectors by explicit time stepping.
package integrators

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an autonomous or time-dependent ODE dx/dt = f(x, t).
type System interface {
	Derive(x State, t float64) State
}

type Stepper interface {
	Step(sys System, x State, t, dt float64) State
}

// Get returns a fresh stepper by name.
func Get(name string) (Stepper, error) {
	switch name {
	case "rk4", "":
		return NewRK4(), nil
	case "euler":
		return NewEuler(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}
