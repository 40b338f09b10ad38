package kinet

import "math"

// Conc is a vector of species concentrations, ordered as the owning
// network's Species() slice.
type Conc []float64

func (c Conc) Clone() Conc {
	out := make(Conc, len(c))
	copy(out, c)
	return out
}

func (c Conc) IsValid() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (c Conc) Norm() float64 {
	sum := 0.0
	for _, v := range c {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Network describes a fixed reaction network as an ODE system.
type Network interface {
	// Rates returns dC/dt for the current concentrations.
	Rates(c Conc, t float64) Conc
	// Species lists species names in state-vector order.
	Species() []string
	// InitialConc returns the static initial conditions.
	InitialConc() Conc
}

// Tunable is implemented by networks whose kinetic constants can be
// adjusted at runtime.
type Tunable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Bounded is implemented by networks whose concentrations live in a
// closed range (logic-signal networks are normalized to [0, 1]).
type Bounded interface {
	Clamp(c Conc)
}

// Stepper advances concentrations by one timestep.
type Stepper interface {
	Step(net Network, c Conc, t, dt float64) Conc
}

// AdaptiveStepper is a Stepper with embedded error control.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(net Network, c Conc, t, dt, tol float64) (Conc, float64, error)
}
