// Package optim tunes kinetic parameters to minimize the handshake
// response time.
package optim

import (
	"context"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/lfelipessoa/kinsim/internal/harness"
	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// undefinedPenalty is the objective value assigned when a candidate
// parameter vector produces no defined response time. A large finite
// penalty keeps the minimizer moving instead of aborting the search.
const undefinedPenalty = 1000.0

// ParamSpec describes one tunable dimension of the search.
type ParamSpec struct {
	Name string
	Init float64
	Min  float64
	Max  float64
}

// Result is the best parameter vector found and its response time.
type Result struct {
	Params       map[string]float64
	ResponseTime float64
	Evaluations  int
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Minimize searches the given kinetic parameters for the fastest
// handshake response using a quasi-Newton minimizer with numerical
// gradients. Bounds are enforced by clamping inside the objective, so
// the reported optimum always lies within them.
func Minimize(ctx context.Context, sc harness.Scenario, specs []ParamSpec) (*Result, error) {
	evals := 0

	objective := func(x []float64) float64 {
		evals++
		if ctx.Err() != nil {
			return undefinedPenalty
		}

		setup := func(m *kinet.Model) error {
			for i, spec := range specs {
				if err := m.Set(spec.Name, clamp(x[i], spec.Min, spec.Max)); err != nil {
					return err
				}
			}
			return nil
		}

		rt, err := sc.ResponseTime(ctx, setup)
		if err != nil || !rt.Defined {
			return undefinedPenalty
		}
		return rt.Seconds
	}

	x0 := make([]float64, len(specs))
	for i, spec := range specs {
		x0[i] = spec.Init
	}

	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, objective, x, nil)
		},
	}

	res, err := optimize.Minimize(problem, x0, nil, &optimize.LBFGS{})
	if err != nil {
		return nil, err
	}
	if statusErr := res.Status.Err(); statusErr != nil {
		return nil, statusErr
	}

	best := make(map[string]float64, len(specs))
	for i, spec := range specs {
		best[spec.Name] = clamp(res.X[i], spec.Min, spec.Max)
	}
	return &Result{Params: best, ResponseTime: res.F, Evaluations: evals}, nil
}
