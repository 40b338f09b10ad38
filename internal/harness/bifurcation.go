package harness

import (
	"context"
	"fmt"
)

const (
	// DefaultSettleAmplitude is the tail peak-to-peak amplitude below
	// which a trajectory counts as settled. Tunable via config; the
	// digital on/off reading of the circuit depends on it.
	DefaultSettleAmplitude = 0.05

	// settleTailFraction is the trailing share of the trajectory examined
	// for residual oscillation.
	settleTailFraction = 0.25
)

// BifurcationPoint classifies one sweep value: the output's steady value,
// the tail oscillation amplitude, and whether the trajectory settles.
type BifurcationPoint struct {
	Input     float64
	Steady    float64
	Amplitude float64
	Settles   bool
}

// BifurcationResult is the ordered classification plus the number of
// settles/oscillates transitions between adjacent sweep points.
type BifurcationResult struct {
	Points      []BifurcationPoint
	Transitions int
}

// Bifurcation sweeps one parameter and classifies each run's output
// trajectory as settling or not. settleAmp <= 0 selects the default
// amplitude threshold.
func Bifurcation(ctx context.Context, sc Scenario, param string, values []float64, settleAmp float64) (*BifurcationResult, error) {
	if settleAmp <= 0 {
		settleAmp = DefaultSettleAmplitude
	}

	result := &BifurcationResult{Points: make([]BifurcationPoint, 0, len(values))}

	for _, v := range values {
		series, err := sc.Run(ctx, setParam(param, v))
		if err != nil {
			return result, fmt.Errorf("bifurcation %s=%.6g: %w", param, v, err)
		}

		col, ok := series.Channel(sc.Output)
		if !ok || len(col) == 0 {
			return result, fmt.Errorf("bifurcation output %q: unknown channel", sc.Output)
		}

		tail := col[len(col)-max(1, int(float64(len(col))*settleTailFraction)):]
		lo, hi := tail[0], tail[0]
		for _, x := range tail {
			if x < lo {
				lo = x
			}
			if x > hi {
				hi = x
			}
		}

		amp := hi - lo
		result.Points = append(result.Points, BifurcationPoint{
			Input:     v,
			Steady:    col[len(col)-1],
			Amplitude: amp,
			Settles:   amp <= settleAmp,
		})
	}

	for i := 1; i < len(result.Points); i++ {
		if result.Points[i].Settles != result.Points[i-1].Settles {
			result.Transitions++
		}
	}
	return result, nil
}
