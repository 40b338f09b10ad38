package harness

import (
	"context"
	"fmt"
)

// SweepPoint is the outcome of one sweep value: the peak and final value
// of each observed output channel. Record order matches input order;
// downstream consumers (bifurcation detection, CSV export) rely on it.
type SweepPoint struct {
	Input  float64
	Max    map[string]float64
	Steady map[string]float64
}

// Sweep varies one parameter across an ordered set of values and runs the
// full scenario once per value, each run from static initial conditions.
func Sweep(ctx context.Context, sc Scenario, param string, values []float64, outputs []string) ([]SweepPoint, error) {
	if len(outputs) == 0 {
		outputs = []string{sc.Output}
	}

	points := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		series, err := sc.Run(ctx, setParam(param, v))
		if err != nil {
			return points, fmt.Errorf("sweep %s=%.6g: %w", param, v, err)
		}

		pt := SweepPoint{
			Input:  v,
			Max:    make(map[string]float64, len(outputs)),
			Steady: make(map[string]float64, len(outputs)),
		}
		for _, out := range outputs {
			col, ok := series.Channel(out)
			if !ok {
				return points, fmt.Errorf("sweep output %q: unknown channel", out)
			}
			peak := col[0]
			for _, x := range col {
				if x > peak {
					peak = x
				}
			}
			pt.Max[out] = peak
			pt.Steady[out] = col[len(col)-1]
		}
		points = append(points, pt)
	}
	return points, nil
}
