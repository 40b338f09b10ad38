package harness

import (
	"fmt"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

const (
	// DefaultResponseFraction is the threshold fraction of the eventual
	// steady state used by the response-time metric.
	DefaultResponseFraction = 0.5

	// DefaultSignalFloor is the minimum steady-state level for the output
	// to count as having switched at all. Below it the response time is
	// undefined, never zero.
	DefaultSignalFloor = 0.05
)

// ResponseTime is the elapsed time from scenario start until the output
// first reaches the configured fraction of its eventual steady-state
// value. Defined is false when the output never switches within the
// simulated horizon; callers must branch on it instead of consuming
// Seconds.
type ResponseTime struct {
	Seconds float64
	Defined bool
}

// MeasureResponse computes the response-time metric over one trajectory.
// The steady state is the value at the final simulated time point. floor
// is the minimum steady-state level for the output to count as switched;
// zero or negative selects the default.
func MeasureResponse(series *kinet.Series, output string, fraction, floor float64) (ResponseTime, error) {
	col, ok := series.Channel(output)
	if !ok {
		return ResponseTime{}, fmt.Errorf("response: %q: %w", output, kinet.ErrUnknownName)
	}
	if len(col) == 0 {
		return ResponseTime{}, nil
	}
	if floor <= 0 {
		floor = DefaultSignalFloor
	}

	steady := col[len(col)-1]
	if steady < floor {
		return ResponseTime{}, nil
	}

	threshold := fraction * steady
	start := series.Start()
	for i, v := range col {
		if v >= threshold {
			return ResponseTime{Seconds: series.Times[i] - start, Defined: true}, nil
		}
	}
	return ResponseTime{}, nil
}

// SteadyState returns the final value of one channel.
func SteadyState(series *kinet.Series, output string) (float64, error) {
	col, ok := series.Channel(output)
	if !ok || len(col) == 0 {
		return 0, fmt.Errorf("steady state: %q: %w", output, kinet.ErrUnknownName)
	}
	return col[len(col)-1], nil
}
