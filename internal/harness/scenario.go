package harness

import (
	"context"
	"errors"

	"github.com/lfelipessoa/kinsim/internal/kinet"
	"github.com/lfelipessoa/kinsim/internal/phase"
)

// Scenario bundles everything needed to run the phased time course from
// scratch: a factory for fresh model handles, the phase schedule, and the
// designated output channel for scalar metrics.
//
// NewModel must return a handle at the network's static initial
// conditions with nominal kinetics; the factory is called once per
// independent run, which is what makes sweep points and stochastic trials
// independent of each other.
type Scenario struct {
	NewModel func(opts ...kinet.Option) (*kinet.Model, error)
	Phases   []phase.Phase
	Output   string

	// ResponseFraction is the threshold fraction of the eventual
	// steady-state used by the response-time metric. Zero means the
	// default of 0.5.
	ResponseFraction float64

	// SignalFloor is the minimum steady-state level for the output to
	// count as switched. Zero means the default.
	SignalFloor float64
}

func (s Scenario) fraction() float64 {
	if s.ResponseFraction <= 0 {
		return DefaultResponseFraction
	}
	return s.ResponseFraction
}

// Run executes the scenario on a fresh model. setup, when non-nil, is
// applied to the handle before the first phase (sweeps use it to plant
// the varied parameter).
func (s Scenario) Run(ctx context.Context, setup func(*kinet.Model) error, opts ...kinet.Option) (*kinet.Series, error) {
	m, err := s.NewModel(opts...)
	if err != nil {
		return nil, err
	}
	if setup != nil {
		if err := setup(m); err != nil {
			return nil, err
		}
	}
	return phase.Run(ctx, m, s.Phases)
}

// ResponseTime runs the scenario and reduces it to the response-time
// metric of the designated output channel.
func (s Scenario) ResponseTime(ctx context.Context, setup func(*kinet.Model) error, opts ...kinet.Option) (ResponseTime, error) {
	series, err := s.Run(ctx, setup, opts...)
	if err != nil {
		return ResponseTime{}, err
	}
	return MeasureResponse(series, s.Output, s.fraction(), s.SignalFloor)
}

func setParam(name string, value float64) func(*kinet.Model) error {
	return func(m *kinet.Model) error {
		if err := m.Set(name, value); err != nil {
			if errors.Is(err, kinet.ErrUnknownName) {
				return &kinet.ConfigError{Phase: 0, Name: name, Cause: kinet.ErrUnknownName}
			}
			return err
		}
		return nil
	}
}
