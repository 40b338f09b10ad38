package kinet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Model is a stateful handle over one reaction network: it owns the live
// concentrations, exposes species and kinetic parameters by name, and
// advances the state in place. The phase scheduler and every analysis in
// the harness depend only on this handle, not on a concrete backend.
type Model struct {
	net     Network
	stepper Stepper
	tunable Tunable // nil when the network has fixed constants

	conc    Conc
	species map[string]int

	sigma    float64
	rng      *rand.Rand
	observer func(t float64, c Conc)
}

type Option func(*Model)

// WithNoise injects seeded Gaussian perturbations into every integration
// step. The generator is owned by this handle; independent trials must
// each pass their own.
func WithNoise(sigma float64, rng *rand.Rand) Option {
	return func(m *Model) {
		m.sigma = sigma
		m.rng = rng
	}
}

// WithObserver registers a callback invoked once per recorded sample.
func WithObserver(fn func(t float64, c Conc)) Option {
	return func(m *Model) { m.observer = fn }
}

func NewModel(net Network, stepper Stepper, opts ...Option) *Model {
	m := &Model{
		net:     net,
		stepper: stepper,
		conc:    net.InitialConc().Clone(),
		species: make(map[string]int),
	}
	for i, name := range net.Species() {
		m.species[name] = i
	}
	if t, ok := net.(Tunable); ok {
		m.tunable = t
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Network() Network  { return m.net }
func (m *Model) Species() []string { return m.net.Species() }

// Knows reports whether name is a species or kinetic parameter of the
// underlying network. Schedules validate overrides with this before any
// integration work starts.
func (m *Model) Knows(name string) bool {
	if _, ok := m.species[name]; ok {
		return true
	}
	if m.tunable != nil {
		_, ok := m.tunable.Params()[name]
		return ok
	}
	return false
}

func (m *Model) Get(name string) (float64, error) {
	if i, ok := m.species[name]; ok {
		return m.conc[i], nil
	}
	if m.tunable != nil {
		if v, ok := m.tunable.Params()[name]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("get %q: %w", name, ErrUnknownName)
}

func (m *Model) Set(name string, value float64) error {
	if i, ok := m.species[name]; ok {
		m.conc[i] = value
		return nil
	}
	if m.tunable != nil {
		if err := m.tunable.SetParam(name, value); err == nil {
			return nil
		} else if !errors.Is(err, ErrUnknownName) {
			return err
		}
	}
	return fmt.Errorf("set %q: %w", name, ErrUnknownName)
}

// Reset restores the network's static initial conditions. Kinetic
// parameters keep their current values.
func (m *Model) Reset() {
	m.conc = m.net.InitialConc().Clone()
}

// Advance integrates from t0 to t1 at points samples, inclusive of both
// endpoints, mutating the handle's state. The returned segment holds one
// row per sample. A context deadline surfaces as TimeoutError and NaN/Inf
// state as DivergedError; both carry the trajectory up to the last valid
// time.
func (m *Model) Advance(ctx context.Context, t0, t1 float64, points int) (*Series, error) {
	if points < 2 || t1 <= t0 {
		return nil, fmt.Errorf("advance [%.4f, %.4f] with %d points: %w", t0, t1, points, ErrBadSpan)
	}

	seg := NewSeries(m.net.Species())
	seg.Add(t0, m.conc)

	dt := (t1 - t0) / float64(points-1)
	t := t0

	for i := 1; i < points; i++ {
		select {
		case <-ctx.Done():
			return seg, &TimeoutError{LastTime: t, Cause: ctx.Err()}
		default:
		}

		next := m.stepper.Step(m.net, m.conc, t, dt)
		if m.sigma > 0 && m.rng != nil {
			amp := m.sigma * math.Sqrt(dt)
			for j := range next {
				next[j] += amp * m.rng.NormFloat64()
			}
		}
		if b, ok := m.net.(Bounded); ok {
			b.Clamp(next)
		}

		if !next.IsValid() {
			return seg, &DivergedError{LastTime: t, Partial: seg}
		}

		m.conc = next
		if i == points-1 {
			t = t1 // avoid accumulated rounding on the final sample
		} else {
			t = t0 + float64(i)*dt
		}

		seg.Add(t, m.conc)
		if m.observer != nil {
			m.observer(t, m.conc)
		}
	}

	return seg, nil
}
