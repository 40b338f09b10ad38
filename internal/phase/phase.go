// Package phase drives a model through an ordered sequence of time
// windows, stitching the per-phase segments into one continuous series.
//
// The point of the scheduler is state continuity: the concentrations at
// the end of phase i are exactly the initial concentrations of phase i+1.
// The model handle is never reset between phases; only the phase's
// overrides (normally the req_in level) change at the boundary.
package phase

import (
	"context"
	"errors"
	"fmt"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// Phase is one window of the scenario: a contiguous time span, a sample
// count and the overrides applied to the model before integrating.
type Phase struct {
	Start     float64
	End       float64
	Points    int
	Overrides map[string]float64
}

func (p Phase) Duration() float64 { return p.End - p.Start }

// Validate checks a schedule against a model before any integration work:
// windows must be non-empty with at least two samples, the time axis must
// be contiguous, and every override must name a known species or
// parameter. Caller mistakes surface as ConfigError naming the phase.
func Validate(m *kinet.Model, phases []Phase) error {
	if len(phases) == 0 {
		return &kinet.ConfigError{Phase: 0, Cause: errors.New("empty schedule")}
	}
	for i, p := range phases {
		if p.End <= p.Start {
			return &kinet.ConfigError{Phase: i, Cause: fmt.Errorf("end %.4f not after start %.4f", p.End, p.Start)}
		}
		if p.Points < 2 {
			return &kinet.ConfigError{Phase: i, Cause: fmt.Errorf("need at least 2 samples, got %d", p.Points)}
		}
		if i > 0 && p.Start != phases[i-1].End {
			return &kinet.ConfigError{Phase: i, Cause: fmt.Errorf("starts at %.4f, previous phase ends at %.4f", p.Start, phases[i-1].End)}
		}
		for name := range p.Overrides {
			if !m.Knows(name) {
				return &kinet.ConfigError{Phase: i, Name: name, Cause: kinet.ErrUnknownName}
			}
		}
	}
	return nil
}

// Run executes the schedule against the model and returns the stitched
// series covering [phases[0].Start, phases[last].End]. The boundary
// sample between two phases is emitted once and belongs to the phase
// that starts there, so its overrides are what the sample records.
//
// On divergence the error carries the phase index and the stitched
// trajectory up to the last valid time; the partial series is also
// returned so callers can inspect it.
func Run(ctx context.Context, m *kinet.Model, phases []Phase) (*kinet.Series, error) {
	if err := Validate(m, phases); err != nil {
		return nil, err
	}

	out := kinet.NewSeries(m.Species())

	for i, p := range phases {
		for name, value := range p.Overrides {
			if err := m.Set(name, value); err != nil {
				return out, &kinet.ConfigError{Phase: i, Name: name, Cause: err}
			}
		}

		seg, err := m.Advance(ctx, p.Start, p.End, p.Points)
		if seg != nil {
			if stitchErr := out.AppendSegment(seg); stitchErr != nil {
				return out, fmt.Errorf("phase %d: %w", i, stitchErr)
			}
		}
		if err != nil {
			var div *kinet.DivergedError
			if errors.As(err, &div) {
				div.Phase = i
				div.Partial = out
				return out, div
			}
			return out, fmt.Errorf("phase %d: %w", i, err)
		}
	}

	return out, nil
}
