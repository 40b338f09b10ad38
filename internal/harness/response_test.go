package harness

import (
	"errors"
	"math"
	"testing"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

func risingSeries(t0 float64, vals []float64) *kinet.Series {
	s := kinet.NewSeries([]string{"out"})
	for i, v := range vals {
		s.Add(t0+float64(i), []float64{v})
	}
	return s
}

func TestMeasureResponse(t *testing.T) {
	tests := []struct {
		name     string
		t0       float64
		vals     []float64
		fraction float64
		want     float64
		defined  bool
	}{
		{"rising trace", 0, []float64{0, 0.2, 0.5, 0.8, 1.0}, 0.5, 2, true},
		{"offset start time", 10, []float64{0, 0.2, 0.5, 0.8, 1.0}, 0.5, 2, true},
		{"higher fraction", 0, []float64{0, 0.2, 0.5, 0.8, 1.0}, 0.9, 4, true},
		{"never switches", 0, []float64{0, 0.01, 0.02, 0.02, 0.02}, 0.5, 0, false},
		{"switches at once", 0, []float64{1, 1, 1}, 0.5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := MeasureResponse(risingSeries(tt.t0, tt.vals), "out", tt.fraction, 0)
			if err != nil {
				t.Fatalf("measure failed: %v", err)
			}
			if rt.Defined != tt.defined {
				t.Fatalf("Defined = %v, want %v", rt.Defined, tt.defined)
			}
			if rt.Defined && math.Abs(rt.Seconds-tt.want) > 1e-12 {
				t.Errorf("Seconds = %.4f, want %.4f", rt.Seconds, tt.want)
			}
		})
	}
}

func TestMeasureResponseConfiguredFloor(t *testing.T) {
	// Steady state 0.04: below the default floor, above a configured one.
	s := risingSeries(0, []float64{0, 0.01, 0.02, 0.03, 0.04})

	rt, err := MeasureResponse(s, "out", 0.5, 0)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if rt.Defined {
		t.Error("expected undefined response under the default floor")
	}

	rt, err = MeasureResponse(s, "out", 0.5, 0.02)
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	if !rt.Defined {
		t.Fatal("expected defined response with a lowered floor")
	}
	if rt.Seconds != 2 {
		t.Errorf("Seconds = %.4f, want 2", rt.Seconds)
	}
}

func TestMeasureResponseUnknownChannel(t *testing.T) {
	s := risingSeries(0, []float64{0, 1})
	if _, err := MeasureResponse(s, "bogus", 0.5, 0); !errors.Is(err, kinet.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}

func TestSteadyState(t *testing.T) {
	s := risingSeries(0, []float64{0, 0.4, 0.7})

	got, err := SteadyState(s, "out")
	if err != nil {
		t.Fatalf("steady state failed: %v", err)
	}
	if got != 0.7 {
		t.Errorf("steady state = %.4f, want 0.7", got)
	}

	if _, err := SteadyState(s, "bogus"); err == nil {
		t.Error("expected error for unknown channel, got nil")
	}
}
