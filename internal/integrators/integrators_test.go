package integrators

import (
	"math"
	"testing"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// oscillator is the harmonic test system x'' = -x with known solution
// x(t) = cos(t).
type oscillator struct{}

func (oscillator) Rates(c kinet.Conc, _ float64) kinet.Conc { return kinet.Conc{c[1], -c[0]} }
func (oscillator) Species() []string                        { return []string{"x", "v"} }
func (oscillator) InitialConc() kinet.Conc                  { return kinet.Conc{1, 0} }

type decay struct{}

func (decay) Rates(c kinet.Conc, _ float64) kinet.Conc { return kinet.Conc{-c[0]} }
func (decay) Species() []string                        { return []string{"x"} }
func (decay) InitialConc() kinet.Conc                  { return kinet.Conc{1} }

func integrate(s kinet.Stepper, net kinet.Network, steps int, dt float64) kinet.Conc {
	c := net.InitialConc().Clone()
	for i := 0; i < steps; i++ {
		c = s.Step(net, c, float64(i)*dt, dt)
	}
	return c
}

func TestEulerConvergence(t *testing.T) {
	c := integrate(NewEuler(), decay{}, 1000, 0.001)

	want := math.Exp(-1)
	if math.Abs(c[0]-want) > 1e-3 {
		t.Errorf("final state = %.6f, want ~%.6f", c[0], want)
	}
}

func TestRK4Accuracy(t *testing.T) {
	c := integrate(NewRK4(), oscillator{}, 100, 0.01)

	wantX := math.Cos(1.0)
	wantV := -math.Sin(1.0)

	if math.Abs(c[0]-wantX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", c[0], wantX)
	}
	if math.Abs(c[1]-wantV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", c[1], wantV)
	}
}

func TestRK45Accuracy(t *testing.T) {
	c := integrate(NewRK45(), oscillator{}, 100, 0.01)

	wantX := math.Cos(1.0)
	if math.Abs(c[0]-wantX) > 1e-6 {
		t.Errorf("position error too large: got %.8f, expected %.8f", c[0], wantX)
	}
}

func TestRK45AdaptiveStepControl(t *testing.T) {
	r := NewRK45()
	c := oscillator{}.InitialConc()

	// Tight tolerance on a coarse step: the controller must shrink.
	_, dtNext, err := r.StepAdaptive(oscillator{}, c, 0, 0.5, 1e-14)
	if err != nil {
		t.Fatalf("adaptive step failed: %v", err)
	}
	if dtNext >= 0.5 {
		t.Errorf("expected step to shrink under tight tolerance, got %.6f", dtNext)
	}

	// Loose tolerance on a fine step: the controller must grow.
	_, dtNext, err = r.StepAdaptive(oscillator{}, c, 0, 1e-3, 1e-2)
	if err != nil {
		t.Fatalf("adaptive step failed: %v", err)
	}
	if dtNext <= 1e-3 {
		t.Errorf("expected step to grow under loose tolerance, got %.6f", dtNext)
	}
}

func TestNewFactory(t *testing.T) {
	for _, name := range []string{"euler", "rk4", "rk45"} {
		if _, err := New(name); err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
		}
	}
	if _, err := New("bogus"); err == nil {
		t.Error("expected error for unknown stepper, got nil")
	}
}
