package integrators

import (
	"fmt"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Step(net kinet.Network, c kinet.Conc, t, dt float64) kinet.Conc {
	v := net.Rates(c, t)
	next := make(kinet.Conc, len(c))
	for i := range c {
		next[i] = c[i] + dt*v[i]
	}
	return next
}

// New builds a stepper by name. Names are the ones accepted in config
// files and on the command line.
func New(name string) (kinet.Stepper, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	default:
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
}
