package integrators

import "github.com/lfelipessoa/kinsim/internal/kinet"

// RK4 is the classic fourth-order Runge-Kutta stepper, the default for
// deterministic time courses.
type RK4 struct{}

func NewRK4() *RK4 { return &RK4{} }

func (r *RK4) Step(net kinet.Network, c kinet.Conc, t, dt float64) kinet.Conc {
	n := len(c)

	k1 := net.Rates(c, t)
	k2 := net.Rates(shifted(c, k1, dt*0.5), t+dt*0.5)
	k3 := net.Rates(shifted(c, k2, dt*0.5), t+dt*0.5)
	k4 := net.Rates(shifted(c, k3, dt), t+dt)

	next := make(kinet.Conc, n)
	w := dt / 6.0
	for i := 0; i < n; i++ {
		next[i] = c[i] + w*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}

// shifted returns c + h*v.
func shifted(c, v kinet.Conc, h float64) kinet.Conc {
	out := make(kinet.Conc, len(c))
	for i := range c {
		out[i] = c[i] + h*v[i]
	}
	return out
}
