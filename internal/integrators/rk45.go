package integrators

import (
	"math"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// Dormand-Prince tableau.
var dp = struct {
	a2, a3, a4, a5                               float64
	b21                                          float64
	b31, b32                                     float64
	b41, b42, b43                                float64
	b51, b52, b53, b54                           float64
	b61, b62, b63, b64, b65                      float64
	c1, c3, c4, c5, c6                           float64
	e1, e3, e4, e5, e6, e7                       float64
}{
	a2: 1.0 / 5.0, a3: 3.0 / 10.0, a4: 4.0 / 5.0, a5: 8.0 / 9.0,
	b21: 1.0 / 5.0,
	b31: 3.0 / 40.0, b32: 9.0 / 40.0,
	b41: 44.0 / 45.0, b42: -56.0 / 15.0, b43: 32.0 / 9.0,
	b51: 19372.0 / 6561.0, b52: -25360.0 / 2187.0, b53: 64448.0 / 6561.0, b54: -212.0 / 729.0,
	b61: 9017.0 / 3168.0, b62: -355.0 / 33.0, b63: 46732.0 / 5247.0, b64: 49.0 / 176.0, b65: -5103.0 / 18656.0,
	c1: 35.0 / 384.0, c3: 500.0 / 1113.0, c4: 125.0 / 192.0, c5: -2187.0 / 6784.0, c6: 11.0 / 84.0,
	e1: 35.0/384.0 - 5179.0/57600.0,
	e3: 500.0/1113.0 - 7571.0/16695.0,
	e4: 125.0/192.0 - 393.0/640.0,
	e5: -2187.0/6784.0 + 92097.0/339200.0,
	e6: 11.0/84.0 - 187.0/2100.0,
	e7: -1.0 / 40.0,
}

// RK45 is an adaptive Dormand-Prince 4(5) stepper. Step integrates one
// fixed interval; StepAdaptive additionally proposes the next step size
// from the embedded error estimate.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{safety: 0.9, minScale: 0.2, maxScale: 10.0}
}

func (r *RK45) Step(net kinet.Network, c kinet.Conc, t, dt float64) kinet.Conc {
	next, _, _ := r.StepAdaptive(net, c, t, dt, 1e-6)
	return next
}

func (r *RK45) StepAdaptive(net kinet.Network, c kinet.Conc, t, dt, tol float64) (kinet.Conc, float64, error) {
	n := len(c)
	stage := func(coeffs []float64, ks []kinet.Conc) kinet.Conc {
		out := make(kinet.Conc, n)
		for i := 0; i < n; i++ {
			acc := 0.0
			for j, b := range coeffs {
				acc += b * ks[j][i]
			}
			out[i] = c[i] + dt*acc
		}
		return out
	}

	k1 := net.Rates(c, t)
	k2 := net.Rates(stage([]float64{dp.b21}, []kinet.Conc{k1}), t+dp.a2*dt)
	k3 := net.Rates(stage([]float64{dp.b31, dp.b32}, []kinet.Conc{k1, k2}), t+dp.a3*dt)
	k4 := net.Rates(stage([]float64{dp.b41, dp.b42, dp.b43}, []kinet.Conc{k1, k2, k3}), t+dp.a4*dt)
	k5 := net.Rates(stage([]float64{dp.b51, dp.b52, dp.b53, dp.b54}, []kinet.Conc{k1, k2, k3, k4}), t+dp.a5*dt)
	k6 := net.Rates(stage([]float64{dp.b61, dp.b62, dp.b63, dp.b64, dp.b65}, []kinet.Conc{k1, k2, k3, k4, k5}), t+dt)

	next := make(kinet.Conc, n)
	for i := 0; i < n; i++ {
		next[i] = c[i] + dt*(dp.c1*k1[i]+dp.c3*k3[i]+dp.c4*k4[i]+dp.c5*k5[i]+dp.c6*k6[i])
	}
	k7 := net.Rates(next, t+dt)

	errMax := 0.0
	for i := 0; i < n; i++ {
		est := dt * (dp.e1*k1[i] + dp.e3*k3[i] + dp.e4*k4[i] + dp.e5*k5[i] + dp.e6*k6[i] + dp.e7*k7[i])
		scale := math.Abs(c[i]) + math.Abs(dt*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(est)/scale)
	}

	ratio := errMax / tol
	var dtNext float64
	switch {
	case ratio > 1:
		dtNext = dt * math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		dtNext = dt * math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		dtNext = dt * r.maxScale
	}

	return next, dtNext, nil
}
