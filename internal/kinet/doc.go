// Package kinet provides core primitives for chemical-kinetics simulation.
//
// The package defines the fundamental contracts for integrating a fixed
// reaction network over time:
//
//   - [Conc]: vector of species concentrations
//   - [Network]: interface for reaction networks (dC/dt = v(C, t))
//   - [Stepper]: numerical integrator interface
//   - [Model]: stateful handle over one network (get/set by name, advance)
//   - [Series]: time-indexed concentration trajectories
//
// # Example
//
//	net := network.NewCascade()
//	m := kinet.NewModel(net, integrators.NewRK4())
//	seg, _ := m.Advance(ctx, 0, 10, 100)
//
// # Thread Safety
//
// Model instances are NOT thread-safe. Parallel analyses must construct
// one fresh handle per goroutine.
package kinet
