// Package harness layers parameter-sweep and statistics operations on
// top of the phase scheduler.
//
// Every operation shares one shape: vary something, run the phased
// scenario against a fresh model handle, reduce the trajectory to scalar
// metrics. Sweep points are independent (each starts from the network's
// static initial conditions), unlike phases within one run.
//
//   - [Sweep]: deterministic one-parameter sensitivity sweep
//   - [Stochastic]: repeated noisy trials with per-trial seeds
//   - [Robustness]: ±pct parameter perturbation against one nominal run
//   - [Bifurcation]: settling classification across a sweep
//   - [Compare]: RMS / correlation / max-difference between two series
package harness
