package harness

import (
	"context"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// StochasticOptions controls the repeated-noisy-trials operation.
type StochasticOptions struct {
	Trials  int
	Seed    int64   // base seed; trial i uses Seed+i
	Sigma   float64 // noise amplitude; 0 disables injection
	Workers int     // max concurrent trials; <=0 means 4
}

// TrialStats summarizes response times across noisy trials. Undefined
// runs are counted but excluded from the moments.
type TrialStats struct {
	Mean      float64
	Stdev     float64
	Min       float64
	Max       float64
	Trials    int
	Undefined int
}

// Stochastic runs the scenario Trials times with independent seeded noise
// and aggregates the response-time metric. Trials are embarrassingly
// parallel: each owns a fresh model handle and its own generator, so the
// fan-out shares no mutable state. Results are reproducible for a given
// base seed regardless of worker count.
func Stochastic(ctx context.Context, sc Scenario, opts StochasticOptions) (TrialStats, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	responses := make([]ResponseTime, opts.Trials)
	errs := make([]error, opts.Trials)
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := 0; i < opts.Trials; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rng := rand.New(rand.NewSource(opts.Seed + int64(idx)))
			responses[idx], errs[idx] = sc.ResponseTime(ctx, nil, kinet.WithNoise(opts.Sigma, rng))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return TrialStats{}, err
		}
	}

	defined := make([]float64, 0, opts.Trials)
	undefined := 0
	for _, r := range responses {
		if r.Defined {
			defined = append(defined, r.Seconds)
		} else {
			undefined++
		}
	}

	stats := TrialStats{Trials: opts.Trials, Undefined: undefined}
	if len(defined) == 0 {
		return stats, nil
	}

	stats.Mean = stat.Mean(defined, nil)
	if len(defined) > 1 {
		stats.Stdev = stat.StdDev(defined, nil)
	}
	stats.Min, stats.Max = defined[0], defined[0]
	for _, v := range defined[1:] {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	return stats, nil
}
