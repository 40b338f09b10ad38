package harness

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

// DefaultCheckpoints is the number of shared grid points used when
// aligning two series for comparison.
const DefaultCheckpoints = 200

// ChannelComparison holds the agreement metrics for one shared channel.
// CorrelationOK is false when a constant channel leaves the Pearson
// correlation undefined; consumers must branch on it instead of reading
// Correlation.
type ChannelComparison struct {
	RMS           float64
	Correlation   float64
	CorrelationOK bool
	MaxDiff       float64
}

// correlation scores two resampled channels. Pearson correlation is
// undefined for constant channels, except that two constant channels at
// the same level agree perfectly.
func correlation(xs, ys []float64) (float64, bool) {
	constX := stat.Variance(xs, nil) == 0
	constY := stat.Variance(ys, nil) == 0
	switch {
	case constX && constY:
		if xs[0] == ys[0] {
			return 1, true
		}
		return 0, false
	case constX || constY:
		return 0, false
	}
	return stat.Correlation(xs, ys, nil), true
}

// Compare aligns two independently produced series onto a common time
// grid and scores every shared channel. The series may come from
// different steppers, networks or sample grids; only the overlapping time
// window is scored. All three metrics are symmetric in their arguments.
func Compare(a, b *kinet.Series, checkpoints int) (map[string]ChannelComparison, error) {
	if checkpoints < 2 {
		checkpoints = DefaultCheckpoints
	}

	shared := make([]string, 0)
	for _, name := range a.Names() {
		if b.HasChannel(name) {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	if len(shared) == 0 {
		return nil, &kinet.ComparisonError{Reason: "no shared output channels"}
	}

	t0 := math.Max(a.Start(), b.Start())
	t1 := math.Min(a.End(), b.End())
	if t1 <= t0 || a.Len() == 0 || b.Len() == 0 {
		return nil, &kinet.ComparisonError{Reason: "no overlapping time range"}
	}

	grid := make([]float64, checkpoints)
	step := (t1 - t0) / float64(checkpoints-1)
	for i := range grid {
		grid[i] = t0 + float64(i)*step
	}
	grid[checkpoints-1] = t1

	out := make(map[string]ChannelComparison, len(shared))
	for _, name := range shared {
		xs := make([]float64, checkpoints)
		ys := make([]float64, checkpoints)
		for i, t := range grid {
			xs[i], _ = a.ValueAt(name, t)
			ys[i], _ = b.ValueAt(name, t)
		}

		var sq, maxDiff float64
		for i := range xs {
			d := xs[i] - ys[i]
			sq += d * d
			if ad := math.Abs(d); ad > maxDiff {
				maxDiff = ad
			}
		}

		cc := ChannelComparison{
			RMS:     math.Sqrt(sq / float64(checkpoints)),
			MaxDiff: maxDiff,
		}
		cc.Correlation, cc.CorrelationOK = correlation(xs, ys)
		out[name] = cc
	}
	return out, nil
}
