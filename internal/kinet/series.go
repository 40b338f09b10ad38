package kinet

import "fmt"

// timeEps is the tolerance used when matching timestamps at segment
// boundaries.
const timeEps = 1e-9

// Series holds a concentration trajectory: strictly increasing times and
// one column per species. Segments produced phase by phase are stitched
// with AppendSegment; the combined series owns its data.
type Series struct {
	Times []float64

	names []string
	index map[string]int
	cols  [][]float64
}

func NewSeries(names []string) *Series {
	s := &Series{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		cols:  make([][]float64, len(names)),
	}
	for i, n := range names {
		s.index[n] = i
	}
	return s
}

func (s *Series) Names() []string { return s.names }
func (s *Series) Len() int        { return len(s.Times) }

func (s *Series) Start() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	return s.Times[0]
}

func (s *Series) End() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	return s.Times[len(s.Times)-1]
}

// Add appends one sample. vals must be ordered like Names().
func (s *Series) Add(t float64, vals []float64) {
	s.Times = append(s.Times, t)
	for i := range s.cols {
		s.cols[i] = append(s.cols[i], vals[i])
	}
}

func (s *Series) HasChannel(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Channel returns the column for one species.
func (s *Series) Channel(name string) ([]float64, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.cols[i], true
}

// At returns the sample at position i as a name-ordered vector.
func (s *Series) At(i int) []float64 {
	row := make([]float64, len(s.cols))
	for j := range s.cols {
		row[j] = s.cols[j][i]
	}
	return row
}

// AppendSegment stitches seg onto the end of s. When seg starts on the
// timestamp s ends on, the shared boundary sample is emitted once and
// taken from seg: the accumulated trailing row is replaced by the
// segment's first row.
func (s *Series) AppendSegment(seg *Series) error {
	if len(seg.names) != len(s.names) {
		return fmt.Errorf("segment has %d channels, want %d", len(seg.names), len(s.names))
	}
	for i, n := range s.names {
		if seg.names[i] != n {
			return fmt.Errorf("segment channel %d is %q, want %q", i, seg.names[i], n)
		}
	}

	start := 0
	if len(s.Times) > 0 && len(seg.Times) > 0 {
		last := s.Times[len(s.Times)-1]
		if diff := seg.Times[0] - last; diff < -timeEps {
			return fmt.Errorf("segment starts at t=%.6f before series end t=%.6f", seg.Times[0], last)
		} else if diff <= timeEps {
			// The boundary row belongs to the segment that starts there,
			// so values set at the boundary are the ones recorded.
			n := len(s.Times) - 1
			s.Times[n] = seg.Times[0]
			for j := range s.cols {
				s.cols[j][n] = seg.cols[j][0]
			}
			start = 1
		}
	}

	for i := start; i < len(seg.Times); i++ {
		s.Times = append(s.Times, seg.Times[i])
		for j := range s.cols {
			s.cols[j] = append(s.cols[j], seg.cols[j][i])
		}
	}
	return nil
}

// ValueAt linearly interpolates one channel at time t. The second return
// is false when the channel is unknown or t falls outside the series.
func (s *Series) ValueAt(name string, t float64) (float64, bool) {
	col, ok := s.Channel(name)
	if !ok || len(s.Times) == 0 {
		return 0, false
	}
	if t < s.Times[0]-timeEps || t > s.Times[len(s.Times)-1]+timeEps {
		return 0, false
	}

	// Binary search for the bracketing interval.
	lo, hi := 0, len(s.Times)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.Times[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}

	t0, t1 := s.Times[lo], s.Times[hi]
	if t1 == t0 || t <= t0 {
		return col[lo], true
	}
	frac := (t - t0) / (t1 - t0)
	return col[lo] + frac*(col[hi]-col[lo]), true
}

// Resample builds a new series with the same channels evaluated at the
// given times by linear interpolation. Times must lie inside the series.
func (s *Series) Resample(times []float64) (*Series, error) {
	out := NewSeries(s.names)
	row := make([]float64, len(s.names))
	for _, t := range times {
		for i, n := range s.names {
			v, ok := s.ValueAt(n, t)
			if !ok {
				return nil, fmt.Errorf("t=%.6f outside series [%.6f, %.6f]", t, s.Start(), s.End())
			}
			row[i] = v
		}
		out.Add(t, row)
	}
	return out, nil
}
