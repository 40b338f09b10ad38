package kinet

import (
	"math"
	"testing"
)

func twoChannel(samples [][3]float64) *Series {
	s := NewSeries([]string{"a", "b"})
	for _, row := range samples {
		s.Add(row[0], []float64{row[1], row[2]})
	}
	return s
}

func TestAppendSegmentDropsBoundaryDuplicate(t *testing.T) {
	s := twoChannel([][3]float64{{0, 1, 10}, {1, 2, 20}})
	seg := twoChannel([][3]float64{{1, 2, 20}, {2, 3, 30}, {3, 4, 40}})

	if err := s.AppendSegment(seg); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if s.Len() != 4 {
		t.Fatalf("expected 4 samples after stitch, got %d", s.Len())
	}
	for i := 1; i < s.Len(); i++ {
		if s.Times[i] <= s.Times[i-1] {
			t.Errorf("times not strictly increasing at %d: %.4f <= %.4f", i, s.Times[i], s.Times[i-1])
		}
	}
	if got := s.End(); got != 3 {
		t.Errorf("expected end time 3, got %.4f", got)
	}
}

func TestAppendSegmentBoundaryRowFromSegment(t *testing.T) {
	s := twoChannel([][3]float64{{0, 0, 0}, {1, 1, 10}})
	seg := twoChannel([][3]float64{{1, 5, 50}, {2, 6, 60}})

	if err := s.AppendSegment(seg); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("expected 3 samples after stitch, got %d", s.Len())
	}

	// The boundary row carries the segment's values, not the inherited ones.
	for _, tc := range []struct {
		channel string
		want    float64
	}{
		{"a", 5},
		{"b", 50},
	} {
		got, ok := s.ValueAt(tc.channel, 1)
		if !ok {
			t.Fatalf("no value for %q at boundary", tc.channel)
		}
		if got != tc.want {
			t.Errorf("boundary %s = %.4f, want %.4f", tc.channel, got, tc.want)
		}
	}
}

func TestAppendSegmentRejectsBackwardStart(t *testing.T) {
	s := twoChannel([][3]float64{{0, 1, 10}, {2, 2, 20}})
	seg := twoChannel([][3]float64{{1, 0, 0}, {3, 0, 0}})

	if err := s.AppendSegment(seg); err == nil {
		t.Error("expected error for segment starting before series end, got nil")
	}
}

func TestAppendSegmentRejectsChannelMismatch(t *testing.T) {
	s := twoChannel([][3]float64{{0, 1, 10}})
	seg := NewSeries([]string{"a"})
	seg.Add(0, []float64{1})

	if err := s.AppendSegment(seg); err == nil {
		t.Error("expected error for channel mismatch, got nil")
	}
}

func TestValueAtInterpolates(t *testing.T) {
	s := twoChannel([][3]float64{{0, 0, 1}, {2, 4, 3}})

	tests := []struct {
		name string
		t    float64
		want float64
		ok   bool
	}{
		{"left endpoint", 0, 0, true},
		{"midpoint", 1, 2, true},
		{"right endpoint", 2, 4, true},
		{"before start", -0.5, 0, false},
		{"after end", 2.5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.ValueAt("a", tt.t)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("value = %.6f, want %.6f", got, tt.want)
			}
		})
	}

	if _, ok := s.ValueAt("missing", 1); ok {
		t.Error("expected unknown channel to report not ok")
	}
}

func TestResample(t *testing.T) {
	s := twoChannel([][3]float64{{0, 0, 10}, {2, 4, 30}})

	out, err := s.Resample([]float64{0, 0.5, 1.5, 2})
	if err != nil {
		t.Fatalf("resample failed: %v", err)
	}
	if out.Len() != 4 {
		t.Fatalf("expected 4 samples, got %d", out.Len())
	}

	col, _ := out.Channel("a")
	want := []float64{0, 1, 3, 4}
	for i, v := range want {
		if math.Abs(col[i]-v) > 1e-12 {
			t.Errorf("sample %d = %.6f, want %.6f", i, col[i], v)
		}
	}

	if _, err := s.Resample([]float64{5}); err == nil {
		t.Error("expected error for time outside series, got nil")
	}
}
