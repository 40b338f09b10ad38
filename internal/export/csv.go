// Package export serializes harness outputs to columnar formats for
// external plotting and reporting. Undefined metrics export as empty
// cells, never as sentinel numbers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/lfelipessoa/kinsim/internal/harness"
	"github.com/lfelipessoa/kinsim/internal/kinet"
)

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func fmtResponse(rt harness.ResponseTime) string {
	if !rt.Defined {
		return ""
	}
	return fmtF(rt.Seconds)
}

// WriteSeries writes a trajectory as CSV: a header row naming the
// species, one row per sample.
func WriteSeries(w io.Writer, s *kinet.Series) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{"time"}, s.Names()...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := 0; i < s.Len(); i++ {
		row := make([]string, 0, len(header))
		row = append(row, fmtF(s.Times[i]))
		for _, v := range s.At(i) {
			row = append(row, fmtF(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteSweep writes one row per sweep point, in sweep order.
func WriteSweep(w io.Writer, points []harness.SweepPoint, outputs []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"input"}
	for _, out := range outputs {
		header = append(header, out+"_max", out+"_steady")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, pt := range points {
		row := []string{fmtF(pt.Input)}
		for _, out := range outputs {
			row = append(row, fmtF(pt.Max[out]), fmtF(pt.Steady[out]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteRobustness writes one row per perturbed parameter.
func WriteRobustness(w io.Writer, report *harness.RobustnessReport) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{
		"parameter", "nominal_value", "nominal_response",
		"response_plus", "response_minus", "sensitivity",
	}); err != nil {
		return err
	}

	for _, row := range report.Rows {
		sens := ""
		if row.SensitivityOK {
			sens = fmtF(row.Sensitivity)
		}
		if err := cw.Write([]string{
			row.Param,
			fmtF(row.NominalValue),
			fmtResponse(report.Nominal),
			fmtResponse(row.Plus),
			fmtResponse(row.Minus),
			sens,
		}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteBifurcation writes the per-point classification; the transition
// count goes into a trailing comment-free summary row.
func WriteBifurcation(w io.Writer, result *harness.BifurcationResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"input", "steady", "amplitude", "settles"}); err != nil {
		return err
	}
	for _, pt := range result.Points {
		if err := cw.Write([]string{
			fmtF(pt.Input), fmtF(pt.Steady), fmtF(pt.Amplitude),
			strconv.FormatBool(pt.Settles),
		}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteComparison writes one row per shared channel, sorted by the
// caller's iteration (use sorted keys for stable files).
func WriteComparison(w io.Writer, channels []string, cmp map[string]harness.ChannelComparison) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"channel", "rms_error", "correlation", "max_difference"}); err != nil {
		return err
	}
	for _, name := range channels {
		c, ok := cmp[name]
		if !ok {
			return fmt.Errorf("comparison missing channel %q", name)
		}
		corr := ""
		if c.CorrelationOK {
			corr = fmtF(c.Correlation)
		}
		if err := cw.Write([]string{name, fmtF(c.RMS), corr, fmtF(c.MaxDiff)}); err != nil {
			return err
		}
	}
	return cw.Error()
}
