package harness

import (
	"context"
	"fmt"
)

// RobustnessRow reports how the response time reacts to perturbing one
// parameter by ±pct% around its nominal value. Sensitivity is the
// relative change in response per relative change in the parameter;
// SensitivityOK is false when either perturbed run was undefined.
type RobustnessRow struct {
	Param         string
	NominalValue  float64
	Plus          ResponseTime
	Minus         ResponseTime
	Sensitivity   float64
	SensitivityOK bool
}

// RobustnessReport holds the shared nominal run and one row per
// perturbed parameter.
type RobustnessReport struct {
	Nominal ResponseTime
	Rows    []RobustnessRow
}

// Robustness perturbs each listed parameter by ±pct% and reruns the
// scenario. The nominal run is computed once and reused for every row.
func Robustness(ctx context.Context, sc Scenario, params []string, pct float64) (*RobustnessReport, error) {
	nominal, err := sc.ResponseTime(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("robustness nominal run: %w", err)
	}

	probe, err := sc.NewModel()
	if err != nil {
		return nil, err
	}

	report := &RobustnessReport{Nominal: nominal, Rows: make([]RobustnessRow, 0, len(params))}

	for _, name := range params {
		nomVal, err := probe.Get(name)
		if err != nil {
			return report, fmt.Errorf("robustness %q: %w", name, err)
		}

		plus, err := sc.ResponseTime(ctx, setParam(name, nomVal*(1+pct/100)))
		if err != nil {
			return report, fmt.Errorf("robustness %s +%.0f%%: %w", name, pct, err)
		}
		minus, err := sc.ResponseTime(ctx, setParam(name, nomVal*(1-pct/100)))
		if err != nil {
			return report, fmt.Errorf("robustness %s -%.0f%%: %w", name, pct, err)
		}

		row := RobustnessRow{Param: name, NominalValue: nomVal, Plus: plus, Minus: minus}
		if plus.Defined && minus.Defined && nominal.Defined {
			delta := plus.Seconds - minus.Seconds
			if delta == 0 {
				// Includes the pct=0 case: no perturbation, no sensitivity.
				row.Sensitivity = 0
				row.SensitivityOK = true
			} else if pct > 0 && nominal.Seconds > 0 {
				row.Sensitivity = (delta / nominal.Seconds) / (2 * pct / 100)
				row.SensitivityOK = true
			}
		}
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}
