package harness_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lfelipessoa/kinsim/internal/harness"
	"github.com/lfelipessoa/kinsim/internal/integrators"
	"github.com/lfelipessoa/kinsim/internal/kinet"
	"github.com/lfelipessoa/kinsim/internal/network"
	"github.com/lfelipessoa/kinsim/internal/phase"
)

// stepScenario holds req_in high from t=0 on the cascade, the schedule
// every scalar analysis here runs against.
func stepScenario(stepperName string) harness.Scenario {
	return harness.Scenario{
		NewModel: func(opts ...kinet.Option) (*kinet.Model, error) {
			net, err := network.New("cascade")
			if err != nil {
				return nil, err
			}
			stepper, err := integrators.New(stepperName)
			if err != nil {
				return nil, err
			}
			return kinet.NewModel(net, stepper, opts...), nil
		},
		Phases: []phase.Phase{
			{Start: 0, End: 10, Points: 120, Overrides: map[string]float64{"req_in": 1}},
		},
		Output: "req_out",
	}
}

var _ = Describe("Sweep", func() {
	It("preserves input order and reports per-channel extrema", func() {
		sc := stepScenario("rk4")
		values := []float64{1, 2, 3}

		points, err := harness.Sweep(context.Background(), sc, "k_mrna_req_prod", values, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(3))

		for i, pt := range points {
			Expect(pt.Input).To(Equal(values[i]))
			Expect(pt.Max["req_out"]).To(BeNumerically(">=", pt.Steady["req_out"]))
		}

		// More transcription means more request protein at steady state.
		Expect(points[1].Steady["req_out"]).To(BeNumerically(">", points[0].Steady["req_out"]))
		Expect(points[2].Steady["req_out"]).To(BeNumerically(">", points[1].Steady["req_out"]))
	})
})

var _ = Describe("Stochastic", func() {
	opts := harness.StochasticOptions{Trials: 6, Seed: 42, Sigma: 0.02, Workers: 2}

	It("aggregates defined trials and counts the rest", func() {
		stats, err := harness.Stochastic(context.Background(), stepScenario("rk4"), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Trials).To(Equal(6))
		Expect(stats.Undefined).To(BeNumerically("<", 6))
		Expect(stats.Mean).To(BeNumerically(">", 0))
		Expect(stats.Min).To(BeNumerically("<=", stats.Max))
	})

	It("is reproducible for a base seed regardless of worker count", func() {
		first, err := harness.Stochastic(context.Background(), stepScenario("rk4"), opts)
		Expect(err).NotTo(HaveOccurred())

		wide := opts
		wide.Workers = 5
		second, err := harness.Stochastic(context.Background(), stepScenario("rk4"), wide)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
	})
})

var _ = Describe("Robustness", func() {
	It("reports zero sensitivity for a zero perturbation", func() {
		report, err := harness.Robustness(context.Background(), stepScenario("rk4"),
			[]string{"k_req_deg", "k_req_transl"}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Nominal.Defined).To(BeTrue())
		Expect(report.Rows).To(HaveLen(2))

		for _, row := range report.Rows {
			Expect(row.SensitivityOK).To(BeTrue())
			Expect(row.Sensitivity).To(BeZero())
			Expect(row.Plus.Seconds).To(BeNumerically("~", report.Nominal.Seconds, 1e-9))
		}
	})
})

var _ = Describe("Bifurcation", func() {
	It("classifies a converging circuit as settled everywhere", func() {
		result, err := harness.Bifurcation(context.Background(), stepScenario("rk4"),
			"k_mrna_req_prod", []float64{2, 3, 4}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Points).To(HaveLen(3))

		for _, pt := range result.Points {
			Expect(pt.Amplitude).To(BeNumerically(">=", 0))
			Expect(pt.Settles).To(BeTrue())
		}
		Expect(result.Transitions).To(BeZero())
	})
})

var _ = Describe("Compare", func() {
	It("scores a trajectory against itself as a perfect match", func() {
		series, err := stepScenario("rk4").Run(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())

		cmp, err := harness.Compare(series, series, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmp).To(HaveKey("req_out"))

		for _, c := range cmp {
			Expect(c.RMS).To(BeNumerically("~", 0, 1e-12))
			Expect(c.MaxDiff).To(BeNumerically("~", 0, 1e-12))
			Expect(c.CorrelationOK).To(BeTrue())
			Expect(c.Correlation).To(BeNumerically("~", 1, 1e-9))
		}
	})

	It("handles constant channels without producing NaN", func() {
		a := kinet.NewSeries([]string{"same", "offset"})
		a.Add(0, []float64{1, 0})
		a.Add(1, []float64{1, 0})

		b := kinet.NewSeries([]string{"same", "offset"})
		b.Add(0, []float64{1, 2})
		b.Add(1, []float64{1, 2})

		cmp, err := harness.Compare(a, b, 10)
		Expect(err).NotTo(HaveOccurred())

		// Equal constant channels agree perfectly.
		Expect(cmp["same"].CorrelationOK).To(BeTrue())
		Expect(cmp["same"].Correlation).To(Equal(1.0))

		// Differing constant channels have no defined correlation.
		Expect(cmp["offset"].CorrelationOK).To(BeFalse())
		Expect(cmp["offset"].RMS).To(BeNumerically("~", 2, 1e-12))
	})

	It("is symmetric in its arguments", func() {
		a, err := stepScenario("rk4").Run(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := stepScenario("euler").Run(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())

		ab, err := harness.Compare(a, b, 100)
		Expect(err).NotTo(HaveOccurred())
		ba, err := harness.Compare(b, a, 100)
		Expect(err).NotTo(HaveOccurred())

		for name, c := range ab {
			Expect(ba[name].RMS).To(BeNumerically("~", c.RMS, 1e-12))
			Expect(ba[name].MaxDiff).To(BeNumerically("~", c.MaxDiff, 1e-12))
		}
	})

	It("rejects series without a common time range", func() {
		a := kinet.NewSeries([]string{"x"})
		a.Add(0, []float64{0})
		a.Add(1, []float64{1})

		b := kinet.NewSeries([]string{"x"})
		b.Add(5, []float64{0})
		b.Add(6, []float64{1})

		_, err := harness.Compare(a, b, 100)
		Expect(errors.Is(err, kinet.ErrNoOverlap)).To(BeTrue())
	})
})
