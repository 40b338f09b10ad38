package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/lfelipessoa/kinsim/internal/config"
	"github.com/lfelipessoa/kinsim/internal/export"
	"github.com/lfelipessoa/kinsim/internal/harness"
	"github.com/lfelipessoa/kinsim/internal/kinet"
	"github.com/lfelipessoa/kinsim/internal/optim"
	"github.com/lfelipessoa/kinsim/internal/storage"
	"github.com/lfelipessoa/kinsim/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	netName    string
	stepper    string
	output     string
	seed       int64
	timeout    float64

	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	// bifurcation
	bifParam  string
	bifMin    float64
	bifMax    float64
	bifSteps  int
	settleAmp float64

	// stochastic
	trials  int
	sigma   float64
	workers int

	// robustness
	perturbPct float64
	paramList  string

	// compare
	stepperA    string
	stepperB    string
	checkpoints int

	// plot/export
	channel string
	outFile string
	asSVG   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kinsim",
		Short: "biochemical two-phase handshake simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "scenario preset")
	rootCmd.PersistentFlags().StringVar(&netName, "network", "", "reaction network (celement, cascade)")
	rootCmd.PersistentFlags().StringVar(&stepper, "stepper", "", "integrator (euler, rk4, rk45)")
	rootCmd.PersistentFlags().StringVar(&output, "output", "", "designated output channel")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	rootCmd.PersistentFlags().Float64Var(&timeout, "timeout", 0, "per-run budget in seconds (0 = none)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the phased scenario and store the trajectory",
		RunE:  runScenario,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run the phased scenario with live traces",
		RunE:  watchScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "deterministic one-parameter sensitivity sweep",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "k_mrna_req_prod", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1.0, "sweep start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 5.0, "sweep end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "sweep points")
	sweepCmd.Flags().StringVar(&outFile, "out", "", "write CSV here instead of stdout")

	stochasticCmd := &cobra.Command{
		Use:   "stochastic",
		Short: "repeated noisy trials of the response time",
		RunE:  runStochastic,
	}
	stochasticCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	stochasticCmd.Flags().Float64Var(&sigma, "sigma", 0.05, "noise amplitude")
	stochasticCmd.Flags().IntVar(&workers, "workers", 4, "concurrent trials")

	robustnessCmd := &cobra.Command{
		Use:   "robustness",
		Short: "±pct parameter perturbation analysis",
		RunE:  runRobustness,
	}
	robustnessCmd.Flags().Float64Var(&perturbPct, "pct", 20, "perturbation percentage")
	robustnessCmd.Flags().StringVar(&paramList, "params", "", "comma-separated parameters (default: all kinetic)")
	robustnessCmd.Flags().StringVar(&outFile, "out", "", "write CSV here instead of stdout")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "settling classification across a parameter sweep",
		RunE:  runBifurcation,
	}
	bifurcationCmd.Flags().StringVar(&bifParam, "param", "k_mrna_req_prod", "parameter to sweep")
	bifurcationCmd.Flags().Float64Var(&bifMin, "min", 1.0, "sweep start")
	bifurcationCmd.Flags().Float64Var(&bifMax, "max", 10.0, "sweep end")
	bifurcationCmd.Flags().IntVar(&bifSteps, "steps", 50, "sweep points")
	bifurcationCmd.Flags().Float64Var(&settleAmp, "settle-amp", 0, "settling amplitude threshold (0 = default)")
	bifurcationCmd.Flags().StringVar(&outFile, "out", "", "write CSV here instead of stdout")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "tune kinetic parameters for fastest response",
		RunE:  runOptimize,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [run_id_a run_id_b]",
		Short: "compare two trajectories channel by channel",
		Long:  "With two run IDs, compares stored runs. Without arguments, runs the scenario under two steppers and compares the results.",
		Args:  cobra.RangeArgs(0, 2),
		RunE:  runCompare,
	}
	compareCmd.Flags().StringVar(&stepperA, "stepper-a", "rk4", "first integrator")
	compareCmd.Flags().StringVar(&stepperB, "stepper-b", "euler", "second integrator")
	compareCmd.Flags().IntVar(&checkpoints, "checkpoints", 0, "alignment grid points (0 = default)")
	compareCmd.Flags().StringVar(&outFile, "out", "", "write CSV here instead of stdout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory channel",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&channel, "channel", "", "channel to plot (default: run output)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored trajectory as CSV or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "", "write here instead of stdout")
	exportCmd.Flags().BoolVar(&asSVG, "svg", false, "render an SVG chart instead of CSV")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			for _, n := range names {
				fmt.Println(n)
			}
		},
	}

	rootCmd.AddCommand(runCmd, watchCmd, sweepCmd, stochasticCmd, robustnessCmd,
		bifurcationCmd, optimizeCmd, compareCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves --config / --preset / flag overrides into a
// validated scenario configuration. fallback names the preset used when
// neither --config nor --preset is given.
func loadConfig(fallback string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
	default:
		cfg = config.GetPreset(fallback)
	}

	if netName != "" {
		cfg.Network = netName
	}
	if stepper != "" {
		cfg.Stepper = stepper
	}
	if output != "" {
		cfg.Output = output
	}
	cfg.Seed = seed
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func outWriter() (*os.File, func(), error) {
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("pulse")
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	series, err := sc.Run(ctx, nil)
	if err != nil {
		return err
	}

	rt, err := harness.MeasureResponse(series, cfg.Output, cfg.Analysis.ResponseFraction, cfg.Analysis.SignalFloor)
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	meta := storage.RunMetadata{
		Network: cfg.Network,
		Stepper: cfg.Stepper,
		Output:  cfg.Output,
		Seed:    cfg.Seed,
		Phases:  len(cfg.Phases),
	}
	if rt.Defined {
		v := rt.Seconds
		meta.Response = &v
	}
	runID, err := store.Save(meta, series)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d samples over [%.1f, %.1f]\n", runID, series.Len(), series.Start(), series.End())
	if rt.Defined {
		fmt.Printf("response time (%s): %.4f\n", cfg.Output, rt.Seconds)
	} else {
		fmt.Printf("response time (%s): undefined (never switched)\n", cfg.Output)
	}

	if col, ok := series.Channel(cfg.Output); ok {
		fmt.Println()
		fmt.Println(asciigraph.Plot(col, asciigraph.Height(10), asciigraph.Width(70),
			asciigraph.Caption(cfg.Output)))
	}
	return nil
}

func watchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("pulse")
	if err != nil {
		return err
	}
	ctx, cancel := cfg.Context(context.Background())
	defer cancel()
	return tui.RunWatched(ctx, cfg.NewModel, cfg.PhaseList())
}

func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("step")
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	outputs := []string{cfg.Output}
	points, err := harness.Sweep(ctx, sc, sweepParam, linspace(sweepMin, sweepMax, sweepSteps), outputs)
	if err != nil {
		return err
	}

	w, done, err := outWriter()
	if err != nil {
		return err
	}
	defer done()
	return export.WriteSweep(w, points, outputs)
}

func runStochastic(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("step")
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	stats, err := harness.Stochastic(ctx, sc, harness.StochasticOptions{
		Trials:  trials,
		Seed:    cfg.Seed,
		Sigma:   sigma,
		Workers: workers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "trials\t%d\n", stats.Trials)
	fmt.Fprintf(w, "undefined\t%d\n", stats.Undefined)
	fmt.Fprintf(w, "mean\t%.4f\n", stats.Mean)
	fmt.Fprintf(w, "stdev\t%.4f\n", stats.Stdev)
	fmt.Fprintf(w, "min\t%.4f\n", stats.Min)
	fmt.Fprintf(w, "max\t%.4f\n", stats.Max)
	return w.Flush()
}

// kineticParams lists the network's tunable constants, excluding the
// req_in input signal, in stable order.
func kineticParams(cfg *config.Config) ([]string, error) {
	m, err := cfg.NewModel()
	if err != nil {
		return nil, err
	}
	tunable, ok := m.Network().(kinet.Tunable)
	if !ok {
		return nil, fmt.Errorf("network %s has no tunable parameters", cfg.Network)
	}
	names := make([]string, 0)
	for name := range tunable.Params() {
		if name != "req_in" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func runRobustness(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("step")
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	params := strings.Split(paramList, ",")
	if paramList == "" {
		params, err = kineticParams(cfg)
		if err != nil {
			return err
		}
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	report, err := harness.Robustness(ctx, sc, params, perturbPct)
	if err != nil {
		return err
	}

	w, done, err := outWriter()
	if err != nil {
		return err
	}
	defer done()
	return export.WriteRobustness(w, report)
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("step")
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	amp := settleAmp
	if amp <= 0 {
		amp = cfg.Analysis.SettleAmplitude
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	result, err := harness.Bifurcation(ctx, sc, bifParam, linspace(bifMin, bifMax, bifSteps), amp)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "transitions: %d\n", result.Transitions)

	w, done, err := outWriter()
	if err != nil {
		return err
	}
	defer done()
	return export.WriteBifurcation(w, result)
}

// optimizeSpecs picks the search dimensions per network, mirroring the
// request-path constants that dominate the response time.
func optimizeSpecs(networkName string) []optim.ParamSpec {
	if networkName == "celement" {
		return []optim.ParamSpec{
			{Name: "k_c_set", Init: 5.0, Min: 0.5, Max: 20.0},
			{Name: "k_prop", Init: 1.5, Min: 0.1, Max: 10.0},
			{Name: "k_req_deg", Init: 3.0, Min: 0.1, Max: 10.0},
		}
	}
	return []optim.ParamSpec{
		{Name: "k_mrna_req_prod", Init: 3.0, Min: 0.1, Max: 10.0},
		{Name: "k_req_transl", Init: 1.5, Min: 0.1, Max: 10.0},
		{Name: "k_mrna_req_deg", Init: 2.5, Min: 0.01, Max: 5.0},
		{Name: "k_req_deg", Init: 1.5, Min: 0.01, Max: 2.0},
	}
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("step")
	if err != nil {
		return err
	}
	sc, err := cfg.Scenario()
	if err != nil {
		return err
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	result, err := optim.Minimize(ctx, sc, optimizeSpecs(cfg.Network))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	names := make([]string, 0, len(result.Params))
	for name := range result.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", name, result.Params[name])
	}
	fmt.Fprintf(w, "response_time\t%.4f\n", result.ResponseTime)
	fmt.Fprintf(w, "evaluations\t%d\n", result.Evaluations)
	return w.Flush()
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("pulse")
	if err != nil {
		return err
	}
	n := checkpoints
	if n < 2 {
		n = cfg.Analysis.Checkpoints
	}

	if len(args) == 2 {
		store := storage.New(dataDir)
		trajA, err := store.LoadSeries(args[0])
		if err != nil {
			return err
		}
		trajB, err := store.LoadSeries(args[1])
		if err != nil {
			return err
		}
		return writeComparison(trajA, trajB, n)
	}

	left := *cfg
	right := *cfg
	left.Stepper = stepperA
	right.Stepper = stepperB

	scA, err := left.Scenario()
	if err != nil {
		return err
	}
	scB, err := right.Scenario()
	if err != nil {
		return err
	}

	ctx, cancel := cfg.Context(context.Background())
	defer cancel()

	trajA, err := scA.Run(ctx, nil)
	if err != nil {
		return err
	}
	trajB, err := scB.Run(ctx, nil)
	if err != nil {
		return err
	}
	return writeComparison(trajA, trajB, n)
}

func writeComparison(a, b *kinet.Series, n int) error {
	cmp, err := harness.Compare(a, b, n)
	if err != nil {
		return err
	}
	channels := make([]string, 0, len(cmp))
	for name := range cmp {
		channels = append(channels, name)
	}
	sort.Strings(channels)

	w, done, err := outWriter()
	if err != nil {
		return err
	}
	defer done()
	return export.WriteComparison(w, channels, cmp)
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNETWORK\tSTEPPER\tSPAN\tSAMPLES\tRESPONSE")
	for _, run := range runs {
		resp := "-"
		if run.Response != nil {
			resp = fmt.Sprintf("%.4f", *run.Response)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t[%.1f, %.1f]\t%d\t%s\n",
			run.ID, run.Network, run.Stepper, run.Start, run.End, run.Samples, resp)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	series, err := store.LoadSeries(args[0])
	if err != nil {
		return err
	}

	name := channel
	if name == "" {
		name = meta.Output
	}
	col, ok := series.Channel(name)
	if !ok {
		return fmt.Errorf("run %s has no channel %q", args[0], name)
	}

	fmt.Println(asciigraph.Plot(col, asciigraph.Height(12), asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("%s (%s)", name, args[0]))))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	series, err := store.LoadSeries(args[0])
	if err != nil {
		return err
	}

	w, done, err := outWriter()
	if err != nil {
		return err
	}
	defer done()

	if asSVG {
		return export.WriteSeriesSVG(w, series, 900, 360)
	}
	return export.WriteSeries(w, series)
}
