// Package config loads and validates scenario definitions. Validation
// happens at load time: every override is checked against the network's
// identifier set before any simulation work begins.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lfelipessoa/kinsim/internal/harness"
	"github.com/lfelipessoa/kinsim/internal/integrators"
	"github.com/lfelipessoa/kinsim/internal/kinet"
	"github.com/lfelipessoa/kinsim/internal/network"
	"github.com/lfelipessoa/kinsim/internal/phase"
)

const (
	DefaultNetwork = "cascade"
	DefaultStepper = "rk4"
	DefaultOutput  = "req_out"
)

type Config struct {
	Network  string      `yaml:"network"`
	Stepper  string      `yaml:"stepper"`
	Output   string      `yaml:"output"`
	Seed     int64       `yaml:"seed"`
	Timeout  float64     `yaml:"timeout"` // seconds per run, 0 disables
	Phases   []PhaseSpec `yaml:"phases"`
	Analysis Analysis    `yaml:"analysis"`
}

type PhaseSpec struct {
	Start     float64            `yaml:"start"`
	End       float64            `yaml:"end"`
	Points    int                `yaml:"points"`
	Overrides map[string]float64 `yaml:"overrides"`
}

// Analysis carries the tunable thresholds of the scalar metrics. They are
// configuration, not constants: the digital on/off reading of the circuit
// is sensitive to them.
type Analysis struct {
	ResponseFraction float64 `yaml:"response_fraction"`
	SignalFloor      float64 `yaml:"signal_floor"`
	SettleAmplitude  float64 `yaml:"settle_amplitude"`
	Checkpoints      int     `yaml:"checkpoints"`
}

// DefaultConfig is the original five-phase pulse scenario: two req_in
// pulses with recovery windows, 100 time units total.
func DefaultConfig() *Config {
	return &Config{
		Network: DefaultNetwork,
		Stepper: DefaultStepper,
		Output:  DefaultOutput,
		Phases: []PhaseSpec{
			{Start: 0, End: 10, Points: 100, Overrides: map[string]float64{"req_in": 0}},
			{Start: 10, End: 30, Points: 200, Overrides: map[string]float64{"req_in": 1}},
			{Start: 30, End: 50, Points: 200, Overrides: map[string]float64{"req_in": 0}},
			{Start: 50, End: 70, Points: 200, Overrides: map[string]float64{"req_in": 1}},
			{Start: 70, End: 100, Points: 300, Overrides: map[string]float64{"req_in": 0}},
		},
		Analysis: Analysis{
			ResponseFraction: harness.DefaultResponseFraction,
			SignalFloor:      harness.DefaultSignalFloor,
			SettleAmplitude:  harness.DefaultSettleAmplitude,
			Checkpoints:      harness.DefaultCheckpoints,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Phases = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Phases) == 0 {
		cfg.Phases = DefaultConfig().Phases
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PhaseList converts the YAML phase specs to scheduler phases.
func (c *Config) PhaseList() []phase.Phase {
	out := make([]phase.Phase, len(c.Phases))
	for i, p := range c.Phases {
		out[i] = phase.Phase{Start: p.Start, End: p.End, Points: p.Points, Overrides: p.Overrides}
	}
	return out
}

// NewModel builds a fresh handle for this configuration. Each call
// constructs its own network so parallel runs share nothing.
func (c *Config) NewModel(opts ...kinet.Option) (*kinet.Model, error) {
	net, err := network.New(c.Network)
	if err != nil {
		return nil, err
	}
	stepper, err := integrators.New(c.Stepper)
	if err != nil {
		return nil, err
	}
	return kinet.NewModel(net, stepper, opts...), nil
}

// Scenario assembles the harness scenario for this configuration.
func (c *Config) Scenario() (harness.Scenario, error) {
	if err := c.Validate(); err != nil {
		return harness.Scenario{}, err
	}
	return harness.Scenario{
		NewModel:         c.NewModel,
		Phases:           c.PhaseList(),
		Output:           c.Output,
		ResponseFraction: c.Analysis.ResponseFraction,
		SignalFloor:      c.Analysis.SignalFloor,
	}, nil
}

// Context wraps parent with the configured per-run timeout.
func (c *Config) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, time.Duration(c.Timeout*float64(time.Second)))
}

// Validate builds the configured model once and checks the schedule and
// output channel against its identifier set.
func (c *Config) Validate() error {
	m, err := c.NewModel()
	if err != nil {
		return err
	}
	if err := phase.Validate(m, c.PhaseList()); err != nil {
		return err
	}
	if c.Output == "" {
		return fmt.Errorf("config: output channel not set")
	}
	for _, s := range m.Species() {
		if s == c.Output {
			return nil
		}
	}
	return fmt.Errorf("config: output %q: %w", c.Output, kinet.ErrUnknownName)
}
