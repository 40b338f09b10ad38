package config

// Presets are named ready-made scenarios. "pulse" is the five-phase
// double-pulse time course; "step" holds req_in high from t=0, which is
// what the sweep/robustness/optimize analyses run against; the celement
// variants run the same schedules on the C-element network.
func presets() map[string]*Config {
	pulse := DefaultConfig()

	celementPulse := DefaultConfig()
	celementPulse.Network = "celement"

	step := DefaultConfig()
	step.Phases = []PhaseSpec{
		{Start: 0, End: 30, Points: 300, Overrides: map[string]float64{"req_in": 1}},
	}

	celementStep := DefaultConfig()
	celementStep.Network = "celement"
	celementStep.Phases = step.Phases

	return map[string]*Config{
		"pulse":          pulse,
		"step":           step,
		"celement-pulse": celementPulse,
		"celement-step":  celementStep,
	}
}

// GetPreset returns a copy-by-construction preset or nil when unknown.
func GetPreset(name string) *Config {
	return presets()[name]
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	m := presets()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}
