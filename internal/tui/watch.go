package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lfelipessoa/kinsim/internal/kinet"
	"github.com/lfelipessoa/kinsim/internal/phase"
)

type sampleMsg struct {
	t    float64
	vals []float64
}

type doneMsg struct{}

type watchModel struct {
	tracer  *Tracer
	samples <-chan sampleMsg
}

func waitForSample(ch <-chan sampleMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return doneMsg{}
		}
		return msg
	}
}

func (m watchModel) Init() tea.Cmd {
	return waitForSample(m.samples)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case sampleMsg:
		m.tracer.Observe(msg.t, msg.vals)
		return m, waitForSample(m.samples)
	case doneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	return m.tracer.Frame()
}

// RunWatched executes the phased scenario with live traces: it builds a
// model via newModel with a sampling observer attached, runs the
// schedule in a goroutine, and blocks in the TUI until the run finishes
// or the user quits.
func RunWatched(ctx context.Context, newModel func(opts ...kinet.Option) (*kinet.Model, error), phases []phase.Phase) error {
	samples := make(chan sampleMsg, 64)
	runErr := make(chan error, 1)

	m, err := newModel(kinet.WithObserver(func(t float64, c kinet.Conc) {
		select {
		case samples <- sampleMsg{t: t, vals: c.Clone()}:
		default: // drop frames rather than stall the integrator
		}
	}))
	if err != nil {
		return err
	}

	go func() {
		_, err := phase.Run(ctx, m, phases)
		runErr <- err
		close(samples)
	}()

	wm := watchModel{tracer: NewTracer("kinsim", m.Species()), samples: samples}
	if _, err := tea.NewProgram(wm).Run(); err != nil {
		return err
	}

	select {
	case err := <-runErr:
		if err != nil {
			return fmt.Errorf("watched run: %w", err)
		}
	default:
	}
	return nil
}
