// Package tui renders live concentration traces while a phased scenario
// runs.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	plotWidth  = 64
	plotHeight = 7
	maxSamples = 512
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	channelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	footerStyle  = lipgloss.NewStyle().Faint(true)
)

// Tracer accumulates samples per channel and renders stacked terminal
// plots. It keeps a bounded window so long scenarios stay responsive.
type Tracer struct {
	title    string
	channels []string
	data     map[string][]float64
	lastT    float64
}

func NewTracer(title string, channels []string) *Tracer {
	data := make(map[string][]float64, len(channels))
	for _, c := range channels {
		data[c] = make([]float64, 0, maxSamples)
	}
	return &Tracer{title: title, channels: channels, data: data}
}

// Observe appends one sample. vals is ordered like the channel list.
func (tr *Tracer) Observe(t float64, vals []float64) {
	tr.lastT = t
	for i, c := range tr.channels {
		col := append(tr.data[c], vals[i])
		if len(col) > maxSamples {
			col = col[len(col)-maxSamples:]
		}
		tr.data[c] = col
	}
}

// Frame renders the current state of every trace.
func (tr *Tracer) Frame() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  t=%.2f", tr.title, tr.lastT)))
	sb.WriteString("\n\n")

	for _, c := range tr.channels {
		col := tr.data[c]
		if len(col) < 2 {
			continue
		}
		sb.WriteString(channelStyle.Render(c))
		sb.WriteString("\n")
		sb.WriteString(asciigraph.Plot(col,
			asciigraph.Width(plotWidth),
			asciigraph.Height(plotHeight),
			asciigraph.Precision(2),
		))
		sb.WriteString("\n\n")
	}

	sb.WriteString(footerStyle.Render("q to quit"))
	return sb.String()
}
