package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

var traceColors = []string{"#4fc3f7", "#ff8a65", "#aed581", "#ba68c8", "#ffd54f", "#90a4ae"}

// WriteSeriesSVG renders the trajectory as an SVG line chart, one
// polyline per species, with a small legend.
func WriteSeriesSVG(w io.Writer, s *kinet.Series, width, height int) error {
	if s.Len() < 2 {
		return fmt.Errorf("svg: need at least 2 samples, got %d", s.Len())
	}

	minV, maxV := 0.0, 0.0
	for _, name := range s.Names() {
		col, _ := s.Channel(name)
		for _, v := range col {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	if maxV == minV {
		maxV = minV + 1
	}
	pad := (maxV - minV) * 0.05
	minV -= pad
	maxV += pad

	t0, t1 := s.Start(), s.End()
	fw, fh := float64(width), float64(height)
	px := func(t float64) float64 { return (t - t0) / (t1 - t0) * fw }
	py := func(v float64) float64 { return fh - (v-minV)/(maxV-minV)*fh }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for ci, name := range s.Names() {
		col, _ := s.Channel(name)
		color := traceColors[ci%len(traceColors)]

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, v := range col {
			if i > 0 {
				sb.WriteString(" L")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(s.Times[i]), py(v)))
		}
		sb.WriteString("\"/>\n")

		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" font-family="monospace" font-size="12" fill="%s">%s</text>
`, 16+ci*16, color, name))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
