// Package viz renders solved trajectories in the terminal: static
// asciigraph plots and a live playback view.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/trajopt/internal/metrics"
	"github.com/san-kum/trajopt/internal/store"
)

const (
	plotHeight = 12
	plotWidth  = 72
)

var jointNames = [3]string{"base", "shoulder", "elbow"}

// PlotTrajectory renders angle, velocity, control and power plots for
// every joint of one leg.
func PlotTrajectory(tr *store.Trajectory) string {
	var b strings.Builder
	sections := []struct {
		title string
		table [][]float64
	}{
		{"joint angles [rad]", tr.Q},
		{"joint velocities [rad/s]", tr.V},
		{"controls [N·m-equivalent]", tr.U},
		{"electrical power [W]", tr.Power},
	}
	for _, sec := range sections {
		b.WriteString(headerStyle.Render(sec.title))
		b.WriteString("\n")
		for j := 0; j < 3; j++ {
			graph := asciigraph.Plot(store.Column(sec.table, j),
				asciigraph.Height(plotHeight),
				asciigraph.Width(plotWidth),
				asciigraph.Caption(jointNames[j]))
			b.WriteString(graphStyle.Render(graph))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Summary renders a styled energy report for one leg.
func Summary(leg string, status string, converged bool, energy metrics.Energy) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s leg", leg)))
	b.WriteString("\n")

	statusLine := valueStyle.Render(status)
	if !converged {
		statusLine = warnStyle.Render(status)
	}
	rows := []struct{ label, value string }{
		{"status", statusLine},
		{"net energy", valueStyle.Render(fmt.Sprintf("%.4f J", energy.Total))},
		{"regenerated", regenStyle.Render(fmt.Sprintf("%.4f J", energy.Regenerated))},
	}
	for j, e := range energy.PerJoint {
		rows = append(rows, struct{ label, value string }{
			jointNames[j], valueStyle.Render(fmt.Sprintf("%.4f J", e)),
		})
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(r.value)
		b.WriteString("\n")
	}
	return b.String()
}
