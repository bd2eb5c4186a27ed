package diag

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// Summary is the run-level information printed above the plots
type Summary struct {
	Variant   string
	Particles int
	Ticks     uint64
	Elapsed   time.Duration
	Workers   int
	Metrics   []string // "key=value" registry lines, listed after the plots
}

// plotWidth bounds asciigraph's horizontal resolution, longer series are resampled
const plotWidth = 60

// Report writes a styled summary followed by energy and speed plots
func Report(w io.Writer, sum Summary, samples []Sample) error {
	var b strings.Builder

	b.WriteString(headerStyle.Render(strings.ToUpper(sum.Variant)) + "\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Particles", fmt.Sprintf("%d", sum.Particles))
	row("Ticks", fmt.Sprintf("%d", sum.Ticks))
	row("Workers", fmt.Sprintf("%d", sum.Workers))
	row("Elapsed", sum.Elapsed.Round(time.Millisecond).String())
	if sum.Ticks > 0 && sum.Elapsed > 0 {
		row("Tick rate", fmt.Sprintf("%.1f/s", float64(sum.Ticks)/sum.Elapsed.Seconds()))
	}

	if n := len(samples); n > 0 {
		last := samples[n-1]
		row("Kinetic", fmt.Sprintf("%.4g", last.Kinetic))
		row("Mean speed", fmt.Sprintf("%.4g", last.MeanSpeed))
		row("Max speed", fmt.Sprintf("%.4g", last.MaxSpeed))
		row("Spread", fmt.Sprintf("%.4g", last.Spread))
	}

	if len(samples) > 1 {
		b.WriteString(plot(Column(samples, kinetic), "kinetic energy"))
		b.WriteString(plot(Column(samples, meanSpeed), "mean speed"))
		b.WriteString(plot(Column(samples, spread), "spread"))
	}

	if len(sum.Metrics) > 0 {
		b.WriteString(headerStyle.Render("METRICS") + "\n")
		for _, m := range sum.Metrics {
			key, value, _ := strings.Cut(m, "=")
			row(key, value)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("diag report: %w", err)
	}
	return nil
}

func plot(data []float64, caption string) string {
	g := asciigraph.Plot(data,
		asciigraph.Height(6),
		asciigraph.Width(min(len(data), plotWidth)),
		asciigraph.Caption(caption))
	return graphStyle.Render(g) + "\n"
}
