package diag

import (
	"errors"
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrChart wraps every failure to produce a chart file
	ErrChart = errors.New("chart failed")
	// ErrNoData reports fewer than two samples, a line needs two points
	ErrNoData = errors.New("not enough samples")
)

// WriteChart renders mean/max speed and spread over ticks into a PNG at path
// Kinetic energy is left out since its scale dwarfs the other series
func WriteChart(path string, samples []Sample) (err error) {
	if len(samples) < 2 {
		return fmt.Errorf("%w: %w: %d", ErrChart, ErrNoData, len(samples))
	}
	x := Column(samples, tick)

	graph := chart.Chart{
		Width:  960,
		Height: 360,
		XAxis: chart.XAxis{
			Name:  "tick",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "mean speed",
				XValues: x,
				YValues: Column(samples, meanSpeed),
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "max speed",
				XValues: x,
				YValues: Column(samples, maxSpeed),
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "spread",
				XValues: x,
				YValues: Column(samples, spread),
				YAxis:   chart.YAxisSecondary,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 255, G: 165, B: 0, A: 255}, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChart, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrChart, path, cerr)
		}
	}()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("%w: render %s: %w", ErrChart, path, err)
	}
	return nil
}
