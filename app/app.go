// Package app is the shared entry point of the boids3d, gravity3d and
// universe3d commands: argument parsing, logging, the interactive viewer and
// headless diagnostics runs.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particle3d/config"
	"github.com/lixenwraith/particle3d/core"
	"github.com/lixenwraith/particle3d/diag"
	"github.com/lixenwraith/particle3d/engine"
	"github.com/lixenwraith/particle3d/status"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Main runs the named command for variant and returns its exit code
func Main(name, variant string, args []string) int {
	return run(name, variant, args, os.Stdout, os.Stderr)
}

func run(name, variant string, args []string, stdout, stderr io.Writer) int {
	opts, err := ParseArgs(name, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return ExitUsage
	}

	logFile, err := setupLogging(logDir, opts.Debug)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	conf, err := Configure(variant, opts)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return ExitUsage
	}

	sim, stats, err := Build(conf)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return ExitError
	}
	log.Printf("%s: %d particles, %d workers, rule %s", name, sim.Len(), sim.Workers(), sim.Rule().Name())

	if opts.Headless > 0 {
		if err := RunHeadless(conf, sim, stats, opts.Headless, opts.Chart, stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", name, err)
			return ExitError
		}
		return ExitOK
	}

	if err := runInteractive(conf, sim, stats); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return ExitError
	}
	return ExitOK
}

// Build populates the particle store and assembles the simulation described by conf
func Build(conf *config.Config) (*engine.Simulation, *engine.Stats, error) {
	store, err := conf.Populate()
	if err != nil {
		return nil, nil, err
	}
	rule, err := conf.BuildRule()
	if err != nil {
		return nil, nil, err
	}
	integrator, err := conf.BuildIntegrator()
	if err != nil {
		return nil, nil, err
	}

	stats := engine.NewStats(status.NewRegistry())
	sim, err := engine.NewSimulation(store, engine.SimulationConfig{
		Rule:       rule,
		Integrator: integrator,
		Trail:      conf.TrailPolicy(),
		Workers:    conf.Workers,
	}, stats)
	if err != nil {
		return nil, nil, err
	}
	return sim, stats, nil
}

func runInteractive(conf *config.Config, sim *engine.Simulation, stats *engine.Stats) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	core.SetCrashHandler(screen)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	defer func() {
		core.SetCrashHandler(nil)
		screen.Fini()
	}()

	screen.EnableMouse()
	screen.HideCursor()

	v, err := NewViewer(conf, sim, stats, screen)
	if err != nil {
		return err
	}
	v.Run()
	return nil
}

// RunHeadless steps sim for ticks without a terminal, then prints a diagnostics report
// A chart failure is reported on stderr and does not fail the run
func RunHeadless(conf *config.Config, sim *engine.Simulation, stats *engine.Stats, ticks uint64, chartPath string, stdout, stderr io.Writer) error {
	rec := diag.NewRecorder(conf.Diag.SampleEvery)
	rec.Observe(sim.Frame())

	start := time.Now()
	for range ticks {
		if err := sim.Step(); err != nil {
			return err
		}
		rec.Observe(sim.Frame())
	}
	elapsed := time.Since(start)
	log.Printf("headless: %d ticks in %v", ticks, elapsed)

	sum := diag.Summary{
		Variant:   conf.Variant,
		Particles: sim.Len(),
		Ticks:     ticks,
		Elapsed:   elapsed,
		Workers:   sim.Workers(),
		Metrics:   stats.Registry.Lines(),
	}
	if err := diag.Report(stdout, sum, rec.Samples()); err != nil {
		return err
	}

	if chartPath != "" {
		if err := diag.WriteChart(chartPath, rec.Samples()); err != nil {
			log.Printf("headless: %v", err)
			fmt.Fprintf(stderr, "chart: %v\n", err)
		} else {
			fmt.Fprintf(stdout, "chart written to %s\n", chartPath)
		}
	}
	return nil
}
