package app

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/lixenwraith/particle3d/config"
)

// ErrUsage reports malformed command line arguments
var ErrUsage = errors.New("usage")

// Options are the command line settings of one run
type Options struct {
	ConfigPath string
	Count      int    // overrides particles.count when positive
	Headless   uint64 // ticks to run without a terminal, 0 opens the viewer
	Chart      string // PNG path for the headless diagnostics chart
	Debug      bool
	Workers    int    // overrides workers when positive
	Background string // "white", "black" or "" for the config value
}

// ParseArgs reads flags and the optional background colour argument
// flag.ErrHelp is returned as is for -h; every other problem wraps ErrUsage
func ParseArgs(name string, args []string, stderr io.Writer) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "TOML file overriding the preset")
	fs.IntVar(&opts.Count, "n", 0, "particle count")
	fs.Uint64Var(&opts.Headless, "headless", 0, "run this many ticks without a terminal and print diagnostics")
	fs.StringVar(&opts.Chart, "chart", "", "write a diagnostics chart PNG after a headless run")
	fs.BoolVar(&opts.Debug, "debug", false, "write logs to "+logDir+"/"+logFileName)
	fs.IntVar(&opts.Workers, "workers", 0, "physics worker goroutines, 0 uses all CPUs")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Syntax: %s [flags] <background color>\n", name)
		fmt.Fprintf(stderr, "\t<background color> -> 'white' or 'black'\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, err
		}
		return opts, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		bg := fs.Arg(0)
		if _, err := config.ParseBackground(bg); err != nil {
			fs.Usage()
			return opts, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		opts.Background = bg
	default:
		fs.Usage()
		return opts, fmt.Errorf("%w: %d arguments, want at most one", ErrUsage, fs.NArg())
	}

	if opts.Count < 0 || opts.Workers < 0 {
		fs.Usage()
		return opts, fmt.Errorf("%w: -n and -workers must not be negative", ErrUsage)
	}
	if opts.Chart != "" && opts.Headless == 0 {
		return opts, fmt.Errorf("%w: -chart needs -headless", ErrUsage)
	}
	return opts, nil
}

// Configure loads the preset or config file of variant and applies opts over it
func Configure(variant string, opts Options) (*config.Config, error) {
	var conf *config.Config
	var err error
	if opts.ConfigPath != "" {
		conf, err = config.Load(opts.ConfigPath, variant)
	} else {
		conf, err = config.Preset(variant)
	}
	if err != nil {
		return nil, err
	}

	if opts.Count > 0 {
		conf.Particles.Count = opts.Count
	}
	if opts.Workers > 0 {
		conf.Workers = opts.Workers
	}
	if opts.Background != "" {
		conf.Render.Background = opts.Background
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}
