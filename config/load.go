package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/particle3d/physics"
)

// Load decodes the TOML file at path over the preset of variant
// An empty variant takes the file's own variant key, defaulting to boids
// Keys the file sets that no field consumes are reported as ErrInvalid
func Load(path, variant string) (*Config, error) {
	if variant == "" {
		var head struct {
			Variant string `toml:"variant"`
		}
		if _, err := toml.DecodeFile(path, &head); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		variant = head.Variant
		if variant == "" {
			variant = VariantBoids
		}
	}

	conf, err := Preset(variant)
	if err != nil {
		return nil, err
	}

	// file overwrites preset parameters
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	if conf.Variant != variant {
		return nil, fmt.Errorf("%w: %s: variant %q does not match %q", ErrInvalid, path, conf.Variant, variant)
	}
	return conf, nil
}

// Decode reads a TOML document over conf, used for inline overrides
func Decode(doc string, conf *Config) error {
	if _, err := toml.Decode(doc, conf); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Validate checks ranges and cross-field consistency
func (c *Config) Validate() error {
	if _, err := Preset(c.Variant); err != nil {
		return err
	}
	if c.Workers < 0 {
		return invalid("workers %d is negative", c.Workers)
	}

	p := c.Particles
	if p.Count <= 0 {
		return invalid("particles.count %d must be positive", p.Count)
	}
	if p.Concentration < 0 {
		return invalid("particles.concentration %d is negative", p.Concentration)
	}
	switch p.SeedPolicy {
	case "uniform", "noise":
		if p.Radius <= 0 {
			return invalid("particles.radius %g must be positive", p.Radius)
		}
	case "fountain", "orbit":
		if p.MinMass <= 0 || p.MaxMass < p.MinMass {
			return invalid("particles mass range [%g, %g] must be positive and ordered", p.MinMass, p.MaxMass)
		}
		if p.Density <= 0 {
			return invalid("particles.density %g must be positive", p.Density)
		}
	default:
		return invalid("particles.seed_policy %q", p.SeedPolicy)
	}

	if c.Clock.TickMS <= 0 || c.Clock.RotateMS <= 0 || c.Clock.FrameMS <= 0 {
		return invalid("clock periods must be positive, got tick %d rotate %d frame %d",
			c.Clock.TickMS, c.Clock.RotateMS, c.Clock.FrameMS)
	}

	switch c.Rule {
	case "flocking":
		f := c.Flocking
		if f.MaxSpeed <= 0 {
			return invalid("flocking.max_speed %g must be positive", f.MaxSpeed)
		}
		if f.MinDistance < 0 || f.MinPerception < 0 {
			return invalid("flocking radii must not be negative")
		}
		if f.Clamp != string(physics.ClampZero) && f.Clamp != string(physics.ClampLimit) {
			return invalid("flocking.clamp %q", f.Clamp)
		}
		if m := c.Integrator.MaxSpeed; m != 0 && m != f.MaxSpeed {
			return invalid("integrator.max_speed %g disagrees with flocking.max_speed %g", m, f.MaxSpeed)
		}
	case "gravity":
		g := c.Gravity
		if g.Solver != string(physics.SolverDirect) && g.Solver != string(physics.SolverBarnesHut) {
			return invalid("gravity.solver %q", g.Solver)
		}
		if g.Theta < 0 {
			return invalid("gravity.theta %g is negative", g.Theta)
		}
		if p.SeedPolicy == "uniform" || p.SeedPolicy == "noise" {
			return invalid("gravity needs a massive seed policy, got %q", p.SeedPolicy)
		}
	case "fall":
		if c.Fall.MinDistance < 0 {
			return invalid("fall.min_distance %g is negative", c.Fall.MinDistance)
		}
	default:
		return invalid("rule %q", c.Rule)
	}

	if c.Integrator.MaxSpeed < 0 || c.Integrator.PositionScale < 0 {
		return invalid("integrator values must not be negative")
	}

	switch c.Bounds.Kind {
	case "wrap", "bounce":
		if c.Bounds.High <= c.Bounds.Low {
			return invalid("bounds [%g, %g] empty", c.Bounds.Low, c.Bounds.High)
		}
		if _, ok := physics.ParseAxes(c.Bounds.Axes); !ok {
			return invalid("bounds.axes %q", c.Bounds.Axes)
		}
	case "open":
	default:
		return invalid("bounds.kind %q", c.Bounds.Kind)
	}

	if err := c.TrailPolicy().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if c.Camera.Zoom <= 0 {
		return invalid("camera.zoom %g must be positive", c.Camera.Zoom)
	}
	if c.Camera.Frequency < 0 || c.Camera.Damping < 0 {
		return invalid("camera spring values must not be negative")
	}
	if _, err := ParseBackground(c.Render.Background); err != nil {
		return err
	}
	switch c.Render.Trails {
	case "none", "selected", "all":
	default:
		return invalid("render.trails %q", c.Render.Trails)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return invalid("audio.volume %g outside [0, 1]", c.Audio.Volume)
	}
	if c.Diag.SampleEvery <= 0 {
		return invalid("diag.sample_every %d must be positive", c.Diag.SampleEvery)
	}
	return nil
}

// ParseBackground accepts "white" or "black"
func ParseBackground(s string) (white bool, err error) {
	switch s {
	case "white":
		return true, nil
	case "black":
		return false, nil
	default:
		return false, invalid("background %q, want white or black", s)
	}
}
