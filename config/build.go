package config

import (
	"fmt"

	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/physics"
	"github.com/lixenwraith/particle3d/trail"
)

// BuildRule constructs the interaction rule named by Rule
func (c *Config) BuildRule() (physics.Rule, error) {
	switch c.Rule {
	case "flocking":
		f := c.Flocking
		return &physics.Flocking{
			MinPerception:  f.MinPerception,
			MinDistance:    f.MinDistance,
			SeparateFactor: f.SeparateFactor,
			AlignFactor:    f.AlignFactor,
			CohesionFactor: f.CohesionFactor,
			MaxSpeed:       f.MaxSpeed,
			Clamp:          physics.ClampMode(f.Clamp),
			DiffuseColor:   f.DiffuseColor,
		}, nil
	case "gravity":
		return &physics.Gravity{
			G:      c.Gravity.G,
			Solver: physics.Solver(c.Gravity.Solver),
			Theta:  c.Gravity.Theta,
		}, nil
	case "fall":
		return &physics.Fall{
			G:            c.Fall.G,
			Floor:        c.Fall.Floor,
			MinDistance:  c.Fall.MinDistance,
			DiffuseColor: c.Fall.DiffuseColor,
		}, nil
	}
	return nil, invalid("rule %q", c.Rule)
}

// BuildBoundary constructs the boundary policy
func (c *Config) BuildBoundary() (physics.Boundary, error) {
	axes, ok := physics.ParseAxes(c.Bounds.Axes)
	switch c.Bounds.Kind {
	case "open":
		return physics.Open{}, nil
	case "wrap", "bounce":
		if !ok {
			return nil, invalid("bounds.axes %q", c.Bounds.Axes)
		}
		if c.Bounds.Kind == "wrap" {
			return physics.Wrap{Low: c.Bounds.Low, High: c.Bounds.High, Axes: axes}, nil
		}
		return physics.Bounce{Low: c.Bounds.Low, High: c.Bounds.High, Axes: axes}, nil
	}
	return nil, invalid("bounds.kind %q", c.Bounds.Kind)
}

// BuildIntegrator constructs the integrator with its boundary
// Flocking speed is capped at flocking.max_speed, the same speed steering aims for
func (c *Config) BuildIntegrator() (physics.Integrator, error) {
	b, err := c.BuildBoundary()
	if err != nil {
		return physics.Integrator{}, err
	}
	maxSpeed := c.Integrator.MaxSpeed
	if c.Rule == "flocking" {
		maxSpeed = c.Flocking.MaxSpeed
	}
	return physics.Integrator{
		MaxSpeed:      maxSpeed,
		PositionScale: c.Integrator.PositionScale,
		Boundary:      b,
	}, nil
}

// BuildSeed constructs the seed policy
func (c *Config) BuildSeed() (particle.SeedPolicy, error) {
	p := c.Particles
	uniform := particle.Uniform{
		Concentration: p.Concentration,
		MaxSpeed:      c.Flocking.MaxSpeed,
		Radius:        p.Radius,
	}
	switch p.SeedPolicy {
	case "uniform":
		return uniform, nil
	case "noise":
		return particle.NewNoise(uniform, p.NoiseScale, int64(c.Seed)), nil
	case "fountain":
		return particle.Fountain{Concentration: p.Concentration, MinMass: p.MinMass, MaxMass: p.MaxMass, Density: p.Density}, nil
	case "orbit":
		return particle.Orbit{Concentration: p.Concentration, MinMass: p.MinMass, MaxMass: p.MaxMass, Density: p.Density}, nil
	}
	return nil, invalid("particles.seed_policy %q", p.SeedPolicy)
}

// TrailPolicy maps the trail section onto a history policy
func (c *Config) TrailPolicy() trail.Policy {
	return trail.Policy{
		Kind:      trail.Kind(c.Trail.Kind),
		Length:    c.Trail.Length,
		Limit:     c.Trail.Limit,
		Unbounded: c.Trail.Unbounded,
	}
}

// Populate seeds the particle store described by the particles section
func (c *Config) Populate() (*particle.Store, error) {
	seed, err := c.BuildSeed()
	if err != nil {
		return nil, err
	}
	store, err := particle.Populate(c.Particles.Count, seed, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("config: populate %s: %w", c.Variant, err)
	}
	return store, nil
}
