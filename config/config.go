// Package config holds run parameters for the three simulation variants.
//
// A run starts from a variant preset (Boids, Gravity, Universe), optionally
// overlaid with a TOML file, then command line flags. Validate must pass
// before any Build* call.
package config

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

// Variant names
const (
	VariantBoids    = "boids"
	VariantGravity  = "gravity"
	VariantUniverse = "universe"
)

var (
	// ErrInvalid reports a configuration value outside its allowed range
	ErrInvalid = errors.New("invalid configuration")
	// ErrUnknownVariant reports a variant name with no preset
	ErrUnknownVariant = errors.New("unknown variant")
)

// Config is the full parameter set of one run
type Config struct {
	Variant string `toml:"variant"`
	Seed    uint64 `toml:"seed"`    // 0 picks a time-based seed
	Workers int    `toml:"workers"` // 0 uses GOMAXPROCS

	Particles  ParticlesConfig  `toml:"particles"`
	Clock      ClockConfig      `toml:"clock"`
	Rule       string           `toml:"rule"`
	Flocking   FlockingConfig   `toml:"flocking"`
	Gravity    GravityConfig    `toml:"gravity"`
	Fall       FallConfig       `toml:"fall"`
	Integrator IntegratorConfig `toml:"integrator"`
	Bounds     BoundsConfig     `toml:"bounds"`
	Trail      TrailConfig      `toml:"trail"`
	Camera     CameraConfig     `toml:"camera"`
	Render     RenderConfig     `toml:"render"`
	Audio      AudioConfig      `toml:"audio"`
	Diag       DiagConfig       `toml:"diag"`

	// Keys overrides key bindings, key name to action name
	Keys map[string]string `toml:"keys"`
}

type ParticlesConfig struct {
	Count         int     `toml:"count"`
	SeedPolicy    string  `toml:"seed_policy"` // uniform, noise, fountain, orbit
	Concentration int     `toml:"concentration"`
	Radius        float64 `toml:"radius"` // fixed radius for uniform and noise
	MinMass       float64 `toml:"min_mass"`
	MaxMass       float64 `toml:"max_mass"`
	Density       float64 `toml:"density"`
	NoiseScale    float64 `toml:"noise_scale"`
}

type ClockConfig struct {
	TickMS   int `toml:"tick_ms"`
	RotateMS int `toml:"rotate_ms"`
	FrameMS  int `toml:"frame_ms"`
}

func (c ClockConfig) Tick() time.Duration   { return time.Duration(c.TickMS) * time.Millisecond }
func (c ClockConfig) Rotate() time.Duration { return time.Duration(c.RotateMS) * time.Millisecond }
func (c ClockConfig) Frame() time.Duration  { return time.Duration(c.FrameMS) * time.Millisecond }

type FlockingConfig struct {
	MinPerception  float64 `toml:"min_perception"`
	MinDistance    float64 `toml:"min_distance"`
	SeparateFactor float64 `toml:"separate"`
	AlignFactor    float64 `toml:"align"`
	CohesionFactor float64 `toml:"cohesion"`
	MaxSpeed       float64 `toml:"max_speed"`
	Clamp          string  `toml:"clamp"` // zero or limit
	DiffuseColor   bool    `toml:"diffuse_color"`
}

type GravityConfig struct {
	G      float64 `toml:"g"`
	Solver string  `toml:"solver"` // direct or barneshut
	Theta  float64 `toml:"theta"`
}

type FallConfig struct {
	G            float64 `toml:"g"`
	Floor        float64 `toml:"floor"`
	MinDistance  float64 `toml:"min_distance"`
	DiffuseColor bool    `toml:"diffuse_color"`
}

type IntegratorConfig struct {
	MaxSpeed      float64 `toml:"max_speed"` // 0 disables; flocking always caps at flocking.max_speed
	PositionScale float64 `toml:"position_scale"`
}

type BoundsConfig struct {
	Kind string  `toml:"kind"` // wrap, bounce, open
	Low  float64 `toml:"low"`
	High float64 `toml:"high"`
	Axes string  `toml:"axes"`
}

type TrailConfig struct {
	Kind      string `toml:"kind"` // ring or grow
	Length    int    `toml:"length"`
	Limit     int    `toml:"limit"`
	Unbounded bool   `toml:"unbounded"`
}

type CameraConfig struct {
	Zoom      float64 `toml:"zoom"`
	Rotate    bool    `toml:"rotate"`
	RotateDeg float64 `toml:"rotate_deg"` // yaw per rotate tick
	Tilt      float64 `toml:"tilt"`       // initial pitch, radians
	// Spring easing of camera moves
	Frequency float64 `toml:"frequency"`
	Damping   float64 `toml:"damping"`
}

type RenderConfig struct {
	Background string `toml:"background"` // black or white
	Trails     string `toml:"trails"`     // none, selected, all
	Axes       bool   `toml:"axes"`
	Dir        string `toml:"dir"` // screenshot directory
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"` // linear gain in (0, 1]
}

type DiagConfig struct {
	SampleEvery int `toml:"sample_every"` // ticks between diagnostic samples
}

// Clone returns an independent copy
func (c *Config) Clone() *Config {
	dup := *c
	dup.Keys = maps.Clone(c.Keys)
	return &dup
}

// Preset returns a fresh preset for the named variant
func Preset(variant string) (*Config, error) {
	switch variant {
	case VariantBoids:
		return Boids(), nil
	case VariantGravity:
		return Gravity(), nil
	case VariantUniverse:
		return Universe(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// Variants lists preset names
func Variants() []string {
	return []string{VariantBoids, VariantGravity, VariantUniverse}
}
