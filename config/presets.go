package config

func common() Config {
	return Config{
		Clock: ClockConfig{TickMS: 5, RotateMS: 5, FrameMS: 33},
		Camera: CameraConfig{
			Zoom:      600,
			Rotate:    true,
			RotateDeg: -0.2,
			Tilt:      -0.35,
			Frequency: 6,
			Damping:   1,
		},
		Render: RenderConfig{Background: "black", Trails: "selected", Axes: true, Dir: "."},
		Audio:  AudioConfig{Enabled: false, Volume: 0.5},
		Diag:   DiagConfig{SampleEvery: 10},
	}
}

// Boids is the flocking preset: wrap-around cube, short ring trails
func Boids() *Config {
	c := common()
	c.Variant = VariantBoids
	c.Particles = ParticlesConfig{
		Count:         1500,
		SeedPolicy:    "uniform",
		Concentration: 150,
		Radius:        2,
		NoiseScale:    0.02,
	}
	c.Rule = "flocking"
	c.Flocking = FlockingConfig{
		MinPerception:  25,
		MinDistance:    4,
		SeparateFactor: 0.1,
		AlignFactor:    0.01,
		CohesionFactor: 0.01,
		MaxSpeed:       2,
		Clamp:          "zero",
		DiffuseColor:   true,
	}
	c.Integrator = IntegratorConfig{PositionScale: 1}
	c.Bounds = BoundsConfig{Kind: "wrap", Low: -150, High: 150, Axes: "xyz"}
	c.Trail = TrailConfig{Kind: "ring", Length: 50}
	return &c
}

// Gravity is the fountain preset: particles thrown upward fall back to a floor
func Gravity() *Config {
	c := common()
	c.Variant = VariantGravity
	c.Particles = ParticlesConfig{
		Count:         1500,
		SeedPolicy:    "fountain",
		Concentration: 80,
		MinMass:       5,
		MaxMass:       50,
		Density:       1.5,
	}
	c.Rule = "fall"
	c.Fall = FallConfig{G: -9.8, Floor: -150, MinDistance: 2, DiffuseColor: true}
	c.Integrator = IntegratorConfig{PositionScale: 1}
	c.Bounds = BoundsConfig{Kind: "bounce", Low: -150, High: 150, Axes: "xy"}
	c.Trail = TrailConfig{Kind: "ring", Length: 150}
	return &c
}

// Universe is the N-body preset: open space, decimating whole-run trails
func Universe() *Config {
	c := common()
	c.Variant = VariantUniverse
	c.Particles = ParticlesConfig{
		Count:         1000,
		SeedPolicy:    "orbit",
		Concentration: 12,
		MinMass:       1e2,
		MaxMass:       2e9,
		Density:       1e8,
	}
	c.Clock.TickMS = 20
	c.Rule = "gravity"
	c.Gravity = GravityConfig{G: 6.67428e-11, Solver: "direct", Theta: 0.5}
	c.Integrator = IntegratorConfig{PositionScale: 0.01}
	c.Bounds = BoundsConfig{Kind: "open"}
	c.Trail = TrailConfig{Kind: "grow", Limit: 4096}
	c.Camera.Zoom = 300
	c.Camera.Rotate = false
	return &c
}
