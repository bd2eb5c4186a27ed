package particle

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"

	"github.com/lixenwraith/particle3d/vmath"
)

// SeedPolicy produces the initial state of one particle
// Implementations must not rely on call order beyond receiving ids 0..n-1 in sequence
type SeedPolicy interface {
	Name() string
	Seed(id int, rng *rand.Rand) Particle
}

// cubeCoord returns an integer-stepped coordinate in (-concentration, concentration)
func cubeCoord(rng *rand.Rand, concentration int) float64 {
	if concentration <= 0 {
		return 0
	}
	v := float64(rng.IntN(concentration))
	if rng.IntN(2) == 1 {
		v = -v
	}
	return v
}

func cubePosition(rng *rand.Rand, concentration int) vmath.Vec3F {
	return vmath.Vec3F{
		X: cubeCoord(rng, concentration),
		Y: cubeCoord(rng, concentration),
		Z: cubeCoord(rng, concentration),
	}
}

func randomColor(rng *rand.Rand) vmath.Vec3F {
	return vmath.Vec3F{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
}

func rangeRandom(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Uniform seeds boids: cube positions, velocity in [-maxSpeed/2, maxSpeed/2] per axis
type Uniform struct {
	Concentration int
	MaxSpeed      float64
	Radius        float64
}

func (u Uniform) Name() string { return "uniform" }

func (u Uniform) Seed(id int, rng *rand.Rand) Particle {
	v := u.MaxSpeed / 2.0
	return Particle{
		ID:       id,
		Color:    randomColor(rng),
		Position: cubePosition(rng, u.Concentration),
		Velocity: vmath.Vec3F{
			X: rangeRandom(rng, -v, v),
			Y: rangeRandom(rng, -v, v),
			Z: rangeRandom(rng, -v, v),
		},
		Mass:   1,
		Radius: u.Radius,
	}
}

// Fountain seeds particles thrown upward with a small lateral spread
type Fountain struct {
	Concentration    int
	MinMass, MaxMass float64
	Density          float64
}

func (f Fountain) Name() string { return "fountain" }

func (f Fountain) Seed(id int, rng *rand.Rand) Particle {
	mass := rangeRandom(rng, f.MinMass, f.MaxMass)
	return Particle{
		ID:       id,
		Color:    randomColor(rng),
		Position: cubePosition(rng, f.Concentration),
		Velocity: vmath.Vec3F{
			X: rangeRandom(rng, -0.4, 0.4),
			Y: rangeRandom(rng, -0.4, 0.4),
			Z: rangeRandom(rng, 0.5, 0.8),
		},
		Mass:   mass,
		Radius: RadiusFromMass(mass, f.Density),
	}
}

// OrbitAngle is the xy rotation applied to positions to obtain initial velocities
var OrbitAngle = math.Sqrt2 / 2.0

// Orbit seeds a rotating cloud: velocity is the position turned by OrbitAngle in the xy plane
type Orbit struct {
	Concentration    int
	MinMass, MaxMass float64
	Density          float64
}

func (o Orbit) Name() string { return "orbit" }

func (o Orbit) Seed(id int, rng *rand.Rand) Particle {
	pos := cubePosition(rng, o.Concentration)
	vel := vmath.V3FRotateZ(vmath.Vec3F{X: pos.X, Y: pos.Y}, OrbitAngle)
	vel.Z = rng.Float64()
	mass := rangeRandom(rng, o.MinMass, o.MaxMass)
	return Particle{
		ID:       id,
		Color:    randomColor(rng),
		Position: pos,
		Velocity: vel,
		Mass:     mass,
		Radius:   RadiusFromMass(mass, o.Density),
	}
}

// Noise seeds boids with headings sampled from a Perlin field
// Nearby particles start with similar velocities, giving early coherent streams
type Noise struct {
	Uniform
	Scale float64 // spatial frequency of the field
	field *perlin.Perlin
}

// NewNoise builds a noise seed policy, fieldSeed fixes the Perlin permutation
func NewNoise(u Uniform, scale float64, fieldSeed int64) *Noise {
	if scale <= 0 {
		scale = 0.02
	}
	return &Noise{
		Uniform: u,
		Scale:   scale,
		field:   perlin.NewPerlin(2, 2, 3, fieldSeed),
	}
}

func (n *Noise) Name() string { return "noise" }

func (n *Noise) Seed(id int, rng *rand.Rand) Particle {
	p := n.Uniform.Seed(id, rng)
	x, y, z := p.Position.X*n.Scale, p.Position.Y*n.Scale, p.Position.Z*n.Scale
	// Offset samples per axis so the three components decorrelate
	dir := vmath.Vec3F{
		X: n.field.Noise3D(x, y, z),
		Y: n.field.Noise3D(x+31.7, y+11.3, z+7.1),
		Z: n.field.Noise3D(x+5.9, y+47.2, z+23.8),
	}
	p.Velocity = vmath.V3FScale(vmath.V3FNormalize(dir), n.MaxSpeed/2.0)
	return p
}
