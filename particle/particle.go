// Package particle holds the particle record and the store that seeds a
// fixed-size population at startup.
package particle

import (
	"math"

	"github.com/lixenwraith/particle3d/vmath"
)

// Particle is one point mass
// ID is assigned at population time and never changes
type Particle struct {
	ID       int
	Position vmath.Vec3F
	Velocity vmath.Vec3F
	Accel    vmath.Vec3F // last computed acceleration, kept for inspection
	Color    vmath.Vec3F // RGB in [0,1]
	Mass     float64
	Radius   float64
}

// RadiusFromMass derives a sphere radius from mass at constant density
func RadiusFromMass(mass, density float64) float64 {
	return math.Cbrt((3.0 * mass) / (4.0 * math.Pi * density))
}

// Speed returns |velocity|
func (p *Particle) Speed() float64 {
	return vmath.V3FMag(p.Velocity)
}

// KineticEnergy returns 0.5*m*v², mass 0 counts as unit mass
func (p *Particle) KineticEnergy() float64 {
	m := p.Mass
	if m <= 0 {
		m = 1
	}
	return 0.5 * m * vmath.V3FMagSq(p.Velocity)
}
