package physics

import (
	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/vmath"
)

// Integrator advances one particle after its rule has run
type Integrator struct {
	MaxSpeed      float64 // speed clamp, 0 disables
	PositionScale float64 // position += velocity * PositionScale, 0 is treated as 1
	Boundary      Boundary
}

// Step integrates p in place
// velocityIntegrated skips v += a for rules that already updated velocity
func (it Integrator) Step(p *particle.Particle, velocityIntegrated bool) {
	if !velocityIntegrated {
		p.Velocity = vmath.V3FAdd(p.Velocity, p.Accel)
	}
	if it.MaxSpeed > 0 {
		p.Velocity = vmath.V3FLimit(p.Velocity, it.MaxSpeed)
	}

	scale := it.PositionScale
	if scale == 0 {
		scale = 1
	}
	p.Position = vmath.V3FAdd(p.Position, vmath.V3FScale(p.Velocity, scale))

	if it.Boundary != nil {
		it.Boundary.Apply(p)
	}
}
