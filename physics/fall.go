package physics

import (
	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/vmath"
)

// Fall pulls every particle toward a horizontal floor at z = Floor
// The pull is G*mass/h² with h the height above the floor; G is negative for a downward pull
// A particle at or below the floor is pinned to it with zero vertical speed
type Fall struct {
	G            float64
	Floor        float64
	MinDistance  float64 // colour diffusion radius
	DiffuseColor bool
}

func (f *Fall) Name() string { return "fall" }

func (f *Fall) Prepare(cur []particle.Particle) error { return nil }

func (f *Fall) IntegratesVelocity() bool { return false }

func (f *Fall) Apply(cur []particle.Particle, i int, out *particle.Particle) {
	if f.DiffuseColor {
		out.Color = MeanColor(cur, i, f.MinDistance)
	}

	self := &cur[i]
	height := self.Position.Z - f.Floor
	if height > 0 {
		out.Accel = vmath.Vec3F{Z: f.G * self.Mass / (height * height)}
		return
	}

	out.Accel = vmath.Vec3F{}
	out.Position.Z = f.Floor
	out.Velocity.Z = 0
}
