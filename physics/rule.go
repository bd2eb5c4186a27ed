// Package physics computes per-particle accelerations from a read-only
// snapshot and integrates them into velocity and position.
package physics

import (
	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/vmath"
)

// Rule computes one particle's next state from the previous-tick snapshot
// Apply may run concurrently for different i: it must only read cur and only write out
type Rule interface {
	Name() string
	// Prepare runs once per tick on the full snapshot before any Apply
	Prepare(cur []particle.Particle) error
	// Apply writes the rule result for cur[i] into out, which starts as a copy of cur[i]
	Apply(cur []particle.Particle, i int, out *particle.Particle)
	// IntegratesVelocity reports that Apply already folded the acceleration into out.Velocity
	IntegratesVelocity() bool
}

// MeanColor averages neighbour colours strictly within radius and normalizes the result
// With no neighbour the particle keeps its own colour
func MeanColor(cur []particle.Particle, i int, radius float64) vmath.Vec3F {
	self := &cur[i]
	var sum vmath.Vec3F
	n := 0
	for j := range cur {
		d := vmath.V3FDist(self.Position, cur[j].Position)
		if d > 0 && d < radius {
			sum = vmath.V3FAdd(sum, cur[j].Color)
			n++
		}
	}
	if n == 0 {
		return self.Color
	}
	return vmath.V3FNormalize(vmath.V3FDiv(sum, float64(n)))
}
