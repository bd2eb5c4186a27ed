package physics

import (
	"fmt"

	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/vmath"
)

// ClampMode selects how steering vectors are bounded by their factor
type ClampMode string

const (
	// ClampZero drops steering within the factor entirely (V3FClampMagnitude)
	ClampZero ClampMode = "zero"
	// ClampLimit caps steering at the factor and keeps weaker steering (V3FLimit)
	ClampLimit ClampMode = "limit"
)

// Flocking steers boids by separation, alignment and cohesion
type Flocking struct {
	MinPerception  float64 // alignment and cohesion radius
	MinDistance    float64 // separation and colour diffusion radius
	SeparateFactor float64
	AlignFactor    float64
	CohesionFactor float64
	MaxSpeed       float64
	Clamp          ClampMode
	DiffuseColor   bool

	grid NeighborGrid
}

// neighborhood accumulates the three steering inputs in one scan
type neighborhood struct {
	away      vmath.Vec3F // sum of normalize(pos_i - pos_j) / d within MinDistance
	awayCount int
	heading   vmath.Vec3F // sum of neighbour velocities within MinPerception
	center    vmath.Vec3F // sum of neighbour positions within MinPerception
	nearCount int
}

func (f *Flocking) Name() string { return "flocking" }

func (f *Flocking) Prepare(cur []particle.Particle) error {
	if f.MaxSpeed <= 0 {
		return fmt.Errorf("flocking: max speed %g must be positive", f.MaxSpeed)
	}
	f.grid.Build(cur, max(f.MinPerception, f.MinDistance))
	return nil
}

func (f *Flocking) IntegratesVelocity() bool { return false }

func (f *Flocking) Apply(cur []particle.Particle, i int, out *particle.Particle) {
	self := &cur[i]
	n := f.scan(cur, i)

	acc := f.separation(self, &n)
	acc = vmath.V3FAdd(acc, f.alignment(self, &n))
	acc = vmath.V3FAdd(acc, f.cohesion(self, &n))
	out.Accel = acc

	if f.DiffuseColor {
		out.Color = f.meanColor(cur, i)
	}
}

// Separation returns the crowd-avoidance steering for cur[i]
// The steering helpers scan every particle and never depend on Prepare
func (f *Flocking) Separation(cur []particle.Particle, i int) vmath.Vec3F {
	n := f.scanWith(cur, i, scanAll)
	return f.separation(&cur[i], &n)
}

// Alignment returns the heading-matching steering for cur[i]
func (f *Flocking) Alignment(cur []particle.Particle, i int) vmath.Vec3F {
	n := f.scanWith(cur, i, scanAll)
	return f.alignment(&cur[i], &n)
}

// Cohesion returns the steering toward the local centre for cur[i]
func (f *Flocking) Cohesion(cur []particle.Particle, i int) vmath.Vec3F {
	n := f.scanWith(cur, i, scanAll)
	return f.cohesion(&cur[i], &n)
}

// neighbors visits candidate neighbours of cur[i] through the grid when it was built
// for cur, otherwise every particle
// The grid matches cur by identity only: positions changed in place after Prepare
// need another Prepare before Apply
func (f *Flocking) neighbors(cur []particle.Particle, i int, fn func(j int)) {
	if f.grid.Covers(cur) {
		f.grid.Each(cur[i].Position, fn)
		return
	}
	scanAll(cur, i, fn)
}

func scanAll(cur []particle.Particle, _ int, fn func(j int)) {
	for j := range cur {
		fn(j)
	}
}

func (f *Flocking) scan(cur []particle.Particle, i int) neighborhood {
	return f.scanWith(cur, i, f.neighbors)
}

func (f *Flocking) scanWith(cur []particle.Particle, i int, visit func([]particle.Particle, int, func(int))) neighborhood {
	var n neighborhood
	self := &cur[i]
	visit(cur, i, func(j int) {
		other := &cur[j]
		d := vmath.V3FDist(self.Position, other.Position)
		if d <= 0 {
			return
		}
		if d < f.MinDistance {
			diff := vmath.V3FNormalize(vmath.V3FSub(self.Position, other.Position))
			n.away = vmath.V3FAdd(n.away, vmath.V3FDiv(diff, d))
			n.awayCount++
		}
		if d < f.MinPerception {
			n.heading = vmath.V3FAdd(n.heading, other.Velocity)
			n.center = vmath.V3FAdd(n.center, other.Position)
			n.nearCount++
		}
	})
	return n
}

// meanColor is MeanColor over grid candidates
func (f *Flocking) meanColor(cur []particle.Particle, i int) vmath.Vec3F {
	self := &cur[i]
	var sum vmath.Vec3F
	n := 0
	f.neighbors(cur, i, func(j int) {
		d := vmath.V3FDist(self.Position, cur[j].Position)
		if d > 0 && d < f.MinDistance {
			sum = vmath.V3FAdd(sum, cur[j].Color)
			n++
		}
	})
	if n == 0 {
		return self.Color
	}
	return vmath.V3FNormalize(vmath.V3FDiv(sum, float64(n)))
}

func (f *Flocking) clamp(v vmath.Vec3F, factor float64) vmath.Vec3F {
	if f.Clamp == ClampLimit {
		return vmath.V3FLimit(v, factor)
	}
	return vmath.V3FClampMagnitude(v, factor)
}

// steer turns a desired direction into a velocity correction bounded by factor
func (f *Flocking) steer(self *particle.Particle, desired vmath.Vec3F, factor float64) vmath.Vec3F {
	desired = vmath.V3FScale(vmath.V3FNormalize(desired), f.MaxSpeed)
	return f.clamp(vmath.V3FSub(desired, self.Velocity), factor)
}

func (f *Flocking) separation(self *particle.Particle, n *neighborhood) vmath.Vec3F {
	if n.awayCount == 0 {
		return vmath.Vec3F{}
	}
	avg := vmath.V3FDiv(n.away, float64(n.awayCount))
	// Symmetric crowding cancels out and yields no steering at all
	if vmath.V3FMag(avg) == 0 {
		return vmath.Vec3F{}
	}
	return f.steer(self, avg, f.SeparateFactor)
}

func (f *Flocking) alignment(self *particle.Particle, n *neighborhood) vmath.Vec3F {
	if n.nearCount == 0 {
		return vmath.Vec3F{}
	}
	return f.steer(self, vmath.V3FDiv(n.heading, float64(n.nearCount)), f.AlignFactor)
}

func (f *Flocking) cohesion(self *particle.Particle, n *neighborhood) vmath.Vec3F {
	if n.nearCount == 0 {
		return vmath.Vec3F{}
	}
	centre := vmath.V3FDiv(n.center, float64(n.nearCount))
	return f.steer(self, vmath.V3FSub(centre, self.Position), f.CohesionFactor)
}
