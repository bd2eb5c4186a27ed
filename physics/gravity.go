package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/vmath"
)

// Solver selects how gravitational sums are evaluated
type Solver string

const (
	// SolverDirect visits every pair, O(N²)
	SolverDirect Solver = "direct"
	// SolverBarnesHut approximates distant groups by their centre of mass
	SolverBarnesHut Solver = "barneshut"
)

// Gravity applies pairwise Newtonian attraction with distance softening
// The velocity is updated inside Apply: after the scan out.Velocity already
// carries this tick's contribution and the integrator only moves the particle
type Gravity struct {
	G      float64
	Solver Solver
	Theta  float64 // Barnes-Hut opening angle, 0 falls back to the direct scan

	points []massPoint
	volume *barneshut.Volume
}

func (g *Gravity) Name() string { return "gravity" }

func (g *Gravity) IntegratesVelocity() bool { return true }

func (g *Gravity) usesTree() bool {
	return g.Solver == SolverBarnesHut && g.Theta > 0
}

func (g *Gravity) Prepare(cur []particle.Particle) error {
	if !g.usesTree() {
		g.volume = nil
		return nil
	}

	if cap(g.points) < len(cur) {
		g.points = make([]massPoint, len(cur))
	}
	g.points = g.points[:len(cur)]
	bodies := make([]barneshut.Particle3, len(cur))
	for i := range cur {
		p := &cur[i]
		g.points[i] = massPoint{
			id:     p.ID,
			pos:    r3.Vec{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z},
			mass:   p.Mass,
			radius: p.Radius,
		}
		bodies[i] = &g.points[i]
	}

	volume, err := barneshut.NewVolume(bodies)
	if err != nil {
		return fmt.Errorf("gravity: build tree: %w", err)
	}
	g.volume = volume
	return nil
}

func (g *Gravity) Apply(cur []particle.Particle, i int, out *particle.Particle) {
	var acc vmath.Vec3F
	if g.volume != nil {
		f := g.volume.ForceOn(&g.points[i], g.Theta, g.softened)
		acc = vmath.Vec3F{X: f.X, Y: f.Y, Z: f.Z}
	} else {
		acc = g.direct(cur, i)
	}

	out.Accel = acc
	out.Velocity = vmath.V3FAdd(cur[i].Velocity, acc)
}

// direct sums every other particle, excluding self by id rather than by index
func (g *Gravity) direct(cur []particle.Particle, i int) vmath.Vec3F {
	self := &cur[i]
	var acc vmath.Vec3F
	for j := range cur {
		if cur[j].ID == self.ID {
			continue
		}
		acc = vmath.V3FAdd(acc, PairAccel(self, &cur[j], g.G))
	}
	return acc
}

// PairAccel returns the acceleration of a caused by b
// Separation below the sum of radii is floored to that sum so overlapping
// bodies never produce unbounded forces
func PairAccel(a, b *particle.Particle, G float64) vmath.Vec3F {
	d := vmath.V3FSub(b.Position, a.Position)
	dist := vmath.V3FMag(d)
	if radiusSum := a.Radius + b.Radius; dist < radiusSum {
		dist = radiusSum
	}
	if dist == 0 {
		return vmath.Vec3F{}
	}
	f := G * b.Mass / (dist * dist)
	return vmath.V3FScale(d, f/dist)
}

// softened is the Barnes-Hut force function, returns acceleration on p1
// p2 is nil when the tree approximates a whole cell by its centre of mass;
// only the receiving radius softens those interactions
func (g *Gravity) softened(p1, p2 barneshut.Particle3, _, m2 float64, v r3.Vec) r3.Vec {
	a := p1.(*massPoint)
	soft := a.radius
	if p2 != nil {
		b := p2.(*massPoint)
		if b.id == a.id {
			return r3.Vec{}
		}
		soft += b.radius
	}

	dist := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if dist < soft {
		dist = soft
	}
	if dist == 0 {
		return r3.Vec{}
	}
	f := g.G * m2 / (dist * dist) / dist
	return r3.Vec{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// massPoint adapts a particle to barneshut.Particle3
type massPoint struct {
	id     int
	pos    r3.Vec
	mass   float64
	radius float64
}

func (m *massPoint) Coord3() r3.Vec { return m.pos }
func (m *massPoint) Mass() float64  { return m.mass }
