package engine

import (
	"github.com/lixenwraith/particle3d/trail"
	"github.com/lixenwraith/particle3d/vmath"
)

// TrailMode selects which trails published frames carry
type TrailMode uint8

const (
	TrailsNone TrailMode = iota
	TrailsSelected
	TrailsAll
)

// FrameParticle is the read-only per-particle view handed to collaborators
type FrameParticle struct {
	ID       int
	Position vmath.Vec3F
	Velocity vmath.Vec3F
	Accel    vmath.Vec3F
	Color    vmath.Vec3F
	Mass     float64
	Radius   float64
	Selected bool
}

// Frame is an immutable snapshot of one completed tick
// Trails[i] is empty when the trail mode excluded particle i; spans share storage
// with the live histories, which never overwrite published samples
type Frame struct {
	Tick      uint64
	Particles []FrameParticle
	Trails    []trail.Span
}

// Len returns the particle count
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Particles)
}

// Selected returns the particles currently selected, in id order
func (f *Frame) Selected() []FrameParticle {
	if f == nil {
		return nil
	}
	var out []FrameParticle
	for _, p := range f.Particles {
		if p.Selected {
			out = append(out, p)
		}
	}
	return out
}

// Bounds returns the axis-aligned box enclosing all positions
func (f *Frame) Bounds() (lo, hi vmath.Vec3F) {
	if f.Len() == 0 {
		return
	}
	lo, hi = f.Particles[0].Position, f.Particles[0].Position
	for _, p := range f.Particles[1:] {
		lo = vmath.Vec3F{X: min(lo.X, p.Position.X), Y: min(lo.Y, p.Position.Y), Z: min(lo.Z, p.Position.Z)}
		hi = vmath.Vec3F{X: max(hi.X, p.Position.X), Y: max(hi.Y, p.Position.Y), Z: max(hi.Z, p.Position.Z)}
	}
	return lo, hi
}
