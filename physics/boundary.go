package physics

import (
	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/vmath"
)

// Boundary keeps particles inside the simulation volume after they move
type Boundary interface {
	Name() string
	Apply(p *particle.Particle)
}

// Axes masks which axes a boundary acts on, index 0=X 1=Y 2=Z
type Axes [3]bool

// AllAxes enables X, Y and Z
var AllAxes = Axes{true, true, true}

// ParseAxes builds a mask from letters such as "xyz" or "xy"
func ParseAxes(s string) (Axes, bool) {
	var a Axes
	for _, r := range s {
		switch r {
		case 'x', 'X':
			a[0] = true
		case 'y', 'Y':
			a[1] = true
		case 'z', 'Z':
			a[2] = true
		default:
			return Axes{}, false
		}
	}
	return a, true
}

// Bounce reverses the velocity component on an axis whose position left [Low, High)
// Position is not corrected: the particle travels back on following ticks
type Bounce struct {
	Low, High float64
	Axes      Axes
}

func (b Bounce) Name() string { return "bounce" }

func (b Bounce) Apply(p *particle.Particle) {
	for axis, on := range b.Axes {
		if !on {
			continue
		}
		pos := vmath.V3FAxis(p.Position, axis)
		if pos >= b.High || pos < b.Low {
			p.Velocity = vmath.V3FSetAxis(p.Velocity, axis, -vmath.V3FAxis(p.Velocity, axis))
		}
	}
}

// Wrap teleports a particle to the opposite face when it crosses a limit
// Velocity is unchanged
type Wrap struct {
	Low, High float64
	Axes      Axes
}

func (w Wrap) Name() string { return "wrap" }

func (w Wrap) Apply(p *particle.Particle) {
	for axis, on := range w.Axes {
		if !on {
			continue
		}
		pos := vmath.V3FAxis(p.Position, axis)
		switch {
		case pos > w.High:
			p.Position = vmath.V3FSetAxis(p.Position, axis, w.Low)
		case pos < w.Low:
			p.Position = vmath.V3FSetAxis(p.Position, axis, w.High)
		}
	}
}

// Open applies no boundary
type Open struct{}

func (Open) Name() string { return "open" }

func (Open) Apply(*particle.Particle) {}
