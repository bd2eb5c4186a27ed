package render

import (
	"math"

	"github.com/lixenwraith/particle3d/engine"
)

// Pick returns the id of the particle projected nearest to (x, y) within maxDist rows
// Horizontal distance is divided by the cell aspect so the pick region is round on screen
// Ties go to the particle nearest the camera
func Pick(f *engine.Frame, view View, vp Viewport, x, y int, maxDist float64) (int, bool) {
	aspect := vp.CellAspect
	if aspect <= 0 {
		aspect = 1
	}
	cx, cy := float64(x)+0.5, float64(y)+0.5

	best, bestDist, bestDepth := -1, math.Inf(1), math.Inf(1)
	for i := range f.Particles {
		p, ok := view.Project(f.Particles[i].Position, vp)
		if !ok {
			continue
		}
		dx := (p.X - cx) / aspect
		dy := p.Y - cy
		d := math.Hypot(dx, dy)
		if d > maxDist {
			continue
		}
		if d < bestDist || (d == bestDist && p.Depth < bestDepth) {
			best, bestDist, bestDepth = f.Particles[i].ID, d, p.Depth
		}
	}
	return best, best >= 0
}
