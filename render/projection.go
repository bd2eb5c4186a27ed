package render

import (
	"math"

	"github.com/lixenwraith/particle3d/vmath"
)

// View is the camera state needed to project world points
// World z is up; after rotation the view looks along +y
type View struct {
	Yaw   float64 // about world z, radians
	Pitch float64 // about view x, radians
	Zoom  float64 // camera distance from the origin
	PanX  float64
	PanY  float64
}

// tanHalfFOV fixes a 60° vertical field of view
var tanHalfFOV = math.Tan(math.Pi / 6)

const nearPlane = 1.0

// Viewport maps projected coordinates onto a surface
type Viewport struct {
	Width, Height int
	// CellAspect is the height/width ratio of one cell, 2 for terminals, 1 for images
	CellAspect float64
}

// Projected is a world point mapped to surface coordinates
type Projected struct {
	X, Y  float64 // surface position, cells or pixels
	Depth float64 // distance along the view axis, larger is farther
	Scale float64 // surface units per world unit at this depth (vertical)
}

// Project maps p through v onto vp, ok is false behind the near plane
func (v View) Project(p vmath.Vec3F, vp Viewport) (Projected, bool) {
	r := vmath.V3FRotateX(vmath.V3FRotateZ(p, v.Yaw), v.Pitch)

	denom := r.Y + v.Zoom
	if denom < nearPlane {
		return Projected{}, false
	}

	aspect := vp.CellAspect
	if aspect <= 0 {
		aspect = 1
	}
	k := float64(vp.Height) / (2 * tanHalfFOV * denom)

	return Projected{
		X:     float64(vp.Width)/2 + (r.X+v.PanX)*k*aspect,
		Y:     float64(vp.Height)/2 - (r.Z+v.PanY)*k,
		Depth: denom,
		Scale: k,
	}, true
}

// Visible reports whether a projected point lands on the surface
func (p Projected) Visible(vp Viewport) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(vp.Width) && p.Y < float64(vp.Height)
}

// cubeEdges lists the 12 edges of a cube as corner index pairs, corner bits are x,y,z
var cubeEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along x
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along z
}

func cubeCorner(i int, lo, hi float64) vmath.Vec3F {
	pick := func(bit int) float64 {
		if i&bit != 0 {
			return hi
		}
		return lo
	}
	return vmath.Vec3F{X: pick(1), Y: pick(2), Z: pick(4)}
}

// line visits integer points from (x0,y0) to (x1,y1) by Bresenham, stopping after limit steps
func line(x0, y0, x1, y1, limit int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for n := 0; n <= limit; n++ {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
