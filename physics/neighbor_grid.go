package physics

import (
	"math"

	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/vmath"
)

// MaxGridAxis bounds the cell count per axis, wide clouds get wider cells instead
const MaxGridAxis = 64

// NeighborGrid is a dense 3D bucket grid over snapshot indices for fixed-radius queries
// Cells are never narrower than the query radius so a query visits at most 27 cells
// Built once per tick before Apply, then read concurrently without locking
type NeighborGrid struct {
	size       float64 // cell edge
	origin     vmath.Vec3F
	nx, ny, nz int

	// cell c holds items[start[c]:start[c+1]], ascending index order
	start []int32
	items []int32
	next  []int32 // fill cursor, reused

	base *particle.Particle // first element of the snapshot it was built from
	n    int
}

// Build rebuckets cur for queries up to radius
// Non-finite positions or radius leave the grid empty and Covers reports false
func (g *NeighborGrid) Build(cur []particle.Particle, radius float64) {
	g.base, g.n = nil, 0
	if len(cur) == 0 || !(radius > 0) || math.IsInf(radius, 0) {
		return
	}

	lo, hi := cur[0].Position, cur[0].Position
	for i := range cur {
		p := cur[i].Position
		if !vmath.V3FIsFinite(p) {
			return
		}
		lo = vmath.Vec3F{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = vmath.Vec3F{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	ext := vmath.V3FSub(hi, lo)
	widest := max(ext.X, ext.Y, ext.Z)
	if math.IsInf(widest, 0) {
		return
	}

	g.size = max(radius, widest/(MaxGridAxis-1))
	g.origin = lo
	g.nx = int(ext.X/g.size) + 1
	g.ny = int(ext.Y/g.size) + 1
	g.nz = int(ext.Z/g.size) + 1

	cells := g.nx * g.ny * g.nz
	g.start = resize(g.start, cells+1)
	clear(g.start)
	g.items = resize(g.items, len(cur))
	g.next = resize(g.next, cells)

	for i := range cur {
		g.start[g.cellOf(cur[i].Position)+1]++
	}
	for c := range cells {
		g.start[c+1] += g.start[c]
	}
	copy(g.next, g.start[:cells])
	for i := range cur {
		c := g.cellOf(cur[i].Position)
		g.items[g.next[c]] = int32(i)
		g.next[c]++
	}

	g.base, g.n = &cur[0], len(cur)
}

// Covers reports whether the grid was built from this snapshot slice
// Identity is the backing array and length, so in-place position changes go unnoticed
// until the next Build
func (g *NeighborGrid) Covers(cur []particle.Particle) bool {
	return g.n > 0 && g.n == len(cur) && g.base == &cur[0]
}

// Each calls fn with every index bucketed within one cell of p, a superset of the
// indices within the build radius of p
func (g *NeighborGrid) Each(p vmath.Vec3F, fn func(j int)) {
	ix, iy, iz := g.coords(p)
	for z := max(iz-1, 0); z <= min(iz+1, g.nz-1); z++ {
		for y := max(iy-1, 0); y <= min(iy+1, g.ny-1); y++ {
			row := (z*g.ny + y) * g.nx
			for x := max(ix-1, 0); x <= min(ix+1, g.nx-1); x++ {
				c := row + x
				for _, j := range g.items[g.start[c]:g.start[c+1]] {
					fn(int(j))
				}
			}
		}
	}
}

func (g *NeighborGrid) coords(p vmath.Vec3F) (int, int, int) {
	return axisCell(p.X-g.origin.X, g.size, g.nx),
		axisCell(p.Y-g.origin.Y, g.size, g.ny),
		axisCell(p.Z-g.origin.Z, g.size, g.nz)
}

func (g *NeighborGrid) cellOf(p vmath.Vec3F) int {
	x, y, z := g.coords(p)
	return (z*g.ny+y)*g.nx + x
}

func axisCell(offset, size float64, n int) int {
	c := int(offset / size)
	return max(0, min(c, n-1))
}

func resize(s []int32, n int) []int32 {
	if cap(s) < n {
		return make([]int32, n)
	}
	return s[:n]
}
