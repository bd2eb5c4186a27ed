package trail

import "github.com/lixenwraith/particle3d/vmath"

// Growing records one sample per push for the lifetime of the run
// With limit 0 memory grows linearly with elapsed ticks
// Retained samples are append-only between decimations, so spans are shared, never copied
// With a limit, reaching it drops every other sample and doubles the stride so the
// trail keeps spanning the whole run at lower resolution; the newest position is
// always visible as the tip
type Growing struct {
	samples []vmath.Vec3F
	limit   int
	stride  int // pushes represented by one retained sample
	pending int // pushes since the last retained sample
	tip     vmath.Vec3F
	hasTip  bool
}

// NewGrowing returns a growing history, limit <= 0 disables the cap
func NewGrowing(limit int) *Growing {
	if limit < 0 {
		limit = 0
	}
	return &Growing{limit: limit, stride: 1}
}

// Stride returns how many pushes one retained sample currently stands for
func (g *Growing) Stride() int {
	return g.stride
}

func (g *Growing) Push(p vmath.Vec3F) {
	g.pending++
	if g.pending < g.stride {
		g.tip, g.hasTip = p, true
		return
	}
	g.pending = 0
	g.hasTip = false

	// One slot stays reserved for the tip
	if g.limit > 0 && len(g.samples) >= g.limit-1 {
		g.decimate()
	}
	g.samples = append(g.samples, p)
}

// decimate keeps even-indexed samples and doubles the stride
// The survivors go to a new buffer sized for the limit; the old one may back published spans
func (g *Growing) decimate() {
	kept := make([]vmath.Vec3F, 0, g.limit)
	for i := 0; i < len(g.samples); i += 2 {
		kept = append(kept, g.samples[i])
	}
	g.samples = kept
	g.stride *= 2
}

func (g *Growing) Len() int {
	if g.hasTip {
		return len(g.samples) + 1
	}
	return len(g.samples)
}

// Span shares the retained samples, appends only write past the shared length
func (g *Growing) Span() Span {
	n := len(g.samples)
	return Span{Body: g.samples[:n:n], Tip: g.tip, HasTip: g.hasTip}
}

func (g *Growing) Last() (vmath.Vec3F, bool) {
	if g.hasTip {
		return g.tip, true
	}
	if len(g.samples) == 0 {
		return vmath.Vec3F{}, false
	}
	return g.samples[len(g.samples)-1], true
}
