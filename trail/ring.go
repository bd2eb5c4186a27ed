package trail

import "github.com/lixenwraith/particle3d/vmath"

// Ring is a fixed-capacity FIFO of positions
// Samples occupy a sliding window of a buffer twice the capacity. When the window
// reaches the end, the live samples move to a fresh buffer, so a slot is written at
// most once and spans taken earlier stay valid. Push is O(1) amortized
type Ring struct {
	buf        []vmath.Vec3F
	capacity   int
	start, end int // live window buf[start:end]
}

// NewRing allocates a ring holding at most capacity samples
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]vmath.Vec3F, 2*capacity), capacity: capacity}
}

// Cap returns the fixed capacity
func (r *Ring) Cap() int {
	return r.capacity
}

// Push appends p, evicting the oldest sample once full
func (r *Ring) Push(p vmath.Vec3F) {
	if r.end == len(r.buf) {
		fresh := make([]vmath.Vec3F, len(r.buf))
		r.end = copy(fresh, r.buf[r.start:r.end])
		r.start = 0
		r.buf = fresh
	}
	r.buf[r.end] = p
	r.end++
	if r.end-r.start > r.capacity {
		r.start++
	}
}

func (r *Ring) Len() int {
	return r.end - r.start
}

func (r *Ring) Span() Span {
	return Span{Body: r.buf[r.start:r.end:r.end]}
}

func (r *Ring) Last() (vmath.Vec3F, bool) {
	if r.end == r.start {
		return vmath.Vec3F{}, false
	}
	return r.buf[r.end-1], true
}
