// Package trail keeps per-particle position history for trail rendering.
//
// Two policies exist and are intentionally kept distinct:
//   - Ring: fixed capacity, the oldest sample is evicted once full
//   - Growing: one sample per push for the whole run; an optional limit
//     halves the resolution when reached instead of evicting
package trail

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/particle3d/vmath"
)

// History is an ordered, oldest-first sequence of positions
type History interface {
	Push(p vmath.Vec3F)
	Len() int
	// Span returns a view of the current samples that later pushes never modify
	Span() Span
	// Last returns the newest sample, ok is false when empty
	Last() (vmath.Vec3F, bool)
}

// Span is a read-only, oldest-first view of a history at one point in time
// Body shares storage with the history; Tip is the newest sample when it is not part of Body
type Span struct {
	Body   []vmath.Vec3F
	Tip    vmath.Vec3F
	HasTip bool
}

func (s Span) Len() int {
	if s.HasTip {
		return len(s.Body) + 1
	}
	return len(s.Body)
}

// At returns sample i, 0 being the oldest
func (s Span) At(i int) vmath.Vec3F {
	if i < len(s.Body) {
		return s.Body[i]
	}
	return s.Tip
}

// AppendTo appends samples oldest-first to dst and returns the extended slice
func (s Span) AppendTo(dst []vmath.Vec3F) []vmath.Vec3F {
	dst = append(dst, s.Body...)
	if s.HasTip {
		dst = append(dst, s.Tip)
	}
	return dst
}

// Kind selects a history policy
type Kind string

const (
	KindRing    Kind = "ring"
	KindGrowing Kind = "grow"
)

// MinGrowingLimit is the smallest cap a growing history accepts
const MinGrowingLimit = 4

// ErrPolicy reports an unusable history policy
var ErrPolicy = errors.New("invalid trail policy")

// Policy describes how histories are built for a run
type Policy struct {
	Kind      Kind
	Length    int  // ring capacity
	Limit     int  // growing cap, <= 0 means unbounded
	Unbounded bool // explicit opt-in for a growing history without a cap
}

// Validate checks the policy can be instantiated
func (p Policy) Validate() error {
	switch p.Kind {
	case KindRing:
		if p.Length <= 0 {
			return fmt.Errorf("%w: ring length %d must be positive", ErrPolicy, p.Length)
		}
	case KindGrowing:
		if p.Limit <= 0 && !p.Unbounded {
			return fmt.Errorf("%w: growing history needs a positive limit or unbounded opt-in", ErrPolicy)
		}
		if p.Limit > 0 && p.Limit < MinGrowingLimit {
			return fmt.Errorf("%w: growing limit %d below %d", ErrPolicy, p.Limit, MinGrowingLimit)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrPolicy, p.Kind)
	}
	return nil
}

// New returns an empty history for the policy
func (p Policy) New() (History, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Kind == KindRing {
		return NewRing(p.Length), nil
	}
	limit := p.Limit
	if p.Unbounded {
		limit = 0
	}
	return NewGrowing(limit), nil
}
