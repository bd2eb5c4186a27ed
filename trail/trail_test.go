package trail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/particle3d/vmath"
)

func sample(i int) vmath.Vec3F {
	return vmath.Vec3F{X: float64(i), Y: float64(-i), Z: float64(i * 2)}
}

func TestRing_FillsThenEvictsOldest(t *testing.T) {
	const k = 5
	for _, pushes := range []int{1, 4, 5, 6, 13, 100} {
		r := NewRing(k)
		for i := 0; i < pushes; i++ {
			r.Push(sample(i))
		}

		want := min(pushes, k)
		require.Equal(t, want, r.Len(), "pushes=%d", pushes)

		got := r.Span().AppendTo(nil)
		require.Len(t, got, want)
		// Most recent samples, oldest first
		for j, p := range got {
			assert.Equal(t, sample(pushes-want+j), p, "pushes=%d idx=%d", pushes, j)
		}

		last, ok := r.Last()
		require.True(t, ok)
		assert.Equal(t, sample(pushes-1), last)
	}
}

func TestRing_MatchesShiftBuffer(t *testing.T) {
	// Reference: shift left by one and append once full
	const k = 7
	ref := make([]vmath.Vec3F, 0, k)
	r := NewRing(k)
	for i := 0; i < 50; i++ {
		p := sample(i)
		if len(ref) < k {
			ref = append(ref, p)
		} else {
			copy(ref, ref[1:])
			ref[k-1] = p
		}
		r.Push(p)
		assert.Equal(t, ref, r.Span().AppendTo(nil), "tick %d", i)
	}
}

func TestRing_AppendToPreservesPrefix(t *testing.T) {
	r := NewRing(3)
	r.Push(sample(1))
	prefix := []vmath.Vec3F{sample(99)}
	out := r.Span().AppendTo(prefix)
	assert.Equal(t, []vmath.Vec3F{sample(99), sample(1)}, out)
}

func TestRing_Empty(t *testing.T) {
	r := NewRing(0)
	assert.Equal(t, 1, r.Cap())
	assert.Equal(t, 0, r.Len())
	_, ok := r.Last()
	assert.False(t, ok)
	assert.Empty(t, r.Span().AppendTo(nil))
}

func TestGrowing_Unbounded(t *testing.T) {
	g := NewGrowing(0)
	for i := 0; i < 1000; i++ {
		g.Push(sample(i))
		require.Equal(t, i+1, g.Len())
	}
	got := g.Span().AppendTo(nil)
	assert.Equal(t, sample(0), got[0])
	assert.Equal(t, sample(999), got[999])
	assert.Equal(t, 1, g.Stride())
}

func TestGrowing_LimitDecimates(t *testing.T) {
	const limit = 16
	g := NewGrowing(limit)
	for i := 0; i < 5000; i++ {
		g.Push(sample(i))
		require.LessOrEqual(t, g.Len(), limit, "push %d", i)

		last, ok := g.Last()
		require.True(t, ok)
		require.Equal(t, sample(i), last, "newest must be visible")
	}

	got := g.Span().AppendTo(nil)
	// First sample survives every decimation
	assert.Equal(t, sample(0), got[0])
	assert.Greater(t, g.Stride(), 1)

	// Chronological order
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].X, got[i-1].X)
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"ring", Policy{Kind: KindRing, Length: 50}, false},
		{"ring zero", Policy{Kind: KindRing}, true},
		{"grow limited", Policy{Kind: KindGrowing, Limit: 4096}, false},
		{"grow tiny limit", Policy{Kind: KindGrowing, Limit: 2}, true},
		{"grow unbounded opt-in", Policy{Kind: KindGrowing, Unbounded: true}, false},
		{"grow unbounded implicit", Policy{Kind: KindGrowing}, true},
		{"unknown", Policy{Kind: "spiral", Length: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := tt.policy.New()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPolicy)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestPolicy_NewKinds(t *testing.T) {
	h, err := Policy{Kind: KindRing, Length: 3}.New()
	require.NoError(t, err)
	assert.IsType(t, &Ring{}, h)

	h, err = Policy{Kind: KindGrowing, Limit: 10, Unbounded: true}.New()
	require.NoError(t, err)
	g, ok := h.(*Growing)
	require.True(t, ok)
	for i := 0; i < 100; i++ {
		g.Push(sample(i))
	}
	// Unbounded opt-in wins over a stray limit
	assert.Equal(t, 100, g.Len())
}

func TestSpan_SurvivesLaterPushes(t *testing.T) {
	histories := map[string]History{
		"ring":      NewRing(4),
		"growing":   NewGrowing(8),
		"unbounded": NewGrowing(0),
	}
	for name, h := range histories {
		t.Run(name, func(t *testing.T) {
			type taken struct {
				span Span
				want []vmath.Vec3F
			}
			var views []taken
			for i := 0; i < 200; i++ {
				h.Push(sample(i))
				s := h.Span()
				require.Equal(t, h.Len(), s.Len())
				last, _ := h.Last()
				require.Equal(t, last, s.At(s.Len()-1))
				views = append(views, taken{s, s.AppendTo(nil)})
			}
			for i, v := range views {
				assert.Equal(t, v.want, v.span.AppendTo(nil), "span taken at push %d changed", i)
			}
		})
	}
}

func TestSpan_TipAfterBody(t *testing.T) {
	s := Span{Body: []vmath.Vec3F{sample(1), sample(2)}, Tip: sample(3), HasTip: true}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, sample(2), s.At(1))
	assert.Equal(t, sample(3), s.At(2))
	assert.Equal(t, 0, Span{}.Len())
}
