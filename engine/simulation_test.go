package engine

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/physics"
	"github.com/lixenwraith/particle3d/trail"
	"github.com/lixenwraith/particle3d/vmath"
)

func boidsConfig(workers int) SimulationConfig {
	return SimulationConfig{
		Rule: &physics.Flocking{
			MinPerception: 25, MinDistance: 4,
			SeparateFactor: 0.1, AlignFactor: 0.01, CohesionFactor: 0.01,
			MaxSpeed: 2, Clamp: physics.ClampZero, DiffuseColor: true,
		},
		Integrator: physics.Integrator{
			MaxSpeed: 2,
			Boundary: physics.Wrap{Low: -150, High: 150, Axes: physics.AllAxes},
		},
		Trail:   trail.Policy{Kind: trail.KindRing, Length: 5},
		Workers: workers,
	}
}

func newBoids(t *testing.T, n, workers int) *Simulation {
	t.Helper()
	store, err := particle.Populate(n, particle.Uniform{Concentration: 30, MaxSpeed: 2, Radius: 2}, 11)
	require.NoError(t, err)
	sim, err := NewSimulation(store, boidsConfig(workers), nil)
	require.NoError(t, err)
	return sim
}

func TestSimulation_InitialFrame(t *testing.T) {
	sim := newBoids(t, 40, 2)
	f := sim.Frame()
	require.NotNil(t, f)
	assert.Equal(t, uint64(0), f.Tick)
	assert.Equal(t, 40, f.Len())
	for i, p := range f.Particles {
		assert.Equal(t, i, p.ID)
		assert.Equal(t, 1, sim.TrailLen(i), "initial position recorded")
	}
}

func TestSimulation_FrameUnaffectedByLaterSteps(t *testing.T) {
	sim := newBoids(t, 60, 4)
	require.NoError(t, sim.Step())

	f1 := sim.Frame()
	saved := append([]FrameParticle(nil), f1.Particles...)

	for i := 0; i < 5; i++ {
		require.NoError(t, sim.Step())
	}

	assert.Equal(t, uint64(1), f1.Tick)
	assert.Equal(t, saved, f1.Particles)
	assert.Equal(t, uint64(6), sim.Frame().Tick)
}

func TestSimulation_WorkerCountDoesNotChangeResult(t *testing.T) {
	serial := newBoids(t, 120, 1)
	parallel := newBoids(t, 120, 7)

	for i := 0; i < 10; i++ {
		require.NoError(t, serial.Step())
		require.NoError(t, parallel.Step())
	}
	assert.Equal(t, serial.Particles(), parallel.Particles())
}

func TestSimulation_RingTrailCapped(t *testing.T) {
	sim := newBoids(t, 10, 2)
	sim.SetTrailMode(TrailsAll)
	for i := 0; i < 12; i++ {
		require.NoError(t, sim.Step())
	}

	f := sim.Frame()
	for i, p := range f.Particles {
		require.Equal(t, 5, f.Trails[i].Len())
		assert.Equal(t, p.Position, f.Trails[i].At(4), "newest trail point is the current position")
	}
}

func TestSimulation_SelectionAndTrailMode(t *testing.T) {
	sim := newBoids(t, 10, 1)
	require.NoError(t, sim.Step())

	assert.True(t, sim.ToggleSelection(3))
	assert.True(t, sim.IsSelected(3))
	assert.False(t, sim.ToggleSelection(99))

	// selection shows up after publish, not before
	assert.False(t, sim.Frame().Particles[3].Selected)
	sim.Publish()
	f := sim.Frame()
	assert.True(t, f.Particles[3].Selected)
	assert.Len(t, f.Selected(), 1)
	assert.Positive(t, f.Trails[3].Len())
	assert.Zero(t, f.Trails[4].Len(), "unselected trail omitted in selected mode")

	sim.SetTrailMode(TrailsNone)
	sim.Publish()
	assert.Zero(t, sim.Frame().Trails[3].Len())

	assert.False(t, sim.ToggleSelection(3))
	sim.ClearSelection()
	assert.False(t, sim.IsSelected(3))
}

func TestSimulation_GravityGrowingTrail(t *testing.T) {
	store, err := particle.Populate(8, particle.Orbit{Concentration: 12, MinMass: 1e2, MaxMass: 2e9, Density: 1e8}, 5)
	require.NoError(t, err)
	sim, err := NewSimulation(store, SimulationConfig{
		Rule:       &physics.Gravity{G: 6.67428e-11, Solver: physics.SolverDirect},
		Integrator: physics.Integrator{PositionScale: 0.01, Boundary: physics.Open{}},
		Trail:      trail.Policy{Kind: trail.KindGrowing, Limit: 16},
	}, nil)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, sim.Step())
	}
	for i := 0; i < sim.Len(); i++ {
		assert.LessOrEqual(t, sim.TrailLen(i), 16)
	}
}

func TestNewSimulation_Errors(t *testing.T) {
	store, err := particle.Populate(3, particle.Uniform{Concentration: 5, MaxSpeed: 2, Radius: 2}, 1)
	require.NoError(t, err)

	_, err = NewSimulation(nil, boidsConfig(1), nil)
	assert.ErrorIs(t, err, particle.ErrPopulation)

	cfg := boidsConfig(1)
	cfg.Rule = nil
	_, err = NewSimulation(store, cfg, nil)
	assert.Error(t, err)

	cfg = boidsConfig(1)
	cfg.Trail = trail.Policy{Kind: trail.KindRing}
	_, err = NewSimulation(store, cfg, nil)
	assert.ErrorIs(t, err, trail.ErrPolicy)
}

func TestSimulation_StepErrorFromRule(t *testing.T) {
	sim := newBoids(t, 4, 1)
	sim.rule.(*physics.Flocking).MaxSpeed = 0
	assert.Error(t, sim.Step())
	assert.Equal(t, uint64(0), sim.Frame().Tick)
}

func TestPartition(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, partition(10, 3))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, partition(2, 8))
	assert.Equal(t, [][2]int{{0, 5}}, partition(5, 0))
}

func TestStats_RecordStep(t *testing.T) {
	sim := newBoids(t, 5, 1)
	require.NoError(t, sim.Step())
	require.NoError(t, sim.Step())
	assert.Equal(t, int64(2), sim.stats.Ticks.Load())
	assert.Equal(t, int64(5), sim.stats.Particles.Load())
}

// driftRule leaves velocities alone so a step costs little beyond bookkeeping
type driftRule struct{}

func (driftRule) Name() string                                       { return "drift" }
func (driftRule) Prepare([]particle.Particle) error                  { return nil }
func (driftRule) Apply([]particle.Particle, int, *particle.Particle) {}
func (driftRule) IntegratesVelocity() bool                           { return false }

func newDrift(t *testing.T, n int, policy trail.Policy) *Simulation {
	t.Helper()
	store, err := particle.Populate(n, particle.Uniform{Concentration: 30, MaxSpeed: 2, Radius: 2}, 3)
	require.NoError(t, err)
	sim, err := NewSimulation(store, SimulationConfig{
		Rule:       driftRule{},
		Integrator: physics.Integrator{PositionScale: 1, Boundary: physics.Open{}},
		Trail:      policy,
		Workers:    2,
	}, nil)
	require.NoError(t, err)
	sim.SetTrailMode(TrailsAll)
	return sim
}

func TestSimulation_LongTrailsAreSharedNotCopied(t *testing.T) {
	const (
		n     = 500
		limit = 1024
		steps = 100
	)
	sim := newDrift(t, n, trail.Policy{Kind: trail.KindGrowing, Limit: limit})
	for range 2000 {
		require.NoError(t, sim.Step())
	}
	require.Greater(t, sim.Frame().Trails[0].Len(), limit/2)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	for range steps {
		require.NoError(t, sim.Step())
	}
	runtime.ReadMemStats(&after)

	perStep := (after.TotalAlloc - before.TotalAlloc) / steps
	copied := uint64(n * limit / 2 * 24) // one copy of every visible trail
	assert.Less(t, perStep, uint64(1<<20), "bytes allocated per step")
	assert.Less(t, perStep, copied/8)
}

func TestSimulation_PublishedTrailsStayFixed(t *testing.T) {
	for _, policy := range []trail.Policy{
		{Kind: trail.KindRing, Length: 6},
		{Kind: trail.KindGrowing, Limit: 8},
	} {
		sim := newDrift(t, 4, policy)
		require.NoError(t, sim.Step())

		f := sim.Frame()
		want := make([][]vmath.Vec3F, f.Len())
		for i, tr := range f.Trails {
			want[i] = tr.AppendTo(nil)
		}
		for range 40 {
			require.NoError(t, sim.Step())
		}
		for i, tr := range f.Trails {
			assert.Equal(t, want[i], tr.AppendTo(nil), "%s trail %d", policy.Kind, i)
		}
	}
}
