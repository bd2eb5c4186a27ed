package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTime is a controllable time source
type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func newManualTime() *manualTime {
	return &manualTime{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func TestPausableClock_FreezesWhilePaused(t *testing.T) {
	src := newManualTime()
	pc := NewPausableClockWithSource(src)
	start := pc.Now()

	src.Advance(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, pc.Now().Sub(start))

	pc.Pause()
	assert.True(t, pc.IsPaused())
	src.Advance(time.Second)
	assert.Equal(t, 100*time.Millisecond, pc.Now().Sub(start))
	assert.Equal(t, time.Second, pc.TotalPauseDuration())

	pc.Resume()
	src.Advance(50 * time.Millisecond)
	assert.Equal(t, 150*time.Millisecond, pc.Now().Sub(start))
	assert.Equal(t, time.Second, pc.TotalPauseDuration())
	assert.Equal(t, src.Now(), pc.RealTime())
}

func TestPausableClock_IdempotentAndToggle(t *testing.T) {
	src := newManualTime()
	pc := NewPausableClockWithSource(src)

	pc.Pause()
	src.Advance(time.Second)
	pc.Pause()
	src.Advance(time.Second)
	pc.Resume()
	pc.Resume()
	assert.Equal(t, 2*time.Second, pc.TotalPauseDuration())

	assert.True(t, pc.Toggle())
	assert.False(t, pc.Toggle())
	assert.False(t, pc.IsPaused())
}

func TestClockScheduler_IndependentCadences(t *testing.T) {
	cs := NewClockScheduler(NewPausableClock(), nil)
	var fast, slow atomic.Int64
	require.NoError(t, cs.Register(Task{Name: "fast", Interval: 2 * time.Millisecond, Pausable: true,
		Run: func() error { fast.Add(1); return nil }}))
	require.NoError(t, cs.Register(Task{Name: "slow", Interval: 40 * time.Millisecond,
		Run: func() error { slow.Add(1); return nil }}))

	cs.Start()
	time.Sleep(200 * time.Millisecond)
	cs.Stop()

	assert.Greater(t, fast.Load(), slow.Load()*3)
	assert.GreaterOrEqual(t, slow.Load(), int64(2))
	assert.Equal(t, []string{"fast", "slow"}, cs.Tasks())

	// nothing runs after Stop returns
	f := fast.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, f, fast.Load())
}

func TestClockScheduler_PauseAndTrigger(t *testing.T) {
	clock := NewPausableClock()
	stats := NewStats(nil)
	cs := NewClockScheduler(clock, stats)
	var physics, camera atomic.Int64
	require.NoError(t, cs.Register(Task{Name: "physics", Interval: 2 * time.Millisecond, Pausable: true,
		Run: func() error { physics.Add(1); return nil }}))
	require.NoError(t, cs.Register(Task{Name: "camera", Interval: 2 * time.Millisecond,
		Run: func() error { camera.Add(1); return nil }}))

	clock.Pause()
	cs.Start()
	defer cs.Stop()
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, physics.Load(), "pausable task idle while paused")
	assert.Positive(t, camera.Load(), "real-time task keeps running")

	require.True(t, cs.Trigger("physics"))
	assert.Eventually(t, func() bool { return physics.Load() == 1 }, time.Second, time.Millisecond)
	assert.False(t, cs.Trigger("missing"))

	clock.Resume()
	assert.Eventually(t, func() bool { return physics.Load() > 5 }, time.Second, time.Millisecond)
	assert.Positive(t, stats.TaskRuns("physics").Load())
}

func TestClockScheduler_RegisterValidation(t *testing.T) {
	cs := NewClockScheduler(NewPausableClock(), nil)
	noop := func() error { return nil }

	assert.Error(t, cs.Register(Task{Name: "", Interval: time.Millisecond, Run: noop}))
	assert.Error(t, cs.Register(Task{Name: "a", Interval: 0, Run: noop}))
	require.NoError(t, cs.Register(Task{Name: "a", Interval: time.Millisecond, Run: noop}))
	assert.ErrorIs(t, cs.Register(Task{Name: "a", Interval: time.Millisecond, Run: noop}), ErrDuplicateTask)

	cs.Start()
	assert.Error(t, cs.Register(Task{Name: "b", Interval: time.Millisecond, Run: noop}))
	cs.Stop()
	cs.Stop()
}

func TestClockScheduler_TaskErrorsDoNotStopLoop(t *testing.T) {
	cs := NewClockScheduler(NewPausableClock(), nil)
	var n atomic.Int64
	require.NoError(t, cs.Register(Task{Name: "failing", Interval: time.Millisecond,
		Run: func() error { n.Add(1); return errors.New("boom") }}))
	cs.Start()
	defer cs.Stop()
	assert.Eventually(t, func() bool { return n.Load() > 3 }, time.Second, time.Millisecond)
}

func TestStats_FPSWindow(t *testing.T) {
	s := NewStats(nil)
	base := time.Unix(1000, 0)
	s.RecordFrame(base)
	for i := 1; i <= 30; i++ {
		s.RecordFrame(base.Add(time.Duration(i) * 50 * time.Millisecond))
	}
	// window closed at 1s with 21 frames counted
	assert.InDelta(t, 21.0, s.FPS.Get(), 0.01)
	assert.Equal(t, int64(31), s.Frames.Load())
}
