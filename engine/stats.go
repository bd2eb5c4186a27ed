package engine

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/particle3d/status"
)

// Stats caches the metric pointers the simulation and scheduler update every tick
type Stats struct {
	Registry *status.Registry

	Ticks      *atomic.Int64
	StepMicros *atomic.Int64 // duration of the last Step
	Particles  *atomic.Int64
	Frames     *atomic.Int64
	FPS        *status.AtomicFloat

	fpsWindowStart atomic.Int64 // unix nanos
	fpsWindowCount atomic.Int64
}

// NewStats registers the engine metrics in reg, a nil reg gets a private registry
func NewStats(reg *status.Registry) *Stats {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Stats{
		Registry:   reg,
		Ticks:      reg.Ints.Get("sim.ticks"),
		StepMicros: reg.Ints.Get("sim.step_us"),
		Particles:  reg.Ints.Get("sim.particles"),
		Frames:     reg.Ints.Get("render.frames"),
		FPS:        reg.Floats.Get("render.fps"),
	}
}

// TaskRuns returns the run counter of a scheduler task
func (s *Stats) TaskRuns(name string) *atomic.Int64 {
	return s.Registry.Ints.Get("task." + name + ".runs")
}

// RecordStep stores the duration of one completed Step
func (s *Stats) RecordStep(d time.Duration) {
	s.Ticks.Add(1)
	s.StepMicros.Store(d.Microseconds())
}

// RecordFrame counts a drawn frame and refreshes FPS once per second
func (s *Stats) RecordFrame(now time.Time) {
	s.Frames.Add(1)
	n := s.fpsWindowCount.Add(1)

	start := s.fpsWindowStart.Load()
	if start == 0 {
		s.fpsWindowStart.CompareAndSwap(0, now.UnixNano())
		return
	}
	elapsed := time.Duration(now.UnixNano() - start)
	if elapsed < time.Second {
		return
	}
	if s.fpsWindowStart.CompareAndSwap(start, now.UnixNano()) {
		s.FPS.Set(float64(n) / elapsed.Seconds())
		s.fpsWindowCount.Store(0)
	}
}
