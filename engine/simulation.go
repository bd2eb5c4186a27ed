package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/particle3d/particle"
	"github.com/lixenwraith/particle3d/physics"
	"github.com/lixenwraith/particle3d/trail"
)

// SimulationConfig wires one rule, integrator and trail policy into a simulation
type SimulationConfig struct {
	Rule       physics.Rule
	Integrator physics.Integrator
	Trail      trail.Policy
	Workers    int // 0 selects GOMAXPROCS
}

// Simulation owns the particle buffers and advances them one tick at a time
// Workers read cur and write next; a completed tick swaps the two and publishes a Frame
type Simulation struct {
	mu sync.Mutex // serializes Step and Publish

	rule       physics.Rule
	integrator physics.Integrator
	workers    int

	cur, next []particle.Particle
	trails    []trail.History
	selected  []atomic.Bool
	trailMode atomic.Uint32
	tick      uint64

	frame atomic.Pointer[Frame]
	stats *Stats
}

// NewSimulation takes the initial population from store and publishes tick 0
func NewSimulation(store *particle.Store, cfg SimulationConfig, stats *Stats) (*Simulation, error) {
	if store == nil || store.Len() == 0 {
		return nil, fmt.Errorf("simulation: %w: empty store", particle.ErrPopulation)
	}
	if cfg.Rule == nil {
		return nil, errors.New("simulation: nil rule")
	}
	if err := cfg.Trail.Validate(); err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}
	if stats == nil {
		stats = NewStats(nil)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	cur := store.Snapshot()
	s := &Simulation{
		rule:       cfg.Rule,
		integrator: cfg.Integrator,
		workers:    workers,
		cur:        cur,
		next:       make([]particle.Particle, len(cur)),
		trails:     make([]trail.History, len(cur)),
		selected:   make([]atomic.Bool, len(cur)),
		stats:      stats,
	}
	s.trailMode.Store(uint32(TrailsSelected))

	for i := range cur {
		h, err := cfg.Trail.New()
		if err != nil {
			return nil, fmt.Errorf("simulation: %w", err)
		}
		h.Push(cur[i].Position)
		s.trails[i] = h
	}

	stats.Particles.Store(int64(len(cur)))
	s.publish()
	return s, nil
}

// Len returns the particle count
func (s *Simulation) Len() int {
	return len(s.cur)
}

// Rule returns the interaction rule in use
func (s *Simulation) Rule() physics.Rule {
	return s.rule
}

// Workers returns the size of the worker pool used by Step
func (s *Simulation) Workers() int {
	return s.workers
}

// Step advances the whole population by one tick
func (s *Simulation) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := s.rule.Prepare(s.cur); err != nil {
		return fmt.Errorf("simulation: tick %d: %w", s.tick+1, err)
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, span := range partition(len(s.cur), s.workers) {
		g.Go(func() error {
			s.advance(span[0], span[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation: tick %d: %w", s.tick+1, err)
	}

	s.cur, s.next = s.next, s.cur
	s.tick++
	for i := range s.cur {
		s.trails[i].Push(s.cur[i].Position)
	}

	s.publish()
	s.stats.RecordStep(time.Since(start))
	return nil
}

// advance computes next[lo:hi] against the read-only cur buffer
func (s *Simulation) advance(lo, hi int) {
	velocityIntegrated := s.rule.IntegratesVelocity()
	for i := lo; i < hi; i++ {
		out := &s.next[i]
		*out = s.cur[i]
		s.rule.Apply(s.cur, i, out)
		s.integrator.Step(out, velocityIntegrated)
	}
}

// partition splits [0,n) into at most parts contiguous [lo,hi) spans
func partition(n, parts int) [][2]int {
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	spans := make([][2]int, 0, parts)
	size := (n + parts - 1) / parts
	for lo := 0; lo < n; lo += size {
		spans = append(spans, [2]int{lo, min(lo+size, n)})
	}
	return spans
}

// Frame returns the latest published tick
func (s *Simulation) Frame() *Frame {
	return s.frame.Load()
}

// Publish rebuilds the current frame without stepping, used after selection or trail mode changes
func (s *Simulation) Publish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish()
}

// publish copies cur and selection into a new Frame and shares the visible trails, caller holds mu
func (s *Simulation) publish() {
	mode := TrailMode(s.trailMode.Load())
	f := &Frame{
		Tick:      s.tick,
		Particles: make([]FrameParticle, len(s.cur)),
		Trails:    make([]trail.Span, len(s.cur)),
	}
	for i := range s.cur {
		p := &s.cur[i]
		sel := s.selected[p.ID].Load()
		f.Particles[i] = FrameParticle{
			ID:       p.ID,
			Position: p.Position,
			Velocity: p.Velocity,
			Accel:    p.Accel,
			Color:    p.Color,
			Mass:     p.Mass,
			Radius:   p.Radius,
			Selected: sel,
		}
		if mode == TrailsAll || (mode == TrailsSelected && sel) {
			f.Trails[i] = s.trails[i].Span()
		}
	}
	s.frame.Store(f)
}

// ToggleSelection flips the selection of particle id and reports the new state
// Unknown ids are ignored and report false
func (s *Simulation) ToggleSelection(id int) bool {
	if id < 0 || id >= len(s.selected) {
		return false
	}
	for {
		old := s.selected[id].Load()
		if s.selected[id].CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// IsSelected reports the live selection state of particle id
func (s *Simulation) IsSelected(id int) bool {
	if id < 0 || id >= len(s.selected) {
		return false
	}
	return s.selected[id].Load()
}

// ClearSelection deselects every particle
func (s *Simulation) ClearSelection() {
	for i := range s.selected {
		s.selected[i].Store(false)
	}
}

// SetTrailMode selects which trails later frames carry
func (s *Simulation) SetTrailMode(m TrailMode) {
	s.trailMode.Store(uint32(m))
}

func (s *Simulation) TrailMode() TrailMode {
	return TrailMode(s.trailMode.Load())
}

// Particles returns a copy of the current particle state
func (s *Simulation) Particles() []particle.Particle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]particle.Particle, len(s.cur))
	copy(out, s.cur)
	return out
}

// TrailLen returns the history length of particle i
func (s *Simulation) TrailLen(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trails[i].Len()
}
