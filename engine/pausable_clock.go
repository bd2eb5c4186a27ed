package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides simulation time that stops advancing while paused
type PausableClock struct {
	mu sync.RWMutex

	source    TimeProvider
	startTime time.Time // real and simulation epoch

	isPaused        atomic.Bool
	pauseStartTime  time.Time     // real time the current pause began
	totalPausedTime time.Duration // cumulative pause duration
}

// NewPausableClock creates a running clock on the system time source
func NewPausableClock() *PausableClock {
	return NewPausableClockWithSource(NewMonotonicTimeProvider())
}

// NewPausableClockWithSource creates a running clock reading from source
func NewPausableClockWithSource(source TimeProvider) *PausableClock {
	return &PausableClock{
		source:    source,
		startTime: source.Now(),
	}
}

// Now returns current simulation time, frozen during a pause
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.startTime.Add(pc.pauseStartTime.Sub(pc.startTime) - pc.totalPausedTime)
	}
	return pc.startTime.Add(pc.source.Now().Sub(pc.startTime) - pc.totalPausedTime)
}

// RealTime returns the source time, unaffected by pause
func (pc *PausableClock) RealTime() time.Time {
	return pc.source.Now()
}

// Pause stops simulation time, no-op when already paused
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.isPaused.Load() {
		pc.pauseStartTime = pc.source.Now()
		pc.isPaused.Store(true)
	}
}

// Resume continues simulation time, no-op when running
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.isPaused.Load() {
		pc.totalPausedTime += pc.source.Now().Sub(pc.pauseStartTime)
		pc.pauseStartTime = time.Time{}
		pc.isPaused.Store(false)
	}
}

// Toggle flips the pause state and reports whether the clock is now paused
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time including an ongoing pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() {
		total += pc.source.Now().Sub(pc.pauseStartTime)
	}
	return total
}
