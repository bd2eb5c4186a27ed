package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/particle3d/core"
)

// Task is one periodic job driven by the scheduler
type Task struct {
	Name     string
	Interval time.Duration
	// Pausable tasks follow the pausable clock and are skipped while it is paused
	Pausable bool
	Run      func() error
}

type scheduledTask struct {
	Task
	trigger chan struct{} // one-shot run requests
	runs    *atomic.Int64
}

// ClockScheduler runs independent periodic tasks, each on its own cadence
// Deadlines advance by the task interval to avoid drift, and reset when a task falls too far behind
type ClockScheduler struct {
	clock *PausableClock
	real  TimeProvider
	stats *Stats

	mu    sync.RWMutex
	tasks map[string]*scheduledTask
	order []string

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// ErrDuplicateTask is returned when a task name is registered twice
var ErrDuplicateTask = errors.New("duplicate task")

// NewClockScheduler creates a stopped scheduler bound to clock
func NewClockScheduler(clock *PausableClock, stats *Stats) *ClockScheduler {
	if stats == nil {
		stats = NewStats(nil)
	}
	return &ClockScheduler{
		clock:    clock,
		real:     clock.source,
		stats:    stats,
		tasks:    make(map[string]*scheduledTask),
		stopChan: make(chan struct{}),
	}
}

// Register adds a task, must be called before Start
func (cs *ClockScheduler) Register(t Task) error {
	if t.Name == "" || t.Run == nil {
		return fmt.Errorf("scheduler: task needs a name and a run function")
	}
	if t.Interval <= 0 {
		return fmt.Errorf("scheduler: task %q: interval %v must be positive", t.Name, t.Interval)
	}
	if cs.running.Load() {
		return fmt.Errorf("scheduler: task %q registered after start", t.Name)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.tasks[t.Name]; ok {
		return fmt.Errorf("scheduler: %w: %q", ErrDuplicateTask, t.Name)
	}
	cs.tasks[t.Name] = &scheduledTask{
		Task:    t,
		trigger: make(chan struct{}, 1),
		runs:    cs.stats.TaskRuns(t.Name),
	}
	cs.order = append(cs.order, t.Name)
	return nil
}

// Tasks returns registered task names in registration order
func (cs *ClockScheduler) Tasks() []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return append([]string(nil), cs.order...)
}

// Trigger requests one run of the named task outside its cadence, also while paused
// Requests coalesce while one is pending
func (cs *ClockScheduler) Trigger(name string) bool {
	cs.mu.RLock()
	t, ok := cs.tasks[name]
	cs.mu.RUnlock()
	if !ok {
		return false
	}
	select {
	case t.trigger <- struct{}{}:
	default:
	}
	return true
}

// Start launches one loop per task
func (cs *ClockScheduler) Start() {
	if !cs.running.CompareAndSwap(false, true) {
		return
	}
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for _, name := range cs.order {
		t := cs.tasks[name]
		cs.wg.Add(1)
		core.Go(func() { cs.taskLoop(t) })
	}
}

// Stop halts all task loops and waits for them to return
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
		if cs.running.CompareAndSwap(true, false) {
			cs.wg.Wait()
		}
	})
}

func (cs *ClockScheduler) now(t *scheduledTask) time.Time {
	if t.Pausable {
		return cs.clock.Now()
	}
	return cs.real.Now()
}

// taskLoop runs t on its deadline with pause awareness and no busy-wait
func (cs *ClockScheduler) taskLoop(t *scheduledTask) {
	defer cs.wg.Done()

	deadline := cs.now(t).Add(t.Interval)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		default:
		}

		var sleep time.Duration
		if t.Pausable && cs.clock.IsPaused() {
			// Longer sleeps while paused, trigger still wakes the loop
			sleep = t.Interval * 2
		} else {
			now := cs.now(t)
			if !now.Before(deadline) {
				cs.run(t)

				deadline = deadline.Add(t.Interval)
				if maxBehind := t.Interval * 2; now.Sub(deadline) > maxBehind {
					deadline = now.Add(t.Interval)
				}
			}
			sleep = max(deadline.Sub(cs.now(t)), 0)
		}

		timer.Reset(sleep)
		select {
		case <-timer.C:
		case <-t.trigger:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			cs.run(t)
		case <-cs.stopChan:
			return
		}
	}
}

func (cs *ClockScheduler) run(t *scheduledTask) {
	if err := t.Run(); err != nil {
		log.Printf("scheduler: task %s: %v", t.Name, err)
	}
	t.runs.Add(1)
}
