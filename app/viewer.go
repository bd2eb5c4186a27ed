package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particle3d/audio"
	"github.com/lixenwraith/particle3d/config"
	"github.com/lixenwraith/particle3d/engine"
	"github.com/lixenwraith/particle3d/input"
	"github.com/lixenwraith/particle3d/render"
)

// Scheduler task names
const (
	taskPhysics = "physics"
	taskCamera  = "camera"
	taskFrame   = "frame"
)

const (
	messageTTL   = 3 * time.Second
	pickRadius   = 1.5 // rows
	inspectLimit = 8
	// screenshot pixels per terminal cell
	shotCellW, shotCellH = 8, 16
)

// Viewer drives the interactive terminal session of one simulation
type Viewer struct {
	conf   *config.Config
	sim    *engine.Simulation
	stats  *engine.Stats
	clock  *engine.PausableClock
	sched  *engine.ClockScheduler
	camera *render.Camera

	screen   tcell.Screen
	renderer *render.TerminalRenderer
	shots    *render.Screenshotter
	sound    *audio.SoundManager
	machine  *input.Machine

	drawMu sync.Mutex // serializes draws from the frame task and input

	mu           sync.Mutex
	message      string
	messageUntil time.Time
	help         bool
}

// NewViewer wires the scheduler, camera, renderer and input around sim
// screen must already be initialized
func NewViewer(conf *config.Config, sim *engine.Simulation, stats *engine.Stats, screen tcell.Screen) (*Viewer, error) {
	white, err := config.ParseBackground(conf.Render.Background)
	if err != nil {
		return nil, err
	}

	keys, err := input.LoadKeyConfig(conf.Keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	clock := engine.NewPausableClock()
	v := &Viewer{
		conf:  conf,
		sim:   sim,
		stats: stats,
		clock: clock,
		sched: engine.NewClockScheduler(clock, stats),
		camera: render.NewCamera(render.CameraConfig{
			Zoom:      conf.Camera.Zoom,
			Tilt:      conf.Camera.Tilt,
			Rotate:    conf.Camera.Rotate,
			RotateDeg: conf.Camera.RotateDeg,
			UpdateFPS: float64(time.Second) / float64(conf.Clock.Rotate()),
			Frequency: conf.Camera.Frequency,
			Damping:   conf.Camera.Damping,
		}),
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen, render.Options{White: white, Axes: conf.Render.Axes}),
		shots:    render.NewScreenshotter(conf.Render.Dir),
		sound:    audio.NewSoundManager(conf.Audio.Volume),
		machine:  input.NewMachineWithKeys(keys),
	}

	mode, err := parseTrailMode(conf.Render.Trails)
	if err != nil {
		return nil, err
	}
	sim.SetTrailMode(mode)
	sim.Publish()

	tasks := []engine.Task{
		{Name: taskPhysics, Interval: conf.Clock.Tick(), Pausable: true, Run: sim.Step},
		{Name: taskCamera, Interval: conf.Clock.Rotate(), Run: func() error {
			v.camera.Update()
			return nil
		}},
		{Name: taskFrame, Interval: conf.Clock.Frame(), Run: func() error {
			v.draw()
			v.stats.RecordFrame(time.Now())
			return nil
		}},
	}
	for _, t := range tasks {
		if err := v.sched.Register(t); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func parseTrailMode(s string) (engine.TrailMode, error) {
	switch s {
	case "none":
		return engine.TrailsNone, nil
	case "selected":
		return engine.TrailsSelected, nil
	case "all":
		return engine.TrailsAll, nil
	}
	return 0, fmt.Errorf("%w: render.trails %q", config.ErrInvalid, s)
}

// Run starts the scheduler and processes input until quit or the screen closes
func (v *Viewer) Run() {
	if v.conf.Audio.Enabled {
		if err := v.sound.Initialize(); err != nil {
			log.Printf("audio: init failed, continuing without sound: %v", err)
		}
	}
	defer v.sound.Cleanup()

	v.sched.Start()
	defer v.sched.Stop()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		in := v.machine.Process(ev)
		if in == nil {
			continue
		}
		if !v.handle(in) {
			return
		}
		v.sched.Trigger(taskFrame)
	}
}

// handle applies one intent, false means quit
func (v *Viewer) handle(in *input.Intent) bool {
	switch in.Action {
	case input.ActionQuit:
		return false

	case input.ActionResize:
		v.screen.Sync()

	case input.ActionHelp:
		v.mu.Lock()
		v.help = v.machine.State() == input.StateHelp
		v.mu.Unlock()

	case input.ActionOrbit:
		v.camera.OrbitKey(in.DX, in.DY)

	case input.ActionToggleRotate:
		if v.camera.ToggleRotate() {
			v.notify("rotation on")
		} else {
			v.notify("rotation off")
		}

	case input.ActionPan:
		v.camera.Pan(in.DX, in.DY)

	case input.ActionZoom:
		v.camera.ZoomBy(in.DX)

	case input.ActionToggleAxes:
		v.drawMu.Lock()
		v.renderer.SetAxes(!v.renderer.Axes())
		v.drawMu.Unlock()

	case input.ActionTrailsSelected:
		if v.sim.TrailMode() == engine.TrailsSelected {
			v.sim.SetTrailMode(engine.TrailsNone)
		} else {
			v.sim.SetTrailMode(engine.TrailsSelected)
		}
		v.sim.Publish()

	case input.ActionTrailsAll:
		if v.sim.TrailMode() == engine.TrailsAll {
			v.sim.SetTrailMode(engine.TrailsSelected)
		} else {
			v.sim.SetTrailMode(engine.TrailsAll)
		}
		v.sim.Publish()

	case input.ActionScreenshot:
		v.screenshot()

	case input.ActionPause:
		if v.clock.Toggle() {
			v.notify("paused, n steps one tick")
		} else {
			v.notify("running")
		}

	case input.ActionStep:
		if v.clock.IsPaused() {
			v.sched.Trigger(taskPhysics)
		}

	case input.ActionPick:
		v.pick(in.X, in.Y)
	}
	return true
}

func (v *Viewer) pick(x, y int) {
	id, ok := render.Pick(v.sim.Frame(), v.camera.View(), v.renderer.Viewport(), x, y, pickRadius)
	if !ok {
		return
	}
	if v.sim.ToggleSelection(id) {
		v.sound.Play(audio.CueSelect)
		log.Printf("viewer: selected particle %d", id)
	} else {
		v.sound.Play(audio.CueDeselect)
		log.Printf("viewer: deselected particle %d", id)
	}
	v.sim.Publish()
}

// screenshot rasterizes the published frame at a resolution derived from the terminal size
func (v *Viewer) screenshot() {
	w, h := v.screen.Size()
	r := render.NewRasterizer(max(w*shotCellW, 64), max(h*shotCellH, 64), render.Options{
		White: v.renderer.Palette().White,
		Axes:  v.renderer.Axes(),
	})
	frame := v.sim.Frame()
	img := r.Render(frame, v.camera.View(), render.HUD{Status: v.status(frame)})

	path, err := v.shots.Capture(img)
	if err != nil {
		log.Printf("viewer: %v", err)
		v.notify(err.Error())
		return
	}
	log.Printf("viewer: screenshot %s", path)
	v.sound.Play(audio.CueScreenshot)
	v.notify("saved " + path)
}

func (v *Viewer) notify(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = msg
	v.messageUntil = time.Now().Add(messageTTL)
}

func (v *Viewer) status(f *engine.Frame) string {
	s := fmt.Sprintf("%s  n=%d  tick=%d  step=%dµs  fps=%.0f  period=%v",
		v.conf.Variant, f.Len(), f.Tick,
		v.stats.StepMicros.Load(), v.stats.FPS.Get(), v.conf.Clock.Tick())
	if v.clock.IsPaused() {
		s += "  [paused]"
	}
	return s + "  h:help"
}

func (v *Viewer) hud(f *engine.Frame) render.HUD {
	v.mu.Lock()
	defer v.mu.Unlock()

	hud := render.HUD{
		Status: v.status(f),
		Lines:  render.Inspect(f, inspectLimit),
	}
	if v.help {
		hud.Help = input.HelpLines()
	}
	if v.message != "" && time.Now().Before(v.messageUntil) {
		hud.Message = v.message
	}
	return hud
}

func (v *Viewer) draw() {
	v.drawMu.Lock()
	defer v.drawMu.Unlock()

	f := v.sim.Frame()
	v.renderer.RenderFrame(f, v.camera.View(), v.hud(f))
}
