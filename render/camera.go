package render

import (
	"math"
	"sync"

	"github.com/charmbracelet/harmonica"
)

// Camera orbits the origin; input moves targets and Update eases the view toward them
type Camera struct {
	mu sync.Mutex

	target View
	view   View
	vel    View // spring velocities per field, only the eased fields are used

	spring harmonica.Spring
	eased  bool
	rotate bool
	step   float64 // auto-rotation yaw per Update, radians
}

// CameraConfig sets the initial view and easing
type CameraConfig struct {
	Zoom      float64
	Tilt      float64 // initial pitch, radians
	Rotate    bool
	RotateDeg float64 // auto-rotation per update, degrees
	UpdateFPS float64 // rate Update is called at
	Frequency float64 // spring angular frequency, 0 disables easing
	Damping   float64
}

const (
	minZoom   = 5.0
	rotateKey = 5 * math.Pi / 180
	panStep   = 10.0
	zoomStep  = 1.1
)

// NewCamera creates a camera at the configured distance
func NewCamera(cfg CameraConfig) *Camera {
	v := View{Zoom: max(cfg.Zoom, minZoom), Pitch: cfg.Tilt}
	c := &Camera{
		target: v,
		view:   v,
		rotate: cfg.Rotate,
		step:   cfg.RotateDeg * math.Pi / 180,
	}
	fps := cfg.UpdateFPS
	if fps <= 0 {
		fps = 60
	}
	if cfg.Frequency > 0 {
		c.spring = harmonica.NewSpring(harmonica.FPS(int(fps)), cfg.Frequency, cfg.Damping)
		c.eased = true
	}
	return c
}

// View returns the current eased view
func (c *Camera) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Target returns where the view is heading
func (c *Camera) Target() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Orbit turns the target by yaw and pitch radians, pitch stays within ±90°
func (c *Camera) Orbit(yaw, pitch float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target.Yaw += yaw
	c.target.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.target.Pitch+pitch))
}

// OrbitKey applies one arrow key step
func (c *Camera) OrbitKey(dx, dy int) {
	c.Orbit(float64(dx)*rotateKey, float64(dy)*rotateKey)
}

// Pan shifts the target in view space by whole steps
func (c *Camera) Pan(dx, dy int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target.PanX += float64(dx) * panStep
	c.target.PanY += float64(dy) * panStep
}

// ZoomBy moves the camera in (steps < 0) or out (steps > 0)
func (c *Camera) ZoomBy(steps int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target.Zoom = math.Max(minZoom, c.target.Zoom*math.Pow(zoomStep, float64(steps)))
}

// ToggleRotate flips auto-rotation and reports the new state
func (c *Camera) ToggleRotate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotate = !c.rotate
	return c.rotate
}

func (c *Camera) Rotating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotate
}

// Update advances auto-rotation and eases the view one step toward the target
func (c *Camera) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rotate {
		c.target.Yaw += c.step
	}
	if !c.eased {
		c.view = c.target
		return
	}

	c.view.Yaw, c.vel.Yaw = c.spring.Update(c.view.Yaw, c.vel.Yaw, c.target.Yaw)
	c.view.Pitch, c.vel.Pitch = c.spring.Update(c.view.Pitch, c.vel.Pitch, c.target.Pitch)
	c.view.Zoom, c.vel.Zoom = c.spring.Update(c.view.Zoom, c.vel.Zoom, c.target.Zoom)
	c.view.PanX, c.vel.PanX = c.spring.Update(c.view.PanX, c.vel.PanX, c.target.PanX)
	c.view.PanY, c.vel.PanY = c.spring.Update(c.view.PanY, c.vel.PanY, c.target.PanY)
	c.view.Zoom = math.Max(minZoom, c.view.Zoom)
}
