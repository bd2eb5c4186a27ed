package render

import (
	"fmt"
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particle3d/engine"
	"github.com/lixenwraith/particle3d/vmath"
)

// HUD is the overlay text drawn over a frame
type HUD struct {
	Status  string   // top line
	Lines   []string // selected particle inspection, drawn under the status line
	Message string   // transient notice on the bottom line, e.g. screenshot result
	Help    []string // shown instead of Lines when non-empty
}

// Options controls what a renderer draws
type Options struct {
	White  bool
	Axes   bool
	Extent float64 // half-width of the bounding cube drawn with Axes, 0 derives it from the frame
}

// TerminalRenderer draws frames as a projected point cloud on a tcell screen
type TerminalRenderer struct {
	screen  tcell.Screen
	palette Palette
	opts    Options

	order []int // reusable painter order
}

// glyphs by projected size, smallest first
var pointGlyphs = []rune{'·', '•', '●'}

// NewTerminalRenderer creates a renderer bound to screen
func NewTerminalRenderer(screen tcell.Screen, opts Options) *TerminalRenderer {
	return &TerminalRenderer{
		screen:  screen,
		palette: NewPalette(opts.White),
		opts:    opts,
	}
}

// SetAxes toggles the bounding cube
func (r *TerminalRenderer) SetAxes(on bool) {
	r.opts.Axes = on
}

func (r *TerminalRenderer) Axes() bool {
	return r.opts.Axes
}

func (r *TerminalRenderer) Palette() Palette {
	return r.palette
}

// Viewport returns the current screen viewport
func (r *TerminalRenderer) Viewport() Viewport {
	w, h := r.screen.Size()
	return Viewport{Width: w, Height: h, CellAspect: 2}
}

// RenderFrame draws one frame and shows it
func (r *TerminalRenderer) RenderFrame(f *engine.Frame, view View, hud HUD) {
	base := r.palette.Style()
	r.screen.SetStyle(base)
	r.screen.Clear()

	vp := r.Viewport()
	if r.opts.Axes {
		r.drawCube(f, view, vp, base)
	}
	r.drawTrails(f, view, vp, base)
	r.drawParticles(f, view, vp, base)
	r.drawHUD(hud, vp, base)

	r.screen.Show()
}

func (r *TerminalRenderer) drawCube(f *engine.Frame, view View, vp Viewport, base tcell.Style) {
	extent := cubeExtent(f, r.opts.Extent)
	if extent <= 0 {
		return
	}
	style := base.Foreground(Tcell(r.palette.Dim))

	var corners [8]Projected
	var ok [8]bool
	for i := range corners {
		corners[i], ok[i] = view.Project(cubeCorner(i, -extent, extent), vp)
	}
	limit := 4 * (vp.Width + vp.Height)
	for _, e := range cubeEdges {
		a, b := e[0], e[1]
		if !ok[a] || !ok[b] {
			continue
		}
		line(int(corners[a].X), int(corners[a].Y), int(corners[b].X), int(corners[b].Y), limit, func(x, y int) {
			if x >= 0 && y >= 0 && x < vp.Width && y < vp.Height {
				r.screen.SetContent(x, y, '·', nil, style)
			}
		})
	}
}

func (r *TerminalRenderer) drawTrails(f *engine.Frame, view View, vp Viewport, base tcell.Style) {
	for i, tr := range f.Trails {
		n := tr.Len()
		if n < 2 {
			continue
		}
		c := ParticleColor(f.Particles[i].Color)
		// newest sample sits under the particle itself
		for j := range n - 1 {
			p, ok := view.Project(tr.At(j), vp)
			if !ok || !p.Visible(vp) {
				continue
			}
			age := 1 - float64(j)/float64(n-1)
			style := base.Foreground(Tcell(r.palette.TrailColor(c, age)))
			r.screen.SetContent(int(p.X), int(p.Y), '.', nil, style)
		}
	}
}

func (r *TerminalRenderer) drawParticles(f *engine.Frame, view View, vp Viewport, base tcell.Style) {
	proj := make([]Projected, f.Len())
	r.order = r.order[:0]
	for i := range f.Particles {
		p, ok := view.Project(f.Particles[i].Position, vp)
		if !ok || !p.Visible(vp) {
			continue
		}
		proj[i] = p
		r.order = append(r.order, i)
	}

	// Painter's algorithm: far to near
	slices.SortFunc(r.order, func(a, b int) int {
		return cmpDesc(proj[a].Depth, proj[b].Depth)
	})

	for _, i := range r.order {
		fp := &f.Particles[i]
		p := proj[i]
		c := ParticleColor(fp.Color)

		// darken with depth so the far side of the cloud recedes
		c = r.palette.Fade(c, depthFade(p.Depth, view.Zoom))
		style := base.Foreground(Tcell(c))
		glyph := glyphFor(fp.Radius * p.Scale)
		if fp.Selected {
			style = style.Background(Tcell(r.palette.Accent)).Bold(true)
			glyph = '◉'
		}
		r.screen.SetContent(int(p.X), int(p.Y), glyph, nil, style)
	}
}

func (r *TerminalRenderer) drawHUD(hud HUD, vp Viewport, base tcell.Style) {
	text := base.Foreground(Tcell(r.palette.Foreground))
	dim := base.Foreground(Tcell(r.palette.Dim))
	accent := base.Foreground(Tcell(r.palette.Accent))

	writeStr(r.screen, 1, 0, hud.Status, text, vp.Width)

	lines := hud.Lines
	style := text
	if len(hud.Help) > 0 {
		lines, style = hud.Help, dim
	}
	for i, l := range lines {
		if 1+i >= vp.Height-1 {
			break
		}
		writeStr(r.screen, 1, 1+i, l, style, vp.Width)
	}

	if hud.Message != "" && vp.Height > 1 {
		writeStr(r.screen, 1, vp.Height-1, hud.Message, accent, vp.Width)
	}
}

func writeStr(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	for _, ch := range str {
		if x >= width {
			return
		}
		s.SetContent(x, y, ch, nil, style)
		x++
	}
}

// glyphFor picks a point glyph from the projected radius in rows
func glyphFor(rows float64) rune {
	switch {
	case rows < 0.15:
		return pointGlyphs[0]
	case rows < 0.5:
		return pointGlyphs[1]
	default:
		return pointGlyphs[2]
	}
}

// depthFade maps depth relative to the camera distance to a fade in [0, 0.6]
func depthFade(depth, zoom float64) float64 {
	if zoom <= 0 {
		return 0
	}
	t := (depth/zoom - 0.75) / 0.5 // 0 at 0.75*zoom, 1 at 1.25*zoom
	return 0.6 * math.Max(0, math.Min(1, t))
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// cubeExtent returns fixed when positive, otherwise the largest coordinate in f
func cubeExtent(f *engine.Frame, fixed float64) float64 {
	if fixed > 0 {
		return fixed
	}
	lo, hi := f.Bounds()
	return max(-lo.X, -lo.Y, -lo.Z, hi.X, hi.Y, hi.Z)
}

// Inspect formats the inspection lines of selected particles, at most limit entries
func Inspect(f *engine.Frame, limit int) []string {
	sel := f.Selected()
	lines := make([]string, 0, min(len(sel), limit)+1)
	for i, p := range sel {
		if i == limit {
			lines = append(lines, fmt.Sprintf("… %d more selected", len(sel)-limit))
			break
		}
		lines = append(lines, fmt.Sprintf("#%d pos(%.1f %.1f %.1f) v(%.3f %.3f %.3f) |v|=%.3f m=%.4g r=%.2f",
			p.ID, p.Position.X, p.Position.Y, p.Position.Z,
			p.Velocity.X, p.Velocity.Y, p.Velocity.Z,
			vmath.V3FMag(p.Velocity),
			p.Mass, p.Radius))
	}
	return lines
}
