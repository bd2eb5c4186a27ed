package render

import (
	"image"
	"image/color"
	"image/draw"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lixenwraith/particle3d/engine"
)

// Rasterizer renders frames into RGBA images with the same camera as the terminal view
type Rasterizer struct {
	Width, Height int
	Options       Options
	palette       Palette
}

// NewRasterizer creates a rasterizer for w×h images
func NewRasterizer(w, h int, opts Options) *Rasterizer {
	return &Rasterizer{Width: w, Height: h, Options: opts, palette: NewPalette(opts.White)}
}

// Viewport returns the image viewport, pixels are square
func (r *Rasterizer) Viewport() Viewport {
	return Viewport{Width: r.Width, Height: r.Height, CellAspect: 1}
}

// Render draws f into a new image
func (r *Rasterizer) Render(f *engine.Frame, view View, hud HUD) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(RGBA(r.palette.Background)), image.Point{}, draw.Src)

	vp := r.Viewport()
	if r.Options.Axes {
		r.drawCube(img, f, view, vp)
	}
	r.drawTrails(img, f, view, vp)
	r.drawParticles(img, f, view, vp)
	r.drawHUD(img, hud)
	return img
}

func (r *Rasterizer) drawCube(img *image.RGBA, f *engine.Frame, view View, vp Viewport) {
	extent := cubeExtent(f, r.Options.Extent)
	if extent <= 0 {
		return
	}
	c := RGBA(r.palette.Dim)
	limit := 4 * (vp.Width + vp.Height)
	for _, e := range cubeEdges {
		a, okA := view.Project(cubeCorner(e[0], -extent, extent), vp)
		b, okB := view.Project(cubeCorner(e[1], -extent, extent), vp)
		if !okA || !okB {
			continue
		}
		line(int(a.X), int(a.Y), int(b.X), int(b.Y), limit, func(x, y int) {
			img.SetRGBA(x, y, c)
		})
	}
}

func (r *Rasterizer) drawTrails(img *image.RGBA, f *engine.Frame, view View, vp Viewport) {
	limit := 4 * (vp.Width + vp.Height)
	for i, tr := range f.Trails {
		n := tr.Len()
		if n < 2 {
			continue
		}
		base := ParticleColor(f.Particles[i].Color)
		prev, prevOK := view.Project(tr.At(0), vp)
		for j := 1; j < n; j++ {
			cur, ok := view.Project(tr.At(j), vp)
			if ok && prevOK {
				c := RGBA(r.palette.TrailColor(base, 1-float64(j)/float64(n-1)))
				line(int(prev.X), int(prev.Y), int(cur.X), int(cur.Y), limit, func(x, y int) {
					img.SetRGBA(x, y, c)
				})
			}
			prev, prevOK = cur, ok
		}
	}
}

func (r *Rasterizer) drawParticles(img *image.RGBA, f *engine.Frame, view View, vp Viewport) {
	type item struct {
		p Projected
		i int
	}
	items := make([]item, 0, f.Len())
	for i := range f.Particles {
		if p, ok := view.Project(f.Particles[i].Position, vp); ok {
			items = append(items, item{p, i})
		}
	}
	slices.SortFunc(items, func(a, b item) int { return cmpDesc(a.p.Depth, b.p.Depth) })

	accent := RGBA(r.palette.Accent)
	for _, it := range items {
		fp := &f.Particles[it.i]
		c := ParticleColor(fp.Color)
		c = r.palette.Fade(c, depthFade(it.p.Depth, view.Zoom))
		radius := max(fp.Radius*it.p.Scale, 1)
		if fp.Selected {
			fillDisk(img, it.p.X, it.p.Y, radius+2, accent)
		}
		fillDisk(img, it.p.X, it.p.Y, radius, RGBA(c))
	}
}

// fillDisk paints a disk centred on (cx, cy), clipped to the image
func fillDisk(img *image.RGBA, cx, cy, radius float64, c color.RGBA) {
	b := img.Bounds()
	x0, x1 := max(int(cx-radius), b.Min.X), min(int(cx+radius)+1, b.Max.X)
	y0, y1 := max(int(cy-radius), b.Min.Y), min(int(cy+radius)+1, b.Max.Y)
	r2 := radius * radius
	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func (r *Rasterizer) drawHUD(img *image.RGBA, hud HUD) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(RGBA(r.palette.Foreground)),
		Face: face,
	}
	y := lineHeight
	for _, s := range append([]string{hud.Status}, hud.Lines...) {
		if s == "" {
			continue
		}
		d.Dot = fixed.P(4, y)
		d.DrawString(s)
		y += lineHeight
	}
	if hud.Message != "" {
		d.Src = image.NewUniform(RGBA(r.palette.Accent))
		d.Dot = fixed.P(4, r.Height-4)
		d.DrawString(hud.Message)
	}
}
