package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/lixenwraith/particle3d/vmath"
)

// Palette holds the colours of one background scheme
type Palette struct {
	White      bool
	Background colorful.Color
	Foreground colorful.Color // HUD text
	Dim        colorful.Color // axes and help text
	Accent     colorful.Color // selection and warnings
}

func fromRGBA(c color.RGBA) colorful.Color {
	cc, _ := colorful.MakeColor(c)
	return cc
}

// NewPalette returns the white or black scheme
func NewPalette(white bool) Palette {
	if white {
		return Palette{
			White:      true,
			Background: fromRGBA(colornames.White),
			Foreground: fromRGBA(colornames.Black),
			Dim:        fromRGBA(colornames.Darkgray),
			Accent:     fromRGBA(colornames.Crimson),
		}
	}
	return Palette{
		Background: fromRGBA(colornames.Black),
		Foreground: fromRGBA(colornames.Whitesmoke),
		Dim:        fromRGBA(colornames.Dimgray),
		Accent:     fromRGBA(colornames.Orange),
	}
}

// ParticleColor converts an RGB vector in [0,1] to a colour, out-of-range components are clamped
func ParticleColor(c vmath.Vec3F) colorful.Color {
	return colorful.Color{R: c.X, G: c.Y, B: c.Z}.Clamped()
}

// Fade blends c toward the background, t=0 keeps c and t=1 is the background
func (p Palette) Fade(c colorful.Color, t float64) colorful.Color {
	return c.BlendLab(p.Background, t).Clamped()
}

// TrailColor fades older trail samples toward the background
// age runs from 0 for the newest sample to 1 for the oldest
func (p Palette) TrailColor(c colorful.Color, age float64) colorful.Color {
	return p.Fade(c, 0.25+0.7*age)
}

// Tcell converts to a terminal colour
func Tcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// RGBA converts to an opaque image colour
func RGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Style returns the base terminal style of the palette
func (p Palette) Style() tcell.Style {
	return tcell.StyleDefault.Background(Tcell(p.Background)).Foreground(Tcell(p.Foreground))
}
