package ebitenhost

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/motion"
)

// whitePixel is a 1x1 white image scaled to fill element boxes.
var whitePixel *ebiten.Image

func pixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// Preview is a motion.StyleWriter that keeps the latest frame of every
// element and paints them as boxes.
type Preview struct {
	engine *motion.Engine
	frames map[motion.ElementID]motion.Frame

	// Next, if set, receives every frame after it is recorded.
	Next motion.StyleWriter
	// Fill is the box color for elements without a backgroundColor style.
	Fill color.Color
}

// NewPreview returns a renderer for engine's elements. Set it as the
// engine's style writer to keep frames current.
func NewPreview(engine *motion.Engine) *Preview {
	return &Preview{
		engine: engine,
		frames: make(map[motion.ElementID]motion.Frame),
		Fill:   color.RGBA{R: 90, G: 140, B: 230, A: 255},
	}
}

// WriteFrame records f for the next Draw.
func (p *Preview) WriteFrame(f motion.Frame) {
	p.frames[f.Element] = f
	if p.Next != nil {
		p.Next.WriteFrame(f)
	}
}

// Frame returns the last recorded frame of id.
func (p *Preview) Frame(id motion.ElementID) (motion.Frame, bool) {
	f, ok := p.frames[id]
	return f, ok
}

// Draw paints every mounted element in mount order. Elements that never
// wrote a frame are painted from their current values.
func (p *Preview) Draw(screen *ebiten.Image) {
	ids := p.engine.Elements()
	live := make(map[motion.ElementID]bool, len(ids))
	for _, id := range ids {
		live[id] = true
		el, ok := p.engine.Element(id)
		if !ok {
			continue
		}
		f, ok := p.frames[id]
		if !ok {
			f = el.Frame()
			p.frames[id] = f
		}
		p.drawBox(screen, el.Bounds(), f)
	}
	for id := range p.frames {
		if !live[id] {
			delete(p.frames, id)
		}
	}
}

func (p *Preview) drawBox(screen *ebiten.Image, b motion.Bounds, f motion.Frame) {
	if b.Width <= 0 || b.Height <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM = boxGeoM(b, f.TransformRecord)

	r, g, bl, a := colorComponents(p.Fill)
	if css, ok := f.Styles["backgroundColor"]; ok {
		if c, alpha, err := motion.ParseColor(css); err == nil {
			r, g, bl, a = c.R, c.G, c.B, alpha
		}
	}
	if f.HasOpacity {
		a *= f.Opacity
	}
	if a <= 0 {
		return
	}
	op.ColorScale.Scale(float32(r*a), float32(g*a), float32(bl*a), float32(a))
	screen.DrawImage(pixel(), &op)
}

// boxGeoM maps the unit square onto b, then applies t about the box
// center.
func boxGeoM(b motion.Bounds, t motion.Transform3D) ebiten.GeoM {
	var geo ebiten.GeoM
	geo.Scale(b.Width, b.Height)
	geo.Translate(b.X, b.Y)

	c := b.Center()
	m := t.Matrix2D(c.X, c.Y)
	var tm ebiten.GeoM
	tm.SetElement(0, 0, m[0])
	tm.SetElement(1, 0, m[1])
	tm.SetElement(0, 1, m[2])
	tm.SetElement(1, 1, m[3])
	tm.SetElement(0, 2, m[4])
	tm.SetElement(1, 2, m[5])
	geo.Concat(tm)
	return geo
}

func colorComponents(c color.Color) (r, g, b, a float64) {
	cr, cg, cb, ca := c.RGBA()
	if ca == 0 {
		return 0, 0, 0, 0
	}
	// Un-premultiply.
	return float64(cr) / float64(ca), float64(cg) / float64(ca), float64(cb) / float64(ca), float64(ca) / 0xffff
}
