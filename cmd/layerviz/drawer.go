package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layerfilter/physics"
	"golang.org/x/image/colornames"
)

var palette = []color.RGBA{
	colornames.Slategray,
	colornames.Limegreen,
	colornames.Tomato,
	colornames.Royalblue,
	colornames.Gold,
	colornames.Mediumorchid,
	colornames.Turquoise,
	colornames.Darkorange,
}

// layerColor picks a stable colour for an object layer index.
func layerColor(l int) cp.FColor {
	c := palette[l%len(palette)]
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

// layerDrawer draws every shape of a space in the colour of its object layer.
type layerDrawer struct {
	screen *ebiten.Image
	zoom   float64
}

func (d *layerDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius > 0 {
		vector.StrokeCircle(d.screen, d.px(pos.X), d.px(pos.Y), float32(radius*d.zoom), 1, toColor(fill), true)
	}
	d.stroke(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, fill)
}

func (d *layerDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.stroke(a, b, fill)
}

func (d *layerDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	vector.StrokeLine(d.screen, d.px(a.X), d.px(a.Y), d.px(b.X), d.px(b.Y), float32(max(2*radius*d.zoom, 1)), toColor(fill), true)
}

func (d *layerDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.stroke(verts[i], verts[(i+1)%count], fill)
	}
}

func (d *layerDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	vector.FillCircle(d.screen, d.px(pos.X), d.px(pos.Y), float32(size/2), toColor(fill), true)
}

func (d *layerDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *layerDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 1, G: 1, B: 1, A: 0.9}
}

func (d *layerDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if b, ok := shape.UserData.(*physics.Body); ok {
		return layerColor(int(b.Layer()))
	}
	return d.OutlineColor()
}

func (d *layerDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *layerDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 1, B: 1, A: 0.7}
}

func (d *layerDrawer) Data() interface{} {
	return nil
}

// px maps a world coordinate to a screen coordinate.
func (d *layerDrawer) px(v float64) float32 {
	return float32(v * d.zoom)
}

func (d *layerDrawer) stroke(a, b cp.Vector, c cp.FColor) {
	vector.StrokeLine(d.screen, d.px(a.X), d.px(a.Y), d.px(b.X), d.px(b.Y), 1, toColor(c), true)
}

func toColor(c cp.FColor) color.NRGBA {
	channel := func(v float32) uint8 {
		return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}
