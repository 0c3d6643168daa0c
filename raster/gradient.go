package raster

import (
	"image/color"
	"math"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// toRasterxGradient converts the stops, the geometry being set by the caller.
// Points are given in device space.
func (s *Surface) toRasterxGradient(g *drawing.Gradient) rasterx.Gradient {
	stops := make([]rasterx.GradStop, len(g.Stops))
	for i, stop := range g.Stops {
		r, gr, b := stop.Color.WithAlpha(1).RGB8()
		stops[i] = rasterx.GradStop{StopColor: color.NRGBA{r, gr, b, 0xff}, Offset: stop.Location, Opacity: 1}
	}
	out := rasterx.Gradient{
		Stops:  stops,
		Matrix: rasterx.Identity,
		Spread: rasterx.PadSpread,
		Units:  rasterx.UserSpaceOnUse,
	}
	// bounds are only used to build the identity transform of user space
	out.Bounds.W, out.Bounds.H = float64(s.width), float64(s.height)
	return out
}

// extentFunc returns false for the (device) points outside of
// the extent of a gradient
type extentFunc func(x, y float64) bool

// withExtent wraps the paint returned by rasterx.Gradient.GetColorFunction
// to leave the points outside the gradient untouched.
func withExtent(paint interface{}, inside extentFunc) rasterx.ColorFunc {
	var f rasterx.ColorFunc
	switch p := paint.(type) {
	case rasterx.ColorFunc:
		f = p
	case color.Color:
		f = func(x, y int) color.Color { return p }
	default:
		f = func(x, y int) color.Color { return color.Transparent }
	}
	return func(x, y int) color.Color {
		if !inside(float64(x)+0.5, float64(y)+0.5) {
			return color.Transparent
		}
		return f(x, y)
	}
}

// paintClipRegion fills the whole clip region with src.
func (s *Surface) paintClipRegion(src interface{}) {
	c := s.gs.clip
	s.filler.Clear()
	s.filler.Start(fixed.P(c.Min.X, c.Min.Y))
	s.filler.Line(fixed.P(c.Max.X, c.Min.Y))
	s.filler.Line(fixed.P(c.Max.X, c.Max.Y))
	s.filler.Line(fixed.P(c.Min.X, c.Max.Y))
	s.filler.Stop(true)
	s.paint(src)
}

// DrawLinearGradient fills the clip region with an axial gradient.
// The colors are extended beyond the start and end points
// according to options.
func (s *Surface) DrawLinearGradient(g *drawing.Gradient, start, end drawing.Point, options drawing.GradientOptions) {
	ctm := s.Pather.CTM
	x1, y1 := ctm.Transform(start.X, start.Y)
	x2, y2 := ctm.Transform(end.X, end.Y)
	dx, dy := x2-x1, y2-y1
	d := dx*dx + dy*dy
	if d == 0 || s.width == 0 || s.height == 0 { // nothing to draw
		return
	}

	grad := s.toRasterxGradient(g)
	grad.Points = [5]float64{x1, y1, x2, y2}
	before := options&drawing.DrawsBeforeStartLocation != 0
	after := options&drawing.DrawsAfterEndLocation != 0
	inside := func(x, y float64) bool {
		t := ((x-x1)*dx + (y-y1)*dy) / d
		return (t >= 0 || before) && (t <= 1 || after)
	}
	s.paintClipRegion(withExtent(grad.GetColorFunction(s.gs.alpha), inside))
}

// DrawRadialGradient fills the clip region with a radial gradient,
// using the start center as focal point.
// A non zero start radius is not supported, and is ignored.
func (s *Surface) DrawRadialGradient(g *drawing.Gradient, startCenter drawing.Point, startRadius float64,
	endCenter drawing.Point, endRadius float64, options drawing.GradientOptions,
) {
	if startRadius != 0 {
		s.Unsupported("radial gradient with a non zero start radius")
	}
	ctm := s.Pather.CTM
	scale := ctm.ScaleFactor()
	fx, fy := ctm.Transform(startCenter.X, startCenter.Y)
	cx, cy := ctm.Transform(endCenter.X, endCenter.Y)
	r0, r1 := startRadius*scale, endRadius*scale
	if !(r1 > 0) || s.width == 0 || s.height == 0 { // nothing to draw
		return
	}

	grad := s.toRasterxGradient(g)
	grad.IsRadial = true
	grad.Points = [5]float64{cx, cy, fx, fy, r1}
	before := options&drawing.DrawsBeforeStartLocation != 0
	after := options&drawing.DrawsAfterEndLocation != 0
	inside := func(x, y float64) bool {
		if !after && math.Hypot(x-cx, y-cy) > r1 {
			return false
		}
		if !before && math.Hypot(x-fx, y-fy) < r0 {
			return false
		}
		return true
	}
	s.paintClipRegion(withExtent(grad.GetColorFunction(s.gs.alpha), inside))
}
