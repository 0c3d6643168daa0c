package drawing

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// extent accumulates points into a floating point rectangle.
// Unlike fixed.Rectangle26_6, flat boxes (a single horizontal
// line) are kept.
type extent struct {
	min, max Point
	empty    bool
}

func newExtent() extent { return extent{empty: true} }

func (e *extent) include(p Point) {
	if e.empty {
		e.min, e.max, e.empty = p, p, false
		return
	}
	e.min.X, e.max.X = math.Min(e.min.X, p.X), math.Max(e.max.X, p.X)
	e.min.Y, e.max.Y = math.Min(e.min.Y, p.Y), math.Max(e.max.Y, p.Y)
}

func (e extent) rect() Rect {
	return Rect{X: e.min.X, Y: e.min.Y, W: e.max.X - e.min.X, H: e.max.Y - e.min.Y}
}

func toPoint(a fixed.Point26_6) Point {
	x, y := FromFixed(a)
	return Point{x, y}
}

// quadExtrema returns the parameters in ]0, 1[ where the
// derivative of the quadratic Bezier (p0, p1, p2) vanishes.
func quadExtrema(p0, p1, p2 float64) []float64 {
	// B'(t) / 2 = (p0 - 2p1 + p2) t + (p1 - p0)
	den := p0 - 2*p1 + p2
	if den == 0 {
		return nil
	}
	return inUnit((p0 - p1) / den)
}

// cubicExtrema returns the parameters in ]0, 1[ where the
// derivative of the cubic Bezier (p0, p1, p2, p3) vanishes.
func cubicExtrema(p0, p1, p2, p3 float64) []float64 {
	// B'(t) / 3 = a t^2 + b t + c
	a := -p0 + 3*p1 - 3*p2 + p3
	b := 2 * (p0 - 2*p1 + p2)
	c := p1 - p0
	if a == 0 {
		if b == 0 {
			return nil
		}
		return inUnit(-c / b)
	}
	delta := b*b - 4*a*c
	if delta < 0 {
		return nil
	}
	sq := math.Sqrt(delta)
	return inUnit((-b+sq)/(2*a), (-b-sq)/(2*a))
}

func inUnit(ts ...float64) []float64 {
	out := ts[:0]
	for _, t := range ts {
		if t > 0 && t < 1 {
			out = append(out, t)
		}
	}
	return out
}

func lerp(a, b Point, t float64) Point {
	return Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// evalQuad and evalCubic use the de Casteljau construction.
func evalQuad(p0, p1, p2 Point, t float64) Point {
	return lerp(lerp(p0, p1, t), lerp(p1, p2, t), t)
}

func evalCubic(p0, p1, p2, p3 Point, t float64) Point {
	return evalQuad(lerp(p0, p1, t), lerp(p1, p2, t), lerp(p2, p3, t), t)
}

// Bounds returns the exact bounding box of the path, in device space,
// and false if the path is empty.
// Control points outside of the curves are not included.
func (p Path) Bounds() (Rect, bool) {
	var current, start Point
	ext := newExtent()
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current = toPoint(fixed.Point26_6(op))
			start = current
			ext.include(current)
		case LineTo:
			current = toPoint(fixed.Point26_6(op))
			ext.include(current)
		case QuadTo:
			c, end := toPoint(op[0]), toPoint(op[1])
			for _, t := range append(quadExtrema(current.X, c.X, end.X), quadExtrema(current.Y, c.Y, end.Y)...) {
				ext.include(evalQuad(current, c, end, t))
			}
			current = end
			ext.include(current)
		case CubicTo:
			c1, c2, end := toPoint(op[0]), toPoint(op[1]), toPoint(op[2])
			for _, t := range append(cubicExtrema(current.X, c1.X, c2.X, end.X), cubicExtrema(current.Y, c1.Y, c2.Y, end.Y)...) {
				ext.include(evalCubic(current, c1, c2, end, t))
			}
			current = end
			ext.include(current)
		case Close:
			current = start
		}
	}
	if ext.empty {
		return Rect{}, false
	}
	return ext.rect(), true
}

// Bounds returns the bounding box of r transformed by m.
func (m Matrix2D) Bounds(r Rect) Rect {
	ext := newExtent()
	for _, pt := range [4]Point{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}} {
		ext.include(m.TransformPoint(pt))
	}
	return ext.rect()
}
