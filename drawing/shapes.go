package drawing

import "math"

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// when approximating an elliptic arc.
const maxDx float64 = math.Pi / 8

// arcSweep returns the signed angle swept from start to end.
// Clockwise arcs have a negative sweep. A difference of at least a full
// turn yields a full circle.
func arcSweep(start, end float64, clockwise bool) float64 {
	delta := end - start
	if math.Abs(delta) >= 2*math.Pi {
		if clockwise {
			return -2 * math.Pi
		}
		return 2 * math.Pi
	}
	if clockwise && delta > 0 {
		delta -= 2 * math.Pi
	} else if !clockwise && delta < 0 {
		delta += 2 * math.Pi
	}
	return delta
}

// ellipticArc adds to the path a sequence of cubic bezier curves approximating
// the arc of the (axis aligned) ellipse with center c and radii rx, ry, starting
// at angle start and sweeping delta radians.
// The current point must be the start of the arc.
func (p *Pather) ellipticArc(c Point, rx, ry, start, delta float64) {
	// Round up to determine number of cubic splines to approximate bezier curve
	segs := int(math.Abs(delta)/maxDx) + 1
	dEta := delta / float64(segs) // span of each segment
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	last := ellipsePointAt(c, rx, ry, start)
	lastD := ellipsePrime(rx, ry, start)
	for i := 1; i <= segs; i++ {
		eta := start + dEta*float64(i)
		pt := ellipsePointAt(c, rx, ry, eta)
		d := ellipsePrime(rx, ry, eta)
		p.AddCurveTo(
			Point{last.X + alpha*lastD.X, last.Y + alpha*lastD.Y},
			Point{pt.X - alpha*d.X, pt.Y - alpha*d.Y},
			pt,
		)
		last, lastD = pt, d
	}
}

// ellipsePrime gives tangent vectors for parameterized elipse; a, b radii, eta parameter
func ellipsePrime(a, b, eta float64) Point {
	sin, cos := math.Sincos(eta)
	return Point{-a * sin, b * cos}
}

// ellipsePointAt gives points for parameterized elipse; a, b radii, eta parameter, center c
func ellipsePointAt(c Point, a, b, eta float64) Point {
	sin, cos := math.Sincos(eta)
	return Point{c.X + a*cos, c.Y + b*sin}
}

// AddArc adds a circular arc, with angles in radians.
// A line is added from the current point to the start of the arc, if any.
func (p *Pather) AddArc(center Point, radius, startAngle, endAngle float64, clockwise bool) {
	start := ellipsePointAt(center, radius, radius, startAngle)
	if p.hasCurrent {
		p.AddLineTo(start)
	} else {
		p.MoveTo(start)
	}
	delta := arcSweep(startAngle, endAngle, clockwise)
	if delta == 0 || math.IsNaN(delta) || !(radius > 0) || math.IsInf(radius, 0) {
		return
	}
	p.ellipticArc(center, radius, radius, startAngle, delta)
}

// AddEllipse adds a closed ellipse inscribed in r.
func (p *Pather) AddEllipse(r Rect) {
	r = r.Canon()
	c := r.Center()
	rx, ry := r.W/2, r.H/2
	p.MoveTo(Point{c.X + rx, c.Y})
	p.ellipticArc(c, rx, ry, 0, 2*math.Pi)
	p.ClosePath()
}

// AddRect adds a closed rectangle.
func (p *Pather) AddRect(r Rect) {
	p.MoveTo(Point{r.X, r.Y})
	p.AddLineTo(Point{r.X + r.W, r.Y})
	p.AddLineTo(Point{r.X + r.W, r.Y + r.H})
	p.AddLineTo(Point{r.X, r.Y + r.H})
	p.ClosePath()
}

// AddRoundedRect adds a rectangle with rounded corners of radius
// rx in the x axis and ry in the y axis. The radii are clamped to half the size
// of the rectangle; a null radius gives a plain rectangle.
func (p *Pather) AddRoundedRect(r Rect, rx, ry float64) {
	r = r.Canon()
	if !(rx > 0) || !(ry > 0) {
		p.AddRect(r)
		return
	}
	rx, ry = math.Min(rx, r.W/2), math.Min(ry, r.H/2)
	minX, minY, maxX, maxY := r.X, r.Y, r.X+r.W, r.Y+r.H
	const quarter = math.Pi / 2

	p.MoveTo(Point{minX + rx, minY})
	p.AddLineTo(Point{maxX - rx, minY})
	p.ellipticArc(Point{maxX - rx, minY + ry}, rx, ry, -quarter, quarter)
	p.AddLineTo(Point{maxX, maxY - ry})
	p.ellipticArc(Point{maxX - rx, maxY - ry}, rx, ry, 0, quarter)
	p.AddLineTo(Point{minX + rx, maxY})
	p.ellipticArc(Point{minX + rx, maxY - ry}, rx, ry, quarter, quarter)
	p.AddLineTo(Point{minX, minY + ry})
	p.ellipticArc(Point{minX + rx, minY + ry}, rx, ry, 2*quarter, quarter)
	p.ClosePath()
}
