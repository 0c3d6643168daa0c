package drawing

// Pather implements the path construction methods of Surface:
// points are given in user space, transformed by CTM and
// accumulated in device space, in Path.
//
// Surfaces embed a Pather, and save CTM with the rest of
// their graphics state. The current path is not part of the
// graphics state.
type Pather struct {
	CTM  Matrix2D
	Path Path

	hasCurrent bool // false until the first MoveTo of the path
}

// NewPather returns an empty path with an identity transform.
func NewPather() Pather { return Pather{CTM: Identity} }

// HasCurrentPoint returns true if a subpath is started.
func (p *Pather) HasCurrentPoint() bool { return p.hasCurrent }

// MoveTo starts a new subpath.
func (p *Pather) MoveTo(pt Point) {
	p.Path.Start(p.CTM.TFixed(pt))
	p.hasCurrent = true
}

// AddLineTo adds a line segment. Without current point,
// it behaves as MoveTo.
func (p *Pather) AddLineTo(pt Point) {
	if !p.hasCurrent {
		p.MoveTo(pt)
		return
	}
	p.Path.Line(p.CTM.TFixed(pt))
}

// AddLines starts a new subpath at the first point, and adds
// line segments between the next ones.
func (p *Pather) AddLines(points []Point) {
	if len(points) == 0 {
		return
	}
	p.MoveTo(points[0])
	for _, pt := range points[1:] {
		p.Path.Line(p.CTM.TFixed(pt))
	}
}

// AddCurveTo adds a cubic bezier curve. Without current point,
// the curve starts at c1.
func (p *Pather) AddCurveTo(c1, c2, end Point) {
	if !p.hasCurrent {
		p.MoveTo(c1)
	}
	p.Path.CubeBezier(p.CTM.TFixed(c1), p.CTM.TFixed(c2), p.CTM.TFixed(end))
}

// ClosePath closes the current subpath, if any.
func (p *Pather) ClosePath() {
	if !p.hasCurrent {
		return
	}
	p.Path.Stop(true)
}

// BeginPath discards the current path.
func (p *Pather) BeginPath() {
	p.Path.Clear()
	p.hasCurrent = false
}

// ConcatCTM sets CTM to CTM * m, that is m is applied first.
func (p *Pather) ConcatCTM(m Matrix2D) { p.CTM = p.CTM.Mult(m) }

// ConsumePath returns the current path and starts a new one.
// The returned path does not share memory with the Pather.
func (p *Pather) ConsumePath() Path {
	out := p.Path.Copy()
	p.BeginPath()
	return out
}

// SetPath replaces the current path, given in device space.
func (p *Pather) SetPath(path Path) {
	p.Path = path
	p.hasCurrent = len(path) != 0
}
