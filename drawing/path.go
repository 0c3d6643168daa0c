package drawing

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/fixed"
)

// Adder receives path commands in device space. It matches
// rasterx.Adder, so that the fillers, strokers and dashers of rasterx
// may consume a Path directly.
type Adder interface {
	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	QuadBezier(b, c fixed.Point26_6)
	CubeBezier(b, c, d fixed.Point26_6)
	// Stop ends the current subpath, closing it if closeLoop is true.
	Stop(closeLoop bool)
}

// Operation is one path command, in device space.
type Operation interface {
	addTo(q Adder)
}

type MoveTo fixed.Point26_6

type LineTo fixed.Point26_6

type QuadTo [2]fixed.Point26_6

type CubicTo [3]fixed.Point26_6

type Close struct{}

func (op MoveTo) addTo(q Adder) {
	q.Stop(false) // implicit end of the previous subpath
	q.Start(fixed.Point26_6(op))
}

func (op LineTo) addTo(q Adder) { q.Line(fixed.Point26_6(op)) }

func (op QuadTo) addTo(q Adder) { q.QuadBezier(op[0], op[1]) }

func (op CubicTo) addTo(q Adder) { q.CubeBezier(op[0], op[1], op[2]) }

func (op Close) addTo(q Adder) { q.Stop(true) }

// Path is the current path of a surface, already transformed
// to device space. A Path implements Adder, so that it
// may record the output of a stroker.
type Path []Operation

func writePoints(b *strings.Builder, cmd byte, points ...fixed.Point26_6) {
	b.WriteByte(cmd)
	for _, pt := range points {
		x, y := FromFixed(pt)
		fmt.Fprintf(b, " %g %g", x, y)
	}
}

// String returns the path in SVG syntax, with absolute commands.
func (p Path) String() string {
	var b strings.Builder
	for i, op := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch op := op.(type) {
		case MoveTo:
			writePoints(&b, 'M', fixed.Point26_6(op))
		case LineTo:
			writePoints(&b, 'L', fixed.Point26_6(op))
		case QuadTo:
			writePoints(&b, 'Q', op[:]...)
		case CubicTo:
			writePoints(&b, 'C', op[:]...)
		case Close:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

// Clear empties the path, keeping its capacity.
func (p *Path) Clear() {
	*p = (*p)[:0]
}

func (p *Path) Start(a fixed.Point26_6) {
	*p = append(*p, MoveTo(a))
}

func (p *Path) Line(b fixed.Point26_6) {
	*p = append(*p, LineTo(b))
}

func (p *Path) QuadBezier(b, c fixed.Point26_6) {
	*p = append(*p, QuadTo{b, c})
}

func (p *Path) CubeBezier(b, c, d fixed.Point26_6) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop appends a Close command if closeLoop is true.
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// AddTo replays the path on q, and ends the last subpath
// without closing it.
func (p Path) AddTo(q Adder) {
	for _, op := range p {
		op.addTo(q)
	}
	q.Stop(false)
}

// Copy returns a copy of the path, not sharing memory with p.
func (p Path) Copy() Path { return append(Path(nil), p...) }
