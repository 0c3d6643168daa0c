// Implements a PDF backend for drawing programs,
// by wrapping github.com/jung-kurt/gofpdf.
package pdf

import (
	"fmt"
	"math"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/math/fixed"
)

var _ drawing.Surface = (*Surface)(nil) // assert interface conformance

// pather writes path commands to the pdf,
// converting quadratic curves to cubic ones
type pather struct {
	pdf *gofpdf.Fpdf
	a   fixed.Point26_6 // current point
}

var _ drawing.Adder = (*pather)(nil)

func (p *pather) Start(a fixed.Point26_6) {
	p.pdf.MoveTo(drawing.FromFixed(a))
	p.a = a
}

func (p *pather) Line(b fixed.Point26_6) {
	p.pdf.LineTo(drawing.FromFixed(b))
	p.a = b
}

func (p *pather) QuadBezier(b, c fixed.Point26_6) {
	// gofpdf CurveTo uses the 'v' operator, which is not a quadratic curve
	x0, y0 := drawing.FromFixed(p.a)
	x1, y1 := drawing.FromFixed(b)
	x2, y2 := drawing.FromFixed(c)
	p.pdf.CurveBezierCubicTo(x0+2./3*(x1-x0), y0+2./3*(y1-y0), x2+2./3*(x1-x2), y2+2./3*(y1-y2), x2, y2)
	p.a = c
}

func (p *pather) CubeBezier(b, c, d fixed.Point26_6) {
	cx0, cy0 := drawing.FromFixed(b)
	cx1, cy1 := drawing.FromFixed(c)
	x, y := drawing.FromFixed(d)
	p.pdf.CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y)
	p.a = d
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

// graphicState is the part of the state which must be
// known when painting, since gofpdf does not expose it.
type graphicState struct {
	ctm         drawing.Matrix2D
	fill        drawing.RGBA
	stroke      drawing.RGBA
	alpha       float64
	blend       string
	lineWidth   float64
	dashPhase   float64
	dashLengths []float64
}

// Surface writes to the current page of a gofpdf document,
// using the page units with a Y axis pointing down.
//
// Gradients are limited to their first and last colors, and are always
// extended. Shadows, transparency layers and stroke path replacement are
// not supported, and reported according to the ErrorMode.
type Surface struct {
	drawing.Pather
	drawing.ErrorHandler

	pdf    *gofpdf.Fpdf
	gs     graphicState
	saved  []graphicState
	layers int
}

// NewSurface returns a surface writing to the given `pdf`,
// whose current page is used.
func NewSurface(pdf *gofpdf.Fpdf) *Surface {
	s := &Surface{
		Pather: drawing.NewPather(),
		pdf:    pdf,
		gs: graphicState{
			ctm:       drawing.Identity,
			fill:      drawing.Black.WithAlpha(1),
			stroke:    drawing.Black.WithAlpha(1),
			alpha:     1,
			blend:     "Normal",
			lineWidth: 1,
		},
	}
	pdf.SetLineCapStyle("butt")
	pdf.SetLineJoinStyle("miter")
	return s
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// writePath emits the path construction operators
func (s *Surface) writePath(path drawing.Path) {
	path.AddTo(&pather{pdf: s.pdf})
}

func (s *Surface) setFill(c drawing.RGBA) {
	r, g, b := c.RGB8()
	s.pdf.SetFillColor(int(r), int(g), int(b))
	s.pdf.SetAlpha(clamp01(c.A*s.gs.alpha), s.gs.blend)
}

func (s *Surface) setStroke(c drawing.RGBA) {
	r, g, b := c.RGB8()
	s.pdf.SetDrawColor(int(r), int(g), int(b))
	s.pdf.SetAlpha(clamp01(c.A*s.gs.alpha), s.gs.blend)

	// points are already in device space: lengths are scaled here
	scale := s.Pather.CTM.ScaleFactor()
	s.pdf.SetLineWidth(s.gs.lineWidth * scale)
	dashes := make([]float64, len(s.gs.dashLengths))
	for i, l := range s.gs.dashLengths {
		dashes[i] = l * scale
	}
	s.pdf.SetDashPattern(dashes, s.gs.dashPhase*scale)
}

func fillStyle(rule drawing.FillRule) string {
	if rule == drawing.EvenOdd {
		return "F*"
	}
	return "F"
}

func (s *Surface) FillPath(rule drawing.FillRule) {
	path := s.ConsumePath()
	s.setFill(s.gs.fill)
	s.writePath(path)
	s.pdf.DrawPath(fillStyle(rule))
}

func (s *Surface) StrokePath() {
	path := s.ConsumePath()
	s.setStroke(s.gs.stroke)
	s.writePath(path)
	s.pdf.DrawPath("D")
}

// DrawPath uses a single operator when the fill and stroke
// opacities are the same, and paints twice otherwise,
// since gofpdf sets both opacities at once.
func (s *Surface) DrawPath(mode drawing.PathDrawingMode) {
	path := s.ConsumePath()
	fills, rule := mode.Fills()
	strokes := mode.Strokes()
	if fills && strokes && s.gs.fill.A == s.gs.stroke.A {
		s.setFill(s.gs.fill)
		s.setStroke(s.gs.stroke)
		s.writePath(path)
		if rule == drawing.EvenOdd {
			s.pdf.DrawPath("FD*")
		} else {
			s.pdf.DrawPath("FD")
		}
		return
	}
	if fills {
		s.setFill(s.gs.fill)
		s.writePath(path)
		s.pdf.DrawPath(fillStyle(rule))
	}
	if strokes {
		s.setStroke(s.gs.stroke)
		s.writePath(path)
		s.pdf.DrawPath("D")
	}
}

// FillEllipse fills the ellipse inscribed in r. The current path is discarded.
func (s *Surface) FillEllipse(r drawing.Rect) {
	s.BeginPath()
	s.AddEllipse(r)
	s.FillPath(drawing.Winding)
}

// ReplacePathWithStrokePath is not supported: the path is kept as it is.
func (s *Surface) ReplacePathWithStrokePath() {
	s.Unsupported("stroke path replacement")
}

func (s *Surface) SetFillColor(c drawing.RGBA) { s.gs.fill = c }

func (s *Surface) SetStrokeColor(c drawing.RGBA) { s.gs.stroke = c }

func (s *Surface) SetAlpha(alpha float64) { s.gs.alpha = alpha }

// Clip intersects the clipping path with the current path,
// until the matching RestoreGState.
func (s *Surface) Clip(rule drawing.FillRule) {
	path := s.ConsumePath()
	if len(path) == 0 { // nothing is visible anymore
		s.pdf.MoveTo(0, 0)
	}
	s.writePath(path)
	if rule == drawing.EvenOdd {
		s.pdf.DrawPath("W* n")
	} else {
		s.pdf.DrawPath("W n")
	}
}

func (s *Surface) ClipToRect(r drawing.Rect) {
	var p drawing.Pather
	p.CTM = s.Pather.CTM
	p.AddRect(r)
	s.writePath(p.Path)
	s.pdf.DrawPath("W n")
}

// SetShadow is not supported: only disabling the shadow is accepted.
func (s *Surface) SetShadow(offset drawing.Point, blur float64, color drawing.RGBA) {
	if color.A != 0 {
		s.Unsupported("shadow")
	}
}

// BeginTransparencyLayer is not supported: the content of the layer is
// drawn directly, inside a saved graphics state.
func (s *Surface) BeginTransparencyLayer() {
	s.Unsupported("transparency layer")
	s.layers++
	s.SaveGState()
}

func (s *Surface) EndTransparencyLayer() {
	if s.layers == 0 {
		return
	}
	s.layers--
	s.RestoreGState()
}

func (s *Surface) SaveGState() {
	s.gs.ctm = s.Pather.CTM
	s.saved = append(s.saved, s.gs)
	s.pdf.TransformBegin()
}

// RestoreGState is a no-op on an empty stack.
func (s *Surface) RestoreGState() {
	if len(s.saved) == 0 {
		return
	}
	s.gs = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.Pather.CTM = s.gs.ctm
	s.pdf.TransformEnd()
}

func (s *Surface) CTM() drawing.Matrix2D { return s.Pather.CTM }

func (s *Surface) SetLineWidth(width float64) { s.gs.lineWidth = width }

var (
	capStyles  = [...]string{drawing.ButtCap: "butt", drawing.RoundCap: "round", drawing.SquareCap: "square"}
	joinStyles = [...]string{drawing.MiterJoin: "miter", drawing.RoundJoin: "round", drawing.BevelJoin: "bevel"}
)

func (s *Surface) SetLineCap(c drawing.LineCap) {
	if int(c) < len(capStyles) {
		s.pdf.SetLineCapStyle(capStyles[c])
	}
}

func (s *Surface) SetLineJoin(j drawing.LineJoin) {
	if int(j) < len(joinStyles) {
		s.pdf.SetLineJoinStyle(joinStyles[j])
	}
}

func (s *Surface) SetLineDash(phase float64, lengths []float64) {
	s.gs.dashPhase = phase
	s.gs.dashLengths = append([]float64(nil), lengths...)
}

// SetFlatness writes the flatness tolerance, in device pixels.
func (s *Surface) SetFlatness(flatness float64) {
	if flatness < 0 || flatness > 100 || math.IsNaN(flatness) {
		return
	}
	s.pdf.RawWriteStr(fmt.Sprintf("%.2f i", flatness))
}

// SetBlendMode supports the PDF blend modes, whose names
// match the ones accepted by gofpdf. The Porter-Duff
// modes are replaced by Normal.
func (s *Surface) SetBlendMode(mode drawing.BlendMode) {
	if !mode.IsSeparable() {
		s.Unsupported("blend mode " + mode.String())
		mode = drawing.BlendNormal
	}
	s.gs.blend = mode.String()
}

func (s *Surface) SetRenderingIntent(intent drawing.RenderingIntent) {
	if intent == drawing.IntentDefault || intent > drawing.IntentSaturation {
		return
	}
	s.pdf.RawWriteStr(fmt.Sprintf("/%s ri", intent))
}

// SetFillColorSpace is a no-op: colors are written as DeviceRGB.
func (s *Surface) SetFillColorSpace(cs drawing.ColorSpace) {}

func (s *Surface) SetStrokeColorSpace(cs drawing.ColorSpace) {}
