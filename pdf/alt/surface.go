// Alternative implementation of the PDF backend, writing the content
// stream directly with github.com/benoitkugler/pdf.
//
// Unlike the gofpdf backend, gradients keep all their stops and
// their extensions, and transparency layers are written as
// transparency groups.
package alt

import (
	"math"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
	"golang.org/x/image/math/fixed"
)

var _ drawing.Surface = (*Surface)(nil) // assert interface conformance

// pather writes path commands to an appearance,
// converting quadratic curves to cubic ones
type pather struct {
	app *contentstream.Appearance
	a   fixed.Point26_6 // current point
}

var _ drawing.Adder = (*pather)(nil)

func (p *pather) Start(a fixed.Point26_6) {
	x, y := drawing.FromFixed(a)
	p.app.Ops(contentstream.OpMoveTo{X: x, Y: y})
	p.a = a
}

func (p *pather) Line(b fixed.Point26_6) {
	x, y := drawing.FromFixed(b)
	p.app.Ops(contentstream.OpLineTo{X: x, Y: y})
	p.a = b
}

func (p *pather) QuadBezier(b, c fixed.Point26_6) {
	x0, y0 := drawing.FromFixed(p.a)
	x1, y1 := drawing.FromFixed(b)
	x2, y2 := drawing.FromFixed(c)
	p.app.Ops(contentstream.OpCubicTo{
		X1: x0 + 2./3*(x1-x0), Y1: y0 + 2./3*(y1-y0),
		X2: x2 + 2./3*(x1-x2), Y2: y2 + 2./3*(y1-y2),
		X3: x2, Y3: y2,
	})
	p.a = c
}

func (p *pather) CubeBezier(b, c, d fixed.Point26_6) {
	cx0, cy0 := drawing.FromFixed(b)
	cx1, cy1 := drawing.FromFixed(c)
	x, y := drawing.FromFixed(d)
	p.app.Ops(contentstream.OpCubicTo{X1: cx0, Y1: cy0, X2: cx1, Y2: cy1, X3: x, Y3: y})
	p.a = d
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.app.Ops(contentstream.OpClosePath{})
	}
}

// rgb adapts a color to the contentstream API, which ignores the alpha channel.
type rgb drawing.RGBA

func (c rgb) RGBA() (r, g, b, a uint32) {
	return channel(c.R), channel(c.G), channel(c.B), 0xffff
}

func channel(v float64) uint32 { return uint32(clamp01(v)*0xffff + 0.5) }

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// opacity identifies an ExtGState dictionary
type opacity struct {
	fill, stroke float64
	blend        model.Name
}

type graphicState struct {
	ctm         drawing.Matrix2D
	fill        drawing.RGBA
	stroke      drawing.RGBA
	alpha       float64
	blend       model.Name
	lineWidth   float64
	dashPhase   float64
	dashLengths []float64

	opacity *model.GraphicState // in effect in the content stream, nil for the default
}

// layer is the content of a transparency group,
// painted on its parent when the layer ends.
type layer struct {
	parent *contentstream.Appearance
	gs     graphicState // when the layer began
	depth  int          // of the saved states when the layer began
}

// Surface writes a content stream in device space: the unit
// is the point and the Y axis points down.
//
// Shadows and stroke path replacement are not supported, and
// reported according to the ErrorMode.
type Surface struct {
	drawing.Pather
	drawing.ErrorHandler

	width, height float64
	app           *contentstream.Appearance // the page, or the innermost layer
	compress      bool                      // content streams

	gs     graphicState
	saved  []graphicState
	layers []layer

	states map[opacity]*model.GraphicState // shared by the page and the layers
}

// NewSurface returns a surface drawing on a new page of the given size, in points.
func NewSurface(width, height float64) *Surface {
	app := contentstream.NewAppearance(width, height)
	app.Ops(contentstream.OpConcat{Matrix: model.Matrix{1, 0, 0, -1, 0, height}})
	return &Surface{
		Pather:   drawing.NewPather(),
		width:    width,
		height:   height,
		app:      &app,
		compress: true,
		gs: graphicState{
			ctm:       drawing.Identity,
			fill:      drawing.Black.WithAlpha(1),
			stroke:    drawing.Black.WithAlpha(1),
			alpha:     1,
			blend:     "Normal",
			lineWidth: 1,
		},
		states: make(map[opacity]*model.GraphicState),
	}
}

// writePath emits the path construction operators
func (s *Surface) writePath(path drawing.Path) {
	path.AddTo(&pather{app: s.app})
}

// setOpacity selects the ExtGState with the given alphas,
// already multiplied by the global alpha.
func (s *Surface) setOpacity(fill, stroke float64) {
	key := opacity{fill: clamp01(fill), stroke: clamp01(stroke), blend: s.gs.blend}
	state := s.states[key]
	if state == nil {
		state = &model.GraphicState{
			Ca: model.ObjFloat(key.fill),
			CA: model.ObjFloat(key.stroke),
			BM: []model.Name{key.blend},
		}
		s.states[key] = state
	}
	if s.gs.opacity == state {
		return
	}
	s.gs.opacity = state
	s.app.SetGraphicState(state)
}

func (s *Surface) setPaint() {
	s.app.SetColorFill(rgb(s.gs.fill))
	s.app.SetColorStroke(rgb(s.gs.stroke))
	s.setOpacity(s.gs.fill.A*s.gs.alpha, s.gs.stroke.A*s.gs.alpha)

	// points are already in device space: lengths are scaled here
	scale := s.Pather.CTM.ScaleFactor()
	dashes := make([]float64, len(s.gs.dashLengths))
	for i, l := range s.gs.dashLengths {
		dashes[i] = l * scale
	}
	s.app.Ops(
		contentstream.OpSetLineWidth{W: s.gs.lineWidth * scale},
		contentstream.OpSetDash{Dash: model.DashPattern{Array: dashes, Phase: s.gs.dashPhase * scale}},
	)
}

func (s *Surface) FillPath(rule drawing.FillRule) {
	if rule == drawing.EvenOdd {
		s.DrawPath(drawing.ModeEOFill)
	} else {
		s.DrawPath(drawing.ModeFill)
	}
}

func (s *Surface) StrokePath() { s.DrawPath(drawing.ModeStroke) }

func (s *Surface) DrawPath(mode drawing.PathDrawingMode) {
	path := s.ConsumePath()
	fills, rule := mode.Fills()
	strokes := mode.Strokes()
	if !fills && !strokes {
		return
	}
	s.setPaint()
	s.writePath(path)
	switch {
	case fills && strokes && rule == drawing.EvenOdd:
		s.app.Ops(contentstream.OpEOFillStroke{})
	case fills && strokes:
		s.app.Ops(contentstream.OpFillStroke{})
	case fills && rule == drawing.EvenOdd:
		s.app.Ops(contentstream.OpEOFill{})
	case fills:
		s.app.Ops(contentstream.OpFill{})
	default:
		s.app.Ops(contentstream.OpStroke{})
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
		s.app.Ops(contentstream.OpRectangle{})
	}
	s.writePath(path)
	if rule == drawing.EvenOdd {
		s.app.Ops(contentstream.OpEOClip{}, contentstream.OpEndPath{})
	} else {
		s.app.Ops(contentstream.OpClip{}, contentstream.OpEndPath{})
	}
}

func (s *Surface) ClipToRect(r drawing.Rect) {
	var p drawing.Pather
	p.CTM = s.Pather.CTM
	p.AddRect(r)
	s.writePath(p.Path)
	s.app.Ops(contentstream.OpClip{}, contentstream.OpEndPath{})
}

// SetShadow is not supported: only disabling the shadow is accepted.
func (s *Surface) SetShadow(offset drawing.Point, blur float64, color drawing.RGBA) {
	if color.A != 0 {
		s.Unsupported("shadow")
	}
}

func (s *Surface) SaveGState() {
	s.gs.ctm = s.Pather.CTM
	s.saved = append(s.saved, s.gs)
	s.app.SaveState()
}

// RestoreGState is a no-op on an empty stack, or when the
// last saved state belongs to an enclosing transparency layer.
func (s *Surface) RestoreGState() {
	if len(s.saved) <= s.stateFloor() {
		return
	}
	s.gs = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.Pather.CTM = s.gs.ctm
	_ = s.app.RestoreState() // balanced with s.saved
}

func (s *Surface) CTM() drawing.Matrix2D { return s.Pather.CTM }

func (s *Surface) SetLineWidth(width float64) { s.gs.lineWidth = width }

// line caps and joins use the PDF values
func (s *Surface) SetLineCap(c drawing.LineCap) {
	if c <= drawing.SquareCap {
		s.app.Ops(contentstream.OpSetLineCap{Style: uint8(c)})
	}
}

func (s *Surface) SetLineJoin(j drawing.LineJoin) {
	if j <= drawing.BevelJoin {
		s.app.Ops(contentstream.OpSetLineJoin{Style: uint8(j)})
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
	s.app.Ops(contentstream.OpSetFlat{Flatness: flatness})
}

// SetBlendMode supports the PDF blend modes. The Porter-Duff
// modes are replaced by Normal.
func (s *Surface) SetBlendMode(mode drawing.BlendMode) {
	if !mode.IsSeparable() {
		s.Unsupported("blend mode " + mode.String())
		mode = drawing.BlendNormal
	}
	s.gs.blend = model.Name(mode.String())
}

func (s *Surface) SetRenderingIntent(intent drawing.RenderingIntent) {
	if intent == drawing.IntentDefault || intent > drawing.IntentSaturation {
		return
	}
	s.app.Ops(contentstream.OpSetRenderingIntent{Intent: model.Name(intent.String())})
}

// SetFillColorSpace is a no-op: colors are written as DeviceRGB.
func (s *Surface) SetFillColorSpace(cs drawing.ColorSpace) {}

func (s *Surface) SetStrokeColorSpace(cs drawing.ColorSpace) {}
