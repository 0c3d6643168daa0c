// Implements a raster backend for drawing programs,
// by wrapping rasterx.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

var _ drawing.Surface = (*Surface)(nil) // assert interface conformance

// graphicState is the part of the state saved by SaveGState.
type graphicState struct {
	ctm         drawing.Matrix2D
	fill        drawing.RGBA
	stroke      drawing.RGBA
	alpha       float64
	lineWidth   float64
	lineCap     drawing.LineCap
	lineJoin    drawing.LineJoin
	dashPhase   float64
	dashLengths []float64
	clip        image.Rectangle // in device space
}

// Surface draws on an image, in device space: the unit
// is the pixel and the Y axis points down.
//
// Shadows, blend modes other than normal, even-odd filling and
// non rectangular clipping are not supported, and reported
// according to the ErrorMode.
type Surface struct {
	drawing.Pather
	drawing.ErrorHandler

	width, height int
	scanner       *rasterx.ScannerGV
	dasher        *rasterx.Dasher // to avoid shared state
	filler        *rasterx.Filler // we use separated instance

	gs     graphicState
	saved  []graphicState
	layers []layer

	// outline is true when the current path is the set of edges built
	// by ReplacePathWithStrokePath, whose subpaths must not be closed
	outline bool
}

// NewSurface returns a surface drawing on dst, whose bounds
// must start at the origin.
// The initial state uses an opaque black fill and stroke, and a line width of 1.
func NewSurface(dst draw.Image) *Surface {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, b)
	return &Surface{
		Pather:  drawing.NewPather(),
		width:   w,
		height:  h,
		scanner: scanner,
		dasher:  rasterx.NewDasher(w, h, scanner),
		filler:  rasterx.NewFiller(w, h, scanner),
		gs: graphicState{
			ctm:       drawing.Identity,
			fill:      drawing.Black.WithAlpha(1),
			stroke:    drawing.Black.WithAlpha(1),
			alpha:     1,
			lineWidth: 1,
			clip:      image.Rect(0, 0, w, h),
		},
	}
}

// toColor applies the global alpha to c
func toColor(c drawing.RGBA, alpha float64) color.NRGBA {
	r, g, b := c.RGB8()
	return rasterx.ApplyOpacity(color.NRGBA{r, g, b, 0xff}, clamp01(c.A*alpha))
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

// deviceRect returns the smallest pixel rectangle containing r.
func deviceRect(r drawing.Rect) image.Rectangle {
	r = r.Canon()
	return image.Rect(int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)))
}

// paint draws the accumulated scan with the given color (or color function),
// restricted to the clip region, and resets the scanner.
func (s *Surface) paint(src interface{}) {
	defer s.scanner.Clear()
	if s.gs.clip.Empty() {
		return
	}
	if s.gs.clip == image.Rect(0, 0, s.width, s.height) {
		s.scanner.SetClip(image.ZR)
	} else {
		s.scanner.SetClip(s.gs.clip)
	}
	s.scanner.SetColor(src)
	s.scanner.Draw()
}

func (s *Surface) fill(path drawing.Path, outline bool, rule drawing.FillRule) {
	if rule == drawing.EvenOdd {
		s.Unsupported("even-odd fill rule")
	}
	if outline {
		s.scanEdges(path)
	} else {
		s.filler.Clear()
		path.AddTo(s.filler)
	}
	s.paint(toColor(s.gs.fill, s.gs.alpha))
}

// scanEdges sends the segments of path to the scanner,
// without closing the subpaths.
func (s *Surface) scanEdges(path drawing.Path) {
	s.scanner.Clear()
	for _, op := range path {
		switch op := op.(type) {
		case drawing.MoveTo:
			s.scanner.Start(fixed.Point26_6(op))
		case drawing.LineTo:
			s.scanner.Line(fixed.Point26_6(op))
		}
	}
}

// consumePath returns the current path and starts a new one.
func (s *Surface) consumePath() (path drawing.Path, outline bool) {
	outline = s.outline
	s.outline = false
	return s.ConsumePath(), outline
}

// BeginPath discards the current path.
func (s *Surface) BeginPath() {
	s.outline = false
	s.Pather.BeginPath()
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		drawing.MiterJoin: rasterx.Miter,
		drawing.RoundJoin: rasterx.Round,
		drawing.BevelJoin: rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		drawing.ButtCap:   rasterx.ButtCap,
		drawing.RoundCap:  rasterx.RoundCap,
		drawing.SquareCap: rasterx.SquareCap,
	}
)

// miterLimit is the default limit of CoreGraphics
const miterLimit = fixed.Int26_6(10 << 6)

// setStroke configures d with the current line style,
// scaled from user space to device space.
func (s *Surface) setStroke(d *rasterx.Dasher) {
	scale := s.Pather.CTM.ScaleFactor()
	var dashes []float64
	for _, l := range s.gs.dashLengths {
		dashes = append(dashes, l*scale)
	}
	var gap rasterx.GapFunc // nil selects the gap matching the join
	lc := capToFunc[drawing.ButtCap]
	if int(s.gs.lineCap) < len(capToFunc) {
		lc = capToFunc[s.gs.lineCap]
	}
	jm := rasterx.Miter
	if int(s.gs.lineJoin) < len(joinToJoin) {
		jm = joinToJoin[s.gs.lineJoin]
	}
	width := fixed.Int26_6(s.gs.lineWidth * scale * 64)
	d.SetStroke(width, miterLimit, lc, nil, gap, jm, dashes, s.gs.dashPhase*scale)
}

func (s *Surface) stroke(path drawing.Path) {
	s.setStroke(s.dasher)
	s.dasher.Clear()
	path.AddTo(s.dasher)
	s.paint(toColor(s.gs.stroke, s.gs.alpha))
}

// FillPath fills and consumes the current path.
// The even-odd rule is not supported by the rasterizer, and
// is replaced by the non-zero winding rule.
func (s *Surface) FillPath(rule drawing.FillRule) {
	path, outline := s.consumePath()
	s.fill(path, outline, rule)
}

func (s *Surface) StrokePath() {
	path, _ := s.consumePath()
	s.stroke(path)
}

func (s *Surface) DrawPath(mode drawing.PathDrawingMode) {
	path, outline := s.consumePath()
	if fills, rule := mode.Fills(); fills {
		s.fill(path, outline, rule)
	}
	if mode.Strokes() {
		s.stroke(path)
	}
}

// FillEllipse fills the ellipse inscribed in r. The current path is discarded.
func (s *Surface) FillEllipse(r drawing.Rect) {
	s.BeginPath()
	s.AddEllipse(r)
	s.FillPath(drawing.Winding)
}

// ReplacePathWithStrokePath replaces the current path by the
// edges traced by the stroker. The resulting path is meant to be
// filled with the winding rule: stroking it or clipping to it only
// uses its segments.
func (s *Surface) ReplacePathWithStrokePath() {
	path, _ := s.consumePath()
	capture := new(pathScanner)
	d := rasterx.NewDasher(s.width, s.height, capture)
	s.setStroke(d)
	path.AddTo(d)
	s.SetPath(capture.path)
	s.outline = true
}

func (s *Surface) SetFillColor(c drawing.RGBA) { s.gs.fill = c }

func (s *Surface) SetStrokeColor(c drawing.RGBA) { s.gs.stroke = c }

func (s *Surface) SetAlpha(alpha float64) { s.gs.alpha = alpha }

// Clip intersects the clip region with the bounding box of the current path.
// This is exact for rectangles only: other paths are reported as unsupported.
func (s *Surface) Clip(rule drawing.FillRule) {
	path, _ := s.consumePath()
	bounds, ok := path.Bounds()
	if !ok { // empty path: nothing is visible anymore
		s.gs.clip = image.Rectangle{}
		return
	}
	if !isRectangle(path) {
		s.Unsupported("clipping to a non rectangular path")
	}
	s.gs.clip = s.gs.clip.Intersect(deviceRect(bounds))
}

func (s *Surface) ClipToRect(r drawing.Rect) {
	ctm := s.Pather.CTM
	if ctm.B != 0 || ctm.C != 0 {
		s.Unsupported("clipping to a rotated rectangle")
	}
	s.gs.clip = s.gs.clip.Intersect(deviceRect(ctm.Bounds(r)))
}

// isRectangle returns true if path is made of one axis aligned rectangle.
func isRectangle(path drawing.Path) bool {
	var pts []fixed.Point26_6
	for i, op := range path {
		switch op := op.(type) {
		case drawing.MoveTo:
			if i != 0 {
				return false
			}
			pts = append(pts, fixed.Point26_6(op))
		case drawing.LineTo:
			pts = append(pts, fixed.Point26_6(op))
		case drawing.Close:
			if i != len(path)-1 {
				return false
			}
		default:
			return false
		}
	}
	if len(pts) == 5 && pts[4] == pts[0] {
		pts = pts[:4]
	}
	if len(pts) != 4 {
		return false
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%4]
		if a.X != b.X && a.Y != b.Y {
			return false
		}
	}
	return true
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
}

func (s *Surface) CTM() drawing.Matrix2D { return s.Pather.CTM }

func (s *Surface) SetLineWidth(width float64) { s.gs.lineWidth = width }

func (s *Surface) SetLineCap(c drawing.LineCap) { s.gs.lineCap = c }

func (s *Surface) SetLineJoin(j drawing.LineJoin) { s.gs.lineJoin = j }

func (s *Surface) SetLineDash(phase float64, lengths []float64) {
	s.gs.dashPhase = phase
	s.gs.dashLengths = append([]float64(nil), lengths...)
}

// SetFlatness is ignored: rasterx flattens curves adaptively.
func (s *Surface) SetFlatness(flatness float64) {}

func (s *Surface) SetBlendMode(mode drawing.BlendMode) {
	if mode != drawing.BlendNormal {
		s.Unsupported("blend mode " + mode.String())
	}
}

func (s *Surface) SetRenderingIntent(intent drawing.RenderingIntent) {}

// SetFillColorSpace is a no-op, since both supported spaces are RGB.
func (s *Surface) SetFillColorSpace(cs drawing.ColorSpace) {}

func (s *Surface) SetStrokeColorSpace(cs drawing.ColorSpace) {}

// pathScanner is a rasterx.Scanner recording the lines it receives,
// used to retrieve the outline built by a stroker.
type pathScanner struct {
	path drawing.Path
}

var _ rasterx.Scanner = (*pathScanner)(nil)

func (p *pathScanner) Start(a fixed.Point26_6) { p.path.Start(a) }

func (p *pathScanner) Line(b fixed.Point26_6) { p.path.Line(b) }

func (p *pathScanner) Draw() {}

func (p *pathScanner) GetPathExtent() fixed.Rectangle26_6 { return fixed.Rectangle26_6{} }

func (p *pathScanner) SetBounds(w, h int) {}

func (p *pathScanner) SetColor(color interface{}) {}

func (p *pathScanner) SetWinding(useNonZeroWinding bool) {}

func (p *pathScanner) Clear() { p.path.Clear() }

func (p *pathScanner) SetClip(rect image.Rectangle) {}
