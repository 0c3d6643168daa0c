// Package recorder provides a drawing.Surface which records
// every call it receives, in order.
//
// It is used to inspect the output of a program, and to
// replay it on other surfaces:
//
//	rec := recorder.New()
//	if err := interp.Run(data, rec); err != nil {
//		return err
//	}
//	rec.Playback(pdfSurface)
package recorder

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/bcdraw/drawing"
)

var _ drawing.Surface = (*Recorder)(nil) // assert interface conformance

// Call is one recorded method call, with its arguments.
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Recorder records the calls made on it.
// It tracks the transformation matrix, so that CTM
// answers as a real surface would.
type Recorder struct {
	Calls []Call

	ctm   drawing.Matrix2D
	saved []drawing.Matrix2D
}

// New returns an empty recorder, with an identity transform.
func New() *Recorder {
	return &Recorder{ctm: drawing.Identity}
}

// Reset discards the recorded calls and the transformation state.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.ctm = drawing.Identity
	r.saved = r.saved[:0]
}

func (r *Recorder) record(name string, args ...interface{}) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

// Names returns the names of the recorded calls.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Name
	}
	return out
}

func (r *Recorder) MoveTo(p drawing.Point) { r.record("MoveTo", p) }

func (r *Recorder) AddLineTo(p drawing.Point) { r.record("AddLineTo", p) }

func (r *Recorder) AddLines(points []drawing.Point) {
	r.record("AddLines", append([]drawing.Point(nil), points...))
}

func (r *Recorder) AddCurveTo(c1, c2, end drawing.Point) { r.record("AddCurveTo", c1, c2, end) }

func (r *Recorder) ClosePath() { r.record("ClosePath") }

func (r *Recorder) AddArc(center drawing.Point, radius, startAngle, endAngle float64, clockwise bool) {
	r.record("AddArc", center, radius, startAngle, endAngle, clockwise)
}

func (r *Recorder) AddEllipse(in drawing.Rect) { r.record("AddEllipse", in) }

func (r *Recorder) AddRect(rect drawing.Rect) { r.record("AddRect", rect) }

func (r *Recorder) AddRoundedRect(rect drawing.Rect, cornerWidth, cornerHeight float64) {
	r.record("AddRoundedRect", rect, cornerWidth, cornerHeight)
}

func (r *Recorder) ReplacePathWithStrokePath() { r.record("ReplacePathWithStrokePath") }

func (r *Recorder) BeginPath() { r.record("BeginPath") }

func (r *Recorder) FillPath(rule drawing.FillRule) { r.record("FillPath", rule) }

func (r *Recorder) StrokePath() { r.record("StrokePath") }

func (r *Recorder) DrawPath(mode drawing.PathDrawingMode) { r.record("DrawPath", mode) }

func (r *Recorder) FillEllipse(in drawing.Rect) { r.record("FillEllipse", in) }

func (r *Recorder) SetFillColor(c drawing.RGBA) { r.record("SetFillColor", c) }

func (r *Recorder) SetStrokeColor(c drawing.RGBA) { r.record("SetStrokeColor", c) }

func (r *Recorder) SetAlpha(alpha float64) { r.record("SetAlpha", alpha) }

func (r *Recorder) Clip(rule drawing.FillRule) { r.record("Clip", rule) }

func (r *Recorder) ClipToRect(rect drawing.Rect) { r.record("ClipToRect", rect) }

func (r *Recorder) DrawLinearGradient(g *drawing.Gradient, start, end drawing.Point, options drawing.GradientOptions) {
	r.record("DrawLinearGradient", g, start, end, options)
}

func (r *Recorder) DrawRadialGradient(g *drawing.Gradient, startCenter drawing.Point, startRadius float64,
	endCenter drawing.Point, endRadius float64, options drawing.GradientOptions,
) {
	r.record("DrawRadialGradient", g, startCenter, startRadius, endCenter, endRadius, options)
}

func (r *Recorder) SetShadow(offset drawing.Point, blur float64, color drawing.RGBA) {
	r.record("SetShadow", offset, blur, color)
}

func (r *Recorder) BeginTransparencyLayer() { r.record("BeginTransparencyLayer") }

func (r *Recorder) EndTransparencyLayer() { r.record("EndTransparencyLayer") }

func (r *Recorder) SaveGState() {
	r.saved = append(r.saved, r.ctm)
	r.record("SaveGState")
}

// RestoreGState restores the transform saved by the matching SaveGState.
// It is a no-op on an empty stack, but is still recorded.
func (r *Recorder) RestoreGState() {
	if n := len(r.saved); n > 0 {
		r.ctm = r.saved[n-1]
		r.saved = r.saved[:n-1]
	}
	r.record("RestoreGState")
}

func (r *Recorder) ConcatCTM(m drawing.Matrix2D) {
	r.ctm = r.ctm.Mult(m)
	r.record("ConcatCTM", m)
}

// CTM is a query and is not recorded.
func (r *Recorder) CTM() drawing.Matrix2D { return r.ctm }

func (r *Recorder) SetLineWidth(width float64) { r.record("SetLineWidth", width) }

func (r *Recorder) SetLineCap(c drawing.LineCap) { r.record("SetLineCap", c) }

func (r *Recorder) SetLineJoin(j drawing.LineJoin) { r.record("SetLineJoin", j) }

func (r *Recorder) SetLineDash(phase float64, lengths []float64) {
	r.record("SetLineDash", phase, append([]float64(nil), lengths...))
}

func (r *Recorder) SetFlatness(flatness float64) { r.record("SetFlatness", flatness) }

func (r *Recorder) SetBlendMode(mode drawing.BlendMode) { r.record("SetBlendMode", mode) }

func (r *Recorder) SetRenderingIntent(intent drawing.RenderingIntent) {
	r.record("SetRenderingIntent", intent)
}

func (r *Recorder) SetFillColorSpace(cs drawing.ColorSpace) { r.record("SetFillColorSpace", cs) }

func (r *Recorder) SetStrokeColorSpace(cs drawing.ColorSpace) { r.record("SetStrokeColorSpace", cs) }
