// Package drawing defines the abstract drawing surface targeted by the
// bytecode interpreter, with the value types it consumes.
// Concrete surfaces are provided by bcdraw/raster, bcdraw/pdf and bcdraw/recorder.
package drawing

// Surface knows how to do the actual draw operations,
// but doesn't need any bytecode knowledge.
//
// The model is the one of CoreGraphics: a current path is built in user
// space (points are transformed by the current transformation matrix
// when they are added), then consumed by a painting or clipping operation.
// Paint, line style and clip are part of the native graphics state, saved
// and restored with SaveGState and RestoreGState.
type Surface interface {
	// Path construction

	MoveTo(p Point)
	AddLineTo(p Point)
	AddLines(points []Point)
	AddCurveTo(c1, c2, end Point)
	ClosePath()
	// AddArc adds a circular arc, with angles in radians.
	// A line is added from the current point to the start of the arc, if any.
	AddArc(center Point, radius, startAngle, endAngle float64, clockwise bool)
	AddEllipse(in Rect)
	AddRect(r Rect)
	AddRoundedRect(r Rect, cornerWidth, cornerHeight float64)
	// ReplacePathWithStrokePath replaces the current path by the outline
	// which would be painted by StrokePath.
	ReplacePathWithStrokePath()
	// BeginPath discards the current path.
	BeginPath()

	// Painting. All painting operations consume the current path.

	FillPath(rule FillRule)
	StrokePath()
	DrawPath(mode PathDrawingMode)
	FillEllipse(in Rect)
	SetFillColor(c RGBA)
	SetStrokeColor(c RGBA)
	// SetAlpha sets the global opacity
	SetAlpha(alpha float64)

	// Clipping

	// Clip intersects the clip region with the current path, and consumes it.
	Clip(rule FillRule)
	ClipToRect(r Rect)

	// Gradients fill the current clip region.

	DrawLinearGradient(g *Gradient, start, end Point, options GradientOptions)
	DrawRadialGradient(g *Gradient, startCenter Point, startRadius float64,
		endCenter Point, endRadius float64, options GradientOptions)

	// Effects

	// SetShadow expects an offset and blur already expressed in device space.
	SetShadow(offset Point, blur float64, color RGBA)
	BeginTransparencyLayer()
	EndTransparencyLayer()

	// Graphics state

	SaveGState()
	RestoreGState()
	ConcatCTM(m Matrix2D)
	// CTM returns the current transformation matrix.
	CTM() Matrix2D
	SetLineWidth(width float64)
	SetLineCap(c LineCap)
	SetLineJoin(j LineJoin)
	// SetLineDash sets the dash pattern; nil lengths means a solid line.
	SetLineDash(phase float64, lengths []float64)
	SetFlatness(flatness float64)
	SetBlendMode(mode BlendMode)
	SetRenderingIntent(intent RenderingIntent)
	SetFillColorSpace(cs ColorSpace)
	SetStrokeColorSpace(cs ColorSpace)
}
