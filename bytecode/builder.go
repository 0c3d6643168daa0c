package bytecode

import (
	"encoding/binary"
	"math"

	"github.com/benoitkugler/bcdraw/drawing"
)

// Builder encodes a program. The gradient and subroutine tables
// and the opcode stream are accumulated separately, and
// concatenated by Bytes.
//
// Integers wider than the Format are truncated.
type Builder struct {
	format Format

	gradients     []byte
	gradientCount uint64

	subroutines     []byte
	subroutineCount uint64

	code []byte
}

// NewBuilder returns an empty builder using the given integer widths.
func NewBuilder(format Format) *Builder {
	return &Builder{format: format}
}

// Reset clears the builder, keeping its memory.
func (b *Builder) Reset() {
	b.gradients = b.gradients[:0]
	b.gradientCount = 0
	b.subroutines = b.subroutines[:0]
	b.subroutineCount = 0
	b.code = b.code[:0]
}

func appendUint(dst []byte, width int, v uint64) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case 4:
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	default:
		return binary.LittleEndian.AppendUint64(dst, v)
	}
}

func appendFloat(dst []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(f)))
}

func appendPoint(dst []byte, p drawing.Point) []byte {
	return appendFloat(appendFloat(dst, p.X), p.Y)
}

func appendRect(dst []byte, r drawing.Rect) []byte {
	dst = appendPoint(dst, drawing.Point{X: r.X, Y: r.Y})
	return appendPoint(dst, drawing.Point{X: r.W, Y: r.H})
}

func appendColor(dst []byte, c drawing.Color) []byte {
	r, g, bl := c.WithAlpha(1).RGB8()
	return append(dst, r, g, bl)
}

func (b *Builder) appendStops(dst []byte, stops []drawing.GradientStop) []byte {
	dst = appendUint(dst, b.format.IDSize, uint64(len(stops)))
	for _, s := range stops {
		dst = appendColor(dst, s.Color)
		dst = appendFloat(dst, s.Location)
	}
	return dst
}

// Gradient adds an entry to the gradient table.
func (b *Builder) Gradient(id uint64, stops []drawing.GradientStop) {
	b.gradients = appendUint(b.gradients, b.format.IDSize, id)
	b.gradients = b.appendStops(b.gradients, stops)
	b.gradientCount++
}

// Subroutine adds an entry to the subroutine table, whose
// content is the opcode stream of body. The tables of body are ignored.
func (b *Builder) Subroutine(id uint64, body *Builder) {
	b.RawSubroutine(id, uint64(len(body.code)), body.code)
}

// RawSubroutine adds an entry to the subroutine table, with a declared size
// which may differ from the actual length of code.
func (b *Builder) RawSubroutine(id, size uint64, code []byte) {
	b.subroutines = appendUint(b.subroutines, b.format.IDSize, id)
	b.subroutines = appendUint(b.subroutines, b.format.LengthSize, size)
	b.subroutines = append(b.subroutines, code...)
	b.subroutineCount++
}

// Code returns the opcode stream only.
func (b *Builder) Code() []byte { return b.code }

// Bytes returns the complete program: tables followed by the opcode stream.
func (b *Builder) Bytes() []byte {
	out := make([]byte, 0, 2*b.format.IDSize+len(b.gradients)+len(b.subroutines)+len(b.code))
	out = appendUint(out, b.format.IDSize, b.gradientCount)
	out = append(out, b.gradients...)
	out = appendUint(out, b.format.IDSize, b.subroutineCount)
	out = append(out, b.subroutines...)
	return append(out, b.code...)
}

// Raw appends arbitrary bytes to the opcode stream.
func (b *Builder) Raw(data ...byte) { b.code = append(b.code, data...) }

func (b *Builder) op(op Op) { b.code = append(b.code, byte(op)) }

func (b *Builder) float(f float64) { b.code = appendFloat(b.code, f) }

func (b *Builder) point(p drawing.Point) { b.code = appendPoint(b.code, p) }

func (b *Builder) rect(r drawing.Rect) { b.code = appendRect(b.code, r) }

func (b *Builder) enum(v uint8) { b.code = append(b.code, v) }

func (b *Builder) lengths(ls []float64) {
	b.code = appendUint(b.code, b.format.LengthSize, uint64(len(ls)))
	for _, l := range ls {
		b.float(l)
	}
}

func (b *Builder) MoveTo(p drawing.Point) {
	b.op(OpMoveTo)
	b.point(p)
}

func (b *Builder) LineTo(p drawing.Point) {
	b.op(OpLineTo)
	b.point(p)
}

func (b *Builder) Lines(points []drawing.Point) {
	b.op(OpLines)
	b.code = appendUint(b.code, b.format.LengthSize, uint64(len(points)))
	for _, p := range points {
		b.point(p)
	}
}

func (b *Builder) CurveTo(c1, c2, end drawing.Point) {
	b.op(OpCurveTo)
	b.point(c1)
	b.point(c2)
	b.point(end)
}

func (b *Builder) ClosePath() { b.op(OpClosePath) }

func (b *Builder) AddArc(center drawing.Point, radius, startAngle, endAngle float64, clockwise bool) {
	b.op(OpAddArc)
	b.point(center)
	b.float(radius)
	b.float(startAngle)
	b.float(endAngle)
	if clockwise {
		b.enum(1)
	} else {
		b.enum(0)
	}
}

func (b *Builder) AddEllipse(r drawing.Rect) {
	b.op(OpAddEllipse)
	b.rect(r)
}

func (b *Builder) AppendRectangle(r drawing.Rect) {
	b.op(OpAppendRectangle)
	b.rect(r)
}

func (b *Builder) AppendRoundedRect(r drawing.Rect, cornerWidth, cornerHeight float64) {
	b.op(OpAppendRoundedRect)
	b.rect(r)
	b.float(cornerWidth)
	b.float(cornerHeight)
}

func (b *Builder) ReplacePathWithStrokePath() { b.op(OpReplacePathWithStrokePath) }

func (b *Builder) Fill() { b.op(OpFill) }

func (b *Builder) FillWithRule(rule drawing.FillRule) {
	b.op(OpFillWithRule)
	b.enum(uint8(rule))
}

func (b *Builder) Stroke() { b.op(OpStroke) }

func (b *Builder) FillAndStroke() { b.op(OpFillAndStroke) }

func (b *Builder) FillEllipse(r drawing.Rect) {
	b.op(OpFillEllipse)
	b.rect(r)
}

func (b *Builder) DrawPath(mode drawing.PathDrawingMode) {
	b.op(OpDrawPath)
	b.enum(uint8(mode))
}

func (b *Builder) FillColor(c drawing.Color) {
	b.op(OpFillColor)
	b.code = appendColor(b.code, c)
}

func (b *Builder) StrokeColor(c drawing.Color) {
	b.op(OpStrokeColor)
	b.code = appendColor(b.code, c)
}

func (b *Builder) FillAlpha(alpha float64) {
	b.op(OpFillAlpha)
	b.float(alpha)
}

func (b *Builder) StrokeAlpha(alpha float64) {
	b.op(OpStrokeAlpha)
	b.float(alpha)
}

func (b *Builder) FillNone() { b.op(OpFillNone) }

func (b *Builder) StrokeNone() { b.op(OpStrokeNone) }

func (b *Builder) FillRule(rule drawing.FillRule) {
	b.op(OpFillRule)
	b.enum(uint8(rule))
}

func (b *Builder) SetGlobalAlphaToFillAlpha() { b.op(OpSetGlobalAlphaToFillAlpha) }

func (b *Builder) Clip() { b.op(OpClip) }

func (b *Builder) ClipWithRule(rule drawing.FillRule) {
	b.op(OpClipWithRule)
	b.enum(uint8(rule))
}

func (b *Builder) ClipToRect(r drawing.Rect) {
	b.op(OpClipToRect)
	b.rect(r)
}

func (b *Builder) LinearGradient(id uint64, start, end drawing.Point, options drawing.GradientOptions) {
	b.op(OpLinearGradient)
	b.code = appendUint(b.code, b.format.IDSize, id)
	b.point(start)
	b.point(end)
	b.enum(uint8(options))
}

func (b *Builder) LinearGradientInlined(stops []drawing.GradientStop, start, end drawing.Point, options drawing.GradientOptions) {
	b.op(OpLinearGradientInlined)
	b.code = b.appendStops(b.code, stops)
	b.point(start)
	b.point(end)
	b.enum(uint8(options))
}

func (b *Builder) radialArgs(startCenter drawing.Point, startRadius float64, endCenter drawing.Point, endRadius float64, options drawing.GradientOptions) {
	b.point(startCenter)
	b.float(startRadius)
	b.point(endCenter)
	b.float(endRadius)
	b.enum(uint8(options))
}

func (b *Builder) RadialGradient(id uint64, startCenter drawing.Point, startRadius float64,
	endCenter drawing.Point, endRadius float64, options drawing.GradientOptions,
) {
	b.op(OpRadialGradient)
	b.code = appendUint(b.code, b.format.IDSize, id)
	b.radialArgs(startCenter, startRadius, endCenter, endRadius, options)
}

func (b *Builder) RadialGradientInlined(stops []drawing.GradientStop, startCenter drawing.Point, startRadius float64,
	endCenter drawing.Point, endRadius float64, options drawing.GradientOptions,
) {
	b.op(OpRadialGradientInlined)
	b.code = b.appendStops(b.code, stops)
	b.radialArgs(startCenter, startRadius, endCenter, endRadius, options)
}

func (b *Builder) ConcatCTM(m drawing.Matrix2D) {
	b.op(OpConcatCTM)
	for _, f := range [6]float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		b.float(f)
	}
}

func (b *Builder) LineWidth(width float64) {
	b.op(OpLineWidth)
	b.float(width)
}

func (b *Builder) LineCapStyle(c drawing.LineCap) {
	b.op(OpLineCapStyle)
	b.enum(uint8(c))
}

func (b *Builder) LineJoinStyle(j drawing.LineJoin) {
	b.op(OpLineJoinStyle)
	b.enum(uint8(j))
}

func (b *Builder) Dash(phase float64, lengths []float64) {
	b.op(OpDash)
	b.float(phase)
	b.lengths(lengths)
}

func (b *Builder) DashPhase(phase float64) {
	b.op(OpDashPhase)
	b.float(phase)
}

func (b *Builder) DashLengths(lengths []float64) {
	b.op(OpDashLengths)
	b.lengths(lengths)
}

func (b *Builder) Flatness(flatness float64) {
	b.op(OpFlatness)
	b.float(flatness)
}

func (b *Builder) BlendMode(mode drawing.BlendMode) {
	b.op(OpBlendMode)
	b.enum(uint8(mode))
}

func (b *Builder) ColorRenderingIntent(intent drawing.RenderingIntent) {
	b.op(OpColorRenderingIntent)
	b.enum(uint8(intent))
}

func (b *Builder) GlobalAlpha(alpha float64) {
	b.op(OpGlobalAlpha)
	b.float(alpha)
}

func (b *Builder) BeginTransparencyLayer() { b.op(OpBeginTransparencyLayer) }

func (b *Builder) EndTransparencyLayer() { b.op(OpEndTransparencyLayer) }

func (b *Builder) Shadow(offset drawing.Point, blur float64, color drawing.Color, alpha float64) {
	b.op(OpShadow)
	b.point(offset)
	b.float(blur)
	b.code = appendColor(b.code, color)
	b.float(alpha)
}

func (b *Builder) SaveGState() { b.op(OpSaveGState) }

func (b *Builder) RestoreGState() { b.op(OpRestoreGState) }

func (b *Builder) SubrouteWithID(id uint64) {
	b.op(OpSubrouteWithID)
	b.code = appendUint(b.code, b.format.IDSize, id)
}
