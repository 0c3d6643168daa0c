package bytecode

import (
	"fmt"
	"io"
	"strings"

	"github.com/benoitkugler/bcdraw/drawing"
)

// Disassemble writes a textual listing of the program to w:
// the gradient table, the subroutine table with the code of
// each subroutine, and the main opcode stream, one instruction per line,
// prefixed by its offset.
//
// The listing stops at the first decoding error, which is returned.
func Disassemble(data []byte, format Format, w io.Writer) error {
	if err := format.Validate(); err != nil {
		return err
	}
	d := disassembler{w: w}
	c := NewCursor(data, format)

	n, err := c.ID()
	if err != nil {
		return err
	}
	d.printf("gradients (%d)\n", n)
	for i := uint64(0); i < n; i++ {
		id, err := c.ID()
		if err != nil {
			return err
		}
		stops, err := c.GradientStops()
		if err != nil {
			return err
		}
		d.printf("  %d: %s\n", id, formatStops(stops))
	}

	n, err = c.ID()
	if err != nil {
		return err
	}
	d.printf("subroutines (%d)\n", n)
	var subroutines []Span
	for i := uint64(0); i < n; i++ {
		id, err := c.ID()
		if err != nil {
			return err
		}
		size, err := c.Length()
		if err != nil {
			return err
		}
		span, err := c.Skip(size)
		if err != nil {
			return err
		}
		d.printf("  %d: %d bytes at %#04x\n", id, size, span.Offset)
		subroutines = append(subroutines, span)
	}
	for i, span := range subroutines {
		d.printf("subroutine #%d\n", i)
		if err := d.code(c.Sub(span)); err != nil {
			return err
		}
	}

	d.printf("code\n")
	if err := d.code(c); err != nil {
		return err
	}
	return d.err
}

type disassembler struct {
	w   io.Writer
	err error // first write error
}

func (d *disassembler) printf(format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *disassembler) code(c *Cursor) error {
	for c.Remaining() > 0 {
		offset := c.Offset()
		op, err := c.Opcode()
		if err != nil {
			return err
		}
		args, err := operands(c, op)
		if err != nil {
			return fmt.Errorf("%s at %#04x: %w", op, offset, err)
		}
		if args == "" {
			d.printf("  %04x  %s\n", offset, op)
		} else {
			d.printf("  %04x  %s %s\n", offset, op, args)
		}
	}
	return nil
}

func formatColor(c drawing.Color) string {
	r, g, b := c.WithAlpha(1).RGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func formatStops(stops []drawing.GradientStop) string {
	chunks := make([]string, len(stops))
	for i, s := range stops {
		chunks[i] = fmt.Sprintf("%s@%g", formatColor(s.Color), s.Location)
	}
	return "[" + strings.Join(chunks, " ") + "]"
}

func formatPoint(p drawing.Point) string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

func formatRect(r drawing.Rect) string {
	return fmt.Sprintf("[%g %g %g %g]", r.X, r.Y, r.W, r.H)
}

// radial reads the operands of a radial gradient, after the gradient itself
func radial(c *Cursor) (string, error) {
	sc, err := c.Point()
	if err != nil {
		return "", err
	}
	sr, err := c.Float()
	if err != nil {
		return "", err
	}
	ec, err := c.Point()
	if err != nil {
		return "", err
	}
	er, err := c.Float()
	if err != nil {
		return "", err
	}
	opts, err := c.GradientOptions()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s r=%g %s r=%g %s", formatPoint(sc), sr, formatPoint(ec), er, opts), nil
}

func linear(c *Cursor) (string, error) {
	start, err := c.Point()
	if err != nil {
		return "", err
	}
	end, err := c.Point()
	if err != nil {
		return "", err
	}
	opts, err := c.GradientOptions()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s", formatPoint(start), formatPoint(end), opts), nil
}

// stringer adapts a record read to a string
func stringer[T any](v T, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// operands decodes and formats the operands of op
func operands(c *Cursor, op Op) (string, error) {
	switch op {
	case OpMoveTo, OpLineTo:
		p, err := c.Point()
		return formatPoint(p), err
	case OpLines:
		pts, err := c.Points()
		if err != nil {
			return "", err
		}
		chunks := make([]string, len(pts))
		for i, p := range pts {
			chunks[i] = formatPoint(p)
		}
		return strings.Join(chunks, " "), nil
	case OpCurveTo:
		cu, err := c.Curve()
		return formatPoint(cu.C1) + " " + formatPoint(cu.C2) + " " + formatPoint(cu.End), err
	case OpAddArc:
		center, err := c.Point()
		if err != nil {
			return "", err
		}
		var angles [3]float64
		for i := range angles {
			if angles[i], err = c.Float(); err != nil {
				return "", err
			}
		}
		cw, err := c.Bool()
		return fmt.Sprintf("%s r=%g %g -> %g clockwise=%v", formatPoint(center), angles[0], angles[1], angles[2], cw), err
	case OpAddEllipse, OpAppendRectangle, OpFillEllipse, OpClipToRect:
		r, err := c.Rect()
		return formatRect(r), err
	case OpAppendRoundedRect:
		r, err := c.Rect()
		if err != nil {
			return "", err
		}
		cw, err := c.Float()
		if err != nil {
			return "", err
		}
		ch, err := c.Float()
		return fmt.Sprintf("%s %g %g", formatRect(r), cw, ch), err
	case OpFillWithRule, OpFillRule, OpClipWithRule:
		return stringer(c.FillRule())
	case OpDrawPath:
		return stringer(c.PathDrawingMode())
	case OpFillColor, OpStrokeColor:
		col, err := c.Color()
		return formatColor(col), err
	case OpFillAlpha, OpStrokeAlpha, OpLineWidth, OpDashPhase, OpFlatness, OpGlobalAlpha:
		return stringer(c.Float())
	case OpLinearGradient:
		id, err := c.ID()
		if err != nil {
			return "", err
		}
		args, err := linear(c)
		return fmt.Sprintf("id=%d %s", id, args), err
	case OpLinearGradientInlined:
		stops, err := c.GradientStops()
		if err != nil {
			return "", err
		}
		args, err := linear(c)
		return formatStops(stops) + " " + args, err
	case OpRadialGradient:
		id, err := c.ID()
		if err != nil {
			return "", err
		}
		args, err := radial(c)
		return fmt.Sprintf("id=%d %s", id, args), err
	case OpRadialGradientInlined:
		stops, err := c.GradientStops()
		if err != nil {
			return "", err
		}
		args, err := radial(c)
		return formatStops(stops) + " " + args, err
	case OpConcatCTM:
		m, err := c.Matrix()
		return fmt.Sprintf("[%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F), err
	case OpLineCapStyle:
		return stringer(c.LineCap())
	case OpLineJoinStyle:
		return stringer(c.LineJoin())
	case OpDash:
		phase, lengths, err := c.DashPattern()
		return fmt.Sprintf("%g %v", phase, lengths), err
	case OpDashLengths:
		return stringer(c.Lengths())
	case OpBlendMode:
		return stringer(c.BlendMode())
	case OpColorRenderingIntent:
		return stringer(c.RenderingIntent())
	case OpShadow:
		offset, err := c.Point()
		if err != nil {
			return "", err
		}
		blur, err := c.Float()
		if err != nil {
			return "", err
		}
		col, err := c.Color()
		if err != nil {
			return "", err
		}
		alpha, err := c.Float()
		return fmt.Sprintf("%s blur=%g %s alpha=%g", formatPoint(offset), blur, formatColor(col), alpha), err
	case OpSubrouteWithID:
		return stringer(c.ID())
	default: // no operands
		return "", nil
	}
}
