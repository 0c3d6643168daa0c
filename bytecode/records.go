package bytecode

import "github.com/benoitkugler/bcdraw/drawing"

// This file composes the primitive reads into the structured values
// used as operands. A failure in a primitive read aborts the record.

const (
	floatSize = 4
	pointSize = 2 * floatSize
	colorSize = 3
)

// Curve is a cubic bezier segment, starting at the current point.
type Curve struct {
	C1, C2, End drawing.Point
}

func (c *Cursor) Point() (drawing.Point, error) {
	x, err := c.Float()
	if err != nil {
		return drawing.Point{}, err
	}
	y, err := c.Float()
	if err != nil {
		return drawing.Point{}, err
	}
	return drawing.Point{X: x, Y: y}, nil
}

// Rect reads the origin, then the size.
func (c *Cursor) Rect() (drawing.Rect, error) {
	origin, err := c.Point()
	if err != nil {
		return drawing.Rect{}, err
	}
	size, err := c.Point()
	if err != nil {
		return drawing.Rect{}, err
	}
	return drawing.Rect{X: origin.X, Y: origin.Y, W: size.X, H: size.Y}, nil
}

// Color reads three bytes, mapped to [0,1].
func (c *Cursor) Color() (drawing.Color, error) {
	b, err := c.readFixed(colorSize)
	if err != nil {
		return drawing.Color{}, err
	}
	return drawing.Color{R: float64(b[0]) / 0xff, G: float64(b[1]) / 0xff, B: float64(b[2]) / 0xff}, nil
}

func (c *Cursor) Curve() (Curve, error) {
	var (
		out Curve
		err error
	)
	if out.C1, err = c.Point(); err != nil {
		return out, err
	}
	if out.C2, err = c.Point(); err != nil {
		return out, err
	}
	out.End, err = c.Point()
	return out, err
}

// Matrix reads the six coefficients a, b, c, d, e, f.
func (c *Cursor) Matrix() (drawing.Matrix2D, error) {
	var coeffs [6]float64
	for i := range coeffs {
		f, err := c.Float()
		if err != nil {
			return drawing.Matrix2D{}, err
		}
		coeffs[i] = f
	}
	return drawing.Matrix2D{A: coeffs[0], B: coeffs[1], C: coeffs[2], D: coeffs[3], E: coeffs[4], F: coeffs[5]}, nil
}

// Bool reads one byte, with a non zero value meaning true.
func (c *Cursor) Bool() (bool, error) {
	b, err := c.Uint8()
	return b != 0, err
}

// Points reads a Length prefixed list of points.
func (c *Cursor) Points() ([]drawing.Point, error) {
	n, err := c.Length()
	if err != nil {
		return nil, err
	}
	if err = c.checkCount(n, pointSize); err != nil {
		return nil, err
	}
	out := make([]drawing.Point, n)
	for i := range out {
		if out[i], err = c.Point(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Lengths reads a Length prefixed list of floats.
// An empty list is returned as nil.
func (c *Cursor) Lengths() ([]float64, error) {
	n, err := c.Length()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if err = c.checkCount(n, floatSize); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		if out[i], err = c.Float(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DashPattern reads the phase followed by the lengths.
func (c *Cursor) DashPattern() (phase float64, lengths []float64, err error) {
	phase, err = c.Float()
	if err != nil {
		return 0, nil, err
	}
	lengths, err = c.Lengths()
	return phase, lengths, err
}

// GradientStops reads an ID prefixed list of (color, location) pairs.
// The stops are not validated.
func (c *Cursor) GradientStops() ([]drawing.GradientStop, error) {
	n, err := c.ID()
	if err != nil {
		return nil, err
	}
	if err = c.checkCount(n, colorSize+floatSize); err != nil {
		return nil, err
	}
	out := make([]drawing.GradientStop, n)
	for i := range out {
		if out[i].Color, err = c.Color(); err != nil {
			return nil, err
		}
		if out[i].Location, err = c.Float(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// readEnum reads one byte, which must be smaller than count.
func readEnum[T ~uint8](c *Cursor, kind string, count int) (T, error) {
	b, err := c.Uint8()
	if err != nil {
		return 0, err
	}
	if int(b) >= count {
		return 0, &InvalidOperandError{Kind: kind, Value: b}
	}
	return T(b), nil
}

func (c *Cursor) FillRule() (drawing.FillRule, error) {
	return readEnum[drawing.FillRule](c, "fill rule", 2)
}

func (c *Cursor) LineCap() (drawing.LineCap, error) {
	return readEnum[drawing.LineCap](c, "line cap", 3)
}

func (c *Cursor) LineJoin() (drawing.LineJoin, error) {
	return readEnum[drawing.LineJoin](c, "line join", 3)
}

func (c *Cursor) BlendMode() (drawing.BlendMode, error) {
	return readEnum[drawing.BlendMode](c, "blend mode", drawing.NumBlendModes)
}

func (c *Cursor) RenderingIntent() (drawing.RenderingIntent, error) {
	return readEnum[drawing.RenderingIntent](c, "rendering intent", 5)
}

func (c *Cursor) PathDrawingMode() (drawing.PathDrawingMode, error) {
	return readEnum[drawing.PathDrawingMode](c, "path drawing mode", 5)
}

// GradientOptions reads a bit mask, which must only use defined flags.
func (c *Cursor) GradientOptions() (drawing.GradientOptions, error) {
	b, err := c.Uint8()
	if err != nil {
		return 0, err
	}
	opts := drawing.GradientOptions(b)
	if opts&^drawing.AllGradientOptions != 0 {
		return 0, &InvalidOperandError{Kind: "gradient options", Value: b}
	}
	return opts, nil
}
