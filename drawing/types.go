package drawing

import "fmt"

// Point is a location (or a vector) in user space.
type Point struct{ X, Y float64 }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Rect is an axis aligned rectangle given by its origin and size.
// The size may be negative, in which case the origin is not the minimum corner.
type Rect struct{ X, Y, W, H float64 }

// Canon returns an equivalent rectangle with non negative size.
func (r Rect) Canon() Rect {
	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	return r
}

// Center returns the middle of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Color is an opaque RGB color, each channel in [0,1].
type Color struct{ R, G, B float64 }

// Black is the default fill color.
var Black = Color{}

// WithAlpha returns the color with the given opacity.
func (c Color) WithAlpha(alpha float64) RGBA { return RGBA{c.R, c.G, c.B, alpha} }

// RGBA is a color with straight (not premultiplied) alpha, each channel in [0,1].
type RGBA struct{ R, G, B, A float64 }

// RGB8 returns the channels scaled to [0,255], clamped.
func (c RGBA) RGB8() (r, g, b uint8) {
	return unit8(c.R), unit8(c.G), unit8(c.B)
}

func unit8(v float64) uint8 {
	switch {
	case !(v > 0): // also catches NaN
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*0xff + 0.5)
	}
}

// ColorSpace identifies the color space in which colors and gradients are expressed.
// Only RGB spaces are supported.
type ColorSpace uint8

const (
	SRGB ColorSpace = iota
	DeviceRGB
)

func (cs ColorSpace) String() string {
	switch cs {
	case SRGB:
		return "sRGB"
	case DeviceRGB:
		return "DeviceRGB"
	default:
		return fmt.Sprintf("<unknown ColorSpace %d>", uint8(cs))
	}
}

// FillRule selects how the inside of a self intersecting path is computed.
type FillRule uint8

const (
	Winding FillRule = iota // non zero winding rule
	EvenOdd
)

func (f FillRule) String() string {
	switch f {
	case Winding:
		return "Winding"
	case EvenOdd:
		return "EvenOdd"
	default:
		return "<unknown FillRule>"
	}
}

// LineCap defines how to draw caps on the ends of lines
type LineCap uint8

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

func (c LineCap) String() string {
	switch c {
	case ButtCap:
		return "ButtCap"
	case RoundCap:
		return "RoundCap"
	case SquareCap:
		return "SquareCap"
	default:
		return "<unknown LineCap>"
	}
}

// LineJoin specifies how stroke segments bridge the gap at a join
type LineJoin uint8

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

func (j LineJoin) String() string {
	switch j {
	case MiterJoin:
		return "MiterJoin"
	case RoundJoin:
		return "RoundJoin"
	case BevelJoin:
		return "BevelJoin"
	default:
		return "<unknown LineJoin>"
	}
}

// PathDrawingMode selects the painting operation of DrawPath.
type PathDrawingMode uint8

const (
	ModeFill PathDrawingMode = iota
	ModeEOFill
	ModeStroke
	ModeFillStroke
	ModeEOFillStroke
)

var drawingModeNames = [...]string{
	ModeFill:         "Fill",
	ModeEOFill:       "EOFill",
	ModeStroke:       "Stroke",
	ModeFillStroke:   "FillStroke",
	ModeEOFillStroke: "EOFillStroke",
}

func (m PathDrawingMode) String() string {
	if int(m) < len(drawingModeNames) {
		return drawingModeNames[m]
	}
	return "<unknown PathDrawingMode>"
}

// Fills returns true if the mode paints the interior, and the rule to use.
func (m PathDrawingMode) Fills() (bool, FillRule) {
	switch m {
	case ModeFill, ModeFillStroke:
		return true, Winding
	case ModeEOFill, ModeEOFillStroke:
		return true, EvenOdd
	}
	return false, Winding
}

// Strokes returns true if the mode paints the outline.
func (m PathDrawingMode) Strokes() bool {
	return m == ModeStroke || m == ModeFillStroke || m == ModeEOFillStroke
}

// BlendMode is a compositing operator, in the order used by CoreGraphics.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendSoftLight
	BlendHardLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	// Porter-Duff modes
	BlendClear
	BlendCopy
	BlendSourceIn
	BlendSourceOut
	BlendSourceAtop
	BlendDestinationOver
	BlendDestinationIn
	BlendDestinationOut
	BlendDestinationAtop
	BlendXOR
	BlendPlusDarker
	BlendPlusLighter
)

var blendModeNames = [...]string{
	BlendNormal:          "Normal",
	BlendMultiply:        "Multiply",
	BlendScreen:          "Screen",
	BlendOverlay:         "Overlay",
	BlendDarken:          "Darken",
	BlendLighten:         "Lighten",
	BlendColorDodge:      "ColorDodge",
	BlendColorBurn:       "ColorBurn",
	BlendSoftLight:       "SoftLight",
	BlendHardLight:       "HardLight",
	BlendDifference:      "Difference",
	BlendExclusion:       "Exclusion",
	BlendHue:             "Hue",
	BlendSaturation:      "Saturation",
	BlendColor:           "Color",
	BlendLuminosity:      "Luminosity",
	BlendClear:           "Clear",
	BlendCopy:            "Copy",
	BlendSourceIn:        "SourceIn",
	BlendSourceOut:       "SourceOut",
	BlendSourceAtop:      "SourceAtop",
	BlendDestinationOver: "DestinationOver",
	BlendDestinationIn:   "DestinationIn",
	BlendDestinationOut:  "DestinationOut",
	BlendDestinationAtop: "DestinationAtop",
	BlendXOR:             "XOR",
	BlendPlusDarker:      "PlusDarker",
	BlendPlusLighter:     "PlusLighter",
}

// NumBlendModes is the number of defined blend modes.
const NumBlendModes = len(blendModeNames)

func (mode BlendMode) String() string {
	if int(mode) < len(blendModeNames) {
		return blendModeNames[mode]
	}
	return "<unknown BlendMode>"
}

// IsSeparable returns true for the modes defined in the PDF specification
// (Normal to Luminosity).
func (mode BlendMode) IsSeparable() bool { return mode <= BlendLuminosity }

// RenderingIntent tells how colors outside of the destination gamut are mapped.
type RenderingIntent uint8

const (
	IntentDefault RenderingIntent = iota
	IntentAbsoluteColorimetric
	IntentRelativeColorimetric
	IntentPerceptual
	IntentSaturation
)

func (ri RenderingIntent) String() string {
	switch ri {
	case IntentDefault:
		return "Default"
	case IntentAbsoluteColorimetric:
		return "AbsoluteColorimetric"
	case IntentRelativeColorimetric:
		return "RelativeColorimetric"
	case IntentPerceptual:
		return "Perceptual"
	case IntentSaturation:
		return "Saturation"
	default:
		return "<unknown RenderingIntent>"
	}
}

// GradientOptions controls whether a gradient extends past its end points.
type GradientOptions uint8

const (
	DrawsBeforeStartLocation GradientOptions = 1 << iota
	DrawsAfterEndLocation
)

// AllGradientOptions is the union of the defined flags.
const AllGradientOptions = DrawsBeforeStartLocation | DrawsAfterEndLocation

func (o GradientOptions) String() string {
	switch o {
	case 0:
		return "none"
	case DrawsBeforeStartLocation:
		return "before"
	case DrawsAfterEndLocation:
		return "after"
	case AllGradientOptions:
		return "before|after"
	default:
		return fmt.Sprintf("<invalid GradientOptions %#x>", uint8(o))
	}
}
