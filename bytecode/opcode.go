package bytecode

import "fmt"

// Op is an opcode, stored on one byte, followed by its operands.
type Op uint8

// The operands of each opcode are given in comment.
const (
	OpMoveTo                    Op = iota // Point
	OpLineTo                              // Point
	OpLines                               // Points
	OpCurveTo                             // Curve
	OpClosePath                           //
	OpAddArc                              // center Point, radius, start, end Float, clockwise Bool
	OpAddEllipse                          // Rect
	OpAppendRectangle                     // Rect
	OpAppendRoundedRect                   // Rect, corner width, corner height Float
	OpReplacePathWithStrokePath           //
	OpFill                                //
	OpFillWithRule                        // FillRule
	OpStroke                              //
	OpFillAndStroke                       //
	OpFillEllipse                         // Rect
	OpDrawPath                            // PathDrawingMode
	OpFillColor                           // Color
	OpStrokeColor                         // Color
	OpFillAlpha                           // Float
	OpStrokeAlpha                         // Float
	OpFillNone                            //
	OpStrokeNone                          //
	OpFillRule                            // FillRule
	OpSetGlobalAlphaToFillAlpha           //
	OpClip                                //
	OpClipWithRule                        // FillRule
	OpClipToRect                          // Rect
	OpLinearGradient                      // ID, start, end Point, GradientOptions
	OpLinearGradientInlined               // GradientStops, start, end Point, GradientOptions
	OpRadialGradient                      // ID, start center Point, start radius Float, end center Point, end radius Float, GradientOptions
	OpRadialGradientInlined               // GradientStops, then as OpRadialGradient
	OpConcatCTM                           // Matrix
	OpLineWidth                           // Float
	OpLineCapStyle                        // LineCap
	OpLineJoinStyle                       // LineJoin
	OpDash                                // DashPattern
	OpDashPhase                           // Float
	OpDashLengths                         // Lengths
	OpFlatness                            // Float
	OpBlendMode                           // BlendMode
	OpColorRenderingIntent                // RenderingIntent
	OpGlobalAlpha                         // Float
	OpBeginTransparencyLayer              //
	OpEndTransparencyLayer                //
	OpShadow                              // offset Point, blur Float, Color, alpha Float
	OpSaveGState                          //
	OpRestoreGState                       //
	OpSubrouteWithID                      // ID

	NumOps int = iota // number of defined opcodes
)

var opNames = [...]string{
	OpMoveTo:                    "moveTo",
	OpLineTo:                    "lineTo",
	OpLines:                     "lines",
	OpCurveTo:                   "curveTo",
	OpClosePath:                 "closePath",
	OpAddArc:                    "addArc",
	OpAddEllipse:                "addEllipse",
	OpAppendRectangle:           "appendRectangle",
	OpAppendRoundedRect:         "appendRoundedRect",
	OpReplacePathWithStrokePath: "replacePathWithStrokePath",
	OpFill:                      "fill",
	OpFillWithRule:              "fillWithRule",
	OpStroke:                    "stroke",
	OpFillAndStroke:             "fillAndStroke",
	OpFillEllipse:               "fillEllipse",
	OpDrawPath:                  "drawPath",
	OpFillColor:                 "fillColor",
	OpStrokeColor:               "strokeColor",
	OpFillAlpha:                 "fillAlpha",
	OpStrokeAlpha:               "strokeAlpha",
	OpFillNone:                  "fillNone",
	OpStrokeNone:                "strokeNone",
	OpFillRule:                  "fillRule",
	OpSetGlobalAlphaToFillAlpha: "setGlobalAlphaToFillAlpha",
	OpClip:                      "clip",
	OpClipWithRule:              "clipWithRule",
	OpClipToRect:                "clipToRect",
	OpLinearGradient:            "linearGradient",
	OpLinearGradientInlined:     "linearGradientInlined",
	OpRadialGradient:            "radialGradient",
	OpRadialGradientInlined:     "radialGradientInlined",
	OpConcatCTM:                 "concatCTM",
	OpLineWidth:                 "lineWidth",
	OpLineCapStyle:              "lineCapStyle",
	OpLineJoinStyle:             "lineJoinStyle",
	OpDash:                      "dash",
	OpDashPhase:                 "dashPhase",
	OpDashLengths:               "dashLengths",
	OpFlatness:                  "flatness",
	OpBlendMode:                 "blendMode",
	OpColorRenderingIntent:      "colorRenderingIntent",
	OpGlobalAlpha:               "globalAlpha",
	OpBeginTransparencyLayer:    "beginTransparencyLayer",
	OpEndTransparencyLayer:      "endTransparencyLayer",
	OpShadow:                    "shadow",
	OpSaveGState:                "saveGState",
	OpRestoreGState:             "restoreGState",
	OpSubrouteWithID:            "subrouteWithId",
}

// Valid returns true if op is a defined opcode.
func (op Op) Valid() bool { return int(op) < NumOps }

func (op Op) String() string {
	if op.Valid() {
		return opNames[op]
	}
	return fmt.Sprintf("<unknown opcode %d>", uint8(op))
}

// Opcode reads the next opcode byte, checking it is defined.
func (c *Cursor) Opcode() (Op, error) {
	offset := c.offset
	b, err := c.Uint8()
	if err != nil {
		return 0, err
	}
	if op := Op(b); !op.Valid() {
		return 0, &UnknownOpcodeError{Op: op, Offset: offset}
	}
	return Op(b), nil
}
