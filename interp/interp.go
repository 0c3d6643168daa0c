package interp

import (
	"fmt"

	"github.com/benoitkugler/bcdraw/bytecode"
	"github.com/benoitkugler/bcdraw/drawing"
)

// shared is the context common to the top level interpreter
// and all the subroutine calls of one Draw.
type shared struct {
	prog    *Program
	surface drawing.Surface
	calls   int // subroutine calls so far
}

// interpreter executes one opcode stream: the main one or
// a subroutine.
type interpreter struct {
	*shared
	cursor *bytecode.Cursor
	state  stateStack
	depth  int // of subroutine calls
}

func newInterpreter(sh *shared, c *bytecode.Cursor, initial GraphicsState, depth int) *interpreter {
	return &interpreter{shared: sh, cursor: c, state: newStateStack(initial), depth: depth}
}

// run executes the instructions until the end of the stream
func (in *interpreter) run() error {
	for in.cursor.Remaining() > 0 {
		offset := in.cursor.Offset()
		op, err := in.cursor.Opcode()
		if err != nil {
			return err
		}
		if err = opFuncs[op](in); err != nil {
			return fmt.Errorf("%s at offset %d: %w", op, offset, err)
		}
	}
	return nil
}

// opFunc decodes the operands of one opcode and executes it.
type opFunc func(in *interpreter) error

var opFuncs = [bytecode.NumOps]opFunc{
	bytecode.OpMoveTo:                    moveToF,
	bytecode.OpLineTo:                    lineToF,
	bytecode.OpLines:                     linesF,
	bytecode.OpCurveTo:                   curveToF,
	bytecode.OpClosePath:                 func(in *interpreter) error { in.surface.ClosePath(); return nil },
	bytecode.OpAddArc:                    addArcF,
	bytecode.OpAddEllipse:                addEllipseF,
	bytecode.OpAppendRectangle:           appendRectangleF,
	bytecode.OpAppendRoundedRect:         appendRoundedRectF,
	bytecode.OpReplacePathWithStrokePath: func(in *interpreter) error { in.surface.ReplacePathWithStrokePath(); return nil },
	bytecode.OpFill:                      func(in *interpreter) error { in.surface.FillPath(in.state.current.FillRule); return nil },
	bytecode.OpFillWithRule:              fillWithRuleF,
	bytecode.OpStroke:                    func(in *interpreter) error { in.surface.StrokePath(); return nil },
	bytecode.OpFillAndStroke:             fillAndStrokeF,
	bytecode.OpFillEllipse:               fillEllipseF,
	bytecode.OpDrawPath:                  drawPathF,
	bytecode.OpFillColor:                 fillColorF,
	bytecode.OpStrokeColor:               strokeColorF,
	bytecode.OpFillAlpha:                 fillAlphaF,
	bytecode.OpStrokeAlpha:               strokeAlphaF,
	bytecode.OpFillNone:                  func(in *interpreter) error { in.state.current.setFillNone(); return nil },
	bytecode.OpStrokeNone:                func(in *interpreter) error { in.state.current.setStrokeNone(); return nil },
	bytecode.OpFillRule:                  fillRuleF,
	bytecode.OpSetGlobalAlphaToFillAlpha: func(in *interpreter) error { in.surface.SetAlpha(in.state.current.Fill.Alpha); return nil },
	bytecode.OpClip:                      func(in *interpreter) error { in.surface.Clip(in.state.current.FillRule); return nil },
	bytecode.OpClipWithRule:              clipWithRuleF,
	bytecode.OpClipToRect:                clipToRectF,
	bytecode.OpLinearGradient:            linearGradientF,
	bytecode.OpLinearGradientInlined:     linearGradientInlinedF,
	bytecode.OpRadialGradient:            radialGradientF,
	bytecode.OpRadialGradientInlined:     radialGradientInlinedF,
	bytecode.OpConcatCTM:                 concatCTMF,
	bytecode.OpLineWidth:                 lineWidthF,
	bytecode.OpLineCapStyle:              lineCapF,
	bytecode.OpLineJoinStyle:             lineJoinF,
	bytecode.OpDash:                      dashF,
	bytecode.OpDashPhase:                 dashPhaseF,
	bytecode.OpDashLengths:               dashLengthsF,
	bytecode.OpFlatness:                  flatnessF,
	bytecode.OpBlendMode:                 blendModeF,
	bytecode.OpColorRenderingIntent:      renderingIntentF,
	bytecode.OpGlobalAlpha:               globalAlphaF,
	bytecode.OpBeginTransparencyLayer:    func(in *interpreter) error { in.surface.BeginTransparencyLayer(); return nil },
	bytecode.OpEndTransparencyLayer:      func(in *interpreter) error { in.surface.EndTransparencyLayer(); return nil },
	bytecode.OpShadow:                    shadowF,
	bytecode.OpSaveGState:                saveF,
	bytecode.OpRestoreGState:             restoreF,
}

func init() {
	// avoid initialization cycle
	opFuncs[bytecode.OpSubrouteWithID] = subrouteF
}

// path construction

func moveToF(in *interpreter) error {
	p, err := in.cursor.Point()
	if err != nil {
		return err
	}
	in.surface.MoveTo(p)
	return nil
}

func lineToF(in *interpreter) error {
	p, err := in.cursor.Point()
	if err != nil {
		return err
	}
	in.surface.AddLineTo(p)
	return nil
}

func linesF(in *interpreter) error {
	points, err := in.cursor.Points()
	if err != nil {
		return err
	}
	in.surface.AddLines(points)
	return nil
}

func curveToF(in *interpreter) error {
	cu, err := in.cursor.Curve()
	if err != nil {
		return err
	}
	in.surface.AddCurveTo(cu.C1, cu.C2, cu.End)
	return nil
}

func addArcF(in *interpreter) error {
	center, err := in.cursor.Point()
	if err != nil {
		return err
	}
	var args [3]float64 // radius, start, end
	for i := range args {
		if args[i], err = in.cursor.Float(); err != nil {
			return err
		}
	}
	clockwise, err := in.cursor.Bool()
	if err != nil {
		return err
	}
	in.surface.AddArc(center, args[0], args[1], args[2], clockwise)
	return nil
}

func addEllipseF(in *interpreter) error {
	r, err := in.cursor.Rect()
	if err != nil {
		return err
	}
	in.surface.AddEllipse(r)
	return nil
}

func appendRectangleF(in *interpreter) error {
	r, err := in.cursor.Rect()
	if err != nil {
		return err
	}
	in.surface.AddRect(r)
	return nil
}

func appendRoundedRectF(in *interpreter) error {
	r, err := in.cursor.Rect()
	if err != nil {
		return err
	}
	cw, err := in.cursor.Float()
	if err != nil {
		return err
	}
	ch, err := in.cursor.Float()
	if err != nil {
		return err
	}
	in.surface.AddRoundedRect(r, cw, ch)
	return nil
}

// painting

func fillWithRuleF(in *interpreter) error {
	rule, err := in.cursor.FillRule()
	if err != nil {
		return err
	}
	in.surface.FillPath(rule)
	return nil
}

// fillAndStrokeF selects the painting mode from the current paints
func fillAndStrokeF(in *interpreter) error {
	gs := &in.state.current
	fill, stroke := gs.Fill.HasColor, gs.Stroke.HasColor
	switch {
	case fill && stroke:
		if gs.FillRule == drawing.EvenOdd {
			in.surface.DrawPath(drawing.ModeEOFillStroke)
		} else {
			in.surface.DrawPath(drawing.ModeFillStroke)
		}
	case fill:
		if gs.FillRule == drawing.EvenOdd {
			in.surface.DrawPath(drawing.ModeEOFill)
		} else {
			in.surface.DrawPath(drawing.ModeFill)
		}
	case stroke:
		in.surface.DrawPath(drawing.ModeStroke)
	default: // nothing to paint, but the path is still consumed
		in.surface.BeginPath()
	}
	return nil
}

func fillEllipseF(in *interpreter) error {
	r, err := in.cursor.Rect()
	if err != nil {
		return err
	}
	in.surface.FillEllipse(r)
	return nil
}

func drawPathF(in *interpreter) error {
	mode, err := in.cursor.PathDrawingMode()
	if err != nil {
		return err
	}
	in.surface.DrawPath(mode)
	return nil
}

// paint state

func fillColorF(in *interpreter) error {
	c, err := in.cursor.Color()
	if err != nil {
		return err
	}
	in.state.current.setFillColor(c)
	in.pushFillColor()
	return nil
}

func strokeColorF(in *interpreter) error {
	c, err := in.cursor.Color()
	if err != nil {
		return err
	}
	in.state.current.setStrokeColor(c)
	in.pushStrokeColor()
	return nil
}

func fillAlphaF(in *interpreter) error {
	alpha, err := in.cursor.Float()
	if err != nil {
		return err
	}
	in.state.current.setFillAlpha(alpha)
	in.pushFillColor()
	return nil
}

func strokeAlphaF(in *interpreter) error {
	alpha, err := in.cursor.Float()
	if err != nil {
		return err
	}
	in.state.current.setStrokeAlpha(alpha)
	in.pushStrokeColor()
	return nil
}

// pushFillColor sends the effective fill color to the surface, if any
func (in *interpreter) pushFillColor() {
	if c, ok := in.state.current.Fill.Effective(); ok {
		in.surface.SetFillColor(c)
	}
}

func (in *interpreter) pushStrokeColor() {
	if c, ok := in.state.current.Stroke.Effective(); ok {
		in.surface.SetStrokeColor(c)
	}
}

func fillRuleF(in *interpreter) error {
	rule, err := in.cursor.FillRule()
	if err != nil {
		return err
	}
	in.state.current.setFillRule(rule)
	return nil
}

// clipping

func clipWithRuleF(in *interpreter) error {
	rule, err := in.cursor.FillRule()
	if err != nil {
		return err
	}
	in.surface.Clip(rule)
	return nil
}

func clipToRectF(in *interpreter) error {
	r, err := in.cursor.Rect()
	if err != nil {
		return err
	}
	in.surface.ClipToRect(r)
	return nil
}

// gradients

func (in *interpreter) gradientByID() (*drawing.Gradient, error) {
	id, err := in.cursor.ID()
	if err != nil {
		return nil, err
	}
	g := in.prog.gradients[id]
	if g == nil {
		return nil, &InvalidGradientIDError{ID: id}
	}
	return g, nil
}

// inlinedGradient decodes and builds a gradient, which is not cached
func (in *interpreter) inlinedGradient() (*drawing.Gradient, error) {
	stops, err := in.cursor.GradientStops()
	if err != nil {
		return nil, err
	}
	return drawing.NewGradient(in.prog.colorSpace, stops)
}

func (in *interpreter) drawLinear(g *drawing.Gradient) error {
	start, err := in.cursor.Point()
	if err != nil {
		return err
	}
	end, err := in.cursor.Point()
	if err != nil {
		return err
	}
	opts, err := in.cursor.GradientOptions()
	if err != nil {
		return err
	}
	in.surface.DrawLinearGradient(g, start, end, opts)
	return nil
}

func (in *interpreter) drawRadial(g *drawing.Gradient) error {
	startCenter, err := in.cursor.Point()
	if err != nil {
		return err
	}
	startRadius, err := in.cursor.Float()
	if err != nil {
		return err
	}
	endCenter, err := in.cursor.Point()
	if err != nil {
		return err
	}
	endRadius, err := in.cursor.Float()
	if err != nil {
		return err
	}
	opts, err := in.cursor.GradientOptions()
	if err != nil {
		return err
	}
	in.surface.DrawRadialGradient(g, startCenter, startRadius, endCenter, endRadius, opts)
	return nil
}

func linearGradientF(in *interpreter) error {
	g, err := in.gradientByID()
	if err != nil {
		return err
	}
	return in.drawLinear(g)
}

func linearGradientInlinedF(in *interpreter) error {
	g, err := in.inlinedGradient()
	if err != nil {
		return err
	}
	return in.drawLinear(g)
}

func radialGradientF(in *interpreter) error {
	g, err := in.gradientByID()
	if err != nil {
		return err
	}
	return in.drawRadial(g)
}

func radialGradientInlinedF(in *interpreter) error {
	g, err := in.inlinedGradient()
	if err != nil {
		return err
	}
	return in.drawRadial(g)
}

// transform and style

func concatCTMF(in *interpreter) error {
	m, err := in.cursor.Matrix()
	if err != nil {
		return err
	}
	in.surface.ConcatCTM(m)
	return nil
}

func lineWidthF(in *interpreter) error {
	w, err := in.cursor.Float()
	if err != nil {
		return err
	}
	in.surface.SetLineWidth(w)
	return nil
}

func lineCapF(in *interpreter) error {
	c, err := in.cursor.LineCap()
	if err != nil {
		return err
	}
	in.surface.SetLineCap(c)
	return nil
}

func lineJoinF(in *interpreter) error {
	j, err := in.cursor.LineJoin()
	if err != nil {
		return err
	}
	in.surface.SetLineJoin(j)
	return nil
}

// applyDash sends the whole dash pattern to the surface
func (in *interpreter) applyDash() {
	d := in.state.current.Dash
	in.surface.SetLineDash(d.Phase, d.Lengths)
}

func dashF(in *interpreter) error {
	phase, lengths, err := in.cursor.DashPattern()
	if err != nil {
		return err
	}
	in.state.current.setDash(phase, lengths)
	in.applyDash()
	return nil
}

func dashPhaseF(in *interpreter) error {
	phase, err := in.cursor.Float()
	if err != nil {
		return err
	}
	in.state.current.setDashPhase(phase)
	in.applyDash()
	return nil
}

func dashLengthsF(in *interpreter) error {
	lengths, err := in.cursor.Lengths()
	if err != nil {
		return err
	}
	in.state.current.setDashLengths(lengths)
	in.applyDash()
	return nil
}

func flatnessF(in *interpreter) error {
	f, err := in.cursor.Float()
	if err != nil {
		return err
	}
	in.surface.SetFlatness(f)
	return nil
}

func blendModeF(in *interpreter) error {
	mode, err := in.cursor.BlendMode()
	if err != nil {
		return err
	}
	in.surface.SetBlendMode(mode)
	return nil
}

func renderingIntentF(in *interpreter) error {
	intent, err := in.cursor.RenderingIntent()
	if err != nil {
		return err
	}
	in.surface.SetRenderingIntent(intent)
	return nil
}

func globalAlphaF(in *interpreter) error {
	alpha, err := in.cursor.Float()
	if err != nil {
		return err
	}
	in.surface.SetAlpha(alpha)
	return nil
}

// effects

// shadowF expresses the offset and the blur in device space
func shadowF(in *interpreter) error {
	offset, err := in.cursor.Point()
	if err != nil {
		return err
	}
	blur, err := in.cursor.Float()
	if err != nil {
		return err
	}
	c, err := in.cursor.Color()
	if err != nil {
		return err
	}
	alpha, err := in.cursor.Float()
	if err != nil {
		return err
	}
	ctm := in.surface.CTM()
	dx, dy := ctm.TransformVector(offset.X, offset.Y)
	in.surface.SetShadow(drawing.Point{X: dx, Y: dy}, blur*ctm.ScaleFactor(), c.WithAlpha(alpha))
	return nil
}

// graphics state stack

func saveF(in *interpreter) error {
	in.surface.SaveGState()
	in.state.save()
	return nil
}

func restoreF(in *interpreter) error {
	in.surface.RestoreGState()
	if !in.state.restore() {
		in.prog.logger.Debug("bytecode: restore with empty state stack", "offset", in.cursor.Offset()-1)
	}
	return nil
}

// subroutines

// subrouteF runs the subroutine in a new interpreter, starting with a copy
// of the current state and an empty stack. The caller cursor is not advanced:
// the subroutine bytes are stored in the table.
func subrouteF(in *interpreter) error {
	id, err := in.cursor.ID()
	if err != nil {
		return err
	}
	span, ok := in.prog.subroutines[id]
	if !ok {
		return &InvalidSubroutineIDError{ID: id}
	}
	depth := in.depth + 1
	if limit := in.prog.maxDepth; limit >= 0 && depth > limit {
		return &RecursionLimitError{ID: id, Depth: depth}
	}
	in.calls++
	if limit := in.prog.maxCalls; limit >= 0 && in.calls > limit {
		return &CallLimitError{ID: id, Calls: in.calls}
	}
	in.prog.logger.Debug("bytecode: calling subroutine", "id", id, "size", span.Length, "depth", depth)

	sub := newInterpreter(in.shared, in.cursor.Sub(span), in.state.current.Clone(), depth)
	return sub.run()
}
