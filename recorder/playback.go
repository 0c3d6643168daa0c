package recorder

import (
	"fmt"

	"github.com/benoitkugler/bcdraw/drawing"
)

// Playback replays the recorded calls on s, in order.
// It returns an error if a call has an unexpected name or
// arguments, which only happens when Calls has been modified by hand.
func (r *Recorder) Playback(s drawing.Surface) error {
	for i, c := range r.Calls {
		if err := c.replay(s); err != nil {
			return fmt.Errorf("call %d: %w", i, err)
		}
	}
	return nil
}

// replay checks the type of the arguments with the comma-ok form,
// so that invalid calls are reported instead of panicking
func (c Call) replay(s drawing.Surface) error {
	a := args(c.Args)
	switch c.Name {
	case "MoveTo":
		s.MoveTo(a.point(0))
	case "AddLineTo":
		s.AddLineTo(a.point(0))
	case "AddLines":
		pts, _ := a.at(0).([]drawing.Point)
		s.AddLines(pts)
	case "AddCurveTo":
		s.AddCurveTo(a.point(0), a.point(1), a.point(2))
	case "ClosePath":
		s.ClosePath()
	case "AddArc":
		cw, _ := a.at(4).(bool)
		s.AddArc(a.point(0), a.float(1), a.float(2), a.float(3), cw)
	case "AddEllipse":
		s.AddEllipse(a.rect(0))
	case "AddRect":
		s.AddRect(a.rect(0))
	case "AddRoundedRect":
		s.AddRoundedRect(a.rect(0), a.float(1), a.float(2))
	case "ReplacePathWithStrokePath":
		s.ReplacePathWithStrokePath()
	case "BeginPath":
		s.BeginPath()
	case "FillPath":
		rule, _ := a.at(0).(drawing.FillRule)
		s.FillPath(rule)
	case "StrokePath":
		s.StrokePath()
	case "DrawPath":
		mode, _ := a.at(0).(drawing.PathDrawingMode)
		s.DrawPath(mode)
	case "FillEllipse":
		s.FillEllipse(a.rect(0))
	case "SetFillColor":
		s.SetFillColor(a.rgba(0))
	case "SetStrokeColor":
		s.SetStrokeColor(a.rgba(0))
	case "SetAlpha":
		s.SetAlpha(a.float(0))
	case "Clip":
		rule, _ := a.at(0).(drawing.FillRule)
		s.Clip(rule)
	case "ClipToRect":
		s.ClipToRect(a.rect(0))
	case "DrawLinearGradient":
		g, _ := a.at(0).(*drawing.Gradient)
		opts, _ := a.at(3).(drawing.GradientOptions)
		if g == nil {
			return fmt.Errorf("missing gradient in %s", c)
		}
		s.DrawLinearGradient(g, a.point(1), a.point(2), opts)
	case "DrawRadialGradient":
		g, _ := a.at(0).(*drawing.Gradient)
		opts, _ := a.at(5).(drawing.GradientOptions)
		if g == nil {
			return fmt.Errorf("missing gradient in %s", c)
		}
		s.DrawRadialGradient(g, a.point(1), a.float(2), a.point(3), a.float(4), opts)
	case "SetShadow":
		s.SetShadow(a.point(0), a.float(1), a.rgba(2))
	case "BeginTransparencyLayer":
		s.BeginTransparencyLayer()
	case "EndTransparencyLayer":
		s.EndTransparencyLayer()
	case "SaveGState":
		s.SaveGState()
	case "RestoreGState":
		s.RestoreGState()
	case "ConcatCTM":
		m, _ := a.at(0).(drawing.Matrix2D)
		s.ConcatCTM(m)
	case "SetLineWidth":
		s.SetLineWidth(a.float(0))
	case "SetLineCap":
		lc, _ := a.at(0).(drawing.LineCap)
		s.SetLineCap(lc)
	case "SetLineJoin":
		lj, _ := a.at(0).(drawing.LineJoin)
		s.SetLineJoin(lj)
	case "SetLineDash":
		lengths, _ := a.at(1).([]float64)
		s.SetLineDash(a.float(0), lengths)
	case "SetFlatness":
		s.SetFlatness(a.float(0))
	case "SetBlendMode":
		mode, _ := a.at(0).(drawing.BlendMode)
		s.SetBlendMode(mode)
	case "SetRenderingIntent":
		ri, _ := a.at(0).(drawing.RenderingIntent)
		s.SetRenderingIntent(ri)
	case "SetFillColorSpace":
		cs, _ := a.at(0).(drawing.ColorSpace)
		s.SetFillColorSpace(cs)
	case "SetStrokeColorSpace":
		cs, _ := a.at(0).(drawing.ColorSpace)
		s.SetStrokeColorSpace(cs)
	default:
		return fmt.Errorf("unknown call %s", c.Name)
	}
	return nil
}

type args []interface{}

func (a args) at(i int) interface{} {
	if i < len(a) {
		return a[i]
	}
	return nil
}

func (a args) point(i int) drawing.Point {
	p, _ := a.at(i).(drawing.Point)
	return p
}

func (a args) rect(i int) drawing.Rect {
	r, _ := a.at(i).(drawing.Rect)
	return r
}

func (a args) float(i int) float64 {
	f, _ := a.at(i).(float64)
	return f
}

func (a args) rgba(i int) drawing.RGBA {
	c, _ := a.at(i).(drawing.RGBA)
	return c
}
