package alt

import (
	"sort"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
)

var unitDomain = []model.Range{{0, 1}}

func components(c drawing.Color) []model.Fl {
	return []model.Fl{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// colorFunction returns the function mapping [0, 1] to the
// colors of g: a linear interpolation between two stops, or
// a stitching function of such interpolations.
func colorFunction(g *drawing.Gradient) model.FunctionDict {
	stops := append([]drawing.GradientStop(nil), g.Stops...)
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Location < stops[j].Location })
	// the first and last colors are used outside of the stops
	if first := stops[0]; first.Location > 0 {
		stops = append([]drawing.GradientStop{{Color: first.Color, Location: 0}}, stops...)
	}
	if last := stops[len(stops)-1]; last.Location < 1 {
		stops = append(stops, drawing.GradientStop{Color: last.Color, Location: 1})
	}

	segments := make([]model.FunctionDict, len(stops)-1)
	for i := range segments {
		segments[i] = model.FunctionDict{
			Domain: unitDomain,
			FunctionType: model.FunctionExpInterpolation{
				C0: components(stops[i].Color),
				C1: components(stops[i+1].Color),
				N:  1,
			},
		}
	}
	if len(segments) == 1 {
		return segments[0]
	}

	bounds := make([]model.Fl, len(segments)-1)
	for i := range bounds {
		bounds[i] = stops[i+1].Location
	}
	return model.FunctionDict{
		Domain: unitDomain,
		FunctionType: model.FunctionStitching{
			Functions: segments,
			Bounds:    bounds,
			Encode:    model.FunctionEncodeRepeat(len(segments)),
		},
	}
}

func baseGradient(g *drawing.Gradient, options drawing.GradientOptions) model.BaseGradient {
	return model.BaseGradient{
		Function: []model.FunctionDict{colorFunction(g)},
		Extend: [2]bool{
			options&drawing.DrawsBeforeStartLocation != 0,
			options&drawing.DrawsAfterEndLocation != 0,
		},
	}
}

// paintShading fills the clipping region with sh, whose
// coordinates are expressed in user space.
func (s *Surface) paintShading(sh model.Shading) {
	current := s.gs.opacity
	s.app.SaveState()
	s.setOpacity(s.gs.alpha, s.gs.alpha)
	m := s.Pather.CTM
	s.app.Ops(contentstream.OpConcat{Matrix: model.Matrix{m.A, m.B, m.C, m.D, m.E, m.F}})
	s.app.Shading(&model.ShadingDict{ColorSpace: model.ColorSpaceRGB, ShadingType: sh})
	_ = s.app.RestoreState()
	s.gs.opacity = current
}

// DrawLinearGradient paints the current clipping region
// with an axial shading.
func (s *Surface) DrawLinearGradient(g *drawing.Gradient, start, end drawing.Point, options drawing.GradientOptions) {
	s.paintShading(model.ShadingAxial{
		BaseGradient: baseGradient(g, options),
		Coords:       [4]model.Fl{start.X, start.Y, end.X, end.Y},
	})
}

// DrawRadialGradient paints the current clipping region
// with a radial shading.
func (s *Surface) DrawRadialGradient(g *drawing.Gradient, startCenter drawing.Point, startRadius float64,
	endCenter drawing.Point, endRadius float64, options drawing.GradientOptions,
) {
	s.paintShading(model.ShadingRadial{
		BaseGradient: baseGradient(g, options),
		Coords:       [6]model.Fl{startCenter.X, startCenter.Y, startRadius, endCenter.X, endCenter.Y, endRadius},
	})
}
