package pdf

import (
	"math"

	"github.com/benoitkugler/bcdraw/drawing"
)

// gradientBox returns the square covering the page, in which
// gofpdf gradients are painted (and then clipped by the current clip path).
// A square is used so that radii are normalized the same way on both axis.
func (s *Surface) gradientBox() (x, y, side float64) {
	w, h := s.pdf.GetPageSize()
	return 0, 0, math.Max(w, h)
}

// normalize maps a device point to the gradient box, whose
// lower left corner is (0, 0) and upper right corner is (1, 1)
func normalize(p drawing.Point, x, y, side float64) (float64, float64) {
	return (p.X - x) / side, (y + side - p.Y) / side
}

// checkGradient reports the features which can't be expressed
// by gofpdf two colors gradients
func (s *Surface) checkGradient(g *drawing.Gradient, options drawing.GradientOptions) {
	if len(g.Stops) > 2 || g.Stops[0].Location != 0 || g.Stops[len(g.Stops)-1].Location != 1 {
		s.Unsupported("gradient stops other than the first and last colors at 0 and 1")
	}
	if options != drawing.AllGradientOptions {
		s.Unsupported("gradient without extension on both sides")
	}
}

func rgb(c drawing.Color) (r, g, b int) {
	r8, g8, b8 := c.WithAlpha(1).RGB8()
	return int(r8), int(g8), int(b8)
}

// DrawLinearGradient paints the current clipping region
// with an axial gradient between the first and last colors of g.
func (s *Surface) DrawLinearGradient(g *drawing.Gradient, start, end drawing.Point, options drawing.GradientOptions) {
	s.checkGradient(g, options)
	ctm := s.Pather.CTM
	x, y, side := s.gradientBox()
	x1, y1 := normalize(ctm.TransformPoint(start), x, y, side)
	x2, y2 := normalize(ctm.TransformPoint(end), x, y, side)
	r1, g1, b1 := rgb(g.First())
	r2, g2, b2 := rgb(g.Last())

	s.pdf.SetAlpha(clamp01(s.gs.alpha), s.gs.blend)
	s.pdf.LinearGradient(x, y, side, side, r1, g1, b1, r2, g2, b2, x1, y1, x2, y2)
}

// DrawRadialGradient paints the current clipping region with a radial
// gradient between the first and last colors of g. The start circle is
// reduced to its center.
func (s *Surface) DrawRadialGradient(g *drawing.Gradient, startCenter drawing.Point, startRadius float64,
	endCenter drawing.Point, endRadius float64, options drawing.GradientOptions,
) {
	s.checkGradient(g, options)
	if startRadius != 0 {
		s.Unsupported("radial gradient with a non zero start radius")
	}
	ctm := s.Pather.CTM
	x, y, side := s.gradientBox()
	x1, y1 := normalize(ctm.TransformPoint(startCenter), x, y, side)
	x2, y2 := normalize(ctm.TransformPoint(endCenter), x, y, side)
	r := endRadius * ctm.ScaleFactor() / side
	r1, g1, b1 := rgb(g.First())
	r2, g2, b2 := rgb(g.Last())

	s.pdf.SetAlpha(clamp01(s.gs.alpha), s.gs.blend)
	s.pdf.RadialGradient(x, y, side, side, r1, g1, b1, r2, g2, b2, x1, y1, x2, y2, r)
}
