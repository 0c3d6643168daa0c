package alt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/benoitkugler/bcdraw/bytecode"
	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/benoitkugler/bcdraw/interp"
	"github.com/benoitkugler/pdf/model"
	"github.com/google/go-cmp/cmp"
)

var (
	red  = drawing.Color{R: 1}
	lime = drawing.Color{G: 1}
	blue = drawing.Color{B: 1}
)

func newTestSurface() *Surface {
	s := NewSurface(100, 100)
	s.compress = false
	return s
}

// content ends the page and returns its content stream
func content(s *Surface) string {
	return string(s.Page().Contents[0].Content)
}

func assertContains(t *testing.T, content string, expected ...string) {
	t.Helper()
	for _, exp := range expected {
		if !strings.Contains(content, exp) {
			t.Errorf("missing %q in %q", exp, content)
		}
	}
}

func TestFillRect(t *testing.T) {
	s := newTestSurface()
	s.SetFillColor(red.WithAlpha(1))
	s.AddRect(drawing.Rect{X: 1, Y: 2, W: 10, H: 20})
	s.FillPath(drawing.Winding)
	if s.HasCurrentPoint() {
		t.Error("painting should consume the path")
	}

	assertContains(t, content(s),
		"1 0 0 -1 0 100 cm ",
		"1 0 0 rg /GS0 gs 1 w [] 0 d 1 2 m 11 2 l 11 22 l 1 22 l h f ",
	)
}

func TestQuadraticCurve(t *testing.T) {
	s := newTestSurface()
	s.writePath(drawing.Path{
		drawing.MoveTo(drawing.ToFixed(0, 0)),
		drawing.QuadTo{drawing.ToFixed(3, 3), drawing.ToFixed(6, 0)},
	})
	assertContains(t, content(s), "0 0 m 2 2 4 2 6 0 c ")
}

func TestTransform(t *testing.T) {
	s := newTestSurface()
	s.SaveGState()
	s.ConcatCTM(drawing.Identity.Translate(10, 10).Scale(2, 2))
	s.SetLineWidth(3)
	s.SetLineDash(1, []float64{2, 3})
	s.MoveTo(drawing.Point{X: 1, Y: 1})
	s.AddLineTo(drawing.Point{X: 5, Y: 1})
	s.StrokePath()
	s.RestoreGState()
	if s.CTM() != drawing.Identity {
		t.Errorf("CTM should be restored, got %v", s.CTM())
	}

	assertContains(t, content(s), "q ", "6 w [4 6] 2 d 12 12 m 20 12 l S ", " Q ")
}

func TestDrawPath(t *testing.T) {
	s := newTestSurface()
	s.AddRect(drawing.Rect{W: 10, H: 10})
	s.DrawPath(drawing.ModeEOFillStroke)
	s.AddRect(drawing.Rect{W: 10, H: 10})
	s.SetStrokeColor(blue.WithAlpha(0.5))
	s.DrawPath(drawing.ModeFillStroke)
	s.AddRect(drawing.Rect{W: 10, H: 10})
	s.DrawPath(drawing.ModeStroke)

	out := content(s)
	assertContains(t, out, "h B* ", "0 0 1 RG /GS1 gs", "h B ", "h S ")
	// the opacity of the last stroke is already set
	if n := strings.Count(out, " gs "); n != 2 {
		t.Errorf("expected 2 graphic states, got %d", n)
	}
	if len(s.states) != 2 {
		t.Errorf("expected 2 opacities, got %d", len(s.states))
	}
}

func TestOpacity(t *testing.T) {
	s := newTestSurface()
	s.SetAlpha(0.5)
	s.SetBlendMode(drawing.BlendMultiply)
	s.FillEllipse(drawing.Rect{W: 10, H: 10})

	key := opacity{fill: 0.5, stroke: 0.5, blend: "Multiply"}
	state := s.states[key]
	if state == nil {
		t.Fatalf("missing state %v", key)
	}
	if state.Ca != model.ObjFloat(0.5) || state.CA != model.ObjFloat(0.5) {
		t.Errorf("unexpected opacities %v", state)
	}

	s.SetBlendMode(drawing.BlendXOR)
	if s.gs.blend != "Normal" {
		t.Errorf("expected Normal fallback, got %s", s.gs.blend)
	}
}

func TestClip(t *testing.T) {
	s := newTestSurface()
	s.SaveGState()
	s.AddEllipse(drawing.Rect{W: 10, H: 10})
	s.Clip(drawing.EvenOdd)
	s.ClipToRect(drawing.Rect{W: 5, H: 5})
	s.Clip(drawing.Winding) // empty path
	s.RestoreGState()

	assertContains(t, content(s), " h W* n ", "0 0 m 5 0 l 5 5 l 0 5 l h W n ", "0 0 0 0 re W n ", " Q ")
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
}

func shadings(t *testing.T, s *Surface) map[model.Name]*model.ShadingDict {
	t.Helper()
	return s.app.ToXFormObject(false).Resources.Shading
}

func TestLinearGradient(t *testing.T) {
	// stops are sorted, and the first color is used before 0.25
	g, err := drawing.NewGradient(drawing.SRGB, []drawing.GradientStop{
		{Color: lime, Location: 0.5},
		{Color: red, Location: 0.25},
		{Color: blue, Location: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	s := newTestSurface()
	s.Mode = drawing.StrictErrorMode
	s.ConcatCTM(drawing.Identity.Translate(10, 0))
	s.DrawLinearGradient(g, drawing.Point{X: 0, Y: 0}, drawing.Point{X: 100, Y: 0}, drawing.DrawsBeforeStartLocation)
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}

	sh := shadings(t, s)["SH0"]
	if sh == nil {
		t.Fatal("missing shading")
	}
	axial, ok := sh.ShadingType.(model.ShadingAxial)
	if !ok {
		t.Fatalf("unexpected shading %T", sh.ShadingType)
	}
	if axial.Coords != [4]model.Fl{0, 0, 100, 0} {
		t.Errorf("coordinates should be in user space, got %v", axial.Coords)
	}
	if axial.Extend != [2]bool{true, false} {
		t.Errorf("unexpected extension %v", axial.Extend)
	}
	fn, ok := axial.Function[0].FunctionType.(model.FunctionStitching)
	if !ok {
		t.Fatalf("expected stitching function, got %T", axial.Function[0].FunctionType)
	}
	if diff := cmp.Diff([]model.Fl{0.25, 0.5}, fn.Bounds); diff != "" {
		t.Errorf("unexpected bounds (-want +got):\n%s", diff)
	}
	if len(fn.Functions) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(fn.Functions))
	}
	first := fn.Functions[0].FunctionType.(model.FunctionExpInterpolation)
	if diff := cmp.Diff(first.C0, first.C1); diff != "" {
		t.Errorf("the first segment should be constant:\n%s", diff)
	}
	last := fn.Functions[2].FunctionType.(model.FunctionExpInterpolation)
	if diff := cmp.Diff([]model.Fl{0, 0, 1}, last.C1); diff != "" {
		t.Errorf("unexpected last color (-want +got):\n%s", diff)
	}

	assertContains(t, content(s), "q /GS0 gs 1 0 0 1 10 0 cm /SH0 sh Q ")
}

func TestRadialGradient(t *testing.T) {
	g, err := drawing.NewGradient(drawing.SRGB, []drawing.GradientStop{
		{Color: red, Location: 0},
		{Color: blue, Location: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSurface()
	c := drawing.Point{X: 50, Y: 50}
	s.DrawRadialGradient(g, c, 5, c, 20, drawing.AllGradientOptions)

	radial := shadings(t, s)["SH0"].ShadingType.(model.ShadingRadial)
	if radial.Coords != [6]model.Fl{50, 50, 5, 50, 50, 20} {
		t.Errorf("unexpected coordinates %v", radial.Coords)
	}
	if radial.Extend != [2]bool{true, true} {
		t.Errorf("unexpected extension %v", radial.Extend)
	}
	// two stops: no stitching
	exp, ok := radial.Function[0].FunctionType.(model.FunctionExpInterpolation)
	if !ok {
		t.Fatalf("unexpected function %T", radial.Function[0].FunctionType)
	}
	if diff := cmp.Diff(model.FunctionExpInterpolation{C0: []model.Fl{1, 0, 0}, C1: []model.Fl{0, 0, 1}, N: 1}, exp); diff != "" {
		t.Errorf("unexpected function (-want +got):\n%s", diff)
	}
}

func TestSingleStop(t *testing.T) {
	g, err := drawing.NewGradient(drawing.SRGB, []drawing.GradientStop{{Color: lime, Location: 0.3}})
	if err != nil {
		t.Fatal(err)
	}
	fn := colorFunction(g).FunctionType.(model.FunctionStitching)
	if diff := cmp.Diff([]model.Fl{0.3}, fn.Bounds); diff != "" {
		t.Errorf("unexpected bounds (-want +got):\n%s", diff)
	}
	for _, f := range fn.Functions {
		exp := f.FunctionType.(model.FunctionExpInterpolation)
		if diff := cmp.Diff([]model.Fl{0, 1, 0}, exp.C0); diff != "" || !cmp.Equal(exp.C0, exp.C1) {
			t.Errorf("unexpected segment %v", exp)
		}
	}
}

func TestTransparencyLayer(t *testing.T) {
	s := newTestSurface()
	s.SetAlpha(0.5)
	s.SetBlendMode(drawing.BlendMultiply)
	s.BeginTransparencyLayer()
	if s.gs.alpha != 1 || s.gs.blend != "Normal" {
		t.Errorf("unexpected state in layer %v", s.gs)
	}
	s.SetFillColor(red.WithAlpha(1))
	s.AddRect(drawing.Rect{X: 1, Y: 1, W: 2, H: 2})
	s.FillPath(drawing.Winding)
	s.SaveGState() // left open
	s.ConcatCTM(drawing.Identity.Scale(2, 2))
	s.EndTransparencyLayer()

	if s.gs.alpha != 0.5 || s.gs.blend != "Multiply" || s.CTM() != drawing.Identity {
		t.Errorf("state should be restored, got %v", s.gs)
	}
	if len(s.saved) != 0 || len(s.layers) != 0 {
		t.Errorf("unexpected stacks %d %d", len(s.saved), len(s.layers))
	}

	page := s.app.ToXFormObject(false)
	group, ok := page.Resources.XObject["XO0"].(*model.XObjectTransparencyGroup)
	if !ok {
		t.Fatalf("expected a transparency group, got %T", page.Resources.XObject["XO0"])
	}
	if !group.I || group.CS != model.ColorSpaceRGB {
		t.Errorf("unexpected group attributes %v %v", group.I, group.CS)
	}
	assertContains(t, string(group.Content), "1 0 0 rg /GS0 gs", "1 1 m 3 1 l 3 3 l 1 3 l h f ", "q Q ")

	// the group is painted with the alpha and blend mode of the parent
	state := page.Resources.ExtGState["GS0"]
	if state == nil || state.Ca != model.ObjFloat(0.5) || len(state.BM) != 1 || state.BM[0] != "Multiply" {
		t.Errorf("unexpected painting state %v", state)
	}
	assertContains(t, content(s), "q /GS0 gs q 1 0 0 1 0 0 cm /XO0 Do Q Q ")

	s.EndTransparencyLayer() // unbalanced, ignored
}

func TestTransparencyLayerStates(t *testing.T) {
	s := newTestSurface()
	s.SetLineWidth(2)
	s.SaveGState()
	s.SetLineWidth(3)
	s.BeginTransparencyLayer()
	s.RestoreGState() // the state belongs to the page
	if len(s.saved) != 1 || s.gs.lineWidth != 3 {
		t.Fatalf("restore should stop at the layer, got %d states", len(s.saved))
	}
	s.EndTransparencyLayer()
	s.RestoreGState()
	if s.gs.lineWidth != 2 {
		t.Errorf("expected outer line width, got %g", s.gs.lineWidth)
	}
}

func TestUnsupported(t *testing.T) {
	s := newTestSurface()
	s.Mode = drawing.StrictErrorMode
	s.SetShadow(drawing.Point{}, 0, drawing.RGBA{})
	s.SetBlendMode(drawing.BlendScreen)
	s.BeginTransparencyLayer()
	s.EndTransparencyLayer()
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}

	for _, fn := range []func(s *Surface){
		func(s *Surface) { s.SetShadow(drawing.Point{X: 2}, 1, drawing.RGBA{A: 1}) },
		func(s *Surface) { s.SetBlendMode(drawing.BlendXOR) },
		func(s *Surface) { s.ReplacePathWithStrokePath() },
	} {
		s := newTestSurface()
		s.Mode = drawing.StrictErrorMode
		fn(s)
		if s.Err() == nil {
			t.Error("expected unsupported error")
		}
	}
}

func TestStateSettings(t *testing.T) {
	s := newTestSurface()
	s.SetFlatness(2)
	s.SetFlatness(-1)
	s.SetRenderingIntent(drawing.IntentPerceptual)
	s.SetRenderingIntent(drawing.IntentDefault)
	s.SetLineCap(drawing.RoundCap)
	s.SetLineJoin(drawing.BevelJoin)

	out := content(s)
	assertContains(t, out, "2.00 i ", "/Perceptual ri ", "1 J ", "2 j ")
	if strings.Contains(out, "/Default ri") || strings.Count(out, " i ") != 1 {
		t.Errorf("unexpected content %q", out)
	}
}

func TestRenderToPDF(t *testing.T) {
	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.Gradient(1, []drawing.GradientStop{
		{Color: red, Location: 0},
		{Color: lime, Location: 0.5},
		{Color: blue, Location: 1},
	})
	b.SaveGState() // never restored
	b.GlobalAlpha(0.5)
	b.BeginTransparencyLayer()
	b.FillColor(lime)
	b.AppendRectangle(drawing.Rect{X: 1, Y: 1, W: 2, H: 2})
	b.Fill()
	b.LinearGradient(1, drawing.Point{}, drawing.Point{X: 50}, drawing.DrawsAfterEndLocation)
	prog, err := interp.Load(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := RenderToPDF(prog, 50, 50, drawing.StrictErrorMode, &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("unexpected output %q", buf.Bytes()[:10])
	}
	assertContains(t, buf.String(), "/S/Transparency", "/FunctionType 3", "/ShadingType 2", "/Extend [false true]")

	b.Shadow(drawing.Point{X: 1}, 1, red, 1)
	prog, err = interp.Load(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := RenderToPDF(prog, 50, 50, drawing.StrictErrorMode, &buf); err == nil {
		t.Error("expected error for shadow")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}
