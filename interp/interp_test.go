package interp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/benoitkugler/bcdraw/bytecode"
	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/benoitkugler/bcdraw/recorder"
	"github.com/google/go-cmp/cmp"
)

var (
	red   = drawing.Color{R: 1}
	green = drawing.Color{G: 1}
	blue  = drawing.Color{B: 1}
	black = drawing.Color{}
)

func call(name string, args ...interface{}) recorder.Call {
	return recorder.Call{Name: name, Args: args}
}

// runProgram executes the program built by b, and returns the calls
// following the color space setup.
func runProgram(t *testing.T, b *bytecode.Builder, opts ...Option) []recorder.Call {
	t.Helper()
	rec := recorder.New()
	if err := Run(b.Bytes(), rec, opts...); err != nil {
		t.Fatal(err)
	}
	setup := []recorder.Call{
		call("SetFillColorSpace", drawing.SRGB),
		call("SetStrokeColorSpace", drawing.SRGB),
	}
	if len(rec.Calls) < 2 {
		t.Fatalf("missing color space setup: %v", rec.Calls)
	}
	if diff := cmp.Diff(setup, rec.Calls[:2]); diff != "" {
		t.Fatalf("unexpected setup (-want +got):\n%s", diff)
	}
	return rec.Calls[2:]
}

func checkCalls(t *testing.T, expected, got []recorder.Call) {
	t.Helper()
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestStrokeLine(t *testing.T) {
	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.MoveTo(drawing.Point{X: 0, Y: 0})
	b.LineTo(drawing.Point{X: 10, Y: 10})
	b.Stroke()

	checkCalls(t, []recorder.Call{
		call("MoveTo", drawing.Point{X: 0, Y: 0}),
		call("AddLineTo", drawing.Point{X: 10, Y: 10}),
		call("StrokePath"),
	}, runProgram(t, b))
}

func TestLinearGradientByID(t *testing.T) {
	stops := []drawing.GradientStop{{Color: red, Location: 0}, {Color: blue, Location: 1}}
	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.Gradient(1, stops)
	start, end := drawing.Point{X: 0, Y: 0}, drawing.Point{X: 100, Y: 50}
	b.LinearGradient(1, start, end, drawing.DrawsAfterEndLocation)

	checkCalls(t, []recorder.Call{
		call("DrawLinearGradient", &drawing.Gradient{ColorSpace: drawing.SRGB, Stops: stops}, start, end, drawing.DrawsAfterEndLocation),
	}, runProgram(t, b))
}

func TestSubroutineCall(t *testing.T) {
	for _, format := range []bytecode.Format{
		bytecode.DefaultFormat,
		{IDSize: 1, LengthSize: 2},
		{IDSize: 8, LengthSize: 1},
	} {
		sub := bytecode.NewBuilder(format)
		sub.FillColor(red)
		sub.Fill()
		if len(sub.Code()) != 5 {
			t.Fatalf("unexpected subroutine size %d", len(sub.Code()))
		}

		b := bytecode.NewBuilder(format)
		b.Subroutine(2, sub)
		b.SubrouteWithID(2)
		b.Stroke()

		prog, err := Load(b.Bytes(), WithFormat(format))
		if err != nil {
			t.Fatal(err)
		}
		// the table consumed exactly the declared size
		if codeLen := 1 + format.IDSize + 1; prog.code.Length != codeLen {
			t.Errorf("expected %d bytes of code, got %d", codeLen, prog.code.Length)
		}

		checkCalls(t, []recorder.Call{
			call("SetFillColor", red.WithAlpha(1)),
			call("FillPath", drawing.Winding),
			call("StrokePath"),
		}, runProgram(t, b, WithFormat(format)))
	}
}

func TestSubroutineStateIsolation(t *testing.T) {
	sub := bytecode.NewBuilder(bytecode.DefaultFormat)
	sub.FillColor(red)
	sub.SaveGState() // left unbalanced on purpose

	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.Subroutine(1, sub)
	b.FillColor(blue)
	b.SubrouteWithID(1)
	b.FillAlpha(0.5)    // the caller color is still blue
	b.RestoreGState()   // the caller stack is empty
	b.SubrouteWithID(1) // called twice: the bytes are interpreted again

	checkCalls(t, []recorder.Call{
		call("SetFillColor", blue.WithAlpha(1)),
		call("SetFillColor", red.WithAlpha(1)),
		call("SaveGState"),
		call("SetFillColor", blue.WithAlpha(0.5)),
		call("RestoreGState"),
		call("SetFillColor", red.WithAlpha(0.5)), // the subroutine starts with a copy of the caller state
		call("SaveGState"),
	}, runProgram(t, b))
}

func TestSubroutineSizeTooLarge(t *testing.T) {
	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.RawSubroutine(1, 100, []byte{byte(bytecode.OpStroke)})
	b.Stroke()

	rec := recorder.New()
	err := Run(b.Bytes(), rec)
	var oob *bytecode.OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("expected OutOfBoundsError, got %v", err)
	}
	if oob.Requested != 100 || oob.Available != 2 {
		t.Errorf("unexpected error %v", oob)
	}
	if len(rec.Calls) != 0 {
		t.Errorf("no command should be executed, got %v", rec.Calls)
	}
}

func TestRestoreEmptyStack(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.FillColor(red)
	b.RestoreGState()
	b.FillAlpha(0.5)

	checkCalls(t, []recorder.Call{
		call("SetFillColor", red.WithAlpha(1)),
		call("RestoreGState"),
		call("SetFillColor", red.WithAlpha(0.5)),
	}, runProgram(t, b, WithLogger(logger)))

	if !strings.Contains(logs.String(), "restore with empty state stack") {
		t.Errorf("expected a debug log, got %q", logs.String())
	}
}

func TestPackageLogger(t *testing.T) {
	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.Stroke()
	if _, err := Load(b.Bytes()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "tables loaded") {
		t.Errorf("expected a debug log, got %q", logs.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should discard records")
	}
}

func TestSaveRestore(t *testing.T) {
	st := newStateStack(DefaultGraphicsState())
	st.current.setDash(1, []float64{1, 2})
	before := st.current.Clone()

	st.save()
	st.current.setFillColor(red)
	st.current.setStrokeColor(blue)
	st.current.setFillRule(drawing.EvenOdd)
	st.current.setDashPhase(4)
	st.current.Dash.Lengths[0] = 8 // mutation in place must not affect the saved state
	st.save()
	st.current.setFillNone()
	if !st.restore() || !st.restore() {
		t.Fatal("expected two saved states")
	}
	if diff := cmp.Diff(before, st.current); diff != "" {
		t.Errorf("unexpected restored state (-want +got):\n%s", diff)
	}
	if st.restore() {
		t.Error("stack should be empty")
	}
	if diff := cmp.Diff(before, st.current); diff != "" {
		t.Errorf("restore on empty stack modified the state (-want +got):\n%s", diff)
	}
}

func TestFillAndStrokeModes(t *testing.T) {
	for _, test := range []struct {
		fill, stroke bool
		rule         drawing.FillRule
		expected     recorder.Call
	}{
		{true, true, drawing.Winding, call("DrawPath", drawing.ModeFillStroke)},
		{true, true, drawing.EvenOdd, call("DrawPath", drawing.ModeEOFillStroke)},
		{true, false, drawing.Winding, call("DrawPath", drawing.ModeFill)},
		{true, false, drawing.EvenOdd, call("DrawPath", drawing.ModeEOFill)},
		{false, true, drawing.Winding, call("DrawPath", drawing.ModeStroke)},
		{false, true, drawing.EvenOdd, call("DrawPath", drawing.ModeStroke)},
		{false, false, drawing.Winding, call("BeginPath")},
		{false, false, drawing.EvenOdd, call("BeginPath")},
	} {
		b := bytecode.NewBuilder(bytecode.DefaultFormat)
		if !test.fill {
			b.FillNone()
		}
		if test.stroke {
			b.StrokeColor(green)
		}
		b.FillRule(test.rule)
		b.FillAndStroke()

		calls := runProgram(t, b)
		if diff := cmp.Diff(test.expected, calls[len(calls)-1]); diff != "" {
			t.Errorf("fill %v, stroke %v, %s: (-want +got):\n%s", test.fill, test.stroke, test.rule, diff)
		}
	}
}

func TestAllOpcodes(t *testing.T) {
	var (
		p1    = drawing.Point{X: 1, Y: 2}
		p2    = drawing.Point{X: -3.5, Y: 4}
		p3    = drawing.Point{X: 100, Y: 0.25}
		r     = drawing.Rect{X: 1, Y: 2, W: 30, H: 40}
		m     = drawing.Matrix2D{A: 2, D: 2, E: 10, F: 20}
		stops = []drawing.GradientStop{{Color: green, Location: 0.25}, {Color: black, Location: 0.75}}
		g1    = &drawing.Gradient{ColorSpace: drawing.SRGB, Stops: stops}
	)
	sub := bytecode.NewBuilder(bytecode.DefaultFormat)
	sub.ClosePath()

	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.Gradient(1, stops)
	b.Subroutine(3, sub)

	b.MoveTo(p1)
	b.LineTo(p2)
	b.Lines([]drawing.Point{p1, p2})
	b.CurveTo(p1, p2, p3)
	b.ClosePath()
	b.AddArc(p1, 5, 0, 1.5, true)
	b.AddEllipse(r)
	b.AppendRectangle(r)
	b.AppendRoundedRect(r, 2, 3)
	b.ReplacePathWithStrokePath()
	b.Fill()
	b.FillWithRule(drawing.EvenOdd)
	b.Stroke()
	b.FillAndStroke()
	b.FillEllipse(r)
	b.DrawPath(drawing.ModeEOFillStroke)
	b.FillColor(red)
	b.StrokeColor(blue)
	b.FillAlpha(0.5)
	b.StrokeAlpha(0.25)
	b.FillRule(drawing.EvenOdd)
	b.FillAndStroke()
	b.FillNone()
	b.StrokeNone()
	b.FillAndStroke()
	b.SetGlobalAlphaToFillAlpha()
	b.Clip()
	b.ClipWithRule(drawing.Winding)
	b.ClipToRect(r)
	b.LinearGradient(1, p1, p2, drawing.DrawsBeforeStartLocation)
	b.LinearGradientInlined(stops, p1, p2, 0)
	b.RadialGradient(1, p1, 1, p2, 10, drawing.AllGradientOptions)
	b.RadialGradientInlined(stops, p2, 0, p3, 5, drawing.DrawsAfterEndLocation)
	b.ConcatCTM(m)
	b.LineWidth(3)
	b.LineCapStyle(drawing.RoundCap)
	b.LineJoinStyle(drawing.BevelJoin)
	b.Dash(1, []float64{2, 3})
	b.DashPhase(0.5)
	b.DashLengths(nil)
	b.Flatness(0.25)
	b.BlendMode(drawing.BlendScreen)
	b.ColorRenderingIntent(drawing.IntentPerceptual)
	b.GlobalAlpha(0.75)
	b.BeginTransparencyLayer()
	b.EndTransparencyLayer()
	b.Shadow(drawing.Point{X: 1, Y: -1}, 2, green, 0.5)
	b.SaveGState()
	b.RestoreGState()
	b.SubrouteWithID(3)

	checkCalls(t, []recorder.Call{
		call("MoveTo", p1),
		call("AddLineTo", p2),
		call("AddLines", []drawing.Point{p1, p2}),
		call("AddCurveTo", p1, p2, p3),
		call("ClosePath"),
		call("AddArc", p1, 5., 0., 1.5, true),
		call("AddEllipse", r),
		call("AddRect", r),
		call("AddRoundedRect", r, 2., 3.),
		call("ReplacePathWithStrokePath"),
		call("FillPath", drawing.Winding),
		call("FillPath", drawing.EvenOdd),
		call("StrokePath"),
		call("DrawPath", drawing.ModeFill),
		call("FillEllipse", r),
		call("DrawPath", drawing.ModeEOFillStroke),
		call("SetFillColor", red.WithAlpha(1)),
		call("SetStrokeColor", blue.WithAlpha(1)),
		call("SetFillColor", red.WithAlpha(0.5)),
		call("SetStrokeColor", blue.WithAlpha(0.25)),
		call("DrawPath", drawing.ModeEOFillStroke),
		call("BeginPath"),
		call("SetAlpha", 0.5),
		call("Clip", drawing.EvenOdd),
		call("Clip", drawing.Winding),
		call("ClipToRect", r),
		call("DrawLinearGradient", g1, p1, p2, drawing.DrawsBeforeStartLocation),
		call("DrawLinearGradient", g1, p1, p2, drawing.GradientOptions(0)),
		call("DrawRadialGradient", g1, p1, 1., p2, 10., drawing.AllGradientOptions),
		call("DrawRadialGradient", g1, p2, 0., p3, 5., drawing.DrawsAfterEndLocation),
		call("ConcatCTM", m),
		call("SetLineWidth", 3.),
		call("SetLineCap", drawing.RoundCap),
		call("SetLineJoin", drawing.BevelJoin),
		call("SetLineDash", 1., []float64{2, 3}),
		call("SetLineDash", 0.5, []float64{2, 3}),
		call("SetLineDash", 0.5, []float64(nil)),
		call("SetFlatness", 0.25),
		call("SetBlendMode", drawing.BlendScreen),
		call("SetRenderingIntent", drawing.IntentPerceptual),
		call("SetAlpha", 0.75),
		call("BeginTransparencyLayer"),
		call("EndTransparencyLayer"),
		call("SetShadow", drawing.Point{X: 2, Y: -2}, 4., green.WithAlpha(0.5)),
		call("SaveGState"),
		call("RestoreGState"),
		call("ClosePath"),
	}, runProgram(t, b))
}

func TestErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		build func(b *bytecode.Builder)
		check func(err error) bool
	}{
		{
			"unknown gradient",
			func(b *bytecode.Builder) { b.LinearGradient(4, drawing.Point{}, drawing.Point{}, 0) },
			func(err error) bool {
				var e *InvalidGradientIDError
				return errors.As(err, &e) && e.ID == 4
			},
		},
		{
			"unknown subroutine",
			func(b *bytecode.Builder) { b.SubrouteWithID(9) },
			func(err error) bool {
				var e *InvalidSubroutineIDError
				return errors.As(err, &e) && e.ID == 9
			},
		},
		{
			"empty gradient table entry",
			func(b *bytecode.Builder) { b.Gradient(1, nil) },
			func(err error) bool { return errors.Is(err, drawing.ErrGradientConstruction) },
		},
		{
			"empty inlined gradient",
			func(b *bytecode.Builder) { b.RadialGradientInlined(nil, drawing.Point{}, 0, drawing.Point{}, 1, 0) },
			func(err error) bool { return errors.Is(err, drawing.ErrGradientConstruction) },
		},
		{
			"unknown opcode",
			func(b *bytecode.Builder) { b.Stroke(); b.Raw(0xfe) },
			func(err error) bool {
				var e *bytecode.UnknownOpcodeError
				return errors.As(err, &e) && e.Op == 0xfe && e.Offset == 9
			},
		},
		{
			"invalid enum",
			func(b *bytecode.Builder) { b.Raw(byte(bytecode.OpLineCapStyle), 7) },
			func(err error) bool {
				var e *bytecode.InvalidOperandError
				return errors.As(err, &e) && e.Value == 7
			},
		},
		{
			"truncated operand",
			func(b *bytecode.Builder) { b.Raw(byte(bytecode.OpLineWidth), 0, 0) },
			func(err error) bool {
				var e *bytecode.OutOfBoundsError
				return errors.As(err, &e) && e.Requested == 4 && e.Available == 2
			},
		},
		{
			"error in subroutine",
			func(b *bytecode.Builder) {
				sub := bytecode.NewBuilder(bytecode.DefaultFormat)
				sub.RadialGradient(5, drawing.Point{}, 0, drawing.Point{}, 1, 0)
				b.Subroutine(1, sub)
				b.SubrouteWithID(1)
				b.Stroke() // never reached
			},
			func(err error) bool {
				var e *InvalidGradientIDError
				return errors.As(err, &e) && e.ID == 5
			},
		},
		{
			"operand truncated at the end of a subroutine",
			func(b *bytecode.Builder) {
				// MoveTo needs two floats, the subroutine only holds one
				b.RawSubroutine(1, 5, []byte{byte(bytecode.OpMoveTo), 0, 0, 0x80, 0x3f})
				b.SubrouteWithID(1)
				b.LineWidth(2) // would complete the point if the span leaked
				b.Stroke()
			},
			func(err error) bool {
				var e *bytecode.OutOfBoundsError
				return errors.As(err, &e) && e.Requested == 4 && e.Available == 0
			},
		},
	} {
		b := bytecode.NewBuilder(bytecode.DefaultFormat)
		test.build(b)
		rec := recorder.New()
		err := Run(b.Bytes(), rec)
		if err == nil || !test.check(err) {
			t.Errorf("%s: unexpected error %v", test.name, err)
		}
		for _, c := range rec.Calls {
			if c.Name == "StrokePath" && test.name == "error in subroutine" {
				t.Errorf("%s: execution should stop at the first error", test.name)
			}
			if c.Name == "MoveTo" || c.Name == "SetLineWidth" {
				t.Errorf("%s: unexpected call %s", test.name, c.Name)
			}
		}
	}
}

func TestRecursionLimit(t *testing.T) {
	sub := bytecode.NewBuilder(bytecode.DefaultFormat)
	sub.ClosePath()
	sub.SubrouteWithID(1) // calls itself

	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.Subroutine(1, sub)
	b.SubrouteWithID(1)

	rec := recorder.New()
	err := Run(b.Bytes(), rec, WithMaxDepth(3))
	var e *RecursionLimitError
	if !errors.As(err, &e) {
		t.Fatalf("expected RecursionLimitError, got %v", err)
	}
	if e.Depth != 4 || e.ID != 1 {
		t.Errorf("unexpected error %v", e)
	}
	if n := len(rec.Names()) - 2; n != 3 {
		t.Errorf("expected 3 executed subroutines, got %d", n)
	}
}

// fanOut returns a program whose subroutine i calls subroutine i+1 twice,
// for i < levels, so that 2^(levels+1) - 1 calls are made.
func fanOut(levels int) []byte {
	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	for id := 0; id <= levels; id++ {
		sub := bytecode.NewBuilder(bytecode.DefaultFormat)
		if id == levels {
			sub.ClosePath()
		} else {
			sub.SubrouteWithID(uint64(id + 1))
			sub.SubrouteWithID(uint64(id + 1))
		}
		b.Subroutine(uint64(id), sub)
	}
	b.SubrouteWithID(0)
	return b.Bytes()
}

func TestCallLimit(t *testing.T) {
	data := fanOut(2) // 7 calls, depth 3

	rec := recorder.New()
	if err := Run(data, rec, WithMaxCalls(7)); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.Calls) - 2; n != 4 {
		t.Errorf("expected 4 ClosePath, got %d", n)
	}

	rec = recorder.New()
	err := Run(data, rec, WithMaxCalls(5))
	var e *CallLimitError
	if !errors.As(err, &e) {
		t.Fatalf("expected CallLimitError, got %v", err)
	}
	if e.Calls != 6 {
		t.Errorf("unexpected error %v", e)
	}

	// the depth limit alone does not stop a wide program
	err = Run(fanOut(20), recorder.New(), WithMaxDepth(30))
	if !errors.As(err, &e) || e.Calls != DefaultMaxCalls+1 {
		t.Errorf("expected default call limit, got %v", err)
	}

	// the budget is per Draw
	prog, err := Load(data, WithMaxCalls(7))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := prog.Draw(recorder.New()); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDuplicateIDs(t *testing.T) {
	first := bytecode.NewBuilder(bytecode.DefaultFormat)
	first.Fill()
	second := bytecode.NewBuilder(bytecode.DefaultFormat)
	second.Stroke()

	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.Gradient(1, []drawing.GradientStop{{Color: red}})
	b.Gradient(1, []drawing.GradientStop{{Color: blue}})
	b.Subroutine(2, first)
	b.Subroutine(2, second)
	b.LinearGradient(1, drawing.Point{}, drawing.Point{}, 0)
	b.SubrouteWithID(2)

	g := &drawing.Gradient{ColorSpace: drawing.SRGB, Stops: []drawing.GradientStop{{Color: blue}}}
	checkCalls(t, []recorder.Call{
		call("DrawLinearGradient", g, drawing.Point{}, drawing.Point{}, drawing.GradientOptions(0)),
		call("StrokePath"),
	}, runProgram(t, b))
}

func TestProgramReuse(t *testing.T) {
	b := bytecode.NewBuilder(bytecode.DefaultFormat)
	b.Gradient(1, []drawing.GradientStop{{Color: red}, {Color: blue, Location: 1}})
	b.FillColor(green)
	b.AppendRectangle(drawing.Rect{W: 10, H: 10})
	b.Fill()

	prog, err := Load(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if prog.NumGradients() != 1 || prog.NumSubroutines() != 0 || prog.Gradient(1) == nil {
		t.Fatal("unexpected tables")
	}
	rec1, rec2 := recorder.New(), recorder.New()
	if err = prog.Draw(rec1); err != nil {
		t.Fatal(err)
	}
	if err = prog.Draw(rec2); err != nil {
		t.Fatal(err)
	}
	checkCalls(t, rec1.Calls, rec2.Calls)
}

func TestInvalidFormat(t *testing.T) {
	if _, err := Load(nil, WithFormat(bytecode.Format{IDSize: 3, LengthSize: 4})); err == nil {
		t.Error("expected error for invalid format")
	}
	// an empty buffer lacks the table counts
	var oob *bytecode.OutOfBoundsError
	if _, err := Load(nil); !errors.As(err, &oob) {
		t.Errorf("expected OutOfBoundsError, got %v", err)
	}
}
