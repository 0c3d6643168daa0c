package bytecode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/google/go-cmp/cmp"
)

var red = drawing.Color{R: 1}

func TestBuilderLayout(t *testing.T) {
	format := Format{IDSize: 1, LengthSize: 2}
	sub := NewBuilder(format)
	sub.FillColor(red)
	sub.Fill()
	if len(sub.Code()) != 5 {
		t.Fatalf("expected 5 bytes, got %d", len(sub.Code()))
	}

	b := NewBuilder(format)
	b.Gradient(7, []drawing.GradientStop{{Color: red, Location: 0}})
	b.Subroutine(3, sub)
	b.SubrouteWithID(3)
	b.Stroke()

	expected := []byte{
		1,          // gradient count
		7,          // id
		1,          // stop count
		0xff, 0, 0, // color
		0, 0, 0, 0, // location
		1,          // subroutine count
		3,          // id
		5, 0,       // size
		byte(OpFillColor), 0xff, 0, 0, byte(OpFill),
		byte(OpSubrouteWithID), 3,
		byte(OpStroke),
	}
	if diff := cmp.Diff(expected, b.Bytes()); diff != "" {
		t.Errorf("unexpected encoding (-want +got):\n%s", diff)
	}

	b.Reset()
	if got := b.Bytes(); !bytes.Equal(got, []byte{0, 0}) {
		t.Errorf("unexpected empty program %v", got)
	}
}

func TestDisassemble(t *testing.T) {
	b := NewBuilder(DefaultFormat)
	b.Gradient(1, []drawing.GradientStop{{Color: red, Location: 0}, {Color: drawing.Color{B: 1}, Location: 1}})
	sub := NewBuilder(DefaultFormat)
	sub.FillColor(red)
	sub.Fill()
	b.Subroutine(2, sub)
	b.MoveTo(drawing.Point{X: 0, Y: 0})
	b.LineTo(drawing.Point{X: 10, Y: 10})
	b.LinearGradient(1, drawing.Point{}, drawing.Point{X: 1, Y: 1}, drawing.DrawsAfterEndLocation)
	b.BlendMode(drawing.BlendMultiply)
	b.SubrouteWithID(2)
	b.Stroke()

	var out strings.Builder
	if err := Disassemble(b.Bytes(), DefaultFormat, &out); err != nil {
		t.Fatal(err)
	}
	listing := out.String()
	for _, line := range []string{
		"gradients (1)",
		"  1: [#ff0000@0 #0000ff@1]",
		"subroutines (1)",
		"fillColor #ff0000",
		"lineTo (10, 10)",
		"linearGradient id=1 (0, 0) (1, 1) after",
		"blendMode Multiply",
		"subrouteWithId 2",
		"stroke",
	} {
		if !strings.Contains(listing, line) {
			t.Errorf("missing %q in listing:\n%s", line, listing)
		}
	}
}

func TestDisassembleError(t *testing.T) {
	b := NewBuilder(DefaultFormat)
	b.Stroke()
	b.Raw(byte(OpMoveTo), 1, 2) // truncated point

	err := Disassemble(b.Bytes(), DefaultFormat, new(strings.Builder))
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("expected OutOfBoundsError, got %v", err)
	}
}
