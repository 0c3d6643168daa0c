package drawing

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D is an affine transform, with the same layout as an SVG matrix
// or a CoreGraphics affine transform:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a*b, that is the transform applying b first, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Transform applies the matrix to the point (x1, y1)
func (a Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*a.A + y1*a.C + a.E
	y2 = x1*a.B + y1*a.D + a.F
	return
}

// TransformVector is Transform without the translation part.
func (a Matrix2D) TransformVector(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*a.A + y1*a.C
	y2 = x1*a.B + y1*a.D
	return
}

// TransformPoint is a convenience wrapper for Transform.
func (a Matrix2D) TransformPoint(p Point) Point {
	x, y := a.Transform(p.X, p.Y)
	return Point{x, y}
}

// TFixed transforms p and converts the result to fixed point.
func (a Matrix2D) TFixed(p Point) fixed.Point26_6 {
	return ToFixed(a.Transform(p.X, p.Y))
}

// Determinant returns A*D - B*C.
func (a Matrix2D) Determinant() float64 { return a.A*a.D - a.B*a.C }

// ScaleFactor returns the uniform scale of the transform, that is
// the square root of the absolute value of its determinant.
// Lengths (line widths, blur radius) are multiplied by this factor.
func (a Matrix2D) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(a.Determinant()))
}

// Translate returns a translated by (x, y) in its own space.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, D: 1, E: x, F: y})
}

// Scale returns a scaled by (x, y) in its own space.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: x, D: y})
}

// Rotate rotates the matrix by theta, in radians.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{A: cos, B: sin, C: -sin, D: cos})
}

// Invert returns the inverse transform, and false if
// the matrix is singular.
func (a Matrix2D) Invert() (Matrix2D, bool) {
	det := a.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix2D{}, false
	}
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}, true
}

// ToFixed converts two floats to a fixed point.
func ToFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

// FromFixed converts a fixed point back to floats.
func FromFixed(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}
