package drawing

import (
	"errors"
	"math"
)

// ErrGradientConstruction is returned when a gradient has no usable stops.
var ErrGradientConstruction = errors.New("gradient construction failed")

// GradientStop is a color at a given offset along a gradient.
type GradientStop struct {
	Color    Color
	Location float64 // in [0,1]
}

// Gradient is a resolved color ramp. Gradients are immutable once built and
// may be shared between surfaces.
type Gradient struct {
	ColorSpace ColorSpace
	Stops      []GradientStop
}

// NewGradient validates the stops and builds a gradient in the given color space.
// The stops are copied. At least one stop is required and every location must
// be a finite number; locations are clamped to [0,1].
func NewGradient(cs ColorSpace, stops []GradientStop) (*Gradient, error) {
	if len(stops) == 0 {
		return nil, ErrGradientConstruction
	}
	out := make([]GradientStop, len(stops))
	for i, s := range stops {
		if math.IsNaN(s.Location) || math.IsInf(s.Location, 0) {
			return nil, ErrGradientConstruction
		}
		s.Location = math.Min(math.Max(s.Location, 0), 1)
		out[i] = s
	}
	return &Gradient{ColorSpace: cs, Stops: out}, nil
}

// First returns the first stop color.
func (g *Gradient) First() Color { return g.Stops[0].Color }

// Last returns the last stop color.
func (g *Gradient) Last() Color { return g.Stops[len(g.Stops)-1].Color }
