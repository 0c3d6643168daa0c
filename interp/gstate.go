package interp

import "github.com/benoitkugler/bcdraw/drawing"

// Paint is an optional color with an opacity.
// Without color, the paint is not drawn.
type Paint struct {
	Color    drawing.Color
	HasColor bool
	Alpha    float64
}

// Effective returns the color to use for painting, with the paint alpha,
// and false if the paint has no color.
func (p Paint) Effective() (drawing.RGBA, bool) {
	if !p.HasColor {
		return drawing.RGBA{}, false
	}
	return p.Color.WithAlpha(p.Alpha), true
}

// DashPattern describes how lines are dashed.
// A nil Lengths slice means a solid line.
type DashPattern struct {
	Phase   float64
	Lengths []float64
}

// GraphicsState is the part of the drawing state handled by the
// interpreter, saved and restored along with the surface state.
type GraphicsState struct {
	FillRule drawing.FillRule
	Fill     Paint
	Stroke   Paint
	Dash     DashPattern
}

// DefaultGraphicsState fills with opaque black, using the
// non-zero winding rule, without stroking nor dashing.
func DefaultGraphicsState() GraphicsState {
	return GraphicsState{
		FillRule: drawing.Winding,
		Fill:     Paint{Color: drawing.Black, HasColor: true, Alpha: 1},
		Stroke:   Paint{Alpha: 1},
	}
}

// Clone returns a deep copy of the state.
func (gs GraphicsState) Clone() GraphicsState {
	if gs.Dash.Lengths != nil {
		gs.Dash.Lengths = append([]float64(nil), gs.Dash.Lengths...)
	}
	return gs
}

func (gs *GraphicsState) setFillColor(c drawing.Color) {
	gs.Fill.Color = c
	gs.Fill.HasColor = true
}

func (gs *GraphicsState) setStrokeColor(c drawing.Color) {
	gs.Stroke.Color = c
	gs.Stroke.HasColor = true
}

func (gs *GraphicsState) setFillAlpha(alpha float64) { gs.Fill.Alpha = alpha }

func (gs *GraphicsState) setStrokeAlpha(alpha float64) { gs.Stroke.Alpha = alpha }

// the alpha is kept
func (gs *GraphicsState) setFillNone() { gs.Fill.HasColor = false }

func (gs *GraphicsState) setStrokeNone() { gs.Stroke.HasColor = false }

func (gs *GraphicsState) setFillRule(rule drawing.FillRule) { gs.FillRule = rule }

func (gs *GraphicsState) setDash(phase float64, lengths []float64) {
	gs.Dash = DashPattern{Phase: phase, Lengths: lengths}
}

func (gs *GraphicsState) setDashPhase(phase float64) { gs.Dash.Phase = phase }

func (gs *GraphicsState) setDashLengths(lengths []float64) { gs.Dash.Lengths = lengths }

// stateStack is the current state, with the saved ones.
type stateStack struct {
	current GraphicsState
	saved   []GraphicsState
}

func newStateStack(initial GraphicsState) stateStack {
	return stateStack{current: initial}
}

// save pushes a copy of the current state.
func (st *stateStack) save() {
	st.saved = append(st.saved, st.current.Clone())
}

// restore pops the last saved state into the current one.
// With an empty stack, the current state is left unchanged and false is returned.
func (st *stateStack) restore() bool {
	if len(st.saved) == 0 {
		return false
	}
	st.current = st.saved[len(st.saved)-1]
	st.saved = st.saved[:len(st.saved)-1]
	return true
}
