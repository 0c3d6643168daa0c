package alt

import (
	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
)

// BeginTransparencyLayer redirects the drawing to a new isolated
// transparency group. The global alpha is reset to 1 and the blend
// mode to Normal until the layer ends.
func (s *Surface) BeginTransparencyLayer() {
	s.gs.ctm = s.Pather.CTM
	s.layers = append(s.layers, layer{parent: s.app, gs: s.gs, depth: len(s.saved)})

	app := contentstream.NewAppearance(s.width, s.height)
	s.app = &app
	s.gs.alpha = 1
	s.gs.blend = "Normal"
	s.gs.opacity = nil
}

// EndTransparencyLayer paints the group on its parent, using the
// global alpha and blend mode in effect when the layer began.
// States saved inside the layer and not restored are dropped.
// It is a no-op if no layer is active.
func (s *Surface) EndTransparencyLayer() {
	if len(s.layers) == 0 {
		return
	}
	for len(s.saved) > s.stateFloor() {
		s.RestoreGState()
	}
	l := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]

	group := &model.XObjectTransparencyGroup{
		XObjectForm: *s.app.ToXFormObject(s.compress),
		CS:          model.ColorSpaceRGB,
		I:           true,
	}
	s.app = l.parent
	s.gs = l.gs
	s.Pather.CTM = l.gs.ctm

	current := s.gs.opacity
	s.app.SaveState()
	s.setOpacity(s.gs.alpha, s.gs.alpha)
	s.app.AddXObject(group)
	_ = s.app.RestoreState()
	s.gs.opacity = current
}

// stateFloor is the number of saved states RestoreGState
// may not pop: the ones owned by the enclosing layers.
func (s *Surface) stateFloor() int {
	if len(s.layers) == 0 {
		return 0
	}
	return s.layers[len(s.layers)-1].depth
}
