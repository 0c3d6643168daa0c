package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// layer is an offscreen image, composited on its parent
// when the layer ends.
type layer struct {
	parent draw.Image
	alpha  float64 // global alpha when the layer began
	depth  int     // index of the state saved by BeginTransparencyLayer
}

// BeginTransparencyLayer redirects the drawing to a new transparent image.
// The graphics state is saved, and the global alpha is reset to 1.
func (s *Surface) BeginTransparencyLayer() {
	s.layers = append(s.layers, layer{parent: s.scanner.Dest, alpha: s.gs.alpha, depth: len(s.saved)})
	s.SaveGState()
	s.gs.alpha = 1
	s.scanner.Dest = image.NewRGBA(s.scanner.Dest.Bounds())
}

// EndTransparencyLayer composites the current layer on its parent,
// using the global alpha in effect when the layer began.
// States saved inside the layer and not restored are dropped.
// It is a no-op if no layer is active.
func (s *Surface) EndTransparencyLayer() {
	if len(s.layers) == 0 {
		return
	}
	l := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]
	s.saved = s.saved[:l.depth+1]
	s.RestoreGState()

	img := s.scanner.Dest
	mask := image.NewUniform(color.Alpha{A: uint8(clamp01(l.alpha)*0xff + 0.5)})
	b := img.Bounds()
	draw.DrawMask(l.parent, b, img, b.Min, mask, image.Point{}, draw.Over)
	s.scanner.Dest = l.parent
}

// stateFloor is the number of saved states RestoreGState
// may not pop: the ones owned by the enclosing layers.
func (s *Surface) stateFloor() int {
	if len(s.layers) == 0 {
		return 0
	}
	return s.layers[len(s.layers)-1].depth + 1
}
