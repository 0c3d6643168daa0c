package raster

import (
	"image"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/benoitkugler/bcdraw/interp"
)

// RenderToImage uses a ScannerGV instance to draw the
// program into a new transparent image, and returns it.
// In StrictErrorMode, an unsupported operation is returned as an error,
// after the whole program has been drawn.
func RenderToImage(prog *interp.Program, width, height int, mode drawing.ErrorMode) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	surface := NewSurface(img)
	surface.Mode = mode
	if err := prog.Draw(surface); err != nil {
		return nil, err
	}
	return img, surface.Err()
}
