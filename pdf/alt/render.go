package alt

import (
	"io"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/benoitkugler/bcdraw/interp"
	"github.com/benoitkugler/pdf/model"
)

// RenderToPDF draws the program on a new one page document,
// and writes it to out.
// In StrictErrorMode, an unsupported operation is returned as an error,
// and nothing is written.
func RenderToPDF(prog *interp.Program, width, height float64, mode drawing.ErrorMode, out io.Writer) error {
	surface := NewSurface(width, height)
	surface.Mode = mode
	if err := prog.Draw(surface); err != nil {
		return err
	}
	if err := surface.Err(); err != nil {
		return err
	}
	var doc model.Document
	doc.Trailer.Info.Producer = "bcdraw"
	doc.Catalog.Pages.Kids = append(doc.Catalog.Pages.Kids, surface.Page())
	return doc.Write(out, nil)
}

// Page ends the layers and graphics states left open,
// and returns the content as a page object.
func (s *Surface) Page() *model.PageObject {
	for len(s.layers) > 0 {
		s.EndTransparencyLayer()
	}
	for len(s.saved) > 0 {
		s.RestoreGState()
	}
	page := new(model.PageObject)
	s.app.ApplyToPageObject(page, s.compress)
	return page
}
