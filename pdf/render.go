package pdf

import (
	"io"

	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/benoitkugler/bcdraw/interp"
	"github.com/jung-kurt/gofpdf"
)

// NewDocument returns a one page document of the given size, in points.
func NewDocument(width, height float64) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

// RenderToPDF draws the program on a new one page document,
// and writes it to out.
// In StrictErrorMode, an unsupported operation is returned as an error,
// and nothing is written.
func RenderToPDF(prog *interp.Program, width, height float64, mode drawing.ErrorMode, out io.Writer) error {
	pdf := NewDocument(width, height)
	surface := NewSurface(pdf)
	surface.Mode = mode
	if err := prog.Draw(surface); err != nil {
		return err
	}
	if err := surface.Err(); err != nil {
		return err
	}
	surface.close()
	return pdf.Output(out)
}

// close ends the graphics states left open by the program,
// as required by gofpdf.
func (s *Surface) close() {
	for s.layers > 0 {
		s.EndTransparencyLayer()
	}
	for len(s.saved) > 0 {
		s.RestoreGState()
	}
}
