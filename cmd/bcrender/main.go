// Command bcrender renders a drawing program to a PNG image or a PDF document,
// or prints its disassembly.
//
// Usage:
//
//	bcrender [flags] program.bin
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/bcdraw/bytecode"
	"github.com/benoitkugler/bcdraw/drawing"
	"github.com/benoitkugler/bcdraw/interp"
	"github.com/benoitkugler/bcdraw/pdf"
	"github.com/benoitkugler/bcdraw/pdf/alt"
	"github.com/benoitkugler/bcdraw/raster"
)

func main() {
	output := flag.String("o", "out.png", "output file; the extension (.png or .pdf) selects the backend")
	width := flag.Int("w", 512, "output width, in pixels or points")
	height := flag.Int("h", 512, "output height, in pixels or points")
	dump := flag.Bool("dump", false, "print the disassembly on stdout instead of rendering")
	idSize := flag.Int("id-size", bytecode.DefaultFormat.IDSize, "width in bytes of ids (1, 2, 4 or 8)")
	lengthSize := flag.Int("length-size", bytecode.DefaultFormat.LengthSize, "width in bytes of lengths (1, 2, 4 or 8)")
	maxDepth := flag.Int("max-depth", interp.DefaultMaxDepth, "maximum nesting of subroutine calls, negative for no limit")
	maxCalls := flag.Int("max-calls", interp.DefaultMaxCalls, "maximum number of subroutine calls, negative for no limit")
	pdfBackend := flag.String("pdf", "alt", "PDF backend: alt (transparency groups, multi-stop gradients) or gofpdf")
	verbose := flag.Bool("v", false, "log the execution")
	strict := flag.Bool("strict", false, "fail on drawing operations the backend does not support")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] program.bin\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	format := bytecode.Format{IDSize: *idSize, LengthSize: *lengthSize}

	if *dump {
		if err := bytecode.Disassemble(data, format, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	opts := []interp.Option{interp.WithFormat(format), interp.WithMaxDepth(*maxDepth), interp.WithMaxCalls(*maxCalls)}
	if *verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, interp.WithLogger(logger))
	}
	prog, err := interp.Load(data, opts...)
	if err != nil {
		log.Fatalf("invalid program: %s", err)
	}

	mode := drawing.WarnErrorMode
	if *strict {
		mode = drawing.StrictErrorMode
	}

	if err := render(prog, *output, *width, *height, mode, *pdfBackend); err != nil {
		log.Fatal(err)
	}
}

func render(prog *interp.Program, output string, width, height int, mode drawing.ErrorMode, pdfBackend string) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".png":
		img, err := raster.RenderToImage(prog, width, height, mode)
		if err != nil {
			return err
		}
		if err := png.Encode(&buf, img); err != nil {
			return err
		}
	case ".pdf":
		renderPDF := alt.RenderToPDF
		switch pdfBackend {
		case "alt":
		case "gofpdf":
			renderPDF = pdf.RenderToPDF
		default:
			return fmt.Errorf("unknown PDF backend %q", pdfBackend)
		}
		if err := renderPDF(prog, float64(width), float64(height), mode, &buf); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	return os.WriteFile(output, buf.Bytes(), 0o644)
}
