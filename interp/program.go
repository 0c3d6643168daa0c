// Package interp executes drawing programs encoded with
// bcdraw/bytecode on a drawing.Surface.
//
// A program is first loaded, which resolves its gradient and
// subroutine tables, then drawn, possibly many times:
//
//	prog, err := interp.Load(data)
//	if err != nil {
//		return err
//	}
//	err = prog.Draw(surface)
//
// The data is borrowed, and must not be modified while the
// program is in use.
package interp

import (
	"fmt"
	"log/slog"

	"github.com/benoitkugler/bcdraw/bytecode"
	"github.com/benoitkugler/bcdraw/drawing"
)

// Program is a loaded bytecode stream, with its resolved tables.
// It is immutable, and may be drawn concurrently on distinct surfaces.
type Program struct {
	data   []byte
	format bytecode.Format

	colorSpace  drawing.ColorSpace
	gradients   map[uint64]*drawing.Gradient
	subroutines map[uint64]bytecode.Span
	code        bytecode.Span // the main opcode stream

	maxDepth int
	maxCalls int
	logger   *slog.Logger
}

// Load reads the gradient and subroutine tables at the start of data.
// Gradients are built immediately, while subroutines are only
// located. When an id is repeated, the last entry is used.
func Load(data []byte, opts ...Option) (*Program, error) {
	o := newOptions(opts)
	if err := o.format.Validate(); err != nil {
		return nil, err
	}
	prog := &Program{
		data:        data,
		format:      o.format,
		colorSpace:  drawing.SRGB,
		gradients:   make(map[uint64]*drawing.Gradient),
		subroutines: make(map[uint64]bytecode.Span),
		maxDepth:    o.maxDepth,
		maxCalls:    o.maxCalls,
		logger:      o.logger,
	}

	c := bytecode.NewCursor(data, o.format)
	if err := prog.readGradients(c); err != nil {
		return nil, fmt.Errorf("reading gradient table: %w", err)
	}
	if err := prog.readSubroutines(c); err != nil {
		return nil, fmt.Errorf("reading subroutine table: %w", err)
	}
	prog.code = bytecode.Span{Offset: c.Offset(), Length: c.Remaining()}

	prog.logger.Debug("bytecode: tables loaded",
		"gradients", len(prog.gradients), "subroutines", len(prog.subroutines), "code", prog.code.Length)
	return prog, nil
}

func (prog *Program) readGradients(c *bytecode.Cursor) error {
	count, err := c.ID()
	if err != nil {
		return err
	}
	for i := uint64(0); i < count; i++ {
		id, err := c.ID()
		if err != nil {
			return err
		}
		stops, err := c.GradientStops()
		if err != nil {
			return err
		}
		g, err := drawing.NewGradient(prog.colorSpace, stops)
		if err != nil {
			return fmt.Errorf("gradient %d: %w", id, err)
		}
		prog.gradients[id] = g
	}
	return nil
}

func (prog *Program) readSubroutines(c *bytecode.Cursor) error {
	count, err := c.ID()
	if err != nil {
		return err
	}
	for i := uint64(0); i < count; i++ {
		id, err := c.ID()
		if err != nil {
			return err
		}
		size, err := c.Length()
		if err != nil {
			return err
		}
		span, err := c.Skip(size)
		if err != nil {
			return fmt.Errorf("subroutine %d: %w", id, err)
		}
		prog.subroutines[id] = span
	}
	return nil
}

// Gradient returns the gradient with the given id, or nil.
func (prog *Program) Gradient(id uint64) *drawing.Gradient { return prog.gradients[id] }

// NumGradients returns the number of distinct gradient ids.
func (prog *Program) NumGradients() int { return len(prog.gradients) }

// NumSubroutines returns the number of distinct subroutine ids.
func (prog *Program) NumSubroutines() int { return len(prog.subroutines) }

// Draw executes the program on surface, stopping at the first error.
// The fill and stroke color spaces of the surface are set before
// the first instruction.
func (prog *Program) Draw(surface drawing.Surface) error {
	surface.SetFillColorSpace(prog.colorSpace)
	surface.SetStrokeColorSpace(prog.colorSpace)

	sh := &shared{prog: prog, surface: surface}
	c := bytecode.NewCursor(prog.data, prog.format)
	in := newInterpreter(sh, c.Sub(prog.code), DefaultGraphicsState(), 0)
	return in.run()
}

// Run loads data and draws it on surface.
func Run(data []byte, surface drawing.Surface, opts ...Option) error {
	prog, err := Load(data, opts...)
	if err != nil {
		return err
	}
	return prog.Draw(surface)
}
