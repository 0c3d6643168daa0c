package bytecode

import (
	"encoding/binary"
	"math"
)

// Span is a range of bytes in the stream, used to store
// subroutines without copying them.
type Span struct {
	Offset int
	Length int
}

// Cursor reads little endian values from a borrowed byte slice.
// Reads are atomic: a failed read leaves the cursor unchanged.
type Cursor struct {
	buf       []byte
	offset    int
	remaining int
	format    Format
}

// NewCursor returns a cursor over the whole buffer.
// The buffer is not copied and must not be modified while in use.
func NewCursor(buf []byte, format Format) *Cursor {
	return &Cursor{buf: buf, remaining: len(buf), format: format}
}

// Sub returns a new cursor over the given span of the same buffer.
// The span must have been returned by Skip on a cursor sharing the buffer.
func (c *Cursor) Sub(s Span) *Cursor {
	return &Cursor{buf: c.buf, offset: s.Offset, remaining: s.Length, format: c.format}
}

// Format returns the integer widths used by the cursor.
func (c *Cursor) Format() Format { return c.format }

// Offset returns the position of the next byte to read, in the whole buffer.
func (c *Cursor) Offset() int { return c.offset }

// Remaining returns the number of bytes left.
func (c *Cursor) Remaining() int { return c.remaining }

// readFixed returns the next width bytes and advances the cursor.
// The returned slice is a view into the buffer.
func (c *Cursor) readFixed(width int) ([]byte, error) {
	if width < 0 || width > c.remaining {
		return nil, &OutOfBoundsError{Available: uint64(c.remaining), Requested: uint64(width)}
	}
	out := c.buf[c.offset : c.offset+width : c.offset+width]
	c.offset += width
	c.remaining -= width
	return out, nil
}

func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.readFixed(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.readFixed(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.readFixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) Uint64() (uint64, error) {
	b, err := c.readFixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Float reads a 32-bit IEEE float.
func (c *Cursor) Float() (float64, error) {
	u, err := c.Uint32()
	if err != nil {
		return 0, err
	}
	return float64(math.Float32frombits(u)), nil
}

// uint reads an unsigned integer of the given width (1, 2, 4 or 8)
func (c *Cursor) uint(width int) (uint64, error) {
	b, err := c.readFixed(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case 8:
		return binary.LittleEndian.Uint64(b), nil
	default: // invalid format, still decoded as little endian
		var v uint64
		for i := len(b) - 1; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
		return v, nil
	}
}

// ID reads a table key or count, of width Format.IDSize.
func (c *Cursor) ID() (uint64, error) { return c.uint(c.format.IDSize) }

// Length reads a length, of width Format.LengthSize.
func (c *Cursor) Length() (uint64, error) { return c.uint(c.format.LengthSize) }

// Skip advances the cursor by n bytes, returning the
// span of the skipped bytes.
func (c *Cursor) Skip(n uint64) (Span, error) {
	if n > uint64(c.remaining) {
		return Span{}, &OutOfBoundsError{Available: uint64(c.remaining), Requested: n}
	}
	s := Span{Offset: c.offset, Length: int(n)}
	c.offset += int(n)
	c.remaining -= int(n)
	return s, nil
}

// checkCount returns an error if count items of itemSize
// bytes can't fit in the remaining bytes.
func (c *Cursor) checkCount(count uint64, itemSize int) error {
	if count > uint64(c.remaining)/uint64(itemSize) {
		requested := count * uint64(itemSize)
		if requested/uint64(itemSize) != count { // overflow
			requested = math.MaxUint64
		}
		return &OutOfBoundsError{Available: uint64(c.remaining), Requested: requested}
	}
	return nil
}
