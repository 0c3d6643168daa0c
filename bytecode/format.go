// Package bytecode implements the binary encoding of drawing programs:
// the bounds checked Cursor and the structured records read from it,
// the opcode table, an encoder (Builder) and a disassembler.
//
// A program is laid out as
//
//	stream        := gradientTable subrouteTable opcodeStream
//	gradientTable := count:ID (id:ID gradient)*
//	gradient      := stopCount:ID (color:Color location:Float)*
//	subrouteTable := count:ID (id:ID size:Length bytes[size])*
//	opcodeStream  := (opcode:u8 operands)*
//
// All integers are little endian. The width of ID and Length is
// given by a Format, constant for the whole stream.
package bytecode

import "fmt"

// Format defines the width, in bytes, of the
// variable size integers of a stream.
type Format struct {
	IDSize     int // width of table keys and counts
	LengthSize int // width of lengths
}

// DefaultFormat uses 32-bit ids and lengths.
var DefaultFormat = Format{IDSize: 4, LengthSize: 4}

func validWidth(w int) bool { return w == 1 || w == 2 || w == 4 || w == 8 }

// Validate returns an error if one of the widths is not 1, 2, 4 or 8.
func (f Format) Validate() error {
	if !validWidth(f.IDSize) {
		return fmt.Errorf("invalid id size %d", f.IDSize)
	}
	if !validWidth(f.LengthSize) {
		return fmt.Errorf("invalid length size %d", f.LengthSize)
	}
	return nil
}
