package bytecode

import "fmt"

// OutOfBoundsError is returned when a read needs more bytes
// than remaining in the cursor.
type OutOfBoundsError struct {
	Available uint64
	Requested uint64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("out of bounds read: %d bytes requested, %d available", e.Requested, e.Available)
}

// UnknownOpcodeError is returned for an opcode byte outside of the defined set.
type UnknownOpcodeError struct {
	Op     Op
	Offset int // of the opcode byte, in the whole stream
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %d at offset %d", uint8(e.Op), e.Offset)
}

// InvalidOperandError is returned when an enumerated operand
// is out of its range.
type InvalidOperandError struct {
	Kind  string
	Value uint8
}

func (e *InvalidOperandError) Error() string {
	return fmt.Sprintf("invalid %s operand: %d", e.Kind, e.Value)
}
