package interp

import "fmt"

// InvalidGradientIDError is returned when a gradient opcode
// references an id absent from the gradient table.
type InvalidGradientIDError struct {
	ID uint64
}

func (e *InvalidGradientIDError) Error() string {
	return fmt.Sprintf("invalid gradient id %d", e.ID)
}

// InvalidSubroutineIDError is returned when a subroutine call
// references an id absent from the subroutine table.
type InvalidSubroutineIDError struct {
	ID uint64
}

func (e *InvalidSubroutineIDError) Error() string {
	return fmt.Sprintf("invalid subroutine id %d", e.ID)
}

// RecursionLimitError is returned when subroutine calls
// are nested deeper than the configured limit, which happens
// for recursive subroutines.
type RecursionLimitError struct {
	ID    uint64 // the subroutine which would exceed the limit
	Depth int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("subroutine %d: nesting depth %d exceeds limit", e.ID, e.Depth)
}

// CallLimitError is returned when a drawing makes more subroutine
// calls than the configured budget.
type CallLimitError struct {
	ID    uint64 // the subroutine which would exceed the budget
	Calls int
}

func (e *CallLimitError) Error() string {
	return fmt.Sprintf("subroutine %d: %d calls exceed limit", e.ID, e.Calls)
}
