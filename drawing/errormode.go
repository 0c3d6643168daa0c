package drawing

import (
	"errors"
	"log"
)

// ErrorMode is the for setting how a surface reacts to
// an operation it does not support.
type ErrorMode uint8

const (
	// IgnoreErrorMode silently skips the operation
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning
	WarnErrorMode
	// StrictErrorMode records an error, returned by Err
	StrictErrorMode
)

// ErrorHandler is embedded by surfaces to report unsupported operations,
// according to Mode.
type ErrorHandler struct {
	Mode ErrorMode
	err  error
}

// Unsupported reports that the operation op is not (or only partially) honored.
func (h *ErrorHandler) Unsupported(op string) {
	errStr := "unsupported drawing operation: " + op
	if h.Mode == StrictErrorMode {
		if h.err == nil {
			h.err = errors.New(errStr)
		}
	} else if h.Mode == WarnErrorMode {
		log.Println(errStr)
	}
}

// Err returns the first unsupported operation met in StrictErrorMode.
func (h *ErrorHandler) Err() error { return h.err }
