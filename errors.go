package macho

import (
	"errors"
	"fmt"
)

// Error kinds reported through FormatError. Use errors.Is to classify a failure.
var (
	ErrInvalidMagic        = errors.New("invalid magic number")
	ErrOutOfBounds         = errors.New("out of bounds")
	ErrInvalidCommandSize  = errors.New("invalid command size")
	ErrCommandSizeMismatch = errors.New("command size mismatch")
	ErrSectionOverrun      = errors.New("section overrun")
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrSegmentMismatch     = errors.New("section segment mismatch")
)

// noOffset marks a FormatError that is not tied to a byte position.
const noOffset = -1

// FormatError is returned by some operations if the data does
// not have the correct format for an object file.
type FormatError struct {
	off int64
	msg string
	val interface{}
	err error
}

func (e *FormatError) Error() string {
	msg := e.msg
	if e.val != nil {
		msg += fmt.Sprintf(" '%v'", e.val)
	}
	if e.off >= 0 {
		msg += fmt.Sprintf(" in record at byte %#x", e.off)
	}
	if e.err != nil && !isKind(e.err) {
		msg += ": " + e.err.Error()
	}
	return msg
}

// Offset returns the file offset of the failing record, or -1.
func (e *FormatError) Offset() int64 { return e.off }

// Value returns the offending raw value, if any.
func (e *FormatError) Value() interface{} { return e.val }

func (e *FormatError) Unwrap() error { return e.err }

func isKind(err error) bool {
	switch err {
	case ErrInvalidMagic, ErrOutOfBounds, ErrInvalidCommandSize, ErrCommandSizeMismatch,
		ErrSectionOverrun, ErrUnsupportedFormat, ErrSegmentMismatch:
		return true
	}
	return false
}

func formatErr(kind error, off int64, msg string, val interface{}) *FormatError {
	return &FormatError{off: off, msg: msg, val: val, err: kind}
}
