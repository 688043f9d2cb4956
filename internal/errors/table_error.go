// Package errors provides standardized error types for table operations.
// Every failure surfaced by the tabular packages is a *TableError carrying
// a Kind, so callers can branch with errors.Is against the Err* sentinels.
package errors

import (
	"fmt"
)

// Kind classifies a TableError.
type Kind int

const (
	// KindFormat marks malformed input such as a row wider than the header.
	KindFormat Kind = iota + 1
	// KindEmptyInput marks a source with no header line.
	KindEmptyInput
	// KindUnknownColumn marks a reference to a column the table does not have.
	KindUnknownColumn
	// KindTypeUnsupported marks a numeric operation on a text column.
	KindTypeUnsupported
	// KindLengthMismatch marks columns of differing lengths.
	KindLengthMismatch
	// KindIO marks a read or write failure of the underlying file.
	KindIO
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "FormatError"
	case KindEmptyInput:
		return "EmptyInputError"
	case KindUnknownColumn:
		return "UnknownColumnError"
	case KindTypeUnsupported:
		return "TypeUnsupportedError"
	case KindLengthMismatch:
		return "LengthMismatchError"
	case KindIO:
		return "IOError"
	default:
		return "UnknownError"
	}
}

// TableError represents standardized errors across all table operations
type TableError struct {
	Kind    Kind   // Error classification
	Op      string // Operation name (e.g., "Load", "Filter", "Aggregate")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *TableError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, msg)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, msg)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *TableError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a TableError of the same kind. A target with
// Op or Column set must match those fields too, so sentinels match broadly and
// fully populated errors match narrowly.
func (e *TableError) Is(target error) bool {
	t, ok := target.(*TableError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	if t.Column != "" && t.Column != e.Column {
		return false
	}
	return true
}

// Sentinels for errors.Is checks, one per Kind.
var (
	ErrFormat          = &TableError{Kind: KindFormat, Message: "malformed input"}
	ErrEmptyInput      = &TableError{Kind: KindEmptyInput, Message: "input is empty"}
	ErrUnknownColumn   = &TableError{Kind: KindUnknownColumn, Message: "column does not exist"}
	ErrTypeUnsupported = &TableError{Kind: KindTypeUnsupported, Message: "unsupported column type"}
	ErrLengthMismatch  = &TableError{Kind: KindLengthMismatch, Message: "columns must have the same length"}
	ErrIO              = &TableError{Kind: KindIO, Message: "i/o failure"}
)

// NewFormatError creates an error for malformed delimited input.
func NewFormatError(op, message string) *TableError {
	return &TableError{Kind: KindFormat, Op: op, Message: message}
}

// NewEmptyInputError creates an error for sources without a header.
func NewEmptyInputError(op string) *TableError {
	return &TableError{Kind: KindEmptyInput, Op: op, Message: "input is empty"}
}

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *TableError {
	return &TableError{
		Kind:    KindUnknownColumn,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewUnsupportedTypeError creates an error for operations a column kind cannot serve
func NewUnsupportedTypeError(op, column, typeName string) *TableError {
	return &TableError{
		Kind:    KindTypeUnsupported,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("unsupported type: %s", typeName),
	}
}

// NewLengthMismatchError creates an error for columns of unequal length.
func NewLengthMismatchError(op, column string, expected, actual int) *TableError {
	return &TableError{
		Kind:    KindLengthMismatch,
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("expected length %d, got %d", expected, actual),
	}
}

// NewIOError wraps a filesystem failure.
func NewIOError(op, path string, cause error) *TableError {
	return &TableError{
		Kind:    KindIO,
		Op:      op,
		Message: fmt.Sprintf("accessing %s", path),
		Cause:   cause,
	}
}
