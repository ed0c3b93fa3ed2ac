// =============================================================================
// e-SUS Parser - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser
//   - converter
//   - xlsxwriter
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// TABLE
// =============================================================================

// Table is an in-memory delimited table.
// Every row holds exactly len(Columns) cells, aligned to Columns.
type Table struct {
	// Columns is the ordered list of column headers.
	Columns []string

	// Rows contains the data rows. Row order is the order of the source file.
	Rows [][]string
}

// RowCount returns the number of data rows (the header is not counted).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// =============================================================================
// ERROR CLASSES
// =============================================================================
// Every stage failure is tagged with one of these classes so the caller can
// tell what went wrong with errors.Is, regardless of how deep the cause is.

var (
	// ErrIO marks failures to open, read, create or write a file.
	ErrIO = errors.New("i/o failure")

	// ErrDecode marks input that is not valid UTF-8 text.
	ErrDecode = errors.New("decoding failure")

	// ErrParse marks malformed delimited input.
	ErrParse = errors.New("parse failure")
)

// StageError is a classified failure of one pipeline stage.
type StageError struct {
	// Class is one of ErrIO, ErrDecode or ErrParse.
	Class error

	// Op names the operation that failed (e.g. "read", "parse", "export").
	Op string

	// Path is the file the operation was working on.
	Path string

	// Line is the 1-based line of the input, when known.
	Line int

	// Err is the underlying cause.
	Err error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.Path)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", msg, e.Class, e.Err)
	}
	return fmt.Sprintf("%s: %v", msg, e.Class)
}

// Unwrap exposes both the class and the cause to errors.Is / errors.As.
func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Err}
}

// NewIOError tags err as an I/O failure.
func NewIOError(op, path string, err error) error {
	return &StageError{Class: ErrIO, Op: op, Path: path, Err: err}
}

// NewDecodeError tags err as a decoding failure.
func NewDecodeError(op, path string, err error) error {
	return &StageError{Class: ErrDecode, Op: op, Path: path, Err: err}
}

// NewParseError tags err as a parse failure at the given line (0 if unknown).
func NewParseError(op, path string, line int, err error) error {
	return &StageError{Class: ErrParse, Op: op, Path: path, Line: line, Err: err}
}
