package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the driver. Wrap with fmt.Errorf("%w: ...")
// the way the teacher this package is modeled on wraps its own ErrType/
// ErrParse sentinels, so callers can match with errors.Is.
var (
	// ErrUnsupportedType means the caller's expected type contains a Union
	// that schema.IsSupportedUnionType rejects somewhere in its tree.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrReaderFailure wraps a non-EOF error from the underlying reader.
	ErrReaderFailure = errors.New("json reader failure")
	// ErrParse is the lexical/structural sentinel wrapped by ParseError.
	ErrParse = errors.New("parser exception")
	// ErrRequiredFieldNotPresent is wrapped by RequiredFieldError.
	ErrRequiredFieldNotPresent = errors.New("required field not present")
	// ErrInvalidDocument covers "invalid JSON document" (bad terminal
	// state at EOF) and "empty JSON document" (EOF with no input, or only
	// whitespace, read).
	ErrInvalidDocument = errors.New("invalid JSON document")
	// ErrEmptyDocument is a more specific ErrInvalidDocument: no input, or
	// only whitespace. errors.Is matches it against both sentinels.
	ErrEmptyDocument error = emptyDocumentError{}
)

// emptyDocumentError is the type of ErrEmptyDocument; it unwraps to
// ErrInvalidDocument.
type emptyDocumentError struct{}

func (emptyDocumentError) Error() string { return "empty JSON document" }

func (emptyDocumentError) Unwrap() error { return ErrInvalidDocument }

// ParseError is a lexical or structural failure located at a specific
// line/column. Line is 1-based, column is 0-based and counts runes since
// the last newline (or since the start of input), matching the location
// model spec'd for this driver: every consumed rune, including the
// offending one, advances line/column before any rejection is raised.
type ParseError struct {
	Err    error
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Err, e.Line, e.Column)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (m *machine) fail(format string, args ...any) error {
	return &ParseError{
		Err:    fmt.Errorf("%w: %w", ErrParse, fmt.Errorf(format, args...)),
		Line:   m.buf.line,
		Column: m.buf.column,
	}
}

// RequiredFieldError names a Record field that was never present when its
// scope closed.
type RequiredFieldError struct {
	Name string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrRequiredFieldNotPresent, e.Name)
}

func (e *RequiredFieldError) Unwrap() error { return ErrRequiredFieldNotPresent }
