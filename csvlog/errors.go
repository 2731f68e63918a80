package csvlog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminatedQuote is reported when input ends inside a quoted span
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	// ErrBareQuote is reported for a quote inside a non-quoted field
	ErrBareQuote = errors.New(`bare " in non-quoted field`)
	// ErrQuote is reported for text between a closing quote and the separator
	ErrQuote = errors.New(`extraneous " in quoted field`)
)

// ParseError describes where in the input a problem was found.
// Line is 1-based logical line number (0 if unknown), Column is 1-based
// byte offset within the logical line (0 if not applicable).
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Err)
	}
	if e.Column > 0 {
		return fmt.Sprintf("column %d: %s", e.Column, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
