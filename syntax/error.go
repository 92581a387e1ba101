package syntax

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEOF  = errors.New("unexpected end of input")
	ErrUnexpectedChar = errors.New("unexpected character")
	ErrUnexpected     = errors.New("unexpected token")
	ErrUnmatchedParen = errors.New("unmatched parenthesis")
	ErrEmptyLet       = errors.New("let without bindings")
	ErrUnboundName    = errors.New("name used before its binding")
	ErrBadNumber      = errors.New("numeral out of range")
)

// Error is a syntax or expansion error at a position in the source. Line and
// Col are 1-based.
type Error struct {
	Line int
	Col  int
	Msg  string
	Err  error
	// Incomplete is set when more input could still make the source valid.
	Incomplete bool
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%d:%d: %v", e.Line, e.Col, e.Err)
	}
	return fmt.Sprintf("%d:%d: %v: %s", e.Line, e.Col, e.Err, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorAt(tok Token, err error, format string, args ...interface{}) *Error {
	return &Error{Line: tok.Line, Col: tok.Col, Err: err, Msg: fmt.Sprintf(format, args...)}
}

// IsIncomplete reports whether err means the source ended too early, as an
// unfinished let or an unclosed parenthesis does.
func IsIncomplete(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Incomplete || errors.Is(se.Err, ErrUnexpectedEOF)
}
