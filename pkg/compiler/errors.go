package compiler

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fatal compiler error.
type ErrorKind int

const (
	ErrInvalidOperator ErrorKind = iota
	ErrUnbalancedParens
	ErrUnterminatedComment
	ErrUnterminatedCharLiteral
	ErrUnterminatedString
	ErrInvalidBinaryLiteral
	ErrInvalidNumber
	ErrInvalidSecondaryType
	// ErrUnsupported marks a construct the front end recognises but does not
	// implement yet. It is not a sign of malformed input.
	ErrUnsupported
	ErrUnexpectedToken
	ErrInput
)

var errorKindNames = [...]string{
	ErrInvalidOperator:         "InvalidOperator",
	ErrUnbalancedParens:        "UnbalancedParens",
	ErrUnterminatedComment:     "UnterminatedComment",
	ErrUnterminatedCharLiteral: "UnterminatedCharLiteral",
	ErrUnterminatedString:      "UnterminatedString",
	ErrInvalidBinaryLiteral:    "InvalidBinaryLiteral",
	ErrInvalidNumber:           "InvalidNumber",
	ErrInvalidSecondaryType:    "InvalidSecondaryType",
	ErrUnsupported:             "Unsupported",
	ErrUnexpectedToken:         "UnexpectedToken",
	ErrInput:                   "Input",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a fatal lexing, parsing or resolution error.
type Error struct {
	Kind ErrorKind
	Pos  Position
	Msg  string
	Err  error // underlying cause, for ErrInput
}

func (e *Error) Error() string {
	if e.Pos.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s on %s", e.Msg, e.Pos)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, pos Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func unsupported(pos Position, construct string) *Error {
	return newError(ErrUnsupported, pos, "%s are not supported yet", construct)
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}
