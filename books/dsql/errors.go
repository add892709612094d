package dsql

import (
	"errors"
	"fmt"
)

// Error kinds. Every parse failure wraps exactly one of these.
var (
	ErrSyntax       = errors.New("syntax error")
	ErrUnknownField = errors.New("unknown field")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrEmptyList    = errors.New("empty list")
)

// Syntax error refinements. errors.Is matches both the refinement and ErrSyntax.
var (
	ErrUnexpectedToken    error = &subKind{msg: "unexpected token", parent: ErrSyntax}
	ErrUnbalanced         error = &subKind{msg: "unbalanced brackets", parent: ErrSyntax}
	ErrMissingOperand     error = &subKind{msg: "missing operand", parent: ErrSyntax}
	ErrUnterminatedString error = &subKind{msg: "unterminated string", parent: ErrSyntax}
	ErrTooComplex         error = &subKind{msg: "expression too complex", parent: ErrSyntax}
)

type subKind struct {
	msg    string
	parent error
}

func (k *subKind) Error() string { return k.msg }
func (k *subKind) Unwrap() error { return k.parent }

// Error describes why a filter string was rejected.
type Error struct {
	Kind  error
	Pos   int // byte offset into the input, -1 when not applicable
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%v at position %d: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Code returns a stable identifier for the error kind, suitable for API responses.
func (e *Error) Code() string {
	switch {
	case errors.Is(e.Kind, ErrUnknownField):
		return "UNKNOWN_FIELD"
	case errors.Is(e.Kind, ErrTypeMismatch):
		return "TYPE_MISMATCH"
	case errors.Is(e.Kind, ErrEmptyList):
		return "EMPTY_LIST"
	case errors.Is(e.Kind, ErrUnbalanced):
		return "UNBALANCED_BRACKETS"
	case errors.Is(e.Kind, ErrMissingOperand):
		return "MISSING_OPERAND"
	case errors.Is(e.Kind, ErrUnterminatedString):
		return "UNTERMINATED_STRING"
	case errors.Is(e.Kind, ErrTooComplex):
		return "TOO_COMPLEX"
	}
	return "SYNTAX_ERROR"
}

func errorf(kind error, pos int, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, a...)}
}
