// Package diagnostics defines the syntax error taxonomy of the Luma front end
// and renders collected errors for terminal display.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luma-lang/luma/internal/position"
)

// Kind classifies a front-end error
type Kind int

const (
	KindSyntax Kind = iota
	KindUnexpectedCharacter
	KindUnexpectedFileEnd
	KindReservedName
	KindUnicode
	KindIntegerTooBig
	KindFailedRecovery
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindUnexpectedCharacter:
		return "unexpected-character"
	case KindUnexpectedFileEnd:
		return "unexpected-file-end"
	case KindReservedName:
		return "reserved-name"
	case KindUnicode:
		return "unicode"
	case KindIntegerTooBig:
		return "integer-too-big"
	case KindFailedRecovery:
		return "failed-recovery"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind, for use with errors.Is
var (
	ErrSyntax              = errors.New("syntax error")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnexpectedFileEnd   = errors.New("unexpected end of file")
	ErrReservedName        = errors.New("reserved name")
	ErrUnicode             = errors.New("invalid unicode escape")
	ErrIntegerTooBig       = errors.New("integer literal too big")
	ErrFailedRecovery      = errors.New("failed to recover from syntax error")
)

var sentinels = map[Kind]error{
	KindSyntax:              ErrSyntax,
	KindUnexpectedCharacter: ErrUnexpectedCharacter,
	KindUnexpectedFileEnd:   ErrUnexpectedFileEnd,
	KindReservedName:        ErrReservedName,
	KindUnicode:             ErrUnicode,
	KindIntegerTooBig:       ErrIntegerTooBig,
	KindFailedRecovery:      ErrFailedRecovery,
}

// Error is a positioned front-end error
type Error struct {
	Kind    Kind
	File    string
	Pos     position.Position
	Message string
}

// New creates an error of the given kind
func New(kind Kind, file string, pos position.Position, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		File:    file,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Pos.Line, e.Pos.Column, e.Message)
}

// Is reports whether target is the sentinel for this error's kind
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// Unwrap returns the sentinel for this error's kind
func (e *Error) Unwrap() error {
	return sentinels[e.Kind]
}

// KindOf returns the kind of err if it is (or wraps) an *Error
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// List is the set of recoverable errors recorded during one parse
type List []*Error

// Add appends an error to the list
func (l *List) Add(err *Error) {
	*l = append(*l, err)
}

// Len returns the number of recorded errors
func (l List) Len() int {
	return len(l)
}

// Err returns the list as an error, or nil when it is empty
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Error joins every recorded message, one per line
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l))
	for _, e := range l {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
