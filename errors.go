package mcc

import "fmt"

// ErrorKind classifies a CompileError for callers that want to switch
// on the failure category (tests, an IDE integration, ...).
type ErrorKind int

const (
	ErrLexical ErrorKind = iota
	ErrSyntax
	ErrRedeclaration
	ErrType
	ErrUndefined
	ErrUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrLexical:
		return "lexical"
	case ErrSyntax:
		return "syntax"
	case ErrRedeclaration:
		return "redeclaration"
	case ErrType:
		return "type"
	case ErrUndefined:
		return "undefined"
	case ErrUnsupported:
		return "unsupported"
	default:
		return "error"
	}
}

// CompileError is the fatal diagnostic that aborts a translation unit.
// The scanner, parser and code generator never panic or os.Exit; every
// fallible function returns one of these as a plain Go error, which is
// this repo's idiomatic stand-in for the original compiler's
// setjmp/longjmp abort (see original_source/misc.c's verror).
type CompileError struct {
	Pos     Pos
	Kind    ErrorKind
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:error:%s", e.Pos, e.Message)
}

func newError(pos Pos, kind ErrorKind, format string, args ...any) *CompileError {
	return &CompileError{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal diagnostic: printed but never aborts the
// translation unit (warn_rel, warn_assign).
type Warning struct {
	Pos     Pos
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:warning:%s", w.Pos, w.Message)
}
