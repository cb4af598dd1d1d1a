package urdf

import (
	"errors"
	"fmt"
)

// Load failure sentinels. Every *Error matches exactly one of them with errors.Is.
var (
	ErrIOFailure        = errors.New("robot description unreadable")
	ErrXMLSyntaxInvalid = errors.New("malformed XML")
	ErrSchemaInvalid    = errors.New("invalid robot description")
)

// ErrorKind classifies fatal load failures.
type ErrorKind int

const (
	ErrIO        ErrorKind = iota // Source could not be read
	ErrXMLSyntax                  // Markup is not well-formed
	ErrSchema                     // Wrong root tag or unnamed link
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "IOError"
	case ErrXMLSyntax:
		return "XMLSyntaxError"
	case ErrSchema:
		return "SchemaError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a fatal load error. Line and Column are set for ErrXMLSyntax and,
// where known, for ErrSchema.
type Error struct {
	Kind   ErrorKind
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var loc string
	if e.Line > 0 {
		loc = fmt.Sprintf(" at line %d, column %d", e.Line, e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s%s: %s: %v", e.Kind, loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s%s: %s", e.Kind, loc, e.Msg)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case ErrIO:
		return ErrIOFailure
	case ErrXMLSyntax:
		return ErrXMLSyntaxInvalid
	default:
		return ErrSchemaInvalid
	}
}

// WarningKind classifies conditions that degrade the model without failing the load.
type WarningKind int

const (
	WarnDanglingReference WarningKind = iota
	WarnRootFallback
	WarnUnsupportedExpression
	WarnDuplicateName
	WarnCycle
	WarnMultipleParents
	WarnUnreachable
)

// String returns a human-readable kind name.
func (k WarningKind) String() string {
	switch k {
	case WarnDanglingReference:
		return "DanglingReference"
	case WarnRootFallback:
		return "RootInferenceFallback"
	case WarnUnsupportedExpression:
		return "UnsupportedExpression"
	case WarnDuplicateName:
		return "DuplicateName"
	case WarnCycle:
		return "Cycle"
	case WarnMultipleParents:
		return "MultipleParents"
	case WarnUnreachable:
		return "Unreachable"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a non-fatal condition found while building a model.
type Warning struct {
	Kind    WarningKind
	Subject string // Link, joint or expression the warning is about
	Msg     string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %q: %s", w.Kind, w.Subject, w.Msg)
}
