package ir

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes shader generation errors.
//
// ErrorKind implements error so that errors.Is(err, ErrRecursiveCall)
// matches any *Error of that kind.
type ErrorKind uint8

const (
	// ErrUnresolvedSymbol indicates a lookup for a type, function or
	// constant that the program does not declare.
	ErrUnresolvedSymbol ErrorKind = iota

	// ErrUnresolvedReference indicates a call or construction site whose
	// target cannot be determined.
	ErrUnresolvedReference

	// ErrRecursiveCall indicates a function that calls itself.
	ErrRecursiveCall

	// ErrCyclicCallGraph indicates a call cycle through other functions.
	ErrCyclicCallGraph

	// ErrUnsupportedType indicates a type with no layout or target spelling.
	ErrUnsupportedType

	// ErrUnsupportedResource indicates a resource kind or element type
	// with no mapping in the target.
	ErrUnsupportedResource

	// ErrMissingSemantic indicates a stage signature lacking a required
	// semantic, such as a vertex output without SystemPosition.
	ErrMissingSemantic

	// ErrInvalidShaderSet indicates a malformed or duplicate shader set.
	ErrInvalidShaderSet

	// ErrEntryPointNotFound indicates a requested entry point that is
	// missing or not marked with the expected stage.
	ErrEntryPointNotFound

	// ErrInvalidProgram indicates a structurally malformed program.
	ErrInvalidProgram

	// ErrUnsupportedFeature indicates a construct the target dialect
	// cannot express.
	ErrUnsupportedFeature
)

var errorKindNames = [...]string{
	ErrUnresolvedSymbol:    "unresolved symbol",
	ErrUnresolvedReference: "unresolved reference",
	ErrRecursiveCall:       "recursive call",
	ErrCyclicCallGraph:     "cyclic call graph",
	ErrUnsupportedType:     "unsupported type",
	ErrUnsupportedResource: "unsupported resource",
	ErrMissingSemantic:     "missing semantic",
	ErrInvalidShaderSet:    "invalid shader set",
	ErrEntryPointNotFound:  "entry point not found",
	ErrInvalidProgram:      "invalid program",
	ErrUnsupportedFeature:  "unsupported feature",
}

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error implements the error interface.
func (k ErrorKind) Error() string {
	return k.String()
}

// Error is a shader generation error. Identifier names the offending
// function, type, field or resource.
type Error struct {
	Kind       ErrorKind
	Identifier string
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("shadergen %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("shadergen %s %q: %s", e.Kind, e.Identifier, e.Message)
}

// Is matches errors of the same kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorKind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind && (t.Identifier == "" || t.Identifier == e.Identifier)
	}
	return false
}

// NewError creates a new error of the given kind.
func NewError(kind ErrorKind, identifier, format string, args ...any) *Error {
	return &Error{
		Kind:       kind,
		Identifier: identifier,
		Message:    fmt.Sprintf(format, args...),
	}
}

// KindOf extracts the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
