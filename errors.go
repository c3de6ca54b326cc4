package msgfield

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/msgfield/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch          = "type_mismatch"
	CodeInvalidType           = "invalid_type"
	CodeRequired              = "required"
	CodeUnknownKey            = "unknown_key"
	CodeTooLong               = "too_long"
	CodeParseError            = "parse_error"
	CodeTruncated             = "truncated"
	CodeDuplicateRegistration = "duplicate_registration"
)

var (
	// ErrTypeMismatch matches every *TypeMismatchError via errors.Is.
	ErrTypeMismatch = errors.New("msgfield: type mismatch")
	// ErrDuplicateRegistration is returned when a message name is already owned by another file.
	ErrDuplicateRegistration = errors.New("msgfield: duplicate registration")
	// ErrNoDescriptor is returned for element types that declare no message,
	// such as interface types.
	ErrNoDescriptor = errors.New("msgfield: message type has no descriptor")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /docs/2/ref/gtype).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected type names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"api.DocConstructor"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /ref/gtype
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
// A *TypeMismatchError contributes its nested conversion issues rebased under
// the element index, or a single type_mismatch Issue when it has none.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var tm *TypeMismatchError
	if errors.As(err, &tm) {
		var nested Issues
		if errors.As(tm.Cause, &nested) && len(nested) > 0 {
			return PrefixIssues(tm.path(), nested), true
		}
		return Issues{tm.Issue()}, true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	if errors.Is(err, ErrDuplicateRegistration) {
		it := RootPath().Issue(CodeDuplicateRegistration, i18n.T(CodeDuplicateRegistration, nil))
		it.Hint = err.Error()
		it.Cause = err
		return Issues{it}, true
	}
	return nil, false
}

// TypeMismatchError reports an element that is not (and could not be converted
// to) the declared element type of a repeated field.
type TypeMismatchError struct {
	Index    int    // Position in the offending input; -1 for a single value.
	Expected string // Full message name, e.g. api.DocConstructor.
	Actual   string // Go type of the offending value, or "nil".
	Cause    error  // Optional: conversion issues for config-shaped values.
}

func (e *TypeMismatchError) Error() string {
	b := &strings.Builder{}
	b.WriteString("type mismatch")
	if e.Index >= 0 {
		b.WriteString(" at index ")
		b.WriteString(strconv.Itoa(e.Index))
	}
	fmt.Fprintf(b, ": expected %s, got %s", e.Expected, e.Actual)
	if e.Cause != nil {
		b.WriteString(" (")
		b.WriteString(e.Cause.Error())
		b.WriteString(")")
	}
	return b.String()
}

func (e *TypeMismatchError) Unwrap() error { return e.Cause }

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// Issue projects the error into the Issues model. The path points at the
// element index when known.
func (e *TypeMismatchError) Issue() Issue {
	return Issue{
		Path:    e.path().Pointer(),
		Code:    CodeTypeMismatch,
		Message: i18n.T(CodeTypeMismatch, map[string]string{"expected": e.Expected, "actual": e.Actual}),
		Hint:    "expected " + e.Expected,
		Cause:   e.Cause,
		Params:  map[string]any{"expected": e.Expected, "actual": e.Actual},
	}
}

func (e *TypeMismatchError) path() PathRef {
	if e.Index >= 0 {
		return RootPath().Index(e.Index)
	}
	return RootPath()
}

// AsTypeMismatch extracts a *TypeMismatchError from err.
func AsTypeMismatch(err error) (*TypeMismatchError, bool) {
	var tm *TypeMismatchError
	if errors.As(err, &tm) {
		return tm, true
	}
	return nil, false
}
