// Package apperr maps core errors to machine-readable codes at the CLI and
// API boundary.
//
// The core packages (kripke, ctl, model) signal failures with sentinel
// errors; drivers need stable codes for exit messages and HTTP responses.
// This package defines those codes and the translation from sentinels.
package apperr

import (
	"errors"
	"fmt"

	"github.com/marcusm117/mctk/pkg/ctl"
	"github.com/marcusm117/mctk/pkg/kripke"
)

// Code represents a machine-readable error code.
type Code string

// Error codes surfaced by the CLI and the HTTP API.
const (
	CodeInvalidModel   Code = "INVALID_MODEL"
	CodeInvalidFormula Code = "INVALID_FORMULA"
	CodeDuplicate      Code = "DUPLICATE"
	CodeUnknownRef     Code = "UNKNOWN_REFERENCE"
	CodeUndefinedAtom  Code = "UNDEFINED_ATOM"
	CodeNotFound       Code = "NOT_FOUND"
	CodeInternal       Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and an underlying cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode extracts the error code from an error chain.
// Falls back to classifying core sentinels; unknown errors map to
// CodeInternal.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return classify(err)
}

// classify maps core sentinel errors onto boundary codes.
func classify(err error) Code {
	switch {
	case errors.Is(err, kripke.ErrAtomsFrozen),
		errors.Is(err, kripke.ErrLabelOverflow):
		return CodeInvalidModel
	case errors.Is(err, kripke.ErrDuplicateState),
		errors.Is(err, kripke.ErrDuplicateLabel):
		return CodeDuplicate
	case errors.Is(err, kripke.ErrUnknownState),
		errors.Is(err, kripke.ErrUnknownAtom):
		return CodeUnknownRef
	case errors.Is(err, ctl.ErrUndefinedAtom):
		return CodeUndefinedAtom
	case errors.Is(err, ctl.ErrMalformedFormula):
		return CodeInvalidFormula
	}
	return CodeInternal
}
