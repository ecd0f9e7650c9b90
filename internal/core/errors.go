package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies predictor failures so the transport layer can map
// them to status codes without inspecting error text.
type ErrorKind int

const (
	// KindValidation covers bad input: wrong arity, non-numeric or
	// non-finite values.
	KindValidation ErrorKind = iota
	// KindModelUnavailable means one or more model artifacts are missing.
	KindModelUnavailable
	// KindInference covers failures from the underlying model call.
	KindInference
	// KindInternal is anything unexpected.
	KindInternal
)

// Error is the predictor error type. Index is the offending element index
// when known, -1 otherwise.
type Error struct {
	Kind  ErrorKind
	Index int
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports invalid input. Pass index -1 when the failure
// is not tied to a single element.
func NewValidationError(index int, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Index: index, Msg: fmt.Sprintf(format, args...)}
}

// NewModelUnavailableError reports a missing model artifact.
func NewModelUnavailableError(msg string, err error) *Error {
	return &Error{Kind: KindModelUnavailable, Index: -1, Msg: msg, Err: err}
}

// NewInferenceError wraps a failure from the underlying model call.
func NewInferenceError(msg string, err error) *Error {
	return &Error{Kind: KindInference, Index: -1, Msg: msg, Err: err}
}

// KindOf extracts the error kind, defaulting to KindInternal for errors
// that did not originate in the predictor.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}
