package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures that can reach the request dispatcher
type ErrorKind string

const (
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindDateParse           ErrorKind = "date_parse"
	KindModelUnavailable    ErrorKind = "model_unavailable"
	KindModelError          ErrorKind = "model_error"
	KindMalformedRequest    ErrorKind = "malformed_request"
)

// Error carries a failure kind, the operation that failed and its cause
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain,
// or an empty kind when there is none
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind checks whether err (or anything it wraps) has the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
