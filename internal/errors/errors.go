// Package errors defines typed errors with categories for protocol reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Each kind corresponds to exactly one protocol error code,
// so failures caught at a stage boundary can be mapped to the terminal status message
// without string inspection.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// ParseFailed indicates the input envelope was not well-formed.
	ParseFailed Kind = "parse_failed"
	// ValidationFailed indicates one or more required parameters were blank or absent.
	ValidationFailed Kind = "validation_failed"
	// DriverUnavailable indicates the query-execution capability could not be provided.
	DriverUnavailable Kind = "driver_unavailable"
	// ExecutionFailed indicates the database rejected the connection or the query.
	ExecutionFailed Kind = "execution_failed"
	// Internal is the catch-all for conditions not covered by the other kinds.
	Internal Kind = "internal"
)

// Code returns the protocol error code for a kind.
// Unknown kinds map to the catch-all code.
func (k Kind) Code() int {
	switch k {
	case ParseFailed:
		return 1
	case ValidationFailed:
		return 2
	case DriverUnavailable:
		return 3
	case ExecutionFailed:
		return 4
	default:
		return 5
	}
}

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *E) Unwrap() error { return e.Err }

// Description returns the text to surface in the terminal protocol message.
// The underlying driver error, when present, is reported verbatim.
func (e *E) Description() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }
