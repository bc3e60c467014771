package core

import (
	"errors"
	"fmt"
)

// ErrLoggingException is the distinguished sentinel from spec.md §7: the
// only error a Backend's HandleError may return that is allowed to
// escape AbstractLogger.write (the root flogger package's write path)
// untouched. Any other error returned by HandleError is reported
// through internal/diag and swallowed.
var ErrLoggingException = errors.New("flogger: logging exception")

// WrapLoggingException marks cause as the distinguished logging
// exception sentinel so errors.Is(err, ErrLoggingException) reports
// true while still preserving cause's message and wrapped chain.
func WrapLoggingException(cause error) error {
	return &loggingException{cause: cause}
}

type loggingException struct{ cause error }

func (e *loggingException) Error() string {
	if e.cause == nil {
		return ErrLoggingException.Error()
	}
	return fmt.Sprintf("%s: %s", ErrLoggingException.Error(), e.cause.Error())
}

func (e *loggingException) Unwrap() error { return e.cause }

func (e *loggingException) Is(target error) bool { return target == ErrLoggingException }

// ParseError reports an ill-formed printf template: message text plus
// the byte offset range of the offending term.
type ParseError struct {
	Message    string
	Start, End int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("flogger: parse error at [%d,%d): %s", e.Start, e.End, e.Message)
}

// FormatError reports a valid template term whose argument's runtime
// type does not match the specifier. Unlike ParseError, a FormatError
// never escapes to the caller: message.Format (package message) renders
// it inline as a synthesized placeholder string instead.
type FormatError struct {
	Format string // the offending format specifier, e.g. "%d"
	Type   string // the argument's runtime type name
	Value  string // the argument's string representation
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("[INVALID: format=%s, type=%s, value=%s]", e.Format, e.Type, e.Value)
}

// Placeholder renders the FormatError as the inline marker string that
// replaces the mismatched term in the formatted message.
func (e *FormatError) Placeholder() string { return e.Error() }

// BackendError wraps an error returned by Backend.Log, pairing it with
// the LogData that failed to dispatch. The root flogger package's write
// path does not construct it: it hands the backend's error to
// HandleError unchanged.
type BackendError struct {
	Cause error
	Data  LogData
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("flogger: backend error logging site %s: %v", e.Data.LogSite, e.Cause)
}

func (e *BackendError) Unwrap() error { return e.Cause }
