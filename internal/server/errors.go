package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/broady/jsvgen"
	"github.com/broady/jsvgen/internal/fetch"
	"github.com/broady/jsvgen/internal/validate"
	"github.com/broady/jsvgen/schema"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidArgument   ErrorCode = "invalid_argument"
	CodeNotFound          ErrorCode = "not_found"
	CodeMethodNotAllowed  ErrorCode = "method_not_allowed"
	CodeResourceExhausted ErrorCode = "resource_exhausted"
	CodeCanceled          ErrorCode = "canceled"
	CodeInternal          ErrorCode = "internal"
	CodeUnavailable       ErrorCode = "unavailable"
	CodeDeadlineExceeded  ErrorCode = "deadline_exceeded"
)

// Error is the JSON error envelope.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf creates an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns a copy of e with key set in its details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

// HTTPStatus maps an ErrorCode to an HTTP status code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	case CodeCanceled:
		return 499 // Client Closed Request
	case CodeUnavailable:
		return http.StatusBadGateway
	case CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fetchError marks a failure to read a remote document.
type fetchError struct{ err error }

func (e *fetchError) Error() string { return e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

// transformError maps a pipeline error to the envelope. Unknown errors
// become CodeInternal, with their text hidden when mask is set.
func transformError(err error, mask bool) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Errorf(CodeDeadlineExceeded, "request timeout")
	case errors.Is(err, context.Canceled):
		return Errorf(CodeCanceled, "context canceled")
	case errors.Is(err, fetch.ErrTooLarge):
		return Errorf(CodeInvalidArgument, "document too large")
	}

	var cfgErr *jsvgen.ConfigError
	if errors.As(err, &cfgErr) {
		return invalidFields(cfgErr.Message, cfgErr.Fields)
	}
	if msg, fields, ok := validate.Describe(err); ok {
		return invalidFields(msg, fields)
	}

	var parseErr *jsvgen.ParseError
	if errors.As(err, &parseErr) {
		return Errorf(CodeInvalidArgument, "%s", parseErr.Error()).WithDetail("reason", "parse_error")
	}

	var schemaErr *schema.Error
	if errors.As(err, &schemaErr) {
		e := Errorf(CodeInvalidArgument, "%s", schemaErr.Error()).WithDetail("reason", string(schemaErr.Code))
		if schemaErr.Schema != "" {
			e = e.WithDetail("schema", schemaErr.Schema)
		}
		if schemaErr.Path != "" {
			e = e.WithDetail("path", schemaErr.Path)
		}
		return e
	}

	var fe *fetchError
	if errors.As(err, &fe) {
		return Errorf(CodeUnavailable, "%s", fe.Error())
	}

	if mask {
		return Errorf(CodeInternal, "internal error")
	}
	return Errorf(CodeInternal, "%s", err.Error())
}

func invalidFields(msg string, fields map[string]string) *Error {
	details := make(map[string]any, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &Error{Code: CodeInvalidArgument, Message: msg, Details: details}
}
