package schema

import (
	"fmt"
	"strings"
)

// ErrorCode identifies the class of a compile-time error.
type ErrorCode string

const (
	CodeUnresolvedReference  ErrorCode = "unresolved_reference"
	CodeUnknownSchemaType    ErrorCode = "unknown_schema_type"
	CodeUnknownPrimitiveType ErrorCode = "unknown_primitive_type"
	CodeInvalidDocumentShape ErrorCode = "invalid_document_shape"
	CodeInvalidSchemaValue   ErrorCode = "invalid_schema_value"
	CodeCyclicReference      ErrorCode = "cyclic_reference"
	CodeDuplicateName        ErrorCode = "duplicate_name"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrUnresolvedReference  = &Error{Code: CodeUnresolvedReference}
	ErrUnknownSchemaType    = &Error{Code: CodeUnknownSchemaType}
	ErrUnknownPrimitiveType = &Error{Code: CodeUnknownPrimitiveType}
	ErrInvalidDocumentShape = &Error{Code: CodeInvalidDocumentShape}
	ErrInvalidSchemaValue   = &Error{Code: CodeInvalidSchemaValue}
	ErrCyclicReference      = &Error{Code: CodeCyclicReference}
	ErrDuplicateName        = &Error{Code: CodeDuplicateName}
)

// Error is a fatal compile-time error. It aborts the whole compilation.
type Error struct {
	Code ErrorCode
	// Schema is the top-level or synthesized schema name being compiled, if known.
	Schema string
	// Path is a JSON pointer or reference into the document, if known.
	Path    string
	Message string
}

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, path string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Schema != "" {
		fmt.Fprintf(&b, " in schema %q", e.Schema)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %q", e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithSchema returns a copy of e attributed to the named schema.
// An existing attribution is kept, so the innermost schema wins.
func (e *Error) WithSchema(name string) *Error {
	if e.Schema != "" {
		return e
	}
	cp := *e
	cp.Schema = name
	return &cp
}
