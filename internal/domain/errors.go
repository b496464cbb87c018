package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned for every prediction while the model artifacts
// are not loaded.
var ErrUnavailable = errors.New("model/preprocessor not loaded")

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string
	Message string
	Type    string // machine-readable kind, e.g. "missing", "float_type"
}

// ValidationError collects every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, typ, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Type: typ, Message: fmt.Sprintf(format, args...)})
}

// ParseError reports malformed CSV input. Line is 1-based and includes the
// header; Column is empty when the problem is not tied to a single cell.
type ParseError struct {
	Line   int
	Column string
	Msg    string
}

func (e *ParseError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("line %d, column %q: %s", e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	default:
		return e.Msg
	}
}

// MissingColumnError reports a required input column absent from a frame.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}
