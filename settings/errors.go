package settings

import (
	"fmt"
	"strings"
)

// SchemaError reports an inconsistency in a model's own descriptors,
// detected at construction time.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "settings schema: " + e.Reason
	}
	return fmt.Sprintf("settings schema: field %s: %s", e.Field, e.Reason)
}

// MissingFieldError reports a required field absent from raw input.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// UnknownFieldError reports a raw input field not declared in the model.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// TypeMismatchError reports a raw value that cannot be converted to the
// declared field type under the package coercion policy.
type TypeMismatchError struct {
	Field string
	Want  Type
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: cannot use %s as %s", e.Field, e.Got, e.Want)
}

// ConstraintError reports a well-typed value that violates a declared
// constraint (range, pattern, enum membership).
type ConstraintError struct {
	Field  string
	Reason string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// ValidationError aggregates every per-field failure found while validating
// one raw input document. Validation never stops at the first bad field.
type ValidationError struct {
	Model string
	Errs  []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("settings for %s invalid: %s", e.Model, strings.Join(msgs, "; "))
}

// Unwrap exposes the per-field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return e.Errs }
