// Package settings implements the typed configuration contract for a
// connector: an ordered list of field descriptors that produces a schema
// document and validates raw input against it.
//
// Raw input is a JSON object. The coercion policy between raw input and
// typed values is fixed:
//
//   - string fields accept only JSON strings
//   - int fields accept JSON integers and integral numeric strings ("42");
//     non-integral values are rejected, never truncated
//   - float fields accept any JSON number or numeric string
//   - bool fields accept only JSON booleans
//   - enum fields accept a JSON string naming a declared member
//   - object fields accept a JSON object validated recursively against the
//     nested descriptor list
//
// Fields not declared in the model are rejected rather than ignored.
package settings

import (
	"fmt"
	"regexp"
)

// Type identifies the value type of a settings field.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "integer"
	TypeFloat  Type = "number"
	TypeBool   Type = "boolean"
	TypeEnum   Type = "enum"
	TypeObject Type = "object"
)

// Field describes one configuration field of a settings model.
type Field struct {
	Name        string
	Title       string
	Description string
	Type        Type
	Required    bool
	Default     any
	Secret      bool // rendered as a password field, redacted from logs

	// Enum holds the member values for TypeEnum fields.
	Enum []string
	// Fields holds the nested descriptors for TypeObject fields.
	Fields []Field

	// Optional constraints.
	Min     *float64
	Max     *float64
	Pattern string
}

// Model is the immutable settings contract for one connector. Construct it
// with NewModel; a constructed model only reads its descriptors.
type Model struct {
	name     string
	fields   []Field
	patterns map[string]*regexp.Regexp
}

// NewModel builds a Model from the given field descriptors. It fails with a
// *SchemaError if the descriptors are inconsistent: duplicate or empty
// names, unknown types, enums without members, objects without nested
// fields, defaults that do not satisfy their own field, or invalid
// constraint patterns.
func NewModel(name string, fields ...Field) (*Model, error) {
	if name == "" {
		return nil, &SchemaError{Reason: "model name is required"}
	}
	m := &Model{
		name:     name,
		fields:   fields,
		patterns: make(map[string]*regexp.Regexp),
	}
	if err := m.checkFields("", fields); err != nil {
		return nil, err
	}
	return m, nil
}

// MustModel is NewModel that panics on error, for connector-definition time
// declarations where a bad descriptor list is a programming error.
func MustModel(name string, fields ...Field) *Model {
	m, err := NewModel(name, fields...)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Fields returns a copy of the top-level field descriptors.
func (m *Model) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

func (m *Model) checkFields(prefix string, fields []Field) error {
	seen := make(map[string]bool, len(fields))
	for i := range fields {
		f := &fields[i]
		path := fieldPath(prefix, f.Name)
		if f.Name == "" {
			return &SchemaError{Field: prefix, Reason: fmt.Sprintf("field %d has no name", i)}
		}
		if seen[f.Name] {
			return &SchemaError{Field: path, Reason: "duplicate field name"}
		}
		seen[f.Name] = true

		switch f.Type {
		case TypeString, TypeInt, TypeFloat, TypeBool:
		case TypeEnum:
			if len(f.Enum) == 0 {
				return &SchemaError{Field: path, Reason: "enum field declares no members"}
			}
			if !f.Required && f.Default == nil {
				return &SchemaError{Field: path, Reason: "optional enum field needs a default"}
			}
		case TypeObject:
			if len(f.Fields) == 0 {
				return &SchemaError{Field: path, Reason: "object field declares no nested fields"}
			}
			if err := m.checkFields(path, f.Fields); err != nil {
				return err
			}
			if !f.Required && f.Default == nil && hasRequired(f.Fields) {
				return &SchemaError{Field: path, Reason: "optional object field with required members needs a default"}
			}
		default:
			return &SchemaError{Field: path, Reason: fmt.Sprintf("unknown type %q", f.Type)}
		}

		if f.Pattern != "" {
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return &SchemaError{Field: path, Reason: fmt.Sprintf("invalid pattern: %v", err)}
			}
			m.patterns[path] = re
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return &SchemaError{Field: path, Reason: "min constraint exceeds max"}
		}

		if f.Default != nil {
			if _, err := m.coerce(*f, path, f.Default); err != nil {
				return &SchemaError{Field: path, Reason: fmt.Sprintf("default does not satisfy field: %v", err)}
			}
		}
	}
	return nil
}

func hasRequired(fields []Field) bool {
	for _, f := range fields {
		if f.Required {
			return true
		}
	}
	return false
}

func fieldPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
