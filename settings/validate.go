package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Values holds validated, typed settings. Scalar fields are stored as
// string, int64, float64, or bool; nested object fields as Values.
type Values map[string]any

// String returns the named field as a string, or "" if absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the named field as an int64, or 0 if absent.
func (v Values) Int(name string) int64 {
	i, _ := v[name].(int64)
	return i
}

// Float returns the named field as a float64, or 0 if absent.
func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// Bool returns the named field as a bool, or false if absent.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Object returns the named nested field, or nil if absent.
func (v Values) Object(name string) Values {
	o, _ := v[name].(Values)
	return o
}

// ParseJSON decodes a raw JSON settings document into a generic map,
// preserving numeric precision via json.Number.
func ParseJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing settings JSON: %w", err)
	}
	return raw, nil
}

// ValidateJSON parses raw JSON and validates it against the model.
func (m *Model) ValidateJSON(data []byte) (Values, error) {
	raw, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return m.Validate(raw)
}

// Validate checks raw input against the model and returns fully typed
// values with defaults applied. On failure it returns a *ValidationError
// enumerating every offending field: validation does not stop at the first
// bad field. Fields present in raw but not declared in the model are
// rejected with an UnknownFieldError.
func (m *Model) Validate(raw map[string]any) (Values, error) {
	vals := make(Values, len(m.fields))
	var errs []error
	m.validateObject("", m.fields, raw, vals, &errs)
	if len(errs) > 0 {
		return nil, &ValidationError{Model: m.name, Errs: errs}
	}
	return vals, nil
}

// Defaults returns the effective default values of the model's fields.
// Required fields without a declared default are omitted: they have no
// value until input supplies one.
func (m *Model) Defaults() Values {
	out := make(Values, len(m.fields))
	for _, f := range m.fields {
		if f.Required && f.Default == nil {
			continue
		}
		out[f.Name] = m.defaultValue(f, f.Name)
	}
	return out
}

func (m *Model) validateObject(prefix string, fields []Field, raw map[string]any, out Values, errs *[]error) {
	declared := make(map[string]bool, len(fields))

	for _, f := range fields {
		declared[f.Name] = true
		path := fieldPath(prefix, f.Name)
		v, ok := raw[f.Name]
		if !ok {
			if f.Required {
				*errs = append(*errs, &MissingFieldError{Field: path})
				continue
			}
			out[f.Name] = m.defaultValue(f, path)
			continue
		}

		if f.Type == TypeObject {
			sub, ok := v.(map[string]any)
			if !ok {
				*errs = append(*errs, &TypeMismatchError{Field: path, Want: f.Type, Got: jsonTypeName(v)})
				continue
			}
			nested := make(Values, len(f.Fields))
			m.validateObject(path, f.Fields, sub, nested, errs)
			out[f.Name] = nested
			continue
		}

		typed, err := m.coerce(f, path, v)
		if err != nil {
			*errs = append(*errs, err)
			continue
		}
		out[f.Name] = typed
	}

	// Reject unknown fields in a stable order.
	var unknown []string
	for k := range raw {
		if !declared[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		*errs = append(*errs, &UnknownFieldError{Field: fieldPath(prefix, k)})
	}
}

// defaultValue produces the value for an omitted optional field. Model
// construction guarantees that declared defaults satisfy their field and
// that enum/object fields without safe zero values carry one.
func (m *Model) defaultValue(f Field, path string) any {
	if f.Default != nil {
		if f.Type == TypeObject {
			sub, _ := f.Default.(map[string]any)
			nested := make(Values, len(f.Fields))
			var errs []error
			m.validateObject(path, f.Fields, sub, nested, &errs)
			return nested
		}
		typed, _ := m.coerce(f, path, f.Default)
		return typed
	}
	switch f.Type {
	case TypeString:
		return ""
	case TypeInt:
		return int64(0)
	case TypeFloat:
		return float64(0)
	case TypeBool:
		return false
	case TypeObject:
		nested := make(Values, len(f.Fields))
		var errs []error
		m.validateObject(path, f.Fields, map[string]any{}, nested, &errs)
		return nested
	}
	return nil
}

// coerce converts a raw scalar value to the field's declared type under the
// package coercion policy and applies declared constraints. For TypeObject
// it validates the nested document and reports the first failure, which is
// only exercised for default-value checking.
func (m *Model) coerce(f Field, path string, v any) (any, error) {
	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, &TypeMismatchError{Field: path, Want: f.Type, Got: jsonTypeName(v)}
		}
		return s, m.checkStringConstraints(f, path, s)

	case TypeInt:
		i, ok := toInt64(v)
		if !ok {
			return nil, &TypeMismatchError{Field: path, Want: f.Type, Got: jsonTypeName(v)}
		}
		return i, checkRange(f, path, float64(i))

	case TypeFloat:
		fl, ok := toFloat64(v)
		if !ok {
			return nil, &TypeMismatchError{Field: path, Want: f.Type, Got: jsonTypeName(v)}
		}
		return fl, checkRange(f, path, fl)

	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, &TypeMismatchError{Field: path, Want: f.Type, Got: jsonTypeName(v)}
		}
		return b, nil

	case TypeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, &TypeMismatchError{Field: path, Want: f.Type, Got: jsonTypeName(v)}
		}
		for _, member := range f.Enum {
			if s == member {
				return s, nil
			}
		}
		return nil, &ConstraintError{
			Field:  path,
			Reason: fmt.Sprintf("%q is not one of: %s", s, strings.Join(f.Enum, ", ")),
		}

	case TypeObject:
		sub, ok := v.(map[string]any)
		if !ok {
			return nil, &TypeMismatchError{Field: path, Want: f.Type, Got: jsonTypeName(v)}
		}
		nested := make(Values, len(f.Fields))
		var errs []error
		m.validateObject(path, f.Fields, sub, nested, &errs)
		if len(errs) > 0 {
			return nil, errs[0]
		}
		return nested, nil
	}
	return nil, &TypeMismatchError{Field: path, Want: f.Type, Got: jsonTypeName(v)}
}

func (m *Model) checkStringConstraints(f Field, path string, s string) error {
	if re, ok := m.patterns[path]; ok && !re.MatchString(s) {
		return &ConstraintError{Field: path, Reason: fmt.Sprintf("%q does not match pattern %s", s, f.Pattern)}
	}
	return nil
}

func checkRange(f Field, path string, v float64) error {
	if f.Min != nil && v < *f.Min {
		return &ConstraintError{Field: path, Reason: fmt.Sprintf("%v is below minimum %v", v, *f.Min)}
	}
	if f.Max != nil && v > *f.Max {
		return &ConstraintError{Field: path, Reason: fmt.Sprintf("%v is above maximum %v", v, *f.Max)}
	}
	return nil
}

// toInt64 applies the integer coercion policy: JSON integers, Go integer
// kinds, integral floats, and integral numeric strings. Nothing lossy.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		return 0, false
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
		return 0, false
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) && n >= math.MinInt64 && n <= math.MaxInt64 {
			return int64(n), true
		}
		return 0, false
	}
	return 0, false
}

// toFloat64 applies the float coercion policy: any JSON number, Go numeric
// kinds, and numeric strings.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
		return 0, false
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
		return 0, false
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// jsonTypeName names a raw value's JSON type for error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, int, int64, float64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
