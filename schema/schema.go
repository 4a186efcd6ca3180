// Package schema provides JSON-schema builders and validation for the
// Autopilot contract types, plus canonical fingerprints that let two ends
// of the pipeline confirm they are speaking the same payload shape.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/autopilot-ai/sdk/canonical"
)

// JSON represents a JSON Schema definition. It provides a structured way to
// define and validate the payload shapes carried by job requests, events,
// and reports.
type JSON struct {
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
	Properties  map[string]JSON `json:"properties,omitempty"`
	Required    []string        `json:"required,omitempty"`
	Items       *JSON           `json:"items,omitempty"`
	Enum        []any           `json:"enum,omitempty"`
	Minimum     *float64        `json:"minimum,omitempty"`
	Maximum     *float64        `json:"maximum,omitempty"`
	MinLength   *int            `json:"minLength,omitempty"`
	MaxLength   *int            `json:"maxLength,omitempty"`
	Pattern     string          `json:"pattern,omitempty"`
}

// Any creates a JSON schema that accepts any type.
func Any() JSON {
	return JSON{}
}

// String creates a JSON schema for a string type.
func String() JSON {
	return JSON{Type: "string"}
}

// StringWithDesc creates a JSON schema for a string type with a description.
func StringWithDesc(desc string) JSON {
	return JSON{Type: "string", Description: desc}
}

// Int creates a JSON schema for an integer type.
func Int() JSON {
	return JSON{Type: "integer"}
}

// Number creates a JSON schema for a number type.
func Number() JSON {
	return JSON{Type: "number"}
}

// Bool creates a JSON schema for a boolean type.
func Bool() JSON {
	return JSON{Type: "boolean"}
}

// Array creates a JSON schema for an array type with the specified item
// schema.
func Array(items JSON) JSON {
	return JSON{Type: "array", Items: &items}
}

// Object creates a JSON schema for an object type with the specified
// properties and required fields.
func Object(properties map[string]JSON, required ...string) JSON {
	return JSON{Type: "object", Properties: properties, Required: required}
}

// Enum creates a JSON schema with enumerated values.
func Enum(values ...any) JSON {
	return JSON{Enum: values}
}

// WithPattern returns a copy of the schema with a regex pattern constraint.
func (s JSON) WithPattern(pattern string) JSON {
	s.Pattern = pattern
	return s
}

// WithRange returns a copy of the schema with numeric bounds.
func (s JSON) WithRange(min, max float64) JSON {
	s.Minimum = &min
	s.Maximum = &max
	return s
}

// Fingerprint returns the canonical short identifier of the schema,
// prefixed with "schema". Both ends of the pipeline can compare
// fingerprints to confirm they agree on a payload contract without
// shipping the schema itself.
func (s JSON) Fingerprint() string {
	raw, err := json.Marshal(s)
	if err != nil {
		// JSON cannot fail to marshal; the struct contains only
		// JSON-compatible field types.
		return ""
	}
	var plain any
	if err := json.Unmarshal(raw, &plain); err != nil {
		return ""
	}
	return canonical.ContentAddressableID(plain, "schema")
}

// Validate validates the given value against this JSON schema.
// It returns an error if the value does not conform to the schema.
func (s JSON) Validate(value any) error {
	if value == nil {
		if s.Type != "" {
			return fmt.Errorf("expected type %s, got nil", s.Type)
		}
		return nil
	}

	if len(s.Enum) > 0 {
		return s.validateEnum(value)
	}

	if s.Type == "" {
		return nil
	}

	if err := s.validateType(value); err != nil {
		return err
	}

	switch s.Type {
	case "string":
		return s.validateString(value)
	case "integer", "number":
		return s.validateNumeric(value)
	case "array":
		return s.validateArray(value)
	case "object":
		return s.validateObject(value)
	}
	return nil
}

// validateType checks that the value's dynamic type matches the schema type.
func (s JSON) validateType(value any) error {
	v := reflect.ValueOf(value)

	switch s.Type {
	case "string":
		if v.Kind() != reflect.String {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "integer":
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		case reflect.Float32, reflect.Float64:
			f := v.Float()
			if f != float64(int64(f)) {
				return fmt.Errorf("expected integer, got float with decimal: %v", value)
			}
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}
	case "number":
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case "boolean":
		if v.Kind() != reflect.Bool {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "array":
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return fmt.Errorf("expected array, got %T", value)
		}
	case "object":
		if v.Kind() != reflect.Map {
			return fmt.Errorf("expected object, got %T", value)
		}
	}
	return nil
}

func (s JSON) validateEnum(value any) error {
	for _, allowed := range s.Enum {
		if canonical.DeepEqual(value, allowed) {
			return nil
		}
	}
	return fmt.Errorf("value %v is not one of the allowed enum values", value)
}

func (s JSON) validateString(value any) error {
	str := value.(string)

	if s.MinLength != nil && len(str) < *s.MinLength {
		return fmt.Errorf("string length %d is less than minimum %d", len(str), *s.MinLength)
	}
	if s.MaxLength != nil && len(str) > *s.MaxLength {
		return fmt.Errorf("string length %d is greater than maximum %d", len(str), *s.MaxLength)
	}
	if s.Pattern != "" {
		matched, err := regexp.MatchString(s.Pattern, str)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("string does not match pattern %s", s.Pattern)
		}
	}
	return nil
}

func (s JSON) validateNumeric(value any) error {
	f, err := toFloat(value)
	if err != nil {
		return err
	}
	if s.Minimum != nil && f < *s.Minimum {
		return fmt.Errorf("value %v is less than minimum %v", f, *s.Minimum)
	}
	if s.Maximum != nil && f > *s.Maximum {
		return fmt.Errorf("value %v is greater than maximum %v", f, *s.Maximum)
	}
	return nil
}

func (s JSON) validateArray(value any) error {
	if s.Items == nil {
		return nil
	}
	v := reflect.ValueOf(value)
	for i := 0; i < v.Len(); i++ {
		if err := s.Items.Validate(v.Index(i).Interface()); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func (s JSON) validateObject(value any) error {
	v := reflect.ValueOf(value)
	if v.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("expected string-keyed object, got %T", value)
	}

	fields := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		fields[iter.Key().String()] = iter.Value().Interface()
	}

	for _, required := range s.Required {
		if _, ok := fields[required]; !ok {
			return fmt.Errorf("missing required field %q", required)
		}
	}

	for name, prop := range s.Properties {
		field, ok := fields[name]
		if !ok {
			continue
		}
		if err := prop.Validate(field); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

func toFloat(value any) (float64, error) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	default:
		return 0, fmt.Errorf("expected numeric value, got %T", value)
	}
}
