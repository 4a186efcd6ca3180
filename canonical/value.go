package canonical

import (
	"encoding/json"
	"math"
	"reflect"
)

// Kind classifies a Go value into one of the JSON-compatible variants the
// canonical encoder understands.
type Kind int

const (
	// KindNull represents the JSON null value (untyped nil, or a nil
	// pointer/slice/map).
	KindNull Kind = iota

	// KindBool represents a JSON boolean.
	KindBool

	// KindNumber represents a JSON number. All Go integer and float widths
	// plus json.Number classify as KindNumber.
	KindNumber

	// KindString represents a JSON string.
	KindString

	// KindSequence represents a JSON array. Element order is semantically
	// significant and preserved by the encoder.
	KindSequence

	// KindMapping represents a JSON object. Key order in the input is
	// irrelevant; the encoder always emits keys in byte-wise ascending order.
	KindMapping

	// KindUndefined represents the absence-of-value marker (see Undefined).
	// It encodes as null but is dropped entirely by RemoveUndefined,
	// whereas an explicit null is preserved.
	KindUndefined

	// KindUnsupported represents any value outside the JSON-compatible
	// variants (channels, functions, non-string-keyed maps, NaN, infinities).
	// Unsupported values encode as the literal null.
	KindUnsupported
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindUndefined:
		return "undefined"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

type undefined struct{}

// Undefined is the absence-of-value marker. Use it in place of a value to
// express "this field is missing" rather than "this field is null":
// RemoveUndefined drops mapping entries and sequence elements holding
// Undefined while preserving explicit nils.
var Undefined = undefined{}

// KindOf classifies an arbitrary Go value. The classification is the single
// source of truth for the encoder: every value encodes according to its kind
// and nothing else.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindNull
	case undefined:
		return KindUndefined
	case bool:
		return KindBool
	case string:
		return KindString
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return KindNumber
	case float32:
		return floatKind(float64(t))
	case float64:
		return floatKind(t)
	case []any:
		if t == nil {
			return KindNull
		}
		return KindSequence
	case map[string]any:
		if t == nil {
			return KindNull
		}
		return KindMapping
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return KindNull
		}
		return KindSequence
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return KindUnsupported
		}
		if rv.IsNil() {
			return KindNull
		}
		return KindMapping
	default:
		return KindUnsupported
	}
}

// floatKind classifies a float: NaN and the infinities have no JSON
// representation and are treated as unsupported.
func floatKind(f float64) Kind {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return KindUnsupported
	}
	return KindNumber
}

// sequenceOf returns the elements of a value classified as KindSequence.
func sequenceOf(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// mappingOf returns the entries of a value classified as KindMapping.
func mappingOf(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}
