package canonical

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"
)

// maxSafeInteger is the largest magnitude at which every integer is exactly
// representable in an IEEE 754 double (2^53). Integral floats inside this
// range render as plain integers so that 3.0 and 3 canonicalize identically.
const maxSafeInteger = 1 << 53

// Canonicalize returns the canonical JSON encoding of v: mapping keys sorted
// byte-wise ascending, fixed "," and ":" separators, no whitespace, standard
// JSON string escaping. Structurally equal values always produce byte-equal
// output, which is the property every hash in this SDK relies on.
//
// Number formatting policy (fixed here so independent implementations can
// interoperate): integers render in base 10 with no exponent; floats that are
// integral and within ±2^53 render as integers; all other finite floats
// render as the shortest decimal string that round-trips through a float64.
// NaN and the infinities, like every other unsupported value, render as null.
func Canonicalize(v any) string {
	return string(AppendCanonical(nil, v))
}

// AppendCanonical appends the canonical encoding of v to dst and returns the
// extended buffer. It is the allocation-conscious form of Canonicalize.
func AppendCanonical(dst []byte, v any) []byte {
	switch KindOf(v) {
	case KindNull, KindUndefined, KindUnsupported:
		return append(dst, "null"...)
	case KindBool:
		if asBool(v) {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case KindNumber:
		return appendNumber(dst, v)
	case KindString:
		return appendString(dst, asString(v))
	case KindSequence:
		dst = append(dst, '[')
		for i, elem := range sequenceOf(v) {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendCanonical(dst, elem)
		}
		return append(dst, ']')
	case KindMapping:
		m := mappingOf(v)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		dst = append(dst, '{')
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendString(dst, k)
			dst = append(dst, ':')
			dst = AppendCanonical(dst, m[k])
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

func asBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return deref(v).(bool)
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return deref(v).(string)
}

// deref unwraps pointers and interfaces so scalar accessors can handle
// values reached through KindOf's pointer-following classification.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Interface()
}

func appendNumber(dst []byte, v any) []byte {
	switch n := deref(v).(type) {
	case int:
		return strconv.AppendInt(dst, int64(n), 10)
	case int8:
		return strconv.AppendInt(dst, int64(n), 10)
	case int16:
		return strconv.AppendInt(dst, int64(n), 10)
	case int32:
		return strconv.AppendInt(dst, int64(n), 10)
	case int64:
		return strconv.AppendInt(dst, n, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(n), 10)
	case uint8:
		return strconv.AppendUint(dst, uint64(n), 10)
	case uint16:
		return strconv.AppendUint(dst, uint64(n), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(n), 10)
	case uint64:
		return strconv.AppendUint(dst, n, 10)
	case float32:
		return appendFloat(dst, float64(n))
	case float64:
		return appendFloat(dst, n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return strconv.AppendInt(dst, i, 10)
		}
		if f, err := n.Float64(); err == nil {
			return appendFloat(dst, f)
		}
		return append(dst, "null"...)
	default:
		return append(dst, "null"...)
	}
}

func appendFloat(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxSafeInteger {
		return strconv.AppendInt(dst, int64(f), 10)
	}
	return strconv.AppendFloat(dst, f, 'g', -1, 64)
}

const hexDigits = "0123456789abcdef"

// appendString appends s as a quoted JSON string. Quote, backslash, and
// control characters are escaped; everything else passes through verbatim.
// Invalid UTF-8 bytes are replaced with U+FFFD, matching encoding/json.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			switch b {
			case '"':
				dst = append(dst, '\\', '"')
			case '\\':
				dst = append(dst, '\\', '\\')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			default:
				if b < 0x20 {
					dst = append(dst, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xf])
				} else {
					dst = append(dst, b)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = utf8.AppendRune(dst, utf8.RuneError)
			i++
			continue
		}
		dst = append(dst, s[i:i+size]...)
		i += size
	}
	return append(dst, '"')
}
