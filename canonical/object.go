package canonical

// DeepEqual reports whether a and b are structurally equal: equal scalars,
// equal sequences element-by-element in order, and equal mappings regardless
// of key order. It is defined as equality of canonical encodings, so it
// inherits the encoder's classification rules (unsupported values all
// compare equal to null).
func DeepEqual(a, b any) bool {
	return Canonicalize(a) == Canonicalize(b)
}

// SortKeys returns a new structure with every mapping rebuilt as a
// map[string]any and every sequence rebuilt as a []any, recursing through
// both. Scalars are returned unchanged and the input is never mutated.
//
// Go maps carry no iteration order, so the deterministic key ordering
// materializes when the result is encoded (Canonicalize, or encoding/json,
// which also sorts map keys). The value of this function is shape
// normalization: the result is a plain tree of map[string]any, []any, and
// scalars, suitable for snapshot comparison with reflect.DeepEqual.
func SortKeys(v any) any {
	switch KindOf(v) {
	case KindSequence:
		src := sequenceOf(v)
		out := make([]any, len(src))
		for i, elem := range src {
			out[i] = SortKeys(elem)
		}
		return out
	case KindMapping:
		src := mappingOf(v)
		out := make(map[string]any, len(src))
		for k, elem := range src {
			out[k] = SortKeys(elem)
		}
		return out
	default:
		return v
	}
}

// RemoveUndefined returns a new structure with every mapping entry and
// sequence element holding the Undefined marker dropped, recursing through
// nested mappings and sequences. Explicit nil values are preserved: callers
// that need "missing field" semantics must use Undefined, not nil. The input
// is never mutated.
func RemoveUndefined(v any) any {
	switch KindOf(v) {
	case KindSequence:
		src := sequenceOf(v)
		out := make([]any, 0, len(src))
		for _, elem := range src {
			if KindOf(elem) == KindUndefined {
				continue
			}
			out = append(out, RemoveUndefined(elem))
		}
		return out
	case KindMapping:
		src := mappingOf(v)
		out := make(map[string]any, len(src))
		for k, elem := range src {
			if KindOf(elem) == KindUndefined {
				continue
			}
			out[k] = RemoveUndefined(elem)
		}
		return out
	default:
		return v
	}
}

// CanonicalizeObject returns SortKeys(RemoveUndefined(v)): a normalized,
// still richly-typed tree with undefined markers stripped, suitable for
// storage or snapshot comparison without round-tripping through a string.
// The operation is idempotent.
func CanonicalizeObject(v any) any {
	return SortKeys(RemoveUndefined(v))
}
