package canonical

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// FromProto converts a protobuf well-known Value into the plain Go shape the
// canonical encoder accepts (nil, bool, float64, string, []any,
// map[string]any). Downstream executors exchange payloads as
// google.protobuf.Struct; converting through this function before hashing
// guarantees both sides of the wire derive identical identifiers.
func FromProto(v *structpb.Value) any {
	if v == nil {
		return nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil
	case *structpb.Value_BoolValue:
		return k.BoolValue
	case *structpb.Value_NumberValue:
		return k.NumberValue
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_ListValue:
		values := k.ListValue.GetValues()
		out := make([]any, len(values))
		for i, elem := range values {
			out[i] = FromProto(elem)
		}
		return out
	case *structpb.Value_StructValue:
		return FromProtoStruct(k.StructValue)
	default:
		return nil
	}
}

// FromProtoStruct converts a protobuf Struct into a map[string]any, recursing
// through nested values with FromProto. A nil struct converts to nil.
func FromProtoStruct(s *structpb.Struct) map[string]any {
	if s == nil {
		return nil
	}
	fields := s.GetFields()
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = FromProto(v)
	}
	return out
}
