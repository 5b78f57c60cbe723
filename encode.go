package convexmodel

import "github.com/reoring/convexmodel/value"

// Encoders assume values already passed node.check or came from a decoder.

func encodeString(x any) value.Value { return value.String(x.(string)) }
func encodeNull(any) value.Value     { return value.Null() }
func encodeInt64(x any) value.Value  { return value.Int64(x.(int64)) }
func encodeNumber(x any) value.Value { return value.Float64(x.(float64)) }
func encodeBool(x any) value.Value   { return value.Bool(x.(bool)) }
func encodeRecord(x any) value.Value { return x.(*Record).Value() }
func encodeUnion(x any) value.Value  { return x.(*Union).Value() }

// encodeOptional is bound to the inner node: absent encodes to null, present
// encodes the inner value without a wrapper.
func (n *node) encodeOptional(x any) value.Value {
	o := x.(Optional)
	if !o.Present {
		return value.Null()
	}
	return n.encode(o.Value)
}

// encode emits one member per declared field, keyed by the field id, in
// declaration order.
func (rt *recordType) encode(r *Record) value.Value {
	obj := &value.Object{}
	for i, f := range rt.fields {
		obj.Set(f.id, f.node.encode(r.values[i]))
	}
	return value.ObjectValue(obj)
}
