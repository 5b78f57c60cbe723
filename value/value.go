// Package value defines the dynamic value model decoded from and encoded to by
// compiled models: a closed tagged union of Null, Boolean, Int64, Float64,
// String and Object. Objects keep their keys in insertion order.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the tag of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInt64
	KindFloat64
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an immutable dynamic value. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Int64 returns an integer value.
func Int64(i int64) Value { return Value{kind: KindInt64, i: i} }

// Float64 returns a float value.
func Float64(f float64) Value { return Value{kind: KindFloat64, f: f} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ObjectValue wraps o. A nil o yields an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = &Object{}
	}
	return Value{kind: KindObject, obj: o}
}

// NewObject builds an object value from members in order. Later members with
// a repeated key replace earlier ones in place.
func NewObject(members ...Member) Value {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return ObjectValue(o)
}

// Member is a key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// M is shorthand for a Member literal.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBoolean }

// AsInt64 returns the integer payload and whether v is an integer.
func (v Value) AsInt64() (int64, bool) { return v.i, v.kind == KindInt64 }

// AsFloat64 returns the float payload and whether v is a float.
func (v Value) AsFloat64() (float64, bool) { return v.f, v.kind == KindFloat64 }

// AsString returns the text payload and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsObject returns the object payload and whether v is an object.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Equal reports structural equality. Kinds must match exactly, so Int64(1)
// and Float64(1) differ. Object key order is ignored. NaN equals NaN.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindInt64:
		return a.i == b.i
	case KindFloat64:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case KindString:
		return a.s == b.s
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.Keys() {
			av, _ := a.obj.Get(k)
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders v in a compact JSON-like form for diagnostics.
func (v Value) String() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v Value) format(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBoolean:
		b.WriteString(strconv.FormatBool(v.b))
	case KindInt64:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat64:
		b.WriteString(formatFloat(v.f))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindObject:
		b.WriteByte('{')
		for i, k := range v.obj.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			mv, _ := v.obj.Get(k)
			mv.format(b)
		}
		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "<%s>", v.kind)
	}
}

// formatFloat keeps a fractional marker on integral floats so that the
// Int64/Float64 distinction survives text round trips.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Object is an insertion-ordered string-keyed map.
type Object struct {
	keys []string
	vals map[string]Value
}

// Len returns the number of members. It is safe on a nil Object.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.vals[key]
	return v, ok
}

// Set stores v under key, keeping the original position of an existing key.
func (o *Object) Set(key string, v Value) {
	if o.vals == nil {
		o.vals = make(map[string]Value)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// SortedKeys returns the keys in lexical order.
func (o *Object) SortedKeys() []string {
	out := o.Keys()
	sort.Strings(out)
	return out
}

// Members returns the members in insertion order.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	out := make([]Member, len(o.keys))
	for i, k := range o.keys {
		out[i] = Member{Key: k, Value: o.vals[k]}
	}
	return out
}
