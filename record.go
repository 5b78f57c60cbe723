package convexmodel

import (
	"fmt"

	"github.com/reoring/convexmodel/value"
)

// Unit is the payload of Null fields and null union branches.
type Unit struct{}

// Optional is the value of an optional field. Value holds the inner field's
// Go value when Present is true.
type Optional struct {
	Value   any
	Present bool
}

// Some returns a present Optional.
func Some(v any) Optional { return Optional{Value: v, Present: true} }

// None returns an absent Optional.
func None() Optional { return Optional{} }

// Record is the dynamic counterpart of a generated record struct: one value per
// declared field, in declaration order. Field values use these Go types:
//
//	id, string, string literal   string
//	int64, int literal           int64
//	number                       float64
//	boolean, boolean literal     bool
//	null                         Unit
//	object                       *Record
//	union                        *Union
//	optional                     Optional
type Record struct {
	typ    *recordType
	values []any
}

// TypeName returns the resolved type name, e.g. "UserPlatform".
func (r *Record) TypeName() string { return r.typ.typeName }

// Fields returns the declared field names in order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.typ.fields))
	for i, f := range r.typ.fields {
		out[i] = f.id
	}
	return out
}

// Get returns the value of a field and whether the field exists.
func (r *Record) Get(field string) (any, bool) {
	i, ok := r.typ.index[field]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

func (r *Record) lookup(field string) (any, error) {
	v, ok := r.Get(field)
	if !ok {
		return nil, &FieldError{TypeName: r.typ.typeName, Field: field}
	}
	return v, nil
}

func (r *Record) mismatch(field, want string, got any) error {
	return &FieldError{TypeName: r.typ.typeName, Field: field, Want: want, Got: goTypeName(got)}
}

// String returns a string, id or string literal field.
func (r *Record) String(field string) (string, error) {
	v, err := r.lookup(field)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", r.mismatch(field, "string", v)
	}
	return s, nil
}

// Int64 returns an int64 or int literal field.
func (r *Record) Int64(field string) (int64, error) {
	v, err := r.lookup(field)
	if err != nil {
		return 0, err
	}
	i, ok := v.(int64)
	if !ok {
		return 0, r.mismatch(field, "int64", v)
	}
	return i, nil
}

// Float64 returns a number field.
func (r *Record) Float64(field string) (float64, error) {
	v, err := r.lookup(field)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, r.mismatch(field, "float64", v)
	}
	return f, nil
}

// Bool returns a boolean or boolean literal field.
func (r *Record) Bool(field string) (bool, error) {
	v, err := r.lookup(field)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, r.mismatch(field, "bool", v)
	}
	return b, nil
}

// Record returns a nested object field.
func (r *Record) Record(field string) (*Record, error) {
	v, err := r.lookup(field)
	if err != nil {
		return nil, err
	}
	rec, ok := v.(*Record)
	if !ok {
		return nil, r.mismatch(field, "*Record", v)
	}
	return rec, nil
}

// Union returns a union field.
func (r *Record) Union(field string) (*Union, error) {
	v, err := r.lookup(field)
	if err != nil {
		return nil, err
	}
	u, ok := v.(*Union)
	if !ok {
		return nil, r.mismatch(field, "*Union", v)
	}
	return u, nil
}

// Optional returns an optional field.
func (r *Record) Optional(field string) (Optional, error) {
	v, err := r.lookup(field)
	if err != nil {
		return Optional{}, err
	}
	o, ok := v.(Optional)
	if !ok {
		return Optional{}, r.mismatch(field, "Optional", v)
	}
	return o, nil
}

// Set replaces a field value. The value must have the Go type listed on
// Record; literal fields only accept their literal, nested records and unions
// must come from the same Model and have the field's type.
func (r *Record) Set(field string, v any) error {
	i, ok := r.typ.index[field]
	if !ok {
		return &FieldError{TypeName: r.typ.typeName, Field: field}
	}
	f := r.typ.fields[i]
	if err := f.check(v); err != nil {
		if fe, ok := err.(*FieldError); ok {
			fe.TypeName, fe.Field = r.typ.typeName, field
		}
		return err
	}
	r.values[i] = v
	return nil
}

// Value encodes the record. Encoding never fails.
func (r *Record) Value() value.Value { return r.typ.encode(r) }

// MarshalJSON encodes the record as JSON. Unions are flattened and absent
// optionals become null.
func (r *Record) MarshalJSON() ([]byte, error) { return r.Value().MarshalJSON() }

func goTypeName(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case *Record:
		if t == nil {
			return "nil"
		}
		return t.TypeName()
	case *Union:
		if t == nil {
			return "nil"
		}
		return t.TypeName()
	}
	return fmt.Sprintf("%T", v)
}
