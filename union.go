package convexmodel

import (
	"github.com/reoring/convexmodel/internal/ir"
	"github.com/reoring/convexmodel/value"
)

// Union is the value of a union field: the 1-based index of the branch that
// matched and that branch's payload (see Record for payload Go types).
type Union struct {
	typ     *unionType
	variant int
	payload any
}

// TypeName returns the resolved name of the enclosing field, e.g. "ModelValue".
func (u *Union) TypeName() string { return u.typ.typeName }

// Variant returns the 1-based branch index.
func (u *Union) Variant() int { return u.variant }

// VariantName returns "VariantN" for the held branch.
func (u *Union) VariantName() string { return ir.VariantName(u.variant) }

// Len returns the number of branches.
func (u *Union) Len() int { return len(u.typ.branches) }

// Payload returns the held payload regardless of variant.
func (u *Union) Payload() any { return u.payload }

// As returns the payload when the union holds variant n.
func (u *Union) As(n int) (any, error) {
	if u.variant != n {
		return nil, &AccessError{TypeName: u.typ.typeName, Variant: ir.VariantName(n)}
	}
	return u.payload, nil
}

// AsString returns variant n as a string.
func (u *Union) AsString(n int) (string, error) {
	p, err := u.As(n)
	if err != nil {
		return "", err
	}
	s, ok := p.(string)
	if !ok {
		return "", u.mismatch(n, "string", p)
	}
	return s, nil
}

// AsInt64 returns variant n as an int64.
func (u *Union) AsInt64(n int) (int64, error) {
	p, err := u.As(n)
	if err != nil {
		return 0, err
	}
	i, ok := p.(int64)
	if !ok {
		return 0, u.mismatch(n, "int64", p)
	}
	return i, nil
}

// AsFloat64 returns variant n as a float64.
func (u *Union) AsFloat64(n int) (float64, error) {
	p, err := u.As(n)
	if err != nil {
		return 0, err
	}
	f, ok := p.(float64)
	if !ok {
		return 0, u.mismatch(n, "float64", p)
	}
	return f, nil
}

// AsBool returns variant n as a bool.
func (u *Union) AsBool(n int) (bool, error) {
	p, err := u.As(n)
	if err != nil {
		return false, err
	}
	b, ok := p.(bool)
	if !ok {
		return false, u.mismatch(n, "bool", p)
	}
	return b, nil
}

// AsRecord returns an object branch's record, named TypeName+"VariantN".
func (u *Union) AsRecord(n int) (*Record, error) {
	p, err := u.As(n)
	if err != nil {
		return nil, err
	}
	r, ok := p.(*Record)
	if !ok {
		return nil, u.mismatch(n, "*Record", p)
	}
	return r, nil
}

// IsNull reports whether the union holds a null branch.
func (u *Union) IsNull() bool {
	_, ok := u.payload.(Unit)
	return ok
}

func (u *Union) mismatch(n int, want string, got any) error {
	return &FieldError{TypeName: u.typ.typeName, Field: ir.VariantName(n), Want: want, Got: goTypeName(got)}
}

// Value encodes the payload alone; unions never add a variant wrapper.
func (u *Union) Value() value.Value { return u.typ.branches[u.variant-1].encode(u.payload) }

// MarshalJSON encodes the payload as JSON.
func (u *Union) MarshalJSON() ([]byte, error) { return u.Value().MarshalJSON() }
