package ir

// Package ir defines the type model produced by the DSL parser and consumed by
// the decoders, encoders and the code generator. The model has no runtime
// existence of its own: it is built once per schema and only read afterwards.

// Kind identifies a Type variant.
type Kind int

const (
	KindID Kind = iota
	KindNull
	KindInt64
	KindNumber
	KindBool
	KindString
	KindStringLiteral
	KindBoolLiteral
	KindIntLiteral
	KindObject
	KindUnion
	KindOptional
)

var kindNames = [...]string{
	KindID:            "id",
	KindNull:          "null",
	KindInt64:         "int64",
	KindNumber:        "number",
	KindBool:          "boolean",
	KindString:        "string",
	KindStringLiteral: "string literal",
	KindBoolLiteral:   "boolean literal",
	KindIntLiteral:    "int literal",
	KindObject:        "object",
	KindUnion:         "union",
	KindOptional:      "optional",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type is the closed set of schema types. Implementations live in this package
// only.
type Type interface {
	Kind() Kind
	isType()
}

// ID is an opaque reference into a table, represented as a string.
type ID struct {
	Table string
}

// Null is the unit type.
type Null struct{}

// Int64 is a 64-bit signed integer.
type Int64 struct{}

// Number is a 64-bit float.
type Number struct{}

// Bool is a boolean.
type Bool struct{}

// String is a text value.
type String struct{}

// StringLiteral narrows String to a single value.
type StringLiteral struct {
	Value string
}

// BoolLiteral narrows Bool to a single value.
type BoolLiteral struct {
	Value bool
}

// IntLiteral narrows Int64 to a single value.
type IntLiteral struct {
	Value int64
}

// Object is a record. Field order is declaration order.
type Object struct {
	Fields []Field
}

// Union is a closed sum type matched positionally at decode time.
type Union struct {
	Branches []Branch
}

// Branch is one member of a Union. Name is only meaningful for object
// branches, where it names the generated branch record.
type Branch struct {
	Name Name
	Type Type
	Pos  int
}

// Optional wraps a field that may be absent. The inner field shares the name
// of the enclosing field.
type Optional struct {
	Inner Field
}

func (ID) Kind() Kind            { return KindID }
func (Null) Kind() Kind          { return KindNull }
func (Int64) Kind() Kind         { return KindInt64 }
func (Number) Kind() Kind        { return KindNumber }
func (Bool) Kind() Kind          { return KindBool }
func (String) Kind() Kind        { return KindString }
func (StringLiteral) Kind() Kind { return KindStringLiteral }
func (BoolLiteral) Kind() Kind   { return KindBoolLiteral }
func (IntLiteral) Kind() Kind    { return KindIntLiteral }
func (*Object) Kind() Kind       { return KindObject }
func (*Union) Kind() Kind        { return KindUnion }
func (*Optional) Kind() Kind     { return KindOptional }

func (ID) isType()            {}
func (Null) isType()          {}
func (Int64) isType()         {}
func (Number) isType()        {}
func (Bool) isType()          {}
func (String) isType()        {}
func (StringLiteral) isType() {}
func (BoolLiteral) isType()   {}
func (IntLiteral) isType()    {}
func (*Object) isType()       {}
func (*Union) isType()        {}
func (*Optional) isType()     {}

// Field pairs a name with its type. Pos is the byte offset of the token that
// declared the field (-1 when unknown).
type Field struct {
	Name Name
	Type Type
	Pos  int
}

// BaseKind widens literal kinds to their primitive kind and maps ID to String.
// Other kinds are returned unchanged.
func BaseKind(t Type) Kind {
	switch t.Kind() {
	case KindID, KindStringLiteral:
		return KindString
	case KindBoolLiteral:
		return KindBool
	case KindIntLiteral:
		return KindInt64
	}
	return t.Kind()
}

// IsComplex reports whether t needs a named generated type: objects, unions
// and optionals wrapping either.
func IsComplex(t Type) bool {
	switch tt := t.(type) {
	case *Object, *Union:
		return true
	case *Optional:
		return IsComplex(tt.Inner.Type)
	}
	return false
}

// Unwrap strips Optional layers.
func Unwrap(t Type) Type {
	for {
		o, ok := t.(*Optional)
		if !ok {
			return t
		}
		t = o.Inner.Type
	}
}

// Walk visits f and every field nested below it in declaration order. Object
// branches of unions are visited as fields carrying the branch name, and the
// inner field of an Optional is not visited separately since it shares the
// optional's name. A non-nil error from fn stops the walk.
func Walk(f Field, fn func(Field) error) error {
	if err := fn(f); err != nil {
		return err
	}
	switch t := Unwrap(f.Type).(type) {
	case *Object:
		for _, c := range t.Fields {
			if err := Walk(c, fn); err != nil {
				return err
			}
		}
	case *Union:
		for _, b := range t.Branches {
			if _, ok := b.Type.(*Object); !ok {
				continue
			}
			if err := Walk(Field{Name: b.Name, Type: b.Type, Pos: b.Pos}, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
