package convexmodel

import (
	"context"
	"strconv"

	"github.com/reoring/convexmodel/internal/ir"
	"github.com/reoring/convexmodel/value"
)

type (
	decodeFunc func(ctx context.Context, v value.Value, ok bool, path string) (any, error)
	encodeFunc func(any) value.Value
)

// node is the compiled form of one field: its decoder, encoder and the
// bookkeeping needed to validate values assigned through Record.Set.
type node struct {
	typ    ir.Type
	label  string
	record *recordType // object
	union  *unionType  // union
	inner  *node       // optional
	decode decodeFunc
	encode encodeFunc
}

type recordType struct {
	typeName string
	label    string
	fields   []fieldType
	index    map[string]int
	unknown  UnknownPolicy
}

type fieldType struct {
	id   string
	node *node
}

func (f fieldType) check(v any) error { return f.node.check(v) }

type unionType struct {
	typeName string
	label    string
	branches []*node
}

// planner turns a Type Model into a tree of nodes, registering every record
// and union type by its resolved name.
type planner struct {
	opts    options
	records map[string]*recordType
	unions  map[string]*unionType
}

func newPlanner(opts options) *planner {
	return &planner{opts: opts, records: map[string]*recordType{}, unions: map[string]*unionType{}}
}

func (p *planner) field(f ir.Field) *node {
	n := &node{typ: f.Type, label: f.Name.Label()}
	switch t := f.Type.(type) {
	case ir.ID, ir.String:
		n.decode, n.encode = decodeString(n.label), encodeString
	case ir.Null:
		n.decode, n.encode = decodeNull(n.label), encodeNull
	case ir.Int64:
		n.decode, n.encode = decodeInt64(n.label), encodeInt64
	case ir.Number:
		n.decode, n.encode = decodeNumber(n.label), encodeNumber
	case ir.Bool:
		n.decode, n.encode = decodeBool(n.label), encodeBool
	case ir.StringLiteral:
		n.decode, n.encode = decodeStringLiteral(t.Value, n.label), encodeString
	case ir.BoolLiteral:
		n.decode, n.encode = decodeBoolLiteral(t.Value, n.label), encodeBool
	case ir.IntLiteral:
		n.decode, n.encode = decodeIntLiteral(t.Value, n.label), encodeInt64
	case *ir.Object:
		n.record = p.object(f.Name, t)
		n.decode, n.encode = n.record.decode, encodeRecord
	case *ir.Union:
		n.union = p.unionOf(f.Name, t)
		n.decode, n.encode = n.union.decode, encodeUnion
	case *ir.Optional:
		n.inner = p.field(t.Inner)
		n.decode, n.encode = decodeOptional(n.inner), n.inner.encodeOptional
	}
	return n
}

func (p *planner) object(name ir.Name, o *ir.Object) *recordType {
	rt := &recordType{
		typeName: name.TypeName(),
		label:    name.Label(),
		index:    make(map[string]int, len(o.Fields)),
		unknown:  p.opts.unknown,
	}
	for i, f := range o.Fields {
		rt.fields = append(rt.fields, fieldType{id: f.Name.FieldName(), node: p.field(f)})
		rt.index[f.Name.FieldName()] = i
	}
	p.records[rt.typeName] = rt
	return rt
}

func (p *planner) unionOf(name ir.Name, u *ir.Union) *unionType {
	ut := &unionType{typeName: name.TypeName(), label: name.Label()}
	for _, b := range u.Branches {
		ut.branches = append(ut.branches, p.field(ir.Field{Name: b.Name, Type: b.Type, Pos: b.Pos}))
	}
	p.unions[ut.typeName] = ut
	return ut
}

// check validates a Go value against the node's type. *FieldError results
// carry only Want and Got; callers fill in the location.
func (n *node) check(v any) error {
	mismatch := func(want string) error { return &FieldError{Want: want, Got: goTypeName(v)} }
	switch t := n.typ.(type) {
	case ir.ID, ir.String:
		if _, ok := v.(string); !ok {
			return mismatch("string")
		}
	case ir.StringLiteral:
		s, ok := v.(string)
		if !ok {
			return mismatch("string")
		}
		if s != t.Value {
			return literalError(ExpectString, strconv.Quote(t.Value), n.label, "")
		}
	case ir.Null:
		if _, ok := v.(Unit); !ok {
			return mismatch("Unit")
		}
	case ir.Int64:
		if _, ok := v.(int64); !ok {
			return mismatch("int64")
		}
	case ir.IntLiteral:
		i, ok := v.(int64)
		if !ok {
			return mismatch("int64")
		}
		if i != t.Value {
			return literalError(ExpectInt, strconv.FormatInt(t.Value, 10), n.label, "")
		}
	case ir.Number:
		if _, ok := v.(float64); !ok {
			return mismatch("float64")
		}
	case ir.Bool:
		if _, ok := v.(bool); !ok {
			return mismatch("bool")
		}
	case ir.BoolLiteral:
		b, ok := v.(bool)
		if !ok {
			return mismatch("bool")
		}
		if b != t.Value {
			return literalError(ExpectBoolean, strconv.FormatBool(t.Value), n.label, "")
		}
	case *ir.Object:
		if r, ok := v.(*Record); !ok || r == nil || r.typ != n.record {
			return mismatch(n.record.typeName)
		}
	case *ir.Union:
		if u, ok := v.(*Union); !ok || u == nil || u.typ != n.union {
			return mismatch(n.union.typeName)
		}
	case *ir.Optional:
		o, ok := v.(Optional)
		if !ok {
			return mismatch("Optional")
		}
		if o.Present {
			return n.inner.check(o.Value)
		}
	}
	return nil
}

// zero returns the value a freshly built record holds for this node: literals
// hold their literal, objects a zero record, unions their first branch and
// optionals are absent.
func (n *node) zero() any {
	switch t := n.typ.(type) {
	case ir.ID, ir.String:
		return ""
	case ir.StringLiteral:
		return t.Value
	case ir.Null:
		return Unit{}
	case ir.Int64:
		return int64(0)
	case ir.IntLiteral:
		return t.Value
	case ir.Number:
		return float64(0)
	case ir.Bool:
		return false
	case ir.BoolLiteral:
		return t.Value
	case *ir.Object:
		return n.record.zero()
	case *ir.Union:
		return &Union{typ: n.union, variant: 1, payload: n.union.branches[0].zero()}
	case *ir.Optional:
		return Optional{}
	}
	return nil
}

func (rt *recordType) zero() *Record {
	r := &Record{typ: rt, values: make([]any, len(rt.fields))}
	for i, f := range rt.fields {
		r.values[i] = f.node.zero()
	}
	return r
}
