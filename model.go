package convexmodel

import (
	"context"
	"fmt"

	"github.com/reoring/convexmodel/dsl"
	"github.com/reoring/convexmodel/internal/ir"
	"github.com/reoring/convexmodel/source"
	"github.com/reoring/convexmodel/value"
)

// Model is a compiled schema. It is immutable and safe for concurrent use.
type Model struct {
	root     ir.Field
	rootType *recordType
	records  map[string]*recordType
	unions   map[string]*unionType
	opts     options
}

// Compile parses DSL text declaring exactly one schema and compiles it.
func Compile(src string, opts ...Option) (*Model, error) {
	root, err := dsl.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("convexmodel: compile: %w", err)
	}
	return newModel(root, buildOptions(opts)), nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, opts ...Option) *Model {
	m, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// CompileFile compiles every schema declared in src. filename is used in
// error positions only. Type names are unique across the whole file.
func CompileFile(filename, src string, opts ...Option) ([]*Model, error) {
	roots, err := dsl.ParseFile(filename, src)
	if err != nil {
		return nil, fmt.Errorf("convexmodel: compile %s: %w", filename, err)
	}
	o := buildOptions(opts)
	models := make([]*Model, len(roots))
	for i, r := range roots {
		models[i] = newModel(r.Field, o)
	}
	return models, nil
}

func newModel(root ir.Field, o options) *Model {
	p := newPlanner(o)
	n := p.field(root)
	return &Model{root: root, rootType: n.record, records: p.records, unions: p.unions, opts: o}
}

// Name returns the schema identifier, e.g. "User".
func (m *Model) Name() string { return m.root.Name.FieldName() }

// TypeNames lists the record and union type names in declaration order,
// starting with the root.
func (m *Model) TypeNames() []string { return ir.TypeNames(m.root) }

// Decode converts a dynamic value into a record of the root type.
func (m *Model) Decode(ctx context.Context, v value.Value) (*Record, error) {
	x, err := m.rootType.decode(ctx, v, true, "")
	if err != nil {
		return nil, err
	}
	return x.(*Record), nil
}

// DecodeJSON reads one JSON document and decodes it.
func (m *Model) DecodeJSON(ctx context.Context, data []byte) (*Record, error) {
	v, err := source.JSON(data, m.opts.source)
	if err != nil {
		return nil, fmt.Errorf("convexmodel: read json: %w", err)
	}
	return m.Decode(ctx, v)
}

// DecodeYAML reads one YAML document and decodes it.
func (m *Model) DecodeYAML(ctx context.Context, data []byte) (*Record, error) {
	v, err := source.YAML(data, m.opts.source)
	if err != nil {
		return nil, fmt.Errorf("convexmodel: read yaml: %w", err)
	}
	return m.Decode(ctx, v)
}

// DecodeAny decodes plain Go values such as the output of json.Unmarshal into
// an any.
func (m *Model) DecodeAny(ctx context.Context, v any) (*Record, error) {
	dv, err := source.FromAny(v)
	if err != nil {
		return nil, fmt.Errorf("convexmodel: read value: %w", err)
	}
	return m.Decode(ctx, dv)
}

// Encode converts a record of this model back into a dynamic value. It fails
// only for records built by another Model.
func (m *Model) Encode(r *Record) (value.Value, error) {
	if !m.owns(r) {
		return value.Value{}, ErrForeignRecord
	}
	return r.Value(), nil
}

func (m *Model) owns(r *Record) bool {
	return r != nil && m.records[r.typ.typeName] == r.typ
}

// NewRecord returns a record of the named type holding zero values: literal
// fields hold their literal, nested objects zero records, unions their first
// branch and optionals are absent.
func (m *Model) NewRecord(typeName string) (*Record, error) {
	rt, ok := m.records[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	return rt.zero(), nil
}

// NewUnion returns the named union holding payload as its 1-based variant.
func (m *Model) NewUnion(typeName string, variant int, payload any) (*Union, error) {
	ut, ok := m.unions[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	if variant < 1 || variant > len(ut.branches) {
		return nil, &FieldError{TypeName: typeName, Field: ir.VariantName(variant)}
	}
	if err := ut.branches[variant-1].check(payload); err != nil {
		if fe, ok := err.(*FieldError); ok {
			fe.TypeName, fe.Field = typeName, ir.VariantName(variant)
		}
		return nil, err
	}
	return &Union{typ: ut, variant: variant, payload: payload}, nil
}
