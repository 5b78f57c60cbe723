package convexmodel

import (
	"math"
	"strconv"

	"github.com/reoring/convexmodel/internal/ir"
	js "github.com/reoring/convexmodel/jsonschema"
)

// JSONSchema projects the model into a JSON Schema document. Optional fields
// are left out of "required" and also accept null; unions become anyOf in
// branch order. Integer fields are numbers since decoding truncates floats
// toward zero; an int literal n accepts the interval that truncates to n.
func (m *Model) JSONSchema() *js.Schema {
	s := schemaOf(m.root.Type, m.opts.unknown)
	s.Schema = js.Draft
	s.Title = m.Name()
	return s
}

func schemaOf(t ir.Type, unknown UnknownPolicy) *js.Schema {
	switch t := t.(type) {
	case ir.ID:
		return &js.Schema{Type: "string", Description: "id of table " + t.Table}
	case ir.String:
		return &js.Schema{Type: "string"}
	case ir.Null:
		return &js.Schema{Type: "null"}
	case ir.Int64:
		return &js.Schema{Type: "number", Description: "int64, fractional part truncated"}
	case ir.Number:
		return &js.Schema{Type: "number"}
	case ir.Bool:
		return &js.Schema{Type: "boolean"}
	case ir.StringLiteral:
		return &js.Schema{Type: "string", Const: t.Value}
	case ir.BoolLiteral:
		return &js.Schema{Type: "boolean", Const: t.Value}
	case ir.IntLiteral:
		return intLiteral(t.Value)
	case *ir.Object:
		s := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(t.Fields))}
		for _, f := range t.Fields {
			id := f.Name.FieldName()
			s.Properties[id] = schemaOf(f.Type, unknown)
			if _, opt := f.Type.(*ir.Optional); !opt {
				s.Required = append(s.Required, id)
			}
		}
		if unknown == UnknownStrict {
			s.AdditionalProperties = js.Bool(false)
		}
		return s
	case *ir.Union:
		s := &js.Schema{}
		for _, b := range t.Branches {
			s.AnyOf = append(s.AnyOf, schemaOf(b.Type, unknown))
		}
		return s
	case *ir.Optional:
		return &js.Schema{AnyOf: []*js.Schema{schemaOf(t.Inner.Type, unknown), {Type: "null"}}}
	}
	return &js.Schema{}
}

// intLiteral bounds the numbers truncating to v: [v, v+1) above zero,
// (v-1, v] below it and (-1, 1) for zero.
func intLiteral(v int64) *js.Schema {
	s := &js.Schema{Type: "number", Description: "int literal " + strconv.FormatInt(v, 10) + ", fractional part truncated"}
	switch {
	case v > 0:
		s.Minimum = js.Int(v)
		if v < math.MaxInt64 {
			s.ExclusiveMaximum = js.Int(v + 1)
		}
	case v < 0:
		s.Maximum = js.Int(v)
		if v > math.MinInt64 {
			s.ExclusiveMinimum = js.Int(v - 1)
		}
	default:
		s.ExclusiveMinimum = js.Int(-1)
		s.ExclusiveMaximum = js.Int(1)
	}
	return s
}
