package convexmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/convexmodel"
	js "github.com/reoring/convexmodel/jsonschema"
)

func TestJSONSchema(t *testing.T) {
	m := convexmodel.MustCompile(`User {
		_id: v.id("users"),
		age: v.optional(v.int64()),
		score: v.number(),
		admin: v.literal(false),
		level: v.literal(3),
		debt: v.literal(-2),
		none: v.literal(0),
		platform: v.union(v.literal("ios"), v.object({ os: v.string() }), v.null()),
	}`, convexmodel.WithUnknownKeys(convexmodel.UnknownStrict))

	out, err := js.Marshal(m.JSONSchema())
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"title": "User",
		"type": "object",
		"properties": {
			"_id": {"type": "string", "description": "id of table users"},
			"age": {"anyOf": [{"type": "number", "description": "int64, fractional part truncated"}, {"type": "null"}]},
			"score": {"type": "number"},
			"admin": {"type": "boolean", "const": false},
			"level": {"type": "number", "description": "int literal 3, fractional part truncated", "minimum": 3, "exclusiveMaximum": 4},
			"debt": {"type": "number", "description": "int literal -2, fractional part truncated", "maximum": -2, "exclusiveMinimum": -3},
			"none": {"type": "number", "description": "int literal 0, fractional part truncated", "exclusiveMinimum": -1, "exclusiveMaximum": 1},
			"platform": {"anyOf": [
				{"type": "string", "const": "ios"},
				{"type": "object", "properties": {"os": {"type": "string"}}, "required": ["os"], "additionalProperties": false},
				{"type": "null"}
			]}
		},
		"required": ["_id", "score", "admin", "level", "debt", "none", "platform"],
		"additionalProperties": false
	}`, string(out))
}

func TestJSONSchema_IntBoundsMatchDecoding(t *testing.T) {
	m := convexmodel.MustCompile(`M { n: v.literal(3) }`)
	_, err := m.DecodeJSON(context.Background(), []byte(`{"n":3.9}`))
	require.NoError(t, err)
	_, err = m.DecodeJSON(context.Background(), []byte(`{"n":4.0}`))
	require.Error(t, err)

	s := m.JSONSchema().Properties["n"]
	require.Equal(t, int64(3), *s.Minimum)
	require.Equal(t, int64(4), *s.ExclusiveMaximum)
}
