package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/convexmodel/dsl"
	"github.com/reoring/convexmodel/internal/ir"
)

func TestParse_AllValidators(t *testing.T) {
	root, err := dsl.Parse(`User {
		_id: v.id("users"),
		nothing: v.null(),
		count: v.int64(),
		score: v.number(),
		admin: v.boolean(),
		name: v.string(),
		kind: v.literal("member"),
		flag: v.literal(true),
		level: v.literal(-3),
		hex: v.literal(0x10),
		age: v.optional(v.int64()),
		type: v.object({ func: v.string() }),
		value: v.union(v.string(), v.object({ a: v.int64() }),),
	}`)
	require.NoError(t, err)
	require.Equal(t, ir.Name{ID: "User"}, root.Name)

	obj := root.Type.(*ir.Object)
	want := []ir.Type{
		ir.ID{Table: "users"},
		ir.Null{},
		ir.Int64{},
		ir.Number{},
		ir.Bool{},
		ir.String{},
		ir.StringLiteral{Value: "member"},
		ir.BoolLiteral{Value: true},
		ir.IntLiteral{Value: -3},
		ir.IntLiteral{Value: 16},
	}
	require.Len(t, obj.Fields, 13)
	for i, w := range want {
		require.Equal(t, w, obj.Fields[i].Type, obj.Fields[i].Name.Label())
	}

	age := obj.Fields[10]
	opt := age.Type.(*ir.Optional)
	require.Equal(t, ir.Int64{}, opt.Inner.Type)
	require.True(t, opt.Inner.Name.Equal(age.Name))

	typ := obj.Fields[11]
	require.Equal(t, "type", typ.Name.FieldName())
	nested := typ.Type.(*ir.Object)
	require.Equal(t, ir.Name{Path: []string{"User", "type"}, ID: "func"}, nested.Fields[0].Name)

	u := obj.Fields[12].Type.(*ir.Union)
	require.Len(t, u.Branches, 2)
	require.Equal(t, "UserValueVariant2", u.Branches[1].Name.TypeName())
	branch := u.Branches[1].Type.(*ir.Object)
	require.Equal(t, "User.value.Variant2.a", branch.Fields[0].Name.Label())
}

func TestParse_Positions(t *testing.T) {
	src := "M {\n  a: v.string(),\n  b: v.int64(),\n}"
	root, err := dsl.Parse(src)
	require.NoError(t, err)
	obj := root.Type.(*ir.Object)
	require.Equal(t, 0, root.Pos)
	require.Equal(t, 6, obj.Fields[0].Pos)
	require.Equal(t, 23, obj.Fields[1].Pos)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"receiver", `M { a: x.string() }`, `1:8: expected v.method(), found "x"`},
		{"unknown method", `M { a: v.array(v.string()) }`, `1:10: unsupported validator call v.array()`},
		{"id without table", `M { a: v.id() }`, `1:13: expected table name string literal, found )`},
		{"id with ident", `M { a: v.id(users) }`, `1:13: expected table name string literal, found "users"`},
		{"zero arg", `M { a: v.string("x") }`, `1:17: v.string() takes no arguments`},
		{"float literal", `M { a: v.literal(1.5) }`, `1:18: unsupported literal 1.5, expected a string, boolean or integer`},
		{"null literal", `M { a: v.literal(null) }`, `1:18: unsupported literal null, expected a string, boolean or integer`},
		{"int overflow", `M { a: v.literal(99999999999999999999) }`, `1:18: invalid int literal 99999999999999999999: value out of range`},
		{"union arity", `M { a: v.union(v.string()) }`, `1:10: unions must have 2 or more branches`},
		{"empty union", `M { a: v.union() }`, `1:10: unions must have 2 or more branches`},
		{"nested union", `M { a: v.union(v.string(), v.union(v.int64(), v.null())) }`, `1:28: unions may not directly contain other unions, put an object between them`},
		{"optional branch", `M { a: v.union(v.string(), v.optional(v.int64())) }`, `1:28: unions may not contain optional branches`},
		{"double optional", `M { a: v.optional(v.optional(v.int64())) }`, `1:19: optional may not directly wrap another optional`},
		{"duplicate field", `M { a: v.string(), a: v.int64() }`, `1:20: field "a" declared twice in M`},
		{"missing colon", `M { a v.string() }`, `1:7: expected ":", found "v"`},
		{"unterminated", `M { a: v.string(),`, `1:19: expected "}", found EOF`},
		{"trailing garbage", `M { a: v.string() } )`, `1:21: expected identifier, found )`},
		{"scanner", `M { a: v.literal("x) }`, `1:18: string literal not terminated`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dsl.Parse(tt.src)
			var pe *dsl.Error
			require.ErrorAs(t, err, &pe)
			require.Equal(t, tt.msg, pe.Error())
		})
	}
}

func TestParse_SingleSchema(t *testing.T) {
	_, err := dsl.Parse("")
	require.ErrorIs(t, err, dsl.ErrNoSchema)

	_, err = dsl.Parse("A { a: v.string() }\nB { b: v.string() }")
	var pe *dsl.Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "2:1: expected a single schema declaration", pe.Error())
}

func TestParseFile(t *testing.T) {
	roots, err := dsl.ParseFile("app.convex", `
User { name: v.string() }
Post {
	title: v.string(),
	author: v.id("users"),
}
`)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.Equal(t, "User", roots[0].Name.FieldName())
	require.Equal(t, "app.convex:2:1", roots[0].Position().String())
	require.Equal(t, "Post", roots[1].Name.FieldName())
	require.Equal(t, 3, roots[1].Position().Line)

	_, err = dsl.ParseFile("app.convex", "A { a: v.string() }\nA { b: v.string() }")
	var pe *dsl.Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, `app.convex:2:1: schema "A" declared twice`, pe.Error())
}

func TestParseFile_NameClash(t *testing.T) {
	// The root "MA" and the nested object "M.a" both resolve to "MA".
	_, err := dsl.ParseFile("x.convex", "M { a: v.object({}) }\nMA { b: v.string() }")
	var pe *dsl.Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 2, pe.Pos.Line)
	require.Contains(t, pe.Msg, `generated type name "MA"`)

	// Identical nested names under sibling union branches are legal.
	_, err = dsl.ParseFile("x.convex", `M { u: v.union(v.object({ x: v.object({}) }), v.object({ x: v.object({}) })) }`)
	require.NoError(t, err)
}
