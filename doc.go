// Package convexmodel compiles schemas written in the Convex validator DSL and
// converts between dynamic values and typed records:
//
//	m, err := convexmodel.Compile(`User {
//	  name: v.string(),
//	  platform: v.union(v.literal("ios"), v.literal("android")),
//	  age: v.optional(v.int64()),
//	}`)
//	rec, err := m.DecodeJSON(ctx, []byte(`{"name":"ann","platform":"ios"}`))
//	name, _ := rec.String("name")
//	out, _ := m.Encode(rec) // {"name":"ann","platform":"ios","age":null}
//
// Decoding is fail-fast: the first field that does not match aborts the whole
// object with a *DecodeError carrying a stable code, the field label and a
// JSON Pointer into the input. Union fields try their branches in declaration
// order and keep the first one that decodes completely, so narrower branches
// belong first. Encoding never wraps unions: a union field encodes as its
// payload.
//
// Package layout:
//   - dsl parses schema text into the type model under internal/ir.
//   - value is the dynamic value model; source reads JSON, YAML and Go values
//     into it.
//   - internal/gen emits statically typed Go for the same schemas; the Extract*
//     functions in this package are the decode rules shared with that code.
//   - cmd/convexgen is the command line front end.
package convexmodel
