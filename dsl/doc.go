// Package dsl parses Convex validator schemas into the type model.
//
// Overview
//   - A schema is an identifier followed by a braced field list, each field a
//     validator call on the receiver v: v.id("table"), v.null(), v.int64(),
//     v.number(), v.boolean(), v.string(), v.literal(x), v.object({...}),
//     v.union(a, b, ...), v.optional(x).
//   - Tokens come from go/scanner, so identifiers, string and int literals
//     follow Go lexical rules. Keywords are accepted as field names.
//   - Every error is a *Error anchored at the offending token. Parsing never
//     returns a partial schema.
//
// Entry points
//   - Parse(src): exactly one schema.
//   - ParseFile(filename, src): any number of schemas with distinct names.
//
// Checks beyond the grammar
//   - unions need 2 or more branches and may not directly hold a union or an optional.
//   - optional may not directly wrap optional.
//   - field names are unique within one object.
//   - generated type names are unique across the file (ir.CheckNames).
package dsl
