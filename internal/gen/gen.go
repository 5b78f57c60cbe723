// Package gen emits statically typed Go for compiled schemas: one struct per
// object, one closed variant type per union, XFromValue decoders built on the
// Extract* rules of the runtime package and ToValue encoders.
package gen

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/reoring/convexmodel/internal/ir"
)

const (
	// RuntimePath is the import path of the package holding the decode rules
	// and error types referenced by generated code.
	RuntimePath = "github.com/reoring/convexmodel"
	// ValuePath is the import path of the dynamic value model.
	ValuePath = "github.com/reoring/convexmodel/value"

	header = "Code generated by convexgen. DO NOT EDIT."
)

// Options tunes the emitted code.
type Options struct {
	// Source names the schema file in the generated header.
	Source string
	// UnknownStrict makes generated decoders reject undeclared object keys.
	UnknownStrict bool
}

// Render emits one Go file declaring every type of the given roots in package
// pkg. Roots must come from one dsl.ParseFile call, or otherwise pass
// ir.CheckNames together.
func Render(pkg string, roots []ir.Field, opts Options) ([]byte, error) {
	if err := ir.CheckNames(roots...); err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}
	if err := checkDecls(roots); err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}
	f := jen.NewFile(pkg)
	if opts.Source != "" {
		f.HeaderComment(header + " Source: " + opts.Source)
	} else {
		f.HeaderComment(header)
	}
	f.ImportName(RuntimePath, "convexmodel")
	f.ImportName(ValuePath, "value")

	g := &generator{file: f, opts: opts}
	for _, root := range roots {
		if err := ir.Walk(root, g.decl); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("gen: render %s: %w", pkg, err)
	}
	return buf.Bytes(), nil
}

// DeclClashError reports a package-level identifier that two generated
// declarations would both define, e.g. the type of a field named "fromValue"
// below User and the decoder UserFromValue.
type DeclClashError struct {
	Ident  string
	First  ir.Field
	Second ir.Field
}

func (e *DeclClashError) Error() string {
	return fmt.Sprintf("generated identifier %q of %q clashes with %q", e.Ident, e.Second.Name.Label(), e.First.Name.Label())
}

// decls lists the package-level identifiers emitted for f.
func decls(f ir.Field) []string {
	tn := f.Name.TypeName()
	out := []string{tn, tn + "FromValue", "decode" + tn}
	if u, ok := ir.Unwrap(f.Type).(*ir.Union); ok {
		for i := range u.Branches {
			out = append(out, "New"+tn+ir.VariantName(i+1))
		}
	}
	return out
}

// checkDecls fails when two objects or unions would emit the same
// package-level identifier. Type names alone are covered by ir.CheckNames.
func checkDecls(roots []ir.Field) error {
	seen := map[string]ir.Field{}
	for _, root := range roots {
		err := ir.Walk(root, func(f ir.Field) error {
			if !ir.IsComplex(f.Type) {
				return nil
			}
			for _, id := range decls(f) {
				if prev, ok := seen[id]; ok && !prev.Name.Equal(f.Name) {
					return &DeclClashError{Ident: id, First: prev, Second: f}
				}
				seen[id] = f
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type generator struct {
	file *jen.File
	opts Options
}

// decl emits the declarations owned by one field: objects and unions get a
// type, everything else is inlined into its parent.
func (g *generator) decl(f ir.Field) error {
	switch t := ir.Unwrap(f.Type).(type) {
	case *ir.Object:
		g.object(f.Name, t)
	case *ir.Union:
		g.union(f.Name, t)
	}
	return nil
}

func rt(name string) *jen.Statement  { return jen.Qual(RuntimePath, name) }
func val(name string) *jen.Statement { return jen.Qual(ValuePath, name) }

// goType returns the Go type of a field: literals widen to their base type,
// optionals become pointers and null becomes struct{}.
func goType(f ir.Field) *jen.Statement {
	switch t := f.Type.(type) {
	case *ir.Optional:
		return jen.Op("*").Add(goType(t.Inner))
	case *ir.Object, *ir.Union:
		return jen.Id(f.Name.TypeName())
	}
	switch ir.BaseKind(f.Type) {
	case ir.KindString:
		return jen.String()
	case ir.KindInt64:
		return jen.Int64()
	case ir.KindNumber:
		return jen.Float64()
	case ir.KindBool:
		return jen.Bool()
	}
	return jen.Struct()
}

// goFieldNames maps field ids to exported Go identifiers, unique within one
// struct.
func goFieldNames(fields []ir.Field) []string {
	used := map[string]bool{"ToValue": true, "MarshalJSON": true}
	out := make([]string, len(fields))
	for i, f := range fields {
		name := ir.Capitalize(strings.TrimLeft(f.Name.FieldName(), "_"))
		if r, _ := utf8.DecodeRuneInString(name); !unicode.IsUpper(r) {
			name = "X" + name
		}
		for used[name] {
			name += "_"
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func (g *generator) object(name ir.Name, o *ir.Object) {
	tn := name.TypeName()
	names := goFieldNames(o.Fields)

	fields := make([]jen.Code, len(o.Fields))
	for i, f := range o.Fields {
		fields[i] = jen.Id(names[i]).Add(goType(f)).Tag(map[string]string{"json": f.Name.FieldName()})
	}
	g.file.Commentf("%s is the record type of %s.", tn, name.Label())
	g.file.Type().Id(tn).Struct(fields...)

	g.fromValue(tn)

	// decode
	zero := jen.Id(tn).Values()
	objVar := "obj"
	if len(o.Fields) == 0 && !g.opts.UnknownStrict {
		objVar = "_"
	}
	body := []jen.Code{
		jen.List(jen.Id(objVar), jen.Err()).Op(":=").Add(rt("ExtractObject")).Call(jen.Id("v"), jen.Id("ok"), jen.Lit(name.Label()), jen.Id("path")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err())),
	}
	if g.opts.UnknownStrict {
		body = append(body, g.unknownCheck(name, o, zero))
	}
	body = append(body, jen.Var().Id("out").Id(tn))
	for i, f := range o.Fields {
		id := f.Name.FieldName()
		target := jen.Id("out").Dot(names[i])
		stmts := []jen.Code{
			jen.List(jen.Id("fv"), jen.Id("ok")).Op(":=").Id("obj").Dot("Get").Call(jen.Lit(id)),
			jen.Id("fpath").Op(":=").Add(rt("ChildPath")).Call(jen.Id("path"), jen.Lit(id)),
		}
		stmts = append(stmts, decodeField(f, jen.Id("fv"), jen.Id("ok"), jen.Id("fpath"), zero, func(x jen.Code) jen.Code {
			return target.Clone().Op("=").Add(x)
		})...)
		body = append(body, jen.Block(stmts...))
	}
	body = append(body, jen.Return(jen.Id("out"), jen.Nil()))
	g.file.Func().Id("decode"+tn).Params(
		jen.Id("v").Add(val("Value")), jen.Id("ok").Bool(), jen.Id("path").String(),
	).Params(jen.Id(tn), jen.Error()).Block(body...)

	// encode
	enc := []jen.Code{jen.Id("obj").Op(":=").Op("&").Add(val("Object")).Values()}
	for i, f := range o.Fields {
		enc = append(enc, encodeField(f, jen.Id("r").Dot(names[i]), func(v jen.Code) jen.Code {
			return jen.Id("obj").Dot("Set").Call(jen.Lit(f.Name.FieldName()), v)
		}))
	}
	enc = append(enc, jen.Return(val("ObjectValue").Call(jen.Id("obj"))))
	g.file.Comment("ToValue encodes the record. Absent optionals encode as null.")
	g.file.Func().Params(jen.Id("r").Id(tn)).Id("ToValue").Params().Add(val("Value")).Block(enc...)
	g.marshalJSON(tn, "r")
}

func (g *generator) unknownCheck(name ir.Name, o *ir.Object, zero jen.Code) jen.Code {
	known := make([]jen.Code, len(o.Fields))
	for i, f := range o.Fields {
		known[i] = jen.Lit(f.Name.FieldName())
	}
	var cases []jen.Code
	if len(known) > 0 {
		cases = append(cases, jen.Case(known...))
	}
	cases = append(cases, jen.Default().Return(zero, jen.Op("&").Add(rt("DecodeError")).Values(jen.Dict{
		jen.Id("Code"):     rt("CodeUnknownKey"),
		jen.Id("Label"):    jen.Lit(name.Label() + ".").Op("+").Id("k"),
		jen.Id("Path"):     rt("ChildPath").Call(jen.Id("path"), jen.Id("k")),
		jen.Id("Expected"): rt("ExpectObject"),
	})))
	return jen.For(jen.List(jen.Id("_"), jen.Id("k")).Op(":=").Range().Id("obj").Dot("Keys").Call()).Block(
		jen.Switch(jen.Id("k")).Block(cases...),
	)
}

func (g *generator) fromValue(tn string) {
	g.file.Commentf("%sFromValue decodes v into a %s.", tn, tn)
	g.file.Func().Id(tn+"FromValue").Params(jen.Id("v").Add(val("Value"))).Params(jen.Id(tn), jen.Error()).Block(
		jen.Return(jen.Id("decode"+tn).Call(jen.Id("v"), jen.True(), jen.Lit(""))),
	)
}

func (g *generator) marshalJSON(tn, recv string) {
	g.file.Func().Params(jen.Id(recv).Id(tn)).Id("MarshalJSON").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Return(jen.Id(recv).Dot("ToValue").Call().Dot("MarshalJSON").Call()),
	)
}

// decodeCall returns the expression decoding (v, ok, path) as t, yielding
// (value, error). Null has no such form and is handled by decodeField.
func decodeCall(f ir.Field, v, ok, path jen.Code) *jen.Statement {
	label := jen.Lit(f.Name.Label())
	switch t := f.Type.(type) {
	case ir.ID, ir.String:
		return rt("ExtractString").Call(v, ok, label, path)
	case ir.Int64:
		return rt("ExtractInt64").Call(v, ok, label, path)
	case ir.Number:
		return rt("ExtractNumber").Call(v, ok, label, path)
	case ir.Bool:
		return rt("ExtractBool").Call(v, ok, label, path)
	case ir.StringLiteral:
		return rt("ExtractStringLiteral").Call(v, ok, jen.Lit(t.Value), label, path)
	case ir.BoolLiteral:
		return rt("ExtractBoolLiteral").Call(v, ok, jen.Lit(t.Value), label, path)
	case ir.IntLiteral:
		return rt("ExtractIntLiteral").Call(v, ok, jen.Lit(t.Value), label, path)
	case *ir.Object, *ir.Union:
		return jen.Id("decode"+f.Name.TypeName()).Call(v, ok, path)
	}
	panic(fmt.Sprintf("gen: no decode call for %s", f.Type.Kind()))
}

// decodeField emits statements decoding f and handing the result to assign.
// Errors return zero.
func decodeField(f ir.Field, v, ok, path, zero jen.Code, assign func(jen.Code) jen.Code) []jen.Code {
	switch t := f.Type.(type) {
	case *ir.Optional:
		inner := decodeField(t.Inner, v, jen.True(), path, zero, func(x jen.Code) jen.Code {
			return assign(jen.Op("&").Add(x))
		})
		return []jen.Code{jen.If(jen.Op("!").Add(rt("IsAbsent")).Call(v, ok)).Block(inner...)}
	case ir.Null:
		return []jen.Code{
			jen.If(jen.Err().Op(":=").Add(rt("ExtractNull")).Call(v, ok, jen.Lit(f.Name.Label()), path), jen.Err().Op("!=").Nil()).Block(
				jen.Return(zero, jen.Err()),
			),
			jen.Id("x").Op(":=").Struct().Values(),
			assign(jen.Id("x")),
		}
	}
	return []jen.Code{
		jen.List(jen.Id("x"), jen.Err()).Op(":=").Add(decodeCall(f, v, ok, path)),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err())),
		assign(jen.Id("x")),
	}
}

// encodeExpr returns the value.Value expression for x of type t.
func encodeExpr(t ir.Type, x jen.Code) jen.Code {
	switch t.(type) {
	case *ir.Object, *ir.Union:
		return jen.Add(x).Dot("ToValue").Call()
	}
	switch ir.BaseKind(t) {
	case ir.KindString:
		return val("String").Call(x)
	case ir.KindInt64:
		return val("Int64").Call(x)
	case ir.KindNumber:
		return val("Float64").Call(x)
	case ir.KindBool:
		return val("Bool").Call(x)
	}
	return val("Null").Call()
}

// encodeField emits the statement storing f's encoding through set.
func encodeField(f ir.Field, x *jen.Statement, set func(jen.Code) jen.Code) jen.Code {
	o, ok := f.Type.(*ir.Optional)
	if !ok {
		return set(encodeExpr(f.Type, x))
	}
	inner := jen.Op("*").Add(x.Clone())
	if ir.IsComplex(o.Inner.Type) {
		inner = x.Clone()
	}
	return jen.If(x.Clone().Op("!=").Nil()).Block(
		set(encodeExpr(o.Inner.Type, inner)),
	).Else().Block(
		set(val("Null").Call()),
	)
}

// union emits a closed variant type. The zero value holds no variant and
// encodes as null.
func (g *generator) union(name ir.Name, u *ir.Union) {
	tn := name.TypeName()
	g.file.Commentf("%s holds one branch of the union %s. Branches are numbered from 1 in declaration order.", tn, name.Label())
	g.file.Type().Id(tn).Struct(
		jen.Id("variant").Int(),
		jen.Id("value").Interface(),
	)

	for i, b := range u.Branches {
		n := i + 1
		bf := ir.Field{Name: b.Name, Type: b.Type, Pos: b.Pos}
		payload := goType(bf)
		vn := ir.VariantName(n)

		g.file.Func().Id("New"+tn+vn).Params(jen.Id("v").Add(payload.Clone())).Id(tn).Block(
			jen.Return(jen.Id(tn).Values(jen.Dict{jen.Id("variant"): jen.Lit(n), jen.Id("value"): jen.Id("v")})),
		)

		g.file.Commentf("As%d returns the %s payload, or an error when u holds another branch.", n, vn)
		g.file.Func().Params(jen.Id("u").Id(tn)).Id(fmt.Sprintf("As%d", n)).Params().Params(payload.Clone(), jen.Error()).Block(
			jen.If(jen.Id("u").Dot("variant").Op("!=").Lit(n)).Block(
				jen.Var().Id("zero").Add(payload.Clone()),
				jen.Return(jen.Id("zero"), jen.Op("&").Add(rt("AccessError")).Values(jen.Dict{
					jen.Id("TypeName"): jen.Lit(tn),
					jen.Id("Variant"):  jen.Lit(vn),
				})),
			),
			jen.Return(jen.Id("u").Dot("value").Assert(payload.Clone()), jen.Nil()),
		)
	}

	g.file.Comment("Variant returns the 1-based branch index, or 0 for the zero value.")
	g.file.Func().Params(jen.Id("u").Id(tn)).Id("Variant").Params().Int().Block(
		jen.Return(jen.Id("u").Dot("variant")),
	)

	g.fromValue(tn)

	// decode: first branch that decodes completely wins
	zero := jen.Id(tn).Values()
	label := name.Label()
	body := []jen.Code{
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(zero, jen.Op("&").Add(rt("DecodeError")).Values(jen.Dict{
				jen.Id("Code"):     rt("CodeRequired"),
				jen.Id("Label"):    jen.Lit(label),
				jen.Id("Path"):     jen.Id("path"),
				jen.Id("Expected"): rt("ExpectUnion"),
			})),
		),
		jen.Id("errs").Op(":=").Make(jen.Index().Error(), jen.Lit(0), jen.Lit(len(u.Branches))),
	}
	for i, b := range u.Branches {
		n := i + 1
		bf := ir.Field{Name: b.Name, Type: b.Type, Pos: b.Pos}
		matched := func(x jen.Code) jen.Code {
			return jen.Return(jen.Id(tn).Values(jen.Dict{jen.Id("variant"): jen.Lit(n), jen.Id("value"): x}), jen.Nil())
		}
		if _, isNull := b.Type.(ir.Null); isNull {
			body = append(body, jen.If(
				jen.Err().Op(":=").Add(rt("ExtractNull")).Call(jen.Id("v"), jen.True(), jen.Lit(b.Name.Label()), jen.Id("path")),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Id("errs").Op("=").Append(jen.Id("errs"), jen.Err()),
			).Else().Block(
				matched(jen.Struct().Values()),
			))
			continue
		}
		body = append(body, jen.If(
			jen.List(jen.Id("x"), jen.Err()).Op(":=").Add(decodeCall(bf, jen.Id("v"), jen.True(), jen.Id("path"))),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Id("errs").Op("=").Append(jen.Id("errs"), jen.Err()),
		).Else().Block(
			matched(jen.Id("x")),
		))
	}
	body = append(body, jen.Return(zero, jen.Op("&").Add(rt("DecodeError")).Values(jen.Dict{
		jen.Id("Code"):     rt("CodeUnionNoMatch"),
		jen.Id("Label"):    jen.Lit(label),
		jen.Id("Path"):     jen.Id("path"),
		jen.Id("Expected"): rt("ExpectUnion"),
		jen.Id("Branches"): jen.Id("errs"),
	})))
	g.file.Func().Id("decode"+tn).Params(
		jen.Id("v").Add(val("Value")), jen.Id("ok").Bool(), jen.Id("path").String(),
	).Params(jen.Id(tn), jen.Error()).Block(body...)

	// encode: the payload alone, never a variant wrapper
	cases := make([]jen.Code, 0, len(u.Branches))
	for i, b := range u.Branches {
		bf := ir.Field{Name: b.Name, Type: b.Type, Pos: b.Pos}
		x := jen.Id("u").Dot("value").Assert(goType(bf))
		if _, isNull := b.Type.(ir.Null); isNull {
			cases = append(cases, jen.Case(jen.Lit(i+1)).Block(jen.Return(val("Null").Call())))
			continue
		}
		cases = append(cases, jen.Case(jen.Lit(i+1)).Block(jen.Return(encodeExpr(b.Type, x))))
	}
	g.file.Comment("ToValue encodes the held payload without a variant wrapper.")
	g.file.Func().Params(jen.Id("u").Id(tn)).Id("ToValue").Params().Add(val("Value")).Block(
		jen.Switch(jen.Id("u").Dot("variant")).Block(cases...),
		jen.Return(val("Null").Call()),
	)
	g.marshalJSON(tn, "u")
}
