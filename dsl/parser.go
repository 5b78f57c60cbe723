package dsl

import (
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"

	"github.com/reoring/convexmodel/internal/ir"
)

// Error is a parse error anchored to the offending token.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// ErrNoSchema is returned by Parse when the input declares no schema.
var ErrNoSchema = errors.New("dsl: no schema declared")

// Parse parses exactly one schema declaration:
//
//	User {
//	  name: v.string(),
//	  age: v.optional(v.int64()),
//	}
func Parse(src string) (ir.Field, error) {
	roots, err := ParseFile("", src)
	if err != nil {
		return ir.Field{}, err
	}
	switch len(roots) {
	case 0:
		return ir.Field{}, ErrNoSchema
	case 1:
		return roots[0].Field, nil
	default:
		return ir.Field{}, &Error{Pos: roots[1].position, Msg: "expected a single schema declaration"}
	}
}

// ParseFile parses a sequence of schema declarations. Root names must be
// unique and all generated type names across the file must resolve uniquely.
func ParseFile(filename string, src string) ([]Root, error) {
	p := newParser(filename, src)
	var roots []Root
	names := map[string]bool{}
	for p.tok != token.EOF {
		pos := p.pos
		f, err := p.parseSchema()
		if err != nil {
			return nil, err
		}
		if names[f.Name.ID] {
			return nil, p.errorAt(pos, "schema %q declared twice", f.Name.ID)
		}
		names[f.Name.ID] = true
		roots = append(roots, Root{Field: f, position: p.file.Position(pos)})
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := p.checkNames(roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// Root is a parsed top-level schema. It embeds the root field whose type is
// always an *ir.Object.
type Root struct {
	ir.Field
	position token.Position
}

// Position returns the location of the schema name.
func (r Root) Position() token.Position { return r.position }

type parser struct {
	file *token.File
	sc   scanner.Scanner
	err  *Error

	pos token.Pos
	tok token.Token
	lit string
}

func newParser(filename, src string) *parser {
	p := &parser{}
	fset := token.NewFileSet()
	p.file = fset.AddFile(filename, -1, len(src))
	p.sc.Init(p.file, []byte(src), func(pos token.Position, msg string) {
		if p.err == nil {
			p.err = &Error{Pos: pos, Msg: msg}
		}
	}, 0)
	p.next()
	return p
}

// next advances to the next significant token. Semicolons inserted by the
// scanner at line ends carry no meaning in the DSL and are skipped.
func (p *parser) next() {
	for {
		p.pos, p.tok, p.lit = p.sc.Scan()
		if p.tok == token.SEMICOLON && p.lit == "\n" {
			continue
		}
		return
	}
}

func (p *parser) errorAt(pos token.Pos, format string, args ...any) *Error {
	return &Error{Pos: p.file.Position(pos), Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) unexpected(want string) error {
	if p.err != nil {
		return p.err
	}
	found := p.tok.String()
	if p.lit != "" && p.tok != token.SEMICOLON {
		found = strconv.Quote(p.lit)
	}
	return p.errorAt(p.pos, "expected %s, found %s", want, found)
}

func (p *parser) expect(tok token.Token) (token.Pos, error) {
	pos := p.pos
	if p.tok != tok {
		return pos, p.unexpected(strconv.Quote(tok.String()))
	}
	p.next()
	return pos, nil
}

// ident accepts identifiers and Go keywords, since field ids such as "type"
// are common in schemas.
func (p *parser) ident() (string, token.Pos, error) {
	pos, lit := p.pos, p.lit
	if p.tok != token.IDENT && !p.tok.IsKeyword() {
		return "", pos, p.unexpected("identifier")
	}
	p.next()
	return lit, pos, nil
}

func (p *parser) offset(pos token.Pos) int { return p.file.Offset(pos) }

// Schema := Ident "{" FieldList "}"
func (p *parser) parseSchema() (ir.Field, error) {
	id, pos, err := p.ident()
	if err != nil {
		return ir.Field{}, err
	}
	name := ir.Name{ID: id}
	if _, err := p.expect(token.LBRACE); err != nil {
		return ir.Field{}, err
	}
	fields, err := p.parseFieldList(name, token.RBRACE)
	if err != nil {
		return ir.Field{}, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return ir.Field{}, err
	}
	return ir.Field{Name: name, Type: &ir.Object{Fields: fields}, Pos: p.offset(pos)}, nil
}

// FieldList := (Field ("," Field)* ","?)?
func (p *parser) parseFieldList(parent ir.Name, closing token.Token) ([]ir.Field, error) {
	var fields []ir.Field
	seen := map[string]bool{}
	for p.tok != closing && p.tok != token.EOF {
		pos := p.pos
		f, err := p.parseField(parent)
		if err != nil {
			return nil, err
		}
		if seen[f.Name.ID] {
			return nil, p.errorAt(pos, "field %q declared twice in %s", f.Name.ID, parent.Label())
		}
		seen[f.Name.ID] = true
		fields = append(fields, f)
		if p.tok != token.COMMA {
			break
		}
		p.next()
	}
	return fields, nil
}

// Field := Ident ":" Validator
func (p *parser) parseField(parent ir.Name) (ir.Field, error) {
	id, pos, err := p.ident()
	if err != nil {
		return ir.Field{}, err
	}
	name := parent.Child(id)
	if _, err := p.expect(token.COLON); err != nil {
		return ir.Field{}, err
	}
	t, err := p.parseValidator(name)
	if err != nil {
		return ir.Field{}, err
	}
	return ir.Field{Name: name, Type: t, Pos: p.offset(pos)}, nil
}

// Validator := "v" "." Method "(" Args ")"
func (p *parser) parseValidator(name ir.Name) (ir.Type, error) {
	if p.tok != token.IDENT || p.lit != "v" {
		return nil, p.unexpected("v.method()")
	}
	p.next()
	if _, err := p.expect(token.PERIOD); err != nil {
		return nil, err
	}
	method, mpos, err := p.ident()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var t ir.Type
	switch method {
	case "id":
		if p.tok != token.STRING {
			return nil, p.unexpected("table name string literal")
		}
		table, err := p.parseString()
		if err != nil {
			return nil, err
		}
		t = ir.ID{Table: table}
	case "null":
		t = ir.Null{}
	case "int64":
		t = ir.Int64{}
	case "number":
		t = ir.Number{}
	case "boolean":
		t = ir.Bool{}
	case "string":
		t = ir.String{}
	case "literal":
		if t, err = p.parseLiteral(); err != nil {
			return nil, err
		}
	case "optional":
		ipos := p.pos
		inner, err := p.parseValidator(name)
		if err != nil {
			return nil, err
		}
		if _, ok := inner.(*ir.Optional); ok {
			return nil, p.errorAt(ipos, "optional may not directly wrap another optional")
		}
		t = &ir.Optional{Inner: ir.Field{Name: name, Type: inner, Pos: p.offset(ipos)}}
	case "object":
		if _, err := p.expect(token.LBRACE); err != nil {
			return nil, err
		}
		fields, err := p.parseFieldList(name, token.RBRACE)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		t = &ir.Object{Fields: fields}
	case "union":
		if t, err = p.parseUnion(name, mpos); err != nil {
			return nil, err
		}
	default:
		return nil, p.errorAt(mpos, "unsupported validator call v.%s()", method)
	}

	if p.tok != token.RPAREN {
		if p.err == nil && isZeroArg(method) {
			return nil, p.errorAt(p.pos, "v.%s() takes no arguments", method)
		}
		return nil, p.unexpected(`")"`)
	}
	p.next()
	return t, nil
}

func isZeroArg(method string) bool {
	switch method {
	case "null", "int64", "number", "boolean", "string":
		return true
	}
	return false
}

// union := Validator ("," Validator)+ ","?
func (p *parser) parseUnion(name ir.Name, mpos token.Pos) (ir.Type, error) {
	u := &ir.Union{}
	for p.tok != token.RPAREN && p.tok != token.EOF {
		bpos := p.pos
		bname := ir.BranchName(name, len(u.Branches)+1)
		bt, err := p.parseValidator(bname)
		if err != nil {
			return nil, err
		}
		switch bt.(type) {
		case *ir.Union:
			return nil, p.errorAt(bpos, "unions may not directly contain other unions, put an object between them")
		case *ir.Optional:
			return nil, p.errorAt(bpos, "unions may not contain optional branches")
		}
		u.Branches = append(u.Branches, ir.Branch{Name: bname, Type: bt, Pos: p.offset(bpos)})
		if p.tok != token.COMMA {
			break
		}
		p.next()
	}
	if len(u.Branches) < 2 {
		return nil, p.errorAt(mpos, "unions must have 2 or more branches")
	}
	return u, nil
}

// parseLiteral accepts a string, boolean or (optionally negative) integer.
func (p *parser) parseLiteral() (ir.Type, error) {
	switch p.tok {
	case token.STRING:
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return ir.StringLiteral{Value: s}, nil
	case token.IDENT:
		switch p.lit {
		case "true", "false":
			b := p.lit == "true"
			p.next()
			return ir.BoolLiteral{Value: b}, nil
		}
	case token.SUB, token.INT:
		pos, neg := p.pos, p.tok == token.SUB
		if neg {
			p.next()
			if p.tok != token.INT {
				return nil, p.unexpected("integer literal")
			}
		}
		lit := p.lit
		if neg {
			lit = "-" + lit
		}
		i, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return nil, p.errorAt(pos, "invalid int literal %s: %v", lit, errors.Unwrap(err))
		}
		p.next()
		return ir.IntLiteral{Value: i}, nil
	}
	if p.err != nil {
		return nil, p.err
	}
	return nil, p.errorAt(p.pos, "unsupported literal %s, expected a string, boolean or integer", p.describe())
}

func (p *parser) parseString() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	s, err := strconv.Unquote(p.lit)
	if err != nil {
		return "", p.errorAt(p.pos, "invalid string literal %s", p.lit)
	}
	p.next()
	return s, nil
}

func (p *parser) describe() string {
	if p.lit != "" {
		return p.lit
	}
	return p.tok.String()
}

func (p *parser) checkNames(roots []Root) error {
	fields := make([]ir.Field, len(roots))
	for i, r := range roots {
		fields[i] = r.Field
	}
	err := ir.CheckNames(fields...)
	var clash *ir.NameClashError
	if errors.As(err, &clash) {
		return &Error{Pos: p.file.Position(p.file.Pos(clash.Second.Pos)), Msg: clash.Error()}
	}
	return err
}
