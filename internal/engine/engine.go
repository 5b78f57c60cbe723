package engine

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reoring/convexmodel/value"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Options controls enforcement while building a value.
type Options struct {
	// MaxDepth limits object nesting; zero means unlimited.
	MaxDepth int
	// AllowDuplicateKeys keeps the last occurrence instead of failing.
	AllowDuplicateKeys bool
}

// Error codes reported by BuildError.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeMaxDepth     = "max_depth"
	CodeUnsupported  = "unsupported"
	CodeSyntax       = "parse_error"
)

// BuildError reports an input that cannot be projected onto value.Value.
type BuildError struct {
	Code    string
	Path    string // JSON Pointer
	Offset  int64
	Message string
}

func (e *BuildError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at %s (offset %d): %s", e.Code, e.Path, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

// Build reads exactly one value from src. Arrays are rejected since the value
// model has no list kind. Integral number literals become Int64, all other
// numbers Float64.
func Build(src TokenSource, opt Options) (value.Value, error) {
	b := &builder{src: src, opt: opt}
	tok, err := src.NextToken()
	if err != nil {
		return value.Value{}, b.syntax(err)
	}
	v, err := b.value(tok, "", 0)
	if err != nil {
		return value.Value{}, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		return value.Value{}, &BuildError{Code: CodeSyntax, Path: "/", Offset: src.Location(), Message: "trailing data after value"}
	}
	return v, nil
}

type builder struct {
	src TokenSource
	opt Options
}

func (b *builder) syntax(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &BuildError{Code: CodeSyntax, Path: "/", Offset: b.src.Location(), Message: err.Error()}
}

func (b *builder) value(tok Token, path string, depth int) (value.Value, error) {
	switch tok.Kind {
	case KindBeginObject:
		return b.object(tok, path, depth+1)
	case KindBeginArray:
		return value.Value{}, &BuildError{Code: CodeUnsupported, Path: pointer(path), Offset: tok.Offset, Message: "arrays are not supported"}
	case KindString:
		return value.String(tok.String), nil
	case KindNumber:
		return ParseNumber(tok.Number, pointer(path), tok.Offset)
	case KindBool:
		return value.Bool(tok.Bool), nil
	case KindNull:
		return value.Null(), nil
	}
	return value.Value{}, &BuildError{Code: CodeSyntax, Path: pointer(path), Offset: tok.Offset, Message: "unexpected token"}
}

func (b *builder) object(open Token, path string, depth int) (value.Value, error) {
	if b.opt.MaxDepth > 0 && depth > b.opt.MaxDepth {
		return value.Value{}, &BuildError{Code: CodeMaxDepth, Path: pointer(path), Offset: open.Offset, Message: "max depth exceeded"}
	}
	obj := &value.Object{}
	for {
		tok, err := b.src.NextToken()
		if err != nil {
			return value.Value{}, b.syntax(err)
		}
		if tok.Kind == KindEndObject {
			return value.ObjectValue(obj), nil
		}
		if tok.Kind != KindKey {
			return value.Value{}, &BuildError{Code: CodeSyntax, Path: pointer(path), Offset: tok.Offset, Message: "expected object key"}
		}
		child := path + "/" + escape(tok.String)
		if _, dup := obj.Get(tok.String); dup && !b.opt.AllowDuplicateKeys {
			return value.Value{}, &BuildError{Code: CodeDuplicateKey, Path: child, Offset: tok.Offset, Message: "duplicate key " + strconv.Quote(tok.String)}
		}
		vt, err := b.src.NextToken()
		if err != nil {
			return value.Value{}, b.syntax(err)
		}
		v, err := b.value(vt, child, depth)
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(tok.String, v)
	}
}

// ParseNumber converts a number literal into Int64 when it is an integer that
// fits, and Float64 otherwise.
func ParseNumber(lit, path string, offset int64) (value.Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return value.Int64(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return value.Value{}, &BuildError{Code: CodeSyntax, Path: path, Offset: offset, Message: "invalid number " + strconv.Quote(lit)}
	}
	return value.Float64(f), nil
}

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// escape applies JSON Pointer escaping to one reference token.
func escape(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// Pointer joins reference tokens into a JSON Pointer.
func Pointer(tokens ...string) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(escape(t))
	}
	return pointer(b.String())
}
