// Package source projects serialized inputs (JSON, YAML) and plain Go values
// onto the dynamic value model consumed by compiled models.
package source

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/convexmodel/internal/engine"
	"github.com/reoring/convexmodel/value"
)

// Error reports input that cannot be projected onto value.Value, with a JSON
// Pointer to the offending location.
type Error = eng.BuildError

// Error codes carried by Error.
const (
	CodeDuplicateKey = eng.CodeDuplicateKey
	CodeMaxDepth     = eng.CodeMaxDepth
	CodeUnsupported  = eng.CodeUnsupported
	CodeSyntax       = eng.CodeSyntax
)

// Options bundles input enforcement settings.
type Options struct {
	// MaxDepth limits object nesting; zero means unlimited.
	MaxDepth int
	// AllowDuplicateKeys keeps the last occurrence of a repeated key instead
	// of rejecting the input.
	AllowDuplicateKeys bool
}

func (o Options) engine() eng.Options {
	return eng.Options{MaxDepth: o.MaxDepth, AllowDuplicateKeys: o.AllowDuplicateKeys}
}

// JSON decodes one JSON document into a Value. The document is checked with
// go-json's validator first since the token stream does not enforce commas
// and colons.
func JSON(data []byte, opts ...Options) (value.Value, error) {
	if !j.Valid(data) {
		return value.Value{}, &eng.BuildError{Code: eng.CodeSyntax, Path: "/", Offset: -1, Message: "invalid JSON document"}
	}
	return eng.Build(newJSONTokens(bytes.NewReader(data)), pick(opts).engine())
}

// JSONReader reads r to the end and decodes it like JSON.
func JSONReader(r io.Reader, opts ...Options) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return value.Value{}, err
	}
	return JSON(data, opts...)
}

func pick(opts []Options) Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return Options{}
}

// ---- engine.TokenSource implementation using go-json Decoder ----

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type jsonTokens struct {
	dec   *j.Decoder
	stack []frame
}

func newJSONTokens(r io.Reader) *jsonTokens {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &jsonTokens{dec: dec}
}

// valueDone marks the enclosing object as expecting a key again after a
// member value completed.
func (s *jsonTokens) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *jsonTokens) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return eng.Token{Kind: eng.KindBeginObject, Offset: -1}, nil
		case '}':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.valueDone()
			return eng.Token{Kind: eng.KindEndObject, Offset: -1}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return eng.Token{Kind: eng.KindBeginArray, Offset: -1}, nil
		case ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.valueDone()
			return eng.Token{Kind: eng.KindEndArray, Offset: -1}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return eng.Token{Kind: eng.KindKey, String: v, Offset: -1}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: -1}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case nil:
		s.valueDone()
		return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
}

func (s *jsonTokens) Location() int64 { return -1 }
