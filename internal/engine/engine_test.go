package engine

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/convexmodel/value"
)

type tokens struct {
	toks []Token
	i    int
}

func (s *tokens) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *tokens) Location() int64 { return int64(s.i) }

func TestBuild(t *testing.T) {
	src := &tokens{toks: []Token{
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "a"},
		{Kind: KindNumber, Number: "12"},
		{Kind: KindKey, String: "b"},
		{Kind: KindNumber, Number: "-0.5"},
		{Kind: KindKey, String: "c"},
		{Kind: KindBeginObject},
		{Kind: KindEndObject},
		{Kind: KindEndObject},
	}}
	v, err := Build(src, Options{})
	require.NoError(t, err)
	want := value.NewObject(
		value.M("a", value.Int64(12)),
		value.M("b", value.Float64(-0.5)),
		value.M("c", value.NewObject()),
	)
	require.True(t, value.Equal(want, v), v.String())
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(&tokens{toks: []Token{{Kind: KindBeginObject}, {Kind: KindString, String: "x"}}}, Options{})
	var be *BuildError
	require.ErrorAs(t, err, &be)
	require.Equal(t, CodeSyntax, be.Code)
	require.Equal(t, "expected object key", be.Message)

	_, err = Build(&tokens{toks: []Token{{Kind: KindBeginObject}}}, Options{})
	require.ErrorAs(t, err, &be)
	require.Equal(t, "parse_error at / (offset 1): unexpected EOF", be.Error())

	_, err = Build(&tokens{toks: []Token{{Kind: KindNull}, {Kind: KindNull}}}, Options{})
	require.ErrorAs(t, err, &be)
	require.Equal(t, "trailing data after value", be.Message)
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber("42", "/", -1)
	require.NoError(t, err)
	require.Equal(t, value.Int64(42), v)

	v, err = ParseNumber("1e3", "/", -1)
	require.NoError(t, err)
	require.Equal(t, value.Float64(1000), v)

	v, err = ParseNumber("99999999999999999999", "/", -1)
	require.NoError(t, err)
	require.Equal(t, value.Float64(1e20), v)

	_, err = ParseNumber("1x", "/n", 3)
	require.EqualError(t, err, `parse_error at /n (offset 3): invalid number "1x"`)
}

func TestPointer(t *testing.T) {
	require.Equal(t, "/", Pointer())
	require.Equal(t, "/a/b~1c/d~0e", Pointer("a", "b/c", "d~e"))
}
