package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/reoring/convexmodel"
)

const schemas = `User {
	name: v.string(),
	platform: v.union(v.literal("ios"), v.literal("android")),
	age: v.optional(v.int64()),
}

Event {
	body: v.union(
		v.object({ t: v.literal("one"), value: v.int64() }),
		v.object({ t: v.literal("two"), value: v.string() }),
	),
}
`

func runCmd(args ...string) (string, error) {
	var out bytes.Buffer
	log := logrus.New()
	log.SetOutput(io.Discard)
	cmd := newRoot(log)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.convex", schemas)
	out, err := runCmd("check", p)
	require.NoError(t, err)
	require.Equal(t, "User: User UserPlatform\nEvent: Event EventBody EventBodyVariant1 EventBodyVariant2\n", out)
}

func TestCheck_ParseError(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "bad.convex", `M { a: v.union(v.string()) }`)
	_, err := runCmd("check", p)
	require.ErrorContains(t, err, "unions must have 2 or more branches")
}

func TestCheck_DuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.convex", `M { a: v.string() }`)
	b := writeFile(t, dir, "b.convex", `M { b: v.string() }`)
	_, err := runCmd("check", a, b)
	require.ErrorContains(t, err, `schema "M" already declared`)
}

func TestGenerate_Flags(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.convex", schemas)
	target := filepath.Join(dir, "models", "app_gen.go")
	_, err := runCmd("generate", "-p", "models", "-o", target, p)
	require.NoError(t, err)
	code, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(code), "package models")
	require.Contains(t, string(code), "func UserFromValue(")
	require.Contains(t, string(code), "func (u EventBody) As2() (EventBodyVariant2, error)")
}

func TestGenerate_Stdout(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.convex", schemas)
	out, err := runCmd("generate", "-p", "models", p)
	require.NoError(t, err)
	require.Contains(t, out, "// Code generated by convexgen. DO NOT EDIT. Source: app.convex")
}

func TestGenerate_Config(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.convex", schemas)
	cfg := writeFile(t, dir, "convexgen.yaml", "package: models\noutput: gen/models.go\nschemas:\n  - app.convex\nstrict: true\n")
	_, err := runCmd("generate", "--config", cfg)
	require.NoError(t, err)
	code, err := os.ReadFile(filepath.Join(dir, "gen", "models.go"))
	require.NoError(t, err)
	require.Contains(t, string(code), "CodeUnknownKey")
}

func TestGenerate_ConfigStdout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.convex", schemas)
	cfg := writeFile(t, dir, "convexgen.yaml", "package: models\noutput: \"-\"\nschemas: [app.convex]\n")
	out, err := runCmd("generate", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "package models")
	require.NoFileExists(t, filepath.Join(dir, "-"))
}

func TestGenerate_MissingPackage(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.convex", schemas)
	_, err := runCmd("generate", p)
	require.ErrorContains(t, err, "package name is required")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "c.yaml", "package: p\nschemas: [a.convex, /abs/b.convex]\n")
	c, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.convex"), "/abs/b.convex"}, c.Schemas)
	require.Empty(t, c.Output)

	p = writeFile(t, dir, "stdout.yaml", "package: p\noutput: \"-\"\nschemas: [a.convex]\n")
	c, err = LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "-", c.Output)

	p = writeFile(t, dir, "empty.yaml", "package: p\n")
	_, err = LoadConfig(p)
	require.ErrorContains(t, err, "at least one schema")
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.convex", schemas)
	in := writeFile(t, dir, "user.json", `{"name":"ann","platform":"ios","extra":1}`)
	out, err := runCmd("decode", "--schema", p, "--model", "User", in)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, map[string]any{"name": "ann", "platform": "ios", "age": nil}, got)
}

func TestDecode_YAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.convex", schemas)
	in := writeFile(t, dir, "event.yaml", "body:\n  t: two\n  value: hi\n")
	out, err := runCmd("decode", "-s", p, "-m", "Event", in)
	require.NoError(t, err)
	require.JSONEq(t, `{"body":{"t":"two","value":"hi"}}`, out)
}

func TestDecode_Errors(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.convex", schemas)
	in := writeFile(t, dir, "user.json", `{"name":"ann","platform":"web"}`)

	_, err := runCmd("decode", "--schema", p, in)
	require.ErrorContains(t, err, "choose one with --model")

	_, err = runCmd("decode", "--schema", p, "--model", "Nope", in)
	require.ErrorContains(t, err, `no schema named "Nope"`)

	_, err = runCmd("decode", "--schema", p, "--model", "User", in)
	de, ok := convexmodel.AsDecodeError(err)
	require.True(t, ok)
	require.Equal(t, convexmodel.CodeUnionNoMatch, de.Code)
	require.Equal(t, "/platform", de.Path)

	strictIn := writeFile(t, dir, "strict.json", `{"name":"ann","platform":"ios","extra":1}`)
	_, err = runCmd("decode", "--strict", "--schema", p, "--model", "User", strictIn)
	de, ok = convexmodel.AsDecodeError(err)
	require.True(t, ok)
	require.Equal(t, convexmodel.CodeUnknownKey, de.Code)
}

func TestJSONSchema(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "user.convex", `User { name: v.string(), kind: v.literal("member") }`)
	out, err := runCmd("jsonschema", "--schema", p)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"title": "User",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"kind": {"type": "string", "const": "member"}
		},
		"required": ["name", "kind"]
	}`, out)
}

func TestVersion(t *testing.T) {
	out, err := runCmd("version")
	require.NoError(t, err)
	require.Equal(t, "convexgen version dev\n", out)
}
