package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/convexmodel/internal/engine"
	"github.com/reoring/convexmodel/value"
)

// YAML decodes the first document of data into a Value. Mapping key order is
// preserved; !!int scalars become Int64 and !!float scalars Float64.
func YAML(data []byte, opts ...Options) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return value.Null(), nil
		}
		return value.Value{}, &eng.BuildError{Code: eng.CodeSyntax, Path: "/", Offset: -1, Message: err.Error()}
	}
	y := yamlBuilder{opt: pick(opts)}
	return y.node(&doc, nil, 0)
}

type yamlBuilder struct {
	opt Options
}

func (y yamlBuilder) fail(code string, n *yaml.Node, path []string, format string, args ...any) error {
	return &eng.BuildError{
		Code:    code,
		Path:    eng.Pointer(path...),
		Offset:  -1,
		Message: fmt.Sprintf("line %d: ", n.Line) + fmt.Sprintf(format, args...),
	}
}

func (y yamlBuilder) node(n *yaml.Node, path []string, depth int) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return y.node(n.Content[0], path, depth)
	case yaml.AliasNode:
		return y.node(n.Alias, path, depth)
	case yaml.SequenceNode:
		return value.Value{}, y.fail(eng.CodeUnsupported, n, path, "sequences are not supported")
	case yaml.MappingNode:
		return y.mapping(n, path, depth+1)
	case yaml.ScalarNode:
		return y.scalar(n, path)
	}
	return value.Value{}, y.fail(eng.CodeUnsupported, n, path, "unsupported node kind %d", n.Kind)
}

func (y yamlBuilder) mapping(n *yaml.Node, path []string, depth int) (value.Value, error) {
	if y.opt.MaxDepth > 0 && depth > y.opt.MaxDepth {
		return value.Value{}, y.fail(eng.CodeMaxDepth, n, path, "max depth exceeded")
	}
	obj := &value.Object{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return value.Value{}, y.fail(eng.CodeUnsupported, k, path, "mapping keys must be scalars")
		}
		child := append(path[:len(path):len(path)], k.Value)
		if _, dup := obj.Get(k.Value); dup && !y.opt.AllowDuplicateKeys {
			return value.Value{}, y.fail(eng.CodeDuplicateKey, k, child, "duplicate key %s", strconv.Quote(k.Value))
		}
		mv, err := y.node(v, child, depth)
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(k.Value, mv)
	}
	return value.ObjectValue(obj), nil
}

func (y yamlBuilder) scalar(n *yaml.Node, path []string) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, y.fail(eng.CodeSyntax, n, path, "%v", err)
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// out of int64 range: keep the magnitude as a float
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return value.Value{}, y.fail(eng.CodeSyntax, n, path, "%v", err)
			}
			return value.Float64(f), nil
		}
		return value.Int64(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, y.fail(eng.CodeSyntax, n, path, "%v", err)
		}
		return value.Float64(f), nil
	case "!!str":
		return value.String(n.Value), nil
	}
	return value.Value{}, y.fail(eng.CodeUnsupported, n, path, "unsupported scalar tag %s", n.ShortTag())
}
