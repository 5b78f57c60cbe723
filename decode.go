package convexmodel

import (
	"context"

	"github.com/reoring/convexmodel/value"
)

func decodeString(label string) decodeFunc {
	return func(_ context.Context, v value.Value, ok bool, path string) (any, error) {
		s, err := ExtractString(v, ok, label, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func decodeNull(label string) decodeFunc {
	return func(_ context.Context, v value.Value, ok bool, path string) (any, error) {
		if err := ExtractNull(v, ok, label, path); err != nil {
			return nil, err
		}
		return Unit{}, nil
	}
}

func decodeInt64(label string) decodeFunc {
	return func(_ context.Context, v value.Value, ok bool, path string) (any, error) {
		i, err := ExtractInt64(v, ok, label, path)
		if err != nil {
			return nil, err
		}
		return i, nil
	}
}

func decodeNumber(label string) decodeFunc {
	return func(_ context.Context, v value.Value, ok bool, path string) (any, error) {
		f, err := ExtractNumber(v, ok, label, path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func decodeBool(label string) decodeFunc {
	return func(_ context.Context, v value.Value, ok bool, path string) (any, error) {
		b, err := ExtractBool(v, ok, label, path)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

func decodeStringLiteral(lit, label string) decodeFunc {
	return func(_ context.Context, v value.Value, ok bool, path string) (any, error) {
		s, err := ExtractStringLiteral(v, ok, lit, label, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func decodeBoolLiteral(lit bool, label string) decodeFunc {
	return func(_ context.Context, v value.Value, ok bool, path string) (any, error) {
		b, err := ExtractBoolLiteral(v, ok, lit, label, path)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

func decodeIntLiteral(lit int64, label string) decodeFunc {
	return func(_ context.Context, v value.Value, ok bool, path string) (any, error) {
		i, err := ExtractIntLiteral(v, ok, lit, label, path)
		if err != nil {
			return nil, err
		}
		return i, nil
	}
}

// decodeOptional treats a missing key and an explicit null alike. Any other
// value must satisfy the inner field.
func decodeOptional(inner *node) decodeFunc {
	return func(ctx context.Context, v value.Value, ok bool, path string) (any, error) {
		if IsAbsent(v, ok) {
			return Optional{}, nil
		}
		x, err := inner.decode(ctx, v, true, path)
		if err != nil {
			return nil, err
		}
		return Optional{Value: x, Present: true}, nil
	}
}

// decode builds a record only once every declared field decoded; the first
// failing field aborts the object.
func (rt *recordType) decode(ctx context.Context, v value.Value, ok bool, path string) (any, error) {
	obj, err := ExtractObject(v, ok, rt.label, path)
	if err != nil {
		return nil, err
	}
	if rt.unknown == UnknownStrict {
		for _, k := range obj.Keys() {
			if _, declared := rt.index[k]; !declared {
				return nil, &DecodeError{Code: CodeUnknownKey, Label: rt.label + "." + k, Path: ChildPath(path, k), Expected: ExpectObject}
			}
		}
	}
	values := make([]any, len(rt.fields))
	for i, f := range rt.fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fv, present := obj.Get(f.id)
		x, err := f.node.decode(ctx, fv, present, ChildPath(path, f.id))
		if err != nil {
			return nil, err
		}
		values[i] = x
	}
	return &Record{typ: rt, values: values}, nil
}

// decode tries every branch in declaration order against the same input; the
// first branch that decodes completely wins.
func (ut *unionType) decode(ctx context.Context, v value.Value, ok bool, path string) (any, error) {
	if !ok {
		return nil, &DecodeError{Code: CodeRequired, Label: ut.label, Path: path, Expected: ExpectUnion}
	}
	errs := make([]error, 0, len(ut.branches))
	for i, b := range ut.branches {
		x, err := b.decode(ctx, v, true, path)
		if err == nil {
			return &Union{typ: ut, variant: i + 1, payload: x}, nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		errs = append(errs, err)
	}
	return nil, &DecodeError{Code: CodeUnionNoMatch, Label: ut.label, Path: path, Expected: ExpectUnion, Branches: errs}
}
