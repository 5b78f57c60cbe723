package source

import (
	"fmt"
	"math"
	"sort"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/convexmodel/internal/engine"
	"github.com/reoring/convexmodel/value"
)

// FromAny converts plain Go values as produced by JSON/YAML unmarshalling
// into a Value. Map keys are visited in sorted order since Go maps carry
// none. Slices are rejected.
func FromAny(v any) (value.Value, error) {
	return fromAny(v, nil)
}

func fromAny(v any, path []string) (value.Value, error) {
	switch t := v.(type) {
	case nil:
		return value.Null(), nil
	case value.Value:
		return t, nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.String(t), nil
	case int:
		return value.Int64(int64(t)), nil
	case int8:
		return value.Int64(int64(t)), nil
	case int16:
		return value.Int64(int64(t)), nil
	case int32:
		return value.Int64(int64(t)), nil
	case int64:
		return value.Int64(t), nil
	case uint8:
		return value.Int64(int64(t)), nil
	case uint16:
		return value.Int64(int64(t)), nil
	case uint32:
		return value.Int64(int64(t)), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return value.Float64(float64(t)), nil
		}
		return value.Int64(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return value.Float64(float64(t)), nil
		}
		return value.Int64(int64(t)), nil
	case float32:
		return value.Float64(float64(t)), nil
	case float64:
		return value.Float64(t), nil
	case j.Number:
		return eng.ParseNumber(string(t), eng.Pointer(path...), -1)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := &value.Object{}
		for _, k := range keys {
			mv, err := fromAny(t[k], append(path[:len(path):len(path)], k))
			if err != nil {
				return value.Value{}, err
			}
			obj.Set(k, mv)
		}
		return value.ObjectValue(obj), nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, mv := range t {
			ks, ok := k.(string)
			if !ok {
				return value.Value{}, &eng.BuildError{Code: eng.CodeUnsupported, Path: eng.Pointer(path...), Offset: -1, Message: fmt.Sprintf("non-string key %v", k)}
			}
			m[ks] = mv
		}
		return fromAny(m, path)
	case []any:
		return value.Value{}, &eng.BuildError{Code: eng.CodeUnsupported, Path: eng.Pointer(path...), Offset: -1, Message: "arrays are not supported"}
	}
	return value.Value{}, &eng.BuildError{Code: eng.CodeUnsupported, Path: eng.Pointer(path...), Offset: -1, Message: fmt.Sprintf("unsupported Go type %T", v)}
}
