package convexmodel

import (
	"math"
	"strconv"

	"github.com/reoring/convexmodel/value"
)

// The Extract* functions implement the per-kind decode rules. They are shared
// by compiled models and by generated code. v is the looked-up value and ok
// reports whether the key was present; label and path identify the field in
// errors.

func kindError(v value.Value, ok bool, expected, label, path string) error {
	code := CodeInvalidType
	if !ok {
		code = CodeRequired
	}
	return &DecodeError{Code: code, Label: label, Path: path, Expected: expected}
}

func literalError(expected, literal, label, path string) error {
	return &DecodeError{Code: CodeLiteralMismatch, Label: label, Path: path, Expected: expected, Literal: literal}
}

// ExtractString requires a string value. Id fields use the same rule.
func ExtractString(v value.Value, ok bool, label, path string) (string, error) {
	if s, isStr := v.AsString(); ok && isStr {
		return s, nil
	}
	return "", kindError(v, ok, ExpectString, label, path)
}

// ExtractNull requires an explicit null.
func ExtractNull(v value.Value, ok bool, label, path string) error {
	if ok && v.IsNull() {
		return nil
	}
	return kindError(v, ok, ExpectNull, label, path)
}

// ExtractInt64 accepts an integer, or a finite float truncated toward zero.
func ExtractInt64(v value.Value, ok bool, label, path string) (int64, error) {
	if ok {
		if i, isInt := v.AsInt64(); isInt {
			return i, nil
		}
		if f, isFloat := v.AsFloat64(); isFloat {
			if i, fits := truncate(f); fits {
				return i, nil
			}
		}
	}
	return 0, kindError(v, ok, ExpectInt, label, path)
}

// truncate converts f toward zero, rejecting NaN, infinities and values
// outside the int64 range.
func truncate(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, false
	}
	return int64(t), true
}

// ExtractNumber accepts a float, or an integer widened to float.
func ExtractNumber(v value.Value, ok bool, label, path string) (float64, error) {
	if ok {
		if f, isFloat := v.AsFloat64(); isFloat {
			return f, nil
		}
		if i, isInt := v.AsInt64(); isInt {
			return float64(i), nil
		}
	}
	return 0, kindError(v, ok, ExpectNumber, label, path)
}

// ExtractBool requires a boolean.
func ExtractBool(v value.Value, ok bool, label, path string) (bool, error) {
	if b, isBool := v.AsBool(); ok && isBool {
		return b, nil
	}
	return false, kindError(v, ok, ExpectBoolean, label, path)
}

// ExtractStringLiteral requires a string equal to lit.
func ExtractStringLiteral(v value.Value, ok bool, lit, label, path string) (string, error) {
	s, err := ExtractString(v, ok, label, path)
	if err != nil {
		return "", err
	}
	if s != lit {
		return "", literalError(ExpectString, strconv.Quote(lit), label, path)
	}
	return s, nil
}

// ExtractBoolLiteral requires a boolean equal to lit.
func ExtractBoolLiteral(v value.Value, ok bool, lit bool, label, path string) (bool, error) {
	b, err := ExtractBool(v, ok, label, path)
	if err != nil {
		return false, err
	}
	if b != lit {
		return false, literalError(ExpectBoolean, strconv.FormatBool(lit), label, path)
	}
	return b, nil
}

// ExtractIntLiteral requires an integer, or a float truncating to one, equal
// to lit.
func ExtractIntLiteral(v value.Value, ok bool, lit int64, label, path string) (int64, error) {
	i, err := ExtractInt64(v, ok, label, path)
	if err != nil {
		return 0, err
	}
	if i != lit {
		return 0, literalError(ExpectInt, strconv.FormatInt(lit, 10), label, path)
	}
	return i, nil
}

// ExtractObject requires an object.
func ExtractObject(v value.Value, ok bool, label, path string) (*value.Object, error) {
	if o, isObj := v.AsObject(); ok && isObj {
		return o, nil
	}
	return nil, kindError(v, ok, ExpectObject, label, path)
}

// IsAbsent reports whether an optional field counts as absent: the key is
// missing or holds an explicit null.
func IsAbsent(v value.Value, ok bool) bool { return !ok || v.IsNull() }

// ChildPath appends a key to a JSON Pointer. The root pointer is "".
func ChildPath(path, key string) string { return path + "/" + escapePointer(key) }

func escapePointer(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
