package value

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// ErrNonFinite is returned when encoding NaN or an infinity, which JSON cannot
// represent.
var ErrNonFinite = errors.New("value: non-finite float is not representable in JSON")

// MarshalJSON encodes v keeping object key order. Integral floats keep a
// fractional part ("10.0") so they decode back as Float64.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBoolean:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt64:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat64:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return ErrNonFinite
		}
		buf.WriteString(formatFloat(v.f))
	case KindString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.obj.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			mv, _ := v.obj.Get(k)
			if err := mv.writeJSON(buf); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("value: cannot marshal %s", v.kind)
	}
	return nil
}

// MarshalIndent is MarshalJSON followed by go-json's indenter.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ToAny converts v into plain Go values: nil, bool, int64, float64, string and
// map[string]any. Key order is lost.
func ToAny(v Value) any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindInt64:
		return v.i
	case KindFloat64:
		return v.f
	case KindString:
		return v.s
	case KindObject:
		m := make(map[string]any, v.obj.Len())
		for _, mb := range v.obj.Members() {
			m[mb.Key] = ToAny(mb.Value)
		}
		return m
	}
	return nil
}
