package convexmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/convexmodel/i18n"
)

// Decode error codes (stable identifiers, independent of message language).
const (
	CodeInvalidType     = "invalid_type"
	CodeRequired        = "required"
	CodeLiteralMismatch = "literal_mismatch"
	CodeUnionNoMatch    = "union_no_match"
	CodeUnknownKey      = "unknown_key"
)

// Expected kinds reported by DecodeError.Expected.
const (
	ExpectString  = "string"
	ExpectNull    = "null"
	ExpectInt     = "int"
	ExpectNumber  = "number"
	ExpectBoolean = "boolean"
	ExpectObject  = "object"
	ExpectUnion   = "union"
)

// DecodeError reports why a dynamic value could not be decoded. Decoding is
// fail-fast, so a single error describes the first failing field.
type DecodeError struct {
	Code     string // One of the Code* constants.
	Label    string // Fully-qualified schema label, e.g. "User.platform".
	Path     string // JSON Pointer into the input, e.g. "/platform".
	Expected string // One of the Expect* constants.
	// Literal is the expected literal rendered as DSL text, set for
	// CodeLiteralMismatch only.
	Literal string
	// Branches holds the failure of every union branch in declaration order,
	// set for CodeUnionNoMatch only.
	Branches []error
}

func (e *DecodeError) Error() string {
	msg := i18n.T(e.Code, map[string]string{
		"label":    e.Label,
		"expected": i18n.T("expected_"+e.Expected, nil),
		"literal":  e.Literal,
	})
	if len(e.Branches) == 0 {
		return msg
	}
	parts := make([]string, len(e.Branches))
	for i, b := range e.Branches {
		parts[i] = fmt.Sprintf("Variant%d: %v", i+1, b)
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

// AsDecodeError extracts a DecodeError from err using errors.As.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// AccessError is returned by union accessors invoked on the wrong variant.
type AccessError struct {
	TypeName string
	Variant  string
}

func (e *AccessError) Error() string {
	return i18n.T("wrong_variant", map[string]string{"type": e.TypeName, "variant": e.Variant})
}

// FieldError is returned by Record accessors and setters when the field does
// not exist or holds another type.
type FieldError struct {
	TypeName string
	Field    string
	Want     string
	Got      string
}

func (e *FieldError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("convexmodel: %s has no field %q", e.TypeName, e.Field)
	}
	return fmt.Sprintf("convexmodel: %s.%s is %s, not %s", e.TypeName, e.Field, e.Got, e.Want)
}

var (
	// ErrForeignRecord is returned when a record or union built by one Model is
	// passed to another.
	ErrForeignRecord = errors.New("convexmodel: record does not belong to this model")
	// ErrUnknownType is returned when a type name does not exist in the Model.
	ErrUnknownType = errors.New("convexmodel: unknown type name")
)
