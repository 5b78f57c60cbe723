package ir

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
)

// Name identifies a field by the ids of its ancestors (root excluded for the
// root itself) and its own id.
type Name struct {
	Path []string
	ID   string
}

// FullPath returns Path followed by ID in a fresh slice.
func (n Name) FullPath() []string {
	out := make([]string, 0, len(n.Path)+1)
	out = append(out, n.Path...)
	return append(out, n.ID)
}

// Child returns the name of a field declared directly below n.
func (n Name) Child(id string) Name {
	return Name{Path: n.FullPath(), ID: id}
}

// Equal reports whether both names have the same full path.
func (n Name) Equal(o Name) bool {
	if n.ID != o.ID || len(n.Path) != len(o.Path) {
		return false
	}
	for i := range n.Path {
		if n.Path[i] != o.Path[i] {
			return false
		}
	}
	return true
}

// TypeName capitalizes every path segment and the id and concatenates them,
// e.g. [User platform] + "Variant2" -> "UserPlatformVariant2".
func (n Name) TypeName() string {
	var b strings.Builder
	for _, p := range n.FullPath() {
		if p == "" {
			continue
		}
		b.WriteString(Capitalize(p))
	}
	return b.String()
}

// Capitalize upper-cases the first character of s, which may be multi-byte.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	if r < utf8.RuneSelf {
		return inflect.Capitalize(s)
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FieldName is the raw id, used verbatim as record key and accessor name.
func (n Name) FieldName() string { return n.ID }

// Label is the dot-joined full path used in decode errors.
func (n Name) Label() string { return strings.Join(n.FullPath(), ".") }

func (n Name) String() string { return n.Label() }

// VariantName returns the member name of the 1-based union branch i.
func VariantName(i int) string { return "Variant" + strconv.Itoa(i) }

// BranchName returns the name of an object branch of the union named n.
func BranchName(n Name, i int) Name { return n.Child(VariantName(i)) }

// NameClashError reports two distinct schema paths resolving to one generated
// type name.
type NameClashError struct {
	TypeName string
	First    Field
	Second   Field
}

func (e *NameClashError) Error() string {
	return fmt.Sprintf("generated type name %q of %q clashes with %q", e.TypeName, e.Second.Name.Label(), e.First.Name.Label())
}

// CheckNames resolves the generated type name of every object and union below
// the given roots, roots included, and fails on the first name claimed by two
// distinct paths. Roots compiled into one package must be checked together.
func CheckNames(roots ...Field) error {
	seen := map[string]Field{}
	for _, root := range roots {
		err := Walk(root, func(f Field) error {
			if !IsComplex(f.Type) {
				return nil
			}
			tn := f.Name.TypeName()
			if prev, ok := seen[tn]; ok && !prev.Name.Equal(f.Name) {
				return &NameClashError{TypeName: tn, First: prev, Second: f}
			}
			seen[tn] = f
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// TypeNames lists the generated type names below root in declaration order.
func TypeNames(root Field) []string {
	var out []string
	_ = Walk(root, func(f Field) error {
		if IsComplex(f.Type) {
			out = append(out, f.Name.TypeName())
		}
		return nil
	})
	return out
}
