package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	t.Cleanup(func() { SetLanguage("en") })

	data := map[string]string{"label": "User.name", "expected": "a string"}
	require.Equal(t, "expected 'User.name' to be a string", T("invalid_type", data))

	SetLanguage("ja")
	require.Equal(t, "'User.name' は a string である必要があります", T("invalid_type", data))

	// unknown languages fall back to en
	SetLanguage("xx")
	require.Equal(t, "unknown key 'M.z'", T("unknown_key", map[string]string{"label": "M.z"}))
}

func TestTranslator_UnknownCodeAndPlaceholder(t *testing.T) {
	require.Equal(t, "no_such_code", T("no_such_code", nil))
	require.Equal(t, "expected variant {type}::V1", T("wrong_variant", map[string]string{"variant": "V1"}))
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "CODE:" + code }

func TestSetTranslator(t *testing.T) {
	t.Cleanup(func() { SetTranslator(nil) })
	SetTranslator(upper{})
	require.Equal(t, "CODE:required", T("required", nil))
	SetTranslator(nil)
	require.Equal(t, "a string", T("expected_string", nil))
}
