package i18n

import "strings"

// Translator retrieves localized messages for error codes.
// data provides values to embed in the message: "label" (field label),
// "expected" (expected kind), "literal" (expected literal), "type" and
// "variant" (union accessors).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":     "expected '{label}' to be {expected}",
		"required":         "expected '{label}' to be {expected}, but it is missing",
		"literal_mismatch": "expected '{label}' to be the literal {literal}",
		"union_no_match":   "no union branch matched '{label}'",
		"unknown_key":      "unknown key '{label}'",
		"wrong_variant":    "expected variant {type}::{variant}",
		"expected_string":  "a string",
		"expected_null":    "null",
		"expected_int":     "an int",
		"expected_number":  "a number",
		"expected_boolean": "a boolean",
		"expected_object":  "an object",
		"expected_union":   "one of the union branches",
	},
	"ja": {
		"invalid_type":     "'{label}' は {expected} である必要があります",
		"required":         "'{label}' は {expected} である必要がありますが、存在しません",
		"literal_mismatch": "'{label}' はリテラル {literal} である必要があります",
		"union_no_match":   "'{label}' に一致するユニオンの分岐がありません",
		"unknown_key":      "未知のキーです: '{label}'",
		"wrong_variant":    "バリアント {type}::{variant} が必要です",
		"expected_string":  "文字列",
		"expected_null":    "null",
		"expected_int":     "整数",
		"expected_number":  "数値",
		"expected_boolean": "真偽値",
		"expected_object":  "オブジェクト",
		"expected_union":   "ユニオンのいずれかの分岐",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	dict := dictionaries[t.lang]
	tmpl, ok := dict[code]
	if !ok {
		tmpl, ok = dictionaries["en"][code]
	}
	if !ok {
		return code
	}
	return expand(tmpl, data)
}

// expand replaces {key} placeholders with data values. Unknown placeholders
// are left as is.
func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
