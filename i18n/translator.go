package i18n

import (
	"sort"
	"strings"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "operator" or "ref").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"unsupported_operator":  "unsupported operator {operator}",
		"unsupported_construct": "construct cannot be expressed in {target}",
		"malformed_ref":         "malformed $ref {ref}",
		"unsupported_nesting":   "nested groups are not supported",
		"input_too_deep":        "input nesting exceeds {max}",
		"invalid_arguments":     "invalid arguments for {operator}",
		"parse_error":           "parse error",
		"duplicate_key":         "duplicate key {key}",
	},
	"ja": {
		"unsupported_operator":  "未対応の演算子です: {operator}",
		"unsupported_construct": "{target} では表現できない構造です",
		"malformed_ref":         "$ref の形式が不正です: {ref}",
		"unsupported_nesting":   "入れ子のグループには対応していません",
		"input_too_deep":        "入力の入れ子が上限 {max} を超えています",
		"invalid_arguments":     "{operator} の引数が不正です",
		"parse_error":           "解析エラー",
		"duplicate_key":         "キーが重複しています: {key}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return fill(tmpl, data)
}

// fill substitutes {key} placeholders; placeholders without data are dropped
// together with the preceding space.
func fill(tmpl string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", data[k])
	}
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			return strings.TrimSpace(tmpl)
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			return strings.TrimSpace(tmpl)
		}
		start := i
		if start > 0 && tmpl[start-1] == ' ' {
			start--
		}
		tmpl = tmpl[:start] + tmpl[i+j+1:]
	}
}

// DefaultLanguage is used for unknown or empty language names.
const DefaultLanguage = "en"

// Supported reports whether lang has a built-in dictionary.
func Supported(lang string) bool {
	_, ok := dictionaries[lang]
	return ok
}

// For returns the dictionary Translator of lang, falling back to
// DefaultLanguage.
func For(lang string) Translator {
	if !Supported(lang) {
		lang = DefaultLanguage
	}
	return dictTranslator{lang: lang}
}
