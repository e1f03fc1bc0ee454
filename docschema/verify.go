package docschema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	rb "github.com/reoring/rulebridge"
	js "github.com/reoring/rulebridge/jsonschema"
)

// formatBounds renames bound keywords that hold strings (date and lexical
// ranges) to their format* form, which JSON Schema validators treat as
// annotations.
var formatBounds = map[string]string{
	js.KeyMinimum:          "formatMinimum",
	js.KeyMaximum:          "formatMaximum",
	js.KeyExclusiveMinimum: "formatExclusiveMinimum",
	js.KeyExclusiveMaximum: "formatExclusiveMaximum",
}

// Verify checks that an emitted document compiles as a JSON Schema. It does
// not evaluate any instance against it. Field-to-field $refs must point at
// properties the document itself declares. Non-numeric bounds are checked
// for shape only. doc is not modified.
func Verify(doc map[string]any) error {
	view := js.CloneMap(doc)
	renameFormatBounds(view)
	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(view)); err != nil {
		return fmt.Errorf("docschema: schema does not compile: %w", err)
	}
	return nil
}

// renameFormatBounds walks schema positions only, so a property that happens
// to be named "minimum" is left alone.
func renameFormatBounds(m map[string]any) {
	for key, alt := range formatBounds {
		if v, ok := m[key]; ok && !rb.IsNumber(v) {
			delete(m, key)
			m[alt] = v
		}
	}
	for _, key := range []string{js.KeyNot, js.KeyIf, js.KeyThen, js.KeyElse, js.KeyItems} {
		if sub, ok := m[key].(map[string]any); ok {
			renameFormatBounds(sub)
		}
	}
	for _, key := range []string{js.KeyAllOf, js.KeyAnyOf} {
		xs, _ := m[key].([]any)
		for _, x := range xs {
			if sub, ok := x.(map[string]any); ok {
				renameFormatBounds(sub)
			}
		}
	}
	props, _ := m[js.KeyProperties].(map[string]any)
	for _, v := range props {
		if sub, ok := v.(map[string]any); ok {
			renameFormatBounds(sub)
		}
	}
}
