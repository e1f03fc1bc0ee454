package flatrules

import (
	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/docschema"
	js "github.com/reoring/rulebridge/jsonschema"
)

// leafShapes lists the leaf keyword groups in flat operator precedence:
// between, >=, <=, >, <, startsWith, endsWith, in, notIn/!=, ==. The range
// group is ordered further by the doc-schema decoder.
var leafShapes = [][]string{
	{js.KeyMinimum, js.KeyMaximum, js.KeyExclusiveMinimum, js.KeyExclusiveMaximum},
	{js.KeyPattern},
	{js.KeyEnum},
	{js.KeyNot},
	{js.KeyConst},
}

// FromSchema flattens a doc-schema document, reading the "if" clause of a
// conditional schema when present. A leaf schema carrying several shapes
// (say const and minimum) yields the one that ranks first in flat operator
// precedence. Nested groups fail with unsupported_nesting. doc is not
// modified.
func FromSchema(doc any, opts rb.Options) (Group, error) {
	cond := docschema.Condition(doc)
	if m, ok := cond.(map[string]any); ok {
		m = js.CloneMap(m)
		preferFlatShapes(m)
		cond = m
	}
	p, err := docschema.Decode(cond, opts)
	if err != nil {
		return Group{}, err
	}
	return FromPredicate(p)
}

// preferFlatShapes prunes competing leaf keywords in place, then descends
// into every schema position.
func preferFlatShapes(m map[string]any) {
	if keep := flatShape(m); keep != nil {
		for k := range m {
			if _, ok := keep[k]; !ok {
				delete(m, k)
			}
		}
	}
	for _, key := range []string{js.KeyNot, js.KeyItems} {
		if sub, ok := m[key].(map[string]any); ok {
			preferFlatShapes(sub)
		}
	}
	for _, key := range []string{js.KeyAllOf, js.KeyAnyOf} {
		xs, _ := m[key].([]any)
		for _, x := range xs {
			if sub, ok := x.(map[string]any); ok {
				preferFlatShapes(sub)
			}
		}
	}
	props, _ := m[js.KeyProperties].(map[string]any)
	for _, v := range props {
		if sub, ok := v.(map[string]any); ok {
			preferFlatShapes(sub)
		}
	}
}

// flatShape returns the keys of the winning shape when m has more than one
// leaf shape, and nil otherwise.
func flatShape(m map[string]any) map[string]any {
	var present [][]string
	for _, shape := range leafShapes {
		if !hasAny(m, shape) {
			continue
		}
		if shape[0] == js.KeyNot && !negatedLeaf(m[js.KeyNot]) {
			continue
		}
		present = append(present, shape)
	}
	if len(present) < 2 {
		return nil
	}
	for _, shape := range present {
		sub := pick(m, shape)
		// An unanchored pattern decodes to nothing and loses its rank.
		if p, err := docschema.Decode(sub, rb.Options{}); err == nil && p.Kind() != rb.KindAlways {
			return sub
		}
	}
	return nil
}

func hasAny(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// negatedLeaf reports whether a "not" value is {"enum":...} or {"const":...}.
func negatedLeaf(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, isEnum := m[js.KeyEnum]
	_, isConst := m[js.KeyConst]
	return isEnum || isConst
}

// pick copies the shape keys present in m together with type and format.
func pick(m map[string]any, shape []string) map[string]any {
	out := map[string]any{}
	for _, k := range append([]string{js.KeyType, js.KeyFormat}, shape...) {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}
