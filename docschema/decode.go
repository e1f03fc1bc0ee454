package docschema

import (
	"sort"

	rb "github.com/reoring/rulebridge"
	js "github.com/reoring/rulebridge/jsonschema"
)

// Decode builds the canonical predicate for a doc-schema fragment or wrapped
// document. Decode is total over shapes outside the supported subset: they
// decode to Always. It fails only on a malformed $ref or when MaxDepth is
// exceeded.
//
// Shapes are tried in a fixed order and the first match wins:
// $ref, const, range keys, enum, pattern, allOf, anyOf, not, properties,
// boolean type, array items.
func Decode(doc any, opts rb.Options) (rb.Predicate, error) {
	d := decoder{opts: opts}
	p, err := d.schema(doc, rb.Root())
	if err != nil {
		return nil, err
	}
	return rb.Resolve(p), nil
}

// Condition returns the "if" clause of a conditional schema, or doc itself
// when it has none.
func Condition(doc any) any {
	if m, ok := doc.(map[string]any); ok {
		if c, ok := m[js.KeyIf].(map[string]any); ok {
			return c
		}
	}
	return doc
}

type decoder struct {
	opts rb.Options
}

func (d decoder) schema(v any, at rb.Pointer) (rb.Predicate, error) {
	if err := d.opts.CheckDepth(at); err != nil {
		return nil, err
	}
	if !js.IsSchema(v) {
		return rb.Always{}, nil
	}
	m := v.(map[string]any)

	if ref, ok := m[js.KeyRef].(string); ok {
		path, err := rb.ResolveRef(ref)
		if err != nil {
			return nil, rb.FailCause(at.Field(js.KeyRef), rb.CodeMalformedRef, err, "ref", ref)
		}
		return rb.FieldRef{Path: path}, nil
	}
	if c, ok := m[js.KeyConst]; ok {
		return rb.Comparison{Op: rb.EQ, Left: rb.Placeholder(), Right: rb.Const{Value: c}}, nil
	}
	if p, ok := rangeOf(m); ok {
		return p, nil
	}
	if e, ok := m[js.KeyEnum].([]any); ok {
		return rb.SetMembership{Field: rb.Placeholder(), Values: append([]any(nil), e...)}, nil
	}
	if s, ok := m[js.KeyPattern].(string); ok {
		if p, ok := anchorOf(s); ok {
			return p, nil
		}
	}
	if xs, ok := m[js.KeyAllOf].([]any); ok {
		return d.logical(rb.AND, xs, at.Field(js.KeyAllOf))
	}
	if xs, ok := m[js.KeyAnyOf].([]any); ok {
		return d.logical(rb.OR, xs, at.Field(js.KeyAnyOf))
	}
	if n, ok := m[js.KeyNot].(map[string]any); ok {
		c, err := d.schema(n, at.Field(js.KeyNot))
		if err != nil {
			return nil, err
		}
		return rb.Negate(c), nil
	}
	if props, ok := m[js.KeyProperties].(map[string]any); ok {
		return d.properties(props, at.Field(js.KeyProperties))
	}
	switch js.TypeName(m) {
	case js.TypeBoolean:
		// Lossy: "is boolean" is read as "equals true".
		return rb.Comparison{Op: rb.EQ, Left: rb.Placeholder(), Right: rb.Const{Value: true}}, nil
	case js.TypeArray:
		items, ok := m[js.KeyItems].(map[string]any)
		if !ok {
			break
		}
		if e, ok := items[js.KeyEnum].([]any); ok {
			return rb.AllElements{
				Field: rb.Placeholder(),
				Item:  rb.SetMembership{Field: rb.FieldRef{Path: rb.Path{}}, Values: append([]any(nil), e...)},
			}, nil
		}
		// The array wrapper is otherwise transparent.
		return d.schema(items, at.Field(js.KeyItems))
	}
	return rb.Always{}, nil
}

// rangeOf applies the range precedence: both bounds, minimum, maximum,
// exclusiveMinimum, exclusiveMaximum.
func rangeOf(m map[string]any) (rb.Predicate, bool) {
	min, hasMin := present(m, js.KeyMinimum)
	max, hasMax := present(m, js.KeyMaximum)
	switch {
	case hasMin && hasMax:
		return rb.Range{Field: rb.Placeholder(), Min: min, Max: max, Date: rb.IsDate(min)}, true
	case hasMin:
		return bound(rb.GTE, min), true
	case hasMax:
		return bound(rb.LTE, max), true
	}
	// draft-04 boolean exclusive flags carry no bound of their own
	if v, ok := present(m, js.KeyExclusiveMinimum); ok {
		if _, flag := v.(bool); !flag {
			return bound(rb.GT, v), true
		}
	}
	if v, ok := present(m, js.KeyExclusiveMaximum); ok {
		if _, flag := v.(bool); !flag {
			return bound(rb.LT, v), true
		}
	}
	return nil, false
}

func bound(op rb.CompareOp, v any) rb.Comparison {
	return rb.Comparison{Op: op, Left: rb.Placeholder(), Right: rb.Const{Value: v}}
}

func present(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (d decoder) logical(op rb.LogicOp, xs []any, at rb.Pointer) (rb.Predicate, error) {
	children := make([]rb.Predicate, 0, len(xs))
	for i, x := range xs {
		if !js.IsSchema(x) {
			continue
		}
		c, err := d.schema(x, at.Index(i))
		if err != nil {
			return nil, err
		}
		if _, ok := c.(rb.Always); ok {
			// {} is the identity of allOf and absorbs anyOf.
			if op == rb.OR {
				return rb.Always{}, nil
			}
			continue
		}
		children = append(children, c)
	}
	if len(children) == 0 {
		return rb.Always{}, nil
	}
	return rb.Logical{Op: op, Children: children}, nil
}

// properties binds each sub-predicate to its property key. One constrained
// property yields its predicate unwrapped; more are joined with AND.
func (d decoder) properties(props map[string]any, at rb.Pointer) (rb.Predicate, error) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var preds []rb.Predicate
	for _, k := range keys {
		p, err := d.schema(props[k], at.Field(k))
		if err != nil {
			return nil, err
		}
		switch t := p.(type) {
		case rb.Always:
			continue
		case rb.FieldRef:
			if !t.Implicit {
				// {"a": {"$ref": "#/properties/b"}}: a equals b
				preds = append(preds, rb.Comparison{Op: rb.EQ, Left: rb.FieldRef{Path: rb.Path{k}, Implicit: true}, Right: t})
				continue
			}
		}
		preds = append(preds, rb.BindImplicit(p, k))
	}
	switch len(preds) {
	case 0:
		return rb.Always{}, nil
	case 1:
		return preds[0], nil
	}
	return rb.And(preds...), nil
}
