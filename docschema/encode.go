package docschema

import (
	rb "github.com/reoring/rulebridge"
	js "github.com/reoring/rulebridge/jsonschema"
)

const target = "doc-schema"

// Encode renders p as a doc-schema fragment. Field-bearing leaves are wrapped
// in nested "properties"; leaves on the placeholder are returned unwrapped.
// A comparison whose left side is a literal fails with unsupported_construct.
func Encode(p rb.Predicate, opts rb.Options) (map[string]any, error) {
	e := encoder{opts: opts}
	return e.predicate(p, rb.Root())
}

// EncodeDocument is Encode followed by the draft-07 object envelope.
func EncodeDocument(p rb.Predicate, opts rb.Options) (map[string]any, error) {
	frag, err := Encode(p, opts)
	if err != nil {
		return nil, err
	}
	return js.Wrap(frag), nil
}

type encoder struct {
	opts rb.Options
}

func (e encoder) predicate(p rb.Predicate, at rb.Pointer) (map[string]any, error) {
	if err := e.opts.CheckDepth(at); err != nil {
		return nil, err
	}
	switch t := p.(type) {
	case rb.Always:
		return map[string]any{}, nil
	case rb.Const:
		return map[string]any{js.KeyConst: t.Value}, nil
	case rb.FieldRef:
		if t.Implicit || len(t.Path) == 0 {
			return nil, unsupported(at)
		}
		return map[string]any{js.KeyRef: t.Path.Ref()}, nil
	case rb.Comparison:
		leaf, err := compareLeaf(t, at)
		if err != nil {
			return nil, err
		}
		return wrap(t.Left, leaf), nil
	case rb.Range:
		leaf := typed(t.Min, t.Date)
		leaf[js.KeyMinimum] = t.Min
		leaf[js.KeyMaximum] = t.Max
		return wrap(t.Field, leaf), nil
	case rb.SetMembership:
		leaf := map[string]any{js.KeyEnum: append([]any(nil), t.Values...)}
		if t.Negated {
			leaf = map[string]any{js.KeyNot: leaf}
		}
		return wrap(t.Field, leaf), nil
	case rb.StringAnchor:
		pattern := prefixPattern(t.Literal)
		if t.Side == rb.SUFFIX {
			pattern = suffixPattern(t.Literal)
		}
		leaf := map[string]any{js.KeyType: js.TypeString, js.KeyPattern: pattern}
		return wrap(t.Field, leaf), nil
	case rb.Logical:
		return e.logical(t, at)
	}
	// AllElements is produced by Decode only.
	return nil, unsupported(at)
}

func (e encoder) logical(l rb.Logical, at rb.Pointer) (map[string]any, error) {
	var key string
	switch l.Op {
	case rb.AND:
		if len(l.Children) == 0 {
			return map[string]any{}, nil
		}
		key = js.KeyAllOf
	case rb.OR:
		if len(l.Children) == 0 {
			return nil, unsupported(at)
		}
		key = js.KeyAnyOf
	case rb.NOT:
		if len(l.Children) != 1 {
			return nil, rb.Fail(at, rb.CodeInvalidArguments, "operator", js.KeyNot)
		}
		child, err := e.predicate(l.Children[0], at.Field(js.KeyNot))
		if err != nil {
			return nil, err
		}
		return map[string]any{js.KeyNot: child}, nil
	default:
		return nil, unsupported(at)
	}
	if len(l.Children) == 1 {
		return e.predicate(l.Children[0], at)
	}
	xs := make([]any, 0, len(l.Children))
	for i, c := range l.Children {
		s, err := e.predicate(c, at.Field(key).Index(i))
		if err != nil {
			return nil, err
		}
		xs = append(xs, s)
	}
	return map[string]any{key: xs}, nil
}

func compareLeaf(c rb.Comparison, at rb.Pointer) (map[string]any, error) {
	if _, ok := c.Left.(rb.FieldRef); !ok {
		return nil, unsupported(at)
	}
	if ref, ok := c.Right.(rb.FieldRef); ok {
		if c.Op != rb.EQ || ref.Implicit || len(ref.Path) == 0 {
			return nil, unsupported(at)
		}
		return map[string]any{js.KeyRef: ref.Path.Ref()}, nil
	}
	k, ok := c.Right.(rb.Const)
	if !ok {
		return nil, unsupported(at)
	}
	v := k.Value
	switch c.Op {
	case rb.EQ:
		return map[string]any{js.KeyConst: v}, nil
	case rb.NEQ:
		return map[string]any{js.KeyNot: map[string]any{js.KeyConst: v}}, nil
	case rb.GT:
		return withBound(v, js.KeyExclusiveMinimum), nil
	case rb.GTE:
		return withBound(v, js.KeyMinimum), nil
	case rb.LT:
		return withBound(v, js.KeyExclusiveMaximum), nil
	case rb.LTE:
		return withBound(v, js.KeyMaximum), nil
	}
	return nil, unsupported(at)
}

func withBound(v any, key string) map[string]any {
	leaf := typed(v, rb.IsDate(v))
	leaf[key] = v
	return leaf
}

// typed starts a leaf with the JSON type the bound implies.
func typed(v any, date bool) map[string]any {
	switch {
	case rb.IsNumber(v):
		return map[string]any{js.KeyType: js.TypeNumber}
	case date:
		return map[string]any{js.KeyType: js.TypeString, js.KeyFormat: js.FormatDate}
	}
	if _, ok := v.(string); ok {
		return map[string]any{js.KeyType: js.TypeString}
	}
	return map[string]any{}
}

// wrap embeds leaf under the subject's properties path.
func wrap(subject rb.Operand, leaf map[string]any) map[string]any {
	f, ok := subject.(rb.FieldRef)
	if !ok {
		return leaf
	}
	return rb.WrapProperties(f.Path, leaf)
}

func unsupported(at rb.Pointer) error {
	return rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
}
