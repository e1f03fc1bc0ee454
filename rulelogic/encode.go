package rulelogic

import (
	rb "github.com/reoring/rulebridge"
)

const target = "rule-logic"

// Encode renders p as a rule-logic document. Single-child AND/OR collapse to
// the child. Negated membership has no rule-logic operator and fails with
// unsupported_construct.
func Encode(p rb.Predicate, opts rb.Options) (any, error) {
	e := encoder{opts: opts}
	return e.predicate(p, rb.Root())
}

type encoder struct {
	opts rb.Options
}

func (e encoder) predicate(p rb.Predicate, at rb.Pointer) (any, error) {
	if err := e.opts.CheckDepth(at); err != nil {
		return nil, err
	}
	switch t := p.(type) {
	case rb.Always:
		return true, nil
	case rb.Const:
		return t.Value, nil
	case rb.FieldRef:
		return varOf(t), nil
	case rb.Comparison:
		return op(t.Op.String(), operand(t.Left), operand(t.Right)), nil
	case rb.Range:
		key := "<="
		if rb.IsNumber(t.Min) && !t.Date {
			key = ">="
		}
		return op(key, t.Min, operand(t.Field), t.Max), nil
	case rb.SetMembership:
		if t.Negated {
			return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
		}
		return op(keyIn, operand(t.Field), append([]any(nil), t.Values...)), nil
	case rb.StringAnchor:
		key := keyStartsWith
		if t.Side == rb.SUFFIX {
			key = keyEndsWith
		}
		return op(key, operand(t.Field), t.Literal), nil
	case rb.Logical:
		return e.logical(t, at)
	case rb.AllElements:
		item, err := e.predicate(t.Item, at.Field(keyAll).Index(1))
		if err != nil {
			return nil, err
		}
		return op(keyAll, operand(t.Field), item), nil
	}
	return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
}

func (e encoder) logical(l rb.Logical, at rb.Pointer) (any, error) {
	var key string
	switch l.Op {
	case rb.AND:
		if len(l.Children) == 0 {
			return true, nil
		}
		key = keyAnd
	case rb.OR:
		if len(l.Children) == 0 {
			return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
		}
		key = keyOr
	case rb.NOT:
		if len(l.Children) != 1 {
			return nil, rb.Fail(at, rb.CodeInvalidArguments, "operator", keyNot)
		}
		child, err := e.predicate(l.Children[0], at.Field(keyNot).Index(0))
		if err != nil {
			return nil, err
		}
		return op(keyNot, child), nil
	default:
		return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
	}
	if len(l.Children) == 1 {
		return e.predicate(l.Children[0], at)
	}
	args := make([]any, 0, len(l.Children))
	for i, c := range l.Children {
		v, err := e.predicate(c, at.Field(key).Index(i))
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return map[string]any{key: args}, nil
}

func operand(o rb.Operand) any {
	switch t := o.(type) {
	case rb.FieldRef:
		return varOf(t)
	case rb.Const:
		return t.Value
	}
	return nil
}

func varOf(f rb.FieldRef) map[string]any {
	return map[string]any{keyVar: f.Name()}
}

func op(key string, args ...any) map[string]any {
	return map[string]any{key: args}
}
