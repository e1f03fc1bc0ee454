package rulelogic

import (
	"sort"

	rb "github.com/reoring/rulebridge"
)

// Decode builds the canonical predicate for a rule-logic document. Non-object
// input decodes to a Const; an empty object decodes to Always.
func Decode(doc any, opts rb.Options) (rb.Predicate, error) {
	d := decoder{opts: opts}
	return d.predicate(doc, rb.Root())
}

type decoder struct {
	opts rb.Options
}

func (d decoder) predicate(v any, at rb.Pointer) (rb.Predicate, error) {
	if err := d.opts.CheckDepth(at); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		if !rb.IsScalar(v) {
			return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", "canonical predicate")
		}
		return rb.Const{Value: v}, nil
	}
	if len(m) == 0 {
		return rb.Always{}, nil
	}
	name, raw, err := singleKey(m, at)
	if err != nil {
		return nil, err
	}
	op, ok := operators[name]
	if !ok {
		return nil, rb.Fail(at.Field(name), rb.CodeUnsupportedOperator, "operator", name)
	}
	at = at.Field(name)
	args := arguments(raw)

	switch op {
	case opVar:
		return d.fieldRef(name, args, at)
	case opEq, opNeq, opGt, opLt:
		return d.comparison(name, compareOps[op], args, at)
	case opGte, opLte:
		if len(args) == 3 {
			return d.rangeOf(name, args, at, op == opLte)
		}
		return d.comparison(name, compareOps[op], args, at)
	case opBetween:
		switch len(args) {
		case 3:
			return d.rangeOf(name, args, at, true)
		case 2:
			// A one-sided "between" has no agreed meaning; refuse it rather than
			// guessing a >= alias.
			return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", "two-operand between")
		}
		return nil, invalidArgs(at, name)
	case opIn:
		return d.membership(name, args, at)
	case opStartsWith, opEndsWith:
		return d.anchor(name, op, args, at)
	case opAnd, opOr:
		if len(args) == 0 {
			return nil, invalidArgs(at, name)
		}
		children := make([]rb.Predicate, 0, len(args))
		for i, a := range args {
			c, err := d.predicate(a, at.Index(i))
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		if op == opAnd {
			return rb.And(children...), nil
		}
		return rb.Or(children...), nil
	case opNot:
		if len(args) != 1 {
			return nil, invalidArgs(at, name)
		}
		c, err := d.predicate(args[0], at.Index(0))
		if err != nil {
			return nil, err
		}
		return rb.Not(c), nil
	case opAll:
		if len(args) != 2 {
			return nil, invalidArgs(at, name)
		}
		f, err := d.operand(args[0], at.Index(0))
		if err != nil {
			return nil, err
		}
		if _, ok := f.(rb.FieldRef); !ok {
			return nil, invalidArgs(at, name)
		}
		item, err := d.predicate(args[1], at.Index(1))
		if err != nil {
			return nil, err
		}
		return rb.AllElements{Field: f, Item: item}, nil
	}
	return nil, rb.Fail(at, rb.CodeUnsupportedOperator, "operator", name)
}

func (d decoder) fieldRef(name string, args []any, at rb.Pointer) (rb.FieldRef, error) {
	// {"var": "a.b"} or {"var": ["a.b", default]}; the default is dropped.
	if len(args) == 0 || len(args) > 2 {
		return rb.FieldRef{}, invalidArgs(at, name)
	}
	s, ok := args[0].(string)
	if !ok {
		return rb.FieldRef{}, invalidArgs(at, name)
	}
	return rb.FieldRef{Path: rb.ParseDotted(s)}, nil
}

func (d decoder) comparison(name string, op rb.CompareOp, args []any, at rb.Pointer) (rb.Predicate, error) {
	if len(args) != 2 {
		return nil, invalidArgs(at, name)
	}
	l, err := d.operand(args[0], at.Index(0))
	if err != nil {
		return nil, err
	}
	r, err := d.operand(args[1], at.Index(1))
	if err != nil {
		return nil, err
	}
	// The field is kept on the left: {"<":[18,{"var":"age"}]} is age > 18.
	if k, ok := l.(rb.Const); ok {
		ref, ok := r.(rb.FieldRef)
		if !ok {
			return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", "canonical predicate")
		}
		return rb.Comparison{Op: op.Mirror(), Left: ref, Right: k}, nil
	}
	return rb.Comparison{Op: op, Left: l, Right: r}, nil
}

// rangeOf decodes [min, fieldOrConst, max]. dateAware enables the date hint
// when min parses as a calendar date.
func (d decoder) rangeOf(name string, args []any, at rb.Pointer, dateAware bool) (rb.Predicate, error) {
	f, err := d.operand(args[1], at.Index(1))
	if err != nil {
		return nil, err
	}
	min, err := d.literal(args[0], at.Index(0))
	if err != nil {
		return nil, err
	}
	max, err := d.literal(args[2], at.Index(2))
	if err != nil {
		return nil, err
	}
	return rb.Range{Field: f, Min: min, Max: max, Date: dateAware && rb.IsDate(min)}, nil
}

func (d decoder) membership(name string, args []any, at rb.Pointer) (rb.Predicate, error) {
	if len(args) != 2 {
		return nil, invalidArgs(at, name)
	}
	f, err := d.operand(args[0], at.Index(0))
	if err != nil {
		return nil, err
	}
	vals, ok := args[1].([]any)
	if !ok || !rb.IsScalar(args[1]) {
		// {"in":["sub", {"var":"s"}]} is substring containment.
		return nil, rb.Fail(at.Index(1), rb.CodeUnsupportedConstruct, "target", "canonical predicate")
	}
	return rb.SetMembership{Field: f, Values: append([]any(nil), vals...)}, nil
}

func (d decoder) anchor(name string, op operator, args []any, at rb.Pointer) (rb.Predicate, error) {
	if len(args) != 2 {
		return nil, invalidArgs(at, name)
	}
	f, err := d.operand(args[0], at.Index(0))
	if err != nil {
		return nil, err
	}
	lit, ok := args[1].(string)
	if !ok {
		return nil, invalidArgs(at.Index(1), name)
	}
	side := rb.PREFIX
	if op == opEndsWith {
		side = rb.SUFFIX
	}
	return rb.StringAnchor{Field: f, Literal: lit, Side: side}, nil
}

// operand accepts {"var": ...} or a literal.
func (d decoder) operand(v any, at rb.Pointer) (rb.Operand, error) {
	if err := d.opts.CheckDepth(at); err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		if raw, ok := m[keyVar]; ok && len(m) == 1 {
			return d.fieldRef(keyVar, arguments(raw), at.Field(keyVar))
		}
		return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", "comparison operand")
	}
	lit, err := d.literal(v, at)
	if err != nil {
		return nil, err
	}
	return rb.Const{Value: lit}, nil
}

func (d decoder) literal(v any, at rb.Pointer) (any, error) {
	if !rb.IsScalar(v) {
		return nil, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", "literal")
	}
	return v, nil
}

func singleKey(m map[string]any, at rb.Pointer) (string, any, error) {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", nil, rb.Fail(at, rb.CodeInvalidArguments, "operator", keys)
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", nil, nil
}

// arguments normalizes the unary sugar {"op": x} to {"op": [x]}.
func arguments(raw any) []any {
	if a, ok := raw.([]any); ok {
		return a
	}
	return []any{raw}
}

func invalidArgs(at rb.Pointer, name string) error {
	return rb.Fail(at, rb.CodeInvalidArguments, "operator", name)
}
