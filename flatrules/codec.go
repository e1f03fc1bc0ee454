package flatrules

import (
	"strings"

	rb "github.com/reoring/rulebridge"
)

const target = "flat-rules"

// ToPredicate builds the canonical predicate for g. An empty group is Always
// and a single rule is returned unwrapped.
func ToPredicate(g Group) (rb.Predicate, error) {
	at := rb.Root().Field(keyRules)
	nodes := make([]rb.Predicate, 0, len(g.Rules))
	for i, r := range g.Rules {
		n, err := r.predicate(at.Index(i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	switch len(nodes) {
	case 0:
		return rb.Always{}, nil
	case 1:
		return nodes[0], nil
	}
	op := rb.AND
	if g.Combinator == Or {
		op = rb.OR
	}
	return rb.Logical{Op: op, Children: nodes}, nil
}

func (r Rule) predicate(at rb.Pointer) (rb.Predicate, error) {
	name, ok := Normalize(r.Operator)
	if !ok {
		return nil, rb.Fail(at.Field(keyOperator), rb.CodeUnsupportedOperator, "operator", r.Operator)
	}
	field := rb.Field(r.Field)
	vat := at.Field(keyValue)

	if op, ok := compareByName[name]; ok {
		if !rb.IsScalar(r.Value) {
			return nil, rb.Fail(vat, rb.CodeInvalidArguments, "operator", r.Operator)
		}
		return rb.Comparison{Op: op, Left: field, Right: rb.Const{Value: r.Value}}, nil
	}
	switch name {
	case OpIn, OpNotIn:
		return rb.SetMembership{Field: field, Values: valueList(r.Value), Negated: name == OpNotIn}, nil
	case OpBetween, OpNotBetween:
		bs := valueList(r.Value)
		if len(bs) != 2 {
			return nil, rb.Fail(vat, rb.CodeInvalidArguments, "operator", r.Operator)
		}
		rng := rb.Range{Field: field, Min: bs[0], Max: bs[1], Date: rb.IsDate(bs[0])}
		if name == OpNotBetween {
			return rb.Not(rng), nil
		}
		return rng, nil
	case OpStartsWith, OpEndsWith:
		lit, ok := r.Value.(string)
		if !ok {
			return nil, rb.Fail(vat, rb.CodeInvalidArguments, "operator", r.Operator)
		}
		side := rb.PREFIX
		if name == OpEndsWith {
			side = rb.SUFFIX
		}
		return rb.StringAnchor{Field: field, Literal: lit, Side: side}, nil
	}
	return nil, rb.Fail(at.Field(keyOperator), rb.CodeUnsupportedOperator, "operator", r.Operator)
}

// valueList accepts an array or a comma-separated string; any other scalar
// is a one-element list.
func valueList(v any) []any {
	switch t := v.(type) {
	case []any:
		return append([]any(nil), t...)
	case string:
		parts := strings.Split(t, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	case nil:
		return []any{}
	}
	return []any{v}
}

// FromPredicate flattens p into a single-level group. Nested AND/OR fail with
// unsupported_nesting; NOT is folded into its leaf where possible.
func FromPredicate(p rb.Predicate) (Group, error) {
	at := rb.Root().Field(keyRules)
	switch t := p.(type) {
	case rb.Always:
		return Group{Combinator: And, Rules: []Rule{}}, nil
	case rb.Logical:
		if t.Op == rb.NOT {
			r, err := ruleOf(t, at.Index(0))
			if err != nil {
				return Group{}, err
			}
			return Group{Combinator: And, Rules: []Rule{r}}, nil
		}
		g := Group{Combinator: And, Rules: make([]Rule, 0, len(t.Children))}
		if t.Op == rb.OR {
			g.Combinator = Or
		}
		for i, c := range t.Children {
			r, err := ruleOf(c, at.Index(i))
			if err != nil {
				return Group{}, err
			}
			g.Rules = append(g.Rules, r)
		}
		return g, nil
	}
	r, err := ruleOf(p, at.Index(0))
	if err != nil {
		return Group{}, err
	}
	return Group{Combinator: And, Rules: []Rule{r}}, nil
}

func ruleOf(p rb.Predicate, at rb.Pointer) (Rule, error) {
	switch t := p.(type) {
	case rb.Logical:
		if t.Op != rb.NOT || len(t.Children) != 1 {
			return Rule{}, rb.Fail(at, rb.CodeUnsupportedNesting)
		}
		if rng, ok := t.Children[0].(rb.Range); ok {
			r, err := ruleOf(rng, at)
			r.Operator = OpNotBetween
			return r, err
		}
		n := rb.Negate(t.Children[0])
		if l, ok := n.(rb.Logical); ok && l.Op == rb.NOT {
			if _, nested := l.Children[0].(rb.Logical); nested {
				return Rule{}, rb.Fail(at, rb.CodeUnsupportedNesting)
			}
			return Rule{}, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
		}
		return ruleOf(n, at)
	case rb.AllElements:
		return Rule{}, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
	}
	subject, ok := rb.Subject(p)
	if !ok {
		return Rule{}, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
	}
	f, ok := fieldName(subject)
	if !ok {
		return Rule{}, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
	}
	switch t := p.(type) {
	case rb.Comparison:
		c, isConst := t.Right.(rb.Const)
		if !isConst {
			return Rule{}, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
		}
		return Rule{Field: f, Operator: t.Op.String(), Value: c.Value}, nil
	case rb.Range:
		return Rule{Field: f, Operator: OpBetween, Value: []any{t.Min, t.Max}}, nil
	case rb.SetMembership:
		op := OpIn
		if t.Negated {
			op = OpNotIn
		}
		return Rule{Field: f, Operator: op, Value: append([]any(nil), t.Values...)}, nil
	case rb.StringAnchor:
		op := OpStartsWith
		if t.Side == rb.SUFFIX {
			op = OpEndsWith
		}
		return Rule{Field: f, Operator: op, Value: t.Literal}, nil
	}
	return Rule{}, rb.Fail(at, rb.CodeUnsupportedConstruct, "target", target)
}

// fieldName accepts explicit refs and the placeholder.
func fieldName(o rb.Operand) (string, bool) {
	f, ok := o.(rb.FieldRef)
	if !ok || (len(f.Path) == 0 && !f.Implicit) {
		return "", false
	}
	return f.Name(), true
}

// Decode parses a flat-rule document into a canonical predicate.
func Decode(doc any, opts rb.Options) (rb.Predicate, error) {
	g, err := Parse(doc, opts)
	if err != nil {
		return nil, err
	}
	return ToPredicate(g)
}

// Encode renders p as a flat-rule document.
func Encode(p rb.Predicate, _ rb.Options) (map[string]any, error) {
	g, err := FromPredicate(p)
	if err != nil {
		return nil, err
	}
	return g.Document(), nil
}
