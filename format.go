package rulebridge

import (
	"fmt"
	"strings"
)

func (Always) String() string  { return "true" }
func (c Const) String() string { return literal(c.Value) }

func (f FieldRef) String() string {
	if len(f.Path) == 0 && !f.Implicit {
		return "$element"
	}
	return f.Name()
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

func (r Range) String() string {
	s := fmt.Sprintf("%s between [%s, %s]", r.Field, literal(r.Min), literal(r.Max))
	if r.Date {
		s += " (date)"
	}
	return s
}

func (m SetMembership) String() string {
	op := "in"
	if m.Negated {
		op = "not in"
	}
	return fmt.Sprintf("%s %s %s", m.Field, op, literal(m.Values))
}

func (a StringAnchor) String() string {
	op := "startsWith"
	if a.Side == SUFFIX {
		op = "endsWith"
	}
	return fmt.Sprintf("%s %s %q", a.Field, op, a.Literal)
}

func (l Logical) String() string {
	parts := make([]string, len(l.Children))
	for i, c := range l.Children {
		parts[i] = c.String()
	}
	return l.Op.String() + "(" + strings.Join(parts, ", ") + ")"
}

func (a AllElements) String() string {
	return fmt.Sprintf("all %s: %s", a.Field, a.Item)
}

func literal(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case []any:
		parts := make([]string, len(t))
		for i := range t {
			parts[i] = literal(t[i])
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
