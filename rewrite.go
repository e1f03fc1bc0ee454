package rulebridge

// Rewrite returns p with every FieldRef replaced by fn(ref). The input is not
// modified. AllElements items are not visited: refs inside them address the
// array element, not the document.
func Rewrite(p Predicate, fn func(FieldRef) FieldRef) Predicate {
	switch t := p.(type) {
	case FieldRef:
		return fn(t)
	case Comparison:
		t.Left = rewriteOperand(t.Left, fn)
		t.Right = rewriteOperand(t.Right, fn)
		return t
	case Range:
		t.Field = rewriteOperand(t.Field, fn)
		return t
	case SetMembership:
		t.Field = rewriteOperand(t.Field, fn)
		return t
	case StringAnchor:
		t.Field = rewriteOperand(t.Field, fn)
		return t
	case AllElements:
		t.Field = rewriteOperand(t.Field, fn)
		return t
	case Logical:
		children := make([]Predicate, len(t.Children))
		for i, c := range t.Children {
			children[i] = Rewrite(c, fn)
		}
		t.Children = children
		return t
	default:
		return p
	}
}

func rewriteOperand(o Operand, fn func(FieldRef) FieldRef) Operand {
	if f, ok := o.(FieldRef); ok {
		return fn(f)
	}
	return o
}

// BindImplicit prefixes every implicit ref in p with key, keeping it
// implicit so enclosing properties can prefix it further.
func BindImplicit(p Predicate, key string) Predicate {
	return Rewrite(p, func(f FieldRef) FieldRef {
		if !f.Implicit {
			return f
		}
		return FieldRef{Path: f.Path.Prepend(key), Implicit: true}
	})
}

// Resolve turns implicit refs with a non-empty path into explicit refs. The
// bare placeholder stays implicit.
func Resolve(p Predicate) Predicate {
	return Rewrite(p, func(f FieldRef) FieldRef {
		if f.Implicit && len(f.Path) > 0 {
			return FieldRef{Path: f.Path}
		}
		return f
	})
}
