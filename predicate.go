package rulebridge

// Kind identifies a Predicate variant.
type Kind int

const (
	KindAlways Kind = iota
	KindConst
	KindField
	KindComparison
	KindRange
	KindMembership
	KindAnchor
	KindLogical
	KindAllElements
)

// Predicate is the canonical node both codecs translate to and from. The set
// of implementations is closed; codecs switch over the concrete types.
type Predicate interface {
	Kind() Kind
	String() string
	predicate()
}

// Operand is the subset of predicates usable as a comparison subject or
// operand: a field reference or a literal.
type Operand interface {
	Predicate
	operand()
}

// CompareOp is a binary comparison operator.
type CompareOp int

const (
	EQ CompareOp = iota
	NEQ
	GT
	GTE
	LT
	LTE
)

var compareSymbols = [...]string{EQ: "==", NEQ: "!=", GT: ">", GTE: ">=", LT: "<", LTE: "<="}

func (o CompareOp) String() string {
	if int(o) < len(compareSymbols) {
		return compareSymbols[o]
	}
	return "?"
}

// Mirror returns the operator that holds with the operands swapped:
// a < b iff b > a. EQ and NEQ are their own mirror.
func (o CompareOp) Mirror() CompareOp {
	switch o {
	case GT:
		return LT
	case GTE:
		return LTE
	case LT:
		return GT
	case LTE:
		return GTE
	}
	return o
}

// LogicOp combines child predicates.
type LogicOp int

const (
	AND LogicOp = iota
	OR
	NOT
)

func (o LogicOp) String() string {
	switch o {
	case AND:
		return "and"
	case OR:
		return "or"
	case NOT:
		return "not"
	}
	return "?"
}

// AnchorSide selects the string end a StringAnchor pins.
type AnchorSide int

const (
	PREFIX AnchorSide = iota
	SUFFIX
)

// Always is the empty predicate; it holds for every document.
type Always struct{}

// Const is a literal scalar or array of scalars.
type Const struct {
	Value any
}

// FieldRef references a document field. Implicit refs are relative to the
// enclosing "properties" wrapper of a schema; an Implicit ref with an empty
// path is the "value" placeholder.
type FieldRef struct {
	Path     Path
	Implicit bool
}

// PlaceholderName is how the implicit, not yet bound field is rendered.
const PlaceholderName = "value"

// Placeholder returns the implicit field a schema leaf constrains before an
// enclosing property names it.
func Placeholder() FieldRef { return FieldRef{Implicit: true} }

// IsPlaceholder reports whether f is the unbound implicit field.
func (f FieldRef) IsPlaceholder() bool { return f.Implicit && len(f.Path) == 0 }

// Name renders the field as a dotted path.
func (f FieldRef) Name() string {
	if f.IsPlaceholder() {
		return PlaceholderName
	}
	return f.Path.Dotted()
}

// Comparison compares Left against Right.
type Comparison struct {
	Op    CompareOp
	Left  Operand
	Right Operand
}

// Range is the closed interval [Min, Max] on Field. Date marks calendar date
// bounds. Min <= Max is not checked.
type Range struct {
	Field Operand
	Min   any
	Max   any
	Date  bool
}

// SetMembership tests Field against a set of literal values.
type SetMembership struct {
	Field   Operand
	Values  []any
	Negated bool
}

// StringAnchor tests that Field starts (PREFIX) or ends (SUFFIX) with Literal.
type StringAnchor struct {
	Field   Operand
	Literal string
	Side    AnchorSide
}

// Logical combines children. NOT has exactly one child; AND/OR have one or
// more.
type Logical struct {
	Op       LogicOp
	Children []Predicate
}

// AllElements holds when every element of the array-valued Field satisfies
// Item. Inside Item the element is the explicit empty-path FieldRef.
type AllElements struct {
	Field Operand
	Item  Predicate
}

func (Always) Kind() Kind        { return KindAlways }
func (Const) Kind() Kind         { return KindConst }
func (FieldRef) Kind() Kind      { return KindField }
func (Comparison) Kind() Kind    { return KindComparison }
func (Range) Kind() Kind         { return KindRange }
func (SetMembership) Kind() Kind { return KindMembership }
func (StringAnchor) Kind() Kind  { return KindAnchor }
func (Logical) Kind() Kind       { return KindLogical }
func (AllElements) Kind() Kind   { return KindAllElements }

func (Always) predicate()        {}
func (Const) predicate()         {}
func (FieldRef) predicate()      {}
func (Comparison) predicate()    {}
func (Range) predicate()         {}
func (SetMembership) predicate() {}
func (StringAnchor) predicate()  {}
func (Logical) predicate()       {}
func (AllElements) predicate()   {}

func (Const) operand()    {}
func (FieldRef) operand() {}

// ---- constructors ----

// Field builds an explicit reference from a dotted path.
func Field(dotted string) FieldRef { return FieldRef{Path: ParseDotted(dotted)} }

// Value wraps a literal.
func Value(v any) Const { return Const{Value: v} }

// Compare builds Comparison(op, field, value).
func Compare(op CompareOp, field string, v any) Comparison {
	return Comparison{Op: op, Left: Field(field), Right: Const{Value: v}}
}

// Eq is Compare(EQ, ...).
func Eq(field string, v any) Comparison { return Compare(EQ, field, v) }

// Between builds a numeric or string range on field; Date is set when min
// parses as a calendar date.
func Between(field string, min, max any) Range {
	return Range{Field: Field(field), Min: min, Max: max, Date: IsDate(min)}
}

// In builds a membership test.
func In(field string, values ...any) SetMembership {
	return SetMembership{Field: Field(field), Values: values}
}

// NotIn builds a negated membership test.
func NotIn(field string, values ...any) SetMembership {
	return SetMembership{Field: Field(field), Values: values, Negated: true}
}

// StartsWith builds a PREFIX anchor.
func StartsWith(field, lit string) StringAnchor {
	return StringAnchor{Field: Field(field), Literal: lit, Side: PREFIX}
}

// EndsWith builds a SUFFIX anchor.
func EndsWith(field, lit string) StringAnchor {
	return StringAnchor{Field: Field(field), Literal: lit, Side: SUFFIX}
}

// And combines children with AND.
func And(children ...Predicate) Logical { return Logical{Op: AND, Children: children} }

// Or combines children with OR.
func Or(children ...Predicate) Logical { return Logical{Op: OR, Children: children} }

// Not wraps child in a literal NOT node.
func Not(child Predicate) Logical { return Logical{Op: NOT, Children: []Predicate{child}} }

// Negate returns the negation of p, folding it into the leaf when the leaf
// has a negated form: EQ<->NEQ, IN<->NOT_IN, and NOT(NOT x) -> x.
func Negate(p Predicate) Predicate {
	switch t := p.(type) {
	case Comparison:
		switch t.Op {
		case EQ:
			t.Op = NEQ
			return t
		case NEQ:
			t.Op = EQ
			return t
		}
	case SetMembership:
		t.Negated = !t.Negated
		return t
	case Logical:
		if t.Op == NOT && len(t.Children) == 1 {
			return t.Children[0]
		}
	}
	return Not(p)
}

// Subject returns the field-bearing operand of a leaf predicate.
func Subject(p Predicate) (Operand, bool) {
	switch t := p.(type) {
	case Comparison:
		return t.Left, true
	case Range:
		return t.Field, true
	case SetMembership:
		return t.Field, true
	case StringAnchor:
		return t.Field, true
	case AllElements:
		return t.Field, true
	}
	return nil, false
}
