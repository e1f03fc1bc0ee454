package flatrules

import (
	"strings"

	rb "github.com/reoring/rulebridge"
)

// Combinator joins the rules of a group.
type Combinator string

const (
	And Combinator = "and"
	Or  Combinator = "or"
)

// Rule is one field/operator/value tuple.
type Rule struct {
	Field    string `json:"field" yaml:"field"`
	Operator string `json:"operator" yaml:"operator"`
	Value    any    `json:"value" yaml:"value"`
}

// Group is a single-level rule group as visual query builders produce it.
type Group struct {
	Combinator Combinator `json:"combinator" yaml:"combinator"`
	Rules      []Rule     `json:"rules" yaml:"rules"`
}

// Document keys.
const (
	keyCombinator = "combinator"
	keyRules      = "rules"
	keyField      = "field"
	keyOperator   = "operator"
	keyValue      = "value"
)

// Parse reads a decoded flat-rule document. A rule that is itself a group
// fails with unsupported_nesting.
func Parse(doc any, opts rb.Options) (Group, error) {
	at := rb.Root()
	m, ok := doc.(map[string]any)
	if !ok {
		return Group{}, rb.Fail(at, rb.CodeInvalidArguments, "operator", keyRules)
	}
	g := Group{Combinator: And}
	if raw, ok := m[keyCombinator]; ok {
		c, err := parseCombinator(raw, at.Field(keyCombinator))
		if err != nil {
			return Group{}, err
		}
		g.Combinator = c
	}
	rawRules, ok := m[keyRules].([]any)
	if !ok {
		if _, present := m[keyRules]; present {
			return Group{}, rb.Fail(at.Field(keyRules), rb.CodeInvalidArguments, "operator", keyRules)
		}
		rawRules = nil
	}
	g.Rules = make([]Rule, 0, len(rawRules))
	for i, raw := range rawRules {
		rat := at.Field(keyRules).Index(i)
		if err := opts.CheckDepth(rat); err != nil {
			return Group{}, err
		}
		rm, ok := raw.(map[string]any)
		if !ok {
			return Group{}, rb.Fail(rat, rb.CodeInvalidArguments, "operator", keyRules)
		}
		if _, nested := rm[keyRules]; nested {
			return Group{}, rb.Fail(rat, rb.CodeUnsupportedNesting)
		}
		field, _ := rm[keyField].(string)
		op, _ := rm[keyOperator].(string)
		if field == "" {
			return Group{}, rb.Fail(rat.Field(keyField), rb.CodeInvalidArguments, "operator", op)
		}
		if op == "" {
			return Group{}, rb.Fail(rat.Field(keyOperator), rb.CodeInvalidArguments, "operator", keyOperator)
		}
		g.Rules = append(g.Rules, Rule{Field: field, Operator: op, Value: rm[keyValue]})
	}
	return g, nil
}

func parseCombinator(raw any, at rb.Pointer) (Combinator, error) {
	s, _ := raw.(string)
	switch Combinator(strings.ToLower(s)) {
	case And:
		return And, nil
	case Or:
		return Or, nil
	}
	return "", rb.Fail(at, rb.CodeUnsupportedOperator, "operator", s)
}

// Document renders g as a decoded JSON document.
func (g Group) Document() map[string]any {
	rules := make([]any, 0, len(g.Rules))
	for _, r := range g.Rules {
		rules = append(rules, map[string]any{keyField: r.Field, keyOperator: r.Operator, keyValue: r.Value})
	}
	c := g.Combinator
	if c == "" {
		c = And
	}
	return map[string]any{keyCombinator: string(c), keyRules: rules}
}
