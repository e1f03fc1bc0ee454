package flatrules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/flatrules"
)

func rule(field, op string, v any) any {
	return map[string]any{"field": field, "operator": op, "value": v}
}

func TestParse_Defaults(t *testing.T) {
	g, err := flatrules.Parse(map[string]any{"rules": []any{rule("age", ">", 1)}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, flatrules.And, g.Combinator)
	assert.Equal(t, []flatrules.Rule{{Field: "age", Operator: ">", Value: 1}}, g.Rules)

	g, err = flatrules.Parse(map[string]any{"combinator": "OR", "rules": []any{}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, flatrules.Or, g.Combinator)
	assert.Empty(t, g.Rules)
}

func TestParse_Errors(t *testing.T) {
	_, err := flatrules.Parse(map[string]any{"combinator": "xor", "rules": []any{}}, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeUnsupportedOperator))

	_, err = flatrules.Parse(map[string]any{"rules": []any{
		rule("a", "==", 1),
		map[string]any{"combinator": "and", "rules": []any{}},
	}}, rb.Options{})
	require.True(t, rb.HasCode(err, rb.CodeUnsupportedNesting))
	iss, _ := rb.AsIssues(err)
	assert.Equal(t, "/rules/1", iss[0].Path)

	_, err = flatrules.Parse(map[string]any{"rules": []any{rule("", "==", 1)}}, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeInvalidArguments))

	_, err = flatrules.Parse([]any{}, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeInvalidArguments))

	_, err = flatrules.Parse(map[string]any{"rules": "nope"}, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeInvalidArguments))
}

func TestToPredicate_Operators(t *testing.T) {
	cases := []struct {
		op    string
		value any
		want  rb.Predicate
	}{
		{"==", 1, rb.Eq("f", 1)},
		{"=", 1, rb.Eq("f", 1)},
		{"!=", 1, rb.Compare(rb.NEQ, "f", 1)},
		{"gt", 1, rb.Compare(rb.GT, "f", 1)},
		{"gte", 1, rb.Compare(rb.GTE, "f", 1)},
		{"lt", 1, rb.Compare(rb.LT, "f", 1)},
		{"lte", 1, rb.Compare(rb.LTE, "f", 1)},
		{"between", []any{1, 5}, rb.Between("f", 1, 5)},
		{"between", "1,5", rb.Range{Field: rb.Field("f"), Min: "1", Max: "5"}},
		{"notBetween", []any{1, 5}, rb.Not(rb.Between("f", 1, 5))},
		{"in", []any{"a", "b"}, rb.In("f", "a", "b")},
		{"in", "a, b", rb.In("f", "a", "b")},
		{"notIn", []any{"a"}, rb.NotIn("f", "a")},
		{"beginsWith", "x", rb.StartsWith("f", "x")},
		{"startsWith", "x", rb.StartsWith("f", "x")},
		{"endsWith", "x", rb.EndsWith("f", "x")},
	}
	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			p, err := flatrules.ToPredicate(flatrules.Group{Combinator: flatrules.And, Rules: []flatrules.Rule{{Field: "f", Operator: tc.op, Value: tc.value}}})
			require.NoError(t, err)
			assert.Equal(t, tc.want, p)
		})
	}
}

func TestToPredicate_Group(t *testing.T) {
	g := flatrules.Group{Combinator: flatrules.Or, Rules: []flatrules.Rule{
		{Field: "a", Operator: "==", Value: 1},
		{Field: "b.c", Operator: "in", Value: []any{2, 3}},
	}}
	p, err := flatrules.ToPredicate(g)
	require.NoError(t, err)
	assert.Equal(t, rb.Or(rb.Eq("a", 1), rb.In("b.c", 2, 3)), p)

	p, err = flatrules.ToPredicate(flatrules.Group{Combinator: flatrules.And})
	require.NoError(t, err)
	assert.Equal(t, rb.Always{}, p)
}

func TestToPredicate_Errors(t *testing.T) {
	bad := []flatrules.Rule{
		{Field: "a", Operator: "contains", Value: "x"},
		{Field: "a", Operator: "between", Value: []any{1}},
		{Field: "a", Operator: "startsWith", Value: 3},
		{Field: "a", Operator: "==", Value: map[string]any{"x": 1}},
	}
	codes := []string{rb.CodeUnsupportedOperator, rb.CodeInvalidArguments, rb.CodeInvalidArguments, rb.CodeInvalidArguments}
	for i, r := range bad {
		_, err := flatrules.ToPredicate(flatrules.Group{Rules: []flatrules.Rule{{Field: "ok", Operator: "==", Value: 0}, r}})
		require.True(t, rb.HasCode(err, codes[i]), "rule %v: %v", r, err)
		iss, _ := rb.AsIssues(err)
		assert.Contains(t, iss[0].Path, "/rules/1/")
	}
}

func TestFromPredicate_Flat(t *testing.T) {
	g, err := flatrules.FromPredicate(rb.And(
		rb.Compare(rb.GTE, "age", 18),
		rb.Between("score", 0, 10),
		rb.NotIn("status", "banned"),
		rb.EndsWith("email", ".org"),
		rb.Not(rb.Eq("deleted", true)),
		rb.Not(rb.Between("n", 1, 2)),
	))
	require.NoError(t, err)
	assert.Equal(t, flatrules.Group{Combinator: flatrules.And, Rules: []flatrules.Rule{
		{Field: "age", Operator: ">=", Value: 18},
		{Field: "score", Operator: "between", Value: []any{0, 10}},
		{Field: "status", Operator: "notIn", Value: []any{"banned"}},
		{Field: "email", Operator: "endsWith", Value: ".org"},
		{Field: "deleted", Operator: "!=", Value: true},
		{Field: "n", Operator: "notBetween", Value: []any{1, 2}},
	}}, g)
}

func TestFromPredicate_Shapes(t *testing.T) {
	g, err := flatrules.FromPredicate(rb.Always{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"combinator": "and", "rules": []any{}}, g.Document())

	g, err = flatrules.FromPredicate(rb.Eq("a", 1))
	require.NoError(t, err)
	assert.Equal(t, flatrules.Group{Combinator: flatrules.And, Rules: []flatrules.Rule{{Field: "a", Operator: "==", Value: 1}}}, g)

	g, err = flatrules.FromPredicate(rb.Not(rb.In("a", 1)))
	require.NoError(t, err)
	assert.Equal(t, "notIn", g.Rules[0].Operator)
}

func TestFromPredicate_Rejections(t *testing.T) {
	_, err := flatrules.FromPredicate(rb.And(rb.Eq("a", 1), rb.Or(rb.Eq("b", 1), rb.Eq("c", 1))))
	require.True(t, rb.HasCode(err, rb.CodeUnsupportedNesting))
	iss, _ := rb.AsIssues(err)
	assert.Equal(t, "/rules/1", iss[0].Path)

	_, err = flatrules.FromPredicate(rb.And(rb.Not(rb.And(rb.Eq("a", 1)))))
	assert.True(t, rb.HasCode(err, rb.CodeUnsupportedNesting))

	for _, p := range []rb.Predicate{
		rb.Not(rb.Compare(rb.GT, "a", 1)),
		rb.Value(1),
		rb.Field("a"),
		rb.Comparison{Op: rb.EQ, Left: rb.Field("a"), Right: rb.Field("b")},
		rb.AllElements{Field: rb.Field("tags"), Item: rb.In("", "x")},
	} {
		_, err := flatrules.FromPredicate(p)
		assert.True(t, rb.HasCode(err, rb.CodeUnsupportedConstruct), "%s: %v", p, err)
	}
}

func TestFromSchema_IfClause(t *testing.T) {
	doc := map[string]any{
		"if": map[string]any{"properties": map[string]any{
			"age":   map[string]any{"type": "number", "minimum": 18},
			"email": map[string]any{"type": "string", "pattern": "^admin"},
		}},
		"then": map[string]any{"required": []any{"x"}},
	}
	g, err := flatrules.FromSchema(doc, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, []flatrules.Rule{
		{Field: "age", Operator: ">=", Value: 18},
		{Field: "email", Operator: "startsWith", Value: "admin"},
	}, g.Rules)
}

func TestFromSchema_FlatPrecedence(t *testing.T) {
	cases := []struct {
		name string
		leaf map[string]any
		want flatrules.Rule
	}{
		{"range before const", map[string]any{"const": 1, "minimum": 0}, flatrules.Rule{Field: "a", Operator: ">=", Value: 0}},
		{"anchor before enum", map[string]any{"enum": []any{"ab"}, "pattern": "^a"}, flatrules.Rule{Field: "a", Operator: "startsWith", Value: "a"}},
		{"enum before not", map[string]any{"enum": []any{1}, "not": map[string]any{"const": 2}}, flatrules.Rule{Field: "a", Operator: "in", Value: []any{1}}},
		{"not before const", map[string]any{"const": 1, "not": map[string]any{"enum": []any{2}}}, flatrules.Rule{Field: "a", Operator: "notIn", Value: []any{2}}},
		{"unanchored pattern loses", map[string]any{"pattern": "a.c", "const": "abc"}, flatrules.Rule{Field: "a", Operator: "==", Value: "abc"}},
		{"single shape", map[string]any{"const": 1}, flatrules.Rule{Field: "a", Operator: "==", Value: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := map[string]any{"properties": map[string]any{"a": tc.leaf}}
			g, err := flatrules.FromSchema(doc, rb.Options{})
			require.NoError(t, err)
			assert.Equal(t, []flatrules.Rule{tc.want}, g.Rules)
		})
	}
}

func TestFromSchema_LeavesInputIntact(t *testing.T) {
	leaf := map[string]any{"const": 1, "minimum": 0}
	doc := map[string]any{"allOf": []any{map[string]any{"properties": map[string]any{"a": leaf}}}}
	_, err := flatrules.FromSchema(doc, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"const": 1, "minimum": 0}, leaf)
}

func TestFromSchema_EmptyAllOfMember(t *testing.T) {
	doc := map[string]any{"allOf": []any{
		map[string]any{},
		map[string]any{"properties": map[string]any{"a": map[string]any{"const": 1}}},
	}}
	g, err := flatrules.FromSchema(doc, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, flatrules.Group{Combinator: flatrules.And, Rules: []flatrules.Rule{{Field: "a", Operator: "==", Value: 1}}}, g)
}

func TestFromSchema_NestedAllOfRejected(t *testing.T) {
	doc := map[string]any{"if": map[string]any{"allOf": []any{
		map[string]any{"allOf": []any{
			map[string]any{"properties": map[string]any{"a": map[string]any{"const": 1}}},
			map[string]any{"properties": map[string]any{"b": map[string]any{"const": 2}}},
		}},
	}}}
	_, err := flatrules.FromSchema(doc, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeUnsupportedNesting))
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	doc := map[string]any{"combinator": "or", "rules": []any{
		rule("age", ">=", 18),
		rule("status", "in", []any{"active", "pending"}),
		rule("name", "startsWith", "J"),
	}}
	p, err := flatrules.Decode(doc, rb.Options{})
	require.NoError(t, err)
	out, err := flatrules.Encode(p, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestNormalize(t *testing.T) {
	n, ok := flatrules.Normalize("===")
	assert.True(t, ok)
	assert.Equal(t, "==", n)
	_, ok = flatrules.Normalize("like")
	assert.False(t, ok)
}
