package rulelogic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/rulelogic"
)

func TestDecode_AliasesUnify(t *testing.T) {
	cases := []struct {
		key  string
		want rb.CompareOp
	}{
		{"==", rb.EQ}, {"===", rb.EQ}, {"equal", rb.EQ},
		{"!=", rb.NEQ}, {"!==", rb.NEQ},
		{">", rb.GT}, {"gt", rb.GT},
		{">=", rb.GTE}, {"gte", rb.GTE},
		{"<", rb.LT}, {"lt", rb.LT},
		{"<=", rb.LTE}, {"lte", rb.LTE},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			doc := map[string]any{tc.key: []any{map[string]any{"var": "age"}, 18}}
			p, err := rulelogic.Decode(doc, rb.Options{})
			require.NoError(t, err)
			assert.Equal(t, rb.Compare(tc.want, "age", 18), p)
		})
	}
}

func TestDecode_LogicalAliases(t *testing.T) {
	leaf := map[string]any{"==": []any{map[string]any{"var": "a"}, 1}}
	for _, key := range []string{"and", "&&"} {
		p, err := rulelogic.Decode(map[string]any{key: []any{leaf, leaf}}, rb.Options{})
		require.NoError(t, err)
		assert.Equal(t, rb.And(rb.Eq("a", 1), rb.Eq("a", 1)), p)
	}
	for _, key := range []string{"or", "||"} {
		p, err := rulelogic.Decode(map[string]any{key: []any{leaf}}, rb.Options{})
		require.NoError(t, err)
		assert.Equal(t, rb.Or(rb.Eq("a", 1)), p)
	}
	for _, key := range []string{"!", "not"} {
		p, err := rulelogic.Decode(map[string]any{key: []any{leaf}}, rb.Options{})
		require.NoError(t, err)
		assert.Equal(t, rb.Not(rb.Eq("a", 1)), p)
	}
	// unary sugar without the array
	p, err := rulelogic.Decode(map[string]any{"!": leaf}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.Not(rb.Eq("a", 1)), p)
}

func TestDecode_UnknownOperator(t *testing.T) {
	_, err := rulelogic.Decode(map[string]any{"xor": []any{1, 2}}, rb.Options{})
	require.Error(t, err)
	iss, ok := rb.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, rb.CodeUnsupportedOperator, iss[0].Code)
	assert.Equal(t, "xor", iss[0].Params["operator"])
	assert.Equal(t, "/xor", iss[0].Path)
}

func TestDecode_UnknownOperatorNested(t *testing.T) {
	doc := map[string]any{"and": []any{
		map[string]any{"==": []any{map[string]any{"var": "a"}, 1}},
		map[string]any{"xor": []any{1, 2}},
	}}
	_, err := rulelogic.Decode(doc, rb.Options{})
	iss, ok := rb.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/and/1/xor", iss[0].Path)
}

func TestDecode_LiteralFirstComparison(t *testing.T) {
	cases := []struct {
		key  string
		want rb.CompareOp
	}{
		{"==", rb.EQ}, {"!=", rb.NEQ},
		{">", rb.LT}, {">=", rb.LTE},
		{"<", rb.GT}, {"<=", rb.GTE},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			doc := map[string]any{tc.key: []any{18, map[string]any{"var": "age"}}}
			p, err := rulelogic.Decode(doc, rb.Options{})
			require.NoError(t, err)
			assert.Equal(t, rb.Compare(tc.want, "age", 18), p)
		})
	}
}

func TestDecode_LiteralOnlyComparison(t *testing.T) {
	_, err := rulelogic.Decode(map[string]any{"==": []any{1, 2}}, rb.Options{})
	require.True(t, rb.HasCode(err, rb.CodeUnsupportedConstruct))
	iss, _ := rb.AsIssues(err)
	assert.Equal(t, "/==", iss[0].Path)
}

func TestDecode_ThreeArgRange(t *testing.T) {
	p, err := rulelogic.Decode(map[string]any{">=": []any{0, map[string]any{"var": "score"}, 100}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.Range{Field: rb.Field("score"), Min: 0, Max: 100}, p)

	p, err = rulelogic.Decode(map[string]any{"<=": []any{"2024-01-01", map[string]any{"var": "day"}, "2024-12-31"}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.Range{Field: rb.Field("day"), Min: "2024-01-01", Max: "2024-12-31", Date: true}, p)

	p, err = rulelogic.Decode(map[string]any{"between": []any{1, map[string]any{"var": "n"}, 5}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.Range{Field: rb.Field("n"), Min: 1, Max: 5}, p)
}

func TestDecode_TwoOperandBetweenRejected(t *testing.T) {
	_, err := rulelogic.Decode(map[string]any{"between": []any{map[string]any{"var": "n"}, 5}}, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeUnsupportedConstruct))
}

func TestDecode_MembershipAndAnchors(t *testing.T) {
	p, err := rulelogic.Decode(map[string]any{"in": []any{map[string]any{"var": "status"}, []any{"active", "pending"}}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.In("status", "active", "pending"), p)

	p, err = rulelogic.Decode(map[string]any{"startsWith": []any{map[string]any{"var": "email"}, "admin"}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.StartsWith("email", "admin"), p)

	p, err = rulelogic.Decode(map[string]any{"endsWith": []any{map[string]any{"var": "email"}, ".org"}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.EndsWith("email", ".org"), p)

	// substring containment is not a set membership
	_, err = rulelogic.Decode(map[string]any{"in": []any{"ad", map[string]any{"var": "email"}}}, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeUnsupportedConstruct))
}

func TestDecode_NonObjectIsConst(t *testing.T) {
	for _, v := range []any{true, 3.5, "x", []any{1, 2}} {
		p, err := rulelogic.Decode(v, rb.Options{})
		require.NoError(t, err)
		assert.Equal(t, rb.Const{Value: v}, p)
	}
	p, err := rulelogic.Decode(map[string]any{}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.Always{}, p)
}

func TestDecode_VarForms(t *testing.T) {
	p, err := rulelogic.Decode(map[string]any{"==": []any{map[string]any{"var": []any{"user.age", 0}}, 1}}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, rb.Comparison{Op: rb.EQ, Left: rb.FieldRef{Path: rb.Path{"user", "age"}}, Right: rb.Const{Value: 1}}, p)

	_, err = rulelogic.Decode(map[string]any{"var": 3}, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeInvalidArguments))
}

func TestDecode_ArityErrors(t *testing.T) {
	for _, doc := range []map[string]any{
		{"==": []any{1}},
		{"and": []any{}},
		{"!": []any{1, 2}},
		{"startsWith": []any{map[string]any{"var": "a"}, 3}},
		{"==": []any{1, 2}, "!=": []any{1, 2}},
	} {
		_, err := rulelogic.Decode(doc, rb.Options{})
		assert.True(t, rb.HasCode(err, rb.CodeInvalidArguments), "doc %v: %v", doc, err)
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	var doc any = map[string]any{"==": []any{map[string]any{"var": "a"}, 1}}
	for i := 0; i < 10; i++ {
		doc = map[string]any{"!": []any{doc}}
	}
	_, err := rulelogic.Decode(doc, rb.Options{MaxDepth: 8})
	assert.True(t, rb.HasCode(err, rb.CodeInputTooDeep))

	_, err = rulelogic.Decode(doc, rb.Options{})
	assert.NoError(t, err)
}

func TestEncode_Leaves(t *testing.T) {
	cases := []struct {
		name string
		in   rb.Predicate
		want any
	}{
		{"eq", rb.Eq("age", 18), map[string]any{"==": []any{map[string]any{"var": "age"}, 18}}},
		{"lte", rb.Compare(rb.LTE, "age", 18), map[string]any{"<=": []any{map[string]any{"var": "age"}, 18}}},
		{"range numeric", rb.Between("n", 1, 5), map[string]any{">=": []any{1, map[string]any{"var": "n"}, 5}}},
		{"range date", rb.Between("d", "2024-01-01", "2024-02-01"), map[string]any{"<=": []any{"2024-01-01", map[string]any{"var": "d"}, "2024-02-01"}}},
		{"in", rb.In("s", "a", "b"), map[string]any{"in": []any{map[string]any{"var": "s"}, []any{"a", "b"}}}},
		{"prefix", rb.StartsWith("e", "x"), map[string]any{"startsWith": []any{map[string]any{"var": "e"}, "x"}}},
		{"suffix", rb.EndsWith("e", "x"), map[string]any{"endsWith": []any{map[string]any{"var": "e"}, "x"}}},
		{"not", rb.Not(rb.Eq("a", 1)), map[string]any{"!": []any{map[string]any{"==": []any{map[string]any{"var": "a"}, 1}}}}},
		{"single and collapses", rb.And(rb.Eq("a", 1)), map[string]any{"==": []any{map[string]any{"var": "a"}, 1}}},
		{"always", rb.Always{}, true},
		{"const", rb.Value(7), 7},
		{"placeholder", rb.Comparison{Op: rb.EQ, Left: rb.Placeholder(), Right: rb.Value(1)}, map[string]any{"==": []any{map[string]any{"var": "value"}, 1}}},
		{"nested path", rb.Eq("a.b", 1), map[string]any{"==": []any{map[string]any{"var": "a.b"}, 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := rulelogic.Encode(tc.in, rb.Options{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncode_NegatedMembershipUnsupported(t *testing.T) {
	_, err := rulelogic.Encode(rb.And(rb.Eq("a", 1), rb.NotIn("s", "x")), rb.Options{})
	require.True(t, rb.HasCode(err, rb.CodeUnsupportedConstruct))
	iss, _ := rb.AsIssues(err)
	assert.Equal(t, "/and/1", iss[0].Path)
}

func TestEncode_AllElementsRoundTrip(t *testing.T) {
	p := rb.AllElements{Field: rb.Field("tags"), Item: rb.SetMembership{Field: rb.FieldRef{Path: rb.Path{}}, Values: []any{"a", "b"}}}
	doc, err := rulelogic.Encode(p, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"all": []any{
		map[string]any{"var": "tags"},
		map[string]any{"in": []any{map[string]any{"var": ""}, []any{"a", "b"}}},
	}}, doc)

	back, err := rulelogic.Decode(doc, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, p, back)
}

func TestRoundTrip_DecodeEncode(t *testing.T) {
	doc := map[string]any{"and": []any{
		map[string]any{">=": []any{map[string]any{"var": "age"}, 18}},
		map[string]any{"in": []any{map[string]any{"var": "status"}, []any{"active", "pending"}}},
		map[string]any{"or": []any{
			map[string]any{"startsWith": []any{map[string]any{"var": "email"}, "admin"}},
			map[string]any{"!": []any{map[string]any{"==": []any{map[string]any{"var": "banned"}, true}}}},
		}},
	}}
	p, err := rulelogic.Decode(doc, rb.Options{})
	require.NoError(t, err)
	out, err := rulelogic.Encode(p, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}
