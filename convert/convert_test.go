package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/convert"
	"github.com/reoring/rulebridge/docschema"
	js "github.com/reoring/rulebridge/jsonschema"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]convert.Format{
		"rule-logic": convert.RuleLogic, "logic": convert.RuleLogic,
		"Schema": convert.DocSchema, "doc-schema": convert.DocSchema,
		" flat ": convert.FlatRules, "flat-rules": convert.FlatRules,
	} {
		got, err := convert.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := convert.ParseFormat("xml")
	assert.ErrorIs(t, err, convert.ErrUnknownFormat)
}

func endToEndLogic() map[string]any {
	return map[string]any{"and": []any{
		map[string]any{">=": []any{map[string]any{"var": "age"}, 18}},
		map[string]any{"in": []any{map[string]any{"var": "status"}, []any{"active", "pending"}}},
	}}
}

func TestEndToEnd_LogicSchemaLogic(t *testing.T) {
	schema, err := convert.LogicToSchema(endToEndLogic(), rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"$schema": js.Draft07,
		"type":    "object",
		"allOf": []any{
			map[string]any{"properties": map[string]any{"age": map[string]any{"type": "number", "minimum": 18}}},
			map[string]any{"properties": map[string]any{"status": map[string]any{"enum": []any{"active", "pending"}}}},
		},
	}, schema)
	require.NoError(t, docschema.Verify(schema))

	back, err := convert.SchemaToLogic(schema, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, endToEndLogic(), back)
}

func TestConvert_LiteralFirstThroughSchema(t *testing.T) {
	cases := []struct {
		in   map[string]any
		want map[string]any
	}{
		{
			map[string]any{"==": []any{18, map[string]any{"var": "age"}}},
			map[string]any{"==": []any{map[string]any{"var": "age"}, 18}},
		},
		{
			map[string]any{">=": []any{18, map[string]any{"var": "age"}}},
			map[string]any{"<=": []any{map[string]any{"var": "age"}, 18}},
		},
	}
	for _, tc := range cases {
		schema, err := convert.LogicToSchema(tc.in, rb.Options{})
		require.NoError(t, err)
		assert.NotContains(t, schema, "$ref")

		back, err := convert.SchemaToLogic(schema, rb.Options{})
		require.NoError(t, err)
		assert.Equal(t, tc.want, back)
	}
}

func TestConvert_AllPairs(t *testing.T) {
	logic := endToEndLogic()
	for _, from := range convert.Formats() {
		for _, to := range convert.Formats() {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				src, err := convert.Convert(logic, convert.RuleLogic, from, rb.Options{})
				require.NoError(t, err)
				out, err := convert.Convert(src, from, to, rb.Options{})
				require.NoError(t, err)
				back, err := convert.Convert(out, to, convert.RuleLogic, rb.Options{})
				require.NoError(t, err)
				assert.Equal(t, logic, back)
			})
		}
	}
}

func TestConvert_FlatPairs(t *testing.T) {
	flat := map[string]any{"combinator": "and", "rules": []any{
		map[string]any{"field": "age", "operator": ">=", "value": 18},
		map[string]any{"field": "status", "operator": "in", "value": []any{"active", "pending"}},
	}}
	got, err := convert.LogicToFlat(endToEndLogic(), rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, flat, got)

	logic, err := convert.FlatToLogic(flat, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, endToEndLogic(), logic)

	schema, err := convert.FlatToSchema(flat, rb.Options{})
	require.NoError(t, err)
	again, err := convert.SchemaToFlat(schema, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, flat, again)
}

func TestConvert_Fragment(t *testing.T) {
	c := convert.Converter{Fragment: true}
	out, err := c.Convert(map[string]any{"==": []any{map[string]any{"var": "a"}, 1}}, convert.RuleLogic, convert.DocSchema)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"properties": map[string]any{"a": map[string]any{"const": 1}}}, out)
}

func TestConvert_ConditionalSchema(t *testing.T) {
	doc := map[string]any{
		"if":   map[string]any{"properties": map[string]any{"role": map[string]any{"const": "admin"}}},
		"then": map[string]any{"required": []any{"badge"}},
	}
	out, err := convert.Convert(doc, convert.DocSchema, convert.RuleLogic, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"==": []any{map[string]any{"var": "role"}, "admin"}}, out)
}

func TestConvert_Errors(t *testing.T) {
	_, err := convert.Convert(map[string]any{"xor": []any{1, 2}}, convert.RuleLogic, convert.DocSchema, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeUnsupportedOperator))

	_, err = convert.Convert(map[string]any{}, convert.Format("xml"), convert.DocSchema, rb.Options{})
	assert.ErrorIs(t, err, convert.ErrUnknownFormat)

	_, err = convert.Convert(map[string]any{}, convert.RuleLogic, convert.Format("xml"), rb.Options{})
	assert.ErrorIs(t, err, convert.ErrUnknownFormat)

	nested := map[string]any{"and": []any{
		map[string]any{"==": []any{map[string]any{"var": "a"}, 1}},
		map[string]any{"or": []any{
			map[string]any{"==": []any{map[string]any{"var": "b"}, 1}},
			map[string]any{"==": []any{map[string]any{"var": "c"}, 1}},
		}},
	}}
	_, err = convert.Convert(nested, convert.RuleLogic, convert.FlatRules, rb.Options{})
	assert.True(t, rb.HasCode(err, rb.CodeUnsupportedNesting))
}

func TestCodecFor(t *testing.T) {
	c, ok := convert.CodecFor(convert.DocSchema)
	require.True(t, ok)
	out, err := c.Encode(rb.Always{}, rb.Options{})
	require.NoError(t, err)
	assert.Equal(t, js.Wrap(map[string]any{}), out)

	_, ok = convert.CodecFor("nope")
	assert.False(t, ok)
}
