// Package rulebridge translates predicates between three declarative
// representations:
//
// - rule-logic: operator-keyed nested expressions ({"and":[{">=":[{"var":"age"},18]}]})
// - doc-schema: a JSON Schema subset (properties, allOf/anyOf/not, const, enum, pattern, ranges, $ref)
// - flat-rules: one combinator over a list of field/operator/value tuples
//
// The root package holds the canonical Predicate model the codecs meet in,
// the field path resolver ("a.b" <-> "#/properties/a/properties/b"), and the
// Issues error model. Codecs live in rulelogic/, docschema/ and flatrules/;
// convert/ fuses them pairwise.
//
// Design policy:
// - Documents are exchanged as decoded JSON values (map[string]any, []any, scalars); text I/O lives in source/.
// - Conversions are pure functions of their input: no shared state, no partial results.
// - Rule-logic decode is strict; doc-schema decode is total over unrecognized shapes.
//
// Typical usage:
//
//  p, err := rulelogic.Decode(doc, rulebridge.Options{})
//  schema, err := docschema.EncodeDocument(p, rulebridge.Options{})
//
//  out, err := convert.Convert(doc, convert.RuleLogic, convert.DocSchema, rulebridge.Options{MaxDepth: 64})
//
package rulebridge
