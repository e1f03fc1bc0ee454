package convert

import (
	"fmt"

	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/docschema"
	"github.com/reoring/rulebridge/flatrules"
	"github.com/reoring/rulebridge/rulelogic"
)

// Converter runs decode-then-encode conversions between formats.
type Converter struct {
	Options rb.Options
	// Fragment emits doc-schema output without the draft-07 envelope.
	Fragment bool
}

func (c Converter) codec(f Format) (Codec, bool) {
	switch f {
	case RuleLogic:
		return ruleLogicCodec{}, true
	case DocSchema:
		return docSchemaCodec{Fragment: c.Fragment}, true
	case FlatRules:
		return flatRulesCodec{}, true
	}
	return nil, false
}

// Convert translates doc from one format to another. Converting a format to
// itself normalizes the document through the canonical model. Doc-schema to
// flat-rules ranks leaf shapes in flat operator order (see
// flatrules.FromSchema).
func (c Converter) Convert(doc any, from, to Format) (any, error) {
	if from == DocSchema && to == FlatRules {
		return SchemaToFlat(doc, c.Options)
	}
	p, err := c.Decode(doc, from)
	if err != nil {
		return nil, err
	}
	return c.Encode(p, to)
}

// Decode builds the canonical predicate of doc.
func (c Converter) Decode(doc any, from Format) (rb.Predicate, error) {
	dec, ok := c.codec(from)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, from)
	}
	return dec.Decode(doc, c.Options)
}

// Encode renders p in the given format.
func (c Converter) Encode(p rb.Predicate, to Format) (any, error) {
	enc, ok := c.codec(to)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, to)
	}
	return enc.Encode(p, c.Options)
}

// Convert is Converter{Options: opts}.Convert.
func Convert(doc any, from, to Format, opts rb.Options) (any, error) {
	return Converter{Options: opts}.Convert(doc, from, to)
}

// LogicToSchema converts a rule-logic document into a wrapped doc-schema.
func LogicToSchema(doc any, opts rb.Options) (map[string]any, error) {
	p, err := rulelogic.Decode(doc, opts)
	if err != nil {
		return nil, err
	}
	return docschema.EncodeDocument(p, opts)
}

// SchemaToLogic converts a doc-schema (or the "if" clause of a conditional
// schema) into rule-logic.
func SchemaToLogic(doc any, opts rb.Options) (any, error) {
	p, err := docschema.Decode(docschema.Condition(doc), opts)
	if err != nil {
		return nil, err
	}
	return rulelogic.Encode(p, opts)
}

// LogicToFlat converts rule-logic into a flat-rule document.
func LogicToFlat(doc any, opts rb.Options) (map[string]any, error) {
	p, err := rulelogic.Decode(doc, opts)
	if err != nil {
		return nil, err
	}
	return flatrules.Encode(p, opts)
}

// FlatToLogic converts a flat-rule document into rule-logic.
func FlatToLogic(doc any, opts rb.Options) (any, error) {
	p, err := flatrules.Decode(doc, opts)
	if err != nil {
		return nil, err
	}
	return rulelogic.Encode(p, opts)
}

// SchemaToFlat converts a doc-schema into a flat-rule document.
func SchemaToFlat(doc any, opts rb.Options) (map[string]any, error) {
	g, err := flatrules.FromSchema(doc, opts)
	if err != nil {
		return nil, err
	}
	return g.Document(), nil
}

// FlatToSchema converts a flat-rule document into a wrapped doc-schema.
func FlatToSchema(doc any, opts rb.Options) (map[string]any, error) {
	p, err := flatrules.Decode(doc, opts)
	if err != nil {
		return nil, err
	}
	return docschema.EncodeDocument(p, opts)
}
