package convert

import (
	rb "github.com/reoring/rulebridge"
	"github.com/reoring/rulebridge/docschema"
	"github.com/reoring/rulebridge/flatrules"
	"github.com/reoring/rulebridge/rulelogic"
)

// Codec translates one representation to and from the canonical predicate.
type Codec interface {
	Decode(doc any, opts rb.Options) (rb.Predicate, error)
	Encode(p rb.Predicate, opts rb.Options) (any, error)
}

type ruleLogicCodec struct{}

func (ruleLogicCodec) Decode(doc any, opts rb.Options) (rb.Predicate, error) {
	return rulelogic.Decode(doc, opts)
}

func (ruleLogicCodec) Encode(p rb.Predicate, opts rb.Options) (any, error) {
	return rulelogic.Encode(p, opts)
}

// docSchemaCodec reads the "if" clause of conditional schemas. Fragment
// suppresses the draft-07 envelope on encode.
type docSchemaCodec struct {
	Fragment bool
}

func (docSchemaCodec) Decode(doc any, opts rb.Options) (rb.Predicate, error) {
	return docschema.Decode(docschema.Condition(doc), opts)
}

func (c docSchemaCodec) Encode(p rb.Predicate, opts rb.Options) (any, error) {
	if c.Fragment {
		return docschema.Encode(p, opts)
	}
	return docschema.EncodeDocument(p, opts)
}

type flatRulesCodec struct{}

func (flatRulesCodec) Decode(doc any, opts rb.Options) (rb.Predicate, error) {
	return flatrules.Decode(doc, opts)
}

func (flatRulesCodec) Encode(p rb.Predicate, opts rb.Options) (any, error) {
	return flatrules.Encode(p, opts)
}

// CodecFor returns the codec of f with default settings.
func CodecFor(f Format) (Codec, bool) {
	return Converter{}.codec(f)
}
