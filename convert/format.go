package convert

import (
	"errors"
	"fmt"
	"strings"
)

// Format names a predicate representation.
type Format string

const (
	RuleLogic Format = "rule-logic"
	DocSchema Format = "doc-schema"
	FlatRules Format = "flat-rules"
)

// ErrUnknownFormat is returned by ParseFormat for unrecognized names.
var ErrUnknownFormat = errors.New("convert: unknown format")

var formatAliases = map[string]Format{
	"rule-logic": RuleLogic, "rulelogic": RuleLogic, "logic": RuleLogic,
	"doc-schema": DocSchema, "docschema": DocSchema, "schema": DocSchema,
	"flat-rules": FlatRules, "flatrules": FlatRules, "flat": FlatRules,
}

// ParseFormat resolves a format name or alias, case-insensitively.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Formats lists every supported format in a stable order.
func Formats() []Format { return []Format{RuleLogic, DocSchema, FlatRules} }

func (f Format) String() string { return string(f) }
