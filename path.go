package rulebridge

import (
	"errors"
	"strings"

	"github.com/reoring/rulebridge/jsonschema"
)

// RefPrefix is the prefix every field $ref carries.
const RefPrefix = "#/properties/"

const refSeparator = "/properties/"

// ErrMalformedRef is the cause attached to malformed_ref issues.
var ErrMalformedRef = errors.New("rulebridge: malformed $ref")

// Path is an ordered sequence of identifier segments addressing a document
// field. An empty Path addresses the current value (an array element inside
// AllElements, or the enclosing property for implicit refs).
type Path []string

// ParseDotted splits a dotted rule-logic var name ("a.b") into segments.
// The empty string yields an empty Path.
func ParseDotted(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, "."))
}

// Dotted joins the segments with "."; the inverse of ParseDotted for segments
// without literal dots.
func (p Path) Dotted() string { return strings.Join(p, ".") }

// Ref renders p as a schema reference: ["a","b"] -> "#/properties/a/properties/b".
func (p Path) Ref() string { return RefPrefix + strings.Join(p, refSeparator) }

// Prepend returns a new path with segs in front of p.
func (p Path) Prepend(segs ...string) Path {
	out := make(Path, 0, len(segs)+len(p))
	out = append(out, segs...)
	return append(out, p...)
}

// ResolveRef parses a "#/properties/..." reference back into a Path.
func ResolveRef(ref string) (Path, error) {
	if !strings.HasPrefix(ref, RefPrefix) {
		return nil, ErrMalformedRef
	}
	rest := strings.TrimPrefix(ref, RefPrefix)
	segs := strings.Split(rest, refSeparator)
	for _, s := range segs {
		if s == "" {
			return nil, ErrMalformedRef
		}
	}
	return Path(segs), nil
}

// WrapProperties embeds leaf under nested "properties" objects, one level per
// segment: ["a","b"] -> {"properties":{"a":{"properties":{"b": leaf}}}}.
// An empty path returns leaf unchanged.
func WrapProperties(p Path, leaf map[string]any) map[string]any {
	out := leaf
	for i := len(p) - 1; i >= 0; i-- {
		out = map[string]any{jsonschema.KeyProperties: map[string]any{p[i]: out}}
	}
	return out
}
