package jsonschema

// Draft07 is the meta-schema URI placed on wrapped documents.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// Keywords understood by the doc-schema subset.
const (
	KeySchema           = "$schema"
	KeyRef              = "$ref"
	KeyType             = "type"
	KeyFormat           = "format"
	KeyConst            = "const"
	KeyEnum             = "enum"
	KeyPattern          = "pattern"
	KeyMinimum          = "minimum"
	KeyMaximum          = "maximum"
	KeyExclusiveMinimum = "exclusiveMinimum"
	KeyExclusiveMaximum = "exclusiveMaximum"
	KeyAllOf            = "allOf"
	KeyAnyOf            = "anyOf"
	KeyNot              = "not"
	KeyProperties       = "properties"
	KeyItems            = "items"
	KeyIf               = "if"
	KeyThen             = "then"
	KeyElse             = "else"
)

// Type and format names.
const (
	TypeObject  = "object"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeArray   = "array"

	FormatDate = "date"
)

// IsSchema is the structural type guard for schema fragments: v must be an
// object and every recognized keyword must carry a value of the right shape.
// Unrecognized keywords are ignored.
func IsSchema(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for k, val := range m {
		switch k {
		case KeyRef, KeyPattern, KeyFormat, KeySchema:
			if _, ok := val.(string); !ok {
				return false
			}
		case KeyType:
			switch val.(type) {
			case string, []any:
			default:
				return false
			}
		case KeyEnum, KeyAllOf, KeyAnyOf:
			if _, ok := val.([]any); !ok {
				return false
			}
		case KeyProperties:
			if _, ok := val.(map[string]any); !ok {
				return false
			}
		case KeyNot, KeyIf, KeyThen, KeyElse, KeyItems:
			switch val.(type) {
			case map[string]any, bool:
			default:
				return false
			}
		}
	}
	return true
}

// TypeName returns the "type" keyword when it is a single string.
func TypeName(m map[string]any) string {
	s, _ := m[KeyType].(string)
	return s
}

// Wrap merges a bare fragment into a draft-07 object envelope. Keys of the
// fragment take precedence over the envelope defaults.
func Wrap(fragment map[string]any) map[string]any {
	out := map[string]any{
		KeySchema: Draft07,
		KeyType:   TypeObject,
	}
	for k, v := range fragment {
		out[k] = v
	}
	return out
}

// Clone deep-copies a JSON-like value (maps and slices are copied, scalars
// are shared).
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	default:
		return v
	}
}

// CloneMap deep-copies m.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}
