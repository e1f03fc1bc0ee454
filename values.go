package rulebridge

import (
	"encoding/json"
	"time"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// IsDate reports whether v is a string that parses as a calendar date.
func IsDate(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	for _, l := range dateLayouts {
		if _, err := time.Parse(l, s); err == nil {
			return true
		}
	}
	return false
}

// IsNumber reports whether v is a JSON number in any of the Go forms decoders
// produce.
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

// IsScalar reports whether v can be a Const value: a JSON scalar or an array
// of scalars.
func IsScalar(v any) bool {
	switch t := v.(type) {
	case nil, string, bool:
		return true
	case []any:
		for _, e := range t {
			if _, nested := e.([]any); nested || !IsScalar(e) {
				return false
			}
		}
		return true
	}
	return IsNumber(v)
}
