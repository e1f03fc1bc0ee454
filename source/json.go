package source

import (
	"bytes"
	"errors"
	"io"

	j "github.com/goccy/go-json"

	rb "github.com/reoring/rulebridge"
)

// DecodeJSON parses a single JSON value. Trailing data and repeated object
// keys are errors.
func DecodeJSON(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, parseError(err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailing
		}
		return nil, parseError(err)
	}
	if err := checkDuplicateKeys(data); err != nil {
		return nil, err
	}
	return v, nil
}

var errTrailing = errors.New("source: trailing data after JSON value")

func parseError(err error) error {
	kv := []any{"syntax", JSON.String()}
	var se *j.SyntaxError
	if errors.As(err, &se) {
		kv = append(kv, "offset", se.Offset)
	}
	return rb.FailCause(rb.Root(), rb.CodeParseError, err, kv...)
}

// EncodeJSON renders v as JSON, indented with two spaces when indent is set.
// Map keys are emitted in sorted order.
func EncodeJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return j.MarshalIndent(v, "", "  ")
	}
	return j.Marshal(v)
}
