package source

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	rb "github.com/reoring/rulebridge"
)

// DecodeYAML parses the first YAML document in data and normalizes it to
// JSON-like values.
func DecodeYAML(data []byte) (any, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, rb.FailCause(rb.Root(), rb.CodeParseError, err, "syntax", YAML.String())
	}
	return normalize(node), nil
}

// normalize converts YAML-decoded values (which may contain map[any]any)
// into map[string]any recursively. Non-string keys are dropped.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	default:
		return v
	}
}

// DecodeYAMLDocuments parses every document of a multi-document YAML stream.
// Empty documents are skipped.
func DecodeYAMLDocuments(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for i := 0; ; i++ {
		var node any
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, rb.FailCause(rb.Root().Index(i), rb.CodeParseError, err, "syntax", YAML.String())
		}
		if node == nil {
			continue
		}
		docs = append(docs, normalize(node))
	}
	return docs, nil
}
