// Package source reads predicate documents from JSON or YAML text into the
// decoded form the codecs consume (map[string]any, []any and scalars), and
// writes converted documents back out as JSON.
package source

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	rb "github.com/reoring/rulebridge"
)

// Syntax is the text encoding of a document.
type Syntax int

const (
	JSON Syntax = iota
	YAML
)

func (s Syntax) String() string {
	if s == YAML {
		return "yaml"
	}
	return "json"
}

// ErrEmpty is the cause of a parse_error for blank input.
var ErrEmpty = errors.New("source: empty document")

// SyntaxFor picks the syntax from a file extension; anything other than
// .yaml/.yml is JSON.
func SyntaxFor(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Decode parses data in the given syntax.
func Decode(data []byte, syn Syntax) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, rb.FailCause(rb.Root(), rb.CodeParseError, ErrEmpty, "syntax", syn.String())
	}
	if syn == YAML {
		return DecodeYAML(data)
	}
	return DecodeJSON(data)
}

// Read parses everything r yields.
func Read(r io.Reader, syn Syntax) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, syn)
}

// ReadFile parses the file at path, choosing the syntax by extension. "-"
// reads standard input as JSON.
func ReadFile(path string) (any, error) {
	if path == "-" {
		return Read(os.Stdin, JSON)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, SyntaxFor(path))
}
