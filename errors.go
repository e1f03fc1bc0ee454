package rulebridge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/rulebridge/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnsupportedOperator  = "unsupported_operator"
	CodeUnsupportedConstruct = "unsupported_construct"
	CodeMalformedRef         = "malformed_ref"
	CodeUnsupportedNesting   = "unsupported_nesting"
	CodeInputTooDeep         = "input_too_deep"
	// Argument shape problems (arity, non-array args, non-string var names)
	CodeInvalidArguments = "invalid_arguments"
	// Text decoding failures surfaced by the source package
	CodeParseError = "parse_error"
	// A JSON object repeats a key; decoding would silently keep the last one.
	CodeDuplicateKey = "duplicate_key"
)

// Issue represents a single conversion failure.
type Issue struct {
	Path    string // JSON Pointer into the input document (for example: /and/1/in).
	Code    string // One of the codes listed above.
	// Message is filled by Localize; Error renders the default language when
	// it is empty.
	Message string
	// Params carries structured parameters (e.g., {"operator":"xor"}) for i18n
	// and observability.
	Params map[string]any
	// Cause is an optional underlying error.
	Cause error
}

// Issues is a collection of conversion errors that implements error.
// Conversions stop at the first failure, so in practice it holds one entry.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unsupported_operator at /xor: unsupported operator "xor"
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if msg := it.message(); msg != "" {
			fmt.Fprintf(b, ": %s", msg)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As can see through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an Issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Localize returns a copy of the issues with messages rendered by tr. A nil
// tr renders the default language.
func (iss Issues) Localize(tr i18n.Translator) Issues {
	if tr == nil {
		tr = i18n.For(i18n.DefaultLanguage)
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Message = tr.Message(it.Code, stringParams(it.Params))
		out[i] = it
	}
	return out
}

func (it Issue) message() string {
	if it.Message != "" {
		return it.Message
	}
	return i18n.For(i18n.DefaultLanguage).Message(it.Code, stringParams(it.Params))
}

// Fail builds a single-issue error at p. kv are alternating key/value params.
func Fail(p Pointer, code string, kv ...any) error {
	return Issues{p.Issue(code, kv...)}
}

// FailCause is Fail with an underlying cause attached.
func FailCause(p Pointer, code string, cause error, kv ...any) error {
	it := p.Issue(code, kv...)
	it.Cause = cause
	return Issues{it}
}

func stringParams(m map[string]any) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}
