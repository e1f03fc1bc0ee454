package docschema

import (
	"regexp"
	"strings"

	rb "github.com/reoring/rulebridge"
)

const metaChars = `\.+*?()|[]{}^$`

// anchorOf reads "^lit" as a prefix, "lit$" as a suffix and "^lit$" as
// equality. lit must be a plain literal once escapes are removed.
func anchorOf(pattern string) (rb.Predicate, bool) {
	prefix := strings.HasPrefix(pattern, "^")
	suffix := endsWithAnchor(pattern)
	body := pattern
	if prefix {
		body = body[1:]
	}
	if suffix {
		body = body[:len(body)-1]
	}
	if !prefix && !suffix {
		return nil, false
	}
	lit, ok := unquoteMeta(body)
	if !ok {
		return nil, false
	}
	switch {
	case prefix && suffix:
		return rb.Comparison{Op: rb.EQ, Left: rb.Placeholder(), Right: rb.Const{Value: lit}}, true
	case prefix:
		return rb.StringAnchor{Field: rb.Placeholder(), Literal: lit, Side: rb.PREFIX}, true
	default:
		return rb.StringAnchor{Field: rb.Placeholder(), Literal: lit, Side: rb.SUFFIX}, true
	}
}

// endsWithAnchor reports a trailing "$" not escaped by a backslash.
func endsWithAnchor(p string) bool {
	if !strings.HasSuffix(p, "$") {
		return false
	}
	n := 0
	for i := len(p) - 2; i >= 0 && p[i] == '\\'; i-- {
		n++
	}
	return n%2 == 0
}

// unquoteMeta is the inverse of regexp.QuoteMeta. It fails on any unescaped
// metacharacter or on escapes that are not metacharacters (\d, \w, ...).
func unquoteMeta(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			if i+1 >= len(s) || !strings.ContainsRune(metaChars, rune(s[i+1])) {
				return "", false
			}
			i++
			b.WriteByte(s[i])
			continue
		}
		if strings.ContainsRune(metaChars, rune(c)) {
			return "", false
		}
		b.WriteByte(c)
	}
	return b.String(), true
}

func prefixPattern(lit string) string { return "^" + regexp.QuoteMeta(lit) }
func suffixPattern(lit string) string { return regexp.QuoteMeta(lit) + "$" }
