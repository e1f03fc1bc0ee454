package rulebridge

import (
	"fmt"
	"strconv"
	"strings"
)

// Pointer builds JSON Pointer locations into an input document in a
// chain-safe way and creates Issues at them. The zero value is the root.
type Pointer struct {
	parts []string
}

// Root returns the pointer to the document root.
func Root() Pointer { return Pointer{} }

// Field returns a pointer to the object member name below p.
func (p Pointer) Field(name string) Pointer {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return Pointer{parts: append(append([]string{}, p.parts...), esc)}
}

// Index returns a pointer to the array element i below p.
func (p Pointer) Index(i int) Pointer {
	return Pointer{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Depth is the number of reference tokens in p.
func (p Pointer) Depth() int { return len(p.parts) }

func (p Pointer) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue at p. kv are alternating key/value params that are
// also handed to the translator when the issue is localized.
func (p Pointer) Issue(code string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(m) == 0 {
		m = nil
	}
	return Issue{Path: p.String(), Code: code, Params: m}
}
