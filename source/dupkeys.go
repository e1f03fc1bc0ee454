package source

import (
	"bytes"

	j "github.com/goccy/go-json"

	rb "github.com/reoring/rulebridge"
)

type dupFrame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
	at           rb.Pointer
}

// checkDuplicateKeys walks the token stream of data and fails with
// duplicate_key at the first repeated object key. Syntax errors are left to
// the full decode.
func checkDuplicateKeys(data []byte) error {
	dec := j.NewDecoder(bytes.NewReader(data))
	var stack []dupFrame
	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF, or a syntax error the full decode reports
			return nil
		}
		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{', '[':
				stack = append(stack, dupFrame{
					object:       v == '{',
					keys:         map[string]struct{}{},
					expectingKey: v == '{',
					at:           childPointer(stack),
				})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				advance(stack)
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, dup := top.keys[v]; dup {
					return rb.Fail(top.at.Field(v), rb.CodeDuplicateKey, "key", v)
				}
				top.keys[v] = struct{}{}
				top.key = v
				top.expectingKey = false
				continue
			}
			advance(stack)
		default:
			advance(stack)
		}
	}
}

func childPointer(stack []dupFrame) rb.Pointer {
	n := len(stack)
	if n == 0 {
		return rb.Root()
	}
	top := stack[n-1]
	if top.object {
		return top.at.Field(top.key)
	}
	return top.at.Index(top.index)
}

// advance marks the end of one value inside the innermost container.
func advance(stack []dupFrame) {
	n := len(stack)
	if n == 0 {
		return
	}
	top := &stack[n-1]
	if top.object {
		top.expectingKey = true
		return
	}
	top.index++
}
