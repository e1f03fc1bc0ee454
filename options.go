package rulebridge

// Options controls every codec's decode and encode walk.
type Options struct {
	// MaxDepth bounds the nesting depth of the walked document; 0 disables
	// the check.
	MaxDepth int
}

// CheckDepth fails with input_too_deep when the pointer p is nested deeper
// than MaxDepth.
func (o Options) CheckDepth(p Pointer) error {
	if o.MaxDepth > 0 && p.Depth() > o.MaxDepth {
		return Fail(p, CodeInputTooDeep, "depth", p.Depth(), "max", o.MaxDepth)
	}
	return nil
}
