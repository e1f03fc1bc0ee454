package flatrules

import rb "github.com/reoring/rulebridge"

// Operator names emitted by FromPredicate.
const (
	OpEqual      = "=="
	OpNotEqual   = "!="
	OpGreater    = ">"
	OpGreaterEq  = ">="
	OpLess       = "<"
	OpLessEq     = "<="
	OpBetween    = "between"
	OpNotBetween = "notBetween"
	OpIn         = "in"
	OpNotIn      = "notIn"
	OpStartsWith = "startsWith"
	OpEndsWith   = "endsWith"
)

// operators maps every accepted name, aliases included, to its emitted name.
var operators = map[string]string{
	"==": OpEqual, "=": OpEqual, "===": OpEqual, "equal": OpEqual,
	"!=": OpNotEqual, "!==": OpNotEqual,
	">": OpGreater, "gt": OpGreater,
	">=": OpGreaterEq, "gte": OpGreaterEq,
	"<": OpLess, "lt": OpLess,
	"<=": OpLessEq, "lte": OpLessEq,
	OpBetween:    OpBetween,
	OpNotBetween: OpNotBetween,
	OpIn:         OpIn,
	OpNotIn:      OpNotIn,
	OpStartsWith: OpStartsWith, "beginsWith": OpStartsWith,
	OpEndsWith: OpEndsWith,
}

var compareByName = map[string]rb.CompareOp{
	OpEqual: rb.EQ, OpNotEqual: rb.NEQ,
	OpGreater: rb.GT, OpGreaterEq: rb.GTE,
	OpLess: rb.LT, OpLessEq: rb.LTE,
}

// Normalize returns the emitted name for an accepted operator name.
func Normalize(name string) (string, bool) {
	n, ok := operators[name]
	return n, ok
}
