package rulelogic

import rb "github.com/reoring/rulebridge"

// operator is the canonical form every accepted rule-logic key unifies to.
type operator int

const (
	opEq operator = iota
	opNeq
	opGt
	opGte
	opLt
	opLte
	opIn
	opStartsWith
	opEndsWith
	opBetween
	opAnd
	opOr
	opNot
	opVar
	opAll
)

// operators maps every accepted key, aliases included, to its canonical
// operator.
var operators = map[string]operator{
	"==": opEq, "===": opEq, "equal": opEq,
	"!=": opNeq, "!==": opNeq,
	">": opGt, "gt": opGt,
	">=": opGte, "gte": opGte,
	"<": opLt, "lt": opLt,
	"<=": opLte, "lte": opLte,
	"in":         opIn,
	"startsWith": opStartsWith,
	"endsWith":   opEndsWith,
	"between":    opBetween,
	"and":        opAnd, "&&": opAnd,
	"or": opOr, "||": opOr,
	"!": opNot, "not": opNot,
	"var": opVar,
	"all": opAll,
}

var compareOps = map[operator]rb.CompareOp{
	opEq: rb.EQ, opNeq: rb.NEQ, opGt: rb.GT, opGte: rb.GTE, opLt: rb.LT, opLte: rb.LTE,
}

// Keys emitted by Encode.
const (
	keyVar        = "var"
	keyIn         = "in"
	keyStartsWith = "startsWith"
	keyEndsWith   = "endsWith"
	keyAnd        = "and"
	keyOr         = "or"
	keyNot        = "!"
	keyAll        = "all"
)
