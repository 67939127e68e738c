package walk

import "ulang/syntax"

// unaryPrecedence is the precedence of every prefix unary operator: it binds
// tighter than any binary operator.
const unaryPrecedence = 14

// binaryPrecedences maps binary operators to their precedence.  Higher binds
// tighter.  Operators missing from the table have the lowest precedence.
var binaryPrecedences = map[syntax.Operator]int{
	syntax.OP_STAR:  12,
	syntax.OP_SLASH: 12,

	syntax.OP_PLUS:  11,
	syntax.OP_MINUS: 11,

	syntax.OP_SHL: 10,
	syntax.OP_SHR: 10,

	syntax.OP_LT:   9,
	syntax.OP_GT:   9,
	syntax.OP_LTEQ: 9,
	syntax.OP_GTEQ: 9,

	syntax.OP_EQ:  8,
	syntax.OP_NEQ: 8,

	syntax.OP_BWAND: 7,
	syntax.OP_BWXOR: 6,
	syntax.OP_BWOR:  5,

	syntax.OP_LAND: 4,
	syntax.OP_LXOR: 3,
	syntax.OP_LOR:  2,

	syntax.OP_OPTION:      2,
	syntax.OP_OPTION_ELSE: 2,
}

// precedenceOf returns the precedence of a binary operator.  Assignments and
// compound assignments have precedence 1.
func precedenceOf(op syntax.Operator) int {
	if prec, ok := binaryPrecedences[op]; ok {
		return prec
	}

	return 1
}

// isRightAssoc returns whether a binary operator is right associative.
func isRightAssoc(op syntax.Operator) bool {
	return precedenceOf(op) == 1 || op == syntax.OP_OPTION_ELSE
}

// isPrefixOnly returns whether op is always a prefix unary operator.
func isPrefixOnly(op syntax.Operator) bool {
	return op == syntax.OP_COMPL || op == syntax.OP_NOT
}

// isUnaryCapable returns whether op is unary when it appears where an operand
// is expected.
func isUnaryCapable(op syntax.Operator) bool {
	switch op {
	case syntax.OP_PLUS, syntax.OP_MINUS, syntax.OP_STAR:
		return true
	}

	return false
}
