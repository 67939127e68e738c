package walk

import (
	"fmt"

	"ulang/syntax"
	"ulang/types"
)

// ItemKind enumerates the kinds of expression item.
type ItemKind int

// Enumeration of item kinds.
const (
	ITEM_LITERAL ItemKind = iota
	ITEM_UNARY_OP
	ITEM_BINARY_OP
	ITEM_LOCAL
	ITEM_GLOBAL
	ITEM_FIELD
	ITEM_FUNC_CALL
	ITEM_PARAM
	ITEM_TYPE
	ITEM_SCOPE_BEGIN
	ITEM_SCOPE_END
	ITEM_ACCESSOR
)

var itemKindNames = [...]string{
	"literal", "unary", "binary", "local", "global", "field", "call", "param",
	"type", "(", ")", ".",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}

	return fmt.Sprintf("<item %d>", int(k))
}

// Item is a single resolved operand or operator of an expression.
type Item struct {
	Kind ItemKind

	// The operator of unary and binary operator items.
	Op syntax.Operator

	// The literal kind and, for number literals, the number type of literal
	// items.  Value holds the raw little-endian bytes of numbers and booleans.
	Lit     syntax.LiteralKind
	NumType syntax.NumberType
	Value   [16]byte

	// The name of identifier items or the text of string literals.
	Name string

	// The index of the item in its table: the parameter index, the register
	// id of a local, the global index, the function index, or the field index
	// within the owning struct.
	Index int

	// Whether a local is held in an aggregate register.
	Aggregate bool

	// The type of the operand when it is known.  Type items hold the type they
	// name.
	Type    types.TypeRef
	HasType bool

	// The byte offset and length of the item's source text.
	Pos, Len int
}

// IsOperand returns whether the item is an operand: anything other than an
// operator, scope marker or accessor.
func (it *Item) IsOperand() bool {
	switch it.Kind {
	case ITEM_UNARY_OP, ITEM_BINARY_OP, ITEM_SCOPE_BEGIN, ITEM_SCOPE_END, ITEM_ACCESSOR:
		return false
	}

	return true
}

// IsNumber returns whether the item is a number literal.
func (it *Item) IsNumber() bool {
	return it.Kind == ITEM_LITERAL && it.Lit == syntax.LIT_NUMBER
}

// IsBool returns whether the item is a boolean literal.
func (it *Item) IsBool() bool {
	return it.Kind == ITEM_LITERAL && (it.Lit == syntax.LIT_TRUE || it.Lit == syntax.LIT_FALSE)
}

// width returns the number of significant bytes of a number literal: its
// suffix width if it has one, else the smallest power of two number of bytes
// that holds every nonzero byte.
func (it *Item) width() int {
	if it.NumType.IsSized() {
		return it.NumType.ByteSize()
	}

	top := 0
	for i, b := range it.Value {
		if b != 0 {
			top = i
		}
	}

	w := 1
	for w <= top {
		w <<= 1
	}

	return w
}

// Immediate returns the canonical byte encoding of a literal item for use as
// an instruction immediate.  Number literals are cut to their width; booleans
// and null are a single byte.  String literals have no immediate encoding.
func (it *Item) Immediate() ([]byte, bool) {
	if it.Kind != ITEM_LITERAL {
		return nil, false
	}

	switch it.Lit {
	case syntax.LIT_NUMBER:
		imm := make([]byte, it.width())
		copy(imm, it.Value[:])
		return imm, true
	case syntax.LIT_TRUE:
		return []byte{1}, true
	case syntax.LIT_FALSE, syntax.LIT_NULL:
		return []byte{0}, true
	}

	return nil, false
}

func (it *Item) String() string {
	switch it.Kind {
	case ITEM_LITERAL:
		if it.Lit == syntax.LIT_NUMBER {
			imm, _ := it.Immediate()
			return fmt.Sprintf("%s%x", it.NumType, imm)
		}

		return it.Name
	case ITEM_UNARY_OP, ITEM_BINARY_OP:
		return it.Op.String()
	case ITEM_SCOPE_BEGIN, ITEM_SCOPE_END, ITEM_ACCESSOR:
		return it.Kind.String()
	}

	return fmt.Sprintf("%s:%s", it.Kind, it.Name)
}
