package types

import (
	"fmt"
	"strings"
)

// TypeId identifies the base of a type reference: either one of the builtin
// primitive types or a user-defined struct or union.  The values are the
// on-disk encoding used by module files and must never change.
type TypeId uint8

// Enumeration of type ids.
const (
	UserStruct TypeId = 0x00
	UserUnion  TypeId = 0x01

	I8   TypeId = 0x11
	I16  TypeId = 0x12
	I32  TypeId = 0x13
	I64  TypeId = 0x14
	I128 TypeId = 0x15

	U8   TypeId = 0x21
	U16  TypeId = 0x22
	U32  TypeId = 0x23
	U64  TypeId = 0x24
	U128 TypeId = 0x25

	F16  TypeId = 0x32
	F32  TypeId = 0x33
	F64  TypeId = 0x34
	F128 TypeId = 0x35

	B8  TypeId = 0x41
	B16 TypeId = 0x42
	B32 TypeId = 0x43
	B64 TypeId = 0x44

	C8  TypeId = 0x51
	C16 TypeId = 0x52
	C32 TypeId = 0x53

	ISize TypeId = 0x70
	USize TypeId = 0x71

	Void     TypeId = 0x80
	NoReturn TypeId = 0x81
	Variadic TypeId = 0x82
)

// builtinNames maps builtin type names to their ids.  It is never mutated.
var builtinNames = map[string]TypeId{
	"i8":       I8,
	"i16":      I16,
	"i32":      I32,
	"i64":      I64,
	"i128":     I128,
	"u8":       U8,
	"u16":      U16,
	"u32":      U32,
	"u64":      U64,
	"u128":     U128,
	"f16":      F16,
	"f32":      F32,
	"f64":      F64,
	"f128":     F128,
	"b8":       B8,
	"b16":      B16,
	"b32":      B32,
	"b64":      B64,
	"c8":       C8,
	"c16":      C16,
	"c32":      C32,
	"isize":    ISize,
	"usize":    USize,
	"void":     Void,
	"noreturn": NoReturn,
}

// idNames is the inverse of builtinNames.
var idNames = func() map[TypeId]string {
	m := make(map[TypeId]string, len(builtinNames)+3)
	for name, id := range builtinNames {
		m[id] = name
	}

	m[UserStruct] = "struct"
	m[UserUnion] = "union"
	m[Variadic] = "..."
	return m
}()

// LookupBuiltin returns the type id of the builtin type with the given name.
func LookupBuiltin(name string) (TypeId, bool) {
	id, ok := builtinNames[name]
	return id, ok
}

// IsValid returns whether id is one of the enumerated type ids.
func (id TypeId) IsValid() bool {
	_, ok := idNames[id]
	return ok
}

// IsUser returns whether id refers to a user-defined struct or union.
func (id TypeId) IsUser() bool {
	return id == UserStruct || id == UserUnion
}

// Size returns the size of a value of the builtin type in bytes.  User types,
// void and the variadic marker have no intrinsic size and return 0.  The
// pointer sized types are assumed to be 64 bits wide.
func (id TypeId) Size() int {
	switch id {
	case I8, U8, B8, C8:
		return 1
	case I16, U16, F16, B16, C16:
		return 2
	case I32, U32, F32, B32, C32:
		return 4
	case I64, U64, F64, B64, ISize, USize:
		return 8
	case I128, U128, F128:
		return 16
	}

	return 0
}

func (id TypeId) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}

	return fmt.Sprintf("<type 0x%02x>", uint8(id))
}

// -----------------------------------------------------------------------------

// MaxVecCount is the largest vector length that fits in a 24 bit count.
const MaxVecCount = 1<<24 - 1

// TypeRef is a reference to a type as it appears in a declaration.  A zero
// VecCount means the type is not a vector.  StructIndex is only meaningful
// when Id is UserStruct or UserUnion in which case it indexes into the module's
// struct or union table respectively.
type TypeRef struct {
	Id          TypeId
	Indir       uint8
	StructIndex uint16
	VecCount    uint32
	VecIndir    uint8
}

// NamedTypes is implemented by anything that can name user types by index: in
// practice the module's symbol tables.
type NamedTypes interface {
	StructName(index int) string
	UnionName(index int) string
}

// IsVector returns whether the type is a fixed-length vector.
func (tr TypeRef) IsVector() bool {
	return tr.VecCount > 0
}

// Repr returns the source-level representation of the type.  names may be nil
// in which case user types are displayed by index.
func (tr TypeRef) Repr(names NamedTypes) string {
	var sb strings.Builder

	switch {
	case tr.Id == UserStruct && names != nil:
		sb.WriteString(names.StructName(int(tr.StructIndex)))
	case tr.Id == UserUnion && names != nil:
		sb.WriteString(names.UnionName(int(tr.StructIndex)))
	case tr.Id.IsUser():
		fmt.Fprintf(&sb, "%s#%d", tr.Id, tr.StructIndex)
	default:
		sb.WriteString(tr.Id.String())
	}

	if tr.IsVector() {
		sb.WriteString(strings.Repeat("*", int(tr.VecIndir)))
		fmt.Fprintf(&sb, "[%d]", tr.VecCount)
	}

	sb.WriteString(strings.Repeat("*", int(tr.Indir)))
	return sb.String()
}
