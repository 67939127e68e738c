// Package abi renders the binary interface of a compiled module as an LLVM
// declaration header: one named type per struct and union, one external global
// per module global and one declaration per function.  Native code can link
// against a module's layout by including the header.
package abi

import (
	"fmt"
	"os"

	"ulang/depm"
	"ulang/types"
	"ulang/util"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
)

// PointerSize is the size of a pointer in bytes on every target.
const PointerSize = 8

// Generator converts the declarations of a module into an LLVM module.
type Generator struct {
	// src is the module being converted.
	src *depm.Module

	// mod is the LLVM module being generated.
	mod *ir.Module

	// structTypes and unionTypes hold the named LLVM types of the module's
	// structs and unions by table index.
	structTypes []*lltypes.StructType
	unionTypes  []*lltypes.StructType

	// sizes caches the computed sizes of user types.  A value of -1 marks a
	// type whose size is being computed.
	sizes map[types.TypeRef]int
}

// NewGenerator creates a new generator for src.
func NewGenerator(src *depm.Module) *Generator {
	return &Generator{
		src:   src,
		mod:   ir.NewModule(),
		sizes: make(map[types.TypeRef]int),
	}
}

// Generate produces the declaration header.  It fails if a user type contains
// itself by value.
func (g *Generator) Generate() (*ir.Module, error) {
	g.mod.SourceFilename = g.src.Project.ID

	// All named types are declared before any is filled in so fields may
	// refer to types declared later in the module.
	for _, st := range g.src.Structs {
		g.structTypes = append(g.structTypes, g.declareType("struct."+st.Name))
	}

	for _, ut := range g.src.Unions {
		g.unionTypes = append(g.unionTypes, g.declareType("union."+ut.Name))
	}

	for i, st := range g.src.Structs {
		g.structTypes[i].Fields = util.Map(st.Fields, func(f *depm.Field) lltypes.Type {
			return g.convType(f.Type)
		})
	}

	// A union is an opaque blob as large as its largest member.
	for i, ut := range g.src.Unions {
		size := 0
		for _, f := range ut.Fields {
			fsize, err := g.sizeOf(f.Type)
			if err != nil {
				return nil, fmt.Errorf("union `%s`: %w", ut.Name, err)
			}

			size = max(size, fsize)
		}

		g.unionTypes[i].Fields = []lltypes.Type{lltypes.NewArray(uint64(size), lltypes.I8)}
	}

	for i, st := range g.src.Structs {
		if _, err := g.userSize(types.TypeRef{Id: types.UserStruct, StructIndex: uint16(i)}); err != nil {
			return nil, fmt.Errorf("struct `%s`: %w", st.Name, err)
		}
	}

	for _, glob := range g.src.Globals {
		g.mod.NewGlobal(glob.Name, g.convType(glob.Type))
	}

	for _, fn := range g.src.Functions {
		g.declareFunc(fn)
	}

	return g.mod, nil
}

// declareType adds a new empty named struct type to the module.
func (g *Generator) declareType(name string) *lltypes.StructType {
	st := lltypes.NewStruct()
	g.mod.NewTypeDef(name, st)
	return st
}

// declareFunc adds the declaration of fn to the module.  The variadic tail
// parameter becomes the variadic flag of the signature.
func (g *Generator) declareFunc(fn *depm.Function) {
	var params []*ir.Param
	for _, p := range fn.Params {
		if p.Type.Id == types.Variadic {
			continue
		}

		params = append(params, ir.NewParam(p.Name, g.convType(p.Type)))
	}

	llFunc := g.mod.NewFunc(fn.Name, g.convType(fn.Return), params...)
	llFunc.Sig.Variadic = fn.Has(depm.FuncVariadic)
}

// -----------------------------------------------------------------------------

// convType converts a type reference to its LLVM type.
func (g *Generator) convType(tr types.TypeRef) lltypes.Type {
	var llTyp lltypes.Type

	// LLVM has no pointer to void so void pointers point to bytes.
	if tr.Id == types.Void || tr.Id == types.NoReturn {
		if tr.Indir == 0 && !tr.IsVector() {
			return lltypes.Void
		}

		llTyp = lltypes.I8
	} else {
		llTyp = g.convBaseType(tr)
	}

	if tr.IsVector() {
		llTyp = lltypes.NewArray(uint64(tr.VecCount), indirect(llTyp, tr.VecIndir))
	}

	return indirect(llTyp, tr.Indir)
}

// convBaseType converts the base of a type reference ignoring indirection.
func (g *Generator) convBaseType(tr types.TypeRef) lltypes.Type {
	switch tr.Id {
	case types.UserStruct:
		return g.structTypes[tr.StructIndex]
	case types.UserUnion:
		return g.unionTypes[tr.StructIndex]
	case types.F16:
		return lltypes.Half
	case types.F32:
		return lltypes.Float
	case types.F64:
		return lltypes.Double
	case types.F128:
		return lltypes.FP128
	}

	// Every remaining builtin is an integer of its own width: signed and
	// unsigned integers, bools, chars and the pointer sized integers.
	return lltypes.NewInt(uint64(tr.Id.Size() * 8))
}

// indirect wraps typ in n pointers.
func indirect(typ lltypes.Type, n uint8) lltypes.Type {
	for i := uint8(0); i < n; i++ {
		typ = lltypes.NewPointer(typ)
	}

	return typ
}

// -----------------------------------------------------------------------------

// sizeOf returns the packed size of a value of the given type in bytes.
func (g *Generator) sizeOf(tr types.TypeRef) (int, error) {
	var elemSize int
	switch {
	case tr.Indir > 0:
		return PointerSize, nil
	case tr.IsVector() && tr.VecIndir > 0:
		elemSize = PointerSize
	case tr.Id.IsUser():
		size, err := g.userSize(types.TypeRef{Id: tr.Id, StructIndex: tr.StructIndex})
		if err != nil {
			return 0, err
		}

		elemSize = size
	default:
		elemSize = tr.Id.Size()
	}

	if tr.IsVector() {
		return elemSize * int(tr.VecCount), nil
	}

	return elemSize, nil
}

// userSize returns the size of a struct or union.
func (g *Generator) userSize(key types.TypeRef) (int, error) {
	if size, ok := g.sizes[key]; ok {
		if size < 0 {
			return 0, fmt.Errorf("type `%s` contains itself", key.Repr(g.src))
		}

		return size, nil
	}

	g.sizes[key] = -1

	total := 0
	for _, f := range g.src.UserType(key).Fields {
		fsize, err := g.sizeOf(f.Type)
		if err != nil {
			return 0, err
		}

		if key.Id == types.UserUnion {
			total = max(total, fsize)
		} else {
			total += fsize
		}
	}

	g.sizes[key] = total
	return total, nil
}

// -----------------------------------------------------------------------------

// WriteLL writes the declaration header of mod to path.
func WriteLL(path string, mod *depm.Module) error {
	llMod, err := NewGenerator(mod).Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(llMod.String()), 0644)
}
