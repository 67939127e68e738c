package depm

import (
	"fmt"
	"strings"

	"ulang/types"
)

// Origin locates a declaration: the index of its file in the module's file
// list and the index of the declaring token in that file's token stream.
type Origin struct {
	File, Token int
}

// Field is a named, typed member of a struct or union.  It is also used for
// module-level globals.
type Field struct {
	Type   types.TypeRef
	Name   string
	Origin Origin
}

// Struct is a user-defined struct or union.  Its name is fully qualified by
// the namespaces enclosing its declaration, joined with dots.
type Struct struct {
	Name   string
	Fields []*Field
	Origin Origin
}

// FieldIndex returns the index of the field with the given name or -1.
func (s *Struct) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}

	return -1
}

// Param is a function parameter.  The variadic tail parameter is named "..."
// and has the Variadic type id.
type Param struct {
	Type types.TypeRef
	Name string
}

// VariadicParamName is the name of the variadic tail parameter.
const VariadicParamName = "..."

// FunctionFlags is the set of modifiers of a function.
type FunctionFlags uint8

// Enumeration of function flags.
const (
	FuncHidden FunctionFlags = 1 << iota
	FuncExtern
	FuncVariadic
	FuncInstance
	FuncCompt
	FuncUnsafe
)

var functionFlagNames = []string{"hidden", "extern", "variadic", "instance", "compt", "unsafe"}

func (ff FunctionFlags) String() string {
	var names []string
	for i, name := range functionFlagNames {
		if ff&(1<<i) != 0 {
			names = append(names, name)
		}
	}

	return strings.Join(names, "|")
}

// Function is a function signature.  BodyIndex indexes the module's bodies and
// is only valid if the function is not extern.  An instance function's first
// parameter is a pointer to its enclosing struct or union.
type Function struct {
	Name      string
	Flags     FunctionFlags
	Return    types.TypeRef
	Params    []*Param
	BodyIndex uint16
	Origin    Origin
}

// Has returns whether the function has all the given flags.
func (fn *Function) Has(flags FunctionFlags) bool {
	return fn.Flags&flags == flags
}

// ParamIndex returns the index of the parameter with the given name or -1.
func (fn *Function) ParamIndex(name string) int {
	for i, p := range fn.Params {
		if p.Name == name {
			return i
		}
	}

	return -1
}

// CodeBody is the bytecode of a function.  Its origin token is the first token
// after the body's opening brace.  Code is empty until the body is generated.
type CodeBody struct {
	Origin Origin
	Code   []byte
}

// -----------------------------------------------------------------------------

// Version is a semantic version.
type Version struct {
	Major, Minor, Revision uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
}

// Project identifies the compiled unit.
type Project struct {
	ID      string
	Name    string
	Version Version
}

// Module is a whole compiled unit: the project descriptor, all of the type and
// function tables and the function bodies.  Every cross reference between
// tables is an index.
type Module struct {
	Project Project

	Structs   []*Struct
	Unions    []*Struct
	Globals   []*Field
	Functions []*Function
	Bodies    []*CodeBody

	// The source files the module was built from.  This is not serialized.
	Files []*SourceFile
}

// NewModule creates a new empty module for the given project.
func NewModule(proj Project) *Module {
	return &Module{Project: proj}
}

// lookup returns the index of the first entry whose name matches.
func lookup[T any](entries []T, name string, nameOf func(T) string) (int, bool) {
	for i, e := range entries {
		if nameOf(e) == name {
			return i, true
		}
	}

	return -1, false
}

// LookupStruct returns the index of the first struct with the given name.
func (m *Module) LookupStruct(name string) (int, bool) {
	return lookup(m.Structs, name, func(s *Struct) string { return s.Name })
}

// LookupUnion returns the index of the first union with the given name.
func (m *Module) LookupUnion(name string) (int, bool) {
	return lookup(m.Unions, name, func(s *Struct) string { return s.Name })
}

// LookupFunction returns the index of the first function with the given name.
func (m *Module) LookupFunction(name string) (int, bool) {
	return lookup(m.Functions, name, func(f *Function) string { return f.Name })
}

// LookupGlobal returns the index of the first global with the given name.
func (m *Module) LookupGlobal(name string) (int, bool) {
	return lookup(m.Globals, name, func(f *Field) string { return f.Name })
}

// UserType returns the struct or union a user type reference points to.
func (m *Module) UserType(tr types.TypeRef) *Struct {
	switch {
	case tr.Id == types.UserStruct && int(tr.StructIndex) < len(m.Structs):
		return m.Structs[tr.StructIndex]
	case tr.Id == types.UserUnion && int(tr.StructIndex) < len(m.Unions):
		return m.Unions[tr.StructIndex]
	}

	return nil
}

// StructName implements types.NamedTypes.
func (m *Module) StructName(index int) string {
	if index < len(m.Structs) {
		return m.Structs[index].Name
	}

	return fmt.Sprintf("<struct %d>", index)
}

// UnionName implements types.NamedTypes.
func (m *Module) UnionName(index int) string {
	if index < len(m.Unions) {
		return m.Unions[index].Name
	}

	return fmt.Sprintf("<union %d>", index)
}

// AddBody appends a new empty code body and returns its index.
func (m *Module) AddBody(origin Origin) uint16 {
	m.Bodies = append(m.Bodies, &CodeBody{Origin: origin})
	return uint16(len(m.Bodies) - 1)
}
