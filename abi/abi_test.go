package abi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lltypes "github.com/llir/llvm/ir/types"

	"ulang/depm"
	"ulang/types"
)

func declModule() *depm.Module {
	f32 := types.TypeRef{Id: types.F32}
	vec := types.TypeRef{Id: types.UserStruct}

	return &depm.Module{
		Project: depm.Project{ID: "demo"},
		Structs: []*depm.Struct{
			{Name: "geo.Vec", Fields: []*depm.Field{{Type: f32, Name: "x"}, {Type: f32, Name: "y"}}},
			{Name: "Line", Fields: []*depm.Field{
				{Type: vec, Name: "a"},
				{Type: types.TypeRef{Id: types.UserStruct, Indir: 1}, Name: "b"},
				{Type: types.TypeRef{Id: types.U8, VecCount: 4, Indir: 1}, Name: "tag"},
			}},
		},
		Unions: []*depm.Struct{
			{Name: "Num", Fields: []*depm.Field{
				{Type: types.TypeRef{Id: types.I32}, Name: "i"},
				{Type: types.TypeRef{Id: types.F64}, Name: "d"},
				{Type: types.TypeRef{Id: types.U8, VecCount: 3}, Name: "s"},
			}},
		},
		Globals: []*depm.Field{{Type: vec, Name: "origin"}},
		Functions: []*depm.Function{
			{
				Name:   "print",
				Flags:  depm.FuncExtern | depm.FuncVariadic,
				Return: types.TypeRef{Id: types.Void},
				Params: []*depm.Param{
					{Type: types.TypeRef{Id: types.C8, Indir: 1}, Name: "fmt"},
					{Type: types.TypeRef{Id: types.Variadic}, Name: depm.VariadicParamName},
				},
			},
			{Name: "main", Return: types.TypeRef{Id: types.I32}},
		},
	}
}

func TestGenerate(t *testing.T) {
	m, err := NewGenerator(declModule()).Generate()
	if err != nil {
		t.Fatal(err)
	}

	if len(m.TypeDefs) != 3 {
		t.Fatalf("got %d type definitions, want 3", len(m.TypeDefs))
	}

	vec := m.TypeDefs[0].(*lltypes.StructType)
	line := m.TypeDefs[1].(*lltypes.StructType)
	num := m.TypeDefs[2].(*lltypes.StructType)

	if vec.Name() != "struct.geo.Vec" || line.Name() != "struct.Line" || num.Name() != "union.Num" {
		t.Errorf("got type names %s, %s, %s", vec.Name(), line.Name(), num.Name())
	}

	if len(vec.Fields) != 2 || !vec.Fields[0].Equal(lltypes.Float) {
		t.Errorf("geo.Vec has fields %v", vec.Fields)
	}

	if len(line.Fields) != 3 || line.Fields[0] != lltypes.Type(vec) {
		t.Fatalf("Line has fields %v", line.Fields)
	}

	if ptr, ok := line.Fields[1].(*lltypes.PointerType); !ok || ptr.ElemType != lltypes.Type(vec) {
		t.Errorf("Line.b is %v", line.Fields[1])
	}

	if !line.Fields[2].Equal(lltypes.NewPointer(lltypes.NewArray(4, lltypes.I8))) {
		t.Errorf("Line.tag is %v", line.Fields[2])
	}

	if len(num.Fields) != 1 || !num.Fields[0].Equal(lltypes.NewArray(8, lltypes.I8)) {
		t.Errorf("Num has fields %v", num.Fields)
	}

	if len(m.Globals) != 1 || m.Globals[0].ContentType != lltypes.Type(vec) {
		t.Errorf("got globals %v", m.Globals)
	}

	if len(m.Funcs) != 2 {
		t.Fatalf("got %d functions, want 2", len(m.Funcs))
	}

	printFn := m.Funcs[0]
	if !printFn.Sig.Variadic || len(printFn.Params) != 1 || !printFn.Params[0].Typ.Equal(lltypes.NewPointer(lltypes.I8)) {
		t.Errorf("print declared as %s", printFn.Sig)
	}

	if !printFn.Sig.RetType.Equal(lltypes.Void) || !m.Funcs[1].Sig.RetType.Equal(lltypes.I32) {
		t.Errorf("wrong return types")
	}
}

func TestSelfContainment(t *testing.T) {
	mod := &depm.Module{Structs: []*depm.Struct{
		{Name: "A", Fields: []*depm.Field{{Type: types.TypeRef{Id: types.UserStruct, StructIndex: 1}, Name: "b"}}},
		{Name: "B", Fields: []*depm.Field{{Type: types.TypeRef{Id: types.UserStruct, VecCount: 2}, Name: "as"}}},
	}}

	_, err := NewGenerator(mod).Generate()
	if err == nil || !strings.Contains(err.Error(), "contains itself") {
		t.Fatalf("got %v, want a self-containment error", err)
	}

	// Pointers break the cycle.
	mod.Structs[1].Fields[0].Type.Indir = 1
	if _, err := NewGenerator(mod).Generate(); err != nil {
		t.Fatal(err)
	}
}

func TestWriteLL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.ll")
	if err := WriteLL(path, declModule()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"%struct.geo.Vec = type { float, float }", "@origin", "declare", "@print(", "@main("} {
		if !strings.Contains(string(data), want) {
			t.Errorf("header does not contain %q:\n%s", want, data)
		}
	}
}
