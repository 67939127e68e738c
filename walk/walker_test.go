package walk

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"ulang/depm"
	"ulang/regalloc"
	"ulang/report"
	"ulang/syntax"
	"ulang/types"
)

// testModule declares a struct P, a global of each kind and a few functions
// for expressions to refer to.
func testModule() *depm.Module {
	mod := depm.NewModule(depm.Project{ID: "test"})

	mod.Structs = []*depm.Struct{{
		Name: "P",
		Fields: []*depm.Field{
			{Type: types.TypeRef{Id: types.I32}, Name: "x"},
			{Type: types.TypeRef{Id: types.I32}, Name: "y"},
		},
	}}

	mod.Globals = []*depm.Field{
		{Type: types.TypeRef{Id: types.I32}, Name: "g"},
		{Type: types.TypeRef{Id: types.UserStruct}, Name: "p"},
	}

	mod.Functions = []*depm.Function{
		{Name: "add", Return: types.TypeRef{Id: types.I32}},
		{Name: "P.make", Return: types.TypeRef{Id: types.UserStruct}},
		{
			Name:   "f",
			Return: types.TypeRef{Id: types.Void},
			Params: []*depm.Param{{Type: types.TypeRef{Id: types.U8}, Name: "n"}},
		},
	}

	return mod
}

type walkResult struct {
	items  []*Item
	cursor *syntax.Cursor
	file   *depm.SourceFile
	err    error
}

// walkSource walks the expression src as part of the body of function f.
func walkSource(t *testing.T, src string, failOnBadScope bool) walkResult {
	t.Helper()

	mod := testModule()
	sf, err := depm.NewSourceFile(0, "expr.u", "expr.u", []byte(src))
	if err != nil {
		t.Fatalf("tokenizing %q: %s", src, err)
	}
	mod.Files = append(mod.Files, sf)

	regs := regalloc.NewSim()
	loc := regs.Prims.Allocate("loc")
	regs.Prims.Set(loc, regalloc.Scalar{Type: types.TypeRef{Id: types.I64}})

	cursor := syntax.NewCursor(sf.Tokens, 0)
	w := NewWalker(mod, sf, mod.Functions[2], regs, cursor)

	items, err := w.Walk(0, failOnBadScope)
	return walkResult{items, cursor, sf, err}
}

func describe(items []*Item) string {
	var parts []string
	for _, it := range items {
		if it.Kind == ITEM_LITERAL {
			parts = append(parts, "lit")
		} else {
			parts = append(parts, it.String())
		}
	}

	return strings.Join(parts, " ")
}

func TestPostfixOrder(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"g;", "global:g"},
		{"g * g + g;", "global:g global:g * global:g +"},
		{"g + g * g;", "global:g global:g global:g * +"},
		{"g = g = g;", "global:g global:g global:g = ="},
		{"g - g - g;", "global:g global:g - global:g -"},
		{"(g + g) * g;", "global:g global:g + global:g *"},
		{"-g;", "global:g -"},
		{"g++;", "global:g ++"},
		{"n + loc;", "param:n local:loc +"},
		{"add(g, 1);", "global:g lit call:add"},
		{"p.x;", "global:p . field:x"},
		{"P.make();", "call:P.make"},
		{"g && !g;", "global:g global:g ! &&"},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			res := walkSource(t, test.src, true)
			if res.err != nil {
				t.Fatalf("unexpected error: %s", res.err)
			}

			if got := describe(res.items); got != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}

			if tok := res.cursor.Tok(); tok == nil || !tok.IsSep(syntax.SEP_SEMI) {
				t.Errorf("walk did not stop on the semicolon")
			}
		})
	}
}

func TestOperandTypes(t *testing.T) {
	res := walkSource(t, "n + loc + p.y;", true)
	if res.err != nil {
		t.Fatal(res.err)
	}

	byName := make(map[string]*Item)
	for _, it := range res.items {
		byName[it.Name] = it
	}

	if it := byName["n"]; it.Index != 0 || it.Type.Id != types.U8 {
		t.Errorf("param n: %+v", it)
	}

	if it := byName["loc"]; it.Index != 1 || it.Aggregate || it.Type.Id != types.I64 {
		t.Errorf("local loc: %+v", it)
	}

	if it := byName["y"]; it.Kind != ITEM_FIELD || it.Index != 1 || it.Type.Id != types.I32 {
		t.Errorf("field y: %+v", it)
	}
}

func TestUnaryFolding(t *testing.T) {
	tests := []struct {
		src  string
		want []byte
		lit  syntax.LiteralKind
	}{
		{"~5i8;", []byte{0xFA}, syntax.LIT_NUMBER},
		{"~0u16;", []byte{0xFF, 0xFF}, syntax.LIT_NUMBER},
		{"~5;", append([]byte{0xFA}, bytes.Repeat([]byte{0xFF}, 15)...), syntax.LIT_NUMBER},
		{"~0;", bytes.Repeat([]byte{0xFF}, 16), syntax.LIT_NUMBER},
		{"~5i128;", append([]byte{0xFA}, bytes.Repeat([]byte{0xFF}, 15)...), syntax.LIT_NUMBER},
		{"!0;", []byte{1}, syntax.LIT_NUMBER},
		{"!1;", []byte{0}, syntax.LIT_NUMBER},
		{"!!7;", []byte{1}, syntax.LIT_NUMBER},
		{"-5i8;", []byte{0xFB}, syntax.LIT_NUMBER},
		{"-1i16;", []byte{0xFF, 0xFF}, syntax.LIT_NUMBER},
		{"+9i8;", []byte{9}, syntax.LIT_NUMBER},
		{"-2.0f32;", []byte{0, 0, 0, 0xC0}, syntax.LIT_NUMBER},
		{"!true;", []byte{0}, syntax.LIT_FALSE},
		{"!false;", []byte{1}, syntax.LIT_TRUE},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			res := walkSource(t, test.src, true)
			if res.err != nil {
				t.Fatalf("unexpected error: %s", res.err)
			}

			if len(res.items) != 1 {
				t.Fatalf("got %s, want a single literal", describe(res.items))
			}

			lit := res.items[0]
			if lit.Kind != ITEM_LITERAL || lit.Lit != test.lit {
				t.Fatalf("got %s", lit)
			}

			imm, ok := lit.Immediate()
			if !ok || string(imm) != string(test.want) {
				t.Errorf("got immediate % x, want % x", imm, test.want)
			}

			if lit.Pos != 0 || lit.Len != strings.Index(test.src, ";") {
				t.Errorf("folded literal spans %d+%d, want the whole operand", lit.Pos, lit.Len)
			}
		})
	}
}

func TestStopOnClosingParen(t *testing.T) {
	res := walkSource(t, "g + g) {", false)
	if res.err != nil {
		t.Fatal(res.err)
	}

	if got := describe(res.items); got != "global:g global:g +" {
		t.Errorf("got %s", got)
	}

	if tok := res.cursor.Tok(); tok == nil || !tok.IsSep(syntax.SEP_RPAREN) {
		t.Errorf("walk did not stop on the closing parenthesis")
	}
}

func TestWalkErrors(t *testing.T) {
	tests := []struct {
		src  string
		code int
		msg  string
	}{
		{"x;", ErrCodeNotVariable, "identifier `x` is not a variable"},
		{"{;", ErrCodeNotStatement, "a block cannot be used as an expression"},
		{"g ];", ErrCodeUnknown, "unexpected `]` in expression"},
		{"(g;", 0, "unbalanced parentheses in expression"},
		{"g);", 0, "closing parenthesis has no matching open"},
		{"1 + g;", 0, "binary operator must follow an identifier"},
		{"g g;", 0, "expected an operator before `g`"},
		{"return;", 0, "keyword `return` cannot be used in an expression"},
		{"3.g;", 0, "only variable properties can be accessed"},
		{"g + g", 0, "unexpected end of file in expression"},
		{"-5u8;", 0, "cannot negate an unsigned literal"},
		{"*5;", 0, "cannot dereference a literal"},
		{"-true;", 0, "cannot be applied to a boolean literal"},
		{"p.z;", 0, "`P` has no field named `z`"},
		{"g.x;", 0, "`g` has no members"},
	}

	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			res := walkSource(t, test.src, true)
			if res.err == nil {
				t.Fatalf("expected an error, got %s", describe(res.items))
			}

			var lce *report.LocalCompileError
			if !errors.As(res.err, &lce) {
				t.Fatalf("expected a local compile error, got %T", res.err)
			}

			if lce.Code != test.code {
				t.Errorf("got code %d, want %d", lce.Code, test.code)
			}

			if !strings.Contains(lce.Message, test.msg) {
				t.Errorf("got %q, want it to mention %q", lce.Message, test.msg)
			}
		})
	}
}
