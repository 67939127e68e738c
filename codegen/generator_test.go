package codegen

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"ulang/depm"
	"ulang/ir"
	"ulang/report"
	"ulang/resolve"
)

func buildModule(t *testing.T, srcs ...string) *depm.Module {
	t.Helper()

	mod := depm.NewModule(depm.Project{ID: "test"})
	for i, src := range srcs {
		name := fmt.Sprintf("file%d.u", i)
		sf, err := depm.NewSourceFile(i, name, name, []byte(src))
		if err != nil {
			t.Fatalf("tokenizing %s: %s", name, err)
		}

		mod.Files = append(mod.Files, sf)
	}

	if err := resolve.NewResolver(mod).Resolve(); err != nil {
		t.Fatalf("resolving: %s", err)
	}

	return mod
}

// disassemble lists the instructions of every generated body under the name
// of its function.
func disassemble(t *testing.T, mod *depm.Module) string {
	t.Helper()

	var sb strings.Builder
	for _, fn := range mod.Functions {
		if fn.Has(depm.FuncExtern) {
			continue
		}

		fmt.Fprintf(&sb, "%s:\n", fn.Name)

		insts, err := ir.Decode(mod.Bodies[fn.BodyIndex].Code)
		if err != nil {
			t.Fatalf("%s: %s", fn.Name, err)
		}

		for _, inst := range insts {
			fmt.Fprintf(&sb, "    %s\n", inst)
		}
	}

	return sb.String()
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}

	if len(paths) == 0 {
		t.Fatal("no golden files")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}

			files := make(map[string]string)
			for _, f := range ar.Files {
				files[f.Name] = string(f.Data)
			}

			mod := buildModule(t, files["src.u"])
			if err := NewGenerator(mod).Generate(); err != nil {
				t.Fatal(err)
			}

			if got, want := disassemble(t, mod), files["out"]; got != want {
				t.Errorf("got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestMainBody(t *testing.T) {
	mod := buildModule(t, "i32 main() { return 0; }")
	if err := NewGenerator(mod).Generate(); err != nil {
		t.Fatal(err)
	}

	if got := mod.Bodies[0].Code; string(got) != string([]byte{118, 1, 0, 113}) {
		t.Errorf("got % x", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name, src, msg string
	}{
		{"bare literal", "void f() { 5; }", "literal must be part of an expression"},
		{"stray separator", "void f() { , }", "invalid separator token `,`"},
		{"if without parenthesis", "void f() { if x }", "expected `(` after `if`"},
		{"if without body", "void f() { if (1) return; }", "expected `{` to begin the body of `if`"},
		{"block in condition", "void f() { if (1 { } }", "cannot be used as an expression"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mod := buildModule(t, "i32 ok() { return 1; }", test.src)

			err := NewGenerator(mod).Generate()
			if err == nil {
				t.Fatal("expected an error")
			}

			var fe *depm.FileError
			if !errors.As(err, &fe) || fe.File != mod.Files[1] {
				t.Errorf("error is not attributed to its file: %v", err)
			}

			var lce *report.LocalCompileError
			if !errors.As(err, &lce) {
				t.Fatalf("expected a local compile error, got %T", err)
			}

			if !strings.Contains(lce.Message, test.msg) {
				t.Errorf("got %q, want it to mention %q", lce.Message, test.msg)
			}

			if len(mod.Bodies[1].Code) != 0 {
				t.Errorf("a failed body kept code")
			}
		})
	}
}

func TestStateNames(t *testing.T) {
	if STATE_NONE.String() != "none" || STATE_IF.String() != "if" {
		t.Errorf("wrong state names")
	}
}
