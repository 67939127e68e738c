package types

import "testing"

type fakeNames struct{}

func (fakeNames) StructName(index int) string { return "Vec" }
func (fakeNames) UnionName(index int) string  { return "Num" }

func TestLookupBuiltin(t *testing.T) {
	for name, want := range map[string]TypeId{"i8": I8, "u128": U128, "f16": F16, "c32": C32, "usize": USize, "noreturn": NoReturn} {
		if id, ok := LookupBuiltin(name); !ok || id != want {
			t.Errorf("LookupBuiltin(%q) = %s, %v; want %s", name, id, ok, want)
		}
	}

	for _, name := range []string{"int", "...", "struct", "I8"} {
		if _, ok := LookupBuiltin(name); ok {
			t.Errorf("%q should not be a builtin", name)
		}
	}
}

func TestTypeIdProperties(t *testing.T) {
	if !UserStruct.IsValid() || !Variadic.IsValid() || TypeId(0x16).IsValid() {
		t.Errorf("type id validity is wrong")
	}

	sizes := map[TypeId]int{I8: 1, F16: 2, C32: 4, ISize: 8, U128: 16, Void: 0, UserStruct: 0}
	for id, want := range sizes {
		if got := id.Size(); got != want {
			t.Errorf("%s.Size() = %d, want %d", id, got, want)
		}
	}
}

func TestRepr(t *testing.T) {
	tests := []struct {
		tr   TypeRef
		want string
	}{
		{TypeRef{Id: I32}, "i32"},
		{TypeRef{Id: U8, Indir: 2}, "u8**"},
		{TypeRef{Id: F32, VecCount: 4}, "f32[4]"},
		{TypeRef{Id: C8, VecCount: 3, VecIndir: 1, Indir: 1}, "c8*[3]*"},
		{TypeRef{Id: UserStruct}, "Vec"},
		{TypeRef{Id: UserUnion, Indir: 1}, "Num*"},
	}

	for _, test := range tests {
		if got := test.tr.Repr(fakeNames{}); got != test.want {
			t.Errorf("got %s, want %s", got, test.want)
		}
	}

	if got := (TypeRef{Id: UserUnion, StructIndex: 3}).Repr(nil); got != "union#3" {
		t.Errorf("got %s for an unnamed union", got)
	}
}
