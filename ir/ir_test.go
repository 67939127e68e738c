package ir

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodings(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  []byte
	}{
		{"streti", func(b *Builder) { b.StRetI([]byte{0}) }, []byte{118, 1, 0}},
		{"ret", func(b *Builder) { b.Ret() }, []byte{113}},
		{"add", func(b *Builder) { b.Add(1, 2, 3) }, []byte{16, 1, 2, 3}},
		{"addi", func(b *Builder) { b.AddI(1, 2, []byte{5, 0}) }, []byte{32, 1, 2, 2, 5, 0}},
		{"bni", func(b *Builder) { b.BnI(0, 0, []byte{0}) }, []byte{57, 0, 0, 1, 0}},
		{"call", func(b *Builder) { b.Call(0x0102) }, []byte{112, 0x02, 0x01}},
		{"jof", func(b *Builder) { b.Jof(-2) }, []byte{48, 0xFE, 0xFF}},
		{"stargi", func(b *Builder) { b.StArgI(2, []byte{9}) }, []byte{119, 2, 1, 9}},
		{"lda", func(b *Builder) { b.LdA(3, 0x0102, 0x0304, 0x0506) }, []byte{144, 3, 1, 2, 3, 4, 5, 6}},
		{"sta", func(b *Builder) { b.StA(0x0102, 0x0304, 0x0506, 7) }, []byte{145, 1, 2, 3, 4, 5, 6, 7}},
		{"extended", func(b *Builder) { b.Extend(2); b.Nop() }, []byte{0x7F, 0x7F, 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuilder()
			test.build(b)

			if b.Err() != nil {
				t.Fatal(b.Err())
			}

			if !bytes.Equal(b.Bytes(), test.want) {
				t.Errorf("got % x, want % x", b.Bytes(), test.want)
			}
		})
	}
}

func TestImmediateTooLarge(t *testing.T) {
	b := NewBuilder()
	b.StRetI(make([]byte, MaxImmediate+1))
	b.Ret()

	if b.Err() == nil {
		t.Fatalf("an oversized immediate was accepted")
	}

	if b.Len() != 2+MaxImmediate+1 || b.Bytes()[1] != MaxImmediate {
		t.Errorf("encoding did not continue after the error")
	}

	b.Reset()
	if b.Err() != nil || b.Len() != 0 {
		t.Errorf("reset kept state")
	}
}

func TestDecode(t *testing.T) {
	b := NewBuilder()
	b.LdArg(0, 1)
	b.AddI(2, 1, []byte{5})
	b.BnI(0, 2, []byte{0})
	b.Jof(-4)
	b.Call(3)
	b.LdA(1, 2, 3, 4)
	b.StA(2, 3, 4, 1)
	b.StRetI([]byte{0x2a})
	b.Ret()

	want := []struct {
		offset int
		text   string
	}{
		{0, "ldarg a0, r1"},
		{3, "addi r2, r1, #05"},
		{8, "bni L0, r2, #00"},
		{13, "jof -4"},
		{16, "call fn3"},
		{19, "lda r1, g2, t3, 4"},
		{27, "sta g2, t3, 4, r1"},
		{35, "streti #2a"},
		{38, "ret"},
	}

	insts, err := Decode(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	if len(insts) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(insts), len(want))
	}

	for i, inst := range insts {
		if inst.Offset != want[i].offset || inst.String() != want[i].text {
			t.Errorf("got %d: %s, want %d: %s", inst.Offset, inst, want[i].offset, want[i].text)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		want error
		good int
	}{
		{"extended page", []byte{0x7F, 0x00}, ErrUnknownOpcode, 0},
		{"undefined opcode", []byte{113, 0x07}, ErrUnknownOpcode, 1},
		{"missing register", []byte{16, 1, 2}, ErrTruncated, 0},
		{"bare prefix", []byte{0x7F}, ErrTruncated, 0},
		{"short immediate", []byte{113, 32, 1, 2, 3, 5}, ErrTruncated, 1},
		{"short call", []byte{112, 1}, ErrTruncated, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			insts, err := Decode(test.code)
			if !errors.Is(err, test.want) {
				t.Fatalf("got %v, want %v", err, test.want)
			}

			if len(insts) != test.good {
				t.Errorf("got %d instructions before the error, want %d", len(insts), test.good)
			}
		})
	}
}

func TestOpcodeNames(t *testing.T) {
	if OP_FATANH.String() != "fatanh" || OP_STA.String() != "sta" {
		t.Errorf("wrong mnemonics")
	}

	if got := Opcode(0x07).String(); got != "op(0x07)" {
		t.Errorf("got %s for an undefined opcode", got)
	}

	if _, _, ok := OP_EXTEND.Info(); ok {
		t.Errorf("the extension prefix is not an instruction")
	}
}
