package syntax

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text string
		nt   NumberType
		want []byte
	}{
		{"42i8", NUM_I8, []byte{42}},
		{"42u16", NUM_U16, []byte{42, 0}},
		{"0x2Au32", NUM_U32, []byte{0x2A, 0, 0, 0}},
		{"0b101i64", NUM_I64, []byte{5, 0, 0, 0, 0, 0, 0, 0}},
		{"127i8", NUM_I8, []byte{127}},
		{"255u8", NUM_U8, []byte{255}},
		{"65535u16", NUM_U16, []byte{0xFF, 0xFF}},
		{"1000", NUM_SIGNED, []byte{0xE8, 0x03, 0}},
		{"0", NUM_SIGNED, []byte{0}},
		{"7u", NUM_UNSIGNED, []byte{7}},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			var buff [16]byte
			nt, err := ParseNumber(test.text, &buff)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if nt != test.nt {
				t.Errorf("got number type %s, want %s", nt, test.nt)
			}

			if !bytes.Equal(buff[:len(test.want)], test.want) {
				t.Errorf("got bytes % x, want % x", buff[:len(test.want)], test.want)
			}

			for _, b := range buff[len(test.want):] {
				if b != 0 {
					t.Fatalf("bytes beyond the value are not zeroed: % x", buff)
				}
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	var buff [16]byte

	nt, err := ParseNumber("3.14f32", &buff)
	if err != nil {
		t.Fatal(err)
	}

	bits := uint32(buff[0]) | uint32(buff[1])<<8 | uint32(buff[2])<<16 | uint32(buff[3])<<24
	if nt != NUM_F32 || math.Float32frombits(bits) != float32(3.14) {
		t.Errorf("got %s %v, want f32 3.14", nt, math.Float32frombits(bits))
	}

	nt, err = ParseNumber("2.5", &buff)
	if err != nil {
		t.Fatal(err)
	}

	var bits64 uint64
	for i := 7; i >= 0; i-- {
		bits64 = bits64<<8 | uint64(buff[i])
	}

	if nt != NUM_F64 || math.Float64frombits(bits64) != 2.5 {
		t.Errorf("got %s %v, want f64 2.5", nt, math.Float64frombits(bits64))
	}

	if _, err := ParseNumber("1.0f16", &buff); err != nil {
		t.Fatal(err)
	} else if buff[0] != 0x00 || buff[1] != 0x3C {
		t.Errorf("got f16 bits % x, want 00 3c", buff[:2])
	}
}

func TestParseNumberErrors(t *testing.T) {
	tests := []struct {
		text string
		msg  string
	}{
		{"300i8", "literal is not a valid i8 value"},
		{"256u8", "literal is not a valid u8 value"},
		{"128i8", "literal is not a valid i8 value"},
		{"5i7", "invalid number precision"},
		{"1.5f128", "f128"},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			var buff [16]byte
			if _, err := ParseNumber(test.text, &buff); err == nil {
				t.Fatalf("expected an error")
			} else if !strings.Contains(err.Error(), test.msg) {
				t.Errorf("got error %q, want it to mention %q", err, test.msg)
			}
		})
	}
}

func TestNumberTypeWidths(t *testing.T) {
	tests := []struct {
		nt   NumberType
		size int
		name string
	}{
		{NUM_I8, 1, "i8"},
		{NUM_U32, 4, "u32"},
		{NUM_F64, 8, "f64"},
		{NUM_I128, 16, "i128"},
		{NUM_SIGNED, 16, "i128"},
	}

	for _, test := range tests {
		if test.nt.ByteSize() != test.size || test.nt.String() != test.name {
			t.Errorf("%#x: got %d bytes named %s, want %d named %s", uint8(test.nt), test.nt.ByteSize(), test.nt, test.size, test.name)
		}
	}
}
