package syntax

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// NumberType describes the signedness and precision of a number literal.  The
// high nibble is the class (signed, unsigned, float) and the low nibble the
// precision: 1 through 5 for 8 through 128 bits, or 0 if the literal had no
// width suffix.  Sized values coincide with the matching builtin type ids.
type NumberType uint8

// Enumeration of number types.
const (
	NUM_UNKNOWN NumberType = 0x00

	NUM_SIGNED NumberType = 0x10
	NUM_I8     NumberType = 0x11
	NUM_I16    NumberType = 0x12
	NUM_I32    NumberType = 0x13
	NUM_I64    NumberType = 0x14
	NUM_I128   NumberType = 0x15

	NUM_UNSIGNED NumberType = 0x20
	NUM_U8       NumberType = 0x21
	NUM_U16      NumberType = 0x22
	NUM_U32      NumberType = 0x23
	NUM_U64      NumberType = 0x24
	NUM_U128     NumberType = 0x25

	NUM_FLOAT NumberType = 0x30
	NUM_F16   NumberType = 0x32
	NUM_F32   NumberType = 0x33
	NUM_F64   NumberType = 0x34
	NUM_F128  NumberType = 0x35

	numClassMask     NumberType = 0xF0
	numPrecisionMask NumberType = 0x0F
)

// Class returns the signedness class of the number type.
func (nt NumberType) Class() NumberType {
	return nt & numClassMask
}

// IsSized returns whether the literal carried an explicit width.
func (nt NumberType) IsSized() bool {
	return nt&numPrecisionMask != 0
}

// IsFloat returns whether the number type is a floating-point type.
func (nt NumberType) IsFloat() bool {
	return nt.Class() == NUM_FLOAT
}

// ByteSize returns the width of the number type in bytes.  Unsized integers
// are stored at the maximum width of 16 bytes.
func (nt NumberType) ByteSize() int {
	prec := nt & numPrecisionMask
	if prec == 0 {
		return 16
	}

	return 1 << (prec - 1)
}

func (nt NumberType) String() string {
	prefix := map[NumberType]string{NUM_SIGNED: "i", NUM_UNSIGNED: "u", NUM_FLOAT: "f"}[nt.Class()]
	if prefix == "" {
		return "unknown"
	} else if !nt.IsSized() {
		return prefix + "128"
	}

	return prefix + strconv.Itoa(nt.ByteSize()*8)
}

// -----------------------------------------------------------------------------

// ParseNumber parses the text of a number literal and writes its value as
// little-endian raw bytes into buff, returning the literal's number type.
// Unsuffixed integers are parsed as i128 and unsuffixed floats as f64.  Bytes
// of buff beyond the literal's width are zeroed.
func ParseNumber(text string, buff *[16]byte) (NumberType, error) {
	*buff = [16]byte{}

	lower := strings.ToLower(text)
	hex := strings.HasPrefix(lower, "0x")
	bin := strings.HasPrefix(lower, "0b")
	hasPoint := strings.Contains(text, ".")

	nt := NUM_SIGNED
	suffixAt := -1
	if i := strings.LastIndexByte(text, 'i'); i > 0 && !hasPoint {
		suffixAt = i
	} else if i := strings.LastIndexByte(text, 'u'); i > 0 && !hasPoint {
		nt, suffixAt = NUM_UNSIGNED, i
	} else if i := strings.LastIndexByte(text, 'f'); i > 0 && !hex {
		nt, suffixAt = NUM_FLOAT, i
	} else if hasPoint {
		nt = NUM_FLOAT
	}

	numeral := text
	if suffixAt > 0 {
		numeral = text[:suffixAt]

		switch width := text[suffixAt+1:]; width {
		case "":
		case "8":
			nt |= 1
		case "16":
			nt |= 2
		case "32":
			nt |= 3
		case "64":
			nt |= 4
		case "128":
			nt |= 5
		default:
			return NUM_UNKNOWN, fmt.Errorf("invalid number precision: %s", width)
		}
	}

	if nt.Class() == NUM_FLOAT {
		if hex || bin {
			return NUM_UNKNOWN, fmt.Errorf("floating-point literal `%s` must be decimal", text)
		}

		if !nt.IsSized() {
			nt = NUM_F64
		}

		return nt, parseFloat(numeral, nt, buff)
	}

	return nt, parseInt(numeral, nt, buff)
}

// parseInt parses an integer numeral into buff checking it against the range
// of the integer type nt.
func parseInt(numeral string, nt NumberType, buff *[16]byte) error {
	base := 10
	digits := numeral
	if len(numeral) > 2 && numeral[0] == '0' {
		switch numeral[1] {
		case 'x', 'X':
			base, digits = 16, numeral[2:]
		case 'b', 'B':
			base, digits = 2, numeral[2:]
		}
	}

	value, ok := new(big.Int).SetString(digits, base)
	if !ok || value.Sign() < 0 {
		return fmt.Errorf("literal is not a valid %s value", nt)
	}

	bits := uint(nt.ByteSize() * 8)
	if nt.Class() == NUM_SIGNED {
		bits--
	}

	limit := new(big.Int).Lsh(big.NewInt(1), bits)
	if value.Cmp(limit) >= 0 {
		return fmt.Errorf("literal is not a valid %s value", nt)
	}

	// big.Int bytes are big-endian.
	raw := value.Bytes()
	for i, b := range raw {
		buff[len(raw)-1-i] = b
	}

	return nil
}

// parseFloat parses a float numeral into buff at the precision of nt.
func parseFloat(numeral string, nt NumberType, buff *[16]byte) error {
	switch nt {
	case NUM_F16:
		f, err := strconv.ParseFloat(numeral, 32)
		if err != nil || math.Abs(f) > maxFloat16 {
			return fmt.Errorf("literal is not a valid f16 value")
		}

		binary.LittleEndian.PutUint16(buff[:], float16Bits(float32(f)))
	case NUM_F32:
		f, err := strconv.ParseFloat(numeral, 32)
		if err != nil {
			return fmt.Errorf("literal is not a valid f32 value")
		}

		binary.LittleEndian.PutUint32(buff[:], math.Float32bits(float32(f)))
	case NUM_F64:
		f, err := strconv.ParseFloat(numeral, 64)
		if err != nil {
			return fmt.Errorf("literal is not a valid f64 value")
		}

		binary.LittleEndian.PutUint64(buff[:], math.Float64bits(f))
	case NUM_F128:
		return fmt.Errorf("cannot parse f128 literals")
	default:
		return fmt.Errorf("invalid number precision: %s", nt)
	}

	return nil
}

// maxFloat16 is the largest finite half-precision value.
const maxFloat16 = 65504

// float16Bits converts a single-precision value to half precision, rounding to
// nearest even.  Values below the smallest subnormal flush to zero.
func float16Bits(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int(bits>>23&0xFF) - 127 + 15
	mant := bits & 0x7FFFFF

	switch {
	case exp >= 0x1F:
		return sign | 0x7C00
	case exp <= 0:
		if exp < -10 {
			return sign
		}

		mant |= 0x800000
		shift := uint(14 - exp)
		half := uint16(mant >> shift)
		if rem := mant & (1<<shift - 1); rem > 1<<(shift-1) || rem == 1<<(shift-1) && half&1 == 1 {
			half++
		}

		return sign | half
	}

	half := sign | uint16(exp)<<10 | uint16(mant>>13)
	if rem := mant & 0x1FFF; rem > 0x1000 || rem == 0x1000 && half&1 == 1 {
		half++
	}

	return half
}
