package ir

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MaxImmediate is the largest immediate an instruction can carry: its length
// is stored in a single byte.
const MaxImmediate = 255

// Builder is used to encode the bytecode of a single function body.
type Builder struct {
	// The encoded instructions.
	buff bytes.Buffer

	// The first immediate that could not be encoded.  Emission continues so
	// that callers only check once.
	err error
}

// NewBuilder creates a new empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bytes returns the encoded body.
func (b *Builder) Bytes() []byte {
	return b.buff.Bytes()
}

// Len returns the number of bytes encoded so far.
func (b *Builder) Len() int {
	return b.buff.Len()
}

// Err returns the first encoding error or nil.
func (b *Builder) Err() error {
	return b.err
}

// Reset clears the builder for the next body.
func (b *Builder) Reset() {
	b.buff.Reset()
	b.err = nil
}

// -----------------------------------------------------------------------------

func (b *Builder) op(op Opcode, operands ...byte) {
	b.buff.WriteByte(byte(op))
	b.buff.Write(operands)
}

// opImm writes an instruction whose operands end with an immediate.
func (b *Builder) opImm(op Opcode, value []byte, operands ...byte) {
	b.op(op, operands...)
	b.imm(value)
}

// opU16 writes an instruction with a single 16-bit operand.
func (b *Builder) opU16(op Opcode, v uint16) {
	b.op(op)
	b.u16(v)
}

// imm writes a length prefixed immediate.
func (b *Builder) imm(value []byte) {
	if len(value) > MaxImmediate {
		if b.err == nil {
			b.err = fmt.Errorf("immediate of %d bytes exceeds the maximum of %d", len(value), MaxImmediate)
		}

		value = value[:MaxImmediate]
	}

	b.buff.WriteByte(byte(len(value)))
	b.buff.Write(value)
}

func (b *Builder) u16(v uint16) {
	var bs [2]byte
	binary.LittleEndian.PutUint16(bs[:], v)
	b.buff.Write(bs[:])
}

// hilo splits v into its high and low bytes.  The split does not depend on the
// host byte order.
func hilo(v uint16) (byte, byte) {
	return byte(v >> 8), byte(v)
}

// Extend writes a run of n extension bytes.  The next opcode written is read
// from extended page n.
func (b *Builder) Extend(n int) {
	for i := 0; i < n; i++ {
		b.buff.WriteByte(byte(OP_EXTEND))
	}
}

// -----------------------------------------------------------------------------

func (b *Builder) Nop() { b.op(OP_NOP) }
func (b *Builder) Break() { b.op(OP_BREAK) }

func (b *Builder) Ld8(dest, src uint8) { b.op(OP_LD8, dest, src) }
func (b *Builder) Ld16(dest, src uint8) { b.op(OP_LD16, dest, src) }
func (b *Builder) Ld32(dest, src uint8) { b.op(OP_LD32, dest, src) }
func (b *Builder) Ld64(dest, src uint8) { b.op(OP_LD64, dest, src) }
func (b *Builder) Ld128(dest, src uint8) { b.op(OP_LD128, dest, src) }
func (b *Builder) LdPtr(dest, src uint8) { b.op(OP_LDPTR, dest, src) }

func (b *Builder) St8(dest, src uint8) { b.op(OP_ST8, dest, src) }
func (b *Builder) St16(dest, src uint8) { b.op(OP_ST16, dest, src) }
func (b *Builder) St32(dest, src uint8) { b.op(OP_ST32, dest, src) }
func (b *Builder) St64(dest, src uint8) { b.op(OP_ST64, dest, src) }
func (b *Builder) St128(dest, src uint8) { b.op(OP_ST128, dest, src) }
func (b *Builder) StPtr(dest, src uint8) { b.op(OP_STPTR, dest, src) }

// Binary operations: [op, dest, op1, op2].

func (b *Builder) Add(dest, op1, op2 uint8) { b.op(OP_ADD, dest, op1, op2) }
func (b *Builder) Sub(dest, op1, op2 uint8) { b.op(OP_SUB, dest, op1, op2) }
func (b *Builder) Mul(dest, op1, op2 uint8) { b.op(OP_MUL, dest, op1, op2) }
func (b *Builder) Div(dest, op1, op2 uint8) { b.op(OP_DIV, dest, op1, op2) }
func (b *Builder) DivU(dest, op1, op2 uint8) { b.op(OP_DIVU, dest, op1, op2) }
func (b *Builder) Rem(dest, op1, op2 uint8) { b.op(OP_REM, dest, op1, op2) }
func (b *Builder) RemU(dest, op1, op2 uint8) { b.op(OP_REMU, dest, op1, op2) }
func (b *Builder) Shl(dest, op1, op2 uint8) { b.op(OP_SHL, dest, op1, op2) }
func (b *Builder) ShlA(dest, op1, op2 uint8) { b.op(OP_SHLA, dest, op1, op2) }
func (b *Builder) Shr(dest, op1, op2 uint8) { b.op(OP_SHR, dest, op1, op2) }
func (b *Builder) ShrA(dest, op1, op2 uint8) { b.op(OP_SHRA, dest, op1, op2) }
func (b *Builder) And(dest, op1, op2 uint8) { b.op(OP_AND, dest, op1, op2) }
func (b *Builder) Or(dest, op1, op2 uint8) { b.op(OP_OR, dest, op1, op2) }
func (b *Builder) Xor(dest, op1, op2 uint8) { b.op(OP_XOR, dest, op1, op2) }

// Immediate operations: [op, dest, op1, len, value...].

func (b *Builder) AddI(dest, op1 uint8, value []byte) { b.opImm(OP_ADDI, value, dest, op1) }
func (b *Builder) SubI(dest, op1 uint8, value []byte) { b.opImm(OP_SUBI, value, dest, op1) }
func (b *Builder) MulI(dest, op1 uint8, value []byte) { b.opImm(OP_MULI, value, dest, op1) }
func (b *Builder) DivI(dest, op1 uint8, value []byte) { b.opImm(OP_DIVI, value, dest, op1) }
func (b *Builder) ShlI(dest, op1 uint8, value []byte) { b.opImm(OP_SHLI, value, dest, op1) }
func (b *Builder) ShlAI(dest, op1 uint8, value []byte) { b.opImm(OP_SHLAI, value, dest, op1) }
func (b *Builder) ShrI(dest, op1 uint8, value []byte) { b.opImm(OP_SHRI, value, dest, op1) }
func (b *Builder) ShrAI(dest, op1 uint8, value []byte) { b.opImm(OP_SHRAI, value, dest, op1) }
func (b *Builder) AndI(dest, op1 uint8, value []byte) { b.opImm(OP_ANDI, value, dest, op1) }
func (b *Builder) OrI(dest, op1 uint8, value []byte) { b.opImm(OP_ORI, value, dest, op1) }
func (b *Builder) XorI(dest, op1 uint8, value []byte) { b.opImm(OP_XORI, value, dest, op1) }

// Jumps and branches.  Branches name their target by label.

func (b *Builder) Jof(offset int16) { b.opU16(OP_JOF, uint16(offset)) }
func (b *Builder) JofL(label uint8) { b.op(OP_JOFL, label) }

func (b *Builder) Beq(label, op1, op2 uint8) { b.op(OP_BEQ, label, op1, op2) }
func (b *Builder) Bne(label, op1, op2 uint8) { b.op(OP_BNE, label, op1, op2) }
func (b *Builder) Bgt(label, op1, op2 uint8) { b.op(OP_BGT, label, op1, op2) }
func (b *Builder) Blt(label, op1, op2 uint8) { b.op(OP_BLT, label, op1, op2) }
func (b *Builder) Bge(label, op1, op2 uint8) { b.op(OP_BGE, label, op1, op2) }
func (b *Builder) Ble(label, op1, op2 uint8) { b.op(OP_BLE, label, op1, op2) }

func (b *Builder) BeI(label, op1 uint8, value []byte) { b.opImm(OP_BEI, value, label, op1) }
func (b *Builder) BnI(label, op1 uint8, value []byte) { b.opImm(OP_BNI, value, label, op1) }
func (b *Builder) BgI(label, op1 uint8, value []byte) { b.opImm(OP_BGI, value, label, op1) }
func (b *Builder) BlI(label, op1 uint8, value []byte) { b.opImm(OP_BLI, value, label, op1) }

// Floating-point operations.  The conversions take a precision code as their
// last operand.

func (b *Builder) FAdd(dest, op1, op2 uint8) { b.op(OP_FADD, dest, op1, op2) }
func (b *Builder) FSub(dest, op1, op2 uint8) { b.op(OP_FSUB, dest, op1, op2) }
func (b *Builder) FMul(dest, op1, op2 uint8) { b.op(OP_FMUL, dest, op1, op2) }
func (b *Builder) FDiv(dest, op1, op2 uint8) { b.op(OP_FDIV, dest, op1, op2) }
func (b *Builder) FRem(dest, op1, op2 uint8) { b.op(OP_FREM, dest, op1, op2) }
func (b *Builder) FCvt(dest, from, precision uint8) { b.op(OP_FCVT, dest, from, precision) }
func (b *Builder) IFCvt(dest, from, precision uint8) { b.op(OP_IFCVT, dest, from, precision) }
func (b *Builder) FICvt(dest, from, precision uint8) { b.op(OP_FICVT, dest, from, precision) }
func (b *Builder) FSqrt(dest, operand uint8) { b.op(OP_FSQRT, dest, operand) }
func (b *Builder) FCbrt(dest, operand uint8) { b.op(OP_FCBRT, dest, operand) }
func (b *Builder) FSin(dest, operand uint8) { b.op(OP_FSIN, dest, operand) }
func (b *Builder) FCos(dest, operand uint8) { b.op(OP_FCOS, dest, operand) }
func (b *Builder) FTan(dest, operand uint8) { b.op(OP_FTAN, dest, operand) }
func (b *Builder) FASin(dest, operand uint8) { b.op(OP_FASIN, dest, operand) }
func (b *Builder) FACos(dest, operand uint8) { b.op(OP_FACOS, dest, operand) }
func (b *Builder) FATan(dest, operand uint8) { b.op(OP_FATAN, dest, operand) }
func (b *Builder) FSinh(dest, operand uint8) { b.op(OP_FSINH, dest, operand) }
func (b *Builder) FCosh(dest, operand uint8) { b.op(OP_FCOSH, dest, operand) }
func (b *Builder) FTanh(dest, operand uint8) { b.op(OP_FTANH, dest, operand) }
func (b *Builder) FASinh(dest, operand uint8) { b.op(OP_FASINH, dest, operand) }
func (b *Builder) FACosh(dest, operand uint8) { b.op(OP_FACOSH, dest, operand) }
func (b *Builder) FATanh(dest, operand uint8) { b.op(OP_FATANH, dest, operand) }
func (b *Builder) FRound(dest, operand uint8) { b.op(OP_FROUND, dest, operand) }
func (b *Builder) FCeil(dest, operand uint8) { b.op(OP_FCEIL, dest, operand) }
func (b *Builder) FFloor(dest, operand uint8) { b.op(OP_FFLOOR, dest, operand) }
func (b *Builder) FExp(dest, operand uint8) { b.op(OP_FEXP, dest, operand) }
func (b *Builder) FLn(dest, operand uint8) { b.op(OP_FLN, dest, operand) }
func (b *Builder) FPow(dest, op1, op2 uint8) { b.op(OP_FPOW, dest, op1, op2) }
func (b *Builder) Min(dest, op1, op2 uint8) { b.op(OP_MIN, dest, op1, op2) }
func (b *Builder) Max(dest, op1, op2 uint8) { b.op(OP_MAX, dest, op1, op2) }

// Calls and returns.

func (b *Builder) Call(fn uint16) { b.opU16(OP_CALL, fn) }
func (b *Builder) Ret() { b.op(OP_RET) }
func (b *Builder) StRet(src uint8) { b.op(OP_STRET, src) }
func (b *Builder) LdRet(dest uint8) { b.op(OP_LDRET, dest) }
func (b *Builder) StArg(arg, src uint8) { b.op(OP_STARG, arg, src) }
func (b *Builder) LdArg(arg, dest uint8) { b.op(OP_LDARG, arg, dest) }
func (b *Builder) StRetI(value []byte) { b.opImm(OP_STRETI, value) }
func (b *Builder) StArgI(arg uint8, value []byte) { b.opImm(OP_STARGI, value, arg) }

func (b *Builder) Lk() { b.op(OP_LK) }
func (b *Builder) Ulk() { b.op(OP_ULK) }

// LdA loads element index of the aggregate register src, whose type is type,
// into the primitive register dest.
func (b *Builder) LdA(dest uint8, src, typ, index uint16) {
	sh, sl := hilo(src)
	th, tl := hilo(typ)
	ih, il := hilo(index)
	b.op(OP_LDA, dest, sh, sl, th, tl, ih, il)
}

// StA stores the primitive register src into element index of the aggregate
// register dest, whose type is type.
func (b *Builder) StA(dest, typ, index uint16, src uint8) {
	dh, dl := hilo(dest)
	th, tl := hilo(typ)
	ih, il := hilo(index)
	b.op(OP_STA, dh, dl, th, tl, ih, il, src)
}
