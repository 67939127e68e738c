// Package ir defines the bytecode instruction set of function bodies: the
// opcodes, an encoder with one method per instruction and a decoder used by
// the disassembler.
package ir

import "fmt"

// Opcode is a single byte instruction code.
type Opcode byte

// Enumeration of opcodes.
const (
	OP_NOP   Opcode = 0x00
	OP_BREAK Opcode = 0x01

	OP_LD8   Opcode = 0x02
	OP_LD16  Opcode = 0x03
	OP_LD32  Opcode = 0x04
	OP_LD64  Opcode = 0x05
	OP_LD128 Opcode = 0x06
	OP_LDPTR Opcode = 0x08

	OP_ST8   Opcode = 0x09
	OP_ST16  Opcode = 0x0A
	OP_ST32  Opcode = 0x0B
	OP_ST64  Opcode = 0x0C
	OP_ST128 Opcode = 0x0D
	OP_STPTR Opcode = 0x0F

	OP_ADD  Opcode = 16
	OP_SUB  Opcode = 17
	OP_MUL  Opcode = 18
	OP_DIV  Opcode = 19
	OP_DIVU Opcode = 20
	OP_REM  Opcode = 21
	OP_REMU Opcode = 22
	OP_SHL  Opcode = 23
	OP_SHLA Opcode = 24
	OP_SHR  Opcode = 25
	OP_SHRA Opcode = 26
	OP_AND  Opcode = 27
	OP_OR   Opcode = 28
	OP_XOR  Opcode = 29

	OP_ADDI  Opcode = 32
	OP_SUBI  Opcode = 33
	OP_MULI  Opcode = 34
	OP_DIVI  Opcode = 35
	OP_SHLI  Opcode = 36
	OP_SHLAI Opcode = 37
	OP_SHRI  Opcode = 38
	OP_SHRAI Opcode = 39
	OP_ANDI  Opcode = 40
	OP_ORI   Opcode = 41
	OP_XORI  Opcode = 42

	OP_JOF  Opcode = 48
	OP_JOFL Opcode = 49
	OP_BEQ  Opcode = 50
	OP_BNE  Opcode = 51
	OP_BGT  Opcode = 52
	OP_BLT  Opcode = 53
	OP_BGE  Opcode = 54
	OP_BLE  Opcode = 55
	OP_BEI  Opcode = 56
	OP_BNI  Opcode = 57
	OP_BGI  Opcode = 58
	OP_BLI  Opcode = 59

	OP_FADD  Opcode = 64
	OP_FSUB  Opcode = 65
	OP_FMUL  Opcode = 66
	OP_FDIV  Opcode = 67
	OP_FREM  Opcode = 68
	OP_FCVT  Opcode = 69
	OP_IFCVT Opcode = 70
	OP_FICVT Opcode = 71

	OP_FSQRT  Opcode = 72
	OP_FCBRT  Opcode = 73
	OP_FSIN   Opcode = 74
	OP_FCOS   Opcode = 75
	OP_FTAN   Opcode = 76
	OP_FASIN  Opcode = 77
	OP_FACOS  Opcode = 78
	OP_FATAN  Opcode = 79
	OP_FSINH  Opcode = 80
	OP_FCOSH  Opcode = 81
	OP_FTANH  Opcode = 82
	OP_FASINH Opcode = 83
	OP_FACOSH Opcode = 84
	OP_FATANH Opcode = 85
	OP_FROUND Opcode = 86
	OP_FCEIL  Opcode = 87
	OP_FFLOOR Opcode = 88
	OP_FEXP   Opcode = 89
	OP_FLN    Opcode = 90
	OP_FPOW   Opcode = 91

	OP_MIN Opcode = 96
	OP_MAX Opcode = 97

	OP_CALL   Opcode = 112
	OP_RET    Opcode = 113
	OP_STRET  Opcode = 114
	OP_LDRET  Opcode = 115
	OP_STARG  Opcode = 116
	OP_LDARG  Opcode = 117
	OP_STRETI Opcode = 118
	OP_STARGI Opcode = 119

	// OP_EXTEND prefixes opcodes of the extended pages.  A run of n extension
	// bytes selects page n.
	OP_EXTEND Opcode = 0x7F

	OP_LK  Opcode = 128
	OP_ULK Opcode = 129

	OP_LDA Opcode = 144
	OP_STA Opcode = 145
)

// Format describes the operand layout following an opcode.
type Format int

// Enumeration of operand formats.
const (
	FMT_NONE Format = iota // no operands
	FMT_R                  // one register: [r]
	FMT_RR                 // two registers: [r1, r2]
	FMT_RRR                // three registers: [r1, r2, r3]
	FMT_I                  // an immediate: [len, bytes...]
	FMT_RI                 // a register and an immediate: [r, len, bytes...]
	FMT_RRI                // two registers and an immediate: [r1, r2, len, bytes...]
	FMT_OFFSET             // a signed 16-bit little-endian jump offset
	FMT_FUNC               // an unsigned 16-bit little-endian function index
	FMT_LDA                // [dest, src hi, src lo, type hi, type lo, index hi, index lo]
	FMT_STA                // [dest hi, dest lo, type hi, type lo, index hi, index lo, src]
)

// opInfo is the mnemonic and operand format of an opcode.
type opInfo struct {
	Name   string
	Format Format
}

// opTable holds every defined opcode of the base page.
var opTable = map[Opcode]opInfo{
	OP_NOP:   {"nop", FMT_NONE},
	OP_BREAK: {"break", FMT_NONE},

	OP_LD8:   {"ld8", FMT_RR},
	OP_LD16:  {"ld16", FMT_RR},
	OP_LD32:  {"ld32", FMT_RR},
	OP_LD64:  {"ld64", FMT_RR},
	OP_LD128: {"ld128", FMT_RR},
	OP_LDPTR: {"ldptr", FMT_RR},

	OP_ST8:   {"st8", FMT_RR},
	OP_ST16:  {"st16", FMT_RR},
	OP_ST32:  {"st32", FMT_RR},
	OP_ST64:  {"st64", FMT_RR},
	OP_ST128: {"st128", FMT_RR},
	OP_STPTR: {"stptr", FMT_RR},

	OP_ADD:  {"add", FMT_RRR},
	OP_SUB:  {"sub", FMT_RRR},
	OP_MUL:  {"mul", FMT_RRR},
	OP_DIV:  {"div", FMT_RRR},
	OP_DIVU: {"divu", FMT_RRR},
	OP_REM:  {"rem", FMT_RRR},
	OP_REMU: {"remu", FMT_RRR},
	OP_SHL:  {"shl", FMT_RRR},
	OP_SHLA: {"shla", FMT_RRR},
	OP_SHR:  {"shr", FMT_RRR},
	OP_SHRA: {"shra", FMT_RRR},
	OP_AND:  {"and", FMT_RRR},
	OP_OR:   {"or", FMT_RRR},
	OP_XOR:  {"xor", FMT_RRR},

	OP_ADDI:  {"addi", FMT_RRI},
	OP_SUBI:  {"subi", FMT_RRI},
	OP_MULI:  {"muli", FMT_RRI},
	OP_DIVI:  {"divi", FMT_RRI},
	OP_SHLI:  {"shli", FMT_RRI},
	OP_SHLAI: {"shlai", FMT_RRI},
	OP_SHRI:  {"shri", FMT_RRI},
	OP_SHRAI: {"shrai", FMT_RRI},
	OP_ANDI:  {"andi", FMT_RRI},
	OP_ORI:   {"ori", FMT_RRI},
	OP_XORI:  {"xori", FMT_RRI},

	OP_JOF:  {"jof", FMT_OFFSET},
	OP_JOFL: {"jofl", FMT_R},
	OP_BEQ:  {"beq", FMT_RRR},
	OP_BNE:  {"bne", FMT_RRR},
	OP_BGT:  {"bgt", FMT_RRR},
	OP_BLT:  {"blt", FMT_RRR},
	OP_BGE:  {"bge", FMT_RRR},
	OP_BLE:  {"ble", FMT_RRR},
	OP_BEI:  {"bei", FMT_RRI},
	OP_BNI:  {"bni", FMT_RRI},
	OP_BGI:  {"bgi", FMT_RRI},
	OP_BLI:  {"bli", FMT_RRI},

	OP_FADD:  {"fadd", FMT_RRR},
	OP_FSUB:  {"fsub", FMT_RRR},
	OP_FMUL:  {"fmul", FMT_RRR},
	OP_FDIV:  {"fdiv", FMT_RRR},
	OP_FREM:  {"frem", FMT_RRR},
	OP_FCVT:  {"fcvt", FMT_RRR},
	OP_IFCVT: {"ifcvt", FMT_RRR},
	OP_FICVT: {"ficvt", FMT_RRR},

	OP_FSQRT:  {"fsqrt", FMT_RR},
	OP_FCBRT:  {"fcbrt", FMT_RR},
	OP_FSIN:   {"fsin", FMT_RR},
	OP_FCOS:   {"fcos", FMT_RR},
	OP_FTAN:   {"ftan", FMT_RR},
	OP_FASIN:  {"fasin", FMT_RR},
	OP_FACOS:  {"facos", FMT_RR},
	OP_FATAN:  {"fatan", FMT_RR},
	OP_FSINH:  {"fsinh", FMT_RR},
	OP_FCOSH:  {"fcosh", FMT_RR},
	OP_FTANH:  {"ftanh", FMT_RR},
	OP_FASINH: {"fasinh", FMT_RR},
	OP_FACOSH: {"facosh", FMT_RR},
	OP_FATANH: {"fatanh", FMT_RR},
	OP_FROUND: {"fround", FMT_RR},
	OP_FCEIL:  {"fceil", FMT_RR},
	OP_FFLOOR: {"ffloor", FMT_RR},
	OP_FEXP:   {"fexp", FMT_RR},
	OP_FLN:    {"fln", FMT_RR},
	OP_FPOW:   {"fpow", FMT_RRR},

	OP_MIN: {"min", FMT_RRR},
	OP_MAX: {"max", FMT_RRR},

	OP_CALL:   {"call", FMT_FUNC},
	OP_RET:    {"ret", FMT_NONE},
	OP_STRET:  {"stret", FMT_R},
	OP_LDRET:  {"ldret", FMT_R},
	OP_STARG:  {"starg", FMT_RR},
	OP_LDARG:  {"ldarg", FMT_RR},
	OP_STRETI: {"streti", FMT_I},
	OP_STARGI: {"stargi", FMT_RI},

	OP_LK:  {"lk", FMT_NONE},
	OP_ULK: {"ulk", FMT_NONE},

	OP_LDA: {"lda", FMT_LDA},
	OP_STA: {"sta", FMT_STA},
}

// Info returns the mnemonic and operand format of op.
func (op Opcode) Info() (name string, format Format, ok bool) {
	info, ok := opTable[op]
	return info.Name, info.Format, ok
}

func (op Opcode) String() string {
	if info, ok := opTable[op]; ok {
		return info.Name
	}

	return fmt.Sprintf("op(0x%02x)", byte(op))
}

// isBranch returns whether the first register operand of op is a label.
func (op Opcode) isBranch() bool {
	return op == OP_JOFL || OP_BEQ <= op && op <= OP_BLI
}
