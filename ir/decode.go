package ir

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Decode.
var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrTruncated     = errors.New("truncated instruction")
)

// Instruction is a single decoded instruction.
type Instruction struct {
	// The byte offset of the instruction in its body including any extension
	// prefix.
	Offset int

	// The number of extension bytes preceding the opcode.
	Extent int

	Op Opcode

	// The single byte operands in encoding order: registers and labels.
	Regs []uint8

	// The 16-bit operands: the jump offset, the called function or the
	// aggregate register, type and index of lda and sta.
	Wide []uint16

	// The immediate or nil.
	Imm []byte

	// The total encoded length of the instruction.
	Size int
}

// Decode decodes a body into its instructions.
func Decode(code []byte) ([]Instruction, error) {
	var insts []Instruction

	for pos := 0; pos < len(code); {
		inst, err := decodeOne(code, pos)
		if err != nil {
			return insts, err
		}

		insts = append(insts, inst)
		pos += inst.Size
	}

	return insts, nil
}

// decodeOne decodes the instruction at pos.
func decodeOne(code []byte, pos int) (Instruction, error) {
	inst := Instruction{Offset: pos}

	for pos < len(code) && Opcode(code[pos]) == OP_EXTEND {
		inst.Extent++
		pos++
	}

	if pos >= len(code) {
		return inst, fmt.Errorf("%w at offset %d: extension prefix without an opcode", ErrTruncated, inst.Offset)
	}

	inst.Op = Opcode(code[pos])
	pos++

	info, ok := opTable[inst.Op]
	if inst.Extent > 0 || !ok {
		return inst, fmt.Errorf("%w 0x%02x (page %d) at offset %d", ErrUnknownOpcode, byte(inst.Op), inst.Extent, inst.Offset)
	}

	r := reader{code: code, pos: pos}
	switch info.Format {
	case FMT_R:
		inst.Regs = r.bytes(1)
	case FMT_RR:
		inst.Regs = r.bytes(2)
	case FMT_RRR:
		inst.Regs = r.bytes(3)
	case FMT_I:
		inst.Imm = r.imm()
	case FMT_RI:
		inst.Regs = r.bytes(1)
		inst.Imm = r.imm()
	case FMT_RRI:
		inst.Regs = r.bytes(2)
		inst.Imm = r.imm()
	case FMT_OFFSET, FMT_FUNC:
		if bs := r.bytes(2); bs != nil {
			inst.Wide = []uint16{binary.LittleEndian.Uint16(bs)}
		}
	case FMT_LDA:
		inst.Regs = r.bytes(1)
		inst.Wide = r.hilos(3)
	case FMT_STA:
		inst.Wide = r.hilos(3)
		inst.Regs = r.bytes(1)
	}

	if r.short {
		return inst, fmt.Errorf("%w at offset %d: %s", ErrTruncated, inst.Offset, inst.Op)
	}

	inst.Size = r.pos - inst.Offset
	return inst, nil
}

// reader reads operands, recording whether it ran out of input.
type reader struct {
	code  []byte
	pos   int
	short bool
}

func (r *reader) bytes(n int) []byte {
	if r.short || r.pos+n > len(r.code) {
		r.short = true
		return nil
	}

	bs := r.code[r.pos : r.pos+n]
	r.pos += n
	return bs
}

func (r *reader) imm() []byte {
	n := r.bytes(1)
	if n == nil {
		return nil
	}

	return r.bytes(int(n[0]))
}

func (r *reader) hilos(n int) []uint16 {
	bs := r.bytes(2 * n)
	if bs == nil {
		return nil
	}

	vs := make([]uint16, n)
	for i := range vs {
		vs[i] = uint16(bs[2*i])<<8 | uint16(bs[2*i+1])
	}

	return vs
}

// -----------------------------------------------------------------------------

func (inst Instruction) String() string {
	var operands []string

	for i, reg := range inst.Regs {
		if i == 0 && inst.Op.isBranch() {
			operands = append(operands, fmt.Sprintf("L%d", reg))
		} else if inst.Op == OP_STARG || inst.Op == OP_LDARG || inst.Op == OP_STARGI {
			if i == 0 {
				operands = append(operands, fmt.Sprintf("a%d", reg))
			} else {
				operands = append(operands, fmt.Sprintf("r%d", reg))
			}
		} else {
			operands = append(operands, fmt.Sprintf("r%d", reg))
		}
	}

	switch inst.Op {
	case OP_JOF:
		operands = append(operands, fmt.Sprintf("%+d", int16(inst.Wide[0])))
	case OP_CALL:
		operands = append(operands, fmt.Sprintf("fn%d", inst.Wide[0]))
	case OP_LDA:
		operands = append(operands, fmt.Sprintf("g%d", inst.Wide[0]), fmt.Sprintf("t%d", inst.Wide[1]), fmt.Sprint(inst.Wide[2]))
	case OP_STA:
		operands = append([]string{fmt.Sprintf("g%d", inst.Wide[0]), fmt.Sprintf("t%d", inst.Wide[1]), fmt.Sprint(inst.Wide[2])}, operands...)
	}

	if inst.Imm != nil {
		operands = append(operands, fmt.Sprintf("#%x", inst.Imm))
	}

	if len(operands) == 0 {
		return inst.Op.String()
	}

	return inst.Op.String() + " " + strings.Join(operands, ", ")
}
