package uir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ulang/common"
	"ulang/depm"
	"ulang/types"
)

// Read reads the module file at path.
func Read(path string) (*depm.Module, bool, error) {
	if filepath.Ext(path) != common.ModuleFileExt {
		return nil, false, fmt.Errorf("%w: %s", ErrBadExtension, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a module from r.  It returns whether the module was encoded
// with debug information.  No partial module is ever returned.
func Decode(r io.Reader) (*depm.Module, bool, error) {
	buff, err := io.ReadAll(r)
	if err != nil {
		return nil, false, err
	}

	d := &decoder{buff: buff}

	var magic [4]byte
	copy(magic[:], d.bytes(4))
	if d.err != nil || magic != Magic {
		return nil, false, ErrBadMagic
	}

	mod := &depm.Module{}
	debug := d.u8() != 0
	if debug {
		mod.Project.ID = d.str()
		mod.Project.Name = d.str()
		mod.Project.Version.Major = d.u32()
		mod.Project.Version.Minor = d.u32()
		mod.Project.Version.Revision = d.u32()
	}

	mod.Structs = d.structs()
	mod.Unions = d.structs()

	n := d.count(minFieldSize)
	for i := 0; i < n && d.err == nil; i++ {
		tr, name := d.field()
		mod.Globals = append(mod.Globals, &depm.Field{Type: tr, Name: name})
	}

	n = d.count(minFunctionSize)
	for i := 0; i < n && d.err == nil; i++ {
		fn := &depm.Function{Flags: depm.FunctionFlags(d.u8())}
		fn.Return = d.typ()
		nparams := int(d.u8())
		fn.BodyIndex = d.u16()
		fn.Name = d.str()

		for j := 0; j < nparams && d.err == nil; j++ {
			tr, name := d.field()
			fn.Params = append(fn.Params, &depm.Param{Type: tr, Name: name})
		}

		mod.Functions = append(mod.Functions, fn)
	}

	n = d.count(minBodySize)
	for i := 0; i < n && d.err == nil; i++ {
		size := int(d.u16())
		mod.Bodies = append(mod.Bodies, &depm.CodeBody{Code: bytes.Clone(d.bytes(size))})
	}

	if d.err != nil {
		return nil, false, d.err
	}

	if d.pos != len(d.buff) {
		return nil, false, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(d.buff)-d.pos)
	}

	if err := validate(mod); err != nil {
		return nil, false, err
	}

	return mod, debug, nil
}

// validate checks every cross reference of a decoded module.
func validate(mod *depm.Module) error {
	check := func(tr types.TypeRef, where string) error {
		if !tr.Id.IsValid() {
			return fmt.Errorf("%w: invalid type id 0x%02x in %s", ErrCorrupt, byte(tr.Id), where)
		}

		if tr.Id.IsUser() && mod.UserType(tr) == nil {
			return fmt.Errorf("%w: %s refers to missing %s %d", ErrCorrupt, where, tr.Id, tr.StructIndex)
		}

		return nil
	}

	for _, group := range [][]*depm.Struct{mod.Structs, mod.Unions} {
		for _, st := range group {
			for _, f := range st.Fields {
				if err := check(f.Type, st.Name+"."+f.Name); err != nil {
					return err
				}
			}
		}
	}

	for _, g := range mod.Globals {
		if err := check(g.Type, g.Name); err != nil {
			return err
		}
	}

	for _, fn := range mod.Functions {
		if err := check(fn.Return, fn.Name); err != nil {
			return err
		}

		for _, p := range fn.Params {
			if err := check(p.Type, fn.Name+"("+p.Name+")"); err != nil {
				return err
			}
		}

		if !fn.Has(depm.FuncExtern) && int(fn.BodyIndex) >= len(mod.Bodies) {
			return fmt.Errorf("%w: %s refers to missing body %d", ErrCorrupt, fn.Name, fn.BodyIndex)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// decoder reads primitive values from a buffer, keeping the first error.
// After an error every read returns zero values.
type decoder struct {
	buff []byte
	pos  int
	err  error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return nil
	}

	if n > len(d.buff)-d.pos {
		d.err = fmt.Errorf("%w: wanted %d bytes at offset %d", ErrTruncated, n, d.pos)
		return nil
	}

	bs := d.buff[d.pos : d.pos+n]
	d.pos += n
	return bs
}

func (d *decoder) u8() uint8 {
	if bs := d.bytes(1); bs != nil {
		return bs[0]
	}

	return 0
}

func (d *decoder) u16() uint16 {
	if bs := d.bytes(2); bs != nil {
		return binary.LittleEndian.Uint16(bs)
	}

	return 0
}

func (d *decoder) u32() uint32 {
	if bs := d.bytes(4); bs != nil {
		return binary.LittleEndian.Uint32(bs)
	}

	return 0
}

// count reads a u16 record count and rejects it if that many records of at
// least minSize bytes cannot fit in the remaining input.
func (d *decoder) count(minSize int) int {
	n := int(d.u16())
	if d.err == nil && n*minSize > len(d.buff)-d.pos {
		d.err = fmt.Errorf("%w: count %d at offset %d exceeds the remaining input", ErrTruncated, n, d.pos-2)
		return 0
	}

	return n
}

func (d *decoder) str() string {
	n := int(d.u16())
	return string(d.bytes(n))
}

func (d *decoder) typ() types.TypeRef {
	bs := d.bytes(typeLayoutSize)
	if bs == nil {
		return types.TypeRef{}
	}

	return types.TypeRef{
		Id:          types.TypeId(bs[0]),
		Indir:       bs[1],
		StructIndex: uint16(bs[2]) | uint16(bs[3])<<8,
		VecCount:    uint32(bs[4]) | uint32(bs[5])<<8 | uint32(bs[6])<<16,
		VecIndir:    bs[7],
	}
}

func (d *decoder) field() (types.TypeRef, string) {
	tr := d.typ()
	return tr, d.str()
}

func (d *decoder) structs() []*depm.Struct {
	n := d.count(minStructSize)

	var sts []*depm.Struct
	for i := 0; i < n && d.err == nil; i++ {
		nfields := int(d.u16())
		st := &depm.Struct{Name: d.str()}

		for j := 0; j < nfields && d.err == nil; j++ {
			tr, name := d.field()
			st.Fields = append(st.Fields, &depm.Field{Type: tr, Name: name})
		}

		sts = append(sts, st)
	}

	return sts
}
