package uir

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"ulang/common"
	"ulang/depm"
	"ulang/types"
)

// Write writes mod to the module file at path.  Any existing file at path is
// removed first, and nothing is left at path if the write fails.
func Write(path string, mod *depm.Module, opts Options) error {
	if filepath.Ext(path) != common.ModuleFileExt {
		return fmt.Errorf("%w: %s", ErrBadExtension, path)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := Encode(bw, mod, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}

	return nil
}

// Encode writes the binary encoding of mod to w.
func Encode(w io.Writer, mod *depm.Module, opts Options) error {
	e := &encoder{w: w}

	e.bytes(Magic[:])
	e.bool(opts.Debug)
	if opts.Debug {
		e.str(mod.Project.ID)
		e.str(mod.Project.Name)
		e.u32(mod.Project.Version.Major)
		e.u32(mod.Project.Version.Minor)
		e.u32(mod.Project.Version.Revision)
	}

	for _, group := range [][]*depm.Struct{mod.Structs, mod.Unions} {
		e.count(len(group), math.MaxUint16, "structs")
		for _, st := range group {
			e.count(len(st.Fields), math.MaxUint16, "fields")
			e.str(st.Name)
			for _, f := range st.Fields {
				e.field(f.Type, f.Name)
			}
		}
	}

	e.count(len(mod.Globals), math.MaxUint16, "globals")
	for _, g := range mod.Globals {
		e.field(g.Type, g.Name)
	}

	e.count(len(mod.Functions), math.MaxUint16, "functions")
	for _, fn := range mod.Functions {
		e.u8(uint8(fn.Flags))
		e.typ(fn.Return)
		e.count(len(fn.Params), math.MaxUint8, "parameters")
		e.u16(fn.BodyIndex)
		e.str(fn.Name)
		for _, p := range fn.Params {
			e.field(p.Type, p.Name)
		}
	}

	e.count(len(mod.Bodies), math.MaxUint16, "bodies")
	for _, body := range mod.Bodies {
		e.count(len(body.Code), math.MaxUint16, "bytes of code")
		e.bytes(body.Code)
	}

	return e.err
}

// -----------------------------------------------------------------------------

// encoder writes primitive values, keeping the first error.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) bytes(bs []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(bs)
	}
}

func (e *encoder) u8(v uint8) {
	e.bytes([]byte{v})
}

func (e *encoder) bool(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) u16(v uint16) {
	e.bytes(binary.LittleEndian.AppendUint16(nil, v))
}

func (e *encoder) u32(v uint32) {
	e.bytes(binary.LittleEndian.AppendUint32(nil, v))
}

// count writes a count, failing if it exceeds max.  Counts of up to 255 are
// written as a u8 and all others as a u16.
func (e *encoder) count(n, max int, what string) {
	if n > max {
		if e.err == nil {
			e.err = fmt.Errorf("%w: %d %s exceeds the limit of %d", ErrTooLarge, n, what, max)
		}

		return
	}

	if max == math.MaxUint8 {
		e.u8(uint8(n))
	} else {
		e.u16(uint16(n))
	}
}

func (e *encoder) str(s string) {
	e.count(len(s), math.MaxUint16, "bytes of string")
	e.bytes([]byte(s))
}

func (e *encoder) typ(tr types.TypeRef) {
	if tr.VecCount > types.MaxVecCount && e.err == nil {
		e.err = fmt.Errorf("%w: vector length %d", ErrTooLarge, tr.VecCount)
	}

	e.bytes([]byte{
		byte(tr.Id),
		tr.Indir,
		byte(tr.StructIndex),
		byte(tr.StructIndex >> 8),
		byte(tr.VecCount),
		byte(tr.VecCount >> 8),
		byte(tr.VecCount >> 16),
		tr.VecIndir,
	})
}

func (e *encoder) field(tr types.TypeRef, name string) {
	e.typ(tr)
	e.str(name)
}
