// Package uir reads and writes compiled modules in the binary .uir format.
// All multi-byte integers are little-endian.  Strings are UTF-8 prefixed with
// their byte length as a u16.
package uir

import (
	"errors"

	"ulang/common"
)

// Magic is the header of every module file: "UIR!".
var Magic = [4]byte{0x55, 0x49, 0x52, 0x21}

// Errors returned when reading and writing module files.
var (
	ErrBadMagic     = errors.New("not a module file: bad magic header")
	ErrBadExtension = errors.New("module files must have the extension " + common.ModuleFileExt)
	ErrTruncated    = errors.New("module file is truncated")
	ErrCorrupt      = errors.New("module file is corrupt")
	ErrTooLarge     = errors.New("module is too large to encode")
)

// typeLayoutSize is the encoded size of a type reference.
const typeLayoutSize = 8

// Minimum encoded sizes of each record, used to reject counts which cannot fit
// in the remaining input.
const (
	minStructSize   = 2 + 2
	minFieldSize    = typeLayoutSize + 2
	minFunctionSize = 1 + typeLayoutSize + 1 + 2 + 2
	minBodySize     = 2
)

// Options control encoding.
type Options struct {
	// Debug includes the project descriptor in the header.
	Debug bool
}
