package resolve

import (
	"strings"

	"ulang/depm"
	"ulang/syntax"
	"ulang/types"
)

// typeReader reads type references out of a file's token stream.
type typeReader struct {
	*scanner
	mod *depm.Module
}

// ResolveType reads the type reference beginning at token t of file.  scope is
// the dotted path of the namespace the reference appears in: user types are
// looked up relative to each enclosing namespace, innermost first, and then
// globally.  It returns the type and the index of the first token after it.
func ResolveType(mod *depm.Module, file *depm.SourceFile, scope string, t int) (types.TypeRef, int, error) {
	tr := typeReader{scanner: newScanner(file), mod: mod}
	return tr.read(scope, t, false)
}

// read reads a type at t.  When silent is set, a failed lookup of the type name
// returns errNotAType instead of a positioned error.  All other malformations
// are still real errors.
func (tr typeReader) read(scope string, t int, silent bool) (types.TypeRef, int, error) {
	var ref types.TypeRef

	if !tr.isIdent(t) {
		return ref, t, tr.raise(t, "expected a type")
	}

	start := t
	name, t := tr.readPath(t)
	if !tr.lookup(&ref, scope, name) {
		if silent {
			return ref, start, errNotAType
		}

		return ref, start, tr.raise(start, "could not find type `%s`", name)
	}

	t = tr.countStars(t, &ref.Indir)

	if tr.isSep(t, syntax.SEP_LBRACKET) {
		t++
		tok := tr.at(t)
		if tok == nil || tok.Literal() != syntax.LIT_NUMBER {
			return ref, t, tr.raise(t, "vector length is not a literal value")
		}

		var buff [16]byte
		nt, err := syntax.ParseNumber(tr.text(t), &buff)
		if err != nil {
			return ref, t, tr.raise(t, "%s", err)
		} else if nt.IsFloat() {
			return ref, t, tr.raise(t, "vector element count cannot be a floating-point number")
		}

		for _, b := range buff[3:] {
			if b != 0 {
				return ref, t, tr.raise(t, "vector element count cannot be larger than %d", types.MaxVecCount)
			}
		}

		ref.VecCount = uint32(buff[0]) | uint32(buff[1])<<8 | uint32(buff[2])<<16
		ref.VecIndir = ref.Indir
		ref.Indir = 0

		t++
		if !tr.isSep(t, syntax.SEP_RBRACKET) {
			return ref, t, tr.raise(t, "vector element count must be followed by a closing square bracket `]`")
		}

		t = tr.countStars(t+1, &ref.Indir)
	}

	return ref, t, nil
}

// countStars counts the `*` operators beginning at t into indir and returns
// the index of the first token after them.
func (tr typeReader) countStars(t int, indir *uint8) int {
	for {
		tok := tr.at(t)
		if tok == nil || !tok.IsOp(syntax.OP_STAR) {
			return t
		}

		*indir++
		t++
	}
}

// lookup resolves a type name: first among the builtin types, then among the
// structs and then the unions.  User types are tried qualified by each prefix
// of scope before the bare name.  The first match wins.
func (tr typeReader) lookup(ref *types.TypeRef, scope, name string) bool {
	if id, ok := types.LookupBuiltin(name); ok {
		ref.Id = id
		return true
	}

	for _, candidate := range scopedNames(scope, name) {
		if ndx, ok := tr.mod.LookupStruct(candidate); ok {
			ref.Id = types.UserStruct
			ref.StructIndex = uint16(ndx)
			return true
		}

		if ndx, ok := tr.mod.LookupUnion(candidate); ok {
			ref.Id = types.UserUnion
			ref.StructIndex = uint16(ndx)
			return true
		}
	}

	return false
}

// scopedNames returns name qualified by every prefix of scope, longest first,
// followed by name itself.
func scopedNames(scope, name string) []string {
	var names []string
	for scope != "" {
		names = append(names, scope+"."+name)

		if i := strings.LastIndexByte(scope, '.'); i >= 0 {
			scope = scope[:i]
		} else {
			scope = ""
		}
	}

	return append(names, name)
}

// errNotAType is returned by silent type reads when the name is not a type.
var errNotAType = &notATypeError{}

type notATypeError struct{}

func (*notATypeError) Error() string {
	return "not a type"
}
