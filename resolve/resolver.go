// Package resolve builds a module's struct, union and function tables from the
// token streams of its source files.  Resolution happens in two passes so that
// declarations may refer to types declared later or in other files: the first
// pass only registers the names of structs and unions; the second resolves
// their fields and then registers every function signature.
package resolve

import (
	"strings"

	"ulang/depm"
	"ulang/report"
	"ulang/syntax"
)

// Resolver is responsible for resolving all the global declarations of a
// module.  Any malformed declaration stops resolution for the whole module.
type Resolver struct {
	mod *depm.Module
}

// NewResolver creates a new resolver for the given module.  The module's files
// must already be tokenized.
func NewResolver(mod *depm.Module) *Resolver {
	return &Resolver{mod: mod}
}

// Resolve runs both resolution passes over all the files of the module.  The
// returned error is a *depm.FileError identifying the offending file.
func (r *Resolver) Resolve() error {
	r.mod.Structs = r.mod.Structs[:0]
	r.mod.Unions = r.mod.Unions[:0]

	for _, file := range r.mod.Files {
		if err := r.RegisterSymbols(file); err != nil {
			return &depm.FileError{File: file, Err: err}
		}
	}

	if err := r.ImplementSymbols(); err != nil {
		return err
	}

	for _, file := range r.mod.Files {
		if err := r.RegisterFunctions(file); err != nil {
			return &depm.FileError{File: file, Err: err}
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// scanner walks the token stream of a single file.
type scanner struct {
	file *depm.SourceFile
	toks []*syntax.Token
}

func newScanner(file *depm.SourceFile) *scanner {
	return &scanner{file: file, toks: file.Tokens}
}

// at returns the token at index t or nil if t is out of range.
func (s *scanner) at(t int) *syntax.Token {
	if t < 0 || t >= len(s.toks) {
		return nil
	}

	return s.toks[t]
}

// isSep returns whether the token at t is the given separator.
func (s *scanner) isSep(t int, sep syntax.Separator) bool {
	tok := s.at(t)
	return tok != nil && tok.IsSep(sep)
}

// isIdent returns whether the token at t is an identifier.
func (s *scanner) isIdent(t int) bool {
	tok := s.at(t)
	return tok != nil && tok.Kind == syntax.TOK_IDENT
}

// text returns the source text of the token at t.
func (s *scanner) text(t int) string {
	return s.file.Text(s.toks[t])
}

// nextSep returns the index of the next given separator at or after t or -1.
func (s *scanner) nextSep(t int, sep syntax.Separator) int {
	for ; t < len(s.toks); t++ {
		if s.toks[t].IsSep(sep) {
			return t
		}
	}

	return -1
}

// raise creates an error positioned at the token at t.  Positions past the end
// of the file are attributed to the last token.
func (s *scanner) raise(t int, msg string, args ...interface{}) error {
	if len(s.toks) == 0 {
		return report.RaiseAt(0, 0, msg, args...)
	}

	if t >= len(s.toks) {
		t = len(s.toks) - 1
	}

	tok := s.toks[t]
	return report.RaiseAt(tok.Pos, tok.Len, msg, args...)
}

// readPath reads a dotted identifier path beginning at t.  It returns the path
// and the index of the first token after it.
func (s *scanner) readPath(t int) (string, int) {
	var sb strings.Builder
	sb.WriteString(s.text(t))
	t++

	for s.isSep(t, syntax.SEP_DOT) && s.isIdent(t+1) {
		sb.WriteByte('.')
		sb.WriteString(s.text(t + 1))
		t += 2
	}

	return sb.String(), t
}

// -----------------------------------------------------------------------------

// namespace is an open namespace: either an explicit namespace or, during
// function registration, a struct or union body.
type namespace struct {
	name  string
	depth int
}

// nsStack tracks the namespaces enclosing the current token.
type nsStack []namespace

// pop closes all namespaces opened at a deeper brace depth than depth.
func (ns *nsStack) pop(depth int) {
	for len(*ns) > 0 && depth < (*ns)[len(*ns)-1].depth {
		*ns = (*ns)[:len(*ns)-1]
	}
}

// path returns the dot-joined names of all open namespaces.
func (ns nsStack) path() string {
	names := make([]string, len(ns))
	for i, n := range ns {
		names[i] = n.name
	}

	return strings.Join(names, ".")
}

// qualify prefixes name with the current namespace path.
func (ns nsStack) qualify(name string) string {
	if len(ns) == 0 {
		return name
	}

	return ns.path() + "." + name
}

// openNamespace reads a namespace declaration whose name begins at t: a dotted
// path followed by either `{` or `;`.  It pushes the namespace and returns the
// index of the terminating token and the new brace depth.
func (s *scanner) openNamespace(ns *nsStack, t, depth int, what string) (int, int, error) {
	if !s.isIdent(t) {
		return t, depth, s.raise(t, "expected a name after `%s`", what)
	}

	name, t := s.readPath(t)
	switch {
	case s.isSep(t, syntax.SEP_LBRACE):
		depth++
	case s.isSep(t, syntax.SEP_SEMI):
	default:
		return t, depth, s.raise(t, "expected `{` or `;` after %s `%s`", what, name)
	}

	*ns = append(*ns, namespace{name: name, depth: depth})
	return t, depth, nil
}
