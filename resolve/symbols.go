package resolve

import (
	"ulang/depm"
	"ulang/syntax"
)

// RegisterSymbols registers the names of all the structs and unions declared
// in file.  Their fields are not resolved until ImplementSymbols.
func (r *Resolver) RegisterSymbols(file *depm.SourceFile) error {
	s := newScanner(file)

	var ns nsStack
	depth := 0
	external := false

	for t := 0; t < len(s.toks); t++ {
		tok := s.toks[t]

		switch tok.Kind {
		case syntax.TOK_SEPARATOR:
			switch tok.Separator() {
			case syntax.SEP_LBRACE:
				depth++
				external = false
			case syntax.SEP_RBRACE:
				depth--
				ns.pop(depth)
				external = false
			case syntax.SEP_SEMI:
				external = false
			}
		case syntax.TOK_KEYWORD:
			switch kw := tok.Keyword(); kw {
			case syntax.KW_NAMESPACE:
				var err error
				if t, depth, err = s.openNamespace(&ns, t+1, depth, "namespace"); err != nil {
					return err
				}
			case syntax.KW_EXTERN:
				external = true
			case syntax.KW_STRUCT, syntax.KW_UNION:
				what := "struct"
				if kw == syntax.KW_UNION {
					what = "union"
				}

				if external {
					return s.raise(t, "%s cannot be marked as `extern`", what)
				}

				if !s.isIdent(t + 1) {
					return s.raise(t+1, "expected a name after `%s`", what)
				}

				// Forward declarations name no body to register.
				if s.isSep(t+2, syntax.SEP_SEMI) {
					t += 2
					break
				}

				entry := &depm.Struct{
					Name:   ns.qualify(s.text(t + 1)),
					Origin: depm.Origin{File: file.ID, Token: t},
				}

				if kw == syntax.KW_STRUCT {
					r.mod.Structs = append(r.mod.Structs, entry)
				} else {
					r.mod.Unions = append(r.mod.Unions, entry)
				}

				t++
			}
		}
	}

	return nil
}
