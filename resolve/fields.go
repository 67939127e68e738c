package resolve

import (
	"ulang/depm"
	"ulang/syntax"
)

// ImplementSymbols resolves the fields of every registered struct and then
// every registered union.
func (r *Resolver) ImplementSymbols() error {
	for _, group := range [][]*depm.Struct{r.mod.Structs, r.mod.Unions} {
		for _, st := range group {
			file := r.mod.Files[st.Origin.File]
			if err := r.implementFields(file, st); err != nil {
				return &depm.FileError{File: file, Err: err}
			}
		}
	}

	return nil
}

// implementFields resolves the fields declared between the braces directly
// following the name of st.  Methods declared in the body are skipped.
func (r *Resolver) implementFields(file *depm.SourceFile, st *depm.Struct) error {
	tr := typeReader{scanner: newScanner(file), mod: r.mod}
	st.Fields = st.Fields[:0]

	t := st.Origin.Token + 2
	if !tr.isSep(t, syntax.SEP_LBRACE) {
		return tr.raise(t, "expected a body for `%s`", st.Name)
	}

	for t++; ; {
		// Skip member modifiers and empty declarations.
		for tok := tr.at(t); tok != nil && (tok.Kind == syntax.TOK_KEYWORD || tok.IsSep(syntax.SEP_SEMI)); tok = tr.at(t) {
			t++
		}

		tok := tr.at(t)
		if tok == nil {
			return tr.raise(t, "unexpected end of file in body of `%s`", st.Name)
		} else if tok.IsSep(syntax.SEP_RBRACE) {
			return nil
		}

		field := &depm.Field{Origin: depm.Origin{File: file.ID, Token: t}}

		var err error
		if field.Type, t, err = tr.read(st.Name, t, false); err != nil {
			return err
		}

		if !tr.isIdent(t) {
			return tr.raise(t, "type member must be defined as its type immediately followed by its name")
		}

		field.Name = tr.text(t)
		t++

		switch {
		case tr.isSep(t, syntax.SEP_SEMI):
			st.Fields = append(st.Fields, field)
			t++
		case tr.isSep(t, syntax.SEP_LPAREN):
			if t, err = tr.skipBody(t); err != nil {
				return err
			}
		default:
			return tr.raise(t, "expected `;` after member `%s`", field.Name)
		}
	}
}

// skipBody skips from t past the brace-balanced body that follows.  It returns
// the index of the token after the closing brace.
func (s *scanner) skipBody(t int) (int, error) {
	open := s.nextSep(t, syntax.SEP_LBRACE)
	if open == -1 {
		return t, s.raise(t, "expected a method body")
	}

	depth := 1
	for t = open + 1; depth > 0; t++ {
		tok := s.at(t)
		if tok == nil {
			return t, s.raise(open, "unclosed method body")
		}

		switch tok.Separator() {
		case syntax.SEP_LBRACE:
			depth++
		case syntax.SEP_RBRACE:
			depth--
		}
	}

	return t, nil
}
