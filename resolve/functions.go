package resolve

import (
	"ulang/depm"
	"ulang/syntax"
	"ulang/types"
)

// RegisterFunctions registers the signatures of all the functions declared in
// file.  A function declaration is a type followed by a name and an opening
// parenthesis.  Struct and union bodies behave like namespaces so methods are
// named after their enclosing type: `S.method`.  Every non-extern function is
// given a new code body beginning just past its opening brace.
func (r *Resolver) RegisterFunctions(file *depm.SourceFile) error {
	tr := typeReader{scanner: newScanner(file), mod: r.mod}

	var ns nsStack
	depth := 0
	var flags depm.FunctionFlags

	for t := 0; t < len(tr.toks); t++ {
		tok := tr.toks[t]

		switch tok.Kind {
		case syntax.TOK_SEPARATOR:
			switch tok.Separator() {
			case syntax.SEP_LBRACE:
				depth++
			case syntax.SEP_RBRACE:
				depth--
				ns.pop(depth)
			}
		case syntax.TOK_KEYWORD:
			switch kw := tok.Keyword(); kw {
			case syntax.KW_EXTERN:
				flags |= depm.FuncExtern
			case syntax.KW_COMPT:
				flags |= depm.FuncCompt
			case syntax.KW_NAMESPACE, syntax.KW_STRUCT, syntax.KW_UNION:
				what := map[syntax.Keyword]string{
					syntax.KW_NAMESPACE: "namespace",
					syntax.KW_STRUCT:    "struct",
					syntax.KW_UNION:     "union",
				}[kw]

				// Forward declarations of types open nothing.
				if kw != syntax.KW_NAMESPACE && tr.isIdent(t+1) && tr.isSep(t+2, syntax.SEP_SEMI) {
					t += 2
					break
				}

				var err error
				if t, depth, err = tr.openNamespace(&ns, t+1, depth, what); err != nil {
					return err
				}
			}
		case syntax.TOK_IDENT:
			ret, next, err := tr.read(ns.path(), t, true)
			if err == nil && tr.isIdent(next) && tr.isSep(next+1, syntax.SEP_LPAREN) {
				if t, err = r.registerFunction(tr, ns, ret, next, flags); err != nil {
					return err
				}
			} else if err != nil && err != errNotAType {
				return err
			}

			flags = 0
		}
	}

	return nil
}

// registerFunction registers the function whose name is at t.  It returns the
// index of the closing parenthesis of the parameter list.
func (r *Resolver) registerFunction(tr typeReader, ns nsStack, ret types.TypeRef, t int, flags depm.FunctionFlags) (int, error) {
	fn := &depm.Function{
		Name:   ns.qualify(tr.text(t)),
		Return: ret,
		Origin: depm.Origin{File: tr.file.ID, Token: t},
	}

	// Move past the name and the opening parenthesis.
	t += 2

	if !tr.isSep(t, syntax.SEP_RPAREN) {
		if tok := tr.at(t); tok != nil && tok.IsOp(syntax.OP_STAR) {
			self, err := r.instanceParam(tr, ns, t)
			if err != nil {
				return t, err
			}

			fn.Params = append(fn.Params, self)
			flags |= depm.FuncInstance
			t += 2
		}

		for !tr.isSep(t, syntax.SEP_RPAREN) {
			if tr.at(t) == nil {
				return t, tr.raise(t, "unexpected end of file in parameter list of `%s`", fn.Name)
			}

			if len(fn.Params) > 0 {
				if !tr.isSep(t, syntax.SEP_COMMA) {
					return t, tr.raise(t, "function parameters must be separated by a comma")
				}

				t++
			}

			if tr.isSep(t, syntax.SEP_DOT) {
				if !tr.isSep(t+1, syntax.SEP_DOT) || !tr.isSep(t+2, syntax.SEP_DOT) {
					return t, tr.raise(t, "expected `...`")
				} else if !tr.isSep(t+3, syntax.SEP_RPAREN) {
					return t, tr.raise(t, "variadic arguments must be placed last in the parameter list")
				}

				fn.Params = append(fn.Params, &depm.Param{
					Type: types.TypeRef{Id: types.Variadic},
					Name: depm.VariadicParamName,
				})
				flags |= depm.FuncVariadic
				t += 3
				break
			}

			ptype, next, err := tr.read(ns.path(), t, false)
			if err != nil {
				return next, err
			}

			if !tr.isIdent(next) {
				return next, tr.raise(next, "expected a parameter name")
			}

			fn.Params = append(fn.Params, &depm.Param{Type: ptype, Name: tr.text(next)})
			t = next + 1
		}
	}

	fn.Flags = flags
	if !fn.Has(depm.FuncExtern) {
		if !tr.isSep(t+1, syntax.SEP_LBRACE) {
			return t, tr.raise(t+1, "function `%s` must have a body", fn.Name)
		}

		fn.BodyIndex = r.mod.AddBody(depm.Origin{File: tr.file.ID, Token: t + 2})
	}

	r.mod.Functions = append(r.mod.Functions, fn)
	return t, nil
}

// instanceParam creates the receiver parameter of an instance function: a
// pointer to the struct or union whose body encloses the function.  t is the
// index of the `*` preceding the receiver's name.
func (r *Resolver) instanceParam(tr typeReader, ns nsStack, t int) (*depm.Param, error) {
	self := &depm.Param{Type: types.TypeRef{Indir: 1}}

	owner := ns.path()
	if ndx, ok := r.mod.LookupStruct(owner); ok && owner != "" {
		self.Type.Id = types.UserStruct
		self.Type.StructIndex = uint16(ndx)
	} else if ndx, ok := r.mod.LookupUnion(owner); ok && owner != "" {
		self.Type.Id = types.UserUnion
		self.Type.StructIndex = uint16(ndx)
	} else {
		return nil, tr.raise(t, "instance functions can only exist inside data types (e.g. structs or unions)")
	}

	if !tr.isIdent(t + 1) {
		return nil, tr.raise(t+1, "expected a name for the instance parameter")
	}

	self.Name = tr.text(t + 1)
	return self, nil
}
