// Package walk resolves expressions.  The walker consumes tokens from a cursor
// shared with the code generator, reorders them into postfix form with the
// operator precedence table, classifies every identifier against the module's
// symbol tables and folds unary operators applied to literals.
package walk

import (
	"strings"

	"ulang/depm"
	"ulang/regalloc"
	"ulang/report"
	"ulang/syntax"
	"ulang/types"
)

// Enumeration of the error codes raised by the walker.
const (
	ErrCodeUnknown      = 1
	ErrCodeNotStatement = 200
	ErrCodeNotVariable  = 400
)

// Walker is responsible for resolving the expressions of a single function
// body.
type Walker struct {
	mod  *depm.Module
	file *depm.SourceFile

	// The function whose body is being walked.  This may be nil in which case
	// no parameters are visible.
	fn *depm.Function

	// The register simulation holding the function's locals.
	regs *regalloc.Sim

	// The cursor shared with the caller.
	cursor *syntax.Cursor

	// The operator stack and the postfix output of the token pass.
	working []*Item
	output  []*Item

	// The current parenthesis depth and the depth the expression began at.
	scopeTrack, floor int

	// The item produced by the previous token or nil at the start of an
	// expression or after a comma.
	prev *Item
}

// NewWalker creates a new walker for the body of fn reading from cursor.
func NewWalker(mod *depm.Module, file *depm.SourceFile, fn *depm.Function, regs *regalloc.Sim, cursor *syntax.Cursor) *Walker {
	return &Walker{
		mod:    mod,
		file:   file,
		fn:     fn,
		regs:   regs,
		cursor: cursor,
	}
}

// Walk resolves the expression beginning after the cursor's current token.  It
// stops on the terminating `;` or, when a `)` would close a parenthesis opened
// before the expression began, on that `)`.  The cursor is left on the token
// that stopped the walk.  initialScope is the caller's parenthesis depth.  If
// failOnBadScope is set, stopping on a `)` and ending at a depth other than
// initialScope are both errors.
func (w *Walker) Walk(initialScope int, failOnBadScope bool) ([]*Item, error) {
	w.working = w.working[:0]
	w.output = w.output[:0]
	w.scopeTrack = initialScope
	w.floor = initialScope
	w.prev = nil

	if err := w.scan(failOnBadScope); err != nil {
		return nil, err
	}

	return w.solve()
}

// scan performs the token pass, building the postfix output.
func (w *Walker) scan(failOnBadScope bool) error {
	for w.cursor.Next() {
		tok := w.cursor.Tok()

		switch tok.Kind {
		case syntax.TOK_SEPARATOR:
			switch tok.Separator() {
			case syntax.SEP_SEMI:
				if failOnBadScope && w.scopeTrack != w.floor {
					return w.raise(tok, "unbalanced parentheses in expression")
				}

				w.drain()
				return nil
			case syntax.SEP_LPAREN:
				if w.prev != nil && w.prev.IsOperand() && w.prev.Kind != ITEM_FUNC_CALL {
					return w.raise(tok, "expected an operator before `(`")
				}

				w.prev = w.item(ITEM_SCOPE_BEGIN, tok)
				w.working = append(w.working, w.prev)
				w.scopeTrack++
			case syntax.SEP_RPAREN:
				if w.scopeTrack == w.floor {
					if failOnBadScope {
						return w.raise(tok, "closing parenthesis has no matching open")
					}

					w.drain()
					return nil
				}

				if err := w.closeScope(tok); err != nil {
					return err
				}

				w.scopeTrack--
			case syntax.SEP_DOT:
				if !w.followsIdent() {
					return w.raise(tok, "only variable properties can be accessed")
				}

				w.prev = w.item(ITEM_ACCESSOR, tok)
				w.output = append(w.output, w.prev)
			case syntax.SEP_COMMA:
				if !w.popUntilScope() {
					return w.raise(tok, "unexpected comma outside of an argument list")
				}

				w.prev = nil
			case syntax.SEP_LBRACE, syntax.SEP_RBRACE:
				return w.raiseCode(ErrCodeNotStatement, tok, "a block cannot be used as an expression")
			default:
				return w.raiseCode(ErrCodeUnknown, tok, "unexpected `%s` in expression", w.file.Text(tok))
			}
		case syntax.TOK_OPERATOR:
			if err := w.pushOperator(tok); err != nil {
				return err
			}
		case syntax.TOK_IDENT:
			if err := w.pushIdent(tok); err != nil {
				return err
			}
		case syntax.TOK_LITERAL:
			if err := w.pushLiteral(tok); err != nil {
				return err
			}
		case syntax.TOK_KEYWORD:
			return w.raise(tok, "keyword `%s` cannot be used in an expression", w.file.Text(tok))
		default:
			return w.raiseCode(ErrCodeUnknown, tok, "unknown token `%s`", w.file.Text(tok))
		}
	}

	return w.raiseAtEnd("unexpected end of file in expression")
}

// -----------------------------------------------------------------------------

// pushOperator classifies an operator as unary or binary and pushes it.
func (w *Walker) pushOperator(tok *syntax.Token) error {
	op := tok.Operator()

	switch {
	case op == syntax.OP_INC || op == syntax.OP_DEC:
		// Postfix increments apply to the operand that was just output.
		if w.prev != nil && (w.prev.IsOperand() || w.prev.Kind == ITEM_SCOPE_END) {
			w.prev = w.opItem(ITEM_UNARY_OP, tok)
			w.output = append(w.output, w.prev)
			return nil
		}

		fallthrough
	case isPrefixOnly(op), isUnaryCapable(op) && w.unaryContext():
		w.prev = w.opItem(ITEM_UNARY_OP, tok)
		w.working = append(w.working, w.prev)
		return nil
	}

	if !w.followsIdent() && (w.prev == nil || w.prev.Kind != ITEM_SCOPE_END) {
		return w.raise(tok, "binary operator must follow an identifier")
	}

	prec := precedenceOf(op)
	for top := w.topOperator(); top != nil; top = w.topOperator() {
		topPrec := precedenceOf(top.Op)
		if top.Kind == ITEM_UNARY_OP {
			topPrec = unaryPrecedence
		}

		if topPrec < prec || topPrec == prec && isRightAssoc(op) {
			break
		}

		w.popWorking()
	}

	w.prev = w.opItem(ITEM_BINARY_OP, tok)
	w.working = append(w.working, w.prev)
	return nil
}

// unaryContext returns whether an operator at the current position is unary:
// at the start of an expression, after a comma, after an operator or after an
// opening parenthesis.
func (w *Walker) unaryContext() bool {
	if w.prev == nil {
		return true
	}

	switch w.prev.Kind {
	case ITEM_UNARY_OP, ITEM_BINARY_OP, ITEM_SCOPE_BEGIN:
		return true
	}

	return false
}

// followsIdent returns whether the previous item was a named operand.
func (w *Walker) followsIdent() bool {
	if w.prev == nil {
		return false
	}

	switch w.prev.Kind {
	case ITEM_LOCAL, ITEM_GLOBAL, ITEM_FIELD, ITEM_PARAM, ITEM_TYPE:
		return true
	}

	return false
}

// -----------------------------------------------------------------------------

// pushLiteral outputs a literal, parsing number literals into raw bytes.
func (w *Walker) pushLiteral(tok *syntax.Token) error {
	if w.prev != nil && (w.prev.IsOperand() || w.prev.Kind == ITEM_SCOPE_END) {
		return w.raise(tok, "expected an operator before `%s`", w.file.Text(tok))
	}

	it := w.item(ITEM_LITERAL, tok)
	it.Lit = tok.Literal()
	it.Name = w.file.Text(tok)

	switch it.Lit {
	case syntax.LIT_NUMBER:
		nt, err := syntax.ParseNumber(it.Name, &it.Value)
		if err != nil {
			return w.raise(tok, "%s", err)
		}

		it.NumType = nt
	case syntax.LIT_TRUE:
		it.Value[0] = 1
	}

	w.output = append(w.output, it)
	w.prev = it
	return nil
}

// pushIdent classifies an identifier and pushes it.  An identifier following
// an accessor is always a member.  Otherwise it is tried as a parameter, a
// local, a global, a called function and a type in that order.
func (w *Walker) pushIdent(tok *syntax.Token) error {
	name := w.file.Text(tok)
	next := w.cursor.Peek()
	isCall := next != nil && next.IsSep(syntax.SEP_LPAREN)

	if w.prev != nil && w.prev.Kind == ITEM_ACCESSOR {
		return w.pushMember(tok, name, isCall)
	} else if w.prev != nil && (w.prev.IsOperand() || w.prev.Kind == ITEM_SCOPE_END) {
		return w.raise(tok, "expected an operator before `%s`", name)
	}

	it := w.item(ITEM_LOCAL, tok)
	it.Name = name

	if ndx := w.paramIndex(name); ndx >= 0 {
		it.Kind = ITEM_PARAM
		it.Index = ndx
		it.Type, it.HasType = w.fn.Params[ndx].Type, true
	} else if id, aggregate, ok := w.regs.Lookup(name); ok {
		it.Index = int(id)
		it.Aggregate = aggregate
		it.Type, it.HasType = w.regs.TypeOf(id, aggregate)
	} else if ndx, ok := w.mod.LookupGlobal(name); ok {
		it.Kind = ITEM_GLOBAL
		it.Index = ndx
		it.Type, it.HasType = w.mod.Globals[ndx].Type, true
	} else if ndx, ok := w.lookupFunction(name); ok && isCall {
		return w.pushCall(it, ndx)
	} else if tr, ok := w.lookupType(name); ok {
		it.Kind = ITEM_TYPE
		it.Type, it.HasType = tr, true
	} else {
		return w.raiseCode(ErrCodeNotVariable, tok, "identifier `%s` is not a variable", name)
	}

	w.output = append(w.output, it)
	w.prev = it
	return nil
}

// pushMember resolves an identifier following an accessor.  Members of a type
// name are its functions: `S.f()`.  Members of a struct value are its fields
// or its methods.
func (w *Walker) pushMember(tok *syntax.Token, name string, isCall bool) error {
	// The accessor is always preceded by its base operand.
	base := w.output[len(w.output)-2]

	st := w.mod.UserType(base.Type)
	if st == nil || base.Type.IsVector() {
		return w.raise(tok, "`%s` has no members", base.Name)
	}

	it := w.item(ITEM_FIELD, tok)
	it.Name = name

	if base.Kind == ITEM_TYPE {
		if ndx, ok := w.mod.LookupFunction(st.Name + "." + name); ok && isCall {
			// The type name and the accessor are replaced by the call.
			w.output = w.output[:len(w.output)-2]
			return w.pushCall(it, ndx)
		}

		return w.raise(tok, "type `%s` has no function named `%s`", st.Name, name)
	}

	if ndx := st.FieldIndex(name); ndx >= 0 {
		it.Index = ndx
		it.Type, it.HasType = st.Fields[ndx].Type, true

		w.output = append(w.output, it)
		w.prev = it
		return nil
	}

	if ndx, ok := w.mod.LookupFunction(st.Name + "." + name); ok && isCall {
		return w.pushCall(it, ndx)
	}

	return w.raise(tok, "`%s` has no field named `%s`", st.Name, name)
}

// pushCall pushes a function call onto the working stack.  It stays there
// until the closing parenthesis of its argument list.
func (w *Walker) pushCall(it *Item, ndx int) error {
	fn := w.mod.Functions[ndx]

	it.Kind = ITEM_FUNC_CALL
	it.Name = fn.Name
	it.Index = ndx
	it.Type, it.HasType = fn.Return, true

	w.working = append(w.working, it)
	w.prev = it
	return nil
}

// paramIndex returns the index of the enclosing function's parameter named
// name or -1.
func (w *Walker) paramIndex(name string) int {
	if w.fn == nil {
		return -1
	}

	return w.fn.ParamIndex(name)
}

// lookupFunction looks up a function by name relative to the namespace of the
// enclosing function, innermost first.
func (w *Walker) lookupFunction(name string) (int, bool) {
	for _, candidate := range w.scopedNames(name) {
		if ndx, ok := w.mod.LookupFunction(candidate); ok {
			return ndx, true
		}
	}

	return -1, false
}

// lookupType looks up a builtin or user type by name relative to the namespace
// of the enclosing function.
func (w *Walker) lookupType(name string) (types.TypeRef, bool) {
	if id, ok := types.LookupBuiltin(name); ok {
		return types.TypeRef{Id: id}, true
	}

	for _, candidate := range w.scopedNames(name) {
		if ndx, ok := w.mod.LookupStruct(candidate); ok {
			return types.TypeRef{Id: types.UserStruct, StructIndex: uint16(ndx)}, true
		}

		if ndx, ok := w.mod.LookupUnion(candidate); ok {
			return types.TypeRef{Id: types.UserUnion, StructIndex: uint16(ndx)}, true
		}
	}

	return types.TypeRef{}, false
}

// scopedNames qualifies name by each prefix of the enclosing function's
// namespace, longest first, followed by name itself.
func (w *Walker) scopedNames(name string) []string {
	if w.fn == nil {
		return []string{name}
	}

	var names []string
	scope := w.fn.Name
	for i := strings.LastIndexByte(scope, '.'); i >= 0; i = strings.LastIndexByte(scope, '.') {
		scope = scope[:i]
		names = append(names, scope+"."+name)
	}

	return append(names, name)
}

// -----------------------------------------------------------------------------

// closeScope pops the working stack into the output up to the matching scope
// marker.  A function call waiting on the scope is output after its arguments.
func (w *Walker) closeScope(tok *syntax.Token) error {
	if !w.popUntilScope() {
		return w.raise(tok, "closing parenthesis has no matching open")
	}

	// Discard the scope marker.
	w.working = w.working[:len(w.working)-1]

	if n := len(w.working); n > 0 && w.working[n-1].Kind == ITEM_FUNC_CALL {
		w.popWorking()
	}

	w.prev = w.item(ITEM_SCOPE_END, tok)
	return nil
}

// popUntilScope pops operators into the output until the top of the working
// stack is a scope marker.  It returns false if there is no marker.
func (w *Walker) popUntilScope() bool {
	for n := len(w.working); n > 0; n = len(w.working) {
		if w.working[n-1].Kind == ITEM_SCOPE_BEGIN {
			return true
		}

		w.popWorking()
	}

	return false
}

// drain pops everything left on the working stack into the output.  Unclosed
// scope markers are dropped.
func (w *Walker) drain() {
	for n := len(w.working); n > 0; n = len(w.working) {
		if w.working[n-1].Kind == ITEM_SCOPE_BEGIN {
			w.working = w.working[:n-1]
		} else {
			w.popWorking()
		}
	}
}

// topOperator returns the operator on top of the working stack or nil if the
// top is not an operator.
func (w *Walker) topOperator() *Item {
	if n := len(w.working); n > 0 {
		if top := w.working[n-1]; top.Kind == ITEM_UNARY_OP || top.Kind == ITEM_BINARY_OP {
			return top
		}
	}

	return nil
}

// popWorking moves the top of the working stack to the output.
func (w *Walker) popWorking() {
	n := len(w.working)
	w.output = append(w.output, w.working[n-1])
	w.working = w.working[:n-1]
}

// -----------------------------------------------------------------------------

func (w *Walker) item(kind ItemKind, tok *syntax.Token) *Item {
	return &Item{Kind: kind, Pos: tok.Pos, Len: tok.Len}
}

func (w *Walker) opItem(kind ItemKind, tok *syntax.Token) *Item {
	it := w.item(kind, tok)
	it.Op = tok.Operator()
	return it
}

func (w *Walker) raise(tok *syntax.Token, msg string, args ...interface{}) error {
	return report.RaiseAt(tok.Pos, tok.Len, msg, args...)
}

func (w *Walker) raiseCode(code int, tok *syntax.Token, msg string, args ...interface{}) error {
	return report.RaiseCode(code, tok.Pos, tok.Len, msg, args...)
}

// raiseAtEnd raises an error at the end of the source file.
func (w *Walker) raiseAtEnd(msg string) error {
	return report.RaiseAt(len(w.file.Src), 0, msg)
}
