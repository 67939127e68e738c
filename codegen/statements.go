package codegen

import (
	"ulang/syntax"
	"ulang/walk"
)

// genReturn generates a return statement.  The cursor is on the `return`
// keyword.  A single literal result is stored as the return value before
// returning.  Any other result only returns.
func (g *Generator) genReturn() error {
	items, err := g.walker.Walk(0, true)
	if err != nil {
		return err
	}

	if len(items) == 1 && items[0].Kind == walk.ITEM_LITERAL {
		if imm, ok := items[0].Immediate(); ok {
			g.b.StRetI(imm)
		}
	}

	g.b.Ret()
	g.state = STATE_NONE
	return nil
}

// genIf generates the head of an if statement.  The cursor is on the `if`
// keyword.  The condition is walked up to its closing parenthesis and a branch
// over the body is emitted.  Branch targets are not yet patched: the branch
// always names label 0.
func (g *Generator) genIf() error {
	if !g.cursor.Next() {
		return nil
	}

	if tok := g.cursor.Tok(); !tok.IsSep(syntax.SEP_LPAREN) {
		return g.raise(tok, "expected `(` after `if`")
	}

	// The condition's opening parenthesis is already consumed so the walk
	// stops on the matching close.
	if _, err := g.walker.Walk(0, false); err != nil {
		return err
	}

	if tok := g.cursor.Tok(); !tok.IsSep(syntax.SEP_RPAREN) {
		return g.raise(tok, "expected `)` to close the condition of `if`")
	}

	g.b.BnI(0, 0, []byte{0})

	if !g.cursor.Next() {
		return nil
	}

	if tok := g.cursor.Tok(); !tok.IsSep(syntax.SEP_LBRACE) {
		return g.raise(tok, "expected `{` to begin the body of `if`")
	}

	g.scope++
	g.state = STATE_NONE
	return nil
}
