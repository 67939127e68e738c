// Package codegen generates the bytecode of function bodies.  Each body is
// walked statement by statement by a small state machine which hands
// expressions to the walker and encodes the results.
package codegen

import (
	"ulang/depm"
	"ulang/ir"
	"ulang/regalloc"
	"ulang/report"
	"ulang/syntax"
	"ulang/walk"
)

// State is the statement the generator is currently in.
type State int

// Enumeration of generator states.
const (
	STATE_NONE State = iota

	// STATE_VAR is reserved for variable declarations.  No statement enters
	// it yet.
	STATE_VAR

	STATE_RETURN
	STATE_IF
)

var stateNames = [...]string{"none", "var", "return", "if"}

func (s State) String() string {
	return stateNames[s]
}

// Generator is responsible for generating the bodies of a module's functions.
type Generator struct {
	mod *depm.Module

	// The register simulation shared by every body.  It is reset before each
	// body since registers are function-local.
	regs *regalloc.Sim

	// The builder shared by every body.
	b *ir.Builder

	// The body currently being generated.
	fn     *depm.Function
	file   *depm.SourceFile
	cursor *syntax.Cursor
	walker *walk.Walker

	// The current statement and the brace depth within the body.
	state State
	scope int
}

// NewGenerator creates a new generator for mod.
func NewGenerator(mod *depm.Module) *Generator {
	return &Generator{
		mod:  mod,
		regs: regalloc.NewSim(),
		b:    ir.NewBuilder(),
	}
}

// Generate generates the bodies of every non-extern function in the module.
// The returned error is a *depm.FileError identifying the offending file.
func (g *Generator) Generate() error {
	for _, fn := range g.mod.Functions {
		if fn.Has(depm.FuncExtern) {
			continue
		}

		if err := g.GenerateBody(fn); err != nil {
			return &depm.FileError{File: g.mod.Files[g.mod.Bodies[fn.BodyIndex].Origin.File], Err: err}
		}
	}

	return nil
}

// GenerateBody generates the body of fn and stores it in the module.
// Generation of a body is all or nothing: on error the body is left empty.
func (g *Generator) GenerateBody(fn *depm.Function) error {
	body := g.mod.Bodies[fn.BodyIndex]

	g.fn = fn
	g.file = g.mod.Files[body.Origin.File]
	g.cursor = syntax.NewCursor(g.file.Tokens, body.Origin.Token)
	g.walker = walk.NewWalker(g.mod, g.file, fn, g.regs, g.cursor)
	g.state = STATE_NONE
	g.scope = 0

	g.regs.Reset()
	g.b.Reset()

	if err := g.run(); err != nil {
		return err
	}

	if err := g.b.Err(); err != nil {
		return g.raise(g.file.Tokens[fn.Origin.Token], "%s", err)
	}

	body.Code = append([]byte(nil), g.b.Bytes()...)

	report.Logger().Debug("generated body", "function", fn.Name, "bytes", len(body.Code))
	return nil
}

// run drives the state machine until the body's closing brace or the end of
// the token stream.
func (g *Generator) run() error {
	for g.cursor.Next() {
		done, err := g.step(g.cursor.Tok())
		if err != nil {
			return err
		} else if done {
			return nil
		}
	}

	if g.state != STATE_NONE {
		return report.RaiseAt(len(g.file.Src), 0, "exiting body with invalid compiler state (%s)", g.state)
	}

	return nil
}

// step processes the token under the cursor.  It returns true when the body
// has been closed.
func (g *Generator) step(tok *syntax.Token) (bool, error) {
	if g.state == STATE_NONE {
		return g.stepNone(tok)
	}

	return false, g.raise(tok, "exiting body with invalid compiler state (%s)", g.state)
}

// stepNone handles a token between statements.
func (g *Generator) stepNone(tok *syntax.Token) (bool, error) {
	switch tok.Kind {
	case syntax.TOK_KEYWORD:
		switch tok.Keyword() {
		case syntax.KW_RETURN:
			g.state = STATE_RETURN
			return false, g.genReturn()
		case syntax.KW_IF:
			g.state = STATE_IF
			return false, g.genIf()
		}
	case syntax.TOK_LITERAL:
		return false, g.raise(tok, "literal must be part of an expression")
	case syntax.TOK_SEPARATOR:
		switch tok.Separator() {
		case syntax.SEP_SEMI:
		case syntax.SEP_RBRACE:
			g.scope--
			return g.scope < 0, nil
		default:
			return false, g.raise(tok, "invalid separator token `%s`", g.file.Text(tok))
		}
	}

	return false, nil
}

func (g *Generator) raise(tok *syntax.Token, msg string, args ...interface{}) error {
	return report.RaiseAt(tok.Pos, tok.Len, msg, args...)
}
