package syntax

// Cursor is a position in a token stream shared between nested parsers.  A
// callee may consume zero or more tokens and the caller resumes from wherever
// the callee left the cursor.
type Cursor struct {
	tokens []*Token
	ndx    int
}

// NewCursor creates a cursor positioned just before tokens[start]: the first
// call to Next moves it onto tokens[start].
func NewCursor(tokens []*Token, start int) *Cursor {
	return &Cursor{tokens: tokens, ndx: start - 1}
}

// Next advances the cursor and returns whether it is on a token.
func (c *Cursor) Next() bool {
	if c.ndx < len(c.tokens) {
		c.ndx++
	}

	return c.ndx < len(c.tokens)
}

// Tok returns the current token or nil if the cursor is not on a token.
func (c *Cursor) Tok() *Token {
	if c.ndx < 0 || c.ndx >= len(c.tokens) {
		return nil
	}

	return c.tokens[c.ndx]
}

// Peek returns the token after the current token or nil if there is none.
func (c *Cursor) Peek() *Token {
	if c.ndx+1 < 0 || c.ndx+1 >= len(c.tokens) {
		return nil
	}

	return c.tokens[c.ndx+1]
}

// Index returns the index of the current token.
func (c *Cursor) Index() int {
	return c.ndx
}

// Done returns whether the cursor has moved past the last token.
func (c *Cursor) Done() bool {
	return c.ndx >= len(c.tokens)
}
