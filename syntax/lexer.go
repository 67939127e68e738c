package syntax

import (
	"os"

	"ulang/report"
)

// Lexer is responsible for tokenizing a source file.  The source is split into
// whitespace-delimited chunks and each chunk is either matched as a whole or
// decomposed into the recognizable pieces glued together inside it.
type Lexer struct {
	// The original source text.
	src []byte

	// The source text with all comments blanked out.  It has the same length
	// as src so offsets into it are offsets into the original file.
	buff []byte

	// The current scanning offset into buff.
	pos int

	// The tokens produced so far.
	tokens []*Token
}

// Tokenize converts the source text into its sequence of tokens.  If any part
// of the source cannot be tokenized, no tokens are returned.
func Tokenize(src []byte) ([]*Token, error) {
	l := &Lexer{src: src}
	if err := l.stripComments(); err != nil {
		return nil, err
	}

	for {
		start, end, err := l.nextChunk()
		if err != nil {
			return nil, err
		} else if start == end {
			break
		}

		toks, ok := l.decompose(start, end)
		if !ok {
			return nil, report.RaiseAt(start, end-start, "unknown token: `%s`", string(l.buff[start:end]))
		}

		l.tokens = append(l.tokens, toks...)
	}

	return l.tokens, nil
}

// TokenizeFile reads and tokenizes the source file at path.  The source text
// is returned along with the tokens so that token text can be read back.
func TokenizeFile(path string) ([]byte, []*Token, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	toks, err := Tokenize(src)
	if err != nil {
		return src, nil, err
	}

	return src, toks, nil
}

// -----------------------------------------------------------------------------

// stripComments copies the source text into the lexer's buffer replacing every
// character of every line and block comment, except newlines, with a space.
func (l *Lexer) stripComments() error {
	l.buff = make([]byte, len(l.src))
	copy(l.buff, l.src)

	inString := false
	for i := 0; i < len(l.buff); i++ {
		c := l.buff[i]

		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}

			continue
		}

		switch {
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(l.buff) && l.buff[i+1] == '/':
			for ; i < len(l.buff) && l.buff[i] != '\n'; i++ {
				l.buff[i] = ' '
			}
		case c == '/' && i+1 < len(l.buff) && l.buff[i+1] == '*':
			start := i
			l.buff[i], l.buff[i+1] = ' ', ' '
			i += 2

			for ; ; i++ {
				if i+1 >= len(l.buff) {
					return report.RaiseAt(start, 2, "unclosed block comment")
				}

				if l.buff[i] == '*' && l.buff[i+1] == '/' {
					l.buff[i], l.buff[i+1] = ' ', ' '
					i++
					break
				}

				if l.buff[i] != '\n' {
					l.buff[i] = ' '
				}
			}
		}
	}

	return nil
}

// nextChunk returns the bounds of the next whitespace-delimited chunk.  String
// literals are never split even if they contain whitespace.  An empty chunk
// means the end of the source has been reached.
func (l *Lexer) nextChunk() (int, int, error) {
	for l.pos < len(l.buff) && isWhitespace(l.buff[l.pos]) {
		l.pos++
	}

	start := l.pos
	for l.pos < len(l.buff) && !isWhitespace(l.buff[l.pos]) {
		if l.buff[l.pos] == '"' {
			end := closingQuote(l.buff, l.pos)
			if end == -1 {
				return 0, 0, report.RaiseAt(l.pos, 1, "unclosed string literal")
			}

			l.pos = end
		}

		l.pos++
	}

	return start, l.pos, nil
}

// closingQuote returns the offset of the quote closing the string beginning at
// start or -1 if the string is never closed.
func closingQuote(buff []byte, start int) int {
	for i := start + 1; i < len(buff); i++ {
		switch buff[i] {
		case '\\':
			i++
		case '"':
			return i
		case '\n':
			return -1
		}
	}

	return -1
}

// -----------------------------------------------------------------------------

// decompose tokenizes the chunk buff[start:end].  A chunk that is not itself a
// token is searched for its longest recognizable suffix: first among the exact
// symbol patterns, then identifiers, then literals.  The remaining prefix is
// decomposed recursively.  The boolean is false if no decomposition exists.
func (l *Lexer) decompose(start, end int) ([]*Token, bool) {
	if tok := l.analyze(start, end); tok != nil {
		return []*Token{tok}, true
	}

	inString := stringMask(l.buff[start:end])
	for _, match := range []func(int, int) *Token{l.matchSymbol, l.matchIdent, l.matchLiteral} {
		for p := start + 1; p < end; p++ {
			if inString[p-start] || !l.atBoundary(p) {
				continue
			}

			if tok := match(p, end); tok != nil {
				if head, ok := l.decompose(start, p); ok {
					return append(head, tok), true
				}
			}
		}
	}

	return nil, false
}

// atBoundary returns whether a token may begin at offset p of a chunk.  Word
// tokens (identifiers, keywords and numbers) cannot begin in the middle of
// another word: this keeps suffixed literals like `42i8` and identifiers like
// `xif` whole.
func (l *Lexer) atBoundary(p int) bool {
	return !isIdentChar(l.buff[p]) || !isIdentChar(l.buff[p-1])
}

// stringMask marks every byte of chunk that lies strictly inside a string
// literal, including its closing quote.
func stringMask(chunk []byte) []bool {
	mask := make([]bool, len(chunk))
	for i := 0; i < len(chunk); i++ {
		if chunk[i] == '"' {
			end := closingQuote(chunk, i)
			if end == -1 {
				end = len(chunk) - 1
			}

			for j := i + 1; j <= end; j++ {
				mask[j] = true
			}

			i = end
		}
	}

	return mask
}

// analyze attempts to match the whole of buff[start:end] as a single token.
func (l *Lexer) analyze(start, end int) *Token {
	if tok := l.matchSymbol(start, end); tok != nil {
		return tok
	} else if tok := l.matchIdent(start, end); tok != nil {
		return tok
	}

	return l.matchLiteral(start, end)
}

// matchSymbol matches keywords, operators, separators and word literals.
func (l *Lexer) matchSymbol(start, end int) *Token {
	text := string(l.buff[start:end])

	if kw, ok := keywordPatterns[text]; ok {
		return l.makeToken(TOK_KEYWORD, int(kw), start, end)
	} else if op, ok := operatorPatterns[text]; ok {
		return l.makeToken(TOK_OPERATOR, int(op), start, end)
	} else if sep, ok := separatorPatterns[text]; ok {
		return l.makeToken(TOK_SEPARATOR, int(sep), start, end)
	} else if lit, ok := wordLiteralPatterns[text]; ok {
		return l.makeToken(TOK_LITERAL, int(lit), start, end)
	}

	return nil
}

// matchIdent matches an identifier.
func (l *Lexer) matchIdent(start, end int) *Token {
	text := string(l.buff[start:end])

	if !isIdentifier(text) {
		return nil
	} else if _, ok := keywordPatterns[text]; ok {
		return nil
	} else if _, ok := wordLiteralPatterns[text]; ok {
		return nil
	}

	return l.makeToken(TOK_IDENT, 0, start, end)
}

// matchLiteral matches a number or string literal.
func (l *Lexer) matchLiteral(start, end int) *Token {
	text := string(l.buff[start:end])

	if isNumberLiteral(text) {
		return l.makeToken(TOK_LITERAL, int(LIT_NUMBER), start, end)
	} else if isStringLiteral(text) {
		return l.makeToken(TOK_LITERAL, int(LIT_STRING), start, end)
	}

	return nil
}

// makeToken creates a new token over buff[start:end].
func (l *Lexer) makeToken(kind, value, start, end int) *Token {
	return &Token{Kind: kind, Value: value, Pos: start, Len: end - start}
}

// -----------------------------------------------------------------------------

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return false
}

func isDecimalDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || isDecimalDigit(c) || c == '_' || c == '@'
}

// isIdentifier returns whether text is made only of identifier characters and
// does not begin with a digit.
func isIdentifier(text string) bool {
	if len(text) == 0 || isDecimalDigit(text[0]) {
		return false
	}

	for i := 0; i < len(text); i++ {
		if !isIdentChar(text[i]) {
			return false
		}
	}

	return true
}

// isNumberLiteral returns whether text is a decimal, hexadecimal or binary
// integer, or a decimal float, optionally followed by a precision suffix.  The
// validity of the suffix width is checked when the literal is parsed.
func isNumberLiteral(text string) bool {
	i := 0
	hex, bin := false, false
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			hex, i = true, 2
		case 'b', 'B':
			bin, i = true, 2
		}
	}

	digitsStart := i
	for i < len(text) && isDigitOf(text[i], hex, bin) {
		i++
	}

	if i == digitsStart {
		return false
	}

	if !hex && !bin && i < len(text) && text[i] == '.' {
		i++
		fracStart := i
		for i < len(text) && isDecimalDigit(text[i]) {
			i++
		}

		if i == fracStart {
			return false
		}
	}

	if i == len(text) {
		return true
	}

	switch text[i] {
	case 'i', 'u':
	case 'f':
		if hex || bin {
			return false
		}
	default:
		return false
	}

	for i++; i < len(text); i++ {
		if !isDecimalDigit(text[i]) {
			return false
		}
	}

	return true
}

func isDigitOf(c byte, hex, bin bool) bool {
	switch {
	case hex:
		return isDecimalDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
	case bin:
		return c == '0' || c == '1'
	default:
		return isDecimalDigit(c)
	}
}

// isStringLiteral returns whether text is a single double-quoted string.
func isStringLiteral(text string) bool {
	if len(text) < 2 || text[0] != '"' {
		return false
	}

	return closingQuote([]byte(text), 0) == len(text)-1
}
