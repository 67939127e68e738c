package syntax

// Token represents a single lexical token.  Tokens do not store their text:
// they store the absolute byte offset and length of the text in the original
// source file so the text can be re-read lazily.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The kind-specific payload: a Keyword, Operator, Separator or LiteralKind
	// depending on Kind.  Use the typed accessors rather than reading this
	// directly.
	Value int

	// The byte offset and byte length of the token in the source file.
	Pos, Len int
}

// Enumeration of token kinds.
const (
	TOK_UNKNOWN = iota
	TOK_IDENT
	TOK_KEYWORD
	TOK_SEPARATOR
	TOK_OPERATOR
	TOK_LITERAL
	TOK_COMMENT
)

// Text returns the source text of the token.
func (t *Token) Text(src []byte) string {
	return string(src[t.Pos : t.Pos+t.Len])
}

// Keyword returns the token's keyword or KW_NONE if it is not a keyword.
func (t *Token) Keyword() Keyword {
	if t.Kind != TOK_KEYWORD {
		return KW_NONE
	}

	return Keyword(t.Value)
}

// Operator returns the token's operator or OP_NONE if it is not an operator.
func (t *Token) Operator() Operator {
	if t.Kind != TOK_OPERATOR {
		return OP_NONE
	}

	return Operator(t.Value)
}

// Separator returns the token's separator or SEP_NONE if it is not a
// separator.
func (t *Token) Separator() Separator {
	if t.Kind != TOK_SEPARATOR {
		return SEP_NONE
	}

	return Separator(t.Value)
}

// Literal returns the token's literal kind or LIT_NONE if it is not a literal.
func (t *Token) Literal() LiteralKind {
	if t.Kind != TOK_LITERAL {
		return LIT_NONE
	}

	return LiteralKind(t.Value)
}

// IsSep returns whether the token is the given separator.
func (t *Token) IsSep(sep Separator) bool {
	return t.Separator() == sep
}

// IsOp returns whether the token is the given operator.
func (t *Token) IsOp(op Operator) bool {
	return t.Operator() == op
}

// -----------------------------------------------------------------------------

// Keyword enumerates the reserved words.
type Keyword int

// Enumeration of keywords.  KW_NONE is the "not a keyword" sentinel.
const (
	KW_NONE Keyword = iota
	KW_PUBLIC
	KW_PRIVATE
	KW_PROTECTED
	KW_INTERNAL
	KW_NEW
	KW_DROP
	KW_IF
	KW_ELSE
	KW_MATCH
	KW_WHILE
	KW_RETURN
	KW_CONTINUE
	KW_BREAK
	KW_STRUCT
	KW_INTERFACE
	KW_UNION
	KW_ENUM
	KW_IMPL
	KW_NAMESPACE
	KW_USING
	KW_EXTERN
	KW_CONST
	KW_COMPT
)

// Operator enumerates the operator symbols.
type Operator int

// Enumeration of operators.  OP_NONE is the "not an operator" sentinel.
const (
	OP_NONE Operator = iota
	OP_PLUS
	OP_MINUS
	OP_STAR
	OP_SLASH
	OP_SHL
	OP_SHR
	OP_BWAND
	OP_BWOR
	OP_BWXOR
	OP_COMPL
	OP_LAND
	OP_LOR
	OP_LXOR
	OP_INC
	OP_DEC
	OP_PLUS_EQ
	OP_MINUS_EQ
	OP_STAR_EQ
	OP_SLASH_EQ
	OP_SHL_EQ
	OP_SHR_EQ
	OP_BWAND_EQ
	OP_BWOR_EQ
	OP_BWXOR_EQ
	OP_COMPL_EQ
	OP_LAND_EQ
	OP_LOR_EQ
	OP_LXOR_EQ
	OP_LT
	OP_GT
	OP_NOT
	OP_ASSIGN
	OP_LTEQ
	OP_GTEQ
	OP_NEQ
	OP_EQ
	OP_OPTION
	OP_OPTION_ELSE
	OP_OPTION_EQ
)

// Separator enumerates the punctuation symbols.
type Separator int

// Enumeration of separators.  SEP_NONE is the "not a separator" sentinel.
const (
	SEP_NONE Separator = iota
	SEP_LBRACE
	SEP_RBRACE
	SEP_LBRACKET
	SEP_RBRACKET
	SEP_LPAREN
	SEP_RPAREN
	SEP_SEMI
	SEP_COLON
	SEP_COMMA
	SEP_DOT
)

// LiteralKind enumerates the kinds of literal.
type LiteralKind int

// Enumeration of literal kinds.  LIT_NONE is the "not a literal" sentinel.
const (
	LIT_NONE LiteralKind = iota
	LIT_TRUE
	LIT_FALSE
	LIT_NULL
	LIT_NUMBER
	LIT_STRING
)

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings to their keyword.
var keywordPatterns = map[string]Keyword{
	"public":    KW_PUBLIC,
	"private":   KW_PRIVATE,
	"protected": KW_PROTECTED,
	"internal":  KW_INTERNAL,
	"new":       KW_NEW,
	"drop":      KW_DROP,
	"if":        KW_IF,
	"else":      KW_ELSE,
	"match":     KW_MATCH,
	"while":     KW_WHILE,
	"return":    KW_RETURN,
	"continue":  KW_CONTINUE,
	"break":     KW_BREAK,
	"struct":    KW_STRUCT,
	"interface": KW_INTERFACE,
	"union":     KW_UNION,
	"enum":      KW_ENUM,
	"impl":      KW_IMPL,
	"namespace": KW_NAMESPACE,
	"using":     KW_USING,
	"extern":    KW_EXTERN,
	"const":     KW_CONST,
	"compt":     KW_COMPT,
}

// operatorPatterns maps operator strings to their operator.
var operatorPatterns = map[string]Operator{
	"+":   OP_PLUS,
	"-":   OP_MINUS,
	"*":   OP_STAR,
	"/":   OP_SLASH,
	"<<":  OP_SHL,
	">>":  OP_SHR,
	"&":   OP_BWAND,
	"|":   OP_BWOR,
	"^":   OP_BWXOR,
	"~":   OP_COMPL,
	"&&":  OP_LAND,
	"||":  OP_LOR,
	"^^":  OP_LXOR,
	"++":  OP_INC,
	"--":  OP_DEC,
	"+=":  OP_PLUS_EQ,
	"-=":  OP_MINUS_EQ,
	"*=":  OP_STAR_EQ,
	"/=":  OP_SLASH_EQ,
	"<<=": OP_SHL_EQ,
	">>=": OP_SHR_EQ,
	"&=":  OP_BWAND_EQ,
	"|=":  OP_BWOR_EQ,
	"^=":  OP_BWXOR_EQ,
	"~=":  OP_COMPL_EQ,
	"&&=": OP_LAND_EQ,
	"||=": OP_LOR_EQ,
	"^^=": OP_LXOR_EQ,
	"<":   OP_LT,
	">":   OP_GT,
	"!":   OP_NOT,
	"=":   OP_ASSIGN,
	"<=":  OP_LTEQ,
	">=":  OP_GTEQ,
	"!=":  OP_NEQ,
	"==":  OP_EQ,
	"?":   OP_OPTION,
	"??":  OP_OPTION_ELSE,
	"??=": OP_OPTION_EQ,
}

// separatorPatterns maps separator characters to their separator.
var separatorPatterns = map[string]Separator{
	"{": SEP_LBRACE,
	"}": SEP_RBRACE,
	"[": SEP_LBRACKET,
	"]": SEP_RBRACKET,
	"(": SEP_LPAREN,
	")": SEP_RPAREN,
	";": SEP_SEMI,
	":": SEP_COLON,
	",": SEP_COMMA,
	".": SEP_DOT,
}

// wordLiteralPatterns maps the word literals to their literal kind.
var wordLiteralPatterns = map[string]LiteralKind{
	"true":  LIT_TRUE,
	"false": LIT_FALSE,
	"null":  LIT_NULL,
}

// operatorNames maps operators back to their source text for diagnostics.
var operatorNames = func() map[Operator]string {
	m := make(map[Operator]string, len(operatorPatterns))
	for s, op := range operatorPatterns {
		m[op] = s
	}
	return m
}()

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}

	return "<no operator>"
}
