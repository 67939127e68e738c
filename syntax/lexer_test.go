package syntax

import (
	"testing"

	"ulang/report"
)

// tokenSummary is a comparable digest of a token.
type tokenSummary struct {
	Kind, Value int
	Text        string
}

func summarize(src string, toks []*Token) []tokenSummary {
	var sums []tokenSummary
	for _, tok := range toks {
		sums = append(sums, tokenSummary{tok.Kind, tok.Value, tok.Text([]byte(src))})
	}

	return sums
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []tokenSummary
	}{
		{
			name: "function",
			src:  "i32 main() { return 0; }",
			want: []tokenSummary{
				{TOK_IDENT, 0, "i32"},
				{TOK_IDENT, 0, "main"},
				{TOK_SEPARATOR, int(SEP_LPAREN), "("},
				{TOK_SEPARATOR, int(SEP_RPAREN), ")"},
				{TOK_SEPARATOR, int(SEP_LBRACE), "{"},
				{TOK_KEYWORD, int(KW_RETURN), "return"},
				{TOK_LITERAL, int(LIT_NUMBER), "0"},
				{TOK_SEPARATOR, int(SEP_SEMI), ";"},
				{TOK_SEPARATOR, int(SEP_RBRACE), "}"},
			},
		},
		{
			name: "parameters",
			src:  "i32 add(i32 a, i32 b) { return a + b; }",
			want: []tokenSummary{
				{TOK_IDENT, 0, "i32"},
				{TOK_IDENT, 0, "add"},
				{TOK_SEPARATOR, int(SEP_LPAREN), "("},
				{TOK_IDENT, 0, "i32"},
				{TOK_IDENT, 0, "a"},
				{TOK_SEPARATOR, int(SEP_COMMA), ","},
				{TOK_IDENT, 0, "i32"},
				{TOK_IDENT, 0, "b"},
				{TOK_SEPARATOR, int(SEP_RPAREN), ")"},
				{TOK_SEPARATOR, int(SEP_LBRACE), "{"},
				{TOK_KEYWORD, int(KW_RETURN), "return"},
				{TOK_IDENT, 0, "a"},
				{TOK_OPERATOR, int(OP_PLUS), "+"},
				{TOK_IDENT, 0, "b"},
				{TOK_SEPARATOR, int(SEP_SEMI), ";"},
				{TOK_SEPARATOR, int(SEP_RBRACE), "}"},
			},
		},
		{
			name: "glued operators",
			src:  "x+=y<<=2;",
			want: []tokenSummary{
				{TOK_IDENT, 0, "x"},
				{TOK_OPERATOR, int(OP_PLUS_EQ), "+="},
				{TOK_IDENT, 0, "y"},
				{TOK_OPERATOR, int(OP_SHL_EQ), "<<="},
				{TOK_LITERAL, int(LIT_NUMBER), "2"},
				{TOK_SEPARATOR, int(SEP_SEMI), ";"},
			},
		},
		{
			name: "suffixed literal",
			src:  "return -42i8;",
			want: []tokenSummary{
				{TOK_KEYWORD, int(KW_RETURN), "return"},
				{TOK_OPERATOR, int(OP_MINUS), "-"},
				{TOK_LITERAL, int(LIT_NUMBER), "42i8"},
				{TOK_SEPARATOR, int(SEP_SEMI), ";"},
			},
		},
		{
			name: "word literals",
			src:  "true false null",
			want: []tokenSummary{
				{TOK_LITERAL, int(LIT_TRUE), "true"},
				{TOK_LITERAL, int(LIT_FALSE), "false"},
				{TOK_LITERAL, int(LIT_NULL), "null"},
			},
		},
		{
			name: "string with spaces",
			src:  `f("a b; c");`,
			want: []tokenSummary{
				{TOK_IDENT, 0, "f"},
				{TOK_SEPARATOR, int(SEP_LPAREN), "("},
				{TOK_LITERAL, int(LIT_STRING), `"a b; c"`},
				{TOK_SEPARATOR, int(SEP_RPAREN), ")"},
				{TOK_SEPARATOR, int(SEP_SEMI), ";"},
			},
		},
		{
			name: "comments",
			src:  "a // line\n/* block\n */ b",
			want: []tokenSummary{
				{TOK_IDENT, 0, "a"},
				{TOK_IDENT, 0, "b"},
			},
		},
		{
			name: "keyword prefix stays an identifier",
			src:  "ifx",
			want: []tokenSummary{
				{TOK_IDENT, 0, "ifx"},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			toks, err := Tokenize([]byte(test.src))
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			got := summarize(test.src, toks)
			if len(got) != len(test.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(test.want), test.want)
			}

			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestTokenOffsetsSurviveComments(t *testing.T) {
	src := "/* x */ abc"
	toks, err := Tokenize([]byte(src))
	if err != nil {
		t.Fatal(err)
	}

	if len(toks) != 1 || toks[0].Pos != 8 || toks[0].Len != 3 {
		t.Fatalf("got %+v, want a single token at 8 of length 3", toks[0])
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  int
	}{
		{"unknown character", "a $ b", 2},
		{"unclosed string", `x = "abc`, 4},
		{"unclosed comment", "a /* b", 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			toks, err := Tokenize([]byte(test.src))
			if err == nil {
				t.Fatalf("expected an error, got tokens %v", summarize(test.src, toks))
			}

			lce, ok := err.(*report.LocalCompileError)
			if !ok {
				t.Fatalf("expected a local compile error, got %T", err)
			}

			if lce.Offset != test.pos {
				t.Errorf("error at offset %d, want %d", lce.Offset, test.pos)
			}

			if toks != nil {
				t.Errorf("expected no tokens on failure")
			}
		})
	}
}

func TestCursor(t *testing.T) {
	toks, err := Tokenize([]byte("a b c"))
	if err != nil {
		t.Fatal(err)
	}

	c := NewCursor(toks, 1)
	if c.Tok() != toks[0] {
		t.Fatalf("cursor should start just before its first token")
	}

	if !c.Next() || c.Tok() != toks[1] || c.Peek() != toks[2] {
		t.Fatalf("cursor did not advance onto the start token")
	}

	if !c.Next() || c.Next() {
		t.Fatalf("cursor should run out after the last token")
	}

	if !c.Done() || c.Tok() != nil || c.Peek() != nil {
		t.Fatalf("exhausted cursor should have no tokens")
	}
}
