package bplus

import "testing"

func toks(t *testing.T, src string) []Token {
	t.Helper()
	return NewLexer(src).Scan()
}

func wantTypes(t *testing.T, src string, want ...TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	if len(got) != len(want) {
		t.Fatalf("%q: got %d tokens, want %d\ntokens: %v", src, len(got), len(want), got)
	}
	for i, tt := range want {
		if got[i].Type != tt {
			t.Fatalf("%q: token %d = %s (%q), want %s", src, i, got[i].Type, got[i].Literal, tt)
		}
	}
	return got
}

func TestOperatorsAndDelimiters(t *testing.T) {
	wantTypes(t, "= == ! != < <= > >= + * / % ; , ( )",
		ASSIGN, EQ, BANG, NOTEQ, LT, LTEQ, GT, GTEQ,
		PLUS, ASTERISK, SLASH, PERCENT, SEMICOLON, COMMA, LPAREN, RPAREN, EOF)

	wantTypes(t, "a - b << >> && ||",
		IDENT, MINUS, IDENT, SHL, SHR, EBONG, OTHOBA, EOF)
}

func TestKeywords(t *testing.T) {
	wantTypes(t, "dhoro dhrubok kaj jodi hoy tahole nahoy dekhao jotokhon jonno thamo choluk",
		LET, CONST, FUNCTION, IF, HOY, THEN, ELSE, PRINT, WHILE, FOR, BREAK, CONTINUE, EOF)

	// English spellings resolve to the same token types.
	wantTypes(t, "let const fn if then else return print while for break continue",
		LET, CONST, FUNCTION, IF, THEN, ELSE, RETURN, PRINT, WHILE, FOR, BREAK, CONTINUE, EOF)
}

func TestBooleanLiteralTokens(t *testing.T) {
	wantTypes(t, "ha na true false", HA, NA, HA, NA, EOF)
}

func TestMultiWordKeywords(t *testing.T) {
	got := wantTypes(t, "dhore rakho x = 5", LET, IDENT, ASSIGN, INT, EOF)
	if got[0].Literal != "dhore rakho" {
		t.Fatalf("multi-word literal = %q, want %q", got[0].Literal, "dhore rakho")
	}

	wantTypes(t, "ferot dao 5", RETURN, INT, EOF)
	wantTypes(t, "input nao()", INPUT, LPAREN, RPAREN, EOF)
	wantTypes(t, "na hoy", ELSE, EOF)
}

func TestMultiWordRewind(t *testing.T) {
	// "dhore" alone is no keyword; the failed two-word lookahead must rewind
	// so the following identifier scans from its own first byte.
	got := wantTypes(t, "dhore x = 5", IDENT, IDENT, ASSIGN, INT, EOF)
	if got[0].Literal != "dhore" || got[1].Literal != "x" {
		t.Fatalf("rewind produced %q, %q", got[0].Literal, got[1].Literal)
	}

	// "na" is a keyword by itself; "na x" must not fuse.
	wantTypes(t, "na x", NA, IDENT, EOF)

	// Rewind across a newline keeps positions intact.
	got = wantTypes(t, "dhore\nrakho", LET, EOF)
	if got[0].Line != 1 {
		t.Fatalf("fused keyword line = %d, want 1", got[0].Line)
	}
}

func TestBengaliIdentifiers(t *testing.T) {
	got := wantTypes(t, "dhoro নাম = 5", LET, IDENT, ASSIGN, INT, EOF)
	if got[1].Literal != "নাম" {
		t.Fatalf("bengali ident = %q", got[1].Literal)
	}

	wantTypes(t, "সংখ্যা + মান", IDENT, PLUS, IDENT, EOF)
}

func TestLineComments(t *testing.T) {
	wantTypes(t, "5 // rest\n6", INT, INT, EOF)
	wantTypes(t, "5 # rest\n6", INT, INT, EOF)
	wantTypes(t, "5 -- rest\n6", INT, INT, EOF)
}

func TestBlockComments(t *testing.T) {
	cases := []string{
		"/* a\nb */ 9",
		"{- a -} 9",
		"(* a *) 9",
		"=begin\na\n=end 9",
		`""" a """ 9`,
		"''' a ''' 9",
		// An extra delimiter byte before the closer must still close.
		"/* a **/ 9",
		"{- a --} 9",
		"=begin\na\n==end 9",
	}
	for _, src := range cases {
		wantTypes(t, src, INT, EOF)
	}
}

func TestPreservedComments(t *testing.T) {
	l := NewLexer("5 // tika\n/* bistarito */ 7")
	l.PreserveComments()

	var got []Token
	for {
		tok := l.NextToken()
		got = append(got, tok)
		if tok.Type == EOF {
			break
		}
	}
	want := []TokenType{INT, COMMENT_LINE, COMMENT_BLOCK, INT, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, tt := range want {
		if got[i].Type != tt {
			t.Fatalf("token %d = %s (%q), want %s", i, got[i].Type, got[i].Literal, tt)
		}
	}
	if got[1].Literal != " tika" {
		t.Fatalf("line comment text = %q", got[1].Literal)
	}
	if got[2].Literal != " bistarito " {
		t.Fatalf("block comment text = %q", got[2].Literal)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	got := toks(t, "5 /* never closed")
	if got[1].Type != ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", got[1].Type)
	}
	if got[1].Line != 1 || got[1].Col != 2 {
		t.Fatalf("illegal at %d:%d, want 1:2", got[1].Line, got[1].Col)
	}
}

func TestStrings(t *testing.T) {
	got := wantTypes(t, `"hello bishsho"`, STRING, EOF)
	if got[0].Literal != "hello bishsho" {
		t.Fatalf("literal = %q", got[0].Literal)
	}

	got = wantTypes(t, `"a\tb\nc"`, STRING, EOF)
	if got[0].Literal != "a\tb\nc" {
		t.Fatalf("escapes not decoded: %q", got[0].Literal)
	}

	got = toks(t, `"open`)
	if got[0].Type != ILLEGAL {
		t.Fatalf("unterminated string: got %s", got[0].Type)
	}
}

func TestNumbers(t *testing.T) {
	got := wantTypes(t, "5 42 3.14 2e10 1e-3 4i 2f", INT, INT, FLOAT, FLOAT, FLOAT, FLOAT, FLOAT, EOF)
	if got[2].Literal != "3.14" {
		t.Fatalf("float literal = %q", got[2].Literal)
	}
	if got[5].Literal != "4i" || got[6].Literal != "2f" {
		t.Fatalf("suffix literals = %q, %q", got[5].Literal, got[6].Literal)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	got := toks(t, "5 @ 6")
	if got[1].Type != ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", got[1].Type)
	}
	// The scan keeps going after the bad byte.
	if got[2].Type != INT {
		t.Fatalf("scan stopped after illegal token: %v", got)
	}
}

func TestPositions(t *testing.T) {
	got := toks(t, "dhoro x\nx = 5")
	wants := []struct{ line, col int }{
		{1, 0}, {1, 6},
		{2, 0}, {2, 2}, {2, 4},
	}
	for i, w := range wants {
		if got[i].Line != w.line || got[i].Col != w.col {
			t.Fatalf("token %d at %d:%d, want %d:%d", i, got[i].Line, got[i].Col, w.line, w.col)
		}
	}
}
