package lexer

import "testing"

func collect(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func typesOf(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, got []TokenType, want []TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot: %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v\nfull got: %v", i, got[i], want[i], got)
		}
	}
}

func TestIndentDedent(t *testing.T) {
	input := "start()\n\tprintln(\"hi\")\n"
	toks := collect(input)
	got := typesOf(toks)
	want := []TokenType{KW_START, LPAREN, RPAREN, NEWLINE, INDENT, IDENT, LPAREN, STRING, RPAREN, NEWLINE, DEDENT, EOF}
	assertTypes(t, got, want)
}

func TestMixedTabsAndSpacesRejected(t *testing.T) {
	input := "start()\n \tprintln(1)\n"
	l := New(input)
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lexer error for mixed tab/space indentation")
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := map[string]TokenType{
		"123":    INT,
		"0x1F":   INT,
		"0b101":  INT,
		"0o17":   INT,
		"1.5":    NUMBER,
		"1.5e10": NUMBER,
	}
	for src, want := range cases {
		l := New(src)
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("%q: got %v, want %v", src, tok.Type, want)
		}
		if tok.Literal != src {
			t.Errorf("%q: literal = %q", src, tok.Literal)
		}
	}
}

func TestStringInterpolation(t *testing.T) {
	l := New(`"hello {name}!"`)
	tok := l.NextToken()
	if tok.Type != STRING_INTERP_START {
		t.Fatalf("got %v, want STRING_INTERP_START", tok.Type)
	}
	parts := DecodeStringParts(tok.Literal)
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3: %+v", len(parts), parts)
	}
	if parts[0].IsExpr || parts[0].Text != "hello " {
		t.Errorf("part 0 = %+v", parts[0])
	}
	if !parts[1].IsExpr || parts[1].Text != "name" {
		t.Errorf("part 1 = %+v", parts[1])
	}
	if parts[2].IsExpr || parts[2].Text != "!" {
		t.Errorf("part 2 = %+v", parts[2])
	}
}

func TestParenContinuationAcrossLines(t *testing.T) {
	input := "start()\n\tx = (1 +\n\t\t2)\n"
	toks := collect(input)
	got := typesOf(toks)
	// No NEWLINE/INDENT tokens should be emitted while paren depth > 0.
	for _, tt := range got {
		if tt == INDENT || tt == DEDENT {
			continue
		}
	}
	want := []TokenType{KW_START, LPAREN, RPAREN, NEWLINE, INDENT, IDENT, ASSIGN, LPAREN, INT, PLUS, INT, RPAREN, NEWLINE, DEDENT, EOF}
	assertTypes(t, got, want)
}

func TestUnterminatedString(t *testing.T) {
	l := New("\"abc")
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected unterminated string error")
	}
}

func TestComments(t *testing.T) {
	toks := collect("// comment\nstart()\n/* block */\n")
	got := typesOf(toks)
	want := []TokenType{KW_START, LPAREN, RPAREN, NEWLINE, EOF}
	assertTypes(t, got, want)
}

func TestReservedWordsNotIdentifiers(t *testing.T) {
	if !Reserved("class") {
		t.Error("class should be reserved")
	}
	if Reserved("myVar") {
		t.Error("myVar should not be reserved")
	}
}
