package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		typ      TokenType
		expected string
	}{
		{TOKEN_EOF, "EOF"},
		{TOKEN_IDENT, "IDENT"},
		{TOKEN_COMPONENT, "component"},
		{TOKEN_ARROW, "=>"},
		{TOKEN_CLOSE_TAG, "</"},
		{TOKEN_SELF_CLOSE, "/>"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.expected {
			t.Errorf("TokenType.String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestTokenizeEmptySource(t *testing.T) {
	tokens := mustTokenize(t, "")

	if len(tokens) != 1 {
		t.Fatalf("Expected exactly 1 token, got %d", len(tokens))
	}
	if tokens[0].Type != TOKEN_EOF {
		t.Errorf("Expected EOF, got %v", tokens[0].Type)
	}
}

func TestTokenizeKeywordsAndIdentifiers(t *testing.T) {
	tokens := mustTokenize(t, "component state render counter renderer")

	expected := []TokenType{
		TOKEN_COMPONENT,
		TOKEN_STATE,
		TOKEN_RENDER,
		TOKEN_IDENT, // counter
		TOKEN_IDENT, // renderer is not a keyword
		TOKEN_EOF,
	}
	assertTokenTypes(t, tokens, expected)

	if tokens[4].Text != "renderer" {
		t.Errorf("Expected maximal munch 'renderer', got %q", tokens[4].Text)
	}
}

func TestTokenizeCompoundOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"==", TOKEN_EQ},
		{"=>", TOKEN_ARROW},
		{"=", TOKEN_ASSIGN},
		{"!=", TOKEN_NEQ},
		{"!", TOKEN_BANG},
		{"<=", TOKEN_LTE},
		{"</", TOKEN_CLOSE_TAG},
		{"<", TOKEN_LT},
		{">=", TOKEN_GTE},
		{">", TOKEN_GT},
		{"+=", TOKEN_PLUS_ASSIGN},
		{"++", TOKEN_INCREMENT},
		{"+", TOKEN_PLUS},
		{"-=", TOKEN_MINUS_ASSIGN},
		{"--", TOKEN_DECREMENT},
		{"-", TOKEN_MINUS},
		{"*=", TOKEN_STAR_ASSIGN},
		{"*", TOKEN_STAR},
		{"/=", TOKEN_SLASH_ASSIGN},
		{"/>", TOKEN_SELF_CLOSE},
		{"/", TOKEN_SLASH},
		{"&&", TOKEN_AND},
		{"||", TOKEN_OR},
		{"%", TOKEN_PERCENT},
	}

	for _, tt := range tests {
		tokens := mustTokenize(t, tt.input)
		if len(tokens) != 2 {
			t.Errorf("%q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}
		if tokens[0].Type != tt.expected {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.expected, tokens[0].Type)
		}
	}
}

func TestTokenizeGreedyLongestMatch(t *testing.T) {
	// '==' must win over two '=' tokens, '++' over two '+' tokens.
	tokens := mustTokenize(t, "a == b ++ c")

	expected := []TokenType{
		TOKEN_IDENT, TOKEN_EQ, TOKEN_IDENT, TOKEN_INCREMENT, TOKEN_IDENT, TOKEN_EOF,
	}
	assertTokenTypes(t, tokens, expected)
}

func TestTokenizeNumbers(t *testing.T) {
	tokens := mustTokenize(t, "42 3.14 0.5 7")

	expected := []TokenType{
		TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_EOF,
	}
	assertTokenTypes(t, tokens, expected)

	if tokens[1].Text != "3.14" {
		t.Errorf("Expected '3.14', got %q", tokens[1].Text)
	}
}

func TestTokenizeNumberDotMember(t *testing.T) {
	// A '.' not followed by a digit stays a member access dot.
	tokens := mustTokenize(t, "1.toString")

	expected := []TokenType{TOKEN_NUMBER, TOKEN_DOT, TOKEN_IDENT, TOKEN_EOF}
	assertTokenTypes(t, tokens, expected)
}

func TestTokenizeStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"a\rb"`, "a\rb"},
		{`"a\\b"`, `a\b`},
		{`"a\"b"`, `a"b`},
		{`'a\'b'`, "a'b"},
		{`"a\qb"`, "aqb"}, // unknown escape passes through literally
	}

	for _, tt := range tests {
		tokens := mustTokenize(t, tt.input)
		if tokens[0].Type != TOKEN_STRING {
			t.Errorf("%s: expected STRING, got %v", tt.input, tokens[0].Type)
			continue
		}
		if tokens[0].Text != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.expected, tokens[0].Text)
		}
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	lex := New(`let a = "oops`)
	tokens, err := lex.Tokenize()

	if err == nil {
		t.Fatal("Expected aggregate error")
	}
	if len(lex.Errors()) != 1 {
		t.Fatalf("Expected exactly 1 error, got %d", len(lex.Errors()))
	}
	if !strings.Contains(lex.Errors()[0].Message, "unterminated string") {
		t.Errorf("Unexpected message: %q", lex.Errors()[0].Message)
	}

	// No string token is emitted for the dangling literal.
	for _, tok := range tokens {
		if tok.Type == TOKEN_STRING {
			t.Errorf("Unexpected string token %v", tok)
		}
	}
}

func TestTokenizeNewlineInsideString(t *testing.T) {
	// A raw newline inside a string is kept; the line counter still
	// advances for everything after it.
	tokens := mustTokenize(t, "\"a\nb\" c")

	if tokens[0].Type != TOKEN_STRING {
		t.Fatalf("Expected STRING, got %v", tokens[0].Type)
	}
	if tokens[0].Text != "a\nb" {
		t.Errorf("Expected text to keep the newline, got %q", tokens[0].Text)
	}
	if tokens[1].Line != 2 {
		t.Errorf("Expected following token on line 2, got %d", tokens[1].Line)
	}
}

func TestTokenizeLineComment(t *testing.T) {
	lex := New("a // trailing\nb")
	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}

	expected := []TokenType{TOKEN_IDENT, TOKEN_IDENT, TOKEN_EOF}
	assertTokenTypes(t, tokens, expected)

	comments := lex.Comments()
	if len(comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(comments))
	}
	if comments[0].Text != "// trailing" {
		t.Errorf("Unexpected comment text %q", comments[0].Text)
	}
}

func TestTokenizeNestedBlockComment(t *testing.T) {
	tokens := mustTokenize(t, "a /* outer /* inner */ still outer */ b")

	expected := []TokenType{TOKEN_IDENT, TOKEN_IDENT, TOKEN_EOF}
	assertTokenTypes(t, tokens, expected)
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	lex := New("a /* outer /* inner */ b")
	_, err := lex.Tokenize()

	if err == nil {
		t.Fatal("Expected aggregate error")
	}
	if !strings.Contains(err.Error(), "unterminated block comment") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestTokenizeSingleAmpersandRecovers(t *testing.T) {
	lex := New("a & b | c")
	tokens, err := lex.Tokenize()

	if err == nil {
		t.Fatal("Expected aggregate error")
	}
	if len(lex.Errors()) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(lex.Errors()))
	}

	// Scanning continues past both bad characters.
	expected := []TokenType{TOKEN_IDENT, TOKEN_IDENT, TOKEN_IDENT, TOKEN_EOF}
	assertTokenTypes(t, tokens, expected)
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	lex := New("a @ b")
	tokens, err := lex.Tokenize()

	if err == nil {
		t.Fatal("Expected aggregate error")
	}
	expected := []TokenType{TOKEN_IDENT, TOKEN_IDENT, TOKEN_EOF}
	assertTokenTypes(t, tokens, expected)
}

func TestTokenizePositions(t *testing.T) {
	tokens := mustTokenize(t, "let x\nx = 1")

	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("let at %d:%d, want 1:1", tokens[0].Line, tokens[0].Column)
	}
	if tokens[1].Line != 1 || tokens[1].Column != 5 {
		t.Errorf("x at %d:%d, want 1:5", tokens[1].Line, tokens[1].Column)
	}
	if tokens[2].Line != 2 || tokens[2].Column != 1 {
		t.Errorf("x at %d:%d, want 2:1", tokens[2].Line, tokens[2].Column)
	}
	if tokens[0].Start != 0 || tokens[0].End != 3 {
		t.Errorf("let offsets [%d,%d), want [0,3)", tokens[0].Start, tokens[0].End)
	}
}

func TestTokenizeOrderingInvariant(t *testing.T) {
	src := `component A {
	state { count: Number = 0 }
	render() { <div class="big">{count}</div> }
}`
	tokens := mustTokenize(t, src)

	eofs := 0
	for i, tok := range tokens {
		if tok.Type == TOKEN_EOF {
			eofs++
		}
		if i+1 < len(tokens) && tok.End > tokens[i+1].Start {
			t.Errorf("tokens[%d].End=%d > tokens[%d].Start=%d", i, tok.End, i+1, tokens[i+1].Start)
		}
	}
	if eofs != 1 {
		t.Errorf("Expected exactly 1 EOF token, got %d", eofs)
	}
	if tokens[len(tokens)-1].Type != TOKEN_EOF {
		t.Error("Expected EOF to be last")
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	src := `model User { name: String save() { this.dirty = false; } }`

	first := mustTokenize(t, src)
	second := mustTokenize(t, src)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Token streams differ between runs (-first +second):\n%s", diff)
	}
}

func TestLexerReset(t *testing.T) {
	lex := New("a & b")
	if _, err := lex.Tokenize(); err == nil {
		t.Fatal("Expected error from first source")
	}

	lex.Reset("a && b")
	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize after Reset: %v", err)
	}
	if len(lex.Errors()) != 0 {
		t.Errorf("Expected errors cleared by Reset, got %d", len(lex.Errors()))
	}

	expected := []TokenType{TOKEN_IDENT, TOKEN_AND, TOKEN_IDENT, TOKEN_EOF}
	assertTokenTypes(t, tokens, expected)
}

func TestTokenizeMarkupDelimiters(t *testing.T) {
	tokens := mustTokenize(t, `<div class="a">{x}</div><br/>`)

	expected := []TokenType{
		TOKEN_LT,         // <
		TOKEN_IDENT,      // div
		TOKEN_IDENT,      // class
		TOKEN_ASSIGN,     // =
		TOKEN_STRING,     // a
		TOKEN_GT,         // >
		TOKEN_LBRACE,     // {
		TOKEN_IDENT,      // x
		TOKEN_RBRACE,     // }
		TOKEN_CLOSE_TAG,  // </
		TOKEN_IDENT,      // div
		TOKEN_GT,         // >
		TOKEN_LT,         // <
		TOKEN_IDENT,      // br
		TOKEN_SELF_CLOSE, // />
		TOKEN_EOF,
	}
	assertTokenTypes(t, tokens, expected)
}

// Helper functions

func mustTokenize(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := New(src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	return tokens
}

func assertTokenTypes(t *testing.T, tokens []Token, expected []TokenType) {
	t.Helper()

	if len(tokens) != len(expected) {
		t.Errorf("Token count = %d, want %d", len(tokens), len(expected))
		for i, tok := range tokens {
			t.Logf("  [%d] %v", i, tok)
		}
		return
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("tokens[%d].Type = %v, want %v", i, tok.Type, expected[i])
		}
	}
}
