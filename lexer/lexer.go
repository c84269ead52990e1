// Package lexer tokenizes velt source files.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans a velt source string into a flat token list. A Lexer is
// created (or reset) per source unit; it owns its buffers exclusively, so
// independent instances may run in parallel.
type Lexer struct {
	input  string
	pos    int // current byte position in input
	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)

	// Start of the token currently being scanned.
	startPos    int
	startLine   int
	startColumn int

	tokens   []Token
	comments []Token
	errors   ErrorList
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{}
	l.Reset(input)
	return l
}

// Reset reinitializes the lexer for a new source unit, reusing the
// instance.
func (l *Lexer) Reset(input string) {
	l.input = input
	l.pos = 0
	l.line = 1
	l.column = 1
	l.tokens = nil
	l.comments = nil
	l.errors = nil
}

// Tokenize scans the whole input and returns the token list, always
// terminated by a single EOF token. If any scan error occurred the
// returned error is the aggregate ErrorList; the token list is still
// returned for error-tolerant consumers.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.pos < len(l.input) {
		l.markStart()
		l.scanToken()
	}
	l.markStart()
	l.emit(TOKEN_EOF, "")
	return l.tokens, l.errors.Err()
}

// Errors returns the full list of lexical errors collected so far.
func (l *Lexer) Errors() []*Error {
	return l.errors
}

// Comments returns the comment tokens encountered during scanning.
// Comments never appear in the main token stream; they are kept here for
// tooling such as highlighters and documentation extractors.
func (l *Lexer) Comments() []Token {
	return l.comments
}

func (l *Lexer) scanToken() {
	ch := l.peek()

	switch {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		l.advance()

	case ch == '(':
		l.single(TOKEN_LPAREN)
	case ch == ')':
		l.single(TOKEN_RPAREN)
	case ch == '{':
		l.single(TOKEN_LBRACE)
	case ch == '}':
		l.single(TOKEN_RBRACE)
	case ch == '[':
		l.single(TOKEN_LBRACKET)
	case ch == ']':
		l.single(TOKEN_RBRACKET)
	case ch == ',':
		l.single(TOKEN_COMMA)
	case ch == ';':
		l.single(TOKEN_SEMI)
	case ch == ':':
		l.single(TOKEN_COLON)
	case ch == '?':
		l.single(TOKEN_QUESTION)
	case ch == '.':
		l.single(TOKEN_DOT)
	case ch == '%':
		l.single(TOKEN_PERCENT)

	case ch == '=':
		l.advance()
		switch l.peek() {
		case '=':
			l.advance()
			l.emitHere(TOKEN_EQ)
		case '>':
			l.advance()
			l.emitHere(TOKEN_ARROW)
		default:
			l.emitHere(TOKEN_ASSIGN)
		}

	case ch == '!':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			l.emitHere(TOKEN_NEQ)
		} else {
			l.emitHere(TOKEN_BANG)
		}

	case ch == '<':
		l.advance()
		switch l.peek() {
		case '=':
			l.advance()
			l.emitHere(TOKEN_LTE)
		case '/':
			l.advance()
			l.emitHere(TOKEN_CLOSE_TAG)
		default:
			l.emitHere(TOKEN_LT)
		}

	case ch == '>':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			l.emitHere(TOKEN_GTE)
		} else {
			l.emitHere(TOKEN_GT)
		}

	case ch == '+':
		l.advance()
		switch l.peek() {
		case '+':
			l.advance()
			l.emitHere(TOKEN_INCREMENT)
		case '=':
			l.advance()
			l.emitHere(TOKEN_PLUS_ASSIGN)
		default:
			l.emitHere(TOKEN_PLUS)
		}

	case ch == '-':
		l.advance()
		switch l.peek() {
		case '-':
			l.advance()
			l.emitHere(TOKEN_DECREMENT)
		case '=':
			l.advance()
			l.emitHere(TOKEN_MINUS_ASSIGN)
		default:
			l.emitHere(TOKEN_MINUS)
		}

	case ch == '*':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			l.emitHere(TOKEN_STAR_ASSIGN)
		} else {
			l.emitHere(TOKEN_STAR)
		}

	case ch == '/':
		switch l.peekNext() {
		case '/':
			l.scanLineComment()
		case '*':
			l.scanBlockComment()
		case '=':
			l.advance()
			l.advance()
			l.emitHere(TOKEN_SLASH_ASSIGN)
		case '>':
			l.advance()
			l.advance()
			l.emitHere(TOKEN_SELF_CLOSE)
		default:
			l.single(TOKEN_SLASH)
		}

	case ch == '&':
		l.advance()
		if l.peek() == '&' {
			l.advance()
			l.emitHere(TOKEN_AND)
		} else {
			l.errorf("unexpected character '&' (did you mean '&&'?)")
		}

	case ch == '|':
		l.advance()
		if l.peek() == '|' {
			l.advance()
			l.emitHere(TOKEN_OR)
		} else {
			l.errorf("unexpected character '|' (did you mean '||'?)")
		}

	case ch == '"' || ch == '\'':
		l.scanString(ch)

	case unicode.IsDigit(ch):
		l.scanNumber()

	case isIdentStart(ch):
		l.scanIdentifier()

	default:
		l.advance()
		l.errorf("unexpected character %q", ch)
	}
}

// scanString scans a string literal delimited by quote, processing the
// escapes \n \t \r \\ \" \'. Unknown escapes pass through literally. A
// raw newline inside the string is kept (the line counter still
// advances); only end of input before the closing quote is an error.
func (l *Lexer) scanString(quote rune) {
	l.advance() // consume opening quote

	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == quote {
			l.advance() // consume closing quote
			l.emit(TOKEN_STRING, b.String())
			return
		}
		if ch == '\\' {
			l.advance()
			if l.pos >= len(l.input) {
				break
			}
			esc := l.peek()
			l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '"', '\'':
				b.WriteRune(esc)
			default:
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(ch)
		l.advance()
	}

	l.errorf("unterminated string")
}

// scanNumber scans an integer or single-decimal-point number. No
// exponents, no radix prefixes.
func (l *Lexer) scanNumber() {
	for unicode.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && unicode.IsDigit(l.peekNext()) {
		l.advance() // consume .
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	l.emit(TOKEN_NUMBER, l.input[l.startPos:l.pos])
}

// scanIdentifier scans an identifier by maximal munch, then reclassifies
// via the keyword table.
func (l *Lexer) scanIdentifier() {
	for isIdentChar(l.peek()) {
		l.advance()
	}
	text := l.input[l.startPos:l.pos]
	if typ, ok := Keywords[text]; ok {
		l.emit(typ, text)
		return
	}
	l.emit(TOKEN_IDENT, text)
}

// scanLineComment consumes // to end of line.
func (l *Lexer) scanLineComment() {
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	l.comment(l.input[l.startPos:l.pos])
}

// scanBlockComment consumes a block comment, honoring nested /* */ pairs
// via a depth counter.
func (l *Lexer) scanBlockComment() {
	l.advance() // consume /
	l.advance() // consume *

	depth := 1
	for l.pos < len(l.input) && depth > 0 {
		if l.peek() == '/' && l.peekNext() == '*' {
			l.advance()
			l.advance()
			depth++
		} else if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			depth--
		} else {
			l.advance()
		}
	}

	if depth > 0 {
		l.errorf("unterminated block comment")
		return
	}
	l.comment(l.input[l.startPos:l.pos])
}

// Helper functions

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if l.pos+size >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+size:])
	return r
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos += size
}

func (l *Lexer) markStart() {
	l.startPos = l.pos
	l.startLine = l.line
	l.startColumn = l.column
}

// single consumes one character and emits it as typ.
func (l *Lexer) single(typ TokenType) {
	l.advance()
	l.emitHere(typ)
}

// emitHere emits a token whose text is the raw input consumed since
// markStart.
func (l *Lexer) emitHere(typ TokenType) {
	l.emit(typ, l.input[l.startPos:l.pos])
}

// emit appends a token spanning from the marked start to the current
// position. text may differ from the raw span (string escapes).
func (l *Lexer) emit(typ TokenType, text string) {
	l.tokens = append(l.tokens, Token{
		Type:   typ,
		Text:   text,
		Line:   l.startLine,
		Column: l.startColumn,
		Start:  l.startPos,
		End:    l.pos,
	})
}

func (l *Lexer) comment(text string) {
	l.comments = append(l.comments, Token{
		Type:   TOKEN_COMMENT,
		Text:   text,
		Line:   l.startLine,
		Column: l.startColumn,
		Start:  l.startPos,
		End:    l.pos,
	})
}

func (l *Lexer) errorf(format string, args ...any) {
	l.errors = append(l.errors, &Error{
		Message: fmt.Sprintf(format, args...),
		Line:    l.startLine,
		Column:  l.startColumn,
		Offset:  l.startPos,
	})
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
