package lexer

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TOKEN_EOF TokenType = iota

	// Literals
	TOKEN_IDENT
	TOKEN_NUMBER
	TOKEN_STRING
	TOKEN_COMMENT

	// Keywords
	TOKEN_COMPONENT
	TOKEN_MODEL
	TOKEN_SERVICE
	TOKEN_STATE
	TOKEN_RENDER
	TOKEN_COMPUTED
	TOKEN_LET
	TOKEN_CONST
	TOKEN_VAR
	TOKEN_IF
	TOKEN_ELSE
	TOKEN_FOR
	TOKEN_IN
	TOKEN_WHILE
	TOKEN_RETURN
	TOKEN_BREAK
	TOKEN_CONTINUE
	TOKEN_NEW
	TOKEN_THIS
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_NULL

	// Delimiters
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_LBRACE   // {
	TOKEN_RBRACE   // }
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_COMMA    // ,
	TOKEN_SEMI     // ;
	TOKEN_COLON    // :
	TOKEN_QUESTION // ?
	TOKEN_DOT      // .

	// Operators
	TOKEN_ASSIGN       // =
	TOKEN_EQ           // ==
	TOKEN_NEQ          // !=
	TOKEN_BANG         // !
	TOKEN_LT           // <
	TOKEN_GT           // >
	TOKEN_LTE          // <=
	TOKEN_GTE          // >=
	TOKEN_PLUS         // +
	TOKEN_MINUS        // -
	TOKEN_STAR         // *
	TOKEN_SLASH        // /
	TOKEN_PERCENT      // %
	TOKEN_PLUS_ASSIGN  // +=
	TOKEN_MINUS_ASSIGN // -=
	TOKEN_STAR_ASSIGN  // *=
	TOKEN_SLASH_ASSIGN // /=
	TOKEN_INCREMENT    // ++
	TOKEN_DECREMENT    // --
	TOKEN_AND          // &&
	TOKEN_OR           // ||
	TOKEN_ARROW        // =>

	// Markup delimiters. '<' and '>' themselves are always lexed as
	// comparison tokens; the parser reinterprets them in markup position.
	TOKEN_CLOSE_TAG  // </
	TOKEN_SELF_CLOSE // />
)

var tokenNames = map[TokenType]string{
	TOKEN_EOF:          "EOF",
	TOKEN_IDENT:        "IDENT",
	TOKEN_NUMBER:       "NUMBER",
	TOKEN_STRING:       "STRING",
	TOKEN_COMMENT:      "COMMENT",
	TOKEN_COMPONENT:    "component",
	TOKEN_MODEL:        "model",
	TOKEN_SERVICE:      "service",
	TOKEN_STATE:        "state",
	TOKEN_RENDER:       "render",
	TOKEN_COMPUTED:     "computed",
	TOKEN_LET:          "let",
	TOKEN_CONST:        "const",
	TOKEN_VAR:          "var",
	TOKEN_IF:           "if",
	TOKEN_ELSE:         "else",
	TOKEN_FOR:          "for",
	TOKEN_IN:           "in",
	TOKEN_WHILE:        "while",
	TOKEN_RETURN:       "return",
	TOKEN_BREAK:        "break",
	TOKEN_CONTINUE:     "continue",
	TOKEN_NEW:          "new",
	TOKEN_THIS:         "this",
	TOKEN_TRUE:         "true",
	TOKEN_FALSE:        "false",
	TOKEN_NULL:         "null",
	TOKEN_LPAREN:       "(",
	TOKEN_RPAREN:       ")",
	TOKEN_LBRACE:       "{",
	TOKEN_RBRACE:       "}",
	TOKEN_LBRACKET:     "[",
	TOKEN_RBRACKET:     "]",
	TOKEN_COMMA:        ",",
	TOKEN_SEMI:         ";",
	TOKEN_COLON:        ":",
	TOKEN_QUESTION:     "?",
	TOKEN_DOT:          ".",
	TOKEN_ASSIGN:       "=",
	TOKEN_EQ:           "==",
	TOKEN_NEQ:          "!=",
	TOKEN_BANG:         "!",
	TOKEN_LT:           "<",
	TOKEN_GT:           ">",
	TOKEN_LTE:          "<=",
	TOKEN_GTE:          ">=",
	TOKEN_PLUS:         "+",
	TOKEN_MINUS:        "-",
	TOKEN_STAR:         "*",
	TOKEN_SLASH:        "/",
	TOKEN_PERCENT:      "%",
	TOKEN_PLUS_ASSIGN:  "+=",
	TOKEN_MINUS_ASSIGN: "-=",
	TOKEN_STAR_ASSIGN:  "*=",
	TOKEN_SLASH_ASSIGN: "/=",
	TOKEN_INCREMENT:    "++",
	TOKEN_DECREMENT:    "--",
	TOKEN_AND:          "&&",
	TOKEN_OR:           "||",
	TOKEN_ARROW:        "=>",
	TOKEN_CLOSE_TAG:    "</",
	TOKEN_SELF_CLOSE:   "/>",
}

// String returns a string representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(t))
}

// Keywords maps reserved words to their token types.
var Keywords = map[string]TokenType{
	"component": TOKEN_COMPONENT,
	"model":     TOKEN_MODEL,
	"service":   TOKEN_SERVICE,
	"state":     TOKEN_STATE,
	"render":    TOKEN_RENDER,
	"computed":  TOKEN_COMPUTED,
	"let":       TOKEN_LET,
	"const":     TOKEN_CONST,
	"var":       TOKEN_VAR,
	"if":        TOKEN_IF,
	"else":      TOKEN_ELSE,
	"for":       TOKEN_FOR,
	"in":        TOKEN_IN,
	"while":     TOKEN_WHILE,
	"return":    TOKEN_RETURN,
	"break":     TOKEN_BREAK,
	"continue":  TOKEN_CONTINUE,
	"new":       TOKEN_NEW,
	"this":      TOKEN_THIS,
	"true":      TOKEN_TRUE,
	"false":     TOKEN_FALSE,
	"null":      TOKEN_NULL,
}

// Binary operator precedence levels. Higher binds tighter. Unary and
// postfix operators bind above all of these and are handled structurally
// by the parser's cascade.
const (
	PrecNone           = 0
	PrecLogicalOr      = 1
	PrecLogicalAnd     = 2
	PrecEquality       = 3
	PrecRelational     = 4
	PrecAdditive       = 5
	PrecMultiplicative = 6
)

var binaryPrecedence = map[TokenType]int{
	TOKEN_OR:      PrecLogicalOr,
	TOKEN_AND:     PrecLogicalAnd,
	TOKEN_EQ:      PrecEquality,
	TOKEN_NEQ:     PrecEquality,
	TOKEN_LT:      PrecRelational,
	TOKEN_GT:      PrecRelational,
	TOKEN_LTE:     PrecRelational,
	TOKEN_GTE:     PrecRelational,
	TOKEN_PLUS:    PrecAdditive,
	TOKEN_MINUS:   PrecAdditive,
	TOKEN_STAR:    PrecMultiplicative,
	TOKEN_SLASH:   PrecMultiplicative,
	TOKEN_PERCENT: PrecMultiplicative,
}

// BinaryPrecedence returns the precedence level of t as a binary
// operator, or PrecNone if t is not a binary operator.
func BinaryPrecedence(t TokenType) int {
	return binaryPrecedence[t]
}

// Token represents a lexical token.
type Token struct {
	Type   TokenType
	Text   string
	Line   int // 1-indexed
	Column int // 1-indexed
	Start  int // byte offset of the first character
	End    int // byte offset one past the last character
}

// String returns a string representation of the token.
func (t Token) String() string {
	if len(t.Text) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Text[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Text)
}
