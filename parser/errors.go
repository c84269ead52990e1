package parser

import (
	"fmt"
	"strings"

	"github.com/veltlang/velt/ast"
	"github.com/veltlang/velt/lexer"
)

// SyntaxError is a single syntactic error. Token is the offending token.
// Expected names the token type a consume-style failure was looking for;
// it is empty for structural errors.
type SyntaxError struct {
	Message  string
	Filename string
	Token    lexer.Token
	Expected string
}

func (e *SyntaxError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%d:%d: %s", e.Token.Line, e.Token.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Token.Line, e.Token.Column, e.Message)
}

// Pos returns the source position of the offending token.
func (e *SyntaxError) Pos() ast.Position {
	return ast.Position{Offset: e.Token.Start, Line: e.Token.Line, Column: e.Token.Column}
}

// ErrorList is the aggregate failure returned by Parse when one or more
// syntax errors were recorded.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no syntax errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d syntax errors:", len(l))
	for _, e := range l {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Err returns the list as an error, or nil if the list is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
