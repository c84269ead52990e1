// Package parser builds velt syntax trees from token lists.
//
// The parser is classic recursive descent: one function per grammar
// production, an integer cursor into an immutable token slice, and an
// error accumulator owned by the Parser instance. Parse functions return
// (node, error); declaration and statement entry points record the error
// and resynchronize, so one pass surfaces many independent diagnostics.
package parser

import (
	"fmt"

	"github.com/veltlang/velt/ast"
	"github.com/veltlang/velt/lexer"
)

// Parser parses one token list into one Program. It is discarded after a
// single parse.
type Parser struct {
	filename string
	tokens   []lexer.Token
	pos      int
	errors   ErrorList
}

// New creates a new Parser over tokens. The list is expected to be
// terminated by an EOF token, as produced by lexer.Tokenize.
func New(filename string, tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TOKEN_EOF {
		tokens = append(tokens, lexer.Token{Type: lexer.TOKEN_EOF})
	}
	return &Parser{filename: filename, tokens: tokens}
}

// Parse tokenizes src and parses it in one call.
func Parse(filename string, src []byte) (*ast.Program, error) {
	lex := lexer.New(string(src))
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, err
	}
	return New(filename, tokens).Parse()
}

// Parse parses the token list into a Program. The Program is returned
// even when the error is non-nil, so error-tolerant tooling can inspect
// the partial tree; the error is the aggregate ErrorList.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}
	start := tokenPos(p.cur())

	for !p.check(lexer.TOKEN_EOF) {
		before := p.pos
		decl, err := p.parseDeclaration()
		if err != nil {
			p.record(err)
			p.synchronize()
			if p.pos == before {
				p.advance()
			}
			continue
		}
		program.Decls = append(program.Decls, decl)
	}

	program.Range = ast.NewRange(start, tokenEnd(p.cur()))
	return program, p.errors.Err()
}

// Errors returns the full list of syntax errors recorded so far.
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}

// Declarations

func (p *Parser) parseDeclaration() (ast.Decl, error) {
	switch p.cur().Type {
	case lexer.TOKEN_COMPONENT:
		return p.parseComponent()
	case lexer.TOKEN_MODEL:
		return p.parseModel()
	case lexer.TOKEN_SERVICE:
		return p.parseService()
	default:
		return nil, p.errorAt(p.cur(), "expected component, model, or service declaration, got %s", p.cur())
	}
}

func (p *Parser) parseComponent() (ast.Decl, error) {
	start := tokenPos(p.cur())
	p.advance() // component

	name, err := p.consume(lexer.TOKEN_IDENT, "expected component name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_LBRACE, "expected '{' after component name"); err != nil {
		return nil, err
	}

	comp := &ast.Component{Name: name.Text}
	for !p.check(lexer.TOKEN_RBRACE) && !p.check(lexer.TOKEN_EOF) {
		before := p.pos
		switch p.cur().Type {
		case lexer.TOKEN_STATE:
			if comp.State != nil {
				p.record(p.errorAt(p.cur(), "component %q may declare only one state block", comp.Name))
			}
			st, err := p.parseState()
			if err != nil {
				p.record(err)
				p.synchronize()
			} else {
				// Last-seen block wins when duplicated.
				comp.State = st
			}

		case lexer.TOKEN_RENDER:
			if comp.Render != nil {
				p.record(p.errorAt(p.cur(), "component %q may declare only one render method", comp.Name))
			}
			r, err := p.parseRender()
			if err != nil {
				p.record(err)
				p.synchronize()
			} else {
				comp.Render = r
			}

		case lexer.TOKEN_COMPUTED:
			c, err := p.parseComputed()
			if err != nil {
				p.record(err)
				p.synchronize()
			} else {
				comp.Computed = append(comp.Computed, c)
			}

		case lexer.TOKEN_IDENT:
			m, err := p.parseMethod()
			if err != nil {
				p.record(err)
				p.synchronize()
			} else {
				comp.Methods = append(comp.Methods, m)
			}

		default:
			p.record(p.errorAt(p.cur(), "unexpected token %s in component body", p.cur()))
			p.advance()
		}
		if p.pos == before {
			p.advance()
		}
	}

	closing := p.cur()
	if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' to close component body"); err != nil {
		p.record(err)
	}
	if comp.Render == nil {
		p.record(p.errorAt(closing, "component %q is missing a render method", comp.Name))
	}

	comp.Range = p.rangeFrom(start)
	return comp, nil
}

func (p *Parser) parseState() (*ast.State, error) {
	start := tokenPos(p.cur())
	p.advance() // state

	if _, err := p.consume(lexer.TOKEN_LBRACE, "expected '{' after 'state'"); err != nil {
		return nil, err
	}

	st := &ast.State{}
	for !p.check(lexer.TOKEN_RBRACE) && !p.check(lexer.TOKEN_EOF) {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		st.Properties = append(st.Properties, prop)
		// Separators are optional; a newline between properties is enough.
		if !p.match(lexer.TOKEN_COMMA) {
			p.match(lexer.TOKEN_SEMI)
		}
	}

	if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' to close state block"); err != nil {
		return nil, err
	}
	st.Range = p.rangeFrom(start)
	return st, nil
}

// parseProperty parses IDENT (':' Type)? ('=' Expression)?. State blocks
// leave both parts optional; in model bodies the dispatch guarantees the
// ':' is present.
func (p *Parser) parseProperty() (*ast.Property, error) {
	name, err := p.consume(lexer.TOKEN_IDENT, "expected property name")
	if err != nil {
		return nil, err
	}

	prop := &ast.Property{Name: name.Text}
	if p.match(lexer.TOKEN_COLON) {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		prop.Type = typ
	}
	if p.match(lexer.TOKEN_ASSIGN) {
		init, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		prop.Init = init
	}

	prop.Range = p.rangeFrom(tokenPos(name))
	return prop, nil
}

func (p *Parser) parseType() (*ast.Type, error) {
	name, err := p.consume(lexer.TOKEN_IDENT, "expected type name")
	if err != nil {
		return nil, err
	}
	typ := &ast.Type{Name: name.Text}
	if p.check(lexer.TOKEN_LBRACKET) && p.peek(1).Type == lexer.TOKEN_RBRACKET {
		p.advance()
		p.advance()
		typ.Array = true
	}
	typ.Range = p.rangeFrom(tokenPos(name))
	return typ, nil
}

func (p *Parser) parseMethod() (*ast.Method, error) {
	name, err := p.consume(lexer.TOKEN_IDENT, "expected method name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_LPAREN, "expected '(' after method name"); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_RPAREN, "expected ')' after parameter list"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Method{
		Name:   name.Text,
		Params: params,
		Body:   body,
		Range:  p.rangeFrom(tokenPos(name)),
	}, nil
}

func (p *Parser) parseParams() ([]*ast.Param, error) {
	var params []*ast.Param
	if p.check(lexer.TOKEN_RPAREN) {
		return params, nil
	}
	for {
		name, err := p.consume(lexer.TOKEN_IDENT, "expected parameter name")
		if err != nil {
			return nil, err
		}
		param := &ast.Param{Name: name.Text}
		if p.match(lexer.TOKEN_COLON) {
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = typ
		}
		param.Range = p.rangeFrom(tokenPos(name))
		params = append(params, param)
		if !p.match(lexer.TOKEN_COMMA) {
			return params, nil
		}
	}
}

func (p *Parser) parseComputed() (*ast.Computed, error) {
	start := tokenPos(p.cur())
	p.advance() // computed

	name, err := p.consume(lexer.TOKEN_IDENT, "expected computed property name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_LPAREN, "expected '(' after computed property name"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_RPAREN, "computed properties take no parameters"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Computed{Name: name.Text, Body: body, Range: p.rangeFrom(start)}, nil
}

func (p *Parser) parseRender() (*ast.Render, error) {
	start := tokenPos(p.cur())
	p.advance() // render

	if _, err := p.consume(lexer.TOKEN_LPAREN, "expected '(' after 'render'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_RPAREN, "render takes no parameters"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Render{Body: body, Range: p.rangeFrom(start)}, nil
}

func (p *Parser) parseModel() (ast.Decl, error) {
	start := tokenPos(p.cur())
	p.advance() // model

	name, err := p.consume(lexer.TOKEN_IDENT, "expected model name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_LBRACE, "expected '{' after model name"); err != nil {
		return nil, err
	}

	m := &ast.Model{Name: name.Text}
	for !p.check(lexer.TOKEN_RBRACE) && !p.check(lexer.TOKEN_EOF) {
		before := p.pos
		// One-token lookahead: ':' starts a property, '(' a method.
		switch {
		case p.check(lexer.TOKEN_IDENT) && p.peek(1).Type == lexer.TOKEN_COLON:
			prop, err := p.parseProperty()
			if err != nil {
				p.record(err)
				p.synchronize()
			} else {
				m.Properties = append(m.Properties, prop)
				p.match(lexer.TOKEN_COMMA)
				p.match(lexer.TOKEN_SEMI)
			}
		case p.check(lexer.TOKEN_IDENT) && p.peek(1).Type == lexer.TOKEN_LPAREN:
			meth, err := p.parseMethod()
			if err != nil {
				p.record(err)
				p.synchronize()
			} else {
				m.Methods = append(m.Methods, meth)
			}
		default:
			p.record(p.errorAt(p.cur(), "expected property or method in model body, got %s", p.cur()))
			p.advance()
		}
		if p.pos == before {
			p.advance()
		}
	}

	if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' to close model body"); err != nil {
		p.record(err)
	}
	m.Range = p.rangeFrom(start)
	return m, nil
}

func (p *Parser) parseService() (ast.Decl, error) {
	start := tokenPos(p.cur())
	p.advance() // service

	name, err := p.consume(lexer.TOKEN_IDENT, "expected service name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_LBRACE, "expected '{' after service name"); err != nil {
		return nil, err
	}

	s := &ast.Service{Name: name.Text}
	for !p.check(lexer.TOKEN_RBRACE) && !p.check(lexer.TOKEN_EOF) {
		before := p.pos
		meth, err := p.parseMethod()
		if err != nil {
			p.record(err)
			p.synchronize()
		} else {
			s.Methods = append(s.Methods, meth)
		}
		if p.pos == before {
			p.advance()
		}
	}

	if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' to close service body"); err != nil {
		p.record(err)
	}
	s.Range = p.rangeFrom(start)
	return s, nil
}

// Statements

func (p *Parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.consume(lexer.TOKEN_LBRACE, "expected '{'")
	if err != nil {
		return nil, err
	}

	block := &ast.Block{}
	for !p.check(lexer.TOKEN_RBRACE) && !p.check(lexer.TOKEN_EOF) {
		before := p.pos
		stmt, err := p.parseStatement()
		if err != nil {
			p.record(err)
			p.synchronize()
			if p.pos == before {
				p.advance()
			}
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
	}

	if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' to close block"); err != nil {
		p.record(err)
	}
	block.Range = p.rangeFrom(tokenPos(lbrace))
	return block, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Type {
	case lexer.TOKEN_LBRACE:
		return p.parseBlock()
	case lexer.TOKEN_IF:
		return p.parseIf()
	case lexer.TOKEN_FOR:
		return p.parseFor()
	case lexer.TOKEN_WHILE:
		return p.parseWhile()
	case lexer.TOKEN_RETURN:
		return p.parseReturn()
	case lexer.TOKEN_BREAK:
		tok := p.advance()
		p.match(lexer.TOKEN_SEMI)
		return &ast.Break{Range: p.rangeFrom(tokenPos(tok))}, nil
	case lexer.TOKEN_CONTINUE:
		tok := p.advance()
		p.match(lexer.TOKEN_SEMI)
		return &ast.Continue{Range: p.rangeFrom(tokenPos(tok))}, nil
	case lexer.TOKEN_LET, lexer.TOKEN_CONST, lexer.TOKEN_VAR:
		return p.parseVariableDeclaration()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableDeclaration() (ast.Stmt, error) {
	kind := p.advance() // let, const, or var

	decl := &ast.VariableDeclaration{Kind: kind.Text}
	for {
		name, err := p.consume(lexer.TOKEN_IDENT, "expected variable name")
		if err != nil {
			return nil, err
		}
		d := &ast.Declarator{Name: name.Text}
		if p.match(lexer.TOKEN_ASSIGN) {
			init, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			d.Init = init
		}
		d.Range = p.rangeFrom(tokenPos(name))
		decl.Declarators = append(decl.Declarators, d)
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	p.match(lexer.TOKEN_SEMI)
	decl.Range = p.rangeFrom(tokenPos(kind))
	return decl, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := tokenPos(p.cur())
	p.advance() // if

	if _, err := p.consume(lexer.TOKEN_LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_RPAREN, "expected ')' after condition"); err != nil {
		return nil, err
	}

	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Cond: cond, Then: then}
	if p.match(lexer.TOKEN_ELSE) {
		els, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = els
	}
	stmt.Range = p.rangeFrom(start)
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := tokenPos(p.cur())
	p.advance() // while

	if _, err := p.consume(lexer.TOKEN_LPAREN, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_RPAREN, "expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Range: p.rangeFrom(start)}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	start := tokenPos(p.cur())
	p.advance() // for

	if _, err := p.consume(lexer.TOKEN_LPAREN, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	// for..in needs at most three tokens of lookahead to recognize.
	kw := p.cur().Type
	if (kw == lexer.TOKEN_LET || kw == lexer.TOKEN_CONST || kw == lexer.TOKEN_VAR) &&
		p.peek(1).Type == lexer.TOKEN_IDENT && p.peek(2).Type == lexer.TOKEN_IN {
		kind := p.advance()
		name := p.advance()
		p.advance() // in
		return p.parseForInTail(start, kind.Text, name.Text)
	}
	if p.check(lexer.TOKEN_IDENT) && p.peek(1).Type == lexer.TOKEN_IN {
		name := p.advance()
		p.advance() // in
		return p.parseForInTail(start, "", name.Text)
	}

	stmt := &ast.For{}
	if !p.match(lexer.TOKEN_SEMI) {
		var init ast.Stmt
		var err error
		if p.check(lexer.TOKEN_LET) || p.check(lexer.TOKEN_CONST) || p.check(lexer.TOKEN_VAR) {
			// The declaration consumes the terminating ';' itself.
			init, err = p.parseVariableDeclaration()
		} else {
			init, err = p.parseExpressionStatement()
		}
		if err != nil {
			return nil, err
		}
		stmt.Init = init
	}

	if !p.check(lexer.TOKEN_SEMI) {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.consume(lexer.TOKEN_SEMI, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	if !p.check(lexer.TOKEN_RPAREN) {
		post, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Post = post
	}
	if _, err := p.consume(lexer.TOKEN_RPAREN, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	stmt.Range = p.rangeFrom(start)
	return stmt, nil
}

func (p *Parser) parseForInTail(start ast.Position, kind, name string) (ast.Stmt, error) {
	object, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_RPAREN, "expected ')' after for..in object"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForIn{
		Kind:   kind,
		Name:   name,
		Object: object,
		Body:   body,
		Range:  p.rangeFrom(start),
	}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := tokenPos(p.cur())
	p.advance() // return

	stmt := &ast.Return{}
	if !p.check(lexer.TOKEN_SEMI) && !p.check(lexer.TOKEN_RBRACE) && !p.check(lexer.TOKEN_EOF) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	p.match(lexer.TOKEN_SEMI)
	stmt.Range = p.rangeFrom(start)
	return stmt, nil
}

func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	start := tokenPos(p.cur())
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TOKEN_SEMI)
	return &ast.ExpressionStatement{Expr: expr, Range: p.rangeFrom(start)}, nil
}

// Cursor helpers. The cursor is a plain integer index, so speculative
// parsing is just saving and restoring it.

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(typ lexer.TokenType) bool {
	return p.cur().Type == typ
}

// match consumes the current token and reports true if it has the given
// type. It never records an error.
func (p *Parser) match(typ lexer.TokenType) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	return false
}

// consume returns the current token after advancing past it when it has
// the expected type; otherwise it returns an error carrying the
// offending token and the expected kind.
func (p *Parser) consume(typ lexer.TokenType, msg string) (lexer.Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	tok := p.cur()
	return tok, &SyntaxError{
		Message:  fmt.Sprintf("%s, got %s", msg, tok),
		Filename: p.filename,
		Token:    tok,
		Expected: typ.String(),
	}
}

func (p *Parser) errorAt(tok lexer.Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Message:  fmt.Sprintf(format, args...),
		Filename: p.filename,
		Token:    tok,
	}
}

func (p *Parser) record(err error) {
	if err == nil {
		return
	}
	if se, ok := err.(*SyntaxError); ok {
		p.errors = append(p.errors, se)
		return
	}
	p.errors = append(p.errors, &SyntaxError{Message: err.Error(), Filename: p.filename, Token: p.cur()})
}

// synchronize discards tokens until a statement terminator has been
// consumed or a token that can start a recognizable declaration or
// statement is next. '}' also stops recovery so enclosing bodies can
// close themselves.
func (p *Parser) synchronize() {
	for !p.check(lexer.TOKEN_EOF) {
		if p.cur().Type == lexer.TOKEN_SEMI {
			p.advance()
			return
		}
		switch p.cur().Type {
		case lexer.TOKEN_COMPONENT, lexer.TOKEN_MODEL, lexer.TOKEN_SERVICE,
			lexer.TOKEN_IF, lexer.TOKEN_FOR, lexer.TOKEN_WHILE, lexer.TOKEN_RETURN,
			lexer.TOKEN_RBRACE:
			return
		}
		p.advance()
	}
}

// Position helpers

func tokenPos(t lexer.Token) ast.Position {
	return ast.Position{Offset: t.Start, Line: t.Line, Column: t.Column}
}

// tokenEnd approximates the position just past the token. For tokens
// spanning multiple lines the column is off, which diagnostics tolerate.
func tokenEnd(t lexer.Token) ast.Position {
	return ast.Position{Offset: t.End, Line: t.Line, Column: t.Column + (t.End - t.Start)}
}

func tokenRange(t lexer.Token) ast.Range {
	return ast.NewRange(tokenPos(t), tokenEnd(t))
}

// rangeFrom spans from start to the end of the most recently consumed
// token.
func (p *Parser) rangeFrom(start ast.Position) ast.Range {
	if p.pos == 0 {
		return ast.NewRange(start, tokenEnd(p.cur()))
	}
	return ast.NewRange(start, tokenEnd(p.tokens[p.pos-1]))
}
