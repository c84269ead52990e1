package parser

import (
	"strconv"

	"github.com/veltlang/velt/ast"
	"github.com/veltlang/velt/lexer"
)

// Expression precedence cascade: assignment -> conditional -> binary
// (table-driven climbing) -> unary -> postfix -> primary.

func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseAssignExpr()
}

// parseAssignExpr parses right-associative assignment, including the
// compound assignment operators.
func (p *Parser) parseAssignExpr() (ast.Expr, error) {
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}

	switch p.cur().Type {
	case lexer.TOKEN_ASSIGN, lexer.TOKEN_PLUS_ASSIGN, lexer.TOKEN_MINUS_ASSIGN,
		lexer.TOKEN_STAR_ASSIGN, lexer.TOKEN_SLASH_ASSIGN:
		op := p.advance()
		value, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{
			Op:     op.Text,
			Target: left,
			Value:  value,
			Range:  left.GetRange().Extend(value.GetRange()),
		}, nil
	}
	return left, nil
}

// parseConditional parses the right-associative ternary '? :'.
func (p *Parser) parseConditional() (ast.Expr, error) {
	cond, err := p.parseBinary(lexer.PrecLogicalOr)
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.TOKEN_QUESTION) {
		return cond, nil
	}

	then, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_COLON, "expected ':' in conditional expression"); err != nil {
		return nil, err
	}
	els, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{
		Cond:  cond,
		Then:  then,
		Else:  els,
		Range: cond.GetRange().Extend(els.GetRange()),
	}, nil
}

// parseBinary is precedence climbing over the shared operator table.
// All binary operators are left-associative.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec := lexer.BinaryPrecedence(p.cur().Type)
		if prec == lexer.PrecNone || prec < minPrec {
			return left, nil
		}
		op := p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{
			Op:    op.Text,
			Left:  left,
			Right: right,
			Range: left.GetRange().Extend(right.GetRange()),
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur().Type {
	case lexer.TOKEN_BANG, lexer.TOKEN_MINUS, lexer.TOKEN_PLUS,
		lexer.TOKEN_INCREMENT, lexer.TOKEN_DECREMENT:
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{
			Op:      op.Text,
			Operand: operand,
			Range:   tokenRange(op).Extend(operand.GetRange()),
		}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur().Type {
		case lexer.TOKEN_INCREMENT, lexer.TOKEN_DECREMENT:
			op := p.advance()
			expr = &ast.Unary{
				Op:      op.Text,
				Operand: expr,
				Postfix: true,
				Range:   expr.GetRange().Extend(tokenRange(op)),
			}

		case lexer.TOKEN_DOT:
			p.advance()
			name, err := p.consume(lexer.TOKEN_IDENT, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.Member{
				Object: expr,
				Name:   name.Text,
				Range:  expr.GetRange().Extend(tokenRange(name)),
			}

		case lexer.TOKEN_LBRACKET:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			rbracket, err := p.consume(lexer.TOKEN_RBRACKET, "expected ']' after index expression")
			if err != nil {
				return nil, err
			}
			expr = &ast.Member{
				Object:   expr,
				Index:    index,
				Computed: true,
				Range:    expr.GetRange().Extend(tokenRange(rbracket)),
			}

		case lexer.TOKEN_LPAREN:
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			rparen, err := p.consume(lexer.TOKEN_RPAREN, "expected ')' after arguments")
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{
				Callee: expr,
				Args:   args,
				Range:  expr.GetRange().Extend(tokenRange(rparen)),
			}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.check(lexer.TOKEN_RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(lexer.TOKEN_COMMA) {
			return args, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()

	switch tok.Type {
	case lexer.TOKEN_NUMBER:
		p.advance()
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid number literal %q", tok.Text)
		}
		return &ast.NumberLit{Value: value, Text: tok.Text, Range: tokenRange(tok)}, nil

	case lexer.TOKEN_STRING:
		p.advance()
		return &ast.StringLit{Value: tok.Text, Range: tokenRange(tok)}, nil

	case lexer.TOKEN_TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Range: tokenRange(tok)}, nil

	case lexer.TOKEN_FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Range: tokenRange(tok)}, nil

	case lexer.TOKEN_NULL:
		p.advance()
		return &ast.NullLit{Range: tokenRange(tok)}, nil

	case lexer.TOKEN_THIS:
		p.advance()
		return &ast.This{Range: tokenRange(tok)}, nil

	case lexer.TOKEN_NEW:
		return p.parseNew()

	case lexer.TOKEN_IDENT:
		// Typed constructor form: TypeName { field: expr, ... }. The
		// lookahead keeps 'foo {' ambiguity away from plain identifiers.
		if p.peek(1).Type == lexer.TOKEN_LBRACE && p.isObjectLiteralAhead(2) {
			name := p.advance()
			return p.parseObjectLit(tokenPos(name), name.Text)
		}
		p.advance()
		return &ast.Identifier{Name: tok.Text, Range: tokenRange(tok)}, nil

	case lexer.TOKEN_LPAREN:
		return p.parseParenOrArrow()

	case lexer.TOKEN_LBRACKET:
		return p.parseArrayLit()

	case lexer.TOKEN_LBRACE:
		return p.parseObjectLit(tokenPos(tok), "")

	case lexer.TOKEN_LT:
		// '<' in primary position followed by an identifier starts a
		// markup element; everywhere else '<' stays a comparison.
		if p.peek(1).Type == lexer.TOKEN_IDENT {
			return p.parseElement()
		}
		return nil, p.errorAt(tok, "unexpected '<' in expression")

	default:
		return nil, p.errorAt(tok, "unexpected token %s in expression", tok)
	}
}

func (p *Parser) parseNew() (ast.Expr, error) {
	start := tokenPos(p.cur())
	p.advance() // new

	callee, err := p.consume(lexer.TOKEN_IDENT, "expected type name after 'new'")
	if err != nil {
		return nil, err
	}

	expr := &ast.New{Callee: callee.Text}
	if p.match(lexer.TOKEN_LPAREN) {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TOKEN_RPAREN, "expected ')' after arguments"); err != nil {
			return nil, err
		}
		expr.Args = args
	}
	expr.Range = p.rangeFrom(start)
	return expr, nil
}

// parseParenOrArrow resolves the one genuinely ambiguous construct: '('
// starts either a grouped expression or the parameter list of an arrow
// function. The arrow interpretation is attempted first from a saved
// cursor checkpoint; on failure the cursor is restored and the same span
// is re-parsed as a group. The re-scan is bounded by the parenthesized
// span.
func (p *Parser) parseParenOrArrow() (ast.Expr, error) {
	save := p.pos
	start := tokenPos(p.cur())

	params, paramsErr := p.parseArrowParams()
	if paramsErr == nil {
		// '=>' was consumed: committed to the arrow interpretation,
		// so body errors are surfaced as-is.
		var body ast.Node
		if p.check(lexer.TOKEN_LBRACE) {
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			body = block
		} else {
			expr, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			body = expr
		}
		return &ast.ArrowFunction{Params: params, Body: body, Range: p.rangeFrom(start)}, nil
	}

	p.pos = save
	p.advance() // (
	expr, err := p.parseExpression()
	if err == nil {
		_, err = p.consume(lexer.TOKEN_RPAREN, "expected ')' after expression")
	}
	if err != nil {
		// Neither reading works. Report whichever attempt got further.
		if pe, ok := paramsErr.(*SyntaxError); ok {
			if ge, ok := err.(*SyntaxError); ok && pe.Token.Start > ge.Token.Start {
				return nil, paramsErr
			}
		}
		return nil, err
	}
	return expr, nil
}

// parseArrowParams speculatively parses '(' Param* ')' '=>'. Any
// deviation fails the whole attempt; the caller rewinds.
func (p *Parser) parseArrowParams() ([]*ast.Param, error) {
	if _, err := p.consume(lexer.TOKEN_LPAREN, "expected '('"); err != nil {
		return nil, err
	}

	var params []*ast.Param
	if !p.check(lexer.TOKEN_RPAREN) {
		for {
			name, err := p.consume(lexer.TOKEN_IDENT, "malformed parameter list: expected parameter name")
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
				break
			}
		}
	}

	if _, err := p.consume(lexer.TOKEN_RPAREN, "malformed parameter list: expected ')'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_ARROW, "expected '=>'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseArrayLit() (ast.Expr, error) {
	start := tokenPos(p.cur())
	p.advance() // [

	lit := &ast.ArrayLit{}
	if !p.check(lexer.TOKEN_RBRACKET) {
		for {
			elem, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			lit.Elements = append(lit.Elements, elem)
			if !p.match(lexer.TOKEN_COMMA) {
				break
			}
			if p.check(lexer.TOKEN_RBRACKET) {
				break // trailing comma
			}
		}
	}
	if _, err := p.consume(lexer.TOKEN_RBRACKET, "expected ']' to close array literal"); err != nil {
		return nil, err
	}
	lit.Range = p.rangeFrom(start)
	return lit, nil
}

// parseObjectLit parses '{' (key ':' value ','?)* '}'. typeName is
// non-empty for the typed constructor form; the caller has already
// consumed the type name.
func (p *Parser) parseObjectLit(start ast.Position, typeName string) (ast.Expr, error) {
	if _, err := p.consume(lexer.TOKEN_LBRACE, "expected '{'"); err != nil {
		return nil, err
	}

	lit := &ast.ObjectLit{TypeName: typeName}
	for !p.check(lexer.TOKEN_RBRACE) && !p.check(lexer.TOKEN_EOF) {
		var key lexer.Token
		switch p.cur().Type {
		case lexer.TOKEN_IDENT, lexer.TOKEN_STRING:
			key = p.advance()
		default:
			return nil, p.errorAt(p.cur(), "expected field name in object literal, got %s", p.cur())
		}
		if _, err := p.consume(lexer.TOKEN_COLON, "expected ':' after field name"); err != nil {
			return nil, err
		}
		value, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		lit.Fields = append(lit.Fields, &ast.ObjectField{
			Key:   key.Text,
			Value: value,
			Range: tokenRange(key).Extend(value.GetRange()),
		})
		if !p.match(lexer.TOKEN_COMMA) {
			break
		}
	}

	if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' to close object literal"); err != nil {
		return nil, err
	}
	lit.Range = p.rangeFrom(start)
	return lit, nil
}

// isObjectLiteralAhead reports whether the tokens starting at offset n
// look like an object literal body: '}' immediately, or a field key
// followed by ':'.
func (p *Parser) isObjectLiteralAhead(n int) bool {
	switch p.peek(n).Type {
	case lexer.TOKEN_RBRACE:
		return true
	case lexer.TOKEN_IDENT, lexer.TOKEN_STRING:
		return p.peek(n+1).Type == lexer.TOKEN_COLON
	}
	return false
}
