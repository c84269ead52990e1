package parser

import (
	"strings"

	"github.com/veltlang/velt/ast"
	"github.com/veltlang/velt/lexer"
)

// Markup sub-grammar. The lexer always scans '<' and '>' as comparison
// tokens; these functions reinterpret them once the parser has decided a
// primary expression starts an element.

// parseElement parses '<' TAG Attribute* ('/>' | '>' Child* '</' TAG '>').
func (p *Parser) parseElement() (ast.Expr, error) {
	start := tokenPos(p.cur())
	p.advance() // <

	tag, err := p.consume(lexer.TOKEN_IDENT, "expected tag name after '<'")
	if err != nil {
		return nil, err
	}

	elem := &ast.Element{Tag: tag.Text}
	for p.check(lexer.TOKEN_IDENT) {
		attr, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		elem.Attributes = append(elem.Attributes, attr)
	}

	if p.match(lexer.TOKEN_SELF_CLOSE) {
		elem.SelfClosing = true
		elem.Range = p.rangeFrom(start)
		return elem, nil
	}

	if _, err := p.consume(lexer.TOKEN_GT, "expected '>' or '/>' to close element tag"); err != nil {
		return nil, err
	}

	children, err := p.parseMarkupChildren()
	if err != nil {
		return nil, err
	}
	elem.Children = children

	if _, err := p.consume(lexer.TOKEN_CLOSE_TAG, "expected closing tag for <"+elem.Tag+">"); err != nil {
		return nil, err
	}
	closeTag, err := p.consume(lexer.TOKEN_IDENT, "expected tag name in closing tag")
	if err != nil {
		return nil, err
	}
	if closeTag.Text != elem.Tag {
		// Recorded but not fatal: parsing continues with the declared
		// close tag.
		p.record(p.errorAt(closeTag, "mismatched closing tag: expected </%s>, got </%s>", elem.Tag, closeTag.Text))
	}
	if _, err := p.consume(lexer.TOKEN_GT, "expected '>' after closing tag name"); err != nil {
		return nil, err
	}

	elem.Range = p.rangeFrom(start)
	return elem, nil
}

// parseAttribute parses IDENT ('=' (STRING | '{' Expression '}'))?.
func (p *Parser) parseAttribute() (*ast.Attribute, error) {
	name := p.advance() // IDENT, checked by the caller

	attr := &ast.Attribute{Name: name.Text}
	if !p.match(lexer.TOKEN_ASSIGN) {
		// Bare attribute.
		attr.Range = tokenRange(name)
		return attr, nil
	}

	switch p.cur().Type {
	case lexer.TOKEN_STRING:
		tok := p.advance()
		attr.Value = &ast.StringLit{Value: tok.Text, Range: tokenRange(tok)}
	case lexer.TOKEN_LBRACE:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' after attribute expression"); err != nil {
			return nil, err
		}
		attr.Value = expr
	default:
		return nil, p.errorAt(p.cur(), "expected string or '{' expression '}' as value of attribute %q", name.Text)
	}

	attr.Range = p.rangeFrom(tokenPos(name))
	return attr, nil
}

func (p *Parser) parseMarkupChildren() ([]ast.MarkupChild, error) {
	var children []ast.MarkupChild
	for {
		switch p.cur().Type {
		case lexer.TOKEN_CLOSE_TAG, lexer.TOKEN_EOF:
			return children, nil

		case lexer.TOKEN_LT:
			child, err := p.parseElement()
			if err != nil {
				return children, err
			}
			children = append(children, child.(*ast.Element))

		case lexer.TOKEN_LBRACE:
			start := tokenPos(p.cur())
			p.advance()
			expr, err := p.parseExpression()
			if err != nil {
				return children, err
			}
			if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' after expression in markup"); err != nil {
				return children, err
			}
			children = append(children, &ast.ExpressionContainer{Expr: expr, Range: p.rangeFrom(start)})

		default:
			if text := p.parseMarkupText(); text != nil {
				children = append(children, text)
			}
		}
	}
}

// parseMarkupText concatenates a run of tokens outside '<' and '{' into
// one text child. Adjacent tokens separated by source whitespace get a
// single space; the result is trimmed.
func (p *Parser) parseMarkupText() *ast.Text {
	first := p.cur()
	var b strings.Builder
	prevEnd := first.Start

	for {
		switch p.cur().Type {
		case lexer.TOKEN_LT, lexer.TOKEN_LBRACE, lexer.TOKEN_CLOSE_TAG, lexer.TOKEN_EOF:
			value := strings.TrimSpace(b.String())
			if value == "" {
				return nil
			}
			return &ast.Text{Value: value, Range: p.rangeFrom(tokenPos(first))}
		}
		tok := p.advance()
		if b.Len() > 0 && tok.Start > prevEnd {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
		prevEnd = tok.End
	}
}
