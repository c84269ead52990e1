// Package printer renders velt syntax trees back to canonical source
// text.
package printer

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/veltlang/velt/ast"
	"github.com/veltlang/velt/lexer"
)

// Printer renders AST nodes. The zero value is ready to use.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

// Print renders node to a string in canonical form.
func Print(node ast.Node) string {
	var p Printer
	p.printNode(node)
	return p.buf.String()
}

// Fprint renders node to w.
func Fprint(w io.Writer, node ast.Node) error {
	var p Printer
	p.printNode(node)
	_, err := w.Write(p.buf.Bytes())
	return err
}

func (p *Printer) printNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		for i, decl := range n.Decls {
			if i > 0 {
				p.buf.WriteByte('\n')
			}
			p.printNode(decl)
		}
	case *ast.Component:
		p.printComponent(n)
	case *ast.Model:
		p.printModel(n)
	case *ast.Service:
		p.printService(n)
	case ast.Stmt:
		p.printStmt(n)
	case ast.Expr:
		p.writeIndent()
		p.buf.WriteString(exprString(n))
		p.buf.WriteByte('\n')
	default:
		fmt.Fprintf(&p.buf, "/* unprintable %T */\n", node)
	}
}

func (p *Printer) printComponent(c *ast.Component) {
	p.writef("component %s {\n", c.Name)
	p.indent++
	if c.State != nil {
		p.writeIndent()
		p.buf.WriteString("state {\n")
		p.indent++
		for _, prop := range c.State.Properties {
			p.writeIndent()
			p.buf.WriteString(propertyString(prop))
			p.buf.WriteString("\n")
		}
		p.indent--
		p.writeIndent()
		p.buf.WriteString("}\n")
	}
	for _, comp := range c.Computed {
		p.writef("computed %s() ", comp.Name)
		p.printBlockInline(comp.Body)
	}
	for _, m := range c.Methods {
		p.printMethod(m)
	}
	if c.Render != nil {
		p.writeIndent()
		p.buf.WriteString("render() ")
		p.printBlockInline(c.Render.Body)
	}
	p.indent--
	p.writeIndent()
	p.buf.WriteString("}\n")
}

func (p *Printer) printModel(m *ast.Model) {
	p.writef("model %s {\n", m.Name)
	p.indent++
	for _, prop := range m.Properties {
		p.writeIndent()
		p.buf.WriteString(propertyString(prop))
		p.buf.WriteString("\n")
	}
	for _, meth := range m.Methods {
		p.printMethod(meth)
	}
	p.indent--
	p.writeIndent()
	p.buf.WriteString("}\n")
}

func (p *Printer) printService(s *ast.Service) {
	p.writef("service %s {\n", s.Name)
	p.indent++
	for _, meth := range s.Methods {
		p.printMethod(meth)
	}
	p.indent--
	p.writeIndent()
	p.buf.WriteString("}\n")
}

func (p *Printer) printMethod(m *ast.Method) {
	p.writef("%s(%s) ", m.Name, paramsString(m.Params))
	p.printBlockInline(m.Body)
}

// printBlockInline prints a block whose '{' continues the current line.
func (p *Printer) printBlockInline(b *ast.Block) {
	p.buf.WriteString("{\n")
	p.indent++
	for _, stmt := range b.Stmts {
		p.printStmt(stmt)
	}
	p.indent--
	p.writeIndent()
	p.buf.WriteString("}\n")
}

func (p *Printer) printStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		p.writeIndent()
		p.printBlockInline(s)
	case *ast.ExpressionStatement:
		p.writeIndent()
		p.printExprOrElement(s.Expr)
		p.buf.WriteString(";\n")
	case *ast.VariableDeclaration:
		p.writeIndent()
		p.buf.WriteString(s.Kind)
		for i, d := range s.Declarators {
			if i > 0 {
				p.buf.WriteByte(',')
			}
			p.buf.WriteByte(' ')
			p.buf.WriteString(d.Name)
			if d.Init != nil {
				p.buf.WriteString(" = ")
				p.buf.WriteString(exprString(d.Init))
			}
		}
		p.buf.WriteString(";\n")
	case *ast.If:
		p.writeIndent()
		p.writeString("if (" + exprString(s.Cond) + ")")
		p.printNestedStmt(s.Then)
		if s.Else != nil {
			p.writeIndent()
			p.writeString("else")
			p.printNestedStmt(s.Else)
		}
	case *ast.While:
		p.writeIndent()
		p.writeString("while (" + exprString(s.Cond) + ")")
		p.printNestedStmt(s.Body)
	case *ast.For:
		p.writeIndent()
		p.writeString("for (")
		switch init := s.Init.(type) {
		case nil:
		case *ast.VariableDeclaration:
			p.writeString(init.Kind)
			for i, d := range init.Declarators {
				if i > 0 {
					p.buf.WriteByte(',')
				}
				p.buf.WriteByte(' ')
				p.writeString(d.Name)
				if d.Init != nil {
					p.writeString(" = " + exprString(d.Init))
				}
			}
		case *ast.ExpressionStatement:
			p.writeString(exprString(init.Expr))
		}
		p.writeString("; ")
		if s.Cond != nil {
			p.writeString(exprString(s.Cond))
		}
		p.writeString("; ")
		if s.Post != nil {
			p.writeString(exprString(s.Post))
		}
		p.writeString(")")
		p.printNestedStmt(s.Body)
	case *ast.ForIn:
		p.writeIndent()
		p.writeString("for (")
		if s.Kind != "" {
			p.writeString(s.Kind + " ")
		}
		p.writeString(s.Name + " in " + exprString(s.Object) + ")")
		p.printNestedStmt(s.Body)
	case *ast.Return:
		p.writeIndent()
		if s.Value == nil {
			p.writeString("return;\n")
		} else if el, ok := s.Value.(*ast.Element); ok {
			p.writeString("return ")
			p.printElement(el)
			p.buf.WriteString(";\n")
		} else {
			p.writeString("return " + exprString(s.Value) + ";\n")
		}
	case *ast.Break:
		p.writeIndent()
		p.writeString("break;\n")
	case *ast.Continue:
		p.writeIndent()
		p.writeString("continue;\n")
	default:
		p.writeIndent()
		fmt.Fprintf(&p.buf, "/* unprintable %T */\n", stmt)
	}
}

// printNestedStmt prints the body of if/while/for: a block continues the
// current line, anything else goes on its own indented line.
func (p *Printer) printNestedStmt(stmt ast.Stmt) {
	if b, ok := stmt.(*ast.Block); ok {
		p.buf.WriteByte(' ')
		p.printBlockInline(b)
		return
	}
	p.buf.WriteByte('\n')
	p.indent++
	p.printStmt(stmt)
	p.indent--
}

func (p *Printer) printExprOrElement(e ast.Expr) {
	if el, ok := e.(*ast.Element); ok {
		p.printElement(el)
		return
	}
	p.buf.WriteString(exprString(e))
}

// printElement pretty-prints markup: self-closing and text-only elements
// stay on one line, anything else breaks children across lines.
func (p *Printer) printElement(el *ast.Element) {
	p.buf.WriteByte('<')
	p.buf.WriteString(el.Tag)
	for _, attr := range el.Attributes {
		p.buf.WriteByte(' ')
		p.buf.WriteString(attributeString(attr))
	}
	if el.SelfClosing {
		p.buf.WriteString(" />")
		return
	}
	p.buf.WriteByte('>')

	if len(el.Children) == 1 {
		if t, ok := el.Children[0].(*ast.Text); ok {
			p.buf.WriteString(t.Value)
			p.buf.WriteString("</" + el.Tag + ">")
			return
		}
	}
	if len(el.Children) > 0 {
		p.buf.WriteByte('\n')
		p.indent++
		for _, child := range el.Children {
			p.writeIndent()
			switch c := child.(type) {
			case *ast.Element:
				p.printElement(c)
			case *ast.Text:
				p.buf.WriteString(c.Value)
			case *ast.ExpressionContainer:
				p.buf.WriteString("{" + exprString(c.Expr) + "}")
			}
			p.buf.WriteByte('\n')
		}
		p.indent--
		p.writeIndent()
	}
	p.buf.WriteString("</" + el.Tag + ">")
}

func attributeString(attr *ast.Attribute) string {
	if attr.Value == nil {
		return attr.Name
	}
	if s, ok := attr.Value.(*ast.StringLit); ok {
		return attr.Name + "=" + strconv.Quote(s.Value)
	}
	return attr.Name + "={" + exprString(attr.Value) + "}"
}

func propertyString(prop *ast.Property) string {
	var b strings.Builder
	b.WriteString(prop.Name)
	if prop.Type != nil {
		b.WriteString(": " + typeString(prop.Type))
	}
	if prop.Init != nil {
		b.WriteString(" = " + exprString(prop.Init))
	}
	return b.String()
}

func typeString(t *ast.Type) string {
	if t.Array {
		return t.Name + "[]"
	}
	return t.Name
}

func paramsString(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = param.Name
		if param.Type != nil {
			parts[i] += ": " + typeString(param.Type)
		}
	}
	return strings.Join(parts, ", ")
}

// Binary precedence for minimal parenthesization; mirrors the grammar's
// operator table.
var opPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func exprString(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Identifier:
		return x.Name
	case *ast.This:
		return "this"
	case *ast.NumberLit:
		if x.Text != "" {
			return x.Text
		}
		return strconv.FormatFloat(x.Value, 'g', -1, 64)
	case *ast.StringLit:
		return strconv.Quote(x.Value)
	case *ast.BoolLit:
		return strconv.FormatBool(x.Value)
	case *ast.NullLit:
		return "null"
	case *ast.Binary:
		return binaryOperand(x.Left, opPrec[x.Op]) + " " + x.Op + " " + binaryOperand(x.Right, opPrec[x.Op]+1)
	case *ast.Unary:
		if x.Postfix {
			return exprString(x.Operand) + x.Op
		}
		return x.Op + exprString(x.Operand)
	case *ast.Assignment:
		return exprString(x.Target) + " " + x.Op + " " + exprString(x.Value)
	case *ast.Conditional:
		return exprString(x.Cond) + " ? " + exprString(x.Then) + " : " + exprString(x.Else)
	case *ast.Call:
		return exprString(x.Callee) + "(" + argsString(x.Args) + ")"
	case *ast.Member:
		if x.Computed {
			return exprString(x.Object) + "[" + exprString(x.Index) + "]"
		}
		return exprString(x.Object) + "." + x.Name
	case *ast.New:
		return "new " + x.Callee + "(" + argsString(x.Args) + ")"
	case *ast.ArrowFunction:
		body := ""
		if expr, ok := x.Body.(ast.Expr); ok {
			body = exprString(expr)
		} else if block, ok := x.Body.(*ast.Block); ok {
			body = blockString(block)
		}
		return "(" + paramsString(x.Params) + ") => " + body
	case *ast.ArrayLit:
		return "[" + argsString(x.Elements) + "]"
	case *ast.ObjectLit:
		parts := make([]string, len(x.Fields))
		for i, f := range x.Fields {
			parts[i] = objectKeyString(f.Key) + ": " + exprString(f.Value)
		}
		body := "{ " + strings.Join(parts, ", ") + " }"
		if len(x.Fields) == 0 {
			body = "{}"
		}
		if x.TypeName != "" {
			return x.TypeName + " " + body
		}
		return body
	case *ast.Element:
		var p Printer
		p.printElement(x)
		return p.buf.String()
	default:
		return fmt.Sprintf("/* unprintable %T */", e)
	}
}

// binaryOperand parenthesizes an operand whose binding is looser than
// the context requires.
func binaryOperand(e ast.Expr, minPrec int) string {
	switch x := e.(type) {
	case *ast.Binary:
		if opPrec[x.Op] < minPrec {
			return "(" + exprString(e) + ")"
		}
	case *ast.Conditional, *ast.Assignment, *ast.ArrowFunction:
		return "(" + exprString(e) + ")"
	}
	return exprString(e)
}

// objectKeyString quotes keys that cannot be written as bare
// identifiers.
func objectKeyString(key string) string {
	if key == "" {
		return `""`
	}
	if _, reserved := lexer.Keywords[key]; reserved {
		return strconv.Quote(key)
	}
	for i, r := range key {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return strconv.Quote(key)
	}
	return key
}

func argsString(args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = exprString(arg)
	}
	return strings.Join(parts, ", ")
}

func blockString(b *ast.Block) string {
	var p Printer
	p.printBlockInline(b)
	return strings.TrimRight(p.buf.String(), "\n")
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte('\t')
	}
}

func (p *Printer) writeString(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writef(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
}
