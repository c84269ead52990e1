package parser

import (
	"strings"
	"testing"

	"github.com/veltlang/velt/ast"
	"github.com/veltlang/velt/lexer"
)

func TestParseComponentWithRender(t *testing.T) {
	src := `component A { render() { <div>Hi</div> } }`

	program := mustParse(t, src)

	if len(program.Decls) != 1 {
		t.Fatalf("Expected 1 declaration, got %d", len(program.Decls))
	}
	comp, ok := program.Decls[0].(*ast.Component)
	if !ok {
		t.Fatalf("Expected Component, got %T", program.Decls[0])
	}
	if comp.Name != "A" {
		t.Errorf("Expected name 'A', got %q", comp.Name)
	}
	if comp.Render == nil {
		t.Fatal("Expected a render block")
	}

	if len(comp.Render.Body.Stmts) != 1 {
		t.Fatalf("Expected 1 render statement, got %d", len(comp.Render.Body.Stmts))
	}
	stmt, ok := comp.Render.Body.Stmts[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("Expected ExpressionStatement, got %T", comp.Render.Body.Stmts[0])
	}
	elem, ok := stmt.Expr.(*ast.Element)
	if !ok {
		t.Fatalf("Expected Element, got %T", stmt.Expr)
	}
	if elem.Tag != "div" {
		t.Errorf("Expected tag 'div', got %q", elem.Tag)
	}
	if len(elem.Children) != 1 {
		t.Fatalf("Expected 1 child, got %d", len(elem.Children))
	}
	text, ok := elem.Children[0].(*ast.Text)
	if !ok {
		t.Fatalf("Expected Text, got %T", elem.Children[0])
	}
	if text.Value != "Hi" {
		t.Errorf("Expected text 'Hi', got %q", text.Value)
	}
}

func TestParseComponentFull(t *testing.T) {
	src := `component Counter {
	state {
		count: Number = 0,
		label: String = "clicks"
	}

	computed doubled() {
		return this.count * 2;
	}

	increment(step: Number) {
		this.count += step;
	}

	render() {
		<button onClick={(e) => this.increment(1)}>
			{this.label}: {this.count}
		</button>
	}
}`

	program := mustParse(t, src)
	comp := program.Decls[0].(*ast.Component)

	if comp.State == nil {
		t.Fatal("Expected a state block")
	}
	if len(comp.State.Properties) != 2 {
		t.Fatalf("Expected 2 state properties, got %d", len(comp.State.Properties))
	}
	count := comp.State.Properties[0]
	if count.Name != "count" || count.Type == nil || count.Type.Name != "Number" {
		t.Errorf("Unexpected first property: %+v", count)
	}
	if _, ok := count.Init.(*ast.NumberLit); !ok {
		t.Errorf("Expected NumberLit initializer, got %T", count.Init)
	}

	if len(comp.Computed) != 1 || comp.Computed[0].Name != "doubled" {
		t.Fatalf("Unexpected computed members: %+v", comp.Computed)
	}
	if len(comp.Methods) != 1 {
		t.Fatalf("Expected 1 method, got %d", len(comp.Methods))
	}
	m := comp.Methods[0]
	if m.Name != "increment" || len(m.Params) != 1 || m.Params[0].Name != "step" {
		t.Errorf("Unexpected method: %+v", m)
	}
	if m.Params[0].Type == nil || m.Params[0].Type.Name != "Number" {
		t.Errorf("Unexpected parameter type: %+v", m.Params[0].Type)
	}
	if comp.Render == nil {
		t.Fatal("Expected a render block")
	}
}

func TestParseDuplicateRender(t *testing.T) {
	src := `component A {
	render() { <a>x</a> }
	render() { <b>y</b> }
}`

	program, err := parseAll(t, src)
	if err == nil {
		t.Fatal("Expected aggregate error")
	}

	errs := errorList(t, err)
	if len(errs) != 1 {
		t.Fatalf("Expected exactly 1 error, got %d: %v", len(errs), err)
	}
	if !strings.Contains(errs[0].Message, "only one render") {
		t.Errorf("Unexpected message: %q", errs[0].Message)
	}

	// The component is still returned, keeping the last-seen render.
	comp := program.Decls[0].(*ast.Component)
	if comp.Render == nil {
		t.Fatal("Expected render despite the duplicate")
	}
	stmt := comp.Render.Body.Stmts[0].(*ast.ExpressionStatement)
	if elem := stmt.Expr.(*ast.Element); elem.Tag != "b" {
		t.Errorf("Expected last-seen render (<b>), got <%s>", elem.Tag)
	}
}

func TestParseDuplicateState(t *testing.T) {
	src := `component A {
	state { a: Number }
	state { b: Number }
	render() { <div /> }
}`

	program, err := parseAll(t, src)
	if err == nil {
		t.Fatal("Expected aggregate error")
	}
	errs := errorList(t, err)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "only one state") {
		t.Fatalf("Unexpected errors: %v", err)
	}

	comp := program.Decls[0].(*ast.Component)
	if comp.State == nil || comp.State.Properties[0].Name != "b" {
		t.Error("Expected last-seen state block")
	}
}

func TestParseMissingRender(t *testing.T) {
	src := `component A { state { x: Number } }`

	program, err := parseAll(t, src)
	if err == nil {
		t.Fatal("Expected aggregate error")
	}
	errs := errorList(t, err)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "missing a render") {
		t.Fatalf("Unexpected errors: %v", err)
	}
	if _, ok := program.Decls[0].(*ast.Component); !ok {
		t.Fatal("Expected the component to be returned anyway")
	}
}

func TestParseModel(t *testing.T) {
	src := `model User {
	name: String
	age: Number = 0
	greet(prefix) {
		return prefix + this.name;
	}
}`

	program := mustParse(t, src)
	m, ok := program.Decls[0].(*ast.Model)
	if !ok {
		t.Fatalf("Expected Model, got %T", program.Decls[0])
	}
	if m.Name != "User" {
		t.Errorf("Expected name 'User', got %q", m.Name)
	}
	if len(m.Properties) != 2 {
		t.Fatalf("Expected 2 properties, got %d", len(m.Properties))
	}
	if m.Properties[0].Name != "name" || m.Properties[0].Type.Name != "String" {
		t.Errorf("Unexpected property: %+v", m.Properties[0])
	}
	if len(m.Methods) != 1 || m.Methods[0].Name != "greet" {
		t.Fatalf("Unexpected methods: %+v", m.Methods)
	}
}

func TestParseService(t *testing.T) {
	src := `service Api {
	fetchUser(id) {
		return this.client.get("/users/" + id);
	}
	ping() { return true; }
}`

	program := mustParse(t, src)
	s, ok := program.Decls[0].(*ast.Service)
	if !ok {
		t.Fatalf("Expected Service, got %T", program.Decls[0])
	}
	if len(s.Methods) != 2 {
		t.Fatalf("Expected 2 methods, got %d", len(s.Methods))
	}
}

func TestParseMultipleDeclarations(t *testing.T) {
	src := `component A { render() { <div /> } }
model B { x: Number }
service C { m() { return 1; } }`

	program := mustParse(t, src)
	if len(program.Decls) != 3 {
		t.Fatalf("Expected 3 declarations, got %d", len(program.Decls))
	}
	if _, ok := program.Decls[0].(*ast.Component); !ok {
		t.Errorf("Expected Component, got %T", program.Decls[0])
	}
	if _, ok := program.Decls[1].(*ast.Model); !ok {
		t.Errorf("Expected Model, got %T", program.Decls[1])
	}
	if _, ok := program.Decls[2].(*ast.Service); !ok {
		t.Errorf("Expected Service, got %T", program.Decls[2])
	}
}

func TestParseRecoversAcrossStatements(t *testing.T) {
	// Both bad statements are reported in a single pass; the method
	// still parses to completion.
	src := `service S {
	m() {
		let = 1;
		let x = 2;
		return +;
	}
}`

	_, err := parseAll(t, src)
	if err == nil {
		t.Fatal("Expected aggregate error")
	}
	errs := errorList(t, err)
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(errs), err)
	}
}

func TestParseRecoversAcrossDeclarations(t *testing.T) {
	src := `component { render() { <div /> } }
model Ok { x: Number }`

	program, err := parseAll(t, src)
	if err == nil {
		t.Fatal("Expected aggregate error")
	}

	// The second declaration still parses.
	found := false
	for _, decl := range program.Decls {
		if m, ok := decl.(*ast.Model); ok && m.Name == "Ok" {
			found = true
		}
	}
	if !found {
		t.Error("Expected parsing to continue to the model declaration")
	}
}

func TestParseVariableDeclarations(t *testing.T) {
	src := `service S { m() {
	let a = 1, b = 2;
	const c = "x";
	var d;
} }`

	program := mustParse(t, src)
	body := program.Decls[0].(*ast.Service).Methods[0].Body

	if len(body.Stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(body.Stmts))
	}

	letDecl := body.Stmts[0].(*ast.VariableDeclaration)
	if letDecl.Kind != "let" || len(letDecl.Declarators) != 2 {
		t.Errorf("Unexpected let declaration: %+v", letDecl)
	}
	if letDecl.Declarators[1].Name != "b" {
		t.Errorf("Expected declarator 'b', got %q", letDecl.Declarators[1].Name)
	}

	constDecl := body.Stmts[1].(*ast.VariableDeclaration)
	if constDecl.Kind != "const" {
		t.Errorf("Expected const, got %q", constDecl.Kind)
	}

	varDecl := body.Stmts[2].(*ast.VariableDeclaration)
	if varDecl.Declarators[0].Init != nil {
		t.Error("Expected uninitialized declarator")
	}
}

func TestParseControlFlow(t *testing.T) {
	src := `service S { m(xs) {
	if (a > 1) { return a; } else return 0;
	while (b) { b--; }
	for (let i = 0; i < 10; i++) { total += i; }
	for (x in xs) { use(x); }
	for (const k in xs) { use(k); }
	for (;;) { break; }
} }`

	program := mustParse(t, src)
	stmts := program.Decls[0].(*ast.Service).Methods[0].Body.Stmts

	if len(stmts) != 6 {
		t.Fatalf("Expected 6 statements, got %d", len(stmts))
	}

	ifStmt := stmts[0].(*ast.If)
	if ifStmt.Else == nil {
		t.Error("Expected else branch")
	}
	if _, ok := ifStmt.Else.(*ast.Return); !ok {
		t.Errorf("Expected bare return as else, got %T", ifStmt.Else)
	}

	if _, ok := stmts[1].(*ast.While); !ok {
		t.Errorf("Expected While, got %T", stmts[1])
	}

	forStmt := stmts[2].(*ast.For)
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Post == nil {
		t.Errorf("Expected all three for clauses: %+v", forStmt)
	}

	forIn := stmts[3].(*ast.ForIn)
	if forIn.Kind != "" || forIn.Name != "x" {
		t.Errorf("Unexpected for..in: %+v", forIn)
	}
	forInDecl := stmts[4].(*ast.ForIn)
	if forInDecl.Kind != "const" || forInDecl.Name != "k" {
		t.Errorf("Unexpected for..in with declaration: %+v", forInDecl)
	}

	empty := stmts[5].(*ast.For)
	if empty.Init != nil || empty.Cond != nil || empty.Post != nil {
		t.Errorf("Expected empty for clauses: %+v", empty)
	}
	block := empty.Body.(*ast.Block)
	if _, ok := block.Stmts[0].(*ast.Break); !ok {
		t.Errorf("Expected Break, got %T", block.Stmts[0])
	}
}

func TestParseNodeRanges(t *testing.T) {
	src := `component A { render() { <div /> } }`

	program := mustParse(t, src)
	comp := program.Decls[0].(*ast.Component)

	r := comp.GetRange()
	if !r.IsValid() {
		t.Fatal("Expected a valid range")
	}
	if r.Start.Line != 1 || r.Start.Column != 1 || r.Start.Offset != 0 {
		t.Errorf("Unexpected start %+v", r.Start)
	}
	if r.End.Offset != len(src) {
		t.Errorf("Expected end offset %d, got %d", len(src), r.End.Offset)
	}
	if comp.Render.GetRange().Start.Offset <= r.Start.Offset {
		t.Error("Expected render range to start inside the component")
	}
}

func TestParserErrorsAccessor(t *testing.T) {
	tokens, err := lexer.New("model M { 42 }").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}

	p := New("test.velt", tokens)
	if _, err := p.Parse(); err == nil {
		t.Fatal("Expected aggregate error")
	}
	if len(p.Errors()) == 0 {
		t.Fatal("Expected errors via accessor")
	}
	e := p.Errors()[0]
	if e.Token.Type != lexer.TOKEN_NUMBER {
		t.Errorf("Expected offending NUMBER token, got %v", e.Token)
	}
	if !strings.Contains(e.Error(), "test.velt:") {
		t.Errorf("Expected filename in message, got %q", e.Error())
	}
}

// Helper functions

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := Parse("test.velt", []byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return program
}

// parseAll parses src and returns the partial tree together with the
// aggregate error.
func parseAll(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	tokens, err := lexer.New(src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return New("test.velt", tokens).Parse()
}

func errorList(t *testing.T, err error) ErrorList {
	t.Helper()
	errs, ok := err.(ErrorList)
	if !ok {
		t.Fatalf("Expected ErrorList, got %T: %v", err, err)
	}
	return errs
}
