// Package ast defines the syntax tree for the velt language.
//
// The node set is closed: every variant is listed here and reachable only
// through the Node, Decl, Stmt, Expr, and MarkupChild interfaces, so a
// tree-walking consumer that switches over the concrete types can be
// checked for exhaustiveness.
package ast

// Node is the interface implemented by every node in the tree.
type Node interface {
	node()
	GetRange() Range
}

// Decl is a top-level declaration: component, model, or service.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// MarkupChild is a node that may appear between markup tags: a nested
// element, text, or an expression container.
type MarkupChild interface {
	Node
	markupChildNode()
}

// Declarations

// Program is the root node: one per source unit.
type Program struct {
	Decls []Decl
	Range Range
}

func (*Program) node()             {}
func (p *Program) GetRange() Range { return p.Range }

// Component represents 'component' IDENT '{' ... '}'.
type Component struct {
	Name     string
	State    *State
	Methods  []*Method
	Computed []*Computed
	Render   *Render
	Range    Range
}

func (*Component) node()             {}
func (*Component) declNode()         {}
func (c *Component) GetRange() Range { return c.Range }

// State is the single state block of a component.
type State struct {
	Properties []*Property
	Range      Range
}

func (*State) node()             {}
func (s *State) GetRange() Range { return s.Range }

// Property is a named field with an optional type annotation and an
// optional initializer. Used by both state blocks and model bodies.
type Property struct {
	Name  string
	Type  *Type // nil when unannotated
	Init  Expr  // nil when uninitialized
	Range Range
}

func (*Property) node()             {}
func (p *Property) GetRange() Range { return p.Range }

// Method is a named function member of a component, model, or service.
type Method struct {
	Name   string
	Params []*Param
	Body   *Block
	Range  Range
}

func (*Method) node()             {}
func (m *Method) GetRange() Range { return m.Range }

// Computed is a derived, parameterless member of a component.
type Computed struct {
	Name  string
	Body  *Block
	Range Range
}

func (*Computed) node()             {}
func (c *Computed) GetRange() Range { return c.Range }

// Render is the single render block of a component.
type Render struct {
	Body  *Block
	Range Range
}

func (*Render) node()             {}
func (r *Render) GetRange() Range { return r.Range }

// Model represents 'model' IDENT '{' (Property|Method)* '}'.
type Model struct {
	Name       string
	Properties []*Property
	Methods    []*Method
	Range      Range
}

func (*Model) node()             {}
func (*Model) declNode()         {}
func (m *Model) GetRange() Range { return m.Range }

// Service represents 'service' IDENT '{' Method* '}'.
type Service struct {
	Name    string
	Methods []*Method
	Range   Range
}

func (*Service) node()             {}
func (*Service) declNode()         {}
func (s *Service) GetRange() Range { return s.Range }

// Param is a method or arrow-function parameter.
type Param struct {
	Name  string
	Type  *Type // nil when unannotated
	Range Range
}

func (*Param) node()             {}
func (p *Param) GetRange() Range { return p.Range }

// Type is a named type annotation with an optional array suffix.
type Type struct {
	Name  string
	Array bool
	Range Range
}

func (*Type) node()             {}
func (t *Type) GetRange() Range { return t.Range }

// Statements

// Block is '{' Stmt* '}'.
type Block struct {
	Stmts []Stmt
	Range Range
}

func (*Block) node()             {}
func (*Block) stmtNode()         {}
func (b *Block) GetRange() Range { return b.Range }

// ExpressionStatement is a bare expression in statement position.
type ExpressionStatement struct {
	Expr  Expr
	Range Range
}

func (*ExpressionStatement) node()             {}
func (*ExpressionStatement) stmtNode()         {}
func (s *ExpressionStatement) GetRange() Range { return s.Range }

// If represents 'if' '(' Cond ')' Then ('else' Else)?.
type If struct {
	Cond  Expr
	Then  Stmt
	Else  Stmt // nil when absent
	Range Range
}

func (*If) node()             {}
func (*If) stmtNode()         {}
func (s *If) GetRange() Range { return s.Range }

// For is the C-style loop. Any of Init, Cond, and Post may be nil.
type For struct {
	Init  Stmt
	Cond  Expr
	Post  Expr
	Body  Stmt
	Range Range
}

func (*For) node()             {}
func (*For) stmtNode()         {}
func (s *For) GetRange() Range { return s.Range }

// ForIn represents 'for' '(' Kind? IDENT 'in' Object ')' Body.
type ForIn struct {
	Kind   string // "let", "const", "var", or "" when bare
	Name   string
	Object Expr
	Body   Stmt
	Range  Range
}

func (*ForIn) node()             {}
func (*ForIn) stmtNode()         {}
func (s *ForIn) GetRange() Range { return s.Range }

// While represents 'while' '(' Cond ')' Body.
type While struct {
	Cond  Expr
	Body  Stmt
	Range Range
}

func (*While) node()             {}
func (*While) stmtNode()         {}
func (s *While) GetRange() Range { return s.Range }

// Return represents 'return' Expr?.
type Return struct {
	Value Expr // nil for a bare return
	Range Range
}

func (*Return) node()             {}
func (*Return) stmtNode()         {}
func (s *Return) GetRange() Range { return s.Range }

// Break represents 'break'.
type Break struct {
	Range Range
}

func (*Break) node()             {}
func (*Break) stmtNode()         {}
func (s *Break) GetRange() Range { return s.Range }

// Continue represents 'continue'.
type Continue struct {
	Range Range
}

func (*Continue) node()             {}
func (*Continue) stmtNode()         {}
func (s *Continue) GetRange() Range { return s.Range }

// VariableDeclaration represents ('let'|'const'|'var') Declarator (',' Declarator)*.
type VariableDeclaration struct {
	Kind        string // "let", "const", or "var"
	Declarators []*Declarator
	Range       Range
}

func (*VariableDeclaration) node()             {}
func (*VariableDeclaration) stmtNode()         {}
func (s *VariableDeclaration) GetRange() Range { return s.Range }

// Declarator is one name/initializer pair of a variable declaration.
type Declarator struct {
	Name  string
	Init  Expr // nil when uninitialized
	Range Range
}

func (*Declarator) node()             {}
func (d *Declarator) GetRange() Range { return d.Range }

// Expressions

// Binary is Left Op Right, with Op one of the binary operators of the
// precedence table.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Range Range
}

func (*Binary) node()             {}
func (*Binary) exprNode()         {}
func (e *Binary) GetRange() Range { return e.Range }

// Unary is a prefix (!x, -x, +x, ++x, --x) or postfix (x++, x--)
// operator application.
type Unary struct {
	Op      string
	Operand Expr
	Postfix bool
	Range   Range
}

func (*Unary) node()             {}
func (*Unary) exprNode()         {}
func (e *Unary) GetRange() Range { return e.Range }

// Assignment is Target Op Value, Op one of = += -= *= /=.
type Assignment struct {
	Op     string
	Target Expr
	Value  Expr
	Range  Range
}

func (*Assignment) node()             {}
func (*Assignment) exprNode()         {}
func (e *Assignment) GetRange() Range { return e.Range }

// Conditional is the ternary Cond ? Then : Else.
type Conditional struct {
	Cond  Expr
	Then  Expr
	Else  Expr
	Range Range
}

func (*Conditional) node()             {}
func (*Conditional) exprNode()         {}
func (e *Conditional) GetRange() Range { return e.Range }

// Call is Callee '(' Args ')'.
type Call struct {
	Callee Expr
	Args   []Expr
	Range  Range
}

func (*Call) node()             {}
func (*Call) exprNode()         {}
func (e *Call) GetRange() Range { return e.Range }

// Member is Object '.' Name or Object '[' Index ']' when Computed.
type Member struct {
	Object   Expr
	Name     string // valid when !Computed
	Index    Expr   // valid when Computed
	Computed bool
	Range    Range
}

func (*Member) node()             {}
func (*Member) exprNode()         {}
func (e *Member) GetRange() Range { return e.Range }

// Identifier is a bare name reference.
type Identifier struct {
	Name  string
	Range Range
}

func (*Identifier) node()             {}
func (*Identifier) exprNode()         {}
func (e *Identifier) GetRange() Range { return e.Range }

// This is the 'this' reference.
type This struct {
	Range Range
}

func (*This) node()             {}
func (*This) exprNode()         {}
func (e *This) GetRange() Range { return e.Range }

// New is 'new' Callee ('(' Args ')')?.
type New struct {
	Callee string
	Args   []Expr
	Range  Range
}

func (*New) node()             {}
func (*New) exprNode()         {}
func (e *New) GetRange() Range { return e.Range }

// ArrowFunction is '(' Params ')' '=>' Body, where Body is either a
// *Block or an Expr.
type ArrowFunction struct {
	Params []*Param
	Body   Node
	Range  Range
}

func (*ArrowFunction) node()             {}
func (*ArrowFunction) exprNode()         {}
func (e *ArrowFunction) GetRange() Range { return e.Range }

// StringLit is a string literal with escapes already processed.
type StringLit struct {
	Value string
	Range Range
}

func (*StringLit) node()             {}
func (*StringLit) exprNode()         {}
func (e *StringLit) GetRange() Range { return e.Range }

// NumberLit is a numeric literal. Text preserves the source spelling.
type NumberLit struct {
	Value float64
	Text  string
	Range Range
}

func (*NumberLit) node()             {}
func (*NumberLit) exprNode()         {}
func (e *NumberLit) GetRange() Range { return e.Range }

// BoolLit is 'true' or 'false'.
type BoolLit struct {
	Value bool
	Range Range
}

func (*BoolLit) node()             {}
func (*BoolLit) exprNode()         {}
func (e *BoolLit) GetRange() Range { return e.Range }

// NullLit is 'null'.
type NullLit struct {
	Range Range
}

func (*NullLit) node()             {}
func (*NullLit) exprNode()         {}
func (e *NullLit) GetRange() Range { return e.Range }

// ArrayLit is '[' Elements ']'.
type ArrayLit struct {
	Elements []Expr
	Range    Range
}

func (*ArrayLit) node()             {}
func (*ArrayLit) exprNode()         {}
func (e *ArrayLit) GetRange() Range { return e.Range }

// ObjectLit is '{' Fields '}'. TypeName is non-empty for the typed
// constructor form 'TypeName { field: expr }'.
type ObjectLit struct {
	TypeName string
	Fields   []*ObjectField
	Range    Range
}

func (*ObjectLit) node()             {}
func (*ObjectLit) exprNode()         {}
func (e *ObjectLit) GetRange() Range { return e.Range }

// ObjectField is one Key ':' Value pair of an object literal.
type ObjectField struct {
	Key   string
	Value Expr
	Range Range
}

func (*ObjectField) node()             {}
func (f *ObjectField) GetRange() Range { return f.Range }

// Markup

// Element represents <tag ...>...</tag> or <tag ... />. Elements appear
// in expression position and as markup children.
type Element struct {
	Tag         string
	Attributes  []*Attribute
	Children    []MarkupChild
	SelfClosing bool
	Range       Range
}

func (*Element) node()             {}
func (*Element) exprNode()         {}
func (*Element) markupChildNode()  {}
func (e *Element) GetRange() Range { return e.Range }

// Attribute is IDENT ('=' (STRING | '{' Expression '}'))?. Value is nil
// for a bare attribute.
type Attribute struct {
	Name  string
	Value Expr
	Range Range
}

func (*Attribute) node()             {}
func (a *Attribute) GetRange() Range { return a.Range }

// Text is a run of literal text between markup tags, trimmed.
type Text struct {
	Value string
	Range Range
}

func (*Text) node()             {}
func (*Text) markupChildNode()  {}
func (t *Text) GetRange() Range { return t.Range }

// ExpressionContainer is '{' Expression '}' in markup child position.
type ExpressionContainer struct {
	Expr  Expr
	Range Range
}

func (*ExpressionContainer) node()             {}
func (*ExpressionContainer) markupChildNode()  {}
func (e *ExpressionContainer) GetRange() Range { return e.Range }
