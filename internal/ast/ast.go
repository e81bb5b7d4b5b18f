// Package ast defines the Clean Language abstract syntax tree.
//
// Node shapes follow the teacher's Node/Expression/Statement split
// (TokenLiteral/String/Pos), generalized to Clean Language's construct set:
// classes with single inheritance, apply-blocks, async start/later/background,
// and the list-behavior mutation statement (spec.md §3.2, §4.1).
package ast

import (
	"bytes"
	"strings"

	"github.com/clean-lang/cleanc/internal/lexer"
	"github.com/clean-lang/cleanc/internal/types"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
	GetType() types.Type
	SetType(types.Type)
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// typed is embedded by expression nodes to carry the semantic analyzer's
// resolved type annotation (spec.md §3.1 "no node may remain with an
// unresolved placeholder").
type typed struct {
	Type types.Type
}

func (t *typed) GetType() types.Type  { return t.Type }
func (t *typed) SetType(ty types.Type) { t.Type = ty }

// Module is the root of the AST for a single compilation unit (spec.md §3.2).
type Module struct {
	Imports   []*ImportDecl
	Constants []*ConstDecl
	Classes   []*ClassDecl
	Functions []*FunctionDecl
	Start     *FunctionDecl
}

func (m *Module) TokenLiteral() string { return "module" }
func (m *Module) Pos() lexer.Position  { return lexer.Position{Line: 1, Column: 1} }
func (m *Module) String() string {
	var b bytes.Buffer
	for _, i := range m.Imports {
		b.WriteString(i.String())
		b.WriteString("\n")
	}
	for _, c := range m.Classes {
		b.WriteString(c.String())
		b.WriteString("\n")
	}
	for _, f := range m.Functions {
		b.WriteString(f.String())
		b.WriteString("\n")
	}
	if m.Start != nil {
		b.WriteString(m.Start.String())
	}
	return b.String()
}

// Identifier is a bare name reference.
type Identifier struct {
	typed
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral is an integer literal (spec.md §4.1).
type IntegerLiteral struct {
	typed
	Token lexer.Token
	Value int64
}

func (n *IntegerLiteral) expressionNode()      {}
func (n *IntegerLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *IntegerLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *IntegerLiteral) String() string       { return n.Token.Literal }

// NumberLiteral is a floating-point literal.
type NumberLiteral struct {
	typed
	Token lexer.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NumberLiteral) String() string       { return n.Token.Literal }

// BooleanLiteral is a true/false literal.
type BooleanLiteral struct {
	typed
	Token lexer.Token
	Value bool
}

func (n *BooleanLiteral) expressionNode()      {}
func (n *BooleanLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *BooleanLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *BooleanLiteral) String() string       { return n.Token.Literal }

// StringLiteral is a plain (non-interpolated) string literal. Interning
// into the codegen string pool happens in internal/codegen, not here
// (spec.md §3.2 "StringLiteral ... pool index").
type StringLiteral struct {
	typed
	Token lexer.Token
	Value string
}

func (n *StringLiteral) expressionNode()      {}
func (n *StringLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *StringLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *StringLiteral) String() string       { return `"` + n.Value + `"` }

// InterpolatedString holds a string literal with embedded `{expr}` chunks
// (spec.md §4.1). Semantic analysis lowers this into chained string_concat
// calls (spec.md §4.4.5); the parser only records the chunk sequence.
type InterpolatedString struct {
	typed
	Token lexer.Token
	Parts []StringPart
}

// StringPart is either a literal text chunk or an embedded expression.
type StringPart struct {
	Text string
	Expr Expression
}

func (n *InterpolatedString) expressionNode()      {}
func (n *InterpolatedString) TokenLiteral() string { return n.Token.Literal }
func (n *InterpolatedString) Pos() lexer.Position  { return n.Token.Pos }
func (n *InterpolatedString) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, p := range n.Parts {
		if p.Expr != nil {
			b.WriteByte('{')
			b.WriteString(p.Expr.String())
			b.WriteByte('}')
		} else {
			b.WriteString(p.Text)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// PrefixExpression is a unary operator applied to an operand (`not`, `-`).
type PrefixExpression struct {
	typed
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (n *PrefixExpression) expressionNode()      {}
func (n *PrefixExpression) TokenLiteral() string { return n.Token.Literal }
func (n *PrefixExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *PrefixExpression) String() string {
	return "(" + n.Operator + n.Right.String() + ")"
}

// BinaryExpression is a binary operator expression.
type BinaryExpression struct {
	typed
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (n *BinaryExpression) expressionNode()      {}
func (n *BinaryExpression) TokenLiteral() string { return n.Token.Literal }
func (n *BinaryExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *BinaryExpression) String() string {
	return "(" + n.Left.String() + " " + n.Operator + " " + n.Right.String() + ")"
}

// OnErrorExpression implements `expr onError fallback` (spec.md §4.1, §7).
type OnErrorExpression struct {
	typed
	Token    lexer.Token
	Try      Expression
	Fallback Expression
}

func (n *OnErrorExpression) expressionNode()      {}
func (n *OnErrorExpression) TokenLiteral() string { return n.Token.Literal }
func (n *OnErrorExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *OnErrorExpression) String() string {
	return "(" + n.Try.String() + " onError " + n.Fallback.String() + ")"
}

// CallExpression is a free-function or resolved-callee invocation.
type CallExpression struct {
	typed
	Token     lexer.Token
	Function  Expression
	Arguments []Expression
	// ResolvedDefaults holds argument expressions injected for omitted
	// trailing defaulted parameters (spec.md §4.2 "Default parameter
	// handling"); populated by semantic analysis.
	ResolvedDefaults []Expression
}

func (n *CallExpression) expressionNode()      {}
func (n *CallExpression) TokenLiteral() string { return n.Token.Literal }
func (n *CallExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *CallExpression) String() string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = a.String()
	}
	return n.Function.String() + "(" + strings.Join(args, ", ") + ")"
}

// MemberExpression is `obj.name` — a field read, or the callee half of a
// method call before call-argument parsing attaches a CallExpression.
type MemberExpression struct {
	typed
	Token    lexer.Token
	Object   Expression
	Property string
}

func (n *MemberExpression) expressionNode()      {}
func (n *MemberExpression) TokenLiteral() string { return n.Token.Literal }
func (n *MemberExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *MemberExpression) String() string       { return n.Object.String() + "." + n.Property }

// IndexExpression is `obj[index]`.
type IndexExpression struct {
	typed
	Token lexer.Token
	Left  Expression
	Index Expression
}

func (n *IndexExpression) expressionNode()      {}
func (n *IndexExpression) TokenLiteral() string { return n.Token.Literal }
func (n *IndexExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *IndexExpression) String() string {
	return n.Left.String() + "[" + n.Index.String() + "]"
}

// NewExpression is `new ClassName(args...)`.
type NewExpression struct {
	typed
	Token     lexer.Token
	ClassName string
	Arguments []Expression
}

func (n *NewExpression) expressionNode()      {}
func (n *NewExpression) TokenLiteral() string { return n.Token.Literal }
func (n *NewExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *NewExpression) String() string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = a.String()
	}
	return "new " + n.ClassName + "(" + strings.Join(args, ", ") + ")"
}

// ListLiteral is a `[e1, e2, ...]` list constructor.
type ListLiteral struct {
	typed
	Token    lexer.Token
	Elements []Expression
}

func (n *ListLiteral) expressionNode()      {}
func (n *ListLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *ListLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *ListLiteral) String() string {
	els := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		els[i] = e.String()
	}
	return "[" + strings.Join(els, ", ") + "]"
}

// StartExpression is `start expr` (spec.md §4.2 "Async lowering"). It
// evaluates to a Future<T> handle.
type StartExpression struct {
	typed
	Token lexer.Token
	Call  Expression
}

func (n *StartExpression) expressionNode()      {}
func (n *StartExpression) TokenLiteral() string { return n.Token.Literal }
func (n *StartExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *StartExpression) String() string       { return "start " + n.Call.String() }

// FutureReadExpression is the lowered form of reading a `later`-declared
// variable: an implicit await (spec.md §3.1 "Future<T> unwraps ... at read
// sites"). Produced by semantic analysis, never by the parser.
type FutureReadExpression struct {
	typed
	Handle Expression
	token  lexer.Token
}

func NewFutureReadExpression(handle Expression, tok lexer.Token) *FutureReadExpression {
	return &FutureReadExpression{Handle: handle, token: tok}
}

func (n *FutureReadExpression) expressionNode()      {}
func (n *FutureReadExpression) TokenLiteral() string { return n.token.Literal }
func (n *FutureReadExpression) Pos() lexer.Position  { return n.token.Pos }
func (n *FutureReadExpression) String() string       { return "await(" + n.Handle.String() + ")" }
