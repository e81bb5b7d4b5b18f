package ast

import (
	"strings"

	"github.com/clean-lang/cleanc/internal/lexer"
)

// Param is a function or method parameter, with an optional default
// expression (spec.md §3.2, §4.2 "Default parameter handling").
type Param struct {
	Name    string
	Type    *TypeExpression
	Default Expression
}

// FunctionDecl is a top-level function, a class method, or the top-level
// `start()` entry point (spec.md §3.2).
type FunctionDecl struct {
	Token       lexer.Token
	Name        string
	Params      []*Param
	ReturnType  *TypeExpression
	Body        *BlockStatement
	Background  bool // modifiers: background (spec.md §4.2 "Async lowering")
	Private     bool
	IsStatic    bool // `Class.m` static method
	IsStart     bool
	ReceiverCls string // set by the analyzer: owning class name, "" for free functions
}

func (f *FunctionDecl) statementNode()       {}
func (f *FunctionDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDecl) Pos() lexer.Position  { return f.Token.Pos }
func (f *FunctionDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name
	}
	ret := ""
	if f.ReturnType != nil {
		ret = " " + f.ReturnType.String()
	}
	return "function " + f.Name + "(" + strings.Join(params, ", ") + ")" + ret
}

// Field is a class field declaration (spec.md §3.2).
type Field struct {
	Name    string
	Type    *TypeExpression
	Default Expression
	Private bool
}

// ClassDecl is a class declaration with optional single inheritance
// (spec.md §3.2, §4.2 "Inheritance contract").
type ClassDecl struct {
	Token       lexer.Token
	Name        string
	Parent      string // "" if no parent
	Fields      []*Field
	Methods     []*FunctionDecl
	Constructor *FunctionDecl // nil if none declared
}

func (c *ClassDecl) statementNode()       {}
func (c *ClassDecl) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDecl) Pos() lexer.Position  { return c.Token.Pos }
func (c *ClassDecl) String() string {
	if c.Parent != "" {
		return "class " + c.Name + " is " + c.Parent
	}
	return "class " + c.Name
}

// ImportDecl maps a name from another module into local scope (spec.md §3.2).
type ImportDecl struct {
	Token      lexer.Token
	SourceMod  string
	OriginName string
	LocalAlias string
}

func (i *ImportDecl) statementNode()       {}
func (i *ImportDecl) TokenLiteral() string { return i.Token.Literal }
func (i *ImportDecl) Pos() lexer.Position  { return i.Token.Pos }
func (i *ImportDecl) String() string       { return "import " + i.SourceMod + "." + i.OriginName }

// ConstDecl is a module-level named constant (`constant:` block, spec.md §4.1).
type ConstDecl struct {
	Token lexer.Token
	Name  string
	Type  *TypeExpression
	Value Expression
}

func (c *ConstDecl) statementNode()       {}
func (c *ConstDecl) TokenLiteral() string { return c.Token.Literal }
func (c *ConstDecl) Pos() lexer.Position  { return c.Token.Pos }
func (c *ConstDecl) String() string       { return "constant " + c.Name + " = " + c.Value.String() }
