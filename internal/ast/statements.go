package ast

import (
	"bytes"

	"github.com/clean-lang/cleanc/internal/lexer"
)

// BlockStatement is a tab-indented sequence of statements.
type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ExpressionStatement wraps an expression evaluated for side effect; the
// generator drops its value if non-Void (spec.md §4.4.3).
type ExpressionStatement struct {
	Token lexer.Token
	Expr  Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExpressionStatement) String() string       { return e.Expr.String() }

// VarDecl is `T name = expr` or `later name = start expr` (spec.md §4.2).
type VarDecl struct {
	Token lexer.Token
	Name  string
	Type  *TypeExpression
	Value Expression
	Later bool
}

func (v *VarDecl) statementNode()       {}
func (v *VarDecl) TokenLiteral() string { return v.Token.Literal }
func (v *VarDecl) Pos() lexer.Position  { return v.Token.Pos }
func (v *VarDecl) String() string {
	prefix := ""
	if v.Later {
		prefix = "later "
	}
	return prefix + v.Name + " = " + v.Value.String()
}

// AssignStatement is `target = expr`, where target is an Identifier,
// MemberExpression, or IndexExpression (spec.md §4.2).
type AssignStatement struct {
	Token  lexer.Token
	Target Expression
	Value  Expression
}

func (a *AssignStatement) statementNode()       {}
func (a *AssignStatement) TokenLiteral() string { return a.Token.Literal }
func (a *AssignStatement) Pos() lexer.Position  { return a.Token.Pos }
func (a *AssignStatement) String() string       { return a.Target.String() + " = " + a.Value.String() }

// ListBehaviorStatement is `myList.type = "line" | "pile" | "unique" | compound`
// (spec.md §4.2 "List-behavior property").
type ListBehaviorStatement struct {
	Token    lexer.Token
	List     Expression
	Behavior string
}

func (s *ListBehaviorStatement) statementNode()       {}
func (s *ListBehaviorStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ListBehaviorStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *ListBehaviorStatement) String() string {
	return s.List.String() + ".type = \"" + s.Behavior + "\""
}

// ReturnStatement is `return expr` or a bare `return`.
type ReturnStatement struct {
	Token lexer.Token
	Value Expression // nil for a bare return
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() lexer.Position  { return r.Token.Pos }
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

// IfStatement is `if cond ... else ...`.
type IfStatement struct {
	Token       lexer.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil if no else; may itself contain a single IfStatement for else-if chains
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IfStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *IfStatement) String() string       { return "if " + s.Condition.String() }

// WhileStatement is a `while cond` loop.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *WhileStatement) String() string       { return "while " + s.Condition.String() }

// ForStatement is `for name in iterable`.
type ForStatement struct {
	Token    lexer.Token
	VarName  string
	Iterable Expression
	Body     *BlockStatement
}

func (s *ForStatement) statementNode()       {}
func (s *ForStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ForStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *ForStatement) String() string       { return "for " + s.VarName + " in " + s.Iterable.String() }

// ErrorStatement is `error(msg)` (spec.md §4.4.4, §7 RuntimeError).
type ErrorStatement struct {
	Token   lexer.Token
	Message Expression
}

func (s *ErrorStatement) statementNode()       {}
func (s *ErrorStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ErrorStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *ErrorStatement) String() string       { return "error(" + s.Message.String() + ")" }

// BackgroundStatement is `background stmt` (spec.md §4.2 "Async lowering").
type BackgroundStatement struct {
	Token lexer.Token
	Call  Expression
}

func (s *BackgroundStatement) statementNode()       {}
func (s *BackgroundStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BackgroundStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *BackgroundStatement) String() string       { return "background " + s.Call.String() }

// ApplyBlockStatement is the sugar form `identifier:` followed by an
// indented sequence (spec.md glossary "Apply-block"). It is rewritten by
// semantic analysis into the repeated-application statements the comment
// on each desugar site describes; it survives into the AST so the
// analyzer has a single place to perform the rewrite (spec.md §4.2
// "Apply-block desugaring").
type ApplyBlockStatement struct {
	Token   lexer.Token
	Target  string // identifier, e.g. "println", or a declared type name, or a constant group
	Kind    ApplyBlockKind
	Entries []ApplyBlockEntry
}

// ApplyBlockKind distinguishes the three apply-block sugars (spec.md §4.1).
type ApplyBlockKind int

const (
	ApplyBlockCall ApplyBlockKind = iota
	ApplyBlockTypeDecl
	ApplyBlockConstant
)

// ApplyBlockEntry is one line inside an apply-block. For ApplyBlockCall,
// Value is the argument expression. For ApplyBlockTypeDecl, Name is the
// declared variable and Value its initializer. For ApplyBlockConstant,
// Name is the constant name and Value its value expression.
type ApplyBlockEntry struct {
	Name  string
	Value Expression
}

func (a *ApplyBlockStatement) statementNode()       {}
func (a *ApplyBlockStatement) TokenLiteral() string { return a.Token.Literal }
func (a *ApplyBlockStatement) Pos() lexer.Position  { return a.Token.Pos }
func (a *ApplyBlockStatement) String() string       { return a.Target + ":" }
