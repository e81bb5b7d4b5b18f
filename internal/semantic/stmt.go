package semantic

import (
	"github.com/clean-lang/cleanc/internal/ast"
	cerrors "github.com/clean-lang/cleanc/internal/errors"
	"github.com/clean-lang/cleanc/internal/types"
)

// checkBlock type-checks every statement of b in a child scope, replacing
// each ApplyBlockStatement with its desugared form in place (spec.md §4.2
// "Apply-block desugaring").
func (a *Analyzer) checkBlock(b *ast.BlockStatement, parent *Scope) {
	scope := NewScope(parent)
	out := make([]ast.Statement, 0, len(b.Statements))
	for _, s := range b.Statements {
		if ab, ok := s.(*ast.ApplyBlockStatement); ok {
			out = append(out, a.desugarApplyBlock(ab, scope)...)
			continue
		}
		a.checkStmt(s, scope)
		out = append(out, s)
	}
	b.Statements = out
}

func (a *Analyzer) checkStmt(s ast.Statement, scope *Scope) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		a.checkExpr(&n.Expr, scope)
	case *ast.VarDecl:
		a.checkVarDecl(n, scope)
	case *ast.AssignStatement:
		a.checkAssign(n, scope)
	case *ast.ListBehaviorStatement:
		a.checkListBehavior(n, scope)
	case *ast.ReturnStatement:
		a.checkReturn(n, scope)
	case *ast.IfStatement:
		a.checkIf(n, scope)
	case *ast.WhileStatement:
		a.checkWhile(n, scope)
	case *ast.ForStatement:
		a.checkFor(n, scope)
	case *ast.ErrorStatement:
		a.checkErrorStmt(n, scope)
	case *ast.BackgroundStatement:
		a.checkBackground(n, scope)
	case *ast.FunctionDecl, *ast.ClassDecl:
		// Nested declarations are not part of Clean Language's grammar;
		// the parser never produces these inside a block.
	}
}

func (a *Analyzer) checkVarDecl(n *ast.VarDecl, scope *Scope) {
	vt := a.checkExpr(&n.Value, scope)
	declared := vt
	if n.Type != nil {
		declared = a.resolveTypeExpr(n.Type)
		if !types.AssignableTo(vt, declared) {
			a.errorf(cerrors.TypeError, n.Pos(), "cannot assign %s to %s variable %q", vt, declared, n.Name)
		}
	}
	if n.Later {
		if _, ok := n.Value.(*ast.StartExpression); !ok {
			a.errorf(cerrors.UnsupportedConstruct, n.Pos(), "'later' declarations must be initialized with 'start'")
		}
		if ft, ok := vt.(*types.FutureType); ok {
			declared = ft.Elem
		}
	}
	if !scope.Define(&Symbol{Name: n.Name, Kind: SymVar, Type: declared, Pos: n.Pos(), Later: n.Later}) {
		a.errorf(cerrors.NameError, n.Pos(), "%q is already declared in this scope", n.Name)
	}
}

func (a *Analyzer) checkAssign(n *ast.AssignStatement, scope *Scope) {
	tt := a.checkExpr(&n.Target, scope)
	vt := a.checkExpr(&n.Value, scope)
	if !types.AssignableTo(vt, tt) {
		a.errorf(cerrors.TypeError, n.Pos(), "cannot assign %s to %s", vt, tt)
	}
	if id, ok := n.Target.(*ast.Identifier); ok {
		if sym, ok := scope.Resolve(id.Value); ok && sym.Later {
			a.errorf(cerrors.UnsupportedConstruct, n.Pos(), "cannot reassign %q, a 'later' binding", id.Value)
		}
	}
}

func (a *Analyzer) checkListBehavior(n *ast.ListBehaviorStatement, scope *Scope) {
	lt := a.checkExpr(&n.List, scope)
	if _, ok := lt.(*types.ListType); !ok {
		a.errorf(cerrors.TypeError, n.Pos(), "'.type' behavior assignment requires a List, got %s", lt)
		return
	}
	switch n.Behavior {
	case "line", "pile", "unique":
	default:
		a.errorf(cerrors.UnsupportedConstruct, n.Pos(), "unknown list behavior %q", n.Behavior)
	}
}

func (a *Analyzer) checkReturn(n *ast.ReturnStatement, scope *Scope) {
	if n.Value == nil {
		if a.currentReturn != nil && a.currentReturn.Kind() != types.KindVoid {
			a.errorf(cerrors.TypeError, n.Pos(), "missing return value; function returns %s", a.currentReturn)
		}
		return
	}
	vt := a.checkExpr(&n.Value, scope)
	if a.currentReturn != nil && !types.AssignableTo(vt, a.currentReturn) {
		a.errorf(cerrors.TypeError, n.Pos(), "cannot return %s from a function declared to return %s", vt, a.currentReturn)
	}
}

func (a *Analyzer) checkIf(n *ast.IfStatement, scope *Scope) {
	ct := a.checkExpr(&n.Condition, scope)
	if ct.Kind() != types.KindBoolean {
		a.errorf(cerrors.TypeError, n.Pos(), "'if' condition must be Boolean, got %s", ct)
	}
	a.checkBlock(n.Consequence, scope)
	if n.Alternative != nil {
		a.checkBlock(n.Alternative, scope)
	}
}

func (a *Analyzer) checkWhile(n *ast.WhileStatement, scope *Scope) {
	ct := a.checkExpr(&n.Condition, scope)
	if ct.Kind() != types.KindBoolean {
		a.errorf(cerrors.TypeError, n.Pos(), "'while' condition must be Boolean, got %s", ct)
	}
	a.checkBlock(n.Body, scope)
}

func (a *Analyzer) checkFor(n *ast.ForStatement, scope *Scope) {
	it := a.checkExpr(&n.Iterable, scope)
	elem := types.Type(types.Any)
	switch v := it.(type) {
	case *types.ListType:
		elem = v.Elem
	case *types.MatrixType:
		elem = v.Elem
	default:
		a.errorf(cerrors.TypeError, n.Pos(), "'for ... in' requires a List or Matrix, got %s", it)
	}
	inner := NewScope(scope)
	inner.Define(&Symbol{Name: n.VarName, Kind: SymVar, Type: elem, Pos: n.Pos()})
	a.checkBlockWithScope(n.Body, inner)
}

// checkBlockWithScope type-checks b's statements directly in scope rather
// than a fresh child of it, so a for-loop's induction variable is visible
// to the body without an extra nesting level.
func (a *Analyzer) checkBlockWithScope(b *ast.BlockStatement, scope *Scope) {
	out := make([]ast.Statement, 0, len(b.Statements))
	for _, s := range b.Statements {
		if ab, ok := s.(*ast.ApplyBlockStatement); ok {
			out = append(out, a.desugarApplyBlock(ab, scope)...)
			continue
		}
		a.checkStmt(s, scope)
		out = append(out, s)
	}
	b.Statements = out
}

func (a *Analyzer) checkErrorStmt(n *ast.ErrorStatement, scope *Scope) {
	mt := a.checkExpr(&n.Message, scope)
	if mt.Kind() != types.KindString {
		a.errorf(cerrors.TypeError, n.Pos(), "error(...) message must be a String, got %s", mt)
	}
}

func (a *Analyzer) checkBackground(n *ast.BackgroundStatement, scope *Scope) {
	a.checkExpr(&n.Call, scope)
	if _, ok := n.Call.(*ast.CallExpression); !ok {
		a.errorf(cerrors.UnsupportedConstruct, n.Pos(), "'background' requires a call expression")
	}
}

// desugarApplyBlock rewrites the three apply-block sugars into their
// equivalent repeated statements (spec.md glossary "Apply-block", §4.2
// "Apply-block desugaring"). ApplyBlockConstant is unreachable from the
// current parser: the dedicated `constant:` top-level block already
// produces ConstDecl nodes directly rather than going through this sugar
// (documented in DESIGN.md).
func (a *Analyzer) desugarApplyBlock(ab *ast.ApplyBlockStatement, scope *Scope) []ast.Statement {
	var out []ast.Statement
	switch ab.Kind {
	case ast.ApplyBlockCall:
		for _, entry := range ab.Entries {
			call := &ast.CallExpression{
				Token:     ab.Token,
				Function:  &ast.Identifier{Token: ab.Token, Value: ab.Target},
				Arguments: []ast.Expression{entry.Value},
			}
			stmt := &ast.ExpressionStatement{Token: ab.Token, Expr: call}
			a.checkStmt(stmt, scope)
			out = append(out, stmt)
		}
	case ast.ApplyBlockTypeDecl:
		te := &ast.TypeExpression{Token: ab.Token, Name: ab.Target}
		for _, entry := range ab.Entries {
			decl := &ast.VarDecl{Token: ab.Token, Name: entry.Name, Type: te, Value: entry.Value}
			a.checkStmt(decl, scope)
			out = append(out, decl)
		}
	case ast.ApplyBlockConstant:
		for _, entry := range ab.Entries {
			decl := &ast.VarDecl{Token: ab.Token, Name: entry.Name, Value: entry.Value}
			a.checkStmt(decl, scope)
			out = append(out, decl)
		}
	}
	return out
}
