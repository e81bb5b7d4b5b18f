// Package semantic implements the Clean Language semantic analyzer
// (spec.md §4.2): two-pass symbol registration, type checking/inference,
// inheritance resolution, apply-block desugaring, default-parameter
// injection, and async lowering. The annotated AST it produces is the
// contract with internal/codegen.
//
// Grounded on the teacher's internal/semantic/analyzer.go: a cursor-style
// Analyzer struct carrying currentClass/currentFunction fields, two-pass
// registration before body checking, and accumulated (not panic-on-first)
// diagnostics (spec.md §4.2 "Symbol registration order").
package semantic

import (
	"fmt"

	"github.com/clean-lang/cleanc/internal/ast"
	cerrors "github.com/clean-lang/cleanc/internal/errors"
	"github.com/clean-lang/cleanc/internal/lexer"
	"github.com/clean-lang/cleanc/internal/stdlib"
	"github.com/clean-lang/cleanc/internal/types"
)

// Analyzer walks a parsed Module, resolving names and types in place.
type Analyzer struct {
	mod    *ast.Module
	source string
	file   string

	std *stdlib.Registry

	classes   map[string]*types.ClassType
	functions map[string]*types.FunctionType
	constants map[string]types.Type

	// funcDefaults/methodDefaults/ctorDefaults hold each parameter's
	// declared default expression (nil where absent) so call sites can be
	// desugared by appending to CallExpression.ResolvedDefaults (spec.md
	// §4.2 "Default parameter handling"). types.FunctionType itself only
	// carries a bool per parameter, not the expression, since internal/types
	// cannot depend on internal/ast.
	funcDefaults   map[string][]ast.Expression
	methodDefaults map[string]map[string][]ast.Expression
	ctorDefaults   map[string][]ast.Expression
	ctorParams     map[string][]types.Type

	global *Scope

	currentClass  *types.ClassType
	currentStatic bool
	currentReturn types.Type

	errs []*cerrors.CompilerError
}

// Program is the resolved symbol information codegen needs alongside the
// annotated AST itself: the class table (with flattened ancestor chains),
// free-function signatures, and module-level constant types. Expression
// nodes already carry their own resolved type via GetType(); this struct
// supplies the declaration-level information no single expression node
// holds (spec.md §4.2 "The annotated AST it produces is the contract with
// internal/codegen").
type Program struct {
	Classes        map[string]*types.ClassType
	Functions      map[string]*types.FunctionType
	Constants      map[string]types.Type
	CtorDefaults   map[string][]ast.Expression
	CtorParams     map[string][]types.Type
	FuncDefaults   map[string][]ast.Expression
	MethodDefaults map[string]map[string][]ast.Expression
}

// Analyze type-checks mod in place and returns the resolved Program
// alongside accumulated diagnostics. Codegen may proceed only when the
// diagnostic list is empty (spec.md §7 "compiler attempts to surface
// multiple errors per run").
func Analyze(mod *ast.Module, source, file string) (*Program, []*cerrors.CompilerError) {
	a := &Analyzer{
		mod:       mod,
		source:    source,
		file:      file,
		std:       stdlib.New(),
		classes:        map[string]*types.ClassType{},
		functions:      map[string]*types.FunctionType{},
		constants:      map[string]types.Type{},
		funcDefaults:   map[string][]ast.Expression{},
		methodDefaults: map[string]map[string][]ast.Expression{},
		ctorDefaults:   map[string][]ast.Expression{},
		ctorParams:     map[string][]types.Type{},
		global:         NewScope(nil),
	}
	a.registerPass1()
	a.resolveInheritance()
	a.checkAllBodies()
	prog := &Program{
		Classes:        a.classes,
		Functions:      a.functions,
		Constants:      a.constants,
		CtorDefaults:   a.ctorDefaults,
		CtorParams:     a.ctorParams,
		FuncDefaults:   a.funcDefaults,
		MethodDefaults: a.methodDefaults,
	}
	return prog, a.errs
}

func (a *Analyzer) errorf(kind cerrors.Kind, pos lexer.Position, format string, args ...interface{}) {
	a.errs = append(a.errs, cerrors.New(kind, pos, fmt.Sprintf(format, args...), a.source, a.file))
}

// registerPass1 collects all class names, function signatures, constants,
// and imports at module level (spec.md §4.2 "Symbol registration order",
// step 1).
func (a *Analyzer) registerPass1() {
	for _, imp := range a.mod.Imports {
		// Cross-module analysis is out of this compiler's single-source-unit
		// scope (pkg/clean.Compile takes one source string); an imported
		// name is registered as Any so call sites type-check permissively
		// and codegen emits it as a WASM import entry (spec.md §3.2
		// ImportItem "mapped to WASM import entry in codegen").
		a.global.Define(&Symbol{Name: imp.LocalAlias, Kind: SymVar, Type: types.Any, Pos: imp.Pos()})
	}

	for _, cd := range a.mod.Classes {
		if _, exists := a.classes[cd.Name]; exists {
			a.errorf(cerrors.NameError, cd.Pos(), "duplicate class name %q", cd.Name)
			continue
		}
		a.classes[cd.Name] = &types.ClassType{
			Name:       cd.Name,
			FieldIndex: map[string]int{},
			Methods:    map[string]*types.FunctionType{},
			StaticOnly: map[string]bool{},
		}
	}

	for _, fn := range a.mod.Functions {
		if _, exists := a.functions[fn.Name]; exists {
			a.errorf(cerrors.NameError, fn.Pos(), "duplicate function name %q", fn.Name)
			continue
		}
		a.functions[fn.Name] = a.signatureOf(fn)
		a.funcDefaults[fn.Name] = defaultsOf(fn)
	}

	for _, cd := range a.mod.Constants {
		scope := NewScope(a.global)
		ty := a.checkExpr(&cd.Value, scope)
		if _, exists := a.constants[cd.Name]; exists {
			a.errorf(cerrors.NameError, cd.Pos(), "duplicate constant name %q", cd.Name)
			continue
		}
		a.constants[cd.Name] = ty
		a.global.Define(&Symbol{Name: cd.Name, Kind: SymConst, Type: ty, Pos: cd.Pos()})
	}
}

// signatureOf builds a FunctionType from a declaration's parameter and
// return type annotations, without checking the body.
func (a *Analyzer) signatureOf(fn *ast.FunctionDecl) *types.FunctionType {
	ft := &types.FunctionType{Name: fn.Name, Background: fn.Background}
	for _, p := range fn.Params {
		pt := a.resolveTypeExpr(p.Type)
		ft.Params = append(ft.Params, pt)
		ft.ParamNames = append(ft.ParamNames, p.Name)
		ft.Defaults = append(ft.Defaults, p.Default != nil)
	}
	if fn.ReturnType != nil {
		ft.Return = a.resolveTypeExpr(fn.ReturnType)
	} else {
		ft.Return = types.Void
	}
	return ft
}

func defaultsOf(fn *ast.FunctionDecl) []ast.Expression {
	out := make([]ast.Expression, len(fn.Params))
	for i, p := range fn.Params {
		out[i] = p.Default
	}
	return out
}

// resolveTypeExpr maps a parsed TypeExpression to a types.Type, emitting a
// NameError for an unknown class reference (spec.md §3.1 "Future<T> is not
// first-class" is enforced by callers, not here).
func (a *Analyzer) resolveTypeExpr(te *ast.TypeExpression) types.Type {
	if te == nil {
		return types.Void
	}
	switch te.Name {
	case "Boolean":
		return types.Boolean
	case "Integer":
		return types.Integer
	case "Number":
		return types.Number
	case "String":
		return types.String
	case "Void":
		return types.Void
	case "Any":
		return types.Any
	case "List":
		elem := types.Type(types.Any)
		if len(te.Params) > 0 {
			elem = a.resolveTypeExpr(te.Params[0])
		}
		return &types.ListType{Elem: elem}
	case "Matrix":
		elem := types.Type(types.Any)
		if len(te.Params) > 0 {
			elem = a.resolveTypeExpr(te.Params[0])
		}
		return &types.MatrixType{Elem: elem}
	case "Pairs":
		key, val := types.Type(types.Any), types.Type(types.Any)
		if len(te.Params) > 0 {
			key = a.resolveTypeExpr(te.Params[0])
		}
		if len(te.Params) > 1 {
			val = a.resolveTypeExpr(te.Params[1])
		}
		return &types.PairsType{Key: key, Value: val}
	case "Future":
		a.errorf(cerrors.TypeError, te.Pos(), "Future<T> is not a first-class type; it may only appear as the implicit result of 'start'")
		return types.Any
	default:
		if cls, ok := a.classes[te.Name]; ok {
			return cls
		}
		a.errorf(cerrors.NameError, te.Pos(), "unknown type %q", te.Name)
		return types.Any
	}
}
