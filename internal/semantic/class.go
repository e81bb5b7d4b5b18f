package semantic

import (
	"github.com/clean-lang/cleanc/internal/ast"
	cerrors "github.com/clean-lang/cleanc/internal/errors"
	"github.com/clean-lang/cleanc/internal/types"
)

// resolveInheritance is pass 2 of spec.md §4.2's registration order:
// resolve class parent links, reject cycles, then expand each class's own
// (not yet flattened) field and method tables. types.ClassType.AllFields
// and LookupMethod compute the ancestor-aware view lazily from here on.
func (a *Analyzer) resolveInheritance() {
	for _, cd := range a.mod.Classes {
		if cd.Parent == "" {
			continue
		}
		ct := a.classes[cd.Name]
		parent, ok := a.classes[cd.Parent]
		if !ok {
			a.errorf(cerrors.InheritanceError, cd.Pos(), "class %q has unknown parent %q", cd.Name, cd.Parent)
			continue
		}
		ct.Parent = parent
	}

	for _, cd := range a.mod.Classes {
		ct := a.classes[cd.Name]
		seen := map[string]bool{}
		for cur := ct; cur != nil; cur = cur.Parent {
			if seen[cur.Name] {
				a.errorf(cerrors.InheritanceError, cd.Pos(), "cyclic inheritance involving class %q", cd.Name)
				ct.Parent = nil
				break
			}
			seen[cur.Name] = true
		}
	}

	for _, cd := range a.mod.Classes {
		ct := a.classes[cd.Name]
		for _, f := range cd.Fields {
			if _, exists := ct.FieldIndex[f.Name]; exists {
				a.errorf(cerrors.NameError, cd.Pos(), "duplicate field %q in class %q", f.Name, cd.Name)
				continue
			}
			ft := a.resolveTypeExpr(f.Type)
			ct.FieldIndex[f.Name] = len(ct.Fields)
			ct.Fields = append(ct.Fields, types.FieldInfo{Name: f.Name, Type: ft, Private: f.Private})
		}
		methodDefaults := map[string][]ast.Expression{}
		for _, m := range cd.Methods {
			ct.Methods[m.Name] = a.signatureOf(m)
			methodDefaults[m.Name] = defaultsOf(m)
			if m.IsStatic {
				ct.StaticOnly[m.Name] = true
			}
		}
		a.methodDefaults[cd.Name] = methodDefaults

		if cd.Constructor != nil {
			a.ctorDefaults[cd.Name] = defaultsOf(cd.Constructor)
			params := make([]types.Type, len(cd.Constructor.Params))
			for i, p := range cd.Constructor.Params {
				params[i] = a.resolveTypeExpr(p.Type)
			}
			a.ctorParams[cd.Name] = params
		}
	}
}

// checkAllBodies is pass 3: type-check function bodies and class-method
// bodies now that every signature is registered (spec.md §4.2 "Symbol
// registration order", step 2).
func (a *Analyzer) checkAllBodies() {
	for _, fn := range a.mod.Functions {
		a.checkFunction(fn, nil)
	}
	for _, cd := range a.mod.Classes {
		ct := a.classes[cd.Name]
		if cd.Constructor != nil {
			a.checkConstructor(cd, ct)
		}
		for _, m := range cd.Methods {
			a.checkFunction(m, ct)
		}
	}
	if a.mod.Start != nil {
		a.checkFunction(a.mod.Start, nil)
	}
}

func (a *Analyzer) checkFunction(fn *ast.FunctionDecl, cls *types.ClassType) {
	scope := NewScope(a.global)
	a.currentClass = cls
	a.currentStatic = fn.IsStatic
	a.currentReturn = a.resolveTypeExpr(fn.ReturnType)

	a.bindParams(fn, cls, scope)
	a.checkBlock(fn.Body, scope)

	a.currentClass = nil
	a.currentStatic = false
	a.currentReturn = nil
}

func (a *Analyzer) checkConstructor(cd *ast.ClassDecl, ct *types.ClassType) {
	fn := cd.Constructor
	scope := NewScope(a.global)
	a.currentClass = ct
	a.currentStatic = false
	a.currentReturn = types.Void

	a.bindParams(fn, ct, scope)

	stmts := fn.Body.Statements
	baseAt := -1
	for i, s := range stmts {
		if isBaseCall(s) {
			baseAt = i
			break
		}
	}
	if ct.Parent != nil && parentHasConstructor(ct) {
		if baseAt != 0 {
			a.errorf(cerrors.InheritanceError, fn.Pos(), "constructor of %q must call base(...) as its first statement", cd.Name)
		}
	} else if baseAt > 0 {
		a.errorf(cerrors.InheritanceError, fn.Pos(), "base(...) call must be the first statement")
	}

	a.checkBlock(fn.Body, scope)
	a.currentClass = nil
	a.currentReturn = nil
}

func (a *Analyzer) bindParams(fn *ast.FunctionDecl, cls *types.ClassType, scope *Scope) {
	for _, p := range fn.Params {
		pt := a.resolveTypeExpr(p.Type)
		if cls != nil {
			if _, _, found := cls.LookupField(p.Name); found {
				a.errorf(cerrors.InheritanceError, fn.Pos(), "parameter %q collides with a field of the same name", p.Name)
			}
		}
		if !scope.Define(&Symbol{Name: p.Name, Kind: SymParam, Type: pt, Pos: fn.Pos()}) {
			a.errorf(cerrors.NameError, fn.Pos(), "duplicate parameter name %q", p.Name)
		}
		if p.Default != nil {
			dt := a.checkExpr(&p.Default, scope)
			if !types.AssignableTo(dt, pt) {
				a.errorf(cerrors.TypeError, fn.Pos(), "default value for parameter %q is not assignable to %s", p.Name, pt)
			}
		}
	}
}

func isBaseCall(s ast.Statement) bool {
	es, ok := s.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	call, ok := es.Expr.(*ast.CallExpression)
	if !ok {
		return false
	}
	id, ok := call.Function.(*ast.Identifier)
	return ok && id.Value == "base"
}

func parentHasConstructor(ct *types.ClassType) bool {
	// types.ClassType does not carry constructor arity directly (it is a
	// type-system view, not an AST view); a parent "has" a constructor for
	// this check whenever it exists at all, since spec.md leaves "trivial"
	// undefined and a parent without a declared constructor still has the
	// implicit one that codegen generates (SPEC_FULL.md SUPPLEMENTED FEATURES).
	return ct.Parent != nil
}
