package semantic

import (
	"github.com/clean-lang/cleanc/internal/ast"
	cerrors "github.com/clean-lang/cleanc/internal/errors"
	"github.com/clean-lang/cleanc/internal/stdlib"
	"github.com/clean-lang/cleanc/internal/types"
)

// checkExpr type-checks the expression at *e and annotates its node with
// the resolved type. It takes a pointer to the expression slot because
// some lowerings (future-read, string interpolation) must replace the
// node in place (spec.md §3.1 "no node may remain with an unresolved
// placeholder", §4.4.5 interpolation lowering).
func (a *Analyzer) checkExpr(e *ast.Expression, scope *Scope) types.Type {
	switch n := (*e).(type) {
	case *ast.Identifier:
		return a.checkIdentifier(e, n, scope)
	case *ast.IntegerLiteral:
		n.SetType(types.Integer)
		return types.Integer
	case *ast.NumberLiteral:
		n.SetType(types.Number)
		return types.Number
	case *ast.BooleanLiteral:
		n.SetType(types.Boolean)
		return types.Boolean
	case *ast.StringLiteral:
		n.SetType(types.String)
		return types.String
	case *ast.InterpolatedString:
		return a.lowerInterpolatedString(e, n, scope)
	case *ast.PrefixExpression:
		return a.checkPrefix(n, scope)
	case *ast.BinaryExpression:
		return a.checkBinary(n, scope)
	case *ast.OnErrorExpression:
		return a.checkOnError(n, scope)
	case *ast.CallExpression:
		return a.checkCall(n, scope)
	case *ast.MemberExpression:
		return a.checkMember(n, scope)
	case *ast.IndexExpression:
		return a.checkIndex(n, scope)
	case *ast.NewExpression:
		return a.checkNew(n, scope)
	case *ast.ListLiteral:
		return a.checkListLiteral(n, scope)
	case *ast.StartExpression:
		return a.checkStart(n, scope)
	case *ast.FutureReadExpression:
		return n.GetType()
	}
	return types.Any
}

func (a *Analyzer) checkIdentifier(e *ast.Expression, id *ast.Identifier, scope *Scope) types.Type {
	if sym, ok := scope.Resolve(id.Value); ok {
		id.SetType(sym.Type)
		if sym.Later {
			fr := ast.NewFutureReadExpression(id, id.Token)
			fr.SetType(sym.Type)
			*e = fr
		}
		return sym.Type
	}
	if ty, ok := a.constants[id.Value]; ok {
		id.SetType(ty)
		return ty
	}
	if a.currentClass != nil && !a.currentStatic {
		if f, _, found := a.currentClass.LookupField(id.Value); found {
			id.SetType(f.Type)
			return f.Type
		}
	}
	a.errorf(cerrors.NameError, id.Pos(), "undefined name %q", id.Value)
	id.SetType(types.Any)
	return types.Any
}

func (a *Analyzer) checkPrefix(n *ast.PrefixExpression, scope *Scope) types.Type {
	rt := a.checkExpr(&n.Right, scope)
	switch n.Operator {
	case "not":
		if rt.Kind() != types.KindBoolean {
			a.errorf(cerrors.TypeError, n.Pos(), "'not' requires a Boolean operand, got %s", rt)
		}
		n.SetType(types.Boolean)
		return types.Boolean
	case "-":
		if !types.IsNumeric(rt) {
			a.errorf(cerrors.TypeError, n.Pos(), "unary '-' requires a numeric operand, got %s", rt)
			n.SetType(types.Number)
			return types.Number
		}
		n.SetType(rt)
		return rt
	}
	n.SetType(types.Any)
	return types.Any
}

func (a *Analyzer) checkBinary(n *ast.BinaryExpression, scope *Scope) types.Type {
	lt := a.checkExpr(&n.Left, scope)
	rt := a.checkExpr(&n.Right, scope)

	switch n.Operator {
	case "+":
		if lt.Kind() == types.KindString && rt.Kind() == types.KindString {
			n.SetType(types.String)
			return types.String
		}
		return a.checkArithmetic(n, lt, rt)
	case "-", "*", "/", "%":
		return a.checkArithmetic(n, lt, rt)
	case "^":
		if !types.IsNumeric(lt) || !types.IsNumeric(rt) {
			a.errorf(cerrors.TypeError, n.Pos(), "'^' requires numeric operands, got %s and %s", lt, rt)
			n.SetType(types.Number)
			return types.Number
		}
		if lt.Kind() == types.KindNumber || rt.Kind() == types.KindNumber {
			n.SetType(types.Number)
			return types.Number
		}
		n.SetType(types.Integer)
		return types.Integer
	case "==", "!=", "is", "is not":
		n.SetType(types.Boolean)
		return types.Boolean
	case "<", ">", "<=", ">=":
		numeric := types.IsNumeric(lt) && types.IsNumeric(rt)
		strings := lt.Kind() == types.KindString && rt.Kind() == types.KindString
		if !numeric && !strings {
			a.errorf(cerrors.TypeError, n.Pos(), "relational operator requires two Numbers, two Integers, or two Strings, got %s and %s", lt, rt)
		}
		n.SetType(types.Boolean)
		return types.Boolean
	case "and", "or":
		if lt.Kind() != types.KindBoolean || rt.Kind() != types.KindBoolean {
			a.errorf(cerrors.TypeError, n.Pos(), "'%s' requires Boolean operands, got %s and %s", n.Operator, lt, rt)
		}
		n.SetType(types.Boolean)
		return types.Boolean
	}
	n.SetType(types.Any)
	return types.Any
}

func (a *Analyzer) checkArithmetic(n *ast.BinaryExpression, lt, rt types.Type) types.Type {
	if !types.IsNumeric(lt) || !types.IsNumeric(rt) {
		a.errorf(cerrors.TypeError, n.Pos(), "arithmetic operator %q requires numeric operands, got %s and %s", n.Operator, lt, rt)
		n.SetType(types.Number)
		return types.Number
	}
	result := types.Widen(lt, rt)
	n.SetType(result)
	return result
}

func (a *Analyzer) checkOnError(n *ast.OnErrorExpression, scope *Scope) types.Type {
	tt := a.checkExpr(&n.Try, scope)
	ft := a.checkExpr(&n.Fallback, scope)
	if !types.AssignableTo(ft, tt) && !types.AssignableTo(tt, ft) {
		a.errorf(cerrors.TypeError, n.Pos(), "onError fallback type %s is not compatible with %s", ft, tt)
	}
	n.SetType(tt)
	return tt
}

func (a *Analyzer) checkCall(n *ast.CallExpression, scope *Scope) types.Type {
	if id, ok := n.Function.(*ast.Identifier); ok {
		if id.Value == "base" {
			if a.currentClass != nil && a.currentClass.Parent != nil {
				if _, hasCtor := a.ctorParams[a.currentClass.Parent.Name]; !hasCtor && len(n.Arguments) > 0 {
					a.errorf(cerrors.ArityError, n.Pos(), "class %s has no declared constructor; base expected 0 arguments, got %d", a.currentClass.Parent.Name, len(n.Arguments))
				}
			}
			for i := range n.Arguments {
				a.checkExpr(&n.Arguments[i], scope)
			}
			n.SetType(types.Void)
			return types.Void
		}
		if ft, ok := a.functions[id.Value]; ok {
			a.checkArgsAgainstSignature(n, ft.Params, a.funcDefaults[id.Value], scope, id.Value)
			n.SetType(ft.Return)
			return ft.Return
		}
		if m, ok := a.std.Lookup("", id.Value); ok {
			if (id.Value == "print" || id.Value == "println") && len(n.Arguments) == 1 {
				// A non-String argument is printed through an implicit toString,
				// exactly as an interpolated chunk is.
				if at := a.checkExpr(&n.Arguments[0], scope); at.Kind() != types.KindString {
					conv := &ast.CallExpression{Token: n.Token, Function: &ast.Identifier{Token: n.Token, Value: "toString"}, Arguments: []ast.Expression{n.Arguments[0]}}
					conv.SetType(types.String)
					n.Arguments[0] = conv
				}
				n.SetType(m.Return)
				return m.Return
			}
			a.checkArgsAgainstMethod(n, m, scope)
			n.SetType(m.Return)
			return m.Return
		}
		a.errorf(cerrors.NameError, id.Pos(), "undefined function %q", id.Value)
		for i := range n.Arguments {
			a.checkExpr(&n.Arguments[i], scope)
		}
		n.SetType(types.Any)
		return types.Any
	}
	if me, ok := n.Function.(*ast.MemberExpression); ok {
		return a.checkMethodCall(n, me, scope)
	}
	a.checkExpr(&n.Function, scope)
	for i := range n.Arguments {
		a.checkExpr(&n.Arguments[i], scope)
	}
	n.SetType(types.Any)
	return types.Any
}

// checkMethodCall resolves `obj.m(args)`, `Class.m(args)` (static), and
// built-in-class method calls, with the ancestor-chain-then-global-
// fallback rule from spec.md §4.2 "Method call".
func (a *Analyzer) checkMethodCall(call *ast.CallExpression, me *ast.MemberExpression, scope *Scope) types.Type {
	if id, ok := me.Object.(*ast.Identifier); ok {
		if _, isVar := scope.Resolve(id.Value); !isVar {
			if cls, ok := a.classes[id.Value]; ok {
				return a.checkStaticCall(call, cls, me, scope)
			}
			if a.std.HasClass(id.Value) {
				return a.checkBuiltinStaticCall(call, id.Value, me, scope)
			}
		}
	}

	objType := a.checkExpr(&me.Object, scope)
	switch ot := objType.(type) {
	case *types.ClassType:
		if fn, owner := ot.LookupMethod(me.Property); fn != nil {
			if owner.StaticOnly[me.Property] {
				a.errorf(cerrors.TypeError, call.Pos(), "%s is a static method; call it as %s.%s(...)", me.Property, ot.Name, me.Property)
			}
			a.checkArgsAgainstSignature(call, fn.Params, a.methodDefaults[owner.Name][me.Property], scope, ot.Name+"."+me.Property)
			call.SetType(fn.Return)
			return fn.Return
		}
		fallbackName := ot.Name + "_" + me.Property
		if fn, ok := a.functions[fallbackName]; ok {
			params := append([]types.Type{ot}, fn.Params...)
			a.checkArgsAgainstSignature(call, params[1:], a.funcDefaults[fallbackName], scope, fallbackName)
			call.SetType(fn.Return)
			return fn.Return
		}
		a.errorf(cerrors.NameError, me.Pos(), "no method %q on class %s or its ancestors", me.Property, ot.Name)
	case *types.ListType:
		return a.checkStdlibInstanceCall(call, "List", ot.Elem, me, scope)
	case *types.MatrixType:
		return a.checkStdlibInstanceCall(call, "Matrix", ot.Elem, me, scope)
	case *types.Primitive:
		if ot.K == types.KindString {
			return a.checkStdlibInstanceCall(call, "String", types.String, me, scope)
		}
	}
	call.SetType(types.Any)
	return types.Any
}

func (a *Analyzer) checkStaticCall(call *ast.CallExpression, cls *types.ClassType, me *ast.MemberExpression, scope *Scope) types.Type {
	fn, owner := cls.LookupMethod(me.Property)
	if fn == nil {
		a.errorf(cerrors.NameError, me.Pos(), "no method %q on class %s", me.Property, cls.Name)
		call.SetType(types.Any)
		return types.Any
	}
	if !owner.StaticOnly[me.Property] {
		a.errorf(cerrors.TypeError, me.Pos(), "%s.%s is not declared static", cls.Name, me.Property)
	}
	a.checkArgsAgainstSignature(call, fn.Params, a.methodDefaults[owner.Name][me.Property], scope, cls.Name+"."+me.Property)
	call.SetType(fn.Return)
	return fn.Return
}

func (a *Analyzer) checkBuiltinStaticCall(call *ast.CallExpression, class string, me *ast.MemberExpression, scope *Scope) types.Type {
	m, ok := a.std.Lookup(class, me.Property)
	if !ok {
		a.errorf(cerrors.NameError, me.Pos(), "no method %q on %s", me.Property, class)
		call.SetType(types.Any)
		return types.Any
	}
	a.checkArgsAgainstMethod(call, m, scope)
	call.SetType(m.Return)
	return m.Return
}

func (a *Analyzer) checkStdlibInstanceCall(call *ast.CallExpression, class string, elem types.Type, me *ast.MemberExpression, scope *Scope) types.Type {
	m, ok := a.std.Lookup(class, me.Property)
	if !ok {
		a.errorf(cerrors.NameError, me.Pos(), "no method %q on %s", me.Property, class)
		call.SetType(types.Any)
		return types.Any
	}
	params := make([]types.Type, len(m.Params))
	for i, p := range m.Params {
		params[i] = substituteAny(p, elem)
	}
	ret := substituteAny(m.Return, elem)
	a.checkArgsAgainstSignature(call, params, nil, scope, class+"."+me.Property)
	call.SetType(ret)
	return ret
}

func substituteAny(t, elem types.Type) types.Type {
	if t.Kind() == types.KindAny {
		return elem
	}
	return t
}

func (a *Analyzer) checkMember(n *ast.MemberExpression, scope *Scope) types.Type {
	objType := a.checkExpr(&n.Object, scope)
	if cls, ok := objType.(*types.ClassType); ok {
		f, owner, found := cls.LookupField(n.Property)
		if !found {
			a.errorf(cerrors.NameError, n.Pos(), "no field %q on class %s", n.Property, cls.Name)
			n.SetType(types.Any)
			return types.Any
		}
		if f.Private && (a.currentClass == nil || a.currentClass.Name != owner.Name) {
			a.errorf(cerrors.VisibilityError, n.Pos(), "field %q of class %s is private", n.Property, owner.Name)
		}
		n.SetType(f.Type)
		return f.Type
	}
	if _, ok := objType.(*types.ListType); ok && n.Property == "length" {
		n.SetType(types.Integer)
		return types.Integer
	}
	a.errorf(cerrors.NameError, n.Pos(), "cannot access property %q on %s", n.Property, objType)
	n.SetType(types.Any)
	return types.Any
}

func (a *Analyzer) checkIndex(n *ast.IndexExpression, scope *Scope) types.Type {
	lt := a.checkExpr(&n.Left, scope)
	it := a.checkExpr(&n.Index, scope)
	if it.Kind() != types.KindInteger {
		a.errorf(cerrors.TypeError, n.Pos(), "index must be Integer, got %s", it)
	}
	switch v := lt.(type) {
	case *types.ListType:
		n.SetType(v.Elem)
		return v.Elem
	case *types.MatrixType:
		n.SetType(v.Elem)
		return v.Elem
	}
	a.errorf(cerrors.TypeError, n.Pos(), "cannot index type %s", lt)
	n.SetType(types.Any)
	return types.Any
}

func (a *Analyzer) checkNew(n *ast.NewExpression, scope *Scope) types.Type {
	cls, ok := a.classes[n.ClassName]
	if !ok {
		a.errorf(cerrors.NameError, n.Pos(), "unknown class %q", n.ClassName)
		for i := range n.Arguments {
			a.checkExpr(&n.Arguments[i], scope)
		}
		n.SetType(types.Any)
		return types.Any
	}
	n.SetType(cls)
	params, hasCtor := a.ctorParams[cls.Name]
	if !hasCtor {
		if len(n.Arguments) > 0 {
			a.errorf(cerrors.ArityError, n.Pos(), "class %s has no declared constructor; expected 0 arguments, got %d", cls.Name, len(n.Arguments))
		}
		for i := range n.Arguments {
			a.checkExpr(&n.Arguments[i], scope)
		}
		return cls
	}
	if len(n.Arguments) > len(params) {
		a.errorf(cerrors.ArityError, n.Pos(), "%s constructor expects at most %d argument(s), got %d", cls.Name, len(params), len(n.Arguments))
	}
	limit := len(n.Arguments)
	if limit > len(params) {
		limit = len(params)
	}
	for i := 0; i < limit; i++ {
		at := a.checkExpr(&n.Arguments[i], scope)
		if !types.AssignableTo(at, params[i]) {
			a.errorf(cerrors.TypeError, n.Pos(), "argument %d to %s constructor: cannot use %s as %s", i+1, cls.Name, at, params[i])
		}
	}
	if limit < len(params) {
		defaults := a.ctorDefaults[cls.Name]
		for i := limit; i < len(params); i++ {
			if defaults == nil || defaults[i] == nil {
				a.errorf(cerrors.ArityError, n.Pos(), "%s constructor missing required argument %d", cls.Name, i+1)
			}
		}
	}
	return cls
}

func (a *Analyzer) checkListLiteral(n *ast.ListLiteral, scope *Scope) types.Type {
	elem := types.Type(types.Any)
	for i := range n.Elements {
		et := a.checkExpr(&n.Elements[i], scope)
		switch {
		case i == 0:
			elem = et
		case elem.Equals(et):
			// already consistent
		case types.IsNumeric(elem) && types.IsNumeric(et):
			elem = types.Widen(elem, et)
		default:
			a.errorf(cerrors.TypeError, n.Pos(), "inconsistent list element types: %s and %s", elem, et)
		}
	}
	lt := &types.ListType{Elem: elem}
	n.SetType(lt)
	return lt
}

func (a *Analyzer) checkStart(n *ast.StartExpression, scope *Scope) types.Type {
	ct := a.checkExpr(&n.Call, scope)
	if _, ok := n.Call.(*ast.CallExpression); !ok {
		a.errorf(cerrors.UnsupportedConstruct, n.Pos(), "'start' requires a call expression")
	}
	ft := &types.FutureType{Elem: ct}
	n.SetType(ft)
	return ft
}

func (a *Analyzer) checkArgsAgainstMethod(call *ast.CallExpression, m *stdlib.Method, scope *Scope) {
	name := m.Name
	if m.Class != "" {
		name = m.Class + "." + m.Name
	}
	if len(call.Arguments) != len(m.Params) {
		a.errorf(cerrors.ArityError, call.Pos(), "%s expects %d argument(s), got %d", name, len(m.Params), len(call.Arguments))
	}
	n := len(call.Arguments)
	if n > len(m.Params) {
		n = len(m.Params)
	}
	for i := 0; i < n; i++ {
		at := a.checkExpr(&call.Arguments[i], scope)
		if m.Params[i].Kind() != types.KindAny && !types.AssignableTo(at, m.Params[i]) {
			a.errorf(cerrors.TypeError, call.Pos(), "argument %d to %s: cannot use %s as %s", i+1, name, at, m.Params[i])
		}
	}
	for i := n; i < len(call.Arguments); i++ {
		a.checkExpr(&call.Arguments[i], scope)
	}
}

func (a *Analyzer) checkArgsAgainstSignature(call *ast.CallExpression, params []types.Type, defaults []ast.Expression, scope *Scope, name string) {
	n := len(call.Arguments)
	if n > len(params) {
		a.errorf(cerrors.ArityError, call.Pos(), "%s expects at most %d argument(s), got %d", name, len(params), n)
		n = len(params)
	}
	for i := 0; i < n; i++ {
		at := a.checkExpr(&call.Arguments[i], scope)
		if !types.AssignableTo(at, params[i]) {
			a.errorf(cerrors.TypeError, call.Pos(), "argument %d to %s: cannot use %s as %s", i+1, name, at, params[i])
		}
	}
	for i := n; i < len(params); i++ {
		if defaults == nil || i >= len(defaults) || defaults[i] == nil {
			a.errorf(cerrors.ArityError, call.Pos(), "%s missing required argument %d", name, i+1)
			continue
		}
		call.ResolvedDefaults = append(call.ResolvedDefaults, defaults[i])
	}
}

// lowerInterpolatedString rewrites `"text{expr}more"` into a chain of
// String `+` concatenations, wrapping any non-String chunk in a call to
// the registered `toString` conversion (spec.md §4.4.5; SPEC_FULL.md
// "lowered into chained string_concat/toString calls" — concretely `+` is
// that chain here, since `+` already concatenates Strings per spec.md
// §4.2, rather than inventing a separate string_concat intrinsic).
func (a *Analyzer) lowerInterpolatedString(e *ast.Expression, n *ast.InterpolatedString, scope *Scope) types.Type {
	var result ast.Expression
	for i := range n.Parts {
		part := &n.Parts[i]
		var chunk ast.Expression
		if part.Expr == nil {
			lit := &ast.StringLiteral{Token: n.Token, Value: part.Text}
			lit.SetType(types.String)
			chunk = lit
		} else {
			pt := a.checkExpr(&part.Expr, scope)
			if pt.Kind() == types.KindString {
				chunk = part.Expr
			} else {
				call := &ast.CallExpression{
					Token:    n.Token,
					Function: &ast.Identifier{Token: n.Token, Value: "toString"},
					Arguments: []ast.Expression{part.Expr},
				}
				call.SetType(types.String)
				chunk = call
			}
		}
		if result == nil {
			result = chunk
			continue
		}
		bin := &ast.BinaryExpression{Token: n.Token, Left: result, Operator: "+", Right: chunk}
		bin.SetType(types.String)
		result = bin
	}
	if result == nil {
		lit := &ast.StringLiteral{Token: n.Token, Value: ""}
		lit.SetType(types.String)
		result = lit
	}
	*e = result
	return types.String
}
