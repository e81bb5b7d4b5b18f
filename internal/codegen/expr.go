package codegen

import (
	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/stdlib"
	"github.com/clean-lang/cleanc/internal/types"
	"github.com/clean-lang/cleanc/internal/wasmbin"
)

// callArgs concatenates a call's explicit arguments with the trailing
// default-value expressions semantic analysis resolved for omitted
// parameters (semantic.checkArgsAgainstSignature populates
// call.ResolvedDefaults only for missing trailing params that have one).
func callArgs(call *ast.CallExpression) []ast.Expression {
	if len(call.ResolvedDefaults) == 0 {
		return call.Arguments
	}
	out := make([]ast.Expression, 0, len(call.Arguments)+len(call.ResolvedDefaults))
	out = append(out, call.Arguments...)
	out = append(out, call.ResolvedDefaults...)
	return out
}

// emitExpr lowers one already-type-checked expression, leaving its value
// (or nothing, for Void calls) on top of the operand stack.
func (c *Compiler) emitExpr(fc *funcCtx, e ast.Expression) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		if types.IntWidth(n.GetType()) == 64 {
			fc.b.I64Const(n.Value)
		} else {
			fc.b.I32Const(int32(n.Value))
		}
	case *ast.NumberLiteral:
		if types.NumWidth(n.GetType()) == 32 {
			fc.b.F32Const(float32(n.Value))
		} else {
			fc.b.F64Const(n.Value)
		}
	case *ast.BooleanLiteral:
		if n.Value {
			fc.b.I32Const(1)
		} else {
			fc.b.I32Const(0)
		}
	case *ast.StringLiteral:
		fc.b.I32Const(int32(c.intern(n.Value)))
	case *ast.Identifier:
		c.emitIdentifier(fc, n)
	case *ast.PrefixExpression:
		c.emitPrefix(fc, n)
	case *ast.BinaryExpression:
		c.emitBinary(fc, n)
	case *ast.OnErrorExpression:
		c.emitOnError(fc, n)
	case *ast.CallExpression:
		c.emitCall(fc, n)
	case *ast.MemberExpression:
		c.emitMember(fc, n)
	case *ast.IndexExpression:
		c.emitIndexRead(fc, n)
	case *ast.NewExpression:
		c.emitNew(fc, n)
	case *ast.ListLiteral:
		c.emitListLiteral(fc, n)
	case *ast.StartExpression:
		c.emitStartExpr(fc, n)
	case *ast.FutureReadExpression:
		c.emitFutureRead(fc, n)
	default:
		c.errorf(e.Pos(), "internal error: unsupported expression %T reached codegen", e)
	}
}

func (c *Compiler) emitIdentifier(fc *funcCtx, n *ast.Identifier) {
	idx, isLocal, fieldType, isField := fc.resolve(n.Value)
	switch {
	case isLocal:
		fc.b.LocalGet(idx)
	case isField:
		fc.b.LocalGet(0)
		off := c.classLayouts[fc.selfClass.Name].fieldOffset[n.Value]
		fc.b.Mem(loadOpFor(fieldType), alignFor(fieldType), uint32(off))
	default:
		if expr, ok := c.constExpr[n.Value]; ok {
			c.emitExpr(fc, expr)
			return
		}
		c.errorf(n.Pos(), "internal error: unresolved identifier %q reached codegen", n.Value)
	}
}

func (c *Compiler) emitPrefix(fc *funcCtx, n *ast.PrefixExpression) {
	switch n.Operator {
	case "not":
		c.emitExpr(fc, n.Right)
		fc.b.Op(wasmbin.OpI32Eqz)
	case "-":
		switch valTypeOf(n.GetType()) {
		case wasmbin.ValI64:
			// No native i64 negate opcode; 0 - x, the standard idiom.
			fc.b.I64Const(0)
			c.emitExpr(fc, n.Right)
			fc.b.Op(wasmbin.OpI64Sub)
		case wasmbin.ValF64:
			c.emitExpr(fc, n.Right)
			fc.b.Op(wasmbin.OpF64Neg)
		case wasmbin.ValF32:
			c.emitExpr(fc, n.Right)
			fc.b.Op(wasmbin.OpF64PromoteF32)
			fc.b.Op(wasmbin.OpF64Neg)
			fc.b.Op(wasmbin.OpF32DemoteF64)
		default:
			fc.b.I32Const(0)
			c.emitExpr(fc, n.Right)
			fc.b.Op(wasmbin.OpI32Sub)
		}
	default:
		c.errorf(n.Pos(), "internal error: unknown prefix operator %q", n.Operator)
	}
}

// compareWorkType picks the type a relational/equality comparison should
// actually convert its operands to: identical to the Widen'd type, except
// Number32 is promoted to Number since no f32 comparison opcode exists in
// this instruction subset.
func compareWorkType(widened types.Type) types.Type {
	if valTypeOf(widened) == wasmbin.ValF32 {
		return types.Number
	}
	return widened
}

func (c *Compiler) emitBinary(fc *funcCtx, n *ast.BinaryExpression) {
	switch n.Operator {
	case "and":
		c.emitExpr(fc, n.Left)
		c.emitExpr(fc, n.Right)
		fc.b.Op(wasmbin.OpI32And)
	case "or":
		c.emitExpr(fc, n.Left)
		c.emitExpr(fc, n.Right)
		fc.b.Op(wasmbin.OpI32Or)
	case "+":
		if n.Left.GetType().Kind() == types.KindString && n.Right.GetType().Kind() == types.KindString {
			c.emitExpr(fc, n.Left)
			c.emitExpr(fc, n.Right)
			fc.b.Call(c.stringConcatIdx)
			return
		}
		c.emitArith(fc, n)
	case "-", "*", "/", "%":
		c.emitArith(fc, n)
	case "^":
		c.emitPow(fc, n)
	case "==", "!=", "is", "is not":
		c.emitEquality(fc, n)
	case "<", ">", "<=", ">=":
		c.emitRelational(fc, n)
	default:
		c.errorf(n.Pos(), "internal error: unknown binary operator %q", n.Operator)
	}
}

// emitArith computes +,-,*,/,% in f64/i64/i32 (whichever the operator's
// result type needs), always performing Number32 arithmetic in f64 and
// demoting only the final result, because no native f32 arithmetic opcode
// exists in this subset.
func (c *Compiler) emitArith(fc *funcCtx, n *ast.BinaryExpression) {
	target := n.GetType()
	work := target
	if valTypeOf(target) == wasmbin.ValF32 {
		work = types.Number
	}

	c.emitExpr(fc, n.Left)
	c.convertTo(fc, n.Left.GetType(), work)
	c.emitExpr(fc, n.Right)
	c.convertTo(fc, n.Right.GetType(), work)

	switch valTypeOf(work) {
	case wasmbin.ValI64:
		switch n.Operator {
		case "+":
			fc.b.Op(wasmbin.OpI64Add)
		case "-":
			fc.b.Op(wasmbin.OpI64Sub)
		case "*":
			fc.b.Op(wasmbin.OpI64Mul)
		case "/":
			fc.b.Op(wasmbin.OpI64DivS)
		case "%":
			fc.b.Op(wasmbin.OpI64RemS)
		}
	case wasmbin.ValF64:
		switch n.Operator {
		case "+":
			fc.b.Op(wasmbin.OpF64Add)
		case "-":
			fc.b.Op(wasmbin.OpF64Sub)
		case "*":
			fc.b.Op(wasmbin.OpF64Mul)
		case "/":
			fc.b.Op(wasmbin.OpF64Div)
		case "%":
			c.errorf(n.Pos(), "'%%' is not supported between Number operands")
		}
	default:
		switch n.Operator {
		case "+":
			fc.b.Op(wasmbin.OpI32Add)
		case "-":
			fc.b.Op(wasmbin.OpI32Sub)
		case "*":
			fc.b.Op(wasmbin.OpI32Mul)
		case "/":
			fc.b.Op(wasmbin.OpI32DivS)
		case "%":
			fc.b.Op(wasmbin.OpI32RemS)
		}
	}

	if valTypeOf(target) == wasmbin.ValF32 {
		fc.b.Op(wasmbin.OpF32DemoteF64)
	}
}

// emitPow lowers `^` through the same wired Math.pow Library function
// (internal/runtime math_pow forward), since no native exponentiation
// opcode exists.
func (c *Compiler) emitPow(fc *funcCtx, n *ast.BinaryExpression) {
	c.emitExpr(fc, n.Left)
	c.convertTo(fc, n.Left.GetType(), types.Number)
	c.emitExpr(fc, n.Right)
	c.convertTo(fc, n.Right.GetType(), types.Number)
	fc.b.Call(c.mathPowIdx)

	switch valTypeOf(n.GetType()) {
	case wasmbin.ValI32:
		fc.b.Op(wasmbin.OpI32TruncF64S)
	case wasmbin.ValF32:
		fc.b.Op(wasmbin.OpF32DemoteF64)
	}
}

func (c *Compiler) emitEquality(fc *funcCtx, n *ast.BinaryExpression) {
	lt, rt := n.Left.GetType(), n.Right.GetType()
	negate := n.Operator == "!=" || n.Operator == "is not"

	switch {
	case lt.Kind() == types.KindString && rt.Kind() == types.KindString:
		c.emitExpr(fc, n.Left)
		c.emitExpr(fc, n.Right)
		fc.b.Call(c.stringEqualsIdx)
	case types.IsNumeric(lt) && types.IsNumeric(rt):
		work := compareWorkType(types.Widen(lt, rt))
		c.emitExpr(fc, n.Left)
		c.convertTo(fc, lt, work)
		c.emitExpr(fc, n.Right)
		c.convertTo(fc, rt, work)
		switch valTypeOf(work) {
		case wasmbin.ValI64:
			fc.b.Op(wasmbin.OpI64Eq)
		case wasmbin.ValF64:
			fc.b.Op(wasmbin.OpF64Eq)
		default:
			fc.b.Op(wasmbin.OpI32Eq)
		}
	default:
		// Boolean/class/List/Matrix all share the i32 representation;
		// `==`/`is` is identity comparison for these.
		c.emitExpr(fc, n.Left)
		c.emitExpr(fc, n.Right)
		fc.b.Op(wasmbin.OpI32Eq)
	}

	if negate {
		fc.b.Op(wasmbin.OpI32Eqz)
	}
}

// emitRelational lowers <,>,<=,>=. String relational comparison is not
// supported by this code generator.
func (c *Compiler) emitRelational(fc *funcCtx, n *ast.BinaryExpression) {
	lt, rt := n.Left.GetType(), n.Right.GetType()
	if lt.Kind() == types.KindString && rt.Kind() == types.KindString {
		c.errorf(n.Pos(), "relational comparison of Strings is not supported by this code generator")
		fc.b.I32Const(0)
		return
	}

	work := compareWorkType(types.Widen(lt, rt))
	c.emitExpr(fc, n.Left)
	c.convertTo(fc, lt, work)
	c.emitExpr(fc, n.Right)
	c.convertTo(fc, rt, work)

	switch valTypeOf(work) {
	case wasmbin.ValI64:
		switch n.Operator {
		case "<":
			fc.b.Op(wasmbin.OpI64LtS)
		case ">":
			fc.b.Op(wasmbin.OpI64GtS)
		case "<=":
			fc.b.Op(wasmbin.OpI64LeS)
		case ">=":
			fc.b.Op(wasmbin.OpI64GeS)
		}
	case wasmbin.ValF64:
		switch n.Operator {
		case "<":
			fc.b.Op(wasmbin.OpF64Lt)
		case ">":
			fc.b.Op(wasmbin.OpF64Gt)
		case "<=":
			fc.b.Op(wasmbin.OpF64Le)
		case ">=":
			fc.b.Op(wasmbin.OpF64Ge)
		}
	default:
		switch n.Operator {
		case "<":
			fc.b.Op(wasmbin.OpI32LtS)
		case ">":
			fc.b.Op(wasmbin.OpI32GtS)
		case "<=":
			fc.b.Op(wasmbin.OpI32LeS)
		case ">=":
			fc.b.Op(wasmbin.OpI32GeS)
		}
	}
}

// emitOnError lowers a Try on-error Fallback expression. Only a division
// or modulo with an Integer result has a modeled runtime failure mode (a
// trap on divide-by-zero); Number division by zero yields IEEE infinity
// and is not guarded. Every other Try expression is evaluated directly, a
// documented simplification (DESIGN.md "onError: inline guard for Integer
// division").
func (c *Compiler) emitOnError(fc *funcCtx, n *ast.OnErrorExpression) {
	bin, ok := n.Try.(*ast.BinaryExpression)
	isDivGuard := ok && (bin.Operator == "/" || bin.Operator == "%") && bin.GetType().Kind() == types.KindInteger
	if !isDivGuard {
		c.emitExpr(fc, n.Try)
		return
	}

	resultType := n.GetType()
	result := fc.freshLocal(resultType)

	divisorType := bin.Right.GetType()
	work := compareWorkType(divisorType)
	c.emitExpr(fc, bin.Right)
	c.convertTo(fc, divisorType, work)
	switch valTypeOf(work) {
	case wasmbin.ValI64:
		fc.b.I64Const(0)
		fc.b.Op(wasmbin.OpI64Eq)
	case wasmbin.ValF64:
		fc.b.F64Const(0)
		fc.b.Op(wasmbin.OpF64Eq)
	default:
		fc.b.I32Const(0)
		fc.b.Op(wasmbin.OpI32Eq)
	}

	fc.b.If(wasmbin.BlockVoid)
	c.emitExpr(fc, n.Fallback)
	c.convertTo(fc, n.Fallback.GetType(), resultType)
	fc.b.LocalSet(result)
	fc.b.Else()
	// Re-evaluates bin (including bin.Right) a second time; acceptable only
	// because divisor expressions are assumed side-effect free.
	c.emitExpr(fc, n.Try)
	c.convertTo(fc, n.Try.GetType(), resultType)
	fc.b.LocalSet(result)
	fc.b.End()
	fc.b.LocalGet(result)
}

func (c *Compiler) emitCall(fc *funcCtx, call *ast.CallExpression) {
	if id, ok := call.Function.(*ast.Identifier); ok {
		if id.Value == "toString" {
			c.emitToString(fc, call.Arguments[0])
			return
		}
		if ft, ok := c.prog.Functions[id.Value]; ok {
			c.emitFreeCall(fc, call, id.Value, ft)
			return
		}
		if m, ok := c.std.Lookup("", id.Value); ok {
			c.emitTopLevelStdlibCall(fc, call, m)
			return
		}
		c.errorf(call.Pos(), "internal error: unresolved function %q reached codegen", id.Value)
		return
	}
	if me, ok := call.Function.(*ast.MemberExpression); ok {
		c.emitMethodCallExpr(fc, call, me)
		return
	}
	c.errorf(call.Pos(), "internal error: unsupported call form reached codegen")
}

func (c *Compiler) emitFreeCall(fc *funcCtx, call *ast.CallExpression, name string, ft *types.FunctionType) {
	args := callArgs(call)
	for i, arg := range args {
		c.emitExpr(fc, arg)
		if i < len(ft.Params) {
			c.convertTo(fc, arg.GetType(), ft.Params[i])
		}
	}
	fc.b.Call(c.funcIndex[name])
}

// emitTopLevelStdlibCall handles bare print/println/input* calls, all
// registered HostImport (spec.md §6.1); toString is intercepted earlier
// since it needs per-argument-type dispatch rather than a fixed signature.
func (c *Compiler) emitTopLevelStdlibCall(fc *funcCtx, call *ast.CallExpression, m *stdlib.Method) {
	c.emitHostOrLibraryCall(fc, call, m)
}

func (c *Compiler) emitHostOrLibraryCall(fc *funcCtx, call *ast.CallExpression, m *stdlib.Method) {
	args := callArgs(call)
	for i, arg := range args {
		c.emitExpr(fc, arg)
		if i < len(m.Params) {
			c.convertTo(fc, arg.GetType(), m.Params[i])
		}
	}
	switch m.Strategy {
	case stdlib.HostImport:
		fc.b.Call(c.hostImport[m.Index])
	default:
		c.errorf(call.Pos(), "internal error: unexpected strategy for builtin %s.%s reached generic dispatch", m.Class, m.Name)
	}
}

// emitToString dispatches toString(x) by x's actual resolved type, since
// the registry's single Any-typed Library entry backs several distinct
// runtime conversion functions.
func (c *Compiler) emitToString(fc *funcCtx, arg ast.Expression) {
	t := arg.GetType()
	switch t.Kind() {
	case types.KindString:
		c.emitExpr(fc, arg)
	case types.KindBoolean:
		c.emitExpr(fc, arg)
		fc.b.I32Const(int32(c.truePtr))
		fc.b.I32Const(int32(c.falsePtr))
		fc.b.Call(c.boolToStringIdx)
	case types.KindInteger:
		c.emitExpr(fc, arg)
		c.convertTo(fc, t, types.Integer)
		fc.b.Call(c.intToStringIdx)
	case types.KindNumber:
		c.emitExpr(fc, arg)
		c.convertTo(fc, t, types.Number)
		fc.b.Call(c.numberToStringIdx)
	default:
		c.errorf(arg.Pos(), "toString is not supported for type %s", t)
		fc.b.I32Const(0)
	}
}

// emitMethodCallExpr mirrors semantic.checkMethodCall's dispatch order
// exactly: a bare-identifier object that does not name a local variable is
// first tried as a static user-class call, then a builtin static call,
// before falling back to evaluating it as a real expression.
func (c *Compiler) emitMethodCallExpr(fc *funcCtx, call *ast.CallExpression, me *ast.MemberExpression) {
	if id, ok := me.Object.(*ast.Identifier); ok {
		if _, isLocal, _, _ := fc.resolve(id.Value); !isLocal {
			if cls, ok := c.prog.Classes[id.Value]; ok {
				c.emitStaticUserCall(fc, call, cls, me.Property)
				return
			}
			if c.std.HasClass(id.Value) {
				c.emitBuiltinStaticCall(fc, call, id.Value, me.Property)
				return
			}
		}
	}

	switch ot := me.Object.GetType().(type) {
	case *types.ClassType:
		c.emitInstanceMethodCall(fc, call, me, ot)
	case *types.ListType:
		c.emitListInstanceCall(fc, call, me.Property, ot.Elem)
	case *types.MatrixType:
		c.emitMatrixInstanceCall(fc, call, me.Property, ot.Elem)
	case *types.Primitive:
		if ot.Kind() == types.KindString {
			c.emitStringInstanceCall(fc, call, me)
		} else {
			c.errorf(call.Pos(), "internal error: cannot call method on type %s", ot)
		}
	default:
		c.errorf(call.Pos(), "internal error: cannot call method on type %s", me.Object.GetType())
	}
}

func (c *Compiler) emitStaticUserCall(fc *funcCtx, call *ast.CallExpression, cls *types.ClassType, methodName string) {
	fn, owner := cls.LookupMethod(methodName)
	if fn == nil {
		c.errorf(call.Pos(), "internal error: unresolved static method %s.%s", cls.Name, methodName)
		return
	}
	fc.b.I32Const(0) // unused self receiver; static methods still declare self as param 0
	args := callArgs(call)
	for i, arg := range args {
		c.emitExpr(fc, arg)
		if i < len(fn.Params) {
			c.convertTo(fc, arg.GetType(), fn.Params[i])
		}
	}
	fc.b.Call(c.methodIndex[owner.Name][methodName])
}

func (c *Compiler) emitBuiltinStaticCall(fc *funcCtx, call *ast.CallExpression, class, name string) {
	m, ok := c.std.Lookup(class, name)
	if !ok {
		c.errorf(call.Pos(), "internal error: unresolved builtin %s.%s", class, name)
		return
	}
	if class == "Math" {
		c.emitMathCall(fc, call, name)
		return
	}
	c.emitHostOrLibraryCall(fc, call, m)
}

// emitMathCall lowers Math.* static calls. Most are native f64 opcodes;
// round approximates banker's-rounding-free round-half-up via floor(x+0.5);
// pow forwards to the wired Library
// wrapper since no native exponentiation opcode exists.
func (c *Compiler) emitMathCall(fc *funcCtx, call *ast.CallExpression, name string) {
	args := callArgs(call)
	for _, arg := range args {
		c.emitExpr(fc, arg)
		c.convertTo(fc, arg.GetType(), types.Number)
	}
	switch name {
	case "sqrt":
		fc.b.Op(wasmbin.OpF64Sqrt)
	case "abs":
		fc.b.Op(wasmbin.OpF64Abs)
	case "floor":
		fc.b.Op(wasmbin.OpF64Floor)
	case "ceil":
		fc.b.Op(wasmbin.OpF64Ceil)
	case "min":
		fc.b.Op(wasmbin.OpF64Min)
	case "max":
		fc.b.Op(wasmbin.OpF64Max)
	case "round":
		fc.b.F64Const(0.5)
		fc.b.Op(wasmbin.OpF64Add)
		fc.b.Op(wasmbin.OpF64Floor)
		fc.b.Op(wasmbin.OpI32TruncF64S)
	case "pow":
		fc.b.Call(c.mathPowIdx)
	default:
		c.errorf(call.Pos(), "internal error: unknown Math method %q", name)
	}
}

// emitInstanceMethodCall dispatches a user-class instance method call,
// routing through the table only for names computeVirtualMethods found
// overridden somewhere in the hierarchy (spec.md §9 DESIGN NOTES). A
// method name unknown to ot falls back to the `ClassName_method` free
// function convention.
func (c *Compiler) emitInstanceMethodCall(fc *funcCtx, call *ast.CallExpression, me *ast.MemberExpression, ot *types.ClassType) {
	fn, owner := ot.LookupMethod(me.Property)
	if fn == nil {
		c.emitClassExtensionCall(fc, call, me, ot)
		return
	}
	args := callArgs(call)

	if slot, virtual := c.virtualSlot[me.Property]; virtual {
		recv := fc.freshLocal(ot)
		c.emitExpr(fc, me.Object)
		fc.b.LocalSet(recv)

		fc.b.LocalGet(recv)
		for i, arg := range args {
			c.emitExpr(fc, arg)
			if i < len(fn.Params) {
				c.convertTo(fc, arg.GetType(), fn.Params[i])
			}
		}

		numSlots := int32(len(c.virtualSlot))
		fc.b.LocalGet(recv)
		fc.b.Mem(wasmbin.OpI32Load, 2, 0)
		fc.b.I32Const(numSlots)
		fc.b.Op(wasmbin.OpI32Mul)
		fc.b.I32Const(int32(slot))
		fc.b.Op(wasmbin.OpI32Add)
		fc.b.CallIndirect(c.virtualSig[me.Property])
		return
	}

	c.emitExpr(fc, me.Object)
	for i, arg := range args {
		c.emitExpr(fc, arg)
		if i < len(fn.Params) {
			c.convertTo(fc, arg.GetType(), fn.Params[i])
		}
	}
	fc.b.Call(c.methodIndex[owner.Name][me.Property])
}

// emitClassExtensionCall lowers obj.method(args) to a plain top-level
// function call `ClassName_method(obj, args...)`, where the extension
// function's own first declared parameter is the receiver (the natural
// reading of a free-function-based extension mechanism; see DESIGN.md
// "class-extension decision" for why this, rather than an implicit
// uncounted receiver, is the chosen interpretation).
func (c *Compiler) emitClassExtensionCall(fc *funcCtx, call *ast.CallExpression, me *ast.MemberExpression, ot *types.ClassType) {
	fallbackName := ot.Name + "_" + me.Property
	fn, ok := c.prog.Functions[fallbackName]
	if !ok {
		c.errorf(call.Pos(), "internal error: no method or class-extension function %q", fallbackName)
		return
	}
	c.emitExpr(fc, me.Object)
	if len(fn.Params) > 0 {
		c.convertTo(fc, ot, fn.Params[0])
	}
	args := callArgs(call)
	for i, arg := range args {
		c.emitExpr(fc, arg)
		pi := i + 1
		if pi < len(fn.Params) {
			c.convertTo(fc, arg.GetType(), fn.Params[pi])
		}
	}
	fc.b.Call(c.funcIndex[fallbackName])
}

func (c *Compiler) emitMember(fc *funcCtx, n *ast.MemberExpression) {
	objType := n.Object.GetType()
	if cls, ok := objType.(*types.ClassType); ok {
		layout := c.classLayouts[cls.Name]
		c.emitExpr(fc, n.Object)
		ft := layout.fieldType[n.Property]
		fc.b.Mem(loadOpFor(ft), alignFor(ft), uint32(layout.fieldOffset[n.Property]))
		return
	}
	if _, ok := objType.(*types.ListType); ok && n.Property == "length" {
		c.emitExpr(fc, n.Object)
		fc.b.Mem(wasmbin.OpI32Load, 2, 0)
		return
	}
	c.errorf(n.Pos(), "internal error: cannot access member %q on %s", n.Property, objType)
}

// emitNew allocates cls's header+fields, stores its class id at offset 0,
// and calls its constructor with explicit arguments followed by resolved
// defaults for any omitted trailing params (mirroring semantic.checkNew,
// which validates arity against CtorParams/CtorDefaults but records no
// resolved-default expressions of its own for `new` the way
// checkArgsAgainstSignature does for plain calls).
func (c *Compiler) emitNew(fc *funcCtx, n *ast.NewExpression) {
	ct := c.prog.Classes[n.ClassName]
	layout := c.classLayouts[n.ClassName]
	params := c.prog.CtorParams[n.ClassName]

	obj := fc.freshLocal(ct)
	fc.b.I32Const(layout.size)
	fc.b.Call(c.mallocIdx)
	fc.b.LocalSet(obj)

	fc.b.LocalGet(obj)
	fc.b.I32Const(int32(layout.id))
	fc.b.Mem(wasmbin.OpI32Store, 2, 0)

	fc.b.LocalGet(obj)
	for i, arg := range n.Arguments {
		c.emitExpr(fc, arg)
		if i < len(params) {
			c.convertTo(fc, arg.GetType(), params[i])
		}
	}
	for i := len(n.Arguments); i < len(params); i++ {
		if defaults := c.prog.CtorDefaults[n.ClassName]; defaults != nil && i < len(defaults) && defaults[i] != nil {
			c.emitExpr(fc, defaults[i])
			c.convertTo(fc, defaults[i].GetType(), params[i])
		} else {
			pushZero(fc, params[i])
		}
	}
	fc.b.Call(c.ctorIndex[n.ClassName])

	fc.b.LocalGet(obj)
}

// emitStartExpr lowers `start f(...)`: it eagerly runs the call (this
// compiler models async tasks as synchronously completed at the point
// they're started), boxes the result
// in a freshly malloc'd cell, and hands that cell to queue_future_task,
// whose i32 return is the Future handle `read` later dereferences.
func (c *Compiler) emitStartExpr(fc *funcCtx, n *ast.StartExpression) {
	resultType := types.Type(types.Any)
	if ft, ok := n.GetType().(*types.FutureType); ok {
		resultType = ft.Elem
	}

	cell := fc.freshLocal(types.Integer)
	fc.b.I32Const(widthOf(resultType))
	fc.b.Call(c.mallocIdx)
	fc.b.LocalSet(cell)

	fc.b.LocalGet(cell)
	c.emitExpr(fc, n.Call)
	c.convertTo(fc, n.Call.GetType(), resultType)
	fc.b.Mem(storeOpFor(resultType), alignFor(resultType), 0)

	fc.b.LocalGet(cell)
	fc.b.Call(c.queueFutureTaskIdx)
}

func (c *Compiler) emitFutureRead(fc *funcCtx, n *ast.FutureReadExpression) {
	c.emitExpr(fc, n.Handle)
	fc.b.Call(c.futureGetIdx)
	t := n.GetType()
	fc.b.Mem(loadOpFor(t), alignFor(t), 0)
}

// convertTo adjusts a value already on the stack from `from`'s
// representation to `to`'s. Non-numeric types (Boolean/String/class/
// List/Matrix/Void/Any) all share the plain i32 representation and need no
// conversion between each other. Number(64)->Integer goes through i32
// truncation even when the target is Integer64, since no i64 float-trunc
// opcode exists in this subset;
// this is exact for values within i32 range.
func (c *Compiler) convertTo(fc *funcCtx, from, to types.Type) {
	if from == nil || to == nil || from.Equals(to) {
		return
	}
	if !types.IsNumeric(from) || !types.IsNumeric(to) {
		return
	}

	fromNumber, toNumber := from.Kind() == types.KindNumber, to.Kind() == types.KindNumber
	switch {
	case !fromNumber && toNumber:
		if types.IntWidth(from) == 64 {
			fc.b.Op(wasmbin.OpF64ConvertI64S)
		} else {
			fc.b.Op(wasmbin.OpF64ConvertI32S)
		}
		if types.NumWidth(to) == 32 {
			fc.b.Op(wasmbin.OpF32DemoteF64)
		}
	case fromNumber && !toNumber:
		if types.NumWidth(from) == 32 {
			fc.b.Op(wasmbin.OpF64PromoteF32)
		}
		fc.b.Op(wasmbin.OpI32TruncF64S)
		if types.IntWidth(to) == 64 {
			fc.b.Op(wasmbin.OpI64ExtendI32S)
		}
	case fromNumber && toNumber:
		fw, tw := types.NumWidth(from), types.NumWidth(to)
		if fw == 32 && tw == 64 {
			fc.b.Op(wasmbin.OpF64PromoteF32)
		} else if fw == 64 && tw == 32 {
			fc.b.Op(wasmbin.OpF32DemoteF64)
		}
	default:
		fw, tw := types.IntWidth(from), types.IntWidth(to)
		if fw == 32 && tw == 64 {
			fc.b.Op(wasmbin.OpI64ExtendI32S)
		} else if fw == 64 && tw == 32 {
			fc.b.Op(wasmbin.OpI32WrapI64)
		}
	}
}
