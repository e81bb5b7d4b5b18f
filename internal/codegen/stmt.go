package codegen

import (
	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/runtime"
	"github.com/clean-lang/cleanc/internal/types"
	"github.com/clean-lang/cleanc/internal/wasmbin"
)

// compileStmt lowers one already-type-checked statement. ApplyBlockStatement
// never reaches here: semantic.desugarApplyBlock rewrites every apply block
// into its constituent statements in place before codegen ever walks the
// tree (semantic/stmt.go).
func (c *Compiler) compileStmt(fc *funcCtx, s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		c.emitExpr(fc, n.Expr)
		if n.Expr.GetType().Kind() != types.KindVoid {
			fc.b.Drop()
		}
	case *ast.VarDecl:
		c.compileVarDecl(fc, n)
	case *ast.AssignStatement:
		c.compileAssign(fc, n)
	case *ast.ListBehaviorStatement:
		c.compileListBehavior(fc, n)
	case *ast.ReturnStatement:
		if n.Value != nil {
			c.emitExpr(fc, n.Value)
			c.convertTo(fc, n.Value.GetType(), fc.returnType)
		}
		fc.b.Op(wasmbin.OpReturn)
	case *ast.IfStatement:
		c.compileIf(fc, n)
	case *ast.WhileStatement:
		c.compileWhile(fc, n)
	case *ast.ForStatement:
		c.compileFor(fc, n)
	case *ast.ErrorStatement:
		c.emitExpr(fc, n.Message)
		fc.b.Call(c.raiseErrorIdx)
	case *ast.BackgroundStatement:
		c.compileBackground(fc, n)
	default:
		c.errorf(s.Pos(), "internal error: unsupported statement %T reached codegen", s)
	}
}

// resolveType is codegen's own equivalent of semantic.resolveTypeExpr,
// needed because funcCtx has no access to the semantic Scope's resolved
// Symbol.Type for a VarDecl's explicit type annotation. It deliberately
// ignores TypeExpression.Width exactly as semantic.resolveTypeExpr does:
// an explicit
// `Integer64`/`Number32` source annotation never produces a non-default
// width through this path, matching semantic's own behavior so the two
// passes never disagree about a variable's declared type.
func (c *Compiler) resolveType(te *ast.TypeExpression) types.Type {
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
			elem = c.resolveType(te.Params[0])
		}
		return &types.ListType{Elem: elem}
	case "Matrix":
		elem := types.Type(types.Any)
		if len(te.Params) > 0 {
			elem = c.resolveType(te.Params[0])
		}
		return &types.MatrixType{Elem: elem}
	default:
		if cls, ok := c.prog.Classes[te.Name]; ok {
			return cls
		}
		return types.Any
	}
}

// compileVarDecl mirrors semantic.checkVarDecl's own "declared type"
// computation (value's type, overridden by an explicit annotation) so the
// local slot's representation always matches what later reads of this
// name expect. A `later` binding always gets an i32 slot holding the
// Future handle StartExpression codegen already pushed, regardless of the
// unwrapped element type semantic recorded for the symbol.
func (c *Compiler) compileVarDecl(fc *funcCtx, n *ast.VarDecl) {
	c.emitExpr(fc, n.Value)

	declared := n.Value.GetType()
	if n.Type != nil {
		declared = c.resolveType(n.Type)
	}

	if n.Later {
		declared = types.Integer
	} else {
		c.convertTo(fc, n.Value.GetType(), declared)
	}

	idx := fc.declareLocal(n.Name, declared)
	fc.b.LocalSet(idx)
}

func (c *Compiler) compileAssign(fc *funcCtx, n *ast.AssignStatement) {
	switch t := n.Target.(type) {
	case *ast.Identifier:
		idx, isLocal, fieldType, isField := fc.resolve(t.Value)
		switch {
		case isLocal:
			c.emitExpr(fc, n.Value)
			c.convertTo(fc, n.Value.GetType(), fc.localTypes[idx])
			fc.b.LocalSet(idx)
		case isField:
			layout := c.classLayouts[fc.selfClass.Name]
			off := layout.fieldOffset[t.Value]
			fc.b.LocalGet(0)
			c.emitExpr(fc, n.Value)
			c.convertTo(fc, n.Value.GetType(), fieldType)
			fc.b.Mem(storeOpFor(fieldType), alignFor(fieldType), uint32(off))
		default:
			c.errorf(t.Pos(), "internal error: unresolved assignment target %q", t.Value)
		}

	case *ast.MemberExpression:
		cls, ok := t.Object.GetType().(*types.ClassType)
		if !ok {
			c.errorf(t.Pos(), "internal error: cannot assign to member of non-class type %s", t.Object.GetType())
			return
		}
		layout := c.classLayouts[cls.Name]
		ft := layout.fieldType[t.Property]
		c.emitExpr(fc, t.Object)
		c.emitExpr(fc, n.Value)
		c.convertTo(fc, n.Value.GetType(), ft)
		fc.b.Mem(storeOpFor(ft), alignFor(ft), uint32(layout.fieldOffset[t.Property]))

	case *ast.IndexExpression:
		elem := c.emitIndexAddr(fc, t)
		c.emitExpr(fc, n.Value)
		c.convertTo(fc, n.Value.GetType(), elem)
		fc.b.Mem(storeOpFor(elem), alignFor(elem), 0)

	default:
		c.errorf(n.Pos(), "internal error: unsupported assignment target %T", n.Target)
	}
}

// compileListBehavior lowers a `list.type = "line"/"pile"/"unique"`
// statement to a single byte store at the list header's behavior tag
// (spec.md §4.4.2, runtime.ListBehaviorOffset).
func (c *Compiler) compileListBehavior(fc *funcCtx, n *ast.ListBehaviorStatement) {
	c.emitExpr(fc, n.List)
	tag, ok := runtime.ListBehaviorTag(n.Behavior)
	if !ok {
		c.errorf(n.Pos(), "internal error: unknown list behavior %q", n.Behavior)
		return
	}
	fc.b.I32Const(int32(tag))
	fc.b.Mem(wasmbin.OpI32Store8, 0, uint32(runtime.ListBehaviorOffset))
}

func (c *Compiler) compileIf(fc *funcCtx, n *ast.IfStatement) {
	c.emitExpr(fc, n.Condition)
	fc.b.If(wasmbin.BlockVoid)
	c.compileBlock(fc, n.Consequence)
	if n.Alternative != nil {
		fc.b.Else()
		c.compileBlock(fc, n.Alternative)
	}
	fc.b.End()
}

func (c *Compiler) compileWhile(fc *funcCtx, n *ast.WhileStatement) {
	fc.b.Block(wasmbin.BlockVoid)
	fc.b.Loop(wasmbin.BlockVoid)
	c.emitExpr(fc, n.Condition)
	fc.b.Op(wasmbin.OpI32Eqz)
	fc.b.BrIf(1)
	c.compileBlock(fc, n.Body)
	fc.b.Br(0)
	fc.b.End() // loop
	fc.b.End() // block
}

// compileFor lowers `for x in iterable`, over a List or a Matrix (a Matrix
// iterates its rows*cols elements in row-major flat order, mirroring the
// single-index `[]` addressing semantic.checkIndex also allows on a
// Matrix). The induction variable shares the body's own scope level
// (semantic.checkFor uses checkBlockWithScope rather than pushing an
// extra level), so it is declared in the scope compileBlock's own
// pushScope/popScope pair operates within.
func (c *Compiler) compileFor(fc *funcCtx, n *ast.ForStatement) {
	var elem types.Type
	var headerSize int32
	switch it := n.Iterable.GetType().(type) {
	case *types.ListType:
		elem = it.Elem
		headerSize = int32(runtime.ListHeaderSize)
	case *types.MatrixType:
		elem = it.Elem
		headerSize = int32(runtime.MatrixHeaderSize)
	default:
		c.errorf(n.Pos(), "internal error: cannot iterate over %s", n.Iterable.GetType())
		return
	}
	width := widthOf(elem)

	base := fc.freshLocal(types.Integer)
	c.emitExpr(fc, n.Iterable)
	fc.b.LocalSet(base)

	length := fc.freshLocal(types.Integer)
	fc.b.LocalGet(base)
	fc.b.Mem(wasmbin.OpI32Load, 2, 0)
	fc.b.LocalSet(length)
	if _, isMatrix := n.Iterable.GetType().(*types.MatrixType); isMatrix {
		fc.b.LocalGet(base)
		fc.b.Mem(wasmbin.OpI32Load, 2, 4)
		fc.b.LocalGet(length)
		fc.b.Op(wasmbin.OpI32Mul)
		fc.b.LocalSet(length)
	}

	i := fc.freshLocal(types.Integer)
	fc.b.I32Const(0)
	fc.b.LocalSet(i)

	fc.pushScope()
	elemLocal := fc.declareLocal(n.VarName, elem)

	fc.b.Block(wasmbin.BlockVoid)
	fc.b.Loop(wasmbin.BlockVoid)
	fc.b.LocalGet(i)
	fc.b.LocalGet(length)
	fc.b.Op(wasmbin.OpI32LtS)
	fc.b.Op(wasmbin.OpI32Eqz)
	fc.b.BrIf(1)

	fc.b.LocalGet(base)
	fc.b.I32Const(headerSize)
	fc.b.Op(wasmbin.OpI32Add)
	fc.b.LocalGet(i)
	fc.b.I32Const(width)
	fc.b.Op(wasmbin.OpI32Mul)
	fc.b.Op(wasmbin.OpI32Add)
	fc.b.Mem(loadOpFor(elem), alignFor(elem), 0)
	fc.b.LocalSet(elemLocal)

	c.compileBlock(fc, n.Body)

	fc.b.LocalGet(i)
	fc.b.I32Const(1)
	fc.b.Op(wasmbin.OpI32Add)
	fc.b.LocalSet(i)
	fc.b.Br(0)
	fc.b.End() // loop
	fc.b.End() // block

	fc.popScope()
}

// compileBackground lowers `background f(...)`: the call still runs
// synchronously for its side effects (this compiler's async model has no
// real scheduler to hand work to),
// its value (if any) is discarded, and queue_background_task is notified
// so a host runtime with real concurrency can still observe the intent.
func (c *Compiler) compileBackground(fc *funcCtx, n *ast.BackgroundStatement) {
	c.emitExpr(fc, n.Call)
	if n.Call.GetType().Kind() != types.KindVoid {
		fc.b.Drop()
	}
	fc.b.I32Const(0)
	fc.b.Call(c.queueBackgroundTaskIdx)
}
