package codegen

import (
	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/runtime"
	"github.com/clean-lang/cleanc/internal/types"
	"github.com/clean-lang/cleanc/internal/wasmbin"
)

// emitListLiteral allocates a list sized to its element count and stores
// each element at its real width (spec.md §4.4.2 List<T>, §4.4.7 behavior
// tag). A literal always starts with the default (append-order) behavior;
// `.type = ...` statements retag it afterward.
func (c *Compiler) emitListLiteral(fc *funcCtx, n *ast.ListLiteral) {
	lt := n.GetType().(*types.ListType)
	width := widthOf(lt.Elem)
	count := int32(len(n.Elements))

	list := fc.freshLocal(lt)
	fc.b.I32Const(int32(runtime.ListHeaderSize) + count*width)
	fc.b.Call(c.mallocIdx)
	fc.b.LocalSet(list)

	fc.b.LocalGet(list)
	fc.b.I32Const(count)
	fc.b.Mem(wasmbin.OpI32Store, 2, 0)

	fc.b.LocalGet(list)
	fc.b.I32Const(count)
	fc.b.Mem(wasmbin.OpI32Store, 2, 4)

	fc.b.LocalGet(list)
	fc.b.I32Const(int32(runtime.BehaviorDefault))
	fc.b.Mem(wasmbin.OpI32Store8, 0, uint32(runtime.ListBehaviorOffset))

	for i, el := range n.Elements {
		fc.b.LocalGet(list)
		fc.b.I32Const(int32(runtime.ListHeaderSize) + int32(i)*width)
		fc.b.Op(wasmbin.OpI32Add)
		c.emitExpr(fc, el)
		c.convertTo(fc, el.GetType(), lt.Elem)
		fc.b.Mem(storeOpFor(lt.Elem), alignFor(lt.Elem), 0)
	}

	fc.b.LocalGet(list)
}

// emitIndexAddr pushes the address of n.Left[n.Index], using the element's
// real width (unlike the fixed-4-byte Library bodies ListAddBody/
// ListRemoveBody/ListPeekBody/ListContainsBody bind to, DESIGN.md
// "list-element-stride decision"). A Matrix is addressed with a single
// flat index, mirroring semantic.checkIndex treating List and Matrix
// identically for `[]`.
func (c *Compiler) emitIndexAddr(fc *funcCtx, n *ast.IndexExpression) types.Type {
	var elem types.Type
	var headerSize int32
	switch v := n.Left.GetType().(type) {
	case *types.ListType:
		elem = v.Elem
		headerSize = int32(runtime.ListHeaderSize)
	case *types.MatrixType:
		elem = v.Elem
		headerSize = int32(runtime.MatrixHeaderSize)
	default:
		c.errorf(n.Pos(), "internal error: cannot index type %s", n.Left.GetType())
		return types.Any
	}

	c.emitExpr(fc, n.Left)
	c.emitExpr(fc, n.Index)
	fc.b.I32Const(widthOf(elem))
	fc.b.Op(wasmbin.OpI32Mul)
	fc.b.I32Const(headerSize)
	fc.b.Op(wasmbin.OpI32Add)
	fc.b.Op(wasmbin.OpI32Add)
	return elem
}

func (c *Compiler) emitIndexRead(fc *funcCtx, n *ast.IndexExpression) {
	elem := c.emitIndexAddr(fc, n)
	fc.b.Mem(loadOpFor(elem), alignFor(elem), 0)
}

// coerceToI32/uncoerceFromI32 adapt a value to/from the plain i32
// representation the fixed-width list.go Library bodies require
// regardless of the list's declared element type. This is exact for the
// overwhelmingly common case (Boolean/Integer/String/List/Matrix/Object
// elements, already i32-shaped) and a documented lossy reinterpretation
// for List<Integer64>/List<Number>/List<Number32> (DESIGN.md
// "list-element-stride decision").
func (c *Compiler) coerceToI32(fc *funcCtx, from types.Type) {
	switch valTypeOf(from) {
	case wasmbin.ValI64:
		fc.b.Op(wasmbin.OpI32WrapI64)
	case wasmbin.ValF64:
		fc.b.Op(wasmbin.OpI32TruncF64S)
	case wasmbin.ValF32:
		fc.b.Op(wasmbin.OpF64PromoteF32)
		fc.b.Op(wasmbin.OpI32TruncF64S)
	}
}

func (c *Compiler) uncoerceFromI32(fc *funcCtx, to types.Type) {
	switch valTypeOf(to) {
	case wasmbin.ValI64:
		fc.b.Op(wasmbin.OpI64ExtendI32S)
	case wasmbin.ValF64:
		fc.b.Op(wasmbin.OpF64ConvertI32S)
	case wasmbin.ValF32:
		fc.b.Op(wasmbin.OpF64ConvertI32S)
		fc.b.Op(wasmbin.OpF32DemoteF64)
	}
}

// emitListInstanceCall dispatches a List<T> instance method (spec.md §4.3).
// `.remove()` is zero-arg pop semantics in the registry but
// runtime.ListRemoveBody removes by value, so it is synthesized as
// peek-then-remove-that-value.
func (c *Compiler) emitListInstanceCall(fc *funcCtx, call *ast.CallExpression, property string, elem types.Type) {
	obj := call.Function.(*ast.MemberExpression).Object
	switch property {
	case "add":
		c.emitExpr(fc, obj)
		arg := call.Arguments[0]
		c.emitExpr(fc, arg)
		c.convertTo(fc, arg.GetType(), elem)
		c.coerceToI32(fc, elem)
		fc.b.Call(c.listAddIdx)
	case "remove":
		recv := fc.freshLocal(&types.ListType{Elem: elem})
		c.emitExpr(fc, obj)
		fc.b.LocalSet(recv)

		removed := fc.freshLocal(types.Integer)
		fc.b.LocalGet(recv)
		fc.b.Call(c.listPeekIdx)
		fc.b.LocalSet(removed)

		fc.b.LocalGet(recv)
		fc.b.LocalGet(removed)
		fc.b.Call(c.listRemoveIdx)

		fc.b.LocalGet(removed)
		c.uncoerceFromI32(fc, elem)
	case "peek":
		c.emitExpr(fc, obj)
		fc.b.Call(c.listPeekIdx)
		c.uncoerceFromI32(fc, elem)
	case "contains":
		c.emitExpr(fc, obj)
		arg := call.Arguments[0]
		c.emitExpr(fc, arg)
		c.convertTo(fc, arg.GetType(), elem)
		c.coerceToI32(fc, elem)
		fc.b.Call(c.listContainsIdx)
	case "length":
		c.emitExpr(fc, obj)
		fc.b.Mem(wasmbin.OpI32Load, 2, 0)
	case "get":
		idx := &ast.IndexExpression{Left: obj, Index: call.Arguments[0]}
		idx.SetType(elem)
		c.emitIndexRead(fc, idx)
	case "set":
		idx := &ast.IndexExpression{Left: obj, Index: call.Arguments[0]}
		idx.SetType(elem)
		et := c.emitIndexAddr(fc, idx)
		val := call.Arguments[1]
		c.emitExpr(fc, val)
		c.convertTo(fc, val.GetType(), et)
		fc.b.Mem(storeOpFor(et), alignFor(et), 0)
	default:
		c.errorf(call.Pos(), "internal error: unknown List method %q", property)
	}
}

// emitMatrixInstanceCall dispatches a Matrix<T> instance method, addressing
// elements row-major: base + MatrixHeaderSize + (row*cols + col)*width.
func (c *Compiler) emitMatrixInstanceCall(fc *funcCtx, call *ast.CallExpression, property string, elem types.Type) {
	obj := call.Function.(*ast.MemberExpression).Object
	switch property {
	case "rows":
		c.emitExpr(fc, obj)
		fc.b.Mem(wasmbin.OpI32Load, 2, 0)
	case "cols":
		c.emitExpr(fc, obj)
		fc.b.Mem(wasmbin.OpI32Load, 2, 4)
	case "get":
		c.emitMatrixElemAddr(fc, obj, call.Arguments[0], call.Arguments[1], elem)
		fc.b.Mem(loadOpFor(elem), alignFor(elem), 0)
	case "set":
		c.emitMatrixElemAddr(fc, obj, call.Arguments[0], call.Arguments[1], elem)
		val := call.Arguments[2]
		c.emitExpr(fc, val)
		c.convertTo(fc, val.GetType(), elem)
		fc.b.Mem(storeOpFor(elem), alignFor(elem), 0)
	default:
		c.errorf(call.Pos(), "internal error: unknown Matrix method %q", property)
	}
}

func (c *Compiler) emitMatrixElemAddr(fc *funcCtx, obj, rowExpr, colExpr ast.Expression, elem types.Type) {
	m := fc.freshLocal(obj.GetType())
	c.emitExpr(fc, obj)
	fc.b.LocalSet(m)

	fc.b.LocalGet(m)
	fc.b.I32Const(int32(runtime.MatrixHeaderSize))
	fc.b.Op(wasmbin.OpI32Add)

	c.emitExpr(fc, rowExpr)
	fc.b.LocalGet(m)
	fc.b.Mem(wasmbin.OpI32Load, 2, 4)
	fc.b.Op(wasmbin.OpI32Mul)
	c.emitExpr(fc, colExpr)
	fc.b.Op(wasmbin.OpI32Add)
	fc.b.I32Const(widthOf(elem))
	fc.b.Op(wasmbin.OpI32Mul)
	fc.b.Op(wasmbin.OpI32Add)
}

// emitStringInstanceCall dispatches a String instance method call to its
// internal/runtime-backed function, or inline for Intrinsic entries
// (spec.md §4.3 String, the class the registry marks Intrinsic for
// `.length`/`.concat`).
func (c *Compiler) emitStringInstanceCall(fc *funcCtx, call *ast.CallExpression, me *ast.MemberExpression) {
	if _, ok := c.std.Lookup("String", me.Property); !ok {
		c.errorf(call.Pos(), "internal error: unknown String method %q", me.Property)
		return
	}
	switch me.Property {
	case "length":
		c.emitExpr(fc, me.Object)
		fc.b.Mem(wasmbin.OpI32Load, 2, 0)
	case "concat":
		c.emitExpr(fc, me.Object)
		c.emitExpr(fc, call.Arguments[0])
		fc.b.Call(c.stringConcatIdx)
	case "toUpperCase":
		c.emitExpr(fc, me.Object)
		fc.b.Call(c.toUpperIdx)
	case "toLowerCase":
		c.emitExpr(fc, me.Object)
		fc.b.Call(c.toLowerIdx)
	case "substring":
		c.emitExpr(fc, me.Object)
		c.emitExpr(fc, call.Arguments[0])
		c.emitExpr(fc, call.Arguments[1])
		fc.b.Call(c.substringIdx)
	case "indexOf":
		c.emitExpr(fc, me.Object)
		c.emitExpr(fc, call.Arguments[0])
		fc.b.Call(c.indexOfIdx)
	case "toInteger":
		c.emitExpr(fc, me.Object)
		fc.b.Call(c.toIntegerIdx)
	case "toNumber":
		c.emitExpr(fc, me.Object)
		fc.b.Call(c.toNumberIdx)
	default:
		c.errorf(call.Pos(), "internal error: unknown String method %q", me.Property)
	}
}
