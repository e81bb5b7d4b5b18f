package runtime

import "github.com/clean-lang/cleanc/internal/wasmbin"

// ListAddType is `list_add(listPtr: i32, elemValue: i32) -> void`. Element values narrower than i32 (Booleans) and wider (i64/f64)
// are handled by dedicated variants codegen selects by the list's element
// ElemKind; this is the i32-element variant (Boolean/Integer<=32/String-
// List-Matrix-Object pointers), which covers the common case exercised by
// spec.md §8's list scenarios.
var ListAddType = wasmbin.FuncType{
	Params: []wasmbin.ValType{wasmbin.ValI32, wasmbin.ValI32},
}

const (
	listLocalElem  = 1
	listLocalAddr  = 2
	listLocalIdx   = 3
	listLocalFound = 4
)

// ListOpLocals declares the three extra i32 locals (indices 2-4) shared by
// ListAddBody/ListRemoveBody/ListContainsBody beyond their params: each
// body only uses the subset it needs, but codegen declares the same fixed
// superset for all three so it doesn't have to track a per-body local
// count, mirroring strings.go's per-body `XxxLocals` exports.
var ListOpLocals = []wasmbin.ValType{wasmbin.ValI32, wasmbin.ValI32, wasmbin.ValI32}

// ListAddBody realizes `.add(x)` per the list's behavior tag
// (spec.md §4.4.7): default/line append at the tail; pile also appends
// (pop removes from the tail, realizing LIFO); unique scans for an
// existing equal element first and is a no-op if found. Capacity growth
// is out of scope for this simplified allocator — codegen sizes list
// literals' capacity to their element count at construction time, and
// growth beyond that capacity is a documented limitation (DESIGN.md).
func ListAddBody() []byte {
	b := wasmbin.NewBuilder()

	// behavior == unique?
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load8U, 0, uint32(ListBehaviorOffset))
	b.I32Const(int32(BehaviorUnique))
	b.Op(wasmbin.OpI32Eq)
	b.If(wasmbin.BlockVoid)

	b.I32Const(0)
	b.LocalSet(listLocalFound)
	b.I32Const(0)
	b.LocalSet(listLocalIdx)
	b.Block(wasmbin.BlockVoid)
	b.Loop(wasmbin.BlockVoid)
	b.LocalGet(listLocalIdx)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.Op(wasmbin.OpI32LtS)
	b.Op(wasmbin.OpI32Eqz)
	b.BrIf(1)

	b.LocalGet(0)
	b.I32Const(int32(ListHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(listLocalIdx)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Mul)
	b.Op(wasmbin.OpI32Add)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.LocalGet(1)
	b.Op(wasmbin.OpI32Eq)
	b.If(wasmbin.BlockVoid)
	b.I32Const(1)
	b.LocalSet(listLocalFound)
	b.End()

	b.LocalGet(listLocalIdx)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Add)
	b.LocalSet(listLocalIdx)
	b.Br(0)
	b.End()
	b.End()

	b.LocalGet(listLocalFound)
	b.If(wasmbin.BlockVoid)
	b.Op(wasmbin.OpReturn)
	b.End()
	b.End()

	// append: elements[length] = value; length += 1
	b.LocalGet(0)
	b.I32Const(int32(ListHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Mul)
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(1)
	b.Mem(wasmbin.OpI32Store, 2, 0)

	b.LocalGet(0)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Add)
	b.Mem(wasmbin.OpI32Store, 2, 0)

	b.End()
	return b.Bytes()
}

// ListRemoveType is `list_remove(listPtr: i32, elemValue: i32) -> void`.
var ListRemoveType = wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32, wasmbin.ValI32}}

// ListRemoveBody removes the first occurrence of elemValue, shifting
// subsequent elements down by one slot (spec.md §4.4.7, SUPPLEMENTED
// FEATURES: "unique list .remove() removes the single matching element,
// which is already first-occurrence semantics since duplicates never
// exist").
func ListRemoveBody() []byte {
	b := wasmbin.NewBuilder()

	b.I32Const(-1)
	b.LocalSet(listLocalIdx)
	b.I32Const(0)
	b.LocalSet(listLocalAddr) // reuse as loop counter i

	b.Block(wasmbin.BlockVoid)
	b.Loop(wasmbin.BlockVoid)
	b.LocalGet(listLocalAddr)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.Op(wasmbin.OpI32LtS)
	b.Op(wasmbin.OpI32Eqz)
	b.BrIf(1)

	b.LocalGet(0)
	b.I32Const(int32(ListHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(listLocalAddr)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Mul)
	b.Op(wasmbin.OpI32Add)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.LocalGet(1)
	b.Op(wasmbin.OpI32Eq)
	b.If(wasmbin.BlockVoid)
	b.LocalGet(listLocalAddr)
	b.LocalSet(listLocalIdx)
	b.Br(2) // first match found: leave the scan
	b.End()

	b.LocalGet(listLocalAddr)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Add)
	b.LocalSet(listLocalAddr)
	b.Br(0)
	b.End()
	b.End()

	// not found: idx stays -1
	b.LocalGet(listLocalIdx)
	b.I32Const(0)
	b.Op(wasmbin.OpI32LtS)
	b.If(wasmbin.BlockVoid)
	b.Op(wasmbin.OpReturn)
	b.End()

	// shift elements[idx+1..length) down by one
	b.LocalGet(listLocalIdx)
	b.LocalSet(listLocalAddr) // reuse as shift cursor

	b.Block(wasmbin.BlockVoid)
	b.Loop(wasmbin.BlockVoid)
	b.LocalGet(listLocalAddr)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.Op(wasmbin.OpI32LtS)
	b.Op(wasmbin.OpI32Eqz)
	b.BrIf(1)

	b.LocalGet(0)
	b.I32Const(int32(ListHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(listLocalAddr)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Mul)
	b.Op(wasmbin.OpI32Add)

	b.LocalGet(0)
	b.I32Const(int32(ListHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(listLocalAddr)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Add)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Mul)
	b.Op(wasmbin.OpI32Add)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.Mem(wasmbin.OpI32Store, 2, 0)

	b.LocalGet(listLocalAddr)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Add)
	b.LocalSet(listLocalAddr)
	b.Br(0)
	b.End()
	b.End()

	b.LocalGet(0)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Sub)
	b.Mem(wasmbin.OpI32Store, 2, 0)

	b.End()
	return b.Bytes()
}

// ListPeekType is `list_peek(listPtr: i32) -> i32`.
var ListPeekType = wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32}, Results: []wasmbin.ValType{wasmbin.ValI32}}

// ListPeekBody returns the head element for a line (FIFO) list or the tail
// element for a pile/default list (LIFO/append-order peek), branching on
// the behavior tag (spec.md §4.4.7).
func ListPeekBody() []byte {
	b := wasmbin.NewBuilder()

	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load8U, 0, uint32(ListBehaviorOffset))
	b.I32Const(int32(BehaviorLine))
	b.Op(wasmbin.OpI32Eq)
	b.If(wasmbin.BlockVoid)
	b.LocalGet(0)
	b.I32Const(int32(ListHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.Op(wasmbin.OpReturn)
	b.End()

	b.LocalGet(0)
	b.I32Const(int32(ListHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Sub)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Mul)
	b.Op(wasmbin.OpI32Add)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.Op(wasmbin.OpReturn)
	b.End()
	return b.Bytes()
}

// ListContainsType is `list_contains(listPtr: i32, elemValue: i32) ->
// i32` (Boolean result).
var ListContainsType = wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32, wasmbin.ValI32}, Results: []wasmbin.ValType{wasmbin.ValI32}}

// ListContainsBody is a linear scan; behavior-agnostic since membership
// doesn't depend on ordering semantics.
func ListContainsBody() []byte {
	b := wasmbin.NewBuilder()

	b.I32Const(0)
	b.LocalSet(listLocalIdx)
	b.Block(wasmbin.BlockVoid)
	b.Loop(wasmbin.BlockVoid)
	b.LocalGet(listLocalIdx)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.Op(wasmbin.OpI32LtS)
	b.Op(wasmbin.OpI32Eqz)
	b.BrIf(1)

	b.LocalGet(0)
	b.I32Const(int32(ListHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.LocalGet(listLocalIdx)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Mul)
	b.Op(wasmbin.OpI32Add)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.LocalGet(1)
	b.Op(wasmbin.OpI32Eq)
	b.If(wasmbin.BlockVoid)
	b.I32Const(1)
	b.Op(wasmbin.OpReturn)
	b.End()

	b.LocalGet(listLocalIdx)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Add)
	b.LocalSet(listLocalIdx)
	b.Br(0)
	b.End()
	b.End()

	b.I32Const(0)
	b.Op(wasmbin.OpReturn)
	b.End()
	return b.Bytes()
}
