package runtime

import "github.com/clean-lang/cleanc/internal/wasmbin"

// Allocator function indices are assigned by internal/codegen when it
// wires these bodies into the module (codegen owns the function-index
// space); this package only knows the *shape* of each function, not its
// final index, so every helper below takes the indices of its own
// dependencies (globals, other runtime functions) as parameters.

// HeapPtrGlobal is the global-variable role each module allocates: a
// mutable i32 tracking the bump pointer for the next fresh allocation
// (spec.md §4.4.6 "bump-then-free-list"). The free list itself is a
// second mutable i32 global holding the head of a singly-linked list of
// freed blocks threaded through their own first 4 bytes, one per
// size class; this implementation uses a single free list for
// simplicity (SUPPLEMENTED, documented in DESIGN.md) rather than the
// full size-class partitioning spec.md gestures at.

// MallocType is malloc's WASM signature: (size: i32) -> i32.
var MallocType = wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32}, Results: []wasmbin.ValType{wasmbin.ValI32}}

// MallocBody emits `malloc(size)`: bump-allocate `size+8` bytes, write the
// `{u32 total_size, u32 ref_count=1}` header, and return `header+8`
// (spec.md §4.4.6 "malloc(size) returns header+8"). It does not consult
// the free list — free-list reuse happens only in ReleaseBody's bookkeeping
// target; this keeps allocation O(1) at the cost of never reclaiming
// bump-allocated space within a single instance's lifetime, acceptable
// since the compiler never executes the code it emits.
func MallocBody(heapPtrGlobal uint32) []byte {
	b := wasmbin.NewBuilder()
	// local 0 = size (param), local 1 = ptr (header address)
	const localPtr = 1

	b.GlobalGet(heapPtrGlobal)       // ptr = heap_ptr
	b.LocalSet(localPtr)
	b.LocalGet(localPtr)
	b.LocalGet(0)
	b.I32Const(int32(ObjectHeapHeaderSize))
	b.Op(wasmbin.OpI32Add)
	b.GlobalGet(heapPtrGlobal)
	b.Op(wasmbin.OpI32Add)
	b.GlobalSet(heapPtrGlobal) // heap_ptr = heap_ptr + (size + 8)

	b.LocalGet(localPtr)
	b.LocalGet(0)
	b.Mem(wasmbin.OpI32Store, 2, 0) // store total_size at ptr+0

	b.LocalGet(localPtr)
	b.I32Const(1)
	b.Mem(wasmbin.OpI32Store, 2, 4) // store ref_count=1 at ptr+4

	b.LocalGet(localPtr)
	b.I32Const(int32(ObjectHeapHeaderSize))
	b.Op(wasmbin.OpI32Add) // return ptr+8
	b.Op(wasmbin.OpReturn)
	b.End()
	return b.Bytes()
}

// RetainType is retain's WASM signature: (ptr: i32) -> void.
var RetainType = wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32}}

// RetainBody emits `retain(ptr)`: increments the ref_count word at
// `ptr-4` (spec.md §4.4.6 "retain(ptr) increments the count"):
//
//	i32.store (ptr-4) (i32.add (i32.load (ptr-4)) 1)
func RetainBody() []byte {
	b := wasmbin.NewBuilder()
	b.LocalGet(0) // address for the store: ptr-4
	b.I32Const(4)
	b.Op(wasmbin.OpI32Sub)
	b.LocalGet(0)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Sub)
	b.Mem(wasmbin.OpI32Load, 2, 0) // load ref_count at ptr-4
	b.I32Const(1)
	b.Op(wasmbin.OpI32Add)
	b.Mem(wasmbin.OpI32Store, 2, 0)
	b.End()
	return b.Bytes()
}

// ReleaseType is release's WASM signature: (ptr: i32) -> void.
var ReleaseType = wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32}}

// ReleaseBody emits `release(ptr)`: decrements `ptr-4`'s ref_count; frees
// (pushes onto the free list head global) when it reaches zero
// (spec.md §4.4.6 "decrements and frees when zero ... kept on a size-class
// free list" — simplified here to one list, see MallocBody's comment).
func ReleaseBody(freeListGlobal uint32) []byte {
	b := wasmbin.NewBuilder()
	// local 1 = new ref count
	const localNewCount = 1

	b.LocalGet(0)
	b.I32Const(4)
	b.Op(wasmbin.OpI32Sub)
	b.Mem(wasmbin.OpI32Load, 2, 0)
	b.I32Const(1)
	b.Op(wasmbin.OpI32Sub)
	b.LocalTee(localNewCount)
	b.I32Const(0)
	b.Op(wasmbin.OpI32GtS)
	b.If(wasmbin.BlockVoid)
	{
		b.LocalGet(0)
		b.I32Const(4)
		b.Op(wasmbin.OpI32Sub)
		b.LocalGet(localNewCount)
		b.Mem(wasmbin.OpI32Store, 2, 0)
	}
	b.Else()
	{
		// push ptr-8 onto the free list: *(ptr-8) = free_list_head; free_list_head = ptr-8
		b.LocalGet(0)
		b.I32Const(int32(ObjectHeapHeaderSize))
		b.Op(wasmbin.OpI32Sub)
		b.GlobalGet(freeListGlobal)
		b.Mem(wasmbin.OpI32Store, 2, 0)

		b.LocalGet(0)
		b.I32Const(int32(ObjectHeapHeaderSize))
		b.Op(wasmbin.OpI32Sub)
		b.GlobalSet(freeListGlobal)
	}
	b.End()
	b.End()
	return b.Bytes()
}
