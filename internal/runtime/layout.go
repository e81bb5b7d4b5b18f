// Package runtime defines the linear-memory layout and allocator
// constants the code generator emits instructions against (spec.md §4.4.2,
// §4.4.6, §4.4.7): the static string pool, the bump-then-free-list heap
// allocator, object/list/matrix header shapes, and the list-behavior tag
// byte. It contains no codegen logic itself — internal/codegen calls these
// helpers to compute offsets and header sizes when emitting loads/stores.
//
// Grounded on the teacher's internal/bytecode value/object layout
// documentation (value tagging, object-instance field layout) generalized
// from an in-process VM heap to WASM linear memory addresses.
package runtime

// PageSize is the WASM linear memory page size (WASM spec §5.3.8, 64 KiB).
const PageSize = 64 * 1024

// StaticPoolBase is the fixed offset where the interned string pool begins
// (spec.md §4.4.5 "starting at a fixed base offset"). Offset 0 is left
// unused so that a null/zero pointer never aliases a valid string.
const StaticPoolBase = 16

// StringHeaderSize is the size in bytes of a string's `{u32 length}`
// prefix (spec.md §4.4.2 "String ... {u32 length, u8[] bytes}").
const StringHeaderSize = 4

// ObjectHeapHeaderSize is the 8-byte allocator header prefixing every heap
// allocation (spec.md §4.4.6 "{u32 total_size, u32 ref_count}").
const ObjectHeapHeaderSize = 8

// ListHeaderSize is the size in bytes of a list's header, excluding the
// allocator header: `{u32 length, u32 capacity, u8 behavior, padding[3]}`
// (spec.md §4.4.2 List<T>, extended by §4.4.7's behavior tag byte).
const ListHeaderSize = 12

// MatrixHeaderSize is `{u32 rows, u32 cols}` (spec.md §4.4.2 Matrix<T>).
const MatrixHeaderSize = 8

// ClassHeaderSize is the `{u32 classId}` prefix of an Object(C) instance
// (spec.md §4.4.2 "Object(C) ... {u32 classId, field[0..n]}").
const ClassHeaderSize = 4

// ListBehavior is the 1-byte tag stored in a list's header
// (spec.md §4.4.7).
type ListBehavior byte

const (
	BehaviorDefault ListBehavior = iota
	BehaviorLine                 // FIFO queue
	BehaviorPile                 // LIFO stack
	BehaviorUnique                // set semantics
)

// ListBehaviorTag maps a `.type` string value to its runtime tag
// (spec.md §4.4.7, SUPPLEMENTED FEATURES for "compound" left for codegen
// to compose from these primitives rather than a fifth tag value).
func ListBehaviorTag(name string) (ListBehavior, bool) {
	switch name {
	case "line":
		return BehaviorLine, true
	case "pile":
		return BehaviorPile, true
	case "unique":
		return BehaviorUnique, true
	}
	return BehaviorDefault, false
}

// ListBehaviorOffset is the byte offset of the behavior tag within a
// list's header, past length/capacity (both u32).
const ListBehaviorOffset = 8

// WidthBytes returns the in-memory element width for one of the WASM
// value-type representations this compiler uses for Clean Language types
// (spec.md §4.4.2).
func WidthBytes(kind ElemKind) int {
	switch kind {
	case ElemI32, ElemF32:
		return 4
	case ElemI64, ElemF64:
		return 8
	}
	return 4
}

// ElemKind is the storage kind of a List/Matrix element or class field, at
// the granularity the allocator and load/store instruction selection need
// (distinct from types.Type, which also models class identity and
// generics codegen doesn't need to see).
type ElemKind int

const (
	ElemI32 ElemKind = iota // Boolean, Integer<=32, String/List/Matrix/Object pointer
	ElemI64                 // Integer64
	ElemF32                 // Number32
	ElemF64                 // Number64 (default Number)
)
