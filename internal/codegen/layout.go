// Package codegen lowers an analyzed Clean Language AST (internal/ast,
// annotated by internal/semantic) into a WASM binary module
// (internal/wasmbin), wiring in the function bodies internal/runtime
// defines for every Library-strategy stdlib entry (spec.md §4.4).
//
// Grounded on the teacher's internal/bytecode compiler: a single Compiler
// struct walking the AST once, emitting into an output buffer (here, a
// wasmbin.Builder per function) while maintaining symbol-to-slot maps
// instead of interpreting. Diagnostics accumulate in a CodegenError list
// exactly like the teacher's compiler rather than panicking, so codegen
// failures render through the same errors.FormatErrors path as parse/
// semantic errors (spec.md §7 "a single uniform diagnostic model").
package codegen

import (
	"github.com/clean-lang/cleanc/internal/runtime"
	"github.com/clean-lang/cleanc/internal/types"
	"github.com/clean-lang/cleanc/internal/wasmbin"
)

// classLayout describes one class's object-instance memory shape and
// virtual-dispatch slot assignment (spec.md §4.4.2 "Object(C) ... {u32
// classId, field[0..n]}").
type classLayout struct {
	id          uint32
	size        int32
	fieldOffset map[string]int32
	fieldType   map[string]types.Type
}

// valTypeOf maps a Clean Language type to the WASM value type used to hold
// it on the stack and in locals (spec.md §4.4.2 type-mapping table).
func valTypeOf(t types.Type) wasmbin.ValType {
	if p, ok := t.(*types.Primitive); ok {
		switch p.K {
		case types.KindInteger:
			if types.IntWidth(t) == 64 {
				return wasmbin.ValI64
			}
			return wasmbin.ValI32
		case types.KindNumber:
			if types.NumWidth(t) == 32 {
				return wasmbin.ValF32
			}
			return wasmbin.ValF64
		case types.KindBoolean:
			return wasmbin.ValI32
		}
	}
	// String, List, Matrix, Object(C), Future, Any, Void-in-slot-position
	// are all represented as an i32 (pointer or opaque handle).
	return wasmbin.ValI32
}

// elemKindOf maps a Clean Language type to the allocator/list-element
// storage kind (internal/runtime.ElemKind) used to pick load/store widths.
func elemKindOf(t types.Type) runtime.ElemKind {
	if p, ok := t.(*types.Primitive); ok {
		switch p.K {
		case types.KindInteger:
			if types.IntWidth(t) == 64 {
				return runtime.ElemI64
			}
			return runtime.ElemI32
		case types.KindNumber:
			if types.NumWidth(t) == 32 {
				return runtime.ElemF32
			}
			return runtime.ElemF64
		}
	}
	return runtime.ElemI32
}

// widthOf returns the in-memory byte width of t (spec.md §4.4.2).
func widthOf(t types.Type) int32 {
	return int32(runtime.WidthBytes(elemKindOf(t)))
}

// loadOpFor and storeOpFor select the memory instruction matching t's WASM
// representation (spec.md §4.4.3 "field/element access lowers to an
// aligned load/store at the computed offset").
func loadOpFor(t types.Type) wasmbin.Opcode {
	switch valTypeOf(t) {
	case wasmbin.ValI64:
		return wasmbin.OpI64Load
	case wasmbin.ValF32:
		return wasmbin.OpF32Load
	case wasmbin.ValF64:
		return wasmbin.OpF64Load
	default:
		return wasmbin.OpI32Load
	}
}

func storeOpFor(t types.Type) wasmbin.Opcode {
	switch valTypeOf(t) {
	case wasmbin.ValI64:
		return wasmbin.OpI64Store
	case wasmbin.ValF32:
		return wasmbin.OpF32Store
	case wasmbin.ValF64:
		return wasmbin.OpF64Store
	default:
		return wasmbin.OpI32Store
	}
}

// alignFor returns the WASM memarg alignment (log2 of byte width) for t.
func alignFor(t types.Type) uint32 {
	switch widthOf(t) {
	case 8:
		return 3
	case 4:
		return 2
	case 2:
		return 1
	default:
		return 0
	}
}

// buildClassLayout computes ct's flattened field offsets in ancestor-first
// declared order (types.ClassType.AllFields), starting past the classId
// header word (spec.md §4.4.2).
func buildClassLayout(ct *types.ClassType, id uint32) *classLayout {
	cl := &classLayout{
		id:          id,
		fieldOffset: map[string]int32{},
		fieldType:   map[string]types.Type{},
	}
	offset := int32(runtime.ClassHeaderSize)
	for _, f := range ct.AllFields() {
		cl.fieldOffset[f.Name] = offset
		cl.fieldType[f.Name] = f.Type
		offset += widthOf(f.Type)
	}
	cl.size = offset
	return cl
}
