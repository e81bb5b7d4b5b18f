package wasmbin

import "math"

// Opcode is a WASM instruction opcode (WASM spec §5.4), restricted to the
// subset this compiler's code generator emits.
type Opcode byte

const (
	OpUnreachable Opcode = 0x00
	OpNop         Opcode = 0x01
	OpBlock       Opcode = 0x02
	OpLoop        Opcode = 0x03
	OpIf          Opcode = 0x04
	OpElse        Opcode = 0x05
	OpEnd         Opcode = 0x0b
	OpBr          Opcode = 0x0c
	OpBrIf        Opcode = 0x0d
	OpReturn      Opcode = 0x0f
	OpCall        Opcode = 0x10
	OpCallIndirect Opcode = 0x11
	OpDrop        Opcode = 0x1a
	OpSelect      Opcode = 0x1b

	OpLocalGet  Opcode = 0x20
	OpLocalSet  Opcode = 0x21
	OpLocalTee  Opcode = 0x22
	OpGlobalGet Opcode = 0x23
	OpGlobalSet Opcode = 0x24

	OpI32Load Opcode = 0x28
	OpI64Load Opcode = 0x29
	OpF32Load Opcode = 0x2a
	OpF64Load Opcode = 0x2b
	OpI32Load8U  Opcode = 0x2d
	OpI32Store Opcode = 0x36
	OpI64Store Opcode = 0x37
	OpF32Store Opcode = 0x38
	OpF64Store Opcode = 0x39
	OpI32Store8 Opcode = 0x3a

	OpI32Const Opcode = 0x41
	OpI64Const Opcode = 0x42
	OpF32Const Opcode = 0x43
	OpF64Const Opcode = 0x44

	OpI32Eqz Opcode = 0x45
	OpI32Eq  Opcode = 0x46
	OpI32Ne  Opcode = 0x47
	OpI32LtS Opcode = 0x48
	OpI32GtS Opcode = 0x4a
	OpI32LeS Opcode = 0x4c
	OpI32GeS Opcode = 0x4e

	OpI64Eqz Opcode = 0x50
	OpI64Eq  Opcode = 0x51
	OpI64Ne  Opcode = 0x52
	OpI64LtS Opcode = 0x53
	OpI64GtS Opcode = 0x55
	OpI64LeS Opcode = 0x57
	OpI64GeS Opcode = 0x59

	OpF64Eq Opcode = 0x61
	OpF64Ne Opcode = 0x62
	OpF64Lt Opcode = 0x63
	OpF64Gt Opcode = 0x64
	OpF64Le Opcode = 0x65
	OpF64Ge Opcode = 0x66

	OpI32Add Opcode = 0x6a
	OpI32Sub Opcode = 0x6b
	OpI32Mul Opcode = 0x6c
	OpI32DivS Opcode = 0x6d
	OpI32RemS Opcode = 0x6f
	OpI32And Opcode = 0x71
	OpI32Or  Opcode = 0x72

	OpI64Add Opcode = 0x7c
	OpI64Sub Opcode = 0x7d
	OpI64Mul Opcode = 0x7e
	OpI64DivS Opcode = 0x7f
	OpI64RemS Opcode = 0x81

	OpF64Neg Opcode = 0x9a
	OpF64Abs Opcode = 0x99
	OpF64Ceil Opcode = 0x9b
	OpF64Floor Opcode = 0x9c
	OpF64Add Opcode = 0xa0
	OpF64Sub Opcode = 0xa1
	OpF64Mul Opcode = 0xa2
	OpF64Div Opcode = 0xa3
	OpF64Min Opcode = 0xa4
	OpF64Max Opcode = 0xa5
	OpF64Sqrt Opcode = 0x9f

	OpI32WrapI64     Opcode = 0xa7
	OpI32TruncF64S   Opcode = 0xaa
	OpI64ExtendI32S  Opcode = 0xac
	OpF64ConvertI32S Opcode = 0xb7
	OpF64ConvertI64S Opcode = 0xb9
	OpF32DemoteF64   Opcode = 0xb6
	OpF64PromoteF32  Opcode = 0xbb
)

// BlockType encodes a structured control instruction's immediate result
// type (WASM spec §5.4.1); 0x40 means "no result" (void block type).
type BlockType byte

const BlockVoid BlockType = 0x40

// Builder accumulates an encoded instruction stream for one function body,
// so internal/codegen can emit opcodes without hand-rolling LEB128 calls
// at every call site.
type Builder struct {
	buf []byte
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Op(op Opcode) *Builder {
	b.buf = append(b.buf, byte(op))
	return b
}

func (b *Builder) Block(bt BlockType) *Builder {
	b.buf = append(b.buf, byte(OpBlock), byte(bt))
	return b
}

func (b *Builder) Loop(bt BlockType) *Builder {
	b.buf = append(b.buf, byte(OpLoop), byte(bt))
	return b
}

func (b *Builder) If(bt BlockType) *Builder {
	b.buf = append(b.buf, byte(OpIf), byte(bt))
	return b
}

func (b *Builder) Else() *Builder {
	b.buf = append(b.buf, byte(OpElse))
	return b
}

func (b *Builder) End() *Builder {
	b.buf = append(b.buf, byte(OpEnd))
	return b
}

func (b *Builder) BrIf(depth uint32) *Builder {
	b.buf = append(b.buf, byte(OpBrIf))
	b.buf = PutUvarint(b.buf, uint64(depth))
	return b
}

func (b *Builder) Br(depth uint32) *Builder {
	b.buf = append(b.buf, byte(OpBr))
	b.buf = PutUvarint(b.buf, uint64(depth))
	return b
}

func (b *Builder) Call(funcIdx uint32) *Builder {
	b.buf = append(b.buf, byte(OpCall))
	b.buf = PutUvarint(b.buf, uint64(funcIdx))
	return b
}

// CallIndirect encodes `call_indirect` against table 0: the table-slot
// index is expected already on the stack, followed by the callee's
// arguments below it per WASM spec §5.4.5. typeIdx selects the expected
// signature for the validator to check at the call site (used by the
// override-only vtable dispatch, spec.md §9 DESIGN NOTES).
func (b *Builder) CallIndirect(typeIdx uint32) *Builder {
	b.buf = append(b.buf, byte(OpCallIndirect))
	b.buf = PutUvarint(b.buf, uint64(typeIdx))
	b.buf = PutUvarint(b.buf, 0) // table index, always 0
	return b
}

func (b *Builder) LocalGet(idx uint32) *Builder  { return b.idxOp(OpLocalGet, idx) }
func (b *Builder) LocalSet(idx uint32) *Builder  { return b.idxOp(OpLocalSet, idx) }
func (b *Builder) LocalTee(idx uint32) *Builder  { return b.idxOp(OpLocalTee, idx) }
func (b *Builder) GlobalGet(idx uint32) *Builder { return b.idxOp(OpGlobalGet, idx) }
func (b *Builder) GlobalSet(idx uint32) *Builder { return b.idxOp(OpGlobalSet, idx) }

func (b *Builder) idxOp(op Opcode, idx uint32) *Builder {
	b.buf = append(b.buf, byte(op))
	b.buf = PutUvarint(b.buf, uint64(idx))
	return b
}

// Mem encodes a load/store with the given alignment (log2) and byte
// offset (WASM spec §5.4.7 memarg).
func (b *Builder) Mem(op Opcode, align uint32, offset uint32) *Builder {
	b.buf = append(b.buf, byte(op))
	b.buf = PutUvarint(b.buf, uint64(align))
	b.buf = PutUvarint(b.buf, uint64(offset))
	return b
}

func (b *Builder) I32Const(v int32) *Builder {
	b.buf = append(b.buf, byte(OpI32Const))
	b.buf = PutVarint(b.buf, int64(v))
	return b
}

func (b *Builder) I64Const(v int64) *Builder {
	b.buf = append(b.buf, byte(OpI64Const))
	b.buf = PutVarint(b.buf, v)
	return b
}

func (b *Builder) F64Const(v float64) *Builder {
	b.buf = append(b.buf, byte(OpF64Const))
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		b.buf = append(b.buf, byte(bits>>(8*i)))
	}
	return b
}

func (b *Builder) F32Const(v float32) *Builder {
	b.buf = append(b.buf, byte(OpF32Const))
	bits := math.Float32bits(v)
	for i := 0; i < 4; i++ {
		b.buf = append(b.buf, byte(bits>>(8*i)))
	}
	return b
}

// Drop discards the value on top of the stack (used when an
// ExpressionStatement's value is non-Void, spec.md §4.4.3).
func (b *Builder) Drop() *Builder {
	b.buf = append(b.buf, byte(OpDrop))
	return b
}

// Bytes returns the accumulated instruction stream. It does not append a
// trailing `end`; callers append one final OpEnd for the function body
// themselves once control-frame balance has been verified
// (spec.md §4.4.4 "asserts balance before emitting end").
func (b *Builder) Bytes() []byte { return b.buf }

func (b *Builder) Len() int { return len(b.buf) }
