package wasmbin

// Section ids, in emission order (WASM spec §5.5).
const (
	secType     = 1
	secImport   = 2
	secFunction = 3
	secTable    = 4
	secMemory   = 5
	secGlobal   = 6
	secExport   = 7
	secElement  = 9
	secCode     = 10
	secData     = 11
)

// Encode serializes m into a complete WASM binary module (spec.md §4.4
// "type section, import section, function section, table section, memory
// section, global section, export section, code section", in that order
// per WASM spec §5.5).
func (m *Module) Encode() []byte {
	out := make([]byte, 0, 1024)
	out = append(out, Magic[:]...)
	out = append(out, Version[:]...)

	if len(m.Types) > 0 {
		out = appendSection(out, secType, m.encodeTypeSection())
	}
	if len(m.Imports) > 0 {
		out = appendSection(out, secImport, m.encodeImportSection())
	}
	if len(m.Funcs) > 0 {
		out = appendSection(out, secFunction, m.encodeFunctionSection())
	}
	if m.Table != nil {
		out = appendSection(out, secTable, m.encodeTableSection())
	}
	out = appendSection(out, secMemory, m.encodeMemorySection())
	if len(m.Globals) > 0 {
		out = appendSection(out, secGlobal, m.encodeGlobalSection())
	}
	if len(m.Exports) > 0 {
		out = appendSection(out, secExport, m.encodeExportSection())
	}
	if len(m.Elems) > 0 {
		out = appendSection(out, secElement, m.encodeElementSection())
	}
	if len(m.Funcs) > 0 {
		out = appendSection(out, secCode, m.encodeCodeSection())
	}
	if len(m.Data) > 0 {
		out = appendSection(out, secData, m.encodeDataSection())
	}
	return out
}

func appendSection(out []byte, id byte, body []byte) []byte {
	out = append(out, id)
	out = PutUvarint(out, uint64(len(body)))
	return append(out, body...)
}

func (m *Module) encodeTypeSection() []byte {
	var b []byte
	b = PutUvarint(b, uint64(len(m.Types)))
	for _, t := range m.Types {
		b = append(b, 0x60) // functype tag
		b = PutUvarint(b, uint64(len(t.Params)))
		for _, p := range t.Params {
			b = append(b, byte(p))
		}
		b = PutUvarint(b, uint64(len(t.Results)))
		for _, r := range t.Results {
			b = append(b, byte(r))
		}
	}
	return b
}

func (m *Module) encodeImportSection() []byte {
	var b []byte
	b = PutUvarint(b, uint64(len(m.Imports)))
	for _, imp := range m.Imports {
		b = encodeName(b, imp.Module)
		b = encodeName(b, imp.Name)
		b = append(b, 0x00) // import kind: func
		b = PutUvarint(b, uint64(imp.Type))
	}
	return b
}

func (m *Module) encodeFunctionSection() []byte {
	var b []byte
	b = PutUvarint(b, uint64(len(m.FuncSigs)))
	for _, t := range m.FuncSigs {
		b = PutUvarint(b, uint64(t))
	}
	return b
}

func (m *Module) encodeTableSection() []byte {
	var b []byte
	b = PutUvarint(b, 1)
	b = append(b, 0x70) // funcref
	b = encodeLimits(b, *m.Table)
	return b
}

func (m *Module) encodeMemorySection() []byte {
	var b []byte
	b = PutUvarint(b, 1)
	b = encodeLimits(b, m.Memory)
	return b
}

func (m *Module) encodeGlobalSection() []byte {
	var b []byte
	b = PutUvarint(b, uint64(len(m.Globals)))
	for _, g := range m.Globals {
		b = append(b, byte(g.Type.Type))
		if g.Type.Mutable {
			b = append(b, 0x01)
		} else {
			b = append(b, 0x00)
		}
		b = append(b, g.Init...)
	}
	return b
}

func (m *Module) encodeExportSection() []byte {
	var b []byte
	b = PutUvarint(b, uint64(len(m.Exports)))
	for _, e := range m.Exports {
		b = encodeName(b, e.Name)
		b = append(b, byte(e.Kind))
		b = PutUvarint(b, uint64(e.Idx))
	}
	return b
}

// encodeElementSection emits a single active element segment filling table
// slot 0 onward with Elems in order (WASM spec §5.5.14, segment flag 0x00:
// active, table index 0, i32.const offset expr). This is the vtable the
// override-only dispatch design (spec.md §9 DESIGN NOTES) populates: one
// entry per (classId, overridden-method-slot) pair, indexed by
// classId*slotCount+slot at call_indirect sites.
func (m *Module) encodeElementSection() []byte {
	var b []byte
	b = PutUvarint(b, 1) // one segment
	b = append(b, 0x00)  // flags: active, table index 0
	b = append(b, byte(OpI32Const))
	b = PutVarint(b, 0) // offset 0
	b = append(b, byte(OpEnd))
	b = PutUvarint(b, uint64(len(m.Elems)))
	for _, fnIdx := range m.Elems {
		b = PutUvarint(b, uint64(fnIdx))
	}
	return b
}

// encodeDataSection emits a single active data segment holding the
// compile-time-known static region (interned string pool bytes, WASM spec
// §5.5.15, spec.md §4.4.5 "written as {u32 length, u8[length] bytes,
// padding}"), loaded into linear memory at m.DataOffset.
func (m *Module) encodeDataSection() []byte {
	var b []byte
	b = PutUvarint(b, 1) // one segment
	b = append(b, 0x00)  // flags: active, memory index 0
	b = append(b, byte(OpI32Const))
	b = PutVarint(b, int64(m.DataOffset))
	b = append(b, byte(OpEnd))
	b = PutUvarint(b, uint64(len(m.Data)))
	b = append(b, m.Data...)
	return b
}

func (m *Module) encodeCodeSection() []byte {
	var b []byte
	b = PutUvarint(b, uint64(len(m.Funcs)))
	for _, fn := range m.Funcs {
		body := encodeFuncBody(fn)
		b = PutUvarint(b, uint64(len(body)))
		b = append(b, body...)
	}
	return b
}

// encodeFuncBody encodes one code-section entry: its local declarations
// (run-length-grouped by type, WASM spec §5.5.13) followed by the
// already-encoded instruction stream.
func encodeFuncBody(fn Func) []byte {
	var b []byte
	groups := groupLocals(fn.Locals)
	b = PutUvarint(b, uint64(len(groups)))
	for _, g := range groups {
		b = PutUvarint(b, uint64(g.count))
		b = append(b, byte(g.typ))
	}
	return append(b, fn.Body...)
}

type localGroup struct {
	typ   ValType
	count int
}

func groupLocals(locals []ValType) []localGroup {
	var groups []localGroup
	for _, t := range locals {
		if len(groups) > 0 && groups[len(groups)-1].typ == t {
			groups[len(groups)-1].count++
			continue
		}
		groups = append(groups, localGroup{typ: t, count: 1})
	}
	return groups
}

func encodeName(b []byte, s string) []byte {
	b = PutUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func encodeLimits(b []byte, l Limits) []byte {
	if l.HasMax {
		b = append(b, 0x01)
		b = PutUvarint(b, uint64(l.Min))
		b = PutUvarint(b, uint64(l.Max))
		return b
	}
	b = append(b, 0x00)
	return PutUvarint(b, uint64(l.Min))
}
