package wasmbin

// Decode parses a binary WASM module produced by Encode back into a
// Module value. It is deliberately matched one-to-one with Encode (rather
// than being a general-purpose WASM parser) so that
// `Decode(m.Encode())` structurally equals `m` — the round-trip check
// SPEC_FULL.md substitutes for a full WAT textual disassembler
// (spec.md §8 "Round-trip").
func Decode(data []byte) (*Module, error) {
	if len(data) < 8 {
		return nil, errUnexpectedEOF
	}
	for i := 0; i < 4; i++ {
		if data[i] != Magic[i] {
			return nil, errBadMagic
		}
	}
	for i := 0; i < 4; i++ {
		if data[4+i] != Version[i] {
			return nil, errBadVersion
		}
	}
	m := &Module{}
	off := 8
	var funcSigsSeen bool
	for off < len(data) {
		id := data[off]
		off++
		size, next, err := ReadUvarint(data, off)
		if err != nil {
			return nil, err
		}
		off = next
		if off+int(size) > len(data) {
			return nil, errUnexpectedEOF
		}
		body := data[off : off+int(size)]
		off += int(size)

		switch id {
		case secType:
			if err := m.decodeTypeSection(body); err != nil {
				return nil, err
			}
		case secImport:
			if err := m.decodeImportSection(body); err != nil {
				return nil, err
			}
		case secFunction:
			if err := m.decodeFunctionSection(body); err != nil {
				return nil, err
			}
			funcSigsSeen = true
		case secTable:
			if err := m.decodeTableSection(body); err != nil {
				return nil, err
			}
		case secMemory:
			if err := m.decodeMemorySection(body); err != nil {
				return nil, err
			}
		case secGlobal:
			if err := m.decodeGlobalSection(body); err != nil {
				return nil, err
			}
		case secExport:
			if err := m.decodeExportSection(body); err != nil {
				return nil, err
			}
		case secElement:
			if err := m.decodeElementSection(body); err != nil {
				return nil, err
			}
		case secCode:
			if err := m.decodeCodeSection(body, funcSigsSeen); err != nil {
				return nil, err
			}
		case secData:
			if err := m.decodeDataSection(body); err != nil {
				return nil, err
			}
		default:
			return nil, errBadSectionID
		}
	}
	return m, nil
}

func (m *Module) decodeTypeSection(b []byte) error {
	n, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if off >= len(b) || b[off] != 0x60 {
			return errUnexpectedEOF
		}
		off++
		var ft FuncType
		np, next, err := ReadUvarint(b, off)
		if err != nil {
			return err
		}
		off = next
		for j := uint64(0); j < np; j++ {
			ft.Params = append(ft.Params, ValType(b[off]))
			off++
		}
		nr, next2, err := ReadUvarint(b, off)
		if err != nil {
			return err
		}
		off = next2
		for j := uint64(0); j < nr; j++ {
			ft.Results = append(ft.Results, ValType(b[off]))
			off++
		}
		m.Types = append(m.Types, ft)
	}
	return nil
}

func (m *Module) decodeImportSection(b []byte) error {
	n, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		mod, next, err := decodeName(b, off)
		if err != nil {
			return err
		}
		off = next
		name, next2, err := decodeName(b, off)
		if err != nil {
			return err
		}
		off = next2
		off++ // import kind byte, always func (0x00) in this compiler
		typeIdx, next3, err := ReadUvarint(b, off)
		if err != nil {
			return err
		}
		off = next3
		m.Imports = append(m.Imports, Import{Module: mod, Name: name, Type: uint32(typeIdx)})
	}
	return nil
}

func (m *Module) decodeFunctionSection(b []byte) error {
	n, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		t, next, err := ReadUvarint(b, off)
		if err != nil {
			return err
		}
		off = next
		m.FuncSigs = append(m.FuncSigs, uint32(t))
	}
	return nil
}

func (m *Module) decodeTableSection(b []byte) error {
	_, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	off++ // elemtype byte (funcref)
	lim, _, err := decodeLimits(b, off)
	if err != nil {
		return err
	}
	m.Table = &lim
	return nil
}

func (m *Module) decodeMemorySection(b []byte) error {
	_, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	lim, _, err := decodeLimits(b, off)
	if err != nil {
		return err
	}
	m.Memory = lim
	return nil
}

func (m *Module) decodeGlobalSection(b []byte) error {
	n, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		typ := ValType(b[off])
		off++
		mutable := b[off] != 0
		off++
		end := off
		for end < len(b) && b[end] != 0x0b {
			end++
		}
		end++ // include the `end` opcode
		m.Globals = append(m.Globals, Global{Type: GlobalType{Type: typ, Mutable: mutable}, Init: append([]byte(nil), b[off:end]...)})
		off = end
	}
	return nil
}

func (m *Module) decodeExportSection(b []byte) error {
	n, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		name, next, err := decodeName(b, off)
		if err != nil {
			return err
		}
		off = next
		kind := ExportKind(b[off])
		off++
		idx, next2, err := ReadUvarint(b, off)
		if err != nil {
			return err
		}
		off = next2
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Idx: uint32(idx)})
	}
	return nil
}

// decodeElementSection mirrors encodeElementSection's single active
// segment at table offset 0.
func (m *Module) decodeElementSection(b []byte) error {
	n, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	off++ // flags byte
	// offset expr: i32.const <varint> end
	off++ // OpI32Const
	_, next, err := ReadVarint(b, off)
	if err != nil {
		return err
	}
	off = next
	off++ // OpEnd
	count, next2, err := ReadUvarint(b, off)
	if err != nil {
		return err
	}
	off = next2
	for i := uint64(0); i < count; i++ {
		fnIdx, next3, err := ReadUvarint(b, off)
		if err != nil {
			return err
		}
		off = next3
		m.Elems = append(m.Elems, uint32(fnIdx))
	}
	return nil
}

// decodeDataSection mirrors encodeDataSection's single active segment.
func (m *Module) decodeDataSection(b []byte) error {
	n, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	off++ // flags byte
	off++ // OpI32Const
	offsetVal, next, err := ReadVarint(b, off)
	if err != nil {
		return err
	}
	off = next
	off++ // OpEnd
	m.DataOffset = uint32(offsetVal)
	size, next2, err := ReadUvarint(b, off)
	if err != nil {
		return err
	}
	off = next2
	if off+int(size) > len(b) {
		return errUnexpectedEOF
	}
	m.Data = append([]byte(nil), b[off:off+int(size)]...)
	return nil
}

func (m *Module) decodeCodeSection(b []byte, haveSigs bool) error {
	n, off, err := ReadUvarint(b, 0)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		size, next, err := ReadUvarint(b, off)
		if err != nil {
			return err
		}
		off = next
		entry := b[off : off+int(size)]
		off += int(size)

		locals, bodyStart, err := decodeLocals(entry)
		if err != nil {
			return err
		}
		fn := Func{Locals: locals, Body: append([]byte(nil), entry[bodyStart:]...)}
		if haveSigs && int(i) < len(m.FuncSigs) {
			fn.TypeIdx = m.FuncSigs[i]
		}
		m.Funcs = append(m.Funcs, fn)
	}
	return nil
}

func decodeLocals(entry []byte) ([]ValType, int, error) {
	ng, off, err := ReadUvarint(entry, 0)
	if err != nil {
		return nil, 0, err
	}
	var locals []ValType
	for i := uint64(0); i < ng; i++ {
		count, next, err := ReadUvarint(entry, off)
		if err != nil {
			return nil, 0, err
		}
		off = next
		typ := ValType(entry[off])
		off++
		for j := uint64(0); j < count; j++ {
			locals = append(locals, typ)
		}
	}
	return locals, off, nil
}

func decodeName(b []byte, off int) (string, int, error) {
	n, next, err := ReadUvarint(b, off)
	if err != nil {
		return "", off, err
	}
	off = next
	if off+int(n) > len(b) {
		return "", off, errUnexpectedEOF
	}
	return string(b[off : off+int(n)]), off + int(n), nil
}

func decodeLimits(b []byte, off int) (Limits, int, error) {
	if off >= len(b) {
		return Limits{}, off, errUnexpectedEOF
	}
	hasMax := b[off] == 0x01
	off++
	min, next, err := ReadUvarint(b, off)
	if err != nil {
		return Limits{}, off, err
	}
	off = next
	lim := Limits{Min: uint32(min), HasMax: hasMax}
	if hasMax {
		max, next2, err := ReadUvarint(b, off)
		if err != nil {
			return Limits{}, off, err
		}
		off = next2
		lim.Max = uint32(max)
	}
	return lim, off, nil
}
