package wasmbin

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := NewModule()
	printIdx := m.AddImport("env", "println", FuncType{Params: []ValType{ValI32, ValI32}})

	b := NewBuilder()
	b.I32Const(0).I32Const(5).Call(printIdx).End()
	startIdx := m.AddFunc(FuncType{}, nil, b.Bytes())
	m.Export("start", ExportFunc, startIdx)
	m.Export("memory", ExportMemory, 0)

	encoded := m.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !reflect.DeepEqual(m.Types, decoded.Types) {
		t.Errorf("types mismatch: %+v vs %+v", m.Types, decoded.Types)
	}
	if !reflect.DeepEqual(m.Imports, decoded.Imports) {
		t.Errorf("imports mismatch: %+v vs %+v", m.Imports, decoded.Imports)
	}
	if !reflect.DeepEqual(m.Funcs, decoded.Funcs) {
		t.Errorf("funcs mismatch: %+v vs %+v", m.Funcs, decoded.Funcs)
	}
	if !reflect.DeepEqual(m.Exports, decoded.Exports) {
		t.Errorf("exports mismatch: %+v vs %+v", m.Exports, decoded.Exports)
	}
	if m.Memory != decoded.Memory {
		t.Errorf("memory mismatch: %+v vs %+v", m.Memory, decoded.Memory)
	}
}

func TestLEB128UnsignedRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40} {
		buf := PutUvarint(nil, v)
		got, n, err := ReadUvarint(buf, 0)
		if err != nil {
			t.Fatalf("ReadUvarint(%d) error: %v", v, err)
		}
		if got != v || n != len(buf) {
			t.Errorf("roundtrip mismatch for %d: got %d (consumed %d, want %d)", v, got, n, len(buf))
		}
	}
}

func TestLEB128SignedRoundTrip(t *testing.T) {
	for _, v := range []int64{0, -1, 63, -64, 64, -65, 1000000, -1000000} {
		buf := PutVarint(nil, v)
		got, n, err := ReadVarint(buf, 0)
		if err != nil {
			t.Fatalf("ReadVarint(%d) error: %v", v, err)
		}
		if got != v || n != len(buf) {
			t.Errorf("roundtrip mismatch for %d: got %d (consumed %d, want %d)", v, got, n, len(buf))
		}
	}
}

func TestModuleRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	if err == nil {
		t.Fatal("expected an error decoding a non-WASM buffer")
	}
}

func TestElementSectionRoundTrip(t *testing.T) {
	m := NewModule()
	sig := FuncType{Results: []ValType{ValF64}}
	b := NewBuilder()
	b.F64Const(1).End()
	f0 := m.AddFunc(sig, nil, b.Bytes())
	b2 := NewBuilder()
	b2.F64Const(2).End()
	f1 := m.AddFunc(sig, nil, b2.Bytes())

	slot0 := m.AddElemFunc(f0)
	slot1 := m.AddElemFunc(f1)
	if slot0 != 0 || slot1 != 1 {
		t.Fatalf("expected sequential table slots 0,1, got %d,%d", slot0, slot1)
	}

	encoded := m.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(m.Elems, decoded.Elems) {
		t.Errorf("elems mismatch: %+v vs %+v", m.Elems, decoded.Elems)
	}
	if decoded.Table == nil || decoded.Table.Min != 2 {
		t.Errorf("expected decoded table min 2, got %+v", decoded.Table)
	}
}

func TestDataSectionRoundTrip(t *testing.T) {
	m := NewModule()
	m.DataOffset = 16
	m.Data = []byte{5, 0, 0, 0, 'h', 'e', 'l', 'l', 'o'}

	encoded := m.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.DataOffset != m.DataOffset {
		t.Errorf("data offset mismatch: got %d, want %d", decoded.DataOffset, m.DataOffset)
	}
	if !reflect.DeepEqual(decoded.Data, m.Data) {
		t.Errorf("data mismatch: got %v, want %v", decoded.Data, m.Data)
	}
}

func TestAddTypeDeduplicates(t *testing.T) {
	m := NewModule()
	a := m.AddType(FuncType{Params: []ValType{ValI32}, Results: []ValType{ValI32}})
	bIdx := m.AddType(FuncType{Params: []ValType{ValI32}, Results: []ValType{ValI32}})
	if a != bIdx {
		t.Errorf("expected identical signatures to share a type index, got %d and %d", a, bIdx)
	}
	if len(m.Types) != 1 {
		t.Errorf("expected 1 deduplicated type, got %d", len(m.Types))
	}
}
