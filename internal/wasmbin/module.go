// Package wasmbin is a hand-written WASM binary module encoder/decoder
// (spec.md §4.4 "Produce a complete, validator-clean WASM module").
//
// The in-memory Module shape is modeled after the wazero-internal binary
// Module representation referenced in the pack's wazero reference sources
// (wazero's own binary encoder is unexported and unimportable), reduced to
// exactly the sections this compiler emits. Encode/Decode are a matched
// pair so internal/codegen can round-trip its own output as a structural
// self-check (SPEC_FULL.md "WAT-less round-trip check") without building a
// WAT textual disassembler.
package wasmbin

import "errors"

var (
	errUnexpectedEOF   = errors.New("wasmbin: unexpected end of module")
	errMalformedVarint  = errors.New("wasmbin: malformed LEB128 varint")
	errBadMagic        = errors.New("wasmbin: bad magic number")
	errBadVersion      = errors.New("wasmbin: unsupported module version")
	errBadSectionID    = errors.New("wasmbin: unknown section id")
)

// Magic and Version are the fixed WASM binary header (WASM spec §5.5.1).
var (
	Magic   = [4]byte{0x00, 0x61, 0x73, 0x6d}
	Version = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// ValType is a WASM value type (WASM spec §5.3.1).
type ValType byte

const (
	ValI32 ValType = 0x7f
	ValI64 ValType = 0x7e
	ValF32 ValType = 0x7d
	ValF64 ValType = 0x7c
)

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	}
	return "?"
}

// FuncType is a function signature (WASM spec §5.3.6).
type FuncType struct {
	Params  []ValType
	Results []ValType
}

func (f FuncType) Equals(o FuncType) bool {
	if len(f.Params) != len(o.Params) || len(f.Results) != len(o.Results) {
		return false
	}
	for i := range f.Params {
		if f.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range f.Results {
		if f.Results[i] != o.Results[i] {
			return false
		}
	}
	return true
}

// Import is one entry of the import section (spec.md §6.1, all under "env").
type Import struct {
	Module string
	Name   string
	Type   uint32 // index into Module.Types
}

// ExportKind distinguishes what an export refers to (WASM spec §5.5.10).
type ExportKind byte

const (
	ExportFunc   ExportKind = 0x00
	ExportTable  ExportKind = 0x01
	ExportMemory ExportKind = 0x02
	ExportGlobal ExportKind = 0x03
)

// Export is one entry of the export section (spec.md §6.2).
type Export struct {
	Name string
	Kind ExportKind
	Idx  uint32
}

// GlobalType describes a global variable's value type and mutability
// (WASM spec §5.3.4).
type GlobalType struct {
	Type    ValType
	Mutable bool
}

// Global is one entry of the global section, with its constant init
// expression already encoded as raw instruction bytes ending in `end`.
type Global struct {
	Type GlobalType
	Init []byte
}

// Limits bounds a memory or table (WASM spec §5.3.8).
type Limits struct {
	Min uint32
	Max uint32
	HasMax bool
}

// Func is one entry of the function+code sections: TypeIdx selects the
// signature, Locals lists additional local declarations beyond the
// parameters, Body is the already-encoded instruction stream ending in the
// function's final `end` byte (0x0b).
type Func struct {
	TypeIdx uint32
	Locals  []ValType
	Body    []byte
}

// Module is the complete in-memory representation of a WASM binary module,
// restricted to the sections spec.md §4.4.1 requires: type, import,
// function, table, memory, global, export, code.
type Module struct {
	Types    []FuncType
	Imports  []Import
	FuncSigs []uint32 // function section: TypeIdx per locally-defined function, parallel to Funcs
	Funcs    []Func
	Table    *Limits // present only if indirect calls are used (spec.md §4.4 "table section for indirect calls")
	Elems    []uint32 // active element segment at table offset 0: table[i] = Elems[i]
	Memory   Limits
	Globals  []Global
	Exports  []Export
	// Data is the static region's raw bytes (spec.md §4.4.5 interned string
	// pool), loaded at DataOffset by a single active data segment.
	Data       []byte
	DataOffset uint32
}

// NewModule returns an empty module with the one required memory
// (spec.md §4.4.1 "Exactly one memory, initial 1 page, max 16 pages").
func NewModule() *Module {
	return &Module{
		Memory: Limits{Min: 1, Max: 16, HasMax: true},
	}
}

// AddType interns t, returning its index (deduplicating identical
// signatures keeps the type section minimal, matching how real WASM
// toolchains emit it).
func (m *Module) AddType(t FuncType) uint32 {
	for i, existing := range m.Types {
		if existing.Equals(t) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, t)
	return uint32(len(m.Types) - 1)
}

// AddImport registers a host import and returns its function index. Host
// imports are numbered before locally-defined functions (WASM spec §5.5.5
// "the function index space starts with imported functions").
func (m *Module) AddImport(module, name string, sig FuncType) uint32 {
	idx := m.AddType(sig)
	m.Imports = append(m.Imports, Import{Module: module, Name: name, Type: idx})
	return uint32(len(m.Imports) - 1)
}

// numImportedFuncs counts import-section entries that are functions (every
// import this compiler emits is a function import, per spec.md §6.1).
func (m *Module) numImportedFuncs() uint32 { return uint32(len(m.Imports)) }

// NumImportedFuncs exposes numImportedFuncs to internal/codegen, which
// needs it to translate a global function index back into a Funcs slice
// position when patching a previously-declared placeholder body.
func (m *Module) NumImportedFuncs() uint32 { return m.numImportedFuncs() }

// AddFunc appends a locally-defined function and returns its global
// function index (continuing the import-function index space).
func (m *Module) AddFunc(sig FuncType, locals []ValType, body []byte) uint32 {
	typeIdx := m.AddType(sig)
	m.FuncSigs = append(m.FuncSigs, typeIdx)
	m.Funcs = append(m.Funcs, Func{TypeIdx: typeIdx, Locals: locals, Body: body})
	return m.numImportedFuncs() + uint32(len(m.Funcs)) - 1
}

// Export registers name as an export of the given kind/index.
func (m *Module) Export(name string, kind ExportKind, idx uint32) {
	m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Idx: idx})
}

// AddElemFunc appends fnIdx to the table's element segment, growing the
// table's Min/Max limits to fit, and returns the table slot it now
// occupies. Used by codegen to build the per-class vtable for methods that
// are overridden somewhere in the class hierarchy (spec.md §9 DESIGN NOTES
// "table-based indirect dispatch only when an override is observed");
// non-overridden calls never touch the table at all.
func (m *Module) AddElemFunc(fnIdx uint32) uint32 {
	if m.Table == nil {
		m.Table = &Limits{Min: 0, Max: 0, HasMax: false}
	}
	slot := uint32(len(m.Elems))
	m.Elems = append(m.Elems, fnIdx)
	m.Table.Min = uint32(len(m.Elems))
	if m.Table.HasMax && m.Table.Max < m.Table.Min {
		m.Table.Max = m.Table.Min
	}
	return slot
}

// FuncTypeOf resolves the declared signature of the function at the given
// global function index (spanning both imports and local functions).
func (m *Module) FuncTypeOf(funcIdx uint32) (FuncType, bool) {
	if funcIdx < m.numImportedFuncs() {
		imp := m.Imports[funcIdx]
		return m.Types[imp.Type], true
	}
	local := funcIdx - m.numImportedFuncs()
	if int(local) >= len(m.Funcs) {
		return FuncType{}, false
	}
	return m.Types[m.Funcs[local].TypeIdx], true
}
