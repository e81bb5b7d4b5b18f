package codegen

import (
	"fmt"
	"strings"

	"github.com/clean-lang/cleanc/internal/ast"
	cerrors "github.com/clean-lang/cleanc/internal/errors"
	"github.com/clean-lang/cleanc/internal/lexer"
	"github.com/clean-lang/cleanc/internal/runtime"
	"github.com/clean-lang/cleanc/internal/semantic"
	"github.com/clean-lang/cleanc/internal/stdlib"
	"github.com/clean-lang/cleanc/internal/types"
	"github.com/clean-lang/cleanc/internal/wasmbin"
)

// Compiler lowers one analyzed compilation unit into a wasmbin.Module. It
// is used once per Compile call, mirroring the teacher's single-pass
// bytecode Compiler rather than being reused across modules.
type Compiler struct {
	mod    *ast.Module
	prog   *semantic.Program
	std    *stdlib.Registry
	source string
	file   string
	errs   []*cerrors.CompilerError

	m *wasmbin.Module

	// Runtime/library function indices, populated by setupRuntime.
	mallocIdx, retainIdx, releaseIdx                         uint32
	stringConcatIdx, intToStringIdx, numberToStringIdx       uint32
	stringEqualsIdx, boolToStringIdx                         uint32
	toUpperIdx, toLowerIdx, substringIdx, indexOfIdx         uint32
	toIntegerIdx, toNumberIdx                                uint32
	listAddIdx, listRemoveIdx, listPeekIdx, listContainsIdx  uint32
	mathPowIdx, mathPowHostIdx                               uint32
	raiseErrorIdx                                            uint32
	queueFutureTaskIdx, queueBackgroundTaskIdx, futureGetIdx uint32

	// Host-import indices for the HostImport-strategy stdlib surface
	// (spec.md §6.1), keyed by the registry's Method.Index.
	hostImport map[int]uint32

	heapPtrGlobal, freeListGlobal uint32

	// String pool: literal byte content -> its StaticPoolBase-relative
	// address, deduplicated (spec.md §4.4.5 "identical literals share one
	// pool entry").
	stringPool map[string]uint32
	poolBytes  []byte
	truePtr    uint32
	falsePtr   uint32

	classLayouts map[string]*classLayout
	classDecls   map[string]*ast.ClassDecl

	// constExpr maps a module-level constant name to its value expression,
	// so an Identifier read of a constant can be lowered by re-emitting that
	// expression at each use site rather than allocating a dedicated global
	// (constants are pure, so re-evaluation is safe and avoids a second
	// global-initialization pass ordered against the string pool).
	constExpr map[string]ast.Expression

	// Virtual method slots: methodName -> slot index, populated only for
	// method names that are overridden somewhere in some class hierarchy
	// (spec.md §9 DESIGN NOTES, DESIGN.md "Method dispatch").
	virtualSlot map[string]uint32
	virtualSig  map[string]uint32 // methodName -> wasmbin type index of its shared signature

	funcIndex   map[string]uint32            // free function name -> func idx
	methodIndex map[string]map[string]uint32 // class name -> method name -> func idx (this class's own implementation slot, inherited names included)
	ctorIndex   map[string]uint32            // class name -> constructor func idx

	startIdx uint32
}

// Compile lowers mod (already type-checked by semantic.Analyze, with prog
// its resolved symbol tables) into a complete WASM binary module. It
// returns nil alongside a CodegenError diagnostic rather than ever
// producing a partial module (spec.md §7 "never emits a partially-built
// artifact").
func Compile(mod *ast.Module, prog *semantic.Program, source, file string) (*wasmbin.Module, []*cerrors.CompilerError) {
	c := &Compiler{
		mod:          mod,
		prog:         prog,
		std:          stdlib.New(),
		source:       source,
		file:         file,
		m:            wasmbin.NewModule(),
		hostImport:   map[int]uint32{},
		stringPool:   map[string]uint32{},
		classLayouts: map[string]*classLayout{},
		classDecls:   map[string]*ast.ClassDecl{},
		virtualSlot:  map[string]uint32{},
		virtualSig:   map[string]uint32{},
		funcIndex:    map[string]uint32{},
		methodIndex:  map[string]map[string]uint32{},
		ctorIndex:    map[string]uint32{},
	}
	for _, cd := range mod.Classes {
		c.classDecls[cd.Name] = cd
	}
	c.constExpr = map[string]ast.Expression{}
	for _, cst := range mod.Constants {
		c.constExpr[cst.Name] = cst.Value
	}

	c.setupGlobals()
	c.setupHostImports()
	c.internAllStrings()
	c.setupRuntime()
	c.assignClassIds()
	c.computeVirtualMethods()

	// Declare every function signature before emitting any body, so
	// forward references (mutual recursion, forward class references)
	// resolve to a stable func index (spec.md §4.2 "Symbol registration
	// order" carried into codegen).
	c.declareFunctionSignatures()
	c.declareClassSignatures()

	c.emitFunctionBodies()
	c.emitClassBodies()
	c.buildVtable()
	c.emitStart()

	c.m.Export("memory", wasmbin.ExportMemory, 0)
	c.m.DataOffset = runtime.StaticPoolBase
	c.m.Data = c.poolBytes

	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return c.m, nil
}

func (c *Compiler) errorf(pos lexer.Position, format string, args ...interface{}) {
	c.errs = append(c.errs, cerrors.New(cerrors.CodegenError, pos, fmt.Sprintf(format, args...), c.source, c.file))
}

// setupGlobals allocates the two mutable i32 globals every module needs:
// the bump-allocator heap pointer (initialized past the static string
// pool) and the free-list head (spec.md §4.4.6).
func (c *Compiler) setupGlobals() {
	heapInit := wasmbin.NewBuilder()
	heapInit.I32Const(0).End() // patched to the real pool size once interning completes, via setupRuntime's deferred fixup
	c.heapPtrGlobal = uint32(len(c.m.Globals))
	c.m.Globals = append(c.m.Globals, wasmbin.Global{
		Type: wasmbin.GlobalType{Type: wasmbin.ValI32, Mutable: true},
		Init: heapInit.Bytes(),
	})

	freeInit := wasmbin.NewBuilder()
	freeInit.I32Const(0).End()
	c.freeListGlobal = uint32(len(c.m.Globals))
	c.m.Globals = append(c.m.Globals, wasmbin.Global{
		Type: wasmbin.GlobalType{Type: wasmbin.ValI32, Mutable: true},
		Init: freeInit.Bytes(),
	})
}

// setupHostImports registers the fixed host import surface (spec.md §6.1)
// plus the raise_error, async and math_pow imports. Every import is numbered before any locally-defined function, so
// this must run before declareFunctionSignatures/declareClassSignatures.
func (c *Compiler) setupHostImports() {
	i32 := wasmbin.ValI32
	f64 := wasmbin.ValF64
	byName := map[string]uint32{}
	for _, m := range c.std.All() {
		if m.Strategy != stdlib.HostImport {
			continue
		}
		name := hostImportName(m)
		idx, ok := byName[name]
		if !ok {
			idx = c.m.AddImport("env", name, hostSigFor(m))
			byName[name] = idx
		}
		c.hostImport[m.Index] = idx
	}
	c.raiseErrorIdx = c.m.AddImport("env", "raise_error", wasmbin.FuncType{Params: []wasmbin.ValType{i32}})
	c.queueFutureTaskIdx = c.m.AddImport("env", "queue_future_task", wasmbin.FuncType{Params: []wasmbin.ValType{i32}, Results: []wasmbin.ValType{i32}})
	c.queueBackgroundTaskIdx = c.m.AddImport("env", "queue_background_task", wasmbin.FuncType{Params: []wasmbin.ValType{i32}})
	c.futureGetIdx = c.m.AddImport("env", "future_get", wasmbin.FuncType{Params: []wasmbin.ValType{i32}, Results: []wasmbin.ValType{i32}})
	c.mathPowHostIdx = c.m.AddImport("env", "math_pow", wasmbin.FuncType{Params: []wasmbin.ValType{f64, f64}, Results: []wasmbin.ValType{f64}})
}

// mathPowHostIdx is the raw host import index math_pow forwards to;
// mathPowIdx (set in setupRuntime) is the wrapped Library-strategy
// function codegen's call sites actually resolve Math.pow through.

// hostImportName maps a registry entry to the literal `env`-namespace name
// spec.md §6.1 requires. Console is not a real import namespace: its
// methods mirror the top-level print/println/input surface exactly, so
// they resolve to the same bare names rather than a "Console_"-prefixed
// import, and setupHostImports's by-name dedup then hands both the
// top-level and the Console-qualified call site the same import index.
func hostImportName(m *stdlib.Method) string {
	if m.Class == "" || m.Class == "Console" {
		switch m.Name {
		case "input.integer":
			return "input_integer"
		case "input.number":
			return "input_number"
		case "input.yesNo":
			return "input_yesno"
		}
		return m.Name
	}
	return strings.ToLower(m.Class) + "_" + m.Name
}

func hostSigFor(m *stdlib.Method) wasmbin.FuncType {
	sig := wasmbin.FuncType{}
	for _, p := range m.Params {
		sig.Params = append(sig.Params, valTypeOf(p))
	}
	if m.Return.Kind() != types.KindVoid {
		sig.Results = []wasmbin.ValType{valTypeOf(m.Return)}
	}
	return sig
}
