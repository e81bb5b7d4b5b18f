package codegen

import (
	"github.com/clean-lang/cleanc/internal/runtime"
	"github.com/clean-lang/cleanc/internal/wasmbin"
)

// setupRuntime emits every internal/runtime function body this module may
// need and records its function index, then patches the heap-pointer
// global's initializer now that internAllStrings has fixed the pool's
// final size (spec.md §4.4.6 "the heap begins immediately above the
// static pool").
func (c *Compiler) setupRuntime() {
	c.mallocIdx = c.m.AddFunc(runtime.MallocType, nil, runtime.MallocBody(c.heapPtrGlobal))
	c.retainIdx = c.m.AddFunc(runtime.RetainType, nil, runtime.RetainBody())
	c.releaseIdx = c.m.AddFunc(runtime.ReleaseType, nil, runtime.ReleaseBody(c.freeListGlobal))

	c.stringConcatIdx = c.m.AddFunc(runtime.StringConcatType, runtime.StringConcatLocals, runtime.StringConcatBody(c.mallocIdx))
	c.intToStringIdx = c.m.AddFunc(runtime.IntToStringType, runtime.IntToStringLocals, runtime.IntToStringBody(c.mallocIdx))
	c.numberToStringIdx = c.m.AddFunc(runtime.NumberToStringType, nil, runtime.NumberToStringBody(c.intToStringIdx))
	c.toUpperIdx = c.m.AddFunc(runtime.StringCaseType, runtime.StringCaseLocals, runtime.StringToUpperCaseBody(c.mallocIdx))
	c.toLowerIdx = c.m.AddFunc(runtime.StringCaseType, runtime.StringCaseLocals, runtime.StringToLowerCaseBody(c.mallocIdx))
	c.substringIdx = c.m.AddFunc(runtime.StringSubstringType, nil, runtime.StringSubstringBody(c.mallocIdx))
	c.indexOfIdx = c.m.AddFunc(runtime.StringIndexOfType, nil, runtime.StringIndexOfBody())
	c.toIntegerIdx = c.m.AddFunc(runtime.StringToIntegerType, nil, runtime.StringToIntegerBody())
	c.toNumberIdx = c.m.AddFunc(runtime.StringToNumberType, nil, runtime.StringToNumberBody(c.toIntegerIdx))
	c.stringEqualsIdx = c.m.AddFunc(runtime.StringEqualsType, runtime.StringEqualsLocals, runtime.StringEqualsBody())
	c.boolToStringIdx = c.m.AddFunc(runtime.BoolToStringType, nil, runtime.BoolToStringBody())

	c.listAddIdx = c.m.AddFunc(runtime.ListAddType, runtime.ListOpLocals, runtime.ListAddBody())
	c.listRemoveIdx = c.m.AddFunc(runtime.ListRemoveType, runtime.ListOpLocals, runtime.ListRemoveBody())
	c.listPeekIdx = c.m.AddFunc(runtime.ListPeekType, nil, runtime.ListPeekBody())
	c.listContainsIdx = c.m.AddFunc(runtime.ListContainsType, runtime.ListOpLocals, runtime.ListContainsBody())

	c.mathPowIdx = c.m.AddFunc(runtime.MathPowType, nil, runtime.MathPowBody(c.mathPowHostIdx))

	c.finalizeHeapInit()
}

func (c *Compiler) finalizeHeapInit() {
	init := wasmbin.NewBuilder()
	init.I32Const(int32(runtime.StaticPoolBase + uint32(len(c.poolBytes)))).End()
	c.m.Globals[c.heapPtrGlobal].Init = init.Bytes()
}
