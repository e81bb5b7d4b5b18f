package codegen

import (
	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/types"
	"github.com/clean-lang/cleanc/internal/wasmbin"
)

// assignClassIds numbers every declared class in source order and builds
// its object layout (spec.md §4.4.2 "Object(C) ... {u32 classId,
// field[0..n]}"). Declaration order, not some topological ancestor-first
// order, is used: classId is an opaque tag, not itself a layout offset, so
// nothing requires parents to precede children numerically.
func (c *Compiler) assignClassIds() {
	for i, cd := range c.mod.Classes {
		ct := c.prog.Classes[cd.Name]
		id := uint32(i)
		c.classLayouts[cd.Name] = buildClassLayout(ct, id)
	}
}

// computeVirtualMethods assigns a global vtable slot to every method name
// that is declared directly (not merely inherited) in more than one class
// connected by ancestry — i.e. some class's own method is overridden by a
// descendant, or itself overrides an ancestor's own method of the same
// name (DESIGN.md "Method dispatch": table-based dispatch only
// where an override is actually observed; everything else is a static
// call).
func (c *Compiler) computeVirtualMethods() {
	declaredBy := map[string][]*types.ClassType{} // method name -> classes directly declaring it
	for _, cd := range c.mod.Classes {
		ct := c.prog.Classes[cd.Name]
		for name := range ct.Methods {
			declaredBy[name] = append(declaredBy[name], ct)
		}
	}

	for name, decls := range declaredBy {
		if len(decls) < 2 {
			continue
		}
		overridden := false
		for i := 0; i < len(decls) && !overridden; i++ {
			for j := i + 1; j < len(decls); j++ {
				if decls[i].IsSubclassOf(decls[j]) || decls[j].IsSubclassOf(decls[i]) {
					overridden = true
					break
				}
			}
		}
		if !overridden {
			continue
		}
		slot := uint32(len(c.virtualSlot))
		c.virtualSlot[name] = slot
	}
}

// declareClassSignatures registers a WASM function signature (and
// function-index slot) for every class's constructor and every method,
// virtual or not: virtual methods additionally get a shared signature
// registered once per method name for call_indirect's type-check operand
// (spec.md §4.4.3 "call_indirect checks the callee's signature").
func (c *Compiler) declareClassSignatures() {
	for _, cd := range c.mod.Classes {
		ct := c.prog.Classes[cd.Name]
		c.methodIndex[cd.Name] = map[string]uint32{}

		ctorSig := wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32}} // self
		for _, p := range c.prog.CtorParams[cd.Name] {
			ctorSig.Params = append(ctorSig.Params, valTypeOf(p))
		}
		c.ctorIndex[cd.Name] = c.declareFunc(ctorSig)

		for _, m := range cd.Methods {
			ft := ct.Methods[m.Name]
			sig := c.methodSig(ft)
			idx := c.declareFunc(sig)
			c.methodIndex[cd.Name][m.Name] = idx
			if _, virtual := c.virtualSlot[m.Name]; virtual {
				if _, ok := c.virtualSig[m.Name]; !ok {
					c.virtualSig[m.Name] = c.m.AddType(sig)
				}
			}
		}
	}
}

// methodSig builds an instance method's WASM signature with the receiver
// as an implicit leading i32 parameter (spec.md §4.4.3 "instance methods
// receive `self` as parameter 0").
func (c *Compiler) methodSig(ft *types.FunctionType) wasmbin.FuncType {
	sig := wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32}}
	for _, p := range ft.Params {
		sig.Params = append(sig.Params, valTypeOf(p))
	}
	if ft.Return.Kind() != types.KindVoid {
		sig.Results = []wasmbin.ValType{valTypeOf(ft.Return)}
	}
	return sig
}

// declareFunc reserves a function-index slot for a body compiled later, by
// emitting a minimal placeholder body (a single `unreachable`) now and
// overwriting it via redeclareFunc once the real body is known. WASM's
// function and code sections are parallel arrays indexed by declaration
// order, so the index must be assigned before any later declaration can
// reference it (mutual recursion, forward class references).
func (c *Compiler) declareFunc(sig wasmbin.FuncType) uint32 {
	b := wasmbin.NewBuilder()
	b.Op(wasmbin.OpUnreachable)
	b.End()
	return c.m.AddFunc(sig, nil, b.Bytes())
}

// redeclareFunc overwrites the placeholder body at funcIdx with the real
// compiled body and locals.
func (c *Compiler) redeclareFunc(funcIdx uint32, locals []wasmbin.ValType, body []byte) {
	local := funcIdx - c.m.NumImportedFuncs()
	c.m.Funcs[local].Locals = locals
	c.m.Funcs[local].Body = body
}

// emitClassBodies compiles every class's constructor and methods.
func (c *Compiler) emitClassBodies() {
	for _, cd := range c.mod.Classes {
		c.compileConstructor(cd)
		for _, m := range cd.Methods {
			c.compileMethod(cd, m)
		}
	}
}

// buildVtable lays out the table as numClasses*numVirtualSlots entries,
// classId outer loop and slot number inner, so AddElemFunc's sequential
// numbering naturally yields slot = classId*numVirtualSlots + slotNum
// (DESIGN.md "Method dispatch"). Each entry resolves to the
// function index of that class's actual LookupMethod implementation for
// the slot's method name (the nearest ancestor's implementation, or the
// class's own override).
func (c *Compiler) buildVtable() {
	if len(c.virtualSlot) == 0 {
		return
	}
	numSlots := len(c.virtualSlot)
	slotName := make([]string, numSlots)
	for name, slot := range c.virtualSlot {
		slotName[slot] = name
	}

	for _, cd := range c.mod.Classes {
		ct := c.prog.Classes[cd.Name]
		for s := 0; s < numSlots; s++ {
			name := slotName[s]
			_, owner := ct.LookupMethod(name)
			var fnIdx uint32
			if owner != nil {
				fnIdx = c.methodIndex[owner.Name][name]
			} else {
				// This class's hierarchy never declares the slot's method;
				// the entry is unreachable at valid call sites (the static
				// type at any call_indirect site on this slot is always
				// a class that does declare the method), so it is wired to
				// the first declared implementation found as a harmless
				// placeholder never actually invoked through this classId.
				fnIdx = c.anyImplementationOf(name)
			}
			c.m.AddElemFunc(fnIdx)
		}
	}
}

func (c *Compiler) anyImplementationOf(name string) uint32 {
	for _, cd := range c.mod.Classes {
		if idx, ok := c.methodIndex[cd.Name][name]; ok {
			return idx
		}
	}
	return 0
}

// classDeclOf finds the AST declaration for a class name, used where the
// resolved types.ClassType doesn't carry the field default expressions.
func (c *Compiler) classDeclOf(name string) *ast.ClassDecl {
	return c.classDecls[name]
}
