package wasmbin

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// summarize renders the structural shape of m (section sizes, import and
// export names) the way a golden test wants to pin it: stable across
// unrelated encoder changes, sensitive to anything that actually changes
// the module's shape.
func summarize(m *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "types: %d\n", len(m.Types))
	fmt.Fprintf(&b, "imports:\n")
	for _, imp := range m.Imports {
		fmt.Fprintf(&b, "  %s.%s\n", imp.Module, imp.Name)
	}
	fmt.Fprintf(&b, "funcs: %d\n", len(m.Funcs))
	fmt.Fprintf(&b, "globals: %d\n", len(m.Globals))
	fmt.Fprintf(&b, "exports:\n")
	for _, exp := range m.Exports {
		fmt.Fprintf(&b, "  %s (kind %d) -> %d\n", exp.Name, exp.Kind, exp.Idx)
	}
	fmt.Fprintf(&b, "data bytes: %d\n", len(m.Data))
	return b.String()
}

func TestModuleStructureSnapshot(t *testing.T) {
	m := NewModule()
	printIdx := m.AddImport("env", "println", FuncType{Params: []ValType{ValI32, ValI32}})

	b := NewBuilder()
	b.I32Const(0).I32Const(5).Call(printIdx).End()
	startIdx := m.AddFunc(FuncType{}, nil, b.Bytes())
	m.Export("start", ExportFunc, startIdx)
	m.Export("memory", ExportMemory, 0)
	m.Data = []byte("Hello")

	snaps.MatchSnapshot(t, summarize(m))
}
