// Package stdlib is the Standard Library Registry (spec.md §4.3): the set
// of built-in classes and top-level functions available to every Clean
// Language program, tagged with how codegen must realize each one.
//
// Grounded on the teacher's per-class builtin signature tables
// (internal/builtins/*.go, internal/semantic/analyze_builtin_*.go in
// _examples/CWBudde-go-dws) generalized from DWScript's builtin set to
// Clean Language's Math/String/List/Matrix/File/Http/Console classes.
package stdlib

import "github.com/clean-lang/cleanc/internal/types"

// Strategy is how codegen realizes a registry entry (spec.md §4.3).
type Strategy int

const (
	// Intrinsic entries emit a fixed WASM instruction sequence inline.
	Intrinsic Strategy = iota
	// Library entries emit a call to a stdlib function body codegen also emits.
	Library
	// HostImport entries emit a call to a host-provided imported function.
	HostImport
)

func (s Strategy) String() string {
	switch s {
	case Intrinsic:
		return "intrinsic"
	case Library:
		return "library"
	case HostImport:
		return "host-import"
	}
	return "?"
}

// Method is one registered class method or top-level function.
type Method struct {
	Class    string // "" for top-level functions
	Name     string
	Params   []types.Type
	Return   types.Type
	Strategy Strategy
	// Index is the registry's deterministic function index, assigned in
	// registration order so codegen's `call` instructions are stable
	// across a single compilation (spec.md §4.3 "must be deterministic").
	Index int
}

// Registry holds the full built-in surface, deterministically indexed.
type Registry struct {
	byClassMethod map[string]map[string]*Method
	topLevel      map[string]*Method
	ordered       []*Method
}

// New builds the registry in a fixed order (spec.md §4.3 "Classes
// registered: Math, String, List, Matrix, File, Http, Console").
func New() *Registry {
	r := &Registry{
		byClassMethod: map[string]map[string]*Method{},
		topLevel:      map[string]*Method{},
	}
	r.registerMath()
	r.registerString()
	r.registerList()
	r.registerMatrix()
	r.registerFile()
	r.registerHttp()
	r.registerConsole()
	r.registerTopLevel()
	return r
}

func (r *Registry) add(m *Method) *Method {
	m.Index = len(r.ordered)
	r.ordered = append(r.ordered, m)
	if m.Class == "" {
		r.topLevel[m.Name] = m
		return m
	}
	bucket, ok := r.byClassMethod[m.Class]
	if !ok {
		bucket = map[string]*Method{}
		r.byClassMethod[m.Class] = bucket
	}
	bucket[m.Name] = m
	return m
}

// Lookup resolves `class.method` (or a bare top-level function when class
// is "").
func (r *Registry) Lookup(class, name string) (*Method, bool) {
	if class == "" {
		m, ok := r.topLevel[name]
		return m, ok
	}
	bucket, ok := r.byClassMethod[class]
	if !ok {
		return nil, false
	}
	m, ok := bucket[name]
	return m, ok
}

// All returns every registered entry in deterministic registration order.
func (r *Registry) All() []*Method { return r.ordered }

// HasClass reports whether name is a registered built-in class.
func (r *Registry) HasClass(name string) bool {
	_, ok := r.byClassMethod[name]
	return ok
}

func (r *Registry) registerMath() {
	n := types.Number
	r.add(&Method{Class: "Math", Name: "sqrt", Params: []types.Type{n}, Return: n, Strategy: Intrinsic})
	r.add(&Method{Class: "Math", Name: "abs", Params: []types.Type{n}, Return: n, Strategy: Intrinsic})
	r.add(&Method{Class: "Math", Name: "pow", Params: []types.Type{n, n}, Return: n, Strategy: Library})
	r.add(&Method{Class: "Math", Name: "floor", Params: []types.Type{n}, Return: n, Strategy: Intrinsic})
	r.add(&Method{Class: "Math", Name: "ceil", Params: []types.Type{n}, Return: n, Strategy: Intrinsic})
	r.add(&Method{Class: "Math", Name: "round", Params: []types.Type{n}, Return: types.Integer, Strategy: Intrinsic})
	r.add(&Method{Class: "Math", Name: "min", Params: []types.Type{n, n}, Return: n, Strategy: Intrinsic})
	r.add(&Method{Class: "Math", Name: "max", Params: []types.Type{n, n}, Return: n, Strategy: Intrinsic})
}

func (r *Registry) registerString() {
	s := types.String
	r.add(&Method{Class: "String", Name: "length", Params: nil, Return: types.Integer, Strategy: Intrinsic})
	r.add(&Method{Class: "String", Name: "toUpperCase", Params: nil, Return: s, Strategy: Library})
	r.add(&Method{Class: "String", Name: "toLowerCase", Params: nil, Return: s, Strategy: Library})
	r.add(&Method{Class: "String", Name: "substring", Params: []types.Type{types.Integer, types.Integer}, Return: s, Strategy: Library})
	r.add(&Method{Class: "String", Name: "indexOf", Params: []types.Type{s}, Return: types.Integer, Strategy: Library})
	r.add(&Method{Class: "String", Name: "concat", Params: []types.Type{s}, Return: s, Strategy: Intrinsic})
	r.add(&Method{Class: "String", Name: "toInteger", Params: nil, Return: types.Integer, Strategy: Library})
	r.add(&Method{Class: "String", Name: "toNumber", Params: nil, Return: types.Number, Strategy: Library})
}

// registerList registers methods against a List<Any> template; the
// analyzer substitutes the element type in place of Any at each call site
// (spec.md §4.2 "Generics (Any)").
func (r *Registry) registerList() {
	any := types.Any
	r.add(&Method{Class: "List", Name: "add", Params: []types.Type{any}, Return: types.Void, Strategy: Library})
	r.add(&Method{Class: "List", Name: "remove", Params: nil, Return: any, Strategy: Library})
	r.add(&Method{Class: "List", Name: "peek", Params: nil, Return: any, Strategy: Library})
	r.add(&Method{Class: "List", Name: "contains", Params: []types.Type{any}, Return: types.Boolean, Strategy: Library})
	r.add(&Method{Class: "List", Name: "length", Params: nil, Return: types.Integer, Strategy: Intrinsic})
	r.add(&Method{Class: "List", Name: "get", Params: []types.Type{types.Integer}, Return: any, Strategy: Intrinsic})
	r.add(&Method{Class: "List", Name: "set", Params: []types.Type{types.Integer, any}, Return: types.Void, Strategy: Intrinsic})
}

func (r *Registry) registerMatrix() {
	any := types.Any
	r.add(&Method{Class: "Matrix", Name: "get", Params: []types.Type{types.Integer, types.Integer}, Return: any, Strategy: Intrinsic})
	r.add(&Method{Class: "Matrix", Name: "set", Params: []types.Type{types.Integer, types.Integer, any}, Return: types.Void, Strategy: Intrinsic})
	r.add(&Method{Class: "Matrix", Name: "rows", Params: nil, Return: types.Integer, Strategy: Intrinsic})
	r.add(&Method{Class: "Matrix", Name: "cols", Params: nil, Return: types.Integer, Strategy: Intrinsic})
}

func (r *Registry) registerFile() {
	s := types.String
	r.add(&Method{Class: "File", Name: "read", Params: []types.Type{s}, Return: s, Strategy: HostImport})
	r.add(&Method{Class: "File", Name: "write", Params: []types.Type{s, s}, Return: types.Void, Strategy: HostImport})
	r.add(&Method{Class: "File", Name: "append", Params: []types.Type{s, s}, Return: types.Void, Strategy: HostImport})
	r.add(&Method{Class: "File", Name: "exists", Params: []types.Type{s}, Return: types.Boolean, Strategy: HostImport})
	r.add(&Method{Class: "File", Name: "delete", Params: []types.Type{s}, Return: types.Void, Strategy: HostImport})
}

func (r *Registry) registerHttp() {
	s := types.String
	r.add(&Method{Class: "Http", Name: "get", Params: []types.Type{s}, Return: s, Strategy: HostImport})
	r.add(&Method{Class: "Http", Name: "post", Params: []types.Type{s, s}, Return: s, Strategy: HostImport})
	r.add(&Method{Class: "Http", Name: "put", Params: []types.Type{s, s}, Return: s, Strategy: HostImport})
	r.add(&Method{Class: "Http", Name: "patch", Params: []types.Type{s, s}, Return: s, Strategy: HostImport})
	r.add(&Method{Class: "Http", Name: "delete", Params: []types.Type{s}, Return: s, Strategy: HostImport})
}

func (r *Registry) registerConsole() {
	s := types.String
	r.add(&Method{Class: "Console", Name: "print", Params: []types.Type{s}, Return: types.Void, Strategy: HostImport})
	r.add(&Method{Class: "Console", Name: "println", Params: []types.Type{s}, Return: types.Void, Strategy: HostImport})
	r.add(&Method{Class: "Console", Name: "input", Params: nil, Return: s, Strategy: HostImport})
}

// registerTopLevel registers the class-prefix-free top-level surface
// (spec.md §4.3 "available at the top level without a class prefix").
func (r *Registry) registerTopLevel() {
	s := types.String
	r.add(&Method{Name: "print", Params: []types.Type{s}, Return: types.Void, Strategy: HostImport})
	r.add(&Method{Name: "println", Params: []types.Type{s}, Return: types.Void, Strategy: HostImport})
	r.add(&Method{Name: "input", Params: nil, Return: s, Strategy: HostImport})
	r.add(&Method{Name: "input.integer", Params: nil, Return: types.Integer, Strategy: HostImport})
	r.add(&Method{Name: "input.number", Params: nil, Return: types.Number, Strategy: HostImport})
	r.add(&Method{Name: "input.yesNo", Params: nil, Return: types.Boolean, Strategy: HostImport})
	// toString is not part of spec.md's stdlib surface; it backs the
	// interpolated-string lowering (spec.md §4.4.5), converting any
	// non-String chunk before concatenation.
	r.add(&Method{Name: "toString", Params: []types.Type{types.Any}, Return: types.String, Strategy: Library})
}
