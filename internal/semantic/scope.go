package semantic

import (
	"github.com/clean-lang/cleanc/internal/lexer"
	"github.com/clean-lang/cleanc/internal/types"
)

// SymbolKind classifies a Symbol (spec.md §3.3 Symbol Tables and Scopes).
type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymParam
	SymConst
	SymFunc
	SymClass
	SymField
)

// Symbol is a resolved name binding. Pos is retained even though no
// language-server product ships here, following the teacher's practice of
// keeping definition spans on symbol-table entries for cheap future reuse
// (spec.md SUPPLEMENTED FEATURES "Source-span-carrying symbol table
// entries").
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    types.Type
	Pos     lexer.Position
	Later   bool // declared via `later name = start expr` (spec.md §4.2 "Async lowering")
	Private bool
}

// Scope is one level of the lexical scope stack (spec.md §3.3): module
// scope holds classes/functions/constants, function scope holds
// parameters and locals, and class-method scope additionally exposes
// instance fields through the Analyzer's implicit-context fallback rather
// than through the Scope chain itself.
type Scope struct {
	parent *Scope
	table  map[string]*Symbol
}

// NewScope creates a child scope of parent (nil for the module/global scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, table: map[string]*Symbol{}}
}

// Define binds sym in this scope. It reports false if the name is already
// bound in this exact scope (shadowing an outer scope is allowed).
func (s *Scope) Define(sym *Symbol) bool {
	if _, exists := s.table[sym.Name]; exists {
		return false
	}
	s.table[sym.Name] = sym
	return true
}

// Resolve looks up name in this scope and its ancestors.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.table[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
