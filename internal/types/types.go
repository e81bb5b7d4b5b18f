// Package types implements Clean Language's type system (spec.md §3.1):
// structural equality for primitives/composites, nominal equality for
// classes, and the Integer -> Number widening rule.
package types

import "fmt"

// Kind is the coarse category of a Type.
type Kind int

const (
	KindInvalid Kind = iota
	KindBoolean
	KindInteger
	KindNumber
	KindString
	KindVoid
	KindAny
	KindList
	KindMatrix
	KindPairs
	KindObject
	KindFuture
)

// Type is any Clean Language type. Primitive and composite kinds compare
// structurally via Equals; Object(ClassId) compares nominally by class name.
type Type interface {
	Kind() Kind
	String() string
	Equals(other Type) bool
}

// Primitive covers Boolean, Integer, Number, String, Void, Any, with
// precision annotations for Integer (8/16/32/64) and Number (32/64)
// (spec.md §3.1).
type Primitive struct {
	K     Kind
	Width int // 0 = default width for the kind
}

func (p *Primitive) Kind() Kind { return p.K }

func (p *Primitive) String() string {
	switch p.K {
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		if p.Width == 0 || p.Width == 32 {
			return "Integer"
		}
		return fmt.Sprintf("Integer%d", p.Width)
	case KindNumber:
		if p.Width == 0 || p.Width == 64 {
			return "Number"
		}
		return fmt.Sprintf("Number%d", p.Width)
	case KindString:
		return "String"
	case KindVoid:
		return "Void"
	case KindAny:
		return "Any"
	}
	return "?"
}

func (p *Primitive) Equals(other Type) bool {
	o, ok := other.(*Primitive)
	if !ok {
		return false
	}
	if p.K != o.K {
		return false
	}
	if p.K != KindInteger && p.K != KindNumber {
		return true
	}
	return effectiveWidth(p) == effectiveWidth(o)
}

func effectiveWidth(p *Primitive) int {
	if p.Width != 0 {
		return p.Width
	}
	if p.K == KindInteger {
		return 32
	}
	return 64
}

// IntWidth returns the effective integer width (defaulting to 32), or 0 if
// t is not an Integer.
func IntWidth(t Type) int {
	p, ok := t.(*Primitive)
	if !ok || p.K != KindInteger {
		return 0
	}
	return effectiveWidth(p)
}

// NumWidth returns the effective number width (defaulting to 64), or 0 if
// t is not a Number.
func NumWidth(t Type) int {
	p, ok := t.(*Primitive)
	if !ok || p.K != KindNumber {
		return 0
	}
	return effectiveWidth(p)
}

var (
	Boolean = &Primitive{K: KindBoolean}
	Integer = &Primitive{K: KindInteger, Width: 32}
	Number  = &Primitive{K: KindNumber, Width: 64}
	String  = &Primitive{K: KindString}
	Void    = &Primitive{K: KindVoid}
	Any     = &Primitive{K: KindAny}
)

// IntegerN returns an Integer type with an explicit bit width.
func IntegerN(width int) *Primitive { return &Primitive{K: KindInteger, Width: width} }

// NumberN returns a Number type with an explicit bit width.
func NumberN(width int) *Primitive { return &Primitive{K: KindNumber, Width: width} }

// ListType is List<T> (spec.md §3.1).
type ListType struct{ Elem Type }

func (l *ListType) Kind() Kind     { return KindList }
func (l *ListType) String() string { return "List<" + l.Elem.String() + ">" }
func (l *ListType) Equals(other Type) bool {
	o, ok := other.(*ListType)
	return ok && l.Elem.Equals(o.Elem)
}

// MatrixType is Matrix<T>.
type MatrixType struct{ Elem Type }

func (m *MatrixType) Kind() Kind     { return KindMatrix }
func (m *MatrixType) String() string { return "Matrix<" + m.Elem.String() + ">" }
func (m *MatrixType) Equals(other Type) bool {
	o, ok := other.(*MatrixType)
	return ok && m.Elem.Equals(o.Elem)
}

// PairsType is Pairs<K,V> (a map).
type PairsType struct{ Key, Value Type }

func (p *PairsType) Kind() Kind { return KindPairs }
func (p *PairsType) String() string {
	return "Pairs<" + p.Key.String() + ", " + p.Value.String() + ">"
}
func (p *PairsType) Equals(other Type) bool {
	o, ok := other.(*PairsType)
	return ok && p.Key.Equals(o.Key) && p.Value.Equals(o.Value)
}

// FutureType is Future<T> (spec.md §3.1, §4.2 "Async lowering").
type FutureType struct{ Elem Type }

func (f *FutureType) Kind() Kind     { return KindFuture }
func (f *FutureType) String() string { return "Future<" + f.Elem.String() + ">" }
func (f *FutureType) Equals(other Type) bool {
	o, ok := other.(*FutureType)
	return ok && f.Elem.Equals(o.Elem)
}

// ClassType is a declared class, with at most one parent (spec.md §3.2
// "single inheritance" and §4.2 "Inheritance contract").
type ClassType struct {
	Name       string
	Parent     *ClassType
	Fields     []FieldInfo
	FieldIndex map[string]int
	Methods    map[string]*FunctionType
	StaticOnly map[string]bool // method names that may not touch instance fields
}

// FieldInfo describes a single field slot in declared order (spec.md §3.2).
type FieldInfo struct {
	Name    string
	Type    Type
	Private bool
}

func (c *ClassType) Kind() Kind     { return KindObject }
func (c *ClassType) String() string { return c.Name }

// Equals is nominal for classes (spec.md §3.1 "nominal for classes").
func (c *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	return ok && c.Name == o.Name
}

// IsSubclassOf reports whether c is the same class as, or a descendant of,
// ancestor (spec.md §4.2 "Type compatibility ... transitive and reflexive").
func (c *ClassType) IsSubclassOf(ancestor *ClassType) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.Name == ancestor.Name {
			return true
		}
	}
	return false
}

// LookupMethod resolves m by walking c's ancestor chain, first match wins
// (spec.md §4.2 "Method call").
func (c *ClassType) LookupMethod(name string) (*FunctionType, *ClassType) {
	for cur := c; cur != nil; cur = cur.Parent {
		if fn, ok := cur.Methods[name]; ok {
			return fn, cur
		}
	}
	return nil, nil
}

// LookupField resolves a field by walking c's ancestor chain.
func (c *ClassType) LookupField(name string) (FieldInfo, *ClassType, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if idx, ok := cur.FieldIndex[name]; ok {
			return cur.Fields[idx], cur, true
		}
	}
	return FieldInfo{}, nil, false
}

// AllFields returns the flattened field list in ancestor-first order,
// matching the declared-order object layout codegen emits (spec.md §4.4.2
// "Object(C) ... field[0..n] in class-declared order").
func (c *ClassType) AllFields() []FieldInfo {
	var chain []*ClassType
	for cur := c; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	var fields []FieldInfo
	for i := len(chain) - 1; i >= 0; i-- {
		fields = append(fields, chain[i].Fields...)
	}
	return fields
}

// FunctionType is a callable signature.
type FunctionType struct {
	Name       string
	Params     []Type
	ParamNames []string
	Defaults   []bool // true where the corresponding parameter has a default
	Return     Type
	Background bool
}

func (f *FunctionType) Kind() Kind { return KindInvalid }
func (f *FunctionType) String() string {
	s := f.Name + "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") " + f.Return.String()
}
func (f *FunctionType) Equals(other Type) bool { return false }

// AssignableTo reports whether a value of type from may be assigned or
// passed where type to is expected (spec.md §3.1 Invariants, §4.2 "Type
// compatibility"): identity, Integer->Number widening, and class
// width-subtyping.
func AssignableTo(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	if to.Kind() == KindAny || from.Kind() == KindAny {
		return true
	}
	if from.Equals(to) {
		return true
	}
	if fp, ok := from.(*Primitive); ok && fp.K == KindInteger {
		if tp, ok := to.(*Primitive); ok && tp.K == KindNumber {
			return true
		}
	}
	if fc, ok := from.(*ClassType); ok {
		if tc, ok := to.(*ClassType); ok {
			return fc.IsSubclassOf(tc)
		}
	}
	if ff, ok := from.(*FutureType); ok {
		return AssignableTo(ff.Elem, to)
	}
	return false
}

// IsNumeric reports whether t is Integer or Number.
func IsNumeric(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && (p.K == KindInteger || p.K == KindNumber)
}

// Widen returns Number if either operand is Number, else Integer, for
// mixed arithmetic (spec.md §4.2 "arithmetic on {Integer, Number} with
// Integer->Number widening").
func Widen(a, b Type) Type {
	ap, aok := a.(*Primitive)
	bp, bok := b.(*Primitive)
	if !aok || !bok {
		return Number
	}
	if ap.K == KindNumber || bp.K == KindNumber {
		w := effectiveWidth(ap)
		if bp.K == KindNumber && effectiveWidth(bp) > w {
			w = effectiveWidth(bp)
		} else if ap.K != KindNumber {
			w = effectiveWidth(bp)
		}
		return NumberN(w)
	}
	w := effectiveWidth(ap)
	if effectiveWidth(bp) > w {
		w = effectiveWidth(bp)
	}
	return IntegerN(w)
}
