package types

import "testing"

func TestPrimitiveEquality(t *testing.T) {
	if !Integer.Equals(Integer) {
		t.Error("Integer should equal itself")
	}
	if Integer.Equals(Number) {
		t.Error("Integer should not equal Number")
	}
	if !IntegerN(32).Equals(Integer) {
		t.Error("IntegerN(32) should equal default Integer")
	}
	if IntegerN(64).Equals(Integer) {
		t.Error("Integer64 should not equal Integer32")
	}
}

func TestAssignableWidening(t *testing.T) {
	if !AssignableTo(Integer, Number) {
		t.Error("Integer should widen to Number")
	}
	if AssignableTo(Number, Integer) {
		t.Error("Number should not narrow to Integer implicitly")
	}
}

func TestClassSubtyping(t *testing.T) {
	shape := &ClassType{Name: "Shape", Methods: map[string]*FunctionType{}}
	circle := &ClassType{Name: "Circle", Parent: shape, Methods: map[string]*FunctionType{}}

	if !circle.IsSubclassOf(shape) {
		t.Error("Circle should be a subclass of Shape")
	}
	if !AssignableTo(circle, shape) {
		t.Error("Circle instance should be assignable to a Shape-typed variable")
	}
	if AssignableTo(shape, circle) {
		t.Error("Shape instance should not be assignable to a Circle-typed variable")
	}
}

func TestListStructuralEquality(t *testing.T) {
	a := &ListType{Elem: Integer}
	b := &ListType{Elem: Integer}
	c := &ListType{Elem: String}
	if !a.Equals(b) {
		t.Error("List<Integer> should equal List<Integer>")
	}
	if a.Equals(c) {
		t.Error("List<Integer> should not equal List<String>")
	}
}

func TestMethodLookupWalksAncestors(t *testing.T) {
	areaFn := &FunctionType{Name: "area", Return: Number}
	shape := &ClassType{Name: "Shape", Methods: map[string]*FunctionType{"area": areaFn}}
	circle := &ClassType{Name: "Circle", Parent: shape, Methods: map[string]*FunctionType{}}

	fn, owner := circle.LookupMethod("area")
	if fn == nil || owner.Name != "Shape" {
		t.Fatalf("expected to find area() on Shape, got %v / %v", fn, owner)
	}
}
