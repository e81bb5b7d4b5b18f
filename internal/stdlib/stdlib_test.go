package stdlib

import "testing"

func TestRegistryDeterministicIndices(t *testing.T) {
	r1 := New()
	r2 := New()
	for _, m1 := range r1.All() {
		m2, ok := r2.Lookup(m1.Class, m1.Name)
		if !ok {
			t.Fatalf("%s.%s missing on second build", m1.Class, m1.Name)
		}
		if m1.Index != m2.Index {
			t.Fatalf("%s.%s index not stable: %d vs %d", m1.Class, m1.Name, m1.Index, m2.Index)
		}
	}
}

func TestTopLevelConsoleFunctions(t *testing.T) {
	r := New()
	for _, name := range []string{"print", "println", "input", "input.integer", "input.number", "input.yesNo"} {
		if _, ok := r.Lookup("", name); !ok {
			t.Errorf("expected top-level function %q to be registered", name)
		}
	}
}

func TestListMethodsUseAnyPlaceholder(t *testing.T) {
	r := New()
	m, ok := r.Lookup("List", "add")
	if !ok {
		t.Fatal("expected List.add to be registered")
	}
	if m.Params[0].Kind() != 6 { // KindAny, see internal/types
		t.Errorf("expected List.add's parameter to be the Any placeholder, got %s", m.Params[0])
	}
}
