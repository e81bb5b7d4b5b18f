package runtime

import "testing"

func TestListBehaviorTag(t *testing.T) {
	cases := []struct {
		name string
		want ListBehavior
		ok   bool
	}{
		{"line", BehaviorLine, true},
		{"pile", BehaviorPile, true},
		{"unique", BehaviorUnique, true},
		{"queue", BehaviorDefault, false},
	}
	for _, c := range cases {
		got, ok := ListBehaviorTag(c.name)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ListBehaviorTag(%q) = (%v, %v), want (%v, %v)", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestWidthBytes(t *testing.T) {
	cases := map[ElemKind]int{
		ElemI32: 4,
		ElemF32: 4,
		ElemI64: 8,
		ElemF64: 8,
	}
	for kind, want := range cases {
		if got := WidthBytes(kind); got != want {
			t.Errorf("WidthBytes(%v) = %d, want %d", kind, got, want)
		}
	}
}

func TestListBehaviorOffsetPastLengthAndCapacity(t *testing.T) {
	if ListBehaviorOffset != 8 {
		t.Errorf("ListBehaviorOffset = %d, want 8 (past two u32 fields)", ListBehaviorOffset)
	}
	if ListHeaderSize <= ListBehaviorOffset {
		t.Errorf("ListHeaderSize (%d) must be greater than ListBehaviorOffset (%d)", ListHeaderSize, ListBehaviorOffset)
	}
}
