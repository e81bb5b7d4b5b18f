package runtime

import (
	"testing"

	"github.com/clean-lang/cleanc/internal/wasmbin"
)

func TestListOpBodiesEndBalanced(t *testing.T) {
	bodies := map[string][]byte{
		"add":      ListAddBody(),
		"remove":   ListRemoveBody(),
		"peek":     ListPeekBody(),
		"contains": ListContainsBody(),
	}
	for name, body := range bodies {
		if len(body) == 0 {
			t.Errorf("%s: no instructions emitted", name)
			continue
		}
		if lastByte(body) != byte(wasmbin.OpEnd) {
			t.Errorf("%s: should end with an explicit end opcode, got 0x%x", name, lastByte(body))
		}
	}
}

func TestListPeekBranchesOnBehaviorTag(t *testing.T) {
	body := ListPeekBody()
	foundTagCheck := false
	for i := 0; i+1 < len(body); i++ {
		if body[i] == byte(wasmbin.OpI32Load8U) {
			foundTagCheck = true
			break
		}
	}
	if !foundTagCheck {
		t.Error("ListPeekBody should load the 1-byte behavior tag to branch on line-vs-pile ordering")
	}
}
