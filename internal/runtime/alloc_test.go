package runtime

import (
	"testing"

	"github.com/clean-lang/cleanc/internal/wasmbin"
)

func lastByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1]
}

func TestMallocBodyEndsBalanced(t *testing.T) {
	body := MallocBody(0)
	if len(body) == 0 {
		t.Fatal("MallocBody returned no instructions")
	}
	if lastByte(body) != byte(wasmbin.OpEnd) {
		t.Errorf("MallocBody should end with an explicit end opcode, got last byte 0x%x", lastByte(body))
	}
	if body[0] != byte(wasmbin.OpGlobalGet) {
		t.Errorf("MallocBody should start by reading the heap pointer global, got opcode 0x%x", body[0])
	}
}

func TestRetainBodyEndsBalanced(t *testing.T) {
	body := RetainBody()
	if len(body) == 0 {
		t.Fatal("RetainBody returned no instructions")
	}
	if lastByte(body) != byte(wasmbin.OpEnd) {
		t.Errorf("RetainBody should end with an explicit end opcode, got last byte 0x%x", lastByte(body))
	}
}

func TestReleaseBodyEndsBalanced(t *testing.T) {
	body := ReleaseBody(1)
	if len(body) == 0 {
		t.Fatal("ReleaseBody returned no instructions")
	}
	if lastByte(body) != byte(wasmbin.OpEnd) {
		t.Errorf("ReleaseBody should end with an explicit end opcode, got last byte 0x%x", lastByte(body))
	}
}

func TestMallocBodyDiffersByHeapGlobal(t *testing.T) {
	a := MallocBody(0)
	b := MallocBody(3)
	if string(a) == string(b) {
		t.Error("MallocBody should encode the heap pointer global index into the emitted bytes")
	}
}
