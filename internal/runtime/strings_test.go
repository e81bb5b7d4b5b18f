package runtime

import (
	"testing"

	"github.com/clean-lang/cleanc/internal/wasmbin"
)

func TestStringConcatBodyEndsBalanced(t *testing.T) {
	body := StringConcatBody(0)
	if len(body) == 0 {
		t.Fatal("StringConcatBody returned no instructions")
	}
	if lastByte(body) != byte(wasmbin.OpEnd) {
		t.Errorf("StringConcatBody should end with an explicit end opcode, got last byte 0x%x", lastByte(body))
	}
}

func TestIntToStringBodyEndsBalanced(t *testing.T) {
	body := IntToStringBody(0)
	if len(body) == 0 {
		t.Fatal("IntToStringBody returned no instructions")
	}
	if lastByte(body) != byte(wasmbin.OpEnd) {
		t.Errorf("IntToStringBody should end with an explicit end opcode, got last byte 0x%x", lastByte(body))
	}
}

func TestNumberToStringBodyDelegatesToIntConversion(t *testing.T) {
	body := NumberToStringBody(7)
	if len(body) == 0 {
		t.Fatal("NumberToStringBody returned no instructions")
	}
	if body[0] != byte(wasmbin.OpLocalGet) {
		t.Errorf("NumberToStringBody should start by loading its f64 argument, got opcode 0x%x", body[0])
	}
	foundCall := false
	for _, bt := range body {
		if bt == byte(wasmbin.OpCall) {
			foundCall = true
			break
		}
	}
	if !foundCall {
		t.Error("NumberToStringBody should call the shared int-to-string function")
	}
}
