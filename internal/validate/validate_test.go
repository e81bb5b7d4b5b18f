package validate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clean-lang/cleanc/internal/validate"
	"github.com/clean-lang/cleanc/internal/wasmbin"
)

func TestValidateAcceptsWellFormedModule(t *testing.T) {
	m := wasmbin.NewModule()
	b := wasmbin.NewBuilder()
	b.End()
	startIdx := m.AddFunc(wasmbin.FuncType{}, nil, b.Bytes())
	m.Export("start", wasmbin.ExportFunc, startIdx)
	m.Export("memory", wasmbin.ExportMemory, 0)

	errs := validate.Validate(context.Background(), m.Encode(), "", "")
	require.Empty(t, errs)
}

func TestValidateRejectsTruncatedModule(t *testing.T) {
	errs := validate.Validate(context.Background(), []byte{0x00, 0x61, 0x73}, "", "")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "failed independent validation")
}

func TestValidateRejectsMismatchedFunctionSignature(t *testing.T) {
	m := wasmbin.NewModule()
	b := wasmbin.NewBuilder()
	// Declares a function with i32 results but a body that leaves nothing
	// on the stack: wazero's independent re-derivation of stack effects
	// must reject this even though this compiler's own codegen never
	// produced it.
	b.End()
	badIdx := m.AddFunc(wasmbin.FuncType{Results: []wasmbin.ValType{wasmbin.ValI32}}, nil, b.Bytes())
	m.Export("start", wasmbin.ExportFunc, badIdx)
	m.Export("memory", wasmbin.ExportMemory, 0)

	errs := validate.Validate(context.Background(), m.Encode(), "bad.cln", "bad.cln")
	require.NotEmpty(t, errs)
	assert.Equal(t, "bad.cln", errs[0].File)
}
