// Package validate implements the independent validator spec.md §4.5
// requires as the final pipeline stage: it re-parses the emitted WASM
// binary and checks it is well-formed completely independently of
// internal/codegen's own bookkeeping, so a codegen bug cannot silently
// produce an invalid module that only this compiler's own logic thinks is
// correct (spec.md §8 Universal Invariant #1).
//
// Grounded on wippyai-wasm-runtime/engine.WazeroEngine.LoadModule, which
// validates a binary by handing it to wazero.Runtime.CompileModule before
// ever instantiating it. This package stops at that same point: no host
// imports are wired and no instantiation happens, since validation, not
// execution, is the contract here.
package validate

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"

	cerrors "github.com/clean-lang/cleanc/internal/errors"
	"github.com/clean-lang/cleanc/internal/lexer"
)

// Validate decodes and validates wasmBytes, returning a ValidationError
// diagnostic if wazero rejects the module (malformed section, mismatched
// function signature, unbalanced stack effect, or any other well-formedness
// violation). A nil result means the module is valid.
func Validate(ctx context.Context, wasmBytes []byte, source, file string) []*cerrors.CompilerError {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return []*cerrors.CompilerError{
			cerrors.New(cerrors.ValidationError, lexer.Position{}, fmt.Sprintf("emitted module failed independent validation: %v", err), source, file),
		}
	}
	defer compiled.Close(ctx)
	return nil
}
