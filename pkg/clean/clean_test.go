package clean_test

import (
	"testing"

	"github.com/clean-lang/cleanc/pkg/clean"
)

func TestCompileHelloWorldProducesValidModule(t *testing.T) {
	src := "start():\n\tprintln(\"Hello, World!\")\n"

	mod, diags := clean.Compile(src)
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if mod == nil || len(mod.Bytes) == 0 {
		t.Fatal("expected a non-empty module")
	}
	if string(mod.Bytes[:4]) != "\x00asm" {
		t.Fatalf("missing WASM magic number, got %x", mod.Bytes[:4])
	}
}

func TestCompileSyntaxErrorReturnsDiagnostics(t *testing.T) {
	src := "start(:\n\tprintln(\"oops\")\n"

	mod, diags := clean.Compile(src)
	if mod != nil {
		t.Fatal("expected no module on parse failure")
	}
	if len(diags) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
	if diags[0].Kind != "SyntaxError" {
		t.Fatalf("expected SyntaxError, got %s", diags[0].Kind)
	}
	if diags.Error() == "" {
		t.Fatal("DiagnosticList.Error() must be non-empty")
	}
}

func TestCompileNameErrorReturnsDiagnostics(t *testing.T) {
	src := "start():\n\tprintln(undefinedVariable)\n"

	mod, diags := clean.Compile(src)
	if mod != nil {
		t.Fatal("expected no module on semantic failure")
	}
	if len(diags) == 0 || diags[0].Kind != "NameError" {
		t.Fatalf("expected a NameError diagnostic, got %v", diags)
	}
}

func TestCompileWithFilenameAttachesFilenameToDiagnostics(t *testing.T) {
	src := "start():\n\tprintln(undefinedVariable)\n"

	_, diags := clean.Compile(src, clean.WithFilename("broken.cln"))
	if len(diags) == 0 || diags[0].File != "broken.cln" {
		t.Fatalf("expected diagnostic file to be broken.cln, got %v", diags)
	}
}

func TestCompileWithTraceCallsBackPerStage(t *testing.T) {
	src := "start():\n\tprintln(\"hi\")\n"

	var stages []string
	_, diags := clean.Compile(src, clean.WithTrace(func(stage string) {
		stages = append(stages, stage)
	}))
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := []string{"parse", "analyze", "codegen", "validate"}
	if len(stages) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("expected stages %v, got %v", want, stages)
		}
	}
}

func TestCompileWithValidationDisabledSkipsValidateStage(t *testing.T) {
	src := "start():\n\tprintln(\"hi\")\n"

	var stages []string
	mod, diags := clean.Compile(src,
		clean.WithValidation(false),
		clean.WithTrace(func(stage string) { stages = append(stages, stage) }),
	)
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if mod == nil {
		t.Fatal("expected a module")
	}
	for _, s := range stages {
		if s == "validate" {
			t.Fatal("validate stage should have been skipped")
		}
	}
}
