package errors

import (
	"strings"
	"testing"

	"github.com/clean-lang/cleanc/internal/lexer"
)

func TestFormatIncludesCaretAtColumn(t *testing.T) {
	src := "start()\n\tInteger x = y\n"
	e := New(NameError, lexer.Position{Line: 2, Column: 14}, "undefined name 'y'", src, "main.cl")
	out := e.Format(false)
	if !strings.Contains(out, "NameError in main.cl:2:14") {
		t.Fatalf("missing header: %s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("missing caret: %s", out)
	}
}

func TestFormatErrorsMultiple(t *testing.T) {
	e1 := New(SyntaxError, lexer.Position{Line: 1, Column: 1}, "bad token", "", "")
	e2 := New(TypeError, lexer.Position{Line: 2, Column: 1}, "bad type", "", "")
	out := FormatErrors([]*CompilerError{e1, e2}, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Fatalf("expected error count header, got: %s", out)
	}
	if !strings.Contains(out, "SyntaxError") || !strings.Contains(out, "TypeError") {
		t.Fatalf("expected both kinds present: %s", out)
	}
}

func TestKindRecoverable(t *testing.T) {
	if !NameError.Recoverable() {
		t.Error("NameError should be recoverable (surfaced, compilation continues to collect more)")
	}
	if CodegenError.Recoverable() {
		t.Error("CodegenError should be fatal")
	}
}
