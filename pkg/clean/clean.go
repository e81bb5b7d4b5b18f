// Package clean is the public API surface of the Clean Language compiler
// (spec.md §6.4): "The core exposes a programmatic API: compile(source_text)
// -> Result<Module, DiagnosticList>." Compile chains lexing/parsing,
// semantic analysis, code generation, and independent validation into that
// single call; the CLI in cmd/cleanc is a thin external collaborator
// wrapping this package, not the other way around.
//
// Grounded on the teacher's pkg/dwscript public package, which likewise
// wraps internal/lexer -> internal/parser -> internal/semantic ->
// internal/bytecode behind one entry point so callers never import the
// internal packages directly.
package clean

import (
	"context"
	"strconv"
	"strings"

	"github.com/clean-lang/cleanc/internal/codegen"
	cerrors "github.com/clean-lang/cleanc/internal/errors"
	"github.com/clean-lang/cleanc/internal/parser"
	"github.com/clean-lang/cleanc/internal/semantic"
	"github.com/clean-lang/cleanc/internal/validate"
)

// Module is a successfully compiled, (by default) validated WASM binary
// module (spec.md §4.4).
type Module struct {
	// Bytes is the encoded WASM binary, ready to write to a .wasm file or
	// hand to a host runtime.
	Bytes []byte
}

// Diagnostic is the public, renderable form of a compiler error (spec.md
// §7). It never exposes the internal phase packages' own error types, so
// callers outside this module never need to import internal/errors.
type Diagnostic struct {
	Kind    string
	Message string
	Line    int
	Column  int
	File    string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Kind)
	if d.File != "" {
		b.WriteString(" in ")
		b.WriteString(d.File)
	}
	if d.Line > 0 {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(d.Line))
		b.WriteString(":")
		b.WriteString(strconv.Itoa(d.Column))
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticList is the `DiagnosticList` half of spec.md §6.4's
// `Result<Module, DiagnosticList>`; it implements error so a caller that
// only wants a single `err != nil` check still works unmodified.
type DiagnosticList []Diagnostic

func (dl DiagnosticList) Error() string {
	lines := make([]string, len(dl))
	for i, d := range dl {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Options configures a Compile call, in the teacher's functional-options
// style (internal/lexer.LexerOption).
type Options struct {
	filename       string
	maxMemoryPages uint32
	skipValidation bool
	trace          traceFunc
}

type traceFunc func(stage string)

// Option mutates an Options value.
type Option func(*Options)

// WithFilename attaches a source filename to every diagnostic this Compile
// call produces, and to the module's own error-rendering context.
func WithFilename(name string) Option {
	return func(o *Options) { o.filename = name }
}

// WithMaxMemoryPages overrides the emitted module's maximum linear-memory
// page count (64KiB per page). Zero leaves internal/wasmbin's default
// (16 pages) in place.
func WithMaxMemoryPages(pages uint32) Option {
	return func(o *Options) { o.maxMemoryPages = pages }
}

// WithValidation toggles the independent validator pass (spec.md §4.5).
// It is enabled by default; disabling it is for callers (e.g. a
// `cleanc build --skip-validate` escape hatch) that accept the risk of a
// codegen bug producing an unvalidated binary.
func WithValidation(enabled bool) Option {
	return func(o *Options) { o.skipValidation = !enabled }
}

// WithTrace registers a callback invoked after each pipeline stage
// completes successfully ("parse", "analyze", "codegen", "validate"). It
// is the mechanism a CLI driver's own logger (cmd/cleanc's zap logger)
// hooks into; this package never logs on its own (spec.md AMBIENT STACK
// "the compiler itself does not log to stdout/stderr during normal
// operation").
func WithTrace(fn func(stage string)) Option {
	return func(o *Options) { o.trace = fn }
}

// Compile lowers Clean Language source text into a validated WASM binary
// module, or a list of diagnostics describing why it could not (spec.md
// §6.4). It never returns a partial module alongside errors (spec.md §4.4.10
// "must never produce a partial module").
func Compile(source string, opts ...Option) (*Module, DiagnosticList) {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	trace := func(stage string) {
		if o.trace != nil {
			o.trace(stage)
		}
	}

	mod, perrs := parser.Parse(source)
	if len(perrs) > 0 {
		return nil, parseDiagnostics(perrs, source, o.filename)
	}
	trace("parse")

	prog, serrs := semantic.Analyze(mod, source, o.filename)
	if len(serrs) > 0 {
		return nil, compilerDiagnostics(serrs)
	}
	trace("analyze")

	wmod, cerrs := codegen.Compile(mod, prog, source, o.filename)
	if len(cerrs) > 0 {
		return nil, compilerDiagnostics(cerrs)
	}
	trace("codegen")

	if o.maxMemoryPages > 0 {
		wmod.Memory.Max = o.maxMemoryPages
		wmod.Memory.HasMax = true
	}
	wasmBytes := wmod.Encode()

	if !o.skipValidation {
		if verrs := validate.Validate(context.Background(), wasmBytes, source, o.filename); len(verrs) > 0 {
			return nil, compilerDiagnostics(verrs)
		}
		trace("validate")
	}

	return &Module{Bytes: wasmBytes}, nil
}

func compilerDiagnostics(errs []*cerrors.CompilerError) DiagnosticList {
	out := make(DiagnosticList, len(errs))
	for i, e := range errs {
		out[i] = Diagnostic{
			Kind:    e.Kind.String(),
			Message: e.Message,
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			File:    e.File,
		}
	}
	return out
}

func parseDiagnostics(errs []parser.ParseError, source, file string) DiagnosticList {
	out := make(DiagnosticList, len(errs))
	for i, e := range errs {
		out[i] = Diagnostic{
			Kind:    cerrors.SyntaxError.String(),
			Message: e.Message,
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			File:    file,
		}
	}
	return out
}
