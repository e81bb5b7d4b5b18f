// Package errors formats Clean Language compiler diagnostics with source
// context, line/column information, and caret indicators, in the same
// style the teacher compiler uses for its own CompilerError (spec.md §7).
package errors

import (
	"fmt"
	"strings"

	"github.com/clean-lang/cleanc/internal/lexer"
)

// Kind classifies a CompilerError into one of ten kinds: the spec.md §7
// taxonomy plus UnsupportedConstruct.
type Kind int

const (
	SyntaxError Kind = iota
	NameError
	TypeError
	InheritanceError
	ArityError
	VisibilityError
	UnsupportedConstruct
	CodegenError
	ValidationError
	RuntimeError
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case NameError:
		return "NameError"
	case TypeError:
		return "TypeError"
	case InheritanceError:
		return "InheritanceError"
	case ArityError:
		return "ArityError"
	case VisibilityError:
		return "VisibilityError"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	case CodegenError:
		return "CodegenError"
	case ValidationError:
		return "ValidationError"
	case RuntimeError:
		return "RuntimeError"
	}
	return "Error"
}

// Recoverable reports whether compilation may continue past an error of
// this kind to surface further diagnostics (spec.md §7 "Recoverable by").
func (k Kind) Recoverable() bool {
	switch k {
	case SyntaxError, NameError, TypeError, InheritanceError, ArityError, VisibilityError, UnsupportedConstruct:
		return true
	default:
		return false
	}
}

// CompilerError is a single compilation diagnostic with position and
// source context (spec.md §7).
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a CompilerError of the given kind.
func New(kind Kind, pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: message, Source: source, File: file}
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the error with a single source line and caret. If color
// is true, ANSI color codes are used for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(n int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

func (e *CompilerError) sourceContext(n, before, after int) []string {
	if e.Source == "" {
		return nil
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return nil
	}
	start := n - before
	if start < 1 {
		start = 1
	}
	end := n + after
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start-1 : end]
}

// FormatWithContext renders the error with contextLines of source before
// and after the offending line.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column))
	}

	ctx := e.sourceContext(e.Pos.Line, contextLines, contextLines)
	if len(ctx) == 0 {
		return e.Format(color)
	}
	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	for i, line := range ctx {
		n := start + i
		prefix := fmt.Sprintf("%4d | ", n)
		if n == e.Pos.Line {
			if color {
				sb.WriteString("\033[1m")
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		} else {
			if color {
				sb.WriteString("\033[2m")
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// FormatErrors renders a full diagnostic list the way the CLI driver
// prints a failed compilation (spec.md §7 "collected into a diagnostic
// list").
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("[%d of %d]\n", i+1, len(errs)))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
