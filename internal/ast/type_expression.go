package ast

import (
	"strings"

	"github.com/clean-lang/cleanc/internal/lexer"
)

// TypeExpression is the parsed (pre-resolution) form of a type annotation,
// e.g. `List<Integer>` or `Matrix<Number>`. Semantic analysis resolves
// each one to a types.Type (spec.md §3.1).
type TypeExpression struct {
	Token    lexer.Token
	Name     string // primitive or class name, or "List"/"Matrix"/"Pairs"/"Future"
	Params   []*TypeExpression
	Width    int // precision annotation, 0 = default
}

func (t *TypeExpression) TokenLiteral() string { return t.Token.Literal }
func (t *TypeExpression) Pos() lexer.Position  { return t.Token.Pos }
func (t *TypeExpression) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}
