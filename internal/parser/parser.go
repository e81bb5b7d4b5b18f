// Package parser builds a Clean Language AST from a token stream.
//
// The grammar is PEG-style with precedence climbing for expressions
// (spec.md §4.1), recursive descent for statements and declarations, and
// panic-mode error recovery that resynchronizes on the next DEDENT or
// top-level keyword so a single parse run can surface many diagnostics
// (spec.md §4.1 "Error recovery"), in the teacher's accumulate-don't-abort
// style (internal/parser's Errors() pattern in the source repository).
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/lexer"
)

// ParseError is a single syntax diagnostic.
type ParseError struct {
	Message  string
	Expected []string
	Found    string
	Pos      lexer.Position
}

func (e *ParseError) Error() string { return e.Message }

// precedence levels, lowest to highest (spec.md §4.1).
const (
	_ int = iota
	precLowest
	precOnError // binds tighter than '=' but looser than everything else (spec.md §4.1)
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPrimary
)

var precedences = map[lexer.TokenType]int{
	lexer.KW_OR:       precOr,
	lexer.KW_AND:      precAnd,
	lexer.EQ:          precEquality,
	lexer.NOT_EQ:      precEquality,
	lexer.KW_IS:       precEquality,
	lexer.LT:          precRelational,
	lexer.GT:          precRelational,
	lexer.LT_EQ:       precRelational,
	lexer.GT_EQ:       precRelational,
	lexer.PLUS:        precAdditive,
	lexer.MINUS:       precAdditive,
	lexer.ASTERISK:    precMultiplicative,
	lexer.SLASH:       precMultiplicative,
	lexer.PERCENT:     precMultiplicative,
	lexer.CARET:       precPower,
	lexer.LPAREN:      precPrimary,
	lexer.LBRACKET:    precPrimary,
	lexer.DOT:         precPrimary,
}

// Parser is a recursive-descent parser over a single lexer.Lexer.
type Parser struct {
	l          *lexer.Lexer
	errors     []ParseError
	cur        lexer.Token
	peek       lexer.Token
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

// Errors returns all accumulated syntax diagnostics.
func (p *Parser) Errors() []ParseError { return p.errors }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) addError(msg string, expected ...string) {
	p.errors = append(p.errors, ParseError{
		Message: msg, Expected: expected, Found: p.cur.Type.String(), Pos: p.cur.Pos,
	})
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

// expect consumes the current token if it matches t, else records a
// diagnostic naming the expected and found tokens (spec.md §4.1 "The
// diagnostic must name the unexpected token and list expected tokens").
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.addError(fmt.Sprintf("unexpected token %s, expected %s", p.cur.Type, t), t.String())
	return false
}

// skipNewlines consumes any number of blank logical-line NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.curIs(lexer.NEWLINE) {
		p.advance()
	}
}

// synchronize discards tokens until a DEDENT, a top-level keyword, or EOF,
// so one malformed statement does not cascade into unrelated errors
// (spec.md §4.1 "Error recovery").
func (p *Parser) synchronize() {
	for !p.curIs(lexer.EOF) {
		switch p.cur.Type {
		case lexer.DEDENT, lexer.NEWLINE, lexer.KW_CLASS, lexer.KW_FUNCTIONS,
			lexer.KW_START, lexer.KW_IMPORT, lexer.KW_CONSTANT:
			return
		}
		p.advance()
	}
}

// ParseModule parses an entire compilation unit (spec.md §3.2 Module).
func ParseModule(l *lexer.Lexer) (*ast.Module, []ParseError) {
	p := New(l)
	mod := &ast.Module{}
	p.skipNewlines()
	for !p.curIs(lexer.EOF) {
		switch p.cur.Type {
		case lexer.KW_IMPORT:
			mod.Imports = append(mod.Imports, p.parseImportBlock()...)
		case lexer.KW_CONSTANT:
			mod.Constants = append(mod.Constants, p.parseConstantBlock()...)
		case lexer.KW_CLASS:
			if c := p.parseClassDecl(); c != nil {
				mod.Classes = append(mod.Classes, c)
			}
		case lexer.KW_FUNCTIONS:
			mod.Functions = append(mod.Functions, p.parseFunctionsBlock()...)
		case lexer.KW_START:
			mod.Start = p.parseStartFunction()
		default:
			p.addError(fmt.Sprintf("unexpected top-level token %s", p.cur.Type))
			p.synchronize()
		}
		p.skipNewlines()
	}
	return mod, p.errors
}

func lexErrorsToParseErrors(errs []lexer.LexerError) []ParseError {
	out := make([]ParseError, len(errs))
	for i, e := range errs {
		out[i] = ParseError{Message: e.Message, Pos: e.Pos}
	}
	return out
}

// Parse is the convenience entry point combining lexing and parsing, and
// folding lexical diagnostics into the same error list the parser returns.
func Parse(source string) (*ast.Module, []ParseError) {
	l := lexer.New(source)
	mod, errs := ParseModule(l)
	errs = append(lexErrorsToParseErrors(l.Errors()), errs...)
	return mod, errs
}

// ---- type expressions ----

var primitiveNames = map[string]bool{
	"Boolean": true, "Integer": true, "Number": true, "String": true, "Void": true, "Any": true,
}

func (p *Parser) parseTypeExpression() *ast.TypeExpression {
	tok := p.cur
	name := p.cur.Literal
	if p.curIs(lexer.KW_VOID) {
		name = "Void"
	} else if p.curIs(lexer.KW_ANY) {
		name = "Any"
	} else if !p.curIs(lexer.IDENT) {
		p.addError("expected type name, got " + p.cur.Type.String())
		return &ast.TypeExpression{Token: tok, Name: "Any"}
	}
	p.advance()

	te := &ast.TypeExpression{Token: tok, Name: name}

	if p.curIs(lexer.LT) {
		p.advance()
		te.Params = append(te.Params, p.parseTypeExpression())
		for p.curIs(lexer.COMMA) {
			p.advance()
			te.Params = append(te.Params, p.parseTypeExpression())
		}
		p.expect(lexer.GT)
	}
	return te
}

// isTypeName reports whether ident looks like a type reference (primitive
// or PascalCase class name) as opposed to a plain call target; used to
// disambiguate `Integer x = 1` from `compute(x)` without backtracking.
func isTypeName(ident string) bool {
	if primitiveNames[ident] {
		return true
	}
	if ident == "List" || ident == "Matrix" || ident == "Pairs" || ident == "Future" {
		return true
	}
	return len(ident) > 0 && ident[0] >= 'A' && ident[0] <= 'Z'
}

// ---- expression parsing (precedence climbing) ----

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.curIs(lexer.NEWLINE) && precedence < p.curPrecedence() {
		switch p.cur.Type {
		case lexer.LPAREN:
			left = p.parseCall(left)
		case lexer.LBRACKET:
			left = p.parseIndex(left)
		case lexer.DOT:
			left = p.parseMember(left)
		default:
			left = p.parseInfix(left)
		}
	}
	if p.curIs(lexer.KW_ONERROR) && precedence < precOnError {
		tok := p.cur
		p.advance()
		fallback := p.parseExpression(precOnError)
		left = &ast.OnErrorExpression{Token: tok, Try: left, Fallback: fallback}
	}
	return left
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return precLowest
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case lexer.INT:
		return p.parseIntegerLiteral()
	case lexer.NUMBER:
		return p.parseNumberLiteral()
	case lexer.BOOLEAN:
		return p.parseBooleanLiteral()
	case lexer.STRING:
		tok := p.cur
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case lexer.STRING_INTERP_START:
		return p.parseInterpolatedString()
	case lexer.IDENT:
		return p.parseIdentifierOrKeywordCall()
	case lexer.KW_NEW:
		return p.parseNewExpression()
	case lexer.KW_START:
		return p.parseStartExpression()
	case lexer.MINUS, lexer.KW_NOT:
		return p.parsePrefixExpression()
	case lexer.LPAREN:
		p.advance()
		exp := p.parseExpression(precLowest)
		p.expect(lexer.RPAREN)
		return exp
	case lexer.LBRACKET:
		return p.parseListLiteral()
	default:
		p.addError("unexpected token in expression: " + p.cur.Type.String())
		p.advance()
		return nil
	}
}

func (p *Parser) parseIdentifierOrKeywordCall() ast.Expression {
	tok := p.cur
	p.advance()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.cur
	v, err := parseIntLiteral(tok.Literal)
	if err != nil {
		p.addError("invalid integer literal: " + tok.Literal)
	}
	p.advance()
	return &ast.IntegerLiteral{Token: tok, Value: v}
}

func parseIntLiteral(lit string) (int64, error) {
	lit = strings.ReplaceAll(lit, "_", "")
	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		return strconv.ParseInt(lit[2:], 16, 64)
	case strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B"):
		return strconv.ParseInt(lit[2:], 2, 64)
	case strings.HasPrefix(lit, "0o") || strings.HasPrefix(lit, "0O"):
		return strconv.ParseInt(lit[2:], 8, 64)
	default:
		return strconv.ParseInt(lit, 10, 64)
	}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok.Literal, "_", ""), 64)
	if err != nil {
		p.addError("invalid number literal: " + tok.Literal)
	}
	p.advance()
	return &ast.NumberLiteral{Token: tok, Value: v}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Literal == "true"}
}

func (p *Parser) parseInterpolatedString() ast.Expression {
	tok := p.cur
	p.advance()
	parts := lexer.DecodeStringParts(tok.Literal)
	n := &ast.InterpolatedString{Token: tok}
	for _, part := range parts {
		if !part.IsExpr {
			n.Parts = append(n.Parts, ast.StringPart{Text: part.Text})
			continue
		}
		sub := lexer.New(part.Text)
		sp := New(sub)
		expr := sp.parseExpression(precLowest)
		p.errors = append(p.errors, sp.errors...)
		n.Parts = append(n.Parts, ast.StringPart{Expr: expr})
	}
	return n
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.cur
	op := tok.Literal
	if p.curIs(lexer.KW_NOT) {
		op = "not"
	}
	p.advance()
	right := p.parseExpression(precUnary)
	return &ast.PrefixExpression{Token: tok, Operator: op, Right: right}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Literal
	prec := p.curPrecedence()

	if p.curIs(lexer.KW_IS) {
		p.advance()
		op = "is"
		if p.curIs(lexer.KW_NOT) {
			p.advance()
			op = "is not"
		}
		right := p.parseExpression(prec)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: right}
	}

	p.advance()
	nextPrec := prec
	if tok.Type == lexer.CARET {
		nextPrec = prec - 1 // right-associative (spec.md §4.1 "power ... right-associative")
	}
	right := p.parseExpression(nextPrec)
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseCall(fn ast.Expression) ast.Expression {
	tok := p.cur
	p.advance()
	args := p.parseExpressionList(lexer.RPAREN)
	return &ast.CallExpression{Token: tok, Function: fn, Arguments: args}
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.curIs(end) {
		p.advance()
		return list
	}
	list = append(list, p.parseExpression(precLowest))
	for p.curIs(lexer.COMMA) {
		p.advance()
		list = append(list, p.parseExpression(precLowest))
	}
	p.expect(end)
	return list
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.cur
	p.advance()
	idx := p.parseExpression(precLowest)
	p.expect(lexer.RBRACKET)
	return &ast.IndexExpression{Token: tok, Left: left, Index: idx}
}

func (p *Parser) parseMember(left ast.Expression) ast.Expression {
	tok := p.cur
	p.advance()
	if !p.curIs(lexer.IDENT) {
		p.addError("expected member name after '.'")
		return left
	}
	name := p.cur.Literal
	p.advance()
	return &ast.MemberExpression{Token: tok, Object: left, Property: name}
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.cur
	p.advance()
	if !p.curIs(lexer.IDENT) {
		p.addError("expected class name after 'new'")
		return nil
	}
	name := p.cur.Literal
	p.advance()
	p.expect(lexer.LPAREN)
	args := p.parseExpressionList(lexer.RPAREN)
	return &ast.NewExpression{Token: tok, ClassName: name, Arguments: args}
}

func (p *Parser) parseStartExpression() ast.Expression {
	tok := p.cur
	p.advance()
	call := p.parseExpression(precUnary)
	return &ast.StartExpression{Token: tok, Call: call}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	elems := p.parseExpressionList(lexer.RBRACKET)
	return &ast.ListLiteral{Token: tok, Elements: elems}
}
