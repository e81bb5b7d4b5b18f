package parser

import (
	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/lexer"
)

// parseBlock parses an INDENT ... DEDENT tab-indented statement sequence
// (spec.md glossary "Block").
func (p *Parser) parseBlock() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.cur}
	if !p.expect(lexer.INDENT) {
		return block
	}
	for !p.curIs(lexer.DEDENT) && !p.curIs(lexer.EOF) {
		p.skipNewlines()
		if p.curIs(lexer.DEDENT) || p.curIs(lexer.EOF) {
			break
		}
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipNewlines()
	}
	p.expect(lexer.DEDENT)
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.KW_IF:
		return p.parseIfStatement()
	case lexer.KW_WHILE:
		return p.parseWhileStatement()
	case lexer.KW_FOR:
		return p.parseForStatement()
	case lexer.KW_RETURN:
		return p.parseReturnStatement()
	case lexer.KW_ERROR:
		return p.parseErrorStatement()
	case lexer.KW_BACKGROUND:
		return p.parseBackgroundStatement()
	case lexer.KW_LATER:
		return p.parseLaterDecl()
	case lexer.IDENT:
		return p.parseIdentLeadingStatement()
	default:
		tok := p.cur
		expr := p.parseExpression(precLowest)
		if expr == nil {
			p.synchronize()
			return nil
		}
		return &ast.ExpressionStatement{Token: tok, Expr: expr}
	}
}

// parseIdentLeadingStatement disambiguates, without backtracking, the four
// statement forms that start with a bare identifier: a typed variable
// declaration (`Integer x = 1`), an apply-block (`println:` / `Integer:`),
// a plain assignment, or an expression statement (spec.md §4.1).
func (p *Parser) parseIdentLeadingStatement() ast.Statement {
	if isTypeName(p.cur.Literal) {
		if p.peekIs(lexer.COLON) {
			return p.parseApplyBlock(ast.ApplyBlockTypeDecl)
		}
		if p.peekIs(lexer.IDENT) {
			return p.parseVarDecl()
		}
	}
	if p.peekIs(lexer.COLON) {
		return p.parseApplyBlock(ast.ApplyBlockCall)
	}

	tok := p.cur
	expr := p.parseExpression(precLowest)
	if expr == nil {
		p.synchronize()
		return nil
	}
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		value := p.parseExpression(precLowest)
		if me, ok := expr.(*ast.MemberExpression); ok && me.Property == "type" {
			if sl, ok := value.(*ast.StringLiteral); ok {
				return &ast.ListBehaviorStatement{Token: tok, List: me.Object, Behavior: sl.Value}
			}
		}
		return &ast.AssignStatement{Token: tok, Target: expr, Value: value}
	}
	return &ast.ExpressionStatement{Token: tok, Expr: expr}
}

// parseVarDecl parses `Type name = expr` (spec.md §4.2).
func (p *Parser) parseVarDecl() ast.Statement {
	tok := p.cur
	typeExpr := p.parseTypeExpression()
	if !p.curIs(lexer.IDENT) {
		p.addError("expected variable name after type")
		return nil
	}
	name := p.cur.Literal
	p.advance()
	p.expect(lexer.ASSIGN)
	value := p.parseExpression(precLowest)
	return &ast.VarDecl{Token: tok, Name: name, Type: typeExpr, Value: value}
}

// parseLaterDecl parses `later name = start expr` (spec.md §4.2 "Async
// lowering"); the analyzer is responsible for rejecting a non-start RHS.
func (p *Parser) parseLaterDecl() ast.Statement {
	tok := p.cur
	p.advance()
	if !p.curIs(lexer.IDENT) {
		p.addError("expected variable name after 'later'")
		return nil
	}
	name := p.cur.Literal
	p.advance()
	p.expect(lexer.ASSIGN)
	value := p.parseExpression(precLowest)
	return &ast.VarDecl{Token: tok, Name: name, Value: value, Later: true}
}

// parseApplyBlock parses the `identifier:` sugar shared by the three
// apply-block kinds (spec.md glossary "Apply-block"); the analyzer
// disambiguates kind-specific meaning further using symbol information the
// parser doesn't have.
func (p *Parser) parseApplyBlock(kind ast.ApplyBlockKind) ast.Statement {
	tok := p.cur
	target := p.cur.Literal
	p.advance()
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	ab := &ast.ApplyBlockStatement{Token: tok, Target: target, Kind: kind}
	if !p.expect(lexer.INDENT) {
		return ab
	}
	for !p.curIs(lexer.DEDENT) && !p.curIs(lexer.EOF) {
		p.skipNewlines()
		if p.curIs(lexer.DEDENT) || p.curIs(lexer.EOF) {
			break
		}
		ab.Entries = append(ab.Entries, p.parseApplyBlockEntry(kind))
		p.skipNewlines()
	}
	p.expect(lexer.DEDENT)
	return ab
}

func (p *Parser) parseApplyBlockEntry(kind ast.ApplyBlockKind) ast.ApplyBlockEntry {
	if kind == ast.ApplyBlockCall {
		return ast.ApplyBlockEntry{Value: p.parseExpression(precLowest)}
	}
	if !p.curIs(lexer.IDENT) {
		p.addError("expected name in apply-block")
		return ast.ApplyBlockEntry{}
	}
	name := p.cur.Literal
	p.advance()
	p.expect(lexer.ASSIGN)
	return ast.ApplyBlockEntry{Name: name, Value: p.parseExpression(precLowest)}
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	p.advance()
	cond := p.parseExpression(precLowest)
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	cons := p.parseBlock()
	stmt := &ast.IfStatement{Token: tok, Condition: cond, Consequence: cons}

	if p.curIs(lexer.KW_ELSE) {
		p.advance()
		if p.curIs(lexer.KW_IF) {
			nested := p.parseIfStatement()
			stmt.Alternative = &ast.BlockStatement{Token: p.cur, Statements: []ast.Statement{nested}}
		} else {
			p.expect(lexer.COLON)
			p.expect(lexer.NEWLINE)
			stmt.Alternative = p.parseBlock()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur
	p.advance()
	cond := p.parseExpression(precLowest)
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	body := p.parseBlock()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	p.advance()
	if !p.curIs(lexer.IDENT) {
		p.addError("expected loop variable name after 'for'")
		p.synchronize()
		return nil
	}
	name := p.cur.Literal
	p.advance()
	p.expect(lexer.KW_IN)
	iterable := p.parseExpression(precLowest)
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	body := p.parseBlock()
	return &ast.ForStatement{Token: tok, VarName: name, Iterable: iterable, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	p.advance()
	if p.curIs(lexer.NEWLINE) || p.curIs(lexer.DEDENT) || p.curIs(lexer.EOF) {
		return &ast.ReturnStatement{Token: tok}
	}
	val := p.parseExpression(precLowest)
	return &ast.ReturnStatement{Token: tok, Value: val}
}

func (p *Parser) parseErrorStatement() ast.Statement {
	tok := p.cur
	p.advance()
	p.expect(lexer.LPAREN)
	msg := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN)
	return &ast.ErrorStatement{Token: tok, Message: msg}
}

func (p *Parser) parseBackgroundStatement() ast.Statement {
	tok := p.cur
	p.advance()
	call := p.parseExpression(precLowest)
	return &ast.BackgroundStatement{Token: tok, Call: call}
}
