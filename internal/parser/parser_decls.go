package parser

import (
	"github.com/clean-lang/cleanc/internal/ast"
	"github.com/clean-lang/cleanc/internal/lexer"
)

// parseImportBlock parses:
//
//	import ModuleName:
//		OriginName
//		OriginName as Alias
func (p *Parser) parseImportBlock() []*ast.ImportDecl {
	tok := p.cur
	p.advance()
	if !p.curIs(lexer.IDENT) {
		p.addError("expected module name after 'import'")
		p.synchronize()
		return nil
	}
	source := p.cur.Literal
	p.advance()
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	if !p.expect(lexer.INDENT) {
		return nil
	}
	var decls []*ast.ImportDecl
	for !p.curIs(lexer.DEDENT) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.IDENT) {
			p.addError("expected imported name")
			p.synchronize()
			break
		}
		origin := p.cur.Literal
		alias := origin
		p.advance()
		if p.curIs(lexer.IDENT) && p.cur.Literal == "as" {
			p.advance()
			if p.curIs(lexer.IDENT) {
				alias = p.cur.Literal
				p.advance()
			}
		}
		decls = append(decls, &ast.ImportDecl{Token: tok, SourceMod: source, OriginName: origin, LocalAlias: alias})
		p.skipNewlines()
	}
	p.expect(lexer.DEDENT)
	return decls
}

// parseConstantBlock parses:
//
//	constant:
//		Pi = 3.14159
//		MaxRetries = 5
func (p *Parser) parseConstantBlock() []*ast.ConstDecl {
	tok := p.cur
	p.advance()
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	if !p.expect(lexer.INDENT) {
		return nil
	}
	var decls []*ast.ConstDecl
	for !p.curIs(lexer.DEDENT) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.IDENT) {
			p.addError("expected constant name")
			p.synchronize()
			break
		}
		name := p.cur.Literal
		p.advance()
		p.expect(lexer.ASSIGN)
		val := p.parseExpression(precLowest)
		decls = append(decls, &ast.ConstDecl{Token: tok, Name: name, Value: val})
		p.skipNewlines()
	}
	p.expect(lexer.DEDENT)
	return decls
}

// parseFunctionsBlock parses:
//
//	functions:
//		name(params...) ReturnType:
//			body
func (p *Parser) parseFunctionsBlock() []*ast.FunctionDecl {
	p.advance() // 'functions'
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	if !p.expect(lexer.INDENT) {
		return nil
	}
	var fns []*ast.FunctionDecl
	for !p.curIs(lexer.DEDENT) && !p.curIs(lexer.EOF) {
		fns = append(fns, p.parseFunctionDecl())
		p.skipNewlines()
	}
	p.expect(lexer.DEDENT)
	return fns
}

// parseStartFunction parses the single top-level entry point:
//
//	start()
//		body
//
// A colon after `start()` is accepted and ignored.
func (p *Parser) parseStartFunction() *ast.FunctionDecl {
	tok := p.cur
	p.advance()
	p.expect(lexer.LPAREN)
	p.expect(lexer.RPAREN)
	if p.curIs(lexer.COLON) {
		p.advance()
	}
	p.expect(lexer.NEWLINE)
	body := p.parseBlock()
	return &ast.FunctionDecl{Token: tok, Name: "start", IsStart: true, ReturnType: &ast.TypeExpression{Name: "Void"}, Body: body}
}

// parseFunctionDecl parses one function or method signature with optional
// `private`/`background` modifiers (spec.md §3.2, §4.2 "Async lowering").
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	fn := &ast.FunctionDecl{Token: p.cur}
	for p.curIs(lexer.KW_PRIVATE) || p.curIs(lexer.KW_BACKGROUND) {
		if p.curIs(lexer.KW_PRIVATE) {
			fn.Private = true
		} else {
			fn.Background = true
		}
		p.advance()
	}
	if !p.curIs(lexer.IDENT) {
		p.addError("expected function name")
		p.synchronize()
		return fn
	}
	fn.Name = p.cur.Literal
	p.advance()
	p.expect(lexer.LPAREN)
	fn.Params = p.parseParamList()
	if !p.curIs(lexer.COLON) {
		fn.ReturnType = p.parseTypeExpression()
	} else {
		fn.ReturnType = &ast.TypeExpression{Name: "Void"}
	}
	for p.curIs(lexer.KW_PRIVATE) || p.curIs(lexer.KW_BACKGROUND) {
		if p.curIs(lexer.KW_PRIVATE) {
			fn.Private = true
		} else {
			fn.Background = true
		}
		p.advance()
	}
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.curIs(lexer.RPAREN) {
		p.advance()
		return params
	}
	params = append(params, p.parseParam())
	for p.curIs(lexer.COMMA) {
		p.advance()
		params = append(params, p.parseParam())
	}
	p.expect(lexer.RPAREN)
	return params
}

// parseParam parses `name: Type` or `name: Type = default`.
func (p *Parser) parseParam() *ast.Param {
	param := &ast.Param{}
	if !p.curIs(lexer.IDENT) {
		p.addError("expected parameter name")
		return param
	}
	param.Name = p.cur.Literal
	p.advance()
	p.expect(lexer.COLON)
	param.Type = p.parseTypeExpression()
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		param.Default = p.parseExpression(precLowest)
	}
	return param
}

// parseClassDecl parses:
//
//	class Name [is Parent]:
//		field: Type
//		constructor(params...):
//			body
//		methodName(params...) ReturnType:
//			body
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	tok := p.cur
	p.advance()
	if !p.curIs(lexer.IDENT) {
		p.addError("expected class name")
		p.synchronize()
		return nil
	}
	cls := &ast.ClassDecl{Token: tok, Name: p.cur.Literal}
	p.advance()
	if p.curIs(lexer.KW_IS) {
		p.advance()
		if !p.curIs(lexer.IDENT) {
			p.addError("expected parent class name after 'is'")
		} else {
			cls.Parent = p.cur.Literal
			p.advance()
		}
	}
	p.expect(lexer.COLON)
	p.expect(lexer.NEWLINE)
	if !p.expect(lexer.INDENT) {
		return cls
	}
	for !p.curIs(lexer.DEDENT) && !p.curIs(lexer.EOF) {
		p.parseClassMember(cls)
		p.skipNewlines()
	}
	p.expect(lexer.DEDENT)
	return cls
}

func (p *Parser) parseClassMember(cls *ast.ClassDecl) {
	private := false
	if p.curIs(lexer.KW_PRIVATE) {
		private = true
		p.advance()
	}
	if !p.curIs(lexer.IDENT) {
		p.addError("expected field, constructor, or method in class body")
		p.synchronize()
		return
	}
	if p.cur.Literal == "constructor" {
		ctorTok := p.cur
		p.advance()
		p.expect(lexer.LPAREN)
		params := p.parseParamList()
		p.expect(lexer.COLON)
		p.expect(lexer.NEWLINE)
		body := p.parseBlock()
		cls.Constructor = &ast.FunctionDecl{Token: ctorTok, Name: "constructor", Params: params, ReturnType: &ast.TypeExpression{Name: "Void"}, Body: body}
		return
	}
	name := p.cur.Literal
	nameTok := p.cur
	p.advance()
	if p.curIs(lexer.LPAREN) {
		p.advance()
		params := p.parseParamList()
		var ret *ast.TypeExpression
		if !p.curIs(lexer.COLON) {
			ret = p.parseTypeExpression()
		} else {
			ret = &ast.TypeExpression{Name: "Void"}
		}
		isStatic := false
		for p.curIs(lexer.KW_PRIVATE) || (p.curIs(lexer.IDENT) && p.cur.Literal == "static") {
			if p.curIs(lexer.KW_PRIVATE) {
				private = true
			} else {
				isStatic = true
			}
			p.advance()
		}
		p.expect(lexer.COLON)
		p.expect(lexer.NEWLINE)
		body := p.parseBlock()
		cls.Methods = append(cls.Methods, &ast.FunctionDecl{
			Token: nameTok, Name: name, Params: params, ReturnType: ret,
			Body: body, Private: private, IsStatic: isStatic,
		})
		return
	}
	// field declaration: `name: Type [= default]`
	p.expect(lexer.COLON)
	ftype := p.parseTypeExpression()
	field := &ast.Field{Name: name, Type: ftype, Private: private}
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		field.Default = p.parseExpression(precLowest)
	}
	cls.Fields = append(cls.Fields, field)
}
