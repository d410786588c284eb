package parser

import (
	"adalite/internal/ast"
	"adalite/internal/source"
	"adalite/internal/token"
)

var stmtTerminators = map[token.Kind]bool{
	token.KwEnd: true, token.KwElse: true, token.KwElsif: true,
	token.KwWhen: true, token.KwException: true, token.EOF: true,
}

// parseHandledStmts parses a sequence of statements up to (not
// consuming) `exception`/`end`, then an optional exception-handler
// part.
func (p *Parser) parseHandledStmts() ([]ast.StmtID, []ast.ExceptionHandler) {
	body := p.parseStmts()
	var handlers []ast.ExceptionHandler
	if p.at(token.KwException) {
		p.advance()
		for p.at(token.KwWhen) {
			handlers = append(handlers, p.parseExceptionHandler())
		}
	}
	return body, handlers
}

func (p *Parser) parseExceptionHandler() ast.ExceptionHandler {
	p.expect(token.KwWhen)
	var h ast.ExceptionHandler
	if p.at(token.KwOthers) {
		p.advance()
		h.Others = true
	} else {
		h.Names = append(h.Names, p.parseDottedName())
		for p.at(token.Bar) {
			p.advance()
			h.Names = append(h.Names, p.parseDottedName())
		}
	}
	p.expect(token.Arrow)
	h.Body = p.parseStmts()
	return h
}

func (p *Parser) parseStmts() []ast.StmtID {
	var stmts []ast.StmtID
	for !stmtTerminators[p.cur().Kind] {
		if p.at(token.KwPragma) {
			p.skipPragma()
			continue
		}
		stmts = append(stmts, p.parseStmt())
	}
	return stmts
}

func (p *Parser) parseStmt() ast.StmtID {
	// A labeled statement: <<Name>> stmt
	if p.at(token.LessLess) {
		start := p.cur().Span
		p.advance()
		name := p.expectIdent()
		p.expect(token.GreaterGreater)
		return p.builder.Stmts.NewLabel(p.spanSince(start), name)
	}

	switch {
	case p.at(token.KwNull):
		start := p.cur().Span
		p.advance()
		p.expect(token.Semicolon)
		return p.builder.Stmts.NewNull(p.spanSince(start))
	case p.at(token.KwIf):
		return p.parseIf()
	case p.at(token.KwCase):
		return p.parseCase()
	case p.at(token.KwLoop), p.at(token.KwWhile), p.at(token.KwFor):
		return p.parseLoop()
	case p.at(token.KwDeclare):
		return p.parseBlock()
	case p.at(token.KwBegin):
		return p.parseBlockNoDecls()
	case p.at(token.KwExit):
		return p.parseExit()
	case p.at(token.KwReturn):
		return p.parseReturn()
	case p.at(token.KwGoto):
		return p.parseGoto()
	case p.at(token.KwRaise):
		return p.parseRaise()
	default:
		return p.parseAssignOrCall()
	}
}

func (p *Parser) parseIf() ast.StmtID {
	start := p.cur().Span
	p.advance() // if
	var branches []ast.IfBranch
	cond := p.parseExpr()
	p.expect(token.KwThen)
	body := p.parseStmts()
	branches = append(branches, ast.IfBranch{Cond: cond, Body: body})
	for p.at(token.KwElsif) {
		p.advance()
		c := p.parseExpr()
		p.expect(token.KwThen)
		b := p.parseStmts()
		branches = append(branches, ast.IfBranch{Cond: c, Body: b})
	}
	var elseBody []ast.StmtID
	if p.at(token.KwElse) {
		p.advance()
		elseBody = p.parseStmts()
	}
	p.expect(token.KwEnd)
	p.expect(token.KwIf)
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewIf(p.spanSince(start), branches, elseBody)
}

func (p *Parser) parseCase() ast.StmtID {
	start := p.cur().Span
	p.advance() // case
	selector := p.parseExpr()
	p.expect(token.KwIs)
	var arms []ast.CaseArm
	for p.at(token.KwWhen) {
		p.advance()
		var arm ast.CaseArm
		if p.at(token.KwOthers) {
			p.advance()
			arm.Others = true
		} else {
			arm.Choices = append(arm.Choices, p.parseChoice())
			for p.at(token.Bar) {
				p.advance()
				arm.Choices = append(arm.Choices, p.parseChoice())
			}
		}
		p.expect(token.Arrow)
		arm.Body = p.parseStmts()
		arms = append(arms, arm)
	}
	p.expect(token.KwEnd)
	p.expect(token.KwCase)
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewCase(p.spanSince(start), selector, arms)
}

// parseChoice parses one discrete choice: a value or a Lo..Hi range,
// reusing ExprRange as a first-class choice expression.
func (p *Parser) parseChoice() ast.ExprID {
	start := p.cur().Span
	low := p.parseExpr()
	if p.at(token.DotDot) {
		p.advance()
		high := p.parseExpr()
		return p.builder.Exprs.NewRange(p.spanSince(start), low, high)
	}
	return low
}

func (p *Parser) parseLoop() ast.StmtID {
	start := p.cur().Span
	var data ast.LoopData
	switch {
	case p.at(token.KwWhile):
		p.advance()
		data.Scheme = ast.LoopWhile
		data.Cond = p.parseExpr()
	case p.at(token.KwFor):
		p.advance()
		data.Scheme = ast.LoopFor
		data.ForVar = p.expectIdent()
		p.expect(token.KwIn)
		if p.at(token.KwReverse) {
			p.advance()
			data.Reverse = true
		}
		data.ForRange = p.parseDiscreteRange()
	}
	p.expect(token.KwLoop)
	data.Body = p.parseStmts()
	p.expect(token.KwEnd)
	p.expect(token.KwLoop)
	p.skipOptionalName()
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewLoop(p.spanSince(start), data)
}

// parseDiscreteRange parses a `for` loop's range: Lo .. Hi or a
// subtype name used as a discrete range.
func (p *Parser) parseDiscreteRange() ast.ExprID {
	start := p.cur().Span
	low := p.parseExpr()
	if p.at(token.DotDot) {
		p.advance()
		high := p.parseExpr()
		return p.builder.Exprs.NewRange(p.spanSince(start), low, high)
	}
	return low
}

func (p *Parser) parseBlock() ast.StmtID {
	start := p.cur().Span
	p.advance() // declare
	decls := p.parseDeclarations()
	p.expect(token.KwBegin)
	body, handlers := p.parseHandledStmts()
	p.expect(token.KwEnd)
	p.skipOptionalName()
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewBlock(p.spanSince(start), ast.BlockData{Decls: decls, Body: body, Handlers: handlers})
}

func (p *Parser) parseBlockNoDecls() ast.StmtID {
	start := p.cur().Span
	p.advance() // begin
	body, handlers := p.parseHandledStmts()
	p.expect(token.KwEnd)
	p.skipOptionalName()
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewBlock(p.spanSince(start), ast.BlockData{Body: body, Handlers: handlers})
}

func (p *Parser) parseExit() ast.StmtID {
	start := p.cur().Span
	p.advance() // exit
	var label source.StringID
	if p.at(token.Ident) {
		label = p.expectIdent()
	}
	cond := ast.NoExprID
	if p.at(token.KwWhen) {
		p.advance()
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewExit(p.spanSince(start), label, cond)
}

func (p *Parser) parseReturn() ast.StmtID {
	start := p.cur().Span
	p.advance() // return
	val := ast.NoExprID
	if !p.at(token.Semicolon) {
		val = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewReturn(p.spanSince(start), val)
}

func (p *Parser) parseGoto() ast.StmtID {
	start := p.cur().Span
	p.advance() // goto
	label := p.expectIdent()
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewGoto(p.spanSince(start), label)
}

func (p *Parser) parseRaise() ast.StmtID {
	start := p.cur().Span
	p.advance() // raise
	var exc source.StringID
	if !p.at(token.Semicolon) {
		exc = p.parseDottedName()
	}
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewRaise(p.spanSince(start), exc)
}

// parseAssignOrCall parses an expression-led statement, distinguishing
// `Target := Value;` from a bare procedure call by whether `:=`
// follows the parsed prefix.
func (p *Parser) parseAssignOrCall() ast.StmtID {
	start := p.cur().Span
	target := p.parseExpr()
	if p.at(token.Assign) {
		p.advance()
		val := p.parseExpr()
		p.expect(token.Semicolon)
		return p.builder.Stmts.NewAssign(p.spanSince(start), target, val)
	}
	p.expect(token.Semicolon)
	return p.builder.Stmts.NewProcCall(p.spanSince(start), target)
}
