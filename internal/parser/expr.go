package parser

import (
	"math/big"

	"adalite/internal/ast"
	"adalite/internal/source"
	"adalite/internal/token"
)

// parseExpr parses a full expression, starting at the lowest-precedence
// logical operators and climbing down to primaries.
func (p *Parser) parseExpr() ast.ExprID {
	return p.parseLogical()
}

func (p *Parser) parseLogical() ast.ExprID {
	left := p.parseRelational()
	for {
		start := p.cur().Span
		switch {
		case p.at(token.KwAnd) && p.cur2().Kind == token.KwThen:
			p.advance()
			p.advance()
			right := p.parseRelational()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinAndThen, left, right)
		case p.at(token.KwOr) && p.cur2().Kind == token.KwElse:
			p.advance()
			p.advance()
			right := p.parseRelational()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinOrElse, left, right)
		case p.at(token.KwAnd):
			p.advance()
			right := p.parseRelational()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinAnd, left, right)
		case p.at(token.KwOr):
			p.advance()
			right := p.parseRelational()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinOr, left, right)
		case p.at(token.KwXor):
			p.advance()
			right := p.parseRelational()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinXor, left, right)
		default:
			return left
		}
	}
}

func (p *Parser) parseRelational() ast.ExprID {
	left := p.parseSimple()
	start := p.cur().Span
	switch {
	case p.at(token.Equal):
		p.advance()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinEq, left, p.parseSimple())
	case p.at(token.NotEqual):
		p.advance()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinNeq, left, p.parseSimple())
	case p.at(token.Less):
		p.advance()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinLt, left, p.parseSimple())
	case p.at(token.LessEqual):
		p.advance()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinLe, left, p.parseSimple())
	case p.at(token.Greater):
		p.advance()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinGt, left, p.parseSimple())
	case p.at(token.GreaterEqual):
		p.advance()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinGe, left, p.parseSimple())
	case p.at(token.KwIn):
		p.advance()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinIn, left, p.parseSimple())
	case p.at(token.KwNot) && p.cur2().Kind == token.KwIn:
		p.advance()
		p.advance()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinNotIn, left, p.parseSimple())
	}
	return left
}

func (p *Parser) parseSimple() ast.ExprID {
	var left ast.ExprID
	start := p.cur().Span
	if p.at(token.Plus) {
		p.advance()
		left = p.parseTerm()
	} else if p.at(token.Minus) {
		p.advance()
		operand := p.parseTerm()
		left = p.builder.Exprs.NewUnary(p.spanSince(start), ast.UnaryMinus, operand)
	} else {
		left = p.parseTerm()
	}
	for {
		opStart := p.cur().Span
		switch {
		case p.at(token.Plus):
			p.advance()
			left = p.builder.Exprs.NewBinary(p.spanSince(opStart), ast.BinAdd, left, p.parseTerm())
		case p.at(token.Minus):
			p.advance()
			left = p.builder.Exprs.NewBinary(p.spanSince(opStart), ast.BinSub, left, p.parseTerm())
		case p.at(token.Ampersand):
			p.advance()
			left = p.builder.Exprs.NewBinary(p.spanSince(opStart), ast.BinConcat, left, p.parseTerm())
		default:
			return left
		}
	}
}

func (p *Parser) parseTerm() ast.ExprID {
	left := p.parseFactor()
	for {
		start := p.cur().Span
		switch {
		case p.at(token.Star):
			p.advance()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinMul, left, p.parseFactor())
		case p.at(token.Slash):
			p.advance()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinDiv, left, p.parseFactor())
		case p.at(token.KwMod):
			p.advance()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinMod, left, p.parseFactor())
		case p.at(token.KwRem):
			p.advance()
			left = p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinRem, left, p.parseFactor())
		default:
			return left
		}
	}
}

func (p *Parser) parseFactor() ast.ExprID {
	start := p.cur().Span
	switch {
	case p.at(token.KwAbs):
		p.advance()
		return p.builder.Exprs.NewUnary(p.spanSince(start), ast.UnaryAbs, p.parseFactor())
	case p.at(token.KwNot):
		p.advance()
		return p.builder.Exprs.NewUnary(p.spanSince(start), ast.UnaryNot, p.parseFactor())
	}
	left := p.parsePrimary()
	if p.at(token.StarStar) {
		p.advance()
		right := p.parseFactor()
		return p.builder.Exprs.NewBinary(p.spanSince(start), ast.BinPow, left, right)
	}
	return left
}

// parsePrimary parses a primary expression and any chain of postfix
// indexing/selection/attribute/call operators applied to it.
func (p *Parser) parsePrimary() ast.ExprID {
	start := p.cur().Span
	var e ast.ExprID

	switch {
	case p.at(token.IntLiteral):
		t := p.advance()
		v := new(big.Int)
		v.SetString(cleanNumeric(t.Text), 10)
		e = p.builder.Exprs.NewIntLit(p.spanSince(start), v)
	case p.at(token.RealLiteral):
		t := p.advance()
		v := new(big.Float)
		v.SetString(cleanNumeric(t.Text))
		e = p.builder.Exprs.NewRealLit(p.spanSince(start), v)
	case p.at(token.CharLiteral):
		t := p.advance()
		r := rune(0)
		if len(t.Text) > 0 {
			r = []rune(t.Text)[0]
		}
		e = p.builder.Exprs.NewCharLit(p.spanSince(start), r)
	case p.at(token.StringLiteral):
		t := p.advance()
		e = p.builder.Exprs.NewStringLit(p.spanSince(start), t.Text)
	case p.at(token.KwNull):
		p.advance()
		e = p.builder.Exprs.NewNullLit(p.spanSince(start))
	case p.at(token.KwNew):
		p.advance()
		mark := p.parseDottedName()
		init := ast.NoExprID
		if p.at(token.Apostrophe) {
			p.advance()
			p.expect(token.LParen)
			init = p.parseExpr()
			p.expect(token.RParen)
		}
		e = p.builder.Exprs.NewAllocator(p.spanSince(start), mark, init)
	case p.at(token.LParen):
		e = p.parseParenExprOrAggregate()
	case p.at(token.Ident):
		e = p.parseIdentPrimary()
	default:
		p.fail(p.cur().Span, "expected an expression, found %s %q", p.cur().Kind, p.cur().Text)
	}

	return p.parsePostfix(start, e)
}

func cleanNumeric(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func (p *Parser) parseIdentPrimary() ast.ExprID {
	start := p.cur().Span
	t := p.advance()
	name := p.builder.Strings.Intern(t.Text)
	return p.builder.Exprs.NewIdent(p.spanSince(start), name)
}

// parsePostfix handles indexed/slice calls `X(...)`, selected
// components `X.Y`, `X.all`, and attributes `X'Attr[(Args)]`, all of
// which share a common prefix-chaining shape.
func (p *Parser) parsePostfix(start source.Span, e ast.ExprID) ast.ExprID {
	for {
		switch {
		case p.at(token.Dot) && p.cur2().Kind == token.KwAll:
			p.advance()
			p.advance()
			e = p.builder.Exprs.NewDeref(p.spanSince(start), e)
		case p.at(token.Dot):
			p.advance()
			name := p.expectIdent()
			e = p.builder.Exprs.NewSelected(p.spanSince(start), e, name)
		case p.at(token.Apostrophe):
			p.advance()
			if p.at(token.LParen) {
				// T'(Expr) qualified expression: only meaningful when e
				// names a type mark, which the resolver disambiguates;
				// the parser always builds a Qualified node here.
				p.advance()
				val := p.parseExpr()
				p.expect(token.RParen)
				markName := p.exprAsName(e)
				e = p.builder.Exprs.NewQualified(p.spanSince(start), markName, val)
				continue
			}
			attrTok := p.expect(token.Ident)
			attr := p.builder.Strings.Intern(attrTok.Text)
			var args []ast.ExprID
			if p.at(token.LParen) {
				p.advance()
				args = append(args, p.parseExpr())
				for p.at(token.Comma) {
					p.advance()
					args = append(args, p.parseExpr())
				}
				p.expect(token.RParen)
			}
			e = p.builder.Exprs.NewAttribute(p.spanSince(start), e, attr, args)
		case p.at(token.LParen):
			e = p.parseCallOrIndexOrConvert(start, e)
		default:
			return e
		}
	}
}

// exprAsName recovers a bare identifier's interned name from an
// already-built ExprIdent node, used to fill a qualified expression's
// TypeMark field (which the grammar stores as a name, not a sub-node).
func (p *Parser) exprAsName(e ast.ExprID) (name source.StringID) {
	node := p.builder.Exprs.Get(e)
	if node != nil && node.Kind == ast.ExprIdent {
		return p.builder.Exprs.Ident(e).Name
	}
	return 0
}

// parseCallOrIndexOrConvert parses `(Args)` applied to a prefix; the
// resolver later disambiguates a call, an index, and a type conversion
// by what the prefix denotes (§4.4). The parser always builds an
// ExprCall when any argument uses named-association syntax, and an
// ExprIndexed otherwise, since that is the shape the resolver expects
// to re-interpret.
func (p *Parser) parseCallOrIndexOrConvert(start source.Span, prefix ast.ExprID) ast.ExprID {
	p.expect(token.LParen)
	var args []ast.CallArg
	var positional []ast.ExprID
	named := false
	for {
		if p.at(token.Ident) && p.cur2().Kind == token.Arrow {
			named = true
			n := p.expectIdent()
			p.advance() // =>
			v := p.parseExpr()
			args = append(args, ast.CallArg{Name: n, Value: v})
		} else {
			v := p.parseExpr()
			args = append(args, ast.CallArg{Value: v})
			positional = append(positional, v)
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	if named {
		return p.builder.Exprs.NewCall(p.spanSince(start), prefix, args)
	}
	return p.builder.Exprs.NewIndexed(p.spanSince(start), prefix, positional)
}

// parseParenExprOrAggregate parses a parenthesized expression or an
// aggregate, disambiguated by the presence of `,`, `=>`, or `others`
// before the matching close paren.
func (p *Parser) parseParenExprOrAggregate() ast.ExprID {
	start := p.cur().Span
	p.expect(token.LParen)
	if p.at(token.KwOthers) {
		return p.finishAggregate(start, nil)
	}
	first := p.parseExprOrChoiceValue()
	switch {
	case p.at(token.Arrow):
		p.advance()
		val := p.parseExpr()
		assoc := ast.AggregateAssoc{Choices: []ast.ExprID{first}, Value: val}
		return p.finishAggregate(start, []ast.AggregateAssoc{assoc})
	case p.at(token.Comma):
		assoc := ast.AggregateAssoc{Value: first}
		return p.finishAggregate(start, []ast.AggregateAssoc{assoc})
	default:
		p.expect(token.RParen)
		return first
	}
}

// parseExprOrChoiceValue parses a bare expression, used as the first
// element of a parenthesized form before aggregate-vs-expression
// disambiguation.
func (p *Parser) parseExprOrChoiceValue() ast.ExprID { return p.parseExpr() }

func (p *Parser) finishAggregate(start source.Span, assocs []ast.AggregateAssoc) ast.ExprID {
	for {
		if p.at(token.KwOthers) {
			p.advance()
			p.expect(token.Arrow)
			val := p.parseExpr()
			assocs = append(assocs, ast.AggregateAssoc{Others: true, Value: val})
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		if !p.at(token.KwOthers) {
			assocs = append(assocs, p.parseAggregateAssoc())
		}
	}
	p.expect(token.RParen)
	return p.builder.Exprs.NewAggregate(p.spanSince(start), assocs)
}

func (p *Parser) parseAggregateAssoc() ast.AggregateAssoc {
	first := p.parseExpr()
	if p.at(token.Arrow) {
		p.advance()
		val := p.parseExpr()
		choices := []ast.ExprID{first}
		for p.at(token.Bar) {
			p.advance()
			choices = append(choices, p.parseExpr())
			p.expect(token.Arrow)
		}
		return ast.AggregateAssoc{Choices: choices, Value: val}
	}
	return ast.AggregateAssoc{Value: first}
}
