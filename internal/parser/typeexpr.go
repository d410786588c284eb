package parser

import (
	"adalite/internal/ast"
	"adalite/internal/source"
	"adalite/internal/token"
)

// parseTypeMarkOrConstraint parses a subtype indication: a (possibly
// package-qualified) type mark optionally followed by a range,
// digits, index, or discriminant constraint.
func (p *Parser) parseTypeMarkOrConstraint() ast.TypeExprID {
	start := p.cur().Span
	mark := p.parseTypeMark(start)

	switch {
	case p.at(token.KwRange):
		p.advance()
		low := p.parseExpr()
		p.expect(token.DotDot)
		high := p.parseExpr()
		return p.builder.TypeExprs.NewRangeConstraint(p.spanSince(start), mark, low, high)
	case p.at(token.KwDigits):
		p.advance()
		digits := p.parseExpr()
		rangeLow, rangeHigh := ast.NoExprID, ast.NoExprID
		if p.at(token.KwRange) {
			p.advance()
			rangeLow = p.parseExpr()
			p.expect(token.DotDot)
			rangeHigh = p.parseExpr()
		}
		return p.builder.TypeExprs.NewDigitsConstraint(p.spanSince(start), ast.DigitsConstraintData{
			Mark: mark, Digits: digits, RangeLow: rangeLow, RangeHigh: rangeHigh,
		})
	case p.at(token.LParen):
		return p.parseIndexOrDiscriminantConstraint(start, mark)
	}
	return mark
}

func (p *Parser) parseTypeMark(start source.Span) ast.TypeExprID {
	var prefix source.StringID
	name := p.expectIdent()
	if p.at(token.Dot) {
		prefix = name
		for p.at(token.Dot) {
			p.advance()
			name = p.expectIdent()
		}
	}
	return p.builder.TypeExprs.NewMark(p.spanSince(start), prefix, name)
}

// parseIndexOrDiscriminantConstraint disambiguates T(Lo..Hi, ...) array
// index constraints from T(Disc => Value, ...) discriminant
// constraints by whether the first association uses `=>`.
func (p *Parser) parseIndexOrDiscriminantConstraint(start source.Span, mark ast.TypeExprID) ast.TypeExprID {
	p.expect(token.LParen)
	if p.at(token.Ident) && p.cur2().Kind == token.Arrow {
		var assocs []ast.DiscriminantAssoc
		for {
			name := p.expectIdent()
			p.expect(token.Arrow)
			val := p.parseExpr()
			assocs = append(assocs, ast.DiscriminantAssoc{Name: name, Value: val})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RParen)
		return p.builder.TypeExprs.NewDiscriminantConstraint(p.spanSince(start), mark, assocs)
	}
	var ranges []ast.IndexRange
	for {
		low := p.parseExpr()
		p.expect(token.DotDot)
		high := p.parseExpr()
		ranges = append(ranges, ast.IndexRange{Low: low, High: high})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return p.builder.TypeExprs.NewIndexConstraint(p.spanSince(start), mark, ranges)
}

// parseTypeDefinition parses the right-hand side of `type Name is ...`.
func (p *Parser) parseTypeDefinition() ast.TypeExprID {
	start := p.cur().Span
	switch {
	case p.at(token.KwNew):
		p.advance()
		parent := p.parseTypeMarkOrConstraint()
		return p.builder.TypeExprs.NewDerived(p.spanSince(start), parent)
	case p.at(token.LParen):
		return p.parseEnumOrDiscreteParen(start)
	case p.at(token.KwRange):
		p.advance()
		low := p.parseExpr()
		p.expect(token.DotDot)
		high := p.parseExpr()
		marklessInt := p.builder.TypeExprs.NewMark(p.spanSince(start), source.NoStringID, p.builder.Strings.Intern("INTEGER"))
		return p.builder.TypeExprs.NewRangeConstraint(p.spanSince(start), marklessInt, low, high)
	case p.at(token.KwDigits):
		p.advance()
		digits := p.parseExpr()
		rangeLow, rangeHigh := ast.NoExprID, ast.NoExprID
		if p.at(token.KwRange) {
			p.advance()
			rangeLow = p.parseExpr()
			p.expect(token.DotDot)
			rangeHigh = p.parseExpr()
		}
		markFloat := p.builder.TypeExprs.NewMark(p.spanSince(start), source.NoStringID, p.builder.Strings.Intern("FLOAT"))
		return p.builder.TypeExprs.NewDigitsConstraint(p.spanSince(start), ast.DigitsConstraintData{
			Mark: markFloat, Digits: digits, RangeLow: rangeLow, RangeHigh: rangeHigh,
		})
	case p.at(token.KwArray):
		return p.parseArrayTypeDef(start)
	case p.at(token.KwRecord):
		return p.parseRecordTypeDef(start)
	case p.at(token.KwAccess):
		p.advance()
		all := false
		if p.at(token.KwAll) {
			p.advance()
			all = true
		}
		designated := p.parseTypeMarkOrConstraint()
		return p.builder.TypeExprs.NewAccess(p.spanSince(start), all, designated)
	case p.at(token.KwPrivate):
		p.advance()
		return p.builder.TypeExprs.NewPrivate(p.spanSince(start), false)
	case p.at(token.KwLimited):
		p.advance()
		p.expect(token.KwPrivate)
		return p.builder.TypeExprs.NewPrivate(p.spanSince(start), true)
	}
	return p.parseTypeMarkOrConstraint()
}

// parseEnumOrDiscreteParen parses `(Lit1, Lit2, ...)` as an
// enumeration type definition — the only `(...)`-led type definition
// shape in Ada 83.
func (p *Parser) parseEnumOrDiscreteParen(start source.Span) ast.TypeExprID {
	p.expect(token.LParen)
	var lits []source.StringID
	for {
		lits = append(lits, p.expectIdent())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return p.builder.TypeExprs.NewEnum(p.spanSince(start), lits)
}

func (p *Parser) parseArrayTypeDef(start source.Span) ast.TypeExprID {
	p.advance() // array
	p.expect(token.LParen)
	var indices []ast.ArrayIndex
	for {
		indices = append(indices, p.parseArrayIndex())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	p.expect(token.KwOf)
	elem := p.parseTypeMarkOrConstraint()
	return p.builder.TypeExprs.NewArray(p.spanSince(start), ast.ArrayData{Indices: indices, Elem: elem})
}

// parseArrayIndex parses one dimension of an array type definition: an
// unconstrained `IndexMark range <>` or a constrained `Low .. High`.
func (p *Parser) parseArrayIndex() ast.ArrayIndex {
	// Try an unconstrained index: IdentMark range <>
	if p.at(token.Ident) && p.cur2().Kind == token.KwRange {
		markStart := p.cur().Span
		mark := p.parseTypeMark(markStart)
		p.expect(token.KwRange)
		if p.at(token.LessGreater) {
			p.advance()
			return ast.ArrayIndex{Unconstrained: true, IndexMark: mark}
		}
		low := p.parseExpr()
		p.expect(token.DotDot)
		high := p.parseExpr()
		return ast.ArrayIndex{Low: low, High: high}
	}
	low := p.parseExpr()
	p.expect(token.DotDot)
	high := p.parseExpr()
	return ast.ArrayIndex{Low: low, High: high}
}

func (p *Parser) parseRecordTypeDef(start source.Span) ast.TypeExprID {
	p.advance() // record
	var fields []ast.RecordField
	var variant *ast.VariantPart
	for !p.at(token.KwEnd) {
		if p.at(token.KwCase) {
			variant = p.parseVariantPart()
			continue
		}
		fields = append(fields, p.parseRecordField())
	}
	p.expect(token.KwEnd)
	p.expect(token.KwRecord)
	return p.builder.TypeExprs.NewRecord(p.spanSince(start), ast.RecordData{Fields: fields, Variant: variant})
}

func (p *Parser) parseRecordField() ast.RecordField {
	names := p.parseNameList()
	p.expect(token.Colon)
	ty := p.parseTypeMarkOrConstraint()
	def := ast.NoExprID
	if p.at(token.Assign) {
		p.advance()
		def = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return ast.RecordField{Names: names, Type: ty, Default: def}
}

func (p *Parser) parseVariantPart() *ast.VariantPart {
	p.expect(token.KwCase)
	disc := p.expectIdent()
	p.expect(token.KwIs)
	var arms []ast.VariantArm
	for p.at(token.KwWhen) {
		p.advance()
		var arm ast.VariantArm
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
		for !p.at(token.KwWhen) && !p.at(token.KwEnd) && !p.at(token.KwCase) {
			if p.at(token.KwNull) {
				p.advance()
				p.expect(token.Semicolon)
				continue
			}
			arm.Fields = append(arm.Fields, p.parseRecordField())
		}
		if p.at(token.KwCase) {
			arm.Nested = p.parseVariantPart()
		}
		arms = append(arms, arm)
	}
	p.expect(token.KwEnd)
	p.expect(token.KwCase)
	p.expect(token.Semicolon)
	return &ast.VariantPart{Discriminant: disc, Arms: arms}
}
