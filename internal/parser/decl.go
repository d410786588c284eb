package parser

import (
	"adalite/internal/ast"
	"adalite/internal/source"
	"adalite/internal/token"
)

// parseDeclarations parses a sequence of declarations up to (but not
// consuming) a `begin`, `private`, or `end` that terminates a
// declarative part.
func (p *Parser) parseDeclarations() []ast.DeclID {
	var decls []ast.DeclID
	for !p.at(token.KwBegin) && !p.at(token.KwPrivate) && !p.at(token.KwEnd) && !p.at(token.EOF) {
		if p.at(token.KwPragma) {
			p.skipPragma()
			continue
		}
		decls = append(decls, p.parseDecl())
	}
	return decls
}

func (p *Parser) skipPragma() {
	p.advance() // pragma
	p.expect(token.Ident)
	if p.at(token.LParen) {
		depth := 0
		for {
			t := p.advance()
			if t.Kind == token.LParen {
				depth++
			} else if t.Kind == token.RParen {
				depth--
				if depth == 0 {
					break
				}
			} else if t.Kind == token.EOF {
				break
			}
		}
	}
	p.expect(token.Semicolon)
}

// parseDecl dispatches a single declaration based on its leading token.
func (p *Parser) parseDecl() ast.DeclID {
	switch {
	case p.at(token.KwType):
		return p.parseTypeDecl()
	case p.at(token.KwSubtype):
		return p.parseSubtypeDecl()
	case p.at(token.KwException):
		return p.parseExceptionDecl()
	case p.at(token.KwProcedure), p.at(token.KwFunction):
		return p.parseSubprogramOrSpec()
	case p.at(token.KwPackage):
		return p.parsePackage()
	case p.at(token.KwGeneric):
		return p.parseGeneric()
	case p.at(token.Ident) && p.identIsInstantiation():
		return p.parseGenericInstantiation()
	default:
		return p.parseObjectOrRenaming()
	}
}

// identIsInstantiation always reports false: it does not peek ahead.
// `X : T;` object declarations and `X is new G(...);` generic
// instantiations both start with an identifier, and the instantiation
// form is recognised inside parseObjectOrRenaming once `is` follows it.
func (p *Parser) identIsInstantiation() bool {
	return false // disambiguated inside parseObjectOrRenaming once "is" is seen
}

// parseNameList parses one or more comma-separated identifiers.
func (p *Parser) parseNameList() []source.StringID {
	names := []source.StringID{p.expectIdent()}
	for p.at(token.Comma) {
		p.advance()
		names = append(names, p.expectIdent())
	}
	return names
}

// parseObjectOrRenaming handles `Names : [constant] Subtype [:= Init];`,
// `Name : Subtype renames Target;`, and `Name is new G(...) [Actuals];`.
func (p *Parser) parseObjectOrRenaming() ast.DeclID {
	start := p.cur().Span
	names := p.parseNameList()

	if p.at(token.KwIs) && len(names) == 1 {
		p.advance()
		p.expect(token.KwNew)
		return p.finishGenericInstantiation(start, names[0])
	}

	p.expect(token.Colon)
	constant := false
	if p.at(token.KwConstant) {
		constant = true
		p.advance()
	}
	ty := p.parseTypeMarkOrConstraint()

	if p.at(token.KwRenames) {
		p.advance()
		target := p.parseExpr()
		p.expect(token.Semicolon)
		return p.builder.Decls.NewRenaming(p.spanSince(start), ast.RenamingData{
			Name:   names[0],
			Target: target,
		})
	}

	init := ast.NoExprID
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return p.builder.Decls.NewObject(p.spanSince(start), ast.ObjectData{
		Names: names, Type: ty, Init: init, Constant: constant,
	})
}

func (p *Parser) finishGenericInstantiation(start source.Span, name source.StringID) ast.DeclID {
	generic := p.parseDottedName()
	var actuals []ast.GenericActual
	if p.at(token.LParen) {
		p.advance()
		for {
			var argName source.StringID
			if p.at(token.Ident) && p.cur2().Kind == token.Arrow {
				argName = p.expectIdent()
				p.advance() // =>
			}
			val := p.parseExpr()
			actuals = append(actuals, ast.GenericActual{Name: argName, Value: val})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RParen)
	}
	p.expect(token.Semicolon)
	return p.builder.Decls.NewGenericInstantiation(p.spanSince(start), ast.GenericInstData{
		Name:    name,
		Generic: generic,
		Actuals: actuals,
	})
}

func (p *Parser) parseGenericInstantiation() ast.DeclID {
	return p.parseObjectOrRenaming()
}

func (p *Parser) parseTypeDecl() ast.DeclID {
	start := p.cur().Span
	p.advance() // type
	name := p.expectIdent()
	var discs []ast.RecordField
	if p.at(token.LParen) {
		p.advance()
		discs = append(discs, p.parseDiscriminantSpec())
		for p.at(token.Semicolon) {
			p.advance()
			discs = append(discs, p.parseDiscriminantSpec())
		}
		p.expect(token.RParen)
	}
	if p.at(token.KwIs) {
		p.advance()
	}
	def := p.parseTypeDefinition()
	if len(discs) > 0 {
		if node := p.builder.TypeExprs.Get(def); node != nil && node.Kind == ast.TypeRecord {
			rec := p.builder.TypeExprs.Record(def)
			rec.Discriminants = discs
		}
	}
	p.expect(token.Semicolon)
	return p.builder.Decls.NewType(p.spanSince(start), name, def)
}

// parseDiscriminantSpec parses one `Names : Type [:= Default]` entry of
// a discriminant part.
func (p *Parser) parseDiscriminantSpec() ast.RecordField {
	names := p.parseNameList()
	p.expect(token.Colon)
	ty := p.parseTypeMarkOrConstraint()
	def := ast.NoExprID
	if p.at(token.Assign) {
		p.advance()
		def = p.parseExpr()
	}
	return ast.RecordField{Names: names, Type: ty, Default: def}
}

func (p *Parser) parseSubtypeDecl() ast.DeclID {
	start := p.cur().Span
	p.advance() // subtype
	name := p.expectIdent()
	p.expect(token.KwIs)
	def := p.parseTypeMarkOrConstraint()
	p.expect(token.Semicolon)
	return p.builder.Decls.NewSubtype(p.spanSince(start), name, def)
}

func (p *Parser) parseExceptionDecl() ast.DeclID {
	start := p.cur().Span
	p.advance() // exception
	names := p.parseNameList()
	p.expect(token.Semicolon)
	return p.builder.Decls.NewException(p.spanSince(start), names)
}

// parseSubprogramOrSpec parses a subprogram spec, then looks ahead for
// `is` (a body) or `;` (a spec-only declaration, possibly `renames` or
// `is separate`).
func (p *Parser) parseSubprogramOrSpec() ast.DeclID {
	start := p.cur().Span
	specID := p.parseSubprogramSpecOnly()
	switch {
	case p.at(token.Semicolon):
		p.advance()
		return specID
	case p.at(token.KwRenames):
		p.advance()
		target := p.parseExpr()
		p.expect(token.Semicolon)
		spec := p.builder.Decls.SubprogramSpec(specID)
		return p.builder.Decls.NewRenaming(p.spanSince(start), ast.RenamingData{
			Name: spec.Name, Spec: specID, Target: target,
		})
	case p.at(token.KwIs):
		p.advance()
		if p.at(token.KwSeparate) {
			p.advance()
			p.expect(token.Semicolon)
			return specID
		}
		return p.parseSubprogramBodyTail(start, specID)
	}
	p.fail(p.cur().Span, "expected ';', 'is', or 'renames' after subprogram specification")
	return specID
}

func (p *Parser) parseSubprogram() ast.DeclID { return p.parseSubprogramOrSpec() }

func (p *Parser) parseSubprogramSpecOnly() ast.DeclID {
	start := p.cur().Span
	isFunc := p.at(token.KwFunction)
	if isFunc {
		p.advance()
	} else {
		p.expect(token.KwProcedure)
	}
	name := p.expectIdent()
	var params []ast.Param
	if p.at(token.LParen) {
		params = p.parseParamList()
	}
	retTy := ast.NoTypeExprID
	if isFunc {
		p.expect(token.KwReturn)
		retTy = p.parseTypeMarkOrConstraint()
	}
	return p.builder.Decls.NewSubprogramSpec(p.spanSince(start), ast.SubprogramSpecData{
		Name: name, IsFunction: isFunc, Params: params, ReturnType: retTy,
	})
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LParen)
	var params []ast.Param
	for {
		names := p.parseNameList()
		p.expect(token.Colon)
		mode := ast.ModeIn
		switch {
		case p.at(token.KwIn) && p.cur2().Kind == token.KwOut:
			p.advance()
			p.advance()
			mode = ast.ModeInOut
		case p.at(token.KwIn):
			p.advance()
		case p.at(token.KwOut):
			p.advance()
			mode = ast.ModeOut
		}
		ty := p.parseTypeMarkOrConstraint()
		def := ast.NoExprID
		if p.at(token.Assign) {
			p.advance()
			def = p.parseExpr()
		}
		params = append(params, ast.Param{Names: names, Type: ty, Mode: mode, Default: def})
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return params
}

func (p *Parser) parseSubprogramBodyTail(start source.Span, specID ast.DeclID) ast.DeclID {
	decls := p.parseDeclarations()
	p.expect(token.KwBegin)
	body, handlers := p.parseHandledStmts()
	p.expect(token.KwEnd)
	if p.at(token.Ident) {
		p.advance()
	}
	p.expect(token.Semicolon)
	return p.builder.Decls.NewSubprogramBody(p.spanSince(start), ast.SubprogramBodyData{
		Spec: specID, Decls: decls, Body: body, Handlers: handlers,
	})
}

func (p *Parser) parsePackage() ast.DeclID {
	start := p.cur().Span
	p.expect(token.KwPackage)
	isBody := false
	if p.at(token.KwBody) {
		isBody = true
		p.advance()
	}
	name := p.expectIdent()
	p.expect(token.KwIs)

	if isBody {
		decls := p.parseDeclarations()
		var body []ast.StmtID
		var handlers []ast.ExceptionHandler
		if p.at(token.KwBegin) {
			p.advance()
			body, handlers = p.parseHandledStmts()
		}
		p.expect(token.KwEnd)
		p.skipOptionalName()
		p.expect(token.Semicolon)
		return p.builder.Decls.NewPackageBody(p.spanSince(start), ast.PackageBodyData{
			Name: name, Decls: decls, Body: body, Handlers: handlers,
		})
	}

	public := p.parseDeclarations()
	var private []ast.DeclID
	if p.at(token.KwPrivate) {
		p.advance()
		private = p.parseDeclarations()
	}
	p.expect(token.KwEnd)
	p.skipOptionalName()
	p.expect(token.Semicolon)
	return p.builder.Decls.NewPackageSpec(p.spanSince(start), ast.PackageSpecData{
		Name: name, Public: public, Private: private,
	})
}

func (p *Parser) skipOptionalName() {
	if p.at(token.Ident) {
		p.parseDottedName()
	}
}

// parseGeneric parses a generic formal part followed by the template's
// inner subprogram or package declaration (§4.6).
func (p *Parser) parseGeneric() ast.DeclID {
	start := p.cur().Span
	p.expect(token.KwGeneric)
	var formals []ast.GenericFormal
	for !p.at(token.KwProcedure) && !p.at(token.KwFunction) && !p.at(token.KwPackage) {
		formals = append(formals, p.parseGenericFormal())
	}
	inner := p.parseProperBody()
	return p.builder.Decls.NewGeneric(p.spanSince(start), ast.GenericDeclData{Formals: formals, Inner: inner})
}

func (p *Parser) parseGenericFormal() ast.GenericFormal {
	start := p.cur().Span
	if p.at(token.KwType) {
		p.advance()
		name := p.expectIdent()
		p.expect(token.KwIs)
		kind := ast.FormalTypePrivate
		if p.at(token.LParen) {
			p.advance()
			p.expect(token.LessGreater)
			p.expect(token.RParen)
			kind = ast.FormalTypeDiscrete
		} else if p.at(token.KwRange) {
			p.advance()
			p.expect(token.LessGreater)
			kind = ast.FormalTypeRange
		} else if p.at(token.KwPrivate) {
			p.advance()
			kind = ast.FormalTypePrivate
		} else if p.at(token.KwDigits) {
			p.advance()
			p.expect(token.LessGreater)
			kind = ast.FormalTypeDigits
		} else if p.at(token.KwArray) {
			kind = ast.FormalTypeArray
			p.skipToSemicolon()
		}
		p.expect(token.Semicolon)
		return ast.GenericFormal{Kind: kind, Name: name}
	}
	if p.at(token.KwProcedure) || p.at(token.KwFunction) {
		specID := p.parseSubprogramSpecOnly()
		var defaultName source.StringID
		if p.at(token.KwIs) {
			p.advance()
			if p.at(token.LessGreater) {
				p.advance()
			} else {
				defaultName = p.parseDottedName()
			}
		}
		p.expect(token.Semicolon)
		spec := p.builder.Decls.SubprogramSpec(specID)
		return ast.GenericFormal{Kind: ast.FormalSubprogram, Name: spec.Name, SubprogramSpec: specID, DefaultName: defaultName}
	}
	// object formal: Names : [mode] Subtype [:= Default];
	names := p.parseNameList()
	p.expect(token.Colon)
	mode := ast.ModeIn
	if p.at(token.KwIn) && p.cur2().Kind == token.KwOut {
		p.advance()
		p.advance()
		mode = ast.ModeInOut
	} else if p.at(token.KwIn) {
		p.advance()
	}
	ty := p.parseTypeMarkOrConstraint()
	def := ast.NoExprID
	if p.at(token.Assign) {
		p.advance()
		def = p.parseExpr()
	}
	p.expect(token.Semicolon)
	_ = start
	return ast.GenericFormal{Kind: ast.FormalObject, Name: names[0], ObjectType: ty, ObjectMode: mode, Default: def}
}

func (p *Parser) skipToSemicolon() {
	for !p.at(token.Semicolon) && !p.at(token.EOF) {
		p.advance()
	}
}
