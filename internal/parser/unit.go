package parser

import (
	"adalite/internal/ast"
	"adalite/internal/source"
	"adalite/internal/token"
)

// parseUnit parses one context clause followed by a single library
// unit: a package spec/body, a subprogram spec/body, or a subunit
// (`separate (P) ...`).
func (p *Parser) parseUnit() ast.Unit {
	start := p.cur().Span
	ctx := p.parseContextClause()

	if p.at(token.KwSeparate) {
		p.advance()
		p.expect(token.LParen)
		parent := p.expectIdent()
		p.expect(token.RParen)
		decl := p.parseProperBody()
		return ast.Unit{Kind: ast.UnitSubunit, Context: ctx, Decl: decl, ParentName: parent, Span: p.spanSince(start)}
	}

	decl := p.parseProperBody()
	kind := p.classifyUnit(decl)
	return ast.Unit{Kind: kind, Context: ctx, Decl: decl, Span: p.spanSince(start)}
}

func (p *Parser) spanSince(start source.Span) source.Span {
	return source.Span{File: start.File, Start: start.Start, End: p.cur().Span.Start}
}

func (p *Parser) classifyUnit(decl ast.DeclID) ast.UnitKind {
	node := p.builder.Decls.Get(decl)
	if node == nil {
		return ast.UnitInvalid
	}
	switch node.Kind {
	case ast.DeclPackageSpec:
		return ast.UnitPackageSpec
	case ast.DeclPackageBody:
		return ast.UnitPackageBody
	case ast.DeclSubprogramSpec:
		return ast.UnitSubprogramSpec
	case ast.DeclSubprogramBody:
		return ast.UnitSubprogramBody
	}
	return ast.UnitInvalid
}

// parseContextClause parses zero or more `with`/`use` clauses preceding
// a library unit.
func (p *Parser) parseContextClause() ast.ContextClause {
	var ctx ast.ContextClause
	for p.at(token.KwWith) || p.at(token.KwUse) {
		if p.at(token.KwWith) {
			start := p.cur().Span
			p.advance()
			for {
				name := p.parseDottedName()
				ctx.Withs = append(ctx.Withs, ast.WithClause{Name: name, Span: p.spanSince(start)})
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
			p.expect(token.Semicolon)
		} else {
			start := p.cur().Span
			p.advance()
			for {
				name := p.parseDottedName()
				ctx.Uses = append(ctx.Uses, ast.UseClause{Name: name, Span: p.spanSince(start)})
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
			p.expect(token.Semicolon)
		}
	}
	return ctx
}

// parseDottedName consumes A.B.C and interns the fully-dotted spelling
// as a single name, matching how with'd unit names are looked up
// against the driver's source-discovery table (§6).
func (p *Parser) parseDottedName() source.StringID {
	t := p.expect(token.Ident)
	name := t.Text
	for p.at(token.Dot) {
		p.advance()
		nt := p.expect(token.Ident)
		name = name + "." + nt.Text
	}
	return p.builder.Strings.Intern(name)
}

// parseProperBody dispatches on the leading keyword to a package
// spec/body or a subprogram spec/body, handling the `private`/`is
// separate` and stub forms by falling through to the declarative part.
func (p *Parser) parseProperBody() ast.DeclID {
	switch {
	case p.at(token.KwPackage):
		return p.parsePackage()
	case p.at(token.KwProcedure), p.at(token.KwFunction):
		return p.parseSubprogram()
	case p.at(token.KwGeneric):
		return p.parseGeneric()
	default:
		p.fail(p.cur().Span, "expected a library unit (package, subprogram, or generic), found %s", p.cur().Kind)
		return ast.NoDeclID
	}
}
