package sema

import (
	"adalite/internal/ast"
	"adalite/internal/generics"
	"adalite/internal/source"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// resolveDecl resolves one declaration within scope, installing the
// symbol(s) it introduces and recursing into nested declarative parts
// (§4.2, §4.5).
func (r *Resolver) resolveDecl(id ast.DeclID, scope symbols.ScopeID) {
	if !id.IsValid() {
		return
	}
	node := r.builder.Decls.Get(id)
	if node == nil {
		return
	}

	switch node.Kind {
	case ast.DeclObject:
		r.resolveObjectDecl(id, scope)

	case ast.DeclType, ast.DeclSubtype:
		data := r.builder.Decls.Type(id)
		ty := r.elaborateTypeExpr(data.Def, scope)
		symKind := symbols.KindType
		sym := r.symbols.Add(data.Name, symbols.Symbol{Kind: symKind, Type: ty})
		r.result.DeclSymbols[id] = sym

	case ast.DeclSubprogramSpec:
		sym := r.resolveSubprogramSpec(id, scope)
		r.result.DeclSymbols[id] = sym

	case ast.DeclSubprogramBody:
		r.resolveSubprogramBody(id, scope)

	case ast.DeclPackageSpec:
		r.resolvePackageSpec(id, scope)

	case ast.DeclPackageBody:
		r.resolvePackageBody(id, scope)

	case ast.DeclGeneric:
		r.resolveGenericDecl(id, scope)

	case ast.DeclGenericInstantiation:
		r.resolveGenericInstantiation(id, scope)

	case ast.DeclException:
		data := r.builder.Decls.Exception(id)
		for _, name := range data.Names {
			r.symbols.Add(name, symbols.Symbol{Kind: symbols.KindException})
		}

	case ast.DeclRenaming:
		r.resolveRenaming(id, scope)
	}
}

func (r *Resolver) resolveObjectDecl(id ast.DeclID, scope symbols.ScopeID) {
	data := r.builder.Decls.Object(id)
	declTy := r.elaborateTypeExpr(data.Type, scope)
	var initTy types.TypeID
	if data.Init.IsValid() {
		initTy = r.resolveExpr(data.Init, scope)
		node := r.builder.Decls.Get(id)
		if declTy != types.NoTypeID && initTy != types.NoTypeID && !r.types.Compatible(declTy, initTy) {
			r.errorf(node.Span, "initial value's type does not match the declared type")
		}
		r.insertRangeCheck(&data.Init, declTy, initTy, node.Span)
	}
	kind := symbols.KindObject
	if data.Constant {
		kind = symbols.KindConstant
	}
	syms := make([]symbols.SymbolID, 0, len(data.Names))
	for _, name := range data.Names {
		syms = append(syms, r.symbols.Add(name, symbols.Symbol{Kind: kind, Type: declTy}))
	}
	r.result.ObjectSymbols[id] = syms
}

// insertRangeCheck wraps *initRef in an explicit ast.ExprCheck node when
// declTy's static bounds are tighter than initTy's base type's (§4.3),
// so the IR generator lowers a runtime guard ahead of the store rather
// than trusting the initializer blindly.
func (r *Resolver) insertRangeCheck(initRef *ast.ExprID, declTy, initTy types.TypeID, span source.Span) {
	if !r.boundsTighter(declTy, initTy) {
		return
	}
	dt := r.types.Get(declTy)
	low := r.constValueExpr(dt.Low, span)
	high := r.constValueExpr(dt.High, span)
	if !low.IsValid() || !high.IsValid() {
		return
	}
	*initRef = r.builder.Exprs.NewCheck(span, ast.CheckRange, *initRef, low, high)
}

// boundsTighter reports whether declTy's static range is a proper
// subrange of srcTy's base type's range — the condition §4.3 requires
// before a check is worth inserting.
func (r *Resolver) boundsTighter(declTy, srcTy types.TypeID) bool {
	dt := r.types.Get(declTy)
	if dt == nil || !dt.HasBounds || dt.Low.Int == nil || dt.High.Int == nil {
		return false
	}
	base := srcTy
	if st := r.types.Get(srcTy); st != nil && st.Base != types.NoTypeID {
		base = st.Base
	}
	bt := r.types.Get(base)
	if bt == nil || !bt.HasBounds || bt.Low.Int == nil || bt.High.Int == nil {
		return false
	}
	return dt.Low.Int.Cmp(bt.Low.Int) > 0 || dt.High.Int.Cmp(bt.High.Int) < 0
}

// constValueExpr synthesizes a literal expression node for a statically
// known scalar, for use as an inserted check's bound.
func (r *Resolver) constValueExpr(cv types.ConstValue, span source.Span) ast.ExprID {
	if !cv.Valid {
		return ast.NoExprID
	}
	switch cv.Kind {
	case types.KindFloat:
		if cv.Float == nil {
			return ast.NoExprID
		}
		return r.builder.Exprs.NewRealLit(span, cv.Float)
	default:
		if cv.Int == nil {
			return ast.NoExprID
		}
		return r.builder.Exprs.NewIntLit(span, cv.Int)
	}
}

func (r *Resolver) resolveSubprogramSpec(id ast.DeclID, scope symbols.ScopeID) symbols.SymbolID {
	data := r.builder.Decls.SubprogramSpec(id)
	params := make([]symbols.Param, 0, len(data.Params))
	for _, p := range data.Params {
		pty := r.elaborateTypeExpr(p.Type, scope)
		mode := symbols.ModeIn
		switch p.Mode {
		case ast.ModeOut:
			mode = symbols.ModeOut
		case ast.ModeInOut:
			mode = symbols.ModeInOut
		}
		for _, name := range p.Names {
			params = append(params, symbols.Param{Name: name, Type: pty, Mode: mode})
		}
	}
	var retTy types.TypeID
	if data.IsFunction {
		retTy = r.elaborateTypeExpr(data.ReturnType, scope)
	}
	kind := symbols.KindProcedure
	if data.IsFunction {
		kind = symbols.KindFunction
	}
	return r.symbols.Add(data.Name, symbols.Symbol{Kind: kind, Params: params, ReturnTy: retTy})
}

func (r *Resolver) resolveSubprogramBody(id ast.DeclID, scope symbols.ScopeID) {
	data := r.builder.Decls.SubprogramBody(id)
	var spec *ast.SubprogramSpecData
	if data.Spec.IsValid() {
		spec = r.builder.Decls.SubprogramSpec(data.Spec)
	}
	subScope := r.symbols.OpenScope(symbols.ScopeSubprogram)
	var paramSyms []symbols.SymbolID
	if spec != nil {
		for _, p := range spec.Params {
			pty := r.elaborateTypeExpr(p.Type, scope)
			for _, name := range p.Names {
				paramSyms = append(paramSyms, r.symbols.Add(name, symbols.Symbol{Kind: symbols.KindObject, Type: pty}))
			}
		}
	}
	r.result.ParamSymbols[id] = paramSyms
	for _, d := range data.Decls {
		r.resolveDecl(d, subScope)
	}
	r.resolveStmts(data.Body, subScope)
	node := r.builder.Decls.Get(id)
	r.resolveHandlers(data.Handlers, subScope, node.Span)
	r.symbols.CloseScope()
}

func (r *Resolver) resolvePackageSpec(id ast.DeclID, scope symbols.ScopeID) {
	data := r.builder.Decls.PackageSpec(id)
	pkgSym := r.symbols.Add(data.Name, symbols.Symbol{Kind: symbols.KindPackage})
	pkgScope := r.symbols.OpenScope(symbols.ScopePackage)
	if sc := r.symbols.GetScope(pkgScope); sc != nil {
		sc.Package = pkgSym
	}
	for _, d := range data.Public {
		r.resolveDecl(d, pkgScope)
	}
	for _, d := range data.Private {
		r.resolveDecl(d, pkgScope)
	}
	r.symbols.CloseScope()
	r.result.DeclSymbols[id] = pkgSym
}

func (r *Resolver) resolvePackageBody(id ast.DeclID, scope symbols.ScopeID) {
	data := r.builder.Decls.PackageBody(id)
	bodyScope := r.symbols.OpenScope(symbols.ScopePackage)
	for _, d := range data.Decls {
		r.resolveDecl(d, bodyScope)
	}
	r.resolveStmts(data.Body, bodyScope)
	node := r.builder.Decls.Get(id)
	r.resolveHandlers(data.Handlers, bodyScope, node.Span)
	r.symbols.CloseScope()
}

// resolveGenericDecl validates a generic unit's formal part, then
// registers its template (formals + unelaborated body) with the
// generics registry under its own name (§4.6). The body itself is
// deliberately left unresolved here — its formals aren't bound to real
// actuals yet — and is only ever elaborated once per instantiation, via
// resolveGenericInstantiation.
func (r *Resolver) resolveGenericDecl(id ast.DeclID, scope symbols.ScopeID) {
	data := r.builder.Decls.Generic(id)
	genScope := r.symbols.OpenScope(symbols.ScopeGenericInstance)
	for _, f := range data.Formals {
		switch f.Kind {
		case ast.FormalObject:
			fty := r.elaborateTypeExpr(f.ObjectType, genScope)
			r.symbols.Add(f.Name, symbols.Symbol{Kind: symbols.KindObject, Type: fty})
		case ast.FormalSubprogram:
			r.symbols.Add(f.Name, symbols.Symbol{Kind: symbols.KindProcedure})
		default:
			r.symbols.Add(f.Name, symbols.Symbol{Kind: symbols.KindType})
		}
	}
	r.symbols.CloseScope()

	name := r.genericName(data.Inner)
	tmplID := r.generics.Register(generics.Template{Name: name, Formals: data.Formals, Inner: data.Inner})
	sym := r.symbols.Add(name, symbols.Symbol{Kind: symbols.KindGenericTemplate, GenericTemplateID: uint32(tmplID)})
	r.result.DeclSymbols[id] = sym
}

// genericName recovers the declared name of a generic unit's wrapped
// inner declaration, since DeclGeneric itself carries no Name field.
func (r *Resolver) genericName(inner ast.DeclID) source.StringID {
	node := r.builder.Decls.Get(inner)
	if node == nil {
		return source.NoStringID
	}
	switch node.Kind {
	case ast.DeclSubprogramSpec:
		return r.builder.Decls.SubprogramSpec(inner).Name
	case ast.DeclSubprogramBody:
		if spec := r.builder.Decls.SubprogramSpec(r.builder.Decls.SubprogramBody(inner).Spec); spec != nil {
			return spec.Name
		}
	case ast.DeclPackageSpec:
		return r.builder.Decls.PackageSpec(inner).Name
	case ast.DeclPackageBody:
		return r.builder.Decls.PackageBody(inner).Name
	}
	return source.NoStringID
}

// resolveGenericInstantiation looks up the named generic template,
// binds its formals to this instantiation's actuals, deep-copies its
// body via the generics package, and elaborates the copy as an ordinary
// declaration in scope (§4.6).
func (r *Resolver) resolveGenericInstantiation(id ast.DeclID, scope symbols.ScopeID) {
	data := r.builder.Decls.GenericInst(id)
	node := r.builder.Decls.Get(id)

	genSym := r.symbols.Lookup(scope, data.Generic)
	if genSym == symbols.NoSymbolID {
		r.errorf(node.Span, "unknown generic unit %q", r.symbols.Strings.Spelling(data.Generic))
		return
	}
	gs := r.symbols.Get(genSym)
	if gs == nil || gs.Kind != symbols.KindGenericTemplate {
		r.errorf(node.Span, "%q does not denote a generic unit", r.symbols.Strings.Spelling(data.Generic))
		return
	}
	tmpl := r.generics.Get(generics.TemplateID(gs.GenericTemplateID))
	if tmpl == nil {
		r.errorf(node.Span, "generic unit %q has no recorded template", r.symbols.Strings.Spelling(data.Generic))
		return
	}

	binding := r.bindGenericActuals(tmpl, data.Actuals, node.Span)
	instDecl := generics.Instantiate(r.builder, r.bag, tmpl, binding, data.Name)
	if !instDecl.IsValid() {
		r.errorf(node.Span, "generic instantiation of %q failed", r.symbols.Strings.Spelling(data.Generic))
		return
	}
	r.result.InstantiationDecls[id] = instDecl

	r.resolveDecl(instDecl, scope)
	if sym, ok := r.result.DeclSymbols[instDecl]; ok {
		r.result.DeclSymbols[id] = sym
	}
}

// bindGenericActuals associates tmpl's formals with actuals by name
// first, falling back to position, and classifies each bound actual
// into the generics.Binding field matching its formal's kind (§4.6
// step 1).
func (r *Resolver) bindGenericActuals(tmpl *generics.Template, actuals []ast.GenericActual, span source.Span) generics.Binding {
	b := generics.Binding{
		Types:       make(map[source.StringID]ast.TypeExprID),
		Objects:     make(map[source.StringID]ast.ExprID),
		Subprograms: make(map[source.StringID]source.StringID),
	}
	byName := make(map[source.StringID]ast.GenericActual)
	var positional []ast.GenericActual
	for _, a := range actuals {
		if a.Name != source.NoStringID {
			byName[a.Name] = a
		} else {
			positional = append(positional, a)
		}
	}
	pi := 0
	for _, f := range tmpl.Formals {
		actual, ok := byName[f.Name]
		if !ok {
			if pi >= len(positional) {
				continue
			}
			actual, ok = positional[pi], true
			pi++
		}
		if !ok {
			continue
		}
		switch f.Kind {
		case ast.FormalSubprogram:
			if n := r.builder.Exprs.Get(actual.Value); n != nil && n.Kind == ast.ExprIdent {
				b.Subprograms[f.Name] = r.builder.Exprs.Ident(actual.Value).Name
			}
		case ast.FormalObject:
			b.Objects[f.Name] = actual.Value
		default: // the formal-type kinds (private, discrete, array, access, ...)
			if n := r.builder.Exprs.Get(actual.Value); n != nil && n.Kind == ast.ExprIdent {
				name := r.builder.Exprs.Ident(actual.Value).Name
				b.Types[f.Name] = r.builder.TypeExprs.NewMark(span, source.NoStringID, name)
			}
		}
	}
	return b
}

func (r *Resolver) resolveRenaming(id ast.DeclID, scope symbols.ScopeID) {
	data := r.builder.Decls.Renaming(id)
	targetTy := r.resolveExpr(data.Target, scope)
	kind := symbols.KindObject
	if data.Spec.IsValid() {
		kind = symbols.KindProcedure
	}
	r.symbols.Add(data.Name, symbols.Symbol{Kind: kind, Type: targetTy})
}
