package sema

import (
	"adalite/internal/ast"
	"adalite/internal/source"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// elaborateTypeExpr turns a syntactic type expression into a resolved
// type descriptor, allocating a new types.Type for every type
// definition and a constrained subtype for every constraint (§4.2).
func (r *Resolver) elaborateTypeExpr(id ast.TypeExprID, scope symbols.ScopeID) types.TypeID {
	if !id.IsValid() {
		return types.NoTypeID
	}
	node := r.builder.TypeExprs.Get(id)
	if node == nil {
		return types.NoTypeID
	}

	switch node.Kind {
	case ast.TypeMark:
		data := r.builder.TypeExprs.Mark(id)
		lookupScope := scope
		if data.Prefix != source.NoStringID {
			// A package-qualified mark (P.T): resolve P then look up T in
			// its scope, matching selected-component resolution (§4.4).
			if pkgSym := r.symbols.Lookup(scope, data.Prefix); pkgSym != symbols.NoSymbolID {
				lookupScope = r.findScopeOfPackage(pkgSym)
			}
		}
		sym := r.symbols.Lookup(lookupScope, data.Name)
		if sym == symbols.NoSymbolID {
			r.errorf(node.Span, "%q does not denote a known type", r.symbols.Strings.Spelling(data.Name))
			return types.NoTypeID
		}
		s := r.symbols.Get(sym)
		if s == nil || s.Kind != symbols.KindType {
			r.errorf(node.Span, "%q does not denote a type", r.symbols.Strings.Spelling(data.Name))
			return types.NoTypeID
		}
		return s.Type

	case ast.TypeRangeConstraint:
		data := r.builder.TypeExprs.RangeConstraint(id)
		base := r.elaborateTypeExpr(data.Mark, scope)
		lo := r.evalConst(data.Low, scope)
		hi := r.evalConst(data.High, scope)
		return r.types.New(types.Type{Kind: r.kindOf(base), Base: base, HasBounds: true, Low: lo, High: hi})

	case ast.TypeDigitsConstraint:
		data := r.builder.TypeExprs.DigitsConstraint(id)
		base := r.elaborateTypeExpr(data.Mark, scope)
		r.resolveExpr(data.Digits, scope)
		ty := types.Type{Kind: types.KindFloat, Base: base}
		if data.RangeLow.IsValid() {
			ty.HasBounds = true
			ty.Low = r.evalConst(data.RangeLow, scope)
			ty.High = r.evalConst(data.RangeHigh, scope)
		}
		return r.types.New(ty)

	case ast.TypeIndexConstraint:
		data := r.builder.TypeExprs.IndexConstraint(id)
		base := r.elaborateTypeExpr(data.Mark, scope)
		baseTy := r.types.Get(base)
		newTy := types.Type{Kind: types.KindArray, Base: base}
		if baseTy != nil {
			newTy.Elem = baseTy.Elem
			newTy.IndexType = baseTy.IndexType
		}
		if len(data.Ranges) > 0 {
			newTy.HasBounds = true
			newTy.Low = r.evalConst(data.Ranges[0].Low, scope)
			newTy.High = r.evalConst(data.Ranges[0].High, scope)
		}
		return r.types.New(newTy)

	case ast.TypeDiscriminantConstraint:
		data := r.builder.TypeExprs.DiscriminantConstraint(id)
		base := r.elaborateTypeExpr(data.Mark, scope)
		baseTy := r.types.Get(base)
		constraints := make([]types.DiscriminantConstraint, 0, len(data.Assocs))
		for _, a := range data.Assocs {
			constraints = append(constraints, types.DiscriminantConstraint{
				Discriminant: a.Name,
				Value:        r.evalConst(a.Value, scope),
			})
		}
		newTy := types.Type{Kind: types.KindRecord, Base: base, Constraints: constraints}
		if baseTy != nil {
			newTy.Components = baseTy.Components
			newTy.Discriminants = baseTy.Discriminants
		}
		return r.types.New(newTy)

	case ast.TypeDerived:
		data := r.builder.TypeExprs.Derived(id)
		parent := r.elaborateTypeExpr(data.Parent, scope)
		parentTy := r.types.Get(parent)
		derived := types.Type{Kind: types.KindDerived, Parent: parent}
		if parentTy != nil {
			derived.Elem = parentTy.Elem
			derived.IndexType = parentTy.IndexType
			derived.Components = parentTy.Components
			derived.Discriminants = parentTy.Discriminants
			derived.HasBounds = parentTy.HasBounds
			derived.Low, derived.High = parentTy.Low, parentTy.High
		}
		return r.types.New(derived)

	case ast.TypeEnum:
		data := r.builder.TypeExprs.Enum(id)
		enumTy := r.types.New(types.Type{Kind: types.KindEnumeration})
		literals := make([]types.SymbolID, 0, len(data.Literals))
		for i, lit := range data.Literals {
			sym := r.symbols.Add(lit, symbols.Symbol{Kind: symbols.KindEnumLiteral, Type: enumTy})
			literals = append(literals, types.SymbolID(sym))
			_ = i
		}
		if et := r.types.Get(enumTy); et != nil {
			et.EnumLiterals = literals
		}
		return enumTy

	case ast.TypeRecord:
		return r.elaborateRecord(id, scope)

	case ast.TypeArray:
		return r.elaborateArray(id, scope)

	case ast.TypeAccess:
		data := r.builder.TypeExprs.Access(id)
		// The designated type is resolved eagerly by name, so it must
		// already be declared; a type's own symbol is added only after its
		// definition is elaborated, so a record cannot designate itself
		// through an access component. types.Freeze does not recurse into
		// the designated type (its access-type special case).
		designated := r.elaborateTypeExpr(data.Designated, scope)
		return r.types.New(types.Type{Kind: types.KindAccess, Elem: designated})

	case ast.TypePrivate:
		return r.types.New(types.Type{Kind: types.KindPrivate})
	}
	return types.NoTypeID
}

func (r *Resolver) kindOf(base types.TypeID) types.Kind {
	if ty := r.types.Get(base); ty != nil {
		return r.types.SemanticBase(base)
	}
	return types.KindInteger
}

func (r *Resolver) elaborateRecord(id ast.TypeExprID, scope symbols.ScopeID) types.TypeID {
	data := r.builder.TypeExprs.Record(id)
	recScope := r.symbols.OpenScope(symbols.ScopeRecord)
	defer r.symbols.CloseScope()

	discriminants := make([]types.Discriminant, 0, len(data.Discriminants))
	for _, f := range data.Discriminants {
		fty := r.elaborateTypeExpr(f.Type, recScope)
		for _, name := range f.Names {
			sym := r.symbols.Add(name, symbols.Symbol{Kind: symbols.KindDiscriminant, Type: fty})
			discriminants = append(discriminants, types.Discriminant{Name: name, Type: fty, Symbol: types.SymbolID(sym)})
		}
	}

	components := r.elaborateFields(data.Fields, recScope)
	if data.Variant != nil {
		components = append(components, r.elaborateVariant(data.Variant, recScope)...)
	}

	return r.types.New(types.Type{Kind: types.KindRecord, Discriminants: discriminants, Components: components})
}

func (r *Resolver) elaborateFields(fields []ast.RecordField, scope symbols.ScopeID) []types.Component {
	var out []types.Component
	for _, f := range fields {
		fty := r.elaborateTypeExpr(f.Type, scope)
		for _, name := range f.Names {
			out = append(out, types.Component{Name: name, Type: fty})
		}
	}
	return out
}

func (r *Resolver) elaborateVariant(v *ast.VariantPart, scope symbols.ScopeID) []types.Component {
	var out []types.Component
	for _, arm := range v.Arms {
		choice := r.variantChoice(arm, scope)
		fields := r.elaborateFields(arm.Fields, scope)
		for i := range fields {
			fields[i].VariantPath = append(fields[i].VariantPath, choice)
		}
		out = append(out, fields...)
		if arm.Nested != nil {
			nested := r.elaborateVariant(arm.Nested, scope)
			for i := range nested {
				nested[i].VariantPath = append([]types.DiscriminantChoice{choice}, nested[i].VariantPath...)
			}
			out = append(out, nested...)
		}
	}
	return out
}

func (r *Resolver) variantChoice(arm ast.VariantArm, scope symbols.ScopeID) types.DiscriminantChoice {
	if arm.Others {
		return types.DiscriminantChoice{Others: true}
	}
	if len(arm.Choices) == 0 {
		return types.DiscriminantChoice{}
	}
	return types.DiscriminantChoice{Value: r.evalConst(arm.Choices[0], scope)}
}

func (r *Resolver) elaborateArray(id ast.TypeExprID, scope symbols.ScopeID) types.TypeID {
	data := r.builder.TypeExprs.Array(id)
	elem := r.elaborateTypeExpr(data.Elem, scope)
	newTy := types.Type{Kind: types.KindArray, Elem: elem, Packed: data.Packed}
	if len(data.Indices) > 0 {
		idx := data.Indices[0]
		if idx.Unconstrained {
			newTy.IndexType = r.elaborateTypeExpr(idx.IndexMark, scope)
		} else {
			newTy.HasBounds = true
			newTy.Low = r.evalConst(idx.Low, scope)
			newTy.High = r.evalConst(idx.High, scope)
		}
	}
	return r.types.New(newTy)
}
