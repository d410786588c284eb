package sema

import (
	"adalite/internal/ast"
	"adalite/internal/source"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// resolveExpr resolves e bottom-up in scope, recording its type and
// (when applicable) its symbol into both the node itself and the
// result maps (§4.4).
func (r *Resolver) resolveExpr(id ast.ExprID, scope symbols.ScopeID) types.TypeID {
	if !id.IsValid() {
		return types.NoTypeID
	}
	node := r.builder.Exprs.Get(id)
	if node == nil {
		return types.NoTypeID
	}

	var ty types.TypeID
	var sym symbols.SymbolID

	switch node.Kind {
	case ast.ExprIntLit:
		ty = r.prelude.Integer
	case ast.ExprRealLit:
		ty = r.prelude.Float
	case ast.ExprCharLit:
		ty = r.prelude.Character
	case ast.ExprStringLit:
		ty = r.prelude.StringTy
	case ast.ExprNullLit:
		ty = types.NoTypeID // the access type context fixes this during assignment/parameter checking

	case ast.ExprIdent:
		data := r.builder.Exprs.Ident(id)
		found := r.symbols.Lookup(scope, data.Name)
		if found == symbols.NoSymbolID {
			r.errorf(node.Span, "%q is not declared", r.symbols.Strings.Spelling(data.Name))
			break
		}
		sym = found
		if s := r.symbols.Get(found); s != nil {
			ty = s.Type
		}

	case ast.ExprUnary:
		data := r.builder.Exprs.Unary(id)
		ty = r.resolveExpr(data.Operand, scope)

	case ast.ExprBinary:
		data := r.builder.Exprs.Binary(id)
		lt := r.resolveExpr(data.Left, scope)
		rt := r.resolveExpr(data.Right, scope)
		ty = r.resolveBinary(node, data, lt, rt)

	case ast.ExprIndexed:
		ty = r.resolveIndexedOrCall(id, scope)

	case ast.ExprSlice:
		data := r.builder.Exprs.Slice(id)
		ty = r.resolveExpr(data.Prefix, scope)
		r.resolveExpr(data.Low, scope)
		r.resolveExpr(data.High, scope)

	case ast.ExprSelected:
		data := r.builder.Exprs.Selected(id)
		ty, sym = r.resolveSelected(node, data, scope)

	case ast.ExprAttribute:
		data := r.builder.Exprs.Attribute(id)
		prefixTy := r.resolveExpr(data.Prefix, scope)
		for _, a := range data.Args {
			r.resolveExpr(a, scope)
		}
		ty = r.resolveAttribute(r.symbols.Strings.Spelling(data.Attr), prefixTy)

	case ast.ExprQualified:
		data := r.builder.Exprs.Qualified(id)
		ty = r.resolveTypeMark(data.TypeMark, scope, node.Span)
		r.resolveExpr(data.Value, scope)

	case ast.ExprConvert:
		data := r.builder.Exprs.Convert(id)
		ty = r.resolveTypeMark(data.TypeMark, scope, node.Span)
		r.resolveExpr(data.Value, scope)

	case ast.ExprCall:
		ty, sym = r.resolveCall(id, scope)

	case ast.ExprAggregate:
		data := r.builder.Exprs.Aggregate(id)
		r.checkAggregateCoverage(node, data, scope)
		for _, assoc := range data.Assocs {
			for _, c := range assoc.Choices {
				r.resolveExpr(c, scope)
			}
			r.resolveExpr(assoc.Value, scope)
		}

	case ast.ExprAllocator:
		data := r.builder.Exprs.Allocator(id)
		designated := r.resolveTypeMark(data.TypeMark, scope, node.Span)
		if data.Init.IsValid() {
			r.resolveExpr(data.Init, scope)
		}
		if designated != types.NoTypeID {
			ty = r.types.New(types.Type{Kind: types.KindAccess, Elem: designated})
		}

	case ast.ExprRange:
		data := r.builder.Exprs.Range(id)
		ty = r.resolveExpr(data.Low, scope)
		r.resolveExpr(data.High, scope)

	case ast.ExprDeref:
		data := r.builder.Exprs.Deref(id)
		prefixTy := r.resolveExpr(data.Prefix, scope)
		if pt := r.types.Get(prefixTy); pt != nil && pt.Kind == types.KindAccess {
			ty = pt.Elem
		} else if prefixTy != types.NoTypeID {
			r.errorf(node.Span, "prefix of .all is not an access value")
		}

	case ast.ExprCheck:
		data := r.builder.Exprs.Check(id)
		ty = r.resolveExpr(data.Value, scope)
		if data.LowBound.IsValid() {
			r.resolveExpr(data.LowBound, scope)
		}
		if data.HighBound.IsValid() {
			r.resolveExpr(data.HighBound, scope)
		}
	}

	node.Type = ty
	node.Symbol = sym
	r.result.ExprTypes[id] = ty
	if sym != symbols.NoSymbolID {
		r.result.ExprSymbols[id] = sym
	}
	return ty
}

// checkAggregateCoverage normalizes a positional/named aggregate's
// layout (§4.4): an `others` choice must be last, no two associations
// may choose the same index, and — absent an `others` fill — every
// index between the lowest and highest chosen index must be covered.
func (r *Resolver) checkAggregateCoverage(node *ast.Expr, data *ast.AggregateData, scope symbols.ScopeID) {
	covered := make(map[int64]bool)
	seenOthers := false
	haveIndex := false
	var minIdx, maxIdx int64
	positional := 0
	named := 0

	mark := func(idx int64) {
		if covered[idx] {
			r.errorf(node.Span, "duplicate aggregate association for index %d", idx)
		}
		covered[idx] = true
		if !haveIndex || idx < minIdx {
			minIdx = idx
		}
		if !haveIndex || idx > maxIdx {
			maxIdx = idx
		}
		haveIndex = true
	}

	for i, assoc := range data.Assocs {
		if assoc.Others {
			if i != len(data.Assocs)-1 {
				r.errorf(node.Span, "the others choice must be the last association in an aggregate")
			}
			seenOthers = true
			continue
		}
		if len(assoc.Choices) == 0 {
			mark(int64(positional))
			positional++
			continue
		}
		named++
		for _, c := range assoc.Choices {
			cv := r.evalConst(c, scope)
			if !cv.Valid || cv.Kind != types.KindInteger || cv.Int == nil {
				continue
			}
			mark(cv.Int.Int64())
		}
	}

	if seenOthers || named == 0 || !haveIndex {
		return
	}
	for idx := minIdx; idx <= maxIdx; idx++ {
		if !covered[idx] {
			r.errorf(node.Span, "aggregate has a gap at index %d with no others choice to fill it", idx)
			return
		}
	}
}

func (r *Resolver) resolveBinary(node *ast.Expr, data *ast.BinaryData, lt, rt types.TypeID) types.TypeID {
	switch data.Op {
	case ast.BinEq, ast.BinNeq, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe, ast.BinIn, ast.BinNotIn:
		if lt != types.NoTypeID && rt != types.NoTypeID && !r.types.Compatible(lt, rt) {
			r.errorf(node.Span, "operands of comparison have incompatible types")
		}
		return r.prelude.Boolean
	case ast.BinAnd, ast.BinOr, ast.BinXor, ast.BinAndThen, ast.BinOrElse:
		return r.prelude.Boolean
	case ast.BinConcat:
		if lt != types.NoTypeID {
			return lt
		}
		return rt
	default:
		if lt != types.NoTypeID && rt != types.NoTypeID && !r.types.Compatible(lt, rt) {
			r.errorf(node.Span, "operands of arithmetic operator have incompatible types")
		}
		if lt != types.NoTypeID {
			return lt
		}
		return rt
	}
}

// resolveIndexedOrCall disambiguates A(...) into an array index/slice,
// a function call, or a type conversion by inspecting what the prefix
// denotes, per §4.4's note that the parser cannot tell these apart.
func (r *Resolver) resolveIndexedOrCall(id ast.ExprID, scope symbols.ScopeID) types.TypeID {
	node := r.builder.Exprs.Get(id)
	data := r.builder.Exprs.Indexed(id)
	prefixTy := r.resolveExpr(data.Prefix, scope)
	for _, a := range data.Args {
		r.resolveExpr(a, scope)
	}
	if pt := r.types.Get(prefixTy); pt != nil && pt.Kind == types.KindArray || (pt != nil && pt.Kind == types.KindString) {
		return pt.Elem
	}
	if prefixTy == types.NoTypeID {
		r.errorf(node.Span, "indexed name does not denote an array")
	}
	return types.NoTypeID
}

func (r *Resolver) resolveSelected(node *ast.Expr, data *ast.SelectedData, scope symbols.ScopeID) (types.TypeID, symbols.SymbolID) {
	prefixTy := r.resolveExpr(data.Prefix, scope)
	prefixNode := r.builder.Exprs.Get(data.Prefix)
	if prefixNode != nil && prefixNode.Kind == ast.ExprIdent && prefixNode.Symbol != symbols.NoSymbolID {
		if psym := r.symbols.Get(prefixNode.Symbol); psym != nil && psym.Kind == symbols.KindPackage {
			pkgScope := r.findScopeOfPackage(prefixNode.Symbol)
			found := r.symbols.Lookup(pkgScope, data.Name)
			if found == symbols.NoSymbolID {
				r.errorf(node.Span, "no declaration named %q visible in this package",
					r.symbols.Strings.Spelling(data.Name))
				return types.NoTypeID, symbols.NoSymbolID
			}
			if s := r.symbols.Get(found); s != nil {
				return s.Type, found
			}
		}
	}
	if pt := r.types.Get(prefixTy); pt != nil && pt.Kind == types.KindRecord {
		for _, c := range pt.Components {
			if c.Name == data.Name {
				return c.Type, symbols.NoSymbolID
			}
		}
		r.errorf(node.Span, "no component named %q in this record", r.symbols.Strings.Spelling(data.Name))
	}
	return types.NoTypeID, symbols.NoSymbolID
}

// findScopeOfPackage is a thin wrapper exposed for selected-component
// resolution; the symbols package already does the equivalent scan
// internally for use-clause visibility.
func (r *Resolver) findScopeOfPackage(pkg symbols.SymbolID) symbols.ScopeID {
	var found symbols.ScopeID
	r.symbols.Scopes.All(func(idx uint32, sc *symbols.Scope) bool {
		if sc.Package == pkg {
			found = symbols.ScopeID(idx)
			return false
		}
		return true
	})
	return found
}

func (r *Resolver) resolveCall(id ast.ExprID, scope symbols.ScopeID) (types.TypeID, symbols.SymbolID) {
	node := r.builder.Exprs.Get(id)
	data := r.builder.Exprs.Call(id)
	calleeNode := r.builder.Exprs.Get(data.Callee)
	argTypes := make([]types.TypeID, len(data.Args))
	for i, a := range data.Args {
		argTypes[i] = r.resolveExpr(a.Value, scope)
	}
	if calleeNode == nil || calleeNode.Kind != ast.ExprIdent {
		r.resolveExpr(data.Callee, scope)
		return types.NoTypeID, symbols.NoSymbolID
	}
	name := r.builder.Exprs.Ident(data.Callee).Name
	sym := r.symbols.LookupWithArity(scope, name, len(data.Args), argTypes, types.NoTypeID)
	if sym == symbols.NoSymbolID {
		r.errorf(node.Span, "no matching declaration for call to %q", r.symbols.Strings.Spelling(name))
		return types.NoTypeID, symbols.NoSymbolID
	}
	s := r.symbols.Get(sym)
	calleeNode.Symbol = sym
	return s.ReturnTy, sym
}

func (r *Resolver) resolveAttribute(name string, prefixTy types.TypeID) types.TypeID {
	switch name {
	case "FIRST", "LAST":
		return prefixTy
	case "LENGTH", "POS", "SIZE":
		return r.prelude.Integer
	case "IMAGE":
		return r.prelude.StringTy
	case "VALUE", "SUCC", "PRED":
		return prefixTy
	case "RANGE":
		return prefixTy
	default:
		return types.NoTypeID
	}
}

// resolveTypeMark looks up a bare type-mark name (as used by a
// qualified expression, conversion, or allocator) and returns the
// denoted type, reporting an error if it does not name a type.
func (r *Resolver) resolveTypeMark(name source.StringID, scope symbols.ScopeID, span source.Span) types.TypeID {
	sym := r.symbols.Lookup(scope, name)
	if sym == symbols.NoSymbolID {
		r.errorf(span, "%q is not declared", r.symbols.Strings.Spelling(name))
		return types.NoTypeID
	}
	s := r.symbols.Get(sym)
	if s == nil || s.Kind != symbols.KindType {
		r.errorf(span, "%q does not denote a type", r.symbols.Strings.Spelling(name))
		return types.NoTypeID
	}
	return s.Type
}

// exprIsStatic reports whether e is a literal or a name denoting a
// constant/enum-literal, the minimum static-expression test the
// resolver needs to validate discriminant and range-constraint bounds
// (§4.2). The constant folder, evalConst, lives in const_eval.go.
func (r *Resolver) exprIsStatic(id ast.ExprID) bool {
	node := r.builder.Exprs.Get(id)
	if node == nil {
		return false
	}
	switch node.Kind {
	case ast.ExprIntLit, ast.ExprRealLit, ast.ExprCharLit:
		return true
	case ast.ExprIdent:
		if sym := r.symbols.Get(node.Symbol); sym != nil {
			return sym.Kind == symbols.KindConstant || sym.Kind == symbols.KindEnumLiteral
		}
	}
	return false
}
