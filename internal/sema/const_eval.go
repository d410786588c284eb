package sema

import (
	"math/big"

	"adalite/internal/ast"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// evalConst folds a static expression into a types.ConstValue, the
// minimum constant-folding the resolver needs for range/discriminant
// bounds and variant-part choices (§4.2). Non-static or unsupported
// expressions yield an invalid ConstValue rather than an error here —
// the caller that actually requires staticness (a discriminant
// constraint, a range bound on a non-dynamic subtype) reports it.
func (r *Resolver) evalConst(id ast.ExprID, scope symbols.ScopeID) types.ConstValue {
	if !id.IsValid() {
		return types.ConstValue{}
	}
	node := r.builder.Exprs.Get(id)
	if node == nil {
		return types.ConstValue{}
	}
	switch node.Kind {
	case ast.ExprIntLit:
		lit := r.builder.Exprs.Lit(id)
		return types.ConstValue{Valid: true, Kind: types.KindInteger, Int: lit.Int}

	case ast.ExprRealLit:
		lit := r.builder.Exprs.Lit(id)
		return types.ConstValue{Valid: true, Kind: types.KindFloat, Float: lit.Real}

	case ast.ExprCharLit:
		lit := r.builder.Exprs.Lit(id)
		return types.ConstValue{Valid: true, Kind: types.KindCharacter, Pos: int64(lit.Char)}

	case ast.ExprUnary:
		data := r.builder.Exprs.Unary(id)
		v := r.evalConst(data.Operand, scope)
		if v.Valid && data.Op == ast.UnaryMinus && v.Kind == types.KindInteger && v.Int != nil {
			neg := new(big.Int).Neg(v.Int)
			return types.ConstValue{Valid: true, Kind: types.KindInteger, Int: neg}
		}
		return v

	case ast.ExprIdent:
		r.resolveExpr(id, scope)
		if node.Symbol == symbols.NoSymbolID {
			return types.ConstValue{}
		}
		sym := r.symbols.Get(node.Symbol)
		if sym == nil {
			return types.ConstValue{}
		}
		if sym.Kind == symbols.KindEnumLiteral {
			return types.ConstValue{Valid: true, Kind: types.KindEnumeration, Pos: int64(sym.ElabOrdinal)}
		}
		// A non-literal constant's static value would require walking
		// its initializer; left unevaluated (invalid) for now, which the
		// caller treats the same as a non-static expression.
		return types.ConstValue{}

	case ast.ExprBinary:
		return r.evalConstBinary(id, scope)

	case ast.ExprAttribute:
		return r.evalConstAttribute(id, scope)

	default:
		r.resolveExpr(id, scope)
		return types.ConstValue{}
	}
}

// evalConstBinary folds a binary operator over two static integer
// operands (§4.2), the minimum needed to constant-fold range bounds
// like `X'First + 1`.
func (r *Resolver) evalConstBinary(id ast.ExprID, scope symbols.ScopeID) types.ConstValue {
	data := r.builder.Exprs.Binary(id)
	l := r.evalConst(data.Left, scope)
	rv := r.evalConst(data.Right, scope)
	if !l.Valid || !rv.Valid || l.Kind != types.KindInteger || rv.Kind != types.KindInteger || l.Int == nil || rv.Int == nil {
		r.resolveExpr(id, scope)
		return types.ConstValue{}
	}
	var out *big.Int
	switch data.Op {
	case ast.BinAdd:
		out = new(big.Int).Add(l.Int, rv.Int)
	case ast.BinSub:
		out = new(big.Int).Sub(l.Int, rv.Int)
	case ast.BinMul:
		out = new(big.Int).Mul(l.Int, rv.Int)
	case ast.BinDiv:
		if rv.Int.Sign() == 0 {
			break
		}
		out = new(big.Int).Quo(l.Int, rv.Int)
	case ast.BinMod:
		if rv.Int.Sign() == 0 {
			break
		}
		out = new(big.Int).Mod(l.Int, rv.Int)
	case ast.BinRem:
		if rv.Int.Sign() == 0 {
			break
		}
		out = new(big.Int).Rem(l.Int, rv.Int)
	case ast.BinPow:
		if rv.Int.Sign() < 0 {
			break
		}
		out = new(big.Int).Exp(l.Int, rv.Int, nil)
	}
	if out == nil {
		r.resolveExpr(id, scope)
		return types.ConstValue{}
	}
	r.resolveExpr(id, scope)
	return types.ConstValue{Valid: true, Kind: types.KindInteger, Int: out}
}

// evalConstAttribute folds 'FIRST and 'LAST of a type-denoting prefix
// to the prefix type's static bound (§4.2); any other attribute is not
// statically evaluable here.
func (r *Resolver) evalConstAttribute(id ast.ExprID, scope symbols.ScopeID) types.ConstValue {
	data := r.builder.Exprs.Attribute(id)
	name := r.symbols.Strings.Spelling(data.Attr)
	if name != "FIRST" && name != "LAST" {
		r.resolveExpr(id, scope)
		return types.ConstValue{}
	}
	prefixTy := r.resolveExpr(data.Prefix, scope)
	t := r.types.Get(prefixTy)
	if t == nil || !t.HasBounds {
		return types.ConstValue{}
	}
	if name == "FIRST" {
		return t.Low
	}
	return t.High
}
