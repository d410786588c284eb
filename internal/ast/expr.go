package ast

import (
	"adalite/internal/source"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// ExprKind tags an expression node's shape.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIntLit
	ExprRealLit
	ExprCharLit
	ExprStringLit
	ExprNullLit
	ExprIdent
	ExprUnary
	ExprBinary
	ExprIndexed   // A(I, J)
	ExprSlice     // A(Lo .. Hi)
	ExprSelected  // Pkg.Name or Rec.Field
	ExprAttribute // T'First(1), X'Image, ...
	ExprQualified // T'(Expr)
	ExprConvert   // T(Expr) once disambiguated from a call
	ExprCall
	ExprAggregate
	ExprAllocator // new T or new T'(Expr)
	ExprRange     // Lo .. Hi, as a first-class expression (choices, 'Range)
	ExprDeref     // X.all
	ExprCheck     // resolver-inserted constraint check wrapping a value
)

// UnaryOp enumerates Ada unary operators.
type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
	UnaryAbs
)

// BinaryOp enumerates Ada binary operators, including the short-circuit
// forms and membership tests (§4.4).
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinRem
	BinPow
	BinConcat // &
	BinEq
	BinNeq
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
	BinXor
	BinAndThen
	BinOrElse
	BinIn
	BinNotIn
)

// CheckKind names the runtime guard an ExprCheck node lowers to (§4.7).
type CheckKind uint8

const (
	CheckRange CheckKind = iota
	CheckIndex
	CheckLength
	CheckDiscriminant
	CheckNullAccess
	CheckDivideByZero
	CheckOverflow
)

// Expr is the common envelope for every expression shape: a kind tag, a
// span, the payload arena index for that kind, and the resolver's
// output (Type/Symbol), which start zero-valued before resolution runs.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID

	Type   types.TypeID    // filled in by the resolver
	Symbol symbols.SymbolID // filled in for ExprIdent/ExprSelected/ExprCall when resolved to a single symbol
}
