package ast

import (
	"math/big"

	"adalite/internal/arena"
	"adalite/internal/source"
)

// LitData holds every literal shape: integer/real carry a bigint-backed
// value (§3's "bigint-capable" literal), character/string carry their
// textual form, null carries nothing.
type LitData struct {
	Int    *big.Int
	Real   *big.Float
	Char   rune
	String string
}

// IdentData names a single identifier occurrence.
type IdentData struct {
	Name source.StringID
}

// UnaryData is the payload for ExprUnary.
type UnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

// BinaryData is the payload for ExprBinary.
type BinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// IndexedData is the payload for ExprIndexed (also used, pre-resolution,
// for what may turn out to be a call or conversion — §4.4 disambiguates
// these during resolution by inspecting what the "function" name
// denotes).
type IndexedData struct {
	Prefix ExprID
	Args   []ExprID
}

// SliceData is the payload for ExprSlice.
type SliceData struct {
	Prefix ExprID
	Low    ExprID
	High   ExprID
}

// SelectedData is the payload for ExprSelected (Pkg.Name / Rec.Field).
type SelectedData struct {
	Prefix ExprID
	Name   source.StringID
}

// AttributeData is the payload for ExprAttribute.
type AttributeData struct {
	Prefix ExprID
	Attr   source.StringID // e.g. "FIRST", "IMAGE", "POS"
	Args   []ExprID
}

// QualifiedData is the payload for ExprQualified (T'(Expr)).
type QualifiedData struct {
	TypeMark source.StringID
	Value    ExprID
}

// ConvertData is the payload for ExprConvert (T(Expr) call-syntax conversion).
type ConvertData struct {
	TypeMark source.StringID
	Value    ExprID
}

// CallArg is one actual parameter, optionally named (Name => Value).
type CallArg struct {
	Name  source.StringID // NoStringID for positional arguments
	Value ExprID
}

// CallData is the payload for ExprCall.
type CallData struct {
	Callee ExprID
	Args   []CallArg
}

// AggregateAssoc is one component association of an aggregate: either
// positional (Choices empty) or named by one or more choices (a
// discrete choice list, possibly `others`).
type AggregateAssoc struct {
	Choices []ExprID // each a name, a range, or `others` sentinel (nil ExprID + Others flag)
	Others  bool
	Value   ExprID
}

// AggregateData is the payload for ExprAggregate.
type AggregateData struct {
	Assocs []AggregateAssoc
}

// AllocatorData is the payload for ExprAllocator.
type AllocatorData struct {
	TypeMark source.StringID
	Init     ExprID // NoExprID when uninitialized
}

// RangeData is the payload for ExprRange.
type RangeData struct {
	Low, High ExprID
}

// DerefData is the payload for ExprDeref (X.all).
type DerefData struct {
	Prefix ExprID
}

// CheckData is the payload for ExprCheck, inserted by the resolver
// around an expression whose value must be guarded at run time (§4.3).
type CheckData struct {
	Kind  CheckKind
	Value ExprID
	// LowBound/HighBound, when set, are the static or dynamic bounds the
	// check compares Value against; for CheckDiscriminant they name the
	// discriminant's required static value instead.
	LowBound, HighBound ExprID
}

// Exprs aggregates the expression node table and every kind's payload
// arena, mirroring the teacher's ast.Exprs split between a thin Expr
// table and per-shape data arenas.
type Exprs struct {
	Nodes      *arena.Arena[Expr]
	Lits       *arena.Arena[LitData]
	Idents     *arena.Arena[IdentData]
	Unaries    *arena.Arena[UnaryData]
	Binaries   *arena.Arena[BinaryData]
	IndexedExprs  *arena.Arena[IndexedData]
	Slices     *arena.Arena[SliceData]
	SelectedExprs *arena.Arena[SelectedData]
	Attributes *arena.Arena[AttributeData]
	QualifiedExprs *arena.Arena[QualifiedData]
	Converts   *arena.Arena[ConvertData]
	Calls      *arena.Arena[CallData]
	Aggregates *arena.Arena[AggregateData]
	Allocators *arena.Arena[AllocatorData]
	Ranges     *arena.Arena[RangeData]
	Derefs     *arena.Arena[DerefData]
	Checks     *arena.Arena[CheckData]
}

// NewExprs allocates an Exprs with capHint-sized initial arenas.
func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		Nodes:      arena.New[Expr](capHint),
		Lits:       arena.New[LitData](capHint / 4),
		Idents:     arena.New[IdentData](capHint / 2),
		Unaries:    arena.New[UnaryData](capHint / 8),
		Binaries:   arena.New[BinaryData](capHint / 4),
		IndexedExprs:  arena.New[IndexedData](capHint / 8),
		Slices:     arena.New[SliceData](capHint / 16),
		SelectedExprs: arena.New[SelectedData](capHint / 8),
		Attributes: arena.New[AttributeData](capHint / 16),
		QualifiedExprs: arena.New[QualifiedData](capHint / 16),
		Converts:   arena.New[ConvertData](capHint / 16),
		Calls:      arena.New[CallData](capHint / 8),
		Aggregates: arena.New[AggregateData](capHint / 16),
		Allocators: arena.New[AllocatorData](capHint / 32),
		Ranges:     arena.New[RangeData](capHint / 16),
		Derefs:     arena.New[DerefData](capHint / 32),
		Checks:     arena.New[CheckData](capHint / 8),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Nodes.Alloc(Expr{Kind: kind, Span: span, Payload: payload}))
}

// NewIntLit allocates an ExprIntLit node.
func (e *Exprs) NewIntLit(span source.Span, v *big.Int) ExprID {
	p := PayloadID(e.Lits.Alloc(LitData{Int: v}))
	return e.new(ExprIntLit, span, p)
}

// NewRealLit allocates an ExprRealLit node.
func (e *Exprs) NewRealLit(span source.Span, v *big.Float) ExprID {
	p := PayloadID(e.Lits.Alloc(LitData{Real: v}))
	return e.new(ExprRealLit, span, p)
}

// NewCharLit allocates an ExprCharLit node.
func (e *Exprs) NewCharLit(span source.Span, v rune) ExprID {
	p := PayloadID(e.Lits.Alloc(LitData{Char: v}))
	return e.new(ExprCharLit, span, p)
}

// NewStringLit allocates an ExprStringLit node.
func (e *Exprs) NewStringLit(span source.Span, v string) ExprID {
	p := PayloadID(e.Lits.Alloc(LitData{String: v}))
	return e.new(ExprStringLit, span, p)
}

// NewNullLit allocates an ExprNullLit node.
func (e *Exprs) NewNullLit(span source.Span) ExprID {
	return e.new(ExprNullLit, span, NoPayloadID)
}

// NewIdent allocates an ExprIdent node.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	p := PayloadID(e.Idents.Alloc(IdentData{Name: name}))
	return e.new(ExprIdent, span, p)
}

// NewUnary allocates an ExprUnary node.
func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	p := PayloadID(e.Unaries.Alloc(UnaryData{Op: op, Operand: operand}))
	return e.new(ExprUnary, span, p)
}

// NewBinary allocates an ExprBinary node.
func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	p := PayloadID(e.Binaries.Alloc(BinaryData{Op: op, Left: left, Right: right}))
	return e.new(ExprBinary, span, p)
}

// NewIndexed allocates an ExprIndexed node.
func (e *Exprs) NewIndexed(span source.Span, prefix ExprID, args []ExprID) ExprID {
	p := PayloadID(e.IndexedExprs.Alloc(IndexedData{Prefix: prefix, Args: args}))
	return e.new(ExprIndexed, span, p)
}

// NewSlice allocates an ExprSlice node.
func (e *Exprs) NewSlice(span source.Span, prefix, low, high ExprID) ExprID {
	p := PayloadID(e.Slices.Alloc(SliceData{Prefix: prefix, Low: low, High: high}))
	return e.new(ExprSlice, span, p)
}

// NewSelected allocates an ExprSelected node.
func (e *Exprs) NewSelected(span source.Span, prefix ExprID, name source.StringID) ExprID {
	p := PayloadID(e.SelectedExprs.Alloc(SelectedData{Prefix: prefix, Name: name}))
	return e.new(ExprSelected, span, p)
}

// NewAttribute allocates an ExprAttribute node.
func (e *Exprs) NewAttribute(span source.Span, prefix ExprID, attr source.StringID, args []ExprID) ExprID {
	p := PayloadID(e.Attributes.Alloc(AttributeData{Prefix: prefix, Attr: attr, Args: args}))
	return e.new(ExprAttribute, span, p)
}

// NewQualified allocates an ExprQualified node.
func (e *Exprs) NewQualified(span source.Span, mark source.StringID, value ExprID) ExprID {
	p := PayloadID(e.QualifiedExprs.Alloc(QualifiedData{TypeMark: mark, Value: value}))
	return e.new(ExprQualified, span, p)
}

// NewConvert allocates an ExprConvert node.
func (e *Exprs) NewConvert(span source.Span, mark source.StringID, value ExprID) ExprID {
	p := PayloadID(e.Converts.Alloc(ConvertData{TypeMark: mark, Value: value}))
	return e.new(ExprConvert, span, p)
}

// NewCall allocates an ExprCall node.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []CallArg) ExprID {
	p := PayloadID(e.Calls.Alloc(CallData{Callee: callee, Args: args}))
	return e.new(ExprCall, span, p)
}

// NewAggregate allocates an ExprAggregate node.
func (e *Exprs) NewAggregate(span source.Span, assocs []AggregateAssoc) ExprID {
	p := PayloadID(e.Aggregates.Alloc(AggregateData{Assocs: assocs}))
	return e.new(ExprAggregate, span, p)
}

// NewAllocator allocates an ExprAllocator node.
func (e *Exprs) NewAllocator(span source.Span, mark source.StringID, init ExprID) ExprID {
	p := PayloadID(e.Allocators.Alloc(AllocatorData{TypeMark: mark, Init: init}))
	return e.new(ExprAllocator, span, p)
}

// NewRange allocates an ExprRange node.
func (e *Exprs) NewRange(span source.Span, low, high ExprID) ExprID {
	p := PayloadID(e.Ranges.Alloc(RangeData{Low: low, High: high}))
	return e.new(ExprRange, span, p)
}

// NewDeref allocates an ExprDeref node.
func (e *Exprs) NewDeref(span source.Span, prefix ExprID) ExprID {
	p := PayloadID(e.Derefs.Alloc(DerefData{Prefix: prefix}))
	return e.new(ExprDeref, span, p)
}

// NewCheck allocates an ExprCheck node, inserted by the resolver around
// value (§4.3).
func (e *Exprs) NewCheck(span source.Span, kind CheckKind, value, low, high ExprID) ExprID {
	p := PayloadID(e.Checks.Alloc(CheckData{Kind: kind, Value: value, LowBound: low, HighBound: high}))
	return e.new(ExprCheck, span, p)
}

// Get returns the node table entry for id, or nil.
func (e *Exprs) Get(id ExprID) *Expr { return e.Nodes.Get(uint32(id)) }

// Lit returns the LitData for id; id must be an ExprIntLit/RealLit/CharLit/StringLit node.
func (e *Exprs) Lit(id ExprID) *LitData { return e.Lits.Get(uint32(e.Get(id).Payload)) }

// Ident returns the IdentData for id.
func (e *Exprs) Ident(id ExprID) *IdentData { return e.Idents.Get(uint32(e.Get(id).Payload)) }

// Unary returns the UnaryData for id.
func (e *Exprs) Unary(id ExprID) *UnaryData { return e.Unaries.Get(uint32(e.Get(id).Payload)) }

// Binary returns the BinaryData for id.
func (e *Exprs) Binary(id ExprID) *BinaryData { return e.Binaries.Get(uint32(e.Get(id).Payload)) }

// Indexed returns the IndexedData for id.
func (e *Exprs) Indexed(id ExprID) *IndexedData { return e.IndexedExprs.Get(uint32(e.Get(id).Payload)) }

// Slice returns the SliceData for id.
func (e *Exprs) Slice(id ExprID) *SliceData { return e.Slices.Get(uint32(e.Get(id).Payload)) }

// Selected returns the SelectedData for id.
func (e *Exprs) Selected(id ExprID) *SelectedData { return e.SelectedExprs.Get(uint32(e.Get(id).Payload)) }

// Attribute returns the AttributeData for id.
func (e *Exprs) Attribute(id ExprID) *AttributeData {
	return e.Attributes.Get(uint32(e.Get(id).Payload))
}

// Qualified returns the QualifiedData for id.
func (e *Exprs) Qualified(id ExprID) *QualifiedData {
	return e.QualifiedExprs.Get(uint32(e.Get(id).Payload))
}

// Convert returns the ConvertData for id.
func (e *Exprs) Convert(id ExprID) *ConvertData { return e.Converts.Get(uint32(e.Get(id).Payload)) }

// Call returns the CallData for id.
func (e *Exprs) Call(id ExprID) *CallData { return e.Calls.Get(uint32(e.Get(id).Payload)) }

// Aggregate returns the AggregateData for id.
func (e *Exprs) Aggregate(id ExprID) *AggregateData {
	return e.Aggregates.Get(uint32(e.Get(id).Payload))
}

// Allocator returns the AllocatorData for id.
func (e *Exprs) Allocator(id ExprID) *AllocatorData {
	return e.Allocators.Get(uint32(e.Get(id).Payload))
}

// Range returns the RangeData for id.
func (e *Exprs) Range(id ExprID) *RangeData { return e.Ranges.Get(uint32(e.Get(id).Payload)) }

// Deref returns the DerefData for id.
func (e *Exprs) Deref(id ExprID) *DerefData { return e.Derefs.Get(uint32(e.Get(id).Payload)) }

// Check returns the CheckData for id.
func (e *Exprs) Check(id ExprID) *CheckData { return e.Checks.Get(uint32(e.Get(id).Payload)) }
