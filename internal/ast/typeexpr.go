package ast

import (
	"adalite/internal/arena"
	"adalite/internal/source"
)

// TypeExprKind tags a syntactic type definition or subtype indication,
// as written in the source before the resolver elaborates it into a
// types.Type descriptor (§4.2).
type TypeExprKind uint8

const (
	TypeInvalid TypeExprKind = iota
	TypeMark                 // a bare or package-qualified type/subtype name
	TypeRangeConstraint      // T range Lo .. Hi
	TypeDigitsConstraint     // T digits N [range Lo .. Hi]
	TypeIndexConstraint      // T(Lo .. Hi [, Lo2 .. Hi2 ...]) — array subtype
	TypeDiscriminantConstraint // T(Disc => Value, ...)
	TypeDerived              // new Parent
	TypeEnum                 // (Lit1, Lit2, ...)
	TypeRecord               // record ... end record
	TypeArray                // array (...) of Elem
	TypeAccess               // access [all] Designated
	TypePrivate              // private / limited private
)

// TypeExpr is the common envelope for every type-expression shape.
type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Payload PayloadID
}

// MarkData is the payload for TypeMark.
type MarkData struct {
	Prefix source.StringID // NoStringID when unqualified
	Name   source.StringID
}

// RangeConstraintData is the payload for TypeRangeConstraint.
type RangeConstraintData struct {
	Mark      TypeExprID
	Low, High ExprID
}

// DigitsConstraintData is the payload for TypeDigitsConstraint.
type DigitsConstraintData struct {
	Mark             TypeExprID
	Digits           ExprID
	RangeLow, RangeHigh ExprID // NoExprID when no explicit range given
}

// IndexRange is one dimension of an index constraint.
type IndexRange struct {
	Low, High ExprID
}

// IndexConstraintData is the payload for TypeIndexConstraint.
type IndexConstraintData struct {
	Mark   TypeExprID
	Ranges []IndexRange
}

// DiscriminantAssoc is one `Name => Value` of a discriminant constraint.
type DiscriminantAssoc struct {
	Name  source.StringID
	Value ExprID
}

// DiscriminantConstraintData is the payload for TypeDiscriminantConstraint.
type DiscriminantConstraintData struct {
	Mark   TypeExprID
	Assocs []DiscriminantAssoc
}

// DerivedData is the payload for TypeDerived.
type DerivedData struct {
	Parent TypeExprID
}

// EnumData is the payload for TypeEnum.
type EnumData struct {
	Literals []source.StringID
}

// RecordField is one `Names : Type` component or discriminant entry.
type RecordField struct {
	Names []source.StringID
	Type  TypeExprID
	Default ExprID // NoExprID when absent
}

// VariantArm is one `when Choices => component_list` branch, optionally
// nesting a further variant part (Ada permits nested discriminants).
type VariantArm struct {
	Choices []ExprID
	Others  bool
	Fields  []RecordField
	Nested  *VariantPart
}

// VariantPart is a record type's `case Discriminant is ... end case`.
type VariantPart struct {
	Discriminant source.StringID
	Arms         []VariantArm
}

// RecordData is the payload for TypeRecord.
type RecordData struct {
	Discriminants []RecordField
	Fields        []RecordField
	Variant       *VariantPart // nil when the record has none
}

// ArrayIndex is one dimension of an array type definition: either an
// unconstrained `IndexMark range <>` or a constrained `Low .. High`.
type ArrayIndex struct {
	Unconstrained bool
	IndexMark     TypeExprID // valid when Unconstrained
	Low, High     ExprID     // valid when !Unconstrained
}

// ArrayData is the payload for TypeArray.
type ArrayData struct {
	Indices []ArrayIndex
	Elem    TypeExprID
	Packed  bool
}

// AccessData is the payload for TypeAccess.
type AccessData struct {
	All        bool
	Designated TypeExprID
}

// PrivateData is the payload for TypePrivate.
type PrivateData struct {
	Limited bool
}

// TypeExprs aggregates the type-expression node table and every kind's
// payload arena.
type TypeExprs struct {
	Nodes               *arena.Arena[TypeExpr]
	Marks               *arena.Arena[MarkData]
	RangeConstraints    *arena.Arena[RangeConstraintData]
	DigitsConstraints   *arena.Arena[DigitsConstraintData]
	IndexConstraints    *arena.Arena[IndexConstraintData]
	DiscriminantConstraints *arena.Arena[DiscriminantConstraintData]
	Deriveds            *arena.Arena[DerivedData]
	Enums               *arena.Arena[EnumData]
	Records             *arena.Arena[RecordData]
	Arrays              *arena.Arena[ArrayData]
	Accesses            *arena.Arena[AccessData]
	Privates            *arena.Arena[PrivateData]
}

// NewTypeExprs allocates a TypeExprs with capHint-sized initial arenas.
func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Nodes:                   arena.New[TypeExpr](capHint),
		Marks:                   arena.New[MarkData](capHint / 2),
		RangeConstraints:        arena.New[RangeConstraintData](capHint / 8),
		DigitsConstraints:       arena.New[DigitsConstraintData](capHint / 32),
		IndexConstraints:        arena.New[IndexConstraintData](capHint / 16),
		DiscriminantConstraints: arena.New[DiscriminantConstraintData](capHint / 32),
		Deriveds:                arena.New[DerivedData](capHint / 16),
		Enums:                   arena.New[EnumData](capHint / 16),
		Records:                 arena.New[RecordData](capHint / 16),
		Arrays:                  arena.New[ArrayData](capHint / 16),
		Accesses:                arena.New[AccessData](capHint / 16),
		Privates:                arena.New[PrivateData](capHint / 32),
	}
}

func (t *TypeExprs) new(kind TypeExprKind, span source.Span, payload PayloadID) TypeExprID {
	return TypeExprID(t.Nodes.Alloc(TypeExpr{Kind: kind, Span: span, Payload: payload}))
}

// NewMark allocates a TypeMark node.
func (t *TypeExprs) NewMark(span source.Span, prefix, name source.StringID) TypeExprID {
	p := PayloadID(t.Marks.Alloc(MarkData{Prefix: prefix, Name: name}))
	return t.new(TypeMark, span, p)
}

// NewRangeConstraint allocates a TypeRangeConstraint node.
func (t *TypeExprs) NewRangeConstraint(span source.Span, mark TypeExprID, low, high ExprID) TypeExprID {
	p := PayloadID(t.RangeConstraints.Alloc(RangeConstraintData{Mark: mark, Low: low, High: high}))
	return t.new(TypeRangeConstraint, span, p)
}

// NewDigitsConstraint allocates a TypeDigitsConstraint node.
func (t *TypeExprs) NewDigitsConstraint(span source.Span, data DigitsConstraintData) TypeExprID {
	p := PayloadID(t.DigitsConstraints.Alloc(data))
	return t.new(TypeDigitsConstraint, span, p)
}

// NewIndexConstraint allocates a TypeIndexConstraint node.
func (t *TypeExprs) NewIndexConstraint(span source.Span, mark TypeExprID, ranges []IndexRange) TypeExprID {
	p := PayloadID(t.IndexConstraints.Alloc(IndexConstraintData{Mark: mark, Ranges: ranges}))
	return t.new(TypeIndexConstraint, span, p)
}

// NewDiscriminantConstraint allocates a TypeDiscriminantConstraint node.
func (t *TypeExprs) NewDiscriminantConstraint(span source.Span, mark TypeExprID, assocs []DiscriminantAssoc) TypeExprID {
	p := PayloadID(t.DiscriminantConstraints.Alloc(DiscriminantConstraintData{Mark: mark, Assocs: assocs}))
	return t.new(TypeDiscriminantConstraint, span, p)
}

// NewDerived allocates a TypeDerived node.
func (t *TypeExprs) NewDerived(span source.Span, parent TypeExprID) TypeExprID {
	p := PayloadID(t.Deriveds.Alloc(DerivedData{Parent: parent}))
	return t.new(TypeDerived, span, p)
}

// NewEnum allocates a TypeEnum node.
func (t *TypeExprs) NewEnum(span source.Span, literals []source.StringID) TypeExprID {
	p := PayloadID(t.Enums.Alloc(EnumData{Literals: literals}))
	return t.new(TypeEnum, span, p)
}

// NewRecord allocates a TypeRecord node.
func (t *TypeExprs) NewRecord(span source.Span, data RecordData) TypeExprID {
	p := PayloadID(t.Records.Alloc(data))
	return t.new(TypeRecord, span, p)
}

// NewArray allocates a TypeArray node.
func (t *TypeExprs) NewArray(span source.Span, data ArrayData) TypeExprID {
	p := PayloadID(t.Arrays.Alloc(data))
	return t.new(TypeArray, span, p)
}

// NewAccess allocates a TypeAccess node.
func (t *TypeExprs) NewAccess(span source.Span, all bool, designated TypeExprID) TypeExprID {
	p := PayloadID(t.Accesses.Alloc(AccessData{All: all, Designated: designated}))
	return t.new(TypeAccess, span, p)
}

// NewPrivate allocates a TypePrivate node.
func (t *TypeExprs) NewPrivate(span source.Span, limited bool) TypeExprID {
	p := PayloadID(t.Privates.Alloc(PrivateData{Limited: limited}))
	return t.new(TypePrivate, span, p)
}

// Get returns the node table entry for id, or nil.
func (t *TypeExprs) Get(id TypeExprID) *TypeExpr { return t.Nodes.Get(uint32(id)) }

func (t *TypeExprs) Mark(id TypeExprID) *MarkData { return t.Marks.Get(uint32(t.Get(id).Payload)) }
func (t *TypeExprs) RangeConstraint(id TypeExprID) *RangeConstraintData {
	return t.RangeConstraints.Get(uint32(t.Get(id).Payload))
}
func (t *TypeExprs) DigitsConstraint(id TypeExprID) *DigitsConstraintData {
	return t.DigitsConstraints.Get(uint32(t.Get(id).Payload))
}
func (t *TypeExprs) IndexConstraint(id TypeExprID) *IndexConstraintData {
	return t.IndexConstraints.Get(uint32(t.Get(id).Payload))
}
func (t *TypeExprs) DiscriminantConstraint(id TypeExprID) *DiscriminantConstraintData {
	return t.DiscriminantConstraints.Get(uint32(t.Get(id).Payload))
}
func (t *TypeExprs) Derived(id TypeExprID) *DerivedData { return t.Deriveds.Get(uint32(t.Get(id).Payload)) }
func (t *TypeExprs) Enum(id TypeExprID) *EnumData       { return t.Enums.Get(uint32(t.Get(id).Payload)) }
func (t *TypeExprs) Record(id TypeExprID) *RecordData   { return t.Records.Get(uint32(t.Get(id).Payload)) }
func (t *TypeExprs) Array(id TypeExprID) *ArrayData     { return t.Arrays.Get(uint32(t.Get(id).Payload)) }
func (t *TypeExprs) Access(id TypeExprID) *AccessData   { return t.Accesses.Get(uint32(t.Get(id).Payload)) }
func (t *TypeExprs) Private(id TypeExprID) *PrivateData { return t.Privates.Get(uint32(t.Get(id).Payload)) }
