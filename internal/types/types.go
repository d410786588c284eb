// Package types models Ada 83 type descriptors: the tagged-variant
// layout described in spec.md §3, including base/parent/element links,
// component and discriminant vectors, and the attached operator vector
// synthesized at freeze time (§4.2).
package types

import (
	"math/big"

	"adalite/internal/arena"
	"adalite/internal/source"
)

// TypeID identifies a type descriptor inside a Table.
type TypeID uint32

// NoTypeID marks the absence of a type (an unresolved expression, for
// instance, before the resolver runs).
const NoTypeID TypeID = 0

// Kind classifies a type descriptor.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindUnsigned
	KindFloat
	KindUniversalFloat
	KindFixedPoint
	KindEnumeration
	KindCharacter
	KindBoolean
	KindArray
	KindRecord
	KindAccess
	KindString
	KindFatPointer
	KindDerived
	KindPrivate
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindUnsigned:
		return "unsigned"
	case KindFloat:
		return "float"
	case KindUniversalFloat:
		return "universal_float"
	case KindFixedPoint:
		return "fixed_point"
	case KindEnumeration:
		return "enumeration"
	case KindCharacter:
		return "character"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindAccess:
		return "access"
	case KindString:
		return "string"
	case KindFatPointer:
		return "fat_pointer"
	case KindDerived:
		return "derived"
	case KindPrivate:
		return "private"
	default:
		return "invalid"
	}
}

// SymbolID is an opaque reference to a symbols.Symbol. The types
// package never dereferences it — it is a borrowed arena reference per
// §3's lifecycle invariant, kept numerically compatible with
// symbols.SymbolID so the two packages avoid an import cycle.
type SymbolID uint32

// Component is one field of a record type.
type Component struct {
	Name   source.StringID
	Type   TypeID
	Offset uint64 // bit offset within the record, valid once frozen
	// VariantPath, when non-empty, records the discriminant-value path
	// that selects this component inside a variant part (§3).
	VariantPath []DiscriminantChoice
}

// Discriminant is one discriminant of a record type's discriminant part.
type Discriminant struct {
	Name    source.StringID
	Type    TypeID
	Symbol  SymbolID
	Default ConstValue // present when the discriminant has a default
}

// DiscriminantConstraint fixes one discriminant of a constrained
// subtype to a (possibly non-static) value. Constraints are stored per
// subtype, never on the shared base record type (§3 invariant d).
type DiscriminantConstraint struct {
	Discriminant source.StringID
	Value        ConstValue
}

// DiscriminantChoice is one value (or Others) a variant part branches on.
type DiscriminantChoice struct {
	Value ConstValue
	Low   ConstValue
	High  ConstValue
	IsRange bool
	Others  bool
}

// ConstValue is a statically-known scalar used for bounds, discriminant
// constraints, and variant choices. Exactly one of the fields is valid,
// selected by Kind.
type ConstValue struct {
	Valid bool
	Kind  Kind // KindInteger/KindFloat/KindEnumeration/KindCharacter/KindBoolean
	Int   *big.Int
	Float *big.Float
	Pos   int64 // enumeration/character literal position
}

// OperatorKind classifies an implicit operator synthesized at freeze.
type OperatorKind uint8

const (
	OpEquality OperatorKind = iota
	OpInequality
	OpAssign
	OpDefaultInit
)

// OperatorEntry attaches a resolved symbol implementing an operator to
// a type's operator vector, becoming an overload candidate wherever the
// type is visible (§4.2).
type OperatorEntry struct {
	Kind   OperatorKind
	Symbol SymbolID
}

// CheckKind enumerates the runtime checks a pragma Suppress can disable.
type CheckKind uint16

const (
	CheckOverflow CheckKind = 1 << iota
	CheckRange
	CheckIndex
	CheckDiscriminant
	CheckLength
	CheckDivision
	CheckElaboration
	CheckAccess
	CheckStorage
)

// Type is the tagged-variant type descriptor described in spec.md §3.
type Type struct {
	Kind Kind
	Name source.StringID

	Base   TypeID // constrained subtype -> unconstrained/base type
	Parent TypeID // derived type -> parent type
	Elem   TypeID // array element type, access designated type

	IndexType TypeID // array index subtype

	HasBounds bool
	Low, High ConstValue // static scalar/array bounds, when known

	Components    []Component
	Discriminants []Discriminant
	Constraints   []DiscriminantConstraint

	EnumLiterals []SymbolID // enumeration literal symbols, in declaration order

	Size, Align uint64 // bits; valid once Frozen
	Packed      bool
	Suppressed  CheckKind

	Operators []OperatorEntry
	Frozen    bool
	freezing  bool // reentrancy guard for the access-to-incomplete-type case (§9)
}

// Table interns every type descriptor allocated during one compiler
// run, arena-backed per §3's lifecycle rule.
type Table struct {
	arena *arena.Arena[Type]
}

// NewTable creates an empty type Table.
func NewTable() *Table {
	return &Table{arena: arena.New[Type](256)}
}

// New allocates a fresh type descriptor and returns its TypeID.
func (t *Table) New(ty Type) TypeID {
	return TypeID(t.arena.Alloc(ty))
}

// Get returns a pointer to the descriptor for id, or nil for NoTypeID.
// The returned pointer is arena-owned and may be mutated in place
// (e.g. by Freeze) — never retained past the compiler run.
func (t *Table) Get(id TypeID) *Type {
	return t.arena.Get(uint32(id))
}

// AddOperator appends an implicit or user operator to id's operator
// vector, making it an overload candidate wherever the type is visible.
func (t *Table) AddOperator(id TypeID, kind OperatorKind, sym SymbolID) {
	ty := t.Get(id)
	if ty == nil {
		return
	}
	ty.Operators = append(ty.Operators, OperatorEntry{Kind: kind, Symbol: sym})
}
