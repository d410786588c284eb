// Package ast implements the tagged-variant AST described in spec.md
// §3: every node carries a kind, a source span, and (once the resolver
// has run) an optional resolved type and symbol; its payload lives in a
// kind-specific arena indexed by a PayloadID, mirroring the teacher's
// split between a thin node table and per-shape payload arenas.
package ast

// ExprID identifies an expression node.
type ExprID uint32

// StmtID identifies a statement node.
type StmtID uint32

// DeclID identifies a declaration (an object, type, subprogram,
// package, generic, exception, or renaming).
type DeclID uint32

// TypeExprID identifies a syntactic subtype indication or type
// definition, as written in the source, before resolution.
type TypeExprID uint32

// PayloadID indexes a kind-specific payload arena.
type PayloadID uint32

// UnitID identifies a top-level compilation unit.
type UnitID uint32

const (
	NoExprID     ExprID     = 0
	NoStmtID     StmtID     = 0
	NoDeclID     DeclID     = 0
	NoTypeExprID TypeExprID = 0
	NoPayloadID  PayloadID  = 0
	NoUnitID     UnitID     = 0
)

func (id ExprID) IsValid() bool     { return id != NoExprID }
func (id StmtID) IsValid() bool     { return id != NoStmtID }
func (id DeclID) IsValid() bool     { return id != NoDeclID }
func (id TypeExprID) IsValid() bool { return id != NoTypeExprID }
func (id UnitID) IsValid() bool     { return id != NoUnitID }
