package ast

import "adalite/internal/source"

// WithClause is one name of a `with P1, P2;` context item.
type WithClause struct {
	Name source.StringID
	Span source.Span
}

// UseClause is one name of a `use P1, P2;` context item.
type UseClause struct {
	Name source.StringID
	Span source.Span
}

// ContextClause is the list of with/use items preceding a compilation
// unit (§3 "Compilation structure").
type ContextClause struct {
	Withs []WithClause
	Uses  []UseClause
}

// UnitKind distinguishes the shape of a library unit or subunit.
type UnitKind uint8

const (
	UnitInvalid UnitKind = iota
	UnitPackageSpec
	UnitPackageBody
	UnitSubprogramSpec
	UnitSubprogramBody
	UnitSubunit
)

// Unit is one compilation unit: a library package/subprogram spec or
// body, or a `separate` subunit. Decl indexes into the owning Builder's
// Decls table (DeclPackageSpec, DeclPackageBody, DeclSubprogramSpec, or
// DeclSubprogramBody); for a subunit, ParentName names the enclosing
// unit given in its `separate (P)` clause (§6, source discovery).
type Unit struct {
	Kind       UnitKind
	Context    ContextClause
	Decl       DeclID
	ParentName source.StringID // valid only when Kind == UnitSubunit
	Span       source.Span
}

// File is one parsed source file: its file-set identity and the
// ordered compilation units it contains (Ada permits more than one
// library unit per file, though the driver's naming convention in §6
// expects exactly one per x.y.ads/.adb).
type File struct {
	FileID source.FileID
	Units  []Unit
}
