package ast

import "adalite/internal/source"

// DeclKind tags a declaration node's shape (§3).
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclObject
	DeclType
	DeclSubtype
	DeclSubprogramSpec
	DeclSubprogramBody
	DeclPackageSpec
	DeclPackageBody
	DeclGeneric
	DeclGenericInstantiation
	DeclException
	DeclRenaming
)

// ParamMode is a formal parameter's passing mode.
type ParamMode uint8

const (
	ModeIn ParamMode = iota
	ModeOut
	ModeInOut
)

// Decl is the common envelope for every declaration shape.
type Decl struct {
	Kind    DeclKind
	Span    source.Span
	Payload PayloadID
}
