package ast

import (
	"adalite/internal/arena"
	"adalite/internal/source"
)

// ObjectData is the payload for DeclObject (an object or constant
// declaration, possibly declaring several names at once).
type ObjectData struct {
	Names    []source.StringID
	Type     TypeExprID
	Init     ExprID // NoExprID when absent
	Constant bool
}

// TypeDeclData is the payload for DeclType and DeclSubtype.
type TypeDeclData struct {
	Name source.StringID
	Def  TypeExprID
}

// Param is one formal parameter of a subprogram spec.
type Param struct {
	Names   []source.StringID
	Type    TypeExprID
	Mode    ParamMode
	Default ExprID // NoExprID when absent
}

// SubprogramSpecData is the payload for DeclSubprogramSpec.
type SubprogramSpecData struct {
	Name       source.StringID
	IsFunction bool
	Params     []Param
	ReturnType TypeExprID // NoTypeExprID for a procedure
}

// SubprogramBodyData is the payload for DeclSubprogramBody.
type SubprogramBodyData struct {
	Spec     DeclID // the DeclSubprogramSpec this body implements
	Decls    []DeclID
	Body     []StmtID
	Handlers []ExceptionHandler
}

// PackageSpecData is the payload for DeclPackageSpec.
type PackageSpecData struct {
	Name    source.StringID
	Public  []DeclID
	Private []DeclID
}

// PackageBodyData is the payload for DeclPackageBody.
type PackageBodyData struct {
	Name     source.StringID
	Decls    []DeclID
	Body     []StmtID // the package body's statement part, run by an elaboration wrapper (§4.8)
	Handlers []ExceptionHandler
}

// GenericFormalKind classifies one generic formal parameter.
type GenericFormalKind uint8

const (
	FormalTypePrivate GenericFormalKind = iota
	FormalTypeLimitedPrivate
	FormalTypeDiscrete
	FormalTypeRange
	FormalTypeDigits
	FormalTypeArray
	FormalTypeAccess
	FormalObject
	FormalSubprogram
)

// GenericFormal is one entry of a generic unit's formal part (§4.6).
type GenericFormal struct {
	Kind GenericFormalKind
	Name source.StringID

	// FormalObject: the declared type and optional default value.
	ObjectType TypeExprID
	ObjectMode ParamMode
	Default    ExprID

	// FormalSubprogram: the required signature and optional `is <>`/named default.
	SubprogramSpec DeclID
	DefaultName    source.StringID // NoStringID when no default given
}

// GenericDeclData is the payload for DeclGeneric. Inner names the
// DeclSubprogramSpec or DeclPackageSpec the generic wraps.
type GenericDeclData struct {
	Formals []GenericFormal
	Inner   DeclID
}

// GenericActual is one actual parameter of a generic instantiation;
// Value's syntactic shape (identifier, selected name, or expression)
// is disambiguated against the matching formal's kind at instantiation
// time (§4.6 step 1).
type GenericActual struct {
	Name  source.StringID // NoStringID for positional association
	Value ExprID
}

// GenericInstData is the payload for DeclGenericInstantiation.
type GenericInstData struct {
	Name     source.StringID // the instance's user-supplied name
	Generic  source.StringID // the generic unit's name (possibly qualified via Prefix)
	Prefix   source.StringID
	IsFunc   bool
	Actuals  []GenericActual
}

// ExceptionDeclData is the payload for DeclException.
type ExceptionDeclData struct {
	Names []source.StringID
}

// RenamingData is the payload for DeclRenaming. Spec is set only when
// the renaming declares a new subprogram view (a renaming-as-body or
// renaming-as-declaration of a subprogram); otherwise it renames an
// object, exception, or package by simply aliasing Target.
type RenamingData struct {
	Name   source.StringID
	Spec   DeclID // NoDeclID for object/exception/package renames
	Target ExprID
}

// Decls aggregates the declaration node table and every kind's payload arena.
type Decls struct {
	Nodes          *arena.Arena[Decl]
	Objects        *arena.Arena[ObjectData]
	Types          *arena.Arena[TypeDeclData]
	SubprogramSpecs *arena.Arena[SubprogramSpecData]
	SubprogramBodies *arena.Arena[SubprogramBodyData]
	PackageSpecs   *arena.Arena[PackageSpecData]
	PackageBodies  *arena.Arena[PackageBodyData]
	Generics       *arena.Arena[GenericDeclData]
	GenericInsts   *arena.Arena[GenericInstData]
	Exceptions     *arena.Arena[ExceptionDeclData]
	Renamings      *arena.Arena[RenamingData]
}

// NewDecls allocates a Decls with capHint-sized initial arenas.
func NewDecls(capHint uint) *Decls {
	return &Decls{
		Nodes:            arena.New[Decl](capHint),
		Objects:          arena.New[ObjectData](capHint / 4),
		Types:            arena.New[TypeDeclData](capHint / 8),
		SubprogramSpecs:  arena.New[SubprogramSpecData](capHint / 8),
		SubprogramBodies: arena.New[SubprogramBodyData](capHint / 16),
		PackageSpecs:     arena.New[PackageSpecData](capHint / 32),
		PackageBodies:    arena.New[PackageBodyData](capHint / 32),
		Generics:         arena.New[GenericDeclData](capHint / 32),
		GenericInsts:     arena.New[GenericInstData](capHint / 32),
		Exceptions:       arena.New[ExceptionDeclData](capHint / 32),
		Renamings:        arena.New[RenamingData](capHint / 32),
	}
}

func (d *Decls) new(kind DeclKind, span source.Span, payload PayloadID) DeclID {
	return DeclID(d.Nodes.Alloc(Decl{Kind: kind, Span: span, Payload: payload}))
}

// NewObject allocates a DeclObject node.
func (d *Decls) NewObject(span source.Span, data ObjectData) DeclID {
	p := PayloadID(d.Objects.Alloc(data))
	return d.new(DeclObject, span, p)
}

// NewType allocates a DeclType node.
func (d *Decls) NewType(span source.Span, name source.StringID, def TypeExprID) DeclID {
	p := PayloadID(d.Types.Alloc(TypeDeclData{Name: name, Def: def}))
	return d.new(DeclType, span, p)
}

// NewSubtype allocates a DeclSubtype node.
func (d *Decls) NewSubtype(span source.Span, name source.StringID, def TypeExprID) DeclID {
	p := PayloadID(d.Types.Alloc(TypeDeclData{Name: name, Def: def}))
	return d.new(DeclSubtype, span, p)
}

// NewSubprogramSpec allocates a DeclSubprogramSpec node.
func (d *Decls) NewSubprogramSpec(span source.Span, data SubprogramSpecData) DeclID {
	p := PayloadID(d.SubprogramSpecs.Alloc(data))
	return d.new(DeclSubprogramSpec, span, p)
}

// NewSubprogramBody allocates a DeclSubprogramBody node.
func (d *Decls) NewSubprogramBody(span source.Span, data SubprogramBodyData) DeclID {
	p := PayloadID(d.SubprogramBodies.Alloc(data))
	return d.new(DeclSubprogramBody, span, p)
}

// NewPackageSpec allocates a DeclPackageSpec node.
func (d *Decls) NewPackageSpec(span source.Span, data PackageSpecData) DeclID {
	p := PayloadID(d.PackageSpecs.Alloc(data))
	return d.new(DeclPackageSpec, span, p)
}

// NewPackageBody allocates a DeclPackageBody node.
func (d *Decls) NewPackageBody(span source.Span, data PackageBodyData) DeclID {
	p := PayloadID(d.PackageBodies.Alloc(data))
	return d.new(DeclPackageBody, span, p)
}

// NewGeneric allocates a DeclGeneric node.
func (d *Decls) NewGeneric(span source.Span, data GenericDeclData) DeclID {
	p := PayloadID(d.Generics.Alloc(data))
	return d.new(DeclGeneric, span, p)
}

// NewGenericInstantiation allocates a DeclGenericInstantiation node.
func (d *Decls) NewGenericInstantiation(span source.Span, data GenericInstData) DeclID {
	p := PayloadID(d.GenericInsts.Alloc(data))
	return d.new(DeclGenericInstantiation, span, p)
}

// NewException allocates a DeclException node.
func (d *Decls) NewException(span source.Span, names []source.StringID) DeclID {
	p := PayloadID(d.Exceptions.Alloc(ExceptionDeclData{Names: names}))
	return d.new(DeclException, span, p)
}

// NewRenaming allocates a DeclRenaming node.
func (d *Decls) NewRenaming(span source.Span, data RenamingData) DeclID {
	p := PayloadID(d.Renamings.Alloc(data))
	return d.new(DeclRenaming, span, p)
}

// Get returns the node table entry for id, or nil.
func (d *Decls) Get(id DeclID) *Decl { return d.Nodes.Get(uint32(id)) }

func (d *Decls) Object(id DeclID) *ObjectData { return d.Objects.Get(uint32(d.Get(id).Payload)) }
func (d *Decls) Type(id DeclID) *TypeDeclData { return d.Types.Get(uint32(d.Get(id).Payload)) }
func (d *Decls) SubprogramSpec(id DeclID) *SubprogramSpecData {
	return d.SubprogramSpecs.Get(uint32(d.Get(id).Payload))
}
func (d *Decls) SubprogramBody(id DeclID) *SubprogramBodyData {
	return d.SubprogramBodies.Get(uint32(d.Get(id).Payload))
}
func (d *Decls) PackageSpec(id DeclID) *PackageSpecData {
	return d.PackageSpecs.Get(uint32(d.Get(id).Payload))
}
func (d *Decls) PackageBody(id DeclID) *PackageBodyData {
	return d.PackageBodies.Get(uint32(d.Get(id).Payload))
}
func (d *Decls) Generic(id DeclID) *GenericDeclData { return d.Generics.Get(uint32(d.Get(id).Payload)) }
func (d *Decls) GenericInst(id DeclID) *GenericInstData {
	return d.GenericInsts.Get(uint32(d.Get(id).Payload))
}
func (d *Decls) Exception(id DeclID) *ExceptionDeclData {
	return d.Exceptions.Get(uint32(d.Get(id).Payload))
}
func (d *Decls) Renaming(id DeclID) *RenamingData { return d.Renamings.Get(uint32(d.Get(id).Payload)) }
