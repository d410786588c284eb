package ast

import "adalite/internal/source"

// Hints sizes a Builder's initial arena capacities; a driver parsing a
// large source tree can precompute rough per-file hints to cut down on
// arena growth reallocations.
type Hints struct {
	Exprs     uint
	Stmts     uint
	TypeExprs uint
	Decls     uint
}

// DefaultHints are reasonable arena sizes for a single compilation unit.
var DefaultHints = Hints{Exprs: 256, Stmts: 128, TypeExprs: 64, Decls: 64}

// Builder owns every per-kind node table for one compiler invocation's
// worth of parsed source and the shared string interner parser and
// resolver both need, mirroring the teacher's aggregation of per-shape
// arenas behind one builder handle.
type Builder struct {
	Strings *source.Interner

	Exprs     *Exprs
	Stmts     *Stmts
	TypeExprs *TypeExprs
	Decls     *Decls

	Files []*File
}

// NewBuilder allocates a Builder with capacities sized by hints,
// sharing strings for identifier interning.
func NewBuilder(strings *source.Interner, hints Hints) *Builder {
	return &Builder{
		Strings:   strings,
		Exprs:     NewExprs(hints.Exprs),
		Stmts:     NewStmts(hints.Stmts),
		TypeExprs: NewTypeExprs(hints.TypeExprs),
		Decls:     NewDecls(hints.Decls),
	}
}

// AddFile registers a parsed file's units and returns its index into Files.
func (b *Builder) AddFile(f *File) int {
	b.Files = append(b.Files, f)
	return len(b.Files) - 1
}
