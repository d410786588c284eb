package driver

import (
	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/generics"
	"adalite/internal/source"
	"adalite/internal/symbols"
	"adalite/internal/types"

	"golang.org/x/sync/singleflight"
)

// Context owns every table shared across one compiler invocation. It
// persists for the lifetime of one `adac build`, so a with'd unit
// parsed while resolving one file stays visible, by name, to every
// unit resolved after it.
type Context struct {
	Includes Includes
	Bag      *diag.Bag
	Files    *source.FileSet
	Strings  *source.Interner
	Types    *types.Table
	Symbols  *symbols.Table
	Prelude  *symbols.Prelude
	Builder  *ast.Builder
	Generics *generics.Registry

	// Progress, when set, receives Stage/Status events as Compile
	// works through the with-closure; `adac diagnose` drives it into
	// internal/ui's progress model. Nil is the default, silent, mode.
	Progress ProgressSink

	sf singleflight.Group
}

// NewContext creates a Context rooted at STANDARD (§C.3), searching
// includes for with'd units.
func NewContext(includes Includes) *Context {
	strings := source.NewInterner()
	ty := types.NewTable()
	symTable := symbols.NewTable(strings, ty)
	prelude := symbols.InstallPrelude(symTable)
	return &Context{
		Includes: includes,
		Bag:      diag.NewBag(),
		Files:    source.NewFileSet(),
		Strings:  strings,
		Types:    ty,
		Symbols:  symTable,
		Prelude:  prelude,
		Builder:  ast.NewBuilder(strings, ast.DefaultHints),
		Generics: generics.NewRegistry(),
	}
}

// registerLibraryUnit makes name visible, as a symbol of the given kind, at the
// persistent STANDARD scope so later units' `with` clauses resolve it.
// sema.Resolver's per-unit scope is opened and closed around each
// individual unit (it has no notion of a multi-file build), so a
// compiled unit's own library scope never survives past its own
// resolution; the driver bridges that gap by re-registering the name
// one level up, at the one scope every unit's chain shares.
func (c *Context) registerLibraryUnit(name source.StringID, kind symbols.Kind) {
	if name == source.NoStringID {
		return
	}
	if c.Symbols.Lookup(c.Prelude.Scope, name) != symbols.NoSymbolID {
		return
	}
	c.Symbols.AddTo(c.Prelude.Scope, name, symbols.Symbol{Kind: kind})
}
