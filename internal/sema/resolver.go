// Package sema implements the semantic analysis pass: name binding,
// overload resolution, type and subtype elaboration, aggregate
// normalization, and the insertion of explicit runtime-check nodes
// ahead of IR generation.
package sema

import (
	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/generics"
	"adalite/internal/source"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// Options configures a Resolver run over one or more compilation units.
type Options struct {
	Bag      *diag.Bag
	Files    *source.FileSet
	Symbols  *symbols.Table
	Types    *types.Table
	Prelude  *symbols.Prelude
	Generics *generics.Registry
}

// Result collects the artefacts a resolver pass produces, consumed by
// the generic engine and the IR generator.
type Result struct {
	// ExprTypes records the resolved type of every expression node that
	// was successfully typed.
	ExprTypes map[ast.ExprID]types.TypeID
	// ExprSymbols records the resolved symbol behind a name, call, or
	// selected-component expression.
	ExprSymbols map[ast.ExprID]symbols.SymbolID
	// DeclSymbols records the symbol a declaration introduced.
	DeclSymbols map[ast.DeclID]symbols.SymbolID
	// UnitScopes records the scope opened for each compilation unit.
	UnitScopes map[int]symbols.ScopeID
	// ObjectSymbols records, in declaration order, the symbol installed
	// for each name of a DeclObject — a single DeclID can introduce
	// several names (`X, Y : Integer;`), so DeclSymbols' one-slot map
	// cannot carry all of them.
	ObjectSymbols map[ast.DeclID][]symbols.SymbolID
	// ParamSymbols records, in declaration order, the symbol installed
	// for each formal of a DeclSubprogramBody, keyed by the body's own
	// DeclID.
	ParamSymbols map[ast.DeclID][]symbols.SymbolID
	// LoopVarSymbols records the induction-variable symbol of a `for`
	// loop, keyed by the StmtLoop's own StmtID.
	LoopVarSymbols map[ast.StmtID]symbols.SymbolID
	// InstantiationDecls maps a DeclGenericInstantiation to the concrete
	// declaration generics.Instantiate produced and the resolver then
	// elaborated in its place (§4.6).
	InstantiationDecls map[ast.DeclID]ast.DeclID
}

func newResult() *Result {
	return &Result{
		ExprTypes:          make(map[ast.ExprID]types.TypeID),
		ExprSymbols:        make(map[ast.ExprID]symbols.SymbolID),
		DeclSymbols:        make(map[ast.DeclID]symbols.SymbolID),
		UnitScopes:         make(map[int]symbols.ScopeID),
		ObjectSymbols:      make(map[ast.DeclID][]symbols.SymbolID),
		ParamSymbols:       make(map[ast.DeclID][]symbols.SymbolID),
		LoopVarSymbols:     make(map[ast.StmtID]symbols.SymbolID),
		InstantiationDecls: make(map[ast.DeclID]ast.DeclID),
	}
}

// Resolver walks a Builder's AST, binding names, elaborating types,
// and annotating expression/statement nodes with their resolved type
// and symbol (§4.1-§4.5).
type Resolver struct {
	bag     *diag.Bag
	files   *source.FileSet
	symbols *symbols.Table
	types   *types.Table
	prelude *symbols.Prelude
	builder *ast.Builder

	generics *generics.Registry

	result *Result

	// loopLabels tracks the labels of loops currently being resolved, so
	// `exit Label` can be checked against an enclosing loop (§4.5).
	loopLabels []source.StringID

	// inHandler is true while resolving a handled sequence of
	// statements, so `raise;` (a bare re-raise) can be validated (§4.5).
	inHandler bool
}

// New creates a Resolver bound to opts. Synth is wired as the symbol
// table's operator-synthesis hook so closing a scope can synthesize
// the implicit `=`, `/=`, assignment, and default-init operators a
// newly frozen record or array type requires (§4.2).
func New(builder *ast.Builder, opts Options) *Resolver {
	r := &Resolver{
		bag:      opts.Bag,
		files:    opts.Files,
		symbols:  opts.Symbols,
		types:    opts.Types,
		prelude:  opts.Prelude,
		generics: opts.Generics,
		builder:  builder,
		result:   newResult(),
	}
	if r.generics == nil {
		r.generics = generics.NewRegistry()
	}
	if r.symbols != nil {
		r.symbols.Synth = r.synthesizeOperators
	}
	return r
}

// ResolveFile resolves every unit of f in order, opening and closing a
// library-unit scope per unit.
func (r *Resolver) ResolveFile(f *ast.File) *Result {
	for i := range f.Units {
		r.resolveUnit(&f.Units[i])
	}
	return r.result
}

func (r *Resolver) resolveUnit(u *ast.Unit) {
	scope := r.symbols.OpenScope(symbols.ScopeLibraryUnit)
	r.resolveContext(u.Context)
	r.resolveDecl(u.Decl, scope)
	r.symbols.CloseScope()
}

func (r *Resolver) resolveContext(ctx ast.ContextClause) {
	for _, w := range ctx.Withs {
		sym := r.symbols.Lookup(r.symbols.Current(), w.Name)
		if sym == symbols.NoSymbolID {
			r.bag.Errorf(diag.Semantic, w.Span, "unknown library unit %q in with clause",
				r.symbols.Strings.Spelling(w.Name))
		}
	}
	for _, u := range ctx.Uses {
		sym := r.symbols.Lookup(r.symbols.Current(), u.Name)
		if sym != symbols.NoSymbolID {
			r.symbols.MakeUseVisible(sym)
		}
	}
}

func (r *Resolver) errorf(span source.Span, format string, args ...any) {
	r.bag.Errorf(diag.Semantic, span, format, args...)
}
