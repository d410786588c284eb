package symbols

import (
	"fmt"

	"adalite/internal/arena"
	"adalite/internal/source"
	"adalite/internal/types"
)

// OperatorSynthesizer is invoked by Table.CloseScope whenever a
// record/array type declared in the closing scope freezes for the
// first time, so the resolver can install the implicit `=`/`/=`
// symbols and record the assignment and default-init entries of the
// type's operator vector (those two get no symbol) (§4.2). The
// symbols package only drives the lifecycle; the resolver (which
// already depends on both symbols and types) supplies the synthesis
// logic, keeping this package free of a dependency on the AST.
type OperatorSynthesizer func(tbl *Table, typeID types.TypeID)

// Table is the hashed scope chain: arenas of scopes and symbols plus
// the case-insensitive string interner they share with the rest of the
// compiler.
type Table struct {
	Scopes  *arena.Arena[Scope]
	Symbols *arena.Arena[Symbol]
	Strings *source.Interner
	Types   *types.Table

	current ScopeID
	Synth   OperatorSynthesizer
}

// NewTable builds an empty Table rooted at no scope; call OpenScope to
// create the STANDARD root.
func NewTable(strings *source.Interner, ty *types.Table) *Table {
	return &Table{
		Scopes:  arena.New[Scope](64),
		Symbols: arena.New[Symbol](512),
		Strings: strings,
		Types:   ty,
	}
}

// Current returns the innermost currently-open scope.
func (t *Table) Current() ScopeID { return t.current }

// OpenScope pushes a new lexical scope as a child of the current one
// (or as a root, if none is open) and returns its ID (§4.1).
func (t *Table) OpenScope(kind ScopeKind) ScopeID {
	level := 0
	parent := t.current
	if parent != NoScopeID {
		if ps := t.Scopes.Get(uint32(parent)); ps != nil {
			level = ps.Level
			if kind == ScopeSubprogram || kind == ScopeBlock {
				level++
			}
		}
	}
	id := ScopeID(t.Scopes.Alloc(*newScope(kind, parent, level)))
	if parent != NoScopeID {
		if ps := t.Scopes.Get(uint32(parent)); ps != nil {
			ps.Children = append(ps.Children, id)
		}
	}
	t.current = id
	return id
}

// CloseScope pops the current scope: every type declared directly in
// it is frozen (recursively, via types.Table.Freeze), the resolver's
// OperatorSynthesizer runs for each newly-frozen nominal record/array,
// and the scope's symbols have their direct-visibility bit cleared. A
// package's symbols keep use-visibility (bit VisUse) in the enclosing
// scope — the caller arranges that via MakeUseVisible before closing a
// package body's own scope, matching §4.1.
func (t *Table) CloseScope() {
	scope := t.Scopes.Get(uint32(t.current))
	if scope == nil {
		return
	}
	for _, sid := range scope.Order {
		sym := t.Symbols.Get(uint32(sid))
		if sym == nil {
			continue
		}
		if sym.Kind == KindType && sym.Type != types.NoTypeID {
			if t.Types.Freeze(sym.Type) && t.Synth != nil {
				ty := t.Types.Get(sym.Type)
				if ty != nil && (ty.Kind == types.KindRecord || ty.Kind == types.KindArray) {
					t.Synth(t, sym.Type)
				}
			}
		}
		sym.Visibility &^= VisDirect
	}
	t.current = scope.Parent
}

// Add installs a symbol into the current scope, prepending it to its
// name's overload chain and assigning the next elaboration ordinal
// (§4.1). The symbol becomes directly visible.
func (t *Table) Add(name source.StringID, sym Symbol) SymbolID {
	scope := t.Scopes.Get(uint32(t.current))
	if scope == nil {
		panic("symbols: Add called with no open scope")
	}
	sym.Name = name
	sym.Scope = t.current
	sym.NestingLevel = scope.Level
	sym.Visibility |= VisDirect
	scope.nextOrd++
	sym.ElabOrdinal = scope.nextOrd
	if scope.Package != NoSymbolID {
		sym.PackageParent = scope.Package
	}
	sym.OverloadNext = scope.Buckets[name]

	id := SymbolID(t.Symbols.Alloc(sym))
	scope.Buckets[name] = id
	scope.Order = append(scope.Order, id)
	return id
}

// AddTo installs a symbol directly into scope rather than the current
// one, restoring the current scope afterward. A driver compiling more
// than one file uses this to re-register a completed library unit's
// package symbol at the persistent STANDARD scope, so a later unit's
// `with` clause can find it even though the unit's own library scope
// closed when its resolution finished.
func (t *Table) AddTo(scope ScopeID, name source.StringID, sym Symbol) SymbolID {
	saved := t.current
	t.current = scope
	id := t.Add(name, sym)
	t.current = saved
	return id
}

// Get returns a pointer to the symbol for id, or nil.
func (t *Table) Get(id SymbolID) *Symbol {
	if id == NoSymbolID {
		return nil
	}
	return t.Symbols.Get(uint32(id))
}

// GetScope returns a pointer to the scope for id, or nil.
func (t *Table) GetScope(id ScopeID) *Scope {
	if id == NoScopeID {
		return nil
	}
	return t.Scopes.Get(uint32(id))
}

// Lookup returns the innermost directly-visible symbol named name,
// walking outward through enclosing scopes. Within one scope, a
// directly-visible symbol beats a use-visible one; failing that, the
// first use-visible symbol wins (§4.1). Identifiers compare
// case-insensitively because name is already a folded StringID.
func (t *Table) Lookup(scope ScopeID, name source.StringID) SymbolID {
	for s := scope; s != NoScopeID; {
		sc := t.GetScope(s)
		if sc == nil {
			break
		}
		if head, ok := sc.Buckets[name]; ok {
			if best := t.bestInChain(head); best != NoSymbolID {
				return best
			}
		}
		s = sc.Parent
	}
	return NoSymbolID
}

// bestInChain scans one name's overload chain (newest-first) for the
// first directly-visible symbol, falling back to the first use-visible
// one.
func (t *Table) bestInChain(head SymbolID) SymbolID {
	var useVisible SymbolID
	for id := head; id != NoSymbolID; {
		sym := t.Get(id)
		if sym == nil {
			break
		}
		if sym.Visibility&VisDirect != 0 {
			return id
		}
		if useVisible == NoSymbolID && sym.Visibility&VisUse != 0 {
			useVisible = id
		}
		id = sym.OverloadNext
	}
	return useVisible
}

// Candidates collects every symbol (direct or use-visible) on name's
// overload chain starting at scope, walking outward, for use by
// LookupWithArity.
func (t *Table) Candidates(scope ScopeID, name source.StringID) []SymbolID {
	var out []SymbolID
	for s := scope; s != NoScopeID; {
		sc := t.GetScope(s)
		if sc == nil {
			break
		}
		if head, ok := sc.Buckets[name]; ok {
			for id := head; id != NoSymbolID; {
				sym := t.Get(id)
				if sym == nil {
					break
				}
				if sym.Visibility&(VisDirect|VisUse) != 0 {
					out = append(out, id)
				}
				id = sym.OverloadNext
			}
		}
		if len(out) > 0 {
			// Same-scope candidates are collected first (§4.1); stop
			// walking outward once the innermost scope with any match
			// has contributed its set.
			break
		}
		s = sc.Parent
	}
	return out
}

// LookupWithArity scores every overload candidate named name reachable
// from scope and returns the best fit for a call with argCount
// arguments and, optionally, an expected return type (§4.1). Ties keep
// the first candidate in declaration order.
func (t *Table) LookupWithArity(scope ScopeID, name source.StringID, argCount int, argTypes []types.TypeID, expected types.TypeID) SymbolID {
	const arityBonus = 1000
	candidates := t.Candidates(scope, name)
	best := NoSymbolID
	bestScore := -1
	for _, id := range candidates {
		sym := t.Get(id)
		if sym == nil {
			continue
		}
		score := 0
		if len(sym.Params) == argCount {
			score += arityBonus
		} else {
			continue
		}
		if expected != types.NoTypeID && sym.ReturnTy != types.NoTypeID {
			score += t.Types.Score(expected, sym.ReturnTy)
		}
		for i, p := range sym.Params {
			if i < len(argTypes) {
				score += t.Types.Score(p.Type, argTypes[i])
			}
		}
		// Candidates come newest-first, so >= lets an equal score from
		// an earlier declaration replace a later one.
		if score >= bestScore {
			bestScore = score
			best = id
		}
	}
	return best
}

// MakeUseVisible re-exports pkg's directly-visible declarations
// (including enumeration literals and exceptions) with VisUse set in
// the current scope. visited prevents re-walking a package reachable
// through more than one `use` clause in the same scope (§4.1).
func (t *Table) MakeUseVisible(pkg SymbolID) {
	visited := make(map[SymbolID]bool)
	t.makeUseVisible(pkg, visited)
}

func (t *Table) makeUseVisible(pkg SymbolID, visited map[SymbolID]bool) {
	if visited[pkg] {
		return
	}
	visited[pkg] = true
	sym := t.Get(pkg)
	if sym == nil || sym.Kind != KindPackage {
		return
	}
	pkgScope := t.findPackageScope(pkg)
	if pkgScope == NoScopeID {
		return
	}
	sc := t.GetScope(pkgScope)
	current := t.Scopes.Get(uint32(t.current))
	if sc == nil || current == nil {
		return
	}
	for _, id := range sc.Order {
		member := t.Get(id)
		if member == nil || member.Visibility&VisDirect == 0 {
			continue
		}
		member.Visibility |= VisUse
		member.OverloadNext = current.Buckets[member.Name]
		current.Buckets[member.Name] = id
	}
}

// findPackageScope locates the scope owned by a package symbol by
// scanning every scope for one whose Package field matches. Packages
// are few per run, so a linear scan over the scope arena is adequate.
func (t *Table) findPackageScope(pkg SymbolID) ScopeID {
	var found ScopeID
	t.Scopes.All(func(idx uint32, sc *Scope) bool {
		if sc.Package == pkg {
			found = ScopeID(idx)
			return false
		}
		return true
	})
	return found
}

// QualifiedName renders a dotted name for diagnostics and mangling,
// e.g. "PKG.CHILD.NAME".
func (t *Table) QualifiedName(id SymbolID) string {
	sym := t.Get(id)
	if sym == nil {
		return "?"
	}
	name := t.Strings.Spelling(sym.Name)
	if sym.PackageParent == NoSymbolID {
		return name
	}
	return fmt.Sprintf("%s.%s", t.QualifiedName(sym.PackageParent), name)
}
